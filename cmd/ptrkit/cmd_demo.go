package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ptrkit/internal/demo"
)

var demoCmd = &cobra.Command{
	Use:       "demo [walkthrough]",
	Short:     "Run the article walkthroughs (unique, shared, weak, cycle, all)",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: append(demo.Names(), "all"),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := "all"
		if len(args) == 1 {
			name = args[0]
		}
		logger.Debug("running walkthrough", zap.String("name", name))
		r := &demo.Runner{Out: cmd.OutOrStdout(), Color: cfg.Demo.ColorEnabled()}
		return r.Run(cmd.Context(), name)
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}
