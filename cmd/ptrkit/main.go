// ptrkit demonstrates exclusive, shared and weak ownership handles, with a
// leak tracker that reports objects whose owners never let go.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"ptrkit/internal/config"
	"ptrkit/internal/leaktrack"
)

var (
	// Global flags
	cfgPath string
	verbose bool

	cfg      config.Config
	logger   *zap.Logger
	logLevel zap.AtomicLevel
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "ptrkit",
	Short: "ptrkit - ownership handles with a built-in leak checker",
	Long: `ptrkit is a companion to a pair of articles on ownership semantics.

It implements three handle types over a shared control block:

  unique  exclusive, move-only ownership with deterministic destruction
  shared  atomically counted co-ownership, destroyed by the last owner
  weak    non-owning observation with liveness checks and upgrade

The demo subcommands run the articles' example programs; the leaks and
inspect subcommands show the allocation tracker at work.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}

		level, err := zapcore.ParseLevel(cfg.Logging.Level)
		if err != nil {
			return fmt.Errorf("parse log level: %w", err)
		}
		if verbose {
			level = zapcore.DebugLevel
		}
		logLevel = zap.NewAtomicLevelAt(level)

		zc := zap.NewProductionConfig()
		zc.Level = logLevel
		if !cfg.Logging.JSON {
			zc.Encoding = "console"
		}
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("build logger: %w", err)
		}

		tracker := leaktrack.Default()
		tracker.SetLogger(logger.Named("leaktrack"))
		if cfg.Tracker.Enabled {
			tracker.Enable()
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "ptrkit.yaml", "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
