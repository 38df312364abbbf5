package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ptrkit/internal/leaktrack"
	"ptrkit/pkg/shared"
)

var leakCycles int

// ring links two objects as mutual owners, the pathological shape the
// tracker exists to catch.
type ring struct {
	id   int
	peer *shared.Shared[ring]
}

var leaksCmd = &cobra.Command{
	Use:   "leaks",
	Short: "Run a deliberately leaky workload and print the tracker report",
	RunE: func(cmd *cobra.Command, args []string) error {
		tracker := leaktrack.Default()
		tracker.Reset()
		tracker.Enable()

		for i := 0; i < leakCycles; i++ {
			a := shared.New(ring{id: 2 * i})
			b := shared.New(ring{id: 2*i + 1})
			a.MustGet().peer = b.MustClone()
			b.MustGet().peer = a.MustClone()
			_ = a.Drop()
			_ = b.Drop()
		}
		logger.Info("leaky workload finished",
			zap.Int("cycles", leakCycles),
			zap.Int("live_allocations", len(tracker.Snapshot())))

		return tracker.Report(cmd.OutOrStdout())
	},
}

func init() {
	leaksCmd.Flags().IntVar(&leakCycles, "cycles", 3, "number of reference cycles to leak")
	rootCmd.AddCommand(leaksCmd)
}
