package demo

import (
	"context"
	"fmt"
)

// Names lists the walkthrough names accepted by Run, in article order.
func Names() []string {
	return []string{"unique", "shared", "weak", "cycle"}
}

// Run executes the named walkthrough, or every walkthrough for "all".
func (r *Runner) Run(ctx context.Context, name string) error {
	switch name {
	case "unique":
		if err := r.UniqueBasics(); err != nil {
			return err
		}
		return r.UniqueTransfer()
	case "shared":
		if err := r.SharedCounts(); err != nil {
			return err
		}
		return r.SharedConcurrent(ctx)
	case "weak":
		return r.WeakObserver()
	case "cycle":
		return r.CycleLeak()
	case "all":
		for _, n := range Names() {
			if err := r.Run(ctx, n); err != nil {
				return fmt.Errorf("walkthrough %s: %w", n, err)
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown walkthrough %q (want one of %v or all)", name, Names())
	}
}
