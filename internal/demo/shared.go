package demo

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"ptrkit/pkg/shared"
)

type document struct {
	title string
}

// SharedCounts shows the owner count rising with each clone and the
// deleter firing only when the last owner drops.
func (r *Runner) SharedCounts() error {
	r.header("shared ownership: owner counts")
	r.prose("A `Shared` handle co-owns its object. Every clone bumps the " +
		"owner count; the deleter runs exactly once, when the count hits zero.")

	s := shared.NewWithDeleter(document{title: "quarterly"}, func(d *document) {
		r.printf("deleter: destroying document %q\n", d.title)
	})
	r.printf("owners after construction: %d\n", s.Owners())

	editor, err := s.Clone()
	if err != nil {
		return err
	}
	r.printf("owners after clone for editor: %d\n", s.Owners())

	viewer, err := s.Clone()
	if err != nil {
		return err
	}
	r.printf("owners after clone for viewer: %d\n", s.Owners())

	if err := viewer.Drop(); err != nil {
		return err
	}
	r.printf("viewer dropped, owners: %d\n", s.Owners())

	if err := editor.Drop(); err != nil {
		return err
	}
	r.printf("editor dropped, owners: %d\n", s.Owners())

	if err := s.Drop(); err != nil {
		return err
	}
	r.printf("last owner dropped\n")
	return nil
}

// SharedConcurrent fans the same object out to a pool of goroutines. Each
// worker owns its clone; the object outlives them all and dies exactly once.
func (r *Runner) SharedConcurrent(ctx context.Context) error {
	r.header("shared ownership: concurrent owners")
	r.prose("Clone and drop are atomic, so goroutines can share an object " +
		"without coordinating its lifetime. Each worker drops its own clone; " +
		"whichever owner is last triggers destruction.")

	const workers = 8

	s := shared.NewWithDeleter(document{title: "ledger"}, func(d *document) {
		r.printf("deleter: destroying document %q\n", d.title)
	})

	g, _ := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		c, err := s.Clone()
		if err != nil {
			return err
		}
		g.Go(func() error {
			defer c.Drop()
			d, err := c.Get()
			if err != nil {
				return err
			}
			_ = d.title
			time.Sleep(time.Millisecond)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	r.printf("all %d workers finished, owners: %d\n", workers, s.Owners())
	return s.Drop()
}
