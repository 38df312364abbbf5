package demo

import (
	"errors"

	"ptrkit/pkg/unique"
)

type fileHandle struct {
	path string
}

// UniqueBasics shows construction, access and deterministic destruction of
// an exclusively owned object.
func (r *Runner) UniqueBasics() error {
	r.header("exclusive ownership: basics")
	r.prose("A `Unique` handle is the *sole* owner of its object. " +
		"When the handle closes, the deleter runs. There is no second owner " +
		"to race with, so destruction is deterministic.")

	u := unique.NewWithDeleter(fileHandle{path: "/tmp/report.txt"}, func(f *fileHandle) {
		r.printf("deleter: closing %s\n", f.path)
	})
	f, err := u.Get()
	if err != nil {
		return err
	}
	r.printf("owning handle opened %s\n", f.path)

	if err := u.Close(); err != nil {
		return err
	}
	r.printf("handle closed, object destroyed\n")

	// A second Close is a harmless no-op: the deleter already ran.
	if err := u.Close(); err != nil {
		return err
	}
	r.printf("second close: no-op, deleter did not run again\n")
	return nil
}

// UniqueTransfer shows move-only ownership transfer and the error a
// moved-from handle reports.
func (r *Runner) UniqueTransfer() error {
	r.header("exclusive ownership: transfer")
	r.prose("Ownership moves, it does not copy. After `Move`, the source " +
		"handle is empty and says so when asked.")

	src := unique.NewWithDeleter(fileHandle{path: "/tmp/journal.txt"}, func(f *fileHandle) {
		r.printf("deleter: closing %s\n", f.path)
	})
	dst := src.Move()
	r.printf("ownership moved to new handle: valid=%v\n", dst.Valid())

	if _, err := src.Get(); errors.Is(err, unique.ErrMoved) {
		r.printf("source handle after move: %v\n", err)
	}

	return dst.Close()
}
