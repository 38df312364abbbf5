package demo

import (
	"ptrkit/internal/leaktrack"
	"ptrkit/pkg/shared"
)

// strongNode links forward and back with owning handles, forming the
// classic reference cycle.
type strongNode struct {
	name string
	peer *shared.Shared[strongNode]
}

// weakNode breaks the cycle by observing its parent instead of owning it.
type weakNode struct {
	name   string
	child  *shared.Shared[weakNode]
	parent *shared.Weak[weakNode]
}

// CycleLeak builds two objects that own each other, drops every external
// handle, and lets the leak tracker show that the pair survives. It then
// rebuilds the structure with a weak back-reference and shows the fix.
func (r *Runner) CycleLeak() error {
	r.header("shared ownership: the cycle trap")
	r.prose("Owner counting has one blind spot: objects that own each " +
		"other. Each keeps the other's count above zero, so neither deleter " +
		"ever runs. A leak checker is how you find out.")

	tracker := leaktrack.Default()
	wasEnabled := tracker.Enabled()
	tracker.Reset()
	tracker.Enable()
	defer func() {
		if !wasEnabled {
			tracker.Disable()
		}
	}()

	if err := r.strongCycle(tracker); err != nil {
		return err
	}

	r.prose("The fix is directional: let one side *own* and the other " +
		"*observe*. The weak back-reference cannot keep its target alive, so " +
		"the chain unwinds as soon as the external owners let go.")

	tracker.Reset()
	return r.weakCycle(tracker)
}

func (r *Runner) strongCycle(tracker *leaktrack.Tracker) error {
	cascade := func(n *strongNode) {
		r.printf("deleter: destroying node %s\n", n.name)
		if n.peer != nil {
			_ = n.peer.Drop()
		}
	}
	a := shared.NewWithDeleter(strongNode{name: "a"}, cascade)
	b := shared.NewWithDeleter(strongNode{name: "b"}, cascade)

	var err error
	if a.MustGet().peer, err = b.Clone(); err != nil {
		return err
	}
	if b.MustGet().peer, err = a.Clone(); err != nil {
		return err
	}
	r.printf("cycle built: a.owners=%d b.owners=%d\n", a.Owners(), b.Owners())

	if err := a.Drop(); err != nil {
		return err
	}
	if err := b.Drop(); err != nil {
		return err
	}
	r.printf("external handles dropped, no deleter ran\n")

	return tracker.Report(r.Out)
}

func (r *Runner) weakCycle(tracker *leaktrack.Tracker) error {
	cascade := func(n *weakNode) {
		r.printf("deleter: destroying node %s\n", n.name)
		if n.child != nil {
			_ = n.child.Drop()
		}
		if n.parent != nil {
			_ = n.parent.Drop()
		}
	}
	parent := shared.NewWithDeleter(weakNode{name: "parent"}, cascade)
	child := shared.NewWithDeleter(weakNode{name: "child"}, cascade)

	var err error
	if parent.MustGet().child, err = child.Clone(); err != nil {
		return err
	}
	if child.MustGet().parent, err = parent.Downgrade(); err != nil {
		return err
	}
	r.printf("weak cycle built: parent.owners=%d child.owners=%d\n",
		parent.Owners(), child.Owners())

	if err := child.Drop(); err != nil {
		return err
	}
	if err := parent.Drop(); err != nil {
		return err
	}

	return tracker.Report(r.Out)
}
