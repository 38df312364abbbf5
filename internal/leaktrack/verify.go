package leaktrack

import (
	"strings"
)

// TestingT is the subset of testing.TB needed by VerifyNone.
type TestingT interface {
	Helper()
	Errorf(format string, args ...any)
}

// Option filters which live allocations count as leaks.
type Option func(*verifyOpts)

type verifyOpts struct {
	tracker     *Tracker
	ignoreTypes map[string]struct{}
	ignoreKinds map[Kind]struct{}
}

// IgnoreType excludes allocations of the given type name from verification.
func IgnoreType(typeName string) Option {
	return func(o *verifyOpts) { o.ignoreTypes[typeName] = struct{}{} }
}

// IgnoreKind excludes allocations of the given handle kind.
func IgnoreKind(k Kind) Option {
	return func(o *verifyOpts) { o.ignoreKinds[k] = struct{}{} }
}

// WithTracker verifies against the given tracker instead of the default.
func WithTracker(t *Tracker) Option {
	return func(o *verifyOpts) { o.tracker = t }
}

// VerifyNone fails the test when live allocations remain, listing each one.
// Call it via defer at the top of a test, after enabling tracking:
//
//	tr := leaktrack.NewTracker()
//	tr.Enable()
//	defer leaktrack.VerifyNone(t, leaktrack.WithTracker(tr))
func VerifyNone(t TestingT, opts ...Option) {
	t.Helper()

	o := verifyOpts{
		tracker:     std,
		ignoreTypes: make(map[string]struct{}),
		ignoreKinds: make(map[Kind]struct{}),
	}
	for _, opt := range opts {
		opt(&o)
	}

	var leaked []Allocation
	for _, a := range o.tracker.Snapshot() {
		if _, ok := o.ignoreTypes[a.Type]; ok {
			continue
		}
		if _, ok := o.ignoreKinds[a.Kind]; ok {
			continue
		}
		leaked = append(leaked, a)
	}
	if len(leaked) == 0 {
		return
	}

	var sb strings.Builder
	for _, a := range leaked {
		sb.WriteString("\n  [")
		sb.WriteString(string(a.Kind))
		sb.WriteString("] ")
		sb.WriteString(a.Type)
		sb.WriteString(" allocated at ")
		sb.WriteString(a.Origin)
	}
	t.Errorf("found %d leaked allocation(s):%s", len(leaked), sb.String())
}
