package leaktrack

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterUnregister(t *testing.T) {
	tr := NewTracker()
	tr.Enable()

	id := tr.Register(KindShared, "demo.Node", 0)
	require.NotEmpty(t, id)
	require.Len(t, tr.Snapshot(), 1)

	tr.Unregister(id)
	assert.Empty(t, tr.Snapshot())

	// Unknown and empty IDs are ignored.
	tr.Unregister(id)
	tr.Unregister("")
}

func TestDisabledTrackerRecordsNothing(t *testing.T) {
	tr := NewTracker()
	id := tr.Register(KindUnique, "int", 0)
	assert.Empty(t, id)
	assert.Empty(t, tr.Snapshot())
}

func TestSnapshotFields(t *testing.T) {
	tr := NewTracker()
	tr.Enable()

	tr.Register(KindUnique, "a", 0)
	tr.Register(KindShared, "b", 0)

	want := []Allocation{
		{Kind: KindUnique, Type: "a"},
		{Kind: KindShared, Type: "b"},
	}
	got := tr.Snapshot()
	diff := cmp.Diff(want, got,
		cmpopts.IgnoreFields(Allocation{}, "ID", "Origin", "Created"),
		cmpopts.SortSlices(func(a, b Allocation) bool { return a.Type < b.Type }))
	assert.Empty(t, diff)
	for _, a := range got {
		assert.Contains(t, a.Origin, "tracker_test.go")
	}
}

func TestReport(t *testing.T) {
	tr := NewTracker()
	tr.Enable()

	var buf bytes.Buffer
	require.NoError(t, tr.Report(&buf))
	assert.Contains(t, buf.String(), "no allocations lost")

	tr.Register(KindShared, "demo.Node", 0)
	buf.Reset()
	require.NoError(t, tr.Report(&buf))
	assert.Contains(t, buf.String(), "1 allocation(s) definitely lost")
	assert.Contains(t, buf.String(), "[shared] demo.Node")
}

type fakeT struct {
	failures []string
}

func (f *fakeT) Helper() {}
func (f *fakeT) Errorf(format string, args ...any) {
	f.failures = append(f.failures, fmt.Sprintf(format, args...))
}

func TestVerifyNone(t *testing.T) {
	tr := NewTracker()
	tr.Enable()

	var ft fakeT
	VerifyNone(&ft, WithTracker(tr))
	assert.Empty(t, ft.failures)

	tr.Register(KindShared, "demo.Node", 0)
	VerifyNone(&ft, WithTracker(tr))
	require.Len(t, ft.failures, 1)
	assert.Contains(t, ft.failures[0], "demo.Node")

	ft = fakeT{}
	VerifyNone(&ft, WithTracker(tr), IgnoreType("demo.Node"))
	assert.Empty(t, ft.failures)

	ft = fakeT{}
	VerifyNone(&ft, WithTracker(tr), IgnoreKind(KindShared))
	assert.Empty(t, ft.failures)
}
