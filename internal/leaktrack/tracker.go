// Package leaktrack records live managed allocations so that objects still
// owned at a checkpoint can be reported, in the spirit of a memory leak
// checker. Tracking is off by default and costs a single atomic load per
// constructor call while disabled.
package leaktrack

import (
	"fmt"
	"io"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Kind classifies the handle that owns a tracked allocation.
type Kind string

const (
	KindUnique Kind = "unique"
	KindShared Kind = "shared"
)

// Allocation describes one live managed object.
type Allocation struct {
	ID      string
	Kind    Kind
	Type    string
	Origin  string // file:line of the constructing call site
	Created time.Time
}

// Tracker is a registry of live allocations. The zero value is not usable;
// construct with NewTracker. All methods are safe for concurrent use.
type Tracker struct {
	enabled atomic.Bool
	logger  atomic.Pointer[zap.Logger]

	mu   sync.Mutex
	live map[string]Allocation
}

// NewTracker returns a disabled tracker with a no-op logger.
func NewTracker() *Tracker {
	t := &Tracker{live: make(map[string]Allocation)}
	t.logger.Store(zap.NewNop())
	return t
}

// SetLogger replaces the tracker's logger. Register and Unregister events
// are logged at debug level.
func (t *Tracker) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	t.logger.Store(l)
}

// Enable turns tracking on.
func (t *Tracker) Enable() { t.enabled.Store(true) }

// Disable turns tracking off. Already-registered allocations stay in the
// registry until unregistered.
func (t *Tracker) Disable() { t.enabled.Store(false) }

// Enabled reports whether new allocations are being recorded.
func (t *Tracker) Enabled() bool { return t.enabled.Load() }

// Register records a live allocation and returns its ID. While the tracker
// is disabled it returns the empty string, which Unregister ignores.
// callerSkip counts stack frames above Register to attribute the origin to,
// so wrapper constructors report their caller rather than themselves.
func (t *Tracker) Register(kind Kind, typeName string, callerSkip int) string {
	if !t.enabled.Load() {
		return ""
	}
	a := Allocation{
		ID:      uuid.NewString(),
		Kind:    kind,
		Type:    typeName,
		Origin:  origin(callerSkip + 1),
		Created: time.Now(),
	}
	t.mu.Lock()
	t.live[a.ID] = a
	t.mu.Unlock()

	t.logger.Load().Debug("allocation registered",
		zap.String("id", a.ID),
		zap.String("kind", string(kind)),
		zap.String("type", typeName),
		zap.String("origin", a.Origin))
	return a.ID
}

// Unregister removes an allocation from the registry. An empty or unknown
// ID is a no-op, so destruction paths never fail.
func (t *Tracker) Unregister(id string) {
	if id == "" {
		return
	}
	t.mu.Lock()
	a, ok := t.live[id]
	delete(t.live, id)
	t.mu.Unlock()
	if ok {
		t.logger.Load().Debug("allocation released",
			zap.String("id", a.ID),
			zap.String("type", a.Type))
	}
}

// Snapshot returns the live allocations ordered by creation time.
func (t *Tracker) Snapshot() []Allocation {
	t.mu.Lock()
	out := make([]Allocation, 0, len(t.live))
	for _, a := range t.live {
		out = append(out, a)
	}
	t.mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Created.Equal(out[j].Created) {
			return out[i].ID < out[j].ID
		}
		return out[i].Created.Before(out[j].Created)
	})
	return out
}

// Reset drops every recorded allocation. Intended for test isolation.
func (t *Tracker) Reset() {
	t.mu.Lock()
	t.live = make(map[string]Allocation)
	t.mu.Unlock()
}

// Report writes a leak-checker style summary of live allocations to w.
func (t *Tracker) Report(w io.Writer) error {
	snap := t.Snapshot()
	if len(snap) == 0 {
		_, err := fmt.Fprintln(w, "leaktrack: no allocations lost, all owners released")
		return err
	}
	if _, err := fmt.Fprintf(w, "leaktrack: %d allocation(s) definitely lost\n", len(snap)); err != nil {
		return err
	}
	now := time.Now()
	for _, a := range snap {
		age := now.Sub(a.Created).Round(time.Millisecond)
		if _, err := fmt.Fprintf(w, "  [%s] %s allocated at %s (age %s)\n", a.Kind, a.Type, a.Origin, age); err != nil {
			return err
		}
	}
	return nil
}

func origin(skip int) string {
	pcs := make([]uintptr, 8)
	n := runtime.Callers(skip+2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		if f.File != "" && !internalFrame(f.File) {
			return fmt.Sprintf("%s:%d", f.File, f.Line)
		}
		if !more {
			break
		}
	}
	return "unknown"
}

// internalFrame hides the tracker and the handle constructors themselves so
// origins point at the call site that created the allocation.
func internalFrame(file string) bool {
	if strings.HasSuffix(file, "_test.go") {
		return false
	}
	return strings.Contains(file, "/internal/leaktrack/") ||
		strings.Contains(file, "/pkg/unique/") ||
		strings.Contains(file, "/pkg/shared/")
}
