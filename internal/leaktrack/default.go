package leaktrack

// The default tracker backs the package-level functions. Handle
// constructors in pkg/unique and pkg/shared register against it, so a
// process gets leak tracking by flipping one switch.
var std = NewTracker()

// Default returns the process-wide tracker.
func Default() *Tracker { return std }

// Enable turns on the process-wide tracker.
func Enable() { std.Enable() }

// Disable turns off the process-wide tracker.
func Disable() { std.Disable() }

// Enabled reports whether the process-wide tracker is recording.
func Enabled() bool { return std.Enabled() }

// Register records an allocation with the process-wide tracker.
func Register(kind Kind, typeName string, callerSkip int) string {
	return std.Register(kind, typeName, callerSkip+1)
}

// Unregister removes an allocation from the process-wide tracker.
func Unregister(id string) { std.Unregister(id) }
