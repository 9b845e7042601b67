package otel

import (
	"os"
	"sync/atomic"
)

// traceEnabled is set once at package init. Atomic because the frame loop
// reads it while tests toggle it.
var traceEnabled atomic.Bool

func init() {
	traceEnabled.Store(os.Getenv("STACKVIEW_TRACE") != "")
}

// TraceEnabled reports whether STACKVIEW_TRACE is set. Per-message tracing
// in the UI is skipped entirely when it is not.
func TraceEnabled() bool {
	return traceEnabled.Load()
}

// setTraceEnabled overrides the flag in tests.
func setTraceEnabled(v bool) {
	traceEnabled.Store(v)
}
