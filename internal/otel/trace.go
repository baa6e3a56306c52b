package otel

import (
	"os"
	"strings"
	"sync/atomic"
)

// TraceEnv is the environment variable that turns on message tracing.
const TraceEnv = "POKESEARCH_TRACE"

var traceEnabled atomic.Bool

func init() {
	traceEnabled.Store(traceFromEnv(os.Getenv))
}

// traceFromEnv treats any value except "", "0", "false" and "off" as on.
func traceFromEnv(getenv func(string) string) bool {
	switch strings.ToLower(strings.TrimSpace(getenv(TraceEnv))) {
	case "", "0", "false", "off":
		return false
	}
	return true
}

// TraceEnabled reports whether POKESEARCH_TRACE was set at startup.
func TraceEnabled() bool {
	return traceEnabled.Load()
}

// setTraceEnabled overrides the flag in tests.
func setTraceEnabled(v bool) {
	traceEnabled.Store(v)
}
