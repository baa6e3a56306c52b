// Package otel provides structured observability for pokesearch.
//
// Events are typed structs serialized as JSONL lines. The Logger writes
// events asynchronously via a buffered channel and background drain goroutine.
// An optional RingBuffer keeps recent events in memory for the debug overlay.
package otel

import (
	"encoding/json"
	"strings"
	"time"
)

// Level defines event severity for filtering.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// EventKind identifies the category of an observability event.
// Dot-delimited: "<subsystem>.<action>".
type EventKind string

const (
	// Search controller events
	KindSearchDebounce EventKind = "search.debounce"
	KindSearchStart    EventKind = "search.start"
	KindSearchComplete EventKind = "search.complete"
	KindSearchError    EventKind = "search.error"
	KindSearchCancel   EventKind = "search.cancel"
	KindSearchStale    EventKind = "search.stale"
	KindSearchReset    EventKind = "search.reset"
	KindSearchSelect   EventKind = "search.select"

	// Remote API events
	KindAPIRequest  EventKind = "api.request"
	KindAPIResponse EventKind = "api.response"
	KindAPIError    EventKind = "api.error"

	// Preference store events
	KindPrefsRead  EventKind = "prefs.read"
	KindPrefsWrite EventKind = "prefs.write"
	KindPrefsError EventKind = "prefs.error"

	// UI events
	KindKeyPress EventKind = "ui.key"
	KindScreen   EventKind = "ui.screen"

	// System events
	KindStartup  EventKind = "sys.startup"
	KindShutdown EventKind = "sys.shutdown"
	KindError    EventKind = "sys.error"

	// Trace events, only emitted when POKESEARCH_TRACE is set
	KindMsgReceived EventKind = "trace.msg_received"
)

// Subsystem returns the part of the kind before the first dot.
func (k EventKind) Subsystem() string {
	s := string(k)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return s[:i]
	}
	return s
}

// Event is the universal observability record. Every field except Kind and
// Time is optional. Serialized as a single JSONL line.
type Event struct {
	Time      time.Time      `json:"t"`
	Level     Level          `json:"level,omitempty"`
	Kind      EventKind      `json:"kind"`
	Comp      string         `json:"comp,omitempty"`       // component: "search", "ui", "pokeapi", "main"
	SessionID string         `json:"session_id,omitempty"` // random hex, same for entire app run
	QueryID   string         `json:"qid,omitempty"`        // fetch correlation ID
	Seq       uint64         `json:"seq,omitempty"`        // controller fetch sequence number
	Dur       time.Duration  `json:"-"`                    // not serialized directly
	DurMs     float64        `json:"dur_ms,omitempty"`     // computed from Dur at marshal time
	Query     string         `json:"query,omitempty"`
	Page      int            `json:"page,omitempty"`
	Count     int            `json:"count,omitempty"`
	Total     int            `json:"total,omitempty"`
	Err       string         `json:"err,omitempty"`
	Msg       string         `json:"msg,omitempty"`   // free text
	Extra     map[string]any `json:"extra,omitempty"` // escape hatch for unusual fields
}

// MarshalJSON implements json.Marshaler, converting Dur to DurMs.
func (e Event) MarshalJSON() ([]byte, error) {
	type alias Event
	a := alias(e)
	if e.Dur > 0 {
		a.DurMs = float64(e.Dur) / float64(time.Millisecond)
	}
	return json.Marshal(a)
}
