package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/abelbrown/pokesearch/internal/otel"
)

func TestDebugOverlayNilRing(t *testing.T) {
	if result := debugOverlay(nil, 80, 24); result != "" {
		t.Errorf("debugOverlay(nil) should return empty string, got %q", result)
	}
}

func TestDebugOverlayRendersStats(t *testing.T) {
	ring := otel.NewRingBuffer(64)
	now := time.Now()
	for _, k := range []otel.EventKind{
		otel.KindSearchDebounce, otel.KindSearchDebounce,
		otel.KindSearchStart, otel.KindSearchComplete,
		otel.KindSearchStale,
		otel.KindAPIRequest, otel.KindAPIResponse,
		otel.KindPrefsRead, otel.KindPrefsWrite, otel.KindPrefsError,
	} {
		ring.Push(otel.Event{Kind: k, Time: now})
	}

	result := debugOverlay(ring, 100, 40)

	for _, want := range []string{
		"Search",
		"2 debounced, 1 started, 1 complete",
		"0 cancelled, 1 stale, 0 errors",
		"1 requests, 1 responses, 0 errors",
		"1 reads, 1 writes, 1 errors",
		"10 / 64 events",
	} {
		if !strings.Contains(result, want) {
			t.Errorf("overlay missing %q, got:\n%s", want, result)
		}
	}
}

func TestDebugOverlayRecentEvents(t *testing.T) {
	ring := otel.NewRingBuffer(64)
	ring.Push(otel.Event{Kind: otel.KindScreen, Time: time.Now(), Msg: "home -> detail"})
	ring.Push(otel.Event{Kind: otel.KindSearchError, Time: time.Now(), Err: "timeout"})
	ring.Push(otel.Event{Kind: otel.KindSearchStart, Time: time.Now(), Query: "pika", Page: 2, QueryID: "abcdef1234567890"})

	result := debugOverlay(ring, 120, 40)

	if !strings.Contains(result, "Recent Events") {
		t.Error("overlay should contain 'Recent Events' header")
	}
	for _, want := range []string{"home -> detail", "ERR:timeout", `"pika" p2`, "qid:abcdef12"} {
		if !strings.Contains(result, want) {
			t.Errorf("overlay missing %q, got:\n%s", want, result)
		}
	}
}

func TestDebugOverlayTruncation(t *testing.T) {
	ring := otel.NewRingBuffer(64)
	for i := 0; i < 30; i++ {
		ring.Push(otel.Event{Kind: otel.KindAPIRequest, Time: time.Now()})
	}

	result := debugOverlay(ring, 80, 10)
	if result == "" {
		t.Fatal("overlay should still render with small height")
	}
	// 6 content lines plus border and padding.
	if lines := strings.Count(result, "\n") + 1; lines > 10 {
		t.Errorf("overlay should be truncated, got %d lines", lines)
	}
}

func TestFormatAge(t *testing.T) {
	tests := []struct {
		dur  time.Duration
		want string
	}{
		{0, "0ms"},
		{50 * time.Millisecond, "50ms"},
		{999 * time.Millisecond, "999ms"},
		{1500 * time.Millisecond, "1.5s"},
		{30 * time.Second, "30.0s"},
		{90 * time.Second, "2m"},
		{5 * time.Minute, "5m"},
		{-5 * time.Second, "0ms"},
	}
	for _, tt := range tests {
		if got := formatAge(tt.dur); got != tt.want {
			t.Errorf("formatAge(%v) = %q, want %q", tt.dur, got, tt.want)
		}
	}
}
