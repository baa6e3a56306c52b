package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/abelbrown/pokesearch/internal/otel"
)

// debugPanelChrome is the number of terminal lines consumed by DebugPanel's
// border (top + bottom = 2) and vertical padding (top + bottom = 2).
// Must be updated if DebugPanel style changes.
const debugPanelChrome = 4

// debugOverlay renders the debug panel: per-subsystem counters followed by
// the most recent events. Returns "" if ring is nil.
func debugOverlay(ring *otel.RingBuffer, width, height int) string {
	if ring == nil {
		return ""
	}

	stats := ring.Stats()
	recent := ring.Last(20)

	var lines []string
	lines = append(lines, DebugHeaderStyle.Render("Search"))
	lines = append(lines, fmt.Sprintf("  Queries:    %d debounced, %d started, %d complete",
		stats[otel.KindSearchDebounce], stats[otel.KindSearchStart], stats[otel.KindSearchComplete]))
	lines = append(lines, fmt.Sprintf("  Discarded:  %d cancelled, %d stale, %d errors",
		stats[otel.KindSearchCancel], stats[otel.KindSearchStale], stats[otel.KindSearchError]))
	lines = append(lines, fmt.Sprintf("  API:        %d requests, %d responses, %d errors",
		stats[otel.KindAPIRequest], stats[otel.KindAPIResponse], stats[otel.KindAPIError]))
	lines = append(lines, fmt.Sprintf("  Prefs:      %d reads, %d writes, %d errors",
		stats[otel.KindPrefsRead], stats[otel.KindPrefsWrite], stats[otel.KindPrefsError]))
	lines = append(lines, fmt.Sprintf("  Buffer:     %d / %d events", ring.Len(), ring.Cap()))
	lines = append(lines, "")

	lines = append(lines, DebugHeaderStyle.Render("Recent Events"))
	for _, e := range recent {
		line := fmt.Sprintf("  %6s  %-18s", formatAge(time.Since(e.Time)), string(e.Kind))
		if e.Query != "" {
			line += fmt.Sprintf("  %q p%d", truncateRunes(e.Query, 16), e.Page)
		}
		if e.Msg != "" {
			line += "  " + truncateRunes(e.Msg, 30)
		}
		if e.Err != "" {
			line += "  ERR:" + truncateRunes(e.Err, 30)
		}
		if e.QueryID != "" {
			line += "  qid:" + shortID(e.QueryID)
		}
		lines = append(lines, line)
	}

	maxHeight := max(1, height-debugPanelChrome)
	if len(lines) > maxHeight {
		lines = lines[:maxHeight]
	}

	panelWidth := min(76, width-4)
	if panelWidth < 20 {
		panelWidth = 20
	}

	return DebugPanel.Width(panelWidth).Render(strings.Join(lines, "\n"))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// formatAge formats a duration as a compact human string.
// Negative durations from clock skew clamp to "0ms".
func formatAge(d time.Duration) string {
	if d < 0 {
		return "0ms"
	}
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
}

// debugStatusBar renders the status bar for the debug overlay.
func debugStatusBar(width int) string {
	return StatusBar.Width(width).Render("  [DEBUG]  " + hint(keys.Debug))
}
