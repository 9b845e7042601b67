package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/abelbrown/stackview/internal/otel"
)

// debugPanelChrome is the number of terminal lines consumed by DebugPanel's
// border (top + bottom = 2) and vertical padding (top + bottom = 2).
// Must be updated if DebugPanel style changes.
const debugPanelChrome = 4

// debugOverlay renders the debug panel showing frame stats and recent events.
// Pure function with no side effects. Returns empty string if ring is nil.
func debugOverlay(ring *otel.RingBuffer, width, height int) string {
	if ring == nil {
		return ""
	}

	stats := ring.Stats()
	recent := ring.Last(20)

	var lines []string
	lines = append(lines, DebugHeaderStyle.Render("Stack Stats"))
	lines = append(lines, fmt.Sprintf("  Frames:     %d traced", stats[otel.KindFrameTick]))
	anims := ring.Animations()
	lines = append(lines, fmt.Sprintf("  Animation:  %d batches, %d applied, %d events, longest %s",
		anims.Batches, stats[otel.KindAnimApplied], anims.Events, formatAge(anims.Longest)))
	if anims.Batches > 0 {
		lines = append(lines, fmt.Sprintf("  Last batch: frame %d", anims.LastFrame))
	}
	lines = append(lines, fmt.Sprintf("  Gestures:   %d claimed, %d swiped out, %d lost pointers, %d empty taps",
		stats[otel.KindGestureClaim], stats[otel.KindSwipedOut], stats[otel.KindGesturePointerLost],
		stats[otel.KindEmptySpaceClick]))
	lines = append(lines, fmt.Sprintf("  Dismiss:    %d started, %d done, %d errors",
		stats[otel.KindDismissStart], stats[otel.KindDismissDone], stats[otel.KindDismissError]))
	lines = append(lines, fmt.Sprintf("  Scroll:     %d escapes", stats[otel.KindScrollEscape]))
	lines = append(lines, fmt.Sprintf("  Buffer:     %d / %d events", ring.Len(), ring.Cap()))
	lines = append(lines, "")

	lines = append(lines, DebugHeaderStyle.Render("Recent Events"))
	for _, e := range recent {
		line := fmt.Sprintf("  %6s  %-22s", formatAge(time.Since(e.Time)), string(e.Kind))
		if e.Msg != "" {
			line += "  " + truncate(e.Msg, 40)
		}
		if e.Err != "" {
			line += "  ERR:" + truncate(e.Err, 30)
		}
		if e.Item != "" {
			id := e.Item
			if len(id) > 8 {
				id = id[:8]
			}
			line += "  item:" + id
		}
		lines = append(lines, line)
	}

	// Truncate to fit terminal height (subtract chrome added by DebugPanel border/padding)
	maxHeight := max(1, height-debugPanelChrome)
	if len(lines) > maxHeight {
		lines = lines[:maxHeight]
	}

	panelWidth := max(20, min(76, width-4))
	return DebugPanel.Width(panelWidth).Render(strings.Join(lines, "\n"))
}

// formatAge formats a duration as a compact human string.
// Handles negative durations from clock skew by clamping to "0ms".
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
	keys := StatusBarKey.Render("D") + StatusBarText.Render(":close")
	return StatusBar.Width(width).Render("  [DEBUG]  " + keys)
}
