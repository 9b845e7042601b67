package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		s    string
		n    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello", 4, "hel…"},
		{"héllo", 2, "h…"},
		{"hello", 1, "…"},
		{"hello", 0, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.s, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.s, tt.n, got, tt.want)
		}
	}
}

func TestCellConversion(t *testing.T) {
	tests := []struct {
		px   float64
		rows int
		cols int
	}{
		{0, 0, 0},
		{8, 1, 2},
		{11, 1, 3},
		{13, 2, 3},
		{-8, -1, -2},
	}
	for _, tt := range tests {
		if got := toRows(tt.px); got != tt.rows {
			t.Errorf("toRows(%v) = %d, want %d", tt.px, got, tt.rows)
		}
		if got := toCols(tt.px); got != tt.cols {
			t.Errorf("toCols(%v) = %d, want %d", tt.px, got, tt.cols)
		}
	}
}

func TestCanvasPut(t *testing.T) {
	c := newCanvas(20, 3)
	style := lipgloss.NewStyle()

	c.put(0, 0, 10, "row", style)
	c.put(1, 4, 10, "shifted", style)
	c.put(2, -5, 10, "offscreen left", style)
	c.put(7, 0, 10, "below", style)

	lines := strings.Split(c.String(), "\n")
	if len(lines) != 3 {
		t.Fatalf("canvas has %d lines, want 3", len(lines))
	}
	if !strings.HasPrefix(lines[0], "row") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "    shifted") {
		t.Errorf("line 1 = %q, want a 4 cell indent", lines[1])
	}
	if w := lipgloss.Width(lines[2]); w != 5 {
		t.Errorf("line 2 width = %d, want the 5 cells left on screen", w)
	}
}

func TestRenderStackFillsViewport(t *testing.T) {
	ta := newTestApp(t, 3, nil)
	ta.size(t, 60, 30)

	out := RenderStack(ta.Layout(), ta.feed.Title, 60, 20)
	if got := strings.Count(out, "\n") + 1; got != 20 {
		t.Errorf("RenderStack produced %d lines, want 20", got)
	}
	if !strings.Contains(out, "clear all") {
		t.Error("the footer should be drawn")
	}
}
