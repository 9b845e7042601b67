package ui

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/abelbrown/stackview/internal/engine"
	"github.com/abelbrown/stackview/internal/stack"
)

// One terminal cell in layout pixels.
const (
	rowPx = 8.0
	colPx = 4.0
)

func toRows(px float64) int { return int(math.Round(px / rowPx)) }

func toCols(px float64) int { return int(math.Round(px / colPx)) }

// canvas is the stack viewport, one string per terminal row.
type canvas struct {
	lines []string
	width int
}

func newCanvas(width, height int) *canvas {
	return &canvas{lines: make([]string, max(0, height)), width: width}
}

// fill paints rows [top, bottom) with style.
func (c *canvas) fill(top, bottom int, style lipgloss.Style) {
	for y := max(0, top); y < min(bottom, len(c.lines)); y++ {
		c.lines[y] = style.Width(c.width).Render("")
	}
}

// put draws text at row y, shifted right by x cells, in a block of w cells.
// A negative x slides the block off the left edge.
func (c *canvas) put(y, x, w int, text string, style lipgloss.Style) {
	if y < 0 || y >= len(c.lines) {
		return
	}
	if x < 0 {
		w += x
		x = 0
	}
	w = min(w, c.width-x)
	if w <= 0 {
		return
	}
	text = truncate(text, max(1, w-style.GetHorizontalFrameSize()))
	c.lines[y] = strings.Repeat(" ", x) + style.Width(w).MaxWidth(w).MaxHeight(1).Render(text)
}

func (c *canvas) String() string {
	return strings.Join(c.lines, "\n")
}

// RenderStack draws the section backgrounds and every visible item of l into
// a viewport of width by height cells. Items are drawn in z order.
func RenderStack(l *engine.Layout, title func(stack.ID) string, width, height int) string {
	c := newCanvas(width, height)

	for _, s := range l.Sections() {
		if !s.HasItems() {
			continue
		}
		style := SectionHigh
		if s.Priority == stack.PriorityLow {
			style = SectionLow
		}
		c.fill(toRows(s.Current.Top), toRows(s.Current.Bottom), style)
	}

	var items []*stack.Item
	for _, it := range l.Table().Items() {
		if !it.IsGone() && it.Alpha > 0 {
			items = append(items, it)
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Z < items[j].Z })

	states := l.States()
	side := toCols(l.Ambient().SidePadding)
	for _, it := range items {
		st := states[it.ID]
		top := toRows(it.TranslationY)
		rows := max(1, toRows(it.ActualHeight-it.ClipBottom))
		x := side + toCols(it.TranslationX)
		w := width - 2*side

		switch it.Kind {
		case stack.KindFooter:
			c.put(top, x, w, "[ clear all ]", FooterStyle)
			continue
		case stack.KindEmptyShade:
			c.put(top, x, w, "Nothing here", HelpStyle.Padding(0, 1))
			continue
		case stack.KindShelf:
			c.put(top, x, w, fmt.Sprintf("··· %d more", l.Table().NotGoneCount()), ShelfStyle)
			continue
		}

		body, head := rowStyles(it, st)
		for r := 0; r < rows; r++ {
			text := ""
			style := body
			if r == 0 {
				text, style = title(it.ID), head
				if it.IsSummaryWithChildren() {
					text = groupMarker(it) + " " + text
				}
			}
			c.put(top+r, x, w, text, style)
		}
		if it.ChildrenExpanded {
			drawChildren(c, l, it, title, x, w, top+rows)
		}
	}
	return c.String()
}

// drawChildren draws the expanded children of parent. Child positions are
// relative to the parent; limit is the first row below the parent.
func drawChildren(c *canvas, l *engine.Layout, parent *stack.Item, title func(stack.ID) string, x, w, limit int) {
	base := parent.TranslationY
	for _, child := range l.Table().ChildrenOf(parent.ID) {
		if child.IsGone() || child.Alpha == 0 {
			continue
		}
		y := toRows(base + child.TranslationY)
		if y >= limit {
			return
		}
		c.put(y, x, w, "↳ "+title(child.ID), ChildStyle)
	}
}

func rowStyles(it *stack.Item, st stack.State) (body, head lipgloss.Style) {
	switch {
	case st.Dark:
		body, head = RowDark, RowDark
	case it.HeadsUp:
		body, head = RowHeadsUp, RowHeadsUp
	case st.Dimmed:
		body, head = RowDimmed, RowDimmed
	default:
		body, head = RowStyle, RowTitle
	}
	if it.Alpha < 0.5 {
		body, head = body.Faint(true), head.Faint(true)
	}
	return body, head
}

func groupMarker(it *stack.Item) string {
	if it.ChildrenExpanded {
		return "▾"
	}
	return "▸"
}

// truncate shortens s to at most n terminal cells, marking the cut with "…".
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	return runewidth.Truncate(s, n, "…")
}
