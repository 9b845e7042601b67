// Package section partitions the visible stack into its high- and
// low-priority sections and computes the background rectangle of each.
package section

import (
	"math"

	"github.com/abelbrown/stackview/internal/stack"
)

// Count is the number of sections. Slot 0 is high priority, slot 1 low.
const Count = 2

// AdjacencyThreshold is the largest gap, in pixels, at which two section
// edges are drawn as touching.
const AdjacencyThreshold = 1.0

// Bounds is a background rectangle.
type Bounds struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// Height returns Bottom - Top.
func (b Bounds) Height() float64 {
	return b.Bottom - b.Top
}

// Empty reports whether the rectangle has no height.
func (b Bounds) Empty() bool {
	return b.Bottom <= b.Top
}

// Adjacent reports whether a's bottom and b's top are close enough that the
// renderer should draw no inner corner between them.
func Adjacent(a, b Bounds) bool {
	return math.Abs(b.Top-a.Bottom) <= AdjacencyThreshold
}

// Section is one of the two fixed priority slots.
type Section struct {
	Priority stack.Priority

	// Current is what is drawn this frame; Target is where Current is
	// heading. They differ only while the bounds animate.
	Current Bounds
	Target  Bounds

	First stack.ID
	Last  stack.ID

	// AnimateTop and AnimateBottom are set when the first or last visible
	// item changed identity since the previous frame.
	AnimateTop    bool
	AnimateBottom bool

	topVel    float64
	bottomVel float64
	animTop   bool
	animBot   bool
}

// HasItems reports whether any visible item belongs to the section.
func (s *Section) HasItems() bool {
	return s.First != ""
}

// Animating reports whether either edge is still moving toward its target.
func (s *Section) Animating() bool {
	return s.animTop || s.animBot
}

// ResetCurrentBounds jumps the drawn bounds to the target.
func (s *Section) ResetCurrentBounds() {
	s.Current = s.Target
	s.animTop, s.animBot = false, false
	s.topVel, s.bottomVel = 0, 0
}

// setVisible updates First and Last and reports which changed.
func (s *Section) setVisible(first, last stack.ID) (firstChanged, lastChanged bool) {
	firstChanged = s.First != first
	lastChanged = s.Last != last
	s.First, s.Last = first, last
	return firstChanged, lastChanged
}
