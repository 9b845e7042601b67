// Package ambient holds the shared frame state: one record owned by the
// layout and passed by pointer into every component for the duration of a
// frame. Components must not keep a copy across frames.
package ambient

import "github.com/abelbrown/stackview/internal/stack"

// State is the mutable view-model shared by the scroll engine, section
// manager, animation pipeline and layout-target collaborator.
type State struct {
	ScrollY               float64
	OverscrollTop         float64
	OverscrollBottom      float64
	CurrentScrollVelocity float64

	TopPadding       float64
	DarkTopPadding   float64
	StackTranslation float64
	MaxLayoutHeight  float64
	LayoutHeight     float64
	LayoutMaxHeight  float64
	SidePadding      float64
	Width            float64

	Expanded          bool
	Dimmed            bool
	HideSensitive     bool
	DarkTarget        bool
	DarkAmount        float64
	Keyguard          bool
	PanelTracking     bool
	ExpansionChanging bool
	Pulsing           bool

	ActivatedItem stack.ID
	ExpandingItem stack.ID
	DraggedItems  map[stack.ID]bool

	DismissAllInProgress bool
	SectionBoundaryIndex int
	SpeedBumpIndex       int

	HeadsUpInset           float64
	MaxHeadsUpTranslation  float64
	TopHeadsUpPinnedHeight float64
	LastVisibleBackground  stack.ID
}

// New returns a state with the defaults a collapsed, empty stack has.
func New() *State {
	return &State{
		SectionBoundaryIndex: -1,
		SpeedBumpIndex:       -1,
		DraggedItems:         make(map[stack.ID]bool),
	}
}

// FullyDark reports whether the dark transition has completed.
func (s *State) FullyDark() bool {
	return s.DarkAmount >= 1
}

// Dark reports whether any dark amount is applied. DarkTarget is the state
// the stack is heading to and changes before the amount starts animating.
func (s *State) Dark() bool {
	return s.DarkAmount > 0
}

// Overscroll returns the rubber-banded amount on one edge.
func (s *State) Overscroll(top bool) float64 {
	if top {
		return s.OverscrollTop
	}
	return s.OverscrollBottom
}

// SetOverscroll stores the rubber-banded amount on one edge, never negative.
func (s *State) SetOverscroll(amount float64, top bool) {
	if amount < 0 {
		amount = 0
	}
	if top {
		s.OverscrollTop = amount
	} else {
		s.OverscrollBottom = amount
	}
}

// OnDragStarted marks an item as being swiped.
func (s *State) OnDragStarted(id stack.ID) {
	s.DraggedItems[id] = true
}

// OnDragFinished clears the swipe mark of an item.
func (s *State) OnDragFinished(id stack.ID) {
	delete(s.DraggedItems, id)
}

// InnerHeight is the layout height available below the top padding.
func (s *State) InnerHeight() float64 {
	h := s.LayoutHeight - s.TopPadding - s.StackTranslation
	if h < 0 {
		return 0
	}
	return h
}
