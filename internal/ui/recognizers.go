package ui

import (
	"math"

	"github.com/abelbrown/stackview/internal/engine"
	"github.com/abelbrown/stackview/internal/gesture"
	"github.com/abelbrown/stackview/internal/logging"
	"github.com/abelbrown/stackview/internal/stack"
)

// swipeOutFraction of an item's width is how far a row must be dragged to be
// dismissed on release.
const swipeOutFraction = 0.4

// rowAt returns the top-level row under y, or nil.
func rowAt(t *stack.Table, y float64) *stack.Item {
	for _, it := range t.Items() {
		if it.IsGone() || it.Kind != stack.KindRow || it.Alpha == 0 {
			continue
		}
		if y >= it.TranslationY && y < it.TranslationY+it.ActualHeight {
			return it
		}
	}
	return nil
}

// swipeRecognizer drags a dismissible row sideways and removes it when it is
// released far enough out.
type swipeRecognizer struct {
	layout *engine.Layout
	feed   *Feed
	slop   float64

	id           stack.ID
	downX, downY float64
}

func (s *swipeRecognizer) Intercept(ev gesture.Event) bool {
	switch ev.Action {
	case gesture.Down:
		s.id = ""
		if it := rowAt(s.layout.Table(), ev.Y); it != nil && it.Dismissible {
			s.id = it.ID
			s.downX, s.downY = ev.X, ev.Y
		}
	case gesture.Move:
		if s.id == "" {
			return false
		}
		dx, dy := ev.X-s.downX, ev.Y-s.downY
		if math.Abs(dx) > s.slop && math.Abs(dx) > math.Abs(dy) {
			s.layout.ItemDragStarted(s.id)
			return true
		}
	case gesture.Up, gesture.Cancel:
		s.id = ""
	}
	return false
}

func (s *swipeRecognizer) Handle(ev gesture.Event) bool {
	it, ok := s.layout.Table().Get(s.id)
	if !ok {
		return false
	}
	switch ev.Action {
	case gesture.Move:
		it.TranslationX = ev.X - s.downX
		return true
	case gesture.Up:
		if math.Abs(it.TranslationX) > it.Width*swipeOutFraction {
			s.layout.ItemSwipedOut(it.ID)
			if err := s.feed.Remove(it.ID); err != nil {
				logging.Warn("swipe remove failed", "id", it.ID, "err", err)
			}
		} else {
			it.TranslationX = 0
			s.layout.ItemSnappedBack(it.ID)
		}
	case gesture.Cancel:
		it.TranslationX = 0
		s.layout.ItemSnappedBack(it.ID)
	default:
		return true
	}
	s.id = ""
	return false
}

// tapRecognizer toggles a group when its summary is tapped.
type tapRecognizer struct {
	layout *engine.Layout
	feed   *Feed
	slop   float64

	id           stack.ID
	downX, downY float64
}

func (r *tapRecognizer) Intercept(ev gesture.Event) bool {
	switch ev.Action {
	case gesture.Down:
		r.id = ""
		if it := rowAt(r.layout.Table(), ev.Y); it != nil && it.IsSummaryWithChildren() {
			r.id = it.ID
			r.downX, r.downY = ev.X, ev.Y
		}
	case gesture.Move:
		if math.Abs(ev.X-r.downX) > r.slop || math.Abs(ev.Y-r.downY) > r.slop {
			r.id = ""
		}
	case gesture.Up:
		if r.id == "" {
			return false
		}
		id := r.id
		r.id = ""
		return r.feed.ToggleGroup(id)
	case gesture.Cancel:
		r.id = ""
	}
	return false
}

// Handle never keeps a sequence: the tap is over once it is claimed.
func (r *tapRecognizer) Handle(gesture.Event) bool { return false }
