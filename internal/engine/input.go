package engine

import (
	"github.com/abelbrown/stackview/internal/gesture"
	"github.com/abelbrown/stackview/internal/otel"
	"github.com/abelbrown/stackview/internal/stack"
)

// Dispatch routes one pointer event through the gesture arbiter.
func (l *Layout) Dispatch(ev gesture.Event) error {
	return l.arbiter.Dispatch(ev)
}

// ScrollWheel scrolls by delta pixels and reports whether the offset moved.
func (l *Layout) ScrollWheel(delta float64) bool {
	if !l.amb.Expanded {
		return false
	}
	return l.scroll.ScrollWheel(delta)
}

// DismissAll runs the staggered clear-all over the current items.
func (l *Layout) DismissAll() error {
	if !l.hasModel {
		return ErrNoModel
	}
	return l.dismiss.Run(l.table)
}

// ItemDragStarted is called by the swipe recognizer when id starts moving.
func (l *Layout) ItemDragStarted(id stack.ID) {
	l.amb.OnDragStarted(id)
	l.arbiter.DisallowScrollInMotion()
	if l.pending.AnimationsEnabled() && l.amb.Expanded {
		l.pending.DragStarted(id)
	}
	l.RequestUpdate()
}

// ItemSnappedBack is called when a swipe on id was aborted.
func (l *Layout) ItemSnappedBack(id stack.ID) {
	l.amb.OnDragFinished(id)
	if l.pending.AnimationsEnabled() && l.amb.Expanded {
		l.pending.SnappedBack(id)
	}
	l.RequestUpdate()
}

// ItemSwipedOut is called when a swipe carried id off screen. The data model
// is expected to remove it next.
func (l *Layout) ItemSwipedOut(id stack.ID) {
	if it, ok := l.table.Get(id); ok {
		l.trace.Item(otel.KindSwipedOut, "gesture", string(id), it.TranslationX)
	}
	l.pending.SwipedOut(id)
	l.amb.OnDragFinished(id)
}

// Expanded reports whether the stack is shown.
func (l *Layout) Expanded() bool { return l.amb.Expanded }

// Expanding reports whether the user is expanding an item.
func (l *Layout) Expanding() bool { return l.amb.ExpandingItem != "" }

// OnKeyguard reports whether the stack is on the keyguard.
func (l *Layout) OnKeyguard() bool { return l.amb.Keyguard }

// InContentBounds reports whether an item is under y.
func (l *Layout) InContentBounds(y float64) bool {
	for _, it := range l.table.Items() {
		if it.IsGone() || it.Kind == stack.KindShelf {
			continue
		}
		if y >= it.TranslationY && y < it.TranslationY+it.ActualHeight {
			return true
		}
	}
	return false
}

// EmptySpaceClicked forwards taps below the last item.
func (l *Layout) EmptySpaceClicked(x, y float64) {
	if l.ls.EmptySpace != nil {
		l.ls.EmptySpace.EmptySpaceClicked(x, y)
	}
}

// DismissAllComplete forwards the end of a clear-all.
func (l *Layout) DismissAllComplete(removed int) {
	l.RequestUpdate()
	if l.ls.DismissAll != nil {
		l.ls.DismissAll.DismissAllComplete(removed)
	}
}
