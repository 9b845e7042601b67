package engine

import (
	"fmt"
	"time"

	"github.com/abelbrown/stackview/internal/anim"
	"github.com/abelbrown/stackview/internal/logging"
	"github.com/abelbrown/stackview/internal/stack"
)

// Add inserts it at index and queues its appearance. fromMoreCard marks an
// item revealed by the "show more" affordance.
func (l *Layout) Add(it *stack.Item, index int, fromMoreCard bool) error {
	if err := l.table.Add(it, index); err != nil {
		return fmt.Errorf("add %s: %w", it.ID, err)
	}
	if it.Width == 0 && l.amb.Width > 0 {
		it.Width = l.amb.Width - 2*l.cfg.SidePadding
	}
	l.UpdateContentHeight()
	l.pending.Added(it, fromMoreCard)
	l.UpdateSpeedBumpIndex()
	l.RequestUpdate()
	return nil
}

// Remove takes id out of the table and queues its disappearance. The scroll
// offset is corrected first so content below the fold does not jump.
func (l *Layout) Remove(id stack.ID) error {
	it, ok := l.table.Get(id)
	if !ok {
		return fmt.Errorf("remove %s: %w", id, stack.ErrUnknownItem)
	}
	hiddenInGroup := false
	if p, ok := l.table.ParentOf(id); ok {
		hiddenInGroup = !p.ChildrenExpanded
	}
	if !it.IsChildInGroup() {
		l.updateScrollStateForRemovedChild(it)
	}
	if _, err := l.table.Remove(id); err != nil {
		return fmt.Errorf("remove %s: %w", id, err)
	}
	l.pending.Removed(it, hiddenInGroup)
	l.amb.OnDragFinished(id)
	if l.forcedScroll == id {
		l.forcedScroll = ""
	}
	l.UpdateContentHeight()
	l.UpdateSpeedBumpIndex()
	l.RequestUpdate()
	return nil
}

// ChangePosition moves id to index and queues the move.
func (l *Layout) ChangePosition(id stack.ID, index int) error {
	l.pending.BeginChangePosition()
	moved, err := l.table.Move(id, index)
	if err != nil {
		l.pending.EndChangePosition(id, true)
		return fmt.Errorf("move %s: %w", id, err)
	}
	it, _ := l.table.Get(id)
	l.pending.EndChangePosition(id, !moved || it.IsGone())
	if moved {
		l.UpdateContentHeight()
		l.UpdateSpeedBumpIndex()
		l.RequestUpdate()
	}
	return nil
}

// GenerateChildOrderChanged queues a reorder animation for a data-model
// reorder that moved many items at once.
func (l *Layout) GenerateChildOrderChanged() {
	if l.amb.Expanded && l.pending.AnimationsEnabled() {
		l.pending.ChildOrderChanged()
		l.RequestUpdate()
	}
}

// SetHeadsUp records that id started or stopped being shown as a heads-up.
func (l *Layout) SetHeadsUp(id stack.ID, headsUp bool) {
	it, ok := l.table.Get(id)
	if !ok {
		logging.Debug("heads-up for unknown item", "id", id)
		return
	}
	it.HeadsUp = headsUp
	if l.pending.HeadsUp(it, headsUp) {
		l.RequestUpdate()
	}
}

// SetPinned pins or unpins a heads-up item to the top of a collapsed stack.
func (l *Layout) SetPinned(id stack.ID, pinned bool) {
	it, ok := l.table.Get(id)
	if !ok || it.Pinned == pinned {
		return
	}
	it.Pinned = pinned
	l.refreshAmbient()
	l.UpdateContentHeight()
	l.RequestUpdate()
}

// SetHeadsUpGoingAwayAllowed gates heads-up disappear animations.
func (l *Layout) SetHeadsUpGoingAwayAllowed(allowed bool) {
	l.pending.SetHeadsUpGoingAwayAllowed(allowed)
}

// OnGroupExpansionChanged must be called after a group summary expanded or
// collapsed its children.
func (l *Layout) OnGroupExpansionChanged(id stack.ID, expanded bool) {
	it, ok := l.table.Get(id)
	if !ok {
		return
	}
	it.ChildrenExpanded = expanded
	if l.amb.Expanded && l.pending.AnimationsEnabled() {
		l.pending.GroupExpansionChanged(id)
	}
	l.OnHeightChanged(id, false)
}

// SetExpandingItem names the item the user is expanding, or "" when done.
func (l *Layout) SetExpandingItem(id stack.ID) {
	l.amb.ExpandingItem = id
	l.RequestUpdate()
}

// SetDimmed dims every item but the activated one. Dimming only applies on
// the keyguard.
func (l *Layout) SetDimmed(dimmed, animate bool) {
	dimmed = dimmed && l.amb.Keyguard
	if dimmed == l.amb.Dimmed {
		return
	}
	l.amb.Dimmed = dimmed
	if animate && l.pending.AnimationsEnabled() {
		l.pending.DimmedChanged()
	}
	l.RequestUpdate()
}

// SetHideSensitive hides or reveals the content of sensitive items.
func (l *Layout) SetHideSensitive(hide, animate bool) {
	if hide == l.amb.HideSensitive {
		return
	}
	l.amb.HideSensitive = hide
	if animate && l.pending.AnimationsEnabled() {
		l.pending.HideSensitiveChanged()
	}
	l.UpdateContentHeight()
	l.RequestUpdate()
}

// SetActivated marks id as the item the user touched first on the keyguard.
// An empty id clears it.
func (l *Layout) SetActivated(id stack.ID) {
	l.amb.ActivatedItem = id
	if l.pending.AnimationsEnabled() {
		l.pending.ActivateChanged()
	}
	l.RequestUpdate()
}

// SetDark starts the transition to or from the dark stack. touch is where
// the user woke the device, nil when unknown; the transition radiates from
// the item under it.
func (l *Layout) SetDark(dark, animate bool, touch *Point) {
	if dark == l.amb.DarkTarget {
		return
	}
	l.amb.DarkTarget = dark
	target := 0.0
	if dark {
		target = 1
	}
	if animate && l.pending.AnimationsEnabled() {
		l.pending.DarkChanged(l.darkOriginIndex(touch))
		l.animateDarkAmount(target, anim.DarkDuration(dark, l.table.NotGoneCount()))
	} else {
		l.sched.Cancel(keyDark)
		l.setDarkAmount(target)
	}
	l.RequestUpdate()
	l.notifyHeight("", false)
}

// darkOriginIndex returns the not-gone index of the item under touch, or
// one of the origin markers when the touch is outside the items.
func (l *Layout) darkOriginIndex(touch *Point) int {
	if touch == nil || touch.Y < l.amb.TopPadding {
		return anim.DarkOriginAbove
	}
	var bottom float64
	idx := 0
	found := anim.DarkOriginAbove
	for _, it := range l.table.Items() {
		if it.IsGone() {
			continue
		}
		if found == anim.DarkOriginAbove && touch.Y >= it.TranslationY && touch.Y <= it.Bottom() {
			found = idx
		}
		bottom = max(bottom, it.Bottom())
		idx++
	}
	if touch.Y > bottom {
		return anim.DarkOriginBelow
	}
	return found
}

func (l *Layout) animateDarkAmount(target float64, length time.Duration) {
	l.darkFrom = l.amb.DarkAmount
	l.darkTo = target
	l.darkLen = length
	l.darkStart = time.Time{}
	l.sched.Animate(keyDark, l.stepDark)
}

func (l *Layout) stepDark(now time.Time) bool {
	if l.darkStart.IsZero() {
		l.darkStart = now
	}
	f := 1.0
	if l.darkLen > 0 {
		f = min(1, float64(now.Sub(l.darkStart))/float64(l.darkLen))
	}
	l.setDarkAmount(l.darkFrom + (l.darkTo-l.darkFrom)*f)
	return f < 1
}

// setDarkAmount applies an intermediate dark amount. Crossing into or out of
// fully dark changes which items count toward the content height.
func (l *Layout) setDarkAmount(v float64) {
	wasFullyDark := l.amb.FullyDark()
	l.amb.DarkAmount = v
	l.updateAlgorithmHeightAndPadding()
	if wasFullyDark != l.amb.FullyDark() {
		l.UpdateContentHeight()
	}
	l.RequestUpdate()
}

// SetPulsing shows or hides the pulsing item while dark.
func (l *Layout) SetPulsing(pulsing, animated bool) {
	if !l.amb.Pulsing && !pulsing {
		return
	}
	l.amb.Pulsing = pulsing
	if animated {
		if first := l.table.FirstNotGone(); first != nil {
			l.pending.Pulse(first.ID, pulsing)
		}
	}
	l.updateAlgorithmHeightAndPadding()
	l.UpdateContentHeight()
	l.RequestUpdate()
	l.notifyHeight("", animated)
}

// GoToFullShade queues the transition from the keyguard to the full panel,
// started after delay.
func (l *Layout) GoToFullShade(delay time.Duration) {
	l.pending.GoToFullShade(delay)
	l.RequestUpdate()
}

// AnimateEverything re-animates every item on the next frame.
func (l *Layout) AnimateEverything() {
	l.pending.AnimateEverything()
	l.RequestUpdate()
}

// SetTopPadding moves the top of the stack. The dark padding follows it at a
// fixed distance.
func (l *Layout) SetTopPadding(p float64, animate bool) {
	if p == l.regularTopPadding {
		return
	}
	l.regularTopPadding = p
	l.darkTopPadding = p + l.cfg.DarkShelfPadding
	l.updateAlgorithmHeightAndPadding()
	l.UpdateContentHeight()
	if animate && l.pending.AnimationsEnabled() && l.amb.Expanded {
		l.pending.TopPaddingChanged()
	}
	l.RequestUpdate()
	l.notifyHeight("", animate)
}

// SetKeyguard switches between the keyguard and the unlocked presentation.
func (l *Layout) SetKeyguard(keyguard bool) {
	if keyguard == l.amb.Keyguard {
		return
	}
	l.amb.Keyguard = keyguard
	if !keyguard {
		l.amb.Dimmed = false
	}
	l.UpdateContentHeight()
	l.RequestUpdate()
}

// SetAnimationsEnabled turns every animation on or off. Disabling drops the
// queued swipe and removal bookkeeping.
func (l *Layout) SetAnimationsEnabled(enabled bool) {
	l.pending.SetAnimationsEnabled(enabled)
	l.sections.SetAnimationsEnabled(enabled)
	if !enabled {
		l.pending.DropRemovals()
	}
}

// SetIsExpanded records whether the panel shows the stack. Collapsing folds
// every expanded group.
func (l *Layout) SetIsExpanded(expanded bool) {
	if expanded == l.amb.Expanded {
		return
	}
	l.amb.Expanded = expanded
	l.pending.SetExpanded(expanded)
	if !expanded {
		for _, it := range l.table.Items() {
			it.ChildrenExpanded = false
		}
	}
	l.UpdateContentHeight()
	l.RequestUpdate()
}

// OnExpansionStarted is called when the panel starts opening or closing.
func (l *Layout) OnExpansionStarted() {
	l.amb.ExpansionChanging = true
	l.scroll.SetExpansionChanging(true)
}

// OnExpansionStopped is called when the panel settled. A closed panel resets
// the scroll position and every user expansion.
func (l *Layout) OnExpansionStopped() {
	l.amb.ExpansionChanging = false
	l.scroll.SetExpansionChanging(false)
	if l.amb.Expanded {
		return
	}
	l.scroll.ResetScrollPosition()
	for _, it := range l.table.Items() {
		it.UserExpanded = false
	}
	l.RequestUpdate()
}

// OnPanelTrackingStarted is called when the user grabs the panel.
func (l *Layout) OnPanelTrackingStarted() {
	l.amb.PanelTracking = true
	l.scroll.SetPanelTracking(true)
}

// OnPanelTrackingStopped is called when the user lets go of the panel.
func (l *Layout) OnPanelTrackingStopped() {
	l.amb.PanelTracking = false
	l.scroll.SetPanelTracking(false)
}
