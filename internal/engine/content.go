package engine

import (
	"math"

	"github.com/abelbrown/stackview/internal/algo"
	"github.com/abelbrown/stackview/internal/stack"
)

// UpdateContentHeight recomputes the content height from the items and
// pushes it into the scroll range.
//
// Items count in order until MaxDisplayedItems is reached, at which point the
// shelf stands in for the rest. While fully dark only a pulsing item is
// shown, and again the shelf stands in for the others.
func (l *Layout) UpdateContentHeight() {
	fullyDark := l.amb.FullyDark()
	pulsing := l.hasPulsingItem()
	maxShown := l.cfg.MaxDisplayedItems
	if fullyDark {
		maxShown = 0
		if pulsing {
			maxShown = 1
		}
	}
	shelf := l.table.Find(stack.KindShelf)

	spacer := algo.NewSpacer(l.cfg.PaddingBetween, l.cfg.IncreasedPadding)
	height := 0.0
	shown := 0
	for _, it := range l.table.Items() {
		if it.IsGone() || it.HasNoContentHeight() || l.skipOnKeyguard(it) {
			continue
		}
		v := it
		last := false
		limited := maxShown != Unlimited && shown >= maxShown
		if limited || (fullyDark && pulsing && it.Kind == stack.KindRow && !it.Pulsing) {
			if shelf == nil || shelf.IsGone() {
				break
			}
			v = shelf
			last = true
		}
		gap := spacer.Next(v.IncreasedPaddingAmount)
		if height != 0 {
			height += gap
		}
		height += v.Height()
		shown++
		if last {
			break
		}
	}

	l.intrinsicContentHeight = height
	top := l.regularTopPadding
	if fullyDark {
		top = l.darkTopPadding
	}
	l.contentHeight = height + top + l.cfg.BottomMargin
	l.scroll.SetContentHeight(l.scrollContentHeight())
	l.amb.LayoutMaxHeight = l.contentHeight
}

func (l *Layout) skipOnKeyguard(it *stack.Item) bool {
	return it.Kind == stack.KindFooter && l.amb.Keyguard
}

func (l *Layout) hasPulsingItem() bool {
	if !l.amb.Pulsing {
		return false
	}
	for _, it := range l.table.Items() {
		if it.Pulsing && !it.IsGone() {
			return true
		}
	}
	return false
}

// scrollContentHeight is the height the scroll range is computed from. A
// collapsed stack showing a pinned heads-up only scrolls that one item.
func (l *Layout) scrollContentHeight() float64 {
	if !l.amb.Expanded && l.amb.TopHeadsUpPinnedHeight > 0 {
		return l.cfg.HeadsUpInset + l.amb.TopHeadsUpPinnedHeight
	}
	return l.contentHeight
}

// PositionOf returns the offset of id in the content as if nothing were
// scrolled or animating. A child is placed within its group. Unknown ids
// yield zero.
func (l *Layout) PositionOf(id stack.ID) float64 {
	it, ok := l.table.Get(id)
	if !ok {
		return 0
	}
	target := id
	var child *stack.Item
	if it.IsChildInGroup() {
		child = it
		target = it.Parent
	}

	spacer := algo.NewSpacer(l.cfg.PaddingBetween, l.cfg.IncreasedPadding)
	pos := 0.0
	for _, v := range l.table.Items() {
		counted := !v.IsGone() && !v.HasNoContentHeight()
		if counted {
			gap := spacer.Next(v.IncreasedPaddingAmount)
			if pos != 0 {
				pos += gap
			}
		}
		if v.ID == target {
			if child != nil {
				pos += l.childOffset(v, child)
			}
			return pos
		}
		if counted {
			pos += v.Height()
		}
	}
	return 0
}

// childOffset returns the position of child relative to its group.
func (l *Layout) childOffset(parent, child *stack.Item) float64 {
	if st, ok := l.states[child.ID]; ok {
		return st.Y
	}
	y := parent.CollapsedHeight
	for _, c := range l.table.ChildrenOf(parent.ID) {
		if c.ID == child.ID {
			break
		}
		if !c.IsGone() {
			y += c.Height() + l.cfg.Algo.ChildPadding
		}
	}
	return y
}

// updateScrollStateForAddedChildren keeps the visible content still when
// items are inserted above the scroll offset.
func (l *Layout) updateScrollStateForAddedChildren() {
	for _, it := range l.table.Items() {
		if !l.pending.IsAddPending(it.ID) {
			continue
		}
		padding := l.cfg.PaddingBetween
		switch it.IncreasedPaddingAmount {
		case 1:
			padding = l.cfg.IncreasedPadding
		case -1:
			padding = 0
		}
		if l.PositionOf(it.ID) < l.scroll.OwnScrollY() {
			l.scroll.SetOwnScrollY(l.scroll.OwnScrollY() + it.Height() + padding)
		}
	}
	l.scroll.Clamp()
}

// updateScrollStateForRemovedChild keeps the visible content still when an
// item above the scroll offset goes away. It runs while it is still in the
// table.
func (l *Layout) updateScrollStateForRemovedChild(it *stack.Item) {
	start := l.PositionOf(it.ID)
	h := it.Height() + algo.Own(l.cfg.PaddingBetween, l.cfg.IncreasedPadding, it.IncreasedPaddingAmount)
	y := l.scroll.OwnScrollY()
	switch {
	case start+h <= y:
		l.scroll.SetOwnScrollY(y - h)
	case start < y:
		l.scroll.SetOwnScrollY(start)
	}
}

// SetForcedScroll keeps id in view on every frame until it is cleared with
// an empty id or leaves the table.
func (l *Layout) SetForcedScroll(id stack.ID) {
	l.forcedScroll = id
	l.RequestUpdate()
}

func (l *Layout) updateForcedScroll() {
	if l.forcedScroll == "" {
		return
	}
	it, ok := l.table.Get(l.forcedScroll)
	if !ok || it.IsGone() {
		l.forcedScroll = ""
		return
	}
	pos := l.PositionOf(it.ID)
	target := math.Max(0, math.Min(l.targetScrollFor(it, pos), l.scroll.Range()))
	y := l.scroll.OwnScrollY()
	if y < target || pos+it.Height() < y {
		l.scroll.SetOwnScrollY(target)
	}
}

// targetScrollFor returns the scroll offset that brings the bottom of it to
// the bottom of the viewport.
func (l *Layout) targetScrollFor(it *stack.Item, pos float64) float64 {
	inset := l.amb.TopPadding
	if !l.amb.Expanded && it.Pinned {
		inset = l.cfg.HeadsUpInset
	}
	return pos + it.Height() + l.imeInset - l.height + inset
}

// ScrollTo scrolls just far enough to show id and reports whether the offset
// changed.
func (l *Layout) ScrollTo(id stack.ID) bool {
	it, ok := l.table.Get(id)
	if !ok {
		return false
	}
	target := l.targetScrollFor(it, l.PositionOf(id))
	if l.scroll.OwnScrollY() >= target {
		return false
	}
	l.scroll.SetOwnScrollY(target)
	return true
}

// ResetScrollPosition aborts any fling and jumps to the top.
func (l *Layout) ResetScrollPosition() {
	l.scroll.ResetScrollPosition()
}

// SetViewport updates the size the stack is laid out in. imeInset is the
// part of the bottom covered by an input method.
func (l *Layout) SetViewport(width, height, imeInset float64) {
	l.height = height
	l.imeInset = imeInset
	l.maxLayoutHeight = height
	l.amb.Width = width
	l.amb.MaxLayoutHeight = height
	for _, it := range l.table.Items() {
		it.Width = width - 2*l.cfg.SidePadding
	}
	l.scroll.SetLayout(height, height, imeInset)
	l.updateAlgorithmHeightAndPadding()
	l.UpdateContentHeight()
	l.RequestUpdate()
}

func (l *Layout) updateAlgorithmHeightAndPadding() {
	l.amb.LayoutHeight = math.Min(l.maxLayoutHeight, l.currentStackHeight)
	l.amb.TopPadding = algo.Lerp(l.regularTopPadding, l.darkTopPadding, l.amb.DarkAmount)
	l.amb.DarkTopPadding = l.darkTopPadding
}

// OnHeightChanged must be called when an item's intrinsic height changed.
func (l *Layout) OnHeightChanged(id stack.ID, needsAnimation bool) {
	l.UpdateContentHeight()
	if it, ok := l.table.Get(id); ok {
		l.updateScrollPositionOnExpandInBottom(it)
		if needsAnimation && (l.amb.Expanded || it.Pinned) {
			l.pending.ViewResized()
		}
	}
	l.scroll.Clamp()
	l.notifyHeight(id, needsAnimation)
	l.RequestUpdate()
}

// updateScrollPositionOnExpandInBottom scrolls along with an item the user is
// expanding past the bottom of the layout.
func (l *Layout) updateScrollPositionOnExpandInBottom(it *stack.Item) {
	if l.amb.Keyguard || l.amb.ExpandingItem != it.ID || it.IsSummaryWithChildren() {
		return
	}
	if first := l.table.FirstNotGone(); first != nil && first.ID == it.ID {
		return
	}
	end := it.TranslationY + it.ActualHeight
	if p, ok := l.table.ParentOf(it.ID); ok {
		end += p.TranslationY
	}
	layoutEnd := l.maxLayoutHeight + l.amb.StackTranslation
	shelf := l.table.Find(stack.KindShelf)
	last := l.lastVisibleRow()
	if shelf != nil && !shelf.IsGone() && (last == nil || last.ID != it.ID) {
		layoutEnd -= shelf.IntrinsicHeight + l.cfg.PaddingBetween
	}
	if end > layoutEnd {
		l.scroll.SetOwnScrollY(l.scroll.OwnScrollY() + end - layoutEnd)
		l.arbiter.DisallowScrollInMotion()
	}
}

func (l *Layout) lastVisibleRow() *stack.Item {
	items := l.table.Items()
	for i := len(items) - 1; i >= 0; i-- {
		if it := items[i]; it.Kind == stack.KindRow && !it.IsGone() {
			return it
		}
	}
	return nil
}

// SetExpandedHeight is called with the panel's expansion height. It derives
// the appear fraction and the stack translation that slides the stack in.
func (l *Layout) SetExpandedHeight(h float64) {
	l.expandedHeight = h
	l.SetIsExpanded(h > 0)
	minH := l.minExpansionHeight()
	if h < minH {
		h = minH
	}

	start := l.appearStartPosition()
	end := l.appearEndPosition()
	fraction := 1.0
	translation := 0.0
	stackHeight := h
	if h < end && end > start {
		fraction = (h - start) / (end - start)
		transitionStart := l.expandTranslationStart()
		if fraction >= 0 {
			translation = algo.Lerp(transitionStart, 0, fraction)
		} else {
			translation = h - start + transitionStart
		}
		if l.inHeadsUpTransition() {
			stackHeight = l.firstPinned().Height()
			translation = algo.Lerp(l.cfg.HeadsUpInset-l.amb.TopPadding, 0, fraction)
		} else {
			stackHeight = h - translation
		}
	}

	if stackHeight != l.currentStackHeight {
		l.currentStackHeight = stackHeight
		l.updateAlgorithmHeightAndPadding()
		l.RequestUpdate()
	}
	if translation != l.amb.StackTranslation {
		l.amb.StackTranslation = translation
		l.RequestUpdate()
	}
	if l.ls.ExpandedHeight != nil {
		l.ls.ExpandedHeight.ExpandedHeightChanged(l.expandedHeight, fraction)
	}
}

// AppearFraction returns the fraction SetExpandedHeight would report for h.
func (l *Layout) AppearFraction(h float64) float64 {
	start := l.appearStartPosition()
	end := l.appearEndPosition()
	if h >= end || end <= start {
		return 1
	}
	return (h - start) / (end - start)
}

func (l *Layout) minExpansionHeight() float64 {
	shelf := l.table.Find(stack.KindShelf)
	if shelf == nil || shelf.IsGone() {
		return 0
	}
	h := shelf.IntrinsicHeight
	return h - (h-l.cfg.StatusBarHeight)/2
}

func (l *Layout) expandTranslationStart() float64 {
	return -l.amb.TopPadding + l.minExpansionHeight()
}

func (l *Layout) inHeadsUpTransition() bool {
	return l.trackingHeadsUp && l.firstPinned() != nil
}

func (l *Layout) appearStartPosition() float64 {
	if l.inHeadsUpTransition() {
		return l.cfg.HeadsUpInset + l.firstPinned().Height()
	}
	return l.minExpansionHeight()
}

// appearEndPosition is the expansion height at which the stack has fully
// appeared.
func (l *Layout) appearEndPosition() float64 {
	var end float64
	empty := l.table.Find(stack.KindEmptyShade)
	if (empty == nil || empty.IsGone()) && l.table.NotGoneCount() != 0 {
		if pinned := l.firstPinned(); pinned != nil && (l.inHeadsUpTransition() || !l.amb.FullyDark()) {
			end = pinned.Height()
		} else if shelf := l.table.Find(stack.KindShelf); shelf != nil && !shelf.IsGone() {
			end = shelf.IntrinsicHeight
		}
	} else if empty != nil {
		end = empty.IntrinsicHeight
	}
	if l.amb.Keyguard {
		return end + l.amb.TopPadding
	}
	return end + l.cfg.IntrinsicPadding
}

// SetTrackingHeadsUp marks that the panel is being pulled open from a pinned
// heads-up.
func (l *Layout) SetTrackingHeadsUp(tracking bool) {
	l.trackingHeadsUp = tracking
}

// IsBelowLastItem reports whether (x, y) is in the empty space below the
// last item, the footer's own empty area included.
func (l *Layout) IsBelowLastItem(x, y float64) bool {
	items := l.table.Items()
	for i := len(items) - 1; i >= 0; i-- {
		it := items[i]
		if it.IsGone() {
			continue
		}
		if it.TranslationY > y {
			return false
		}
		below := y > it.TranslationY+it.ActualHeight-it.ClipBottom
		switch it.Kind {
		case stack.KindFooter:
			if !below && x >= it.ControlsLeft && x <= it.ControlsRight {
				return false
			}
		case stack.KindEmptyShade:
			return true
		default:
			if !below {
				return false
			}
		}
	}
	return y > l.amb.TopPadding+l.amb.StackTranslation
}

// UpdateSpeedBumpIndex moves the speed bump below the last high-priority
// row.
func (l *Layout) UpdateSpeedBumpIndex() {
	idx, last := 0, 0
	for _, it := range l.table.Items() {
		if it.IsGone() || it.Kind != stack.KindRow {
			continue
		}
		idx++
		if it.Priority == stack.PriorityHigh {
			last = idx
		}
	}
	l.amb.SpeedBumpIndex = last
}
