package anim

import (
	"time"

	"github.com/abelbrown/stackview/internal/stack"
)

// idSet is an insertion-ordered set of item ids.
type idSet struct {
	ids []stack.ID
	has map[stack.ID]bool
}

func (s *idSet) add(id stack.ID) {
	if s.has == nil {
		s.has = make(map[stack.ID]bool)
	}
	if s.has[id] {
		return
	}
	s.has[id] = true
	s.ids = append(s.ids, id)
}

func (s *idSet) remove(id stack.ID) bool {
	if !s.has[id] {
		return false
	}
	delete(s.has, id)
	for i, o := range s.ids {
		if o == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			break
		}
	}
	return true
}

func (s *idSet) contains(id stack.ID) bool {
	return s.has[id]
}

func (s *idSet) len() int {
	return len(s.ids)
}

func (s *idSet) clear() {
	s.ids = s.ids[:0]
	clear(s.has)
}

type headsUpChange struct {
	id        stack.ID
	isHeadsUp bool
}

// Pending collects the structural and state changes made between two frames.
// Generate drains it; a change contributes to exactly one batch.
type Pending struct {
	expanded           bool
	animationsEnabled  bool
	changingPosition   bool
	headsUpAwayAllowed bool

	toAdd            idSet
	fromMoreCard     idSet
	toRemove         idSet
	removed          map[stack.ID]*stack.Item
	swipedOut        idSet
	changingPos      idSet
	snappedBack      idSet
	dragPending      idSet
	headsUp          []headsUpChange
	addedHeadsUp     idSet
	childOrderChange bool

	topPadding     bool
	activate       bool
	dimmed         bool
	hideSensitive  bool
	dark           bool
	darkOrigin     int
	goToFullShade  bool
	fullShadeDelay time.Duration
	viewResize     bool
	everything     bool
	pulse          stack.ID
	pulseAppear    bool
	groupExpansion stack.ID

	needsAnimation bool
}

// NewPending returns an empty change set. Heads-up disappear animations are
// allowed until SetHeadsUpGoingAwayAllowed says otherwise.
func NewPending() *Pending {
	return &Pending{headsUpAwayAllowed: true}
}

// SetExpanded records whether the stack is expanded. Add and remove
// animations are only queued while it is.
func (p *Pending) SetExpanded(expanded bool) { p.expanded = expanded }

// SetAnimationsEnabled records whether animations may be queued at all.
func (p *Pending) SetAnimationsEnabled(enabled bool) { p.animationsEnabled = enabled }

// AnimationsEnabled reports the last value set by SetAnimationsEnabled.
func (p *Pending) AnimationsEnabled() bool { return p.animationsEnabled }

// SetHeadsUpGoingAwayAllowed gates heads-up disappear animations.
func (p *Pending) SetHeadsUpGoingAwayAllowed(allowed bool) { p.headsUpAwayAllowed = allowed }

// Added queues an add animation for it. An item shown as heads-up is routed
// to the heads-up classification instead. Re-adding an item whose removal is
// still pending cancels the removal and queues a position change instead.
func (p *Pending) Added(it *stack.Item, fromMoreCard bool) {
	if p.toRemove.remove(it.ID) {
		delete(p.removed, it.ID)
		p.swipedOut.remove(it.ID)
		p.changingPos.add(it.ID)
		p.needsAnimation = true
		return
	}
	if p.expanded && p.animationsEnabled && !p.changingPosition {
		p.toAdd.add(it.ID)
		if fromMoreCard {
			p.fromMoreCard.add(it.ID)
		}
		p.needsAnimation = true
	}
	if it.HeadsUp && p.animationsEnabled && !p.changingPosition {
		p.addedHeadsUp.add(it.ID)
		p.toAdd.remove(it.ID)
		p.fromMoreCard.remove(it.ID)
	}
}

// Removed queues a remove animation for it and reports whether one was
// queued. Removing an item whose add is still pending cancels both, as does
// removing an item that was just shown as heads-up. hiddenInGroup is true
// for a child of a collapsed group.
func (p *Pending) Removed(it *stack.Item, hiddenInGroup bool) bool {
	if p.dropHeadsUpAdd(it) {
		p.addedHeadsUp.remove(it.ID)
		return false
	}
	if !p.expanded || !p.animationsEnabled || hiddenInGroup {
		return false
	}
	if p.toAdd.remove(it.ID) {
		p.fromMoreCard.remove(it.ID)
		return false
	}
	p.toRemove.add(it.ID)
	if p.removed == nil {
		p.removed = make(map[stack.ID]*stack.Item)
	}
	p.removed[it.ID] = it
	p.needsAnimation = true
	return true
}

func (p *Pending) removedItem(id stack.ID) *stack.Item {
	return p.removed[id]
}

func (p *Pending) dropHeadsUpAdd(it *stack.Item) bool {
	hasAdd := false
	for _, c := range p.headsUp {
		if c.id == it.ID && c.isHeadsUp {
			hasAdd = true
		}
	}
	if !hasAdd {
		return false
	}
	kept := p.headsUp[:0]
	for _, c := range p.headsUp {
		if c.id != it.ID {
			kept = append(kept, c)
		}
	}
	p.headsUp = kept
	it.HeadsUpAnimatingAway = false
	return true
}

// SwipedOut marks id as dismissed by a completed swipe so its removal uses
// the short animation.
func (p *Pending) SwipedOut(id stack.ID) {
	p.swipedOut.add(id)
}

// BeginChangePosition suppresses add animations while an item is re-inserted
// at a new index. EndChangePosition queues the move itself.
func (p *Pending) BeginChangePosition() { p.changingPosition = true }

// EndChangePosition ends the re-insertion started by BeginChangePosition and
// queues a position animation for id when the stack can animate.
func (p *Pending) EndChangePosition(id stack.ID, gone bool) {
	p.changingPosition = false
	if p.expanded && p.animationsEnabled && !gone {
		p.changingPos.add(id)
		p.needsAnimation = true
	}
}

// ChildOrderChanged queues a position animation without a target.
func (p *Pending) ChildOrderChanged() {
	p.childOrderChange = true
	p.needsAnimation = true
}

// SnappedBack queues the snap-back after an aborted swipe.
func (p *Pending) SnappedBack(id stack.ID) {
	p.snappedBack.add(id)
	p.needsAnimation = true
}

// DragStarted queues the lift of an item that started being swiped.
func (p *Pending) DragStarted(id stack.ID) {
	p.dragPending.add(id)
	p.needsAnimation = true
}

// HeadsUp queues a heads-up transition for it and reports whether one was
// queued. A collapsed stack marks a disappearing item as animating away.
func (p *Pending) HeadsUp(it *stack.Item, isHeadsUp bool) bool {
	if !p.animationsEnabled || (!isHeadsUp && !p.headsUpAwayAllowed) {
		return false
	}
	p.headsUp = append(p.headsUp, headsUpChange{id: it.ID, isHeadsUp: isHeadsUp})
	p.needsAnimation = true
	if !p.expanded && !isHeadsUp {
		it.HeadsUpAnimatingAway = true
	}
	return true
}

// TopPaddingChanged queues a top padding animation.
func (p *Pending) TopPaddingChanged() {
	p.topPadding = true
	p.needsAnimation = true
}

// ActivateChanged queues an activated item animation.
func (p *Pending) ActivateChanged() {
	p.activate = true
	p.needsAnimation = true
}

// DimmedChanged queues a dim animation.
func (p *Pending) DimmedChanged() {
	p.dimmed = true
	p.needsAnimation = true
}

// HideSensitiveChanged queues a hide-sensitive animation.
func (p *Pending) HideSensitiveChanged() {
	p.hideSensitive = true
	p.needsAnimation = true
}

// DarkChanged queues a dark transition radiating from origin.
func (p *Pending) DarkChanged(origin int) {
	p.dark = true
	p.darkOrigin = origin
	p.needsAnimation = true
}

// GoToFullShade queues the go-to-full-shade animation with a start delay.
func (p *Pending) GoToFullShade(delay time.Duration) {
	p.goToFullShade = true
	p.fullShadeDelay = delay
	p.needsAnimation = true
}

// TakeGoToFullShadeDelay returns and resets the go-to-full-shade delay.
func (p *Pending) TakeGoToFullShadeDelay() time.Duration {
	d := p.fullShadeDelay
	p.fullShadeDelay = 0
	return d
}

// ViewResized queues a resize animation.
func (p *Pending) ViewResized() {
	p.viewResize = true
	p.needsAnimation = true
}

// AnimateEverything queues a full re-animation.
func (p *Pending) AnimateEverything() {
	p.everything = true
	p.needsAnimation = true
}

// Pulse queues a pulse animation on id, appearing when pulsing is true.
func (p *Pending) Pulse(id stack.ID, pulsing bool) {
	p.pulse = id
	p.pulseAppear = pulsing
	if id != "" {
		p.needsAnimation = true
	}
}

// GroupExpansionChanged queues a group expansion animation on id.
func (p *Pending) GroupExpansionChanged(id stack.ID) {
	p.groupExpansion = id
	p.needsAnimation = true
}

// RequestAnimation marks the frame as needing a batch even if nothing else
// is queued.
func (p *Pending) RequestAnimation() { p.needsAnimation = true }

// HasPendingStructuralWork reports whether the next frame must generate a
// batch rather than apply the layout targets directly.
func (p *Pending) HasPendingStructuralWork() bool {
	return p.needsAnimation
}

// IsAddOrRemovePending reports whether an add or remove animation is queued.
func (p *Pending) IsAddOrRemovePending() bool {
	return p.needsAnimation && (p.toAdd.len() > 0 || p.toRemove.len() > 0)
}

// IsAddPending reports whether id has a queued add animation.
func (p *Pending) IsAddPending(id stack.ID) bool {
	return p.toAdd.contains(id)
}

// Clear drops every queued change. Swiped-out marks stay until the item's
// removal is generated.
func (p *Pending) Clear() {
	p.toAdd.clear()
	p.fromMoreCard.clear()
	p.toRemove.clear()
	p.removed = nil
	p.changingPos.clear()
	p.snappedBack.clear()
	p.dragPending.clear()
	p.headsUp = p.headsUp[:0]
	p.addedHeadsUp.clear()
	p.childOrderChange = false
	p.topPadding = false
	p.activate = false
	p.dimmed = false
	p.hideSensitive = false
	p.dark = false
	p.goToFullShade = false
	p.viewResize = false
	p.everything = false
	p.pulse = ""
	p.groupExpansion = ""
	p.needsAnimation = false
}

// DropRemovals forgets queued removals and swipe marks. It is used when
// animations are turned off and removed items will never animate out.
func (p *Pending) DropRemovals() {
	p.swipedOut.clear()
	p.toRemove.clear()
	p.removed = nil
}
