package anim

import (
	"math"
	"time"

	"github.com/abelbrown/stackview/internal/ambient"
	"github.com/abelbrown/stackview/internal/logging"
	"github.com/abelbrown/stackview/internal/stack"
)

// Generator drains a Pending set into a batch.
type Generator struct {
	now            func() time.Time
	moreCardLength time.Duration
	missing        *logging.Throttle
}

// NewGenerator returns a generator that stamps events with clock. A nil clock
// uses time.Now.
func NewGenerator(clock func() time.Time) *Generator {
	if clock == nil {
		clock = time.Now
	}
	return &Generator{
		now:            clock,
		moreCardLength: DurationMoreCardAdd,
		missing:        logging.NewThrottle("heads-up item without layout state", 3, 5*time.Second),
	}
}

// SetMoreCardAddDuration overrides the length of additions that come from
// the "show more" affordance.
func (g *Generator) SetMoreCardAddDuration(d time.Duration) {
	if d > 0 {
		g.moreCardLength = d
	}
}

// Generate returns the events for the queued changes in their fixed order and
// empties p. The result is fully determined by p, t, states and amb.
func (g *Generator) Generate(p *Pending, t *stack.Table, states stack.States, amb *ambient.State) []Event {
	now := g.now()
	var out []Event
	out = g.headsUp(out, p, t, states, amb, now)
	out = g.removals(out, p, t, now)
	out = g.additions(out, p, now)
	out = g.positions(out, p, now)
	for _, id := range p.snappedBack.ids {
		out = append(out, newEvent(SnapBack, id, now))
	}
	for _, id := range p.dragPending.ids {
		out = append(out, newEvent(StartDrag, id, now))
	}
	if p.topPadding {
		ev := newEvent(TopPaddingChanged, "", now)
		if amb.DarkTarget {
			ev.Duration = DurationTopPaddingWhenDark
		}
		out = append(out, ev)
	}
	if p.activate {
		out = append(out, newEvent(ActivatedChild, "", now))
	}
	if p.dimmed {
		out = append(out, newEvent(Dimmed, "", now))
	}
	if p.hideSensitive {
		out = append(out, newEvent(HideSensitive, "", now))
	}
	if p.dark {
		ev := newEvent(Dark, "", now)
		ev.Duration = DarkDuration(amb.DarkTarget, t.NotGoneCount())
		if shelf := t.Find(stack.KindShelf); shelf != nil {
			ev.YOnly = shelf.ID
		} else {
			ev.Filter &^= FilterY
		}
		ev.DarkOriginIndex = p.darkOrigin
		out = append(out, ev)
	}
	if p.goToFullShade {
		out = append(out, newEvent(GoToFullShade, "", now))
	}
	if p.viewResize && !hasDisappear(out) {
		out = append(out, newEvent(ViewResize, "", now))
	}
	if p.groupExpansion != "" {
		out = append(out, newEvent(GroupExpansionChanged, p.groupExpansion, now))
	}
	if p.everything {
		out = append(out, newEvent(Everything, "", now))
	}
	if p.pulse != "" {
		typ := PulseDisappear
		if p.pulseAppear {
			typ = PulseAppear
		}
		out = append(out, newEvent(typ, p.pulse, now))
	}
	p.Clear()
	return out
}

func (g *Generator) headsUp(out []Event, p *Pending, t *stack.Table, states stack.States, amb *ambient.State, now time.Time) []Event {
	for _, c := range p.headsUp {
		it, ok := t.Get(c.id)
		if !ok {
			continue
		}
		typ := HeadsUpOther
		fromBottom := false
		pinnedAndClosed := it.Pinned && !amb.Expanded
		if !amb.Expanded && !c.isHeadsUp {
			typ = HeadsUpDisappear
			if it.JustClicked {
				typ = HeadsUpDisappearClick
			}
			if it.IsChildInGroup() {
				// The group may have isolated it; it would never stop animating.
				it.HeadsUpAnimatingAway = false
				continue
			}
		} else {
			st, ok := states[c.id]
			if !ok {
				g.missing.Warn("id", c.id)
				continue
			}
			if c.isHeadsUp && (p.addedHeadsUp.contains(c.id) || pinnedAndClosed) {
				if pinnedAndClosed || st.Y+st.Height >= amb.MaxHeadsUpTranslation {
					typ = HeadsUpAppear
				} else {
					typ = Add
				}
				fromBottom = !pinnedAndClosed
			}
		}
		ev := newEvent(typ, c.id, now)
		ev.HeadsUpFromBottom = fromBottom
		out = append(out, ev)
	}
	return out
}

func (g *Generator) removals(out []Event, p *Pending, t *stack.Table, now time.Time) []Event {
	for _, id := range p.toRemove.ids {
		// The table no longer holds it.
		it := p.removedItem(id)
		swiped := p.swipedOut.contains(id)
		translation := 0.0
		ignoreChildren := true
		if it != nil {
			translation = it.TranslationY
			if it.Removed && it.ChildInGroupWhenRemoved {
				translation = it.TranslationWhenRemoved
				ignoreChildren = false
			}
			if it.Width > 0 && math.Abs(it.TranslationX) == it.Width {
				swiped = true
			}
			if it.ClipBoundsEmpty {
				swiped = true
			}
		}
		typ := Remove
		if swiped {
			typ = RemoveSwipedOut
		}
		ev := newEvent(typ, id, now)
		ev.ItemBelow = FirstBelow(t, translation, ignoreChildren)
		out = append(out, ev)
		p.swipedOut.remove(id)
	}
	return out
}

func (g *Generator) additions(out []Event, p *Pending, now time.Time) []Event {
	for _, id := range p.toAdd.ids {
		ev := newEvent(Add, id, now)
		if p.fromMoreCard.contains(id) {
			ev.Duration = g.moreCardLength
		}
		out = append(out, ev)
	}
	return out
}

func (g *Generator) positions(out []Event, p *Pending, now time.Time) []Event {
	for _, id := range p.changingPos.ids {
		out = append(out, newEvent(ChangePosition, id, now))
	}
	if p.childOrderChange {
		out = append(out, newEvent(ChangePosition, "", now))
	}
	return out
}

func hasDisappear(events []Event) bool {
	for _, e := range events {
		if e.Type == HeadsUpDisappear || e.Type == HeadsUpDisappearClick {
			return true
		}
	}
	return false
}

// FirstBelow returns the first not-gone top-level item whose translation is
// at or below y. Unless ignoreChildren is set, the children of expanded
// groups that start above y are searched as well.
func FirstBelow(t *stack.Table, y float64, ignoreChildren bool) stack.ID {
	for _, it := range t.Items() {
		if it.IsGone() {
			continue
		}
		if it.TranslationY >= y {
			return it.ID
		}
		if ignoreChildren || !it.IsSummaryWithChildren() || !it.ChildrenExpanded {
			continue
		}
		for _, c := range t.ChildrenOf(it.ID) {
			if c.TranslationY+it.TranslationY >= y {
				return c.ID
			}
		}
	}
	return ""
}
