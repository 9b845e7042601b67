// Package algo computes layout targets by stacking the items top to bottom in
// table order. It is the reference implementation of the layout-target
// collaborator the engine consumes.
package algo

import (
	"math"

	"github.com/abelbrown/stackview/internal/ambient"
	"github.com/abelbrown/stackview/internal/stack"
)

// Config holds the spacing constants, in pixels.
type Config struct {
	PaddingBetween   float64
	IncreasedPadding float64
	// ChildPadding separates the children of an expanded group.
	ChildPadding float64
	// HeadsUpZ lifts pinned heads-up items above the list.
	HeadsUpZ float64
}

// DefaultConfig returns the spacing used without configuration.
func DefaultConfig() Config {
	return Config{
		PaddingBetween:   10,
		IncreasedPadding: 16,
		ChildPadding:     2,
		HeadsUpZ:         4,
	}
}

// Algorithm is the linear stacking algorithm. It keeps no state between
// calls.
type Algorithm struct {
	cfg Config
}

// New returns an algorithm using cfg.
func New(cfg Config) *Algorithm {
	return &Algorithm{cfg: cfg}
}

// Compute returns the target of every not-gone item in t and of the children
// of every group. Top-level items sit at
// topPadding + stackTranslation + position - scrollY + overscrollTop, where
// position is the item's offset in the linear layout. Children are placed
// relative to their group.
func (a *Algorithm) Compute(t *stack.Table, amb *ambient.State) stack.States {
	states := make(stack.States, t.Len())
	top := amb.TopPadding + amb.StackTranslation - amb.ScrollY + amb.OverscrollTop
	spacer := NewSpacer(a.cfg.PaddingBetween, a.cfg.IncreasedPadding)
	position := 0.0

	for _, it := range t.Items() {
		if it.IsGone() {
			continue
		}
		gap := spacer.Next(it.IncreasedPaddingAmount)
		if position != 0 {
			position += gap
		}
		h := it.Height()
		st := stack.State{
			Y:           top + position,
			Height:      h,
			Alpha:       1,
			Dimmed:      amb.Dimmed && it.ID != amb.ActivatedItem,
			Dark:        amb.DarkTarget,
			HideContent: amb.HideSensitive,
		}
		switch {
		case it.Pinned && !amb.Expanded:
			st.Y = amb.HeadsUpInset
			st.Z = a.cfg.HeadsUpZ
		case !amb.Expanded:
			st.Hidden = true
		case amb.Pulsing && amb.FullyDark() && !it.Pulsing:
			st.Hidden = true
		}
		a.clip(&st, amb)
		states[it.ID] = st
		if !it.HasNoContentHeight() {
			position += h
		}
		a.children(states, t, it, st)
	}
	return states
}

func (a *Algorithm) clip(st *stack.State, amb *ambient.State) {
	if amb.LayoutHeight <= 0 || st.Z > 0 {
		return
	}
	over := st.Y + st.Height - amb.LayoutHeight
	st.ClipBottom = math.Max(0, math.Min(over, st.Height))
	if st.ClipBottom >= st.Height && st.Height > 0 {
		st.Hidden = true
	}
}

func (a *Algorithm) children(states stack.States, t *stack.Table, parent *stack.Item, pst stack.State) {
	if !parent.IsSummaryWithChildren() {
		return
	}
	y := parent.CollapsedHeight
	for _, c := range t.ChildrenOf(parent.ID) {
		if c.IsGone() {
			continue
		}
		h := c.Height()
		states[c.ID] = stack.State{
			Y:           y,
			Height:      h,
			Alpha:       1,
			Dimmed:      pst.Dimmed,
			Dark:        pst.Dark,
			HideContent: pst.HideContent,
			Hidden:      pst.Hidden || !parent.ChildrenExpanded,
		}
		y += h + a.cfg.ChildPadding
	}
}
