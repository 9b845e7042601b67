// Package anim turns the structural changes queued during a frame into an
// ordered batch of typed animation events for the property executor.
package anim

import (
	"strings"
	"time"

	"github.com/abelbrown/stackview/internal/stack"
)

// Type is the kind of an animation event.
type Type int

const (
	Add Type = iota
	Remove
	RemoveSwipedOut
	TopPaddingChanged
	StartDrag
	SnapBack
	ActivatedChild
	Dimmed
	ChangePosition
	Dark
	GoToFullShade
	HideSensitive
	ViewResize
	GroupExpansionChanged
	HeadsUpAppear
	HeadsUpDisappear
	HeadsUpDisappearClick
	HeadsUpOther
	Everything
	PulseAppear
	PulseDisappear

	numTypes
)

var typeNames = [numTypes]string{
	"add", "remove", "remove-swiped-out", "top-padding-changed", "start-drag",
	"snap-back", "activated-child", "dimmed", "change-position", "dark",
	"go-to-full-shade", "hide-sensitive", "view-resize", "group-expansion-changed",
	"heads-up-appear", "heads-up-disappear", "heads-up-disappear-click",
	"heads-up-other", "everything", "pulse-appear", "pulse-disappear",
}

func (t Type) String() string {
	if t < 0 || t >= numTypes {
		return "unknown"
	}
	return typeNames[t]
}

// Filter selects the properties an event animates.
type Filter uint16

const (
	FilterAlpha Filter = 1 << iota
	FilterHeight
	FilterY
	FilterZ
	FilterShadowAlpha
	FilterTopInset
	FilterDimmed
	FilterHideSensitive
	FilterDark
	// FilterHasDelays marks events whose items start with a per-item delay.
	FilterHasDelays
)

// Has reports whether every bit of g is set in f.
func (f Filter) Has(g Filter) bool {
	return f&g == g
}

func (f Filter) String() string {
	names := []string{"alpha", "height", "y", "z", "shadow-alpha", "top-inset", "dimmed", "hide-sensitive", "dark", "delays"}
	var parts []string
	for i, n := range names {
		if f&(1<<i) != 0 {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, "|")
}

// Default durations.
const (
	DurationStandard           = 360 * time.Millisecond
	DurationAppearDisappear    = 464 * time.Millisecond
	DurationDimmedActivated    = 220 * time.Millisecond
	DurationWakeup             = 500 * time.Millisecond
	DurationGoToFullShade      = 448 * time.Millisecond
	DurationHeadsUpAppear      = 550 * time.Millisecond
	DurationHeadsUpDisappear   = 300 * time.Millisecond
	DurationPulseAppear        = 550 * time.Millisecond
	DurationPulseDisappear     = DurationPulseAppear / 2
	DurationTopPaddingWhenDark = 550 * time.Millisecond
	DurationMoreCardAdd        = 550 * time.Millisecond
)

const layoutFilter = FilterShadowAlpha | FilterHeight | FilterTopInset | FilterY | FilterZ

var filters = [numTypes]Filter{
	Add:                   layoutFilter | FilterHasDelays,
	Remove:                layoutFilter | FilterHasDelays,
	RemoveSwipedOut:       layoutFilter | FilterHasDelays,
	TopPaddingChanged:     layoutFilter | FilterDimmed,
	StartDrag:             FilterShadowAlpha,
	SnapBack:              FilterShadowAlpha | FilterHeight,
	ActivatedChild:        FilterZ,
	Dimmed:                FilterDimmed,
	ChangePosition:        layoutFilter | FilterAlpha,
	Dark:                  FilterDark | FilterY,
	GoToFullShade:         layoutFilter | FilterDimmed | FilterHasDelays,
	HideSensitive:         FilterHideSensitive,
	ViewResize:            layoutFilter,
	GroupExpansionChanged: layoutFilter | FilterAlpha,
	HeadsUpAppear:         layoutFilter,
	HeadsUpDisappear:      layoutFilter | FilterHasDelays,
	HeadsUpDisappearClick: layoutFilter | FilterHasDelays,
	HeadsUpOther:          layoutFilter,
	Everything:            layoutFilter | FilterAlpha | FilterDark | FilterDimmed | FilterHideSensitive,
	PulseAppear:           FilterAlpha | FilterY | FilterHasDelays,
	PulseDisappear:        FilterAlpha | FilterY | FilterHasDelays,
}

var durations = [numTypes]time.Duration{
	Add:                   DurationAppearDisappear,
	Remove:                DurationAppearDisappear,
	RemoveSwipedOut:       DurationStandard,
	TopPaddingChanged:     DurationStandard,
	StartDrag:             DurationStandard,
	SnapBack:              DurationStandard,
	ActivatedChild:        DurationDimmedActivated,
	Dimmed:                DurationDimmedActivated,
	ChangePosition:        DurationStandard,
	Dark:                  DurationWakeup,
	GoToFullShade:         DurationGoToFullShade,
	HideSensitive:         DurationStandard,
	ViewResize:            DurationStandard,
	GroupExpansionChanged: DurationStandard,
	HeadsUpAppear:         DurationHeadsUpAppear,
	HeadsUpDisappear:      DurationHeadsUpDisappear,
	HeadsUpDisappearClick: DurationHeadsUpDisappear,
	HeadsUpOther:          DurationStandard,
	Everything:            DurationStandard,
	PulseAppear:           DurationPulseAppear,
	PulseDisappear:        DurationPulseDisappear,
}

// DefaultFilter returns the property filter of t.
func DefaultFilter(t Type) Filter {
	if t < 0 || t >= numTypes {
		return 0
	}
	return filters[t]
}

// DefaultDuration returns the duration of t.
func DefaultDuration(t Type) time.Duration {
	if t < 0 || t >= numTypes {
		return 0
	}
	return durations[t]
}

// Dark animation origins that are not an item index.
const (
	DarkOriginAbove = -1
	DarkOriginBelow = -2
)

// Event is one entry of a batch. Events are not modified after Generate
// returns them.
type Event struct {
	Type     Type
	Target   stack.ID
	Filter   Filter
	Duration time.Duration
	Created  time.Time

	// ItemBelow is the item that moves into the slot a removed item vacated.
	ItemBelow stack.ID
	// DarkOriginIndex is the item index the dark transition radiates from,
	// or DarkOriginAbove / DarkOriginBelow.
	DarkOriginIndex   int
	HeadsUpFromBottom bool
	// YOnly restricts FilterY to one item. Empty means every item.
	YOnly stack.ID
}

func newEvent(t Type, target stack.ID, now time.Time) Event {
	return Event{
		Type:     t,
		Target:   target,
		Filter:   filters[t],
		Duration: durations[t],
		Created:  now,
	}
}

// Animates reports whether the event animates property f of item id.
func (e Event) Animates(f Filter, id stack.ID) bool {
	if !e.Filter.Has(f) {
		return false
	}
	if f&FilterY != 0 && e.YOnly != "" && e.YOnly != id {
		return false
	}
	return true
}

// CombineLength returns the duration of a batch: the longest event, except
// that a go-to-full-shade event dictates the length on its own.
func CombineLength(events []Event) time.Duration {
	var d time.Duration
	for _, e := range events {
		if e.Type == GoToFullShade {
			return e.Duration
		}
		if e.Duration > d {
			d = e.Duration
		}
	}
	return d
}

// DarkDuration returns the dark transition length. Going dark with more
// than two items takes 20% longer.
func DarkDuration(dark bool, notGone int) time.Duration {
	d := DurationWakeup
	if dark && notGone > 2 {
		d = d * 6 / 5
	}
	return d
}
