// Package gesture decides which recognizer owns a pointer sequence on the
// stack and sequences the staggered dismiss-all animation.
//
// Three recognizers compete for every sequence: item expansion, list scroll
// and swipe-to-dismiss. They are asked in that order until one claims the
// sequence, and the first claim keeps it until the pointer goes up.
package gesture

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/abelbrown/stackview/internal/logging"
	"github.com/abelbrown/stackview/internal/otel"
)

// ErrUnknownPointer is returned for a move or up of a pointer that never went
// down. The event is ignored and the sequence continues.
var ErrUnknownPointer = errors.New("unknown pointer")

// Action is the kind of a pointer event.
type Action int

const (
	Down Action = iota
	Move
	Up
	Cancel
	PointerDown
	PointerUp
)

func (a Action) String() string {
	switch a {
	case Down:
		return "down"
	case Move:
		return "move"
	case Up:
		return "up"
	case Cancel:
		return "cancel"
	case PointerDown:
		return "pointer-down"
	case PointerUp:
		return "pointer-up"
	}
	return "unknown"
}

// Event is one pointer event in layout coordinates.
type Event struct {
	Action    Action
	PointerID int
	X, Y      float64
	Time      time.Time
}

// State is the owner of the current sequence.
type State int

const (
	Idle State = iota
	ExpandClaimed
	ScrollClaimed
	SwipeClaimed
)

func (s State) String() string {
	switch s {
	case ExpandClaimed:
		return "expand"
	case ScrollClaimed:
		return "scroll"
	case SwipeClaimed:
		return "swipe"
	}
	return "idle"
}

// Recognizer is an item-expand or swipe-dismiss recognizer. Intercept sees
// every event until some recognizer claims the sequence and returns true to
// claim it. Handle receives the rest of a claimed sequence and returns false
// once the recognizer lets go.
type Recognizer interface {
	Intercept(ev Event) bool
	Handle(ev Event) bool
}

// Scroller is the scroll engine as the scroll recognizer drives it.
type Scroller interface {
	BeginMotion()
	Drag(deltaY float64)
	Release(velocity float64)
	Cancel()
	Flinging() bool
	StopFling()
	MarkExpandedInMotion()
	ExpandedInMotion() bool
}

// Surface answers layout questions about the stack.
type Surface interface {
	Expanded() bool
	// Expanding reports whether an item is being expanded by the user.
	Expanding() bool
	OnKeyguard() bool
	InContentBounds(y float64) bool
	IsBelowLastItem(x, y float64) bool
}

// EmptySpaceListener is told about taps below the last item.
type EmptySpaceListener interface {
	EmptySpaceClicked(x, y float64)
}

// Config holds the input thresholds.
type Config struct {
	TouchSlop       float64
	MaximumVelocity float64
}

// DefaultConfig returns the thresholds used without configuration.
func DefaultConfig() Config {
	return Config{TouchSlop: 8, MaximumVelocity: 8000}
}

const noPointer = -1

type pointer struct {
	x, y float64
}

// Arbiter routes pointer events to the recognizer that owns the sequence.
// It is driven from the frame loop goroutine only.
type Arbiter struct {
	cfg      Config
	scroller Scroller
	surface  Surface
	expand   Recognizer
	swipe    Recognizer
	listener EmptySpaceListener
	trace    *otel.Logger
	lost     *logging.Throttle

	state    State
	pointers map[int]pointer
	velocity VelocityTracker

	activePointer int
	lastMotionY   float64
	downX         float64
	dragging      bool

	onlyScrolling   bool
	disallowScroll  bool
	disallowDismiss bool
	touchIsClick    bool
	initialX        float64
	initialY        float64
}

// NewArbiter wires the recognizers. expand, swipe, listener and trace may be
// nil.
func NewArbiter(cfg Config, scroller Scroller, surface Surface, expand, swipe Recognizer, listener EmptySpaceListener, trace *otel.Logger) *Arbiter {
	return &Arbiter{
		cfg:           cfg,
		scroller:      scroller,
		surface:       surface,
		expand:        expand,
		swipe:         swipe,
		listener:      listener,
		trace:         trace,
		lost:          logging.NewThrottle("pointer event for unknown pointer", 3, 2*time.Second),
		pointers:      make(map[int]pointer),
		activePointer: noPointer,
	}
}

// State returns the owner of the current sequence.
func (a *Arbiter) State() State {
	return a.state
}

// Dragging reports whether the list is being scroll-dragged.
func (a *Arbiter) Dragging() bool {
	return a.dragging
}

// DisallowScrollInMotion stops the scroll recognizer from claiming the rest
// of the current sequence.
func (a *Arbiter) DisallowScrollInMotion() {
	a.disallowScroll = true
}

// DisallowDismissInMotion stops the swipe recognizer from claiming the rest
// of the current sequence.
func (a *Arbiter) DisallowDismissInMotion() {
	a.disallowDismiss = true
}

// Dispatch feeds one pointer event through the arbitration. It returns
// ErrUnknownPointer, and otherwise ignores the event, when a move or up
// names a pointer that is not down.
func (a *Arbiter) Dispatch(ev Event) error {
	switch ev.Action {
	case Down:
		a.initDownStates(ev)
	case Move, Up, PointerUp:
		if _, ok := a.pointers[ev.PointerID]; !ok {
			a.lost.Warn("pointer", ev.PointerID, "action", ev.Action.String())
			a.trace.Emit(otel.Event{Level: otel.LevelWarn, Kind: otel.KindGesturePointerLost, Comp: "gesture",
				Count: ev.PointerID, Msg: ev.Action.String()})
			return fmt.Errorf("%s: pointer %d: %w", ev.Action, ev.PointerID, ErrUnknownPointer)
		}
	case PointerDown:
		a.pointers[ev.PointerID] = pointer{ev.X, ev.Y}
	}
	if ev.Action == Move {
		a.pointers[ev.PointerID] = pointer{ev.X, ev.Y}
	}
	a.handleEmptySpaceClick(ev)

	switch a.state {
	case Idle:
		a.arbitrate(ev)
	case ExpandClaimed:
		if !a.expand.Handle(ev) && ev.Action == Move && a.surface.Expanded() && !a.disallowScroll {
			// The expansion ended mid-motion; keep scrolling from here.
			a.startScroll(ev)
			a.claim(ScrollClaimed)
		}
	case ScrollClaimed:
		a.scrollTouch(ev)
	case SwipeClaimed:
		a.swipe.Handle(ev)
	}

	switch ev.Action {
	case Up, Cancel:
		a.endSequence()
	case PointerUp:
		delete(a.pointers, ev.PointerID)
	}
	return nil
}

func (a *Arbiter) initDownStates(ev Event) {
	a.state = Idle
	clear(a.pointers)
	a.pointers[ev.PointerID] = pointer{ev.X, ev.Y}
	a.onlyScrolling = a.scroller.Flinging()
	a.scroller.BeginMotion()
	a.disallowScroll = false
	a.disallowDismiss = false
	a.touchIsClick = true
	a.initialX, a.initialY = ev.X, ev.Y
}

func (a *Arbiter) handleEmptySpaceClick(ev Event) {
	switch ev.Action {
	case Move:
		if a.touchIsClick && (math.Abs(ev.Y-a.initialY) > a.cfg.TouchSlop || math.Abs(ev.X-a.initialX) > a.cfg.TouchSlop) {
			a.touchIsClick = false
		}
	case Up:
		if !a.surface.OnKeyguard() && a.touchIsClick && a.surface.IsBelowLastItem(a.initialX, a.initialY) {
			a.trace.Emit(otel.Event{Kind: otel.KindEmptySpaceClick, Comp: "gesture", Value: a.initialY})
			if a.listener != nil {
				a.listener.EmptySpaceClicked(a.initialX, a.initialY)
			}
		}
	}
}

// arbitrate offers ev to each recognizer in priority order.
func (a *Arbiter) arbitrate(ev Event) {
	expanded := a.surface.Expanded()
	if a.expand != nil && expanded && !a.onlyScrolling && a.expand.Intercept(ev) {
		a.scroller.MarkExpandedInMotion()
		a.claim(ExpandClaimed)
		return
	}
	if expanded && !a.surface.Expanding() && !a.disallowScroll && a.interceptScroll(ev) {
		a.claim(ScrollClaimed)
		return
	}
	if a.swipe != nil && !a.dragging && !a.surface.Expanding() && !a.scroller.ExpandedInMotion() &&
		!a.onlyScrolling && !a.disallowDismiss && a.swipe.Intercept(ev) {
		a.claim(SwipeClaimed)
		return
	}
	if ev.Action == Cancel {
		a.scroller.Cancel()
	}
}

func (a *Arbiter) claim(s State) {
	a.state = s
	a.trace.Emit(otel.Event{Kind: otel.KindGestureClaim, Comp: "gesture", Msg: s.String()})
	logging.Debug("gesture claimed", "owner", s.String())
}

// interceptScroll tracks a sequence nobody owns yet and reports whether it
// has become a vertical drag.
func (a *Arbiter) interceptScroll(ev Event) bool {
	switch ev.Action {
	case Down:
		if !a.surface.InContentBounds(ev.Y) {
			a.dragging = false
			a.activePointer = noPointer
			a.velocity.Clear()
			return false
		}
		a.startScroll(ev)
		// A touch during a fling catches the list and owns the sequence.
		a.dragging = a.scroller.Flinging()
		if a.dragging {
			a.scroller.StopFling()
		}
	case Move:
		if a.activePointer == noPointer || ev.PointerID != a.activePointer {
			return false
		}
		a.velocity.Add(ev.Time, ev.X, ev.Y)
		deltaY := a.lastMotionY - ev.Y
		yDiff := math.Abs(deltaY)
		if yDiff > a.cfg.TouchSlop && yDiff > math.Abs(ev.X-a.downX) {
			a.dragging = true
			if deltaY > 0 {
				deltaY -= a.cfg.TouchSlop
			} else {
				deltaY += a.cfg.TouchSlop
			}
			a.lastMotionY = ev.Y
			a.scroller.Drag(deltaY)
		}
	case PointerUp:
		a.secondaryPointerUp(ev)
	}
	return a.dragging
}

func (a *Arbiter) startScroll(ev Event) {
	a.activePointer = ev.PointerID
	a.lastMotionY = ev.Y
	a.downX = ev.X
	a.velocity.Clear()
	a.velocity.Add(ev.Time, ev.X, ev.Y)
	a.dragging = true
}

// scrollTouch drives the scroll engine for a sequence the scroll recognizer
// owns.
func (a *Arbiter) scrollTouch(ev Event) {
	switch ev.Action {
	case Move:
		if ev.PointerID != a.activePointer {
			return
		}
		a.velocity.Add(ev.Time, ev.X, ev.Y)
		deltaY := a.lastMotionY - ev.Y
		a.lastMotionY = ev.Y
		if deltaY != 0 {
			a.scroller.Drag(deltaY)
		}
	case Up:
		_, vy := a.velocity.Velocity(a.cfg.MaximumVelocity)
		a.scroller.Release(vy)
	case Cancel:
		a.scroller.Cancel()
	case PointerDown:
		a.activePointer = ev.PointerID
		a.lastMotionY = ev.Y
		a.downX = ev.X
	case PointerUp:
		a.secondaryPointerUp(ev)
	}
}

// secondaryPointerUp hands the drag to another pointer when the active one
// lifts.
func (a *Arbiter) secondaryPointerUp(ev Event) {
	if ev.PointerID != a.activePointer {
		return
	}
	next := noPointer
	for id := range a.pointers {
		if id != ev.PointerID && (next == noPointer || id < next) {
			next = id
		}
	}
	a.activePointer = next
	if next != noPointer {
		p := a.pointers[next]
		a.lastMotionY = p.y
		a.downX = p.x
	}
	a.velocity.Clear()
}

func (a *Arbiter) endSequence() {
	a.state = Idle
	a.dragging = false
	a.activePointer = noPointer
	a.velocity.Clear()
	clear(a.pointers)
}
