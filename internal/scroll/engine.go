// Package scroll owns the scroll offset of the stack and its rubber-band
// overscroll physics.
//
// Scrolling and overscroll never absorb the same motion twice: a drag first
// eats into the overscroll of the edge it moves away from, and only the
// remainder scrolls. Motion beyond the scroll range becomes overscroll on the
// opposite edge. Overscroll is stored twice: as raw pixels the finger moved,
// and as the rubber-banded amount (pixels times the edge's factor) the layout
// actually displays.
package scroll

import (
	"math"
	"time"

	"github.com/abelbrown/stackview/internal/frame"
	"github.com/charmbracelet/harmonica"
)

// Edge selects the top or bottom overscroll.
type Edge int

const (
	Top Edge = iota
	Bottom
)

func (e Edge) String() string {
	if e == Top {
		return "top"
	}
	return "bottom"
}

// Rubber-band factors for the top edge. The bottom edge always uses
// RubberBandNormal.
const (
	RubberBandNormal        = 0.35
	RubberBandAfterExpand   = 0.15
	RubberBandOnPanelExpand = 0.21
)

const (
	flingKey      = "scroll.fling"
	settleEpsilon = 0.5
)

// Listener receives top-edge overscroll changes.
type Listener interface {
	OverscrollTopChanged(amount float64, rubberbanded bool)
	// FlingTopOverscroll hands a release while overscrolled at the top to
	// the surface above the list. open is true for the escape gesture.
	FlingTopOverscroll(velocity float64, open bool)
}

// Ticker runs per-frame steps. *frame.Scheduler implements it.
type Ticker interface {
	Animate(key string, step frame.Step)
	Cancel(key string)
}

// Config holds the physics constants. Velocities are in px/s.
type Config struct {
	OverflingDistance        float64
	MinimumVelocity          float64
	MaximumVelocity          float64
	MinTopOverScrollToEscape float64
	// FlingDeceleration is the constant deceleration of a fling inside the
	// scroll range, in px/s². Beyond the range it is multiplied by
	// OverflingDecelerationFactor.
	FlingDeceleration           float64
	OverflingDecelerationFactor float64
	SpringFrequency             float64
	SpringDamping               float64
	FPS                         int
}

// DefaultConfig returns the constants used when no configuration is loaded.
func DefaultConfig() Config {
	return Config{
		OverflingDistance:           24,
		MinimumVelocity:             150,
		MaximumVelocity:             8000,
		MinTopOverScrollToEscape:    36,
		FlingDeceleration:           4000,
		OverflingDecelerationFactor: 12,
		SpringFrequency:             6.0,
		SpringDamping:               1.0,
		FPS:                         60,
	}
}

// Engine is the scroll state machine. It is not safe for concurrent use.
type Engine struct {
	cfg      Config
	ticker   Ticker
	listener Listener
	onChange func()
	spring   harmonica.Spring

	ownScrollY      float64
	contentHeight   float64
	maxLayoutHeight float64
	height          float64
	imeInset        float64
	scrollingLocked bool

	amount    [2]float64
	pixels    [2]float64
	animating [2]bool

	maxOverScroll            float64
	dontReportNextOverScroll bool

	scrolledToTopOnFirstDown bool
	expandedInThisMotion     bool
	maxScrollAfterExpand     float64
	expansionChanging        bool
	panelTracking            bool

	fling *fling

	forward  bool
	backward bool
}

// New returns an engine at offset zero. ticker may be nil, in which case
// animations complete immediately.
func New(cfg Config, ticker Ticker, listener Listener) *Engine {
	if cfg.FPS <= 0 {
		cfg.FPS = 60
	}
	return &Engine{
		cfg:      cfg,
		ticker:   ticker,
		listener: listener,
		spring:   harmonica.NewSpring(harmonica.FPS(cfg.FPS), cfg.SpringFrequency, cfg.SpringDamping),
	}
}

// SetChangeHook registers fn to run whenever the offset or an overscroll
// amount changes.
func (e *Engine) SetChangeHook(fn func()) {
	e.onChange = fn
}

func (e *Engine) changed() {
	if e.onChange != nil {
		e.onChange()
	}
}

// OwnScrollY returns the scroll offset. It is outside [0, Range()] only while
// a fling is in flight.
func (e *Engine) OwnScrollY() float64 {
	return e.ownScrollY
}

// ContentHeight returns the height used for the scroll range.
func (e *Engine) ContentHeight() float64 {
	return e.contentHeight
}

// Range returns the maximum scroll offset. The part of the bottom inset not
// already covered by content below the fold is added to it.
func (e *Engine) Range() float64 {
	r := math.Max(0, e.contentHeight-e.maxLayoutHeight)
	r += math.Min(e.imeInset, math.Max(0, e.contentHeight-(e.height-e.imeInset)))
	return r
}

// SetContentHeight updates the content height and clamps the offset.
func (e *Engine) SetContentHeight(h float64) {
	e.contentHeight = h
	e.Clamp()
	e.updateScrollability()
}

// SetLayout updates the viewport the range is computed against.
func (e *Engine) SetLayout(maxLayoutHeight, height, imeInset float64) {
	e.maxLayoutHeight = maxLayoutHeight
	e.height = height
	e.imeInset = imeInset
	e.Clamp()
	e.updateScrollability()
}

// SetScrollingLocked disables scrollability reporting, e.g. while quick
// settings cover the list.
func (e *Engine) SetScrollingLocked(locked bool) {
	e.scrollingLocked = locked
	e.updateScrollability()
}

func (e *Engine) setOwnScrollY(y float64) {
	if y == e.ownScrollY {
		return
	}
	e.ownScrollY = y
	e.updateScrollability()
	e.changed()
}

// ResetScrollPosition jumps to the top without animation.
func (e *Engine) ResetScrollPosition() {
	e.StopFling()
	e.setOwnScrollY(0)
}

// SetOwnScrollY sets the offset clamped into the range, cancelling any fling.
func (e *Engine) SetOwnScrollY(y float64) {
	e.StopFling()
	e.setOwnScrollY(clamp(y, 0, e.Range()))
}

// Clamp pulls the offset back into [0, Range()]. A fling in flight owns the
// offset and is left alone.
func (e *Engine) Clamp() {
	if e.fling != nil {
		return
	}
	r := e.Range()
	if e.ownScrollY > r {
		e.setOwnScrollY(r)
	} else if e.ownScrollY < 0 {
		e.setOwnScrollY(0)
	}
}

func (e *Engine) updateScrollability() {
	scrollable := !e.scrollingLocked && e.Range() > 0
	e.forward = scrollable && e.ownScrollY < e.Range()
	e.backward = scrollable && e.ownScrollY > 0
}

// CanScrollForward reports whether content remains below the viewport.
func (e *Engine) CanScrollForward() bool {
	return e.forward
}

// CanScrollBackward reports whether content remains above the viewport.
func (e *Engine) CanScrollBackward() bool {
	return e.backward
}

// IsScrolledToTop reports whether the offset is at zero.
func (e *Engine) IsScrolledToTop() bool {
	return e.ownScrollY == 0
}

// IsScrolledToBottom reports whether the offset is at the range.
func (e *Engine) IsScrolledToBottom() bool {
	return e.ownScrollY >= e.Range()
}

// ScrollBy scrolls by delta pixels without touching overscroll, clamped to
// the range. Wheel and keyboard scrolling use it.
func (e *Engine) ScrollBy(delta float64) bool {
	old := e.ownScrollY
	y := clamp(old+delta, 0, e.Range())
	if y == old {
		return false
	}
	e.StopFling()
	e.setOwnScrollY(y)
	return true
}

// ScrollWheel applies a wheel step. Positive steps move content up.
func (e *Engine) ScrollWheel(delta float64) bool {
	return e.ScrollBy(delta)
}

// Overscroll returns the rubber-banded amount on edge.
func (e *Engine) Overscroll(edge Edge) float64 {
	return e.amount[edge]
}

// OverscrolledPixels returns the raw finger travel on edge.
func (e *Engine) OverscrolledPixels(edge Edge) float64 {
	return e.pixels[edge]
}

// MaxOverScroll returns the current overfling allowance of a fling.
func (e *Engine) MaxOverScroll() float64 {
	return e.maxOverScroll
}

// OverscrollAnimating reports whether edge is springing toward a target.
func (e *Engine) OverscrollAnimating(edge Edge) bool {
	return e.animating[edge]
}

// RubberBandFactor returns the resistance applied to overscroll on edge for
// the current touch sequence.
func (e *Engine) RubberBandFactor(edge Edge) float64 {
	if edge == Bottom {
		return RubberBandNormal
	}
	switch {
	case e.expandedInThisMotion:
		return RubberBandAfterExpand
	case e.expansionChanging || e.panelTracking:
		return RubberBandOnPanelExpand
	case e.scrolledToTopOnFirstDown:
		return 1.0
	}
	return RubberBandNormal
}

// IsRubberbanded reports whether overscroll on edge is damped. The top edge
// is undamped only for a motion that started at the top with nothing else
// going on, which is the escape candidate.
func (e *Engine) IsRubberbanded(edge Edge) bool {
	return edge == Bottom || e.expandedInThisMotion || e.expansionChanging ||
		e.panelTracking || !e.scrolledToTopOnFirstDown
}

// SetOverscroll sets the rubber-banded amount on edge, cancelling any
// animation running on that edge first.
func (e *Engine) SetOverscroll(amount float64, edge Edge, animate bool) {
	e.setOverscrollAmount(amount, edge, animate, true, e.IsRubberbanded(edge))
}

// SetOverscrolledPixels sets the raw overscroll on edge; the displayed amount
// is pixels times the edge's rubber-band factor.
func (e *Engine) SetOverscrolledPixels(pixels float64, edge Edge, animate bool) {
	e.SetOverscroll(pixels*e.RubberBandFactor(edge), edge, animate)
}

func (e *Engine) setOverscrollAmount(amount float64, edge Edge, animate, cancel, rubberbanded bool) {
	if cancel {
		e.cancelOverscrollAnimation(edge)
	}
	amount = math.Max(0, amount)
	if animate {
		e.animateOverscrollTo(amount, edge, rubberbanded)
		return
	}
	e.pixels[edge] = amount / e.RubberBandFactor(edge)
	e.amount[edge] = amount
	if edge == Top {
		e.notifyOverscrollTop(amount, rubberbanded)
	}
	e.changed()
}

func (e *Engine) notifyOverscrollTop(amount float64, rubberbanded bool) {
	if e.dontReportNextOverScroll {
		e.dontReportNextOverScroll = false
		return
	}
	if e.listener != nil {
		e.listener.OverscrollTopChanged(amount, rubberbanded)
	}
}

func overscrollKey(edge Edge) string {
	return "scroll.overscroll." + edge.String()
}

func (e *Engine) cancelOverscrollAnimation(edge Edge) {
	if !e.animating[edge] {
		return
	}
	e.animating[edge] = false
	if e.ticker != nil {
		e.ticker.Cancel(overscrollKey(edge))
	}
}

// animateOverscrollTo springs the amount on edge toward target. Starting a
// new animation replaces the one running on the same edge.
func (e *Engine) animateOverscrollTo(target float64, edge Edge, rubberbanded bool) {
	if target == e.amount[edge] {
		return
	}
	if e.ticker == nil {
		e.setOverscrollAmount(target, edge, false, false, rubberbanded)
		return
	}
	pos, vel := e.amount[edge], 0.0
	e.animating[edge] = true
	e.ticker.Animate(overscrollKey(edge), func(time.Time) bool {
		pos, vel = e.spring.Update(pos, vel, target)
		done := math.Abs(pos-target) < settleEpsilon && math.Abs(vel) < settleEpsilon
		if done {
			pos = target
			e.animating[edge] = false
		}
		e.setOverscrollAmount(pos, edge, false, false, rubberbanded)
		return !done
	})
}

// BeginMotion resets the per-motion state at pointer down. The rubber-band
// factor is fixed from here until the next down.
func (e *Engine) BeginMotion() {
	e.scrolledToTopOnFirstDown = e.IsScrolledToTop()
	e.expandedInThisMotion = false
	e.maxScrollAfterExpand = 0
}

// MarkExpandedInMotion records that an item expanded during this motion. The
// offset at that moment becomes the scroll limit for the rest of it.
func (e *Engine) MarkExpandedInMotion() {
	if !e.expandedInThisMotion {
		e.maxScrollAfterExpand = e.ownScrollY
		e.expandedInThisMotion = true
	}
}

// ExpandedInMotion reports whether an item expanded during this motion.
func (e *Engine) ExpandedInMotion() bool {
	return e.expandedInThisMotion
}

// ScrolledToTopOnFirstDown reports the offset state captured at pointer down.
func (e *Engine) ScrolledToTopOnFirstDown() bool {
	return e.scrolledToTopOnFirstDown
}

// SetExpansionChanging records whether the list is expanding or collapsing.
func (e *Engine) SetExpansionChanging(changing bool) {
	e.expansionChanging = changing
}

// SetPanelTracking records whether the enclosing panel follows the finger.
func (e *Engine) SetPanelTracking(tracking bool) {
	e.panelTracking = tracking
}

// OverScrollUp consumes an upward drag of deltaY pixels (content moving up).
// Top overscroll absorbs it first; the remainder is returned as scroll. If
// the scroll would pass rangeY, the excess becomes bottom overscroll and the
// offset is pinned to rangeY.
func (e *Engine) OverScrollUp(deltaY, rangeY float64) float64 {
	deltaY = math.Max(deltaY, 0)
	currentTop := e.amount[Top]
	newTop := currentTop - deltaY
	if currentTop > 0 {
		e.setOverscrollAmount(newTop, Top, false, true, e.IsRubberbanded(Top))
	}
	scrollAmount := 0.0
	if newTop < 0 {
		scrollAmount = -newTop
	}
	newScrollY := e.ownScrollY + scrollAmount
	if newScrollY > rangeY {
		if !e.expandedInThisMotion {
			bottomPixels := e.pixels[Bottom]
			e.SetOverscrolledPixels(bottomPixels+newScrollY-rangeY, Bottom, false)
		}
		e.setOwnScrollY(rangeY)
		scrollAmount = 0
	}
	return scrollAmount
}

// OverScrollDown is the mirror of OverScrollUp for a downward drag; deltaY is
// negative. Excess above the top becomes top overscroll.
func (e *Engine) OverScrollDown(deltaY float64) float64 {
	deltaY = math.Min(deltaY, 0)
	currentBottom := e.amount[Bottom]
	newBottom := currentBottom + deltaY
	if currentBottom > 0 {
		e.setOverscrollAmount(newBottom, Bottom, false, true, e.IsRubberbanded(Bottom))
	}
	scrollAmount := 0.0
	if newBottom < 0 {
		scrollAmount = newBottom
	}
	newScrollY := e.ownScrollY + scrollAmount
	if newScrollY < 0 {
		topPixels := e.pixels[Top]
		e.SetOverscrolledPixels(topPixels-newScrollY, Top, false)
		e.setOwnScrollY(0)
		scrollAmount = 0
	}
	return scrollAmount
}

// Drag applies one drag step. deltaY > 0 moves content up.
func (e *Engine) Drag(deltaY float64) {
	r := e.Range()
	if e.expandedInThisMotion {
		r = math.Min(r, e.maxScrollAfterExpand)
	}
	var scrollAmount float64
	if deltaY < 0 {
		scrollAmount = e.OverScrollDown(deltaY)
	} else {
		scrollAmount = e.OverScrollUp(deltaY, r)
	}
	if scrollAmount != 0 {
		e.overScrollBy(scrollAmount, e.ownScrollY, r, e.height/2)
	}
}

// overScrollBy moves the offset by delta, clamped to maxOver past either end
// of the range. Hitting the clamp during a fling springs back.
func (e *Engine) overScrollBy(delta, scrollY, rangeY, maxOver float64) {
	newScrollY := scrollY + delta
	top := -maxOver
	bottom := maxOver + rangeY
	clamped := false
	if newScrollY > bottom {
		newScrollY = bottom
		clamped = true
	} else if newScrollY < top {
		newScrollY = top
		clamped = true
	}
	e.setOwnScrollY(newScrollY)
	if e.fling == nil {
		return
	}
	if clamped {
		e.SpringBack()
		return
	}
	if e.ownScrollY < 0 {
		e.notifyOverscrollTop(-e.ownScrollY, e.IsRubberbanded(Top))
	} else {
		e.notifyOverscrollTop(e.amount[Top], e.IsRubberbanded(Top))
	}
}

// ShouldOverScrollFling reports whether releasing with pointer velocity v
// escapes to the surface above instead of scrolling.
func (e *Engine) ShouldOverScrollFling(v float64) bool {
	return e.scrolledToTopOnFirstDown && !e.expandedInThisMotion &&
		e.amount[Top] > e.cfg.MinTopOverScrollToEscape && v > 0
}

// Release ends a drag with the pointer's vertical velocity (positive when the
// finger moves down).
func (e *Engine) Release(v float64) {
	switch {
	case e.ShouldOverScrollFling(v):
		e.onOverScrollFling(true, v)
	case math.Abs(v) > e.cfg.MinimumVelocity:
		if e.amount[Top] == 0 || v > 0 {
			e.Fling(-v)
		} else {
			e.onOverScrollFling(false, v)
		}
	default:
		e.springBackIfOutside()
	}
	e.endDrag()
}

// Cancel ends a drag without a fling and springs back at once.
func (e *Engine) Cancel() {
	e.springBackIfOutside()
	e.endDrag()
}

func (e *Engine) endDrag() {
	if e.amount[Top] > 0 {
		e.SetOverscroll(0, Top, true)
	}
	if e.amount[Bottom] > 0 {
		e.SetOverscroll(0, Bottom, true)
	}
}

func (e *Engine) onOverScrollFling(open bool, v float64) {
	if e.listener != nil {
		e.listener.FlingTopOverscroll(v, open)
	}
	e.dontReportNextOverScroll = true
	e.setOverscrollAmount(0, Top, false, true, e.IsRubberbanded(Top))
}

func (e *Engine) springBackIfOutside() {
	if e.ownScrollY < 0 || e.ownScrollY > e.Range() {
		e.SpringBack()
	}
}

// SpringBack converts an offset beyond either end of the range into
// overscroll, snaps the offset to that end and animates the overscroll away.
func (e *Engine) SpringBack() {
	r := e.Range()
	overTop := e.ownScrollY <= 0
	overBottom := e.ownScrollY >= r
	if !overTop && !overBottom {
		return
	}
	var edge Edge
	var amount float64
	if overTop {
		edge = Top
		amount = -e.ownScrollY
		e.setOwnScrollY(0)
		e.dontReportNextOverScroll = true
	} else {
		edge = Bottom
		amount = e.ownScrollY - r
		e.setOwnScrollY(r)
	}
	e.StopFling()
	e.SetOverscroll(amount, edge, false)
	e.SetOverscroll(0, edge, true)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
