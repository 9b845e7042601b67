package scroll

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

// maxSyncSteps bounds a fling simulated without a ticker.
const maxSyncSteps = 100000

// fling is a constant-deceleration decay. Past either end of the scroller
// bounds the deceleration is multiplied so the list overshoots only briefly.
type fling struct {
	p           *harmonica.Projectile
	dir         float64
	min         float64
	max         float64
	overAllowed bool
	outside     bool
}

func (e *Engine) newProjectile(y, v float64, outside bool) *harmonica.Projectile {
	decel := e.cfg.FlingDeceleration
	if outside {
		decel *= e.cfg.OverflingDecelerationFactor
	}
	acc := -math.Copysign(decel, v)
	return harmonica.NewProjectile(
		harmonica.FPS(e.cfg.FPS),
		harmonica.Point{Y: y},
		harmonica.Vector{Y: v},
		harmonica.Vector{Y: acc},
	)
}

// Fling starts a decay from the current offset with scroll velocity v
// (positive moves content up). Overscroll held on the edge the fling moves
// away from is folded into the offset first, and the overfling allowance
// grows with the speed.
func (e *Engine) Fling(v float64) {
	e.StopFling()
	v = clamp(v, -e.cfg.MaximumVelocity, e.cfg.MaximumVelocity)
	top, bottom := e.amount[Top], e.amount[Bottom]
	switch {
	case v < 0 && top > 0:
		e.setOwnScrollY(e.ownScrollY - top)
		e.dontReportNextOverScroll = true
		e.setOverscrollAmount(0, Top, false, true, e.IsRubberbanded(Top))
		e.maxOverScroll = math.Abs(v)/1000*e.RubberBandFactor(Top)*e.cfg.OverflingDistance + top
	case v > 0 && bottom > 0:
		e.setOwnScrollY(e.ownScrollY + bottom)
		e.setOverscrollAmount(0, Bottom, false, true, e.IsRubberbanded(Bottom))
		e.maxOverScroll = math.Abs(v)/1000*e.RubberBandFactor(Bottom)*e.cfg.OverflingDistance + bottom
	default:
		// Set once the fling crosses a boundary.
		e.maxOverScroll = 0
	}
	if v == 0 {
		e.springBackIfOutside()
		return
	}

	maxY := math.Max(0, e.Range())
	if e.expandedInThisMotion {
		maxY = math.Min(maxY, e.maxScrollAfterExpand)
	}
	f := &fling{
		dir:         math.Copysign(1, v),
		min:         0,
		max:         maxY,
		overAllowed: !(e.expandedInThisMotion && e.ownScrollY >= 0),
	}
	f.outside = e.ownScrollY < f.min || e.ownScrollY > f.max
	f.p = e.newProjectile(e.ownScrollY, v, f.outside)
	e.fling = f

	if e.ticker == nil {
		for i := 0; i < maxSyncSteps; i++ {
			if !e.stepFling(time.Time{}) {
				break
			}
		}
		return
	}
	e.ticker.Animate(flingKey, e.stepFling)
}

// Flinging reports whether a fling is in flight.
func (e *Engine) Flinging() bool {
	return e.fling != nil
}

// Animating reports whether a fling or an overscroll spring is running.
func (e *Engine) Animating() bool {
	return e.fling != nil || e.animating[Top] || e.animating[Bottom]
}

// CurrentVelocity returns the fling speed, zero when idle.
func (e *Engine) CurrentVelocity() float64 {
	if e.fling == nil {
		return 0
	}
	return math.Abs(e.fling.p.Velocity().Y)
}

// StopFling abandons a fling where it is.
func (e *Engine) StopFling() {
	if e.fling == nil {
		return
	}
	e.fling = nil
	if e.ticker != nil {
		e.ticker.Cancel(flingKey)
	}
}

func (e *Engine) stepFling(time.Time) bool {
	f := e.fling
	if f == nil {
		return false
	}
	old := e.ownScrollY
	outside := old < f.min || old > f.max
	if outside != f.outside {
		f.outside = outside
		f.p = e.newProjectile(old, f.p.Velocity().Y, outside)
	}
	pos := f.p.Update().Y
	vel := f.p.Velocity().Y
	stopped := vel*f.dir <= 0

	r := e.Range()
	if (pos < 0 && old >= 0) || (pos > r && old <= r) {
		if !f.overAllowed {
			pos = clamp(pos, 0, r)
			stopped = true
		} else if math.Abs(vel) >= e.cfg.MinimumVelocity {
			e.maxOverScroll = math.Abs(vel) / 1000 * e.cfg.OverflingDistance
		}
	}
	if pos != old {
		e.overScrollBy(pos-old, old, r, e.maxOverScroll)
	}
	if e.fling == nil {
		// Hit the overfling limit and sprang back.
		return false
	}
	if stopped {
		e.fling = nil
		e.springBackIfOutside()
		return false
	}
	return true
}
