package gesture

import (
	"math"
	"time"
)

// velocityHorizon is how far back samples contribute to the estimate.
const velocityHorizon = 100 * time.Millisecond

const maxSamples = 20

type sample struct {
	t    time.Time
	x, y float64
}

// VelocityTracker estimates pointer velocity from recent samples with a
// least-squares line fit per axis.
type VelocityTracker struct {
	samples []sample
}

// Add records a pointer position.
func (v *VelocityTracker) Add(t time.Time, x, y float64) {
	if n := len(v.samples); n > 0 && t.Sub(v.samples[n-1].t) > velocityHorizon {
		// A pause longer than the horizon starts a new movement.
		v.samples = v.samples[:0]
	}
	v.samples = append(v.samples, sample{t: t, x: x, y: y})
	if len(v.samples) > maxSamples {
		v.samples = v.samples[len(v.samples)-maxSamples:]
	}
}

// Clear drops every sample.
func (v *VelocityTracker) Clear() {
	v.samples = v.samples[:0]
}

// Velocity returns the pointer velocity in px/s, each axis clamped to
// [-limit, limit]. Fewer than two samples in the horizon yield zero.
func (v *VelocityTracker) Velocity(limit float64) (vx, vy float64) {
	n := len(v.samples)
	if n < 2 {
		return 0, 0
	}
	last := v.samples[n-1].t
	start := n - 1
	for start > 0 && last.Sub(v.samples[start-1].t) <= velocityHorizon {
		start--
	}
	window := v.samples[start:]
	if len(window) < 2 {
		return 0, 0
	}
	vx = clampAbs(slope(window, func(s sample) float64 { return s.x }), limit)
	vy = clampAbs(slope(window, func(s sample) float64 { return s.y }), limit)
	return vx, vy
}

// slope fits pos = a + b*t and returns b in units per second.
func slope(window []sample, pos func(sample) float64) float64 {
	t0 := window[0].t
	var sumT, sumP, sumTT, sumTP float64
	for _, s := range window {
		t := s.t.Sub(t0).Seconds()
		p := pos(s)
		sumT += t
		sumP += p
		sumTT += t * t
		sumTP += t * p
	}
	n := float64(len(window))
	den := n*sumTT - sumT*sumT
	if den == 0 {
		return 0
	}
	return (n*sumTP - sumT*sumP) / den
}

func clampAbs(v, limit float64) float64 {
	if limit <= 0 {
		return v
	}
	return math.Max(-limit, math.Min(limit, v))
}
