package algo

import "math"

// Spacer walks the not-gone items of the stack in order and yields the gap
// above each one. An item's IncreasedPaddingAmount in [0, 1] blends the gap
// toward the increased padding; in [-1, 0) it shrinks its own gap toward
// zero and the next item inherits the blend.
type Spacer struct {
	normal    float64
	increased float64

	prevRequest float64
	prevAmount  float64
}

// NewSpacer returns a spacer for the given regular and increased padding.
func NewSpacer(normal, increased float64) *Spacer {
	return &Spacer{normal: normal, increased: increased, prevRequest: normal}
}

// Next returns the gap that goes above an item with the given increased
// padding amount. The caller skips it for the first item.
func (s *Spacer) Next(amount float64) float64 {
	var padding float64
	if amount >= 0 {
		padding = trunc(Lerp(s.prevRequest, s.increased, amount))
		s.prevRequest = trunc(Lerp(s.normal, s.increased, amount))
	} else {
		own := trunc(Lerp(0, s.normal, 1+amount))
		if s.prevAmount > 0 {
			padding = trunc(Lerp(own, s.increased, s.prevAmount))
		} else {
			padding = own
		}
		s.prevRequest = own
	}
	s.prevAmount = amount
	return padding
}

// Own returns the gap an item claims for itself, ignoring its neighbours.
// Scroll corrections on insert and removal use it.
func Own(normal, increased, amount float64) float64 {
	if amount >= 0 {
		return trunc(Lerp(normal, increased, amount))
	}
	return trunc(Lerp(0, normal, 1+amount))
}

// Lerp returns the value the fraction f of the way between from and to.
func Lerp(from, to, f float64) float64 {
	return from + (to-from)*f
}

// trunc drops the fractional pixel the same way for positive and negative
// values.
func trunc(v float64) float64 {
	return math.Trunc(v)
}
