package engine

import (
	"time"

	"github.com/abelbrown/stackview/internal/algo"
	"github.com/abelbrown/stackview/internal/anim"
	"github.com/abelbrown/stackview/internal/executor"
	"github.com/abelbrown/stackview/internal/gesture"
	"github.com/abelbrown/stackview/internal/scroll"
)

// Unlimited disables the MaxDisplayedItems cap.
const Unlimited = -1

// Config holds every layout constant. Distances are in pixels.
type Config struct {
	PaddingBetween   float64
	IncreasedPadding float64
	BottomMargin     float64
	SidePadding      float64
	DarkShelfPadding float64
	HeadsUpInset     float64
	StatusBarHeight  float64
	IntrinsicPadding float64

	// MaxDisplayedItems caps how many items count toward the content
	// height before the shelf takes over. Unlimited means no cap.
	MaxDisplayedItems int

	SectionFPS       int
	SectionFrequency float64
	SectionDamping   float64

	MoreCardAddDuration time.Duration

	Algo     algo.Config
	Executor executor.Config
	Scroll   scroll.Config
	Gesture  gesture.Config
	Stagger  gesture.Stagger
}

// DefaultConfig returns the constants used when nothing is configured.
func DefaultConfig() Config {
	a := algo.DefaultConfig()
	return Config{
		PaddingBetween:      a.PaddingBetween,
		IncreasedPadding:    a.IncreasedPadding,
		BottomMargin:        8,
		SidePadding:         8,
		DarkShelfPadding:    24,
		HeadsUpInset:        16,
		StatusBarHeight:     24,
		MaxDisplayedItems:   Unlimited,
		SectionFPS:          60,
		SectionFrequency:    6.0,
		SectionDamping:      1.0,
		MoreCardAddDuration: anim.DurationMoreCardAdd,
		Algo:                a,
		Executor:            executor.DefaultConfig(),
		Scroll:              scroll.DefaultConfig(),
		Gesture:             gesture.DefaultConfig(),
		Stagger:             gesture.DefaultStagger(),
	}
}
