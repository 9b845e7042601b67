package engine

import (
	"time"

	"github.com/abelbrown/stackview/internal/ambient"
	"github.com/abelbrown/stackview/internal/anim"
	"github.com/abelbrown/stackview/internal/gesture"
	"github.com/abelbrown/stackview/internal/otel"
	"github.com/abelbrown/stackview/internal/scroll"
	"github.com/abelbrown/stackview/internal/stack"
)

// TargetComputer computes the per-item layout targets of one frame.
type TargetComputer interface {
	Compute(t *stack.Table, amb *ambient.State) stack.States
}

// Executor moves items toward their targets, animated or not.
type Executor interface {
	gesture.Dismisser
	Start(events []anim.Event, states stack.States, delay time.Duration)
	Apply(states stack.States)
	Running() bool
	OnFinished(fn func())
}

// HeightListener is told when an item's height or the top padding changed.
// id is empty for a change that concerns the whole stack.
type HeightListener interface {
	HeightChanged(id stack.ID, needsAnimation bool)
}

// ExpandedHeightListener is told about every panel expansion height along
// with the appear fraction computed for it.
type ExpandedHeightListener interface {
	ExpandedHeightChanged(height, appearFraction float64)
}

// LocationListener is told after item positions were applied without
// animation.
type LocationListener interface {
	ChildLocationsChanged()
}

// Listeners are the outward notifications of a Layout. Any may be nil.
type Listeners struct {
	Height         HeightListener
	Overscroll     scroll.Listener
	ExpandedHeight ExpandedHeightListener
	Locations      LocationListener
	EmptySpace     gesture.EmptySpaceListener
	DismissAll     gesture.DismissListener
}

// Deps are the collaborators of a Layout. Targets and Executor default to the
// stock algorithm and executor. Model and Panel are needed for DismissAll.
// Expand, Swipe and Trace may be nil.
type Deps struct {
	Targets  TargetComputer
	Executor Executor
	Model    gesture.Model
	Panel    gesture.Panel
	Expand   gesture.Recognizer
	Swipe    gesture.Recognizer
	Trace    *otel.Logger
	// Clock stamps animation events. Nil uses time.Now.
	Clock func() time.Time
}

// Point is a position in layout coordinates.
type Point struct {
	X, Y float64
}

type nopPanel struct{}

func (nopPanel) AnimateCollapse() {}
