package gesture

import (
	"errors"
	"fmt"
	"time"

	"github.com/abelbrown/stackview/internal/logging"
	"github.com/abelbrown/stackview/internal/otel"
	"github.com/abelbrown/stackview/internal/stack"
)

// ErrDismissInProgress is returned when dismiss-all is requested while a
// previous one is still animating.
var ErrDismissInProgress = errors.New("dismiss all already in progress")

// Dismisser animates one item off screen and calls onEnd when it is done.
// onEnd may be nil.
type Dismisser interface {
	DismissAnimated(id stack.ID, delay, duration time.Duration, onEnd func())
}

// Model is the item data model. Remove takes one item out for good;
// ReportClearAll tells the owning service that the user cleared the stack.
type Model interface {
	Remove(id stack.ID) error
	ReportClearAll() error
}

// Panel collapses the surface hosting the stack.
type Panel interface {
	AnimateCollapse()
}

// DismissListener is told when a dismiss-all has finished.
type DismissListener interface {
	DismissAllComplete(removed int)
}

// Stagger is the timing of a dismiss-all.
type Stagger struct {
	Start     time.Duration // delay of the bottom-most item
	Step      time.Duration // first gap between consecutive items
	Decrement time.Duration // the gap shrinks by this much per item
	Floor     time.Duration // smallest gap
	Duration  time.Duration // length of each item's animation
}

// DefaultStagger returns the stock dismiss-all timing.
func DefaultStagger() Stagger {
	return Stagger{
		Start:     180 * time.Millisecond,
		Step:      140 * time.Millisecond,
		Decrement: 10 * time.Millisecond,
		Floor:     50 * time.Millisecond,
		Duration:  260 * time.Millisecond,
	}
}

// Delays returns the start delay of each of n animated items, index 0 being
// the top-most. The bottom-most item starts first.
func (s Stagger) Delays(n int) []time.Duration {
	out := make([]time.Duration, n)
	step := s.Step
	total := s.Start
	for i := n - 1; i >= 0; i-- {
		out[i] = total
		step = max(s.Floor, step-s.Decrement)
		total += step
	}
	return out
}

// DismissAll runs the "clear all" sequence: stagger the visible dismissible
// items off screen, then collapse the panel and remove everything from the
// model in one go.
type DismissAll struct {
	stagger  Stagger
	anim     Dismisser
	model    Model
	panel    Panel
	listener DismissListener
	trace    *otel.Logger

	inProgress bool
	onProgress func(bool)
}

// NewDismissAll wires the orchestrator. listener and trace may be nil.
func NewDismissAll(s Stagger, anim Dismisser, model Model, panel Panel, listener DismissListener, trace *otel.Logger) *DismissAll {
	return &DismissAll{
		stagger:  s,
		anim:     anim,
		model:    model,
		panel:    panel,
		listener: listener,
		trace:    trace,
	}
}

// OnProgressChanged registers fn to be called whenever the in-progress flag
// flips.
func (d *DismissAll) OnProgressChanged(fn func(bool)) {
	d.onProgress = fn
}

// InProgress reports whether a dismiss-all is animating.
func (d *DismissAll) InProgress() bool {
	return d.inProgress
}

func (d *DismissAll) setInProgress(v bool) {
	if d.inProgress == v {
		return
	}
	d.inProgress = v
	if d.onProgress != nil {
		d.onProgress(v)
	}
}

// Run starts a dismiss-all over the top-level items of t and their children.
// It returns ErrDismissInProgress if one is already running.
func (d *DismissAll) Run(t *stack.Table) error {
	if d.inProgress {
		return ErrDismissInProgress
	}
	toRemove, toHide := partition(t)
	if len(toRemove) == 0 {
		d.panel.AnimateCollapse()
		return nil
	}

	d.trace.Emit(otel.Event{Kind: otel.KindDismissStart, Comp: "gesture", Count: len(toHide)})
	finish := func() {
		d.panel.AnimateCollapse()
		d.finish(t, toRemove)
	}
	if len(toHide) == 0 {
		finish()
		return nil
	}

	d.setInProgress(true)
	delays := d.stagger.Delays(len(toHide))
	for i := len(toHide) - 1; i >= 0; i-- {
		var onEnd func()
		if i == 0 {
			// The top-most item starts last and so finishes last.
			onEnd = finish
		}
		d.anim.DismissAnimated(toHide[i], delays[i], d.stagger.Duration, onEnd)
	}
	return nil
}

// finish is the deferred removal once the panel collapses.
func (d *DismissAll) finish(t *stack.Table, toRemove []stack.ID) {
	d.setInProgress(false)
	removed := 0
	for _, id := range toRemove {
		it, ok := t.Get(id)
		if !ok {
			// Went with its group summary.
			continue
		}
		if !it.Dismissible {
			it.TranslationX = 0
			continue
		}
		if err := d.model.Remove(id); err != nil {
			logging.Warn("dismiss all: remove failed", "id", id, "err", err)
			d.trace.Emit(otel.Event{Level: otel.LevelWarn, Kind: otel.KindDismissError, Comp: "gesture",
				Item: string(id), Err: err.Error()})
			continue
		}
		removed++
	}
	if err := d.model.ReportClearAll(); err != nil {
		logging.Debug("dismiss all: report failed", "err", fmt.Errorf("report clear all: %w", err))
	}
	d.trace.Emit(otel.Event{Kind: otel.KindDismissDone, Comp: "gesture", Count: removed})
	if d.listener != nil {
		d.listener.DismissAllComplete(removed)
	}
}

// partition lists every item to take out of the model and, in stack order,
// the subset that is on screen and gets animated.
func partition(t *stack.Table) (toRemove, toHide []stack.ID) {
	for _, it := range t.Items() {
		if it.Kind != stack.KindRow {
			continue
		}
		parentVisible := false
		if it.Dismissible {
			toRemove = append(toRemove, it.ID)
			if isVisible(it) {
				toHide = append(toHide, it.ID)
				parentVisible = true
			}
		} else if isVisible(it) {
			parentVisible = true
		}
		for _, c := range t.ChildrenOf(it.ID) {
			toRemove = append(toRemove, c.ID)
			if parentVisible && it.ChildrenExpanded && c.Dismissible && isVisible(c) {
				toHide = append(toHide, c.ID)
			}
		}
	}
	return toRemove, toHide
}

// isVisible reports whether the item is shown with something left after
// clipping.
func isVisible(it *stack.Item) bool {
	return it.Visibility == stack.Visible && !it.ClipBoundsEmpty && it.ClipHeight() > 0
}

// ApplyDismissClipping pins the clip-top of every item that sits below a
// dismissible one while a dismiss-all is running, so rows do not reveal
// themselves as the row above slides away. Outside a dismiss-all the minimum
// clip is reset.
func ApplyDismissClipping(t *stack.Table, inProgress bool) {
	previousDismissed := false
	for _, it := range t.Items() {
		if it.IsGone() {
			continue
		}
		if inProgress && previousDismissed {
			it.MinClipTop = it.ClipTop
		} else {
			it.MinClipTop = 0
		}
		previousDismissed = it.Dismissible
	}
}
