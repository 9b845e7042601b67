// Package engine is the layout coordinator of the stack. It owns the frame
// state, turns data-model and panel notifications into queued animation
// work, and once per frame either applies the layout targets directly or
// hands a batch of events to the executor.
//
// A Layout is driven from a single goroutine: every method, and every
// scheduler callback it registers, must run on the goroutine that calls
// Tick.
package engine

import (
	"errors"
	"math"
	"time"

	"github.com/abelbrown/stackview/internal/algo"
	"github.com/abelbrown/stackview/internal/ambient"
	"github.com/abelbrown/stackview/internal/anim"
	"github.com/abelbrown/stackview/internal/executor"
	"github.com/abelbrown/stackview/internal/frame"
	"github.com/abelbrown/stackview/internal/gesture"
	"github.com/abelbrown/stackview/internal/logging"
	"github.com/abelbrown/stackview/internal/otel"
	"github.com/abelbrown/stackview/internal/scroll"
	"github.com/abelbrown/stackview/internal/section"
	"github.com/abelbrown/stackview/internal/stack"
)

// ErrNoModel is returned by DismissAll when the layout has no data model.
var ErrNoModel = errors.New("no data model to dismiss from")

const (
	keyRunning  = "layout.running"
	keySections = "layout.sections"
	keyDark     = "layout.dark"
)

// Layout coordinates the scroll engine, the section backgrounds, the
// animation pipeline and input arbitration over one item table.
type Layout struct {
	cfg   Config
	table *stack.Table
	amb   *ambient.State
	sched *frame.Scheduler
	trace *otel.Logger
	ls    Listeners

	scroll   *scroll.Engine
	sections *section.Manager
	pending  *anim.Pending
	gen      *anim.Generator
	targets  TargetComputer
	exec     Executor
	arbiter  *gesture.Arbiter
	dismiss  *gesture.DismissAll
	hasModel bool

	states           stack.States
	updateRequested  bool
	animationRunning bool
	afterAnimation   []func()

	contentHeight          float64
	intrinsicContentHeight float64
	height                 float64
	imeInset               float64
	maxLayoutHeight        float64
	currentStackHeight     float64
	expandedHeight         float64
	regularTopPadding      float64
	darkTopPadding         float64
	forcedScroll           stack.ID
	trackingHeadsUp        bool

	darkFrom  float64
	darkTo    float64
	darkLen   time.Duration
	darkStart time.Time
}

// New builds a layout over t driven by sched.
func New(cfg Config, t *stack.Table, sched *frame.Scheduler, deps Deps) *Layout {
	cfg.Algo.PaddingBetween = cfg.PaddingBetween
	cfg.Algo.IncreasedPadding = cfg.IncreasedPadding

	l := &Layout{
		cfg:                cfg,
		table:              t,
		amb:                ambient.New(),
		sched:              sched,
		trace:              deps.Trace,
		pending:            anim.NewPending(),
		gen:                anim.NewGenerator(deps.Clock),
		sections:           section.NewManager(cfg.SectionFPS, cfg.SectionFrequency, cfg.SectionDamping),
		targets:            deps.Targets,
		exec:               deps.Executor,
		currentStackHeight: math.Inf(1),
	}
	l.amb.SidePadding = cfg.SidePadding
	l.amb.HeadsUpInset = cfg.HeadsUpInset
	l.gen.SetMoreCardAddDuration(cfg.MoreCardAddDuration)
	if l.targets == nil {
		l.targets = algo.New(cfg.Algo)
	}
	if l.exec == nil {
		l.exec = executor.New(cfg.Executor, t, sched, deps.Trace)
	}
	l.exec.OnFinished(l.onChildAnimationFinished)

	l.scroll = scroll.New(cfg.Scroll, sched, l)
	l.scroll.SetChangeHook(l.RequestUpdate)
	l.arbiter = gesture.NewArbiter(cfg.Gesture, l.scroll, l, deps.Expand, deps.Swipe, l, deps.Trace)

	panel := deps.Panel
	if panel == nil {
		panel = nopPanel{}
	}
	l.hasModel = deps.Model != nil
	l.dismiss = gesture.NewDismissAll(cfg.Stagger, l.exec, deps.Model, panel, l, deps.Trace)
	l.dismiss.OnProgressChanged(l.onDismissProgress)

	l.SetAnimationsEnabled(true)
	return l
}

// SetListeners replaces the outward notification targets.
func (l *Layout) SetListeners(ls Listeners) {
	l.ls = ls
}

// Table returns the item table the layout reads.
func (l *Layout) Table() *stack.Table { return l.table }

// Ambient returns the shared frame state. Callers must not keep it across
// frames.
func (l *Layout) Ambient() *ambient.State { return l.amb }

// Scroll returns the scroll engine.
func (l *Layout) Scroll() *scroll.Engine { return l.scroll }

// Sections returns the drawn section backgrounds.
func (l *Layout) Sections() [section.Count]section.Section { return l.sections.Sections() }

// States returns the layout targets of the last frame.
func (l *Layout) States() stack.States { return l.states }

// Arbiter returns the input arbiter.
func (l *Layout) Arbiter() *gesture.Arbiter { return l.arbiter }

// ContentHeight returns the content height including paddings and margin.
func (l *Layout) ContentHeight() float64 { return l.contentHeight }

// IntrinsicContentHeight returns the summed height of the counted items and
// the gaps between them.
func (l *Layout) IntrinsicContentHeight() float64 { return l.intrinsicContentHeight }

// AnimationRunning reports whether a batch is being executed.
func (l *Layout) AnimationRunning() bool { return l.animationRunning }

// Tick runs one frame.
func (l *Layout) Tick(now time.Time) {
	l.sched.Tick(now)
	if otel.TraceEnabled() {
		l.trace.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindFrameTick, Comp: "layout",
			Frame: l.sched.Frames(), Value: l.amb.ScrollY})
	}
}

// RequestUpdate schedules a layout pass before the next frame. Requests made
// before that pass runs are coalesced into it.
func (l *Layout) RequestUpdate() {
	if l.updateRequested {
		return
	}
	l.updateRequested = true
	l.sched.Post(l.onPreFrame)
}

// RunAfterAnimation queues fn to run once the current batch completes, or on
// the next directly applied frame.
func (l *Layout) RunAfterAnimation(fn func()) {
	l.afterAnimation = append(l.afterAnimation, fn)
}

func (l *Layout) onPreFrame() {
	l.updateForcedScroll()
	l.updateChildren()
	l.updateRequested = false
}

func (l *Layout) updateChildren() {
	l.updateScrollStateForAddedChildren()
	l.refreshAmbient()
	l.states = l.targets.Compute(l.table, l.amb)
	if !l.exec.Running() && !l.pending.HasPendingStructuralWork() {
		l.applyCurrentState()
		return
	}
	l.startAnimationToState()
}

// refreshAmbient copies the scroll and heads-up figures into the frame
// state.
func (l *Layout) refreshAmbient() {
	l.amb.CurrentScrollVelocity = l.scroll.CurrentVelocity()
	l.amb.ScrollY = l.scroll.OwnScrollY()
	l.amb.OverscrollTop = l.scroll.Overscroll(scroll.Top)
	l.amb.OverscrollBottom = l.scroll.Overscroll(scroll.Bottom)
	l.amb.MaxHeadsUpTranslation = l.height - l.cfg.HeadsUpInset
	l.amb.TopHeadsUpPinnedHeight = 0
	if it := l.firstPinned(); it != nil {
		l.amb.TopHeadsUpPinnedHeight = it.Height()
	}
}

func (l *Layout) startAnimationToState() {
	var events []anim.Event
	delay := l.pending.TakeGoToFullShadeDelay()
	if l.pending.HasPendingStructuralWork() {
		events = l.gen.Generate(l.pending, l.table, l.states, l.amb)
	}
	if len(events) == 0 && !l.exec.Running() {
		l.applyCurrentState()
		return
	}
	l.trace.Emit(otel.Event{Kind: otel.KindAnimBatch, Comp: "layout", Frame: l.sched.Frames(),
		Count: len(events), Dur: anim.CombineLength(events)})
	l.setAnimationRunning(true)
	l.exec.Start(events, l.states, delay)
	l.updateBackground()
}

func (l *Layout) applyCurrentState() {
	l.exec.Apply(l.states)
	if l.ls.Locations != nil {
		l.ls.Locations.ChildLocationsChanged()
	}
	l.runAfterAnimation()
	l.setAnimationRunning(false)
	l.updateBackground()
}

func (l *Layout) runAfterAnimation() {
	fns := l.afterAnimation
	l.afterAnimation = nil
	for _, fn := range fns {
		fn()
	}
}

// onChildAnimationFinished runs when the executor has nothing left to move.
func (l *Layout) onChildAnimationFinished() {
	l.setAnimationRunning(false)
	l.RequestUpdate()
	l.runAfterAnimation()
	for _, it := range l.table.Items() {
		it.HeadsUpAnimatingAway = false
		for _, c := range l.table.ChildrenOf(it.ID) {
			c.HeadsUpAnimatingAway = false
		}
	}
}

func (l *Layout) setAnimationRunning(running bool) {
	if running == l.animationRunning {
		return
	}
	l.animationRunning = running
	if running {
		l.sched.Animate(keyRunning, l.onRunningFrame)
	} else {
		l.sched.Cancel(keyRunning)
	}
}

// onRunningFrame keeps the backgrounds in step with items the executor is
// moving.
func (l *Layout) onRunningFrame(time.Time) bool {
	if !l.pending.HasPendingStructuralWork() && !l.updateRequested {
		l.updateBackground()
	}
	gesture.ApplyDismissClipping(l.table, l.amb.DismissAllInProgress)
	return l.animationRunning
}

func (l *Layout) updateBackground() {
	l.sections.Recompute(l.table, l.states, l.amb)
	if l.sections.AreBoundsAnimating() && !l.sched.Animating(keySections) {
		l.sched.Animate(keySections, l.sections.Step)
	}
}

func (l *Layout) onDismissProgress(inProgress bool) {
	l.amb.DismissAllInProgress = inProgress
	gesture.ApplyDismissClipping(l.table, inProgress)
	logging.Debug("dismiss all", "in_progress", inProgress)
	l.RequestUpdate()
}

func (l *Layout) firstPinned() *stack.Item {
	for _, it := range l.table.Items() {
		if it.Pinned && !it.IsGone() {
			return it
		}
	}
	return nil
}

func (l *Layout) notifyHeight(id stack.ID, needsAnimation bool) {
	if l.ls.Height != nil {
		l.ls.Height.HeightChanged(id, needsAnimation)
	}
}

// OverscrollTopChanged forwards the scroll engine's overscroll reports.
func (l *Layout) OverscrollTopChanged(amount float64, rubberbanded bool) {
	if l.ls.Overscroll != nil {
		l.ls.Overscroll.OverscrollTopChanged(amount, rubberbanded)
	}
}

// FlingTopOverscroll forwards the scroll engine's escape flings.
func (l *Layout) FlingTopOverscroll(velocity float64, open bool) {
	l.trace.Emit(otel.Event{Kind: otel.KindScrollEscape, Comp: "scroll", Value: velocity,
		Extra: map[string]any{"open": open}})
	if l.ls.Overscroll != nil {
		l.ls.Overscroll.FlingTopOverscroll(velocity, open)
	}
}
