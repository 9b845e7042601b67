// Package executor moves items toward their layout targets over frame ticks.
// Each animated item follows a harmonica spring whose stiffness is derived
// from the length of the batch that started it.
package executor

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"

	"github.com/abelbrown/stackview/internal/anim"
	"github.com/abelbrown/stackview/internal/frame"
	"github.com/abelbrown/stackview/internal/otel"
	"github.com/abelbrown/stackview/internal/stack"
)

const (
	tickKey      = "executor"
	settlePixels = 0.5
	settleAlpha  = 0.01
)

// Ticker runs per-frame steps. *frame.Scheduler implements it.
type Ticker interface {
	Animate(key string, step frame.Step)
	Cancel(key string)
}

// Config tunes the springs.
type Config struct {
	FPS     int
	Damping float64
	// Settle is how many spring periods a batch takes to come to rest.
	Settle float64
}

// DefaultConfig returns the spring tuning used without configuration.
func DefaultConfig() Config {
	return Config{FPS: 60, Damping: 1.0, Settle: 6}
}

type track struct {
	spring harmonica.Spring
	target stack.State
	filter anim.Filter

	y, vy     float64
	h, vh     float64
	alpha, va float64

	wait  time.Duration
	begin time.Time
}

type swipe struct {
	id       stack.ID
	from, to float64
	wait     time.Duration
	duration time.Duration
	begin    time.Time
	onEnd    func()
}

// Executor applies layout targets to the items of a table. It is driven by
// the frame scheduler and must be used from the frame loop goroutine.
type Executor struct {
	cfg    Config
	table  *stack.Table
	ticker Ticker
	trace  *otel.Logger

	tracks  map[stack.ID]*track
	swipes  []*swipe
	ticking bool

	onFinished func()
}

// New returns an idle executor writing into t.
func New(cfg Config, t *stack.Table, ticker Ticker, trace *otel.Logger) *Executor {
	if cfg.FPS <= 0 {
		cfg.FPS = 60
	}
	if cfg.Settle <= 0 {
		cfg.Settle = 6
	}
	return &Executor{
		cfg:    cfg,
		table:  t,
		ticker: ticker,
		trace:  trace,
		tracks: make(map[stack.ID]*track),
	}
}

// OnFinished registers fn to run each time the last running animation
// completes.
func (e *Executor) OnFinished(fn func()) {
	e.onFinished = fn
}

// Running reports whether any item is still moving.
func (e *Executor) Running() bool {
	return len(e.tracks) > 0 || len(e.swipes) > 0
}

// Apply writes states straight into the items, without animation. Items
// that are animating keep their springs but get the new targets.
func (e *Executor) Apply(states stack.States) {
	for id, st := range states {
		if tr, ok := e.tracks[id]; ok {
			tr.target = st
			continue
		}
		if it, ok := e.table.Get(id); ok {
			applyState(it, st)
		}
	}
}

// Start animates the items toward states using the combined filter and
// length of events. Items the batch does not animate jump to their targets.
// delay postpones the items whose filter allows delays.
func (e *Executor) Start(events []anim.Event, states stack.States, delay time.Duration) {
	length := anim.CombineLength(events)
	if length <= 0 {
		length = anim.DurationStandard
	}
	var combined anim.Filter
	added := make(map[stack.ID]bool)
	for _, ev := range events {
		combined |= ev.Filter
		if ev.Type == anim.Add || ev.Type == anim.HeadsUpAppear {
			added[ev.Target] = true
		}
	}

	for id, st := range states {
		it, ok := e.table.Get(id)
		if !ok {
			continue
		}
		f := filterFor(events, combined, id)
		tr, running := e.tracks[id]
		if f == 0 && !running {
			applyState(it, st)
			continue
		}
		if !running {
			tr = &track{y: it.TranslationY, h: it.ActualHeight, alpha: it.Alpha}
			e.tracks[id] = tr
		}
		if f != 0 {
			tr.spring = e.springFor(length)
			tr.filter = f
		}
		if f.Has(anim.FilterHasDelays) {
			tr.wait = delay
			tr.begin = time.Time{}
		}
		if added[id] {
			tr.alpha = 0
			tr.y = st.Y
			tr.h = st.Height
		}
		if !f.Has(anim.FilterY) {
			tr.y = st.Y
		}
		if !f.Has(anim.FilterHeight) {
			tr.h = st.Height
		}
		tr.target = st
		it.Z = st.Z
		it.ClipBottom = st.ClipBottom
		e.write(it, tr)
	}
	e.trace.Emit(otel.Event{Kind: otel.KindAnimApplied, Comp: "executor", Count: len(e.tracks), Dur: length})
	if !e.Running() {
		// Everything snapped; the batch is over before it started.
		if e.onFinished != nil {
			e.onFinished()
		}
		return
	}
	e.kick()
}

// DismissAnimated slides an item off its side after delay and calls onEnd
// once it is fully out.
func (e *Executor) DismissAnimated(id stack.ID, delay, duration time.Duration, onEnd func()) {
	it, ok := e.table.Get(id)
	if !ok {
		if onEnd != nil {
			onEnd()
		}
		return
	}
	to := it.Width
	if it.TranslationX < 0 {
		to = -it.Width
	}
	e.swipes = append(e.swipes, &swipe{
		id:       id,
		from:     it.TranslationX,
		to:       to,
		wait:     delay,
		duration: duration,
		onEnd:    onEnd,
	})
	e.kick()
}

func (e *Executor) springFor(length time.Duration) harmonica.Spring {
	freq := e.cfg.Settle / length.Seconds()
	return harmonica.NewSpring(harmonica.FPS(e.cfg.FPS), freq, e.cfg.Damping)
}

func (e *Executor) kick() {
	if e.ticking || !e.Running() {
		return
	}
	e.ticking = true
	e.ticker.Animate(tickKey, e.step)
}

func (e *Executor) step(now time.Time) bool {
	for id, tr := range e.tracks {
		it, ok := e.table.Get(id)
		if !ok {
			delete(e.tracks, id)
			continue
		}
		if tr.begin.IsZero() {
			tr.begin = now
		}
		if now.Sub(tr.begin) < tr.wait {
			continue
		}
		if e.advance(tr) {
			applyState(it, tr.target)
			delete(e.tracks, id)
			continue
		}
		e.write(it, tr)
	}

	var done []func()
	kept := e.swipes[:0]
	for _, s := range e.swipes {
		if s.begin.IsZero() {
			s.begin = now
		}
		it, ok := e.table.Get(s.id)
		f := progress(now.Sub(s.begin)-s.wait, s.duration)
		if ok {
			it.TranslationX = s.from + (s.to-s.from)*easeOut(f)
		}
		if f >= 1 || !ok {
			if s.onEnd != nil {
				done = append(done, s.onEnd)
			}
			continue
		}
		kept = append(kept, s)
	}
	e.swipes = kept
	for _, fn := range done {
		fn()
	}

	if e.Running() {
		return true
	}
	e.ticking = false
	if e.onFinished != nil {
		e.onFinished()
	}
	return e.ticking
}

// advance steps tr's springs one frame and reports whether it has settled.
func (e *Executor) advance(tr *track) bool {
	alphaTarget := tr.target.Alpha
	if tr.target.Hidden {
		alphaTarget = 0
	}
	tr.y, tr.vy = tr.spring.Update(tr.y, tr.vy, tr.target.Y)
	tr.h, tr.vh = tr.spring.Update(tr.h, tr.vh, tr.target.Height)
	tr.alpha, tr.va = tr.spring.Update(tr.alpha, tr.va, alphaTarget)
	return near(tr.y, tr.vy, tr.target.Y, settlePixels) &&
		near(tr.h, tr.vh, tr.target.Height, settlePixels) &&
		near(tr.alpha, tr.va, alphaTarget, settleAlpha)
}

func (e *Executor) write(it *stack.Item, tr *track) {
	it.TranslationY = tr.y
	it.ActualHeight = math.Max(0, tr.h)
	it.Alpha = math.Max(0, math.Min(1, tr.alpha))
}

// filterFor narrows the combined filter to what applies to id.
func filterFor(events []anim.Event, combined anim.Filter, id stack.ID) anim.Filter {
	if !combined.Has(anim.FilterY) {
		return combined
	}
	for _, ev := range events {
		if ev.Animates(anim.FilterY, id) {
			return combined
		}
	}
	return combined &^ anim.FilterY
}

func applyState(it *stack.Item, st stack.State) {
	it.TranslationY = st.Y
	it.ActualHeight = st.Height
	it.Z = st.Z
	it.ClipBottom = st.ClipBottom
	if st.Hidden {
		it.Alpha = 0
	} else {
		it.Alpha = st.Alpha
	}
}

func progress(elapsed, duration time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	if duration <= 0 || elapsed >= duration {
		return 1
	}
	return float64(elapsed) / float64(duration)
}

func easeOut(f float64) float64 {
	return 1 - math.Pow(1-f, 3)
}

func near(pos, vel, target, eps float64) bool {
	return math.Abs(pos-target) < eps && math.Abs(vel) < eps
}
