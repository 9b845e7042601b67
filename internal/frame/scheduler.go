// Package frame drives the per-frame callbacks of the layout.
//
// A frame runs in two phases. Animation steps registered with Animate run
// first and stay registered until they report completion. One-shot callbacks
// registered with Post run afterwards, exactly once, in registration order.
// A panicking callback is recovered and logged so the rest of the frame still
// runs.
package frame

import (
	"fmt"
	"time"

	"github.com/abelbrown/stackview/internal/logging"
)

// Step advances one animation by one frame and reports whether it wants the
// next frame too.
type Step func(now time.Time) bool

type animation struct {
	key  string
	step Step
	gen  uint64
}

// Scheduler is single-threaded: all methods must be called from the frame
// loop's goroutine.
type Scheduler struct {
	posts      []func()
	animations []animation
	frames     uint64
	gen        uint64
	last       time.Time
	inTick     bool
}

// NewScheduler returns an idle scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Post registers fn to run once before the next frame is drawn. Callbacks
// posted while a frame is running are deferred to the following frame.
func (s *Scheduler) Post(fn func()) {
	s.posts = append(s.posts, fn)
}

// Animate registers step under key. Registering a key that is already running
// replaces the previous step, so a new animation on a property cancels the one
// in flight.
func (s *Scheduler) Animate(key string, step Step) {
	s.gen++
	for i := range s.animations {
		if s.animations[i].key == key {
			s.animations[i].step = step
			s.animations[i].gen = s.gen
			return
		}
	}
	s.animations = append(s.animations, animation{key: key, step: step, gen: s.gen})
}

// Cancel removes the animation registered under key, if any.
func (s *Scheduler) Cancel(key string) {
	for i := range s.animations {
		if s.animations[i].key == key {
			s.animations = append(s.animations[:i], s.animations[i+1:]...)
			return
		}
	}
}

// Animating reports whether key is registered.
func (s *Scheduler) Animating(key string) bool {
	for _, a := range s.animations {
		if a.key == key {
			return true
		}
	}
	return false
}

// Idle reports whether nothing is waiting for a frame.
func (s *Scheduler) Idle() bool {
	return len(s.posts) == 0 && len(s.animations) == 0
}

// Frames returns the number of frames run so far.
func (s *Scheduler) Frames() uint64 {
	return s.frames
}

// Elapsed returns the time since the previous frame, zero on the first.
func (s *Scheduler) Elapsed(now time.Time) time.Duration {
	if s.last.IsZero() {
		return 0
	}
	return now.Sub(s.last)
}

// Tick runs one frame.
func (s *Scheduler) Tick(now time.Time) {
	if s.inTick {
		logging.Warn("frame: re-entrant tick ignored")
		return
	}
	s.inTick = true
	defer func() { s.inTick = false }()

	s.frames++

	running := make([]animation, len(s.animations))
	copy(running, s.animations)
	for _, a := range running {
		if !s.current(a) {
			continue
		}
		if !s.runStep(a, now) && s.current(a) {
			s.Cancel(a.key)
		}
	}

	posts := s.posts
	s.posts = nil
	for _, fn := range posts {
		s.runPost(fn)
	}
	s.last = now
}

// current reports whether a is still the registered step for its key. A step
// replaced or cancelled earlier in the same frame is skipped.
func (s *Scheduler) current(a animation) bool {
	for _, b := range s.animations {
		if b.key == a.key {
			return b.gen == a.gen
		}
	}
	return false
}

func (s *Scheduler) runStep(a animation, now time.Time) (more bool) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("frame: animation step panicked", "key", a.key, "panic", fmt.Sprint(r))
			more = false
		}
	}()
	return a.step(now)
}

func (s *Scheduler) runPost(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("frame: callback panicked", "panic", fmt.Sprint(r))
		}
	}()
	fn()
}
