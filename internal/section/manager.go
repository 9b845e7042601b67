package section

import (
	"math"
	"time"

	"github.com/abelbrown/stackview/internal/ambient"
	"github.com/abelbrown/stackview/internal/stack"
	"github.com/charmbracelet/harmonica"
)

// Manager recomputes both sections once per frame and animates their drawn
// bounds toward the computed targets.
type Manager struct {
	sections [Count]Section
	spring   harmonica.Spring

	animationsEnabled bool
	changed           bool
}

// NewManager returns a manager whose bound animations run at fps with the
// given spring parameters.
func NewManager(fps int, frequency, damping float64) *Manager {
	if fps <= 0 {
		fps = 60
	}
	m := &Manager{spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping)}
	m.sections[0].Priority = stack.PriorityHigh
	m.sections[1].Priority = stack.PriorityLow
	return m
}

// SetAnimationsEnabled controls whether identity changes animate bounds.
func (m *Manager) SetAnimationsEnabled(enabled bool) {
	m.animationsEnabled = enabled
}

// Sections returns a copy of both slots, high priority first.
func (m *Manager) Sections() [Count]Section {
	return m.sections
}

// Recompute partitions the visible top-level items by priority and updates
// the target bounds of both sections. states are the layout targets of the
// current frame; an item without one falls back to its current translation.
func (m *Manager) Recompute(t *stack.Table, states stack.States, amb *ambient.State) [Count]Section {
	amb.SectionBoundaryIndex = GapIndex(t)

	var first, last [Count]stack.ID
	var overallFirst, overallLast *stack.Item
	for _, it := range t.Items() {
		if it.Kind != stack.KindRow || it.Visibility != stack.Visible {
			continue
		}
		slot := slotOf(it.Priority)
		if first[slot] == "" {
			first[slot] = it.ID
		}
		last[slot] = it.ID
		if overallFirst == nil {
			overallFirst = it
		}
		overallLast = it
	}
	if overallLast != nil {
		amb.LastVisibleBackground = overallLast.ID
	} else {
		amb.LastVisibleBackground = ""
	}

	animate := m.animationsEnabled && amb.Expanded
	for i := range m.sections {
		s := &m.sections[i]
		firstChanged, lastChanged := s.setVisible(first[i], last[i])
		s.AnimateTop = animate && firstChanged
		s.AnimateBottom = animate && lastChanged
	}

	targets := m.targets(t, states, amb, overallFirst, overallLast)
	m.changed = false
	for i := range m.sections {
		s := &m.sections[i]
		if s.Target != targets[i] {
			m.changed = true
		}
		s.Target = targets[i]
		if s.AnimateTop {
			s.animTop = true
		}
		if s.AnimateBottom {
			s.animBot = true
		}
		if !s.animTop {
			s.Current.Top = s.Target.Top
			s.topVel = 0
		}
		if !s.animBot {
			s.Current.Bottom = s.Target.Bottom
			s.bottomVel = 0
		}
		s.Current.Left, s.Current.Right = s.Target.Left, s.Target.Right
	}
	m.clampShared()
	return m.sections
}

func (m *Manager) targets(t *stack.Table, states stack.States, amb *ambient.State, first, last *stack.Item) [Count]Bounds {
	var out [Count]Bounds
	left := amb.SidePadding
	right := amb.Width - amb.SidePadding
	for i := range out {
		out[i].Left, out[i].Right = left, right
	}
	if !amb.Expanded {
		return out
	}

	minTop := amb.TopPadding + amb.StackTranslation
	if amb.Keyguard {
		minTop = 0
		if first == nil {
			minTop = amb.TopPadding
		}
	}
	minBottom := minTop
	if shelf := t.Find(stack.KindShelf); shelf != nil && !shelf.IsGone() {
		if st, ok := states[shelf.ID]; ok && !st.Hidden {
			minBottom = math.Max(minBottom, st.Y+st.Height)
		}
	}

	if first == nil {
		top := minTop
		bottom := math.Max(top, minBottom)
		out[0].Top, out[0].Bottom = top, top
		out[1].Top, out[1].Bottom = top, bottom
		return out
	}

	fs := stateOf(first, states)
	ls := stateOf(last, states)
	top := math.Max(math.Ceil(fs.Y), minTop)
	bottom := math.Floor(ls.Y + ls.Height - ls.ClipBottom)
	bottom = math.Max(bottom, minBottom)
	bottom = math.Max(bottom, top)

	high, low := m.sections[0], m.sections[1]
	switch {
	case high.HasItems() && low.HasItems():
		lastHigh, _ := t.Get(high.Last)
		firstLow, _ := t.Get(low.First)
		hs := stateOf(lastHigh, states)
		gap := math.Max(top, math.Min(math.Floor(hs.Y+hs.Height-hs.ClipBottom), bottom))
		lowTop := math.Max(top, math.Min(math.Ceil(stateOf(firstLow, states).Y), bottom))
		lowTop = math.Max(lowTop, gap)
		out[0].Top, out[0].Bottom = top, gap
		out[1].Top, out[1].Bottom = lowTop, bottom
	case high.HasItems():
		out[0].Top, out[0].Bottom = top, bottom
		out[1].Top, out[1].Bottom = bottom, bottom
	default:
		out[0].Top, out[0].Bottom = top, top
		out[1].Top, out[1].Bottom = top, bottom
	}
	return out
}

// DidBoundsChange reports whether the last Recompute moved any target.
func (m *Manager) DidBoundsChange() bool {
	return m.changed
}

// AreBoundsAnimating reports whether any drawn edge is still moving.
func (m *Manager) AreBoundsAnimating() bool {
	for i := range m.sections {
		if m.sections[i].Animating() {
			return true
		}
	}
	return false
}

// ResetCurrentBounds jumps every drawn edge to its target.
func (m *Manager) ResetCurrentBounds() {
	for i := range m.sections {
		m.sections[i].ResetCurrentBounds()
	}
}

// Step advances the animating edges by one frame and reports whether any
// edge is still moving. It has the frame.Step signature.
func (m *Manager) Step(time.Time) bool {
	for i := range m.sections {
		s := &m.sections[i]
		if s.animTop {
			s.Current.Top, s.topVel = m.spring.Update(s.Current.Top, s.topVel, s.Target.Top)
			if settled(s.Current.Top, s.topVel, s.Target.Top) {
				s.Current.Top, s.topVel, s.animTop = s.Target.Top, 0, false
			}
		}
		if s.animBot {
			s.Current.Bottom, s.bottomVel = m.spring.Update(s.Current.Bottom, s.bottomVel, s.Target.Bottom)
			if settled(s.Current.Bottom, s.bottomVel, s.Target.Bottom) {
				s.Current.Bottom, s.bottomVel, s.animBot = s.Target.Bottom, 0, false
			}
		}
	}
	m.clampShared()
	return m.AreBoundsAnimating()
}

// clampShared keeps the drawn low section below the drawn high section while
// either edge of their shared boundary animates. Edges that are not animating
// are rebuilt from their targets so the clamp releases once the other settles.
func (m *Manager) clampShared() {
	high, low := &m.sections[0], &m.sections[1]
	if !high.HasItems() || !low.HasItems() {
		return
	}
	if !low.animTop {
		low.Current.Top = low.Target.Top
	}
	if !low.animBot {
		low.Current.Bottom = low.Target.Bottom
	}
	low.Current.Top = math.Max(low.Current.Top, high.Current.Bottom)
	low.Current.Bottom = math.Max(low.Current.Bottom, low.Current.Top)
}

// GapIndex returns the top-level index of the first visible low-priority row
// that follows at least one visible high-priority row, or -1.
func GapIndex(t *stack.Table) int {
	seenHigh := false
	for i, it := range t.Items() {
		if it.Kind != stack.KindRow || it.Visibility != stack.Visible {
			continue
		}
		if it.Priority == stack.PriorityHigh {
			seenHigh = true
		} else if seenHigh {
			return i
		}
	}
	return -1
}

func slotOf(p stack.Priority) int {
	if p == stack.PriorityLow {
		return 1
	}
	return 0
}

func stateOf(it *stack.Item, states stack.States) stack.State {
	if it == nil {
		return stack.State{}
	}
	if st, ok := states[it.ID]; ok {
		return st
	}
	return stack.State{Y: it.TranslationY, Height: it.ActualHeight, ClipBottom: it.ClipBottom}
}

func settled(pos, vel, target float64) bool {
	return math.Abs(pos-target) < 0.5 && math.Abs(vel) < 0.5
}
