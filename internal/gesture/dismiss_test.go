package gesture

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/abelbrown/stackview/internal/stack"
)

type dismissCall struct {
	id       stack.ID
	delay    time.Duration
	duration time.Duration
	onEnd    func()
}

type fakeDismisser struct {
	calls []dismissCall
}

func (f *fakeDismisser) DismissAnimated(id stack.ID, delay, duration time.Duration, onEnd func()) {
	f.calls = append(f.calls, dismissCall{id, delay, duration, onEnd})
}

type fakeModel struct {
	removed   []stack.ID
	fail      map[stack.ID]bool
	reports   int
	reportErr error
}

func (m *fakeModel) Remove(id stack.ID) error {
	if m.fail[id] {
		return errors.New("model refused")
	}
	m.removed = append(m.removed, id)
	return nil
}

func (m *fakeModel) ReportClearAll() error {
	m.reports++
	return m.reportErr
}

type fakePanel struct {
	collapses int
}

func (p *fakePanel) AnimateCollapse() {
	p.collapses++
}

type completeRecorder struct {
	counts []int
}

func (c *completeRecorder) DismissAllComplete(removed int) {
	c.counts = append(c.counts, removed)
}

type dismissHarness struct {
	d        *DismissAll
	anim     *fakeDismisser
	model    *fakeModel
	panel    *fakePanel
	done     *completeRecorder
	progress []bool
}

func newDismissHarness() *dismissHarness {
	h := &dismissHarness{
		anim:  &fakeDismisser{},
		model: &fakeModel{fail: map[stack.ID]bool{}},
		panel: &fakePanel{},
		done:  &completeRecorder{},
	}
	h.d = NewDismissAll(DefaultStagger(), h.anim, h.model, h.panel, h.done, nil)
	h.d.OnProgressChanged(func(v bool) {
		h.progress = append(h.progress, v)
	})
	return h
}

func rows(t *testing.T, items ...*stack.Item) *stack.Table {
	t.Helper()
	tbl := stack.NewTable()
	for _, it := range items {
		if it.ActualHeight == 0 {
			it.ActualHeight = 100
		}
		if err := tbl.Add(it, -1); err != nil {
			t.Fatalf("Add(%s): %v", it.ID, err)
		}
	}
	return tbl
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

func TestStaggerDelays(t *testing.T) {
	tests := []struct {
		name    string
		stagger Stagger
		n       int
		want    []time.Duration
	}{
		{"default", DefaultStagger(), 4, []time.Duration{ms(540), ms(430), ms(310), ms(180)}},
		{"single", DefaultStagger(), 1, []time.Duration{ms(180)}},
		{"floor", Stagger{Start: ms(180), Step: ms(60), Decrement: ms(10), Floor: ms(50)}, 4,
			[]time.Duration{ms(330), ms(280), ms(230), ms(180)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stagger.Delays(tt.n); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Delays(%d) = %v, want %v", tt.n, got, tt.want)
			}
		})
	}
}

func TestStaggerGapsShrinkToFloor(t *testing.T) {
	s := DefaultStagger()
	delays := s.Delays(30)
	for i := len(delays) - 1; i > 0; i-- {
		gap := delays[i-1] - delays[i]
		if gap < s.Floor {
			t.Fatalf("gap above item %d = %v, below floor %v", i, gap, s.Floor)
		}
		if i < len(delays)-1 && gap > delays[i]-delays[i+1] {
			t.Fatalf("gap above item %d = %v grew", i, gap)
		}
	}
}

func TestDismissAllStaggersBottomUp(t *testing.T) {
	h := newDismissHarness()
	tbl := rows(t,
		&stack.Item{ID: "a", Dismissible: true},
		&stack.Item{ID: "b", Dismissible: true},
		&stack.Item{ID: "c", Dismissible: true},
		&stack.Item{ID: "d", Dismissible: true},
	)
	if err := h.d.Run(tbl); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	wantIDs := []stack.ID{"d", "c", "b", "a"}
	wantDelays := []time.Duration{ms(180), ms(310), ms(430), ms(540)}
	if len(h.anim.calls) != len(wantIDs) {
		t.Fatalf("animated %d items, want %d", len(h.anim.calls), len(wantIDs))
	}
	for i, c := range h.anim.calls {
		if c.id != wantIDs[i] || c.delay != wantDelays[i] || c.duration != ms(260) {
			t.Errorf("call %d = (%s, %v, %v), want (%s, %v, 260ms)", i, c.id, c.delay, c.duration, wantIDs[i], wantDelays[i])
		}
		if (c.onEnd != nil) != (i == len(wantIDs)-1) {
			t.Errorf("call %d has end action = %v", i, c.onEnd != nil)
		}
	}
	if len(h.model.removed) != 0 || h.panel.collapses != 0 {
		t.Fatalf("removed %v before the animations ended", h.model.removed)
	}
	if !h.d.InProgress() {
		t.Error("InProgress() = false while animating")
	}

	h.anim.calls[len(h.anim.calls)-1].onEnd()

	if !reflect.DeepEqual(h.model.removed, []stack.ID{"a", "b", "c", "d"}) {
		t.Errorf("removed = %v, want all four", h.model.removed)
	}
	if h.panel.collapses != 1 || h.model.reports != 1 {
		t.Errorf("collapses = %d, reports = %d, want 1 each", h.panel.collapses, h.model.reports)
	}
	if !reflect.DeepEqual(h.progress, []bool{true, false}) {
		t.Errorf("progress = %v, want [true false]", h.progress)
	}
	if !reflect.DeepEqual(h.done.counts, []int{4}) {
		t.Errorf("complete = %v, want [4]", h.done.counts)
	}
}

func TestDismissAllFailuresAreSkipped(t *testing.T) {
	h := newDismissHarness()
	h.model.fail["b"] = true
	h.model.reportErr = errors.New("service gone")
	tbl := rows(t,
		&stack.Item{ID: "a", Dismissible: true},
		&stack.Item{ID: "b", Dismissible: true},
		&stack.Item{ID: "c", Dismissible: true},
	)
	if err := h.d.Run(tbl); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	h.anim.calls[len(h.anim.calls)-1].onEnd()

	if !reflect.DeepEqual(h.model.removed, []stack.ID{"a", "c"}) {
		t.Errorf("removed = %v, want [a c]", h.model.removed)
	}
	if !reflect.DeepEqual(h.done.counts, []int{2}) {
		t.Errorf("complete = %v, want [2]", h.done.counts)
	}
	if h.d.InProgress() {
		t.Error("still in progress after finishing")
	}
}

func TestDismissAllNothingDismissible(t *testing.T) {
	h := newDismissHarness()
	tbl := rows(t, &stack.Item{ID: "a"}, &stack.Item{ID: "b"})
	if err := h.d.Run(tbl); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if h.panel.collapses != 1 {
		t.Errorf("collapses = %d, want 1", h.panel.collapses)
	}
	if len(h.anim.calls) != 0 || len(h.model.removed) != 0 || h.model.reports != 0 {
		t.Errorf("empty dismiss touched items: anim %d removed %v reports %d",
			len(h.anim.calls), h.model.removed, h.model.reports)
	}
}

func TestDismissAllNothingOnScreen(t *testing.T) {
	h := newDismissHarness()
	tbl := rows(t,
		&stack.Item{ID: "a", Dismissible: true, ClipBoundsEmpty: true},
		&stack.Item{ID: "b", Dismissible: true, Visibility: stack.Invisible},
	)
	if err := h.d.Run(tbl); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(h.anim.calls) != 0 {
		t.Errorf("animated %d hidden items", len(h.anim.calls))
	}
	if !reflect.DeepEqual(h.model.removed, []stack.ID{"a", "b"}) {
		t.Errorf("removed = %v, want [a b]", h.model.removed)
	}
	if len(h.progress) != 0 {
		t.Errorf("progress = %v, want no flips", h.progress)
	}
}

func TestDismissAllInProgress(t *testing.T) {
	h := newDismissHarness()
	tbl := rows(t, &stack.Item{ID: "a", Dismissible: true})
	if err := h.d.Run(tbl); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if err := h.d.Run(tbl); !errors.Is(err, ErrDismissInProgress) {
		t.Errorf("second Run() = %v, want ErrDismissInProgress", err)
	}
}

func TestDismissAllGroups(t *testing.T) {
	h := newDismissHarness()
	tbl := rows(t,
		&stack.Item{ID: "g", Dismissible: true, ChildrenExpanded: true},
		&stack.Item{ID: "g1", Parent: "g", Dismissible: true},
		&stack.Item{ID: "g2", Parent: "g", TranslationX: 40},
		&stack.Item{ID: "k", ChildrenExpanded: false},
		&stack.Item{ID: "k1", Parent: "k", Dismissible: true},
	)
	if err := h.d.Run(tbl); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	var animated []stack.ID
	for _, c := range h.anim.calls {
		animated = append(animated, c.id)
	}
	if want := []stack.ID{"g1", "g"}; !reflect.DeepEqual(animated, want) {
		t.Errorf("animated = %v, want %v", animated, want)
	}

	h.anim.calls[len(h.anim.calls)-1].onEnd()
	if want := []stack.ID{"g", "g1", "k1"}; !reflect.DeepEqual(h.model.removed, want) {
		t.Errorf("removed = %v, want %v", h.model.removed, want)
	}
	g2, _ := tbl.Get("g2")
	if g2.TranslationX != 0 {
		t.Errorf("undismissible child translation = %v, want reset to 0", g2.TranslationX)
	}
}

func TestApplyDismissClipping(t *testing.T) {
	tbl := rows(t,
		&stack.Item{ID: "a", Dismissible: true, ClipTop: 3},
		&stack.Item{ID: "b", ClipTop: 5},
		&stack.Item{ID: "gone", Dismissible: true, Visibility: stack.Gone},
		&stack.Item{ID: "c", ClipTop: 7, Dismissible: true},
		&stack.Item{ID: "d", ClipTop: 9},
	)
	ApplyDismissClipping(tbl, true)
	want := map[stack.ID]float64{"a": 0, "b": 5, "c": 0, "d": 9}
	for id, w := range want {
		it, _ := tbl.Get(id)
		if it.MinClipTop != w {
			t.Errorf("%s MinClipTop = %v, want %v", id, it.MinClipTop, w)
		}
	}

	ApplyDismissClipping(tbl, false)
	for id := range want {
		it, _ := tbl.Get(id)
		if it.MinClipTop != 0 {
			t.Errorf("%s MinClipTop = %v after dismiss, want 0", id, it.MinClipTop)
		}
	}
}
