package anim

import (
	"reflect"
	"testing"
	"time"

	"github.com/abelbrown/stackview/internal/ambient"
	"github.com/abelbrown/stackview/internal/stack"
)

var epoch = time.Unix(1700000000, 0)

func fixedClock() time.Time { return epoch }

func fixture(t *testing.T, ids ...stack.ID) (*stack.Table, stack.States, *ambient.State) {
	t.Helper()
	tbl := stack.NewTable()
	states := stack.States{}
	y := 0.0
	for _, id := range ids {
		it := &stack.Item{ID: id, IntrinsicHeight: 100, ActualHeight: 100, TranslationY: y, Width: 400}
		if err := tbl.Add(it, -1); err != nil {
			t.Fatalf("Add(%s): %v", id, err)
		}
		states[id] = stack.State{Y: y, Height: 100}
		y += 110
	}
	amb := ambient.New()
	amb.Expanded = true
	amb.MaxHeadsUpTranslation = 1000
	return tbl, states, amb
}

func newPending() *Pending {
	p := NewPending()
	p.SetExpanded(true)
	p.SetAnimationsEnabled(true)
	return p
}

func types(events []Event) []Type {
	out := make([]Type, len(events))
	for i, e := range events {
		out[i] = e.Type
	}
	return out
}

func TestTables(t *testing.T) {
	tests := []struct {
		typ      Type
		duration time.Duration
		filter   Filter
	}{
		{Add, 464 * time.Millisecond, FilterShadowAlpha | FilterHeight | FilterTopInset | FilterY | FilterZ | FilterHasDelays},
		{RemoveSwipedOut, 360 * time.Millisecond, FilterShadowAlpha | FilterHeight | FilterTopInset | FilterY | FilterZ | FilterHasDelays},
		{StartDrag, 360 * time.Millisecond, FilterShadowAlpha},
		{Dimmed, 220 * time.Millisecond, FilterDimmed},
		{Dark, 500 * time.Millisecond, FilterDark | FilterY},
		{GoToFullShade, 448 * time.Millisecond, FilterShadowAlpha | FilterHeight | FilterTopInset | FilterY | FilterZ | FilterDimmed | FilterHasDelays},
		{HeadsUpAppear, 550 * time.Millisecond, FilterShadowAlpha | FilterHeight | FilterTopInset | FilterY | FilterZ},
		{HeadsUpDisappearClick, 300 * time.Millisecond, FilterShadowAlpha | FilterHeight | FilterTopInset | FilterY | FilterZ | FilterHasDelays},
		{PulseDisappear, 275 * time.Millisecond, FilterAlpha | FilterY | FilterHasDelays},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			if got := DefaultDuration(tt.typ); got != tt.duration {
				t.Errorf("DefaultDuration(%v) = %v, want %v", tt.typ, got, tt.duration)
			}
			if got := DefaultFilter(tt.typ); got != tt.filter {
				t.Errorf("DefaultFilter(%v) = %v, want %v", tt.typ, got, tt.filter)
			}
		})
	}
	for typ := Type(0); typ < numTypes; typ++ {
		if DefaultDuration(typ) == 0 || typ.String() == "unknown" {
			t.Errorf("type %d has no table entry", typ)
		}
	}
}

func TestCombineLength(t *testing.T) {
	tests := []struct {
		name   string
		events []Event
		want   time.Duration
	}{
		{"empty", nil, 0},
		{"max", []Event{{Type: Add, Duration: 464 * time.Millisecond}, {Type: HeadsUpAppear, Duration: 550 * time.Millisecond}}, 550 * time.Millisecond},
		{"full shade wins", []Event{{Type: HeadsUpAppear, Duration: 550 * time.Millisecond}, {Type: GoToFullShade, Duration: 448 * time.Millisecond}}, 448 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CombineLength(tt.events); got != tt.want {
				t.Errorf("CombineLength() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDarkDuration(t *testing.T) {
	tests := []struct {
		dark    bool
		notGone int
		want    time.Duration
	}{
		{true, 2, 500 * time.Millisecond},
		{true, 3, 600 * time.Millisecond},
		{false, 5, 500 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := DarkDuration(tt.dark, tt.notGone); got != tt.want {
			t.Errorf("DarkDuration(%v, %d) = %v, want %v", tt.dark, tt.notGone, got, tt.want)
		}
	}
}

// queueEverything fills p with one change of every kind.
func queueEverything(t *testing.T, p *Pending, tbl *stack.Table) {
	t.Helper()
	removed, err := tbl.Remove("c")
	if err != nil {
		t.Fatal(err)
	}
	p.Removed(removed, false)
	added := &stack.Item{ID: "n", IntrinsicHeight: 50}
	if err := tbl.Add(added, 0); err != nil {
		t.Fatal(err)
	}
	p.Added(added, false)
	b, _ := tbl.Get("b")
	p.HeadsUp(b, true)
	p.BeginChangePosition()
	p.EndChangePosition("a", false)
	p.SnappedBack("a")
	p.DragStarted("b")
	p.TopPaddingChanged()
	p.ActivateChanged()
	p.DimmedChanged()
	p.HideSensitiveChanged()
	p.DarkChanged(DarkOriginAbove)
	p.GoToFullShade(50 * time.Millisecond)
	p.ViewResized()
	p.GroupExpansionChanged("a")
	p.AnimateEverything()
	p.Pulse("a", true)
}

func TestGenerateOrder(t *testing.T) {
	tbl, states, amb := fixture(t, "a", "b", "c")
	p := newPending()
	queueEverything(t, p, tbl)

	got := types(NewGenerator(fixedClock).Generate(p, tbl, states, amb))
	want := []Type{
		HeadsUpOther, Remove, Add, ChangePosition, SnapBack, StartDrag,
		TopPaddingChanged, ActivatedChild, Dimmed, HideSensitive, Dark,
		GoToFullShade, ViewResize, GroupExpansionChanged, Everything, PulseAppear,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Generate() types =\n%v\nwant\n%v", got, want)
	}
	if p.HasPendingStructuralWork() {
		t.Error("pending set should be drained")
	}
	if again := NewGenerator(fixedClock).Generate(p, tbl, states, amb); len(again) != 0 {
		t.Errorf("second Generate() = %v, want empty", types(again))
	}
}

func TestGenerateDeterministic(t *testing.T) {
	run := func() []Event {
		tbl, states, amb := fixture(t, "a", "b", "c")
		p := newPending()
		queueEverything(t, p, tbl)
		return NewGenerator(fixedClock).Generate(p, tbl, states, amb)
	}
	first, second := run(), run()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("batches differ:\n%+v\n%+v", first, second)
	}
}

func TestRemovalClassification(t *testing.T) {
	tests := []struct {
		name  string
		setup func(p *Pending, it *stack.Item)
		want  Type
	}{
		{"plain", func(*Pending, *stack.Item) {}, Remove},
		{"swiped set", func(p *Pending, it *stack.Item) { p.SwipedOut(it.ID) }, RemoveSwipedOut},
		{"full width", func(_ *Pending, it *stack.Item) { it.TranslationX = -it.Width }, RemoveSwipedOut},
		{"clipped away", func(_ *Pending, it *stack.Item) { it.ClipBoundsEmpty = true }, RemoveSwipedOut},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, states, amb := fixture(t, "a", "b", "c")
			p := newPending()
			b, _ := tbl.Get("b")
			tt.setup(p, b)
			removed, _ := tbl.Remove("b")
			p.Removed(removed, false)

			events := NewGenerator(fixedClock).Generate(p, tbl, states, amb)
			if len(events) != 1 {
				t.Fatalf("got %d events, want 1", len(events))
			}
			if events[0].Type != tt.want {
				t.Errorf("type = %v, want %v", events[0].Type, tt.want)
			}
			if events[0].ItemBelow != "c" {
				t.Errorf("ItemBelow = %q, want c", events[0].ItemBelow)
			}
		})
	}
}

func TestFirstBelowDescendsIntoExpandedGroup(t *testing.T) {
	tbl := stack.NewTable()
	summary := &stack.Item{ID: "g", TranslationY: 100, ChildrenExpanded: true}
	next := &stack.Item{ID: "next", TranslationY: 400}
	for _, it := range []*stack.Item{summary, next} {
		if err := tbl.Add(it, -1); err != nil {
			t.Fatal(err)
		}
	}
	for i, id := range []stack.ID{"g1", "g2", "g3"} {
		child := &stack.Item{ID: id, Parent: "g", TranslationY: float64(i * 80)}
		if err := tbl.Add(child, -1); err != nil {
			t.Fatal(err)
		}
	}
	removed, _ := tbl.Remove("g2")
	if !removed.ChildInGroupWhenRemoved || removed.TranslationWhenRemoved != 180 {
		t.Fatalf("removed child = %+v", removed)
	}

	p := newPending()
	p.Removed(removed, false)
	events := NewGenerator(fixedClock).Generate(p, tbl, stack.States{}, ambient.New())
	if got := events[0].ItemBelow; got != "g3" {
		t.Errorf("ItemBelow = %q, want g3", got)
	}
	if got := FirstBelow(tbl, 180, true); got != "next" {
		t.Errorf("FirstBelow(ignoreChildren) = %q, want next", got)
	}
}

func TestHeadsUpClassification(t *testing.T) {
	tests := []struct {
		name       string
		expanded   bool
		pinned     bool
		clicked    bool
		isHeadsUp  bool
		added      bool
		maxHUY     float64
		want       Type
		fromBottom bool
	}{
		{"collapsed disappear", false, true, false, false, false, 1000, HeadsUpDisappear, false},
		{"collapsed disappear click", false, true, true, false, false, 1000, HeadsUpDisappearClick, false},
		{"pinned closed appear", false, true, false, true, false, 1000, HeadsUpAppear, false},
		{"added expanded normal add", true, false, false, true, true, 1000, Add, true},
		{"added expanded from bottom", true, false, false, true, true, 50, HeadsUpAppear, true},
		{"other", true, false, false, false, false, 1000, HeadsUpOther, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, states, amb := fixture(t, "a", "b")
			amb.Expanded = tt.expanded
			amb.MaxHeadsUpTranslation = tt.maxHUY
			p := newPending()
			p.SetExpanded(tt.expanded)
			b, _ := tbl.Get("b")
			b.Pinned = tt.pinned
			b.JustClicked = tt.clicked
			b.HeadsUp = tt.isHeadsUp
			if tt.added {
				p.Added(b, false)
			}
			p.HeadsUp(b, tt.isHeadsUp)

			events := NewGenerator(fixedClock).Generate(p, tbl, states, amb)
			if len(events) != 1 {
				t.Fatalf("got %v, want one event", types(events))
			}
			if events[0].Type != tt.want {
				t.Errorf("type = %v, want %v", events[0].Type, tt.want)
			}
			if events[0].HeadsUpFromBottom != tt.fromBottom {
				t.Errorf("HeadsUpFromBottom = %v, want %v", events[0].HeadsUpFromBottom, tt.fromBottom)
			}
		})
	}
}

func TestHeadsUpSkips(t *testing.T) {
	tbl, states, amb := fixture(t, "a", "b")
	delete(states, "b")
	p := newPending()
	b, _ := tbl.Get("b")
	p.HeadsUp(b, true)
	if got := NewGenerator(fixedClock).Generate(p, tbl, states, amb); len(got) != 0 {
		t.Errorf("item without state produced %v", types(got))
	}

	summary := &stack.Item{ID: "g"}
	child := &stack.Item{ID: "g1", Parent: "g"}
	_ = tbl.Add(summary, -1)
	_ = tbl.Add(child, -1)
	amb.Expanded = false
	p.SetExpanded(false)
	p.HeadsUp(child, false)
	if !child.HeadsUpAnimatingAway {
		t.Fatal("collapsed disappear should mark the item animating away")
	}
	if got := NewGenerator(fixedClock).Generate(p, tbl, states, amb); len(got) != 0 {
		t.Errorf("group child produced %v", types(got))
	}
	if child.HeadsUpAnimatingAway {
		t.Error("skipped group child should stop animating away")
	}
}

func TestViewResizeSuppressedByDisappear(t *testing.T) {
	tbl, states, amb := fixture(t, "a")
	amb.Expanded = false
	p := newPending()
	p.SetExpanded(false)
	a, _ := tbl.Get("a")
	p.HeadsUp(a, false)
	p.ViewResized()

	got := types(NewGenerator(fixedClock).Generate(p, tbl, states, amb))
	if !reflect.DeepEqual(got, []Type{HeadsUpDisappear}) {
		t.Errorf("types = %v, want [heads-up-disappear]", got)
	}
}

func TestOverrides(t *testing.T) {
	tbl, states, amb := fixture(t, "a", "b", "c")
	shelf := &stack.Item{ID: "shelf", Kind: stack.KindShelf}
	_ = tbl.Add(shelf, -1)
	amb.DarkTarget = true
	p := newPending()
	n := &stack.Item{ID: "n"}
	_ = tbl.Add(n, -1)
	p.Added(n, true)
	p.TopPaddingChanged()
	p.DarkChanged(1)

	events := NewGenerator(fixedClock).Generate(p, tbl, states, amb)
	want := map[Type]time.Duration{
		Add:               DurationMoreCardAdd,
		TopPaddingChanged: 550 * time.Millisecond,
		Dark:              600 * time.Millisecond,
	}
	for _, e := range events {
		if e.Duration != want[e.Type] {
			t.Errorf("%v duration = %v, want %v", e.Type, e.Duration, want[e.Type])
		}
		if e.Type == Dark {
			if e.DarkOriginIndex != 1 {
				t.Errorf("DarkOriginIndex = %d, want 1", e.DarkOriginIndex)
			}
			if !e.Animates(FilterY, "shelf") || e.Animates(FilterY, "a") || !e.Animates(FilterDark, "a") {
				t.Error("dark event should animate y of the shelf only")
			}
		}
		if !e.Created.Equal(epoch) {
			t.Errorf("Created = %v, want %v", e.Created, epoch)
		}
	}
}

func TestPendingAddRemoveCancel(t *testing.T) {
	tbl, states, amb := fixture(t, "a")
	p := newPending()
	n := &stack.Item{ID: "n"}
	_ = tbl.Add(n, -1)
	p.Added(n, true)
	if !p.IsAddOrRemovePending() || !p.IsAddPending("n") {
		t.Fatal("add should be pending")
	}
	removed, _ := tbl.Remove("n")
	if p.Removed(removed, false) {
		t.Error("removing a pending add should not queue a removal")
	}
	if got := NewGenerator(fixedClock).Generate(p, tbl, states, amb); len(got) != 0 {
		t.Errorf("add and remove in one frame produced %v", types(got))
	}
}

func TestPendingRemoveThenReAdd(t *testing.T) {
	tests := []struct {
		name  string
		swipe bool
	}{
		{"plain", false},
		{"swiped", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, states, amb := fixture(t, "a", "x", "c")
			p := newPending()
			if tt.swipe {
				p.SwipedOut("x")
			}
			removed, _ := tbl.Remove("x")
			if !p.Removed(removed, false) {
				t.Fatal("removal should be queued")
			}
			if err := tbl.Add(removed, 1); err != nil {
				t.Fatalf("Add(x): %v", err)
			}
			states["x"] = stack.State{Y: 110, Height: 100}
			p.Added(removed, false)

			events := NewGenerator(fixedClock).Generate(p, tbl, states, amb)
			addRemove := 0
			for _, e := range events {
				if e.Target != "x" {
					continue
				}
				switch e.Type {
				case Add, Remove, RemoveSwipedOut:
					addRemove++
				}
			}
			if addRemove != 0 {
				t.Errorf("re-added item has %d add/remove events, want 0: %v", addRemove, types(events))
			}
			if got := types(events); !reflect.DeepEqual(got, []Type{ChangePosition}) {
				t.Errorf("Generate() types = %v, want [ChangePosition]", got)
			}
			if p.swipedOut.contains("x") {
				t.Error("swipe mark should be dropped with the cancelled removal")
			}
		})
	}
}

func TestMoreCardAddRunsLonger(t *testing.T) {
	if DurationMoreCardAdd <= DefaultDuration(Add) {
		t.Errorf("DurationMoreCardAdd = %v, want longer than the %v add default", DurationMoreCardAdd, DefaultDuration(Add))
	}
}

func TestPendingGates(t *testing.T) {
	tests := []struct {
		name     string
		expanded bool
		enabled  bool
		hidden   bool
		want     bool
	}{
		{"expanded", true, true, false, true},
		{"collapsed", false, true, false, false},
		{"disabled", true, false, false, false},
		{"hidden in group", true, true, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPending()
			p.SetExpanded(tt.expanded)
			p.SetAnimationsEnabled(tt.enabled)
			if got := p.Removed(&stack.Item{ID: "x"}, tt.hidden); got != tt.want {
				t.Errorf("Removed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPendingHeadsUpAddThenRemove(t *testing.T) {
	p := newPending()
	it := &stack.Item{ID: "h", HeadsUp: true}
	p.Added(it, false)
	p.HeadsUp(it, true)
	if p.IsAddPending("h") {
		t.Error("heads-up addition should not be a plain add")
	}
	if p.Removed(it, false) {
		t.Error("removing a just-shown heads-up should not animate")
	}
	if len(p.headsUp) != 0 || p.addedHeadsUp.len() != 0 {
		t.Error("heads-up changes for the item should be dropped")
	}
}

func TestPendingChangePositionSuppressesAdd(t *testing.T) {
	p := newPending()
	p.BeginChangePosition()
	p.Added(&stack.Item{ID: "m"}, false)
	p.EndChangePosition("m", false)
	if p.IsAddPending("m") {
		t.Error("re-insertion should not queue an add")
	}
	if p.changingPos.len() != 1 {
		t.Errorf("changing positions = %d, want 1", p.changingPos.len())
	}
}

func TestGoToFullShadeDelay(t *testing.T) {
	p := newPending()
	p.GoToFullShade(120 * time.Millisecond)
	if got := p.TakeGoToFullShadeDelay(); got != 120*time.Millisecond {
		t.Errorf("delay = %v, want 120ms", got)
	}
	if got := p.TakeGoToFullShadeDelay(); got != 0 {
		t.Errorf("delay after take = %v, want 0", got)
	}
}
