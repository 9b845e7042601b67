package algo

import (
	"testing"

	"github.com/abelbrown/stackview/internal/ambient"
	"github.com/abelbrown/stackview/internal/stack"
)

func table(t *testing.T, items ...*stack.Item) *stack.Table {
	t.Helper()
	tbl := stack.NewTable()
	for _, it := range items {
		if err := tbl.Add(it, -1); err != nil {
			t.Fatalf("Add(%s): %v", it.ID, err)
		}
	}
	return tbl
}

func expanded() *ambient.State {
	amb := ambient.New()
	amb.Expanded = true
	amb.TopPadding = 20
	return amb
}

func TestSpacer(t *testing.T) {
	tests := []struct {
		name    string
		amounts []float64
		want    []float64
	}{
		{"regular", []float64{0, 0, 0}, []float64{10, 10, 10}},
		{"increased carries to the next", []float64{0, 1, 0}, []float64{10, 20, 20}},
		{"increased after increased", []float64{1, 1}, []float64{20, 20}},
		{"removed carries to the next", []float64{0, -1, 0}, []float64{10, 0, 0}},
		{"half removed", []float64{0, -0.5}, []float64{10, 5}},
		{"removed after increased", []float64{1, -1}, []float64{20, 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSpacer(10, 20)
			for i, a := range tt.amounts {
				if got := s.Next(a); got != tt.want[i] {
					t.Errorf("Next(%v) #%d = %v, want %v", a, i, got, tt.want[i])
				}
			}
		})
	}
}

func TestOwn(t *testing.T) {
	tests := []struct {
		amount float64
		want   float64
	}{
		{0, 10},
		{1, 20},
		{0.5, 15},
		{-1, 0},
		{-0.5, 5},
	}
	for _, tt := range tests {
		if got := Own(10, 20, tt.amount); got != tt.want {
			t.Errorf("Own(10, 20, %v) = %v, want %v", tt.amount, got, tt.want)
		}
	}
}

func TestComputeLinear(t *testing.T) {
	tbl := table(t,
		&stack.Item{ID: "a", IntrinsicHeight: 100},
		&stack.Item{ID: "gone", IntrinsicHeight: 50, Visibility: stack.Gone},
		&stack.Item{ID: "b", IntrinsicHeight: 150},
		&stack.Item{ID: "c", IntrinsicHeight: 200},
	)
	amb := expanded()
	amb.StackTranslation = 5
	amb.ScrollY = 30
	amb.OverscrollTop = 4

	states := New(DefaultConfig()).Compute(tbl, amb)
	want := map[stack.ID]float64{"a": -1, "b": 109, "c": 269}
	for id, y := range want {
		if got := states[id].Y; got != y {
			t.Errorf("%s.Y = %v, want %v", id, got, y)
		}
	}
	if _, ok := states["gone"]; ok {
		t.Error("gone item has a layout state")
	}
}

func TestComputeCollapsed(t *testing.T) {
	tbl := table(t,
		&stack.Item{ID: "a", IntrinsicHeight: 100},
		&stack.Item{ID: "hu", IntrinsicHeight: 100, PinnedHeight: 60, Pinned: true},
	)
	amb := ambient.New()
	amb.HeadsUpInset = 24

	states := New(DefaultConfig()).Compute(tbl, amb)
	if !states["a"].Hidden {
		t.Error("collapsed item is not hidden")
	}
	hu := states["hu"]
	if hu.Hidden || hu.Y != 24 || hu.Height != 60 || hu.Z == 0 {
		t.Errorf("pinned heads-up = %+v, want shown at the inset with its pinned height", hu)
	}
}

func TestComputeClipsAtLayoutBottom(t *testing.T) {
	tbl := table(t,
		&stack.Item{ID: "a", IntrinsicHeight: 100},
		&stack.Item{ID: "b", IntrinsicHeight: 100},
		&stack.Item{ID: "c", IntrinsicHeight: 100},
	)
	amb := expanded()
	amb.LayoutHeight = 200

	states := New(DefaultConfig()).Compute(tbl, amb)
	tests := []struct {
		id     stack.ID
		clip   float64
		hidden bool
	}{
		{"a", 0, false},
		{"b", 30, false},
		{"c", 100, true},
	}
	for _, tt := range tests {
		st := states[tt.id]
		if st.ClipBottom != tt.clip || st.Hidden != tt.hidden {
			t.Errorf("%s clip = %v hidden = %v, want %v %v", tt.id, st.ClipBottom, st.Hidden, tt.clip, tt.hidden)
		}
	}
}

func TestComputeGroupChildren(t *testing.T) {
	tbl := table(t,
		&stack.Item{ID: "g", IntrinsicHeight: 300, CollapsedHeight: 60, ChildrenExpanded: true},
		&stack.Item{ID: "g1", Parent: "g", IntrinsicHeight: 80},
		&stack.Item{ID: "g2", Parent: "g", IntrinsicHeight: 80},
	)
	states := New(DefaultConfig()).Compute(tbl, expanded())
	if got := states["g1"].Y; got != 60 {
		t.Errorf("g1.Y = %v, want 60", got)
	}
	if got := states["g2"].Y; got != 142 {
		t.Errorf("g2.Y = %v, want 142", got)
	}

	g, _ := tbl.Get("g")
	g.ChildrenExpanded = false
	states = New(DefaultConfig()).Compute(tbl, expanded())
	if !states["g1"].Hidden {
		t.Error("child of a collapsed group is not hidden")
	}
}

func TestDimmedSparesActivated(t *testing.T) {
	tbl := table(t, &stack.Item{ID: "a", IntrinsicHeight: 10}, &stack.Item{ID: "b", IntrinsicHeight: 10})
	amb := expanded()
	amb.Dimmed = true
	amb.ActivatedItem = "b"
	states := New(DefaultConfig()).Compute(tbl, amb)
	if !states["a"].Dimmed || states["b"].Dimmed {
		t.Errorf("dimmed a=%v b=%v, want true false", states["a"].Dimmed, states["b"].Dimmed)
	}
}
