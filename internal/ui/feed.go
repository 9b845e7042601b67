package ui

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/abelbrown/stackview/internal/engine"
	"github.com/abelbrown/stackview/internal/logging"
	"github.com/abelbrown/stackview/internal/stack"
)

// Heights of the demo items in layout pixels.
const (
	rowHeight    = 3 * rowPx
	tallHeight   = 4 * rowPx
	childHeight  = 2 * rowPx
	footerHeight = 2 * rowPx
)

// Feed is the demo data model. It owns the titles of the items in the stack
// and performs the removals the layout asks for.
type Feed struct {
	layout *engine.Layout
	titles map[stack.ID]string
	seq    int

	childPadding float64

	removed int
	clears  int
}

// NewFeed returns an empty feed. childPadding is the gap between the
// children of an expanded group. Attach must be called before use.
func NewFeed(childPadding float64) *Feed {
	return &Feed{titles: make(map[stack.ID]string), childPadding: childPadding}
}

// Attach binds the feed to the layout it mutates.
func (f *Feed) Attach(l *engine.Layout) {
	f.layout = l
}

// Title returns the display title of id.
func (f *Feed) Title(id stack.ID) string {
	return f.titles[id]
}

// Removed returns how many items the feed removed so far.
func (f *Feed) Removed() int {
	return f.removed
}

func (f *Feed) newItem(title string, height float64) *stack.Item {
	f.seq++
	id := stack.ID(uuid.NewString())
	f.titles[id] = fmt.Sprintf("#%d %s", f.seq, title)
	return &stack.Item{
		ID:              id,
		IntrinsicHeight: height,
		CollapsedHeight: height,
		ActualHeight:    height,
		Alpha:           1,
		Dismissible:     true,
	}
}

// Seed fills the layout with n rows, one group and the clear-all footer. The
// last third of the rows is low priority.
func (f *Feed) Seed(n int) error {
	for i := 0; i < n; i++ {
		h := rowHeight
		if i%4 == 1 {
			h = tallHeight
		}
		it := f.newItem("message", h)
		if i >= n-n/3 {
			it.Priority = stack.PriorityLow
			f.titles[it.ID] += " (silent)"
		}
		if err := f.layout.Add(it, -1, false); err != nil {
			return err
		}
		if i == 1 {
			if err := f.addGroup(2); err != nil {
				return err
			}
		}
	}
	footer := &stack.Item{
		ID:              "footer",
		Kind:            stack.KindFooter,
		IntrinsicHeight: footerHeight,
		ActualHeight:    footerHeight,
		Alpha:           1,
	}
	return f.layout.Add(footer, -1, false)
}

func (f *Feed) addGroup(children int) error {
	summary := f.newItem("conversation", rowHeight)
	summary.Expandable = true
	if err := f.layout.Add(summary, -1, false); err != nil {
		return err
	}
	for i := 0; i < children; i++ {
		c := f.newItem("reply", childHeight)
		c.Parent = summary.ID
		if err := f.layout.Add(c, -1, false); err != nil {
			return err
		}
	}
	return nil
}

// AddRow inserts a new row at the top of the stack.
func (f *Feed) AddRow() (stack.ID, error) {
	it := f.newItem("new message", rowHeight)
	if err := f.layout.Add(it, 0, false); err != nil {
		return "", err
	}
	return it.ID, nil
}

// FirstRow returns the top-most row, or nil when only decorations are left.
func (f *Feed) FirstRow() *stack.Item {
	for _, it := range f.layout.Table().Items() {
		if it.Kind == stack.KindRow && !it.IsGone() {
			return it
		}
	}
	return nil
}

// ToggleGroup expands or collapses the children of the summary id.
func (f *Feed) ToggleGroup(id stack.ID) bool {
	it, ok := f.layout.Table().Get(id)
	if !ok || !it.IsSummaryWithChildren() {
		return false
	}
	expanded := !it.ChildrenExpanded
	it.IntrinsicHeight = it.CollapsedHeight
	if expanded {
		for _, c := range f.layout.Table().ChildrenOf(id) {
			it.IntrinsicHeight += c.Height() + f.childPadding
		}
	}
	f.layout.OnGroupExpansionChanged(id, expanded)
	return true
}

// Remove deletes id from the stack.
func (f *Feed) Remove(id stack.ID) error {
	children := f.layout.Table().ChildrenOf(id)
	if err := f.layout.Remove(id); err != nil {
		return err
	}
	delete(f.titles, id)
	for _, c := range children {
		delete(f.titles, c.ID)
	}
	f.removed++
	return nil
}

// ReportClearAll records that the user cleared every dismissible item.
func (f *Feed) ReportClearAll() error {
	f.clears++
	logging.Info("stack cleared", "clears", f.clears, "removed", f.removed)
	return nil
}
