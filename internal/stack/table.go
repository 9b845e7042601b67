package stack

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownItem is returned when an id does not resolve to an item.
	ErrUnknownItem = errors.New("unknown item")
	// ErrDuplicateItem is returned when adding an id that is already present.
	ErrDuplicateItem = errors.New("duplicate item")
)

// Table is the ordered list of top-level items plus every group child,
// keyed by id. Group children are not part of the top-level order; they are
// reached through their parent's Children slice.
type Table struct {
	order []ID
	items map[ID]*Item
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{items: make(map[ID]*Item)}
}

// Add inserts it at index among the top-level items, or appends when index is
// out of range. An item with a Parent is attached to that group instead.
func (t *Table) Add(it *Item, index int) error {
	if it == nil || it.ID == "" {
		return fmt.Errorf("add: %w", ErrUnknownItem)
	}
	if _, ok := t.items[it.ID]; ok {
		return fmt.Errorf("add %s: %w", it.ID, ErrDuplicateItem)
	}
	if it.Parent != "" {
		parent, ok := t.items[it.Parent]
		if !ok {
			return fmt.Errorf("add %s to group %s: %w", it.ID, it.Parent, ErrUnknownItem)
		}
		parent.Children = append(parent.Children, it.ID)
		t.items[it.ID] = it
		it.Removed = false
		return nil
	}
	if index < 0 || index > len(t.order) {
		index = len(t.order)
	}
	t.order = append(t.order, "")
	copy(t.order[index+1:], t.order[index:])
	t.order[index] = it.ID
	t.items[it.ID] = it
	it.Removed = false
	return nil
}

// Remove detaches the item (and, for a group summary, its children) and marks
// it removed. A removed group child remembers its absolute translation so the
// slot it vacated can still be resolved.
func (t *Table) Remove(id ID) (*Item, error) {
	it, ok := t.items[id]
	if !ok {
		return nil, fmt.Errorf("remove %s: %w", id, ErrUnknownItem)
	}
	if it.Parent != "" {
		if parent, ok := t.items[it.Parent]; ok {
			parent.Children = removeID(parent.Children, id)
			it.ChildInGroupWhenRemoved = true
			it.TranslationWhenRemoved = parent.TranslationY + it.TranslationY
		}
	} else {
		t.order = removeID(t.order, id)
		it.ChildInGroupWhenRemoved = false
		for _, c := range it.Children {
			if child, ok := t.items[c]; ok {
				child.Removed = true
				delete(t.items, c)
			}
		}
	}
	it.Removed = true
	delete(t.items, id)
	return it, nil
}

// Move changes the top-level index of an item. It reports whether the order
// actually changed.
func (t *Table) Move(id ID, newIndex int) (bool, error) {
	cur := t.IndexOf(id)
	if cur < 0 {
		return false, fmt.Errorf("move %s: %w", id, ErrUnknownItem)
	}
	if newIndex < 0 {
		newIndex = 0
	}
	if newIndex >= len(t.order) {
		newIndex = len(t.order) - 1
	}
	if cur == newIndex {
		return false, nil
	}
	t.order = removeID(t.order, id)
	t.order = append(t.order, "")
	copy(t.order[newIndex+1:], t.order[newIndex:])
	t.order[newIndex] = id
	return true, nil
}

// Get resolves an id, including group children.
func (t *Table) Get(id ID) (*Item, bool) {
	it, ok := t.items[id]
	return it, ok
}

// Len returns the number of top-level items.
func (t *Table) Len() int {
	return len(t.order)
}

// At returns the top-level item at index i.
func (t *Table) At(i int) *Item {
	return t.items[t.order[i]]
}

// IndexOf returns the top-level index of id, or -1.
func (t *Table) IndexOf(id ID) int {
	for i, o := range t.order {
		if o == id {
			return i
		}
	}
	return -1
}

// Items returns the top-level items in order.
func (t *Table) Items() []*Item {
	out := make([]*Item, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.items[id])
	}
	return out
}

// ChildrenOf returns the group children of id in order.
func (t *Table) ChildrenOf(id ID) []*Item {
	parent, ok := t.items[id]
	if !ok {
		return nil
	}
	out := make([]*Item, 0, len(parent.Children))
	for _, c := range parent.Children {
		if child, ok := t.items[c]; ok {
			out = append(out, child)
		}
	}
	return out
}

// ParentOf returns the group summary of a child item.
func (t *Table) ParentOf(id ID) (*Item, bool) {
	it, ok := t.items[id]
	if !ok || it.Parent == "" {
		return nil, false
	}
	return t.Get(it.Parent)
}

// FirstNotGone returns the first top-level item that is not gone.
func (t *Table) FirstNotGone() *Item {
	for _, id := range t.order {
		if it := t.items[id]; !it.IsGone() {
			return it
		}
	}
	return nil
}

// LastNotGone returns the last top-level item that is not gone.
func (t *Table) LastNotGone() *Item {
	for i := len(t.order) - 1; i >= 0; i-- {
		if it := t.items[t.order[i]]; !it.IsGone() {
			return it
		}
	}
	return nil
}

// NotGoneCount counts top-level rows that are not gone, decorations excluded.
func (t *Table) NotGoneCount() int {
	n := 0
	for _, id := range t.order {
		if it := t.items[id]; !it.IsGone() && it.Kind == KindRow {
			n++
		}
	}
	return n
}

// Find returns the first top-level item of the given kind.
func (t *Table) Find(k Kind) *Item {
	for _, id := range t.order {
		if it := t.items[id]; it.Kind == k {
			return it
		}
	}
	return nil
}

func removeID(ids []ID, id ID) []ID {
	for i, o := range ids {
		if o == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
