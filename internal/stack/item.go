// Package stack holds the items of the scrollable stack and the table that
// orders them. Group membership and "item below" references are ids resolved
// through the table, never pointers, so an item removed mid-animation leaves
// no dangling reference behind.
package stack

// ID identifies an item for its whole lifetime in the table.
type ID string

// Visibility is the tri-state display flag of an item.
type Visibility int

const (
	Visible Visibility = iota
	Invisible
	Gone
)

func (v Visibility) String() string {
	switch v {
	case Visible:
		return "visible"
	case Invisible:
		return "invisible"
	case Gone:
		return "gone"
	}
	return "unknown"
}

// Priority selects the section an item is drawn in.
type Priority int

const (
	PriorityHigh Priority = iota
	PriorityLow
)

func (p Priority) String() string {
	if p == PriorityLow {
		return "low"
	}
	return "high"
}

// Kind distinguishes regular rows from the decorative elements that share the
// list with them.
type Kind int

const (
	KindRow Kind = iota
	KindShelf
	KindFooter
	KindEmptyShade
)

// Item is one element of the stack. Heights and translations are in pixels.
//
// The data model owns items; the layout reads them and annotates the
// animation-facing fields (TranslationY, ActualHeight, Z, Alpha, clip
// amounts) as executors apply state.
type Item struct {
	ID   ID
	Kind Kind

	IntrinsicHeight float64
	CollapsedHeight float64
	ActualHeight    float64
	PinnedHeight    float64

	TranslationY float64
	TranslationX float64
	Width        float64
	Z            float64
	Alpha        float64

	ClipTop         float64
	ClipBottom      float64
	MinClipTop      float64
	ClipBoundsEmpty bool

	Visibility  Visibility
	Priority    Priority
	Dismissible bool

	// Heads-up state.
	Pinned               bool
	HeadsUp              bool
	HeadsUpAnimatingAway bool
	JustClicked          bool

	Pulsing bool

	// Group state. Parent is empty for top-level items.
	Parent           ID
	Children         []ID
	ChildrenExpanded bool
	Expandable       bool
	UserExpanded     bool

	// IncreasedPaddingAmount in [-1, 1] interpolates the padding above this
	// item: -1 removes it, 1 uses the increased padding.
	IncreasedPaddingAmount float64

	// Set by the data model when the item leaves the table.
	Removed                 bool
	ChildInGroupWhenRemoved bool
	TranslationWhenRemoved  float64

	// Footer only: the horizontal span covered by its buttons.
	ControlsLeft  float64
	ControlsRight float64
}

// IsGone reports whether the item takes no space in the layout.
func (it *Item) IsGone() bool {
	return it.Visibility == Gone
}

// IsChildInGroup reports whether the item is a child of a group summary.
func (it *Item) IsChildInGroup() bool {
	return it.Parent != ""
}

// IsSummaryWithChildren reports whether the item is a group summary.
func (it *Item) IsSummaryWithChildren() bool {
	return len(it.Children) > 0
}

// HasNoContentHeight reports whether the item is excluded from content height.
// The shelf is accounted for separately.
func (it *Item) HasNoContentHeight() bool {
	return it.Kind == KindShelf
}

// Height returns the intrinsic height the layout uses for this item.
func (it *Item) Height() float64 {
	if it.Pinned && it.PinnedHeight > 0 {
		return it.PinnedHeight
	}
	return it.IntrinsicHeight
}

// Bottom returns the current bottom edge of the item.
func (it *Item) Bottom() float64 {
	return it.TranslationY + it.ActualHeight
}

// ClipHeight returns the visible height after clipping.
func (it *Item) ClipHeight() float64 {
	h := it.ActualHeight - it.ClipTop - it.ClipBottom
	if h < 0 {
		return 0
	}
	return h
}

// State is the layout target computed for one item.
type State struct {
	Y           float64
	Height      float64
	Z           float64
	Alpha       float64
	ClipBottom  float64
	Dimmed      bool
	Dark        bool
	Hidden      bool
	HideContent bool
}

// Bottom returns Y + Height.
func (s State) Bottom() float64 {
	return s.Y + s.Height
}

// States maps item ids to their layout targets for one frame.
type States map[ID]State
