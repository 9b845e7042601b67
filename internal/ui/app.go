package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/stackview/internal/config"
	"github.com/abelbrown/stackview/internal/engine"
	"github.com/abelbrown/stackview/internal/frame"
	"github.com/abelbrown/stackview/internal/gesture"
	"github.com/abelbrown/stackview/internal/logging"
	"github.com/abelbrown/stackview/internal/otel"
	"github.com/abelbrown/stackview/internal/stack"
)

const (
	headerLines = 1
	statusLines = 1

	// scrollStep is how far one key press or wheel notch scrolls.
	scrollStep = 3 * rowPx
	// mousePointer is the pointer id of the terminal mouse.
	mousePointer = 0
)

// App is the root Bubble Tea model. It owns the layout and runs its frame
// clock: frames are scheduled while the layout has work and stop once it is
// idle.
type App struct {
	layout   *engine.Layout
	sched    *frame.Scheduler
	feed     *Feed
	trace    *otel.Logger
	ring     *otel.RingBuffer
	interval time.Duration
	now      func() time.Time

	keys keyMap
	help help.Model

	width     int
	height    int
	ready     bool
	ticking   bool
	expanded  bool
	pressed   bool
	showDebug bool
	status    string
	err       error
}

// NewApp builds the layout from cfg and seeds it with demo items. trace and
// ring may be nil.
func NewApp(cfg config.Config, trace *otel.Logger, ring *otel.RingBuffer) (*App, error) {
	ecfg := cfg.Engine()
	a := &App{
		sched:    frame.NewScheduler(),
		feed:     NewFeed(ecfg.Algo.ChildPadding),
		trace:    trace,
		ring:     ring,
		interval: cfg.UI.FrameInterval,
		now:      time.Now,
		keys:     defaultKeyMap(),
		help:     help.New(),
	}
	if a.interval <= 0 {
		a.interval = time.Second / 60
	}

	swipe := &swipeRecognizer{feed: a.feed, slop: ecfg.Gesture.TouchSlop}
	tap := &tapRecognizer{feed: a.feed, slop: ecfg.Gesture.TouchSlop}
	a.layout = engine.New(ecfg, stack.NewTable(), a.sched, engine.Deps{
		Model:  a.feed,
		Panel:  a,
		Expand: tap,
		Swipe:  swipe,
		Trace:  trace,
	})
	swipe.layout, tap.layout = a.layout, a.layout
	a.feed.Attach(a.layout)
	a.layout.SetListeners(engine.Listeners{EmptySpace: a, DismissAll: a})

	if err := a.feed.Seed(cfg.UI.DemoItems); err != nil {
		return nil, fmt.Errorf("seed stack: %w", err)
	}
	return a, nil
}

// Init starts the frame clock.
func (a *App) Init() tea.Cmd {
	return a.wake()
}

// Update handles messages and returns the updated model and any commands.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(FrameMsg); !ok && otel.TraceEnabled() {
		name := fmt.Sprintf("%T", msg)
		start := time.Now()
		a.trace.Debug(otel.KindMsgReceived, "ui", name)
		defer func() {
			a.trace.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindMsgHandled, Comp: "ui", Msg: name,
				Dur: time.Since(start)})
		}()
	}

	switch msg := msg.(type) {
	case FrameMsg:
		a.layout.Tick(msg.Time)
		if a.sched.Idle() {
			a.ticking = false
			return a, nil
		}
		return a, frameCmd(a.interval)

	case tea.KeyMsg:
		return a, a.handleKeyMsg(msg)

	case tea.MouseMsg:
		return a, a.handleMouseMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		first := !a.ready
		a.ready = true
		a.help.Width = msg.Width
		a.resize()
		if first {
			a.expand()
		}
		return a, a.wake()
	}
	return a, nil
}

// wake schedules a frame unless one is already pending.
func (a *App) wake() tea.Cmd {
	if a.ticking {
		return nil
	}
	a.ticking = true
	return frameCmd(a.interval)
}

// handleKeyMsg processes keyboard input.
func (a *App) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	a.err = nil

	switch {
	case key.Matches(msg, a.keys.Quit):
		return tea.Quit

	case key.Matches(msg, a.keys.Debug):
		a.showDebug = !a.showDebug
		return nil

	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
		a.resize()

	case key.Matches(msg, a.keys.Add):
		id, err := a.feed.AddRow()
		if err != nil {
			a.err = err
			break
		}
		a.layout.RunAfterAnimation(func() {
			a.status = "added " + a.feed.Title(id)
		})

	case key.Matches(msg, a.keys.Remove):
		if it := a.feed.FirstRow(); it != nil {
			a.err = a.feed.Remove(it.ID)
		}

	case key.Matches(msg, a.keys.DismissAll):
		if err := a.layout.DismissAll(); err != nil {
			a.err = err
		}

	case key.Matches(msg, a.keys.HeadsUp):
		if it := a.feed.FirstRow(); it != nil {
			a.layout.SetHeadsUp(it.ID, !it.HeadsUp)
		}

	case key.Matches(msg, a.keys.Expand):
		if a.expanded {
			a.collapse()
		} else {
			a.expand()
		}

	case key.Matches(msg, a.keys.Dark):
		a.layout.SetDark(!a.layout.Ambient().DarkTarget, true, nil)

	case key.Matches(msg, a.keys.Keyguard):
		a.layout.SetKeyguard(!a.layout.OnKeyguard())

	case key.Matches(msg, a.keys.Dim):
		a.layout.SetDimmed(!a.layout.Ambient().Dimmed, true)

	case key.Matches(msg, a.keys.ScrollUp):
		a.layout.ScrollWheel(-scrollStep)

	case key.Matches(msg, a.keys.ScrollDown):
		a.layout.ScrollWheel(scrollStep)

	case key.Matches(msg, a.keys.Top):
		a.layout.ResetScrollPosition()
	}
	return a.wake()
}

// handleMouseMsg turns terminal mouse input into pointer events. Motion is
// only reported while a button is held.
func (a *App) handleMouseMsg(msg tea.MouseMsg) tea.Cmd {
	x := float64(msg.X) * colPx
	y := float64(msg.Y-headerLines) * rowPx

	var action gesture.Action
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		a.layout.ScrollWheel(-scrollStep)
		return a.wake()
	case msg.Button == tea.MouseButtonWheelDown:
		a.layout.ScrollWheel(scrollStep)
		return a.wake()
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		action = gesture.Down
		a.pressed = true
	case msg.Action == tea.MouseActionMotion && a.pressed:
		action = gesture.Move
	case msg.Action == tea.MouseActionRelease && a.pressed:
		action = gesture.Up
		a.pressed = false
	default:
		return nil
	}

	ev := gesture.Event{Action: action, PointerID: mousePointer, X: x, Y: y, Time: a.now()}
	if err := a.layout.Dispatch(ev); err != nil {
		if !errors.Is(err, gesture.ErrUnknownPointer) {
			a.err = err
		}
		logging.Debug("pointer event dropped", "err", err)
	}
	return a.wake()
}

func (a *App) bodyHeight() int {
	return max(1, a.height-headerLines-statusLines-lipgloss.Height(a.help.View(a.keys)))
}

// resize hands the terminal size to the layout.
func (a *App) resize() {
	h := float64(a.bodyHeight()) * rowPx
	a.layout.SetViewport(float64(a.width)*colPx, h, 0)
	if a.expanded {
		a.layout.SetExpandedHeight(h)
	}
}

func (a *App) expand() {
	a.layout.OnExpansionStarted()
	a.expanded = true
	a.layout.SetIsExpanded(true)
	a.layout.SetExpandedHeight(float64(a.bodyHeight()) * rowPx)
	a.layout.OnExpansionStopped()
}

func (a *App) collapse() {
	a.layout.OnExpansionStarted()
	a.expanded = false
	a.layout.SetIsExpanded(false)
	a.layout.OnExpansionStopped()
}

// AnimateCollapse closes the panel once a clear-all finished.
func (a *App) AnimateCollapse() {
	a.collapse()
	a.status = "panel collapsed"
}

// EmptySpaceClicked reports taps below the last item.
func (a *App) EmptySpaceClicked(x, y float64) {
	a.status = fmt.Sprintf("empty space at %.0f,%.0f", x, y)
}

// DismissAllComplete reports the end of a clear-all.
func (a *App) DismissAllComplete(removed int) {
	a.status = fmt.Sprintf("cleared %d", removed)
}

// View renders the UI.
func (a *App) View() string {
	if !a.ready {
		return "Loading..."
	}
	if a.showDebug {
		return debugOverlay(a.ring, a.width, a.height-statusLines) + "\n" + debugStatusBar(a.width)
	}

	var body string
	if a.expanded {
		body = RenderStack(a.layout, a.feed.Title, a.width, a.bodyHeight())
	} else {
		hidden := HelpStyle.Render(fmt.Sprintf("%d items hidden. Press e to expand.", a.layout.Table().NotGoneCount()))
		body = lipgloss.NewStyle().Height(a.bodyHeight()).Render(hidden)
	}

	parts := []string{a.header(), body, a.statusBar(), a.help.View(a.keys)}
	return strings.Join(parts, "\n")
}

func (a *App) header() string {
	info := fmt.Sprintf("%d items  scroll %.0f/%.0f", a.layout.Table().NotGoneCount(),
		a.layout.Scroll().OwnScrollY(), a.layout.Scroll().Range())
	return HeaderStyle.Render("stackview") + HeaderInfo.Render(info)
}

func (a *App) statusBar() string {
	amb := a.layout.Ambient()
	var flags []string
	for _, f := range []struct {
		name string
		on   bool
	}{
		{"expanded", a.expanded},
		{"dark", amb.DarkTarget},
		{"locked", amb.Keyguard},
		{"dimmed", amb.Dimmed},
		{"animating", a.layout.AnimationRunning()},
	} {
		if f.on {
			flags = append(flags, StatusBarOK.Render(f.name))
		} else {
			flags = append(flags, StatusBarText.Render(f.name))
		}
	}
	line := strings.Join(flags, " ")
	if a.err != nil {
		line += "  " + ErrorStyle.Render("Error: "+a.err.Error())
	} else if a.status != "" {
		line += "  " + StatusBarKey.Render(a.status)
	}
	return StatusBar.Width(a.width).Render(line)
}

// Layout returns the layout (for testing).
func (a *App) Layout() *engine.Layout {
	return a.layout
}
