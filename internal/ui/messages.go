// Package ui is the Bubble Tea host of the stack. It turns terminal mouse and
// key input into layout calls, drives the frame clock and draws the items
// where the layout put them.
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// FrameMsg drives one layout frame.
type FrameMsg struct {
	Time time.Time
}

// frameCmd schedules the next frame after interval.
func frameCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return FrameMsg{Time: t}
	})
}
