package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorSuccess   = lipgloss.Color("78")  // Green
)

// RowStyle is a regular item.
var RowStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("238")).
	Padding(0, 1)

// RowTitle is the first line of an item.
var RowTitle = RowStyle.
	Bold(true)

// RowHeadsUp is an item shown as a heads-up.
var RowHeadsUp = RowStyle.
	Background(colorPrimary).
	Bold(true)

// RowDimmed is an item dimmed on the keyguard.
var RowDimmed = RowStyle.
	Foreground(colorSecondary).
	Background(lipgloss.Color("236"))

// RowDark is an item in the dark stack.
var RowDark = lipgloss.NewStyle().
	Foreground(colorMuted).
	Background(lipgloss.Color("232")).
	Padding(0, 1)

// ChildStyle is an item inside an expanded group.
var ChildStyle = RowStyle.
	Background(lipgloss.Color("237")).
	PaddingLeft(3)

// ShelfStyle is the overflow shelf.
var ShelfStyle = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Background(lipgloss.Color("235")).
	Padding(0, 1)

// FooterStyle is the clear-all footer.
var FooterStyle = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true).
	Padding(0, 1)

// SectionHigh and SectionLow fill the section backgrounds.
var (
	SectionHigh = lipgloss.NewStyle().Background(lipgloss.Color("234"))
	SectionLow  = lipgloss.NewStyle().Background(lipgloss.Color("233"))
)

// HeaderStyle is the title line at the top.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight).
	Padding(0, 1)

// HeaderInfo is the counters next to the title.
var HeaderInfo = lipgloss.NewStyle().
	Foreground(colorSecondary)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// StatusBarOK marks a flag that is on.
var StatusBarOK = lipgloss.NewStyle().
	Foreground(colorSuccess).
	Bold(true)

// ErrorStyle for displaying errors.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("196")).
	Bold(true).
	Padding(0, 1)

// HelpStyle for help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(colorMuted).
	Padding(1, 2)

// DebugHeaderStyle titles a debug overlay section.
var DebugHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)

// DebugPanel frames the debug overlay.
var DebugPanel = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(1, 2)
