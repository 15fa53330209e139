package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorSuccess   = lipgloss.Color("78")  // Green
	colorWarn      = lipgloss.Color("214") // Amber
)

// PaneTitle style for chart and table headings.
var PaneTitle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight).
	Padding(0, 1)

// PaneTitleFocused marks the pane that owns the cursor.
var PaneTitleFocused = PaneTitle.
	Background(colorPrimary).
	Foreground(lipgloss.Color("255"))

// BarLabel style for chart bar labels.
var BarLabel = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255"))

// BarLabelActive style for the bar whose facet is selected.
var BarLabelActive = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)

// BarFill style for the bar body.
var BarFill = lipgloss.NewStyle().
	Foreground(colorPrimary)

// BarFillActive style for the selected facet's bar body.
var BarFillActive = lipgloss.NewStyle().
	Foreground(colorHighlight)

// BarCursor marks the bar under the chart cursor.
var BarCursor = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary)

// SelectedRow style for the table row under the cursor.
var SelectedRow = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// NormalRow style for other table rows.
var NormalRow = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Padding(0, 1)

// DetailBlock style for the expanded accordion body.
var DetailBlock = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Padding(0, 3)

// ClaimBadge style for claim markers on rows.
var ClaimBadge = lipgloss.NewStyle().
	Foreground(colorSuccess).
	Bold(true)

// LeadBadge style for the lead marker.
var LeadBadge = lipgloss.NewStyle().
	Foreground(colorWarn).
	Bold(true)

// ChipStyle for active filter chips in the header.
var ChipStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(colorMuted).
	Padding(0, 1).
	MarginRight(1)

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

// ErrorStyle for displaying errors.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("196")).
	Bold(true).
	Padding(0, 1)

// HelpStyle for help and empty-state text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(colorMuted).
	Padding(1, 2)
