// Package styles provides shared lipgloss styles for terminal output.
//
// Colors are defined once here so the printer, the summary table and the
// progress spinner agree on what success, failure and notices look like.
package styles

import "charm.land/lipgloss/v2"

// Palette
var (
	// Primary is the main accent color (cyan/teal)
	Primary = lipgloss.Color("62")

	// Success is used for positive outcomes (green)
	Success = lipgloss.Color("82")

	// Error is used for failures (red)
	Error = lipgloss.Color("196")

	// Warning is used for notices that do not stop a run (orange)
	Warning = lipgloss.Color("214")

	// Muted is used for secondary text (gray)
	Muted = lipgloss.Color("240")

	// Info is used for informational headers (gray)
	Info = lipgloss.Color("244")
)

// Common styles
var (
	Bold = lipgloss.NewStyle().Bold(true)

	PrimaryStyle = lipgloss.NewStyle().Foreground(Primary)

	SuccessStyle = lipgloss.NewStyle().Foreground(Success)

	ErrorStyle = lipgloss.NewStyle().Foreground(Error)

	WarningStyle = lipgloss.NewStyle().Foreground(Warning)

	MutedStyle = lipgloss.NewStyle().Foreground(Muted)

	// InfoStyle applies the info color with italic
	InfoStyle = lipgloss.NewStyle().
			Foreground(Info).
			Italic(true)
)
