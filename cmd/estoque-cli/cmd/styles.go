package cmd

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	Increase = lipgloss.Color("#10B981") // Green
	Decrease = lipgloss.Color("#EF4444") // Red
	Muted    = lipgloss.Color("#6B7280") // Gray
	Warning  = lipgloss.Color("#F59E0B") // Amber

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Muted)

	mutedStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	restockStyle = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	increaseStyle = lipgloss.NewStyle().Foreground(Increase)
	decreaseStyle = lipgloss.NewStyle().Foreground(Decrease)
	errorStyle    = lipgloss.NewStyle().Foreground(Decrease).Bold(true)

	cell = lipgloss.NewStyle().PaddingRight(2)
)
