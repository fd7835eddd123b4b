package tui

import "github.com/charmbracelet/lipgloss"

// Style variables for the dashboard.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	versionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	elapsedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))

	jobNameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))

	weightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	statusRunningStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("10")).
				Bold(true)

	statusDoneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true)

	statusErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("9")).
				Bold(true)

	footerKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true)

	footerDescStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)
