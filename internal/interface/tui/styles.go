package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title     lipgloss.Style
	statusBar lipgloss.Style
	active    lipgloss.Style
	dimmed    lipgloss.Style
	errText   lipgloss.Style
	barLabel  lipgloss.Style
	helpKey   lipgloss.Style
	helpDesc  lipgloss.Style
}

func newStyles(theme string) styles {
	var (
		accent  = lipgloss.Color("205")
		subtle  = lipgloss.Color("241")
		text    = lipgloss.Color("252")
		errCol  = lipgloss.Color("196")
		running = lipgloss.Color("42")
	)
	if theme == "light" {
		accent = lipgloss.Color("162")
		subtle = lipgloss.Color("245")
		text = lipgloss.Color("235")
		running = lipgloss.Color("28")
	}

	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Padding(0, 1),
		statusBar: lipgloss.NewStyle().
			Foreground(subtle).
			Padding(0, 1),
		active: lipgloss.NewStyle().
			Foreground(running).
			Bold(true),
		dimmed: lipgloss.NewStyle().
			Foreground(subtle),
		errText: lipgloss.NewStyle().
			Foreground(errCol),
		barLabel: lipgloss.NewStyle().
			Foreground(text),
		helpKey: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),
		helpDesc: lipgloss.NewStyle().
			Foreground(subtle),
	}
}
