package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

var (
	accent  = lipgloss.Color("#7aa2f7")
	muted   = lipgloss.Color("#565f89")
	danger  = lipgloss.Color("#f7768e")
	warning = lipgloss.Color("#e0af68")
	success = lipgloss.Color("#9ece6a")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	subtleStyle   = lipgloss.NewStyle().Foreground(muted)
	errorStyle    = lipgloss.NewStyle().Foreground(danger)
	warningStyle  = lipgloss.NewStyle().Foreground(warning)
	successStyle  = lipgloss.NewStyle().Foreground(success)
	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(danger).Padding(1, 2)
	helpStyle     = lipgloss.NewStyle().Foreground(muted).MarginTop(1)
)

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Refresh key.Binding
	Wipe    key.Binding
	Yes     key.Binding
	No      key.Binding
	Toggle  key.Binding
	Confirm key.Binding
	Cancel  key.Binding
	Back    key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Refresh: key.NewBinding(key.WithKeys("r", "f5"), key.WithHelp("r", "refresh")),
		Wipe:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "wipe")),
		Yes:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		No:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "no")),
		Toggle:  key.NewBinding(key.WithKeys("left", "right", "h", "l", "tab")),
		Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Cancel:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cancel wipe")),
		Back:    key.NewBinding(key.WithKeys("esc", "enter"), key.WithHelp("enter", "back")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}
