package main

import "github.com/charmbracelet/lipgloss"

var (
	styleHeaderKey   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	styleHeaderValue = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	styleFooterKey   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	styleFooter      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleSearchPrompt = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	styleOkay        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	styleFail        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
	styleBorder      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// stopStyle picks okay/fail coloring for a stop code label, the same
// red/green split app.go uses for PAUSED vs normal footer state.
func stopStyle(label string) lipgloss.Style {
	if label == "OKAY" {
		return styleOkay
	}
	return styleFail
}
