package cmd

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rustyeddy/fxdash/safety"
	"github.com/rustyeddy/fxdash/signal"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	greenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	orangeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true)
	redStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 1)
)

func colorStyle(color string) lipgloss.Style {
	switch color {
	case "green":
		return greenStyle
	case "orange":
		return orangeStyle
	case "red":
		return redStyle
	}
	return mutedStyle
}

func safetyText(score int, text string) string {
	return colorStyle(safety.RiskLevel(score).Color()).Render(text)
}

func actionText(a signal.Action) string {
	switch a {
	case signal.Buy:
		return greenStyle.Render(string(a))
	case signal.Sell:
		return redStyle.Render(string(a))
	}
	return mutedStyle.Render(string(a))
}

func scoreText(score float64, text string) string {
	switch {
	case score > 0.1:
		return greenStyle.Render(text)
	case score < -0.1:
		return redStyle.Render(text)
	}
	return mutedStyle.Render(text)
}
