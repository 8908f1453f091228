// Package view renders the blog state for a terminal.
package view

import "github.com/charmbracelet/lipgloss"

const (
	cardWidth     = 56
	skeletonCards = 2
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F5F5F5")).
			Background(lipgloss.Color("#3B4252")).
			Padding(0, 1)

	taglineStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#8A8F98"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5E81AC")).
			Padding(0, 1).
			Width(cardWidth)

	skeletonStyle = cardStyle.
			BorderForeground(lipgloss.Color("#4C566A")).
			Foreground(lipgloss.Color("#4C566A"))

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#88C0D0"))
	metaStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8A8F98"))
	hintStyle  = lipgloss.NewStyle().Faint(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#BF616A"))
	labelStyle = lipgloss.NewStyle().Bold(true).Width(14)
)
