// Package style provides a functional API for composing and applying lipgloss-based TUI styles.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mafilu-cli/mafilu/color"
)

// New returns an empty lipgloss.Style used as a foundation for visual composition.
func New() lipgloss.Style {
	return lipgloss.NewStyle()
}

// Colored initializes a new style with the specified foreground and background colors.
func Colored(fg, bg lipgloss.Color) lipgloss.Style {
	return New().Foreground(fg).Background(bg)
}

// Fg returns a rendering function that applies the foreground color.
func Fg(c lipgloss.Color) func(string) string {
	return func(s string) string { return Colored(c, "").Render(s) }
}

// Truncate constrains the output to a maximum width.
func Truncate(max int) func(string) string {
	return func(s string) string { return New().MaxWidth(max).Render(s) }
}

var (
	Faint = func(s string) string { return New().Faint(true).Render(s) }
	Bold  = func(s string) string { return New().Bold(true).Render(s) }
)

// Title renders a header badge.
var Title = func(s string) string {
	return Colored(color.New("230"), color.Primary).Padding(0, 1).Render(s)
}

// ErrorTitle renders a header badge in the error color.
var ErrorTitle = func(s string) string {
	return Colored(color.New("230"), ErrorColor).Padding(0, 1).Render(s)
}

// Panel is the bordered box used by the settings and quality menus.
func Panel() lipgloss.Style {
	return New().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderColor).
		Padding(0, 1)
}

// Toast is the rounded notice shown on top of the picture.
func Toast() lipgloss.Style {
	return Colored(Text, Surface).Padding(0, 2)
}
