// Package style provides a functional API for composing and applying lipgloss-based TUI styles.
package style

import "github.com/charmbracelet/lipgloss"

// Surface colors of the player overlay.
var (
	Base    = lipgloss.Color("#0b0b0f")
	Text    = lipgloss.Color("#e4e4e7")
	Subtext = lipgloss.Color("#a1a1aa")
	Overlay = lipgloss.Color("#52525b")
	Surface = lipgloss.Color("#27272a")

	Mauve  = lipgloss.Color("#8B5CF6")
	Violet = lipgloss.Color("#A855F7")
	Red    = lipgloss.Color("#f87171")
	Yellow = lipgloss.Color("#facc15")
	Green  = lipgloss.Color("#4ade80")

	AccentColor  = Mauve
	ErrorColor   = Red
	WarningColor = Yellow
	FaintColor   = Overlay
	BorderColor  = Surface
)
