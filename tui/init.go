package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Init starts listening to the session and the timers.
func (b *statefulBubble) Init() tea.Cmd {
	return tea.Batch(b.spinnerC.Tick, b.waitForStreamEvent(), b.waitForTimer())
}
