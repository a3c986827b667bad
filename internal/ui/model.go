// Package ui provides transient notices drawn over the player controls.
package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/mafilu-cli/mafilu/style"
)

// Model holds at most one notice.
type Model struct {
	clock      clockwork.Clock
	notice     string
	notifiedAt time.Time
	id         uint64
}

// ClearNoticeMsg expires the notice it was issued for.
type ClearNoticeMsg struct {
	id uint64
}

func New(clock clockwork.Clock) *Model {
	return &Model{clock: clock}
}

// Notify shows text for ttl, replacing any current notice. The returned
// command delivers the ClearNoticeMsg.
func (m *Model) Notify(text string, ttl time.Duration) tea.Cmd {
	m.id++
	m.notice = text
	m.notifiedAt = m.clock.Now()

	id, clock := m.id, m.clock
	return func() tea.Msg {
		<-clock.After(ttl)
		return ClearNoticeMsg{id: id}
	}
}

// Update clears the notice on its own ClearNoticeMsg. Messages issued for
// replaced notices are ignored.
func (m *Model) Update(msg tea.Msg) {
	if msg, ok := msg.(ClearNoticeMsg); ok && msg.id == m.id {
		m.notice = ""
	}
}

func (m *Model) Notice() string {
	return m.notice
}

// Age is how long the current notice has been shown.
func (m *Model) Age() time.Duration {
	if m.notice == "" {
		return 0
	}
	return m.clock.Since(m.notifiedAt)
}

// View appends the notice to the last line of content.
func (m *Model) View(content string) string {
	if m.notice == "" {
		return content
	}

	lines := strings.Split(content, "\n")
	lines[len(lines)-1] += "  " + style.Toast().Render(m.notice)
	return strings.Join(lines, "\n")
}
