package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mafilu-cli/mafilu/input"
	"github.com/mafilu-cli/mafilu/internal/ui"
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	b.keymap.state = b.state()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case ui.ClearNoticeMsg:
		b.notifier.Update(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		b.spinnerC, cmd = b.spinnerC.Update(msg)
		return b, cmd
	case streamEventMsg:
		if msg.generation != b.generation {
			return b, nil
		}
		return b, tea.Batch(b.handleStreamEvent(msg.event), b.waitForStreamEvent())
	case streamClosedMsg:
		return b, nil
	case saveTickMsg:
		_ = b.savePosition("periodic")
		return b, b.waitForTimer()
	case hideControlsMsg:
		if b.machine != nil && b.machine.IsPlaying() && b.controls.Hide(msg.token) {
			b.overlay.Close()
			b.dispatcher.SetMenuOpen(false)
			b.keymap.menuOpen = false
		}
		return b, b.waitForTimer()
	case tea.MouseMsg:
		return b, b.updateMouse(msg)
	case tea.KeyMsg:
		cmd := b.updateKey(msg)
		if b.machine != nil {
			b.syncTimers()
		}
		return b, cmd
	}

	return b, nil
}

func (b *statefulBubble) updateKey(msg tea.KeyMsg) tea.Cmd {
	b.lastError = nil

	if b.dispatcher.TextFocus() {
		switch {
		case key.Matches(msg, b.keymap.confirm):
			b.jump()
			return nil
		case key.Matches(msg, b.keymap.cancel):
			b.closePrompt()
			return nil
		}
	}

	if command := b.dispatcher.Dispatch(msg); command != input.None {
		return b.execute(command)
	}

	if b.dispatcher.TextFocus() {
		var cmd tea.Cmd
		b.inputC, cmd = b.inputC.Update(msg)
		return cmd
	}
	return nil
}

func (b *statefulBubble) updateMouse(msg tea.MouseMsg) tea.Cmd {
	b.activity()

	if b.session == nil || !b.controls.Visible() {
		return nil
	}

	pressed := msg.Button == tea.MouseButtonLeft &&
		(msg.Action == tea.MouseActionPress || msg.Action == tea.MouseActionMotion)
	if !pressed {
		return nil
	}

	l := b.layout()
	switch {
	case msg.Y == l.progressRow && l.progress.Contains(msg.X) && msg.Action == tea.MouseActionPress:
		_, err := b.machine.Seek(l.progress.SeekTarget(msg.X, b.machine.Duration()))
		b.report(err)
	case msg.Y == l.controlsRow && l.volume.Contains(msg.X):
		volume, _ := l.volume.VolumeAt(msg.X)
		b.setVolume(volume, true)
	case msg.Y < l.progressRow && msg.Action == tea.MouseActionPress:
		// The body stands in for the video surface.
		if b.overlay.IsOpen() || b.dispatcher.TextFocus() {
			return nil
		}
		cmd := b.execute(input.TogglePlay)
		b.syncTimers()
		return cmd
	}
	return nil
}
