package tui

import (
	"errors"
	"fmt"
	"math"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mafilu-cli/mafilu/input"
	"github.com/mafilu-cli/mafilu/overlay"
	"github.com/mafilu-cli/mafilu/playback"
	"github.com/mafilu-cli/mafilu/quality"
	"github.com/mafilu-cli/mafilu/stream"
	"github.com/mafilu-cli/mafilu/util"
)

type (
	streamEventMsg struct {
		generation int
		event      stream.Event
	}
	streamClosedMsg struct {
		generation int
	}
	saveTickMsg     struct{}
	hideControlsMsg struct {
		token uint64
	}
)

func (b *statefulBubble) waitForStreamEvent() tea.Cmd {
	if b.session == nil {
		return nil
	}

	events, generation := b.session.Events(), b.generation
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return streamClosedMsg{generation: generation}
		}
		return streamEventMsg{generation: generation, event: event}
	}
}

func (b *statefulBubble) waitForTimer() tea.Cmd {
	return func() tea.Msg {
		return <-b.timerChannel
	}
}

// handleStreamEvent applies one session event. The returned command, if
// any, expires the resume notice.
func (b *statefulBubble) handleStreamEvent(event stream.Event) tea.Cmd {
	var cmd tea.Cmd

	b.machine.Apply(event)

	switch event.Kind {
	case stream.LevelsDiscovered:
		b.quality.Discover(event.Levels)
	case stream.LevelSwitched:
		b.quality.Observe(event.Level)
	case stream.MetadataReady:
		cmd = b.onMetadata()
	case stream.Paused:
		_ = b.savePosition("pause")
	case stream.Faulted:
		if event.Fault != nil {
			b.logger.WithError(event.Fault.Err).Warnf("playback %s", event.Fault.Kind)
		}
	case stream.Recovered:
		b.logger.Info("playback recovered")
	}

	b.syncTimers()
	return cmd
}

// onMetadata runs once per session: it restores the saved position and
// starts playback.
func (b *statefulBubble) onMetadata() tea.Cmd {
	if b.resumeChecked {
		return nil
	}
	b.resumeChecked = true

	if b.muted {
		b.report(b.machine.SetMuted(true))
	}
	if b.rate != 1 {
		b.report(b.machine.SetRate(b.rate))
	}

	var cmd tea.Cmd
	if b.options.Resume != nil && b.options.VideoID != "" {
		if record, ok := b.options.Resume.Load(b.options.VideoID).Get(); ok {
			target, err := b.machine.Seek(record.Time)
			if err == nil {
				b.logger.Infof("resuming at %s", util.FormatTime(target))
				cmd = b.notifier.Notify("Resuming from "+util.FormatTime(target), noticeTTL)
			} else {
				b.report(err)
			}
		}
	}

	if b.options.Autoplay {
		b.report(b.machine.Play())
	} else {
		b.report(b.machine.Pause())
	}
	return cmd
}

// report logs a failed command. ErrNotReady is expected while loading.
func (b *statefulBubble) report(err error) {
	if err == nil || errors.Is(err, playback.ErrNotReady) {
		return
	}
	b.logger.WithError(err).Warn("player command failed")
	b.lastError = err
}

// execute runs a dispatched command.
func (b *statefulBubble) execute(command input.Command) tea.Cmd {
	m := b.machine

	switch command {
	case input.Quit:
		return tea.Quit
	case input.ToggleHelp:
		b.helpC.ShowAll = !b.helpC.ShowAll
	case input.Retry:
		if b.state() == fatalState {
			return b.retry()
		}
	case input.JumpPrompt:
		if b.state() == playingState || b.state() == pausedState {
			b.dispatcher.SetTextFocus(true)
			b.inputC.Reset()
			return b.inputC.Focus()
		}
	}

	if b.session == nil {
		return nil
	}

	switch command {
	case input.TogglePlay:
		b.report(m.Toggle())
	case input.SeekBack:
		_, err := m.SeekBy(-input.SeekStep)
		b.report(err)
	case input.SeekForward:
		_, err := m.SeekBy(input.SeekStep)
		b.report(err)
	case input.VolumeUp:
		b.changeVolume(input.VolumeStep)
	case input.VolumeDown:
		b.changeVolume(-input.VolumeStep)
	case input.ToggleMute:
		b.report(m.ToggleMute())
		b.muted = m.Muted()
	case input.ToggleFullscreen:
		if b.fullscreen == nil {
			b.lastError = errors.New("the media engine has no fullscreen mode")
			return nil
		}
		b.report(b.fullscreen.ToggleFullscreen())
	case input.SpeedUp:
		b.setRate(input.NextSpeed(m.Rate(), 1))
	case input.SpeedDown:
		b.setRate(input.NextSpeed(m.Rate(), -1))
	case input.OpenSettings:
		b.overlay.ToggleSettings()
	case input.OpenQuality:
		b.overlay.ToggleQuality()
		b.pointAtQuality()
	case input.MenuUp:
		b.overlay.Move(-1, len(b.menuItems()))
	case input.MenuDown:
		b.overlay.Move(1, len(b.menuItems()))
	case input.MenuSelect:
		b.selectMenuItem()
	case input.MenuBack:
		b.overlay.Back()
	}

	b.dispatcher.SetMenuOpen(b.overlay.IsOpen())
	b.keymap.menuOpen = b.overlay.IsOpen()
	return nil
}

// changeVolume steps the volume. A keyboard change to a nonzero volume unmutes.
func (b *statefulBubble) changeVolume(delta float64) {
	volume := math.Round(util.Clamp(b.machine.Volume()+delta, 0, 1)*100) / 100
	b.setVolume(volume, false)
}

// setVolume applies volume. From the pointer, zero mutes.
func (b *statefulBubble) setVolume(volume float64, muteAtZero bool) {
	b.report(b.machine.SetVolume(volume))

	switch {
	case volume > 0 && b.machine.Muted():
		b.report(b.machine.SetMuted(false))
	case volume == 0 && muteAtZero:
		b.report(b.machine.SetMuted(true))
	}
	b.muted = b.machine.Muted()
}

func (b *statefulBubble) setRate(rate float64) {
	b.report(b.machine.SetRate(rate))
	b.rate = b.machine.Rate()
}

func (b *statefulBubble) pointAtQuality() {
	for i, option := range b.quality.Options() {
		if option.Index == b.quality.Active() {
			b.overlay.Point(i)
		}
	}
}

func (b *statefulBubble) selectMenuItem() {
	o := b.overlay
	cursor := o.Cursor()

	switch {
	case o.Panel() == overlay.SettingsPanel && o.Menu() == overlay.Root:
		if !o.Enter() {
			return
		}
		switch o.Menu() {
		case overlay.Speed:
			for i, rate := range input.SpeedLadder {
				if rate == b.machine.Rate() {
					o.Point(i)
				}
			}
		case overlay.Quality:
			b.pointAtQuality()
		}
	case o.Menu() == overlay.Speed:
		if cursor < len(input.SpeedLadder) {
			b.setRate(input.SpeedLadder[cursor])
		}
		o.Chosen()
	case o.Menu() == overlay.Quality || o.Panel() == overlay.QualityPanel:
		options := b.quality.Options()
		if cursor < len(options) {
			b.selectQuality(options[cursor])
		}
		o.Chosen()
	}
}

func (b *statefulBubble) selectQuality(option quality.Option) {
	if err := b.quality.Select(option.Index); err != nil {
		b.lastError = fmt.Errorf("select %s: %w", option.Label, err)
		b.logger.WithError(err).Warn("quality selection failed")
		return
	}
	b.logger.Infof("quality set to %s", b.quality.ActiveLabel())
}

// jump seeks to the time typed into the prompt.
func (b *statefulBubble) jump() {
	defer b.closePrompt()

	target, err := util.ParseTime(b.inputC.Value())
	if err != nil {
		b.lastError = err
		return
	}
	_, err = b.machine.Seek(target)
	b.report(err)
}

func (b *statefulBubble) closePrompt() {
	b.inputC.Blur()
	b.inputC.Reset()
	b.dispatcher.SetTextFocus(false)
}
