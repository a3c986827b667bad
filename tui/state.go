package tui

import "github.com/mafilu-cli/mafilu/playback"

// state is what the surface shows, derived from the playback state.
type state int

const (
	loadingState state = iota
	playingState
	pausedState
	promptState
	errorState
	fatalState
)

func (b *statefulBubble) state() state {
	if b.session == nil {
		return fatalState
	}
	if b.dispatcher.TextFocus() {
		return promptState
	}

	switch b.machine.State() {
	case playback.Idle, playback.Loading:
		return loadingState
	case playback.Error:
		return errorState
	case playback.Fatal:
		return fatalState
	}

	if b.machine.IsPlaying() {
		return playingState
	}
	return pausedState
}
