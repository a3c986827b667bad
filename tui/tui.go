// Package tui provides the terminal control surface of the player.
package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/mafilu-cli/mafilu/player"
	"github.com/mafilu-cli/mafilu/resume"
	"github.com/mafilu-cli/mafilu/stream"
)

// Options encapsulates what the control surface plays and how.
type Options struct {
	URL          string
	VideoID      string
	Title        string
	Description  string
	Poster       string
	DurationHint float64

	Autoplay bool
	// Volume is the initial volume in [0, 1].
	Volume float64

	// NewElement starts a media engine at the given volume. It is called
	// again for every retry.
	NewElement func(volume float64) (player.Element, error)
	Stream     stream.Options
	// Resume is nil when positions are not remembered.
	Resume *resume.Store
	Clock  clockwork.Clock
}

// Run plays options.URL until the user quits or ctx is done. The session is
// always torn down before Run returns.
func Run(ctx context.Context, options *Options) error {
	bubble, err := newBubble(options)
	if err != nil {
		return err
	}

	_, err = tea.NewProgram(
		bubble,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		err = nil
	}

	return errors.Join(err, bubble.teardown())
}
