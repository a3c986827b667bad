package tui

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jonboulle/clockwork"
	"github.com/mafilu-cli/mafilu/input"
	"github.com/mafilu-cli/mafilu/internal/ui"
	"github.com/mafilu-cli/mafilu/log"
	"github.com/mafilu-cli/mafilu/metrics"
	"github.com/mafilu-cli/mafilu/overlay"
	"github.com/mafilu-cli/mafilu/playback"
	"github.com/mafilu-cli/mafilu/player"
	"github.com/mafilu-cli/mafilu/quality"
	"github.com/mafilu-cli/mafilu/schedule"
	"github.com/mafilu-cli/mafilu/stream"
	"github.com/mafilu-cli/mafilu/style"
	"github.com/sirupsen/logrus"
)

const (
	saveInterval = 5 * time.Second
	hideDelay    = 3 * time.Second
	noticeTTL    = 3 * time.Second
)

// statefulBubble is the control surface of one playback, across retries.
type statefulBubble struct {
	options *Options
	clock   clockwork.Clock

	keymap     *statefulKeymap
	dispatcher *input.Dispatcher

	// components
	spinnerC  spinner.Model
	inputC    textinput.Model
	volumeC   progress.Model
	helpC     help.Model
	notifier  *ui.Model
	overlay   *overlay.Overlay
	controls  *overlay.Visibility
	lastError error

	// per session
	generation    int
	session       *stream.Session
	machine       *playback.Machine
	quality       *quality.Controller
	fullscreen    player.Fullscreen
	logger        *logrus.Entry
	resumeChecked bool

	// carried into the next session on retry
	muted bool
	rate  float64

	saveTask, hideTask *schedule.Task
	timerChannel       chan tea.Msg

	width, height int

	teardownOnce sync.Once
	teardownErr  error
}

// newBubble builds the surface and opens the first session.
func newBubble(options *Options) (*statefulBubble, error) {
	if options.NewElement == nil {
		return nil, errors.New("no media engine configured")
	}

	clock := options.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	bubble := &statefulBubble{
		options:      options,
		clock:        clock,
		keymap:       newStatefulKeymap(),
		notifier:     ui.New(clock),
		overlay:      overlay.New(),
		controls:     overlay.NewVisibility(),
		rate:         1,
		timerChannel: make(chan tea.Msg, 8),
		width:        80,
		height:       24,
	}
	bubble.dispatcher = input.NewDispatcher(bubble.keymap.KeyMap)

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(style.AccentColor)

	bubble.inputC = textinput.New()
	bubble.inputC.Placeholder = "1:23:45"
	bubble.inputC.CharLimit = 12
	bubble.inputC.Prompt = "Jump to: "

	bubble.volumeC = progress.New(
		progress.WithSolidFill(string(style.AccentColor)),
		progress.WithoutPercentage(),
		progress.WithWidth(volumeWidth),
	)

	bubble.resize(bubble.width, bubble.height)

	if err := bubble.openSession(); err != nil {
		return nil, err
	}
	return bubble, nil
}

// openSession starts an engine and a stream session for options.URL,
// replacing the per-session state.
func (b *statefulBubble) openSession() error {
	volume := b.options.Volume
	if b.machine != nil {
		volume = b.machine.Volume()
	}

	element, err := b.options.NewElement(volume)
	if err != nil {
		return fmt.Errorf("start media engine: %w", err)
	}

	session, err := stream.Open(b.options.URL, element, b.options.Stream)
	if err != nil {
		_ = element.Close()
		return err
	}

	b.generation++
	b.session = session
	b.logger = log.With(log.Fields{"session": session.ID(), "video": b.options.VideoID})
	b.fullscreen, _ = element.(player.Fullscreen)
	b.machine = playback.New(session, b.options.DurationHint)
	b.machine.Preset(volume)
	b.machine.Open()
	b.quality = quality.New(session)
	b.resumeChecked = false
	b.lastError = nil
	b.overlay.Close()
	b.dispatcher.SetMenuOpen(false)
	b.controls.Show()

	return nil
}

// retry replaces a failed session with a fresh one.
func (b *statefulBubble) retry() tea.Cmd {
	if err := b.release("retry"); err != nil {
		b.logger.WithError(err).Warn("releasing the failed session")
	}
	b.session = nil

	if err := b.openSession(); err != nil {
		b.lastError = err
		log.Error(err)
		return nil
	}
	return tea.Batch(b.waitForStreamEvent(), b.spinnerC.Tick)
}

// release cancels the timers, closes the session and saves the position, in
// that order. Every step runs even if an earlier one fails or panics.
func (b *statefulBubble) release(trigger string) error {
	var errs []error

	step := func(name string, f func() error) {
		defer func() {
			if r := recover(); r != nil {
				errs = append(errs, fmt.Errorf("%s: panic: %v", name, r))
			}
		}()
		if err := f(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	step("cancel timers", func() error {
		b.stopTimers()
		return nil
	})
	step("close session", func() error {
		if b.session == nil {
			return nil
		}
		return b.session.Close()
	})
	step("save position", func() error {
		return b.savePosition(trigger)
	})

	return errors.Join(errs...)
}

// teardown releases the session once. Later calls return the first result.
func (b *statefulBubble) teardown() error {
	b.teardownOnce.Do(func() {
		b.teardownErr = b.release("teardown")
		if b.teardownErr != nil {
			log.Error(b.teardownErr)
		}
	})
	return b.teardownErr
}

func (b *statefulBubble) savePosition(trigger string) error {
	if b.options.Resume == nil || b.options.VideoID == "" || b.machine == nil {
		return nil
	}

	wrote, err := b.options.Resume.Save(b.options.VideoID, b.machine.CurrentTime(), b.machine.Duration())
	result := "skipped"
	switch {
	case err != nil:
		result = "error"
		b.logger.WithError(err).Warnf("saving position (%s)", trigger)
	case wrote:
		result = "ok"
	}
	metrics.ResumeWrites.WithLabelValues(trigger, result).Inc()
	return err
}

// send delivers a timer message without blocking the timer.
func (b *statefulBubble) send(msg tea.Msg) {
	select {
	case b.timerChannel <- msg:
	default:
	}
}

// syncTimers runs the save task while playing. When not playing the
// controls stay visible.
func (b *statefulBubble) syncTimers() {
	playing := b.machine.IsPlaying()

	switch {
	case playing && b.saveTask == nil:
		b.saveTask = schedule.Every(b.clock, saveInterval, func() { b.send(saveTickMsg{}) })
	case !playing && b.saveTask != nil:
		b.saveTask.Cancel()
		b.saveTask = nil
	}

	if !playing {
		b.hideTask.Cancel()
		b.hideTask = nil
		b.controls.Show()
	}
}

// activity shows the controls and, while playing, hides them again after hideDelay.
func (b *statefulBubble) activity() {
	token := b.controls.Show()
	b.hideTask.Cancel()
	b.hideTask = nil

	if b.machine != nil && b.machine.IsPlaying() {
		b.hideTask = schedule.After(b.clock, hideDelay, func() { b.send(hideControlsMsg{token: token}) })
	}
}

func (b *statefulBubble) stopTimers() {
	b.saveTask.Cancel()
	b.hideTask.Cancel()
	b.saveTask, b.hideTask = nil, nil
}

func (b *statefulBubble) resize(width, height int) {
	b.width, b.height = width, height
	x, _ := paddingStyle.GetFrameSize()
	b.helpC.Width = width - x
	b.inputC.Width = min(20, max(width-x-lipgloss.Width(b.inputC.Prompt), 1))
}
