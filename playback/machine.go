// Package playback derives one playback state from engine and stream events
// and turns user intent into transport commands.
package playback

import (
	"errors"
	"math"

	"github.com/mafilu-cli/mafilu/log"
	"github.com/mafilu-cli/mafilu/metrics"
	"github.com/mafilu-cli/mafilu/stream"
	"github.com/mafilu-cli/mafilu/util"
)

// Transport executes commands on the media pipeline.
type Transport interface {
	Play() error
	Pause() error
	Seek(seconds float64) error
	SetVolume(volume float64) error
	SetMuted(muted bool) error
	SetRate(rate float64) error
}

// ErrNotReady is returned for commands that need loaded media.
var ErrNotReady = errors.New("media is not ready")

// Machine owns the playback state of one session. It is not safe for concurrent use.
type Machine struct {
	transport Transport

	state State
	// resume is where Buffering and Error return to.
	resume        State
	enginePlaying bool

	currentTime float64
	duration    float64
	bufferedEnd float64
	// live sources grow; reaching duration is not the end.
	live bool

	volume float64
	muted  bool
	rate   float64

	fault *stream.Fault
}

// New returns a machine in Idle. durationHint is shown until real metadata arrives.
func New(transport Transport, durationHint float64) *Machine {
	return &Machine{
		transport: transport,
		duration:  math.Max(durationHint, 0),
		volume:    1,
		rate:      1,
	}
}

func (m *Machine) State() State         { return m.state }
func (m *Machine) CurrentTime() float64 { return m.currentTime }
func (m *Machine) Duration() float64    { return m.duration }
func (m *Machine) BufferedEnd() float64 { return m.bufferedEnd }
func (m *Machine) Volume() float64      { return m.volume }
func (m *Machine) Muted() bool          { return m.muted }
func (m *Machine) Rate() float64        { return m.rate }
func (m *Machine) Fault() *stream.Fault { return m.fault }
func (m *Machine) Live() bool           { return m.live }
func (m *Machine) IsLoading() bool      { return m.state == Loading || m.state == Buffering }
func (m *Machine) Interrupted() State   { return m.resume }

// IsPlaying reports the play intent, including while buffering or recovering.
func (m *Machine) IsPlaying() bool {
	switch m.state {
	case Playing:
		return true
	case Buffering, Error:
		return m.resume == Playing
	default:
		return false
	}
}

func (m *Machine) set(state State) {
	if state == m.state {
		return
	}
	log.Debugf("playback: %s -> %s", m.state, state)
	metrics.PlaybackTransitions.WithLabelValues(state.String()).Inc()
	m.state = state
}

// Open marks the start of loading.
func (m *Machine) Open() {
	if m.state == Idle {
		m.set(Loading)
	}
}

// settled is the state to be in once nothing interrupts playback.
func (m *Machine) settled() State {
	if m.enginePlaying {
		return Playing
	}
	return Paused
}

// setIntent applies a play/pause change, keeping suspended states suspended.
func (m *Machine) setIntent(target State) {
	switch m.state {
	case Buffering, Error:
		m.resume = target
	case Loading, Idle, Fatal:
	default:
		m.set(target)
	}
}

// Apply folds a stream event into the state.
func (m *Machine) Apply(event stream.Event) {
	switch event.Kind {
	case stream.MetadataReady:
		m.live = event.Live
		if event.Value > 0 {
			m.duration = event.Value
		}
		switch m.state {
		case Loading, Idle:
			m.set(Ready)
			if m.enginePlaying {
				m.set(Playing)
			}
		case Error:
			if m.resume == Loading {
				m.resume = Ready
			}
		}
	case stream.DurationChange:
		m.live = event.Live
		if event.Value > 0 {
			m.duration = event.Value
		}
	case stream.TimeUpdate:
		m.currentTime = math.Max(event.Value, 0)
		if !m.live && m.duration > 0 && m.currentTime >= m.duration && m.state != Fatal {
			m.end()
		}
	case stream.Progress:
		m.bufferedEnd = math.Max(event.Value, 0)
	case stream.Playing:
		m.enginePlaying = true
		if m.state == Ended {
			m.set(Playing)
			return
		}
		m.setIntent(Playing)
	case stream.Paused:
		m.enginePlaying = false
		m.setIntent(Paused)
	case stream.Waiting:
		if m.state == Playing || m.state == Paused {
			m.resume = m.state
			m.set(Buffering)
		}
	case stream.CanPlay:
		if m.state == Buffering {
			m.set(m.resume)
		}
	case stream.Ended:
		m.end()
	case stream.Faulted:
		m.applyFault(event.Fault)
	case stream.Recovered:
		if m.state == Error {
			m.fault = nil
			m.set(m.resume)
		}
	}
}

func (m *Machine) end() {
	switch m.state {
	case Idle, Loading, Fatal, Ended:
		return
	case Error:
		m.resume = Ended
		return
	}
	m.enginePlaying = false
	m.set(Ended)
}

func (m *Machine) applyFault(fault *stream.Fault) {
	if fault == nil || m.state == Fatal {
		return
	}

	m.fault = fault
	if fault.Kind == stream.Fatal {
		m.set(Fatal)
		return
	}

	switch {
	case m.state == Buffering:
	case m.state.interruptible():
		m.resume = m.state
	}
	m.set(Error)
}

// Play starts playback. It is a no-op while playback is already intended.
func (m *Machine) Play() error {
	if m.state == Idle || m.state == Loading || m.state == Fatal {
		return ErrNotReady
	}
	if m.IsPlaying() {
		return nil
	}

	if m.state == Ended {
		if err := m.transport.Seek(0); err != nil {
			return err
		}
		m.currentTime = 0
	}
	if err := m.transport.Play(); err != nil {
		return err
	}
	m.enginePlaying = true
	if m.state == Ended {
		m.set(Playing)
		return nil
	}
	m.setIntent(Playing)
	return nil
}

// Pause suspends playback. It is a no-op while already paused.
func (m *Machine) Pause() error {
	if m.state == Idle || m.state == Loading || m.state == Fatal {
		return ErrNotReady
	}
	if !m.IsPlaying() {
		return nil
	}

	if err := m.transport.Pause(); err != nil {
		return err
	}
	m.enginePlaying = false
	m.setIntent(Paused)
	return nil
}

func (m *Machine) Toggle() error {
	if m.IsPlaying() {
		return m.Pause()
	}
	return m.Play()
}

// Seek moves to target clamped to [0, duration]. Play intent is unchanged,
// except that leaving Ended pauses.
func (m *Machine) Seek(target float64) (float64, error) {
	if m.state == Idle || m.state == Loading || m.state == Fatal {
		return 0, ErrNotReady
	}

	if math.IsNaN(target) {
		target = 0
	}
	if m.duration > 0 {
		target = util.Clamp(target, 0, m.duration)
	} else {
		target = math.Max(target, 0)
	}

	if err := m.transport.Seek(target); err != nil {
		return 0, err
	}
	if m.state == Ended && target < m.duration {
		m.set(Paused)
	}
	return target, nil
}

// SeekBy moves relative to the current time.
func (m *Machine) SeekBy(delta float64) (float64, error) {
	return m.Seek(m.currentTime + delta)
}

// Preset records the volume the engine was started with. It issues no command.
func (m *Machine) Preset(volume float64) {
	m.volume = util.Clamp(volume, 0, 1)
}

// SetVolume sets the volume clamped to [0, 1].
func (m *Machine) SetVolume(volume float64) error {
	volume = util.Clamp(volume, 0, 1)
	if err := m.transport.SetVolume(volume); err != nil {
		return err
	}
	m.volume = volume
	return nil
}

func (m *Machine) SetMuted(muted bool) error {
	if muted == m.muted {
		return nil
	}
	if err := m.transport.SetMuted(muted); err != nil {
		return err
	}
	m.muted = muted
	return nil
}

func (m *Machine) ToggleMute() error {
	return m.SetMuted(!m.muted)
}

func (m *Machine) SetRate(rate float64) error {
	if rate <= 0 {
		return errors.New("playback rate must be positive")
	}
	if err := m.transport.SetRate(rate); err != nil {
		return err
	}
	m.rate = rate
	return nil
}
