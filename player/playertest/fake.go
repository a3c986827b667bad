// Package playertest provides an in-memory media element for tests.
package playertest

import (
	"bytes"
	"errors"
	"io"
	"sync"

	"github.com/mafilu-cli/mafilu/player"
)

var (
	// ErrClosed is returned by writes to a discarded stream.
	ErrClosed = errors.New("stream closed")
	// ErrNotRunning is returned in Process mode by commands that need a running engine.
	ErrNotRunning = errors.New("engine is not running")
)

// Element records every command and lets tests inject events.
type Element struct {
	// Native is returned by CanPlayType.
	Native bool
	// FailStream makes OpenStream fail this many times.
	FailStream int
	// FailWrites makes every stream write fail.
	FailWrites bool
	// CloseErr is returned by Close.
	CloseErr error
	// Process makes the element behave like an engine process: nothing runs
	// before Load or OpenStream, seeking fails until then, and every start
	// reports the remembered pause state as mpv does for an observed property.
	Process bool

	mu      sync.Mutex
	calls   []string
	loaded  string
	streams []*Stream
	paused  bool
	volume  float64
	muted   bool
	speed   float64
	fullscr bool
	closed  bool
	running bool
	seeks   []float64
	events  chan player.Event
}

var (
	_ player.Element    = (*Element)(nil)
	_ player.Fullscreen = (*Element)(nil)
)

func New() *Element {
	return &Element{
		paused: true,
		volume: 1,
		speed:  1,
		events: make(chan player.Event, 256),
	}
}

func (e *Element) record(call string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, call)
}

func (e *Element) CanPlayType(string) bool {
	return e.Native
}

func (e *Element) Load(url string) error {
	e.record("load")
	e.mu.Lock()
	e.loaded = url
	e.mu.Unlock()
	e.start()
	return nil
}

// start marks the engine running and, in Process mode, reports its pause state.
func (e *Element) start() {
	e.mu.Lock()
	e.running = true
	process, paused := e.Process, e.paused
	e.mu.Unlock()

	if !process {
		return
	}
	if paused {
		e.Emit(player.Event{Kind: player.Paused})
	} else {
		e.Emit(player.Event{Kind: player.Playing})
	}
}

func (e *Element) OpenStream() (io.WriteCloser, error) {
	e.record("open")
	e.mu.Lock()
	if e.FailStream > 0 {
		e.FailStream--
		e.mu.Unlock()
		return nil, errors.New("engine failed to start")
	}
	for _, s := range e.streams {
		s.discard()
	}
	s := &Stream{fail: e.FailWrites}
	e.streams = append(e.streams, s)
	e.mu.Unlock()

	e.start()
	return s, nil
}

func (e *Element) Play() error {
	e.record("play")
	e.setPaused(false)
	return nil
}

func (e *Element) Pause() error {
	e.record("pause")
	e.setPaused(true)
	return nil
}

func (e *Element) setPaused(paused bool) {
	e.mu.Lock()
	changed := e.paused != paused
	e.paused = paused
	notify := e.Process && e.running && changed
	e.mu.Unlock()

	switch {
	case !notify:
	case paused:
		e.Emit(player.Event{Kind: player.Paused})
	default:
		e.Emit(player.Event{Kind: player.Playing})
	}
}

func (e *Element) Seek(seconds float64) error {
	e.record("seek")
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Process && !e.running {
		return ErrNotRunning
	}
	e.seeks = append(e.seeks, seconds)
	return nil
}

func (e *Element) SetVolume(volume float64) error {
	e.record("volume")
	e.mu.Lock()
	defer e.mu.Unlock()
	e.volume = volume
	return nil
}

func (e *Element) SetMuted(muted bool) error {
	e.record("mute")
	e.mu.Lock()
	defer e.mu.Unlock()
	e.muted = muted
	return nil
}

func (e *Element) SetSpeed(rate float64) error {
	e.record("speed")
	e.mu.Lock()
	defer e.mu.Unlock()
	e.speed = rate
	return nil
}

func (e *Element) ToggleFullscreen() error {
	e.record("fullscreen")
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fullscr = !e.fullscr
	return nil
}

func (e *Element) Events() <-chan player.Event {
	return e.events
}

func (e *Element) Close() error {
	e.record("close")
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed, e.running = true, false
	for _, s := range e.streams {
		s.discard()
	}
	return e.CloseErr
}

// Emit delivers an event as if the engine produced it.
func (e *Element) Emit(events ...player.Event) {
	for _, event := range events {
		e.events <- event
	}
}

// Calls returns the recorded command names in order.
func (e *Element) Calls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.calls...)
}

// Count returns how often a command was issued.
func (e *Element) Count(call string) int {
	n := 0
	for _, c := range e.Calls() {
		if c == call {
			n++
		}
	}
	return n
}

func (e *Element) Loaded() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loaded
}

// Seeks returns every position passed to Seek.
func (e *Element) Seeks() []float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]float64(nil), e.seeks...)
}

func (e *Element) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

func (e *Element) Volume() (float64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volume, e.muted
}

func (e *Element) Speed() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.speed
}

func (e *Element) IsFullscreen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fullscr
}

func (e *Element) Closed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

// Streams returns every stream opened so far, oldest first.
func (e *Element) Streams() []*Stream {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*Stream(nil), e.streams...)
}

// Stream collects the bytes written to the engine.
type Stream struct {
	mu        sync.Mutex
	buf       bytes.Buffer
	writes    int
	fail      bool
	closed    bool
	discarded bool
}

func (s *Stream) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fail {
		return 0, errors.New("broken pipe")
	}
	if s.closed || s.discarded {
		return 0, ErrClosed
	}
	s.writes++
	return s.buf.Write(p)
}

func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *Stream) discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discarded = true
}

// Bytes returns everything written so far.
func (s *Stream) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.buf.Bytes()...)
}

// Writes counts successful writes.
func (s *Stream) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Closed reports whether the writer side closed the stream (end of media).
func (s *Stream) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
