// Package stream turns a manifest URL into media playing in an engine.
//
// When the engine opens HLS itself the URL is handed over as is. Otherwise a
// software client loads renditions and feeds fragments to the engine, and the
// session applies the recovery policy to its errors.
package stream

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mafilu-cli/mafilu/constant"
	"github.com/mafilu-cli/mafilu/log"
	"github.com/mafilu-cli/mafilu/metrics"
	"github.com/mafilu-cli/mafilu/player"
	"github.com/mafilu-cli/mafilu/quality"
	"github.com/mafilu-cli/mafilu/stream/hls"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// minIntraSeek is the smallest offset into a fragment worth an engine seek.
const minIntraSeek = 0.25

type Options struct {
	HLS hls.Config
	// RetryInterval paces reloads after network errors.
	RetryInterval time.Duration
	// NoSoftware disables the software client.
	NoSoftware bool
}

// Session is one opened source. All methods are safe to call from one
// goroutine while events are consumed from another.
type Session struct {
	id      string
	url     string
	element player.Element
	client  *hls.Client
	limiter *rate.Limiter
	logger  *logrus.Entry

	ctx    context.Context
	cancel context.CancelFunc
	out    chan Event
	done   chan struct{}

	closeOnce sync.Once
	closeErr  error

	mu          sync.Mutex
	offset      float64
	pendingSeek float64
	duration    float64
	live        bool
	attached    bool
	metadata    bool
	faulted     bool
	recovering  bool
	fatal       bool
}

// Open starts loading url into element. It does not wait for the network;
// progress and failures arrive on Events. The session owns element and closes it.
func Open(url string, element player.Element, opts Options) (*Session, error) {
	if err := validate(url); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		id:      uuid.NewString(),
		url:     url,
		element: element,
		limiter: rate.NewLimiter(rate.Every(max(opts.RetryInterval, time.Millisecond)), 1),
		ctx:     ctx,
		cancel:  cancel,
		out:     make(chan Event, 128),
		done:    make(chan struct{}),
	}
	s.logger = log.With(log.Fields{"session": s.id})

	switch {
	case element.CanPlayType(constant.MimeHLS):
		metrics.SessionsOpened.WithLabelValues("native").Inc()
		s.logger.Infof("opening %s natively", url)
		go s.loop(nil)
		if err := element.Load(url); err != nil {
			s.fault(Fatal, msgUnsupported, err)
		}
	case opts.NoSoftware:
		s.logger.Warn("engine cannot open HLS and the software client is disabled")
		go s.loop(nil)
		s.fault(Fatal, msgUnsupported, errors.New("no HLS support"))
	default:
		metrics.SessionsOpened.WithLabelValues("software").Inc()
		s.logger.Infof("opening %s with the software client", url)
		s.client = hls.New(opts.HLS, element)
		go s.loop(s.client.Events())
		if err := s.client.LoadSource(url); err != nil {
			s.fault(Fatal, msgUnsupported, err)
		}
	}

	return s, nil
}

func validate(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid manifest url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid manifest url %q: expected http or https", raw)
	}
	return nil
}

// ID identifies the session in logs.
func (s *Session) ID() string {
	return s.id
}

// URL returns the manifest the session was opened with.
func (s *Session) URL() string {
	return s.url
}

// Native reports whether the engine loads the manifest itself.
func (s *Session) Native() bool {
	return s.client == nil
}

// Events delivers session events in order. It is closed after Close.
func (s *Session) Events() <-chan Event {
	return s.out
}

func (s *Session) Play() error {
	return s.element.Play()
}

func (s *Session) Pause() error {
	return s.element.Pause()
}

// Seek moves to an absolute position in seconds on the session timeline.
func (s *Session) Seek(position float64) error {
	if s.client == nil {
		return s.element.Seek(position)
	}

	s.client.Seek(position)
	return nil
}

func (s *Session) SetVolume(volume float64) error {
	return s.element.SetVolume(volume)
}

func (s *Session) SetMuted(muted bool) error {
	return s.element.SetMuted(muted)
}

func (s *Session) SetRate(rate float64) error {
	return s.element.SetSpeed(rate)
}

// SetQualityLevel pins a level or returns to automatic selection with -1.
func (s *Session) SetQualityLevel(index int) error {
	if s.client == nil {
		if index == quality.Auto {
			return nil
		}
		return errors.New("the engine selects renditions itself")
	}
	if err := s.client.SetLevel(index); err != nil {
		return err
	}
	s.logger.Infof("quality level set to %d", index)
	return nil
}

// Close releases the client, the engine and the event loop. Later calls
// return the first result.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		if s.client != nil {
			s.client.Destroy()
		}
		s.closeErr = s.element.Close()
		<-s.done
		s.logger.Info("session closed")
	})
	return s.closeErr
}

func (s *Session) emit(event Event) {
	select {
	case s.out <- event:
	case <-s.ctx.Done():
	}
}

func (s *Session) fault(kind FaultKind, message string, err error) {
	f := &Fault{Kind: kind, Message: message, Err: err}
	metrics.StreamFaults.WithLabelValues(kind.String()).Inc()
	s.logger.WithError(err).Warnf("%s fault: %s", kind, message)

	s.mu.Lock()
	s.faulted = true
	if kind == Fatal {
		s.fatal = true
	}
	s.mu.Unlock()

	s.emit(Event{Kind: Faulted, Fault: f})
}

func (s *Session) loop(clientEvents <-chan hls.Event) {
	defer close(s.done)
	defer close(s.out)

	elementEvents := s.element.Events()
	for {
		select {
		case <-s.ctx.Done():
			return
		case event := <-elementEvents:
			s.handleElement(event)
		case event, ok := <-clientEvents:
			if !ok {
				clientEvents = nil
				continue
			}
			s.handleClient(event)
		}
	}
}

func (s *Session) handleElement(event player.Event) {
	native := s.client == nil

	s.mu.Lock()
	offset := s.offset
	s.mu.Unlock()

	switch event.Kind {
	case player.LoadedMetadata:
		if native {
			s.metadataReady(event.Value, false)
			return
		}
		s.mu.Lock()
		seek := s.pendingSeek
		s.pendingSeek = 0
		s.mu.Unlock()
		if seek > 0 {
			if err := s.element.Seek(seek); err != nil {
				s.logger.WithError(err).Debug("seek inside fragment failed")
			}
		}
	case player.DurationChange:
		if native {
			s.emit(Event{Kind: DurationChange, Value: event.Value})
		}
	case player.TimeUpdate:
		s.emit(Event{Kind: TimeUpdate, Value: offset + event.Value})
	case player.Progress:
		if native {
			s.emit(Event{Kind: Progress, Value: event.Value})
		}
	case player.Playing:
		s.emit(Event{Kind: Playing})
	case player.Paused:
		s.emit(Event{Kind: Paused})
	case player.Waiting:
		s.emit(Event{Kind: Waiting})
	case player.CanPlay:
		s.emit(Event{Kind: CanPlay})
	case player.Seeking:
		s.emit(Event{Kind: Seeking})
	case player.Seeked:
		s.emit(Event{Kind: Seeked})
	case player.Ended:
		s.emit(Event{Kind: Ended})
	case player.Failed:
		if native || errors.Is(event.Err, player.ErrEngineExited) {
			s.fault(Fatal, msgUnsupported, event.Err)
			return
		}
		s.mediaFault(event.Err)
	}
}

func (s *Session) handleClient(event hls.Event) {
	switch event.Kind {
	case hls.ManifestParsed:
		levels := make([]quality.Level, 0, len(event.Levels))
		for _, l := range event.Levels {
			levels = append(levels, quality.Level{Index: l.Index, Height: l.Height, Bitrate: l.Bitrate})
		}
		s.emit(Event{Kind: LevelsDiscovered, Levels: levels})
	case hls.LevelLoaded:
		s.mu.Lock()
		changed := event.Duration != s.duration || event.Live != s.live
		s.duration, s.live = event.Duration, event.Live
		attached := s.attached
		s.mu.Unlock()
		if attached && changed {
			s.emit(Event{Kind: DurationChange, Value: event.Duration, Live: event.Live})
		}
	case hls.LevelSwitched:
		metrics.LevelSwitches.Inc()
		s.logger.Debugf("switched to level %d", event.Level)
		s.emit(Event{Kind: LevelSwitched, Level: event.Level})
	case hls.Attached:
		s.mu.Lock()
		s.offset = event.Start
		s.pendingSeek = 0
		if d := event.Target - event.Start; d > minIntraSeek {
			s.pendingSeek = d
		}
		s.attached = true
		duration, live := s.duration, s.live
		s.mu.Unlock()
		s.metadataReady(duration, live)
	case hls.FragLoaded:
		metrics.FragmentsLoaded.Inc()
		metrics.EstimatedBandwidth.Set(s.client.Bandwidth())

		s.mu.Lock()
		recovered := s.faulted && !s.fatal
		s.faulted, s.recovering = false, false
		s.mu.Unlock()

		if recovered {
			metrics.StreamRecoveries.Inc()
			s.logger.Info("stream recovered")
			s.emit(Event{Kind: Recovered})
		}
		s.emit(Event{Kind: Progress, Value: event.Start + event.Duration})
	case hls.ErrorEvent:
		s.clientError(event.Err)
	}
}

// metadataReady emits MetadataReady the first time it is called. On the
// software path that is the first Attached, when an engine is running.
func (s *Session) metadataReady(duration float64, live bool) {
	s.mu.Lock()
	first := !s.metadata
	s.metadata = true
	s.mu.Unlock()

	if !first {
		return
	}
	if s.client == nil {
		s.emit(Event{Kind: LevelsDiscovered})
	}
	s.emit(Event{Kind: MetadataReady, Value: duration, Live: live})
}

func (s *Session) clientError(err *hls.Error) {
	switch err.Kind {
	case hls.NetworkError:
		s.fault(Network, msgNetwork, err)
		if waitErr := s.limiter.Wait(s.ctx); waitErr != nil {
			return
		}
		s.client.StartLoad()
	case hls.MediaError:
		s.mediaFault(err)
	default:
		s.fault(Fatal, msgUnsupported, err)
	}
}

// mediaFault recovers once. A failing recovery, or a second media fault
// before any fragment loaded, ends the session.
func (s *Session) mediaFault(err error) {
	s.mu.Lock()
	again := s.recovering
	s.recovering = true
	s.mu.Unlock()

	if again {
		s.fault(Fatal, msgUnsupported, err)
		return
	}

	s.fault(Media, msgMedia, err)
	offset, recoverErr := s.client.RecoverMediaError()
	if recoverErr != nil {
		s.fault(Fatal, msgUnsupported, errors.Join(err, recoverErr))
		return
	}

	s.mu.Lock()
	s.offset, s.pendingSeek = offset, 0
	s.mu.Unlock()
}
