// Package hls implements a small HLS client that fetches renditions and
// feeds their fragments into a media engine, switching levels at fragment
// boundaries.
package hls

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/mafilu-cli/mafilu/log"
)

// Sink accepts the media bytes. OpenStream restarts the engine input; the
// engine clock restarts at zero, which corresponds to the first fragment written.
type Sink interface {
	OpenStream() (io.WriteCloser, error)
}

type Config struct {
	HTTPClient *http.Client
	// InitialBandwidth is the estimate in bits per second before any fragment is measured.
	InitialBandwidth int
	// SafetyFactor is the share of the estimate a level may use, in (0, 1].
	SafetyFactor float64
	// FragmentRetries is the number of attempts per request.
	FragmentRetries int
	// RetryDelay is the pause between attempts.
	RetryDelay time.Duration
}

func (c Config) withDefaults() Config {
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
	if c.InitialBandwidth <= 0 {
		c.InitialBandwidth = 1_000_000
	}
	if c.SafetyFactor <= 0 || c.SafetyFactor > 1 {
		c.SafetyFactor = 0.8
	}
	if c.FragmentRetries <= 0 {
		c.FragmentRetries = 1
	}
	if c.RetryDelay < 0 {
		c.RetryDelay = 0
	}
	return c
}

// Client loads one source. Events are delivered in order on Events, which is
// closed by Destroy.
type Client struct {
	cfg    Config
	sink   Sink
	est    *estimator
	events chan Event

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	src       *url.URL
	levels    []Level
	single    bool
	playlists map[int]*mediaPlaylist
	manual    int
	current   int
	next      float64
	target    float64
	writer    io.WriteCloser
	reattach  bool
	init      string
	gen       int
	loadStop  context.CancelFunc
	destroyed bool
}

func New(cfg Config, sink Sink) *Client {
	cfg = cfg.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		cfg:       cfg,
		sink:      sink,
		est:       newEstimator(cfg.InitialBandwidth),
		events:    make(chan Event, 64),
		ctx:       ctx,
		cancel:    cancel,
		playlists: make(map[int]*mediaPlaylist),
		manual:    -1,
		current:   -1,
	}
}

func (c *Client) Events() <-chan Event {
	return c.events
}

// LoadSource fetches the manifest in the background and starts loading
// fragments from position zero once it is parsed.
func (c *Client) LoadSource(rawURL string) error {
	src, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse manifest url: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return errors.New("client destroyed")
	}
	c.src = src
	c.spawnLocked()
	return nil
}

// Levels returns the renditions of the master playlist. A media playlist has none.
func (c *Client) Levels() []Level {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.single {
		return nil
	}
	return append([]Level(nil), c.levels...)
}

// SetLevel pins a level, or returns to automatic selection with -1. It takes
// effect at the next fragment. Unknown indexes are rejected.
func (c *Client) SetLevel(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index != -1 && (c.single || index < 0 || index >= len(c.levels)) {
		return fmt.Errorf("no level %d", index)
	}
	c.manual = index
	return nil
}

// Level returns the pinned level, or -1.
func (c *Client) Level() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.manual
}

// Bandwidth returns the current throughput estimate in bits per second.
func (c *Client) Bandwidth() float64 {
	return c.est.bandwidth()
}

// StartLoad resumes loading after an error, continuing with the fragment that
// was not written. The engine stream is kept.
func (c *Client) StartLoad() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed || c.src == nil {
		return
	}
	c.spawnLocked()
}

// Seek restarts loading at the fragment containing position on a fresh engine
// stream. It does not wait for the engine; Attached is emitted once it is ready.
func (c *Client) Seek(position float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed || c.src == nil {
		return
	}

	c.detachLocked()
	c.next, c.target, c.reattach = position, position, true
	c.spawnLocked()
}

// RecoverMediaError reopens the engine stream at the first fragment not yet
// written and resumes loading. It returns the timeline position the new stream
// starts at.
func (c *Client) RecoverMediaError() (float64, error) {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return 0, errors.New("client destroyed")
	}
	c.stopLoadLocked()
	c.detachLocked()
	position := c.next
	c.mu.Unlock()

	writer, err := c.sink.OpenStream()
	if err != nil {
		return 0, fmt.Errorf("reopen engine stream: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		writer.Close()
		return 0, errors.New("client destroyed")
	}
	c.writer, c.reattach, c.init = writer, false, ""
	c.target = position
	c.spawnLocked()
	return position, nil
}

// Destroy stops every request and closes the engine stream. It is safe to call more than once.
func (c *Client) Destroy() {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	c.destroyed = true
	c.cancel()
	c.detachLocked()
	c.mu.Unlock()

	c.wg.Wait()
	close(c.events)
}

func (c *Client) stopLoadLocked() {
	c.gen++
	if c.loadStop != nil {
		c.loadStop()
		c.loadStop = nil
	}
}

// detachLocked closes the engine stream, which also unblocks a pending write.
func (c *Client) detachLocked() {
	if c.writer != nil {
		c.writer.Close()
		c.writer = nil
	}
	c.init = ""
}

func (c *Client) spawnLocked() {
	c.stopLoadLocked()

	ctx, cancel := context.WithCancel(c.ctx)
	c.loadStop = cancel
	gen := c.gen

	c.wg.Add(1)
	go c.run(ctx, gen)
}

// stale reports whether a newer loader replaced gen. Callers hold c.mu.
func (c *Client) staleLocked(gen int) bool {
	return c.destroyed || gen != c.gen
}

func (c *Client) emit(ctx context.Context, event Event) bool {
	select {
	case c.events <- event:
		return true
	case <-ctx.Done():
		return false
	}
}

func (c *Client) fail(ctx context.Context, gen int, err error) {
	if ctx.Err() != nil {
		return
	}

	c.mu.Lock()
	stale := c.staleLocked(gen)
	c.mu.Unlock()
	if stale {
		return
	}

	var hlsErr *Error
	if !errors.As(err, &hlsErr) {
		hlsErr = &Error{Kind: OtherError, Details: "load", Err: err}
	}

	log.Warnf("hls: %v", hlsErr)
	c.emit(ctx, Event{Kind: ErrorEvent, Err: hlsErr})
}

// run is one loader. It exits after an error, at the end of a finished
// playlist, or when a newer loader replaces it.
func (c *Client) run(ctx context.Context, gen int) {
	defer c.wg.Done()

	c.mu.Lock()
	needManifest := c.levels == nil
	c.mu.Unlock()

	if needManifest {
		if err := c.loadManifest(ctx, gen); err != nil {
			c.fail(ctx, gen, err)
			return
		}
	}

	for ctx.Err() == nil {
		level := c.pickLevel()

		playlist, err := c.mediaPlaylist(ctx, gen, level, false)
		if err != nil {
			c.fail(ctx, gen, err)
			return
		}

		c.mu.Lock()
		position := c.next
		c.mu.Unlock()

		i := playlist.indexAt(position)
		if i < 0 {
			if !playlist.live {
				c.endOfStream(ctx, gen)
				return
			}
			if !sleep(ctx, playlist.target) {
				return
			}
			if _, err := c.mediaPlaylist(ctx, gen, level, true); err != nil {
				c.fail(ctx, gen, err)
				return
			}
			continue
		}

		if !c.loadFragment(ctx, gen, level, playlist.segments[i]) {
			return
		}
	}
}

func (c *Client) pickLevel() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.single:
		return 0
	case c.manual >= 0:
		return c.manual
	default:
		return chooseLevel(c.levels, c.est.bandwidth(), c.cfg.SafetyFactor)
	}
}

func (c *Client) loadManifest(ctx context.Context, gen int) error {
	c.mu.Lock()
	src := c.src
	c.mu.Unlock()

	body, err := c.fetch(ctx, src.String())
	if err != nil {
		return err
	}

	master, media, err := decode(body)
	if err != nil {
		return &Error{Kind: OtherError, Details: "parse manifest", Err: err}
	}

	var (
		levels  []Level
		single  bool
		initial *mediaPlaylist
	)
	if master != nil {
		if levels, err = levelsOf(master, src); err != nil {
			return &Error{Kind: OtherError, Details: "parse manifest", Err: err}
		}
		if len(levels) == 0 {
			return &Error{Kind: OtherError, Details: "parse manifest", Err: ErrNoVariants}
		}
	} else {
		single = true
		levels = []Level{{Index: 0, URI: src.String()}}
		if initial, err = newMediaPlaylist(media, src, nil); err != nil {
			return &Error{Kind: OtherError, Details: "parse playlist", Err: err}
		}
	}

	c.mu.Lock()
	if c.staleLocked(gen) {
		c.mu.Unlock()
		return nil
	}
	c.levels, c.single = levels, single
	if initial != nil {
		c.playlists[0] = initial
	}
	c.mu.Unlock()

	parsed := Event{Kind: ManifestParsed}
	if !single {
		parsed.Levels = append([]Level(nil), levels...)
	}
	c.emit(ctx, parsed)
	if initial != nil {
		c.emit(ctx, Event{Kind: LevelLoaded, Level: 0, Duration: initial.duration(), Live: initial.live})
	}
	return nil
}

// mediaPlaylist returns the cached playlist of level, fetching it when missing or when refresh is set.
func (c *Client) mediaPlaylist(ctx context.Context, gen, level int, refresh bool) (*mediaPlaylist, error) {
	c.mu.Lock()
	cached, ok := c.playlists[level]
	uri := c.levels[level].URI
	c.mu.Unlock()

	if ok && !refresh {
		return cached, nil
	}

	body, err := c.fetch(ctx, uri)
	if err != nil {
		return nil, err
	}

	_, media, err := decode(body)
	if err != nil || media == nil {
		if err == nil {
			err = errors.New("expected a media playlist")
		}
		return nil, &Error{Kind: OtherError, Details: "parse playlist", Err: err}
	}

	base, err := url.Parse(uri)
	if err != nil {
		return nil, &Error{Kind: OtherError, Details: "parse playlist", Err: err}
	}

	playlist, err := newMediaPlaylist(media, base, cached)
	if err != nil {
		return nil, &Error{Kind: OtherError, Details: "parse playlist", Err: err}
	}

	c.mu.Lock()
	if !c.staleLocked(gen) {
		c.playlists[level] = playlist
	}
	c.mu.Unlock()

	c.emit(ctx, Event{Kind: LevelLoaded, Level: level, Duration: playlist.duration(), Live: playlist.live})
	return playlist, nil
}

// attach returns the engine stream, opening a new one when a seek asked for it.
func (c *Client) attach(ctx context.Context, gen int, start float64) (io.WriteCloser, bool) {
	c.mu.Lock()
	if c.staleLocked(gen) {
		c.mu.Unlock()
		return nil, false
	}
	if c.writer != nil && !c.reattach {
		w := c.writer
		c.mu.Unlock()
		return w, true
	}
	c.mu.Unlock()

	writer, err := c.sink.OpenStream()
	if err != nil {
		c.fail(ctx, gen, &Error{Kind: OtherError, Details: "open engine stream", Err: err})
		return nil, false
	}

	c.mu.Lock()
	if c.staleLocked(gen) {
		c.mu.Unlock()
		writer.Close()
		return nil, false
	}
	c.writer, c.reattach, c.init = writer, false, ""
	target := c.target
	c.mu.Unlock()

	c.emit(ctx, Event{Kind: Attached, Start: start, Target: target})
	return writer, true
}

func (c *Client) loadFragment(ctx context.Context, gen, level int, seg segment) bool {
	began := time.Now()
	data, err := c.fetch(ctx, seg.uri)
	if err != nil {
		c.fail(ctx, gen, err)
		return false
	}
	c.est.sample(len(data), time.Since(began))

	if !isMedia(data) {
		c.fail(ctx, gen, &Error{Kind: MediaError, Details: "demux " + seg.uri, Err: ErrUnknownFormat})
		return false
	}

	writer, ok := c.attach(ctx, gen, seg.start)
	if !ok {
		return false
	}

	c.mu.Lock()
	needInit := seg.init != "" && seg.init != c.init
	c.mu.Unlock()
	if needInit {
		header, err := c.fetch(ctx, seg.init)
		if err != nil {
			c.fail(ctx, gen, err)
			return false
		}
		if _, err := writer.Write(header); err != nil {
			c.fail(ctx, gen, &Error{Kind: MediaError, Details: "append init segment", Err: err})
			return false
		}
	}

	if _, err := writer.Write(data); err != nil {
		c.fail(ctx, gen, &Error{Kind: MediaError, Details: "append fragment", Err: err})
		return false
	}

	c.mu.Lock()
	if c.staleLocked(gen) {
		c.mu.Unlock()
		return false
	}
	switched := c.current != level
	c.current, c.next = level, seg.end()
	if seg.init != "" {
		c.init = seg.init
	}
	c.mu.Unlock()

	if switched {
		c.emit(ctx, Event{Kind: LevelSwitched, Level: level})
	}
	return c.emit(ctx, Event{Kind: FragLoaded, Level: level, Start: seg.start, Duration: seg.duration})
}

func (c *Client) endOfStream(ctx context.Context, gen int) {
	c.mu.Lock()
	if c.staleLocked(gen) {
		c.mu.Unlock()
		return
	}
	writer := c.writer
	c.writer = nil
	c.mu.Unlock()

	if writer != nil {
		writer.Close()
	}
	c.emit(ctx, Event{Kind: BufferEOS})
}

// fetch GETs rawURL with up to FragmentRetries attempts.
func (c *Client) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < c.cfg.FragmentRetries; attempt++ {
		if attempt > 0 && !sleep(ctx, c.cfg.RetryDelay) {
			break
		}

		data, err := c.get(ctx, rawURL)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		log.Debugf("hls: attempt %d for %s failed: %v", attempt+1, rawURL, err)
	}
	return nil, &Error{Kind: NetworkError, Details: "load " + rawURL, Err: lastErr}
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPStatusError{URL: rawURL, Status: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
