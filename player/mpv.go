package player

import (
	"crypto/rand"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mafilu-cli/mafilu/constant"
	"github.com/mafilu-cli/mafilu/log"
	"github.com/mafilu-cli/mafilu/where"
)

const (
	socketWaitRetries = 20
	socketWaitDelay   = 150 * time.Millisecond
	quitTimeout       = 3 * time.Second
)

// Options configure how mpv is launched.
type Options struct {
	// Binary is the executable name or path.
	Binary string
	Title  string
	// NativeHLS lets mpv open HLS manifests through its own demuxer.
	NativeHLS bool
	// Volume is the initial volume in [0, 1].
	Volume float64
}

// MPV implements Element and Fullscreen. It restarts the process for every
// OpenStream and carries pause, volume, mute and speed over to the new one.
// A new element starts paused until Play.
type MPV struct {
	opts Options

	ipcMu sync.Mutex

	mu         sync.Mutex
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{}
	quitting   bool
	listener   *EventListener
	detach     chan struct{}
	translator translator

	paused bool
	volume float64
	muted  bool
	speed  float64

	events    chan Event
	done      chan struct{}
	closeOnce sync.Once
}

func NewMPV(opts Options) *MPV {
	if opts.Binary == "" {
		opts.Binary = "mpv"
	}
	return &MPV{
		opts:   opts,
		paused: true,
		volume: opts.Volume,
		speed:  1,
		events: make(chan Event, 64),
		done:   make(chan struct{}),
	}
}

func (m *MPV) CanPlayType(mime string) bool {
	switch strings.ToLower(mime) {
	case constant.MimeHLS, constant.MimeHLSLegacy:
		return m.opts.NativeHLS
	default:
		return false
	}
}

func (m *MPV) Events() <-chan Event {
	return m.events
}

func (m *MPV) Load(rawURL string) error {
	target, err := sanitizeMediaTarget(rawURL)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopLocked()
	return m.startLocked(target, nil)
}

func (m *MPV) OpenStream() (io.WriteCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopLocked()

	reader, writer := io.Pipe()
	if err := m.startLocked("-", reader); err != nil {
		reader.Close()
		return nil, err
	}
	return writer, nil
}

// Play, Pause and the volume, mute and speed setters are remembered while no
// process runs and passed on the command line of the next one.
func (m *MPV) Play() error {
	return m.apply("pause", false, func() { m.paused = false })
}

func (m *MPV) Pause() error {
	return m.apply("pause", true, func() { m.paused = true })
}

func (m *MPV) Seek(seconds float64) error {
	_, err := m.sendCommand("seek", seconds, "absolute")
	return err
}

func (m *MPV) SetVolume(volume float64) error {
	return m.apply("volume", volume*100, func() { m.volume = volume })
}

func (m *MPV) SetMuted(muted bool) error {
	return m.apply("mute", muted, func() { m.muted = muted })
}

func (m *MPV) SetSpeed(rate float64) error {
	return m.apply("speed", rate, func() { m.speed = rate })
}

func (m *MPV) ToggleFullscreen() error {
	_, err := m.sendCommand("cycle", "fullscreen")
	return err
}

// Close quits mpv and removes its socket.
func (m *MPV) Close() error {
	m.closeOnce.Do(func() {
		m.mu.Lock()
		m.stopLocked()
		m.mu.Unlock()
		close(m.done)
	})
	return nil
}

// apply sets property on the running process and records the change with remember.
func (m *MPV) apply(property string, value any, remember func()) error {
	m.mu.Lock()
	running := m.cmd != nil
	if !running {
		remember()
	}
	m.mu.Unlock()
	if !running {
		return nil
	}

	if _, err := m.sendCommand("set_property", property, value); err != nil {
		return err
	}
	m.mu.Lock()
	remember()
	m.mu.Unlock()
	return nil
}

func (m *MPV) socket() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.socketPath
}

// args builds the command line for target, reapplying the remembered transport state.
func (m *MPV) args(socketPath, target string) []string {
	title := sanitizeTitle(m.opts.Title)
	args := []string{
		"--no-terminal",
		"--really-quiet",
		"--input-ipc-server=" + socketPath,
		"--force-window=yes",
		"--idle=yes",
		"--keep-open=yes",
		"--volume=" + strconv.FormatFloat(m.volume*100, 'f', 0, 64),
		"--speed=" + strconv.FormatFloat(m.speed, 'f', -1, 64),
		"--user-agent=" + constant.UserAgent,
	}
	if title != "" {
		args = append(args, "--force-media-title="+title, "--title="+title)
	}
	if m.paused {
		args = append(args, "--pause=yes")
	}
	if m.muted {
		args = append(args, "--mute=yes")
	}
	return append(args, target)
}

func (m *MPV) startLocked(target string, stdin io.ReadCloser) error {
	select {
	case <-m.done:
		return fmt.Errorf("mpv element is closed")
	default:
	}

	if m.socketPath == "" {
		randomBytes := make([]byte, 4)
		if _, err := rand.Read(randomBytes); err != nil {
			return fmt.Errorf("generate socket name: %w", err)
		}
		m.socketPath = filepath.Join(where.Temp(), fmt.Sprintf("mpv-%x.sock", randomBytes))
	}

	cmd := exec.Command(m.opts.Binary, m.args(m.socketPath, target)...)
	cmd.SysProcAttr = sysProcAttr()
	if stdin != nil {
		cmd.Stdin = stdin
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	exited := make(chan struct{})
	m.cmd, m.exited, m.quitting = cmd, exited, false
	go m.reap(cmd, exited, stdin)

	if err := waitForSocket(m.socketPath, exited); err != nil {
		log.Warnf("killing mpv: %v", err)
		m.quitting = true
		_ = killProcess(cmd)
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	m.translator.reset()
	detach := make(chan struct{})
	listener := NewEventListener(m.socketPath, func(name string, data any) {
		m.mu.Lock()
		if paused, ok := data.(bool); ok && name == "pause" {
			m.paused = paused
		}
		events := m.translator.translate(name, data)
		m.mu.Unlock()
		for _, event := range events {
			m.emit(event, detach)
		}
	})
	if err := listener.Start(); err != nil {
		m.quitting = true
		_ = killProcess(cmd)
		return err
	}
	m.listener, m.detach = listener, detach

	log.Infof("mpv started (pid %d) for %s", cmd.Process.Pid, target)
	return nil
}

// reap waits for the process and reports an exit nobody asked for.
func (m *MPV) reap(cmd *exec.Cmd, exited chan struct{}, stdin io.ReadCloser) {
	err := cmd.Wait()
	close(exited)
	if stdin != nil {
		stdin.Close()
	}

	m.mu.Lock()
	expected := m.quitting || m.cmd != cmd
	m.mu.Unlock()
	if expected {
		return
	}

	if err != nil {
		err = fmt.Errorf("%w: %v", ErrEngineExited, err)
	} else {
		err = ErrEngineExited
	}
	m.emit(Event{Kind: Failed, Err: err}, nil)
}

func (m *MPV) emit(event Event, detach chan struct{}) {
	select {
	case m.events <- event:
	case <-detach:
	case <-m.done:
	}
}

// stopLocked quits the running process, if any, and waits for it.
func (m *MPV) stopLocked() {
	if m.cmd == nil {
		return
	}

	m.quitting = true
	if m.detach != nil {
		close(m.detach)
		m.detach = nil
	}

	// The listener callback takes m.mu, so it has to be stopped unlocked.
	listener := m.listener
	m.listener = nil
	m.mu.Unlock()
	if listener != nil {
		listener.Stop()
	}
	_, _ = doSendCommand(m.socketPath, []any{"quit"})
	m.mu.Lock()

	select {
	case <-m.exited:
	case <-time.After(quitTimeout):
		_ = killProcess(m.cmd)
		<-m.exited
	}

	_ = os.Remove(m.socketPath)
	m.cmd = nil
}

// waitForSocket polls until the mpv IPC socket is accepting connections.
func waitForSocket(socketPath string, exited <-chan struct{}) error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", socketPath, socketWaitRetries)
}

// sanitizeMediaTarget validates that a URL is safe to pass to mpv as a positional argument.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	return filepath.Clean(l), nil
}

func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}
