package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"github.com/mafilu-cli/mafilu/log"
)

// observed are the mpv properties translated into element events.
var observed = []string{
	"time-pos",
	"duration",
	"demuxer-cache-time",
	"pause",
	"paused-for-cache",
	"seeking",
	"eof-reached",
}

// EventCallback receives a property name (or event name) and its data.
type EventCallback func(name string, data any)

// EventListener keeps one connection open to mpv and forwards observe_property
// notifications. Observations are per connection, so they are registered on it.
type EventListener struct {
	socketPath string
	callback   EventCallback

	mu       sync.Mutex
	conn     net.Conn
	stopped  bool
	finished chan struct{}
}

func NewEventListener(socketPath string, callback EventCallback) *EventListener {
	return &EventListener{
		socketPath: socketPath,
		callback:   callback,
		finished:   make(chan struct{}),
	}
}

// Start registers the observers and begins the read loop.
func (el *EventListener) Start() error {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.conn != nil {
		return nil
	}

	conn, err := net.Dial("unix", el.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	reader := bufio.NewReader(conn)
	for i, name := range observed {
		if _, err := roundTrip(conn, reader, []any{"observe_property", i + 1, name}); err != nil {
			conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
	}

	el.conn = conn
	go el.readLoop(reader)

	log.Debugf("mpv event listener started on %s", el.socketPath)
	return nil
}

// Stop closes the connection. No callback runs after Stop returns.
func (el *EventListener) Stop() {
	el.mu.Lock()
	if el.stopped || el.conn == nil {
		el.stopped = true
		el.mu.Unlock()
		return
	}
	el.stopped = true
	el.conn.Close()
	el.mu.Unlock()

	<-el.finished
}

func (el *EventListener) readLoop(reader *bufio.Reader) {
	defer close(el.finished)

	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			el.mu.Lock()
			stopped := el.stopped
			el.mu.Unlock()
			if !stopped {
				log.Debugf("event listener closed: %v", err)
			}
			return
		}
		el.dispatch(line)
	}
}

func (el *EventListener) dispatch(line []byte) {
	var msg ipcMessage
	if err := json.Unmarshal(line, &msg); err != nil || el.callback == nil {
		return
	}

	switch msg.Event {
	case "":
	case "property-change":
		if msg.Name != "" {
			el.callback(msg.Name, msg.Data)
		}
	default:
		el.callback(msg.Event, map[string]any{
			"reason":     msg.Reason,
			"file_error": msg.FileError,
		})
	}
}
