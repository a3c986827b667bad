package stream

import (
	"fmt"

	"github.com/mafilu-cli/mafilu/quality"
)

// FaultKind classifies playback errors by how they are recovered from.
type FaultKind int

const (
	// Network faults are retried automatically.
	Network FaultKind = iota
	// Media faults get one in-place recovery.
	Media
	// Fatal faults end the session.
	Fatal
)

func (k FaultKind) String() string {
	switch k {
	case Network:
		return "network"
	case Media:
		return "media"
	default:
		return "fatal"
	}
}

// Fault is a user-facing error with its cause.
type Fault struct {
	Kind    FaultKind
	Message string
	Err     error
}

func (f *Fault) Error() string {
	if f.Err == nil {
		return f.Message
	}
	return fmt.Sprintf("%s: %v", f.Message, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// Recoverable reports whether the session heals on its own.
func (f *Fault) Recoverable() bool {
	return f.Kind != Fatal
}

const (
	msgNetwork     = "network error, retrying"
	msgMedia       = "media error, recovering"
	msgUnsupported = "playback not supported"
)

type EventKind int

const (
	// MetadataReady carries the Duration and whether the source is Live.
	// Emitted once per session.
	MetadataReady EventKind = iota
	// LevelsDiscovered carries the Levels. Emitted once; may be empty.
	LevelsDiscovered
	DurationChange
	TimeUpdate
	// Progress carries the end of the last contiguous buffered range.
	Progress
	Playing
	Paused
	Waiting
	CanPlay
	Seeking
	Seeked
	Ended
	// LevelSwitched carries the Level fragments now come from.
	LevelSwitched
	// Faulted carries the Fault.
	Faulted
	// Recovered follows a Network or Media fault once media flows again.
	Recovered
)

var kindNames = [...]string{
	"metadata-ready", "levels-discovered", "duration-change", "time-update",
	"progress", "playing", "paused", "waiting", "can-play", "seeking", "seeked",
	"ended", "level-switched", "faulted", "recovered",
}

func (k EventKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is delivered on Session.Events in the order things happened.
type Event struct {
	Kind   EventKind
	Value  float64
	Levels []quality.Level
	Level  int
	Fault  *Fault
	// Live is set on MetadataReady and DurationChange for sliding-window playlists.
	Live bool
}
