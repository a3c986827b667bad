package playback

import "fmt"

// State is the canonical playback state shown to the user.
type State int

const (
	Idle State = iota
	Loading
	Ready
	Playing
	Paused
	// Buffering is transient; it returns to the state it interrupted.
	Buffering
	Ended
	// Error is a recoverable fault; it returns to the state it interrupted.
	Error
	Fatal
)

var stateNames = [...]string{"idle", "loading", "ready", "playing", "paused", "buffering", "ended", "error", "fatal"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// interruptible states can be suspended by buffering or a recoverable fault.
func (s State) interruptible() bool {
	return s == Playing || s == Paused || s == Ready || s == Loading || s == Ended
}
