package player

import (
	"errors"
	"fmt"
)

// EventKind mirrors the media element events a player UI listens to.
type EventKind int

const (
	LoadedMetadata EventKind = iota
	DurationChange
	TimeUpdate
	Progress
	Playing
	Paused
	Waiting
	CanPlay
	Seeking
	Seeked
	Ended
	Failed
)

var kindNames = map[EventKind]string{
	LoadedMetadata: "loadedmetadata",
	DurationChange: "durationchange",
	TimeUpdate:     "timeupdate",
	Progress:       "progress",
	Playing:        "playing",
	Paused:         "paused",
	Waiting:        "waiting",
	CanPlay:        "canplay",
	Seeking:        "seeking",
	Seeked:         "seeked",
	Ended:          "ended",
	Failed:         "failed",
}

func (k EventKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is a single media element notification. Value carries seconds for
// time, duration and progress events. Err is set for Failed.
type Event struct {
	Kind  EventKind
	Value float64
	Err   error
}

// ErrEngineExited is reported when the engine process goes away on its own.
var ErrEngineExited = errors.New("media engine exited")

// translator turns observed mpv properties into element events.
type translator struct {
	metadata bool
}

func (t *translator) translate(name string, data any) []Event {
	switch name {
	case "time-pos":
		if v, ok := data.(float64); ok {
			return []Event{{Kind: TimeUpdate, Value: v}}
		}
	case "duration":
		v, ok := data.(float64)
		if !ok || v <= 0 {
			return nil
		}
		events := []Event{{Kind: DurationChange, Value: v}}
		if !t.metadata {
			t.metadata = true
			events = append([]Event{{Kind: LoadedMetadata, Value: v}}, events...)
		}
		return events
	case "demuxer-cache-time":
		if v, ok := data.(float64); ok {
			return []Event{{Kind: Progress, Value: v}}
		}
	case "pause":
		if v, ok := data.(bool); ok {
			if v {
				return []Event{{Kind: Paused}}
			}
			return []Event{{Kind: Playing}}
		}
	case "paused-for-cache":
		if v, ok := data.(bool); ok {
			if v {
				return []Event{{Kind: Waiting}}
			}
			return []Event{{Kind: CanPlay}}
		}
	case "seeking":
		if v, ok := data.(bool); ok {
			if v {
				return []Event{{Kind: Seeking}}
			}
			return []Event{{Kind: Seeked}}
		}
	case "eof-reached":
		if v, ok := data.(bool); ok && v {
			return []Event{{Kind: Ended}}
		}
	case "end-file":
		event, _ := data.(map[string]any)
		if reason, _ := event["reason"].(string); reason == "error" {
			msg, _ := event["file_error"].(string)
			return []Event{{Kind: Failed, Err: fmt.Errorf("engine failed to play: %s", msg)}}
		}
	}
	return nil
}

// reset forgets metadata so the next positive duration emits LoadedMetadata again.
func (t *translator) reset() {
	t.metadata = false
}
