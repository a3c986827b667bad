package resume

import (
	"time"
)

// Record is the persisted playback position of one video.
type Record struct {
	// Time is the position in seconds.
	Time float64 `json:"time" jsonschema:"description=Playback position in seconds,minimum=0"`
	// Duration is the media duration in seconds when the record was written.
	Duration float64 `json:"duration" jsonschema:"description=Media duration in seconds,minimum=0"`
	// Timestamp is the epoch time in milliseconds when the record was written.
	Timestamp int64 `json:"timestamp" jsonschema:"description=Epoch milliseconds of the write"`
}

// SavedAt returns the write time.
func (r Record) SavedAt() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// Honored reports whether the record should be resumed into at now.
func (r Record) Honored(now time.Time) bool {
	if !(r.Time > 0 && r.Time < r.Duration-EndMargin) {
		return false
	}
	return now.Sub(r.SavedAt()) < MaxAge
}

func worthSaving(position, duration float64) bool {
	return position > MinSavePosition && position < duration-EndMargin
}
