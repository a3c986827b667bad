// Package resume remembers where each video was left off.
//
// A record is written only for positions worth returning to and is honored
// only while it is fresh. Anything unreadable is treated as absent.
package resume

import (
	"encoding/json"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mafilu-cli/mafilu/constant"
	"github.com/mafilu-cli/mafilu/log"
	"github.com/samber/mo"
)

const (
	// MinSavePosition is the earliest position, in seconds, worth saving.
	MinSavePosition = 5
	// EndMargin excludes positions this close to the end, in seconds.
	EndMargin = 10
	// MaxAge is how long a record stays valid.
	MaxAge = 7 * 24 * time.Hour
)

// Key returns the storage key of a video.
func Key(videoID string) string {
	return constant.ResumeKeyPrefix + videoID
}

type Store struct {
	storage Storage
	clock   clockwork.Clock
}

func New(storage Storage, clock clockwork.Clock) *Store {
	return &Store{storage: storage, clock: clock}
}

// Save overwrites the record of videoID and reports whether it wrote.
// Positions that are too early or too close to the end are skipped.
func (s *Store) Save(videoID string, position, duration float64) (bool, error) {
	if !worthSaving(position, duration) {
		return false, nil
	}

	data, err := json.Marshal(Record{
		Time:      position,
		Duration:  duration,
		Timestamp: s.clock.Now().UnixMilli(),
	})
	if err != nil {
		return false, err
	}

	if err := s.storage.Set(Key(videoID), string(data)); err != nil {
		return false, err
	}
	return true, nil
}

// Raw returns the stored record regardless of validity.
func (s *Store) Raw(videoID string) (mo.Option[Record], error) {
	value, ok, err := s.storage.Get(Key(videoID))
	if err != nil || !ok {
		return mo.None[Record](), err
	}

	var record Record
	if err := json.Unmarshal([]byte(value), &record); err != nil {
		return mo.None[Record](), err
	}
	return mo.Some(record), nil
}

// Load returns the record of videoID if one exists and is honored now.
// Stale records stay in storage.
func (s *Store) Load(videoID string) mo.Option[Record] {
	record, err := s.Raw(videoID)
	if err != nil {
		log.Debugf("resume record of %q ignored: %v", videoID, err)
		return mo.None[Record]()
	}

	r, ok := record.Get()
	if !ok || !r.Honored(s.clock.Now()) {
		return mo.None[Record]()
	}
	return record
}
