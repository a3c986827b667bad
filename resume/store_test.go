package resume

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	. "github.com/smartystreets/goconvey/convey"
)

type failingStorage struct{}

func (failingStorage) Get(string) (string, bool, error) { return "", false, errFailing }
func (failingStorage) Set(string, string) error         { return errFailing }

var errFailing = &storageError{}

func save(store *Store, videoID string, position, duration float64) error {
	_, err := store.Save(videoID, position, duration)
	return err
}

type storageError struct{}

func (*storageError) Error() string { return "storage unavailable" }

func TestStore(t *testing.T) {
	Convey("Given a store on memory with a fake clock", t, func() {
		clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
		storage := NewMemory()
		store := New(storage, clock)

		Convey("Nothing is loaded for an unknown video", func() {
			So(store.Load("a").IsAbsent(), ShouldBeTrue)
		})

		Convey("A saved position is loaded back", func() {
			wrote, err := store.Save("a", 125, 600)
			So(err, ShouldBeNil)
			So(wrote, ShouldBeTrue)

			record, ok := store.Load("a").Get()
			So(ok, ShouldBeTrue)
			So(record.Time, ShouldEqual, 125)
			So(record.Duration, ShouldEqual, 600)
			So(record.Timestamp, ShouldEqual, clock.Now().UnixMilli())
		})

		Convey("The record is stored under the video key as JSON", func() {
			So(save(store, "movie-42", 30, 600), ShouldBeNil)
			value, ok, _ := storage.Get("mafilu_video_movie-42")
			So(ok, ShouldBeTrue)
			So(value, ShouldContainSubstring, `"time":30`)
			So(value, ShouldContainSubstring, `"timestamp":`)
		})

		Convey("Trivial positions are not written", func() {
			for _, position := range []float64{0, 5, 590, 599} {
				wrote, err := store.Save("b", position, 600)
				So(err, ShouldBeNil)
				So(wrote, ShouldBeFalse)
				_, ok, _ := storage.Get(Key("b"))
				So(ok, ShouldBeFalse)
			}
		})

		Convey("A later save overwrites", func() {
			So(save(store, "a", 100, 600), ShouldBeNil)
			So(save(store, "a", 200, 600), ShouldBeNil)
			So(store.Load("a").MustGet().Time, ShouldEqual, 200)
		})

		Convey("A record two days old is honored", func() {
			So(save(store, "a", 125, 600), ShouldBeNil)
			clock.Advance(48 * time.Hour)
			So(store.Load("a").IsPresent(), ShouldBeTrue)
		})

		Convey("A record eight days old is ignored but kept", func() {
			So(save(store, "a", 125, 600), ShouldBeNil)
			clock.Advance(8 * 24 * time.Hour)
			So(store.Load("a").IsAbsent(), ShouldBeTrue)

			raw, err := store.Raw("a")
			So(err, ShouldBeNil)
			So(raw.IsPresent(), ShouldBeTrue)
		})

		Convey("Malformed values are ignored", func() {
			for _, value := range []string{"", "not json", `{"time":"x"}`, `{"time":-1,"duration":600,"timestamp":0}`} {
				So(storage.Set(Key("c"), value), ShouldBeNil)
				So(store.Load("c").IsAbsent(), ShouldBeTrue)
			}
		})

		Convey("Records written elsewhere near the end are ignored", func() {
			So(storage.Set(Key("d"), `{"time":595,"duration":600,"timestamp":`+itoa(clock.Now().UnixMilli())+`}`), ShouldBeNil)
			So(store.Load("d").IsAbsent(), ShouldBeTrue)
		})
	})

	Convey("Given a storage that always fails", t, func() {
		store := New(failingStorage{}, clockwork.NewFakeClock())

		Convey("Load swallows the error", func() {
			So(store.Load("a").IsAbsent(), ShouldBeTrue)
		})

		Convey("Save reports it", func() {
			wrote, err := store.Save("a", 100, 600)
			So(err, ShouldEqual, errFailing)
			So(wrote, ShouldBeFalse)
		})
	})
}

func TestRecordHonored(t *testing.T) {
	Convey("Record validity window", t, func() {
		now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		fresh := now.Add(-time.Hour).UnixMilli()

		So(Record{Time: 125, Duration: 600, Timestamp: fresh}.Honored(now), ShouldBeTrue)
		So(Record{Time: 0, Duration: 600, Timestamp: fresh}.Honored(now), ShouldBeFalse)
		So(Record{Time: 590, Duration: 600, Timestamp: fresh}.Honored(now), ShouldBeFalse)
		So(Record{Time: 125, Duration: 600, Timestamp: now.Add(-MaxAge).UnixMilli()}.Honored(now), ShouldBeFalse)
		So(Record{Time: 125, Duration: 600, Timestamp: now.Add(-MaxAge + time.Minute).UnixMilli()}.Honored(now), ShouldBeTrue)
	})
}
