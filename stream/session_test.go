package stream

import (
	"errors"
	"testing"
	"time"

	"github.com/mafilu-cli/mafilu/player"
	"github.com/mafilu-cli/mafilu/player/playertest"
	"github.com/mafilu-cli/mafilu/quality"
	"github.com/mafilu-cli/mafilu/stream/hls"
	. "github.com/smartystreets/goconvey/convey"
)

var errBoom = errors.New("decoder crashed")

func options(o *origin) Options {
	return Options{
		HLS: hls.Config{
			HTTPClient:       o.Client(),
			InitialBandwidth: 3_500_000,
			SafetyFactor:     0.8,
			FragmentRetries:  1,
		},
		RetryInterval: 10 * time.Millisecond,
	}
}

func TestOpen(t *testing.T) {
	Convey("Only http manifests are accepted", t, func() {
		_, err := Open("file:///etc/passwd", playertest.New(), Options{})
		So(err, ShouldNotBeNil)
		_, err = Open("::", playertest.New(), Options{})
		So(err, ShouldNotBeNil)
	})
}

func TestNativeSession(t *testing.T) {
	Convey("Given an engine that opens HLS itself", t, func() {
		element := playertest.New()
		element.Native = true

		s, err := Open("https://cdn.example/master.m3u8", element, Options{})
		So(err, ShouldBeNil)
		defer s.Close()

		So(s.Native(), ShouldBeTrue)
		So(s.ID(), ShouldNotBeEmpty)
		So(element.Loaded(), ShouldEqual, "https://cdn.example/master.m3u8")

		Convey("Metadata comes with an empty level list", func() {
			element.Emit(player.Event{Kind: player.LoadedMetadata, Value: 600})

			levels, _, ok := await(s.Events(), kind(LevelsDiscovered))
			So(ok, ShouldBeTrue)
			So(levels.Levels, ShouldBeEmpty)

			ready, _, ok := await(s.Events(), kind(MetadataReady))
			So(ok, ShouldBeTrue)
			So(ready.Value, ShouldEqual, 600)
		})

		Convey("Engine events pass through", func() {
			element.Emit(
				player.Event{Kind: player.TimeUpdate, Value: 12},
				player.Event{Kind: player.Progress, Value: 30},
				player.Event{Kind: player.Ended},
			)
			event, _, ok := await(s.Events(), kind(TimeUpdate))
			So(ok, ShouldBeTrue)
			So(event.Value, ShouldEqual, 12)
			event, _, ok = await(s.Events(), kind(Progress))
			So(ok, ShouldBeTrue)
			So(event.Value, ShouldEqual, 30)
			_, _, ok = await(s.Events(), kind(Ended))
			So(ok, ShouldBeTrue)
		})

		Convey("Only automatic quality is possible", func() {
			So(s.SetQualityLevel(quality.Auto), ShouldBeNil)
			So(s.SetQualityLevel(2), ShouldNotBeNil)
		})

		Convey("Transport commands reach the engine", func() {
			So(s.Play(), ShouldBeNil)
			So(s.Seek(42), ShouldBeNil)
			So(s.SetVolume(0.3), ShouldBeNil)
			So(s.SetMuted(true), ShouldBeNil)
			So(s.SetRate(1.5), ShouldBeNil)
			So(element.Calls(), ShouldResemble, []string{"load", "play", "seek", "volume", "mute", "speed"})
		})

		Convey("An engine failure is fatal", func() {
			element.Emit(player.Event{Kind: player.Failed, Err: player.ErrEngineExited})
			event, _, ok := await(s.Events(), fault(Fatal))
			So(ok, ShouldBeTrue)
			So(event.Fault.Message, ShouldEqual, "playback not supported")
			So(event.Fault.Recoverable(), ShouldBeFalse)
		})
	})

	Convey("Without native support or software client playback is not supported", t, func() {
		s, err := Open("https://cdn.example/master.m3u8", playertest.New(), Options{NoSoftware: true})
		So(err, ShouldBeNil)
		defer s.Close()

		_, _, ok := await(s.Events(), fault(Fatal))
		So(ok, ShouldBeTrue)
	})
}

func TestSoftwareSession(t *testing.T) {
	Convey("Given the software client against an origin", t, func() {
		o := newOrigin()
		defer o.Close()
		element := playertest.New()

		open := func() *Session {
			s, err := Open(o.URL+"/master.m3u8", element, options(o))
			So(err, ShouldBeNil)
			return s
		}

		Convey("Levels and metadata are reported once", func() {
			s := open()
			defer s.Close()
			So(s.Native(), ShouldBeFalse)

			event, _, ok := await(s.Events(), kind(LevelsDiscovered))
			So(ok, ShouldBeTrue)
			So(event.Levels, ShouldResemble, []quality.Level{
				{Index: 0, Height: 360, Bitrate: 800000},
				{Index: 1, Height: 1080, Bitrate: 5000000},
				{Index: 2, Height: 720, Bitrate: 2500000},
			})

			event, _, ok = await(s.Events(), kind(MetadataReady))
			So(ok, ShouldBeTrue)
			So(event.Value, ShouldEqual, 12)

			event, seen, ok := await(s.Events(), func(e Event) bool { return e.Kind == Progress && e.Value == 12 })
			So(ok, ShouldBeTrue)
			for _, e := range seen {
				So(e.Kind, ShouldNotEqual, MetadataReady)
			}
		})

		Convey("A pinned level is reported as a switch", func() {
			s := open()
			defer s.Close()
			_, _, ok := await(s.Events(), kind(LevelsDiscovered))
			So(ok, ShouldBeTrue)

			So(s.SetQualityLevel(1), ShouldBeNil)
			So(s.Seek(0), ShouldBeNil)
			_, _, ok = await(s.Events(), func(e Event) bool { return e.Kind == LevelSwitched && e.Level == 1 })
			So(ok, ShouldBeTrue)
			So(s.SetQualityLevel(9), ShouldNotBeNil)
		})

		Convey("Network faults are retried until media flows again", func() {
			o.fail("/720/seg1.ts", 3)
			s := open()
			defer s.Close()

			event, _, ok := await(s.Events(), fault(Network))
			So(ok, ShouldBeTrue)
			So(event.Fault.Message, ShouldEqual, "network error, retrying")
			So(event.Fault.Recoverable(), ShouldBeTrue)

			_, _, ok = await(s.Events(), kind(Recovered))
			So(ok, ShouldBeTrue)
			So(element.Streams(), ShouldHaveLength, 1)
		})

		Convey("A media fault is recovered in place once", func() {
			o.spoil("/720/seg1.ts", 1)
			s := open()
			defer s.Close()

			_, _, ok := await(s.Events(), fault(Media))
			So(ok, ShouldBeTrue)
			_, seen, ok := await(s.Events(), kind(Recovered))
			So(ok, ShouldBeTrue)
			for _, e := range seen {
				So(e.Kind, ShouldNotEqual, Faulted)
			}
			So(element.Streams(), ShouldHaveLength, 2)

			Convey("Engine time is shifted by the new stream start", func() {
				element.Emit(player.Event{Kind: player.TimeUpdate, Value: 1})
				event, _, ok := await(s.Events(), kind(TimeUpdate))
				So(ok, ShouldBeTrue)
				So(event.Value, ShouldEqual, 5)
			})
		})

		Convey("A second media fault before recovery is fatal", func() {
			o.spoil("/720/seg1.ts", -1)
			s := open()
			defer s.Close()

			_, _, ok := await(s.Events(), fault(Media))
			So(ok, ShouldBeTrue)
			_, _, ok = await(s.Events(), fault(Fatal))
			So(ok, ShouldBeTrue)
		})

		Convey("A failing recovery is fatal", func() {
			o.spoil("/720/seg0.ts", -1)
			element.FailStream = 1
			s := open()
			defer s.Close()

			_, seen, ok := await(s.Events(), fault(Fatal))
			So(ok, ShouldBeTrue)
			So(seen[len(seen)-2].Kind, ShouldEqual, Faulted)
			So(seen[len(seen)-2].Fault.Kind, ShouldEqual, Media)
		})

		Convey("A crashed engine is restarted as a media fault", func() {
			s := open()
			defer s.Close()
			_, _, ok := await(s.Events(), kind(MetadataReady))
			So(ok, ShouldBeTrue)
			So(eventually(func() bool { return len(element.Streams()) == 1 }), ShouldBeTrue)

			element.Emit(player.Event{Kind: player.Failed, Err: errBoom})
			_, _, ok = await(s.Events(), fault(Media))
			So(ok, ShouldBeTrue)
			So(eventually(func() bool { return len(element.Streams()) == 2 }), ShouldBeTrue)
		})

		Convey("Seeking restarts the engine and lands inside the fragment", func() {
			s := open()
			defer s.Close()
			_, _, ok := await(s.Events(), kind(MetadataReady))
			So(ok, ShouldBeTrue)

			So(s.Seek(9.5), ShouldBeNil)
			So(eventually(func() bool { return len(element.Streams()) >= 2 }), ShouldBeTrue)

			shifted := false
			for i := 0; i < 100 && !shifted; i++ {
				element.Emit(player.Event{Kind: player.TimeUpdate, Value: 0.5})
				event, _, ok := await(s.Events(), kind(TimeUpdate))
				shifted = ok && event.Value == 8.5
			}
			So(shifted, ShouldBeTrue)

			element.Emit(player.Event{Kind: player.LoadedMetadata, Value: 4})
			So(eventually(func() bool { return element.Count("seek") == 1 }), ShouldBeTrue)
		})

		Convey("A live window reports a growing timeline", func() {
			s, err := Open(o.URL+"/live/index.m3u8", element, options(o))
			So(err, ShouldBeNil)
			defer s.Close()

			event, _, ok := await(s.Events(), kind(MetadataReady))
			So(ok, ShouldBeTrue)
			So(event.Value, ShouldEqual, 3)
			So(event.Live, ShouldBeTrue)

			event, _, ok = await(s.Events(), kind(DurationChange))
			So(ok, ShouldBeTrue)
			So(event.Value, ShouldEqual, 4)
			So(event.Live, ShouldBeTrue)

			_, _, ok = await(s.Events(), func(e Event) bool { return e.Kind == Progress && e.Value == 4 })
			So(ok, ShouldBeTrue)
		})

		Convey("Metadata waits for the engine stream", func() {
			s := open()
			defer s.Close()

			_, seen, ok := await(s.Events(), kind(MetadataReady))
			So(ok, ShouldBeTrue)
			So(element.Streams(), ShouldHaveLength, 1)
			for _, e := range seen {
				So(e.Kind, ShouldNotEqual, DurationChange)
			}
		})

		Convey("Close is idempotent and releases everything", func() {
			s := open()
			So(s.Close(), ShouldBeNil)
			So(s.Close(), ShouldBeNil)
			So(element.Closed(), ShouldBeTrue)

			for range s.Events() {
			}
		})
	})
}
