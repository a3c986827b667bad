package hls

import (
	"fmt"
	"net/url"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func parseMedia(body string, prev *mediaPlaylist) (*mediaPlaylist, error) {
	_, media, err := decode([]byte(body))
	if err != nil {
		return nil, err
	}
	base, _ := url.Parse("https://cdn.example/v/720/index.m3u8")
	return newMediaPlaylist(media, base, prev)
}

func TestMediaPlaylist(t *testing.T) {
	Convey("Given a finished media playlist", t, func() {
		p, err := parseMedia(media(3), nil)
		So(err, ShouldBeNil)

		Convey("Fragments are resolved and placed on the timeline", func() {
			So(p.segments, ShouldHaveLength, 3)
			So(p.segments[1].uri, ShouldEqual, "https://cdn.example/v/720/seg1.ts")
			So(p.segments[1].start, ShouldEqual, 4)
			So(p.duration(), ShouldEqual, 12)
			So(p.live, ShouldBeFalse)
		})

		Convey("Positions map to the containing fragment", func() {
			So(p.indexAt(0), ShouldEqual, 0)
			So(p.indexAt(3.99), ShouldEqual, 0)
			So(p.indexAt(4), ShouldEqual, 1)
			So(p.indexAt(11.9), ShouldEqual, 2)
			So(p.indexAt(12), ShouldEqual, -1)
		})
	})

	Convey("A live playlist keeps start times across reloads", t, func() {
		first, err := parseMedia("#EXTM3U\n#EXT-X-TARGETDURATION:2\n#EXT-X-MEDIA-SEQUENCE:10\n#EXTINF:2,\na.ts\n#EXTINF:2,\nb.ts\n", nil)
		So(err, ShouldBeNil)
		So(first.live, ShouldBeTrue)

		second, err := parseMedia("#EXTM3U\n#EXT-X-TARGETDURATION:2\n#EXT-X-MEDIA-SEQUENCE:11\n#EXTINF:2,\nb.ts\n#EXTINF:2,\nc.ts\n", first)
		So(err, ShouldBeNil)
		So(second.segments[0].start, ShouldEqual, 2)
		So(second.segments[1].start, ShouldEqual, 4)
		So(second.indexAt(4), ShouldEqual, 1)
		So(second.duration(), ShouldEqual, 6)
	})

	Convey("A slid live window reports the timeline end as duration", t, func() {
		window := func(seq int) string {
			var b strings.Builder
			fmt.Fprintf(&b, "#EXTM3U\n#EXT-X-TARGETDURATION:4\n#EXT-X-MEDIA-SEQUENCE:%d\n", seq)
			for i := seq; i < seq+3; i++ {
				fmt.Fprintf(&b, "#EXTINF:4,\nseg%d.ts\n", i)
			}
			return b.String()
		}

		first, err := parseMedia(window(0), nil)
		So(err, ShouldBeNil)
		So(first.duration(), ShouldEqual, 12)

		second, err := parseMedia(window(2), first)
		So(err, ShouldBeNil)
		So(second.segments[0].start, ShouldEqual, 8)
		So(second.duration(), ShouldEqual, 20)
		So(second.indexAt(0), ShouldEqual, 0)
	})

	Convey("fMP4 fragments carry their init segment", t, func() {
		p, err := parseMedia("#EXTM3U\n#EXT-X-VERSION:7\n#EXT-X-TARGETDURATION:4\n#EXT-X-MAP:URI=\"init.mp4\"\n#EXTINF:4,\na.m4s\n#EXT-X-ENDLIST\n", nil)
		So(err, ShouldBeNil)
		So(p.segments[0].init, ShouldEqual, "https://cdn.example/v/720/init.mp4")
	})

	Convey("Encrypted fragments are rejected", t, func() {
		_, err := parseMedia("#EXTM3U\n#EXT-X-TARGETDURATION:4\n#EXT-X-KEY:METHOD=SAMPLE-AES,URI=\"k\"\n#EXTINF:4,\na.ts\n#EXT-X-ENDLIST\n", nil)
		So(err, ShouldEqual, ErrEncrypted)
	})
}

func TestIsMedia(t *testing.T) {
	Convey("isMedia", t, func() {
		So(isMedia(tsFragment(0)), ShouldBeTrue)
		So(isMedia([]byte("\x00\x00\x00\x18ftypiso6")), ShouldBeTrue)
		So(isMedia([]byte("\x00\x00\x00\x18moof....")), ShouldBeTrue)
		So(isMedia([]byte("ID3\x04")), ShouldBeTrue)
		So(isMedia([]byte("<html>")), ShouldBeFalse)
		So(isMedia(nil), ShouldBeFalse)
	})
}

func TestParseResolution(t *testing.T) {
	Convey("parseResolution", t, func() {
		w, h := parseResolution("1920x1080")
		So(w, ShouldEqual, 1920)
		So(h, ShouldEqual, 1080)

		w, h = parseResolution("")
		So(w, ShouldEqual, 0)
		So(h, ShouldEqual, 0)
	})
}
