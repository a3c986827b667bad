package util

import (
	"math"
	"testing"

	"github.com/mafilu-cli/mafilu/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClamp(t *testing.T) {
	Convey("Clamp", t, func() {
		So(Clamp(1.4, 0, 1), ShouldEqual, 1)
		So(Clamp(-0.1, 0, 1), ShouldEqual, 0)
		So(Clamp(0.5, 0, 1), ShouldEqual, 0.5)
		So(Clamp(7, 0, 3), ShouldEqual, 3)
	})
}

func TestFormatTime(t *testing.T) {
	Convey("FormatTime", t, func() {
		So(FormatTime(0), ShouldEqual, "0:00")
		So(FormatTime(125.7), ShouldEqual, "2:05")
		So(FormatTime(3725), ShouldEqual, "1:02:05")
		So(FormatTime(math.NaN()), ShouldEqual, "0:00")
		So(FormatTime(math.Inf(1)), ShouldEqual, "0:00")
	})
}

func TestParseTime(t *testing.T) {
	Convey("ParseTime", t, func() {
		Convey("Accepts the formats FormatTime produces", func() {
			for _, s := range []float64{0, 59, 125, 3725} {
				parsed, err := ParseTime(FormatTime(s))
				So(err, ShouldBeNil)
				So(parsed, ShouldEqual, s)
			}
		})

		Convey("Accepts bare seconds", func() {
			parsed, err := ParseTime(" 90 ")
			So(err, ShouldBeNil)
			So(parsed, ShouldEqual, 90)
		})

		Convey("Rejects garbage", func() {
			for _, s := range []string{"", "a:b", "1:2:3:4", "-5"} {
				_, err := ParseTime(s)
				So(err, ShouldNotBeNil)
			}
		})
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("resume"), ShouldEqual, "Resume")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestDelete(t *testing.T) {
	Convey("Delete removes files and directories", t, func() {
		filesystem.SetMemMapFs()
		fs := filesystem.API()
		So(fs.MkdirAll("/a/b", 0o755), ShouldBeNil)
		So(fs.WriteFile("/a/b/c.json", []byte("{}"), 0o644), ShouldBeNil)

		So(Delete("/a/b/c.json"), ShouldBeNil)
		exists, _ := fs.Exists("/a/b/c.json")
		So(exists, ShouldBeFalse)

		So(Delete("/a"), ShouldBeNil)
		exists, _ = fs.Exists("/a")
		So(exists, ShouldBeFalse)

		So(Delete("/missing"), ShouldNotBeNil)
	})
}
