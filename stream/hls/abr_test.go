package hls

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestChooseLevel(t *testing.T) {
	levels := []Level{
		{Index: 0, Height: 360, Bitrate: 800_000},
		{Index: 1, Height: 1080, Bitrate: 5_000_000},
		{Index: 2, Height: 720, Bitrate: 2_500_000},
	}

	Convey("chooseLevel", t, func() {
		So(chooseLevel(levels, 10_000_000, 0.8), ShouldEqual, 1)
		So(chooseLevel(levels, 3_200_000, 0.8), ShouldEqual, 2)
		So(chooseLevel(levels, 3_000_000, 0.8), ShouldEqual, 0)
		So(chooseLevel(levels, 100_000, 0.8), ShouldEqual, 0)
		So(chooseLevel(nil, 100_000, 0.8), ShouldEqual, -1)
	})
}

func TestEstimator(t *testing.T) {
	Convey("Given an estimator", t, func() {
		e := newEstimator(1_000_000)
		So(e.bandwidth(), ShouldEqual, 1_000_000)

		Convey("Tiny samples are ignored", func() {
			e.sample(100, time.Millisecond)
			So(e.bandwidth(), ShouldEqual, 1_000_000)
		})

		Convey("The first sample replaces the initial guess", func() {
			e.sample(1_000_000, time.Second)
			So(e.bandwidth(), ShouldEqual, 8_000_000)

			Convey("Later samples are averaged", func() {
				e.sample(500_000, time.Second)
				So(e.bandwidth(), ShouldAlmostEqual, 0.3*4_000_000+0.7*8_000_000)
			})
		})
	})
}
