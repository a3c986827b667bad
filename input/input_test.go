package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/smartystreets/goconvey/convey"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestDispatch(t *testing.T) {
	Convey("Given a dispatcher with the default keys", t, func() {
		d := NewDispatcher(DefaultKeyMap())

		Convey("Player shortcuts resolve in either case", func() {
			cases := map[Command][]tea.KeyMsg{
				TogglePlay:       {{Type: tea.KeySpace, Runes: []rune{' '}}, runes("k"), runes("K")},
				SeekBack:         {{Type: tea.KeyLeft}, runes("j"), runes("J")},
				SeekForward:      {{Type: tea.KeyRight}, runes("l"), runes("L")},
				VolumeUp:         {{Type: tea.KeyUp}},
				VolumeDown:       {{Type: tea.KeyDown}},
				ToggleMute:       {runes("m"), runes("M")},
				ToggleFullscreen: {runes("f"), runes("F")},
				SpeedUp:          {runes(">"), runes(".")},
				SpeedDown:        {runes("<"), runes(",")},
				OpenSettings:     {runes("s")},
				OpenQuality:      {runes("v")},
				JumpPrompt:       {runes("g")},
				Retry:            {runes("r")},
				ToggleHelp:       {runes("?")},
				Quit:             {runes("q"), {Type: tea.KeyCtrlC}},
			}
			for want, msgs := range cases {
				for _, msg := range msgs {
					So(d.Dispatch(msg), ShouldEqual, want)
				}
			}
			So(d.Dispatch(runes("x")), ShouldEqual, None)
		})

		Convey("Text focus suppresses everything but force quit", func() {
			d.SetTextFocus(true)
			So(d.TextFocus(), ShouldBeTrue)
			So(d.Dispatch(runes("k")), ShouldEqual, None)
			So(d.Dispatch(tea.KeyMsg{Type: tea.KeyLeft}), ShouldEqual, None)
			So(d.Dispatch(runes("q")), ShouldEqual, None)
			So(d.Dispatch(tea.KeyMsg{Type: tea.KeyCtrlC}), ShouldEqual, Quit)

			d.SetTextFocus(false)
			So(d.Dispatch(runes("k")), ShouldEqual, TogglePlay)
		})

		Convey("An open menu takes the navigation keys", func() {
			d.SetMenuOpen(true)
			So(d.Dispatch(tea.KeyMsg{Type: tea.KeyUp}), ShouldEqual, MenuUp)
			So(d.Dispatch(tea.KeyMsg{Type: tea.KeyDown}), ShouldEqual, MenuDown)
			So(d.Dispatch(tea.KeyMsg{Type: tea.KeyEnter}), ShouldEqual, MenuSelect)
			So(d.Dispatch(tea.KeyMsg{Type: tea.KeyEsc}), ShouldEqual, MenuBack)
			So(d.Dispatch(runes("m")), ShouldEqual, ToggleMute)

			d.SetMenuOpen(false)
			So(d.Dispatch(tea.KeyMsg{Type: tea.KeyEsc}), ShouldEqual, None)
		})
	})
}

func TestNextSpeed(t *testing.T) {
	Convey("Speeds walk the ladder", t, func() {
		So(NextSpeed(1, 1), ShouldEqual, 1.25)
		So(NextSpeed(1, -1), ShouldEqual, 0.75)
		So(NextSpeed(2, 1), ShouldEqual, 3)

		Convey("And stop at either end", func() {
			So(NextSpeed(4, 1), ShouldEqual, 4)
			So(NextSpeed(0.25, -1), ShouldEqual, 0.25)

			rate := 1.0
			for range 20 {
				rate = NextSpeed(rate, 1)
			}
			So(rate, ShouldEqual, SpeedLadder[len(SpeedLadder)-1])
		})

		Convey("Off-ladder rates start from the nearest rung", func() {
			So(NextSpeed(1.1, 1), ShouldEqual, 1.25)
			So(NextSpeed(10, 1), ShouldEqual, 4)
			So(NextSpeed(0, -1), ShouldEqual, 0.25)
		})
	})

	Convey("Labels name normal speed", t, func() {
		So(SpeedLabel(1), ShouldEqual, "Normal")
		So(SpeedLabel(1.5), ShouldEqual, "1.5x")
		So(SpeedLabel(0.25), ShouldEqual, "0.25x")
	})
}

func TestTrack(t *testing.T) {
	Convey("Given a track at column 10, 11 columns wide", t, func() {
		track := Track{X: 10, Width: 11}

		So(track.Contains(10), ShouldBeTrue)
		So(track.Contains(20), ShouldBeTrue)
		So(track.Contains(9), ShouldBeFalse)
		So(track.Contains(21), ShouldBeFalse)

		Convey("Seeking is proportional to the column", func() {
			So(track.SeekTarget(10, 600), ShouldEqual, 0)
			So(track.SeekTarget(15, 600), ShouldEqual, 300)
			So(track.SeekTarget(20, 600), ShouldEqual, 600)
			So(track.SeekTarget(40, 600), ShouldEqual, 600)
			So(track.SeekTarget(15, 0), ShouldEqual, 0)
		})

		Convey("Volume mutes only at zero", func() {
			v, muted := track.VolumeAt(10)
			So(v, ShouldEqual, 0)
			So(muted, ShouldBeTrue)

			v, muted = track.VolumeAt(12)
			So(v, ShouldAlmostEqual, 0.2)
			So(muted, ShouldBeFalse)

			v, _ = track.VolumeAt(5)
			So(v, ShouldEqual, 0)
		})
	})

	Convey("A degenerate track maps to zero", t, func() {
		So(Track{X: 0, Width: 1}.Fraction(0), ShouldEqual, 0)
		So(Track{}.Fraction(3), ShouldEqual, 0)
	})
}
