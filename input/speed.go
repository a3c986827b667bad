package input

import (
	"math"
	"strconv"

	"github.com/mafilu-cli/mafilu/util"
)

// SpeedLadder lists the selectable playback rates, ascending.
var SpeedLadder = []float64{0.25, 0.5, 0.75, 1, 1.25, 1.5, 1.75, 2, 3, 4}

// NextSpeed moves direction rungs along SpeedLadder from current, stopping at
// either end. A rate that is not on the ladder starts from the nearest rung.
func NextSpeed(current float64, direction int) float64 {
	i := util.Clamp(nearestRung(current)+direction, 0, len(SpeedLadder)-1)
	return SpeedLadder[i]
}

// SpeedLabel names a rate for menus.
func SpeedLabel(rate float64) string {
	if rate == 1 {
		return "Normal"
	}
	return strconv.FormatFloat(rate, 'f', -1, 64) + "x"
}

func nearestRung(rate float64) int {
	best := 0
	for i, r := range SpeedLadder {
		if math.Abs(r-rate) < math.Abs(SpeedLadder[best]-rate) {
			best = i
		}
	}
	return best
}
