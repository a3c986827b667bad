package input

import "github.com/mafilu-cli/mafilu/util"

// Track is a horizontal bar on screen, X being its first column.
type Track struct {
	X, Width int
}

// Contains reports whether column is on the track.
func (t Track) Contains(column int) bool {
	return column >= t.X && column < t.X+t.Width
}

// Fraction maps column to [0, 1]; the first column is 0 and the last is 1.
func (t Track) Fraction(column int) float64 {
	if t.Width <= 1 {
		return 0
	}
	f := float64(column-t.X) / float64(t.Width-1)
	return util.Clamp(f, 0, 1)
}

// SeekTarget is the position in a media of duration seconds under column.
func (t Track) SeekTarget(column int, duration float64) float64 {
	if duration <= 0 {
		return 0
	}
	return t.Fraction(column) * duration
}

// VolumeAt returns the volume under column and whether it means muted.
func (t Track) VolumeAt(column int) (volume float64, muted bool) {
	volume = t.Fraction(column)
	return volume, volume == 0
}
