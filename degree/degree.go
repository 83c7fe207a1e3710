// Package degree converts absolute pitches to movable-do scale-degree
// symbols: digits 1-7 relative to the active key's tonic, a sharp marker
// for chromatic passing tones, and octave dots/commas relative to a
// reference octave.
package degree

import (
	"strings"

	"github.com/khlin/tabgen/model"
	"github.com/khlin/tabgen/util"
)

// Scale-step tables indexed by (pitch - tonic) mod 12; zero means the
// pitch class is not a scale step in that mode.
var (
	majorDegree = [12]int{1, 0, 2, 0, 3, 4, 0, 5, 0, 6, 0, 7}
	minorDegree = [12]int{1, 0, 2, 3, 0, 4, 0, 5, 6, 0, 7, 0} // natural minor
)

// Sustain is rendered for slots a note holds through after its onset.
const Sustain = "-"

// Encoder maps absolute pitches to degree symbols for one key and one
// reference octave. Value type; safe to copy.
type Encoder struct {
	Key      model.Key
	RefPitch int // absolute pitch of the reference-octave tonic
}

// Encode renders pitch as a degree symbol, e.g. "1", "2#", "5·", "7,,".
func (e Encoder) Encode(pitch int) string {
	table := &majorDegree
	if e.Key.Mode == model.ModeMinor {
		table = &minorDegree
	}

	rel := (((pitch - e.Key.TonicPitchClass) % 12) + 12) % 12
	var sym string
	if d := table[rel]; d != 0 {
		sym = digit(d)
	} else {
		// strictly between two scale steps: sharp of the lower step
		sym = digit(table[rel-1]) + "#"
	}

	octave := util.FloorDiv(pitch-e.RefPitch, 12)
	switch {
	case octave > 0:
		sym += strings.Repeat("·", octave)
	case octave < 0:
		sym += strings.Repeat(",", -octave)
	}
	return sym
}

func digit(d int) string {
	return string(rune('0' + d))
}
