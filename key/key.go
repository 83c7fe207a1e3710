// Package key resolves the working key of a transcription and applies
// the caller's transposition as an absolute pitch shift.
package key

import (
	"github.com/khlin/tabgen/model"
	"github.com/khlin/tabgen/util"
)

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Name returns the tonic's note name, e.g. "C" or "F#".
func Name(k model.Key) string {
	return noteNames[((k.TonicPitchClass%12)+12)%12]
}

// NoteName returns the name of a bare pitch class.
func NoteName(pitchClass int) string {
	return noteNames[((pitchClass%12)+12)%12]
}

// Label is the full key label, e.g. "C major".
func Label(k model.Key) string {
	return Name(k) + " " + k.Mode.String()
}

// Transpose shifts every note pitch, every chord root and the key tonic
// by offset semitones and returns a new Performance. The input is never
// mutated; pitch classes wrap mod 12, absolute pitches do not.
func Transpose(p model.Performance, offset int) model.Performance {
	out := p
	out.Notes = make([]model.Note, len(p.Notes))
	for i, n := range p.Notes {
		n.Pitch += offset
		out.Notes[i] = n
	}
	out.Chords = make([]model.ChordSpan, len(p.Chords))
	for i, c := range p.Chords {
		c.RootPitchClass = ((c.RootPitchClass+offset)%12 + 12) % 12
		out.Chords[i] = c
	}
	out.Key.Key.TonicPitchClass = ((p.Key.Key.TonicPitchClass+offset)%12 + 12) % 12
	return out
}

// ReferencePitch picks the tonic octave nearest the melody's median pitch.
// That pitch anchors octave marks: notes in the same octave carry none.
// It is computed before transposition so a +12 offset genuinely moves the
// rendered register up one level.
func ReferencePitch(k model.Key, notes []model.Note) int {
	var melody []int
	for _, n := range notes {
		if n.Role == model.RoleMelody {
			melody = append(melody, n.Pitch)
		}
	}
	if len(melody) == 0 {
		for _, n := range notes {
			melody = append(melody, n.Pitch)
		}
	}
	median := util.Median(melody)

	tonic := ((k.TonicPitchClass % 12) + 12) % 12
	// nearest tonic at or below the median, then compare with the one above
	below := tonic + 12*util.FloorDiv(median-tonic, 12)
	above := below + 12
	if above-median < median-below {
		return above
	}
	return below
}
