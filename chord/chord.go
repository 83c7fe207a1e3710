// Package chord matches sounding pitch-class sets against quality
// templates and names the results.
package chord

import (
	"github.com/khlin/tabgen/key"
	"github.com/khlin/tabgen/model"
)

// template intervals are semitones above the root. Ordered longest first
// so a full dominant-7th match beats the major triad buried inside it.
var templates = []struct {
	quality   model.Quality
	intervals []int
}{
	{model.QualityDominant7, []int{0, 4, 7, 10}},
	{model.QualityMajor, []int{0, 4, 7}},
	{model.QualityMinor, []int{0, 3, 7}},
	{model.QualityDiminished, []int{0, 3, 6}},
	{model.QualityAugmented, []int{0, 4, 8}},
}

var qualitySuffix = map[model.Quality]string{
	model.QualityMajor:      "",
	model.QualityMinor:      "m",
	model.QualityDiminished: "dim",
	model.QualityAugmented:  "aug",
	model.QualityDominant7:  "7",
	model.QualityOther:      "",
}

// Label names a chord, e.g. "Am", "G7", "Bdim".
func Label(rootPitchClass int, quality model.Quality) string {
	return key.NoteName(rootPitchClass) + qualitySuffix[quality]
}

// Detect matches the pitch classes of a simultaneous note group against
// the quality templates, trying every root. A template whose tones are
// all present wins outright; otherwise the best partial match with at
// least two sounding tones (root included) is taken. Template order and
// ascending roots break ties, keeping detection deterministic.
func Detect(pitches []int) (root int, quality model.Quality, ok bool) {
	seen := map[int]bool{}
	for _, p := range pitches {
		seen[((p%12)+12)%12] = true
	}

	for _, t := range templates {
		for r := 0; r < 12; r++ {
			full := true
			for _, iv := range t.intervals {
				if !seen[(r+iv)%12] {
					full = false
					break
				}
			}
			if full {
				return r, t.quality, true
			}
		}
	}

	// partial matches judge triads before the 7th chord: with tones
	// missing, the plainer reading is the likelier one
	partialOrder := []int{1, 2, 0, 3, 4}
	bestScore := 0
	for _, ti := range partialOrder {
		t := templates[ti]
		for r := 0; r < 12; r++ {
			if !seen[r] {
				continue
			}
			score := 0
			for _, iv := range t.intervals {
				if seen[(r+iv)%12] {
					score++
				}
			}
			if score > bestScore {
				bestScore = score
				root, quality = r, t.quality
			}
		}
	}
	if bestScore < 2 {
		return 0, model.QualityOther, false
	}
	return root, quality, true
}
