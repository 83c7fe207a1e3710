package key

import (
	"math"

	"github.com/khlin/tabgen/model"
)

// Krumhansl-Kessler tone profiles: the perceived fit of each pitch class
// within a major or minor key, tonic first.
var (
	majorProfile = [12]float64{6.35, 2.23, 3.48, 2.33, 4.38, 4.09, 2.52, 5.19, 2.39, 3.66, 2.29, 2.88}
	minorProfile = [12]float64{6.33, 2.68, 3.52, 5.38, 2.60, 3.53, 2.54, 4.75, 3.98, 2.69, 3.34, 3.17}
)

// Estimate guesses the key of a note stream by correlating its
// duration-weighted pitch-class histogram against the rotated major and
// minor profiles. Confidence reflects how far the winner is ahead of the
// runner-up; a crowded field yields a low value.
func Estimate(notes []model.Note) model.KeyEstimate {
	if len(notes) == 0 {
		return model.KeyEstimate{Key: model.Key{}, Confidence: 0}
	}

	var hist [12]float64
	for _, n := range notes {
		w := n.DurationBeats
		if w <= 0 {
			w = 0.5
		}
		hist[((n.Pitch%12)+12)%12] += w
	}

	best, second := math.Inf(-1), math.Inf(-1)
	var bestKey model.Key
	for tonic := 0; tonic < 12; tonic++ {
		for _, mode := range []model.Mode{model.ModeMajor, model.ModeMinor} {
			profile := &majorProfile
			if mode == model.ModeMinor {
				profile = &minorProfile
			}
			r := correlate(&hist, profile, tonic)
			if r > best {
				second = best
				best = r
				bestKey = model.Key{TonicPitchClass: tonic, Mode: mode}
			} else if r > second {
				second = r
			}
		}
	}

	conf := (best - second) * 5
	conf = math.Max(0, math.Min(1, conf))
	return model.KeyEstimate{Key: bestKey, Confidence: conf}
}

// correlate computes the Pearson correlation between the histogram and a
// profile rotated so its tonic lands on the given pitch class.
func correlate(hist *[12]float64, profile *[12]float64, tonic int) float64 {
	var hMean, pMean float64
	for i := 0; i < 12; i++ {
		hMean += hist[i]
		pMean += profile[i]
	}
	hMean /= 12
	pMean /= 12

	var num, hVar, pVar float64
	for i := 0; i < 12; i++ {
		h := hist[i] - hMean
		p := profile[((i-tonic)%12+12)%12] - pMean
		num += h * p
		hVar += h * h
		pVar += p * p
	}
	if hVar == 0 || pVar == 0 {
		return 0
	}
	return num / math.Sqrt(hVar*pVar)
}
