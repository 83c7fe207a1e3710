// Package grid snaps the detected event stream onto a fixed subdivision
// grid. Every renderer consumes the same Grid, which is what guarantees
// cross-format column alignment.
package grid

import (
	"log/slog"
	"math"
	"sort"

	"github.com/khlin/tabgen/model"
	"github.com/khlin/tabgen/util"
)

// SlotNote is a note's occupancy of one slot: the onset slot carries the
// pitch, following slots carry Sustain instead of a new pitch.
type SlotNote struct {
	Pitch   int
	Sustain bool
}

// Slot is one column of the grid: at most one melody note and one bass
// note. Slots are produced fresh per quantize pass, never shared.
type Slot struct {
	Melody *SlotNote
	Bass   *SlotNote
}

// SlotChord marks the slot where a chord span starts.
type SlotChord struct {
	Slot    int
	Root    int // pitch class
	Quality model.Quality
}

// Grid is the quantized performance all three renderers align to.
type Grid struct {
	Spec   model.BeatGrid
	Slots  []Slot
	Chords []SlotChord
}

func (g *Grid) SlotsPerBar() int {
	return g.Spec.SlotsPerBar()
}

func (g *Grid) NumBars() int {
	per := g.SlotsPerBar()
	return (len(g.Slots) + per - 1) / per
}

// SnapSlot maps a beat position to its nearest grid line. Positions
// exactly halfway between two lines snap to the later one.
func SnapSlot(beat float64, subdivisionsPerBeat int) int {
	return int(math.Floor(beat*float64(subdivisionsPerBeat) + 0.5))
}

// Quantize snaps notes and chord spans onto the grid. Overlapping notes
// of the same role are resolved by truncating the earlier note at the
// later note's onset; this is logged, never fatal. Chord overlaps are
// resolved later-span-wins and reported back as anomalies for the
// advisory note.
func Quantize(p model.Performance, spec model.BeatGrid) (*Grid, []string) {
	g := &Grid{Spec: spec}
	var anomalies []string

	sub := spec.SubdivisionsPerBeat
	total := 0

	type span struct{ start, end int }
	notes := make([]model.Note, len(p.Notes))
	copy(notes, p.Notes)
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].StartBeat < notes[j].StartBeat
	})

	spans := make([]span, len(notes))
	for i, n := range notes {
		start := SnapSlot(n.StartBeat, sub)
		if start < 0 {
			start = 0
		}
		end := util.Max(start+1, SnapSlot(n.StartBeat+n.DurationBeats, sub))
		spans[i] = span{start, end}
		total = util.Max(total, end)
	}

	// truncate same-role overlaps at the later note's onset
	lastIdx := map[model.Role]int{}
	for i, n := range notes {
		if j, ok := lastIdx[n.Role]; ok && spans[j].end > spans[i].start {
			slog.Warn("overlapping notes, truncating earlier",
				"role", n.Role.String(),
				"earlierPitch", notes[j].Pitch,
				"laterPitch", n.Pitch,
				"slot", spans[i].start)
			spans[j].end = util.Max(spans[j].start+1, spans[i].start)
		}
		lastIdx[n.Role] = i
	}

	for _, c := range p.Chords {
		total = util.Max(total, SnapSlot(c.EndBeat, sub))
	}

	g.Slots = make([]Slot, total)
	for i, n := range notes {
		for s := spans[i].start; s < spans[i].end && s < total; s++ {
			sn := &SlotNote{Pitch: n.Pitch, Sustain: s != spans[i].start}
			if n.Role == model.RoleBass {
				g.Slots[s].Bass = sn
			} else {
				g.Slots[s].Melody = sn
			}
		}
	}

	// chord spans: mark start slots, later span wins on collision
	bySlot := map[int]SlotChord{}
	var order []int
	prevEnd := -1
	for _, c := range p.Chords {
		start := SnapSlot(c.StartBeat, sub)
		if start < 0 {
			start = 0
		}
		if start < prevEnd {
			anomalies = append(anomalies, "overlapping chord spans, later span wins")
			slog.Warn("chord span overlaps previous", "slot", start)
		}
		prevEnd = SnapSlot(c.EndBeat, sub)
		if _, dup := bySlot[start]; dup {
			anomalies = append(anomalies, "two chords start in the same slot, keeping the later")
			slog.Warn("chord label collision", "slot", start)
		} else {
			order = append(order, start)
		}
		bySlot[start] = SlotChord{Slot: start, Root: c.RootPitchClass, Quality: c.Quality}
	}
	sort.Ints(order)
	for _, s := range order {
		g.Chords = append(g.Chords, bySlot[s])
	}

	return g, anomalies
}
