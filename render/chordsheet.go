package render

import (
	"strings"

	"github.com/khlin/tabgen/chord"
	"github.com/khlin/tabgen/degree"
	"github.com/khlin/tabgen/grid"
	"github.com/khlin/tabgen/model"
)

// ChordSheet renders one chord-label line above one melody-digit line per
// bar, labels aligned to the column of the slot their span starts in.
type ChordSheet struct{}

func (ChordSheet) Format() model.OutputType { return model.OutputChordSheet }

func (ChordSheet) Render(g *grid.Grid, ctx Context) (string, []string) {
	enc := degree.Encoder{Key: ctx.Key, RefPitch: ctx.RefPitch}

	labelAt := make(map[int]string, len(g.Chords))
	for _, c := range g.Chords {
		labelAt[c.Slot] = chord.Label(c.Root, c.Quality)
	}

	per := g.SlotsPerBar()
	var lines []string
	for bar := 0; bar < g.NumBars(); bar++ {
		start := bar * per
		end := start + per
		if end > len(g.Slots) {
			end = len(g.Slots)
		}

		cells := make([]string, 0, per)
		for s := start; s < end; s++ {
			cells = append(cells, padCell(degreeCell(g.Slots[s].Melody, enc)))
		}
		melodyLine := strings.Join(cells, " ")

		chordLine := make([]byte, len(melodyLine))
		for i := range chordLine {
			chordLine[i] = ' '
		}
		for s := start; s < end; s++ {
			label, ok := labelAt[s]
			if !ok {
				continue
			}
			col := (s - start) * (cellWidth + 1)
			for len(chordLine) < col+len(label) {
				chordLine = append(chordLine, ' ')
			}
			copy(chordLine[col:], label)
		}

		lines = append(lines, strings.TrimRight(string(chordLine), " "), melodyLine)
		if (bar+1)%4 == 0 && bar != g.NumBars()-1 {
			lines = append(lines, "")
		}
	}

	return strings.Join(lines, "\n"), nil
}
