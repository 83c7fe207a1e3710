package render

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/khlin/tabgen/grid"
	"github.com/khlin/tabgen/model"
	"github.com/khlin/tabgen/util"
)

// Standard tuning, treble to bass: e4 B3 G3 D3 A2 E2.
var (
	openPitches = [6]int{64, 59, 55, 50, 45, 40}
	stringNames = [6]string{"e", "B", "G", "D", "A", "E"}
)

const (
	maxFret      = 20
	barsPerChunk = 4
	emptyCell    = "---"
)

// Fingerstyle renders a six-line tablature. String/fret selection keeps
// the fretting hand close to its previous position; bass-role notes stay
// on the two bass strings whenever they fit there.
type Fingerstyle struct{}

func (Fingerstyle) Format() model.OutputType { return model.OutputFingerstyleTab }

func (Fingerstyle) Render(g *grid.Grid, ctx Context) (string, []string) {
	var anomalies []string

	cells := make([][]string, 6)
	for s := range cells {
		cells[s] = make([]string, len(g.Slots))
		for i := range cells[s] {
			cells[s][i] = emptyCell
		}
	}

	prevFret := 0
	place := func(slotIdx int, n *grid.SlotNote, bass bool) {
		if n == nil || n.Sustain {
			return
		}
		free := func(s int) bool {
			return cells[s][slotIdx] == emptyCell
		}
		str, fret, ok := pickPosition(n.Pitch, prevFret, bass, free)
		if !ok && bass {
			// bass strings taken in this slot; fall back to any string
			str, fret, ok = pickPosition(n.Pitch, prevFret, false, free)
		}
		if !ok {
			if inRange(n.Pitch) {
				slog.Warn("no free string in slot, note dropped", "pitch", n.Pitch, "slot", slotIdx)
			} else {
				anomalies = append(anomalies,
					fmt.Sprintf("pitch %d out of playable range, note dropped", n.Pitch))
				slog.Warn("no playable fret", "pitch", n.Pitch, "slot", slotIdx)
			}
			return
		}
		cells[str][slotIdx] = fretCell(fret)
		prevFret = fret
	}

	for i := range g.Slots {
		place(i, g.Slots[i].Melody, false)
		place(i, g.Slots[i].Bass, true)
	}

	per := g.SlotsPerBar()
	chunkSlots := per * barsPerChunk
	var lines []string
	for chunk := 0; chunk < len(g.Slots); chunk += chunkSlots {
		chunkEnd := util.Min(chunk+chunkSlots, len(g.Slots))
		for s := 0; s < 6; s++ {
			var b strings.Builder
			b.WriteString(stringNames[s])
			b.WriteString("|")
			for i := chunk; i < chunkEnd; i++ {
				b.WriteString(cells[s][i])
				if (i+1)%per == 0 || i == chunkEnd-1 {
					b.WriteString("|")
				}
			}
			lines = append(lines, b.String())
		}
		if chunkEnd < len(g.Slots) {
			lines = append(lines, "")
		}
	}

	return strings.Join(lines, "\n"), nil
}

// pickPosition chooses the (string, fret) pair for a pitch, minimizing
// the fret distance from the previous selected fret; ties go to the
// lowest string index (the most treble string able to sound the pitch).
// Bass notes are constrained to the A and E strings when a valid fret
// exists there. free filters out strings already occupied in this slot.
func pickPosition(pitch, prevFret int, bass bool, free func(int) bool) (int, int, bool) {
	lo, hi := 0, 5
	if bass && hasBassPosition(pitch) {
		lo = 4
	}

	bestStr, bestFret, bestDist := -1, 0, 0
	for s := lo; s <= hi; s++ {
		fret := pitch - openPitches[s]
		if fret < 0 || fret > maxFret || !free(s) {
			continue
		}
		dist := util.Abs(fret - prevFret)
		if bestStr == -1 || dist < bestDist {
			bestStr, bestFret, bestDist = s, fret, dist
		}
	}
	if bestStr == -1 {
		return 0, 0, false
	}
	return bestStr, bestFret, true
}

func inRange(pitch int) bool {
	for s := 0; s <= 5; s++ {
		if fret := pitch - openPitches[s]; fret >= 0 && fret <= maxFret {
			return true
		}
	}
	return false
}

func hasBassPosition(pitch int) bool {
	for s := 4; s <= 5; s++ {
		if fret := pitch - openPitches[s]; fret >= 0 && fret <= maxFret {
			return true
		}
	}
	return false
}

func fretCell(fret int) string {
	s := strconv.Itoa(fret)
	return s + strings.Repeat("-", len(emptyCell)-len(s))
}
