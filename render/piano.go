package render

import (
	"strings"

	"github.com/khlin/tabgen/degree"
	"github.com/khlin/tabgen/grid"
	"github.com/khlin/tabgen/model"
	"github.com/khlin/tabgen/util"
)

// slots per printed line of a piano hand
const pianoLineSlots = 16

// Piano renders two independent degree-encoded staves over the same slot
// indices: melody (right hand) and accompaniment (left hand). Identical
// column positions across the two sections keep the hands vertically
// aligned. No chord-label row in this format.
type Piano struct{}

func (Piano) Format() model.OutputType { return model.OutputPianoSheet }

func (Piano) Render(g *grid.Grid, ctx Context) (string, []string) {
	enc := degree.Encoder{Key: ctx.Key, RefPitch: ctx.RefPitch}

	pick := func(s grid.Slot, bass bool) *grid.SlotNote {
		if bass {
			return s.Bass
		}
		return s.Melody
	}

	hand := func(bass bool) []string {
		var lines []string
		for start := 0; start < len(g.Slots); start += pianoLineSlots {
			end := util.Min(start+pianoLineSlots, len(g.Slots))
			cells := make([]string, 0, end-start)
			for i := start; i < end; i++ {
				cells = append(cells, padCell(degreeCell(pick(g.Slots[i], bass), enc)))
			}
			lines = append(lines, strings.Join(cells, " "))
		}
		return lines
	}

	var lines []string
	lines = append(lines, "melody:")
	lines = append(lines, hand(false)...)
	lines = append(lines, "", "accompaniment:")
	lines = append(lines, hand(true)...)

	return strings.Join(lines, "\n"), nil
}
