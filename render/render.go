// Package render turns a quantized grid into aligned text in one of the
// three supported notation formats. Renderers are pure: the same grid and
// context always produce byte-identical output.
package render

import (
	"fmt"

	"github.com/khlin/tabgen/degree"
	"github.com/khlin/tabgen/grid"
	"github.com/khlin/tabgen/model"
)

// Context carries the key and reference octave a render pass encodes
// degrees against.
type Context struct {
	Key      model.Key
	RefPitch int
}

// Renderer is the closed set of format variants.
type Renderer interface {
	Format() model.OutputType
	// Render returns the body text plus any non-fatal anomalies for the
	// advisory note.
	Render(g *grid.Grid, ctx Context) (string, []string)
}

// ForType picks the renderer for an output type.
func ForType(t model.OutputType) (Renderer, bool) {
	switch t {
	case model.OutputChordSheet:
		return ChordSheet{}, true
	case model.OutputFingerstyleTab:
		return Fingerstyle{}, true
	case model.OutputPianoSheet:
		return Piano{}, true
	}
	return nil, false
}

// cellWidth is the fixed width of one melody/degree slot cell.
const cellWidth = 3

func degreeCell(n *grid.SlotNote, enc degree.Encoder) string {
	if n == nil || n.Sustain {
		return degree.Sustain
	}
	return enc.Encode(n.Pitch)
}

func padCell(s string) string {
	return fmt.Sprintf("%*s", cellWidth, s)
}
