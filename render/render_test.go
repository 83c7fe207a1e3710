package render

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/khlin/tabgen/grid"
	"github.com/khlin/tabgen/model"
)

func quantize(t *testing.T, p model.Performance) *grid.Grid {
	t.Helper()
	g, _ := grid.Quantize(p, model.NewBeatGrid(120))
	return g
}

func cMajorCtx() Context {
	return Context{
		Key:      model.Key{TonicPitchClass: 0, Mode: model.ModeMajor},
		RefPitch: 60,
	}
}

func twoBarPerformance() model.Performance {
	return model.Performance{
		Notes: []model.Note{
			{Pitch: 60, StartBeat: 0, DurationBeats: 1, Role: model.RoleMelody},
			{Pitch: 64, StartBeat: 1, DurationBeats: 1, Role: model.RoleMelody},
			{Pitch: 67, StartBeat: 2, DurationBeats: 2, Role: model.RoleMelody},
			{Pitch: 40, StartBeat: 0, DurationBeats: 4, Role: model.RoleBass},
			{Pitch: 45, StartBeat: 4, DurationBeats: 4, Role: model.RoleBass},
			{Pitch: 72, StartBeat: 4, DurationBeats: 4, Role: model.RoleMelody},
		},
		Chords: []model.ChordSpan{
			{RootPitchClass: 0, Quality: model.QualityMajor, StartBeat: 0, EndBeat: 4},
			{RootPitchClass: 9, Quality: model.QualityMinor, StartBeat: 4, EndBeat: 8},
		},
		TempoBPM: 120,
		Key:      model.KeyEstimate{Key: model.Key{TonicPitchClass: 0, Mode: model.ModeMajor}, Confidence: 1},
	}
}

func TestCrossFormatColumnCountEquality(t *testing.T) {
	p := twoBarPerformance()
	g := quantize(t, p)
	ctx := cMajorCtx()

	assert := assert.New(t)

	csBody, _ := ChordSheet{}.Render(g, ctx)
	var melodyCells int
	lines := strings.Split(csBody, "\n")
	for i := 1; i < len(lines); i += 2 { // chord line above each melody line
		melodyCells += len(strings.Fields(lines[i]))
	}

	pnBody, _ := Piano{}.Render(g, ctx)
	var pianoMelodyCells, pianoBassCells int
	inBass := false
	for _, line := range strings.Split(pnBody, "\n") {
		switch {
		case line == "melody:" || line == "":
			continue
		case line == "accompaniment:":
			inBass = true
			continue
		case inBass:
			pianoBassCells += len(strings.Fields(line))
		default:
			pianoMelodyCells += len(strings.Fields(line))
		}
	}

	fsBody, _ := Fingerstyle{}.Render(g, ctx)
	fsLine := strings.Split(fsBody, "\n")[0]
	fsCells := (len(fsLine) - len("e|") - strings.Count(fsLine, "|") + 1) / 3

	assert.Equal(len(g.Slots), melodyCells)
	assert.Equal(len(g.Slots), pianoMelodyCells)
	assert.Equal(len(g.Slots), pianoBassCells)
	assert.Equal(len(g.Slots), fsCells)
}

func TestChordSheetBody(t *testing.T) {
	g := quantize(t, twoBarPerformance())
	body, anomalies := ChordSheet{}.Render(g, cMajorCtx())
	lines := strings.Split(body, "\n")

	assert := assert.New(t)
	assert.Empty(anomalies)
	// bar 1: chord line carries C at column 0, melody line starts with the tonic digit
	assert.True(strings.HasPrefix(lines[0], "C"), "chord line: %q", lines[0])
	assert.Equal("  1   -   3   -   5   -   -   -", lines[1])
	// bar 2: Am label, new melody octave
	assert.True(strings.HasPrefix(lines[2], "Am"), "chord line: %q", lines[2])
	assert.Equal(" 1·   -   -   -   -   -   -   -", lines[3])
}

func TestChordSheetSustainAndRestShareTheDash(t *testing.T) {
	p := model.Performance{Notes: []model.Note{
		{Pitch: 60, StartBeat: 0, DurationBeats: 1, Role: model.RoleMelody},
		{Pitch: 62, StartBeat: 2, DurationBeats: 0.5, Role: model.RoleMelody},
	}}
	g := quantize(t, p)
	body, _ := ChordSheet{}.Render(g, cMajorCtx())
	melody := strings.Split(body, "\n")[1]
	assert.Equal(t, []string{"1", "-", "-", "-", "2"}, strings.Fields(melody))
}

func TestChordSheetBlankLineEveryFourBars(t *testing.T) {
	p := model.Performance{Notes: []model.Note{
		{Pitch: 60, StartBeat: 0, DurationBeats: 20, Role: model.RoleMelody},
	}}
	g := quantize(t, p)
	body, _ := ChordSheet{}.Render(g, cMajorCtx())
	lines := strings.Split(body, "\n")

	assert := assert.New(t)
	assert.Equal(5, g.NumBars())
	assert.Equal("", lines[8], "blank separator after four bars")
	assert.Len(lines, 11)
}

func TestPianoHandsStayAligned(t *testing.T) {
	g := quantize(t, twoBarPerformance())
	body, anomalies := Piano{}.Render(g, cMajorCtx())
	lines := strings.Split(body, "\n")

	assert := assert.New(t)
	assert.Empty(anomalies)
	assert.Equal("melody:", lines[0])

	var melodyLines, bassLines []string
	inBass := false
	for _, line := range lines[1:] {
		switch {
		case line == "":
		case line == "accompaniment:":
			inBass = true
		case inBass:
			bassLines = append(bassLines, line)
		default:
			melodyLines = append(melodyLines, line)
		}
	}
	assert.Equal(len(melodyLines), len(bassLines))
	for i := range melodyLines {
		assert.Equal(utf8.RuneCountInString(melodyLines[i]),
			utf8.RuneCountInString(bassLines[i]), "line %d width", i)
	}
	// E2 is degree 3, two octaves below the melody reference
	assert.Contains(bassLines[0], "3,,")
}

func TestFingerstyleMapsOpenStrings(t *testing.T) {
	p := model.Performance{Notes: []model.Note{
		{Pitch: 40, StartBeat: 0, DurationBeats: 1, Role: model.RoleBass},
		{Pitch: 64, StartBeat: 1, DurationBeats: 1, Role: model.RoleMelody},
	}}
	g := quantize(t, p)
	body, anomalies := Fingerstyle{}.Render(g, cMajorCtx())
	lines := strings.Split(body, "\n")

	assert := assert.New(t)
	assert.Empty(anomalies)
	assert.Len(lines, 6)
	assert.True(strings.HasPrefix(lines[0], "e|"))
	assert.True(strings.HasPrefix(lines[5], "E|"))
	// open low E in slot 0, open high e in slot 2
	assert.True(strings.HasPrefix(lines[5], "E|0--"), "line: %q", lines[5])
	assert.True(strings.HasPrefix(lines[0], "e|------0--"), "line: %q", lines[0])
}

func TestFingerstyleDropsUnplayablePitch(t *testing.T) {
	p := model.Performance{Notes: []model.Note{
		{Pitch: 28, StartBeat: 0, DurationBeats: 1, Role: model.RoleBass},
		{Pitch: 60, StartBeat: 1, DurationBeats: 1, Role: model.RoleMelody},
	}}
	g := quantize(t, p)
	body, anomalies := Fingerstyle{}.Render(g, cMajorCtx())

	assert := assert.New(t)
	assert.Len(anomalies, 1)
	assert.Contains(anomalies[0], "out of playable range")
	// the rest of the tab still renders
	assert.Contains(body, "1--")
}

func TestFingerstyleBassPrefersBassStrings(t *testing.T) {
	// E3 = 52 fits on D(fret 2), A(fret 7) and E(fret 12); bass role must
	// land on A or E
	p := model.Performance{Notes: []model.Note{
		{Pitch: 52, StartBeat: 0, DurationBeats: 1, Role: model.RoleBass},
	}}
	g := quantize(t, p)
	body, _ := Fingerstyle{}.Render(g, cMajorCtx())
	lines := strings.Split(body, "\n")

	assert := assert.New(t)
	assert.NotContains(lines[3], "2") // not on the D string
	assert.Contains(lines[4], "7")    // continuity from fret 0 prefers A over E
}

func TestFingerstylePositionContinuity(t *testing.T) {
	// G4 = 67: e string fret 3 or B string fret 8. After fretting 10 on
	// another string, fret 8 is closer than 3.
	p := model.Performance{Notes: []model.Note{
		{Pitch: 69, StartBeat: 0, DurationBeats: 1, Role: model.RoleMelody}, // A4: e5, B10, G14
		{Pitch: 67, StartBeat: 1, DurationBeats: 1, Role: model.RoleMelody},
	}}
	g := quantize(t, p)
	body, _ := Fingerstyle{}.Render(g, cMajorCtx())
	lines := strings.Split(body, "\n")

	assert := assert.New(t)
	// first note: fret 5 on e (continuity from open position)
	assert.True(strings.HasPrefix(lines[0], "e|5--"), "line: %q", lines[0])
	// second note: fret 3 on e (|3-5| < |8-5|)
	assert.Contains(lines[0], "3--")
}

func TestForType(t *testing.T) {
	assert := assert.New(t)
	for _, ot := range []model.OutputType{model.OutputChordSheet, model.OutputFingerstyleTab, model.OutputPianoSheet} {
		r, ok := ForType(ot)
		assert.True(ok)
		assert.Equal(ot, r.Format())
	}
	_, ok := ForType("pdf")
	assert.False(ok)
}

func TestRenderIsIdempotent(t *testing.T) {
	g := quantize(t, twoBarPerformance())
	ctx := cMajorCtx()
	assert := assert.New(t)
	for _, r := range []Renderer{ChordSheet{}, Fingerstyle{}, Piano{}} {
		a, _ := r.Render(g, ctx)
		b, _ := r.Render(g, ctx)
		assert.Equal(a, b)
	}
}
