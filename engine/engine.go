// Package engine runs the core pipeline: quantize, transpose, encode,
// render, assemble. Every stage takes immutable input and returns a new
// value, so renderers for different formats could run in parallel over
// the same quantized grid without coordination.
package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"

	"github.com/khlin/tabgen/grid"
	"github.com/khlin/tabgen/key"
	"github.com/khlin/tabgen/model"
	"github.com/khlin/tabgen/render"
)

var (
	// ErrNoNotes is returned for an empty or malformed event stream.
	ErrNoNotes = errors.New("event stream contains no notes")
	// ErrUnsupportedFormat is returned before any pipeline stage runs.
	ErrUnsupportedFormat = errors.New("unsupported output type")
)

// Key estimates below this confidence get flagged in the advisory note.
const lowKeyConfidence = 0.5

// Options are the caller-supplied parameters of one transcription.
// KeyOffset is in semitones; values outside [-6, 6] are accepted but may
// degrade chord naming for exotic keys.
type Options struct {
	OutputType model.OutputType
	KeyOffset  int
	Title      string
}

// Transcribe converts a detected performance into the requested notation.
// Recoverable anomalies are aggregated into one advisory note on the
// result; only an empty stream or an unknown output type is fatal.
func Transcribe(p model.Performance, opts Options) (model.TranscriptionResult, error) {
	if !opts.OutputType.Valid() {
		return model.TranscriptionResult{},
			errors.Wrapf(ErrUnsupportedFormat, "%q", string(opts.OutputType))
	}
	if len(p.Notes) == 0 {
		return model.TranscriptionResult{}, ErrNoNotes
	}

	var advisories []string
	if p.Key.Confidence > 0 && p.Key.Confidence < lowKeyConfidence {
		advisories = append(advisories,
			fmt.Sprintf("key estimate %s has low confidence (%.2f)",
				key.Label(p.Key.Key), p.Key.Confidence))
	}

	// the reference octave is anchored before the pitch shift, so a
	// +12 offset renders one octave mark higher instead of disappearing
	refPitch := key.ReferencePitch(p.Key.Key, p.Notes)

	tp := key.Transpose(p, opts.KeyOffset)

	tempo := tp.TempoBPM
	if tempo <= 0 {
		tempo = 120
	}
	g, anomalies := grid.Quantize(tp, model.NewBeatGrid(tempo))
	advisories = append(advisories, anomalies...)

	r, _ := render.ForType(opts.OutputType)
	body, renderAnomalies := r.Render(g, render.Context{Key: tp.Key.Key, RefPitch: refPitch})
	advisories = append(advisories, renderAnomalies...)

	advisory := strings.Join(dedupe(advisories), "; ")

	title := opts.Title
	if title == "" {
		title = tp.Title
	}
	if title == "" {
		title = "Unknown"
	}

	return model.TranscriptionResult{
		Title:      title,
		Tempo:      int(math.Round(tempo)),
		Key:        key.Name(tp.Key.Key),
		OutputType: opts.OutputType,
		Content:    assemble(opts.OutputType, int(math.Round(tempo)), tp.Key.Key, body, advisory),
		MidiNote:   advisory,
	}, nil
}

// assemble concatenates header, body and the optional advisory note.
func assemble(t model.OutputType, tempo int, k model.Key, body, advisory string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "♩ = %d\n", tempo)
	fmt.Fprintf(&b, "Key: %s\n", key.Label(k))
	if t == model.OutputFingerstyleTab {
		b.WriteString("Tuning: Standard (EADGBE)\n")
	}
	b.WriteString("\n")
	b.WriteString(body)
	if advisory != "" {
		b.WriteString("\n\nNote: ")
		b.WriteString(advisory)
	}
	b.WriteString("\n")
	return b.String()
}

// dedupe collapses repeated anomaly messages so the caller sees one
// coherent warning, not a list of internal diagnostics.
func dedupe(msgs []string) []string {
	seen := make(map[string]bool, len(msgs))
	var out []string
	for _, m := range msgs {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}
