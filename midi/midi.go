// Package midi adapts a Standard MIDI File into the event stream the
// core pipeline consumes: role-tagged notes, chord spans, a tempo
// estimate and a key estimate. Audio-to-MIDI conversion happens upstream
// and is not this module's concern.
package midi

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/khlin/tabgen/chord"
	"github.com/khlin/tabgen/key"
	"github.com/khlin/tabgen/model"
)

// Notes at or above middle C are treated as melody, the rest as bass.
const melodySplitPitch = 60

// ReadFile parses an SMF file, converting library panics into errors.
// https://github.com/gomidi/midi/issues/20
func ReadFile(path string) (s *smf.SMF, e error) {
	var blank smf.SMF

	defer func() {
		if r, ok := recover().(string); ok {
			e = errors.New(r)
		}
	}()

	dat, err := os.ReadFile(path)
	if err != nil {
		return &blank, errors.Wrap(err, "reading midi file")
	}
	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return &blank, errors.Wrap(err, "parsing midi file")
	}
	return res, nil
}

// ReadPerformance reads an SMF file and extracts the performance event
// stream from it.
func ReadPerformance(path string) (model.Performance, error) {
	s, err := ReadFile(path)
	if err != nil {
		return model.Performance{}, err
	}
	p := FromSMF(s)
	if p.Title == "" {
		p.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return p, nil
}

// FromSMF walks every track, pairs note on/off events into Notes and
// derives tempo, title, chord spans and a key estimate.
func FromSMF(s *smf.SMF) model.Performance {
	ticksPerBeat := 960.0
	if mt, ok := s.TimeFormat.(smf.MetricTicks); ok && mt > 0 {
		ticksPerBeat = float64(mt)
	}

	var p model.Performance
	p.TempoBPM = 120

	type onset struct{ startTicks int64 }
	tempoSet := false

	for _, track := range s.Tracks {
		var absTicks int64
		pressed := map[uint8][]onset{}
		for _, event := range track {
			absTicks += int64(event.Delta)
			var channel, k, velocity uint8
			var bpm float64
			var name string
			switch {
			case event.Message.GetNoteOn(&channel, &k, &velocity):
				pressed[k] = append(pressed[k], onset{absTicks})
			case event.Message.GetNoteOff(&channel, &k, &velocity):
				stack := pressed[k]
				if len(stack) == 0 {
					continue
				}
				on := stack[0]
				pressed[k] = stack[1:]
				start := float64(on.startTicks) / ticksPerBeat
				dur := float64(absTicks-on.startTicks) / ticksPerBeat
				role := model.RoleMelody
				if int(k) < melodySplitPitch {
					role = model.RoleBass
				}
				p.Notes = append(p.Notes, model.Note{
					Pitch:         int(k),
					StartBeat:     start,
					DurationBeats: dur,
					Role:          role,
				})
			case event.Message.GetMetaTempo(&bpm):
				if !tempoSet && bpm > 0 {
					p.TempoBPM = bpm
					tempoSet = true
				}
			case event.Message.GetMetaTrackName(&name):
				if p.Title == "" {
					p.Title = name
				}
			}
		}
	}

	sort.SliceStable(p.Notes, func(i, j int) bool {
		return p.Notes[i].StartBeat < p.Notes[j].StartBeat
	})

	p.Chords = detectChordSpans(p.Notes)
	p.Key = key.Estimate(p.Notes)
	return p
}

// detectChordSpans matches the notes sounding in each one-beat window
// against the chord templates and merges consecutive equal labels into
// spans. Beats with no recognizable chord leave a gap.
func detectChordSpans(notes []model.Note) []model.ChordSpan {
	if len(notes) == 0 {
		return nil
	}

	end := 0.0
	for _, n := range notes {
		end = math.Max(end, n.StartBeat+n.DurationBeats)
	}

	var spans []model.ChordSpan
	for b := 0.0; b < end; b++ {
		var sounding []int
		for _, n := range notes {
			if n.StartBeat < b+1 && n.StartBeat+n.DurationBeats > b {
				sounding = append(sounding, n.Pitch)
			}
		}
		root, quality, ok := chord.Detect(sounding)
		if !ok {
			continue
		}
		if len(spans) > 0 {
			last := &spans[len(spans)-1]
			if last.EndBeat == b && last.RootPitchClass == root && last.Quality == quality {
				last.EndBeat = b + 1
				continue
			}
		}
		spans = append(spans, model.ChordSpan{
			RootPitchClass: root,
			Quality:        quality,
			StartBeat:      b,
			EndBeat:        b + 1,
		})
	}
	return spans
}

// Summary is a one-line description of a performance, used by inspect.
func Summary(p model.Performance) string {
	return fmt.Sprintf("%q: %d notes, %d chord spans, ♩ = %.0f, key %s (%.2f)",
		p.Title, len(p.Notes), len(p.Chords), p.TempoBPM,
		key.Label(p.Key.Key), p.Key.Confidence)
}
