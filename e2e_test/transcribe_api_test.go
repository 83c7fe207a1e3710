//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/khlin/tabgen/cmd"
	"github.com/khlin/tabgen/model"
)

func writeTestMidi(path string) error {
	const ticks = 960
	var track smf.Track
	track = append(track, smf.Event{Delta: 0, Message: smf.MetaTempo(120)})
	track = append(track, smf.Event{Delta: 0, Message: smf.Message(midi.NoteOn(0, 60, 100))})
	track = append(track, smf.Event{Delta: ticks, Message: smf.Message(midi.NoteOff(0, 60))})
	track = append(track, smf.Event{Delta: 0, Message: smf.Message(midi.NoteOn(0, 64, 100))})
	track = append(track, smf.Event{Delta: ticks, Message: smf.Message(midi.NoteOff(0, 64))})
	track.Close(0)

	var s smf.SMF
	s.TimeFormat = smf.MetricTicks(ticks)
	s.Tracks = append(s.Tracks, track)
	return s.WriteFile(path)
}

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "tabgen-e2e")
	if err != nil {
		panic(err.Error())
	}
	defer os.RemoveAll(dir)

	if err := writeTestMidi(filepath.Join(dir, "song.mid")); err != nil {
		panic(err.Error())
	}

	viper.Set("data_dir", filepath.Join(dir, "data"))
	viper.Set("media_dir", dir)
	if err := cmd.OpenStore(); err != nil {
		panic(err.Error())
	}

	os.Exit(m.Run())
}

func transcribeReq(body model.TranscribeRequestBody) *httptest.ResponseRecorder {
	data, err := json.Marshal(body)
	if err != nil {
		panic(err.Error())
	}
	req := httptest.NewRequest(http.MethodPost, "/api/transcribe", bytes.NewReader(data))
	w := httptest.NewRecorder()
	cmd.HandleTranscribe(w, req)
	return w
}

func TestTranscribeChordSheetE2E(t *testing.T) {
	w := transcribeReq(model.TranscribeRequestBody{
		MidiPath:   "song.mid",
		OutputType: model.OutputChordSheet,
	})
	resp := w.Result()
	respBody, _ := io.ReadAll(resp.Body)

	assert := assert.New(t)
	assert.Equal(200, resp.StatusCode)

	var rec model.Record
	assert.NoError(json.Unmarshal(respBody, &rec))
	assert.Equal(model.OutputChordSheet, rec.OutputType)
	assert.Equal(120, rec.Tempo)
	assert.Contains(rec.Content, "♩ = 120")
	assert.NotEmpty(rec.ID)
}

func TestTranscribeUnknownFormatE2E(t *testing.T) {
	w := transcribeReq(model.TranscribeRequestBody{
		MidiPath:   "song.mid",
		OutputType: "karaoke",
	})
	assert.Equal(t, 400, w.Result().StatusCode)
}

func TestTranscribeMissingFileE2E(t *testing.T) {
	w := transcribeReq(model.TranscribeRequestBody{
		MidiPath:   "missing.mid",
		OutputType: model.OutputChordSheet,
	})
	assert.Equal(t, 400, w.Result().StatusCode)
}

func TestHistoryE2E(t *testing.T) {
	transcribeReq(model.TranscribeRequestBody{
		MidiPath:   "song.mid",
		OutputType: model.OutputPianoSheet,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	w := httptest.NewRecorder()
	cmd.HandleHistory(w, req)

	respBody, _ := io.ReadAll(w.Result().Body)
	var records []model.Record
	assert := assert.New(t)
	assert.NoError(json.Unmarshal(respBody, &records))
	assert.NotEmpty(records)
	assert.Equal(model.OutputPianoSheet, records[0].OutputType)
}
