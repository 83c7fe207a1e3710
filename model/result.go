package model

// TranscriptionResult is the terminal artifact returned to the caller.
// Content is plain newline-separated text, fixed-width aligned.
// MidiNote carries the aggregated advisory when a non-fatal rendering
// anomaly occurred (field name kept for API compatibility).
type TranscriptionResult struct {
	Title      string     `json:"title"`
	Tempo      int        `json:"tempo"`
	Key        string     `json:"key"`
	OutputType OutputType `json:"output_type"`
	Content    string     `json:"content"`
	MidiNote   string     `json:"midi_note,omitempty"`
}

// Record is a stored transcription: the result plus bookkeeping fields
// used by the history and favorites stores.
type Record struct {
	ID        string `json:"id"`
	Source    string `json:"source"`
	CreatedAt string `json:"created_at"`
	TranscriptionResult
}
