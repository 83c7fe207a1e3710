package model

type TranscribeRequestBody struct {
	MidiPath   string     `json:"midi_path"`
	Title      string     `json:"title"`
	OutputType OutputType `json:"output_type"`
	KeyOffset  int        `json:"key_offset"`
}

type FavoriteRequestBody struct {
	RecordID string `json:"record_id"`
}

type StatusResponse struct {
	Status  string `json:"status"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
