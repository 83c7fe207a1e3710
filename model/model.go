package model

// Role tags a note as belonging to the melody or the bass/accompaniment
// voice. The extractor assigns roles; the core never reassigns them.
type Role uint8

const (
	RoleMelody Role = iota
	RoleBass
)

func (r Role) String() string {
	if r == RoleBass {
		return "bass"
	}
	return "melody"
}

// Note is one detected note. Immutable once produced by the extractor.
// Beat positions are fractional beats from the start of the performance.
type Note struct {
	Pitch         int // MIDI-like absolute pitch number
	StartBeat     float64
	DurationBeats float64
	Role          Role
}

// Quality is the chord quality vocabulary the detector distinguishes.
type Quality uint8

const (
	QualityMajor Quality = iota
	QualityMinor
	QualityDiminished
	QualityAugmented
	QualityDominant7
	QualityOther
)

func (q Quality) String() string {
	switch q {
	case QualityMajor:
		return "major"
	case QualityMinor:
		return "minor"
	case QualityDiminished:
		return "diminished"
	case QualityAugmented:
		return "augmented"
	case QualityDominant7:
		return "dominant7"
	}
	return "other"
}

// ChordSpan is a time interval over which one chord is sounding.
// Spans do not overlap; gaps render as "no chord".
type ChordSpan struct {
	RootPitchClass int // 0-11
	Quality        Quality
	StartBeat      float64
	EndBeat        float64
}

// Mode is the scale mode of a Key.
type Mode uint8

const (
	ModeMajor Mode = iota
	ModeMinor
)

func (m Mode) String() string {
	if m == ModeMinor {
		return "minor"
	}
	return "major"
}

// Key is the active key of a transcription. Only the transposer replaces
// it (with a new value, never in place).
type Key struct {
	TonicPitchClass int // 0-11
	Mode            Mode
}

// KeyEstimate is the extractor's key guess plus how much it trusts it.
type KeyEstimate struct {
	Key        Key
	Confidence float64 // 0-1
}

// BeatGrid defines the fixed-width column grid all renderers align to.
type BeatGrid struct {
	TempoBPM            float64
	BeatsPerBar         int
	SubdivisionsPerBeat int
}

const (
	DefaultBeatsPerBar         = 4
	DefaultSubdivisionsPerBeat = 2
)

// NewBeatGrid builds a grid at the default bar/subdivision resolution.
func NewBeatGrid(tempoBPM float64) BeatGrid {
	return BeatGrid{
		TempoBPM:            tempoBPM,
		BeatsPerBar:         DefaultBeatsPerBar,
		SubdivisionsPerBeat: DefaultSubdivisionsPerBeat,
	}
}

// SlotsPerBar is the number of grid columns in one bar.
func (b BeatGrid) SlotsPerBar() int {
	return b.BeatsPerBar * b.SubdivisionsPerBeat
}

// Performance is the event stream consumed from the external
// feature-extraction collaborator: ordered notes, ordered chord spans,
// a tempo estimate and a key estimate.
type Performance struct {
	Title    string
	Notes    []Note
	Chords   []ChordSpan
	TempoBPM float64
	Key      KeyEstimate
}

// OutputType selects one of the three notation formats.
type OutputType string

const (
	OutputChordSheet     OutputType = "chord_sheet"
	OutputFingerstyleTab OutputType = "fingerstyle_tab"
	OutputPianoSheet     OutputType = "piano_sheet"
)

// Valid reports whether t is one of the three supported formats.
func (t OutputType) Valid() bool {
	switch t {
	case OutputChordSheet, OutputFingerstyleTab, OutputPianoSheet:
		return true
	}
	return false
}
