package degree

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/khlin/tabgen/model"
)

func cMajor() Encoder {
	return Encoder{
		Key:      model.Key{TonicPitchClass: 0, Mode: model.ModeMajor},
		RefPitch: 60,
	}
}

func TestMajorScaleDegrees(t *testing.T) {
	enc := cMajor()
	cases := map[int]string{
		60: "1", 62: "2", 64: "3", 65: "4", 67: "5", 69: "6", 71: "7",
	}
	assert := assert.New(t)
	for pitch, want := range cases {
		assert.Equal(want, enc.Encode(pitch), "pitch %d", pitch)
	}
}

func TestChromaticPassingTonesGetSharpMarker(t *testing.T) {
	enc := cMajor()
	assert := assert.New(t)
	assert.Equal("1#", enc.Encode(61))
	assert.Equal("2#", enc.Encode(63))
	assert.Equal("4#", enc.Encode(66))
	assert.Equal("5#", enc.Encode(68))
	assert.Equal("6#", enc.Encode(70))
}

func TestOctaveMarks(t *testing.T) {
	enc := cMajor()
	assert := assert.New(t)
	assert.Equal("1·", enc.Encode(72))
	assert.Equal("1··", enc.Encode(84))
	assert.Equal("1,", enc.Encode(48))
	assert.Equal("1,,", enc.Encode(36))
	// the leading tone just below the reference tonic sits an octave down
	assert.Equal("7,", enc.Encode(59))
}

func TestNaturalMinorScaleDegrees(t *testing.T) {
	enc := Encoder{
		Key:      model.Key{TonicPitchClass: 9, Mode: model.ModeMinor},
		RefPitch: 57, // A3
	}
	cases := map[int]string{
		57: "1", 59: "2", 60: "3", 62: "4", 64: "5", 65: "6", 67: "7",
	}
	assert := assert.New(t)
	for pitch, want := range cases {
		assert.Equal(want, enc.Encode(pitch), "pitch %d", pitch)
	}
	assert.Equal("7#", enc.Encode(68), "raised leading tone is a chromatic marker in natural minor")
}

func TestDegreesFollowTheActiveTonic(t *testing.T) {
	enc := Encoder{
		Key:      model.Key{TonicPitchClass: 7, Mode: model.ModeMajor},
		RefPitch: 67,
	}
	assert := assert.New(t)
	assert.Equal("1", enc.Encode(67))
	assert.Equal("4,", enc.Encode(60)) // C4 is the fourth degree of G, an octave down
}
