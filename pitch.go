package ambler

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrUnknownPitch is returned when a pitch name is missing from the pitch
	// table. It always indicates a bug in the song, so it is never retried.
	ErrUnknownPitch = errors.New("unknown pitch")

	// ErrInvalidConfig is returned when a song cannot be rendered at all, e.g.
	// because its sample rate or note duration is not positive.
	ErrInvalidConfig = errors.New("invalid configuration")
)

type (
	// PitchTable maps pitch names, e.g. "C4", to their frequencies in Hz. A
	// frequency of 0 is legal and renders as silence.
	PitchTable map[string]float64

	// Scale is the ordered list of pitches the melody is allowed to walk on.
	// The sequencer refers to the pitches by their index, so the order matters:
	// pitches must be strictly ascending in frequency.
	Scale []string

	// Chord is a single voicing of the chord accompaniment, every voice being a
	// pitch name.
	Chord []string
)

// DefaultPitches is the equal temperament table from C3 to E5.
var DefaultPitches = PitchTable{
	"C3": 130.81, "D3": 146.83, "E3": 164.81, "F3": 174.61, "G3": 196.00,
	"A3": 220.00, "B3": 246.94,

	"C4": 261.63, "D4": 293.66, "E4": 329.63, "F4": 349.23, "G4": 392.00,
	"A4": 440.00, "B4": 493.88,

	"C5": 523.25, "D5": 587.33, "E5": 659.25,
}

// PeacefulScale is a C major pentatonic-ish scale without harsh dissonances.
var PeacefulScale = Scale{"C4", "D4", "E4", "G4", "A4", "C5", "D5"}

// Frequency returns the frequency of the named pitch, or an error wrapping
// ErrUnknownPitch if the table does not have it.
func (t PitchTable) Frequency(name string) (float64, error) {
	f, ok := t[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownPitch, name)
	}
	return f, nil
}

// Merge returns a new table with the entries of o added on top of t.
func (t PitchTable) Merge(o PitchTable) PitchTable {
	ret := make(PitchTable, len(t)+len(o))
	for k, v := range t {
		ret[k] = v
	}
	for k, v := range o {
		ret[k] = v
	}
	return ret
}

// Validate checks that every frequency in the table is finite and not
// negative.
func (t PitchTable) Validate() error {
	for name, f := range t {
		if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
			return fmt.Errorf("%w: pitch %q has frequency %v", ErrInvalidConfig, name, f)
		}
	}
	return nil
}

// Index returns the position of the pitch in the scale, or -1 if the scale
// does not contain it.
func (s Scale) Index(name string) int {
	for i, p := range s {
		if p == name {
			return i
		}
	}
	return -1
}

// Validate checks that the scale is not empty, every pitch is in the table
// and the pitches are strictly ascending, which also rules out duplicates.
func (s Scale) Validate(t PitchTable) error {
	if len(s) == 0 {
		return fmt.Errorf("%w: scale is empty", ErrInvalidConfig)
	}
	prev := math.Inf(-1)
	for i, name := range s {
		f, err := t.Frequency(name)
		if err != nil {
			return fmt.Errorf("scale position %d: %w", i, err)
		}
		if f <= prev {
			return fmt.Errorf("%w: scale is not strictly ascending at %q (position %d)", ErrInvalidConfig, name, i)
		}
		prev = f
	}
	return nil
}

// Validate checks that the chord has at least one voice and that every voice
// is in the table.
func (c Chord) Validate(t PitchTable) error {
	if len(c) == 0 {
		return fmt.Errorf("%w: chord has no voices", ErrInvalidConfig)
	}
	for _, name := range c {
		if _, err := t.Frequency(name); err != nil {
			return err
		}
	}
	return nil
}
