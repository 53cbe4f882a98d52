package ambler

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

type (
	// Song holds everything needed to render a piece: the audio format, the
	// length and the seed of the piece, the scale the melody walks on and the
	// accompaniment and tone settings. The zero values of the optional fields
	// mean "use the default", so a song file only needs to list what it
	// changes; see DefaultSong.
	Song struct {
		SampleRate   int
		NoteDuration float64 // in seconds
		NumNotes     int
		Seed         uint64

		Scale   Scale      `yaml:",flow"`
		Pitches PitchTable `yaml:",omitempty"` // added on top of DefaultPitches

		Walk  WalkMode
		Steps []Step `yaml:",flow,omitempty"`

		Accompaniment Accompaniment
		Tone          Tone

		// Headroom is the peak level of the normalized track. 0 means the
		// default of the tone model: 0.9 for harmonic and 1.0 for decay.
		Headroom float64 `yaml:",omitempty"`
	}

	// Step is one candidate move of the random walk: the offset in scale
	// positions and its relative weight.
	Step struct {
		Offset int
		Weight float64
	}

	// Accompaniment configures what is played under the melody. Only the
	// fields of the selected Mode are used.
	Accompaniment struct {
		Mode     AccompanimentMode
		Drone    string  `yaml:",omitempty"`
		DroneMix float64 `yaml:",omitempty"`
		Chords   []Chord `yaml:",flow,omitempty"`
		ChordMix float64 `yaml:",omitempty"` // gain of each chord voice
	}

	// Tone selects and parametrizes the synthesizer.
	Tone struct {
		Model ToneModel

		// harmonic model: envelope attack and release as fractions of the note.
		// 0 selects the default, so an envelope without attack is written
		// as a tiny fraction such as 1e-9.
		Attack  float64 `yaml:",omitempty"`
		Release float64 `yaml:",omitempty"`

		// decay model: decay rate in 1/s and output gain, 0 for the defaults
		Decay float64 `yaml:",omitempty"`
		Gain  float64 `yaml:",omitempty"`
	}

	WalkMode          string
	AccompanimentMode string
	ToneModel         string
)

const (
	WalkRandom  WalkMode = "walk"
	WalkUniform WalkMode = "uniform"

	AccompanimentNone   AccompanimentMode = "none"
	AccompanimentDrone  AccompanimentMode = "drone"
	AccompanimentChords AccompanimentMode = "chords"

	ToneHarmonic ToneModel = "harmonic"
	ToneDecay    ToneModel = "decay"
)

const (
	DefaultSampleRate   = 44100
	DefaultNoteDuration = 0.75
	DefaultNumNotes     = 40
	DefaultSeed         = 42

	DefaultDroneMix = 0.4
	DefaultChordMix = 0.7
	DefaultAttack   = 0.10
	DefaultRelease  = 0.20
	DefaultDecay    = 3.0
	DefaultGain     = 0.5

	HarmonicHeadroom = 0.9
	DecayHeadroom    = 1.0
)

// DefaultSteps favors small melodic steps over staying and leaps.
var DefaultSteps = []Step{
	{Offset: -2, Weight: 0.5},
	{Offset: -1, Weight: 1.5},
	{Offset: 0, Weight: 1.0},
	{Offset: 1, Weight: 1.5},
	{Offset: 2, Weight: 0.5},
}

// DefaultChords is a I-IV-V-vi catalog voiced below the melody.
var DefaultChords = []Chord{
	{"C3", "E3", "G3"},
	{"F3", "A3", "C4"},
	{"G3", "B3", "D4"},
	{"A3", "C4", "E4"},
}

// DefaultSong returns the song rendered when nothing else is configured:
// forty 0.75 s notes walking on PeacefulScale with a C3 drone under every
// other note.
func DefaultSong() Song {
	return Song{
		SampleRate:   DefaultSampleRate,
		NoteDuration: DefaultNoteDuration,
		NumNotes:     DefaultNumNotes,
		Seed:         DefaultSeed,
		Scale:        append(Scale{}, PeacefulScale...),
		Walk:         WalkRandom,
		Accompaniment: Accompaniment{
			Mode:  AccompanimentDrone,
			Drone: "C3",
		},
		Tone: Tone{Model: ToneHarmonic},
	}
}

// ParseSong parses a song from JSON or, failing that, from YAML. Fields
// missing from data keep their DefaultSong values.
func ParseSong(data []byte) (Song, error) {
	song := DefaultSong()
	if errJSON := json.Unmarshal(data, &song); errJSON != nil {
		song = DefaultSong()
		if errYaml := yaml.Unmarshal(data, &song); errYaml != nil {
			return Song{}, fmt.Errorf("the song could not be parsed as .json (%v) or .yml (%v)", errJSON, errYaml)
		}
	}
	return song, nil
}

// LoadSong reads and parses a song file.
func LoadSong(path string) (Song, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Song{}, fmt.Errorf("could not read song %v: %w", path, err)
	}
	song, err := ParseSong(data)
	if err != nil {
		return Song{}, fmt.Errorf("could not parse song %v: %w", path, err)
	}
	return song, nil
}

// PitchTable returns DefaultPitches with the song's own pitches on top.
func (s *Song) PitchTable() PitchTable {
	return DefaultPitches.Merge(s.Pitches)
}

// SamplesPerNote returns floor(NoteDuration * SampleRate).
func (s *Song) SamplesPerNote() int {
	return samplesFor(s.NoteDuration, s.SampleRate)
}

// Seconds returns the nominal length of the song.
func (s *Song) Seconds() float64 {
	return float64(s.NumNotes) * s.NoteDuration
}

// StepWeights returns the configured steps, or DefaultSteps.
func (s *Song) StepWeights() []Step {
	if len(s.Steps) == 0 {
		return DefaultSteps
	}
	return s.Steps
}

// PeakLevel returns the level the rendered track is normalized to.
func (s *Song) PeakLevel() float64 {
	if s.Headroom != 0 {
		return s.Headroom
	}
	if s.Tone.Model == ToneDecay {
		return DecayHeadroom
	}
	return HarmonicHeadroom
}

// Validate checks the song before anything is sequenced or synthesized.
// Missing pitches are reported with ErrUnknownPitch, everything else with
// ErrInvalidConfig.
func (s *Song) Validate() error {
	if s.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate should be > 0, got %v", ErrInvalidConfig, s.SampleRate)
	}
	if !validDuration(s.NoteDuration) {
		return fmt.Errorf("%w: note duration should be > 0, got %v", ErrInvalidConfig, s.NoteDuration)
	}
	if s.NumNotes < 0 {
		return fmt.Errorf("%w: number of notes should be >= 0, got %v", ErrInvalidConfig, s.NumNotes)
	}
	if h := s.Headroom; h < 0 || h > 1 || math.IsNaN(h) {
		return fmt.Errorf("%w: headroom should be in [0, 1], got %v", ErrInvalidConfig, h)
	}
	pitches := s.PitchTable()
	if err := pitches.Validate(); err != nil {
		return err
	}
	if err := s.Scale.Validate(pitches); err != nil {
		return err
	}
	if _, err := NewWalker(s.Walk, s.StepWeights()); err != nil {
		return err
	}
	if _, err := NewAccompanist(s.Accompaniment, pitches); err != nil {
		return err
	}
	if _, err := NewSynth(s.Tone); err != nil {
		return err
	}
	return nil
}

func samplesFor(duration float64, sampleRate int) int {
	return int(math.Floor(duration * float64(sampleRate)))
}
