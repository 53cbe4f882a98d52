package ambler

import (
	"fmt"
	"math"

	"github.com/viterin/vek/vek32"
)

// Renderer turns events into audio. It owns every intermediate buffer; only
// the track returned by Render leaves it.
type Renderer struct {
	Synth      Synth
	Pitches    PitchTable
	SampleRate int
	DroneMix   float64 // gain of the drone relative to the melody
	ChordMix   float64 // gain of each chord voice relative to the melody
	Headroom   float64 // peak level of the normalized track, in (0, 1]; NewRenderer resolves the song default
}

// NewRenderer builds the renderer of a song, filling in the default mix
// levels.
func NewRenderer(song Song) (*Renderer, error) {
	if song.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate should be > 0, got %v", ErrInvalidConfig, song.SampleRate)
	}
	synth, err := NewSynth(song.Tone)
	if err != nil {
		return nil, err
	}
	r := &Renderer{
		Synth:      synth,
		Pitches:    song.PitchTable(),
		SampleRate: song.SampleRate,
		DroneMix:   song.Accompaniment.DroneMix,
		ChordMix:   song.Accompaniment.ChordMix,
		Headroom:   song.PeakLevel(),
	}
	if r.DroneMix == 0 {
		r.DroneMix = DefaultDroneMix
	}
	if r.ChordMix == 0 {
		r.ChordMix = DefaultChordMix
	}
	return r, nil
}

// Play sequences and renders a song with a fresh generator seeded from
// song.Seed. It returns the normalized track together with the events it was
// rendered from.
func Play(song Song) (AudioBuffer, []Event, error) {
	if err := song.Validate(); err != nil {
		return nil, nil, err
	}
	seq, err := NewSequencer(song)
	if err != nil {
		return nil, nil, err
	}
	events, err := seq.Sequence(NewRand(song.Seed), song.NumNotes)
	if err != nil {
		return nil, nil, err
	}
	r, err := NewRenderer(song)
	if err != nil {
		return nil, nil, err
	}
	track, err := r.Render(events)
	if err != nil {
		return nil, nil, err
	}
	return track, events, nil
}

// Note renders a single event: the melody plus its drone or chord, not
// normalized.
func (r *Renderer) Note(e Event) (AudioBuffer, error) {
	if !validDuration(e.Duration) {
		return nil, fmt.Errorf("%w: event duration should be > 0, got %v", ErrInvalidConfig, e.Duration)
	}
	n := samplesFor(e.Duration, r.SampleRate)
	note, err := r.tone(e.Melody, n)
	if err != nil {
		return nil, err
	}
	if e.Drone != "" {
		drone, err := r.tone(e.Drone, n)
		if err != nil {
			return nil, fmt.Errorf("drone: %w", err)
		}
		mix(note, drone, r.DroneMix)
	}
	for _, voice := range e.Chord {
		v, err := r.tone(voice, n)
		if err != nil {
			return nil, fmt.Errorf("chord: %w", err)
		}
		mix(note, v, r.ChordMix)
	}
	return note, nil
}

// Render concatenates the notes of all events, back to back, and normalizes
// the result to the headroom. No events give an empty track.
func (r *Renderer) Render(events []Event) (AudioBuffer, error) {
	if r.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate should be > 0, got %v", ErrInvalidConfig, r.SampleRate)
	}
	if !(r.Headroom > 0) || r.Headroom > 1 {
		return nil, fmt.Errorf("%w: headroom should be in (0, 1], got %v", ErrInvalidConfig, r.Headroom)
	}
	length := 0
	for _, e := range events {
		if validDuration(e.Duration) {
			length += samplesFor(e.Duration, r.SampleRate)
		}
	}
	track := make(AudioBuffer, 0, length)
	for i, e := range events {
		note, err := r.Note(e)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		track = append(track, note...)
	}
	track.Normalize(r.Headroom)
	return track, nil
}

func (r *Renderer) tone(pitch string, n int) (AudioBuffer, error) {
	f, err := r.Pitches.Frequency(pitch)
	if err != nil {
		return nil, err
	}
	return r.Synth.Tone(f, n, r.SampleRate), nil
}

func validDuration(d float64) bool {
	return d > 0 && !math.IsInf(d, 0)
}

// mix adds gain * src into dst; both have the same length.
func mix(dst, src AudioBuffer, gain float64) {
	if len(dst) == 0 {
		return
	}
	vek32.MulNumber_Inplace(src, float32(gain))
	vek32.Add_Inplace(dst, src)
}
