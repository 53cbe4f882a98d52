package ambler_test

import (
	"errors"
	"math"
	"testing"

	"github.com/vsariola/ambler"
)

func newRenderer(t *testing.T, song ambler.Song) *ambler.Renderer {
	t.Helper()
	r, err := ambler.NewRenderer(song)
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}
	return r
}

func TestNoteLength(t *testing.T) {
	for _, c := range []struct {
		duration float64
		rate     int
	}{
		{0.75, 44100},
		{0.3, 22050},
		{0.123, 8000},
		{0.1, 44100},
		{1e-5, 8000}, // shorter than one sample
	} {
		song := ambler.DefaultSong()
		song.SampleRate = c.rate
		r := newRenderer(t, song)
		note, err := r.Note(ambler.Event{Melody: "A4", Drone: "C3", Duration: c.duration})
		if err != nil {
			t.Fatalf("Note failed: %v", err)
		}
		if expected := int(math.Floor(c.duration * float64(c.rate))); len(note) != expected {
			t.Errorf("%v s at %v Hz: got %v samples, expected %v", c.duration, c.rate, len(note), expected)
		}
	}
}

func TestTrackLength(t *testing.T) {
	song := ambler.DefaultSong()
	song.NumNotes = 7
	track, events, err := ambler.Play(song)
	if err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if len(events) != 7 {
		t.Fatalf("got %v events, expected 7", len(events))
	}
	if expected := 7 * 33075; len(track) != expected {
		t.Fatalf("got %v samples, expected %v", len(track), expected)
	}
}

func TestTrackIsNormalized(t *testing.T) {
	for _, c := range []struct {
		tone     ambler.ToneModel
		headroom float64
		expected float64
	}{
		{ambler.ToneHarmonic, 0, 0.9},
		{ambler.ToneDecay, 0, 1.0},
		{ambler.ToneHarmonic, 0.5, 0.5},
	} {
		song := ambler.DefaultSong()
		song.NumNotes = 8
		song.SampleRate = 8000
		song.Tone.Model = c.tone
		song.Headroom = c.headroom
		track, _, err := ambler.Play(song)
		if err != nil {
			t.Fatalf("Play failed: %v", err)
		}
		if peak := float64(track.Peak()); math.Abs(peak-c.expected) > tolerance {
			t.Errorf("%v/%v: got peak %v, expected %v", c.tone, c.headroom, peak, c.expected)
		}
		for i, v := range track {
			if q := math.Round(float64(v) * math.MaxInt16); q > math.MaxInt16 || q < math.MinInt16 {
				t.Fatalf("%v/%v: sample %v (%v) would need clamping", c.tone, c.headroom, i, v)
			}
		}
	}
}

func TestNotesStartAndEndSilent(t *testing.T) {
	song := ambler.DefaultSong()
	song.NumNotes = 6
	song.SampleRate = 8000
	track, _, err := ambler.Play(song)
	if err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	n := song.SamplesPerNote()
	for i := 0; i < song.NumNotes; i++ {
		first, last := track[i*n], track[(i+1)*n-1]
		if math.Abs(float64(first)) > tolerance || math.Abs(float64(last)) > tolerance {
			t.Errorf("note %v: starts at %v and ends at %v, expected 0", i, first, last)
		}
	}
}

func TestZeroNotes(t *testing.T) {
	song := ambler.DefaultSong()
	song.NumNotes = 0
	track, events, err := ambler.Play(song)
	if err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if len(track) != 0 || len(events) != 0 {
		t.Fatalf("got %v samples and %v events, expected none", len(track), len(events))
	}
}

func TestSilentPitch(t *testing.T) {
	song := ambler.DefaultSong()
	song.Pitches = ambler.PitchTable{"rest": 0}
	song.Scale = ambler.Scale{"rest"}
	song.Accompaniment = ambler.Accompaniment{Mode: ambler.AccompanimentNone}
	song.NumNotes = 4
	song.SampleRate = 8000
	track, _, err := ambler.Play(song)
	if err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if len(track) != 4*song.SamplesPerNote() {
		t.Fatalf("got %v samples, expected %v", len(track), 4*song.SamplesPerNote())
	}
	for i, v := range track {
		if v != 0 {
			t.Fatalf("sample %v is %v, expected silence", i, v)
		}
	}
}

func TestDroneMix(t *testing.T) {
	song := ambler.DefaultSong()
	song.SampleRate = 8000
	r := newRenderer(t, song)
	melody, err := r.Note(ambler.Event{Melody: "E4", Duration: 0.5})
	if err != nil {
		t.Fatalf("Note failed: %v", err)
	}
	drone, err := r.Note(ambler.Event{Melody: "C3", Duration: 0.5})
	if err != nil {
		t.Fatalf("Note failed: %v", err)
	}
	mixed, err := r.Note(ambler.Event{Melody: "E4", Drone: "C3", Duration: 0.5})
	if err != nil {
		t.Fatalf("Note failed: %v", err)
	}
	for i := range mixed {
		expected := float64(melody[i]) + 0.4*float64(drone[i])
		if math.Abs(float64(mixed[i])-expected) > 1e-5 {
			t.Fatalf("sample %v: got %v, expected %v", i, mixed[i], expected)
		}
	}
}

func TestChordMix(t *testing.T) {
	song := ambler.DefaultSong()
	song.SampleRate = 8000
	song.Tone.Model = ambler.ToneDecay
	r := newRenderer(t, song)
	chord := ambler.Chord{"C3", "E3", "G3"}
	voices := make([]ambler.AudioBuffer, 0, 4)
	for _, p := range append(ambler.Chord{"C5"}, chord...) {
		v, err := r.Note(ambler.Event{Melody: p, Duration: 0.25})
		if err != nil {
			t.Fatalf("Note failed: %v", err)
		}
		voices = append(voices, v)
	}
	mixed, err := r.Note(ambler.Event{Melody: "C5", Chord: chord, Duration: 0.25})
	if err != nil {
		t.Fatalf("Note failed: %v", err)
	}
	for i := range mixed {
		expected := float64(voices[0][i]) + 0.7*(float64(voices[1][i])+float64(voices[2][i])+float64(voices[3][i]))
		if math.Abs(float64(mixed[i])-expected) > 1e-5 {
			t.Fatalf("sample %v: got %v, expected %v", i, mixed[i], expected)
		}
	}
}

func TestUnknownPitch(t *testing.T) {
	r := newRenderer(t, ambler.DefaultSong())
	for _, e := range []ambler.Event{
		{Melody: "Q4", Duration: 0.1},
		{Melody: "C4", Drone: "Q2", Duration: 0.1},
		{Melody: "C4", Chord: ambler.Chord{"C3", "Q3"}, Duration: 0.1},
	} {
		if _, err := r.Note(e); !errors.Is(err, ambler.ErrUnknownPitch) {
			t.Errorf("%+v: got %v, expected ErrUnknownPitch", e, err)
		}
		if _, err := r.Render([]ambler.Event{{Melody: "C4", Duration: 0.1}, e}); !errors.Is(err, ambler.ErrUnknownPitch) {
			t.Errorf("%+v: Render got %v, expected ErrUnknownPitch", e, err)
		}
	}
	song := ambler.DefaultSong()
	song.Scale = ambler.Scale{"C4", "Q4"}
	if _, _, err := ambler.Play(song); !errors.Is(err, ambler.ErrUnknownPitch) {
		t.Errorf("Play got %v, expected ErrUnknownPitch", err)
	}
}

func TestInvalidDurationAndRate(t *testing.T) {
	r := newRenderer(t, ambler.DefaultSong())
	for _, d := range []float64{0, -0.5, math.NaN(), math.Inf(1)} {
		if _, err := r.Note(ambler.Event{Melody: "C4", Duration: d}); !errors.Is(err, ambler.ErrInvalidConfig) {
			t.Errorf("duration %v: got %v, expected ErrInvalidConfig", d, err)
		}
		if _, err := r.Render([]ambler.Event{{Melody: "C4", Duration: d}}); !errors.Is(err, ambler.ErrInvalidConfig) {
			t.Errorf("duration %v: Render got %v, expected ErrInvalidConfig", d, err)
		}
	}
	song := ambler.DefaultSong()
	song.SampleRate = 0
	if _, err := ambler.NewRenderer(song); !errors.Is(err, ambler.ErrInvalidConfig) {
		t.Errorf("got %v, expected ErrInvalidConfig", err)
	}
	if _, _, err := ambler.Play(song); !errors.Is(err, ambler.ErrInvalidConfig) {
		t.Errorf("Play got %v, expected ErrInvalidConfig", err)
	}
}

func TestPlayIsDeterministic(t *testing.T) {
	song := ambler.DefaultSong()
	song.NumNotes = 5
	song.SampleRate = 8000
	a, _, err := ambler.Play(song)
	if err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	b, _, err := ambler.Play(song)
	if err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %v differs: %v != %v", i, a[i], b[i])
		}
	}
}

func TestRenderRejectsMissingHeadroom(t *testing.T) {
	synth, err := ambler.NewSynth(ambler.Tone{Model: ambler.ToneHarmonic})
	if err != nil {
		t.Fatalf("NewSynth failed: %v", err)
	}
	events := []ambler.Event{{Melody: "A4", Duration: 0.1}}
	for _, h := range []float64{0, -0.5, 1.5, math.NaN()} {
		r := &ambler.Renderer{Synth: synth, Pitches: ambler.DefaultPitches, SampleRate: 8000, Headroom: h}
		if _, err := r.Render(events); !errors.Is(err, ambler.ErrInvalidConfig) {
			t.Errorf("headroom %v: got %v, expected ErrInvalidConfig", h, err)
		}
	}
	r := &ambler.Renderer{Synth: synth, Pitches: ambler.DefaultPitches, SampleRate: 8000, Headroom: 0.5}
	track, err := r.Render(events)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if peak := float64(track.Peak()); math.Abs(peak-0.5) > tolerance {
		t.Fatalf("got peak %v, expected 0.5", peak)
	}
}

func TestEnvelopeWithoutAttack(t *testing.T) {
	song := ambler.DefaultSong()
	song.SampleRate = 8000
	song.Tone.Attack = 1e-9
	r := newRenderer(t, song)
	note, err := r.Note(ambler.Event{Melody: "A4", Duration: 0.5})
	if err != nil {
		t.Fatalf("Note failed: %v", err)
	}
	// no attack ramp: the first samples follow the raw harmonic sum
	w := 2 * math.Pi * 440.0
	tt := 1.0 / 8000
	expected := math.Sin(w*tt) + 0.5*math.Sin(2*w*tt) + 0.25*math.Sin(3*w*tt)
	if math.Abs(float64(note[1])-expected) > 1e-5 {
		t.Fatalf("got %v, expected %v", note[1], expected)
	}
}
