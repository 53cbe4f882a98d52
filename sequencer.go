package ambler

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
)

type (
	// Event is one step of the sequence: a melody pitch, optionally with a
	// drone or a chord under it, and the duration of the step in seconds.
	Event struct {
		Melody   string
		Drone    string `yaml:",omitempty"`
		Chord    Chord  `yaml:",flow,omitempty"`
		Duration float64
	}

	// Walker picks the scale position of the next melody note. prev is the
	// position of the previous note, or -1 for the first note of the sequence.
	Walker interface {
		Next(rng *rand.Rand, prev, size int) (int, error)
	}

	// Accompanist decides what is played under the melody of event i.
	Accompanist interface {
		Accompany(rng *rand.Rand, i int, e *Event)
	}

	// RandomWalk moves relative to the previous note. Steps that would leave
	// the scale are discarded and the weights of the rest renormalized, so
	// the walk narrows near the ends of the scale instead of wrapping or
	// clamping.
	RandomWalk struct {
		Steps []Step
	}

	// UniformWalk draws every note independently.
	UniformWalk struct{}

	// Drone plays a fixed pitch under every even event.
	Drone struct {
		Pitch string
	}

	// ChordCatalog plays a uniformly drawn chord under every event.
	ChordCatalog []Chord

	NoAccompaniment struct{}

	// Sequencer produces the events of a song. It holds no random state of
	// its own; the generator is passed to Sequence so that a run owns exactly
	// one.
	Sequencer struct {
		Scale       Scale
		Duration    float64
		Walker      Walker
		Accompanist Accompanist
	}
)

// NewRand returns the generator used for a whole run. The same seed always
// produces the same sequence.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// NewWalker returns the Walker for the mode. Step weights must be finite and
// non-negative with at least one positive weight.
func NewWalker(mode WalkMode, steps []Step) (Walker, error) {
	switch mode {
	case WalkRandom:
		total := 0.0
		for _, s := range steps {
			if !(s.Weight >= 0) || math.IsInf(s.Weight, 0) {
				return nil, fmt.Errorf("%w: step %+d has weight %v", ErrInvalidConfig, s.Offset, s.Weight)
			}
			total += s.Weight
		}
		if total <= 0 {
			return nil, fmt.Errorf("%w: random walk has no step with positive weight", ErrInvalidConfig)
		}
		return RandomWalk{Steps: steps}, nil
	case WalkUniform:
		return UniformWalk{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown walk mode %q", ErrInvalidConfig, mode)
	}
}

// NewAccompanist returns the Accompanist for the accompaniment mode, checking
// that all its pitches are in the table.
func NewAccompanist(a Accompaniment, pitches PitchTable) (Accompanist, error) {
	switch a.Mode {
	case AccompanimentNone, "":
		return NoAccompaniment{}, nil
	case AccompanimentDrone:
		if _, err := pitches.Frequency(a.Drone); err != nil {
			return nil, fmt.Errorf("drone: %w", err)
		}
		return Drone{Pitch: a.Drone}, nil
	case AccompanimentChords:
		chords := a.Chords
		if len(chords) == 0 {
			chords = DefaultChords
		}
		for i, c := range chords {
			if err := c.Validate(pitches); err != nil {
				return nil, fmt.Errorf("chord %d: %w", i, err)
			}
		}
		return ChordCatalog(chords), nil
	default:
		return nil, fmt.Errorf("%w: unknown accompaniment mode %q", ErrInvalidConfig, a.Mode)
	}
}

// NewSequencer builds the sequencer of a validated song.
func NewSequencer(song Song) (*Sequencer, error) {
	walker, err := NewWalker(song.Walk, song.StepWeights())
	if err != nil {
		return nil, err
	}
	accompanist, err := NewAccompanist(song.Accompaniment, song.PitchTable())
	if err != nil {
		return nil, err
	}
	return &Sequencer{
		Scale:       song.Scale,
		Duration:    song.NoteDuration,
		Walker:      walker,
		Accompanist: accompanist,
	}, nil
}

// Sequence returns count events. For every event the melody is drawn before
// the accompaniment, so the draw order is fixed.
func (s *Sequencer) Sequence(rng *rand.Rand, count int) ([]Event, error) {
	if len(s.Scale) == 0 {
		return nil, fmt.Errorf("%w: scale is empty", ErrInvalidConfig)
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: number of events should be >= 0, got %v", ErrInvalidConfig, count)
	}
	events := make([]Event, 0, count)
	prev := -1
	for i := range count {
		idx, err := s.Walker.Next(rng, prev, len(s.Scale))
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		e := Event{Melody: s.Scale[idx], Duration: s.Duration}
		s.Accompanist.Accompany(rng, i, &e)
		events = append(events, e)
		prev = idx
	}
	return events, nil
}

func (w RandomWalk) Next(rng *rand.Rand, prev, size int) (int, error) {
	if prev < 0 {
		return rng.IntN(size), nil
	}
	var candidates [8]Step
	reachable := candidates[:0]
	total := 0.0
	for _, s := range w.Steps {
		if i := prev + s.Offset; i >= 0 && i < size && s.Weight > 0 {
			reachable = append(reachable, s)
			total += s.Weight
		}
	}
	if len(reachable) == 0 {
		return 0, fmt.Errorf("%w: no step reachable from scale position %d", ErrInvalidConfig, prev)
	}
	u := rng.Float64() * total
	for _, s := range reachable {
		if u < s.Weight {
			return prev + s.Offset, nil
		}
		u -= s.Weight
	}
	return prev + reachable[len(reachable)-1].Offset, nil // rounding left u at the very top
}

func (UniformWalk) Next(rng *rand.Rand, _, size int) (int, error) {
	return rng.IntN(size), nil
}

func (d Drone) Accompany(_ *rand.Rand, i int, e *Event) {
	if i%2 == 0 {
		e.Drone = d.Pitch
	}
}

func (c ChordCatalog) Accompany(rng *rand.Rand, _ int, e *Event) {
	if len(c) == 0 {
		return
	}
	e.Chord = slices.Clone(c[rng.IntN(len(c))])
}

func (NoAccompaniment) Accompany(*rand.Rand, int, *Event) {}

// Pitches returns every pitch sounding during the event, melody first.
func (e Event) Pitches() []string {
	ret := make([]string, 0, 2+len(e.Chord))
	ret = append(ret, e.Melody)
	if e.Drone != "" {
		ret = append(ret, e.Drone)
	}
	return append(ret, e.Chord...)
}
