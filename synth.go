package ambler

import (
	"fmt"
	"math"

	"github.com/viterin/vek/vek32"
)

type (
	// Synth renders a single pitch. Tone returns exactly n samples at times
	// i/sampleRate, i in [0, n).
	Synth interface {
		Tone(freq float64, n, sampleRate int) AudioBuffer
	}

	// HarmonicSynth sums the fundamental with the 2nd and 3rd harmonics at
	// amplitudes 1, 0.5 and 0.25 and shapes the sum with a linear
	// attack/release envelope.
	HarmonicSynth struct {
		Attack  float64 // fraction of the note
		Release float64 // fraction of the note
	}

	// DecaySynth is a plain sine fading out exponentially; the decay is the
	// envelope.
	DecaySynth struct {
		Decay float64 // 1/s
		Gain  float64
	}
)

// NewSynth returns the Synth of the tone model, filling zero parameters with
// the defaults.
func NewSynth(t Tone) (Synth, error) {
	switch t.Model {
	case ToneHarmonic, "":
		s := HarmonicSynth{Attack: t.Attack, Release: t.Release}
		if s.Attack == 0 {
			s.Attack = DefaultAttack
		}
		if s.Release == 0 {
			s.Release = DefaultRelease
		}
		if !inUnitRange(s.Attack) || !inUnitRange(s.Release) {
			return nil, fmt.Errorf("%w: attack and release should be in [0, 1], got %v and %v", ErrInvalidConfig, s.Attack, s.Release)
		}
		return s, nil
	case ToneDecay:
		s := DecaySynth{Decay: t.Decay, Gain: t.Gain}
		if s.Decay == 0 {
			s.Decay = DefaultDecay
		}
		if s.Gain == 0 {
			s.Gain = DefaultGain
		}
		if !(s.Decay > 0) || math.IsInf(s.Decay, 0) || !(s.Gain > 0) || math.IsInf(s.Gain, 0) {
			return nil, fmt.Errorf("%w: decay and gain should be > 0, got %v and %v", ErrInvalidConfig, s.Decay, s.Gain)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: unknown tone model %q", ErrInvalidConfig, t.Model)
	}
}

func (s HarmonicSynth) Tone(freq float64, n, sampleRate int) AudioBuffer {
	buf := make(AudioBuffer, n)
	w := 2 * math.Pi * freq
	for i := range buf {
		t := float64(i) / float64(sampleRate)
		buf[i] = float32(math.Sin(w*t) + 0.5*math.Sin(2*w*t) + 0.25*math.Sin(3*w*t))
	}
	if n > 0 {
		vek32.Mul_Inplace(buf, Envelope(n, s.Attack, s.Release))
	}
	return buf
}

func (s DecaySynth) Tone(freq float64, n, sampleRate int) AudioBuffer {
	buf := make(AudioBuffer, n)
	w := 2 * math.Pi * freq
	for i := range buf {
		t := float64(i) / float64(sampleRate)
		buf[i] = float32(math.Sin(w*t) * math.Exp(-s.Decay*t) * s.Gain)
	}
	return buf
}

// Envelope returns n gains: int(n*attack) samples ramping linearly from 0 to
// 1, then 1, then int(n*release) samples ramping from 1 to 0. Both ramps
// include their end points, so the first and the last gain are 0 whenever
// the ramps are at least one sample long. When the ramps overlap, the
// release wins.
func Envelope(n int, attack, release float64) []float32 {
	env := make([]float32, n)
	for i := range env {
		env[i] = 1
	}
	attackSamples := min(int(float64(n)*attack), n)
	for i, v := range ramp(attackSamples, 0, 1) {
		env[i] = v
	}
	releaseSamples := min(int(float64(n)*release), n)
	for i, v := range ramp(releaseSamples, 1, 0) {
		env[n-releaseSamples+i] = v
	}
	return env
}

// ramp returns n evenly spaced values from start to stop, both included.
func ramp(n int, start, stop float32) []float32 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float32{start}
	}
	ret := make([]float32, n)
	step := float64(stop-start) / float64(n-1)
	for i := range ret {
		ret[i] = float32(float64(start) + step*float64(i))
	}
	ret[n-1] = stop
	return ret
}

func inUnitRange(x float64) bool {
	return x >= 0 && x <= 1
}
