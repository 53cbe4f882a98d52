package spectrum

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// DominantFrequency returns the frequency in Hz of the strongest positive
// frequency bin of the samples, refined by parabolic interpolation between
// the neighbouring bins. Silence and too short input give 0.
func DominantFrequency(samples []float64, sampleRate int) float64 {
	n := len(samples)
	if n < 4 || sampleRate <= 0 {
		return 0
	}
	windowed := append([]float64(nil), samples...)
	window.Apply(windowed, window.Hann)
	spectrum := fft.FFTReal(windowed)
	best, bestMag := 0, 0.0
	mags := make([]float64, n/2+1)
	for k := 1; k <= n/2; k++ {
		mags[k] = cmplx.Abs(spectrum[k])
		if mags[k] > bestMag {
			best, bestMag = k, mags[k]
		}
	}
	if bestMag == 0 {
		return 0
	}
	bin := float64(best)
	if best > 1 && best < n/2 {
		a, b, c := mags[best-1], mags[best], mags[best+1]
		if d := a - 2*b + c; d != 0 {
			bin += 0.5 * (a - c) / d
		}
	}
	return bin * float64(sampleRate) / float64(n)
}

// Slots splits the samples into consecutive slots of size samples each and
// returns the dominant frequency of every full slot.
func Slots(samples []float64, sampleRate, size int) []float64 {
	if size <= 0 {
		return nil
	}
	ret := make([]float64, 0, len(samples)/size)
	for start := 0; start+size <= len(samples); start += size {
		ret = append(ret, DominantFrequency(samples[start:start+size], sampleRate))
	}
	return ret
}

// Peak returns the largest absolute value of the samples.
func Peak(samples []float64) float64 {
	ret := 0.0
	for _, v := range samples {
		ret = math.Max(ret, math.Abs(v))
	}
	return ret
}
