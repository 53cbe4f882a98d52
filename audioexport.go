package ambler

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/viterin/vek/vek32"
)

// AudioBuffer is a mono track of float samples, nominally in [-1, 1].
type AudioBuffer []float32

// Peak returns the largest absolute sample value, 0 for an empty buffer.
func (b AudioBuffer) Peak() float32 {
	if len(b) == 0 {
		return 0
	}
	return vek32.Max(vek32.Abs(b))
}

// Normalize scales the buffer in place so that its peak equals headroom. An
// empty or silent buffer is left untouched.
func (b AudioBuffer) Normalize(headroom float64) {
	peak := b.Peak()
	if peak == 0 {
		return
	}
	vek32.MulNumber_Inplace(b, float32(headroom/float64(peak)))
}

// Duration returns the playing time of the buffer at the sample rate.
func (b AudioBuffer) Duration(sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(len(b)) * time.Second / time.Duration(sampleRate)
}

// Quantize converts a sample to 16-bit PCM: round(s * 32767), clamped to the
// int16 range.
func Quantize(s float32) int16 {
	v := math.Round(float64(s) * math.MaxInt16)
	if v < math.MinInt16 {
		return math.MinInt16
	}
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	return int16(v)
}

// PCM16 quantizes the whole buffer.
func (b AudioBuffer) PCM16() []int16 {
	ret := make([]int16, len(b))
	for i, v := range b {
		ret[i] = Quantize(v)
	}
	return ret
}

// Raw returns the buffer as headerless 16-bit little-endian PCM.
func (b AudioBuffer) Raw() ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, b.PCM16()); err != nil {
		return nil, fmt.Errorf("could not binary write data to binary buffer: %w", err)
	}
	return buf.Bytes(), nil
}

// Wav writes the buffer as a mono 16-bit PCM .wav file.
func (b AudioBuffer) Wav(w io.WriteSeeker, sampleRate int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("%w: sample rate should be > 0, got %v", ErrInvalidConfig, sampleRate)
	}
	pcm := b.PCM16()
	data := make([]int, len(pcm))
	for i, v := range pcm {
		data[i] = int(v)
	}
	enc := wav.NewEncoder(w, sampleRate, 16, 1, 1) // 1 = PCM
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("could not write wav data: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("could not finish wav file: %w", err)
	}
	return nil
}
