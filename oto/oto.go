// Package oto previews rendered tracks on the default audio device.
package oto

import (
	"bytes"
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/vsariola/ambler"
)

type (
	OtoContext struct {
		context    *oto.Context
		sampleRate int
	}

	OtoPlayer struct {
		player *oto.Player
	}
)

const pollInterval = 10 * time.Millisecond

// NewContext opens a mono 16-bit output at the sample rate and waits until
// the device is ready. The underlying library allows only one context per
// process.
func NewContext(sampleRate int) (*OtoContext, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	}
	context, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	return &OtoContext{context: context, sampleRate: sampleRate}, nil
}

// Play starts playing the buffer and returns immediately.
func (c *OtoContext) Play(buffer ambler.AudioBuffer) (ambler.CloserWaiter, error) {
	if err := c.context.Err(); err != nil {
		return nil, fmt.Errorf("oto context failed: %w", err)
	}
	pcm := FloatBufferTo16BitLE(buffer, make([]byte, 0, len(buffer)*2))
	p := c.context.NewPlayer(bytes.NewReader(pcm))
	p.Play()
	return &OtoPlayer{player: p}, nil
}

// Close suspends the device; oto contexts cannot be disposed of.
func (c *OtoContext) Close() error {
	if err := c.context.Suspend(); err != nil {
		return fmt.Errorf("cannot suspend oto context: %w", err)
	}
	return nil
}

func (p *OtoPlayer) Wait() {
	for p.player.IsPlaying() {
		time.Sleep(pollInterval)
	}
}

func (p *OtoPlayer) Close() error {
	if err := p.player.Close(); err != nil {
		return fmt.Errorf("cannot close oto player: %w", err)
	}
	return nil
}
