// Package oto provides a multitrack.AudioContext playing through the system
// audio device using github.com/ebitengine/oto/v3.
package oto

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ebitengine/oto/v3"
	"github.com/vsariola/multitrack"
)

type (
	OtoContext struct {
		context    *oto.Context
		sampleRate int
	}

	// OtoOutput pulls audio from the processor whenever the oto player needs
	// more data.
	OtoOutput struct {
		player    *oto.Player
		processor multitrack.AudioProcessor
		buffer    multitrack.AudioBuffer
		tmpBuffer []byte
		err       error
		once      sync.Once
		done      chan struct{}
	}
)

const bytesPerFrame = 4 // 2 channels, 16 bits each

var errClosed = errors.New("oto output closed")

// NewContext opens the audio device. Only one context can exist per process.
func NewContext(sampleRate int) (*OtoContext, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	}
	context, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	return &OtoContext{context: context, sampleRate: sampleRate}, nil
}

func (c *OtoContext) Play(f multitrack.AudioProcessor) multitrack.CloserWaiter {
	o := &OtoOutput{processor: f, done: make(chan struct{})}
	o.player = c.context.NewPlayer(o)
	o.player.Play()
	return o
}

func (c *OtoContext) Close() error {
	if err := c.context.Suspend(); err != nil {
		return fmt.Errorf("cannot suspend oto context: %w", err)
	}
	return nil
}

// Read implements io.Reader for the oto player.
func (o *OtoOutput) Read(p []byte) (int, error) {
	select {
	case <-o.done:
		return 0, errClosed
	default:
	}
	frames := len(p) / bytesPerFrame
	if cap(o.buffer) < frames {
		o.buffer = make(multitrack.AudioBuffer, frames)
	}
	buf := o.buffer[:frames]
	if err := o.processor(buf); err != nil {
		o.finish(err)
		return 0, err
	}
	// we reuse the old capacity tmpBuffer by setting its length to zero
	o.tmpBuffer = BufferTo16BitLE(buf, o.tmpBuffer[:0])
	return copy(p, o.tmpBuffer), nil
}

func (o *OtoOutput) Close() error {
	o.finish(nil)
	if err := o.player.Close(); err != nil {
		return fmt.Errorf("cannot close oto player: %w", err)
	}
	return nil
}

func (o *OtoOutput) Wait() error {
	<-o.done
	return o.err
}

func (o *OtoOutput) finish(err error) {
	o.once.Do(func() {
		o.err = err
		close(o.done)
	})
}
