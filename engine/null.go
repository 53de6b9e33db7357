package engine

import (
	"sync"
	"time"

	"github.com/vsariola/multitrack"
)

type (
	// NullContext is an AudioContext without a device: it calls the processor
	// at roughly real time pace and discards the output. Useful for headless
	// runs where the transport should still advance.
	NullContext struct {
		SampleRate int
		Period     time.Duration
	}

	nullOutput struct {
		once sync.Once
		stop chan struct{}
		done chan struct{}
		err  error
	}
)

var _ multitrack.AudioContext = NullContext{}

func (c NullContext) Play(f multitrack.AudioProcessor) multitrack.CloserWaiter {
	sampleRate := c.SampleRate
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	period := c.Period
	if period <= 0 {
		period = 10 * time.Millisecond
	}
	frames := int(int64(sampleRate) * int64(period) / int64(time.Second))
	o := &nullOutput{stop: make(chan struct{}), done: make(chan struct{})}
	go func() {
		defer close(o.done)
		buf := make(multitrack.AudioBuffer, max(frames, 1))
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-o.stop:
				return
			case <-ticker.C:
				if err := f(buf); err != nil {
					o.err = err
					return
				}
			}
		}
	}()
	return o
}

func (c NullContext) Close() error { return nil }

func (o *nullOutput) Close() error {
	o.once.Do(func() { close(o.stop) })
	<-o.done
	return nil
}

func (o *nullOutput) Wait() error {
	<-o.done
	return o.err
}
