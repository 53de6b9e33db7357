// Package engine is an in-process implementation of multitrack.AudioEngine:
// a looping transport holding note tracks, samplers rendering simple
// oscillator voices, and a mixer summing the samplers into the audio output.
//
// All state is guarded by a single mutex shared by every object created by
// the engine, because the audio thread reads the same tracks and samplers
// that the tracker mutates.
package engine

import (
	"fmt"
	"sync"

	"github.com/vsariola/multitrack"
	"go.uber.org/zap"
)

type Engine struct {
	mu         sync.Mutex
	context    multitrack.AudioContext
	output     multitrack.CloserWaiter
	sampleRate int
	transport  *Transport
	mixer      *Mixer
	logger     *zap.Logger
}

const (
	DefaultSampleRate = 44100
	chunkFrames       = 64
)

var _ multitrack.AudioEngine = (*Engine)(nil)

// New creates an engine rendering into context. context may be nil, in which
// case Start fails with multitrack.ErrNoOutput but everything else works.
func New(context multitrack.AudioContext, sampleRate int, logger *zap.Logger) *Engine {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{context: context, sampleRate: sampleRate, logger: logger}
	e.transport = &Transport{e: e, tempo: multitrack.DefaultTempo, length: multitrack.DefaultLengthInBeats}
	e.mixer = &Mixer{e: e, gain: 0.5}
	return e
}

// Start starts the output graph. Starting an already started engine does
// nothing.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.output != nil {
		return nil
	}
	if e.context == nil {
		return fmt.Errorf("cannot start engine: %w", multitrack.ErrNoOutput)
	}
	e.output = e.context.Play(e.Process)
	e.logger.Debug("engine output started", zap.Int("sampleRate", e.sampleRate))
	return nil
}

// Stop stops the output graph, if it is running.
func (e *Engine) Stop() error {
	e.mu.Lock()
	output := e.output
	e.output = nil
	e.mu.Unlock()
	if output == nil {
		return nil
	}
	// Close outside the lock: the output may be waiting for Process to return.
	if err := output.Close(); err != nil {
		return fmt.Errorf("cannot stop engine output: %w", err)
	}
	return nil
}

// Started reports whether the output graph is running.
func (e *Engine) Started() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.output != nil
}

func (e *Engine) Transport() multitrack.Transport { return e.transport }

func (e *Engine) Mixer() multitrack.Mixer { return e.mixer }

func (e *Engine) SampleRate() int { return e.sampleRate }

func (e *Engine) NewSampler(name string) multitrack.Sampler {
	return &Sampler{e: e, name: name, seed: 0x9E3779B9}
}

// Process renders the next buffer of audio: it advances the transport,
// triggers and releases the notes of every track on their samplers and mixes
// the samplers into buf. It is called from the audio thread.
func (e *Engine) Process(buf multitrack.AudioBuffer) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for len(buf) > 0 {
		n := min(len(buf), chunkFrames)
		if e.transport.playing {
			e.transport.advance(Frames(n, e.transport.tempo, e.sampleRate))
		}
		e.mixer.render(buf[:n])
		buf = buf[n:]
	}
	return nil
}

// Frames converts a number of frames to beats at the given tempo.
func Frames(frames int, bpm float64, sampleRate int) multitrack.Beats {
	return multitrack.Beats(float64(frames) * bpm / 60 / float64(sampleRate))
}
