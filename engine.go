package multitrack

import (
	"errors"
	"io/fs"
)

type (
	// Beats is a musical time position or duration, measured in quarter note
	// beats. Engine positions are never wall clock time.
	Beats float64

	// NoteEvent is a single note on an engine track.
	NoteEvent struct {
		Note     uint8
		Velocity uint8
		Position Beats
		Duration Beats
	}

	// AudioEngine is the capability the tracker drives: an output graph that
	// can be started and stopped, a transport holding the tracks, a mixer and
	// a factory for instrument voices.
	AudioEngine interface {
		Start() error
		Stop() error
		Transport() Transport
		Mixer() Mixer
		NewSampler(name string) Sampler
	}

	// Transport is the play/stop/tempo/loop control surface of the engine.
	// NewTrack fails with ErrTransportRunning while the transport is playing.
	Transport interface {
		Rewind()
		EnableLooping()
		SetLength(length Beats)
		SetTempo(bpm float64)
		Play()
		Stop()
		IsPlaying() bool
		NewTrack(name string) (EngineTrack, error)
		Tracks() []EngineTrack
	}

	// EngineTrack is a list of notes inside the transport, routed to a
	// sampler.
	EngineTrack interface {
		Name() string
		SetLoopInfo(length Beats, loopCount int)
		SetOutput(s Sampler)
		Add(n NoteEvent)
		ClearRange(start, duration Beats)
		Merge(notes []NoteEvent)
		Notes() []NoteEvent
	}

	// Sampler is an instrument voice: it turns the notes of the track it is
	// bound to into sound, using a loaded instrument definition.
	Sampler interface {
		Name() string
		LoadInstrument(fsys fs.FS, path string) error
		Instrument() (Instrument, bool)
	}

	// Mixer sums the output of samplers.
	Mixer interface {
		AddInput(s Sampler) error
	}
)

var (
	ErrTransportRunning = errors.New("transport is running")
	ErrNoOutput         = errors.New("no audio output available")
)

// End returns the position where the note ends.
func (n NoteEvent) End() Beats {
	return n.Position + n.Duration
}

// StartsWithin reports if the note starts within [start, start+duration).
func (n NoteEvent) StartsWithin(start, duration Beats) bool {
	return n.Position >= start && n.Position < start+duration
}
