package multitrack

type (
	// AudioBuffer is a buffer of stereo samples, [L, R] per frame.
	AudioBuffer [][2]float32

	// AudioProcessor fills the buffer completely. Returning an error stops
	// the output.
	AudioProcessor func(buf AudioBuffer) error

	// AudioContext is an audio output device. Play starts calling the
	// processor from the audio thread until the returned CloserWaiter is
	// closed.
	AudioContext interface {
		Play(f AudioProcessor) CloserWaiter
		Close() error
	}

	// CloserWaiter stops a playing output. Wait blocks until the output has
	// stopped, either because Close was called or the processor failed.
	CloserWaiter interface {
		Close() error
		Wait() error
	}
)

