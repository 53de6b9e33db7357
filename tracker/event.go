package tracker

type (
	// Event is an outcome of an effect, reported by the adapter and folded
	// into the song through a Delegate intent.
	Event interface{ isEvent() }

	// EngineStarted is reported when the engine output started.
	EngineStarted struct{}

	// EngineStartFailed is reported when the engine output could not be
	// started. The adapter keeps driving the engine regardless.
	EngineStartFailed struct {
		Err error
	}

	// TrackCreated is reported when the engine track and sampler of a track
	// were created and bound.
	TrackCreated struct {
		ID int
	}

	// TrackCreateFailed is reported when the engine refused to create the
	// track. No binding exists for the id.
	TrackCreateFailed struct {
		ID  int
		Err error
	}

	// InstrumentLoaded is reported when the default instrument of the track
	// was loaded into its sampler.
	InstrumentLoaded struct {
		ID         int
		Instrument string
	}

	// InstrumentSkipped is reported for track types that have no default
	// instrument.
	InstrumentSkipped struct {
		ID int
	}

	// InstrumentLoadFailed is reported when loading the default instrument
	// failed. The track exists but is silent.
	InstrumentLoadFailed struct {
		ID  int
		Err error
	}

	// NoteRejected is reported when a note was added to or removed from a
	// track without an engine binding.
	NoteRejected struct {
		TrackID int
		Err     error
	}
)

func (EngineStarted) isEvent()        {}
func (EngineStartFailed) isEvent()    {}
func (TrackCreated) isEvent()         {}
func (TrackCreateFailed) isEvent()    {}
func (InstrumentLoaded) isEvent()     {}
func (InstrumentSkipped) isEvent()    {}
func (InstrumentLoadFailed) isEvent() {}
func (NoteRejected) isEvent()         {}
