package tracker

import "github.com/vsariola/multitrack"

type (
	// Intent is a user or lifecycle originated request to change the song.
	// The set of intents is closed: Appeared, TogglePlay, AddTrack,
	// TrackIntent and Delegate.
	Intent interface{ isIntent() }

	// Appeared is dispatched once the view is shown. It does not change the
	// song, but asks the adapter to initialize the engine.
	Appeared struct{}

	// TogglePlay flips Song.IsPlaying.
	TogglePlay struct{}

	// AddTrack appends a new track of the given type.
	AddTrack struct {
		Type multitrack.InstrumentType
	}

	// TrackIntent routes Action to the track with the given ID. Intents to ids
	// that do not exist are ignored.
	TrackIntent struct {
		ID     int
		Action TrackAction
	}

	// Delegate carries an outcome reported by the adapter back into the song.
	Delegate struct {
		Event Event
	}

	// TrackAction is an intent scoped to a single track.
	TrackAction interface{ isTrackAction() }

	// TrackAppeared is dispatched once by the view when a track is first
	// shown. It does not change the song.
	TrackAppeared struct{}

	// AddNote adds a note to the engine track.
	AddNote struct {
		multitrack.NoteEvent
	}

	// RemoveNote removes the notes starting within [Position,
	// Position+Duration) from the engine track.
	RemoveNote struct {
		Position multitrack.Beats
		Duration multitrack.Beats
	}
)

func (Appeared) isIntent()    {}
func (TogglePlay) isIntent()  {}
func (AddTrack) isIntent()    {}
func (TrackIntent) isIntent() {}
func (Delegate) isIntent()    {}

func (TrackAppeared) isTrackAction() {}
func (AddNote) isTrackAction()       {}
func (RemoveNote) isTrackAction()    {}
