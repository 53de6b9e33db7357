package tracker

import "github.com/vsariola/multitrack"

type (
	// Effect is a side effect requested by the reducer, executed by the
	// adapter outside the state update. Effects carry everything the adapter
	// needs; the adapter never reads the song.
	Effect interface{ isEffect() }

	// Initialize starts the engine output and sets up the transport from
	// Song. Initializing an already initialized adapter does nothing.
	Initialize struct {
		Song multitrack.Song
	}

	// SyncTransport makes the engine transport match Song: loop length, tempo
	// and the play/stop phase. Song is the state after the change that caused
	// the effect.
	SyncTransport struct {
		Song multitrack.Song
	}

	// CreateTrack creates the engine track and sampler for a track that was
	// just added to the song.
	CreateTrack struct {
		Type          multitrack.InstrumentType
		Title         string
		ID            int
		LengthInBeats int
	}

	// InsertNote adds a note to the engine track of TrackID.
	InsertNote struct {
		TrackID int
		Note    multitrack.NoteEvent
	}

	// ClearNotes removes the notes starting within [Position,
	// Position+Duration) from the engine track of TrackID.
	ClearNotes struct {
		TrackID  int
		Position multitrack.Beats
		Duration multitrack.Beats
	}
)

func (Initialize) isEffect()    {}
func (SyncTransport) isEffect() {}
func (CreateTrack) isEffect()   {}
func (InsertNote) isEffect()    {}
func (ClearNotes) isEffect()    {}
