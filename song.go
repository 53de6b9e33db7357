package multitrack

import (
	"errors"
	"fmt"
)

type (
	// Song is the user-visible state of a multitrack session: the tracks in
	// the order they were added, whether the transport is running, and the
	// tempo and loop length. The index of a track in Tracks is also its ID and
	// the index of the corresponding track in the audio engine.
	Song struct {
		Tracks        []Track `yaml:",omitempty"`
		IsPlaying     bool    `yaml:"playing"`
		Tempo         float64 `yaml:"tempo"`
		LengthInBeats int     `yaml:"length"`

		// EngineDegraded is set when the audio engine failed to start. The
		// engine is still driven, but may produce no sound.
		EngineDegraded bool `yaml:"degraded,omitempty"`
	}

	// Track is one row in the song. Tracks are only ever appended; ID is
	// assigned at creation and never reused.
	Track struct {
		ID     int              `yaml:"id"`
		Type   InstrumentType   `yaml:"type"`
		Title  string           `yaml:"title"`
		Color  string           `yaml:"color"`
		Status InstrumentStatus `yaml:"status"`

		// Instrument is the name of the loaded instrument definition, empty
		// until the engine reports a successful load.
		Instrument string `yaml:",omitempty"`
	}

	// InstrumentStatus tells how far the engine got in making a track
	// playable. The store sets Pending when the track is added; everything
	// else is reported back from the engine side.
	InstrumentStatus int
)

const (
	StatusPending InstrumentStatus = iota
	StatusReady
	StatusNoInstrument
	StatusFailed
)

const (
	DefaultTempo         = 120.0
	DefaultLengthInBeats = 4
)

var statusNames = [...]string{"pending", "ready", "no instrument", "failed"}

func (s InstrumentStatus) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("InstrumentStatus(%d)", int(s))
	}
	return statusNames[s]
}

func (s InstrumentStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// NewSong returns an empty, stopped song with the given tempo and length.
func NewSong(tempo float64, lengthInBeats int) Song {
	return Song{Tempo: tempo, LengthInBeats: lengthInBeats}
}

// Copy returns a deep copy of the song; the Tracks slice of the copy does not
// alias the original.
func (s Song) Copy() Song {
	tracks := make([]Track, len(s.Tracks))
	copy(tracks, s.Tracks)
	s.Tracks = tracks
	return s
}

// Track returns the track with the given ID.
func (s Song) Track(id int) (Track, bool) {
	if id < 0 || id >= len(s.Tracks) {
		return Track{}, false
	}
	return s.Tracks[id], true
}

// Validate checks the invariants of the song: positive tempo and length, and
// tracks[i].ID == i for all i.
func (s Song) Validate() error {
	if s.Tempo <= 0 {
		return errors.New("tempo should be positive")
	}
	if s.LengthInBeats <= 0 {
		return errors.New("length in beats should be positive")
	}
	for i, t := range s.Tracks {
		if t.ID != i {
			return fmt.Errorf("track at index %d has id %d", i, t.ID)
		}
		if !t.Type.Valid() {
			return fmt.Errorf("track %d has invalid type %d", i, int(t.Type))
		}
	}
	return nil
}
