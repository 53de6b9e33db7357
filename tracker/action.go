package tracker

import "github.com/vsariola/multitrack"

type (
	// Action describes a user action that can be performed on the model, which
	// can be initiated by calling the Do() method. It is usually initiated by a
	// key press or a menu item. Action advertises whether it is enabled, so
	// UI can e.g. gray out menu items when the underlying action is not
	// allowed. The underlying Doer can optionally implement the Enabler
	// interface to decide if the action is enabled or not; if it does not
	// implement the Enabler interface, the action is always allowed.
	Action struct {
		doer Doer
	}

	// Doer is an interface that defines a single Do() method, which is called
	// when an action is performed.
	Doer interface {
		Do()
	}

	// Enabler is an interface that defines a single Enabled() method, which
	// is used by the UI to check if an Action is enabled or not.
	Enabler interface {
		Enabled() bool
	}
)

// Action methods

func MakeAction(doer Doer) Action {
	return Action{doer: doer}
}

func (a Action) Do() {
	e, ok := a.doer.(Enabler)
	if ok && !e.Enabled() {
		return
	}
	if a.doer != nil {
		a.doer.Do()
	}
}

func (a Action) Enabled() bool {
	if a.doer == nil {
		return false // no doer, not allowed
	}
	e, ok := a.doer.(Enabler)
	if !ok {
		return true // not enabler, always allowed
	}
	return e.Enabled()
}

// appeared
type appeared Model

func (m *Model) Appeared() Action { return MakeAction((*appeared)(m)) }
func (m *appeared) Do()           { (*Model)(m).Dispatch(Appeared{}) }

// togglePlay
type togglePlay Model

func (m *Model) TogglePlay() Action { return MakeAction((*togglePlay)(m)) }
func (m *togglePlay) Do()           { (*Model)(m).Dispatch(TogglePlay{}) }

// addTrack
type addTrack struct {
	Type multitrack.InstrumentType
	*Model
}

func (m *Model) AddTrack(t multitrack.InstrumentType) Action {
	return MakeAction(addTrack{Type: t, Model: m})
}
func (a addTrack) Enabled() bool { return a.Type.Valid() }
func (a addTrack) Do()           { a.Model.Dispatch(AddTrack{Type: a.Type}) }

// trackAction
type trackAction struct {
	ID     int
	Action TrackAction
	*Model
}

// Track returns an Action dispatching a track scoped action. The action is
// disabled if the track does not exist.
func (m *Model) Track(id int, action TrackAction) Action {
	return MakeAction(trackAction{ID: id, Action: action, Model: m})
}
func (a trackAction) Enabled() bool {
	_, ok := a.Model.song.Track(a.ID)
	return ok
}
func (a trackAction) Do() { a.Model.Dispatch(TrackIntent{ID: a.ID, Action: a.Action}) }
