package tracker

import (
	"errors"
	"fmt"

	"github.com/vsariola/multitrack"
)

// Model holds the song and runs the reducer on it. It is owned by the UI
// goroutine: all methods must be called from the same goroutine. Effects are
// handed to the adapter through the broker without blocking, and the events
// the adapter reports back are folded in with ProcessEvent.
type Model struct {
	song    multitrack.Song
	reducer *Reducer
	broker  *Broker
	alerts  Alerts
}

// ErrQueueFull is reported when an effect could not be queued to the
// adapter.
var ErrQueueFull = errors.New("engine queue is full")

func NewModel(broker *Broker, reducer *Reducer, song multitrack.Song) *Model {
	return &Model{song: song.Copy(), reducer: reducer, broker: broker}
}

// Song returns a copy of the current song.
func (m *Model) Song() multitrack.Song { return m.song.Copy() }

func (m *Model) Alerts() *Alerts { return &m.alerts }

func (m *Model) Broker() *Broker { return m.broker }

// Dispatch reduces the intent into the song and queues the resulting effect,
// if any, to the adapter. If the queue is full, the effect is dropped with
// an alert; a dropped track creation is recorded as a failed track so the
// song does not wait for it forever, and a dropped toggle is undone.
func (m *Model) Dispatch(intent Intent) {
	song, effect := m.reducer.Reduce(m.song, intent)
	m.song = song
	if effect == nil {
		return
	}
	if TrySend(m.broker.ToEngine, effect) {
		return
	}
	m.alerts.AddNamed("QueueFull", fmt.Sprintf("Engine is busy, dropped %T", effect), Error)
	switch e := effect.(type) {
	case CreateTrack:
		m.song, _ = m.reducer.Reduce(m.song, Delegate{Event: TrackCreateFailed{ID: e.ID, Err: ErrQueueFull}})
	case SyncTransport:
		// the engine stays in its old phase, so the song does too
		m.song, _ = m.reducer.Reduce(m.song, TogglePlay{})
	}
}

// ProcessEvent folds an event reported by the adapter into the song and
// raises an alert for the failures.
func (m *Model) ProcessEvent(event Event) {
	m.Dispatch(Delegate{Event: event})
	switch e := event.(type) {
	case EngineStarted:
		m.alerts.ClearNamed("EngineStart")
	case EngineStartFailed:
		m.alerts.AddNamed("EngineStart", fmt.Sprintf("Audio engine did not start, playback may be silent: %v", e.Err), Warning)
	case TrackCreateFailed:
		m.alerts.Add(fmt.Sprintf("Could not create %s: %v", m.trackLabel(e.ID), e.Err), Error)
	case InstrumentLoadFailed:
		m.alerts.Add(fmt.Sprintf("Could not load the instrument of %s: %v", m.trackLabel(e.ID), e.Err), Error)
	case NoteRejected:
		m.alerts.AddNamed("NoteRejected", fmt.Sprintf("%s has no engine track", m.trackLabel(e.TrackID)), Warning)
	}
}

// ProcessPending processes all events waiting in the broker without
// blocking. It returns the number of events processed.
func (m *Model) ProcessPending() int {
	n := 0
	for {
		select {
		case e := <-m.broker.ToModel:
			m.ProcessEvent(e)
			n++
		default:
			return n
		}
	}
}

func (m *Model) trackLabel(id int) string {
	if t, ok := m.song.Track(id); ok {
		return fmt.Sprintf("track '%s'", t.Title)
	}
	return fmt.Sprintf("track %d", id)
}
