package tracker

import (
	"errors"
	"fmt"
	"sync"

	"github.com/vsariola/multitrack"
	"go.uber.org/zap"
)

// Adapter drives the audio engine on behalf of the model. It owns the engine
// and the bindings from track ids to engine tracks and samplers; the model
// never sees either. Every public method holds the adapter lock for its whole
// duration, so engine mutations never interleave, and Run executes the queued
// effects one at a time.
//
// Engine failures are logged and reported as events, never returned to the
// model as errors.
type Adapter struct {
	mu          sync.Mutex
	engine      multitrack.AudioEngine
	resources   *Resources
	bindings    Bindings
	logger      *zap.Logger
	initialized bool
}

var ErrUnknownTrack = errors.New("no engine track for track id")

func NewAdapter(engine multitrack.AudioEngine, resources *Resources, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if resources == nil {
		resources = BundledResources()
	}
	return &Adapter{engine: engine, resources: resources, logger: logger}
}

// Run executes the effects received from broker.ToEngine in order and sends
// the resulting events to broker.ToModel, until broker.CloseEngine is
// signaled. Effects already queued when closing are still executed. Run
// closes broker.FinishedEngine when it returns.
func (a *Adapter) Run(broker *Broker) {
	defer close(broker.FinishedEngine)
	for {
		select {
		case effect := <-broker.ToEngine:
			a.report(broker, a.Execute(effect))
		case <-broker.CloseEngine:
			for {
				select {
				case effect := <-broker.ToEngine:
					a.report(broker, a.Execute(effect))
				default:
					a.logger.Debug("adapter closed")
					return
				}
			}
		}
	}
}

func (a *Adapter) report(broker *Broker, events []Event) {
	for _, e := range events {
		if !TrySend(broker.ToModel, e) {
			a.logger.Warn("model queue full, dropped event", zap.String("event", fmt.Sprintf("%T", e)))
		}
	}
}

// Execute runs a single effect and returns its outcomes.
func (a *Adapter) Execute(effect Effect) []Event {
	switch e := effect.(type) {
	case Initialize:
		return a.Initialize(e.Song)
	case SyncTransport:
		a.SyncTransport(e.Song)
	case CreateTrack:
		return a.CreateTrack(e)
	case InsertNote:
		if err := a.AddNote(e.TrackID, e.Note); err != nil {
			return []Event{NoteRejected{TrackID: e.TrackID, Err: err}}
		}
	case ClearNotes:
		if err := a.RemoveNote(e.TrackID, e.Position, e.Duration); err != nil {
			return []Event{NoteRejected{TrackID: e.TrackID, Err: err}}
		}
	default:
		a.logger.Warn("unknown effect", zap.String("effect", fmt.Sprintf("%T", effect)))
	}
	return nil
}

// Initialize starts the engine output and sets the transport up from the
// song: rewound, looping, with the length and tempo of the song. A failed
// start is logged and reported, but the transport is set up anyway. Only the
// first call does anything.
func (a *Adapter) Initialize(song multitrack.Song) []Event {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.initialized {
		return nil
	}
	a.initialized = true
	var events []Event
	if err := a.engine.Start(); err != nil {
		a.logger.Error("could not start audio engine", zap.Error(err))
		events = append(events, EngineStartFailed{Err: err})
	} else {
		a.logger.Info("audio engine started")
		events = append(events, EngineStarted{})
	}
	t := a.engine.Transport()
	t.Rewind()
	t.EnableLooping()
	configureTransport(t, song)
	return events
}

// SyncTransport makes the transport phase match song.IsPlaying. When playing,
// looping is enabled and the loop length and tempo are set from the song
// first, even if Initialize never ran. Calling it again with the same song
// does not restart playback.
func (a *Adapter) SyncTransport(song multitrack.Song) {
	a.mu.Lock()
	defer a.mu.Unlock()
	t := a.engine.Transport()
	if !song.IsPlaying {
		if t.IsPlaying() {
			t.Stop()
			a.logger.Debug("transport stopped")
		}
		return
	}
	t.EnableLooping()
	configureTransport(t, song)
	if !t.IsPlaying() {
		t.Play()
		a.logger.Debug("transport started", zap.Float64("tempo", song.Tempo), zap.Int("length", song.LengthInBeats))
	}
}

func configureTransport(t multitrack.Transport, song multitrack.Song) {
	t.SetLength(multitrack.Beats(song.LengthInBeats))
	t.SetTempo(song.Tempo)
}

// CreateTrack creates the engine track and sampler of a new track, binds
// them to the track id, copies the whole template track of the type and loads
// the default instrument of the type. The loop region of the engine track is
// the song length, so template notes past it are kept but do not sound. The transport is stopped while the track
// topology changes and restarted afterwards if it was playing.
//
// If the engine refuses the track, nothing is bound and TrackCreateFailed is
// reported. A template or instrument that fails to load leaves the track
// bound but empty or silent.
func (a *Adapter) CreateTrack(c CreateTrack) []Event {
	a.mu.Lock()
	defer a.mu.Unlock()
	log := a.logger.With(zap.Int("track", c.ID), zap.Stringer("type", c.Type))
	if _, ok := a.bindings.Lookup(c.ID); ok {
		log.Warn("track already has an engine track")
		return nil
	}
	t := a.engine.Transport()
	if t.IsPlaying() {
		t.Stop()
		defer t.Play()
	}
	sampler := a.engine.NewSampler(c.Title)
	track, err := t.NewTrack(c.Title)
	if err != nil {
		log.Error("could not create engine track", zap.Error(err))
		return []Event{TrackCreateFailed{ID: c.ID, Err: err}}
	}
	track.SetLoopInfo(multitrack.Beats(c.LengthInBeats), 0)
	if err := a.engine.Mixer().AddInput(sampler); err != nil {
		log.Warn("could not connect sampler to the mixer", zap.Error(err))
	}
	track.SetOutput(sampler)
	a.bindings.Bind(c.ID, Binding{Track: track, Sampler: sampler})
	events := []Event{TrackCreated{ID: c.ID}}
	if template, ok, err := a.resources.Template(c.Type); err != nil {
		log.Warn("could not read template", zap.Error(err))
	} else if ok {
		notes := template.Range(0, template.End())
		track.Merge(notes)
		log.Debug("template copied", zap.Int("notes", len(notes)))
	}
	res := a.resources.Lookup(c.Type)
	if res.Preset == "" {
		return append(events, InstrumentSkipped{ID: c.ID})
	}
	if err := sampler.LoadInstrument(a.resources.FS(), res.Preset); err != nil {
		log.Error("could not load instrument", zap.String("preset", res.Preset), zap.Error(err))
		return append(events, InstrumentLoadFailed{ID: c.ID, Err: err})
	}
	instr, _ := sampler.Instrument()
	log.Info("track created", zap.String("instrument", instr.Name))
	return append(events, InstrumentLoaded{ID: c.ID, Instrument: instr.Name})
}

// AddNote adds a note to the engine track of the track id. Ids without an
// engine track are logged and return ErrUnknownTrack.
func (a *Adapter) AddNote(id int, note multitrack.NoteEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	b, ok := a.bindings.Lookup(id)
	if !ok {
		a.logger.Warn("note added to unknown track", zap.Int("track", id))
		return fmt.Errorf("cannot add note to track %d: %w", id, ErrUnknownTrack)
	}
	b.Track.Add(note)
	return nil
}

// RemoveNote removes the notes starting within [position, position+duration)
// from the engine track of the track id.
func (a *Adapter) RemoveNote(id int, position, duration multitrack.Beats) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	b, ok := a.bindings.Lookup(id)
	if !ok {
		a.logger.Warn("note removed from unknown track", zap.Int("track", id))
		return fmt.Errorf("cannot remove notes from track %d: %w", id, ErrUnknownTrack)
	}
	b.Track.ClearRange(position, duration)
	return nil
}

// Binding returns the engine binding of the track id.
func (a *Adapter) Binding(id int) (Binding, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.bindings.Lookup(id)
}

// BoundIDs returns the ids of the tracks that have an engine binding.
func (a *Adapter) BoundIDs() []int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.bindings.IDs()
}
