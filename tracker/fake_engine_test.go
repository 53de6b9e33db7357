package tracker_test

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/vsariola/multitrack"
)

// fakeEngine records every engine call in order, so tests can check how the
// adapter sequences topology changes around the transport.
type fakeEngine struct {
	mu         sync.Mutex
	calls      []string
	playing    bool
	startErr   error
	newTrackFn func(name string) error
	tracks     []*fakeTrack
	inputs     []multitrack.Sampler
	length     multitrack.Beats
	tempo      float64
}

type fakeTransport struct{ e *fakeEngine }

type fakeMixer struct{ e *fakeEngine }

type fakeTrack struct {
	e         *fakeEngine
	name      string
	notes     []multitrack.NoteEvent
	output    multitrack.Sampler
	loop      multitrack.Beats
	loopCount int
}

type fakeSampler struct {
	e      *fakeEngine
	name   string
	instr  multitrack.Instrument
	loaded bool
}

func (e *fakeEngine) record(format string, args ...any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, fmt.Sprintf(format, args...))
}

func (e *fakeEngine) Calls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.calls...)
}

func (e *fakeEngine) count(call string) int {
	n := 0
	for _, c := range e.Calls() {
		if c == call {
			n++
		}
	}
	return n
}

func (e *fakeEngine) Start() error {
	e.record("start")
	return e.startErr
}

func (e *fakeEngine) Stop() error {
	e.record("engine stop")
	return nil
}

func (e *fakeEngine) Transport() multitrack.Transport { return fakeTransport{e} }

func (e *fakeEngine) Mixer() multitrack.Mixer { return fakeMixer{e} }

func (e *fakeEngine) NewSampler(name string) multitrack.Sampler {
	e.record("sampler %s", name)
	return &fakeSampler{e: e, name: name}
}

func (t fakeTransport) Rewind()        { t.e.record("rewind") }
func (t fakeTransport) EnableLooping() { t.e.record("loop") }
func (t fakeTransport) SetLength(length multitrack.Beats) {
	t.e.record("length %v", length)
	t.e.length = length
}
func (t fakeTransport) SetTempo(bpm float64) {
	t.e.record("tempo %v", bpm)
	t.e.tempo = bpm
}
func (t fakeTransport) Play() {
	t.e.record("play")
	t.e.playing = true
}
func (t fakeTransport) Stop() {
	t.e.record("stop")
	t.e.playing = false
}
func (t fakeTransport) IsPlaying() bool { return t.e.playing }

func (t fakeTransport) NewTrack(name string) (multitrack.EngineTrack, error) {
	t.e.record("track %s", name)
	if t.e.playing {
		return nil, multitrack.ErrTransportRunning
	}
	if t.e.newTrackFn != nil {
		if err := t.e.newTrackFn(name); err != nil {
			return nil, err
		}
	}
	track := &fakeTrack{e: t.e, name: name}
	t.e.tracks = append(t.e.tracks, track)
	return track, nil
}

func (t fakeTransport) Tracks() []multitrack.EngineTrack {
	ret := make([]multitrack.EngineTrack, len(t.e.tracks))
	for i, track := range t.e.tracks {
		ret[i] = track
	}
	return ret
}

func (m fakeMixer) AddInput(s multitrack.Sampler) error {
	m.e.record("mix %s", s.Name())
	m.e.inputs = append(m.e.inputs, s)
	return nil
}

func (t *fakeTrack) Name() string { return t.name }
func (t *fakeTrack) SetLoopInfo(length multitrack.Beats, loopCount int) {
	t.e.record("loopinfo %s %v %d", t.name, length, loopCount)
	t.loop, t.loopCount = length, loopCount
}
func (t *fakeTrack) SetOutput(s multitrack.Sampler) {
	t.e.record("output %s", t.name)
	t.output = s
}
func (t *fakeTrack) Add(n multitrack.NoteEvent) {
	t.e.record("add %s", t.name)
	t.notes = append(t.notes, n)
}
func (t *fakeTrack) ClearRange(start, duration multitrack.Beats) {
	t.e.record("clear %s", t.name)
	kept := t.notes[:0]
	for _, n := range t.notes {
		if !n.StartsWithin(start, duration) {
			kept = append(kept, n)
		}
	}
	t.notes = kept
}
func (t *fakeTrack) Merge(notes []multitrack.NoteEvent) {
	t.e.record("merge %s", t.name)
	t.notes = append(t.notes, notes...)
}
func (t *fakeTrack) Notes() []multitrack.NoteEvent {
	return append([]multitrack.NoteEvent(nil), t.notes...)
}

func (s *fakeSampler) Name() string { return s.name }
func (s *fakeSampler) LoadInstrument(fsys fs.FS, path string) error {
	s.e.record("load %s", s.name)
	instr, err := multitrack.LoadInstrument(fsys, path)
	if err != nil {
		return err
	}
	s.instr, s.loaded = instr, true
	return nil
}
func (s *fakeSampler) Instrument() (multitrack.Instrument, bool) { return s.instr, s.loaded }

var errFake = errors.New("fake failure")
