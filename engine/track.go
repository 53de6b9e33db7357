package engine

import (
	"sort"

	"github.com/vsariola/multitrack"
)

// Track is a list of notes kept sorted by position.
type Track struct {
	e          *Engine
	name       string
	notes      []multitrack.NoteEvent
	loopLength multitrack.Beats
	loopCount  int
	output     *Sampler
}

var _ multitrack.EngineTrack = (*Track)(nil)

func (t *Track) Name() string { return t.name }

// SetLoopInfo sets the loop region of the track: the track repeats its first
// length beats. A loop count of zero loops forever.
func (t *Track) SetLoopInfo(length multitrack.Beats, loopCount int) {
	t.e.mu.Lock()
	defer t.e.mu.Unlock()
	t.loopLength = length
	t.loopCount = loopCount
}

func (t *Track) LoopInfo() (multitrack.Beats, int) {
	t.e.mu.Lock()
	defer t.e.mu.Unlock()
	return t.loopLength, t.loopCount
}

// SetOutput routes the track to a sampler created by the same engine.
// Samplers from other implementations are ignored and the track is muted.
func (t *Track) SetOutput(s multitrack.Sampler) {
	t.e.mu.Lock()
	defer t.e.mu.Unlock()
	if t.output != nil {
		t.output.releaseAll()
	}
	sampler, ok := s.(*Sampler)
	if !ok || sampler.e != t.e {
		t.output = nil
		return
	}
	t.output = sampler
}

func (t *Track) Add(n multitrack.NoteEvent) {
	t.e.mu.Lock()
	defer t.e.mu.Unlock()
	t.insert(n)
}

func (t *Track) Merge(notes []multitrack.NoteEvent) {
	t.e.mu.Lock()
	defer t.e.mu.Unlock()
	for _, n := range notes {
		t.insert(n)
	}
}

// ClearRange removes the notes starting within [start, start+duration).
func (t *Track) ClearRange(start, duration multitrack.Beats) {
	t.e.mu.Lock()
	defer t.e.mu.Unlock()
	kept := t.notes[:0]
	for _, n := range t.notes {
		if !n.StartsWithin(start, duration) {
			kept = append(kept, n)
		}
	}
	t.notes = kept
}

func (t *Track) Notes() []multitrack.NoteEvent {
	t.e.mu.Lock()
	defer t.e.mu.Unlock()
	ret := make([]multitrack.NoteEvent, len(t.notes))
	copy(ret, t.notes)
	return ret
}

func (t *Track) insert(n multitrack.NoteEvent) {
	if n.Duration <= 0 || n.Position < 0 {
		return
	}
	i := sort.Search(len(t.notes), func(i int) bool { return t.notes[i].Position > n.Position })
	t.notes = append(t.notes, multitrack.NoteEvent{})
	copy(t.notes[i+1:], t.notes[i:])
	t.notes[i] = n
}

// trigger starts the notes of the track that begin within the transport
// window [start, start+duration). A note sounds for its duration, converted to
// frames at the current tempo, so notes shorter than a render chunk are
// released too. With a loop length set, the window is mapped into the loop
// region of the track: notes past the loop length never sound, and after
// loopCount passes (counted from the start of the transport loop) the track
// is silent. Called with the engine lock held.
func (t *Track) trigger(start, duration multitrack.Beats) {
	if t.output == nil || duration <= 0 {
		return
	}
	if t.loopLength <= 0 {
		t.triggerWindow(start, duration)
		return
	}
	end := start + duration
	for start < end {
		pass := int(start / t.loopLength)
		if multitrack.Beats(pass+1)*t.loopLength <= start {
			pass++ // division rounded down at the pass boundary
		}
		if t.loopCount > 0 && pass >= t.loopCount {
			return
		}
		passStart := multitrack.Beats(pass) * t.loopLength
		passEnd := passStart + t.loopLength
		windowEnd := min(end, passEnd)
		t.triggerWindow(start-passStart, windowEnd-start)
		if windowEnd >= passEnd {
			t.output.releaseAll()
		}
		start = windowEnd
	}
}

func (t *Track) triggerWindow(start, duration multitrack.Beats) {
	tempo, sampleRate := t.e.transport.tempo, t.e.sampleRate
	for _, n := range t.notes {
		if n.Position >= start+duration {
			break
		}
		if n.StartsWithin(start, duration) && (t.loopLength <= 0 || n.Position < t.loopLength) {
			hold := int(float64(n.Duration) * 60 / tempo * float64(sampleRate))
			t.output.noteOn(n.Note, n.Velocity, max(hold, 1))
		}
	}
}
