package engine

import (
	"fmt"

	"github.com/vsariola/multitrack"
)

// Transport is the sequencer of the engine. Its position only advances while
// the output graph is running and the transport is playing.
type Transport struct {
	e        *Engine
	playing  bool
	looping  bool
	length   multitrack.Beats
	tempo    float64
	position multitrack.Beats
	tracks   []*Track
}

var _ multitrack.Transport = (*Transport)(nil)

func (t *Transport) Rewind() {
	t.e.mu.Lock()
	defer t.e.mu.Unlock()
	t.position = 0
	t.releaseAll()
}

func (t *Transport) EnableLooping() {
	t.e.mu.Lock()
	defer t.e.mu.Unlock()
	t.looping = true
}

func (t *Transport) SetLength(length multitrack.Beats) {
	t.e.mu.Lock()
	defer t.e.mu.Unlock()
	if length > 0 {
		t.length = length
	}
}

func (t *Transport) SetTempo(bpm float64) {
	t.e.mu.Lock()
	defer t.e.mu.Unlock()
	if bpm > 0 {
		t.tempo = bpm
	}
}

func (t *Transport) Play() {
	t.e.mu.Lock()
	defer t.e.mu.Unlock()
	t.playing = true
}

func (t *Transport) Stop() {
	t.e.mu.Lock()
	defer t.e.mu.Unlock()
	if !t.playing {
		return
	}
	t.playing = false
	t.releaseAll()
}

func (t *Transport) IsPlaying() bool {
	t.e.mu.Lock()
	defer t.e.mu.Unlock()
	return t.playing
}

// Position returns the current position of the transport in beats.
func (t *Transport) Position() multitrack.Beats {
	t.e.mu.Lock()
	defer t.e.mu.Unlock()
	return t.position
}

func (t *Transport) Tempo() float64 {
	t.e.mu.Lock()
	defer t.e.mu.Unlock()
	return t.tempo
}

func (t *Transport) Length() multitrack.Beats {
	t.e.mu.Lock()
	defer t.e.mu.Unlock()
	return t.length
}

// NewTrack appends a new empty track. The track topology can only change
// while the transport is stopped.
func (t *Transport) NewTrack(name string) (multitrack.EngineTrack, error) {
	t.e.mu.Lock()
	defer t.e.mu.Unlock()
	if t.playing {
		return nil, fmt.Errorf("cannot create track %q: %w", name, multitrack.ErrTransportRunning)
	}
	track := &Track{e: t.e, name: name}
	t.tracks = append(t.tracks, track)
	return track, nil
}

func (t *Transport) Tracks() []multitrack.EngineTrack {
	t.e.mu.Lock()
	defer t.e.mu.Unlock()
	ret := make([]multitrack.EngineTrack, len(t.tracks))
	for i, track := range t.tracks {
		ret[i] = track
	}
	return ret
}

// advance moves the position forward by delta beats, triggering the notes
// starting and releasing the notes ending within the window. Called with the
// engine lock held.
func (t *Transport) advance(delta multitrack.Beats) {
	start := t.position
	end := start + delta
	if t.length <= 0 {
		for _, track := range t.tracks {
			track.trigger(start, delta)
		}
		t.position = end
		return
	}
	for end > start {
		windowEnd := min(end, t.length)
		for _, track := range t.tracks {
			track.trigger(start, windowEnd-start)
		}
		if windowEnd < end || windowEnd >= t.length {
			if !t.looping {
				t.position = t.length
				t.playing = false
				t.releaseAll()
				return
			}
			t.releaseAll()
			end -= t.length
			start = 0
			continue
		}
		start = windowEnd
	}
	t.position = end
}

func (t *Transport) releaseAll() {
	for _, track := range t.tracks {
		if track.output != nil {
			track.output.releaseAll()
		}
	}
}
