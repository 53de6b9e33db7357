package tracker_test

import (
	"errors"
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/vsariola/multitrack"
	"github.com/vsariola/multitrack/tracker"
)

func newReducer(t *testing.T, cfg tracker.ReducerConfig) *tracker.Reducer {
	t.Helper()
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewPCG(1, 2))
	}
	r, err := tracker.NewReducer(cfg)
	if err != nil {
		t.Fatalf("NewReducer failed: %v", err)
	}
	return r
}

func TestAddTrackAssignsSequentialIDs(t *testing.T) {
	r := newReducer(t, tracker.ReducerConfig{})
	song := multitrack.NewSong(120, 4)
	types := []multitrack.InstrumentType{multitrack.Drum, multitrack.Melodic, multitrack.Audio, multitrack.Drum, multitrack.Audio}
	for i, typ := range types {
		var effect tracker.Effect
		song, effect = r.Reduce(song, tracker.AddTrack{Type: typ})
		c, ok := effect.(tracker.CreateTrack)
		if !ok {
			t.Fatalf("AddTrack %d: expected CreateTrack effect, got %#v", i, effect)
		}
		if c.ID != i || c.Type != typ || c.LengthInBeats != 4 {
			t.Errorf("AddTrack %d: unexpected effect %+v", i, c)
		}
		if c.Title != song.Tracks[i].Title {
			t.Errorf("AddTrack %d: effect title %q, track title %q", i, c.Title, song.Tracks[i].Title)
		}
	}
	if len(song.Tracks) != len(types) {
		t.Fatalf("expected %d tracks, got %d", len(types), len(song.Tracks))
	}
	for i, track := range song.Tracks {
		if track.ID != i {
			t.Errorf("track %d has id %d", i, track.ID)
		}
		if track.Type != types[i] {
			t.Errorf("track %d has type %v, expected %v", i, track.Type, types[i])
		}
		if track.Status != multitrack.StatusPending {
			t.Errorf("track %d has status %v, expected pending", i, track.Status)
		}
	}
	if err := song.Validate(); err != nil {
		t.Errorf("song is not valid: %v", err)
	}
}

func TestAddTrackDefaultTitle(t *testing.T) {
	r := newReducer(t, tracker.ReducerConfig{})
	song, _ := r.Reduce(multitrack.NewSong(120, 4), tracker.AddTrack{Type: multitrack.Drum})
	song, _ = r.Reduce(song, tracker.AddTrack{Type: multitrack.Melodic})
	if got := song.Tracks[0].Title; got != "Drum track - 0" {
		t.Errorf("unexpected title %q", got)
	}
	if got := song.Tracks[1].Title; got != "Melodic track - 1" {
		t.Errorf("unexpected title %q", got)
	}
}

func TestTitleTemplateUsesSprig(t *testing.T) {
	r := newReducer(t, tracker.ReducerConfig{TitleTemplate: `{{ .Type | toString | upper }}-{{ add .ID 1 }}`})
	song, _ := r.Reduce(multitrack.NewSong(120, 4), tracker.AddTrack{Type: multitrack.Audio})
	if got := song.Tracks[0].Title; got != "AUDIO-1" {
		t.Errorf("unexpected title %q", got)
	}
}

func TestInvalidTitleTemplate(t *testing.T) {
	for _, text := range []string{"{{ .ID", "{{ .Missing }}"} {
		if _, err := tracker.NewReducer(tracker.ReducerConfig{TitleTemplate: text}); err == nil {
			t.Errorf("expected template %q to be rejected", text)
		}
	}
}

func TestTogglePlayIsItsOwnInverse(t *testing.T) {
	r := newReducer(t, tracker.ReducerConfig{})
	song := multitrack.NewSong(120, 4)
	for i, expected := range []bool{true, false, true, false} {
		var effect tracker.Effect
		song, effect = r.Reduce(song, tracker.TogglePlay{})
		if song.IsPlaying != expected {
			t.Fatalf("toggle %d: IsPlaying = %v, expected %v", i, song.IsPlaying, expected)
		}
		sync, ok := effect.(tracker.SyncTransport)
		if !ok {
			t.Fatalf("toggle %d: expected SyncTransport effect, got %#v", i, effect)
		}
		if sync.Song.IsPlaying != expected {
			t.Errorf("toggle %d: effect carries IsPlaying = %v, expected the state after the toggle", i, sync.Song.IsPlaying)
		}
	}
}

func TestTrackIntentToUnknownIDIsNoop(t *testing.T) {
	r := newReducer(t, tracker.ReducerConfig{})
	song, _ := r.Reduce(multitrack.NewSong(120, 4), tracker.AddTrack{Type: multitrack.Drum})
	before := song.Copy()
	for _, id := range []int{-1, 1, 42} {
		actions := []tracker.TrackAction{
			tracker.TrackAppeared{},
			tracker.AddNote{NoteEvent: multitrack.NoteEvent{Note: 60, Velocity: 100, Duration: 1}},
			tracker.RemoveNote{Position: 0, Duration: 4},
		}
		for _, action := range actions {
			got, effect := r.Reduce(song, tracker.TrackIntent{ID: id, Action: action})
			if effect != nil {
				t.Errorf("id %d, %T: expected no effect, got %#v", id, action, effect)
			}
			if !reflect.DeepEqual(got, before) {
				t.Errorf("id %d, %T: song changed", id, action)
			}
		}
	}
}

func TestTrackIntentEffects(t *testing.T) {
	r := newReducer(t, tracker.ReducerConfig{})
	song, _ := r.Reduce(multitrack.NewSong(120, 4), tracker.AddTrack{Type: multitrack.Melodic})
	note := multitrack.NoteEvent{Note: 64, Velocity: 90, Position: 1, Duration: 0.5}
	_, effect := r.Reduce(song, tracker.TrackIntent{ID: 0, Action: tracker.AddNote{NoteEvent: note}})
	if expected := (tracker.InsertNote{TrackID: 0, Note: note}); effect != expected {
		t.Errorf("got %#v, expected %#v", effect, expected)
	}
	_, effect = r.Reduce(song, tracker.TrackIntent{ID: 0, Action: tracker.RemoveNote{Position: 1, Duration: 2}})
	if expected := (tracker.ClearNotes{TrackID: 0, Position: 1, Duration: 2}); effect != expected {
		t.Errorf("got %#v, expected %#v", effect, expected)
	}
	_, effect = r.Reduce(song, tracker.TrackIntent{ID: 0, Action: tracker.TrackAppeared{}})
	if effect != nil {
		t.Errorf("TrackAppeared should have no effect, got %#v", effect)
	}
}

func TestAppearedEmitsInitialize(t *testing.T) {
	r := newReducer(t, tracker.ReducerConfig{})
	song := multitrack.NewSong(100, 8)
	for range 2 {
		got, effect := r.Reduce(song, tracker.Appeared{})
		if !reflect.DeepEqual(got, song) {
			t.Errorf("Appeared changed the song")
		}
		init, ok := effect.(tracker.Initialize)
		if !ok {
			t.Fatalf("expected Initialize effect, got %#v", effect)
		}
		if init.Song.Tempo != 100 || init.Song.LengthInBeats != 8 {
			t.Errorf("Initialize carries unexpected song %+v", init.Song)
		}
	}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	r := newReducer(t, tracker.ReducerConfig{})
	song, _ := r.Reduce(multitrack.NewSong(120, 4), tracker.AddTrack{Type: multitrack.Drum})
	before := song.Copy()
	r.Reduce(song, tracker.AddTrack{Type: multitrack.Melodic})
	r.Reduce(song, tracker.TogglePlay{})
	r.Reduce(song, tracker.Delegate{Event: tracker.InstrumentLoaded{ID: 0, Instrument: "Kit"}})
	if !reflect.DeepEqual(song, before) {
		t.Errorf("input song was mutated: %+v, was %+v", song, before)
	}
}

func TestColorCycle(t *testing.T) {
	palette := []string{"red", "green", "blue"}
	r := newReducer(t, tracker.ReducerConfig{Palette: palette, ColorPolicy: tracker.ColorCycle})
	song := multitrack.NewSong(120, 4)
	for range 6 {
		song, _ = r.Reduce(song, tracker.AddTrack{Type: multitrack.Drum})
	}
	shuffled := r.Palette()
	seen := map[string]bool{}
	for i := range 3 {
		seen[song.Tracks[i].Color] = true
		if song.Tracks[i].Color != shuffled[i] {
			t.Errorf("track %d has color %q, expected %q from the shuffled palette", i, song.Tracks[i].Color, shuffled[i])
		}
		if song.Tracks[i].Color != song.Tracks[i+3].Color {
			t.Errorf("track %d and %d should share the color", i, i+3)
		}
	}
	if len(seen) != 3 {
		t.Errorf("expected the first tracks to have distinct colors, got %v", seen)
	}
}

func TestColorRandomDrawsFromPalette(t *testing.T) {
	palette := []string{"red", "green", "blue"}
	r := newReducer(t, tracker.ReducerConfig{Palette: palette, ColorPolicy: tracker.ColorRandom})
	song := multitrack.NewSong(120, 4)
	for range 20 {
		song, _ = r.Reduce(song, tracker.AddTrack{Type: multitrack.Melodic})
	}
	for _, track := range song.Tracks {
		found := false
		for _, c := range palette {
			found = found || c == track.Color
		}
		if !found {
			t.Errorf("track %d color %q not in palette", track.ID, track.Color)
		}
	}
}

func TestParseColorPolicy(t *testing.T) {
	for _, p := range []tracker.ColorPolicy{tracker.ColorCycle, tracker.ColorRandom} {
		got, err := tracker.ParseColorPolicy(p.String())
		if err != nil || got != p {
			t.Errorf("ParseColorPolicy(%q) = %v, %v", p.String(), got, err)
		}
	}
	if _, err := tracker.ParseColorPolicy("rainbow"); err == nil {
		t.Errorf("expected an error for an unknown policy")
	}
}

func TestDelegateEvents(t *testing.T) {
	errTest := errors.New("test")
	tests := []struct {
		name       string
		event      tracker.Event
		status     multitrack.InstrumentStatus
		instrument string
		degraded   bool
	}{
		{"TrackCreated", tracker.TrackCreated{ID: 0}, multitrack.StatusPending, "", false},
		{"TrackCreateFailed", tracker.TrackCreateFailed{ID: 0, Err: errTest}, multitrack.StatusFailed, "", false},
		{"InstrumentLoaded", tracker.InstrumentLoaded{ID: 0, Instrument: "Kit"}, multitrack.StatusReady, "Kit", false},
		{"InstrumentSkipped", tracker.InstrumentSkipped{ID: 0}, multitrack.StatusNoInstrument, "", false},
		{"InstrumentLoadFailed", tracker.InstrumentLoadFailed{ID: 0, Err: errTest}, multitrack.StatusFailed, "", false},
		{"NoteRejected", tracker.NoteRejected{TrackID: 0, Err: errTest}, multitrack.StatusPending, "", false},
		{"EngineStartFailed", tracker.EngineStartFailed{Err: errTest}, multitrack.StatusPending, "", true},
		{"EngineStarted", tracker.EngineStarted{}, multitrack.StatusPending, "", false},
	}
	r := newReducer(t, tracker.ReducerConfig{})
	initial, _ := r.Reduce(multitrack.NewSong(120, 4), tracker.AddTrack{Type: multitrack.Drum})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			song, effect := r.Reduce(initial, tracker.Delegate{Event: tt.event})
			if effect != nil {
				t.Errorf("delegate events should have no effect, got %#v", effect)
			}
			if song.Tracks[0].Status != tt.status {
				t.Errorf("status = %v, expected %v", song.Tracks[0].Status, tt.status)
			}
			if song.Tracks[0].Instrument != tt.instrument {
				t.Errorf("instrument = %q, expected %q", song.Tracks[0].Instrument, tt.instrument)
			}
			if song.EngineDegraded != tt.degraded {
				t.Errorf("degraded = %v, expected %v", song.EngineDegraded, tt.degraded)
			}
		})
	}
}

func TestDelegateEventForUnknownIDIsNoop(t *testing.T) {
	r := newReducer(t, tracker.ReducerConfig{})
	song, _ := r.Reduce(multitrack.NewSong(120, 4), tracker.AddTrack{Type: multitrack.Drum})
	before := song.Copy()
	events := []tracker.Event{
		tracker.InstrumentLoaded{ID: 5, Instrument: "Kit"},
		tracker.InstrumentLoadFailed{ID: -1},
		tracker.TrackCreateFailed{ID: 1},
		tracker.InstrumentSkipped{ID: 2},
	}
	for _, e := range events {
		song, _ = r.Reduce(song, tracker.Delegate{Event: e})
	}
	if !reflect.DeepEqual(song, before) {
		t.Errorf("song changed by events for unknown ids: %+v", song)
	}
}
