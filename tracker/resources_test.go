package tracker_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/vsariola/multitrack"
	"github.com/vsariola/multitrack/tracker"
)

func TestBundledTemplates(t *testing.T) {
	r := tracker.BundledResources()
	tests := []struct {
		typ      multitrack.InstrumentType
		name     string
		minNotes int
	}{
		{multitrack.Drum, "Drums", 13},
		{multitrack.Melodic, "Lead", 6},
	}
	for _, tt := range tests {
		track, ok, err := r.Template(tt.typ)
		if err != nil || !ok {
			t.Fatalf("%v: template not found: %v", tt.typ, err)
		}
		if track.Name != tt.name {
			t.Errorf("%v: template track %q, expected %q", tt.typ, track.Name, tt.name)
		}
		if got := len(track.Range(0, 4)); got < tt.minNotes {
			t.Errorf("%v: %d template notes in the first four beats, expected at least %d", tt.typ, got, tt.minNotes)
		}
	}
	if _, ok, err := r.Template(multitrack.Audio); ok || err != nil {
		t.Errorf("audio tracks should have no template, got %v, %v", ok, err)
	}
}

func TestBundledPresets(t *testing.T) {
	r := tracker.BundledResources()
	for _, typ := range []multitrack.InstrumentType{multitrack.Drum, multitrack.Melodic} {
		path := r.Lookup(typ).Preset
		if _, err := multitrack.LoadInstrument(r.FS(), path); err != nil {
			t.Errorf("%v: could not load preset %v: %v", typ, path, err)
		}
	}
	if got := r.Lookup(multitrack.Audio).Preset; got != "" {
		t.Errorf("audio tracks should have no preset, got %q", got)
	}
}

func TestPreload(t *testing.T) {
	if err := tracker.BundledResources().Preload(context.Background()); err != nil {
		t.Errorf("bundled resources should preload: %v", err)
	}
	broken := tracker.NewResources(fstest.MapFS{
		"presets/drum.yml": {Data: []byte("name: Kit\nwaveform: noise\ngain: 0.5\n")},
	})
	if err := broken.Preload(context.Background()); err == nil {
		t.Errorf("expected missing templates to fail the preload")
	}
}
