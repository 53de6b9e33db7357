package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vsariola/multitrack/config"
	"github.com/vsariola/multitrack/tracker"
	"go.uber.org/zap/zapcore"
)

func TestDefaults(t *testing.T) {
	c, err := config.Parse(nil)
	if err != nil {
		t.Fatalf("defaults should be valid: %v", err)
	}
	if c.Song.Tempo != 120 || c.Song.Length != 4 {
		t.Errorf("unexpected song defaults %+v", c.Song)
	}
	if len(c.Tracks.Palette) != 5 {
		t.Errorf("expected 5 palette colors, got %v", c.Tracks.Palette)
	}
	if c.Reducer().ColorPolicy != tracker.ColorCycle {
		t.Errorf("default color policy should be cycle")
	}
	if !c.Audio.Enabled || c.Audio.SampleRate != 44100 {
		t.Errorf("unexpected audio defaults %+v", c.Audio)
	}
	if c.LogLevel() != zapcore.InfoLevel {
		t.Errorf("unexpected log level %v", c.LogLevel())
	}
}

func TestOverlayKeepsUnsetValues(t *testing.T) {
	c, err := config.Parse([]byte("song:\n  tempo: 90\naudio:\n  enabled: false\ntracks:\n  colorpolicy: random\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if c.Song.Tempo != 90 || c.Song.Length != 4 {
		t.Errorf("song = %+v, expected tempo overridden and length kept", c.Song)
	}
	if c.Audio.Enabled || c.Audio.SampleRate != 44100 {
		t.Errorf("audio = %+v, expected enabled overridden and sample rate kept", c.Audio)
	}
	if c.Reducer().ColorPolicy != tracker.ColorRandom {
		t.Errorf("color policy should be random")
	}
}

func TestInvalidConfigs(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"UnknownKey", "song:\n  tempoo: 90\n", "parse"},
		{"Tempo", "song:\n  tempo: 0\n", "song.tempo"},
		{"Length", "song:\n  length: -1\n", "song.length"},
		{"EmptyPalette", "tracks:\n  palette: []\n", "tracks.palette"},
		{"BlankColor", "tracks:\n  palette: [\"#fff\", \" \"]\n", "tracks.palette[1]"},
		{"Policy", "tracks:\n  colorpolicy: rainbow\n", "tracks.colorpolicy"},
		{"Template", "tracks:\n  title: \"{{ .Nope }}\"\n", "tracks.title"},
		{"SampleRate", "audio:\n  samplerate: 100\n", "audio.samplerate"},
		{"LogLevel", "log:\n  level: loud\n", "log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatalf("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("song:\n  length: 8\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.Song.Length != 8 {
		t.Errorf("length = %d, expected 8", c.Song.Length)
	}
	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Errorf("missing explicit config should be an error")
	}
}

func TestResourcesDirectory(t *testing.T) {
	c, _ := config.Parse(nil)
	if c.NewResources() == nil {
		t.Fatalf("bundled resources expected")
	}
	c.Resources = t.TempDir()
	if _, ok, err := c.NewResources().Template(0); ok || err == nil {
		t.Errorf("empty resource directory should fail to provide templates")
	}
}
