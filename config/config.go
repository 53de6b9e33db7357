// Package config loads the multitrack preferences: the defaults embedded in
// the binary, overlaid by the user's config file.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/vsariola/multitrack/tracker"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v2"
)

type (
	Config struct {
		Song      SongConfig   `yaml:"song"`
		Tracks    TracksConfig `yaml:"tracks"`
		Resources string       `yaml:"resources"` // directory laid out like the bundled resources; empty = bundled
		Audio     AudioConfig  `yaml:"audio"`
		QueueSize int          `yaml:"queuesize"`
		Log       LogConfig    `yaml:"log"`
	}

	SongConfig struct {
		Tempo  float64 `yaml:"tempo"`
		Length int     `yaml:"length"`
	}

	TracksConfig struct {
		Palette     []string `yaml:"palette"`
		ColorPolicy string   `yaml:"colorpolicy"`
		Title       string   `yaml:"title"`
	}

	AudioConfig struct {
		Enabled    bool `yaml:"enabled"`
		SampleRate int  `yaml:"samplerate"`
	}

	LogConfig struct {
		Level string `yaml:"level"`
		File  string `yaml:"file,omitempty"`
	}
)

// FileName is the name of the user config file under
// $UserConfigDir/multitrack.
const FileName = "config.yml"

//go:embed defaults.yml
var defaultsYaml []byte

// Default returns the embedded defaults.
func Default() Config {
	var c Config
	if err := yaml.UnmarshalStrict(defaultsYaml, &c); err != nil {
		panic(fmt.Errorf("failed to unmarshal default config: %w", err))
	}
	return c
}

// UserConfigPath returns the path of the user config file.
func UserConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "multitrack", FileName), nil
}

// Load returns the defaults overlaid by the file at path. If path is empty,
// the user config file is used if it exists. An explicitly given path must
// exist.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := UserConfigPath()
		if err != nil {
			return Parse(nil)
		}
		path = p
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Parse(nil)
		}
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse overlays the YAML in data on the defaults and validates the result.
// Unknown keys are errors.
func Parse(data []byte) (Config, error) {
	c := Default()
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	c.applyDefaults()
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.QueueSize == 0 {
		c.QueueSize = tracker.DefaultQueueSize
	}
	if c.Tracks.ColorPolicy == "" {
		c.Tracks.ColorPolicy = tracker.ColorCycle.String()
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) validate() error {
	var errs []string
	if c.Song.Tempo <= 0 {
		errs = append(errs, "song.tempo should be positive")
	}
	if c.Song.Length <= 0 {
		errs = append(errs, "song.length should be positive")
	}
	if len(c.Tracks.Palette) == 0 {
		errs = append(errs, "tracks.palette should not be empty")
	}
	for i, color := range c.Tracks.Palette {
		if strings.TrimSpace(color) == "" {
			errs = append(errs, fmt.Sprintf("tracks.palette[%d] is empty", i))
		}
	}
	policy, err := tracker.ParseColorPolicy(c.Tracks.ColorPolicy)
	if err != nil {
		errs = append(errs, "tracks.colorpolicy: "+err.Error())
	} else if _, err := tracker.NewReducer(tracker.ReducerConfig{TitleTemplate: c.Tracks.Title, ColorPolicy: policy}); err != nil {
		errs = append(errs, "tracks.title: "+err.Error())
	}
	if c.Audio.Enabled && (c.Audio.SampleRate < 8000 || c.Audio.SampleRate > 192000) {
		errs = append(errs, fmt.Sprintf("audio.samplerate should be in [8000, 192000], got %d", c.Audio.SampleRate))
	}
	if c.QueueSize < 0 {
		errs = append(errs, "queuesize should not be negative")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, "log.level: "+err.Error())
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Reducer returns the reducer configuration of the track settings.
func (c Config) Reducer() tracker.ReducerConfig {
	policy, _ := tracker.ParseColorPolicy(c.Tracks.ColorPolicy)
	return tracker.ReducerConfig{
		Palette:       c.Tracks.Palette,
		ColorPolicy:   policy,
		TitleTemplate: c.Tracks.Title,
	}
}

// NewResources returns the bundled resources, or the ones in the configured
// directory.
func (c Config) NewResources() *tracker.Resources {
	if c.Resources == "" {
		return tracker.BundledResources()
	}
	return tracker.NewResources(os.DirFS(c.Resources))
}

// LogLevel returns the parsed log level.
func (c Config) LogLevel() zapcore.Level {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}
