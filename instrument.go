package multitrack

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"
)

type (
	// Instrument is an instrument definition loaded by a sampler. Times are
	// in seconds, Gain is linear.
	Instrument struct {
		Name      string
		Waveform  Waveform
		Attack    float64 `yaml:",omitempty"`
		Release   float64 `yaml:",omitempty"`
		Gain      float64
		Transpose int `yaml:",omitempty"`
		Polyphony int `yaml:",omitempty"`
	}

	Waveform int
)

const (
	Sine Waveform = iota
	Square
	Saw
	Triangle
	Noise
)

const DefaultPolyphony = 8

var waveformNames = [...]string{"sine", "square", "saw", "triangle", "noise"}

func (w Waveform) String() string {
	if w < 0 || int(w) >= len(waveformNames) {
		return fmt.Sprintf("Waveform(%d)", int(w))
	}
	return waveformNames[w]
}

func (w Waveform) MarshalText() ([]byte, error) {
	if w < 0 || int(w) >= len(waveformNames) {
		return nil, fmt.Errorf("invalid waveform %d", int(w))
	}
	return []byte(w.String()), nil
}

func (w *Waveform) UnmarshalText(text []byte) error {
	s := strings.ToLower(string(text))
	for i, n := range waveformNames {
		if n == s {
			*w = Waveform(i)
			return nil
		}
	}
	return fmt.Errorf("unknown waveform %q", string(text))
}

// ReadInstrument parses a YAML instrument definition. Unknown fields are
// errors, so that typos in preset files do not go unnoticed.
func ReadInstrument(r io.Reader) (Instrument, error) {
	var instr Instrument
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&instr); err != nil {
		if errors.Is(err, io.EOF) {
			return Instrument{}, errors.New("empty instrument definition")
		}
		return Instrument{}, fmt.Errorf("could not parse instrument: %w", err)
	}
	if instr.Polyphony == 0 {
		instr.Polyphony = DefaultPolyphony
	}
	if err := instr.Validate(); err != nil {
		return Instrument{}, err
	}
	return instr, nil
}

// LoadInstrument reads an instrument definition from a file in fsys.
func LoadInstrument(fsys fs.FS, path string) (Instrument, error) {
	if path == "" {
		return Instrument{}, errors.New("no instrument path given")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return Instrument{}, fmt.Errorf("could not read instrument %v: %w", path, err)
	}
	instr, err := ReadInstrument(bytes.NewReader(data))
	if err != nil {
		return Instrument{}, fmt.Errorf("%v: %w", path, err)
	}
	return instr, nil
}

func (i Instrument) Validate() error {
	if i.Name == "" {
		return errors.New("instrument has no name")
	}
	if i.Waveform < 0 || int(i.Waveform) >= len(waveformNames) {
		return fmt.Errorf("instrument %v has invalid waveform", i.Name)
	}
	if i.Attack < 0 || i.Release < 0 {
		return fmt.Errorf("instrument %v has negative envelope times", i.Name)
	}
	if i.Gain <= 0 || i.Gain > 1 {
		return fmt.Errorf("instrument %v gain should be in (0, 1], got %v", i.Name, i.Gain)
	}
	if i.Polyphony < 1 || i.Polyphony > 64 {
		return fmt.Errorf("instrument %v polyphony should be in [1, 64], got %v", i.Name, i.Polyphony)
	}
	return nil
}
