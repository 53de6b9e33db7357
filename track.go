package multitrack

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// InstrumentType is the kind of a track. It decides which template notes a
// new track is pre-populated with and which instrument it loads.
type InstrumentType int

const (
	Drum InstrumentType = iota
	Melodic
	Audio
	NumInstrumentTypes
)

var instrumentTypeKeys = [...]string{"drum", "melodic", "audio"}

var titleCaser = cases.Title(language.English)

// InstrumentTypes lists all valid instrument types in menu order.
func InstrumentTypes() []InstrumentType {
	return []InstrumentType{Drum, Melodic, Audio}
}

func (t InstrumentType) Valid() bool {
	return t >= 0 && t < NumInstrumentTypes
}

// String returns the lower case key of the type, as used in configuration
// files and on the command line.
func (t InstrumentType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("InstrumentType(%d)", int(t))
	}
	return instrumentTypeKeys[t]
}

// Name returns the display name of the type, e.g. "Drum track".
func (t InstrumentType) Name() string {
	return titleCaser.String(t.String()) + " track"
}

// Icon returns a short label shown next to the track title.
func (t InstrumentType) Icon() string {
	switch t {
	case Drum:
		return "Pads"
	case Melodic:
		return "Wave"
	case Audio:
		return "Mic"
	}
	return "?"
}

// ParseInstrumentType parses the key returned by String, case-insensitively.
func ParseInstrumentType(s string) (InstrumentType, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, k := range instrumentTypeKeys {
		if k == key {
			return InstrumentType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown instrument type %q (valid: %s)", s, strings.Join(instrumentTypeKeys[:], ", "))
}

func (t InstrumentType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid instrument type %d", int(t))
	}
	return []byte(t.String()), nil
}

func (t *InstrumentType) UnmarshalText(text []byte) error {
	v, err := ParseInstrumentType(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
