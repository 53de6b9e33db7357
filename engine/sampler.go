package engine

import (
	"io/fs"
	"math"

	"github.com/vsariola/multitrack"
)

type (
	// Sampler renders the notes of the track bound to it with the waveform and
	// envelope of the loaded instrument. An empty sampler is silent.
	Sampler struct {
		e      *Engine
		name   string
		instr  multitrack.Instrument
		loaded bool
		voices []voice
		seed   uint32
	}

	voice struct {
		note     uint8
		sustain  bool
		hold     int // frames left until the voice is released
		active   bool
		level    float32 // envelope level, 0..1
		velocity float32
		phase    float64
		step     float64 // phase increment per frame
		age      int
	}
)

var _ multitrack.Sampler = (*Sampler)(nil)

func (s *Sampler) Name() string { return s.name }

// LoadInstrument reads the instrument definition from fsys and replaces the
// current instrument. On error the previous instrument is kept.
func (s *Sampler) LoadInstrument(fsys fs.FS, path string) error {
	instr, err := multitrack.LoadInstrument(fsys, path)
	if err != nil {
		return err
	}
	s.e.mu.Lock()
	defer s.e.mu.Unlock()
	s.instr = instr
	s.loaded = true
	s.voices = make([]voice, instr.Polyphony)
	return nil
}

func (s *Sampler) Instrument() (multitrack.Instrument, bool) {
	s.e.mu.Lock()
	defer s.e.mu.Unlock()
	return s.instr, s.loaded
}

// ActiveVoices returns the number of voices still sounding, including the
// ones in their release phase.
func (s *Sampler) ActiveVoices() int {
	s.e.mu.Lock()
	defer s.e.mu.Unlock()
	ret := 0
	for _, v := range s.voices {
		if v.active {
			ret++
		}
	}
	return ret
}

// noteOn triggers a voice that is released after hold frames. A released
// voice is preferred over a sustained one; among equals, the oldest one is
// taken.
func (s *Sampler) noteOn(note, velocity uint8, hold int) {
	if !s.loaded || len(s.voices) == 0 {
		return
	}
	best := 0
	for i := range s.voices {
		v, b := &s.voices[i], &s.voices[best]
		if !v.active {
			best = i
			break
		}
		if (!v.sustain && b.sustain) || (v.sustain == b.sustain && v.age > b.age) {
			best = i
		}
	}
	freq := 440 * math.Pow(2, float64(int(note)+s.instr.Transpose-69)/12)
	s.voices[best] = voice{
		note:     note,
		sustain:  true,
		hold:     hold,
		active:   true,
		velocity: float32(velocity) / 127,
		step:     freq / float64(s.e.sampleRate),
	}
}

func (s *Sampler) releaseAll() {
	for i := range s.voices {
		s.voices[i].sustain = false
	}
}

// render writes the sampler output into out, overwriting its contents.
// Called with the engine lock held.
func (s *Sampler) render(out []float32) {
	clear(out)
	if !s.loaded {
		return
	}
	sr := float32(s.e.sampleRate)
	attackStep := float32(1)
	if s.instr.Attack > 0 {
		attackStep = 1 / (float32(s.instr.Attack) * sr)
	}
	releaseStep := float32(1)
	if s.instr.Release > 0 {
		releaseStep = 1 / (float32(s.instr.Release) * sr)
	}
	gain := float32(s.instr.Gain)
	for i := range s.voices {
		v := &s.voices[i]
		if !v.active {
			continue
		}
		for j := range out {
			if v.sustain {
				v.level = min(v.level+attackStep, 1)
				v.hold--
				v.sustain = v.hold > 0
			} else {
				v.level -= releaseStep
				if v.level <= 0 {
					v.level = 0
					v.active = false
					break
				}
			}
			out[j] += s.oscillator(v) * v.level * v.velocity * gain
			v.phase += v.step
			v.phase -= math.Floor(v.phase)
		}
		v.age += len(out)
	}
}

func (s *Sampler) oscillator(v *voice) float32 {
	p := v.phase
	switch s.instr.Waveform {
	case multitrack.Square:
		if p < 0.5 {
			return 1
		}
		return -1
	case multitrack.Saw:
		return float32(2*p - 1)
	case multitrack.Triangle:
		return float32(1 - 4*math.Abs(p-0.5))
	case multitrack.Noise:
		// xorshift32
		s.seed ^= s.seed << 13
		s.seed ^= s.seed >> 17
		s.seed ^= s.seed << 5
		return float32(s.seed)/float32(math.MaxUint32)*2 - 1
	default:
		return float32(math.Sin(2 * math.Pi * p))
	}
}
