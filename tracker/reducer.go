package tracker

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/vsariola/multitrack"
)

type (
	// Reducer is the pure part of the song state store: Reduce computes the
	// next song and the effect to run from the current song and an intent.
	// Reduce never mutates the song given to it and never touches the engine.
	//
	// The only state of a Reducer is its shuffled color palette and, with
	// ColorRandom, the random source used to draw from it.
	Reducer struct {
		palette []string
		policy  ColorPolicy
		rand    *rand.Rand
		title   *template.Template
	}

	// ReducerConfig configures a Reducer. Zero values fall back to the
	// defaults.
	ReducerConfig struct {
		Palette       []string
		ColorPolicy   ColorPolicy
		TitleTemplate string
		Rand          *rand.Rand
	}

	// ColorPolicy decides how a color is picked for a new track from the
	// shuffled palette.
	ColorPolicy int

	// TitleData is the data the title template of a new track is executed
	// with.
	TitleData struct {
		Type multitrack.InstrumentType
		ID   int
	}
)

const (
	// ColorCycle picks palette[id % len(palette)]: colors are distinct until
	// the palette runs out.
	ColorCycle ColorPolicy = iota
	// ColorRandom draws a palette entry at random for every track, with
	// replacement.
	ColorRandom
)

const DefaultTitleTemplate = "{{ .Type.Name }} - {{ .ID }}"

var DefaultPalette = []string{"#3fb950", "#f0883e", "#a371f7", "#f85149", "#58a6ff"}

var colorPolicyNames = [...]string{"cycle", "random"}

func (p ColorPolicy) String() string {
	if p < 0 || int(p) >= len(colorPolicyNames) {
		return fmt.Sprintf("ColorPolicy(%d)", int(p))
	}
	return colorPolicyNames[p]
}

func ParseColorPolicy(s string) (ColorPolicy, error) {
	for i, n := range colorPolicyNames {
		if strings.EqualFold(n, strings.TrimSpace(s)) {
			return ColorPolicy(i), nil
		}
	}
	return 0, fmt.Errorf("unknown color policy %q (valid: %s)", s, strings.Join(colorPolicyNames[:], ", "))
}

// NewReducer returns a reducer with the palette shuffled once. The title
// template is parsed with the sprig functions and test executed, so a
// template that cannot render a title is rejected here rather than when a
// track is added.
func NewReducer(cfg ReducerConfig) (*Reducer, error) {
	if cfg.ColorPolicy < ColorCycle || cfg.ColorPolicy > ColorRandom {
		return nil, fmt.Errorf("invalid color policy %d", int(cfg.ColorPolicy))
	}
	r := cfg.Rand
	if r == nil {
		r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	palette := cfg.Palette
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	palette = append([]string(nil), palette...)
	r.Shuffle(len(palette), func(i, j int) { palette[i], palette[j] = palette[j], palette[i] })
	text := cfg.TitleTemplate
	if text == "" {
		text = DefaultTitleTemplate
	}
	tmpl, err := template.New("title").Funcs(sprig.TxtFuncMap()).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("invalid title template: %w", err)
	}
	if err := tmpl.Execute(&bytes.Buffer{}, TitleData{Type: multitrack.Drum}); err != nil {
		return nil, fmt.Errorf("invalid title template: %w", err)
	}
	return &Reducer{palette: palette, policy: cfg.ColorPolicy, rand: r, title: tmpl}, nil
}

// Palette returns the palette in the shuffled order.
func (r *Reducer) Palette() []string {
	return append([]string(nil), r.palette...)
}

// Reduce returns the next song and the effect to execute, or nil if the
// intent needs no effect.
func (r *Reducer) Reduce(song multitrack.Song, intent Intent) (multitrack.Song, Effect) {
	switch i := intent.(type) {
	case Appeared:
		return song, Initialize{Song: song.Copy()}
	case TogglePlay:
		song.IsPlaying = !song.IsPlaying
		return song, SyncTransport{Song: song.Copy()}
	case AddTrack:
		if !i.Type.Valid() {
			return song, nil
		}
		id := len(song.Tracks)
		track := multitrack.Track{
			ID:     id,
			Type:   i.Type,
			Title:  r.trackTitle(i.Type, id),
			Color:  r.trackColor(id),
			Status: multitrack.StatusPending,
		}
		song = song.Copy()
		song.Tracks = append(song.Tracks, track)
		return song, CreateTrack{Type: track.Type, Title: track.Title, ID: id, LengthInBeats: song.LengthInBeats}
	case TrackIntent:
		track, ok := song.Track(i.ID)
		if !ok {
			return song, nil
		}
		return song, reduceTrack(track, i.Action)
	case Delegate:
		return applyEvent(song, i.Event), nil
	}
	return song, nil
}

// reduceTrack is the per track sub-reducer. Track actions do not change the
// song; they only map to engine effects.
func reduceTrack(track multitrack.Track, action TrackAction) Effect {
	switch a := action.(type) {
	case AddNote:
		return InsertNote{TrackID: track.ID, Note: a.NoteEvent}
	case RemoveNote:
		return ClearNotes{TrackID: track.ID, Position: a.Position, Duration: a.Duration}
	}
	return nil
}

func applyEvent(song multitrack.Song, event Event) multitrack.Song {
	switch e := event.(type) {
	case EngineStarted:
		song.EngineDegraded = false
	case EngineStartFailed:
		song.EngineDegraded = true
	case TrackCreateFailed:
		song = updateTrack(song, e.ID, func(t *multitrack.Track) { t.Status = multitrack.StatusFailed })
	case InstrumentLoaded:
		song = updateTrack(song, e.ID, func(t *multitrack.Track) {
			t.Status = multitrack.StatusReady
			t.Instrument = e.Instrument
		})
	case InstrumentSkipped:
		song = updateTrack(song, e.ID, func(t *multitrack.Track) { t.Status = multitrack.StatusNoInstrument })
	case InstrumentLoadFailed:
		song = updateTrack(song, e.ID, func(t *multitrack.Track) { t.Status = multitrack.StatusFailed })
	}
	return song
}

func updateTrack(song multitrack.Song, id int, f func(t *multitrack.Track)) multitrack.Song {
	if _, ok := song.Track(id); !ok {
		return song
	}
	song = song.Copy()
	f(&song.Tracks[id])
	return song
}

func (r *Reducer) trackTitle(t multitrack.InstrumentType, id int) string {
	var b strings.Builder
	if err := r.title.Execute(&b, TitleData{Type: t, ID: id}); err != nil {
		return fmt.Sprintf("%s - %d", t.Name(), id)
	}
	return strings.TrimSpace(b.String())
}

func (r *Reducer) trackColor(id int) string {
	if len(r.palette) == 0 {
		return ""
	}
	if r.policy == ColorRandom {
		return r.palette[r.rand.IntN(len(r.palette))]
	}
	return r.palette[id%len(r.palette)]
}
