package tracker

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sync"

	"github.com/vsariola/multitrack"
	"golang.org/x/sync/errgroup"
)

//go:embed templates/*.mid presets/*.yml
var bundledFS embed.FS

type (
	// Resource names the files a new track of some type is set up from: a
	// template sequence, the index of the track in it whose notes are copied
	// to the new track, and the default instrument. Empty paths mean none.
	Resource struct {
		Template      string
		TemplateTrack int
		Preset        string
	}

	// Resources is a read-only bundle of templates and presets, looked up by
	// instrument type. Parsed templates are cached.
	Resources struct {
		fsys  fs.FS
		table [multitrack.NumInstrumentTypes]Resource

		mu        sync.Mutex
		sequences map[string]multitrack.Sequence
	}
)

var DefaultResourceTable = [multitrack.NumInstrumentTypes]Resource{
	multitrack.Drum:    {Template: "templates/drums.mid", TemplateTrack: 0, Preset: "presets/drum.yml"},
	multitrack.Melodic: {Template: "templates/demo.mid", TemplateTrack: 2, Preset: "presets/melodic.yml"},
	multitrack.Audio:   {},
}

// BundledResources returns the resources embedded in the binary.
func BundledResources() *Resources {
	return NewResources(bundledFS)
}

// NewResources returns resources read from fsys, laid out like the bundled
// ones.
func NewResources(fsys fs.FS) *Resources {
	return &Resources{fsys: fsys, table: DefaultResourceTable, sequences: map[string]multitrack.Sequence{}}
}

func (r *Resources) FS() fs.FS { return r.fsys }

func (r *Resources) Lookup(t multitrack.InstrumentType) Resource {
	if !t.Valid() {
		return Resource{}
	}
	return r.table[t]
}

// Template returns the template track for the type. ok is false if the type
// has no template.
func (r *Resources) Template(t multitrack.InstrumentType) (track multitrack.SequenceTrack, ok bool, err error) {
	res := r.Lookup(t)
	if res.Template == "" {
		return multitrack.SequenceTrack{}, false, nil
	}
	seq, err := r.sequence(res.Template)
	if err != nil {
		return multitrack.SequenceTrack{}, false, err
	}
	track, ok = seq.Track(res.TemplateTrack)
	if !ok {
		return multitrack.SequenceTrack{}, false, fmt.Errorf("template %s has no track %d", res.Template, res.TemplateTrack)
	}
	return track, true, nil
}

// Preload parses every template and preset concurrently, so broken files
// are found before the first track is added. Templates are cached.
func (r *Resources) Preload(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, t := range multitrack.InstrumentTypes() {
		res := r.Lookup(t)
		if res.Template != "" {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				_, _, err := r.Template(t)
				return err
			})
		}
		if res.Preset != "" {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				_, err := multitrack.LoadInstrument(r.fsys, res.Preset)
				return err
			})
		}
	}
	return g.Wait()
}

func (r *Resources) sequence(path string) (multitrack.Sequence, error) {
	r.mu.Lock()
	seq, ok := r.sequences[path]
	r.mu.Unlock()
	if ok {
		return seq, nil
	}
	seq, err := multitrack.LoadSequence(r.fsys, path)
	if err != nil {
		return multitrack.Sequence{}, err
	}
	r.mu.Lock()
	r.sequences[path] = seq
	r.mu.Unlock()
	return seq, nil
}
