package tracker

import (
	"maps"
	"slices"

	"github.com/vsariola/multitrack"
)

type (
	// Binding is the engine side of a track: the engine track holding its
	// notes and the sampler the track plays through.
	Binding struct {
		Track   multitrack.EngineTrack
		Sampler multitrack.Sampler
	}

	// Bindings maps track ids to their engine bindings. It is owned by the
	// adapter and guarded by the adapter lock.
	Bindings struct {
		m map[int]Binding
	}
)

func (b *Bindings) Bind(id int, binding Binding) {
	if b.m == nil {
		b.m = make(map[int]Binding)
	}
	b.m[id] = binding
}

func (b *Bindings) Lookup(id int) (Binding, bool) {
	binding, ok := b.m[id]
	return binding, ok
}

// IDs returns the bound track ids in ascending order.
func (b *Bindings) IDs() []int {
	return slices.Sorted(maps.Keys(b.m))
}
