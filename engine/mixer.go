package engine

import (
	"errors"

	"github.com/viterin/vek/vek32"
	"github.com/vsariola/multitrack"
)

// Mixer sums the mono output of its input samplers and writes it to both
// channels of the output.
type Mixer struct {
	e       *Engine
	inputs  []*Sampler
	gain    float32
	sum     []float32
	scratch []float32
}

var _ multitrack.Mixer = (*Mixer)(nil)

var errForeignSampler = errors.New("sampler was not created by this engine")

// AddInput connects a sampler to the mixer. Adding the same sampler twice
// does nothing.
func (m *Mixer) AddInput(s multitrack.Sampler) error {
	sampler, ok := s.(*Sampler)
	if !ok || sampler.e != m.e {
		return errForeignSampler
	}
	m.e.mu.Lock()
	defer m.e.mu.Unlock()
	for _, in := range m.inputs {
		if in == sampler {
			return nil
		}
	}
	m.inputs = append(m.inputs, sampler)
	return nil
}

// NumInputs returns the number of connected samplers.
func (m *Mixer) NumInputs() int {
	m.e.mu.Lock()
	defer m.e.mu.Unlock()
	return len(m.inputs)
}

// render is called with the engine lock held.
func (m *Mixer) render(buf multitrack.AudioBuffer) {
	n := len(buf)
	if cap(m.sum) < n {
		m.sum = make([]float32, n)
		m.scratch = make([]float32, n)
	}
	sum := vek32.Zeros_Into(m.sum, n)
	scratch := m.scratch[:n]
	for _, in := range m.inputs {
		in.render(scratch)
		vek32.Add_Inplace(sum, scratch)
	}
	vek32.MulNumber_Inplace(sum, m.gain)
	for i, v := range sum {
		buf[i] = [2]float32{v, v}
	}
}
