package metrics

import (
	"gonum.org/v1/gonum/stat"

	"github.com/jkisse/pandapower/internal/network"
)

// Iterations averages the solve/control iteration count per step.
type Iterations struct {
	name   string
	counts []float64
}

func NewIterations() *Iterations {
	return &Iterations{name: "iterations"}
}

func (m *Iterations) Name() string { return m.name }

func (m *Iterations) Observe(net *network.Network, step, iterations int) {
	m.counts = append(m.counts, float64(iterations))
}

func (m *Iterations) Value() float64 {
	if len(m.counts) == 0 {
		return 0
	}
	return stat.Mean(m.counts, nil)
}

func (m *Iterations) Reset() {
	m.counts = nil
}
