package metrics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/jkisse/pandapower/internal/network"
)

// CellMean averages one network cell over the run, e.g. an injected load
// setpoint. Steps where the cell cannot be read are skipped.
type CellMean struct {
	element  string
	variable string
	index    int
	samples  []float64
}

func NewCellMean(element, variable string, index int) *CellMean {
	return &CellMean{element: element, variable: variable, index: index}
}

func (m *CellMean) Name() string {
	return fmt.Sprintf("mean_%s_%s_%d", m.element, m.variable, m.index)
}

func (m *CellMean) Observe(net *network.Network, step, iterations int) {
	if v, err := net.Value(m.element, m.variable, m.index); err == nil {
		m.samples = append(m.samples, v)
	}
}

func (m *CellMean) Value() float64 {
	if len(m.samples) == 0 {
		return 0
	}
	return stat.Mean(m.samples, nil)
}

func (m *CellMean) Reset() {
	m.samples = nil
}

// CellPeak tracks the largest absolute value one network cell takes over
// the run.
type CellPeak struct {
	element  string
	variable string
	index    int
	peak     float64
	samples  int
}

func NewCellPeak(element, variable string, index int) *CellPeak {
	return &CellPeak{element: element, variable: variable, index: index}
}

func (m *CellPeak) Name() string {
	return fmt.Sprintf("peak_%s_%s_%d", m.element, m.variable, m.index)
}

func (m *CellPeak) Observe(net *network.Network, step, iterations int) {
	v, err := net.Value(m.element, m.variable, m.index)
	if err != nil {
		return
	}
	if abs := math.Abs(v); abs > m.peak {
		m.peak = abs
	}
	m.samples++
}

func (m *CellPeak) Value() float64 {
	return m.peak
}

func (m *CellPeak) Reset() {
	m.peak = 0
	m.samples = 0
}
