package metrics

import (
	"math"
	"testing"

	"github.com/jkisse/pandapower/internal/network"
)

func testNet(t *testing.T, vals []float64) *network.Network {
	t.Helper()
	net := network.New()
	tab := network.NewTable(len(vals))
	if err := tab.SetColumn("p_mw", vals); err != nil {
		t.Fatalf("SetColumn: %v", err)
	}
	net.AddTable(network.Load, tab)
	return net
}

func TestCellMean(t *testing.T) {
	net := testNet(t, []float64{2, 0})

	m := NewCellMean(network.Load, "p_mw", 0)
	m.Observe(net, 0, 1)
	net.Set(network.Load, "p_mw", 0, 4)
	m.Observe(net, 1, 1)

	if got := m.Value(); got != 3 {
		t.Fatalf("mean = %v, want 3", got)
	}
	if m.Name() != "mean_load_p_mw_0" {
		t.Fatalf("name = %q", m.Name())
	}

	m.Reset()
	if got := m.Value(); got != 0 {
		t.Fatalf("after reset: %v", got)
	}
}

func TestCellMeanSkipsUnreadableCells(t *testing.T) {
	net := testNet(t, []float64{1})

	m := NewCellMean(network.Sgen, "p_mw", 0)
	m.Observe(net, 0, 1)
	if got := m.Value(); got != 0 {
		t.Fatalf("mean over no samples = %v, want 0", got)
	}
}

func TestCellPeak(t *testing.T) {
	net := testNet(t, []float64{-5, 0})

	m := NewCellPeak(network.Load, "p_mw", 0)
	m.Observe(net, 0, 1)
	net.Set(network.Load, "p_mw", 0, 3)
	m.Observe(net, 1, 1)

	if got := m.Value(); got != 5 {
		t.Fatalf("peak = %v, want 5", got)
	}
}

func TestIterations(t *testing.T) {
	m := NewIterations()
	if got := m.Value(); got != 0 {
		t.Fatalf("empty value = %v, want 0", got)
	}
	m.Observe(nil, 0, 1)
	m.Observe(nil, 1, 3)
	if got := m.Value(); math.Abs(got-2) > 1e-12 {
		t.Fatalf("mean iterations = %v, want 2", got)
	}
}
