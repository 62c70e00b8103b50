package control

import (
	"errors"
	"testing"

	"github.com/jkisse/pandapower/internal/network"
	"github.com/jkisse/pandapower/internal/timeseries"
)

func loadNet(t *testing.T, pmw []float64) *network.Network {
	t.Helper()
	n := network.New()
	tbl := network.NewTable(len(pmw))
	if err := tbl.SetColumn("p_mw", pmw); err != nil {
		t.Fatal(err)
	}
	n.AddTable(network.Load, tbl)
	return n
}

func source(t *testing.T, columns map[string][]float64) timeseries.DataSource {
	t.Helper()
	d, err := timeseries.FromColumns(columns)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestStrategySelection(t *testing.T) {
	net := loadNet(t, []float64{0, 0})
	src := source(t, map[string][]float64{"a": {1}, "b": {2}})

	tests := []struct {
		name     string
		cfg      ConstControlConfig
		want     WriteStrategy
		wantAttr string
	}{
		{
			"single index",
			ConstControlConfig{Element: network.Load, Variable: "p_mw", Indices: []int{0}, Source: src, Profiles: []string{"a"}},
			WriteSingle, "",
		},
		{
			"multiple indices",
			ConstControlConfig{Element: network.Load, Variable: "p_mw", Indices: []int{0, 1}, Source: src, Profiles: []string{"a", "b"}},
			WriteBulk, "",
		},
		{
			"object path",
			ConstControlConfig{Element: "controller", Variable: "object.vm_set_pu", Indices: []int{0}, Source: src, Profiles: []string{"a"}},
			WriteObject, "vm_set_pu",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewConstControl(net, tt.cfg)
			if err != nil {
				t.Fatalf("NewConstControl failed: %v", err)
			}
			if c.Strategy() != tt.want {
				t.Errorf("strategy = %v, want %v", c.Strategy(), tt.want)
			}
			if c.objectAttr != tt.wantAttr {
				t.Errorf("object attribute = %q, want %q", c.objectAttr, tt.wantAttr)
			}
		})
	}
}

func TestConfigErrorsAreFatal(t *testing.T) {
	net := loadNet(t, []float64{0})
	src := source(t, map[string][]float64{"a": {1}})

	tests := []struct {
		name string
		cfg  ConstControlConfig
	}{
		{"no element", ConstControlConfig{Variable: "p_mw", Indices: []int{0}}},
		{"no variable", ConstControlConfig{Element: network.Load, Indices: []int{0}}},
		{"no indices", ConstControlConfig{Element: network.Load, Variable: "p_mw"}},
		{"source without profiles", ConstControlConfig{Element: network.Load, Variable: "p_mw", Indices: []int{0}, Source: src}},
		{"empty object attribute", ConstControlConfig{Element: network.Load, Variable: "object.", Indices: []int{0}, Source: src, Profiles: []string{"a"}}},
		{"object without source", ConstControlConfig{Element: network.Load, Variable: "object.x", Indices: []int{0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewConstControl(net, tt.cfg); !errors.Is(err, ErrBadConfig) {
				t.Errorf("err = %v, want ErrBadConfig", err)
			}
		})
	}
}

func TestInjectorRoundTrip(t *testing.T) {
	net := loadNet(t, []float64{0})
	src := source(t, map[string][]float64{"load_a": {5, 7}})

	c, err := NewConstControl(net, ConstControlConfig{
		Element: network.Load, Variable: "p_mw", Indices: []int{0},
		Source: src, Profiles: []string{"load_a"}, Scale: 2,
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := c.TimeStep(net, 0); err != nil {
		t.Fatalf("TimeStep failed: %v", err)
	}
	if v, _ := net.Value(network.Load, "p_mw", 0); v != 10 {
		t.Errorf("network value = %v, want 10 (scaled)", v)
	}
	if c.IsConverged(net) {
		t.Error("converged before ControlStep")
	}
	c.ControlStep(net)
	if !c.IsConverged(net) {
		t.Error("not converged after ControlStep")
	}

	// next step resets the applied flag
	if err := c.TimeStep(net, 1); err != nil {
		t.Fatal(err)
	}
	if c.IsConverged(net) {
		t.Error("applied flag not reset by new time step")
	}
	if v, _ := net.Value(network.Load, "p_mw", 0); v != 14 {
		t.Errorf("network value = %v, want 14", v)
	}
}

func TestBulkWrite(t *testing.T) {
	net := loadNet(t, []float64{0, 0, 0})
	src := source(t, map[string][]float64{"a": {1}, "b": {2}})

	c, err := NewConstControl(net, ConstControlConfig{
		Element: network.Load, Variable: "p_mw", Indices: []int{0, 2},
		Source: src, Profiles: []string{"a", "b"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := c.TimeStep(net, 0); err != nil {
		t.Fatal(err)
	}

	got, _ := net.Values(network.Load, "p_mw", []int{0, 1, 2})
	want := []float64{1, 0, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestNoSourceResetsToCurrent(t *testing.T) {
	net := loadNet(t, []float64{3.5})

	c, err := NewConstControl(net, ConstControlConfig{
		Element: network.Load, Variable: "p_mw", Indices: []int{0},
	})
	if err != nil {
		t.Fatal(err)
	}

	for step := 0; step < 3; step++ {
		if err := c.TimeStep(net, step); err != nil {
			t.Fatalf("step %d: %v", step, err)
		}
		if v, _ := net.Value(network.Load, "p_mw", 0); v != 3.5 {
			t.Errorf("step %d changed value to %v", step, v)
		}
	}
}

func TestAbsentValueLeavesNetUntouched(t *testing.T) {
	net := loadNet(t, []float64{1})
	src := source(t, map[string][]float64{"a": {9}})

	c, err := NewConstControl(net, ConstControlConfig{
		Element: network.Load, Variable: "p_mw", Indices: []int{0},
		Source: src, Profiles: []string{"a"},
	})
	if err != nil {
		t.Fatal(err)
	}

	// step 5 is past the frame end
	if err := c.TimeStep(net, 5); err != nil {
		t.Fatal(err)
	}
	if v, _ := net.Value(network.Load, "p_mw", 0); v != 1 {
		t.Errorf("absent value overwrote cell: %v", v)
	}
}

type tapObject struct{ vm float64 }

func (o *tapObject) SetAttribute(name string, v float64) error {
	if name != "vm_set_pu" {
		return errors.New("unknown attribute " + name)
	}
	o.vm = v
	return nil
}

func TestObjectWrite(t *testing.T) {
	net := network.New()
	tbl := network.NewTable(2)
	a, b := &tapObject{}, &tapObject{}
	if err := tbl.SetObjects([]network.AttributeSetter{a, b}); err != nil {
		t.Fatal(err)
	}
	net.AddTable("controller", tbl)
	src := source(t, map[string][]float64{"va": {1.01}, "vb": {1.04}})

	c, err := NewConstControl(net, ConstControlConfig{
		Element: "controller", Variable: "object.vm_set_pu", Indices: []int{0, 1},
		Source: src, Profiles: []string{"va", "vb"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := c.TimeStep(net, 0); err != nil {
		t.Fatal(err)
	}
	if a.vm != 1.01 || b.vm != 1.04 {
		t.Errorf("object values = %v/%v, want 1.01/1.04", a.vm, b.vm)
	}
}

func TestRecycleHintRegistered(t *testing.T) {
	net := loadNet(t, []float64{0})
	c, err := NewConstControl(net, ConstControlConfig{
		ID: "c0", Element: network.Load, Variable: "p_mw", Indices: []int{0},
	})
	if err != nil {
		t.Fatal(err)
	}
	if r, ok := net.RecycleHint(c.ID()); !ok || !r.BusPQ {
		t.Errorf("recycle hint = %+v/%v, want BusPQ/true", r, ok)
	}
}
