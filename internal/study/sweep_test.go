package study

import (
	"context"
	"testing"

	"github.com/jkisse/pandapower/internal/config"
	"github.com/jkisse/pandapower/internal/network"
)

func TestSweepScalesScenarios(t *testing.T) {
	profiles := writeProfiles(t, "load_a\n1\n1\n")

	cfg := config.DefaultConfig()
	cfg.Steps = 2
	cfg.Profiles = profiles
	cfg.Controllers = []config.ControllerConfig{
		{Element: network.Load, Variable: "p_mw", Indices: []int{0}, Profiles: []string{"load_a"}},
	}

	sweep := NewSweep(cfg, []float64{1, 2, 3})
	results, err := sweep.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, want := range []float64{1, 2, 3} {
		got := results[i].Metrics["mean_load_p_mw_0"]
		if got != want {
			t.Errorf("scenario %d mean = %v, want %v", i, got, want)
		}
	}
}

func TestSweepPreservesBaseConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Controllers = []config.ControllerConfig{
		{Element: network.Load, Variable: "p_mw", Indices: []int{0}, Scale: 2},
	}

	scaled := scaledConfig(cfg, 3)
	if scaled.Controllers[0].Scale != 6 {
		t.Fatalf("scaled = %v, want 6", scaled.Controllers[0].Scale)
	}
	if cfg.Controllers[0].Scale != 2 {
		t.Fatalf("base mutated: %v", cfg.Controllers[0].Scale)
	}
}

func TestSweepRejectsEmptyScales(t *testing.T) {
	if _, err := NewSweep(config.DefaultConfig(), nil).Run(context.Background()); err == nil {
		t.Fatal("expected error for empty sweep")
	}
}
