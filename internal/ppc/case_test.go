package ppc

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewCaseDefaults(t *testing.T) {
	c := NewCase(1, 3, 2, 2)

	if c.NumBus() != 3 || c.NumBranch() != 2 || c.NumGen() != 2 {
		t.Fatalf("dims = %d/%d/%d, want 3/2/2", c.NumBus(), c.NumBranch(), c.NumGen())
	}
	if c.NumRef() != 0 {
		t.Errorf("fresh case has %d ref buses, want 0", c.NumRef())
	}
	if c.Branch.At(1, BrStatus) != 1 {
		t.Error("branches should default to in-service")
	}
	if c.Branch.At(0, Tap) != 1 {
		t.Error("tap ratio should default to 1")
	}

	c.Bus.Set(0, BusType, Ref)
	c.Bus.Set(2, BusType, Ref)
	if c.NumRef() != 2 {
		t.Errorf("NumRef = %d, want 2", c.NumRef())
	}
}

func TestLoadCase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "case.json")
	data := `{
		"base_mva": 100,
		"bus": [[0, 3], [1, 1]],
		"branch": [[0, 1, 0.01, 0.1]],
		"gen": [[0, 1.5]]
	}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadCase(path)
	if err != nil {
		t.Fatalf("LoadCase failed: %v", err)
	}
	if c.BaseMVA != 100 {
		t.Errorf("BaseMVA = %v, want 100", c.BaseMVA)
	}
	if c.NumBus() != 2 || c.NumBranch() != 1 || c.NumGen() != 1 {
		t.Fatalf("dims = %d/%d/%d, want 2/1/1", c.NumBus(), c.NumBranch(), c.NumGen())
	}
	if c.NumRef() != 1 {
		t.Errorf("NumRef = %d, want 1", c.NumRef())
	}
	if c.Gen.At(0, PG) != 1.5 {
		t.Errorf("Gen PG = %v, want 1.5", c.Gen.At(0, PG))
	}
	// short rows are zero padded
	if c.Bus.At(1, VMax) != 0 {
		t.Errorf("padded column = %v, want 0", c.Bus.At(1, VMax))
	}
}

func TestLoadBundle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "case.json")
	data := `{
		"base_mva": 100,
		"bus": [[0, 3], [1, 1]],
		"gen": [[0], [1]],
		"lookups": {"ext_grid": [0], "gen": [1]},
		"costs": {"gen": [2.5]}
	}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	b, err := LoadBundle(path)
	if err != nil {
		t.Fatalf("LoadBundle failed: %v", err)
	}
	if err := b.Lookups.Validate(b.Case.NumGen()); err != nil {
		t.Fatalf("loaded lookups invalid: %v", err)
	}
	if got := b.Lookups[Gen]; len(got) != 1 || got[0] != 1 {
		t.Errorf("gen lookup = %v, want [1]", got)
	}
	if got := b.Costs[Gen]; len(got) != 1 || got[0] != 2.5 {
		t.Errorf("gen costs = %v, want [2.5]", got)
	}
}

func TestLoadCaseMissing(t *testing.T) {
	if _, err := LoadCase("/nonexistent/case.json"); err == nil {
		t.Error("expected error for missing file")
	}
}
