package timeseries

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTimeStepValue(t *testing.T) {
	d, err := FromColumns(map[string][]float64{
		"load_a": {1, 2, 3},
		"load_b": {10, 20, 30},
	})
	if err != nil {
		t.Fatal(err)
	}
	if d.Steps() != 3 {
		t.Fatalf("Steps = %d, want 3", d.Steps())
	}

	vals, ok := d.TimeStepValue(1, []string{"load_a", "load_b"}, 1)
	if !ok {
		t.Fatal("expected values at step 1")
	}
	if vals[0] != 2 || vals[1] != 20 {
		t.Errorf("values = %v, want [2 20]", vals)
	}
}

func TestScaleFactor(t *testing.T) {
	d, _ := FromColumns(map[string][]float64{"p": {4}})

	vals, ok := d.TimeStepValue(0, []string{"p"}, 0.5)
	if !ok || vals[0] != 2 {
		t.Errorf("scaled value = %v/%v, want [2]/true", vals, ok)
	}
}

func TestAbsentMarker(t *testing.T) {
	d, _ := FromColumns(map[string][]float64{"p": {1, 2}})

	if _, ok := d.TimeStepValue(2, []string{"p"}, 1); ok {
		t.Error("step past frame end should be absent")
	}
	if _, ok := d.TimeStepValue(-1, []string{"p"}, 1); ok {
		t.Error("negative step should be absent")
	}
	if _, ok := d.TimeStepValue(0, []string{"q"}, 1); ok {
		t.Error("unknown profile should be absent")
	}
	if _, ok := d.TimeStepValue(0, nil, 1); ok {
		t.Error("no profiles requested should be absent")
	}
}

func TestMismatchedColumns(t *testing.T) {
	if _, err := FromColumns(map[string][]float64{"a": {1}, "b": {1, 2}}); err == nil {
		t.Error("expected error for unequal column lengths")
	}
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.csv")
	data := "load_a,sgen_pv\n1.5,0\n2.5,3.25\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	d, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}
	if d.Steps() != 2 {
		t.Fatalf("Steps = %d, want 2", d.Steps())
	}
	vals, ok := d.TimeStepValue(1, []string{"sgen_pv"}, 2)
	if !ok || vals[0] != 6.5 {
		t.Errorf("value = %v/%v, want [6.5]/true", vals, ok)
	}
}

func TestLoadCSVBadData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	if err := os.WriteFile(path, []byte("a\nnot-a-number\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCSV(path); err == nil {
		t.Error("expected parse error")
	}
}
