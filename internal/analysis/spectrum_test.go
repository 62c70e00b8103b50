package analysis

import (
	"math"
	"testing"
)

func sine(n int, period float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * float64(i) / period)
	}
	return out
}

func TestDominantPeriodOfSine(t *testing.T) {
	tests := []struct {
		name   string
		n      int
		period float64
	}{
		{"daily cycle", 64, 8},
		{"long cycle", 128, 32},
		{"short cycle", 64, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DominantPeriod(sine(tt.n, tt.period))
			if !ok {
				t.Fatal("expected a dominant period")
			}
			if math.Abs(got-tt.period) > tt.period*0.2 {
				t.Fatalf("period = %v, want about %v", got, tt.period)
			}
		})
	}
}

func TestDominantPeriodWithOffset(t *testing.T) {
	data := sine(64, 8)
	for i := range data {
		data[i] += 100
	}
	got, ok := DominantPeriod(data)
	if !ok {
		t.Fatal("expected a dominant period")
	}
	if math.Abs(got-8) > 2 {
		t.Fatalf("period = %v, want about 8", got)
	}
}

func TestDominantPeriodRejectsShortSeries(t *testing.T) {
	if _, ok := DominantPeriod([]float64{1, 2}); ok {
		t.Fatal("short series should have no period")
	}
}

func TestDominantPeriodRejectsConstantSeries(t *testing.T) {
	if _, ok := DominantPeriod([]float64{3, 3, 3, 3, 3, 3, 3, 3}); ok {
		t.Fatal("constant series should have no period")
	}
}

func TestPowerSpectrumLength(t *testing.T) {
	ps := PowerSpectrum(sine(100, 10))
	// padded to 128, half returned
	if len(ps) != 64 {
		t.Fatalf("spectrum length = %d, want 64", len(ps))
	}
}
