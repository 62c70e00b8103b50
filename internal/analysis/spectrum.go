// Package analysis extracts periodicity information from recorded study
// series, e.g. the daily cycle of an injected load profile.
package analysis

import (
	"math"
	"math/cmplx"
)

// transform is a radix-2 Cooley-Tukey FFT. Callers pad to a power of two.
func transform(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		out := make([]complex128, n)
		for i, v := range data {
			out[i] = complex(v, 0)
		}
		return out
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	fe := transform(even)
	fo := transform(odd)

	out := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		out[k] = fe[k] + w*fo[k]
		out[k+n/2] = fe[k] - w*fo[k]
	}
	return out
}

// pad zero-extends series to the next power of two and removes its mean, so
// the DC bin does not swamp the spectrum.
func pad(series []float64) []float64 {
	n := 1
	for n < len(series) {
		n *= 2
	}
	mean := 0.0
	for _, v := range series {
		mean += v
	}
	if len(series) > 0 {
		mean /= float64(len(series))
	}
	padded := make([]float64, n)
	for i, v := range series {
		padded[i] = v - mean
	}
	return padded
}

// PowerSpectrum returns the magnitude of each frequency bin up to the
// Nyquist frequency. Bin i holds i cycles over the padded series length.
func PowerSpectrum(series []float64) []float64 {
	if len(series) == 0 {
		return nil
	}
	f := transform(pad(series))
	ps := make([]float64, len(f)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(f[i])
	}
	return ps
}

// DominantPeriod estimates the strongest cycle length of series, in steps.
// It reports ok=false when the series is too short or has no oscillation.
func DominantPeriod(series []float64) (float64, bool) {
	if len(series) < 4 {
		return 0, false
	}
	ps := PowerSpectrum(series)

	maxPower, maxBin := 0.0, 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > maxPower {
			maxPower = ps[i]
			maxBin = i
		}
	}
	if maxBin == 0 || maxPower == 0 {
		return 0, false
	}

	n := 1
	for n < len(series) {
		n *= 2
	}
	return float64(n) / float64(maxBin), true
}
