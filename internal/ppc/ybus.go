package ppc

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// MakeYbus builds the nb x nb bus admittance matrix together with the nl x nb
// from-end and to-end branch admittance matrices. Out-of-service branches
// contribute nothing; with no branches at all yf and yt are nil. Branch
// resistance/reactance are taken as given; a zero
// series impedance on an in-service branch propagates Inf entries rather than
// being remediated here.
func MakeYbus(baseMVA float64, bus, branch *mat.Dense) (ybus, yf, yt *mat.CDense, err error) {
	nb, _ := bus.Dims()
	nl := 0
	if branch != nil {
		nl, _ = branch.Dims()
	}

	ybus = mat.NewCDense(nb, nb, nil)
	if nl > 0 {
		yf = mat.NewCDense(nl, nb, nil)
		yt = mat.NewCDense(nl, nb, nil)
	}

	for i := 0; i < nl; i++ {
		f := int(branch.At(i, FBus))
		t := int(branch.At(i, TBus))
		if f < 0 || f >= nb || t < 0 || t >= nb {
			return nil, nil, nil, fmt.Errorf("ppc: branch %d connects %d-%d, outside [0,%d)", i, f, t, nb)
		}

		stat := branch.At(i, BrStatus)
		var ys complex128
		if stat != 0 {
			ys = complex(stat, 0) / complex(branch.At(i, BrR), branch.At(i, BrX))
		}
		bc := stat * branch.At(i, BrB)

		tap := complex(1, 0)
		if ratio := branch.At(i, Tap); ratio != 0 {
			tap = complex(ratio, 0)
		}
		if shift := branch.At(i, Shift); shift != 0 {
			tap *= cmplx.Exp(complex(0, math.Pi/180*shift))
		}

		ytt := ys + complex(0, bc/2)
		yff := ytt / (tap * cmplx.Conj(tap))
		yft := -ys / cmplx.Conj(tap)
		ytf := -ys / tap

		yf.Set(i, f, yf.At(i, f)+yff)
		yf.Set(i, t, yf.At(i, t)+yft)
		yt.Set(i, f, yt.At(i, f)+ytf)
		yt.Set(i, t, yt.At(i, t)+ytt)

		ybus.Set(f, f, ybus.At(f, f)+yff)
		ybus.Set(f, t, ybus.At(f, t)+yft)
		ybus.Set(t, f, ybus.At(t, f)+ytf)
		ybus.Set(t, t, ybus.At(t, t)+ytt)
	}

	// bus shunts
	for i := 0; i < nb; i++ {
		ysh := complex(bus.At(i, GS), bus.At(i, BS)) / complex(baseMVA, 0)
		ybus.Set(i, i, ybus.At(i, i)+ysh)
	}

	return ybus, yf, yt, nil
}
