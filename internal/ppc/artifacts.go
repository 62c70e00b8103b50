package ppc

import (
	"gonum.org/v1/gonum/mat"

	"github.com/jkisse/pandapower/internal/sparse"
)

// QP is the generalized cost block consumed by the solver adapter: a
// quadratic penalty H, a linear transform N, a linear constraint matrix A
// with bound vectors L and U, linear cost weights Cw and the per-variable
// cost-decomposition parameters FParm (columns d, r, k, m).
//
// All square matrices share the dimension 2*nb + 2*ng + 2*nl; A, L and U
// cover the 2*nl auxiliary constraint rows.
type QP struct {
	H     *sparse.Matrix
	N     *sparse.Matrix
	A     *sparse.Matrix
	L     []float64
	U     []float64
	Cw    []float64
	FParm *mat.Dense
}
