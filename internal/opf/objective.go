package opf

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"github.com/jkisse/pandapower/internal/ppc"
	"github.com/jkisse/pandapower/internal/sparse"
)

// Mode selects the objective formulation.
type Mode string

const (
	// ModeLinear maximizes generator output with linear per-unit costs.
	ModeLinear Mode = "linear"
	// ModeLinearMinLoss additionally penalizes voltage magnitude and angle
	// differences across branches, approximating line-loss minimization.
	ModeLinearMinLoss Mode = "linear_minloss"
)

var (
	ErrUnknownMode = errors.New("opf: unknown objective mode")
	ErrCostShape   = errors.New("opf: cost attributes misaligned with lookup")
)

// costScale converts per-kW cost attributes to the case's MW-scaled units.
const costScale = 1e3

// epsilon band for the auxiliary equality constraints. Zero makes the bounds
// an exact equality.
const zEps = 0.0

// costCategories is the application order; categories map to disjoint gen
// rows (enforced by Lookups.Validate), so order only matters for reading.
var costCategories = []string{ppc.ExtGrid, ppc.Gen, ppc.SgenControllable, ppc.LoadControllable}

// BuildObjective augments the prepared case with the cost artifacts for the
// given mode and returns it. The gencost table always gets one row per gen
// row; ModeLinearMinLoss additionally attaches the generalized QP block.
// Unknown modes and misaligned inputs are configuration errors.
func BuildObjective(c *ppc.Case, lookups ppc.Lookups, costs ppc.Costs, mode Mode, lossWeight float64) (*ppc.Case, error) {
	switch mode {
	case ModeLinear, ModeLinearMinLoss:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	ng := c.NumGen()
	if err := lookups.Validate(ng); err != nil {
		return nil, err
	}

	genCosts := make([]float64, ng)
	for i := range genCosts {
		genCosts[i] = 1
	}
	for _, cat := range costCategories {
		rows, ok := lookups[cat]
		if !ok {
			continue
		}
		vals, ok := costs[cat]
		if !ok {
			continue
		}
		if len(vals) != len(rows) {
			return nil, fmt.Errorf("%w: %s has %d costs for %d rows", ErrCostShape, cat, len(vals), len(rows))
		}
		for i, row := range rows {
			genCosts[row] = vals[i]
		}
	}

	c.GenCost = makeGenCost(genCosts, c.NumRef())

	if mode == ModeLinear {
		return c, nil
	}

	qp, err := makeMinLoss(c, lossWeight)
	if err != nil {
		return nil, err
	}
	c.QP = qp
	return c, nil
}

// gencost row templates: polynomial model, two cost points. Column 6 flags
// reference-bus rows; column 7 receives the scaled cost coefficient.
var (
	refCostRow   = []float64{1, 0, 0, 2, 0, 0, 1, 0}
	otherCostRow = []float64{1, 0, 0, 2, 0, 0, 0, 0}
)

// GenCost columns of interest.
const (
	GenCostRefFlag = 6
	GenCostCoeff   = 7
)

func makeGenCost(genCosts []float64, nref int) *mat.Dense {
	ng := len(genCosts)
	if nref > ng {
		nref = ng
	}
	gc := mat.NewDense(ng, len(refCostRow), nil)
	for i := 0; i < ng; i++ {
		if i < nref {
			gc.SetRow(i, refCostRow)
		} else {
			gc.SetRow(i, otherCostRow)
		}
		cost := genCosts[i] * costScale
		if math.IsNaN(cost) {
			cost = 0
		}
		gc.Set(i, GenCostCoeff, cost)
	}
	return gc
}

func makeMinLoss(c *ppc.Case, lossWeight float64) (*ppc.QP, error) {
	nb := c.NumBus()
	ng := c.NumGen()
	nl := c.NumBranch()
	dim := 2*nb + 2*ng + 2*nl

	// per-unit admittances; the case arrays are already normalized
	ybus, _, _, err := ppc.MakeYbus(1, c.Bus, c.Branch)
	if err != nil {
		return nil, err
	}

	qp := &ppc.QP{
		H:  sparse.New(dim, dim),
		N:  sparse.New(dim, dim),
		A:  sparse.New(2*nl, dim),
		L:  make([]float64, 2*nl),
		U:  make([]float64, 2*nl),
		Cw: make([]float64, dim),
	}
	for i := range qp.L {
		qp.L[i] = zEps
		qp.U[i] = -zEps
	}

	// One auxiliary variable per branch and quantity, occupying the trailing
	// 2*nl slots: z_k = Vm_f - Vm_t, then z_m = Va_f - Va_t. The decision
	// vector is laid out [Va; Vm; Pg; Qg; z].
	for i := 0; i < nl; i++ {
		f := int(c.Branch.At(i, ppc.FBus))
		t := int(c.Branch.At(i, ppc.TBus))
		y := cmplx.Abs(ybus.At(f, t))

		// magnitude difference, weighted by the loss penalty
		qp.H.Set(dim-2*nl+i, dim-2*nl+i, y*lossWeight)
		qp.A.Set(i, nb+f, 1)
		qp.A.Set(i, nb+t, -1)
		qp.A.Set(i, dim-2*nl+i, 1)

		// angle difference
		qp.H.Set(dim-nl+i, dim-nl+i, y)
		qp.A.Set(nl+i, f, 1)
		qp.A.Set(nl+i, t, -1)
		qp.A.Set(nl+i, dim-nl+i, 1)
	}

	// N maps the auxiliary coordinates through unchanged and drops the rest.
	for i := dim - 2*nl; i < dim; i++ {
		qp.N.Set(i, i, 1)
	}

	// neutral generalized cost parameters: d=1, r=0, k=0, m=1
	qp.FParm = mat.NewDense(dim, 4, nil)
	for i := 0; i < dim; i++ {
		qp.FParm.Set(i, 0, 1)
		qp.FParm.Set(i, 3, 1)
	}

	return qp, nil
}
