package ppc

import (
	"encoding/json"
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"
)

// Case is the prepared internal case: ordered bus/branch/gen arrays plus the
// artifacts an OPF objective builder attaches to it. BaseMVA scales per-unit
// quantities; the arrays use the column layout defined in idx.go.
type Case struct {
	BaseMVA float64
	Bus     *mat.Dense
	Branch  *mat.Dense
	Gen     *mat.Dense

	// GenCost is filled by the objective builder, one row per gen row.
	GenCost *mat.Dense
	// QP stays nil unless the builder runs in a loss-minimizing mode.
	QP *QP
}

// NewCase allocates a zeroed case with nb buses, nl branches and ng
// generator rows.
func NewCase(baseMVA float64, nb, nl, ng int) *Case {
	c := &Case{
		BaseMVA: baseMVA,
		Bus:     mat.NewDense(nb, BusCols, nil),
		Gen:     mat.NewDense(ng, GenCols, nil),
	}
	if nl > 0 {
		c.Branch = mat.NewDense(nl, BranchCols, nil)
	}
	for i := 0; i < nb; i++ {
		c.Bus.Set(i, BusI, float64(i))
		c.Bus.Set(i, BusType, PQ)
		c.Bus.Set(i, VM, 1)
	}
	for i := 0; i < nl; i++ {
		c.Branch.Set(i, BrStatus, 1)
		c.Branch.Set(i, Tap, 1)
	}
	for i := 0; i < ng; i++ {
		c.Gen.Set(i, GenStatus, 1)
		c.Gen.Set(i, VG, 1)
	}
	return c
}

func (c *Case) NumBus() int { r, _ := c.Bus.Dims(); return r }

func (c *Case) NumBranch() int {
	if c.Branch == nil {
		return 0
	}
	r, _ := c.Branch.Dims()
	return r
}

func (c *Case) NumGen() int { r, _ := c.Gen.Dims(); return r }

// NumRef counts reference (slack) buses.
func (c *Case) NumRef() int {
	n := 0
	for i := 0; i < c.NumBus(); i++ {
		if c.Bus.At(i, BusType) == Ref {
			n++
		}
	}
	return n
}

type caseJSON struct {
	BaseMVA float64              `json:"base_mva"`
	Bus     [][]float64          `json:"bus"`
	Branch  [][]float64          `json:"branch"`
	Gen     [][]float64          `json:"gen"`
	Lookups map[string][]int     `json:"lookups"`
	Costs   map[string][]float64 `json:"costs"`
}

// Bundle is a case file together with the element lookups and cost
// attributes prepared alongside it.
type Bundle struct {
	Case    *Case
	Lookups Lookups
	Costs   Costs
}

// LoadCase reads a case from a JSON file of row-major bus/branch/gen arrays.
// Short rows are padded with zeros to the full column width.
func LoadCase(path string) (*Case, error) {
	b, err := LoadBundle(path)
	if err != nil {
		return nil, err
	}
	return b.Case, nil
}

// LoadBundle reads a case file including its optional lookups and costs
// sections.
func LoadBundle(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cj caseJSON
	if err := json.Unmarshal(data, &cj); err != nil {
		return nil, fmt.Errorf("parse case %s: %w", path, err)
	}
	if cj.BaseMVA == 0 {
		cj.BaseMVA = 1
	}
	c := &Case{BaseMVA: cj.BaseMVA}
	if c.Bus, err = denseFromRows(cj.Bus, BusCols); err != nil {
		return nil, fmt.Errorf("case bus array: %w", err)
	}
	if len(cj.Branch) > 0 {
		if c.Branch, err = denseFromRows(cj.Branch, BranchCols); err != nil {
			return nil, fmt.Errorf("case branch array: %w", err)
		}
	}
	if c.Gen, err = denseFromRows(cj.Gen, GenCols); err != nil {
		return nil, fmt.Errorf("case gen array: %w", err)
	}
	return &Bundle{Case: c, Lookups: cj.Lookups, Costs: cj.Costs}, nil
}

func denseFromRows(rows [][]float64, cols int) (*mat.Dense, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty array")
	}
	m := mat.NewDense(len(rows), cols, nil)
	for i, row := range rows {
		if len(row) > cols {
			return nil, fmt.Errorf("row %d has %d columns, want at most %d", i, len(row), cols)
		}
		for j, v := range row {
			m.Set(i, j, v)
		}
	}
	return m, nil
}
