// Package sparse provides a minimal sparse matrix for assembling solver
// inputs. Entries are stored by coordinate; zero assignments remove the
// entry, so NNZ counts true structural nonzeros.
package sparse

import (
	"sort"

	"gonum.org/v1/gonum/mat"
)

type key struct{ row, col int }

// Matrix is a dictionary-of-keys sparse matrix.
type Matrix struct {
	rows, cols int
	data       map[key]float64
}

// Nonzero is one stored entry, used for triplet export.
type Nonzero struct {
	Row, Col int
	Val      float64
}

func New(rows, cols int) *Matrix {
	if rows < 0 || cols < 0 {
		panic("sparse: negative dimension")
	}
	return &Matrix{rows: rows, cols: cols, data: make(map[key]float64)}
}

func (m *Matrix) Dims() (rows, cols int) { return m.rows, m.cols }

// NNZ returns the number of stored entries.
func (m *Matrix) NNZ() int { return len(m.data) }

func (m *Matrix) At(row, col int) float64 {
	m.check(row, col)
	return m.data[key{row, col}]
}

func (m *Matrix) Set(row, col int, v float64) {
	m.check(row, col)
	if v == 0 {
		delete(m.data, key{row, col})
		return
	}
	m.data[key{row, col}] = v
}

// Add accumulates v onto the entry at (row, col).
func (m *Matrix) Add(row, col int, v float64) {
	m.check(row, col)
	m.Set(row, col, m.data[key{row, col}]+v)
}

// Triplets returns all stored entries in row-major order.
func (m *Matrix) Triplets() []Nonzero {
	nz := make([]Nonzero, 0, len(m.data))
	for k, v := range m.data {
		nz = append(nz, Nonzero{Row: k.row, Col: k.col, Val: v})
	}
	sort.Slice(nz, func(i, j int) bool {
		if nz[i].Row != nz[j].Row {
			return nz[i].Row < nz[j].Row
		}
		return nz[i].Col < nz[j].Col
	})
	return nz
}

// Dense expands the matrix into a gonum dense matrix.
func (m *Matrix) Dense() *mat.Dense {
	d := mat.NewDense(m.rows, m.cols, nil)
	for k, v := range m.data {
		d.Set(k.row, k.col, v)
	}
	return d
}

func (m *Matrix) check(row, col int) {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		panic("sparse: index out of range")
	}
}
