// Package network models the user-facing network as named element tables
// with labeled numeric columns. Controllers mutate it through the write
// surface; it is owned by the enclosing run loop and passed by reference for
// the duration of one call.
package network

import (
	"errors"
	"fmt"
)

// Common element table names.
const (
	Load    = "load"
	Sgen    = "sgen"
	Storage = "storage"
	Gen     = "gen"
	ExtGrid = "ext_grid"
	Trafo   = "trafo"
	Trafo3W = "trafo3w"
	Line    = "line"
)

var (
	ErrNoTable  = errors.New("network: no such element table")
	ErrNoColumn = errors.New("network: no such column")
	ErrNoObject = errors.New("network: no object at index")
	ErrBadIndex = errors.New("network: row index out of range")
)

// AttributeSetter is the capability interface for objects embedded in an
// element table, e.g. other controllers whose setpoints are driven by time
// series. Targets expose named attributes explicitly instead of being
// mutated by reflection.
type AttributeSetter interface {
	SetAttribute(name string, value float64) error
}

// Network is a bundle of element tables plus the recycle hints registered by
// controllers. It is not safe for concurrent use.
type Network struct {
	tables map[string]*Table
	hints  map[string]Recycle
}

func New() *Network {
	return &Network{
		tables: make(map[string]*Table),
		hints:  make(map[string]Recycle),
	}
}

// AddTable registers an element table under name, replacing any previous one.
func (n *Network) AddTable(name string, t *Table) {
	t.name = name
	n.tables[name] = t
}

func (n *Network) Table(name string) (*Table, error) {
	t, ok := n.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoTable, name)
	}
	return t, nil
}

// Value reads a single cell.
func (n *Network) Value(element, variable string, index int) (float64, error) {
	t, err := n.Table(element)
	if err != nil {
		return 0, err
	}
	return t.At(variable, index)
}

// Values reads one cell per index, in order.
func (n *Network) Values(element, variable string, indices []int) ([]float64, error) {
	t, err := n.Table(element)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(indices))
	for i, idx := range indices {
		if out[i], err = t.At(variable, idx); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Set writes a single cell.
func (n *Network) Set(element, variable string, index int, v float64) error {
	t, err := n.Table(element)
	if err != nil {
		return err
	}
	return t.SetAt(variable, index, v)
}

// SetBulk writes one value per index across the given rows.
func (n *Network) SetBulk(element, variable string, indices []int, vals []float64) error {
	t, err := n.Table(element)
	if err != nil {
		return err
	}
	if len(indices) != len(vals) {
		return fmt.Errorf("network: %d indices for %d values", len(indices), len(vals))
	}
	for i, idx := range indices {
		if err := t.SetAt(variable, idx, vals[i]); err != nil {
			return err
		}
	}
	return nil
}

// SetObjectAttr sets a named attribute on the object embedded at the given
// row of an element table.
func (n *Network) SetObjectAttr(element string, index int, attr string, v float64) error {
	t, err := n.Table(element)
	if err != nil {
		return err
	}
	obj, err := t.Object(index)
	if err != nil {
		return err
	}
	return obj.SetAttribute(attr, v)
}
