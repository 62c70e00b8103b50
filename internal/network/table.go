package network

import "fmt"

// Table is one element table: a fixed row count, labeled float columns and an
// optional object column holding embedded components.
type Table struct {
	name    string
	rows    int
	columns map[string][]float64
	objects []AttributeSetter
}

func NewTable(rows int) *Table {
	return &Table{rows: rows, columns: make(map[string][]float64)}
}

func (t *Table) Rows() int { return t.rows }

// SetColumn installs a column under label. A nil slice allocates zeros; a
// short slice is an error.
func (t *Table) SetColumn(label string, vals []float64) error {
	if vals == nil {
		vals = make([]float64, t.rows)
	}
	if len(vals) != t.rows {
		return fmt.Errorf("network: column %s has %d values for %d rows", label, len(vals), t.rows)
	}
	t.columns[label] = vals
	return nil
}

// SetObjects installs the object column.
func (t *Table) SetObjects(objs []AttributeSetter) error {
	if len(objs) != t.rows {
		return fmt.Errorf("network: object column has %d entries for %d rows", len(objs), t.rows)
	}
	t.objects = objs
	return nil
}

func (t *Table) HasColumn(label string) bool {
	_, ok := t.columns[label]
	return ok
}

// Column returns the backing slice of a column. Callers must not resize it.
func (t *Table) Column(label string) ([]float64, error) {
	col, ok := t.columns[label]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrNoColumn, t.name, label)
	}
	return col, nil
}

func (t *Table) At(label string, index int) (float64, error) {
	col, err := t.Column(label)
	if err != nil {
		return 0, err
	}
	if index < 0 || index >= t.rows {
		return 0, fmt.Errorf("%w: %s[%d]", ErrBadIndex, t.name, index)
	}
	return col[index], nil
}

func (t *Table) SetAt(label string, index int, v float64) error {
	col, err := t.Column(label)
	if err != nil {
		return err
	}
	if index < 0 || index >= t.rows {
		return fmt.Errorf("%w: %s[%d]", ErrBadIndex, t.name, index)
	}
	col[index] = v
	return nil
}

func (t *Table) Object(index int) (AttributeSetter, error) {
	if index < 0 || index >= t.rows {
		return nil, fmt.Errorf("%w: %s[%d]", ErrBadIndex, t.name, index)
	}
	if t.objects == nil || t.objects[index] == nil {
		return nil, fmt.Errorf("%w: %s[%d]", ErrNoObject, t.name, index)
	}
	return t.objects[index], nil
}
