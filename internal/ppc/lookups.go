package ppc

import (
	"errors"
	"fmt"
	"sort"
)

// Element categories that may own generator rows.
const (
	ExtGrid          = "ext_grid"
	Gen              = "gen"
	SgenControllable = "sgen_controllable"
	LoadControllable = "load_controllable"
)

var ErrBadLookup = errors.New("ppc: invalid element lookup")

// Lookups maps an element category to the internal gen-row index of each of
// its in-service elements, aligned positionally with the category's element
// ordering. Categories with no controllable elements are simply absent.
type Lookups map[string][]int

// Costs carries per-category cost attribute columns (currency per kW),
// aligned with the category's lookup rows. Entries may be NaN where the
// element record has no cost data.
type Costs map[string][]float64

// Validate checks that every row index is within [0, n) and that no row is
// owned by more than one category. The objective builder requires both before
// it trusts the mapping.
func (l Lookups) Validate(n int) error {
	owner := make(map[int]string, n)
	cats := make([]string, 0, len(l))
	for cat := range l {
		cats = append(cats, cat)
	}
	sort.Strings(cats)
	for _, cat := range cats {
		for _, row := range l[cat] {
			if row < 0 || row >= n {
				return fmt.Errorf("%w: %s row %d out of range [0,%d)", ErrBadLookup, cat, row, n)
			}
			if prev, ok := owner[row]; ok {
				return fmt.Errorf("%w: row %d owned by both %s and %s", ErrBadLookup, row, prev, cat)
			}
			owner[row] = cat
		}
	}
	return nil
}
