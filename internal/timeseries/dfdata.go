package timeseries

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// DFData is a frame-backed data source: named profile columns of equal
// length, one row per time step.
type DFData struct {
	columns map[string][]float64
	steps   int
}

// FromColumns builds a DFData from in-memory profile columns. All columns
// must have the same length.
func FromColumns(columns map[string][]float64) (*DFData, error) {
	d := &DFData{columns: make(map[string][]float64, len(columns)), steps: -1}
	for name, col := range columns {
		if d.steps >= 0 && len(col) != d.steps {
			return nil, fmt.Errorf("timeseries: profile %s has %d steps, others have %d", name, len(col), d.steps)
		}
		d.steps = len(col)
		d.columns[name] = col
	}
	if d.steps < 0 {
		d.steps = 0
	}
	return d, nil
}

// LoadCSV reads a profile frame from a CSV file whose header names the
// profiles and whose rows are the per-step values.
func LoadCSV(path string) (*DFData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("timeseries: read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("timeseries: %s is empty", path)
	}

	header := records[0]
	columns := make(map[string][]float64, len(header))
	for _, name := range header {
		columns[name] = make([]float64, 0, len(records)-1)
	}
	for r, record := range records[1:] {
		if len(record) != len(header) {
			return nil, fmt.Errorf("timeseries: %s row %d has %d fields, want %d", path, r+1, len(record), len(header))
		}
		for i, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("timeseries: %s row %d column %s: %w", path, r+1, header[i], err)
			}
			columns[header[i]] = append(columns[header[i]], v)
		}
	}
	return FromColumns(columns)
}

// Steps reports the number of time steps in the frame.
func (d *DFData) Steps() int { return d.steps }

// Profiles lists the available profile names.
func (d *DFData) Profiles() []string {
	names := make([]string, 0, len(d.columns))
	for name := range d.columns {
		names = append(names, name)
	}
	return names
}

// Profile returns the full column for one profile.
func (d *DFData) Profile(name string) ([]float64, bool) {
	col, ok := d.columns[name]
	return col, ok
}

// TimeStepValue implements DataSource. Steps outside the frame and unknown
// profile names yield the absent marker.
func (d *DFData) TimeStepValue(step int, profiles []string, scale float64) ([]float64, bool) {
	if step < 0 || step >= d.steps || len(profiles) == 0 {
		return nil, false
	}
	values := make([]float64, len(profiles))
	for i, name := range profiles {
		col, ok := d.columns[name]
		if !ok {
			return nil, false
		}
		values[i] = col[step] * scale
	}
	return values, true
}
