package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/jkisse/pandapower/internal/ppc"
	"github.com/jkisse/pandapower/internal/sparse"
)

// SaveObjective exports a case's cost artifacts: the gencost table as a
// dense CSV and, when present, the QP block as triplet CSVs plus bounds and
// parameter tables. Returns the artifact directory ID.
func (s *Store) SaveObjective(caseName string, c *ppc.Case) (string, error) {
	if c.GenCost == nil {
		return "", fmt.Errorf("storage: case %s has no cost artifacts", caseName)
	}

	id := fmt.Sprintf("objective_%s_%d", caseName, time.Now().Unix())
	dir := filepath.Join(s.baseDir, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	if err := writeDenseCSV(filepath.Join(dir, "gencost.csv"), c.GenCost); err != nil {
		return "", err
	}
	if c.QP == nil {
		return id, nil
	}

	triplets := map[string]*sparse.Matrix{
		"qp_h.csv": c.QP.H,
		"qp_n.csv": c.QP.N,
		"qp_a.csv": c.QP.A,
	}
	for name, m := range triplets {
		if err := writeTripletCSV(filepath.Join(dir, name), m); err != nil {
			return "", err
		}
	}
	if err := writeBoundsCSV(filepath.Join(dir, "qp_bounds.csv"), c.QP.L, c.QP.U); err != nil {
		return "", err
	}
	if err := writeDenseCSV(filepath.Join(dir, "qp_fparm.csv"), c.QP.FParm); err != nil {
		return "", err
	}
	return id, nil
}

func writeDenseCSV(path string, m *mat.Dense) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	rows, cols := m.Dims()
	record := make([]string, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			record[j] = strconv.FormatFloat(m.At(i, j), 'g', -1, 64)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func writeTripletCSV(path string, m *sparse.Matrix) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"row", "col", "value"}); err != nil {
		return err
	}
	for _, nz := range m.Triplets() {
		record := []string{
			strconv.Itoa(nz.Row),
			strconv.Itoa(nz.Col),
			strconv.FormatFloat(nz.Val, 'g', -1, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func writeBoundsCSV(path string, l, u []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"lower", "upper"}); err != nil {
		return err
	}
	for i := range l {
		record := []string{
			strconv.FormatFloat(l[i], 'g', -1, 64),
			strconv.FormatFloat(u[i], 'g', -1, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}
