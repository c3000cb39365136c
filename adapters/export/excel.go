// Package export writes a bundle's group-level results to an Excel workbook:
// one sheet per threshold and group with the full mean matrix, plus a
// summary sheet of per-matrix statistics.
package export

import (
	"fmt"

	"github.com/montanaflynn/stats"
	"github.com/xuri/excelize/v2"

	"connmat/domain/mats"
	"connmat/domain/stack"
	"connmat/internal/errors"
)

// Exporter writes bundles to a fixed workbook path.
type Exporter struct {
	path string
}

// NewExporter creates an exporter targeting path.
func NewExporter(path string) *Exporter {
	return &Exporter{path: path}
}

// Export writes every per-threshold per-group mean matrix of the bundle.
func (x *Exporter) Export(b *mats.MatrixBundle) error {
	f := excelize.NewFile()
	defer f.Close()

	summary := [][]interface{}{
		{"sheet", "threshold", "group", "density", "mean", "median", "min", "max"},
	}

	for ti, thr := range b.Thresholds() {
		for gi, m := range b.GroupMeans[ti] {
			sheet := fmt.Sprintf("thr%g_g%d", thr, gi+1)
			if _, err := f.NewSheet(sheet); err != nil {
				return errors.Wrapf(err, "failed to create sheet %s", sheet)
			}
			if err := writeMatrix(f, sheet, m); err != nil {
				return err
			}
			row, err := summaryRow(sheet, thr, gi+1, m)
			if err != nil {
				return err
			}
			summary = append(summary, row)
		}
	}

	if err := f.SetSheetName("Sheet1", "summary"); err != nil {
		return errors.Wrap(err, "failed to name summary sheet")
	}
	for i, row := range summary {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return errors.Wrap(err, "bad summary coordinates")
		}
		if err := f.SetSheetRow("summary", cell, &row); err != nil {
			return errors.Wrap(err, "failed to write summary row")
		}
	}

	if err := f.SaveAs(x.path); err != nil {
		return errors.Wrapf(err, "failed to save workbook %s", x.path)
	}
	return nil
}

func writeMatrix(f *excelize.File, sheet string, m *stack.Matrix) error {
	for i := 0; i < m.Rows(); i++ {
		row := make([]interface{}, m.Cols())
		for j := 0; j < m.Cols(); j++ {
			row[j] = m.At(i, j)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return errors.Wrap(err, "bad matrix coordinates")
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.Wrapf(err, "failed to write row %d of %s", i+1, sheet)
		}
	}
	return nil
}

func summaryRow(sheet string, thr float64, group int, m *stack.Matrix) ([]interface{}, error) {
	tri, err := m.LowerTriangle()
	if err != nil {
		return nil, errors.Wrap(err, "summary needs square matrices")
	}
	density, err := m.Density()
	if err != nil {
		return nil, errors.Wrap(err, "density computation failed")
	}
	mean, _ := stats.Mean(tri)
	median, _ := stats.Median(tri)
	min, _ := stats.Min(tri)
	max, _ := stats.Max(tri)
	return []interface{}{sheet, thr, group, density, mean, median, min, max}, nil
}
