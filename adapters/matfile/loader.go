// Package matfile reads and writes the plain-text numeric grid format used
// for connection matrices and divisor files: one row per line, values
// whitespace-separated.
package matfile

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"connmat/domain/core"
	"connmat/domain/stack"
)

// LoadMatrix reads a single grid file. rows and cols of zero are inferred
// from the file itself: rows from the line count, cols from rows (square by
// default) or from the first line when the row count is known.
func LoadMatrix(path string, rows, cols int) (*stack.Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", core.ErrFileUnreadable, path)
	}
	defer f.Close()

	var grid [][]float64
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		row := make([]float64, len(fields))
		for i, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, core.NewGridError(path, fmt.Sprintf("line %d: %q is not numeric", len(grid)+1, field))
			}
			row[i] = v
		}
		grid = append(grid, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", core.ErrFileUnreadable, path, err)
	}
	if len(grid) == 0 {
		return nil, core.NewGridError(path, "empty file")
	}

	if rows == 0 {
		rows = len(grid)
	}
	if cols == 0 {
		cols = rows
	}
	if len(grid) != rows {
		return nil, core.NewDimensionError(path, rows, cols, len(grid), len(grid[0]))
	}
	for _, row := range grid {
		if len(row) != cols {
			return nil, core.NewDimensionError(path, rows, cols, len(grid), len(row))
		}
	}

	m, err := stack.MatrixFromRows(grid)
	if err != nil {
		return nil, core.NewGridError(path, err.Error())
	}
	return m, nil
}

// LoadStack reads one grid file per subject into a (rows, cols, N) stack.
// Dimensions default to the first file's line count (rows) and to a square
// grid (cols). Every subsequent file must match exactly; any unreadable or
// mismatched file fails the whole load. NaN entries are zeroed immediately.
func LoadStack(paths []string, rows, cols int) (*stack.Stack, error) {
	if len(paths) == 0 {
		return nil, core.ErrEmptyStack
	}

	first, err := LoadMatrix(paths[0], rows, cols)
	if err != nil {
		return nil, err
	}
	rows, cols = first.Rows(), first.Cols()

	s := stack.NewStack(rows, cols, len(paths))
	if err := s.SetSlice(0, first); err != nil {
		return nil, err
	}
	for k, path := range paths[1:] {
		m, err := LoadMatrix(path, rows, cols)
		if err != nil {
			return nil, err
		}
		if err := s.SetSlice(k+1, m); err != nil {
			return nil, err
		}
	}
	s.ZeroNaN()
	return s, nil
}

// LoadDivisors reads single-column divisor files (one value per node) into a
// (rows, 1, N) stack for the waytotal and size normalization modes.
func LoadDivisors(paths []string) (*stack.Stack, error) {
	if len(paths) == 0 {
		return nil, core.ErrEmptyStack
	}
	first, err := LoadMatrix(paths[0], 0, 1)
	if err != nil {
		return nil, err
	}
	s := stack.NewStack(first.Rows(), 1, len(paths))
	if err := s.SetSlice(0, first); err != nil {
		return nil, err
	}
	for k, path := range paths[1:] {
		m, err := LoadMatrix(path, first.Rows(), 1)
		if err != nil {
			return nil, err
		}
		if err := s.SetSlice(k+1, m); err != nil {
			return nil, err
		}
	}
	s.ZeroNaN()
	return s, nil
}
