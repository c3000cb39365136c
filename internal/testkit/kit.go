// Package testkit provides fixtures shared by the pipeline tests: synthetic
// connection stacks and on-disk grid files.
package testkit

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"connmat/domain/stack"
)

// UniformStack builds a (nodes, nodes, subjects) stack with every entry set
// to v.
func UniformStack(nodes, subjects int, v float64) *stack.Stack {
	s := stack.NewStack(nodes, nodes, subjects)
	s.Map(func(float64) float64 { return v })
	return s
}

// RandomStack builds a symmetric stack of positive weights with a zero
// diagonal, deterministic for a given seed.
func RandomStack(nodes, subjects int, seed int64) *stack.Stack {
	rng := rand.New(rand.NewSource(seed))
	s := stack.NewStack(nodes, nodes, subjects)
	for k := 0; k < subjects; k++ {
		for i := 1; i < nodes; i++ {
			for j := 0; j < i; j++ {
				v := rng.Float64()
				s.Set(i, j, k, v)
				s.Set(j, i, k, v)
			}
		}
	}
	return s
}

// SubjectScaledStack builds a stack whose subject k holds the constant
// off-diagonal value k+1, handy for checking result ordering.
func SubjectScaledStack(nodes, subjects int) *stack.Stack {
	s := stack.NewStack(nodes, nodes, subjects)
	for k := 0; k < subjects; k++ {
		for i := 0; i < nodes; i++ {
			for j := 0; j < nodes; j++ {
				if i != j {
					s.Set(i, j, k, float64(k+1))
				}
			}
		}
	}
	return s
}

// WriteStackFiles writes one grid file per subject into dir and returns the
// paths in subject order.
func WriteStackFiles(t *testing.T, dir string, s *stack.Stack) []string {
	t.Helper()
	paths := make([]string, s.Subjects())
	for k := 0; k < s.Subjects(); k++ {
		path := filepath.Join(dir, fmt.Sprintf("subject_%03d.txt", k))
		writeGrid(t, path, s.Slice(k))
		paths[k] = path
	}
	return paths
}

// WriteColumnFiles writes one single-column grid file per subject (divisor
// format) with the given per-subject node values.
func WriteColumnFiles(t *testing.T, dir, prefix string, values [][]float64) []string {
	t.Helper()
	paths := make([]string, len(values))
	for k, vals := range values {
		path := filepath.Join(dir, fmt.Sprintf("%s_%03d.txt", prefix, k))
		content := ""
		for _, v := range vals {
			content += fmt.Sprintf("%g\n", v)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		paths[k] = path
	}
	return paths
}

func writeGrid(t *testing.T, path string, m *stack.Matrix) {
	t.Helper()
	content := ""
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			if j > 0 {
				content += " "
			}
			content += fmt.Sprintf("%g", m.At(i, j))
		}
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// NonzeroPattern returns a boolean matrix of m's nonzero entries.
func NonzeroPattern(m *stack.Matrix) []bool {
	out := make([]bool, len(m.Data()))
	for i, v := range m.Data() {
		out[i] = v != 0
	}
	return out
}
