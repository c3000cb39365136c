package stack

import (
	"math"
	"testing"
)

func testMatrix(t *testing.T, rows [][]float64) *Matrix {
	t.Helper()
	m, err := MatrixFromRows(rows)
	if err != nil {
		t.Fatalf("MatrixFromRows: %v", err)
	}
	return m
}

func TestSymmetrize_Modes(t *testing.T) {
	in := [][]float64{
		{5, 1, 4},
		{3, 6, 0},
		{2, 8, 7},
	}

	tests := []struct {
		name string
		mode SymmetrizeMode
		want [][]float64
	}{
		{
			name: "max",
			mode: SymmetrizeMax,
			want: [][]float64{
				{5, 3, 4},
				{3, 6, 8},
				{4, 8, 7},
			},
		},
		{
			name: "min",
			mode: SymmetrizeMin,
			want: [][]float64{
				{5, 1, 2},
				{1, 6, 0},
				{2, 0, 7},
			},
		},
		{
			name: "avg",
			mode: SymmetrizeAvg,
			want: [][]float64{
				{5, 2, 3},
				{2, 6, 4},
				{3, 4, 7},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := testMatrix(t, in).Symmetrize(tt.mode)
			if err != nil {
				t.Fatalf("Symmetrize: %v", err)
			}
			if !got.Equal(testMatrix(t, tt.want)) {
				t.Errorf("unexpected result for mode %s", tt.mode)
			}
		})
	}
}

func TestSymmetrize_Properties(t *testing.T) {
	in := testMatrix(t, [][]float64{
		{1.5, 0.25, 9},
		{4, 2.5, 0.75},
		{0.5, 3, 3.5},
	})

	for _, mode := range []SymmetrizeMode{SymmetrizeMax, SymmetrizeMin, SymmetrizeAvg} {
		got, err := in.Symmetrize(mode)
		if err != nil {
			t.Fatalf("Symmetrize(%s): %v", mode, err)
		}

		// Exact symmetry for every off-diagonal pair
		for i := 0; i < got.Rows(); i++ {
			for j := 0; j < i; j++ {
				if got.At(i, j) != got.At(j, i) {
					t.Errorf("mode %s: asymmetry at (%d,%d)", mode, i, j)
				}
			}
			// Diagonal must equal the input diagonal
			if got.At(i, i) != in.At(i, i) {
				t.Errorf("mode %s: diagonal changed at %d", mode, i)
			}
		}

		// Idempotence
		again, err := got.Symmetrize(mode)
		if err != nil {
			t.Fatalf("Symmetrize twice: %v", err)
		}
		if !again.Equal(got) {
			t.Errorf("mode %s: symmetrize is not idempotent", mode)
		}
	}
}

func TestSymmetrize_NonSquare(t *testing.T) {
	m := NewMatrix(2, 3)
	if _, err := m.Symmetrize(SymmetrizeMax); err == nil {
		t.Fatal("expected error for non-square matrix")
	}
}

func TestParseSymmetrizeMode(t *testing.T) {
	if _, err := ParseSymmetrizeMode("max"); err != nil {
		t.Errorf("max should parse: %v", err)
	}
	if _, err := ParseSymmetrizeMode("median"); err == nil {
		t.Error("median should not parse")
	}
}

func TestStackSymmetrize(t *testing.T) {
	s := NewStack(2, 2, 2)
	s.Set(0, 1, 0, 3)
	s.Set(1, 0, 0, 5)
	s.Set(0, 1, 1, 1)

	if err := s.Symmetrize(SymmetrizeMax); err != nil {
		t.Fatalf("Symmetrize: %v", err)
	}
	if s.At(0, 1, 0) != 5 || s.At(1, 0, 0) != 5 {
		t.Errorf("subject 0 not max-symmetrized: %v %v", s.At(0, 1, 0), s.At(1, 0, 0))
	}
	if s.At(0, 1, 1) != 1 || s.At(1, 0, 1) != 1 {
		t.Errorf("subject 1 not max-symmetrized: %v %v", s.At(0, 1, 1), s.At(1, 0, 1))
	}
}

func TestZeroNaN(t *testing.T) {
	s := NewStack(2, 2, 1)
	s.Set(0, 0, 0, math.NaN())
	s.Set(0, 1, 0, 2)
	s.ZeroNaN()
	if s.At(0, 0, 0) != 0 {
		t.Error("NaN should be rewritten to zero")
	}
	if s.At(0, 1, 0) != 2 {
		t.Error("finite values must be preserved")
	}
}
