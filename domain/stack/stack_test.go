package stack

import (
	"testing"
)

func TestStackSliceViewSharesStorage(t *testing.T) {
	s := NewStack(2, 2, 3)
	view := s.Slice(1)
	view.Set(0, 1, 7)
	if s.At(0, 1, 1) != 7 {
		t.Error("slice view must share backing storage with the stack")
	}
	if s.At(0, 1, 0) != 0 || s.At(0, 1, 2) != 0 {
		t.Error("mutation leaked into a different subject slice")
	}
}

func TestStackSetSlice(t *testing.T) {
	s := NewStack(2, 2, 2)
	m := testMatrix(t, [][]float64{{1, 2}, {3, 4}})
	if err := s.SetSlice(1, m); err != nil {
		t.Fatalf("SetSlice: %v", err)
	}
	if s.At(1, 0, 1) != 3 {
		t.Error("SetSlice did not copy values")
	}

	bad := NewMatrix(3, 3)
	if err := s.SetSlice(0, bad); err == nil {
		t.Error("expected shape mismatch error")
	}
}

func TestMeanAcross(t *testing.T) {
	s := NewStack(2, 2, 3)
	for k := 0; k < 3; k++ {
		s.Set(0, 1, k, float64(k+1)) // 1, 2, 3
	}

	mean, err := s.MeanAcross([]int{0, 1, 2})
	if err != nil {
		t.Fatalf("MeanAcross: %v", err)
	}
	if mean.At(0, 1) != 2 {
		t.Errorf("mean = %v, want 2", mean.At(0, 1))
	}

	mean, err = s.MeanAcross([]int{2})
	if err != nil {
		t.Fatalf("MeanAcross single: %v", err)
	}
	if mean.At(0, 1) != 3 {
		t.Errorf("single-subject mean = %v, want 3", mean.At(0, 1))
	}

	if _, err := s.MeanAcross(nil); err == nil {
		t.Error("expected error for empty subject set")
	}
}

func TestLowerTriangleAndDensity(t *testing.T) {
	m := testMatrix(t, [][]float64{
		{0, 9, 9},
		{1, 0, 9},
		{0, 2, 0},
	})
	tri, err := m.LowerTriangle()
	if err != nil {
		t.Fatalf("LowerTriangle: %v", err)
	}
	if len(tri) != 3 {
		t.Fatalf("lower triangle length = %d, want 3", len(tri))
	}
	want := []float64{1, 0, 2}
	for i, v := range want {
		if tri[i] != v {
			t.Errorf("tri[%d] = %v, want %v", i, tri[i], v)
		}
	}

	d, err := m.Density()
	if err != nil {
		t.Fatalf("Density: %v", err)
	}
	if d != 2.0/3.0 {
		t.Errorf("density = %v, want 2/3", d)
	}
}

func TestStackFingerprint(t *testing.T) {
	a := NewStack(2, 2, 1)
	b := NewStack(2, 2, 1)
	if !a.Fingerprint().Equals(b.Fingerprint()) {
		t.Error("equal stacks must share a fingerprint")
	}
	b.Set(0, 0, 0, 1e-12)
	if a.Fingerprint().Equals(b.Fingerprint()) {
		t.Error("different stacks must not share a fingerprint")
	}
}
