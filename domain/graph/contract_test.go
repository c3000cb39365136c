package graph

import (
	"testing"

	"connmat/domain/stack"
)

func adjacency(t *testing.T, rows [][]float64) *stack.Matrix {
	t.Helper()
	m, err := stack.MatrixFromRows(rows)
	if err != nil {
		t.Fatalf("MatrixFromRows: %v", err)
	}
	return m
}

func TestContract(t *testing.T) {
	// 4 nodes, 2 regions. Edges on the lower triangle: (1,0) within region
	// 0, (2,1) and (3,0) across, (3,2) within region 1.
	adj := adjacency(t, [][]float64{
		{0, 0, 0, 0},
		{0.5, 0, 0, 0},
		{0, 0.2, 0, 0},
		{0.9, 0, 0.4, 0},
	})
	membership := []int{0, 0, 1, 1}
	coords := []Coord{{0, 0}, {2, 2}, {4, 0}, {6, 2}}

	c, err := Contract(adj, membership, coords)
	if err != nil {
		t.Fatalf("Contract: %v", err)
	}
	if c.Adj.Rows() != 2 {
		t.Fatalf("expected 2 regions, got %d", c.Adj.Rows())
	}
	if c.Adj.At(0, 1) != 2 || c.Adj.At(1, 0) != 2 {
		t.Errorf("inter-region count = %v, want 2", c.Adj.At(0, 1))
	}
	if c.Adj.At(0, 0) != 1 || c.Adj.At(1, 1) != 1 {
		t.Error("intra-region counts must land on the diagonal")
	}
	if c.Coords[0] != (Coord{1, 1}) || c.Coords[1] != (Coord{5, 1}) {
		t.Errorf("region centers = %v, want mean coordinates", c.Coords)
	}
	if c.Sizes[0] != 2 || c.Sizes[1] != 2 {
		t.Errorf("unexpected region sizes %v", c.Sizes)
	}
}

func TestContract_NoCoords(t *testing.T) {
	adj := adjacency(t, [][]float64{{0, 1}, {1, 0}})
	c, err := Contract(adj, []int{0, 1}, nil)
	if err != nil {
		t.Fatalf("Contract: %v", err)
	}
	if c.Coords != nil {
		t.Error("no coordinates in, no centers out")
	}
}

func TestContract_Validation(t *testing.T) {
	adj := adjacency(t, [][]float64{{0, 1}, {1, 0}})

	if _, err := Contract(adj, []int{0}, nil); err == nil {
		t.Error("membership length mismatch must fail")
	}
	if _, err := Contract(adj, []int{0, 2}, nil); err == nil {
		t.Error("empty region must fail")
	}
	if _, err := Contract(adj, []int{0, -1}, nil); err == nil {
		t.Error("negative label must fail")
	}
	if _, err := Contract(stack.NewMatrix(2, 3), []int{0, 0}, nil); err == nil {
		t.Error("non-square adjacency must fail")
	}
}
