// Package graph holds the vertex-merge collaborator that consumes the
// pipeline's adjacency output: it contracts a weighted adjacency matrix over
// a node-to-region assignment (lobe, hemisphere), producing a reduced graph.
package graph

import (
	"fmt"

	"connmat/domain/core"
	"connmat/domain/stack"
)

// Coord is a 2-D node position.
type Coord struct {
	X, Y float64
}

// Contracted is the reduced graph: one vertex per region, edge weight equal
// to the number of connections between the regions' constituent nodes, and
// vertex position at the mean coordinate of the constituent nodes.
type Contracted struct {
	Adj    *stack.Matrix
	Coords []Coord
	Sizes  []int
}

// Contract merges the nodes of adj by membership. membership[i] assigns node
// i to a region in 0..regions-1; every region must be non-empty. coords may
// be nil when no layout is carried. The diagonal of the result counts
// intra-region connections.
func Contract(adj *stack.Matrix, membership []int, coords []Coord) (*Contracted, error) {
	if adj.Rows() != adj.Cols() {
		return nil, core.ErrNotSquare
	}
	n := adj.Rows()
	if len(membership) != n {
		return nil, fmt.Errorf("%w: %d membership labels for %d nodes", core.ErrShapeMismatch, len(membership), n)
	}
	if coords != nil && len(coords) != n {
		return nil, fmt.Errorf("%w: %d coordinates for %d nodes", core.ErrShapeMismatch, len(coords), n)
	}

	regions := 0
	for _, g := range membership {
		if g < 0 {
			return nil, fmt.Errorf("%w: negative region label %d", core.ErrShapeMismatch, g)
		}
		if g+1 > regions {
			regions = g + 1
		}
	}

	sizes := make([]int, regions)
	for _, g := range membership {
		sizes[g]++
	}
	for g, size := range sizes {
		if size == 0 {
			return nil, fmt.Errorf("%w: region %d has no nodes", core.ErrShapeMismatch, g)
		}
	}

	out := stack.NewMatrix(regions, regions)
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			if adj.At(i, j) != 0 {
				gi, gj := membership[i], membership[j]
				out.Set(gi, gj, out.At(gi, gj)+1)
				if gi != gj {
					out.Set(gj, gi, out.At(gj, gi)+1)
				}
			}
		}
	}

	var centers []Coord
	if coords != nil {
		centers = make([]Coord, regions)
		for i, c := range coords {
			g := membership[i]
			centers[g].X += c.X
			centers[g].Y += c.Y
		}
		for g := range centers {
			centers[g].X /= float64(sizes[g])
			centers[g].Y /= float64(sizes[g])
		}
	}

	return &Contracted{Adj: out, Coords: centers, Sizes: sizes}, nil
}
