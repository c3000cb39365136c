// Package group partitions the subject axis of a connection stack into
// ordered study groups and carries the index bookkeeping needed to put
// per-group results back into original file order.
package group

import (
	"fmt"

	"connmat/domain/core"
)

// Index is an ordered partition of subject positions into groups. The
// concatenation of all groups, in group order, must be a bijection onto
// 0..total-1: every file position appears in exactly one group. The
// invariant is checked once at construction so strategy code can scatter
// per-group results without re-validating.
type Index struct {
	groups [][]int
	total  int
}

// New validates the partition invariant and builds an Index.
func New(groups [][]int, total int) (*Index, error) {
	if total <= 0 {
		return nil, fmt.Errorf("%w: total subject count %d", core.ErrGroupPartition, total)
	}
	seen := make([]bool, total)
	count := 0
	for g, members := range groups {
		if len(members) == 0 {
			return nil, fmt.Errorf("%w: group %d is empty", core.ErrGroupPartition, g)
		}
		for _, idx := range members {
			if idx < 0 || idx >= total {
				return nil, fmt.Errorf("%w: index %d outside 0..%d", core.ErrGroupPartition, idx, total-1)
			}
			if seen[idx] {
				return nil, fmt.Errorf("%w: index %d appears twice", core.ErrGroupPartition, idx)
			}
			seen[idx] = true
			count++
		}
	}
	if count != total {
		return nil, fmt.Errorf("%w: group sizes sum to %d, want %d", core.ErrGroupPartition, count, total)
	}

	copied := make([][]int, len(groups))
	for g, members := range groups {
		copied[g] = append([]int(nil), members...)
	}
	return &Index{groups: copied, total: total}, nil
}

// Single builds the trivial one-group partition over n subjects.
func Single(n int) (*Index, error) {
	members := make([]int, n)
	for i := range members {
		members[i] = i
	}
	return New([][]int{members}, n)
}

// NumGroups returns the number of groups.
func (x *Index) NumGroups() int { return len(x.groups) }

// Total returns the total subject count across all groups.
func (x *Index) Total() int { return x.total }

// Members returns group g's subject positions in group order. The returned
// slice must not be mutated.
func (x *Index) Members(g int) []int { return x.groups[g] }

// Size returns the number of subjects in group g.
func (x *Index) Size(g int) int { return len(x.groups[g]) }

// GroupOf returns the group containing subject position idx.
func (x *Index) GroupOf(idx int) int {
	for g, members := range x.groups {
		for _, i := range members {
			if i == idx {
				return g
			}
		}
	}
	return -1
}
