package mats

import (
	"connmat/domain/core"
	"connmat/domain/group"
	"connmat/domain/stack"
)

// MatrixBundle is the immutable result of one assembly-normalization-
// thresholding run. It is produced once by the thresholding engine and never
// mutated afterwards; downstream consumers read from it only.
//
// Per-threshold collections are indexed by position in Options.Thresholds.
// Mask group dimension: consensus produces one mask per group, the other
// strategies share one mask (or none) across groups.
type MatrixBundle struct {
	ID      core.BundleID
	Options Options
	Groups  *group.Index

	// Raw is the stack as loaded, Norm the normalized stack (equal to Raw
	// when no divisor applies). NaN entries are zeroed in both.
	Raw  *stack.Stack
	Norm *stack.Stack

	// Binarized holds the per-threshold 0/1 stacks (consensus only).
	Binarized []*stack.Stack

	// Masks holds the per-threshold inclusion masks: Masks[t][g] for
	// consensus, Masks[t][0] shared across groups for consistency and mean,
	// nil for density.
	Masks [][]*stack.Matrix

	// Subject holds the per-threshold filtered subject stacks, in original
	// file order.
	Subject []*stack.Stack

	// GroupMeans holds the per-threshold per-group mean matrices:
	// GroupMeans[t][g].
	GroupMeans [][]*stack.Matrix

	Fingerprint core.Hash
	CreatedAt   core.Timestamp
}

// Thresholds returns the ordered threshold values the bundle was built for.
func (b *MatrixBundle) Thresholds() []float64 {
	return b.Options.Thresholds
}

// MaskFor returns the inclusion mask for threshold index t and the group
// containing subject position idx, or nil when the strategy produced no
// explicit masks.
func (b *MatrixBundle) MaskFor(t, idx int) *stack.Matrix {
	if b.Masks == nil || b.Masks[t] == nil {
		return nil
	}
	if len(b.Masks[t]) == 1 {
		return b.Masks[t][0]
	}
	return b.Masks[t][b.Groups.GroupOf(idx)]
}

// CoBundle carries a second, independently measured stack gated by the edge
// topology a MatrixBundle selected: surviving edges of the co-thresholded
// stacks are exactly the positive entries of the bundle's filtered stacks.
type CoBundle struct {
	BundleID core.BundleID

	// Subject holds the per-threshold gated subject stacks.
	Subject []*stack.Stack

	// GroupMeans holds the per-threshold per-group means of the gated
	// stacks, themselves gated by the bundle's group mean positivity.
	GroupMeans [][]*stack.Matrix

	CreatedAt core.Timestamp
}
