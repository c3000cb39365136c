package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"connmat/domain/group"
	"connmat/domain/mats"
	"connmat/domain/stack"
	"connmat/internal/testkit"
)

func newEngine(t *testing.T, mutate func(*mats.Options)) *Engine {
	t.Helper()
	opts := mats.DefaultOptions()
	opts.Thresholds = []float64{0}
	if mutate != nil {
		mutate(&opts)
	}
	e, err := New(opts, nil)
	require.NoError(t, err)
	return e
}

func singleGroup(t *testing.T, n int) *group.Index {
	t.Helper()
	x, err := group.Single(n)
	require.NoError(t, err)
	return x
}

func TestCreateMats_ConsensusAllOnes(t *testing.T) {
	// 3 subjects, Nv=4, all-ones matrices, one group, mat.thresh=0,
	// sub.thresh=0.5: everything survives untouched.
	raw := testkit.UniformStack(4, 3, 1)
	e := newEngine(t, nil)

	b, err := e.CreateMats(context.Background(), raw, raw, nil, singleGroup(t, 3))
	require.NoError(t, err)

	require.Len(t, b.Binarized, 1)
	for _, v := range b.Binarized[0].Data() {
		assert.Equal(t, 1.0, v)
	}
	require.Len(t, b.Masks[0], 1)
	for _, v := range b.Masks[0][0].Data() {
		assert.Equal(t, 1.0, v)
	}
	for _, v := range b.Subject[0].Data() {
		assert.Equal(t, 1.0, v)
	}
	require.Len(t, b.GroupMeans[0], 1)
	for _, v := range b.GroupMeans[0][0].Data() {
		assert.Equal(t, 1.0, v)
	}
	assert.False(t, b.Fingerprint.IsEmpty())
	assert.False(t, b.ID.String() == "")
}

func TestCreateMats_ConsensusThresholdEqualsValue(t *testing.T) {
	// Strict > comparison: a threshold equal to the uniform value keeps
	// nothing.
	raw := testkit.UniformStack(4, 3, 1)
	e := newEngine(t, func(o *mats.Options) { o.Thresholds = []float64{1} })

	b, err := e.CreateMats(context.Background(), raw, raw, nil, singleGroup(t, 3))
	require.NoError(t, err)

	for _, v := range b.Binarized[0].Data() {
		assert.Equal(t, 0.0, v)
	}
	for _, v := range b.Masks[0][0].Data() {
		assert.Equal(t, 0.0, v)
	}
	for _, v := range b.Subject[0].Data() {
		assert.Equal(t, 0.0, v)
	}
}

func TestCreateMats_ConsensusSubThreshMonotonic(t *testing.T) {
	// Inclusion masks shrink (or stay equal) as sub.thresh grows; at zero
	// any positive vote is enough.
	raw := testkit.RandomStack(6, 5, 42)
	// Make subject 0 see an edge nobody else has
	raw.Set(1, 0, 0, 5)
	raw.Set(0, 1, 0, 5)

	groups := singleGroup(t, 5)
	var prevIncluded int
	for i, sub := range []float64{0, 0.4, 0.8, 1} {
		e := newEngine(t, func(o *mats.Options) {
			o.Thresholds = []float64{0.5}
			o.SubThresh = sub
		})
		b, err := e.CreateMats(context.Background(), raw, raw, nil, groups)
		require.NoError(t, err)

		included := 0
		for _, v := range b.Masks[0][0].Data() {
			if v == 1 {
				included++
			}
		}
		if i > 0 {
			assert.LessOrEqual(t, included, prevIncluded,
				"mask must be monotonically non-increasing in sub.thresh")
		}
		prevIncluded = included
	}
}

func TestCreateMats_ConsensusScatterOrder(t *testing.T) {
	// Per-group filtering must put each subject's result back at its
	// original file position, whatever the group interleaving.
	raw := testkit.SubjectScaledStack(4, 5)
	groups, err := group.New([][]int{{3, 0, 4}, {2, 1}}, 5)
	require.NoError(t, err)

	e := newEngine(t, func(o *mats.Options) { o.SubThresh = 0 })
	b, err := e.CreateMats(context.Background(), raw, raw, nil, groups)
	require.NoError(t, err)

	for k := 0; k < 5; k++ {
		assert.Equal(t, float64(k+1), b.Subject[0].At(0, 1, k),
			"subject %d landed out of order", k)
	}
}

func TestCreateMats_DensityTargets(t *testing.T) {
	raw := testkit.RandomStack(10, 4, 7) // emax = 45
	e := newEngine(t, func(o *mats.Options) {
		o.Strategy = mats.StrategyDensity
		o.Thresholds = []float64{0.2, 0.6}
	})

	b, err := e.CreateMats(context.Background(), raw, raw, nil, singleGroup(t, 4))
	require.NoError(t, err)
	assert.Nil(t, b.Masks, "density mode produces no inclusion masks")
	assert.Nil(t, b.MaskFor(0, 0))

	for ti, want := range []float64{0.2, 0.6} {
		for k := 0; k < 4; k++ {
			d, err := b.Subject[ti].Slice(k).Density()
			require.NoError(t, err)
			// exact rank boundary: t*emax = 9 and 27, both integer
			assert.InDelta(t, want, d, 1e-9, "threshold %d subject %d", ti, k)
		}
		// Group means are re-thresholded to the same density
		d, err := b.GroupMeans[ti][0].Density()
		require.NoError(t, err)
		assert.InDelta(t, want, d, 1e-9, "group mean density at threshold %d", ti)
	}
}

func TestCreateMats_ConsistencySharedMask(t *testing.T) {
	raw := testkit.RandomStack(8, 6, 11)
	e := newEngine(t, func(o *mats.Options) {
		o.Strategy = mats.StrategyConsistency
		o.Thresholds = []float64{0.4}
	})

	b, err := e.CreateMats(context.Background(), raw, raw, nil, singleGroup(t, 6))
	require.NoError(t, err)
	require.Len(t, b.Masks[0], 1, "consistency mask is shared, not per group")

	// The nonzero pattern must match between any two subject slices
	// wherever the input had positive weights.
	p2 := testkit.NonzeroPattern(b.Subject[0].Slice(2))
	p5 := testkit.NonzeroPattern(b.Subject[0].Slice(5))
	assert.Equal(t, p2, p5, "mask must be shared across subjects")

	// And it must agree with the mask itself, whichever subject asks.
	mask := b.MaskFor(0, 3)
	require.NotNil(t, mask)
	for i, on := range p2 {
		if on {
			assert.Equal(t, 1.0, mask.Data()[i])
		}
	}
}

func TestCreateMats_MeanCriterion(t *testing.T) {
	// Two edges with different means; the criterion mean+2*sd > t is
	// computed once and applied to every subject.
	raw := stack.NewStack(3, 3, 4)
	for k := 0; k < 4; k++ {
		raw.Set(1, 0, k, 10)
		raw.Set(0, 1, k, 10)
		raw.Set(2, 0, k, 0.1)
		raw.Set(0, 2, k, 0.1)
	}
	e := newEngine(t, func(o *mats.Options) {
		o.Strategy = mats.StrategyMean
		o.Thresholds = []float64{1}
	})

	b, err := e.CreateMats(context.Background(), raw, raw, nil, singleGroup(t, 4))
	require.NoError(t, err)

	mask := b.Masks[0][0]
	assert.Equal(t, 1.0, mask.At(1, 0), "strong edge must pass")
	assert.Equal(t, 0.0, mask.At(2, 0), "weak edge must fail")
	for k := 0; k < 4; k++ {
		assert.Equal(t, 10.0, b.Subject[0].At(1, 0, k), "surviving entries keep their values")
		assert.Equal(t, 0.0, b.Subject[0].At(2, 0, k))
	}
}

func TestCreateMats_ShapeErrors(t *testing.T) {
	e := newEngine(t, nil)
	ctx := context.Background()

	rect := stack.NewStack(3, 2, 2)
	_, err := e.CreateMats(ctx, rect, rect, nil, singleGroup(t, 2))
	assert.Error(t, err, "non-square stacks must be rejected")

	square := testkit.UniformStack(3, 2, 1)
	_, err = e.CreateMats(ctx, square, square, nil, singleGroup(t, 3))
	assert.Error(t, err, "group total must match subject count")

	other := testkit.UniformStack(4, 2, 1)
	_, err = e.CreateMats(ctx, square, other, nil, singleGroup(t, 2))
	assert.Error(t, err, "raw and normalized shapes must match")
}

func TestApplyThresholds_SubsetProperty(t *testing.T) {
	raw := testkit.RandomStack(6, 4, 3)
	e := newEngine(t, func(o *mats.Options) { o.Thresholds = []float64{0.3, 0.7} })
	groups, err := group.New([][]int{{0, 2}, {1, 3}}, 4)
	require.NoError(t, err)

	b, err := e.CreateMats(context.Background(), raw, raw, nil, groups)
	require.NoError(t, err)

	w := testkit.UniformStack(6, 4, 9.5)
	co, err := e.ApplyThresholds(context.Background(), b, w)
	require.NoError(t, err)
	require.Len(t, co.Subject, 2)

	for ti := range co.Subject {
		// Nonzero entries of the co-thresholded stack are a subset of the
		// bundle's positive mask pattern.
		maskData := b.Subject[ti].Data()
		for i, v := range co.Subject[ti].Data() {
			if v != 0 {
				assert.Greater(t, maskData[i], 0.0)
				assert.Equal(t, 9.5, v, "surviving values come from the second measure")
			}
		}
		// Group means are gated by the bundle's group mean positivity.
		for gi, wm := range co.GroupMeans[ti] {
			gmask := b.GroupMeans[ti][gi]
			for i, v := range wm.Data() {
				if v != 0 {
					assert.Greater(t, gmask.Data()[i], 0.0)
				}
			}
		}
	}
}

func TestApplyThresholds_ShapeMismatch(t *testing.T) {
	raw := testkit.UniformStack(4, 3, 1)
	e := newEngine(t, nil)
	b, err := e.CreateMats(context.Background(), raw, raw, nil, singleGroup(t, 3))
	require.NoError(t, err)

	_, err = e.ApplyThresholds(context.Background(), b, testkit.UniformStack(5, 3, 1))
	assert.Error(t, err)
}
