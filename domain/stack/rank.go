package stack

import (
	"math"
	"sort"
)

// RankThreshold returns the cut value for a rank-based (density) selection
// over the given edge values: the value at 1-based rank emax - floor(t*emax)
// of the ascending-sorted input, where t is the target density fraction.
// Entries strictly greater than the returned value survive; entries equal to
// it are excluded, so floating-point ties at the selected rank all fall on
// the "at or below threshold" side. A rank of zero or below (t close to 1)
// returns -Inf, which keeps every edge.
func RankThreshold(values []float64, t float64) float64 {
	emax := len(values)
	rank := emax - int(t*float64(emax))
	if rank <= 0 {
		return math.Inf(-1)
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return sorted[rank-1]
}

// RankThresholdDescending is the descending-sort counterpart used by
// consistency thresholding: it returns the value at 1-based rank
// emax - floor(t*emax) of the descending-sorted input. Callers keep entries
// strictly below the returned value, so the t fraction with the lowest
// values survives. A rank of zero or below returns +Inf, which keeps
// every edge.
func RankThresholdDescending(values []float64, t float64) float64 {
	emax := len(values)
	rank := emax - int(t*float64(emax))
	if rank <= 0 {
		return math.Inf(1)
	}
	sorted := append([]float64(nil), values...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	return sorted[rank-1]
}
