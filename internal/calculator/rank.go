package calculator

import (
	"errors"
	"sort"
)

// Quantile returns the value at fraction q (0..1) of the sorted input,
// using linear interpolation between adjacent values. The input slice is
// not modified.
func Quantile(values []float64, q float64) (float64, error) {
	if len(values) == 0 {
		return 0, errors.New("no values for quantile")
	}
	if q < 0 || q > 1 {
		return 0, errors.New("quantile fraction must be in [0,1]")
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0], nil
	}
	pos := q * float64(len(sorted)-1)
	lo := int(pos)
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1], nil
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo]), nil
}

// PercentileRanks maps each value to its percentile rank (0..100) within
// the set. ascending=true ranks the smallest value first. Equal values
// share the rank of the first of their run, so the result is deterministic
// regardless of input order.
func PercentileRanks(values []float64, ascending bool) []float64 {
	n := len(values)
	ranks := make([]float64, n)
	if n == 0 {
		return ranks
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		if ascending {
			return values[idx[a]] < values[idx[b]]
		}
		return values[idx[a]] > values[idx[b]]
	})

	// Position-based rank 1..n, ties take the first position of their run.
	rank := 1
	for pos, i := range idx {
		if pos > 0 && values[i] != values[idx[pos-1]] {
			rank = pos + 1
		}
		ranks[i] = float64(rank) / float64(n) * 100
	}
	return ranks
}
