package util

import (
	"sort"

	"golang.org/x/exp/constraints"
)

func Min[A constraints.Ordered](a A, b A) A {
	if a > b {
		return b
	}
	return a
}

func Max[A constraints.Ordered](a A, b A) A {
	if a < b {
		return b
	}
	return a
}

// FloorDiv divides rounding toward negative infinity, unlike Go's
// truncating integer division.
func FloorDiv[A constraints.Integer](a A, b A) A {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func Abs[A constraints.Signed](a A) A {
	if a < 0 {
		return -a
	}
	return a
}

// Median returns the middle value of nums (lower middle for even counts).
// Callers validate non-emptiness first.
func Median[A constraints.Ordered](nums []A) A {
	sorted := make([]A, len(nums))
	copy(sorted, nums)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})
	return sorted[(len(sorted)-1)/2]
}
