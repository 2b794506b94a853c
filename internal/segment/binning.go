//-------------------------------------------------------------------------
//
// pgEdge Retail Warehouse
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package segment

import (
	"slices"
	"sort"

	"github.com/pgEdge/pgedge-retailwh/internal/stats"
)

// Buckets is the target number of equal-frequency bins.
const Buckets = 4

// Quartiles assigns every value a bucket in 1..k, where k is the number of
// buckets used: 4 when the values have at least 4 distinct entries, or the
// number of distinct entries otherwise. Buckets are right-closed with the
// lowest value included, and bucket numbers never decrease as values grow.
func Quartiles(values []float64) (buckets []int, k int) {
	if len(values) == 0 {
		return nil, 0
	}

	distinct := slices.Compact(stats.Sorted(values))

	if len(distinct) < Buckets {
		buckets = make([]int, len(values))
		for i, v := range values {
			buckets[i] = sort.SearchFloat64s(distinct, v) + 1
		}
		return buckets, len(distinct)
	}

	if edges := quantileEdges(stats.Sorted(values)); strictlyIncreasing(edges) {
		buckets = assign(values, edges)
		if allUsed(buckets) {
			return buckets, Buckets
		}
	}

	// Repeated values collapse some edges of the full distribution. Cutting
	// the distinct values instead keeps four non-empty monotonic buckets.
	return assign(values, quantileEdges(distinct)), Buckets
}

// Ranks returns the 1-based position of every value in ascending order,
// breaking ties by first appearance.
func Ranks(values []float64) []float64 {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return values[idx[a]] < values[idx[b]]
	})

	ranks := make([]float64, len(values))
	for rank, i := range idx {
		ranks[i] = float64(rank + 1)
	}
	return ranks
}

func quantileEdges(sorted []float64) []float64 {
	edges := make([]float64, Buckets+1)
	for i := range edges {
		edges[i] = stats.Quantile(sorted, float64(i)/Buckets)
	}
	return edges
}

func strictlyIncreasing(edges []float64) bool {
	for i := 1; i < len(edges); i++ {
		if edges[i] <= edges[i-1] {
			return false
		}
	}
	return true
}

func assign(values, edges []float64) []int {
	buckets := make([]int, len(values))
	for i, v := range values {
		b := sort.SearchFloat64s(edges, v)
		buckets[i] = min(max(b, 1), Buckets)
	}
	return buckets
}

func allUsed(buckets []int) bool {
	var used [Buckets + 1]bool
	for _, b := range buckets {
		used[b] = true
	}
	for b := 1; b <= Buckets; b++ {
		if !used[b] {
			return false
		}
	}
	return true
}
