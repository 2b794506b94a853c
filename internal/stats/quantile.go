//-------------------------------------------------------------------------
//
// pgEdge Retail Warehouse
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package stats holds the order statistics shared by the validator and the
// segmentation engine.
package stats

import (
	"math"
	"slices"
)

// Quantile returns the q-th quantile of sorted using linear interpolation
// between closest ranks (h = (n-1)q). sorted must be ascending. It returns
// NaN for an empty input.
func Quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[n-1]
	}

	h := float64(n-1) * q
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo])
}

// Sorted returns an ascending copy of values.
func Sorted(values []float64) []float64 {
	out := slices.Clone(values)
	slices.Sort(out)
	return out
}

// Median returns the 0.5 quantile of values, which need not be sorted.
func Median(values []float64) float64 {
	return Quantile(Sorted(values), 0.5)
}

// Fence is an interquartile outlier fence.
type Fence struct {
	Q1    float64
	Q3    float64
	Lower float64
	Upper float64
}

// IQRFence computes [Q1 - 1.5*IQR, Q3 + 1.5*IQR] for values.
func IQRFence(values []float64) Fence {
	s := Sorted(values)
	q1 := Quantile(s, 0.25)
	q3 := Quantile(s, 0.75)
	iqr := q3 - q1
	return Fence{
		Q1:    q1,
		Q3:    q3,
		Lower: q1 - 1.5*iqr,
		Upper: q3 + 1.5*iqr,
	}
}

// Contains reports whether v lies inside the fence.
func (f Fence) Contains(v float64) bool {
	return v >= f.Lower && v <= f.Upper
}
