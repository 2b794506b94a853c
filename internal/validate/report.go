//-------------------------------------------------------------------------
//
// pgEdge Retail Warehouse
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// OutlierReport describes the interquartile fence on total_amount.
type OutlierReport struct {
	Lower float64
	Upper float64
	Count int
}

// Report collects the data quality findings of one validation pass.
// Nothing in it is fatal by itself; see Policy.
type Report struct {
	RawTransactions   int
	CleanTransactions int

	// NullCounts counts missing transaction cells per column.
	NullCounts map[string]int
	// IncompleteRows counts transactions dropped for a null critical field.
	IncompleteRows int
	// DuplicatesRemoved counts transactions dropped as repeated ids.
	DuplicatesRemoved int

	Outliers OutlierReport

	NegativeQuantity int
	NegativeAmount   int
	NegativeProfit   int
	ProfitMismatch   int

	// Dimension findings are keyed by table name or "table.field".
	DimensionDuplicates map[string]int
	DimensionIncomplete map[string]int
	FieldViolations     map[string]int
	OrphanReferences    map[string]int
	MalformedCells      map[string]int
}

func newReport() Report {
	return Report{
		NullCounts:          make(map[string]int),
		DimensionDuplicates: make(map[string]int),
		DimensionIncomplete: make(map[string]int),
		FieldViolations:     make(map[string]int),
		OrphanReferences:    make(map[string]int),
		MalformedCells:      make(map[string]int),
	}
}

// Policy decides which findings block the load. The zero value blocks
// nothing.
type Policy struct {
	FailOnIncomplete      bool `mapstructure:"fail_on_incomplete"`
	FailOnDuplicates      bool `mapstructure:"fail_on_duplicates"`
	FailOnNegative        bool `mapstructure:"fail_on_negative"`
	FailOnProfitMismatch  bool `mapstructure:"fail_on_profit_mismatch"`
	FailOnOrphans         bool `mapstructure:"fail_on_orphans"`
	FailOnFieldViolations bool `mapstructure:"fail_on_field_violations"`
}

// DefectError is returned by Check when the policy blocks a report.
type DefectError struct {
	Defects []string
}

func (e *DefectError) Error() string {
	return "validation blocked load: " + strings.Join(e.Defects, "; ")
}

// Check applies p to the report and returns a *DefectError listing every
// blocking finding, or nil.
func (r *Report) Check(p Policy) error {
	var defects []string

	if p.FailOnIncomplete {
		if r.IncompleteRows > 0 {
			defects = append(defects, fmt.Sprintf("%d incomplete transactions", r.IncompleteRows))
		}
		if n := sum(r.DimensionIncomplete); n > 0 {
			defects = append(defects, fmt.Sprintf("%d incomplete dimension rows", n))
		}
	}
	if p.FailOnDuplicates {
		if r.DuplicatesRemoved > 0 {
			defects = append(defects, fmt.Sprintf("%d duplicate transactions", r.DuplicatesRemoved))
		}
		if n := sum(r.DimensionDuplicates); n > 0 {
			defects = append(defects, fmt.Sprintf("%d duplicate dimension rows", n))
		}
	}
	if p.FailOnNegative {
		if n := r.NegativeQuantity + r.NegativeAmount + r.NegativeProfit; n > 0 {
			defects = append(defects, fmt.Sprintf("%d negative values", n))
		}
	}
	if p.FailOnProfitMismatch && r.ProfitMismatch > 0 {
		defects = append(defects, fmt.Sprintf("%d profit mismatches", r.ProfitMismatch))
	}
	if p.FailOnOrphans {
		if n := sum(r.OrphanReferences); n > 0 {
			defects = append(defects, fmt.Sprintf("%d orphan references", n))
		}
	}
	if p.FailOnFieldViolations {
		if n := sum(r.FieldViolations); n > 0 {
			defects = append(defects, fmt.Sprintf("%d field violations", n))
		}
	}

	if len(defects) == 0 {
		return nil
	}
	return &DefectError{Defects: defects}
}

// Log writes the report to log.
func (r *Report) Log(log zerolog.Logger) {
	log.Info().
		Int("raw", r.RawTransactions).
		Int("clean", r.CleanTransactions).
		Int("incomplete", r.IncompleteRows).
		Int("duplicates", r.DuplicatesRemoved).
		Msg("Validated transactions")

	log.Info().
		Float64("lower", r.Outliers.Lower).
		Float64("upper", r.Outliers.Upper).
		Int("count", r.Outliers.Count).
		Msg("Outliers in total_amount")

	log.Info().
		Int("negative_quantity", r.NegativeQuantity).
		Int("negative_amount", r.NegativeAmount).
		Int("negative_profit", r.NegativeProfit).
		Int("profit_mismatch", r.ProfitMismatch).
		Msg("Business rule checks")

	for _, group := range []struct {
		msg    string
		counts map[string]int
	}{
		{"Null cells", r.NullCounts},
		{"Duplicate dimension rows", r.DimensionDuplicates},
		{"Incomplete dimension rows", r.DimensionIncomplete},
		{"Field violations", r.FieldViolations},
		{"Orphan references", r.OrphanReferences},
		{"Malformed cells", r.MalformedCells},
	} {
		for _, key := range SortedKeys(group.counts) {
			if group.counts[key] == 0 {
				continue
			}
			log.Warn().Str("key", key).Int("count", group.counts[key]).Msg(group.msg)
		}
	}
}

// SortedKeys returns the keys of m in lexical order.
func SortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sum(m map[string]int) int {
	total := 0
	for _, v := range m {
		total += v
	}
	return total
}
