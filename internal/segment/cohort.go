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
	"sort"

	"github.com/pgEdge/pgedge-retailwh/internal/model"
)

// RetentionRow is one cohort of the retention matrix. Active[p] is the
// number of distinct customers of the cohort who bought in period p, and
// Rate[p] is Active[p] relative to period 0.
type RetentionRow struct {
	Cohort model.YearMonth
	Size   int
	Active []int
	Rate   []float64
}

// Cohorts is the cohort analysis of a set of sales.
type Cohorts struct {
	Assignments []model.CohortAssignment
	Periods     []model.TransactionPeriod
	Retention   []RetentionRow
	MaxPeriod   int
}

// AssignCohorts places each customer in the month of their first sale and
// each sale in its period relative to that month.
func AssignCohorts(sales []model.Sale) *Cohorts {
	c := &Cohorts{}
	if len(sales) == 0 {
		return c
	}

	first := make(map[int64]model.YearMonth)
	for _, s := range sales {
		m := model.MonthOf(s.TransactionDate)
		if cur, ok := first[s.CustomerID]; !ok || m.Before(cur) {
			first[s.CustomerID] = m
		}
	}

	type cell struct {
		cohort model.YearMonth
		period int
	}
	active := make(map[cell]map[int64]struct{})

	c.Periods = make([]model.TransactionPeriod, len(sales))
	for i, s := range sales {
		cohort := first[s.CustomerID]
		order := model.MonthOf(s.TransactionDate)
		period := order.Sub(cohort)

		c.Periods[i] = model.TransactionPeriod{
			TransactionID: s.TransactionID,
			CustomerID:    s.CustomerID,
			Cohort:        cohort,
			OrderMonth:    order,
			PeriodNumber:  period,
		}
		if period > c.MaxPeriod {
			c.MaxPeriod = period
		}

		k := cell{cohort, period}
		if active[k] == nil {
			active[k] = make(map[int64]struct{})
		}
		active[k][s.CustomerID] = struct{}{}
	}

	c.Assignments = make([]model.CohortAssignment, 0, len(first))
	sizes := make(map[model.YearMonth]int)
	for id, m := range first {
		c.Assignments = append(c.Assignments, model.CohortAssignment{CustomerID: id, Cohort: m})
		sizes[m]++
	}
	sort.Slice(c.Assignments, func(i, j int) bool {
		return c.Assignments[i].CustomerID < c.Assignments[j].CustomerID
	})

	months := make([]model.YearMonth, 0, len(sizes))
	for m := range sizes {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	c.Retention = make([]RetentionRow, len(months))
	for i, m := range months {
		row := RetentionRow{
			Cohort: m,
			Size:   sizes[m],
			Active: make([]int, c.MaxPeriod+1),
			Rate:   make([]float64, c.MaxPeriod+1),
		}
		for p := 0; p <= c.MaxPeriod; p++ {
			row.Active[p] = len(active[cell{m, p}])
		}
		for p := range row.Active {
			if row.Active[0] > 0 {
				row.Rate[p] = float64(row.Active[p]) / float64(row.Active[0])
			}
		}
		c.Retention[i] = row
	}

	return c
}
