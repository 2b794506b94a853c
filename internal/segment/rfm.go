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
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pgEdge/pgedge-retailwh/internal/model"
)

type rfmAcc struct {
	last     time.Time
	count    int64
	monetary decimal.Decimal
}

// Anchor returns the analysis date: the latest sale plus one day.
func Anchor(sales []model.Sale) time.Time {
	var latest time.Time
	for i, s := range sales {
		if i == 0 || s.TransactionDate.After(latest) {
			latest = s.TransactionDate
		}
	}
	return latest.AddDate(0, 0, 1)
}

// RFM scores every customer with at least one sale. Records are ordered by
// customer id, which is also the tie-break order for frequency.
func RFM(sales []model.Sale) []model.RFMRecord {
	if len(sales) == 0 {
		return nil
	}
	anchor := Anchor(sales)

	acc := make(map[int64]*rfmAcc)
	for _, s := range sales {
		a, ok := acc[s.CustomerID]
		if !ok {
			a = &rfmAcc{last: s.TransactionDate}
			acc[s.CustomerID] = a
		}
		if s.TransactionDate.After(a.last) {
			a.last = s.TransactionDate
		}
		a.count++
		a.monetary = a.monetary.Add(decimal.NewFromFloat(s.TotalAmount))
	}

	ids := make([]int64, 0, len(acc))
	for id := range acc {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	records := make([]model.RFMRecord, len(ids))
	recency := make([]float64, len(ids))
	frequency := make([]float64, len(ids))
	monetary := make([]float64, len(ids))
	for i, id := range ids {
		a := acc[id]
		records[i] = model.RFMRecord{
			CustomerID: id,
			Recency:    int64(anchor.Sub(a.last).Hours() / 24),
			Frequency:  a.count,
			Monetary:   a.monetary.InexactFloat64(),
		}
		recency[i] = float64(records[i].Recency)
		frequency[i] = float64(a.count)
		monetary[i] = records[i].Monetary
	}

	r, rk := Quartiles(recency)
	f, _ := Quartiles(Ranks(frequency))
	m, _ := Quartiles(monetary)

	for i := range records {
		// Recent customers score highest.
		records[i].RScore = rk + 1 - r[i]
		records[i].FScore = f[i]
		records[i].MScore = m[i]
		records[i].RFMScore = fmt.Sprintf("%d%d%d",
			records[i].RScore, records[i].FScore, records[i].MScore)
	}
	return records
}

// ScoreDistribution counts customers per rfm_score.
func ScoreDistribution(records []model.RFMRecord) map[string]int {
	dist := make(map[string]int)
	for _, r := range records {
		dist[r.RFMScore]++
	}
	return dist
}
