//-------------------------------------------------------------------------
//
// pgEdge Retail Warehouse
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package features

import (
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/pgEdge/pgedge-retailwh/internal/datedim"
	"github.com/pgEdge/pgedge-retailwh/internal/model"
	"github.com/pgEdge/pgedge-retailwh/internal/stats"
)

// Unknown labels sales whose dimension row is missing.
const Unknown = "Unknown"

// GroupPerformance is revenue, profit and volume for one group of sales.
type GroupPerformance struct {
	Key          string
	Revenue      float64
	Profit       float64
	Transactions int64
	Customers    int64
}

// TopMonths is how many months Summary ranks by average transaction value.
const TopMonths = 3

// MonthAverage is the average transaction value of one calendar month,
// pooled across years.
type MonthAverage struct {
	Month               string
	AvgTransactionValue float64
	Transactions        int64
}

// Summary is the run level revenue and basket overview.
type Summary struct {
	Transactions           int
	TotalRevenue           float64
	TotalProfit            float64
	AvgTransactionValue    float64
	MedianTransactionValue float64
	OverallMarginPct       *float64

	// A basket is all sales of one customer on one calendar day.
	Baskets          int
	AvgBasketSize    float64
	MultiItemBaskets int

	ByCategory []GroupPerformance
	ByRegion   []GroupPerformance
	BySegment  []GroupPerformance

	ByYear    []GroupPerformance
	TopMonths []MonthAverage
}

type basketKey struct {
	customer int64
	day      time.Time
}

// Summarize computes the revenue, basket and group breakdowns of sales.
func Summarize(sales []model.Sale, products []model.Product, stores []model.Store,
	customers []model.Customer) Summary {
	var s Summary
	s.Transactions = len(sales)
	if len(sales) == 0 {
		return s
	}

	var revenue, profit decimal.Decimal
	amounts := make([]float64, len(sales))
	baskets := make(map[basketKey]int)
	for i, sale := range sales {
		revenue = revenue.Add(decimal.NewFromFloat(sale.TotalAmount))
		profit = profit.Add(decimal.NewFromFloat(sale.Profit))
		amounts[i] = sale.TotalAmount
		baskets[basketKey{sale.CustomerID, datedim.Day(sale.TransactionDate)}]++
	}

	s.TotalRevenue = revenue.InexactFloat64()
	s.TotalProfit = profit.InexactFloat64()
	s.AvgTransactionValue = revenue.Div(decimal.NewFromInt(int64(len(sales)))).InexactFloat64()
	s.MedianTransactionValue = stats.Median(amounts)
	if !revenue.IsZero() {
		s.OverallMarginPct = round2(profit.Div(revenue).Mul(hundred))
	}

	s.Baskets = len(baskets)
	for _, n := range baskets {
		if n > 1 {
			s.MultiItemBaskets++
		}
	}
	s.AvgBasketSize = float64(len(sales)) / float64(len(baskets))

	category := make(map[int64]string, len(products))
	for _, p := range products {
		category[p.ProductID] = p.Category
	}
	region := make(map[int64]string, len(stores))
	for _, st := range stores {
		region[st.StoreID] = st.Region
	}
	segment := make(map[int64]string, len(customers))
	for _, c := range customers {
		segment[c.CustomerID] = c.CustomerSegment
	}

	s.ByCategory = groupBy(sales, func(sale model.Sale) string { return lookup(category, sale.ProductID) })
	sort.SliceStable(s.ByCategory, func(i, j int) bool {
		return s.ByCategory[i].Revenue > s.ByCategory[j].Revenue
	})
	s.ByRegion = groupBy(sales, func(sale model.Sale) string { return lookup(region, sale.StoreID) })
	s.BySegment = groupBy(sales, func(sale model.Sale) string { return lookup(segment, sale.CustomerID) })
	s.ByYear = groupBy(sales, func(sale model.Sale) string { return strconv.Itoa(sale.Year) })
	s.TopMonths = topMonths(sales, TopMonths)

	return s
}

// topMonths ranks month names by average transaction value, highest first.
func topMonths(sales []model.Sale, n int) []MonthAverage {
	months := groupBy(sales, func(sale model.Sale) string { return sale.MonthName })

	out := make([]MonthAverage, len(months))
	for i, m := range months {
		out[i] = MonthAverage{
			Month: m.Key,
			// Revenue is already rounded to cents.
			AvgTransactionValue: m.Revenue / float64(m.Transactions),
			Transactions:        m.Transactions,
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AvgTransactionValue > out[j].AvgTransactionValue
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func lookup(m map[int64]string, id int64) string {
	if v, ok := m[id]; ok && v != "" {
		return v
	}
	return Unknown
}

type groupAcc struct {
	revenue   decimal.Decimal
	profit    decimal.Decimal
	count     int64
	customers map[int64]struct{}
}

// groupBy aggregates sales per key, sorted by key.
func groupBy(sales []model.Sale, key func(model.Sale) string) []GroupPerformance {
	acc := make(map[string]*groupAcc)
	for _, sale := range sales {
		k := key(sale)
		a, ok := acc[k]
		if !ok {
			a = &groupAcc{customers: make(map[int64]struct{})}
			acc[k] = a
		}
		a.revenue = a.revenue.Add(decimal.NewFromFloat(sale.TotalAmount))
		a.profit = a.profit.Add(decimal.NewFromFloat(sale.Profit))
		a.count++
		a.customers[sale.CustomerID] = struct{}{}
	}

	out := make([]GroupPerformance, 0, len(acc))
	for k, a := range acc {
		out = append(out, GroupPerformance{
			Key:          k,
			Revenue:      *round2(a.revenue),
			Profit:       *round2(a.profit),
			Transactions: a.count,
			Customers:    int64(len(a.customers)),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Log writes the summary to log.
func (s Summary) Log(log zerolog.Logger) {
	ev := log.Info().
		Int("transactions", s.Transactions).
		Float64("total_revenue", s.TotalRevenue).
		Float64("total_profit", s.TotalProfit).
		Float64("avg_transaction", s.AvgTransactionValue).
		Float64("median_transaction", s.MedianTransactionValue)
	if s.OverallMarginPct != nil {
		ev = ev.Float64("margin_pct", *s.OverallMarginPct)
	}
	ev.Msg("Revenue summary")

	log.Info().
		Int("baskets", s.Baskets).
		Float64("avg_basket_size", s.AvgBasketSize).
		Int("multi_item_baskets", s.MultiItemBaskets).
		Msg("Basket summary")

	for _, group := range []struct {
		name string
		rows []GroupPerformance
	}{
		{"category", s.ByCategory},
		{"region", s.ByRegion},
		{"segment", s.BySegment},
		{"year", s.ByYear},
	} {
		for _, g := range group.rows {
			log.Debug().
				Str(group.name, g.Key).
				Float64("revenue", g.Revenue).
				Float64("profit", g.Profit).
				Int64("transactions", g.Transactions).
				Int64("customers", g.Customers).
				Msg("Group performance")
		}
	}

	for i, m := range s.TopMonths {
		log.Info().
			Int("rank", i+1).
			Str("month", m.Month).
			Float64("avg_transaction", m.AvgTransactionValue).
			Int64("transactions", m.Transactions).
			Msg("Top month by average transaction value")
	}
}
