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
	"time"

	"github.com/shopspring/decimal"

	"github.com/pgEdge/pgedge-retailwh/internal/model"
)

// Margin category thresholds on margin_pct.
const (
	LowMarginLimit    = 30
	MediumMarginLimit = 50
)

// MarginPct returns (price-cost)/price*100 rounded to cents, or nil when the
// price is zero.
func MarginPct(price, cost float64) *float64 {
	if price == 0 {
		return nil
	}
	return roundFloat2((price - cost) / price * 100)
}

// MarginCategory labels a margin. An undefined margin is "Low Margin".
func MarginCategory(margin *float64) string {
	switch {
	case margin == nil || *margin < LowMarginLimit:
		return "Low Margin"
	case *margin < MediumMarginLimit:
		return "Medium Margin"
	default:
		return "High Margin"
	}
}

type customerAcc struct {
	revenue decimal.Decimal
	count   int64
	first   time.Time
	last    time.Time
}

// Customers rolls sales up per customer. Customers without sales get zero
// totals and nil ratios.
func Customers(customers []model.Customer, sales []model.Sale) []model.CustomerFeatures {
	acc := make(map[int64]*customerAcc, len(customers))
	for _, s := range sales {
		a, ok := acc[s.CustomerID]
		if !ok {
			a = &customerAcc{first: s.TransactionDate, last: s.TransactionDate}
			acc[s.CustomerID] = a
		}
		a.revenue = a.revenue.Add(decimal.NewFromFloat(s.TotalAmount))
		a.count++
		if s.TransactionDate.Before(a.first) {
			a.first = s.TransactionDate
		}
		if s.TransactionDate.After(a.last) {
			a.last = s.TransactionDate
		}
	}

	out := make([]model.CustomerFeatures, len(customers))
	for i, c := range customers {
		f := model.CustomerFeatures{Customer: c}
		if a, ok := acc[c.CustomerID]; ok {
			first, last := a.first, a.last
			tenure := int64(last.Sub(first).Hours() / 24)

			f.LifetimeValue = a.revenue.InexactFloat64()
			f.TransactionCount = a.count
			f.TenureDays = &tenure
			f.AvgOrderValue = ratio(a.revenue, a.count)
			f.FirstPurchase = &first
			f.LastPurchase = &last
		}
		out[i] = f
	}
	return out
}

type productAcc struct {
	units   int64
	revenue decimal.Decimal
	profit  decimal.Decimal
	count   int64
}

// Products rolls sales up per product and derives the margin fields.
func Products(products []model.Product, sales []model.Sale) []model.ProductFeatures {
	acc := make(map[int64]*productAcc, len(products))
	for _, s := range sales {
		a, ok := acc[s.ProductID]
		if !ok {
			a = &productAcc{}
			acc[s.ProductID] = a
		}
		a.units += s.Quantity
		a.revenue = a.revenue.Add(decimal.NewFromFloat(s.TotalAmount))
		a.profit = a.profit.Add(decimal.NewFromFloat(s.Profit))
		a.count++
	}

	out := make([]model.ProductFeatures, len(products))
	for i, p := range products {
		f := model.ProductFeatures{Product: p}
		if a, ok := acc[p.ProductID]; ok {
			f.TotalUnitsSold = a.units
			f.TotalRevenue = a.revenue.InexactFloat64()
			f.TotalProfit = a.profit.InexactFloat64()
			f.NumSales = a.count
			f.AvgProfitPerSale = ratio(a.profit, a.count)
		}
		f.MarginPct = MarginPct(p.UnitPrice, p.UnitCost)
		f.MarginCategory = MarginCategory(f.MarginPct)
		out[i] = f
	}
	return out
}

type storeAcc struct {
	revenue   decimal.Decimal
	profit    decimal.Decimal
	count     int64
	customers map[int64]struct{}
}

// Stores rolls sales up per store.
func Stores(stores []model.Store, sales []model.Sale) []model.StoreFeatures {
	acc := make(map[int64]*storeAcc, len(stores))
	for _, s := range sales {
		a, ok := acc[s.StoreID]
		if !ok {
			a = &storeAcc{customers: make(map[int64]struct{})}
			acc[s.StoreID] = a
		}
		a.revenue = a.revenue.Add(decimal.NewFromFloat(s.TotalAmount))
		a.profit = a.profit.Add(decimal.NewFromFloat(s.Profit))
		a.count++
		a.customers[s.CustomerID] = struct{}{}
	}

	out := make([]model.StoreFeatures, len(stores))
	for i, st := range stores {
		f := model.StoreFeatures{Store: st}
		if a, ok := acc[st.StoreID]; ok {
			unique := int64(len(a.customers))
			f.TotalRevenue = a.revenue.InexactFloat64()
			f.TotalProfit = a.profit.InexactFloat64()
			f.NumTransactions = a.count
			f.UniqueCustomers = unique
			f.RevenuePerTransaction = ratio(a.revenue, a.count)
			f.RevenuePerCustomer = ratio(a.revenue, unique)
		}
		out[i] = f
	}
	return out
}
