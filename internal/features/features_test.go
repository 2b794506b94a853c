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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgEdge/pgedge-retailwh/internal/model"
	"github.com/pgEdge/pgedge-retailwh/internal/validate"
)

var jan15 = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

func tx(id int64, amount float64) model.Transaction {
	return model.Transaction{
		TransactionID:   id,
		TransactionDate: jan15,
		StoreID:         1,
		CustomerID:      1,
		ProductID:       1,
		Quantity:        1,
		TotalAmount:     amount,
		TotalCost:       amount * 0.6,
		Profit:          amount * 0.4,
	}
}

func TestEndToEndExample(t *testing.T) {
	clean := &validate.Result{
		Transactions: []model.Transaction{tx(1, 100), tx(2, 200), tx(3, 50)},
		Products:     []model.Product{{ProductID: 1, ProductName: "Laptop", Category: "Electronics", UnitCost: 60, UnitPrice: 100}},
		Stores:       []model.Store{{StoreID: 1, StoreName: "Store_North_1", Region: "North"}},
		Customers:    []model.Customer{{CustomerID: 1, CustomerName: "Customer_1", CustomerSegment: "VIP"}},
	}

	set := Build(clean)

	require.Len(t, set.Customers, 1)
	c := set.Customers[0]
	assert.Equal(t, 350.0, c.LifetimeValue)
	assert.Equal(t, int64(3), c.TransactionCount)
	require.NotNil(t, c.AvgOrderValue)
	assert.InDelta(t, 116.67, *c.AvgOrderValue, 0.005)
	require.NotNil(t, c.TenureDays)
	assert.Equal(t, int64(0), *c.TenureDays)

	first := set.Sales[0]
	assert.Equal(t, 40.0, first.Profit)
	require.NotNil(t, first.ProfitMarginPct)
	assert.Equal(t, 40.0, *first.ProfitMarginPct)

	assert.Equal(t, 350.0, set.Summary.TotalRevenue)
	assert.Equal(t, 1, set.Summary.Baskets)
	assert.Equal(t, 1, set.Summary.MultiItemBaskets)
	assert.Equal(t, 3.0, set.Summary.AvgBasketSize)
}

func TestEnrichTemporal(t *testing.T) {
	tests := []struct {
		date    time.Time
		dow     int
		weekend bool
		season  string
		quarter int
		week    int
	}{
		{time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), 0, false, "Winter", 1, 3},
		{time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC), 5, true, "Spring", 1, 11},
		{time.Date(2024, 7, 7, 0, 0, 0, 0, time.UTC), 6, true, "Summer", 3, 27},
		{time.Date(2024, 11, 29, 0, 0, 0, 0, time.UTC), 4, false, "Fall", 4, 48},
		{time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC), 0, false, "Winter", 4, 1},
	}

	for _, tt := range tests {
		in := tx(1, 10)
		in.TransactionDate = tt.date
		sale := Enrich([]model.Transaction{in})[0]

		assert.Equal(t, tt.dow, sale.DayOfWeek, tt.date.String())
		assert.Equal(t, tt.weekend, sale.IsWeekend, tt.date.String())
		assert.Equal(t, tt.season, sale.Season, tt.date.String())
		assert.Equal(t, tt.quarter, sale.Quarter, tt.date.String())
		assert.Equal(t, tt.week, sale.WeekOfYear, tt.date.String())
		assert.Equal(t, tt.date.Year()*10000+int(tt.date.Month())*100+tt.date.Day(), sale.DateKey)
	}
}

func TestEnrichFinancial(t *testing.T) {
	zero := tx(1, 0)
	zero.Profit = 0
	zero.Quantity = 0
	zero.DiscountPct = 10

	sale := Enrich([]model.Transaction{zero})[0]
	assert.Nil(t, sale.ProfitMarginPct, "margin is undefined exactly when total is zero")
	assert.Nil(t, sale.RevenuePerUnit)
	assert.True(t, sale.DiscountGiven)

	odd := tx(2, 100)
	odd.Quantity = 3
	odd.Profit = 33.333
	sale = Enrich([]model.Transaction{odd})[0]
	require.NotNil(t, sale.RevenuePerUnit)
	assert.Equal(t, 33.33, *sale.RevenuePerUnit)
	assert.Equal(t, 33.33, *sale.ProfitMarginPct)
	assert.False(t, sale.DiscountGiven)
}

func TestEnrichRoundsScaledFloat(t *testing.T) {
	// 1.015 is stored just below the tie, so scaling by 100 gives
	// 101.49999999999999 and the value rounds down.
	tie := tx(1, 100)
	tie.Profit = 1.015
	sale := Enrich([]model.Transaction{tie})[0]
	require.NotNil(t, sale.ProfitMarginPct)
	assert.Equal(t, 1.01, *sale.ProfitMarginPct)

	perUnit := RevenuePerUnit(3.045, 3)
	require.NotNil(t, perUnit)
	assert.Equal(t, 1.01, *perUnit)

	assert.Equal(t, 0.12, *ProfitMarginPct(0.125, 100), "exact ties round to even")
}

func TestTransactionSize(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "Small"},
		{49.99, "Small"},
		{50, "Medium"},
		{199.99, "Medium"},
		{200, "Large"},
		{499.99, "Large"},
		{500, "Very Large"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TransactionSize(tt.amount), "amount %v", tt.amount)
	}
}

func TestProductMargins(t *testing.T) {
	products := []model.Product{
		{ProductID: 1, UnitCost: 80, UnitPrice: 100},
		{ProductID: 2, UnitCost: 60, UnitPrice: 100},
		{ProductID: 3, UnitCost: 25, UnitPrice: 100},
		{ProductID: 4, UnitCost: 10, UnitPrice: 0},
	}

	out := Products(products, nil)
	require.Len(t, out, 4)

	assert.Equal(t, 20.0, *out[0].MarginPct)
	assert.Equal(t, "Low Margin", out[0].MarginCategory)
	assert.Equal(t, "Medium Margin", out[1].MarginCategory)
	assert.Equal(t, "High Margin", out[2].MarginCategory)

	assert.Nil(t, out[3].MarginPct, "zero price yields no margin")
	assert.Equal(t, "Low Margin", out[3].MarginCategory)
	assert.Nil(t, out[3].AvgProfitPerSale)
	assert.Equal(t, int64(0), out[3].NumSales)
}

func TestProductAndStoreRollups(t *testing.T) {
	a := tx(1, 100)
	a.Quantity = 2
	b := tx(2, 50)
	b.CustomerID = 2
	c := tx(3, 30)
	c.ProductID = 2
	c.StoreID = 2

	sales := Enrich([]model.Transaction{a, b, c})

	products := Products([]model.Product{{ProductID: 1, UnitPrice: 10, UnitCost: 5}, {ProductID: 2, UnitPrice: 10}}, sales)
	assert.Equal(t, int64(3), products[0].TotalUnitsSold)
	assert.Equal(t, 150.0, products[0].TotalRevenue)
	assert.Equal(t, 60.0, products[0].TotalProfit)
	assert.Equal(t, int64(2), products[0].NumSales)
	assert.Equal(t, 30.0, *products[0].AvgProfitPerSale)

	stores := Stores([]model.Store{{StoreID: 1}, {StoreID: 2}, {StoreID: 3}}, sales)
	assert.Equal(t, 150.0, stores[0].TotalRevenue)
	assert.Equal(t, int64(2), stores[0].NumTransactions)
	assert.Equal(t, int64(2), stores[0].UniqueCustomers)
	assert.Equal(t, 75.0, *stores[0].RevenuePerTransaction)
	assert.Equal(t, 75.0, *stores[0].RevenuePerCustomer)
	assert.Nil(t, stores[2].RevenuePerTransaction)
	assert.Nil(t, stores[2].RevenuePerCustomer)
}

func TestCustomerTenure(t *testing.T) {
	a := tx(1, 10)
	b := tx(2, 10)
	b.TransactionDate = jan15.AddDate(0, 0, 45)

	out := Customers([]model.Customer{{CustomerID: 1}, {CustomerID: 9}}, Enrich([]model.Transaction{b, a}))
	require.NotNil(t, out[0].TenureDays)
	assert.Equal(t, int64(45), *out[0].TenureDays)
	assert.Equal(t, jan15, *out[0].FirstPurchase)

	assert.Nil(t, out[1].TenureDays)
	assert.Nil(t, out[1].AvgOrderValue)
	assert.Equal(t, int64(0), out[1].TransactionCount)
}

func TestSummaryGroups(t *testing.T) {
	a := tx(1, 100)
	b := tx(2, 300)
	b.ProductID = 2
	b.TransactionDate = jan15.AddDate(0, 0, 1)
	c := tx(3, 20)
	c.ProductID = 99

	sales := Enrich([]model.Transaction{a, b, c})
	s := Summarize(sales,
		[]model.Product{{ProductID: 1, Category: "Books"}, {ProductID: 2, Category: "Toys"}},
		[]model.Store{{StoreID: 1, Region: "North"}},
		[]model.Customer{{CustomerID: 1, CustomerSegment: "VIP"}},
	)

	require.Len(t, s.ByCategory, 3)
	assert.Equal(t, "Toys", s.ByCategory[0].Key, "categories sorted by revenue")
	assert.Equal(t, Unknown, s.ByCategory[2].Key)
	require.Len(t, s.ByRegion, 1)
	assert.Equal(t, int64(3), s.ByRegion[0].Transactions)
	assert.Equal(t, 100.0, s.MedianTransactionValue)
	require.NotNil(t, s.OverallMarginPct)
	assert.Equal(t, 40.0, *s.OverallMarginPct)
	assert.Equal(t, 2, s.Baskets)
	assert.Equal(t, 1, s.MultiItemBaskets)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, nil, nil, nil)
	assert.Equal(t, 0, s.Transactions)
	assert.Nil(t, s.OverallMarginPct)
}

func TestSummaryTemporal(t *testing.T) {
	at := func(id int64, amount float64, y int, m time.Month) model.Transaction {
		tr := tx(id, amount)
		tr.TransactionDate = time.Date(y, m, 10, 0, 0, 0, 0, time.UTC)
		return tr
	}
	sales := Enrich([]model.Transaction{
		at(1, 50, 2023, time.March),
		at(2, 150, 2023, time.March),
		at(3, 400, 2023, time.November),
		at(4, 10, 2024, time.January),
		at(5, 200, 2024, time.March),
		at(6, 5, 2024, time.June),
	})
	s := Summarize(sales, nil, nil, nil)

	require.Len(t, s.ByYear, 2)
	assert.Equal(t, "2023", s.ByYear[0].Key)
	assert.Equal(t, 600.0, s.ByYear[0].Revenue)
	assert.Equal(t, "2024", s.ByYear[1].Key)
	assert.Equal(t, 215.0, s.ByYear[1].Revenue)

	require.Len(t, s.TopMonths, TopMonths)
	assert.Equal(t, "November", s.TopMonths[0].Month)
	assert.Equal(t, 400.0, s.TopMonths[0].AvgTransactionValue)
	assert.Equal(t, "March", s.TopMonths[1].Month, "months pool across years")
	assert.InDelta(t, 133.33, s.TopMonths[1].AvgTransactionValue, 0.01)
	assert.Equal(t, int64(3), s.TopMonths[1].Transactions)
	assert.Equal(t, "January", s.TopMonths[2].Month)
}
