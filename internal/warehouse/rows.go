//-------------------------------------------------------------------------
//
// pgEdge Retail Warehouse
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package warehouse

import (
	"github.com/pgEdge/pgedge-retailwh/internal/model"
)

// The row builders below emit values in the column order of the matching
// TableDef.

// ProductRows maps products to dim_products rows.
func ProductRows(products []model.ProductFeatures) [][]any {
	rows := make([][]any, len(products))
	for i, p := range products {
		rows[i] = []any{
			p.ProductID, p.ProductName, p.Category, p.UnitCost, p.UnitPrice,
			p.TotalUnitsSold, p.TotalRevenue, p.TotalProfit, p.NumSales,
			p.AvgProfitPerSale, p.MarginPct, p.MarginCategory,
		}
	}
	return rows
}

// StoreRows maps stores to dim_stores rows.
func StoreRows(stores []model.StoreFeatures) [][]any {
	rows := make([][]any, len(stores))
	for i, s := range stores {
		rows[i] = []any{
			s.StoreID, s.StoreName, s.Region, s.City, s.State, s.OpenedDate,
			s.TotalRevenue, s.TotalProfit, s.NumTransactions, s.UniqueCustomers,
			s.RevenuePerTransaction, s.RevenuePerCustomer,
		}
	}
	return rows
}

// CustomerRows maps customers to dim_customers rows.
func CustomerRows(customers []model.CustomerFeatures) [][]any {
	rows := make([][]any, len(customers))
	for i, c := range customers {
		rows[i] = []any{
			c.CustomerID, c.CustomerName, c.Email, c.JoinDate, c.CustomerSegment,
			c.LifetimeValue, c.TransactionCount, c.TenureDays, c.AvgOrderValue,
		}
	}
	return rows
}

// DateRows maps calendar rows to dim_date rows.
func DateRows(dates []model.DateDimRow) [][]any {
	rows := make([][]any, len(dates))
	for i, d := range dates {
		rows[i] = []any{
			d.DateKey, d.FullDate, d.Year, d.Quarter, d.Month, d.MonthName,
			d.Week, d.DayOfMonth, d.DayOfWeek, d.DayName, d.IsWeekend, d.IsHoliday,
		}
	}
	return rows
}

// SaleRows maps enriched sales to fact_sales rows.
func SaleRows(sales []model.Sale) [][]any {
	rows := make([][]any, len(sales))
	for i, s := range sales {
		rows[i] = []any{
			s.TransactionID, s.TransactionDate, s.DateKey, s.StoreID, s.CustomerID,
			s.ProductID, s.Quantity, s.UnitPrice, s.DiscountPct, s.DiscountAmount,
			s.TotalAmount, s.TotalCost, s.Profit, s.ProfitMarginPct, s.PaymentMethod,
			s.Year, s.Month, s.MonthName, s.Quarter, s.DayOfWeek, s.DayName,
			s.WeekOfYear, s.IsWeekend, s.Season, s.DiscountGiven, s.RevenuePerUnit,
			s.TransactionSize,
		}
	}
	return rows
}
