//-------------------------------------------------------------------------
//
// pgEdge Retail Warehouse
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package model defines the typed records that flow between pipeline stages.
//
// Raw* records mirror the source extracts and keep nullable columns as
// pointers. Cleaned records are fully typed; derived features that can be
// undefined (division by zero, no history) are pointers as well.
package model

import (
	"fmt"
	"time"
)

// RawProduct is one row of the products extract.
type RawProduct struct {
	ProductID   *int64
	ProductName *string
	Category    *string
	UnitCost    *float64
	UnitPrice   *float64
}

// RawStore is one row of the stores extract.
type RawStore struct {
	StoreID    *int64
	StoreName  *string
	Region     *string
	City       *string
	State      *string
	OpenedDate *time.Time
}

// RawCustomer is one row of the customers extract.
type RawCustomer struct {
	CustomerID      *int64
	CustomerName    *string
	Email           *string
	JoinDate        *time.Time
	CustomerSegment *string
}

// RawTransaction is one row of the transactions extract.
type RawTransaction struct {
	TransactionID   *int64
	TransactionDate *time.Time
	StoreID         *int64
	CustomerID      *int64
	ProductID       *int64
	Quantity        *int64
	UnitPrice       *float64
	DiscountPct     *float64
	DiscountAmount  *float64
	TotalAmount     *float64
	TotalCost       *float64
	Profit          *float64
	PaymentMethod   *string
}

// RawDataset holds the four extracts as read from their source.
type RawDataset struct {
	Products     []RawProduct
	Stores       []RawStore
	Customers    []RawCustomer
	Transactions []RawTransaction

	// Malformed counts cells that were present but could not be parsed,
	// keyed by "extract.column". Such cells are carried as nulls.
	Malformed map[string]int
}

// Product is a cleaned product dimension record.
type Product struct {
	ProductID   int64
	ProductName string  `validate:"required"`
	Category    string  `validate:"required"`
	UnitCost    float64 `validate:"gte=0"`
	UnitPrice   float64 `validate:"gte=0"`
}

// Store is a cleaned store dimension record.
type Store struct {
	StoreID    int64
	StoreName  string `validate:"required"`
	Region     string `validate:"required"`
	City       string
	State      string
	OpenedDate *time.Time
}

// Customer is a cleaned customer dimension record.
type Customer struct {
	CustomerID      int64
	CustomerName    string `validate:"required"`
	Email           string `validate:"omitempty,email"`
	JoinDate        *time.Time
	CustomerSegment string `validate:"required"`
}

// Transaction is a cleaned, fully typed transaction.
type Transaction struct {
	TransactionID   int64
	TransactionDate time.Time
	StoreID         int64
	CustomerID      int64
	ProductID       int64
	Quantity        int64
	UnitPrice       float64
	DiscountPct     float64
	DiscountAmount  float64
	TotalAmount     float64
	TotalCost       float64
	Profit          float64
	PaymentMethod   string
}

// Sale is a transaction enriched with temporal and financial attributes.
// It is the row shape of the fact table.
type Sale struct {
	Transaction

	DateKey         int
	Year            int
	Month           int
	MonthName       string
	Quarter         int
	DayOfWeek       int
	DayName         string
	WeekOfYear      int
	IsWeekend       bool
	Season          string
	ProfitMarginPct *float64
	DiscountGiven   bool
	RevenuePerUnit  *float64
	TransactionSize string
}

// ProductFeatures is a product with its sales roll-up.
type ProductFeatures struct {
	Product

	TotalUnitsSold   int64
	TotalRevenue     float64
	TotalProfit      float64
	NumSales         int64
	AvgProfitPerSale *float64
	MarginPct        *float64
	MarginCategory   string
}

// StoreFeatures is a store with its sales roll-up.
type StoreFeatures struct {
	Store

	TotalRevenue          float64
	TotalProfit           float64
	NumTransactions       int64
	UniqueCustomers       int64
	RevenuePerTransaction *float64
	RevenuePerCustomer    *float64
}

// CustomerFeatures is a customer with its purchase history roll-up.
type CustomerFeatures struct {
	Customer

	LifetimeValue    float64
	TransactionCount int64
	TenureDays       *int64
	AvgOrderValue    *float64
	FirstPurchase    *time.Time
	LastPurchase     *time.Time
}

// DateDimRow is one calendar day of the date dimension.
type DateDimRow struct {
	DateKey    int
	FullDate   time.Time
	Year       int
	Quarter    int
	Month      int
	MonthName  string
	Week       int
	DayOfMonth int
	DayOfWeek  int
	DayName    string
	IsWeekend  bool
	IsHoliday  bool
}

// RFMRecord holds the recency, frequency and monetary scores of a customer.
type RFMRecord struct {
	CustomerID int64
	Recency    int64
	Frequency  int64
	Monetary   float64
	RScore     int
	FScore     int
	MScore     int
	RFMScore   string
}

// YearMonth identifies a calendar month.
type YearMonth struct {
	Year  int
	Month time.Month
}

// MonthOf returns the calendar month containing t.
func MonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// Index returns a monotonically increasing month ordinal.
func (m YearMonth) Index() int {
	return m.Year*12 + int(m.Month) - 1
}

// Sub returns the number of months from o to m.
func (m YearMonth) Sub(o YearMonth) int {
	return m.Index() - o.Index()
}

// Before reports whether m is earlier than o.
func (m YearMonth) Before(o YearMonth) bool {
	return m.Index() < o.Index()
}

// String renders the month as YYYY-MM.
func (m YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// CohortAssignment maps a customer to the month of their first purchase.
type CohortAssignment struct {
	CustomerID int64
	Cohort     YearMonth
}

// TransactionPeriod places one transaction relative to its customer's cohort.
type TransactionPeriod struct {
	TransactionID int64
	CustomerID    int64
	Cohort        YearMonth
	OrderMonth    YearMonth
	PeriodNumber  int
}
