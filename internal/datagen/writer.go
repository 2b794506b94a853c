//-------------------------------------------------------------------------
//
// pgEdge Retail Warehouse
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/pgEdge/pgedge-retailwh/internal/datedim"
	"github.com/pgEdge/pgedge-retailwh/internal/export"
	"github.com/pgEdge/pgedge-retailwh/internal/extract"
	"github.com/pgEdge/pgedge-retailwh/internal/logging"
)

// transactionExtras are convenience columns written after the required
// transaction columns. The pipeline ignores them.
var transactionExtras = []string{"year", "month", "quarter", "day_of_week", "profit_margin"}

// Write saves the dataset as the four extracts in dir and returns the
// paths written.
func Write(dir string, files extract.Files, ds *Dataset) ([]string, error) {
	var products, stores, customers, transactions [][]any

	for _, p := range ds.Products {
		products = append(products, []any{p.ProductID, p.ProductName, p.Category, p.UnitCost, p.UnitPrice})
	}
	for _, s := range ds.Stores {
		stores = append(stores, []any{s.StoreID, s.StoreName, s.Region, s.City, s.State, s.OpenedDate})
	}
	for _, c := range ds.Customers {
		customers = append(customers, []any{c.CustomerID, c.CustomerName, c.Email, c.JoinDate, c.CustomerSegment})
	}
	for _, t := range ds.Transactions {
		var margin *float64
		if t.TotalAmount != 0 {
			m := decimal.NewFromFloat(t.Profit).
				Div(decimal.NewFromFloat(t.TotalAmount)).
				Mul(decimal.NewFromInt(100)).
				Round(2).
				InexactFloat64()
			margin = &m
		}
		d := t.TransactionDate
		transactions = append(transactions, []any{
			t.TransactionID, d, t.StoreID, t.CustomerID, t.ProductID, t.Quantity,
			t.UnitPrice, t.DiscountPct, t.DiscountAmount, t.TotalAmount, t.TotalCost,
			t.Profit, t.PaymentMethod,
			d.Year(), int(d.Month()), datedim.Quarter(d), d.Weekday().String(), margin,
		})
	}

	outputs := []struct {
		name   string
		header []string
		rows   [][]any
	}{
		{files.Products, extract.ProductColumns, products},
		{files.Stores, extract.StoreColumns, stores},
		{files.Customers, extract.CustomerColumns, customers},
		{files.Transactions, append(append([]string{}, extract.TransactionColumns...), transactionExtras...), transactions},
	}

	var written []string
	for _, o := range outputs {
		path := filepath.Join(dir, o.name)
		if err := export.WriteCSV(path, o.header, export.FormatRows(o.rows)); err != nil {
			return written, fmt.Errorf("failed to write extract %s: %w", o.name, err)
		}
		written = append(written, path)

		var size int64
		if info, err := os.Stat(path); err == nil {
			size = info.Size()
		}
		logging.Info().
			Str("path", path).
			Int("rows", len(o.rows)).
			Str("size", FormatSize(size)).
			Msg("Wrote extract")
	}
	return written, nil
}

// FormatSize formats a byte count as a human-readable string.
func FormatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
