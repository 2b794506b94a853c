//-------------------------------------------------------------------------
//
// pgEdge Retail Warehouse
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package export

import (
	"fmt"

	"github.com/pgEdge/pgedge-retailwh/internal/validate"
	"github.com/pgEdge/pgedge-retailwh/internal/warehouse"
)

// Table is one exported data set. File is the CSV name without extension
// and Sheet the workbook sheet; either may be empty to skip that output.
type Table struct {
	File   string
	Sheet  string
	Header []string
	Rows   [][]any
}

// Tables builds every exported data set from a run.
func Tables(in Input) []Table {
	var tables []Table
	if set := in.Features; set != nil {
		customers := Table{
			File:   "customers_cleaned",
			Sheet:  "Customers",
			Header: append(warehouse.DimCustomers.ColumnNames(), "first_purchase", "last_purchase"),
			Rows:   warehouse.CustomerRows(set.Customers),
		}
		for i, c := range set.Customers {
			customers.Rows[i] = append(customers.Rows[i], c.FirstPurchase, c.LastPurchase)
		}

		tables = append(tables,
			Table{
				File:   "transactions_cleaned",
				Header: warehouse.FactSales.ColumnNames(),
				Rows:   warehouse.SaleRows(set.Sales),
			},
			customers,
			Table{
				File:   "products_cleaned",
				Sheet:  "Products",
				Header: warehouse.DimProducts.ColumnNames(),
				Rows:   warehouse.ProductRows(set.Products),
			},
			Table{
				File:   "stores_cleaned",
				Sheet:  "Stores",
				Header: warehouse.DimStores.ColumnNames(),
				Rows:   warehouse.StoreRows(set.Stores),
			},
		)
	}

	if in.Segments != nil {
		tables = append(tables, rfmTable(in), cohortTable(in))
	}

	if in.Report != nil {
		tables = append(tables, Table{
			Sheet:  "Validation",
			Header: []string{"check", "count"},
			Rows:   validationRows(in.Report),
		})
	}
	return tables
}

func rfmTable(in Input) Table {
	t := Table{
		File:  "rfm",
		Sheet: "RFM",
		Header: []string{
			"customer_id", "recency", "frequency", "monetary",
			"r_score", "f_score", "m_score", "rfm_score",
		},
	}
	for _, r := range in.Segments.RFM {
		t.Rows = append(t.Rows, []any{
			r.CustomerID, r.Recency, r.Frequency, r.Monetary,
			r.RScore, r.FScore, r.MScore, r.RFMScore,
		})
	}
	return t
}

// cohortTable lays the retention matrix out wide: active customers per
// period followed by the retention rate per period.
func cohortTable(in Input) Table {
	c := in.Segments.Cohorts
	t := Table{
		File:   "cohort_retention",
		Sheet:  "Cohorts",
		Header: []string{"cohort", "cohort_size"},
	}
	if c == nil {
		return t
	}
	for p := 0; p <= c.MaxPeriod; p++ {
		t.Header = append(t.Header, fmt.Sprintf("period_%d", p))
	}
	for p := 0; p <= c.MaxPeriod; p++ {
		t.Header = append(t.Header, fmt.Sprintf("rate_%d", p))
	}
	for _, row := range c.Retention {
		values := []any{row.Cohort.String(), row.Size}
		for _, n := range row.Active {
			values = append(values, n)
		}
		for _, r := range row.Rate {
			values = append(values, r)
		}
		t.Rows = append(t.Rows, values)
	}
	return t
}

func validationRows(r *validate.Report) [][]any {
	rows := [][]any{
		{"raw_transactions", r.RawTransactions},
		{"clean_transactions", r.CleanTransactions},
		{"incomplete_rows", r.IncompleteRows},
		{"duplicates_removed", r.DuplicatesRemoved},
		{"outliers", r.Outliers.Count},
		{"outlier_lower", r.Outliers.Lower},
		{"outlier_upper", r.Outliers.Upper},
		{"negative_quantity", r.NegativeQuantity},
		{"negative_amount", r.NegativeAmount},
		{"negative_profit", r.NegativeProfit},
		{"profit_mismatch", r.ProfitMismatch},
	}
	for _, group := range []struct {
		prefix string
		counts map[string]int
	}{
		{"null", r.NullCounts},
		{"dimension_duplicates", r.DimensionDuplicates},
		{"dimension_incomplete", r.DimensionIncomplete},
		{"field_violations", r.FieldViolations},
		{"orphan_references", r.OrphanReferences},
		{"malformed", r.MalformedCells},
	} {
		for _, k := range validate.SortedKeys(group.counts) {
			rows = append(rows, []any{group.prefix + "." + k, group.counts[k]})
		}
	}
	return rows
}
