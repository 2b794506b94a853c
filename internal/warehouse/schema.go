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
	"fmt"
	"strings"
)

// Column is a loaded column and its SQL type.
type Column struct {
	Name string
	Type string
}

// Index is a secondary index on one column.
type Index struct {
	Name   string
	Column string
}

// TableDef describes a warehouse table. Columns are listed in load order;
// the primary key is always the first column.
type TableDef struct {
	Name    string
	Columns []Column
	Indexes []Index

	// References maps a column to the table it points at.
	References map[string]string
}

// Key returns the primary key column.
func (t TableDef) Key() string {
	return t.Columns[0].Name
}

// ColumnNames returns the loaded column names in order.
func (t TableDef) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// CreateSQL returns the CREATE TABLE IF NOT EXISTS statement. The dialect
// is portable across PostgreSQL and SQLite.
func (t TableDef) CreateSQL() string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", t.Name)
	for i, c := range t.Columns {
		fmt.Fprintf(&b, "    %s %s", c.Name, c.Type)
		if i == 0 {
			b.WriteString(" PRIMARY KEY")
		}
		if ref, ok := t.References[c.Name]; ok {
			fmt.Fprintf(&b, " REFERENCES %s(%s)", ref, c.Name)
		}
		b.WriteString(",\n")
	}
	b.WriteString("    created_date TIMESTAMP DEFAULT CURRENT_TIMESTAMP\n)")
	return b.String()
}

// IndexSQL returns the CREATE INDEX IF NOT EXISTS statements.
func (t TableDef) IndexSQL() []string {
	stmts := make([]string, len(t.Indexes))
	for i, idx := range t.Indexes {
		stmts[i] = fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s(%s)", idx.Name, t.Name, idx.Column)
	}
	return stmts
}

var (
	// DimProducts holds products and their sales roll-up.
	DimProducts = TableDef{
		Name: "dim_products",
		Columns: []Column{
			{"product_id", "INTEGER"},
			{"product_name", "VARCHAR(100)"},
			{"category", "VARCHAR(50)"},
			{"unit_cost", "NUMERIC(12,2)"},
			{"unit_price", "NUMERIC(12,2)"},
			{"total_units_sold", "INTEGER"},
			{"total_revenue", "NUMERIC(14,2)"},
			{"total_profit", "NUMERIC(14,2)"},
			{"num_sales", "INTEGER"},
			{"avg_profit_per_sale", "NUMERIC(12,2)"},
			{"margin_pct", "NUMERIC(9,2)"},
			{"margin_category", "VARCHAR(20)"},
		},
		Indexes: []Index{{"idx_products_category", "category"}},
	}

	// DimStores holds stores and their sales roll-up.
	DimStores = TableDef{
		Name: "dim_stores",
		Columns: []Column{
			{"store_id", "INTEGER"},
			{"store_name", "VARCHAR(100)"},
			{"region", "VARCHAR(50)"},
			{"city", "VARCHAR(100)"},
			{"state", "VARCHAR(50)"},
			{"opened_date", "DATE"},
			{"total_revenue", "NUMERIC(14,2)"},
			{"total_profit", "NUMERIC(14,2)"},
			{"num_transactions", "INTEGER"},
			{"unique_customers", "INTEGER"},
			{"revenue_per_transaction", "NUMERIC(12,2)"},
			{"revenue_per_customer", "NUMERIC(12,2)"},
		},
		Indexes: []Index{{"idx_stores_region", "region"}},
	}

	// DimCustomers holds customers and their purchase history roll-up.
	DimCustomers = TableDef{
		Name: "dim_customers",
		Columns: []Column{
			{"customer_id", "INTEGER"},
			{"customer_name", "VARCHAR(100)"},
			{"email", "VARCHAR(100)"},
			{"join_date", "DATE"},
			{"customer_segment", "VARCHAR(20)"},
			{"lifetime_value", "NUMERIC(14,2)"},
			{"transaction_count", "INTEGER"},
			{"customer_tenure_days", "INTEGER"},
			{"avg_order_value", "NUMERIC(12,2)"},
		},
	}

	// DimDate is the calendar dimension.
	DimDate = TableDef{
		Name: "dim_date",
		Columns: []Column{
			{"date_key", "INTEGER"},
			{"full_date", "DATE NOT NULL UNIQUE"},
			{"year", "INTEGER"},
			{"quarter", "INTEGER"},
			{"month", "INTEGER"},
			{"month_name", "VARCHAR(20)"},
			{"week", "INTEGER"},
			{"day_of_month", "INTEGER"},
			{"day_of_week", "INTEGER"},
			{"day_name", "VARCHAR(20)"},
			{"is_weekend", "BOOLEAN"},
			{"is_holiday", "BOOLEAN DEFAULT FALSE"},
		},
	}

	// FactSales holds one enriched row per transaction.
	FactSales = TableDef{
		Name: "fact_sales",
		Columns: []Column{
			{"transaction_id", "INTEGER"},
			{"transaction_date", "DATE NOT NULL"},
			{"date_key", "INTEGER"},
			{"store_id", "INTEGER"},
			{"customer_id", "INTEGER"},
			{"product_id", "INTEGER"},
			{"quantity", "INTEGER"},
			{"unit_price", "NUMERIC(12,2)"},
			{"discount_pct", "NUMERIC(5,2)"},
			{"discount_amount", "NUMERIC(12,2)"},
			{"total_amount", "NUMERIC(12,2)"},
			{"total_cost", "NUMERIC(12,2)"},
			{"profit", "NUMERIC(12,2)"},
			{"profit_margin_pct", "NUMERIC(9,2)"},
			{"payment_method", "VARCHAR(50)"},
			{"year", "INTEGER"},
			{"month", "INTEGER"},
			{"month_name", "VARCHAR(20)"},
			{"quarter", "INTEGER"},
			{"day_of_week", "INTEGER"},
			{"day_name", "VARCHAR(20)"},
			{"week_of_year", "INTEGER"},
			{"is_weekend", "BOOLEAN"},
			{"season", "VARCHAR(20)"},
			{"discount_given", "BOOLEAN"},
			{"revenue_per_unit", "NUMERIC(12,2)"},
			{"transaction_size", "VARCHAR(20)"},
		},
		Indexes: []Index{
			{"idx_sales_date", "transaction_date"},
			{"idx_sales_store", "store_id"},
			{"idx_sales_product", "product_id"},
			{"idx_sales_customer", "customer_id"},
		},
		References: map[string]string{
			"date_key":    "dim_date",
			"store_id":    "dim_stores",
			"customer_id": "dim_customers",
			"product_id":  "dim_products",
		},
	}
)

// Tables lists every table in load order: dimensions first, facts last.
var Tables = []TableDef{DimProducts, DimStores, DimCustomers, DimDate, FactSales}

// LookupTable returns the definition of the named table.
func LookupTable(name string) (TableDef, bool) {
	for _, t := range Tables {
		if t.Name == name {
			return t, true
		}
	}
	return TableDef{}, false
}

// SchemaStatements returns the DDL creating every table and index.
func SchemaStatements() []string {
	var stmts []string
	for _, t := range Tables {
		stmts = append(stmts, t.CreateSQL())
	}
	for _, t := range Tables {
		stmts = append(stmts, t.IndexSQL()...)
	}
	return stmts
}

// DropStatements returns the DDL dropping every table, facts first.
// cascade appends CASCADE for PostgreSQL.
func DropStatements(cascade bool) []string {
	suffix := ""
	if cascade {
		suffix = " CASCADE"
	}
	stmts := make([]string, 0, len(Tables))
	for i := len(Tables) - 1; i >= 0; i-- {
		stmts = append(stmts, fmt.Sprintf("DROP TABLE IF EXISTS %s%s", Tables[i].Name, suffix))
	}
	return stmts
}
