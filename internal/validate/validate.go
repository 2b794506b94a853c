//-------------------------------------------------------------------------
//
// pgEdge Retail Warehouse
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package validate cleans raw extracts and reports data quality defects.
package validate

import (
	"errors"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pgEdge/pgedge-retailwh/internal/model"
	"github.com/pgEdge/pgedge-retailwh/internal/stats"
)

// ProfitTolerance is the allowed gap between profit and total_amount - total_cost.
const ProfitTolerance = 0.01

// Result is the cleaned dataset and its report.
type Result struct {
	Transactions []model.Transaction
	Products     []model.Product
	Stores       []model.Store
	Customers    []model.Customer
	Report       Report
}

// Validator cleans raw datasets. It is safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator whose field violations are keyed by snake_case
// column names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return snakeCase(fld.Name)
	})
	return &Validator{v: v}
}

// Clean types, deduplicates and checks raw. Input defects are counted in the
// report; only rows that cannot be typed are left out.
func (v *Validator) Clean(raw *model.RawDataset) *Result {
	res := &Result{Report: newReport()}
	rep := &res.Report

	for k, n := range raw.Malformed {
		rep.MalformedCells[k] = n
	}

	res.Products = v.products(raw.Products, rep)
	res.Stores = v.stores(raw.Stores, rep)
	res.Customers = v.customers(raw.Customers, rep)

	txs := typeTransactions(raw.Transactions, rep)
	txs, rep.DuplicatesRemoved = DedupTransactions(txs)
	res.Transactions = txs

	rep.RawTransactions = len(raw.Transactions)
	rep.CleanTransactions = len(txs)

	checkBusinessRules(txs, rep)
	checkOrphans(txs, res, rep)

	return res
}

// DedupTransactions keeps the first occurrence of each transaction id and
// returns the number of rows removed.
func DedupTransactions(txs []model.Transaction) ([]model.Transaction, int) {
	seen := make(map[int64]struct{}, len(txs))
	out := make([]model.Transaction, 0, len(txs))
	for _, tx := range txs {
		if _, dup := seen[tx.TransactionID]; dup {
			continue
		}
		seen[tx.TransactionID] = struct{}{}
		out = append(out, tx)
	}
	return out, len(txs) - len(out)
}

func typeTransactions(raw []model.RawTransaction, rep *Report) []model.Transaction {
	out := make([]model.Transaction, 0, len(raw))

	for _, r := range raw {
		countNulls(r, rep.NullCounts)

		if r.TransactionID == nil || r.TransactionDate == nil || r.ProductID == nil ||
			r.StoreID == nil || r.CustomerID == nil || r.TotalAmount == nil {
			rep.IncompleteRows++
			continue
		}

		out = append(out, model.Transaction{
			TransactionID:   *r.TransactionID,
			TransactionDate: *r.TransactionDate,
			StoreID:         *r.StoreID,
			CustomerID:      *r.CustomerID,
			ProductID:       *r.ProductID,
			Quantity:        deref(r.Quantity),
			UnitPrice:       deref(r.UnitPrice),
			DiscountPct:     deref(r.DiscountPct),
			DiscountAmount:  deref(r.DiscountAmount),
			TotalAmount:     *r.TotalAmount,
			TotalCost:       deref(r.TotalCost),
			Profit:          deref(r.Profit),
			PaymentMethod:   deref(r.PaymentMethod),
		})
	}
	return out
}

func countNulls(r model.RawTransaction, counts map[string]int) {
	nulls := map[string]bool{
		"transaction_id":   r.TransactionID == nil,
		"transaction_date": r.TransactionDate == nil,
		"store_id":         r.StoreID == nil,
		"customer_id":      r.CustomerID == nil,
		"product_id":       r.ProductID == nil,
		"quantity":         r.Quantity == nil,
		"unit_price":       r.UnitPrice == nil,
		"discount_pct":     r.DiscountPct == nil,
		"discount_amount":  r.DiscountAmount == nil,
		"total_amount":     r.TotalAmount == nil,
		"total_cost":       r.TotalCost == nil,
		"profit":           r.Profit == nil,
		"payment_method":   r.PaymentMethod == nil,
	}
	for col, isNull := range nulls {
		if isNull {
			counts[col]++
		}
	}
}

func checkBusinessRules(txs []model.Transaction, rep *Report) {
	amounts := make([]float64, 0, len(txs))
	for _, tx := range txs {
		amounts = append(amounts, tx.TotalAmount)

		if tx.Quantity < 0 {
			rep.NegativeQuantity++
		}
		if tx.TotalAmount < 0 {
			rep.NegativeAmount++
		}
		if tx.Profit < 0 {
			rep.NegativeProfit++
		}
		if math.Abs(tx.Profit-(tx.TotalAmount-tx.TotalCost)) > ProfitTolerance+1e-9 {
			rep.ProfitMismatch++
		}
	}

	if len(amounts) == 0 {
		return
	}

	fence := stats.IQRFence(amounts)
	rep.Outliers.Lower = fence.Lower
	rep.Outliers.Upper = fence.Upper
	for _, a := range amounts {
		if !fence.Contains(a) {
			rep.Outliers.Count++
		}
	}
}

func checkOrphans(txs []model.Transaction, res *Result, rep *Report) {
	products := make(map[int64]struct{}, len(res.Products))
	for _, p := range res.Products {
		products[p.ProductID] = struct{}{}
	}
	stores := make(map[int64]struct{}, len(res.Stores))
	for _, s := range res.Stores {
		stores[s.StoreID] = struct{}{}
	}
	customers := make(map[int64]struct{}, len(res.Customers))
	for _, c := range res.Customers {
		customers[c.CustomerID] = struct{}{}
	}

	for _, tx := range txs {
		if _, ok := products[tx.ProductID]; !ok {
			rep.OrphanReferences["product_id"]++
		}
		if _, ok := stores[tx.StoreID]; !ok {
			rep.OrphanReferences["store_id"]++
		}
		if _, ok := customers[tx.CustomerID]; !ok {
			rep.OrphanReferences["customer_id"]++
		}
	}
}

func (v *Validator) products(raw []model.RawProduct, rep *Report) []model.Product {
	seen := make(map[int64]struct{}, len(raw))
	out := make([]model.Product, 0, len(raw))
	for _, r := range raw {
		if r.ProductID == nil {
			rep.DimensionIncomplete["dim_products"]++
			continue
		}
		if _, dup := seen[*r.ProductID]; dup {
			rep.DimensionDuplicates["dim_products"]++
			continue
		}
		seen[*r.ProductID] = struct{}{}

		p := model.Product{
			ProductID:   *r.ProductID,
			ProductName: deref(r.ProductName),
			Category:    deref(r.Category),
			UnitCost:    deref(r.UnitCost),
			UnitPrice:   deref(r.UnitPrice),
		}
		v.check("dim_products", p, rep)
		out = append(out, p)
	}
	return out
}

func (v *Validator) stores(raw []model.RawStore, rep *Report) []model.Store {
	seen := make(map[int64]struct{}, len(raw))
	out := make([]model.Store, 0, len(raw))
	for _, r := range raw {
		if r.StoreID == nil {
			rep.DimensionIncomplete["dim_stores"]++
			continue
		}
		if _, dup := seen[*r.StoreID]; dup {
			rep.DimensionDuplicates["dim_stores"]++
			continue
		}
		seen[*r.StoreID] = struct{}{}

		s := model.Store{
			StoreID:    *r.StoreID,
			StoreName:  deref(r.StoreName),
			Region:     deref(r.Region),
			City:       deref(r.City),
			State:      deref(r.State),
			OpenedDate: r.OpenedDate,
		}
		v.check("dim_stores", s, rep)
		out = append(out, s)
	}
	return out
}

func (v *Validator) customers(raw []model.RawCustomer, rep *Report) []model.Customer {
	seen := make(map[int64]struct{}, len(raw))
	out := make([]model.Customer, 0, len(raw))
	for _, r := range raw {
		if r.CustomerID == nil {
			rep.DimensionIncomplete["dim_customers"]++
			continue
		}
		if _, dup := seen[*r.CustomerID]; dup {
			rep.DimensionDuplicates["dim_customers"]++
			continue
		}
		seen[*r.CustomerID] = struct{}{}

		c := model.Customer{
			CustomerID:      *r.CustomerID,
			CustomerName:    deref(r.CustomerName),
			Email:           deref(r.Email),
			JoinDate:        r.JoinDate,
			CustomerSegment: deref(r.CustomerSegment),
		}
		v.check("dim_customers", c, rep)
		out = append(out, c)
	}
	return out
}

// check counts struct tag violations of rec under "table.field".
func (v *Validator) check(table string, rec any, rep *Report) {
	err := v.v.Struct(rec)
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		rep.FieldViolations[table]++
		return
	}
	for _, fe := range verrs {
		rep.FieldViolations[table+"."+fe.Field()]++
	}
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(s[i-1] >= 'A' && s[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
