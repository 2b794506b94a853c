//-------------------------------------------------------------------------
//
// pgEdge Retail Warehouse
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package validate

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgEdge/pgedge-retailwh/internal/model"
)

func ptr[T any](v T) *T { return &v }

func rawTx(id int64, amount, cost, profit float64) model.RawTransaction {
	return model.RawTransaction{
		TransactionID:   ptr(id),
		TransactionDate: ptr(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)),
		StoreID:         ptr(int64(1)),
		CustomerID:      ptr(int64(1)),
		ProductID:       ptr(int64(1)),
		Quantity:        ptr(int64(1)),
		UnitPrice:       ptr(amount),
		TotalAmount:     ptr(amount),
		TotalCost:       ptr(cost),
		Profit:          ptr(profit),
		PaymentMethod:   ptr("Cash"),
	}
}

func dataset(txs ...model.RawTransaction) *model.RawDataset {
	return &model.RawDataset{
		Products: []model.RawProduct{{
			ProductID: ptr(int64(1)), ProductName: ptr("Laptop"), Category: ptr("Electronics"),
			UnitCost: ptr(300.0), UnitPrice: ptr(450.0),
		}},
		Stores: []model.RawStore{{
			StoreID: ptr(int64(1)), StoreName: ptr("Store_North_1"), Region: ptr("North"),
		}},
		Customers: []model.RawCustomer{{
			CustomerID: ptr(int64(1)), CustomerName: ptr("Customer_1"),
			Email: ptr("customer1@email.com"), CustomerSegment: ptr("VIP"),
		}},
		Transactions: txs,
	}
}

func TestCleanDefaultsDiscounts(t *testing.T) {
	res := New().Clean(dataset(rawTx(1, 100, 60, 40)))

	require.Len(t, res.Transactions, 1)
	tx := res.Transactions[0]
	assert.Equal(t, 0.0, tx.DiscountPct)
	assert.Equal(t, 0.0, tx.DiscountAmount)
	assert.Equal(t, 1, res.Report.NullCounts["discount_pct"])
	assert.Equal(t, 1, res.Report.NullCounts["discount_amount"])
	assert.Equal(t, 0, res.Report.IncompleteRows)
}

func TestCleanExcludesIncompleteRows(t *testing.T) {
	missingDate := rawTx(2, 50, 20, 30)
	missingDate.TransactionDate = nil
	missingAmount := rawTx(3, 50, 20, 30)
	missingAmount.TotalAmount = nil

	res := New().Clean(dataset(rawTx(1, 100, 60, 40), missingDate, missingAmount))

	assert.Len(t, res.Transactions, 1)
	assert.Equal(t, 2, res.Report.IncompleteRows)
	assert.Equal(t, 1, res.Report.NullCounts["transaction_date"])
	assert.Equal(t, 1, res.Report.NullCounts["total_amount"])
	assert.Equal(t, 3, res.Report.RawTransactions)
	assert.Equal(t, 1, res.Report.CleanTransactions)
}

func TestDedupFirstWinsAndIdempotent(t *testing.T) {
	first := rawTx(1, 100, 60, 40)
	second := rawTx(1, 999, 60, 939)

	res := New().Clean(dataset(first, second, rawTx(2, 10, 5, 5)))
	require.Len(t, res.Transactions, 2)
	assert.Equal(t, 1, res.Report.DuplicatesRemoved)
	assert.Equal(t, 100.0, res.Transactions[0].TotalAmount)

	again, removed := DedupTransactions(res.Transactions)
	assert.Equal(t, 0, removed)
	assert.Equal(t, res.Transactions, again)
}

func TestBusinessRules(t *testing.T) {
	negQty := rawTx(3, 20, 10, 10)
	negQty.Quantity = ptr(int64(-1))

	res := New().Clean(dataset(
		rawTx(1, 100, 60, 40),
		rawTx(2, 100, 60, 45),    // mismatch
		rawTx(4, -10, 5, -15),    // negative amount and profit
		rawTx(5, 100, 60, 40.01), // within tolerance
		negQty,
	))

	rep := res.Report
	assert.Equal(t, 1, rep.ProfitMismatch)
	assert.Equal(t, 1, rep.NegativeAmount)
	assert.Equal(t, 1, rep.NegativeProfit)
	assert.Equal(t, 1, rep.NegativeQuantity)
	assert.Len(t, res.Transactions, 5, "defects are never removed")
}

func TestOutliersReportedNotRemoved(t *testing.T) {
	var txs []model.RawTransaction
	for i, amount := range []float64{10, 12, 11, 13, 12, 11, 1000} {
		txs = append(txs, rawTx(int64(i+1), amount, 0, amount))
	}

	res := New().Clean(dataset(txs...))
	assert.Equal(t, 1, res.Report.Outliers.Count)
	assert.InDelta(t, 8.75, res.Report.Outliers.Lower, 1e-9)
	assert.InDelta(t, 14.75, res.Report.Outliers.Upper, 1e-9)
	assert.Len(t, res.Transactions, 7)
}

func TestDimensionChecks(t *testing.T) {
	ds := dataset(rawTx(1, 100, 60, 40))
	ds.Products = append(ds.Products,
		model.RawProduct{ProductID: ptr(int64(1)), ProductName: ptr("Dup")},
		model.RawProduct{ProductName: ptr("No id")},
		model.RawProduct{ProductID: ptr(int64(2)), Category: ptr("Books"), UnitPrice: ptr(-1.0)},
	)
	ds.Customers[0].Email = ptr("not-an-email")

	res := New().Clean(ds)
	rep := res.Report

	assert.Len(t, res.Products, 2)
	assert.Equal(t, 1, rep.DimensionDuplicates["dim_products"])
	assert.Equal(t, 1, rep.DimensionIncomplete["dim_products"])
	assert.Equal(t, 1, rep.FieldViolations["dim_products.product_name"])
	assert.Equal(t, 1, rep.FieldViolations["dim_products.unit_price"])
	assert.Equal(t, 1, rep.FieldViolations["dim_customers.email"])
}

func TestOrphanReferences(t *testing.T) {
	orphan := rawTx(2, 10, 5, 5)
	orphan.StoreID = ptr(int64(99))

	res := New().Clean(dataset(rawTx(1, 100, 60, 40), orphan))
	assert.Equal(t, 1, res.Report.OrphanReferences["store_id"])
	assert.Equal(t, 0, res.Report.OrphanReferences["product_id"])
}

func TestPolicyCheck(t *testing.T) {
	rep := newReport()
	rep.ProfitMismatch = 2
	rep.IncompleteRows = 1

	assert.NoError(t, rep.Check(Policy{}), "default policy blocks nothing")

	err := rep.Check(Policy{FailOnProfitMismatch: true, FailOnIncomplete: true})
	require.Error(t, err)

	var defect *DefectError
	require.True(t, errors.As(err, &defect))
	assert.Len(t, defect.Defects, 2)
	assert.Contains(t, err.Error(), "2 profit mismatches")

	assert.NoError(t, rep.Check(Policy{FailOnOrphans: true}))
}

func TestSnakeCase(t *testing.T) {
	tests := map[string]string{
		"ProductID":       "product_id",
		"UnitCost":        "unit_cost",
		"Email":           "email",
		"CustomerSegment": "customer_segment",
	}
	for in, want := range tests {
		assert.Equal(t, want, snakeCase(in))
	}
}
