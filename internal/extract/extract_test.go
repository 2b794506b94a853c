//-------------------------------------------------------------------------
//
// pgEdge Retail Warehouse
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package extract

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const transactionsCSV = `transaction_id,transaction_date,store_id,customer_id,product_id,quantity,unit_price,discount_pct,discount_amount,total_amount,total_cost,profit,payment_method,year
1,2024-01-15,3,7,12,2,50.00,,,100.00,60.00,40.00,Cash,2024
2,2024-01-16 00:00:00,3,7,12,3.0,10,5,1.5,28.5,20,8.5,Credit Card,2024
3,,3,7,12,abc,10,0,0,10,5,5,Cash,2024
`

func TestReadTransactions(t *testing.T) {
	rows, malformed, err := ReadTransactions(strings.NewReader(transactionsCSV))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	first := rows[0]
	require.NotNil(t, first.TransactionID)
	assert.Equal(t, int64(1), *first.TransactionID)
	require.NotNil(t, first.TransactionDate)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), *first.TransactionDate)
	assert.Nil(t, first.DiscountPct)
	assert.Nil(t, first.DiscountAmount)
	assert.Equal(t, 100.0, *first.TotalAmount)
	assert.Equal(t, "Cash", *first.PaymentMethod)

	second := rows[1]
	assert.Equal(t, int64(3), *second.Quantity)
	assert.Equal(t, 5.0, *second.DiscountPct)
	assert.Equal(t, 16, second.TransactionDate.Day())

	third := rows[2]
	assert.Nil(t, third.TransactionDate)
	assert.Nil(t, third.Quantity)
	assert.Equal(t, 1, malformed["transactions.quantity"])
}

func TestReadTransactionsShortRow(t *testing.T) {
	body := `transaction_id,transaction_date,store_id,customer_id,product_id,quantity,unit_price,discount_pct,discount_amount,total_amount,total_cost,profit,payment_method
1,2024-01-15,3,7,12,2,50.00,0,0,100.00,60.00,40.00,Cash
2,2024-01-16,3,7,12,1,50.00,0,0,50.00,30.00,20.00
3,2024-01-17,3,7,12,1,50.00,0,0,50.00,30.00,20.00,Debit Card
`
	rows, malformed, err := ReadTransactions(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Nil(t, rows[1].PaymentMethod)
	assert.Equal(t, 20.0, *rows[1].Profit)
	assert.Equal(t, "Debit Card", *rows[2].PaymentMethod)
	assert.Equal(t, 1, malformed["transactions."+ShortRowKey])
}

func TestReadMissingColumn(t *testing.T) {
	_, _, err := ReadProducts(strings.NewReader("product_id,product_name,category,unit_cost\n1,Laptop,Electronics,10\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "unit_price")
}

func TestReadEmptyExtract(t *testing.T) {
	_, _, err := ReadStores(strings.NewReader(""))
	assert.Error(t, err)
}

func TestReadAll(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}

	write("products.csv", "product_id,product_name,category,unit_cost,unit_price\n12,Laptop,Electronics,300,450\n")
	write("stores.csv", "store_id,store_name,region,city,state,opened_date\n3,Store_North_1,North,City_North_1,North,2019-05-01\n")
	write("customers.csv", "customer_id,customer_name,email,join_date,customer_segment\n7,Customer_7,customer7@email.com,2022-03-04,VIP\n")
	write("transactions.csv", transactionsCSV)

	ds, err := ReadAll(context.Background(), dir, DefaultFiles())
	require.NoError(t, err)

	assert.Len(t, ds.Products, 1)
	assert.Len(t, ds.Stores, 1)
	assert.Len(t, ds.Customers, 1)
	assert.Len(t, ds.Transactions, 3)
	assert.Equal(t, "VIP", *ds.Customers[0].CustomerSegment)
	assert.Equal(t, 1, ds.Malformed["transactions.quantity"])
}

func TestReadAllMissingFile(t *testing.T) {
	_, err := ReadAll(context.Background(), t.TempDir(), DefaultFiles())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open extract")
}
