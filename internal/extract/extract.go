//-------------------------------------------------------------------------
//
// pgEdge Retail Warehouse
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package extract reads the four retail CSV extracts into raw records.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/pgEdge/pgedge-retailwh/internal/logging"
	"github.com/pgEdge/pgedge-retailwh/internal/model"
)

// Required columns per extract. Additional columns are ignored.
var (
	ProductColumns = []string{
		"product_id", "product_name", "category", "unit_cost", "unit_price",
	}
	StoreColumns = []string{
		"store_id", "store_name", "region", "city", "state", "opened_date",
	}
	CustomerColumns = []string{
		"customer_id", "customer_name", "email", "join_date", "customer_segment",
	}
	TransactionColumns = []string{
		"transaction_id", "transaction_date", "store_id", "customer_id",
		"product_id", "quantity", "unit_price", "discount_pct",
		"discount_amount", "total_amount", "total_cost", "profit",
		"payment_method",
	}
)

// Files names the extract files inside an input directory.
type Files struct {
	Products     string `mapstructure:"products"`
	Stores       string `mapstructure:"stores"`
	Customers    string `mapstructure:"customers"`
	Transactions string `mapstructure:"transactions"`
}

// DefaultFiles returns the file names written by the generator.
func DefaultFiles() Files {
	return Files{
		Products:     "products.csv",
		Stores:       "stores.csv",
		Customers:    "customers.csv",
		Transactions: "transactions.csv",
	}
}

// ReadAll reads the four extracts from dir concurrently. Any missing file or
// bad header aborts the whole read.
func ReadAll(ctx context.Context, dir string, files Files) (*model.RawDataset, error) {
	log := logging.With("extract")
	ds := &model.RawDataset{}

	var pm, sm, cm, tm Malformed
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		ds.Products, pm, err = readFile(ctx, dir, files.Products, ReadProducts)
		return err
	})
	g.Go(func() error {
		var err error
		ds.Stores, sm, err = readFile(ctx, dir, files.Stores, ReadStores)
		return err
	})
	g.Go(func() error {
		var err error
		ds.Customers, cm, err = readFile(ctx, dir, files.Customers, ReadCustomers)
		return err
	})
	g.Go(func() error {
		var err error
		ds.Transactions, tm, err = readFile(ctx, dir, files.Transactions, ReadTransactions)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	malformed := make(Malformed)
	for _, m := range []Malformed{pm, sm, cm, tm} {
		malformed.merge(m)
	}
	ds.Malformed = malformed

	log.Info().
		Str("dir", dir).
		Int("products", len(ds.Products)).
		Int("stores", len(ds.Stores)).
		Int("customers", len(ds.Customers)).
		Int("transactions", len(ds.Transactions)).
		Msg("Read extracts")

	for key, n := range malformed {
		log.Warn().Str("column", key).Int("cells", n).Msg("Unparsable cells treated as null")
	}

	return ds, nil
}

func readFile[T any](ctx context.Context, dir, name string,
	read func(io.Reader) ([]T, Malformed, error)) ([]T, Malformed, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	path := filepath.Join(dir, name)
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open extract %s: %w", path, err)
	}
	defer f.Close()

	rows, malformed, err := read(f)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read extract %s: %w", path, err)
	}
	return rows, malformed, nil
}

// ReadProducts parses a products extract.
func ReadProducts(r io.Reader) ([]model.RawProduct, Malformed, error) {
	t, err := openTable("products", r, ProductColumns)
	if err != nil {
		return nil, nil, err
	}

	var out []model.RawProduct
	for {
		rec, err := t.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		out = append(out, model.RawProduct{
			ProductID:   rec.int("product_id"),
			ProductName: rec.str("product_name"),
			Category:    rec.str("category"),
			UnitCost:    rec.float("unit_cost"),
			UnitPrice:   rec.float("unit_price"),
		})
	}
	return out, t.malformed, nil
}

// ReadStores parses a stores extract.
func ReadStores(r io.Reader) ([]model.RawStore, Malformed, error) {
	t, err := openTable("stores", r, StoreColumns)
	if err != nil {
		return nil, nil, err
	}

	var out []model.RawStore
	for {
		rec, err := t.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		out = append(out, model.RawStore{
			StoreID:    rec.int("store_id"),
			StoreName:  rec.str("store_name"),
			Region:     rec.str("region"),
			City:       rec.str("city"),
			State:      rec.str("state"),
			OpenedDate: rec.time("opened_date"),
		})
	}
	return out, t.malformed, nil
}

// ReadCustomers parses a customers extract.
func ReadCustomers(r io.Reader) ([]model.RawCustomer, Malformed, error) {
	t, err := openTable("customers", r, CustomerColumns)
	if err != nil {
		return nil, nil, err
	}

	var out []model.RawCustomer
	for {
		rec, err := t.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		out = append(out, model.RawCustomer{
			CustomerID:      rec.int("customer_id"),
			CustomerName:    rec.str("customer_name"),
			Email:           rec.str("email"),
			JoinDate:        rec.time("join_date"),
			CustomerSegment: rec.str("customer_segment"),
		})
	}
	return out, t.malformed, nil
}

// ReadTransactions parses a transactions extract.
func ReadTransactions(r io.Reader) ([]model.RawTransaction, Malformed, error) {
	t, err := openTable("transactions", r, TransactionColumns)
	if err != nil {
		return nil, nil, err
	}

	var out []model.RawTransaction
	for {
		rec, err := t.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		out = append(out, model.RawTransaction{
			TransactionID:   rec.int("transaction_id"),
			TransactionDate: rec.time("transaction_date"),
			StoreID:         rec.int("store_id"),
			CustomerID:      rec.int("customer_id"),
			ProductID:       rec.int("product_id"),
			Quantity:        rec.int("quantity"),
			UnitPrice:       rec.float("unit_price"),
			DiscountPct:     rec.float("discount_pct"),
			DiscountAmount:  rec.float("discount_amount"),
			TotalAmount:     rec.float("total_amount"),
			TotalCost:       rec.float("total_cost"),
			Profit:          rec.float("profit"),
			PaymentMethod:   rec.str("payment_method"),
		})
	}
	return out, t.malformed, nil
}
