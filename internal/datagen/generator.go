//-------------------------------------------------------------------------
//
// pgEdge Retail Warehouse
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package datagen generates synthetic retail extracts for pgedge-retailwh.
package datagen

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/pgEdge/pgedge-retailwh/internal/datagen/profiles"
	"github.com/pgEdge/pgedge-retailwh/internal/logging"
	"github.com/pgEdge/pgedge-retailwh/internal/model"
)

// Config configures the synthetic extract generator.
type Config struct {
	// Seed makes a run reproducible.
	Seed uint64 `mapstructure:"seed"`

	// Customers is the number of customers to generate.
	Customers int `mapstructure:"customers"`

	// Transactions is the number of transactions to generate.
	Transactions int `mapstructure:"transactions"`

	// StartDate and EndDate bound the transaction dates (YYYY-MM-DD).
	StartDate string `mapstructure:"start_date"`
	EndDate   string `mapstructure:"end_date"`

	// Profile names the sales calendar that weights transaction dates.
	Profile string `mapstructure:"profile"`

	// ProgressInterval is how often to log progress (in transactions).
	ProgressInterval int `mapstructure:"progress_interval"`
}

// DefaultConfig returns default generator configuration.
func DefaultConfig() Config {
	return Config{
		Seed:             42,
		Customers:        5000,
		Transactions:     50000,
		StartDate:        "2022-01-01",
		EndDate:          "2024-12-31",
		Profile:          profiles.Default,
		ProgressInterval: 10000,
	}
}

// Validate checks the counts and the date range.
func (c Config) Validate() error {
	if c.Customers < 1 {
		return fmt.Errorf("customers must be at least 1")
	}
	if c.Transactions < 0 {
		return fmt.Errorf("transactions must be non-negative")
	}
	start, end, err := c.dateRange()
	if err != nil {
		return err
	}
	if end.Before(start) {
		return fmt.Errorf("end_date %s is before start_date %s", c.EndDate, c.StartDate)
	}
	if _, err := profiles.Get(c.Profile); err != nil {
		return err
	}
	return nil
}

func (c Config) dateRange() (start, end time.Time, err error) {
	start, err = cast.ToTimeE(c.StartDate)
	if err != nil {
		return start, end, fmt.Errorf("invalid start_date: %w", err)
	}
	end, err = cast.ToTimeE(c.EndDate)
	if err != nil {
		return start, end, fmt.Errorf("invalid end_date: %w", err)
	}
	return start.UTC(), end.UTC(), nil
}

// Catalog is the product list per category, in generation order.
var Catalog = []struct {
	Category string
	Items    []string
}{
	{"Electronics", []string{"Laptop", "Smartphone", "Tablet", "Headphones", "Smart Watch", "Camera"}},
	{"Clothing", []string{"T-Shirt", "Jeans", "Jacket", "Sneakers", "Dress", "Sweater"}},
	{"Home & Garden", []string{"Coffee Maker", "Blender", "Vacuum", "Plant Pot", "Lamp", "Rug"}},
	{"Sports", []string{"Yoga Mat", "Dumbbells", "Tennis Racket", "Football", "Bicycle", "Running Shoes"}},
	{"Books", []string{"Fiction Novel", "Cookbook", "Biography", "Self-Help", "Children's Book"}},
	{"Toys", []string{"Board Game", "Puzzle", "Action Figure", "Doll", "Building Blocks"}},
	{"Food & Beverage", []string{"Coffee Beans", "Chocolate", "Tea", "Snacks", "Wine"}},
}

var (
	// Regions each get StoresPerRegion stores.
	Regions         = []string{"North", "South", "East", "West", "Central"}
	StoresPerRegion = 3

	Segments       = []string{"Regular", "Premium", "VIP"}
	PaymentMethods = []string{"Credit Card", "Debit Card", "Cash", "Digital Wallet"}

	// Four in nine transactions carry no discount.
	discountChoices = []int64{0, 0, 0, 0, 5, 10, 15, 20, 30}

	electronicsQuantities = []int64{1, 2}
	electronicsWeights    = []int{90, 10}
	quantities            = []int64{1, 2, 3, 4, 5}
	quantityWeights       = []int{50, 25, 15, 7, 3}
)

// Dataset is one generated set of extracts.
type Dataset struct {
	Products     []model.Product
	Stores       []model.Store
	Customers    []model.Customer
	Transactions []model.Transaction
}

// Generator produces a Dataset from a Config.
type Generator struct {
	cfg     Config
	faker   *Faker
	profile profiles.Profile
	start   time.Time
	end     time.Time
}

// NewGenerator validates cfg and seeds a generator.
func NewGenerator(cfg Config) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	start, end, _ := cfg.dateRange()
	profile, _ := profiles.Get(cfg.Profile)
	return &Generator{
		cfg:     cfg,
		faker:   NewFakerWithSeed(cfg.Seed),
		profile: profile,
		start:   start,
		end:     end,
	}, nil
}

// Generate builds the dimensions and then the transactions. It stops
// early if ctx is cancelled.
func (g *Generator) Generate(ctx context.Context) (*Dataset, error) {
	ds := &Dataset{
		Products:  g.products(),
		Stores:    g.stores(),
		Customers: g.customers(),
	}

	ds.Transactions = make([]model.Transaction, 0, g.cfg.Transactions)
	for i := 1; i <= g.cfg.Transactions; i++ {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		ds.Transactions = append(ds.Transactions, g.transaction(int64(i), ds))

		if g.cfg.ProgressInterval > 0 && i%g.cfg.ProgressInterval == 0 {
			logging.Info().
				Int("rows", i).
				Int("total", g.cfg.Transactions).
				Msg("Generating transactions")
		}
	}

	logging.Info().
		Int("products", len(ds.Products)).
		Int("stores", len(ds.Stores)).
		Int("customers", len(ds.Customers)).
		Int("transactions", len(ds.Transactions)).
		Msg("Generated dataset")

	return ds, nil
}

func (g *Generator) products() []model.Product {
	var products []model.Product
	id := int64(1)
	for _, c := range Catalog {
		for _, item := range c.Items {
			cost := g.faker.Money(5, 500)
			markup := decimal.NewFromFloat(g.faker.Float64(1.3, 2.5))
			products = append(products, model.Product{
				ProductID:   id,
				ProductName: item,
				Category:    c.Category,
				UnitCost:    cost.InexactFloat64(),
				UnitPrice:   cost.Mul(markup).Round(2).InexactFloat64(),
			})
			id++
		}
	}
	return products
}

func (g *Generator) stores() []model.Store {
	var stores []model.Store
	for _, region := range Regions {
		for i := 1; i <= StoresPerRegion; i++ {
			opened := g.start.AddDate(0, 0, -g.faker.Int(365, 1825))
			stores = append(stores, model.Store{
				StoreID:    int64(len(stores) + 1),
				StoreName:  fmt.Sprintf("Store_%s_%d", region, i),
				Region:     region,
				City:       fmt.Sprintf("City_%s_%d", region, g.faker.Int(1, 3)),
				State:      region,
				OpenedDate: &opened,
			})
		}
	}
	return stores
}

func (g *Generator) customers() []model.Customer {
	customers := make([]model.Customer, g.cfg.Customers)
	for i := range customers {
		id := int64(i + 1)
		joined := g.start.AddDate(0, 0, g.faker.Int(0, 1095))
		customers[i] = model.Customer{
			CustomerID:      id,
			CustomerName:    fmt.Sprintf("Customer_%d", id),
			Email:           fmt.Sprintf("customer%d@email.com", id),
			JoinDate:        &joined,
			CustomerSegment: Choose(g.faker, Segments),
		}
	}
	return customers
}

func (g *Generator) transaction(id int64, ds *Dataset) model.Transaction {
	day := g.saleDay()
	product := Choose(g.faker, ds.Products)
	store := Choose(g.faker, ds.Stores)
	customer := Choose(g.faker, ds.Customers)

	var q int64
	if product.Category == "Electronics" {
		q = ChooseWeighted(g.faker, electronicsQuantities, electronicsWeights)
	} else {
		q = ChooseWeighted(g.faker, quantities, quantityWeights)
	}
	pct := Choose(g.faker, discountChoices)

	qty := decimal.NewFromInt(q)
	gross := decimal.NewFromFloat(product.UnitPrice).Mul(qty)
	discount := gross.Mul(decimal.NewFromInt(pct)).Div(decimal.NewFromInt(100)).Round(2)
	total := gross.Sub(discount).Round(2)
	cost := decimal.NewFromFloat(product.UnitCost).Mul(qty).Round(2)

	return model.Transaction{
		TransactionID:   id,
		TransactionDate: day,
		StoreID:         store.StoreID,
		CustomerID:      customer.CustomerID,
		ProductID:       product.ProductID,
		Quantity:        q,
		UnitPrice:       product.UnitPrice,
		DiscountPct:     float64(pct),
		DiscountAmount:  discount.InexactFloat64(),
		TotalAmount:     total.InexactFloat64(),
		TotalCost:       cost.InexactFloat64(),
		Profit:          total.Sub(cost).InexactFloat64(),
		PaymentMethod:   Choose(g.faker, PaymentMethods),
	}
}

// saleDay draws a transaction date weighted by the sales profile.
func (g *Generator) saleDay() time.Time {
	peak := g.profile.Peak()
	for {
		day := g.faker.Day(g.start, g.end)
		if g.faker.Float64(0, peak) <= g.profile.Weight(day) {
			return day
		}
	}
}
