//-------------------------------------------------------------------------
//
// pgEdge Retail Warehouse
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package features derives per-transaction attributes and per-entity
// roll-ups from cleaned transactions. Money is accumulated in decimal.
package features

import (
	"github.com/pgEdge/pgedge-retailwh/internal/logging"
	"github.com/pgEdge/pgedge-retailwh/internal/model"
	"github.com/pgEdge/pgedge-retailwh/internal/validate"
)

// Set is the output of the feature stage.
type Set struct {
	Sales     []model.Sale
	Customers []model.CustomerFeatures
	Products  []model.ProductFeatures
	Stores    []model.StoreFeatures
	Summary   Summary
}

// Build runs every feature computation over a cleaned dataset.
func Build(clean *validate.Result) *Set {
	log := logging.With("features")

	sales := Enrich(clean.Transactions)
	set := &Set{
		Sales:     sales,
		Customers: Customers(clean.Customers, sales),
		Products:  Products(clean.Products, sales),
		Stores:    Stores(clean.Stores, sales),
		Summary:   Summarize(sales, clean.Products, clean.Stores, clean.Customers),
	}

	log.Info().
		Int("sales", len(set.Sales)).
		Int("customers", len(set.Customers)).
		Int("products", len(set.Products)).
		Int("stores", len(set.Stores)).
		Msg("Built features")
	set.Summary.Log(log)

	return set
}
