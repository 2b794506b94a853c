//-------------------------------------------------------------------------
//
// pgEdge Retail Warehouse
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-retailwh/internal/logging"
	"github.com/pgEdge/pgedge-retailwh/internal/pipeline"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the extracts without loading them",
	Long: `Read and clean the four extracts, then log the data quality report:
null and malformed cells, duplicates, outliers, business rule violations
and orphan references. The command fails when the configured validation
policy blocks the report.

Example:
  pgedge-retailwh validate --input ./extracts`,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	if err := cfg.ValidateCheck(); err != nil {
		return err
	}

	clean, err := pipeline.Validate(context.Background(), cfg.Input.Dir, cfg.Input.Files, cfg.Validation)
	if err != nil {
		return err
	}

	logging.Info().
		Int("transactions", len(clean.Transactions)).
		Int("products", len(clean.Products)).
		Int("stores", len(clean.Stores)).
		Int("customers", len(clean.Customers)).
		Msg("Extracts passed validation")
	return nil
}
