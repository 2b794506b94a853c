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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-retailwh/internal/datagen"
	"github.com/pgEdge/pgedge-retailwh/internal/logging"
)

var (
	genOutputDir    string
	genSeed         uint64
	genCustomers    int
	genTransactions int
	genStartDate    string
	genEndDate      string
	genProfile      string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write synthetic retail extracts",
	Long: `Generate a synthetic product catalog, stores, customers and
transactions, and write them as the four CSV extracts the pipeline reads.
A sales calendar profile weights the transaction dates; the default,
holiday-peak, gives November and December half again the volume of other
months. Output is deterministic for a given seed.

Example:
  pgedge-retailwh generate --output ./extracts --transactions 100000
  pgedge-retailwh generate --seed 7 --start-date 2023-01-01 --end-date 2023-12-31
  pgedge-retailwh generate --profile weekend-retail`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&genOutputDir, "output", "",
		"directory for the generated extracts (default: .)")
	generateCmd.Flags().Uint64Var(&genSeed, "seed", 0,
		"random seed (default: 42)")
	generateCmd.Flags().IntVar(&genCustomers, "customers", 0,
		"number of customers (default: 5000)")
	generateCmd.Flags().IntVar(&genTransactions, "transactions", 0,
		"number of transactions (default: 50000)")
	generateCmd.Flags().StringVar(&genStartDate, "start-date", "",
		"first transaction date, YYYY-MM-DD")
	generateCmd.Flags().StringVar(&genEndDate, "end-date", "",
		"last transaction date, YYYY-MM-DD")
	generateCmd.Flags().StringVar(&genProfile, "profile", "",
		"sales calendar profile: flat, holiday-peak, weekend-retail")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if genOutputDir != "" {
		cfg.Generate.OutputDir = genOutputDir
	}
	if genSeed > 0 {
		cfg.Generate.Seed = genSeed
	}
	if genCustomers > 0 {
		cfg.Generate.Customers = genCustomers
	}
	if genTransactions > 0 {
		cfg.Generate.Transactions = genTransactions
	}
	if genStartDate != "" {
		cfg.Generate.StartDate = genStartDate
	}
	if genEndDate != "" {
		cfg.Generate.EndDate = genEndDate
	}
	if genProfile != "" {
		cfg.Generate.Profile = genProfile
	}

	// Validate configuration
	if err := cfg.ValidateGenerate(); err != nil {
		return err
	}

	logging.Info().
		Uint64("seed", cfg.Generate.Seed).
		Int("customers", cfg.Generate.Customers).
		Int("transactions", cfg.Generate.Transactions).
		Str("start_date", cfg.Generate.StartDate).
		Str("end_date", cfg.Generate.EndDate).
		Str("profile", cfg.Generate.Profile).
		Msg("Generating extracts")

	gen, err := datagen.NewGenerator(cfg.Generate.Config)
	if err != nil {
		return err
	}

	ds, err := gen.Generate(context.Background())
	if err != nil {
		return fmt.Errorf("failed to generate data: %w", err)
	}

	paths, err := datagen.Write(cfg.Generate.OutputDir, cfg.Input.Files, ds)
	if err != nil {
		return err
	}

	logging.Info().
		Str("output_dir", cfg.Generate.OutputDir).
		Int("files", len(paths)).
		Msg("Extract generation complete")
	return nil
}
