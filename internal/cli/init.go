//-------------------------------------------------------------------------
//
// pgEdge Retail Warehouse
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-retailwh/internal/logging"
	"github.com/pgEdge/pgedge-retailwh/internal/pipeline"
	"github.com/pgEdge/pgedge-retailwh/internal/warehouse"
)

var initDropExisting bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the warehouse schema",
	Long: `Create the star schema (dim_products, dim_stores, dim_customers,
dim_date and fact_sales) and its indexes in the warehouse. Existing tables
are left in place unless --drop-existing is given.

Example:
  pgedge-retailwh init --connection "postgres://..."
  pgedge-retailwh init --connection sqlite:///tmp/warehouse.db --drop-existing`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initDropExisting, "drop-existing", false,
		"drop existing schema before initialization")
}

func runInit(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if initDropExisting {
		cfg.Load.DropExisting = true
	}

	// Validate configuration
	if err := cfg.ValidateInit(); err != nil {
		return err
	}

	ctx := context.Background()
	store, err := warehouse.Open(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to open warehouse: %w", err)
	}
	defer store.Close()

	// Report an earlier initialization
	existing, err := store.Metadata(ctx)
	if err != nil {
		return fmt.Errorf("failed to read metadata: %w", err)
	}
	if at := existing[pipeline.MetaInitializedAt]; at != "" {
		if cfg.Load.DropExisting {
			logging.Warn().
				Str("initialized_at", at).
				Msg("Dropping existing warehouse")
		} else {
			logging.Info().
				Str("initialized_at", at).
				Str("version", existing[pipeline.MetaVersion]).
				Msg("Warehouse already initialized; creating missing tables only")
		}
	}

	logging.Info().Msg("Creating schema")
	if err := pipeline.Init(ctx, store, cfg.Load.DropExisting); err != nil {
		return err
	}

	logging.Info().
		Int("tables", len(warehouse.Tables)).
		Msg("Warehouse initialization complete")

	return nil
}
