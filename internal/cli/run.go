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
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-retailwh/internal/logging"
	"github.com/pgEdge/pgedge-retailwh/internal/pipeline"
	"github.com/pgEdge/pgedge-retailwh/internal/warehouse"
)

var (
	runBatchSize       int
	runDropExisting    bool
	runSkipFacts       bool
	runExportDir       string
	runWorkbook        string
	runMetricsTextfile string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline and load the warehouse",
	Long: `Run every stage against the extracts in the input directory:
validate, build features, score RFM segments and cohorts, synthesize the
date dimension, then load dimensions and facts into the warehouse.

Each batch is one transaction. A failed batch is rolled back and reported
while the remaining batches continue; facts are not loaded when any
dimension batch failed. Interrupting with Ctrl+C stops the load after the
current batch.

Example:
  pgedge-retailwh run --input ./extracts --connection "postgres://..."
  pgedge-retailwh run --connection sqlite:///tmp/wh.db --export-dir ./out --workbook ./out/features.xlsx`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().IntVar(&runBatchSize, "batch-size", 0,
		"rows per load transaction (default: 1000)")
	runCmd.Flags().BoolVar(&runDropExisting, "drop-existing", false,
		"drop existing schema before loading")
	runCmd.Flags().BoolVar(&runSkipFacts, "skip-facts", false,
		"load the dimensions only")
	runCmd.Flags().StringVar(&runExportDir, "export-dir", "",
		"directory for the exported feature CSV files")
	runCmd.Flags().StringVar(&runWorkbook, "workbook", "",
		"path of the exported xlsx workbook")
	runCmd.Flags().StringVar(&runMetricsTextfile, "metrics-textfile", "",
		"write load metrics in Prometheus text format to this file")
}

func runRun(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if runBatchSize > 0 {
		cfg.Load.BatchSize = runBatchSize
	}
	if runDropExisting {
		cfg.Load.DropExisting = true
	}
	if runSkipFacts {
		cfg.Load.SkipFacts = true
	}
	if runExportDir != "" {
		cfg.Export.Dir = runExportDir
	}
	if runWorkbook != "" {
		cfg.Export.Workbook = runWorkbook
	}
	if runMetricsTextfile != "" {
		cfg.Metrics.Textfile = runMetricsTextfile
	}

	// Validate configuration
	if err := cfg.ValidateRun(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case sig := <-sigChan:
			logging.Info().
				Str("signal", sig.String()).
				Msg("Received shutdown signal, stopping after the current batch")
			cancel()
		case <-ctx.Done():
		}
	}()

	store, err := warehouse.Open(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to open warehouse: %w", err)
	}
	defer store.Close()

	p := pipeline.New(store, pipeline.Config{
		InputDir:        cfg.Input.Dir,
		Files:           cfg.Input.Files,
		Policy:          cfg.Validation,
		Load:            cfg.Load.LoadConfig,
		DropExisting:    cfg.Load.DropExisting,
		Export:          cfg.Export,
		MetricsTextfile: cfg.Metrics.Textfile,
	})

	_, err = p.Run(ctx)
	if err != nil && errors.Is(err, context.Canceled) {
		logging.Warn().Msg("Pipeline run cancelled; completed batches remain committed")
	}
	return err
}
