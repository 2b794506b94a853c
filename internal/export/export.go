//-------------------------------------------------------------------------
//
// pgEdge Retail Warehouse
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package export writes the enriched collections, segments and validation
// findings of a run as CSV files and an xlsx workbook.
package export

import (
	"path/filepath"

	"github.com/pgEdge/pgedge-retailwh/internal/features"
	"github.com/pgEdge/pgedge-retailwh/internal/logging"
	"github.com/pgEdge/pgedge-retailwh/internal/segment"
	"github.com/pgEdge/pgedge-retailwh/internal/validate"
)

// Config selects the export outputs. Empty fields disable that output.
type Config struct {
	// Dir receives one CSV file per table.
	Dir string `mapstructure:"dir"`

	// Workbook is the path of the xlsx file.
	Workbook string `mapstructure:"workbook"`
}

// Enabled reports whether any output is configured.
func (c Config) Enabled() bool {
	return c.Dir != "" || c.Workbook != ""
}

// Input is what a run exports. Nil members are skipped.
type Input struct {
	Features *features.Set
	Segments *segment.Result
	Report   *validate.Report
}

// Write exports the run and returns the paths written.
func Write(cfg Config, in Input) ([]string, error) {
	log := logging.With("export")
	tables := Tables(in)

	var written []string
	if cfg.Dir != "" {
		for _, t := range tables {
			if t.File == "" {
				continue
			}
			path := filepath.Join(cfg.Dir, t.File+".csv")
			if err := WriteCSV(path, t.Header, FormatRows(t.Rows)); err != nil {
				return written, err
			}
			log.Debug().Str("path", path).Int("rows", len(t.Rows)).Msg("Wrote CSV")
			written = append(written, path)
		}
	}

	if cfg.Workbook != "" {
		if err := WriteWorkbook(cfg.Workbook, tables); err != nil {
			return written, err
		}
		written = append(written, cfg.Workbook)
	}

	log.Info().Int("files", len(written)).Msg("Export complete")
	return written, nil
}
