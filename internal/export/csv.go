//-------------------------------------------------------------------------
//
// pgEdge Retail Warehouse
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cast"
)

// DateFormat is the layout of dates in exported files.
const DateFormat = "2006-01-02"

// WriteCSV writes a header and records to path, creating parent
// directories and replacing any existing file.
func WriteCSV(path string, header []string, records [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, rec := range records {
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return file.Close()
}

// FormatValue renders a value as CSV text. Nil and nil pointers are empty;
// times are written as dates.
func FormatValue(v any) string {
	v = cellValue(v)
	if v == nil {
		return ""
	}
	if t, ok := v.(time.Time); ok {
		return t.Format(DateFormat)
	}
	return cast.ToString(v)
}

// FormatRows renders every value of rows with FormatValue.
func FormatRows(rows [][]any) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		rec := make([]string, len(row))
		for j, v := range row {
			rec[j] = FormatValue(v)
		}
		out[i] = rec
	}
	return out
}
