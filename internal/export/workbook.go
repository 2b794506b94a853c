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
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/xuri/excelize/v2"
)

// WriteWorkbook writes every table with a sheet name to an xlsx file.
func WriteWorkbook(path string, tables []Table) error {
	f := excelize.NewFile()
	defer f.Close()

	const defaultSheet = "Sheet1"
	first := true
	for _, t := range tables {
		if t.Sheet == "" {
			continue
		}
		if first {
			if err := f.SetSheetName(defaultSheet, t.Sheet); err != nil {
				return fmt.Errorf("failed to name sheet %s: %w", t.Sheet, err)
			}
			first = false
		} else if _, err := f.NewSheet(t.Sheet); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", t.Sheet, err)
		}
		if err := writeSheet(f, t); err != nil {
			return fmt.Errorf("failed to write sheet %s: %w", t.Sheet, err)
		}
	}
	f.SetActiveSheet(0)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, t Table) error {
	sw, err := f.NewStreamWriter(t.Sheet)
	if err != nil {
		return err
	}

	header := make([]interface{}, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = cellValue(v)
		}
		if err := sw.SetRow(cell, values); err != nil {
			return err
		}
	}
	return sw.Flush()
}

// cellValue dereferences pointers so nil values become empty cells.
func cellValue(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer {
		return v
	}
	if rv.IsNil() {
		return nil
	}
	return rv.Elem().Interface()
}
