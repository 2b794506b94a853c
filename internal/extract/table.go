//-------------------------------------------------------------------------
//
// pgEdge Retail Warehouse
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package extract

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// ErrMissingColumn is returned when an extract header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// Malformed counts unparsable cells per "extract.column".
type Malformed map[string]int

func (m Malformed) merge(o Malformed) {
	for k, v := range o {
		m[k] += v
	}
}

// nullTokens are cell values treated as missing.
var nullTokens = map[string]bool{
	"":     true,
	"NaN":  true,
	"nan":  true,
	"NaT":  true,
	"NULL": true,
	"null": true,
	"None": true,
}

// ShortRowKey is the Malformed column key counting rows with fewer fields
// than the header. Their missing cells read as null.
const ShortRowKey = "<short_row>"

// table reads one CSV extract by column name.
type table struct {
	name      string
	r         *csv.Reader
	index     map[string]int
	width     int
	malformed Malformed
	line      int
}

func openTable(name string, r io.Reader, required []string) (*table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: empty extract", name)
		}
		return nil, fmt.Errorf("%s: failed to read header: %w", name, err)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		col = strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))
		if _, dup := index[col]; !dup {
			index[col] = i
		}
	}

	for _, col := range required {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%s: %w: %s", name, ErrMissingColumn, col)
		}
	}

	return &table{
		name:      name,
		r:         cr,
		index:     index,
		width:     len(header),
		malformed: make(Malformed),
		line:      1,
	}, nil
}

// next returns the following record or io.EOF.
func (t *table) next() (record, error) {
	fields, err := t.r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return record{}, io.EOF
		}
		return record{}, fmt.Errorf("%s: line %d: %w", t.name, t.line+1, err)
	}
	t.line++
	if len(fields) < t.width {
		t.malformed[t.name+"."+ShortRowKey]++
	}
	return record{t: t, fields: fields}, nil
}

type record struct {
	t      *table
	fields []string
}

func (rec record) raw(col string) (string, bool) {
	i := rec.t.index[col]
	if i >= len(rec.fields) {
		return "", false
	}
	v := strings.TrimSpace(rec.fields[i])
	if nullTokens[v] {
		return "", false
	}
	return v, true
}

func (rec record) bad(col string) {
	rec.t.malformed[rec.t.name+"."+col]++
}

func (rec record) str(col string) *string {
	v, ok := rec.raw(col)
	if !ok {
		return nil
	}
	return &v
}

func (rec record) int(col string) *int64 {
	v, ok := rec.raw(col)
	if !ok {
		return nil
	}
	// Parsed as a float so "3.0" and zero-padded ids are accepted.
	f, err := cast.ToFloat64E(v)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		rec.bad(col)
		return nil
	}
	n := int64(f)
	return &n
}

func (rec record) float(col string) *float64 {
	v, ok := rec.raw(col)
	if !ok {
		return nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		rec.bad(col)
		return nil
	}
	return &f
}

func (rec record) time(col string) *time.Time {
	v, ok := rec.raw(col)
	if !ok {
		return nil
	}
	ts, err := cast.ToTimeE(v)
	if err != nil {
		rec.bad(col)
		return nil
	}
	ts = ts.UTC()
	return &ts
}
