// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package table provides the small column-oriented frame the pipeline stages
// use to read, join, project and write delimited tables.
//
// A Frame keeps every cell as a string. An empty cell is a null value, which
// matches how the upstream CSV exports encode missing data.
package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoHeader is returned when a CSV input has no header row.
var ErrNoHeader = errors.New("table: missing header row")

// ErrColumnNotFound is returned when a requested column does not exist.
var ErrColumnNotFound = errors.New("table: column not found")

// Frame is an in-memory table with named columns.
type Frame struct {
	columns []string
	index   map[string]int
	rows    [][]string
}

// New creates an empty frame with the given columns.
// Duplicate column names are rejected.
func New(columns ...string) (*Frame, error) {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := index[c]; dup {
			return nil, fmt.Errorf("table: duplicate column %q", c)
		}
		index[c] = i
	}
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Frame{columns: cols, index: index}, nil
}

// ReadCSV parses a CSV document whose first record is the header.
func ReadCSV(r io.Reader) (*Frame, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	f, err := New(header...)
	if err != nil {
		return nil, err
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		f.rows = append(f.rows, record)
	}
	return f, nil
}

// ParseCSV is ReadCSV over an in-memory document.
func ParseCSV(data []byte) (*Frame, error) {
	return ReadCSV(bytes.NewReader(data))
}

// WriteCSV writes the header and all rows.
func (f *Frame) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(f.columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := writer.WriteAll(f.rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}

// Bytes renders the frame as a CSV document.
func (f *Frame) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := f.WriteCSV(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Columns returns a copy of the column names in order.
func (f *Frame) Columns() []string {
	cols := make([]string, len(f.columns))
	copy(cols, f.columns)
	return cols
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.rows)
}

// Has reports whether the frame has a column with the given name.
func (f *Frame) Has(column string) bool {
	_, ok := f.index[column]
	return ok
}

// Index returns the position of a column.
func (f *Frame) Index(column string) (int, bool) {
	i, ok := f.index[column]
	return i, ok
}

// Value returns the cell at row i in the named column.
// Short records read as empty (null) cells.
func (f *Frame) Value(i int, column string) string {
	c, ok := f.index[column]
	if !ok || c >= len(f.rows[i]) {
		return ""
	}
	return f.rows[i][c]
}

// Append adds a row. The row must have one value per column.
func (f *Frame) Append(values ...string) error {
	if len(values) != len(f.columns) {
		return fmt.Errorf("table: row has %d values, want %d", len(values), len(f.columns))
	}
	row := make([]string, len(values))
	copy(row, values)
	f.rows = append(f.rows, row)
	return nil
}

// Select projects the frame onto the given columns. Each entry of columns maps
// an output name to the source column that feeds it.
func (f *Frame) Select(columns []Projection) (*Frame, error) {
	names := make([]string, len(columns))
	src := make([]int, len(columns))
	for i, p := range columns {
		c, ok := f.index[p.Source]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, p.Source)
		}
		names[i] = p.Name
		src[i] = c
	}

	out, err := New(names...)
	if err != nil {
		return nil, err
	}
	out.rows = make([][]string, 0, len(f.rows))
	for _, row := range f.rows {
		projected := make([]string, len(src))
		for i, c := range src {
			if c < len(row) {
				projected[i] = row[c]
			}
		}
		out.rows = append(out.rows, projected)
	}
	return out, nil
}

// Projection names an output column and the source column it is read from.
type Projection struct {
	Name   string
	Source string
}

// DropNulls returns a frame without the rows that hold a null cell in any
// column, and the number of rows removed.
func (f *Frame) DropNulls() (*Frame, int) {
	out := &Frame{columns: f.Columns(), index: f.index}
	for _, row := range f.rows {
		if hasNull(row, len(f.columns)) {
			continue
		}
		out.rows = append(out.rows, row)
	}
	return out, len(f.rows) - len(out.rows)
}

func hasNull(row []string, width int) bool {
	if len(row) < width {
		return true
	}
	for _, v := range row[:width] {
		if IsNull(v) {
			return true
		}
	}
	return false
}

// nullMarkers are the cell values read as missing, in addition to the empty
// string. This is the default NA set used by pandas read_csv; matching is
// exact and case-sensitive.
var nullMarkers = map[string]struct{}{
	"#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {},
	"N/A": {}, "NA": {}, "NULL": {}, "NaN": {}, "None": {},
	"n/a": {}, "nan": {}, "null": {},
}

// IsNull reports whether a cell holds no value: it is empty or equals one of
// the standard missing-value markers such as "NA", "NaN" or "null".
func IsNull(v string) bool {
	if v == "" {
		return true
	}
	_, ok := nullMarkers[v]
	return ok
}
