// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package table

import "fmt"

// Suffixes applied to columns present on both sides of a merge.
const (
	LeftSuffix  = "_x"
	RightSuffix = "_y"
)

// Merge performs an inner join of left and right on the key column.
//
// Rows are emitted in left order and, for each left row, in right order, so a
// key repeated on both sides yields every pairing. Null keys never match.
// The key column appears once; other columns present on both sides are
// renamed with LeftSuffix and RightSuffix.
func Merge(left, right *Frame, key string) (*Frame, error) {
	lk, ok := left.index[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s (left)", ErrColumnNotFound, key)
	}
	rk, ok := right.index[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s (right)", ErrColumnNotFound, key)
	}

	columns := make([]string, 0, len(left.columns)+len(right.columns)-1)
	for _, c := range left.columns {
		if c != key && right.Has(c) {
			c += LeftSuffix
		}
		columns = append(columns, c)
	}
	rightCols := make([]int, 0, len(right.columns)-1)
	for i, c := range right.columns {
		if i == rk {
			continue
		}
		if left.Has(c) {
			c += RightSuffix
		}
		columns = append(columns, c)
		rightCols = append(rightCols, i)
	}

	out, err := New(columns...)
	if err != nil {
		return nil, err
	}

	matches := make(map[string][]int, len(right.rows))
	for i, row := range right.rows {
		if rk >= len(row) || IsNull(row[rk]) {
			continue
		}
		matches[row[rk]] = append(matches[row[rk]], i)
	}

	for _, lrow := range left.rows {
		if lk >= len(lrow) || IsNull(lrow[lk]) {
			continue
		}
		for _, ri := range matches[lrow[lk]] {
			rrow := right.rows[ri]
			joined := make([]string, 0, len(columns))
			joined = append(joined, pad(lrow, len(left.columns))...)
			for _, c := range rightCols {
				if c < len(rrow) {
					joined = append(joined, rrow[c])
				} else {
					joined = append(joined, "")
				}
			}
			out.rows = append(out.rows, joined)
		}
	}
	return out, nil
}

func pad(row []string, width int) []string {
	if len(row) >= width {
		return row[:width]
	}
	padded := make([]string, width)
	copy(padded, row)
	return padded
}
