// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package textproc

// Matrix is a dense square matrix stored row-major.
type Matrix struct {
	N      int
	Values []float64
}

// NewMatrix allocates an n x n zero matrix.
func NewMatrix(n int) *Matrix {
	return &Matrix{N: n, Values: make([]float64, n*n)}
}

// At returns the entry at row i, column j.
func (m *Matrix) At(i, j int) float64 {
	return m.Values[i*m.N+j]
}

func (m *Matrix) set(i, j int, v float64) {
	m.Values[i*m.N+j] = v
}

type posting struct {
	row    int
	weight float64
}

// Cosine computes the all-pairs cosine similarity of vectors.
//
// The result is exactly symmetric. Rows of non-zero vectors have 1 on the
// diagonal; every entry involving a zero vector is 0.
func Cosine(vectors []Vector) *Matrix {
	n := len(vectors)
	m := NewMatrix(n)

	// Inverted index over L2-normalized vectors.
	columns := make(map[int][]posting)
	for i, vec := range vectors {
		norm := vec.Norm()
		if norm == 0 {
			continue
		}
		for k, idx := range vec.Indices {
			columns[idx] = append(columns[idx], posting{row: i, weight: vec.Values[k] / norm})
		}
	}

	acc := make([]float64, n)
	for i, vec := range vectors {
		norm := vec.Norm()
		if norm == 0 {
			continue
		}
		for j := range acc {
			acc[j] = 0
		}
		for k, idx := range vec.Indices {
			w := vec.Values[k] / norm
			for _, p := range columns[idx] {
				if p.row > i {
					acc[p.row] += w * p.weight
				}
			}
		}
		m.set(i, i, 1)
		for j := i + 1; j < n; j++ {
			s := clamp(acc[j])
			m.set(i, j, s)
			m.set(j, i, s)
		}
	}
	return m
}

func clamp(x float64) float64 {
	switch {
	case x > 1:
		return 1
	case x < 0:
		return 0
	default:
		return x
	}
}
