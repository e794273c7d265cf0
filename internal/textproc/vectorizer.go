// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package textproc

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// tokenPattern matches runs of two or more word characters.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Tokenize lowercases text and returns its tokens of two or more word
// characters, in order.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// Vector is a sparse count vector. Indices are strictly increasing.
type Vector struct {
	Indices []int
	Values  []float64
}

// Norm returns the Euclidean norm of v.
func (v Vector) Norm() float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Dense expands v into a slice of length n.
func (v Vector) Dense(n int) []float64 {
	out := make([]float64, n)
	for k, idx := range v.Indices {
		if idx < n {
			out[idx] = v.Values[k]
		}
	}
	return out
}

// CountVectorizer converts documents into bag-of-words count vectors over a
// vocabulary bounded by MaxFeatures.
type CountVectorizer struct {
	// MaxFeatures caps the vocabulary size. Zero or negative keeps every token.
	MaxFeatures int
	StopWords   StopWords

	vocabulary []string
	index      map[string]int
}

// NewCountVectorizer creates a vectorizer with the English stop word list.
func NewCountVectorizer(maxFeatures int) *CountVectorizer {
	return &CountVectorizer{
		MaxFeatures: maxFeatures,
		StopWords:   EnglishStopWords(),
	}
}

func (v *CountVectorizer) tokens(doc string) []string {
	raw := Tokenize(doc)
	out := raw[:0]
	for _, t := range raw {
		if v.StopWords.Contains(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Fit learns the vocabulary: the MaxFeatures tokens with the highest total
// count across docs, ties broken alphabetically. The vocabulary itself is
// ordered alphabetically.
func (v *CountVectorizer) Fit(docs []string) *CountVectorizer {
	counts := make(map[string]int)
	for _, doc := range docs {
		for _, t := range v.tokens(doc) {
			counts[t]++
		}
	}

	terms := make([]string, 0, len(counts))
	for t := range counts {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		ci, cj := counts[terms[i]], counts[terms[j]]
		if ci != cj {
			return ci > cj
		}
		return terms[i] < terms[j]
	})
	if v.MaxFeatures > 0 && len(terms) > v.MaxFeatures {
		terms = terms[:v.MaxFeatures]
	}
	sort.Strings(terms)

	v.vocabulary = terms
	v.index = make(map[string]int, len(terms))
	for i, t := range terms {
		v.index[t] = i
	}
	return v
}

// Transform maps each document onto the fitted vocabulary. Tokens outside
// the vocabulary are ignored.
func (v *CountVectorizer) Transform(docs []string) []Vector {
	out := make([]Vector, len(docs))
	for i, doc := range docs {
		counts := make(map[int]float64)
		for _, t := range v.tokens(doc) {
			if idx, ok := v.index[t]; ok {
				counts[idx]++
			}
		}
		vec := Vector{
			Indices: make([]int, 0, len(counts)),
			Values:  make([]float64, 0, len(counts)),
		}
		for idx := range counts {
			vec.Indices = append(vec.Indices, idx)
		}
		sort.Ints(vec.Indices)
		for _, idx := range vec.Indices {
			vec.Values = append(vec.Values, counts[idx])
		}
		out[i] = vec
	}
	return out
}

// FitTransform is Fit followed by Transform on the same documents.
func (v *CountVectorizer) FitTransform(docs []string) []Vector {
	return v.Fit(docs).Transform(docs)
}

// Vocabulary returns the fitted vocabulary in column order.
func (v *CountVectorizer) Vocabulary() []string {
	return append([]string(nil), v.vocabulary...)
}
