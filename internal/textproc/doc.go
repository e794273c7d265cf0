// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package textproc turns movie tag strings into comparable feature vectors.

It provides the three text steps of the modeling stage:

  - Stem: Porter2 (Snowball English) stemming of each whitespace token
  - CountVectorizer: bag-of-words counts over a bounded vocabulary with
    English stop words removed
  - Cosine: the all-pairs cosine similarity matrix of those vectors

Vocabulary selection is deterministic: the MaxFeatures most frequent tokens
across the corpus are kept, ties broken alphabetically, and vector columns
are ordered alphabetically.

Example:

	stemmed := make([]string, len(tags))
	for i, t := range tags {
	    stemmed[i] = textproc.StemText(t)
	}
	vec := textproc.NewCountVectorizer(5000)
	vectors := vec.FitTransform(stemmed)
	sim := textproc.Cosine(vectors)
	score := sim.At(0, 1)
*/
package textproc
