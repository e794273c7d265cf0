// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package textproc

import (
	"strings"

	"github.com/kljensen/snowball/english"
)

// Stem returns the Snowball English stem of a single word.
func Stem(word string) string {
	return english.Stem(word, true)
}

// StemText stems every whitespace-separated token of text and joins the
// results with single spaces, preserving token order.
func StemText(text string) string {
	fields := strings.Fields(text)
	for i, f := range fields {
		fields[i] = Stem(f)
	}
	return strings.Join(fields, " ")
}
