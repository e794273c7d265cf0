// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package preprocess

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-json"
)

// decodeRecords parses a serialized list of objects. Both JSON and Python
// literal syntax (single-quoted strings, True/False/None) are accepted.
// Only list brackets are understood: a tuple such as ({'name': 'A'},) or a
// set literal does not decode, and callers treat it as an empty list.
func decodeRecords(raw string) ([]map[string]any, bool) {
	var records []map[string]any
	if err := json.Unmarshal([]byte(raw), &records); err == nil {
		return records, true
	}
	converted, ok := pythonLiteralToJSON(raw)
	if !ok {
		return nil, false
	}
	records = nil
	if err := json.Unmarshal([]byte(converted), &records); err != nil {
		return nil, false
	}
	return records, true
}

// DecodeNames returns the "name" of every object in a serialized list.
// Any decoding failure, including an object without a string name, yields
// an empty list.
func DecodeNames(raw string) []string {
	records, ok := decodeRecords(raw)
	if !ok {
		return []string{}
	}
	names := make([]string, 0, len(records))
	for _, rec := range records {
		name, ok := rec["name"].(string)
		if !ok {
			return []string{}
		}
		names = append(names, name)
	}
	return names
}

// DecodeDirector returns the name of the first crew member whose job is
// "Director", as a list of at most one element. Any decoding failure,
// including a crew entry without a job, yields an empty list.
func DecodeDirector(raw string) []string {
	records, ok := decodeRecords(raw)
	if !ok {
		return []string{}
	}
	var director []string
	for _, rec := range records {
		job, ok := rec["job"]
		if !ok {
			return []string{}
		}
		if job != "Director" {
			continue
		}
		name, ok := rec["name"].(string)
		if !ok {
			return []string{}
		}
		if director == nil {
			director = []string{name}
		}
	}
	if director == nil {
		return []string{}
	}
	return director
}

// NormalizeName removes every space from a name so multi-word names become a
// single token.
func NormalizeName(name string) string {
	return strings.ReplaceAll(name, " ", "")
}

// pythonLiteralToJSON rewrites a Python literal into JSON: strings in either
// quote style become JSON strings and True/False/None become true/false/null.
// Everything else is copied through for the JSON decoder to judge.
func pythonLiteralToJSON(s string) (string, bool) {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '\'' || c == '"':
			str, n, ok := readPythonString(s[i:])
			if !ok {
				return "", false
			}
			encoded, err := json.Marshal(str)
			if err != nil {
				return "", false
			}
			b.Write(encoded)
			i += n
		case isIdentStart(c):
			j := i
			for j < len(s) && isIdentPart(s[j]) {
				j++
			}
			switch word := s[i:j]; word {
			case "True":
				b.WriteString("true")
			case "False":
				b.WriteString("false")
			case "None":
				b.WriteString("null")
			default:
				b.WriteString(word)
			}
			i = j
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String(), true
}

// readPythonString reads one quoted string literal at the start of s and
// returns its value and the number of bytes consumed.
func readPythonString(s string) (string, int, bool) {
	quote := s[0]
	var b strings.Builder
	for i := 1; i < len(s); {
		c := s[i]
		switch c {
		case quote:
			return b.String(), i + 1, true
		case '\\':
			if i+1 >= len(s) {
				return "", 0, false
			}
			n, ok := writeEscape(&b, s[i+1:])
			if !ok {
				return "", 0, false
			}
			i += 1 + n
		default:
			r, size := utf8.DecodeRuneInString(s[i:])
			b.WriteRune(r)
			i += size
		}
	}
	return "", 0, false
}

// writeEscape decodes the escape sequence following a backslash and returns
// the number of bytes it spans.
func writeEscape(b *strings.Builder, s string) (int, bool) {
	switch s[0] {
	case '\\', '\'', '"':
		b.WriteByte(s[0])
		return 1, true
	case 'n':
		b.WriteByte('\n')
		return 1, true
	case 't':
		b.WriteByte('\t')
		return 1, true
	case 'r':
		b.WriteByte('\r')
		return 1, true
	case 'x':
		return writeCodePoint(b, s, 2)
	case 'u':
		return writeCodePoint(b, s, 4)
	case 'U':
		return writeCodePoint(b, s, 8)
	default:
		// Unknown escapes keep the backslash.
		b.WriteByte('\\')
		return 0, true
	}
}

func writeCodePoint(b *strings.Builder, s string, digits int) (int, bool) {
	if len(s) < 1+digits {
		return 0, false
	}
	v, err := strconv.ParseUint(s[1:1+digits], 16, 32)
	if err != nil {
		return 0, false
	}
	b.WriteRune(rune(v))
	return 1 + digits, true
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
