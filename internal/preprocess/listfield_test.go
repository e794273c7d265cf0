// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package preprocess

import (
	"reflect"
	"testing"
)

func TestDecodeNames(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"json", `[{"id": 28, "name": "Action"}, {"id": 12, "name": "Adventure"}]`, []string{"Action", "Adventure"}},
		{"python literal", `[{'id': 28, 'name': 'Science Fiction'}]`, []string{"Science Fiction"}},
		{"python apostrophe in double quotes", `[{'name': "Chris O'Dowd", 'cast_id': 3}]`, []string{"Chris O'Dowd"}},
		{"python escapes", `[{'name': 'Amélie \'Poulain\''}]`, []string{"Amélie 'Poulain'"}},
		{"python constants", `[{'name': 'Solo', 'adult': False, 'gender': None}]`, []string{"Solo"}},
		{"empty list", `[]`, []string{}},
		{"malformed", `[{'name': 'Action'`, []string{}},
		{"not a list", `{"name": "Action"}`, []string{}},
		{"python tuple is not decoded", `({'name': 'Action'},)`, []string{}},
		{"missing name", `[{"name": "A"}, {"id": 1}]`, []string{}},
		{"empty", ``, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeNames(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DecodeNames(%q) = %#v, want %#v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDecodeDirector(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantLen int
		want    []string
	}{
		{"no director", `[{'job': 'Producer', 'name': 'P'}]`, 0, []string{}},
		{"one director", `[{'job': 'Producer', 'name': 'P'}, {'job': 'Director', 'name': 'Jane Smith'}]`, 1, []string{"Jane Smith"}},
		{"many directors", `[{'job': 'Director', 'name': 'Lana'}, {'job': 'Director', 'name': 'Lilly'}]`, 1, []string{"Lana"}},
		{"entry without job", `[{'job': 'Director', 'name': 'D'}, {'name': 'X'}]`, 0, []string{}},
		{"malformed", `not a list`, 0, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeDirector(tt.raw)
			if len(got) != tt.wantLen || !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DecodeDirector() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Jane Doe", "JaneDoe"},
		{"Samuel L. Jackson", "SamuelL.Jackson"},
		{"Cher", "Cher"},
		{"  ", ""},
	}
	for _, tt := range tests {
		got := NormalizeName(tt.in)
		if got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if again := NormalizeName(got); again != got {
			t.Errorf("NormalizeName not idempotent for %q: %q", tt.in, again)
		}
	}
}
