// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package table

import (
	"errors"
	"strings"
	"testing"
)

func TestReadCSV(t *testing.T) {
	t.Parallel()

	input := "\ufeffid,title,overview\n1,Avatar,\"In the 22nd century, a marine\"\n2,Spectre,\n"
	f, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}

	if got := strings.Join(f.Columns(), ","); got != "id,title,overview" {
		t.Errorf("Columns() = %q", got)
	}
	if f.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", f.Len())
	}
	if got := f.Value(0, "overview"); got != "In the 22nd century, a marine" {
		t.Errorf("Value(0, overview) = %q", got)
	}
	if got := f.Value(1, "overview"); got != "" {
		t.Errorf("Value(1, overview) = %q, want empty", got)
	}
	if got := f.Value(0, "missing"); got != "" {
		t.Errorf("Value(0, missing) = %q, want empty", got)
	}
}

func TestReadCSV_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"empty document", "", ErrNoHeader},
		{"ragged rows", "a,b\n1,2,3\n", nil},
		{"duplicate header", "a,a\n1,2\n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ReadCSV(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("ReadCSV() expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("ReadCSV() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	t.Parallel()

	f, err := New("movie_id", "title", "tags")
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Append("19995", "Avatar, Extended", "in the 22nd century"); err != nil {
		t.Fatal(err)
	}
	if err := f.Append("1"); err == nil {
		t.Error("Append() with wrong width should fail")
	}

	data, err := f.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	want := "movie_id,title,tags\n19995,\"Avatar, Extended\",in the 22nd century\n"
	if string(data) != want {
		t.Errorf("Bytes() = %q, want %q", data, want)
	}

	back, err := ParseCSV(data)
	if err != nil {
		t.Fatalf("ParseCSV() error = %v", err)
	}
	if back.Value(0, "title") != "Avatar, Extended" {
		t.Errorf("title = %q", back.Value(0, "title"))
	}
}

func TestIsNull(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value string
		want  bool
	}{
		{"", true},
		{"NA", true},
		{"NaN", true},
		{"nan", true},
		{"null", true},
		{"NULL", true},
		{"None", true},
		{"N/A", true},
		{"n/a", true},
		{"<NA>", true},
		{"#N/A", true},
		{"na", false},
		{" NA", false},
		{"none of the above", false},
		{"0", false},
		{"[]", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			if got := IsNull(tt.value); got != tt.want {
				t.Errorf("IsNull(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestDropNulls_MissingValueMarkers(t *testing.T) {
	t.Parallel()

	f, _ := New("movie_id", "title", "overview")
	_ = f.Append("1", "A", "story")
	_ = f.Append("2", "NA", "story")
	_ = f.Append("3", "C", "NaN")
	_ = f.Append("4", "D", "None")
	_ = f.Append("5", "E", "Nancy")

	clean, dropped := f.DropNulls()
	if dropped != 3 {
		t.Errorf("dropped = %d, want 3", dropped)
	}
	if clean.Len() != 2 || clean.Value(1, "movie_id") != "5" {
		t.Errorf("kept rows = %d, last id = %q", clean.Len(), clean.Value(clean.Len()-1, "movie_id"))
	}
}

func TestSelectAndDropNulls(t *testing.T) {
	t.Parallel()

	f, _ := New("id", "title", "overview", "extra")
	_ = f.Append("1", "A", "story", "x")
	_ = f.Append("2", "B", "", "y")
	_ = f.Append("3", "C", "plot", "")

	projected, err := f.Select([]Projection{
		{Name: "movie_id", Source: "id"},
		{Name: "title", Source: "title"},
		{Name: "overview", Source: "overview"},
	})
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}

	clean, dropped := projected.DropNulls()
	if dropped != 1 {
		t.Errorf("dropped = %d, want 1", dropped)
	}
	if clean.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", clean.Len())
	}
	if clean.Value(1, "movie_id") != "3" {
		t.Errorf("second row id = %q, want 3", clean.Value(1, "movie_id"))
	}

	if _, err := f.Select([]Projection{{Name: "x", Source: "nope"}}); !errors.Is(err, ErrColumnNotFound) {
		t.Errorf("Select() unknown column error = %v", err)
	}
}
