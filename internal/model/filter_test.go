package model

import (
	"errors"
	"testing"
)

func TestParseFilterSpec(t *testing.T) {
	spec, err := ParseFilterSpec("K0", " 10 ", "")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if spec.Category != "K0" {
		t.Fatalf("unexpected category %q", spec.Category)
	}
	if spec.Min == nil || *spec.Min != 10 {
		t.Fatalf("expected min 10, got %v", spec.Min)
	}
	if spec.Max != nil {
		t.Fatalf("expected no max, got %v", *spec.Max)
	}
}

func TestParseFilterSpecDecimalComma(t *testing.T) {
	spec, err := ParseFilterSpec("", "", "120,5")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if spec.Max == nil || *spec.Max != 120.5 {
		t.Fatalf("expected max 120.5, got %v", spec.Max)
	}
}

func TestParseFilterSpecRejectsText(t *testing.T) {
	for _, input := range []string{"abc", "NaN", "Inf"} {
		_, err := ParseFilterSpec("", input, "")
		if !errors.Is(err, ErrInvalidBound) {
			t.Fatalf("expected ErrInvalidBound for %q, got %v", input, err)
		}
	}
}

func TestRowsDropsVolumes(t *testing.T) {
	row := NormalizedRow{DiffLeft: -1}
	row.Abscissa = 5
	res := ValidResult{Rows: []VolumeRow{{NormalizedRow: row, VolumeLeft: 3}}}
	rows := Rows(res)
	if len(rows) != 1 || rows[0] != row {
		t.Fatalf("unexpected rows: %+v", rows)
	}
	if got := Rows(InvalidResult{Rows: []NormalizedRow{row}}); len(got) != 1 {
		t.Fatalf("expected 1 row, got %d", len(got))
	}
}

func TestFilterSpecString(t *testing.T) {
	spec := FilterSpec{Min: Bound(0), Max: Bound(120.5)}
	if got := spec.String(); got != "category=any  min=0  max=120.5" {
		t.Fatalf("unexpected summary %q", got)
	}
}
