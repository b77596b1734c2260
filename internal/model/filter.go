package model

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidBound is returned when an abscissa bound is not a finite number.
var ErrInvalidBound = errors.New("invalid abscissa bound")

// FilterSpec selects rows by category substring and abscissa range.
// A nil bound means no constraint.
type FilterSpec struct {
	Category string
	Min      *float64
	Max      *float64
}

// ParseFilterSpec builds a FilterSpec from text inputs. Blank bounds are
// treated as absent.
func ParseFilterSpec(category, minInput, maxInput string) (FilterSpec, error) {
	minVal, err := parseBound(minInput)
	if err != nil {
		return FilterSpec{}, fmt.Errorf("min: %w", err)
	}
	maxVal, err := parseBound(maxInput)
	if err != nil {
		return FilterSpec{}, fmt.Errorf("max: %w", err)
	}
	return FilterSpec{Category: category, Min: minVal, Max: maxVal}, nil
}

// Matches reports whether the row satisfies the spec.
func (s FilterSpec) Matches(row NormalizedRow) bool {
	if !strings.Contains(row.Category, s.Category) {
		return false
	}
	if s.Min != nil && row.Abscissa < *s.Min {
		return false
	}
	if s.Max != nil && row.Abscissa > *s.Max {
		return false
	}
	return true
}

// String renders the spec for status lines.
func (s FilterSpec) String() string {
	category := s.Category
	if category == "" {
		category = "any"
	}
	return fmt.Sprintf("category=%s  min=%s  max=%s", category, formatBound(s.Min), formatBound(s.Max))
}

func parseBound(input string) (*float64, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}
	if !strings.Contains(input, ".") {
		input = strings.Replace(input, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(input, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBound, input)
	}
	return &v, nil
}

func formatBound(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// Bound returns a pointer to v, for building specs in code.
func Bound(v float64) *float64 {
	return &v
}
