// Package model defines shared data structures.
package model

import "time"

// RawRow is one surveyed cross-section station as decoded from the workbook.
type RawRow struct {
	Category       string  `json:"category" yaml:"category"`
	Abscissa       float64 `json:"abscissa" yaml:"abscissa"`
	BlackLeft      float64 `json:"black_left" yaml:"black_left"`
	BlackCenter    float64 `json:"black_center" yaml:"black_center"`
	BlackRight     float64 `json:"black_right" yaml:"black_right"`
	SubgradeLeft   float64 `json:"subgrade_left" yaml:"subgrade_left"`
	SubgradeCenter float64 `json:"subgrade_center" yaml:"subgrade_center"`
	SubgradeRight  float64 `json:"subgrade_right" yaml:"subgrade_right"`
	ACLeft         float64 `json:"ac_left" yaml:"ac_left"`
	ACRight        float64 `json:"ac_right" yaml:"ac_right"`
}

// NormalizedRow is a RawRow with cut depths and lane cut areas, every
// numeric field rounded to two decimals.
type NormalizedRow struct {
	RawRow `yaml:",inline"`

	DiffLeft   float64 `json:"diff_left" yaml:"diff_left"`
	DiffCenter float64 `json:"diff_center" yaml:"diff_center"`
	DiffRight  float64 `json:"diff_right" yaml:"diff_right"`
	AreaLeft   float64 `json:"area_left" yaml:"area_left"`
	AreaRight  float64 `json:"area_right" yaml:"area_right"`
}

// Raw returns the raw fields the row was normalized from.
func (r NormalizedRow) Raw() RawRow {
	return r.RawRow
}

// PositiveColumns reports which cut depths are strictly positive (fill).
func (r NormalizedRow) PositiveColumns() (left, center, right bool) {
	return r.DiffLeft > 0, r.DiffCenter > 0, r.DiffRight > 0
}

// HasPositiveDifference reports whether any cut depth is strictly positive.
func (r NormalizedRow) HasPositiveDifference() bool {
	left, center, right := r.PositiveColumns()
	return left || center || right
}

// VolumeRow is a NormalizedRow with the incremental cut volumes integrated
// from the previous station of the same filtered sequence.
type VolumeRow struct {
	NormalizedRow `yaml:",inline"`

	VolumeLeft  float64 `json:"volume_left" yaml:"volume_left"`
	VolumeRight float64 `json:"volume_right" yaml:"volume_right"`
}

// Totals holds the summed cut volumes for the left and right lanes.
type Totals struct {
	Left  float64 `json:"left" yaml:"left"`
	Right float64 `json:"right" yaml:"right"`
}

// Dataset is the full normalized row sequence of one load plus the distinct
// category labels in first-seen order.
type Dataset struct {
	Rows       []NormalizedRow `json:"rows"`
	Categories []string        `json:"categories"`
}

// CachedDataset is a dataset read back from the session cache.
type CachedDataset struct {
	LoadID   string
	Source   string
	LoadedAt time.Time
	Dataset  Dataset
}
