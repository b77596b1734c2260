package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/nivela/internal/model"
)

// Format selects an output encoding.
type Format string

// Supported formats.
const (
	FormatTSV   Format = "tsv"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
)

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatTSV, FormatJSON, FormatYAML, FormatTable:
		return f, nil
	case "":
		return FormatTSV, nil
	default:
		return "", fmt.Errorf("unknown format %q (use tsv, json, yaml or table)", name)
	}
}

// TSV renders the result as a tab separated block for pasting into a
// spreadsheet. An empty result renders as "".
func TSV(res model.Result) string {
	if res == nil || res.Len() == 0 {
		return ""
	}
	cols := Columns(res)
	lines := make([]string, 0, res.Len()+1)
	headers := make([]string, len(cols))
	for i, col := range cols {
		headers[i] = col.Header
	}
	lines = append(lines, strings.Join(headers, "\t"))
	cells := make([]string, len(cols))
	for _, row := range Records(res) {
		for i, col := range cols {
			cells[i] = col.Text(row)
		}
		lines = append(lines, strings.Join(cells, "\t"))
	}
	return strings.Join(lines, "\n")
}

var defaultClipboardWrite = clipboard.WriteAll

// clipboardWrite is swapped in tests.
var clipboardWrite = defaultClipboardWrite

// CopyToClipboard places the TSV rendering on the system clipboard. It
// reports false without error when there is nothing to copy.
func CopyToClipboard(res model.Result) (bool, error) {
	text := TSV(res)
	if text == "" {
		return false, nil
	}
	if err := clipboardWrite(text); err != nil {
		return false, fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return true, nil
}

type station struct {
	Category       string   `json:"category" yaml:"category"`
	Abscissa       float64  `json:"abscissa" yaml:"abscissa"`
	BlackLeft      float64  `json:"black_left" yaml:"black_left"`
	BlackCenter    float64  `json:"black_center" yaml:"black_center"`
	BlackRight     float64  `json:"black_right" yaml:"black_right"`
	SubgradeLeft   float64  `json:"subgrade_left" yaml:"subgrade_left"`
	SubgradeCenter float64  `json:"subgrade_center" yaml:"subgrade_center"`
	SubgradeRight  float64  `json:"subgrade_right" yaml:"subgrade_right"`
	ACLeft         float64  `json:"ac_left" yaml:"ac_left"`
	ACRight        float64  `json:"ac_right" yaml:"ac_right"`
	DiffLeft       float64  `json:"diff_left" yaml:"diff_left"`
	DiffCenter     float64  `json:"diff_center" yaml:"diff_center"`
	DiffRight      float64  `json:"diff_right" yaml:"diff_right"`
	AreaLeft       *float64 `json:"area_left,omitempty" yaml:"area_left,omitempty"`
	AreaRight      *float64 `json:"area_right,omitempty" yaml:"area_right,omitempty"`
	VolumeLeft     *float64 `json:"volume_left,omitempty" yaml:"volume_left,omitempty"`
	VolumeRight    *float64 `json:"volume_right,omitempty" yaml:"volume_right,omitempty"`
}

type document struct {
	Valid    bool          `json:"valid" yaml:"valid"`
	Warning  string        `json:"warning,omitempty" yaml:"warning,omitempty"`
	Stations []station     `json:"stations" yaml:"stations"`
	Totals   *model.Totals `json:"totals,omitempty" yaml:"totals,omitempty"`
}

func newDocument(res model.Result) document {
	doc := document{Stations: []station{}}
	if res == nil {
		return doc
	}
	doc.Valid = res.Valid()
	if !doc.Valid {
		doc.Warning = model.PositiveDifferenceWarning
	}
	for _, row := range Records(res) {
		st := station{
			Category:       row.Category,
			Abscissa:       row.Abscissa,
			BlackLeft:      row.BlackLeft,
			BlackCenter:    row.BlackCenter,
			BlackRight:     row.BlackRight,
			SubgradeLeft:   row.SubgradeLeft,
			SubgradeCenter: row.SubgradeCenter,
			SubgradeRight:  row.SubgradeRight,
			ACLeft:         row.ACLeft,
			ACRight:        row.ACRight,
			DiffLeft:       row.DiffLeft,
			DiffCenter:     row.DiffCenter,
			DiffRight:      row.DiffRight,
		}
		if doc.Valid {
			row := row
			st.AreaLeft = &row.AreaLeft
			st.AreaRight = &row.AreaRight
			st.VolumeLeft = &row.VolumeLeft
			st.VolumeRight = &row.VolumeRight
		}
		doc.Stations = append(doc.Stations, st)
	}
	if valid, ok := res.(model.ValidResult); ok {
		totals := valid.Totals
		doc.Totals = &totals
	}
	return doc
}

// Write encodes the result to w in the given format.
func Write(w io.Writer, res model.Result, format Format) error {
	switch format {
	case FormatTSV:
		text := TSV(res)
		if text == "" {
			return nil
		}
		_, err := fmt.Fprintln(w, text)
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(newDocument(res))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(newDocument(res)); err != nil {
			return err
		}
		return enc.Close()
	case FormatTable:
		for _, line := range Table(res, false) {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
