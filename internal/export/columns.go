// Package export renders filtered results as tables, TSV, JSON or YAML.
package export

import (
	"strconv"

	"github.com/verte-zerg/nivela/internal/model"
)

// Column is one presentation column of a result.
type Column struct {
	Key    string
	Header string
	// Highlight marks columns whose strictly positive values are flagged.
	Highlight bool

	value func(model.VolumeRow) float64
}

// Numeric reports whether the column holds a number.
func (c Column) Numeric() bool {
	return c.value != nil
}

// Value returns the numeric value of the column for row.
func (c Column) Value(row model.VolumeRow) float64 {
	if c.value == nil {
		return 0
	}
	return c.value(row)
}

// Text renders the cell as exported: numbers in their shortest form.
func (c Column) Text(row model.VolumeRow) string {
	if c.value == nil {
		return row.Category
	}
	return strconv.FormatFloat(c.value(row), 'f', -1, 64)
}

// Display renders the cell for on-screen tables: numbers with two decimals.
func (c Column) Display(row model.VolumeRow) string {
	if c.value == nil {
		return row.Category
	}
	return strconv.FormatFloat(c.value(row), 'f', 2, 64)
}

// Flagged reports whether the cell should be highlighted.
func (c Column) Flagged(row model.VolumeRow) bool {
	return c.Highlight && c.Value(row) > 0
}

var baseColumns = []Column{
	{Key: "DESCRIPCION", Header: "Descripción"},
	{Key: "Abscisa (m)", Header: "Abscisa (m)", value: func(r model.VolumeRow) float64 { return r.Abscissa }},
	{Key: "BI Cota_Negra (m)", Header: "BI Cota Negra (m)", value: func(r model.VolumeRow) float64 { return r.BlackLeft }},
	{Key: "Eje Cota_Negra (m)", Header: "Eje Cota Negra (m)", value: func(r model.VolumeRow) float64 { return r.BlackCenter }},
	{Key: "BD Cota_Negra (m)", Header: "BD Cota Negra (m)", value: func(r model.VolumeRow) float64 { return r.BlackRight }},
	{Key: "BI Cota_Subrasante (m)", Header: "BI Cota Subrasante (m)", value: func(r model.VolumeRow) float64 { return r.SubgradeLeft }},
	{Key: "Eje Cota_Subrasante (m)", Header: "Eje Cota Subrasante (m)", value: func(r model.VolumeRow) float64 { return r.SubgradeCenter }},
	{Key: "BD Cota_Subrasante (m)", Header: "BD Cota Subrasante (m)", value: func(r model.VolumeRow) float64 { return r.SubgradeRight }},
	{Key: "AC Izquierda (m)", Header: "AC Izquierda (m)", value: func(r model.VolumeRow) float64 { return r.ACLeft }},
	{Key: "AC Derecha (m)", Header: "AC Derecha (m)", value: func(r model.VolumeRow) float64 { return r.ACRight }},
	{Key: "Diferencia Izquierda", Header: "Diferencia Izquierda", Highlight: true, value: func(r model.VolumeRow) float64 { return r.DiffLeft }},
	{Key: "Diferencia Eje", Header: "Diferencia Eje", Highlight: true, value: func(r model.VolumeRow) float64 { return r.DiffCenter }},
	{Key: "Diferencia Derecha", Header: "Diferencia Derecha", Highlight: true, value: func(r model.VolumeRow) float64 { return r.DiffRight }},
}

var volumeColumns = []Column{
	{Key: "Área Corte Carril Izquierdo (m²)", Header: "Área Corte Carril Izquierdo (m²)", value: func(r model.VolumeRow) float64 { return r.AreaLeft }},
	{Key: "Área Corte Carril Derecho (m²)", Header: "Área Corte Carril Derecho (m²)", value: func(r model.VolumeRow) float64 { return r.AreaRight }},
	{Key: "Volumen Corte Izquierdo (m³)", Header: "Volumen Corte Izquierdo (m³)", value: func(r model.VolumeRow) float64 { return r.VolumeLeft }},
	{Key: "Volumen Corte Derecho (m³)", Header: "Volumen Corte Derecho (m³)", value: func(r model.VolumeRow) float64 { return r.VolumeRight }},
}

// Columns returns the active column set: area and volume columns are only
// present for a valid result.
func Columns(res model.Result) []Column {
	cols := append([]Column(nil), baseColumns...)
	if res != nil && res.Valid() {
		cols = append(cols, volumeColumns...)
	}
	return cols
}

// Records returns the result rows in a single shape. Rows of an invalid
// result carry zero volumes, which Columns never exposes.
func Records(res model.Result) []model.VolumeRow {
	switch r := res.(type) {
	case model.ValidResult:
		return r.Rows
	case model.InvalidResult:
		out := make([]model.VolumeRow, len(r.Rows))
		for i, row := range r.Rows {
			out[i] = model.VolumeRow{NormalizedRow: row}
		}
		return out
	default:
		return nil
	}
}
