package sheet

import (
	"math"
	"strconv"
	"strings"

	"github.com/verte-zerg/nivela/internal/model"
)

// decodeRecords turns a header row plus data rows into raw rows. The header
// is the first non-blank record; blank records after it are skipped.
func decodeRecords(records [][]string) ([]model.RawRow, error) {
	headerIdx := -1
	for i, record := range records {
		if !blankRecord(record) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, &MissingColumnsError{Columns: append([]string(nil), Columns...)}
	}
	index, err := headerIndex(records[headerIdx])
	if err != nil {
		return nil, err
	}

	rows := make([]model.RawRow, 0, len(records)-headerIdx-1)
	for i := headerIdx + 1; i < len(records); i++ {
		record := records[i]
		if blankRecord(record) {
			continue
		}
		row, err := decodeRow(record, index, i+1)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func headerIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(Columns))
	for i, label := range header {
		label = strings.TrimSpace(label)
		if _, dup := index[label]; dup {
			continue
		}
		index[label] = i
	}
	var missing []string
	for _, col := range Columns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}
	return index, nil
}

func decodeRow(record []string, index map[string]int, rowNum int) (model.RawRow, error) {
	cell := func(col string) string {
		i := index[col]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	number := func(col string, dst *float64) error {
		v, ok := parseNumber(cell(col))
		if !ok {
			return &CellError{Row: rowNum, Column: col, Value: cell(col)}
		}
		*dst = v
		return nil
	}

	row := model.RawRow{Category: cell(ColCategory)}
	fields := []struct {
		col string
		dst *float64
	}{
		{ColAbscissa, &row.Abscissa},
		{ColBlackLeft, &row.BlackLeft},
		{ColBlackCenter, &row.BlackCenter},
		{ColBlackRight, &row.BlackRight},
		{ColSubgradeLeft, &row.SubgradeLeft},
		{ColSubgradeCenter, &row.SubgradeCenter},
		{ColSubgradeRight, &row.SubgradeRight},
		{ColACLeft, &row.ACLeft},
		{ColACRight, &row.ACRight},
	}
	for _, f := range fields {
		if err := number(f.col, f.dst); err != nil {
			return model.RawRow{}, err
		}
	}
	return row, nil
}

// parseNumber accepts a decimal point or, when no point is present, a single
// decimal comma.
func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	if !strings.Contains(s, ".") && strings.Count(s, ",") == 1 {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func blankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
