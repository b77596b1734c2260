package export

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/nivela/internal/model"
)

// FlaggedStyle colors positive cut depths.
var FlaggedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))

// Table renders the result as aligned text lines, header first. With
// highlight set, flagged cells are rendered with FlaggedStyle.
func Table(res model.Result, highlight bool) []string {
	cols := Columns(res)
	records := Records(res)

	headers := make([]string, len(cols))
	rightAlign := make(map[int]bool, len(cols))
	for i, col := range cols {
		headers[i] = col.Header
		rightAlign[i] = col.Numeric()
	}
	cells := make([][]string, len(records))
	for r, row := range records {
		cells[r] = make([]string, len(cols))
		for c, col := range cols {
			cells[r][c] = col.Display(row)
		}
	}

	var decorate func(row, col int, cell string) string
	if highlight {
		decorate = func(row, col int, cell string) string {
			if row < 0 || !cols[col].Flagged(records[row]) {
				return cell
			}
			return FlaggedStyle.Render(cell)
		}
	}
	return formatTable(headers, cells, rightAlign, decorate)
}

// formatTable pads cells to their column width. decorate, when set, is
// applied to each padded cell; row is -1 for the header.
func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool, decorate func(row, col int, cell string) string) []string {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	for i, header := range headers {
		widths[i] = runewidth.StringWidth(header)
	}
	for _, row := range rows {
		for i := 0; i < colCount && i < len(row); i++ {
			if w := runewidth.StringWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, formatRow(-1, headers, widths, rightAlignCols, decorate))
	}
	for r, row := range rows {
		lines = append(lines, formatRow(r, row, widths, rightAlignCols, decorate))
	}
	return lines
}

func formatRow(r int, row []string, widths []int, rightAlignCols map[int]bool, decorate func(row, col int, cell string) string) string {
	var b strings.Builder
	for i := 0; i < len(widths); i++ {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteString("  ")
		}
		cell = padCell(cell, widths[i], rightAlignCols[i])
		if decorate != nil {
			cell = decorate(r, i, cell)
		}
		b.WriteString(cell)
	}
	return strings.TrimRight(b.String(), " ")
}

func padCell(value string, width int, rightAlign bool) string {
	valueWidth := runewidth.StringWidth(value)
	if valueWidth >= width {
		return value
	}
	padding := strings.Repeat(" ", width-valueWidth)
	if rightAlign {
		return padding + value
	}
	return value + padding
}
