package sheet

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/verte-zerg/nivela/internal/model"
)

func headerRow() []any {
	row := make([]any, len(Columns))
	for i, col := range Columns {
		row[i] = col
	}
	return row
}

func writeWorkbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	book := excelize.NewFile()
	t.Cleanup(func() {
		_ = book.Close()
	})
	sheetName := book.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		row := row
		if err := book.SetSheetRow(sheetName, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	if _, err := book.NewSheet("Resumen"); err != nil {
		t.Fatalf("new sheet: %v", err)
	}
	if err := book.SetCellValue("Resumen", "A1", "ignored"); err != nil {
		t.Fatalf("set cell: %v", err)
	}
	buf, err := book.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf
}

func TestReadWorkbook(t *testing.T) {
	buf := writeWorkbook(t, [][]any{
		headerRow(),
		{"K0+000", 0, 10.0, 10.0, 10.0, 9.5, 9.4, 9.3, 3.5, 3.5},
		{},
		{"K0+010", 10.0, 10.2, 10.1, 10.0, 9.6, 9.5, 9.4, 3.5, 3.6},
	})

	rows, err := ReadWorkbook(buf)
	if err != nil {
		t.Fatalf("read workbook: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	want := model.RawRow{
		Category:       "K0+010",
		Abscissa:       10,
		BlackLeft:      10.2,
		BlackCenter:    10.1,
		BlackRight:     10,
		SubgradeLeft:   9.6,
		SubgradeCenter: 9.5,
		SubgradeRight:  9.4,
		ACLeft:         3.5,
		ACRight:        3.6,
	}
	if rows[1] != want {
		t.Fatalf("unexpected row: %+v", rows[1])
	}
}

func TestReadWorkbookMissingColumns(t *testing.T) {
	header := headerRow()[:8]
	buf := writeWorkbook(t, [][]any{header})

	_, err := ReadWorkbook(buf)
	var missing *MissingColumnsError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingColumnsError, got %v", err)
	}
	if len(missing.Columns) != 2 || missing.Columns[0] != ColACLeft || missing.Columns[1] != ColACRight {
		t.Fatalf("unexpected missing columns: %v", missing.Columns)
	}
}

func TestReadWorkbookBadCell(t *testing.T) {
	buf := writeWorkbook(t, [][]any{
		headerRow(),
		{"K0+000", 0, 10.0, "n/a", 10.0, 9.5, 9.4, 9.3, 3.5, 3.5},
	})

	_, err := ReadWorkbook(buf)
	var cellErr *CellError
	if !errors.As(err, &cellErr) {
		t.Fatalf("expected CellError, got %v", err)
	}
	if cellErr.Row != 2 || cellErr.Column != ColBlackCenter || cellErr.Value != "n/a" {
		t.Fatalf("unexpected cell error: %+v", cellErr)
	}
}

func TestReadDelimitedReorderedColumns(t *testing.T) {
	header := []string{"Notas"}
	for i := len(Columns) - 1; i >= 0; i-- {
		header = append(header, Columns[i])
	}
	data := strings.Join(header, "\t") + "\n" +
		"x\t3,5\t3,5\t9,3\t9,4\t9,5\t10\t10\t10\t0\tK0+000\n"

	rows, err := ReadDelimited(strings.NewReader(data), '\t')
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Category != "K0+000" || rows[0].SubgradeLeft != 9.5 || rows[0].ACRight != 3.5 {
		t.Fatalf("unexpected row: %+v", rows[0])
	}
}

func TestReadCSVSemicolon(t *testing.T) {
	data := strings.Join(Columns, ";") + "\n" +
		"K0+000;0;10;10;10;9,5;9,4;9,3;3,5;3,5\n"
	rows, err := ReadCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 1 || rows[0].SubgradeRight != 9.3 {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestReadDelimitedHeaderOnly(t *testing.T) {
	rows, err := ReadDelimited(strings.NewReader(strings.Join(Columns, ",")+"\n"), ',')
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}

func TestOpenByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cartera.csv")
	data := strings.Join(Columns, ",") + "\nK0+000,0,10,10,10,9.5,9.4,9.3,3.5,3.5\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	rows, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	if _, err := Open(filepath.Join(dir, "cartera.ods")); err == nil {
		t.Fatalf("expected error for unsupported extension")
	}
}

func TestOpenLegacyXLS(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "cartera.xls"))
	if err == nil {
		t.Fatalf("expected error for .xls workbook")
	}
	if !strings.Contains(err.Error(), "re-save cartera.xls as .xlsx") {
		t.Fatalf("unexpected error: %v", err)
	}
}
