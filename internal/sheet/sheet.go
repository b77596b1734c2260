package sheet

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/verte-zerg/nivela/internal/model"
)

// Open decodes the survey file at path, choosing the reader by extension.
func Open(path string) ([]model.RawRow, error) {
	var read func(io.Reader) ([]model.RawRow, error)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		read = ReadWorkbook
	case ".csv":
		read = ReadCSV
	case ".tsv", ".txt":
		read = func(r io.Reader) ([]model.RawRow, error) {
			return ReadDelimited(r, '\t')
		}
	case ".xls":
		return nil, fmt.Errorf("legacy .xls workbooks are not supported; re-save %s as .xlsx", filepath.Base(path))
	default:
		return nil, fmt.Errorf("unsupported file type %q (use .xlsx, .csv or .tsv)", ext)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only input.
			_ = cerr
		}
	}()
	return read(file)
}

// ReadWorkbook decodes the first sheet of an OOXML workbook. Cell values are
// read unformatted so number formats cannot truncate elevations.
func ReadWorkbook(r io.Reader) ([]model.RawRow, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() {
		if cerr := book.Close(); cerr != nil {
			// Best-effort close of the workbook temp files.
			_ = cerr
		}
	}()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	records, err := book.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return decodeRecords(records)
}

// ReadDelimited decodes a delimited text export of the survey sheet.
func ReadDelimited(r io.Reader, comma rune) ([]model.RawRow, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read delimited file: %w", err)
	}
	return decodeRecords(records)
}

// ReadCSV decodes a CSV export, accepting ';' as the separator when the
// header line uses it (spreadsheets with a decimal comma locale).
func ReadCSV(r io.Reader) ([]model.RawRow, error) {
	buffered := bufio.NewReader(r)
	comma := ','
	line, err := buffered.Peek(buffered.Size())
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("failed to read delimited file: %w", err)
	}
	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		comma = ';'
	}
	return ReadDelimited(buffered, comma)
}
