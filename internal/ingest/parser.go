// Package ingest implements the spreadsheet ingestion pipelines of the admin
// back office: bulk product upload and price/stock sync.
package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Format is a supported spreadsheet file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
)

var (
	// ErrNoFile is returned when the multipart request carries no file.
	ErrNoFile = errors.New("ingest: no file uploaded")
	// ErrUnsupportedFormat is returned for extensions other than csv, xlsx and xls.
	ErrUnsupportedFormat = errors.New("ingest: unsupported file format")
	// ErrEmptyFile is returned when a file yields no data rows or cannot be read.
	ErrEmptyFile = errors.New("ingest: file is empty or could not be parsed")
)

var contentTypes = map[Format]string{
	FormatCSV:  "text/csv; charset=utf-8",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatXLS:  "application/vnd.ms-excel",
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Cell is one header/value pair of a parsed row. Header keeps the spelling
// found in the file.
type Cell struct {
	Header string
	Value  string
}

// Record is one data row with its cells in column order.
type Record []Cell

// DetectFormat derives the format from the declared filename extension.
func DetectFormat(filename string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	switch f := Format(ext); f {
	case FormatCSV, FormatXLSX, FormatXLS:
		return f, nil
	}
	return "", ErrUnsupportedFormat
}

// Parse detects the format from filename and returns the data rows. The
// first non-blank row is the header; spreadsheets contribute their first
// sheet only.
func Parse(filename string, data []byte) ([]Record, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}
	return ParseBytes(format, data)
}

// ParseBytes parses in-memory file contents of a known format.
func ParseBytes(format Format, data []byte) ([]Record, error) {
	var (
		rows [][]string
		err  error
	)
	switch format {
	case FormatCSV:
		rows, err = readCSV(data)
	case FormatXLSX, FormatXLS:
		rows, err = readWorkbook(data)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}
	records := buildRecords(rows)
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}
	return records, nil
}

func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmptyFile, err)
	}
	return rows, nil
}

// readWorkbook also serves .xls uploads; legacy BIFF files that excelize
// cannot open surface as ErrEmptyFile.
func readWorkbook(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmptyFile, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmptyFile, err)
	}
	return rows, nil
}

func buildRecords(rows [][]string) []Record {
	start := 0
	for start < len(rows) && blank(rows[start]) {
		start++
	}
	if start >= len(rows) {
		return nil
	}
	header := rows[start]

	records := make([]Record, 0, len(rows)-start-1)
	for _, row := range rows[start+1:] {
		if blank(row) {
			continue
		}
		rec := make(Record, 0, len(header))
		for i, h := range header {
			if strings.TrimSpace(h) == "" {
				continue
			}
			value := ""
			if i < len(row) {
				value = row[i]
			}
			rec = append(rec, Cell{Header: h, Value: value})
		}
		records = append(records, rec)
	}
	return records
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
