// Package csvparse turns published spreadsheet CSV text into header-keyed rows.
package csvparse

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMalformedCSV is returned when the stream cannot be read to the end.
// Stray quotes are not malformed: they are kept as cell text.
var ErrMalformedCSV = errors.New("malformed csv")

const byteOrderMark = "\ufeff"

// RawRow maps trimmed header names to raw cell text.
type RawRow map[string]string

// Get returns the cell under header, or "" when the column is absent.
func (r RawRow) Get(header string) string {
	return r[header]
}

// Table is a parsed CSV document with the header order retained.
type Table struct {
	Headers []string
	Rows    []RawRow
}

// Parse splits CSV text into rows keyed by header.
func Parse(text string) ([]RawRow, error) {
	table, err := ParseTable(strings.NewReader(text))
	if err != nil {
		return nil, err
	}

	return table.Rows, nil
}

// ParseTable reads a CSV document. The first record is the header. Quoted
// fields may contain commas, newlines and doubled quotes. Rows shorter than
// the header get "" for the missing cells; extra cells are ignored. Blank
// lines are skipped and a trailing carriage return is stripped from cells.
// A bare quote inside an unquoted field, as in 12" tablets, stays literal so
// one hand-typed label cannot fail the whole tab.
func ParseTable(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return &Table{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrMalformedCSV, err)
	}

	headers := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, byteOrderMark)
		}

		headers[i] = strings.TrimSpace(cleanCell(h))
	}

	table := &Table{Headers: headers}

	for {
		record, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}

		if readErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedCSV, readErr)
		}

		if isBlank(record) {
			continue
		}

		row := make(RawRow, len(headers))

		for i, h := range headers {
			if i < len(record) {
				row[h] = cleanCell(record[i])
			} else {
				row[h] = ""
			}
		}

		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

func cleanCell(s string) string {
	return strings.TrimSuffix(s, "\r")
}

// isBlank reports a record of only empty cells, e.g. ",,,\r" padding rows
// that spreadsheet exports append.
func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cleanCell(cell)) != "" {
			return false
		}
	}

	return true
}
