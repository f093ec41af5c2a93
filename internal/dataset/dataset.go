// Package dataset turns uploaded CSV text into rows for duplicate detection
// and writes detection results back out as CSV.
package dataset

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/ignite/csv-dupcheck/internal/dupcheck"
)

var (
	ErrEmptyFile       = errors.New("file is empty")
	ErrInvalidCSV      = errors.New("invalid CSV format")
	ErrNothingToExport = errors.New("No duplicate rows to download yet.")
)

// maxWarnings caps how many per-row warnings a Dataset keeps.
const maxWarnings = 20

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Dataset is a parsed CSV file: its header row and one Record per data row.
type Dataset struct {
	FileName string            `json:"file_name"`
	Headers  []string          `json:"headers"`
	Rows     []dupcheck.Record `json:"rows"`
	Warnings []string          `json:"warnings,omitempty"`
}

// Parse reads CSV text whose first line holds the column names. Values are
// kept exactly as written; blank lines are skipped. A row with fewer fields
// than the header leaves the trailing columns absent, a row with more fields
// drops the extras, and both are noted in Warnings.
func Parse(r io.Reader, fileName string) (*Dataset, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	csvReader := csv.NewReader(br)
	csvReader.FieldsPerRecord = -1 // Allow variable fields
	csvReader.LazyQuotes = true

	header, err := csvReader.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCSV, err)
	}

	ds := &Dataset{
		FileName: fileName,
		Headers:  uniqueHeaders(header),
		Rows:     []dupcheck.Record{},
	}

	for {
		fields, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCSV, err)
		}
		if len(fields) != len(ds.Headers) {
			line, _ := csvReader.FieldPos(0)
			ds.warn(fmt.Sprintf("line %d: expected %d fields, got %d", line, len(ds.Headers), len(fields)))
		}

		rec := make(dupcheck.Record, len(ds.Headers))
		for i, h := range ds.Headers {
			if i >= len(fields) {
				break
			}
			rec[h] = fields[i]
		}
		ds.Rows = append(ds.Rows, rec)
	}

	return ds, nil
}

func (d *Dataset) warn(msg string) {
	if len(d.Warnings) < maxWarnings {
		d.Warnings = append(d.Warnings, msg)
	}
}

// uniqueHeaders renames repeated column names to name_1, name_2, ... so every
// column stays addressable.
func uniqueHeaders(header []string) []string {
	out := make([]string, len(header))
	used := make(map[string]bool, len(header))
	for i, h := range header {
		name := h
		for n := 1; used[name]; n++ {
			name = h + "_" + strconv.Itoa(n)
		}
		used[name] = true
		out[i] = name
	}
	return out
}
