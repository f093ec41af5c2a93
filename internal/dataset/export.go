package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"

	"github.com/ignite/csv-dupcheck/internal/dupcheck"
)

const (
	// DefaultSuffix is appended to the export file name when none is given.
	DefaultSuffix = "duplicates"

	defaultBaseName = "export"
)

var csvExtension = regexp.MustCompile(`(?i)\.csv$`)

// ExportFileName derives the download name for an export of fileName, e.g.
// "Vendors.csv" becomes "Vendors_duplicates.csv".
func ExportFileName(fileName, suffix string) string {
	base := defaultBaseName
	if fileName != "" {
		base = csvExtension.ReplaceAllString(fileName, "")
	}
	if suffix == "" {
		suffix = DefaultSuffix
	}
	return fmt.Sprintf("%s_%s.csv", base, suffix)
}

// Export writes the duplicate rows of result as CSV. It refuses with
// ErrNothingToExport when there are none.
func Export(w io.Writer, headers []string, result dupcheck.Result) error {
	if len(result.Duplicates) == 0 {
		return ErrNothingToExport
	}
	return WriteCSV(w, headers, result.Duplicates)
}

// WriteCSV writes rows under the given headers followed by any other columns
// present on the rows (sorted), then the isDuplicate and dupGroup columns.
func WriteCSV(w io.Writer, headers []string, rows []dupcheck.FlaggedRecord) error {
	columns := exportColumns(headers, rows)

	cw := csv.NewWriter(w)
	if err := cw.Write(append(columns, "isDuplicate", "dupGroup")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	record := make([]string, len(columns)+2)
	for _, row := range rows {
		for i, col := range columns {
			record[i] = row.Values[col]
		}
		record[len(columns)] = strconv.FormatBool(row.IsDuplicate)
		record[len(columns)+1] = row.DupGroup
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func exportColumns(headers []string, rows []dupcheck.FlaggedRecord) []string {
	columns := make([]string, 0, len(headers))
	known := make(map[string]bool, len(headers))
	for _, h := range headers {
		if known[h] || h == "isDuplicate" || h == "dupGroup" {
			continue
		}
		known[h] = true
		columns = append(columns, h)
	}

	var extra []string
	for _, row := range rows {
		for k := range row.Values {
			if !known[k] && k != "isDuplicate" && k != "dupGroup" {
				known[k] = true
				extra = append(extra, k)
			}
		}
	}
	sort.Strings(extra)
	return append(columns, extra...)
}
