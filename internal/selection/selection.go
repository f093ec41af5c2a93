// Package selection manages which columns are compared when looking for
// duplicates, including named presets of expected columns.
package selection

import (
	"errors"
	"strings"
)

var (
	// ErrNoDataset is returned when a preset is applied before any file is loaded.
	ErrNoDataset = errors.New("Upload corresponding CSV first")
	// ErrUnknownPreset is returned by Catalog.Lookup for an unknown name.
	ErrUnknownPreset = errors.New("unknown preset")
)

// MissingColumnsError lists requested columns that the dataset does not have.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return "Missing columns in uploaded CSV: " + strings.Join(e.Columns, ", ")
}

// Toggle adds column to selected when absent and removes it when present.
// The input slice is never modified.
func Toggle(selected []string, column string) []string {
	out := make([]string, 0, len(selected)+1)
	found := false
	for _, s := range selected {
		if s == column {
			found = true
			continue
		}
		out = append(out, s)
	}
	if !found {
		out = append(out, column)
	}
	return out
}

// Set validates columns against headers and returns them in order with empty
// names and repeats removed.
func Set(headers, columns []string) ([]string, error) {
	if missing := missingColumns(headers, columns); len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}
	out := make([]string, 0, len(columns))
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out, nil
}

func missingColumns(headers, columns []string) []string {
	have := make(map[string]bool, len(headers))
	for _, h := range headers {
		have[h] = true
	}
	var missing []string
	for _, c := range columns {
		if c != "" && !have[c] {
			missing = append(missing, c)
		}
	}
	return missing
}
