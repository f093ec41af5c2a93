package dupcheck

import (
	"fmt"
	"strings"
)

// Stats is the headline view of a Result.
type Stats struct {
	TotalRows       int      `json:"total_rows"`
	DuplicateRows   int      `json:"duplicate_rows"`
	GroupCount      int      `json:"group_count"`
	ComparedColumns []string `json:"compared_columns"`
}

// Summary computes the headline figures for result.
func Summary(result Result, keyColumns []string) Stats {
	cols := make([]string, 0, len(keyColumns))
	for _, c := range keyColumns {
		if c != "" {
			cols = append(cols, c)
		}
	}
	return Stats{
		TotalRows:       len(result.Flagged),
		DuplicateRows:   len(result.Duplicates),
		GroupCount:      len(result.Groups),
		ComparedColumns: cols,
	}
}

// HasDuplicates reports whether any row was flagged.
func (s Stats) HasDuplicates() bool { return s.DuplicateRows > 0 }

// Headline reads like "3 duplicate rows across 1 group".
func (s Stats) Headline() string {
	if !s.HasDuplicates() {
		return "No duplicates found"
	}
	rows := "rows"
	if s.DuplicateRows == 1 {
		rows = "row"
	}
	groups := "groups"
	if s.GroupCount == 1 {
		groups = "group"
	}
	return fmt.Sprintf("%d duplicate %s across %d %s", s.DuplicateRows, rows, s.GroupCount, groups)
}

// ColumnsLabel lists the compared columns for display.
func (s Stats) ColumnsLabel() string {
	if len(s.ComparedColumns) == 0 {
		return "No columns selected"
	}
	return strings.Join(s.ComparedColumns, ", ")
}
