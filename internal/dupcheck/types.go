// Package dupcheck finds rows of a tabular dataset that repeat the same values
// in a chosen set of key columns.
//
// Detect is a pure function: it never mutates its input, never fails and
// returns a fresh Result on every call. Callers re-run it whenever the rows
// or the key-column selection change.
package dupcheck

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Record is one row of a dataset, keyed by column name. A column that is not
// present in the map is treated the same as an empty value.
type Record map[string]string

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// FlaggedRecord is a Record annotated with its duplicate status.
// DupGroup is empty when the row is not part of any group.
type FlaggedRecord struct {
	Values      Record
	IsDuplicate bool
	DupGroup    string
}

// MarshalJSON flattens the row values next to the isDuplicate and dupGroup
// attributes. An empty DupGroup is written as null.
func (f FlaggedRecord) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(f.Values)+2)
	for k, v := range f.Values {
		out[k] = v
	}
	out["isDuplicate"] = f.IsDuplicate
	if f.DupGroup != "" {
		out["dupGroup"] = f.DupGroup
	} else {
		out["dupGroup"] = nil
	}
	return json.Marshal(out)
}

// Group summarizes one set of at least two rows sharing the same normalized key.
type Group struct {
	ID           string            `json:"dupGroup"`
	Count        int               `json:"count"`
	SampleValues map[string]string `json:"columns"`
}

// Describe renders the sample values as "col: value | col: value" in key
// column order.
func (g Group) Describe(keyColumns []string) string {
	parts := make([]string, 0, len(keyColumns))
	for _, col := range keyColumns {
		if col == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", col, g.SampleValues[col]))
	}
	return strings.Join(parts, " | ")
}

// Result is the output of a single detection run.
type Result struct {
	// Flagged holds every input row, in input order.
	Flagged []FlaggedRecord `json:"flagged"`
	// Duplicates holds only rows that belong to a group, grouped by group in
	// first-occurrence order and in input order within each group.
	Duplicates []FlaggedRecord `json:"duplicates"`
	// Groups summarizes each group in first-occurrence order.
	Groups []Group `json:"groups"`
}
