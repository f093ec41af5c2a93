package dupcheck

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Detect flags the rows that are duplicates of each other with respect to
// keyColumns.
//
// Key values are compared after trimming surrounding whitespace and
// lowercasing. A row with an empty or missing value in any key column never
// joins a group. Groups are numbered G1, G2, ... in the order their first
// member appears. With no usable key columns every row is returned unflagged.
func Detect(rows []Record, keyColumns []string) Result {
	columns := make([]string, 0, len(keyColumns))
	for _, col := range keyColumns {
		if col != "" {
			columns = append(columns, col)
		}
	}

	flagged := make([]FlaggedRecord, len(rows))
	for i, row := range rows {
		flagged[i] = FlaggedRecord{Values: row.Clone()}
	}

	result := Result{
		Flagged:    flagged,
		Duplicates: []FlaggedRecord{},
		Groups:     []Group{},
	}
	if len(columns) == 0 {
		return result
	}

	// cases.Caser keeps state between calls and is not safe to share.
	lower := cases.Lower(language.Und)

	var order []string
	members := make(map[string][]int)
	for idx, row := range rows {
		key, ok := rowKey(row, columns, lower)
		if !ok {
			continue
		}
		if _, seen := members[key]; !seen {
			order = append(order, key)
		}
		members[key] = append(members[key], idx)
	}

	next := 1
	for _, key := range order {
		idxs := members[key]
		if len(idxs) < 2 {
			continue
		}

		id := "G" + strconv.Itoa(next)
		next++

		first := rows[idxs[0]]
		sample := make(map[string]string, len(columns))
		for _, col := range columns {
			sample[col] = first[col]
		}
		result.Groups = append(result.Groups, Group{
			ID:           id,
			Count:        len(idxs),
			SampleValues: sample,
		})

		for _, idx := range idxs {
			flagged[idx].IsDuplicate = true
			flagged[idx].DupGroup = id
			result.Duplicates = append(result.Duplicates, flagged[idx])
		}
	}

	return result
}

// rowKey builds the comparison key for row. Each normalized value is length
// prefixed so that no two distinct tuples can encode to the same key. The
// second return value is false when any key value normalizes to empty.
func rowKey(row Record, columns []string, lower cases.Caser) (string, bool) {
	var b strings.Builder
	for _, col := range columns {
		v := normalize(row[col], lower)
		if v == "" {
			return "", false
		}
		b.WriteString(strconv.Itoa(len(v)))
		b.WriteByte(':')
		b.WriteString(v)
	}
	return b.String(), true
}

// normalize trims surrounding whitespace from v and lowercases it.
func normalize(v string, lower cases.Caser) string {
	v = strings.TrimFunc(v, isTrimSpace)
	if v == "" {
		return ""
	}
	return lower.String(v)
}

// isTrimSpace reports whether r is whitespace for trimming purposes. It
// follows the Unicode White_Space set plus the byte order mark, and excludes
// NEL (U+0085), which is not a separator in text values.
func isTrimSpace(r rune) bool {
	switch r {
	case '\uFEFF':
		return true
	case '\u0085':
		return false
	}
	return unicode.IsSpace(r)
}
