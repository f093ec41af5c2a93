package dupcheck

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// DecodeRows reads a JSON array of row objects. Scalar values become text
// the way a browser would print them (1001 -> "1001", true -> "true"); null
// values leave the column absent. Anything that is not an array yields no
// rows, and an element that is not an object yields an empty row.
func DecodeRows(data json.RawMessage) []Record {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return []Record{}
	}

	rows := make([]Record, 0, len(items))
	for _, item := range items {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil {
			rows = append(rows, Record{})
			continue
		}
		rec := make(Record, len(fields))
		for k, raw := range fields {
			if v, ok := jsonText(raw); ok {
				rec[k] = v
			}
		}
		rows = append(rows, rec)
	}
	return rows
}

// DecodeColumns reads a JSON array of column names. Entries that are null,
// false, 0 or "" are dropped; other scalars are converted to text. Anything
// that is not an array yields no columns.
func DecodeColumns(data json.RawMessage) []string {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return []string{}
	}

	columns := make([]string, 0, len(items))
	for _, item := range items {
		v, ok := jsonValue(item)
		if !ok || falsy(v) {
			continue
		}
		columns = append(columns, valueText(v))
	}
	return columns
}

// jsonText converts one JSON value to text. It reports false for null.
func jsonText(raw json.RawMessage) (string, bool) {
	v, ok := jsonValue(raw)
	if !ok {
		return "", false
	}
	return valueText(v), true
}

func jsonValue(raw json.RawMessage) (any, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil || v == nil {
		return nil, false
	}
	return v, true
}

func falsy(v any) bool {
	switch t := v.(type) {
	case string:
		return t == ""
	case bool:
		return !t
	case json.Number:
		f, err := t.Float64()
		return err == nil && f == 0
	}
	return false
}

func valueText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return numberText(t)
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			if e != nil {
				parts[i] = valueText(e)
			}
		}
		return strings.Join(parts, ",")
	default:
		return "[object Object]"
	}
}

// numberText prints n the way JavaScript's Number#toString does for the
// common cases: no trailing zeros, exponent form outside [1e-6, 1e21).
func numberText(n json.Number) string {
	f, err := n.Float64()
	if err != nil {
		return n.String()
	}
	if f == 0 {
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		exp = strings.TrimLeft(exp[1:], "0")
		return mant + "e" + sign + exp
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
