package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	prevLevel := GetLevel()
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetLevel(prevLevel)
		SetRedactPII(true)
	})
	return &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func TestComponentLoggerFields(t *testing.T) {
	buf := captureOutput(t)

	New("dupcheck").Info("detection completed", "rows", 3, "groups", 1, "err", errors.New("boom"))

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "INFO", entries[0]["level"])
	assert.Equal(t, "dupcheck", entries[0]["component"])
	assert.Equal(t, "detection completed", entries[0]["msg"])
	assert.Equal(t, float64(3), entries[0]["rows"])
	assert.Equal(t, "boom", entries[0]["err"])
}

func TestLevelFiltering(t *testing.T) {
	buf := captureOutput(t)
	SetLevel(WARN)

	Info("hidden")
	Debug("hidden")
	Warn("shown")

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "shown", entries[0]["msg"])
}

func TestRedaction(t *testing.T) {
	buf := captureOutput(t)

	Info("upload", "email", "john.doe@example.com", "cell", "contact ab@example.com now")

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "jo***@example.com", entries[0]["email"])
	assert.Equal(t, "contact ***@example.com now", entries[0]["cell"])
}

func TestRedactionDisabled(t *testing.T) {
	buf := captureOutput(t)
	SetRedactPII(false)

	Info("upload", "email", "john.doe@example.com")

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "john.doe@example.com", entries[0]["email"])
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
		ok   bool
	}{
		{"debug", DEBUG, true},
		{" INFO ", INFO, true},
		{"warning", WARN, true},
		{"Error", ERROR, true},
		{"verbose", INFO, false},
	}
	for _, tt := range tests {
		got, ok := ParseLevel(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestRedactEmail(t *testing.T) {
	assert.Equal(t, "jo***@example.com", RedactEmail("john.doe@example.com"))
	assert.Equal(t, "***@example.com", RedactEmail("ab@example.com"))
	assert.Equal(t, "***@***", RedactEmail("not-an-email"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "héll...", Truncate("héllo wörld", 4))
}
