package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotice(t *testing.T) {
	rec := httptest.NewRecorder()

	Notice(rec, http.StatusUnprocessableEntity, "missing_columns", "Missing columns in uploaded CSV: A", []string{"A"})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "missing_columns", body["code"])
	assert.Equal(t, true, body["notice"])
	assert.Equal(t, []any{"A"}, body["details"])
}

func TestInternalErrorHidesDetails(t *testing.T) {
	rec := httptest.NewRecorder()

	InternalError(rec, errors.New("dial tcp 10.0.0.1:6379: refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.1")
}

func TestDecode(t *testing.T) {
	var dst struct {
		Column string `json:"column"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"column":"Name"}`))
	rec := httptest.NewRecorder()
	assert.True(t, Decode(rec, req, &dst))
	assert.Equal(t, "Name", dst.Column)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	rec = httptest.NewRecorder()
	assert.False(t, Decode(rec, req, &dst))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDecode_TooLarge(t *testing.T) {
	var dst map[string]any
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"content":"`+strings.Repeat("x", 64)+`"}`))
	rec := httptest.NewRecorder()
	req.Body = http.MaxBytesReader(rec, req.Body, 16)

	assert.False(t, Decode(rec, req, &dst))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, CodeTooLarge, body["code"])
	assert.Equal(t, "request body exceeds 16 bytes", body["error"])
}

func TestTooLarge_OtherErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	assert.False(t, TooLarge(rec, errors.New("unexpected EOF")))
	assert.Equal(t, 0, rec.Body.Len())
}
