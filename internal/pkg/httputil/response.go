package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ignite/csv-dupcheck/internal/pkg/logger"
)

// ErrorResponse is the standard error envelope for all API errors. Notice is
// set for conditions the user should see and can act on.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Notice  bool   `json:"notice,omitempty"`
	Details any    `json:"details,omitempty"`
}

// JSON writes a JSON response with the given status code. The data is
// serialized and Content-Type is set automatically.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("JSON encode failed", "error", err)
	}
}

// OK writes a 200 response with the given data.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// Created writes a 201 response with the given data.
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, data)
}

// NoContent writes a 204 response with no body.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error writes a JSON error response. Use for client errors (4xx).
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorResponse{Error: message})
}

// Notice writes a user-visible condition with a machine-readable code.
func Notice(w http.ResponseWriter, status int, code, message string, details any) {
	JSON(w, status, ErrorResponse{Error: message, Code: code, Notice: true, Details: details})
}

// BadRequest writes a 400 error.
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message)
}

// NotFound writes a 404 error.
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}

// InternalError writes a 500 error. Logs the real error but returns a
// generic message to the client.
func InternalError(w http.ResponseWriter, err error) {
	logger.Error("Internal server error", "error", err)
	Error(w, http.StatusInternalServerError, "internal server error")
}

// CodeTooLarge marks bodies cut off by http.MaxBytesReader.
const CodeTooLarge = "file_too_large"

// TooLarge writes a 413 notice when err comes from http.MaxBytesReader and
// reports whether it did.
func TooLarge(w http.ResponseWriter, err error) bool {
	var tooLarge *http.MaxBytesError
	if !errors.As(err, &tooLarge) {
		return false
	}
	Notice(w, http.StatusRequestEntityTooLarge, CodeTooLarge,
		fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit), nil)
	return true
}

// Decode reads JSON from the request body into dst. On failure it writes a
// 413 notice for oversized bodies or a 400 otherwise, and returns false.
func Decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}
	if !TooLarge(w, err) {
		BadRequest(w, "invalid JSON: "+err.Error())
	}
	return false
}
