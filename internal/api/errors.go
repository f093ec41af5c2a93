package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ignite/csv-dupcheck/internal/dataset"
	"github.com/ignite/csv-dupcheck/internal/pkg/httputil"
	"github.com/ignite/csv-dupcheck/internal/selection"
	"github.com/ignite/csv-dupcheck/internal/session"
)

// Notice codes returned alongside user-visible conditions.
const (
	codeNothingToExport = "nothing_to_export"
	codeMissingColumns  = "missing_columns"
	codeNoDataset       = "no_dataset"
	codeInvalidCSV      = "invalid_csv"
	codeEmptyFile       = "empty_file"
	codeUnknownPreset   = "unknown_preset"
	codeUnknownColumn   = "unknown_column"
)

type unknownColumnError struct {
	column string
}

func (e *unknownColumnError) Error() string {
	return fmt.Sprintf("Unknown column: %q", e.column)
}

// respondError maps domain errors to notices. Anything unrecognised is
// logged and answered with a generic 500.
func respondError(w http.ResponseWriter, err error) {
	var missing *selection.MissingColumnsError
	var unknown *unknownColumnError

	if httputil.TooLarge(w, err) {
		return
	}

	switch {
	case errors.Is(err, session.ErrNotFound):
		httputil.NotFound(w, err.Error())
	case errors.Is(err, session.ErrExpired):
		httputil.Error(w, http.StatusGone, err.Error())
	case errors.Is(err, selection.ErrNoDataset):
		httputil.Notice(w, http.StatusConflict, codeNoDataset, err.Error(), nil)
	case errors.As(err, &missing):
		httputil.Notice(w, http.StatusUnprocessableEntity, codeMissingColumns, err.Error(), missing.Columns)
	case errors.As(err, &unknown):
		httputil.Notice(w, http.StatusUnprocessableEntity, codeUnknownColumn, err.Error(), nil)
	case errors.Is(err, dataset.ErrNothingToExport):
		httputil.Notice(w, http.StatusUnprocessableEntity, codeNothingToExport, err.Error(), nil)
	case errors.Is(err, dataset.ErrEmptyFile):
		httputil.Notice(w, http.StatusBadRequest, codeEmptyFile, err.Error(), nil)
	case errors.Is(err, dataset.ErrInvalidCSV):
		httputil.Notice(w, http.StatusBadRequest, codeInvalidCSV, err.Error(), nil)
	default:
		httputil.InternalError(w, err)
	}
}
