package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ignite/csv-dupcheck/internal/dataset"
	"github.com/ignite/csv-dupcheck/internal/dupcheck"
	"github.com/ignite/csv-dupcheck/internal/pkg/distlock"
	"github.com/ignite/csv-dupcheck/internal/pkg/httputil"
	"github.com/ignite/csv-dupcheck/internal/selection"
	"github.com/ignite/csv-dupcheck/internal/session"
)

// =============================================================================
// DATASET SESSION HANDLERS
// =============================================================================
// An upload creates a session holding the parsed file. Column selection,
// presets, the duplicates listing and exports all operate on that session
// and re-run detection from scratch on every request.

// RegisterDatasetRoutes registers the dataset session routes
func (h *Handlers) RegisterDatasetRoutes(r chi.Router) {
	r.Route("/datasets", func(r chi.Router) {
		r.Post("/", h.HandleUpload)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.HandleGetDataset)
			r.Delete("/", h.HandleDeleteDataset)
			r.Put("/columns", h.HandleSetColumns)
			r.Post("/columns/toggle", h.HandleToggleColumn)
			r.Post("/presets/{name}", h.HandleApplyPreset)
			r.Get("/duplicates", h.HandleListDuplicates)
			r.Get("/export", h.HandleExport)
			r.Post("/export/archive", h.HandleArchiveExport)
		})
	})
}

// DatasetView is the client-facing state of a session.
type DatasetView struct {
	ID        string         `json:"id"`
	FileName  string         `json:"file_name"`
	Headers   []string       `json:"headers"`
	RowCount  int            `json:"row_count"`
	Selected  []string       `json:"selected"`
	Warnings  []string       `json:"warnings,omitempty"`
	Stats     dupcheck.Stats `json:"stats"`
	Headline  string         `json:"headline"`
	ExpiresAt time.Time      `json:"expires_at"`
}

func (h *Handlers) view(s *session.Session) DatasetView {
	stats := dupcheck.Summary(s.Detect(h.detector), s.Selected)
	return DatasetView{
		ID:        s.ID,
		FileName:  s.FileName,
		Headers:   s.Headers,
		RowCount:  len(s.Rows),
		Selected:  s.Selected,
		Warnings:  s.Warnings,
		Stats:     stats,
		Headline:  stats.Headline(),
		ExpiresAt: s.ExpiresAt,
	}
}

// UploadRequest is the JSON alternative to a multipart upload.
type UploadRequest struct {
	FileName string `json:"file_name"`
	Content  string `json:"content"`
}

// =============================================================================
// UPLOAD
// =============================================================================

// HandleUpload parses an uploaded CSV and starts a session
// POST /api/datasets
// Accepts: multipart/form-data with "file" field OR application/json with "content" field
func (h *Handlers) HandleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	reader, fileName, err := h.uploadReader(r)
	if err != nil {
		if !httputil.TooLarge(w, err) {
			httputil.BadRequest(w, err.Error())
		}
		return
	}
	if c, ok := reader.(io.Closer); ok {
		defer c.Close()
	}

	ds, err := dataset.Parse(reader, fileName)
	if err != nil {
		respondError(w, err)
		return
	}

	s := session.New(ds, h.ttl)
	if err := h.store.Create(r.Context(), s); err != nil {
		respondError(w, fmt.Errorf("creating session: %w", err))
		return
	}

	h.log.Info("Dataset uploaded",
		"session_id", s.ID,
		"file_name", s.FileName,
		"rows", len(s.Rows),
		"columns", len(s.Headers),
		"warnings", len(s.Warnings),
	)
	httputil.Created(w, h.view(s))
}

func (h *Handlers) uploadReader(r *http.Request) (io.Reader, string, error) {
	contentType := r.Header.Get("Content-Type")
	mediaType, _, _ := mime.ParseMediaType(contentType)
	if mediaType == "application/json" {
		var req UploadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, "", fmt.Errorf("invalid request body: %w", err)
		}
		if req.Content == "" {
			return nil, "", errors.New("content is required")
		}
		return strings.NewReader(req.Content), req.FileName, nil
	}

	err := r.ParseMultipartForm(10 << 20)
	switch {
	case errors.Is(err, http.ErrNotMultipart):
		return nil, "", fmt.Errorf("unsupported content type %q: send multipart/form-data with a \"file\" field or application/json with \"content\"", contentType)
	case err != nil:
		return nil, "", fmt.Errorf("invalid multipart form: %w", err)
	}
	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, "", errors.New("file is required")
	}
	if err != nil {
		return nil, "", fmt.Errorf("reading file field: %w", err)
	}
	return file, header.Filename, nil
}

// =============================================================================
// SESSION STATE
// =============================================================================

func (h *Handlers) loadSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return nil, false
	}
	return s, true
}

// updateSelection loads the session under its lock, applies change and
// stores the new selection. Errors from change are answered as notices.
func (h *Handlers) updateSelection(w http.ResponseWriter, r *http.Request, change func(s *session.Session) ([]string, error)) {
	id := chi.URLParam(r, "id")
	lock := h.locks("dupcheck:session:" + id)

	ctx, cancel := context.WithTimeout(r.Context(), h.lockWait)
	err := distlock.Wait(ctx, lock, 20*time.Millisecond)
	cancel()
	if errors.Is(err, distlock.ErrTimeout) {
		httputil.Error(w, http.StatusConflict, "dataset is being updated, try again")
		return
	}
	if err != nil {
		respondError(w, err)
		return
	}
	defer lock.Release(context.WithoutCancel(r.Context()))

	s, err := h.store.Get(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	selected, err := change(s)
	if err != nil {
		respondError(w, err)
		return
	}

	s.Selected = selected
	s.UpdatedAt = time.Now().UTC()
	if err := h.store.Update(r.Context(), s); err != nil {
		respondError(w, err)
		return
	}
	httputil.OK(w, h.view(s))
}

// HandleGetDataset returns the session state
// GET /api/datasets/{id}
func (h *Handlers) HandleGetDataset(w http.ResponseWriter, r *http.Request) {
	s, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	httputil.OK(w, h.view(s))
}

// HandleDeleteDataset drops a session
// DELETE /api/datasets/{id}
func (h *Handlers) HandleDeleteDataset(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	httputil.NoContent(w)
}

// ColumnsRequest replaces the selection.
type ColumnsRequest struct {
	Columns []string `json:"columns"`
}

// HandleSetColumns replaces the selected columns
// PUT /api/datasets/{id}/columns
func (h *Handlers) HandleSetColumns(w http.ResponseWriter, r *http.Request) {
	var req ColumnsRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	h.updateSelection(w, r, func(s *session.Session) ([]string, error) {
		return selection.Set(s.Headers, req.Columns)
	})
}

// ToggleRequest names one column to add to or remove from the selection.
type ToggleRequest struct {
	Column string `json:"column"`
}

// HandleToggleColumn flips one column in the selection
// POST /api/datasets/{id}/columns/toggle
func (h *Handlers) HandleToggleColumn(w http.ResponseWriter, r *http.Request) {
	var req ToggleRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	h.updateSelection(w, r, func(s *session.Session) ([]string, error) {
		if !hasColumn(s.Headers, req.Column) {
			return nil, &unknownColumnError{column: req.Column}
		}
		return selection.Toggle(s.Selected, req.Column), nil
	})
}

// HandleApplyPreset selects the columns of a named preset
// POST /api/datasets/{id}/presets/{name}
func (h *Handlers) HandleApplyPreset(w http.ResponseWriter, r *http.Request) {
	preset, err := h.presets.Lookup(chi.URLParam(r, "name"))
	if err != nil {
		httputil.Notice(w, http.StatusNotFound, codeUnknownPreset, err.Error(), h.presets.Names())
		return
	}
	h.updateSelection(w, r, func(s *session.Session) ([]string, error) {
		return selection.Apply(preset, s.Headers)
	})
}

func hasColumn(headers []string, column string) bool {
	for _, h := range headers {
		if h == column {
			return true
		}
	}
	return false
}

// =============================================================================
// DUPLICATES & EXPORT
// =============================================================================

// DuplicateRow is one row of the duplicates listing.
type DuplicateRow struct {
	dupcheck.FlaggedRecord
	Summary string `json:"summary"`
}

// MarshalJSON keeps the flattened row shape and adds the summary.
func (d DuplicateRow) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Values)+3)
	for k, v := range d.Values {
		out[k] = v
	}
	out["isDuplicate"] = d.IsDuplicate
	out["dupGroup"] = d.DupGroup
	out["summary"] = d.Summary
	return json.Marshal(out)
}

// DuplicatesResponse is a page of duplicate rows plus the group overview.
type DuplicatesResponse struct {
	PaginatedResponse
	Groups   []dupcheck.Group `json:"groups"`
	Stats    dupcheck.Stats   `json:"stats"`
	Headline string           `json:"headline"`
	Columns  string           `json:"columns"`
}

// HandleListDuplicates returns the duplicate rows page by page
// GET /api/datasets/{id}/duplicates?page=1&limit=100
func (h *Handlers) HandleListDuplicates(w http.ResponseWriter, r *http.Request) {
	s, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	result := s.Detect(h.detector)
	stats := dupcheck.Summary(result, s.Selected)
	params := ParsePagination(r, len(result.Duplicates))

	page := result.Duplicates[params.Offset:params.End]
	rows := make([]DuplicateRow, 0, len(page))
	for _, d := range page {
		rows = append(rows, DuplicateRow{FlaggedRecord: d, Summary: rowSummary(d.Values, s.Selected)})
	}

	httputil.OK(w, DuplicatesResponse{
		PaginatedResponse: NewPaginatedResponse(rows, params, len(result.Duplicates)),
		Groups:            result.Groups,
		Stats:             stats,
		Headline:          stats.Headline(),
		Columns:           stats.ColumnsLabel(),
	})
}

// rowSummary renders the compared values of a row as "col: value | col: value".
func rowSummary(values dupcheck.Record, columns []string) string {
	parts := make([]string, 0, len(columns))
	for _, c := range columns {
		if c == "" {
			continue
		}
		parts = append(parts, c+": "+values[c])
	}
	return strings.Join(parts, " | ")
}

func (h *Handlers) exportSession(w http.ResponseWriter, r *http.Request) (*session.Session, string, []byte, bool) {
	s, ok := h.loadSession(w, r)
	if !ok {
		return nil, "", nil, false
	}

	suffix := r.URL.Query().Get("suffix")
	if suffix == "" {
		suffix = h.suffix
	}

	var buf bytes.Buffer
	if err := dataset.Export(&buf, s.Headers, s.Detect(h.detector)); err != nil {
		respondError(w, err)
		return nil, "", nil, false
	}
	return s, dataset.ExportFileName(s.FileName, suffix), buf.Bytes(), true
}

// HandleExport downloads the duplicate rows as CSV
// GET /api/datasets/{id}/export?suffix=duplicates
func (h *Handlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	s, name, body, ok := h.exportSession(w, r)
	if !ok {
		return
	}

	h.log.Info("Export downloaded", "session_id", s.ID, "file_name", name, "bytes", len(body))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// HandleArchiveExport writes the export to the configured S3 bucket
// POST /api/datasets/{id}/export/archive
func (h *Handlers) HandleArchiveExport(w http.ResponseWriter, r *http.Request) {
	if h.archiver == nil {
		httputil.Error(w, http.StatusNotImplemented, "export archiving is not configured")
		return
	}
	s, name, body, ok := h.exportSession(w, r)
	if !ok {
		return
	}

	key, err := h.archiver.Put(r.Context(), name, body)
	if err != nil {
		respondError(w, fmt.Errorf("archiving export for session %s: %w", s.ID, err))
		return
	}
	httputil.Created(w, map[string]any{
		"file_name": name,
		"key":       key,
		"bytes":     len(body),
	})
}
