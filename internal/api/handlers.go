package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ignite/csv-dupcheck/internal/dupcheck"
	"github.com/ignite/csv-dupcheck/internal/pkg/distlock"
	"github.com/ignite/csv-dupcheck/internal/pkg/httputil"
	"github.com/ignite/csv-dupcheck/internal/pkg/logger"
	"github.com/ignite/csv-dupcheck/internal/selection"
	"github.com/ignite/csv-dupcheck/internal/session"
)

// Archiver stores an export file and returns where it was written.
type Archiver interface {
	Put(ctx context.Context, name string, body []byte) (string, error)
}

const (
	// lockTTL bounds how long a selection update may hold a session lock.
	lockTTL = 10 * time.Second
	// lockWait is how long a request waits for a busy session.
	lockWait = 5 * time.Second
)

// Options configures Handlers. Store and Presets are required.
type Options struct {
	Store        session.Store
	Presets      *selection.Catalog
	Detector     *dupcheck.Detector
	Archiver     Archiver         // nil disables archiving
	Locks        distlock.Factory // nil uses in-process locks
	SessionTTL   time.Duration
	MaxBytes     int64
	ExportSuffix string
}

// Handlers contains all HTTP handlers
type Handlers struct {
	store    session.Store
	presets  *selection.Catalog
	detector *dupcheck.Detector
	archiver Archiver
	locks    distlock.Factory
	lockWait time.Duration
	ttl      time.Duration
	maxBytes int64
	suffix   string
	log      *logger.Logger
}

// NewHandlers creates a new handlers instance
func NewHandlers(opts Options) *Handlers {
	h := &Handlers{
		store:    opts.Store,
		presets:  opts.Presets,
		detector: opts.Detector,
		archiver: opts.Archiver,
		locks:    opts.Locks,
		lockWait: lockWait,
		ttl:      opts.SessionTTL,
		maxBytes: opts.MaxBytes,
		suffix:   opts.ExportSuffix,
		log:      logger.New("api"),
	}
	if h.detector == nil {
		h.detector = dupcheck.NewDetector(nil)
	}
	if h.locks == nil {
		h.locks = distlock.NewFactory(nil, lockTTL)
	}
	if h.ttl <= 0 {
		h.ttl = session.DefaultTTL
	}
	if h.maxBytes <= 0 {
		h.maxBytes = 50 << 20
	}
	return h
}

// HealthCheck returns the health status
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
		"archive":   h.archiver != nil,
	})
}

// ListPresets returns the configured column presets
// GET /api/presets
func (h *Handlers) ListPresets(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]any{
		"presets": h.presets.List(),
	})
}

// DetectRequest is the body of a stateless detection call. Rows and columns
// are decoded leniently, see dupcheck.DecodeRows and dupcheck.DecodeColumns.
type DetectRequest struct {
	Rows    json.RawMessage `json:"rows"`
	Columns json.RawMessage `json:"columns"`
}

// DetectResponse carries the detection result and its summary.
type DetectResponse struct {
	dupcheck.Result
	Stats    dupcheck.Stats `json:"stats"`
	Headline string         `json:"headline"`
}

// Detect runs duplicate detection over rows posted in the request body
// POST /api/detect
func (h *Handlers) Detect(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	var body json.RawMessage
	if !httputil.Decode(w, r, &body) {
		return
	}
	// A body that is valid JSON but not an object is treated as empty input.
	var req DetectRequest
	_ = json.Unmarshal(body, &req)

	rows := dupcheck.DecodeRows(req.Rows)
	columns := dupcheck.DecodeColumns(req.Columns)
	result := h.detector.Detect(rows, columns)
	stats := dupcheck.Summary(result, columns)
	httputil.OK(w, DetectResponse{
		Result:   result,
		Stats:    stats,
		Headline: stats.Headline(),
	})
}
