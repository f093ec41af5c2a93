// Package session keeps uploaded datasets and their column selection between
// requests. Sessions are short-lived; they expire after a configured TTL.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ignite/csv-dupcheck/internal/dataset"
	"github.com/ignite/csv-dupcheck/internal/dupcheck"
)

var (
	ErrNotFound = errors.New("upload session not found")
	ErrExpired  = errors.New("upload session has expired")
)

// DefaultTTL applies when a store is created without one.
const DefaultTTL = time.Hour

// Session is one uploaded dataset plus the columns currently selected for
// comparison.
type Session struct {
	ID        string            `json:"id"`
	FileName  string            `json:"file_name"`
	Headers   []string          `json:"headers"`
	Rows      []dupcheck.Record `json:"rows"`
	Warnings  []string          `json:"warnings,omitempty"`
	Selected  []string          `json:"selected"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// New starts a session for ds with an empty selection.
func New(ds *dataset.Dataset, ttl time.Duration) *Session {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.New().String(),
		FileName:  ds.FileName,
		Headers:   ds.Headers,
		Rows:      ds.Rows,
		Warnings:  ds.Warnings,
		Selected:  []string{},
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Expired reports whether the session is past its expiry time.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// Detect runs duplicate detection over the session rows with the current
// selection.
func (s *Session) Detect(d *dupcheck.Detector) dupcheck.Result {
	if d == nil {
		return dupcheck.Detect(s.Rows, s.Selected)
	}
	return d.Detect(s.Rows, s.Selected)
}

// Store persists sessions for the lifetime of their TTL.
type Store interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Update(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}
