// Package storage defines the narrow interface the server uses to persist
// session snapshots and SMTP credentials. The core never imports it;
// snapshots are saved and restored only on explicit request.
package storage

import (
	"context"
	"errors"

	"github.com/patungan/splitbill/internal/models"
)

// ErrNotFound is wrapped by Load/Delete when no record matches the key.
var ErrNotFound = errors.New("not found")

// SessionMeta describes one stored snapshot in listings.
type SessionMeta struct {
	ID             string
	SavedAt        int64
	RestaurantName string
}

// SMTPCredentials are the opaque transport credentials for the email
// collaborator. The core never generates or validates them.
type SMTPCredentials struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Store is the session/credential storage collaborator.
// Implementations must make SaveSession an upsert keyed by snapshot ID.
type Store interface {
	// SaveSession persists a snapshot, replacing any stored snapshot with
	// the same ID. It generates an ID when empty and stamps SavedAt.
	SaveSession(ctx context.Context, snap *models.SessionSnapshot) error

	// LoadSession retrieves a snapshot by ID.
	LoadSession(ctx context.Context, id string) (*models.SessionSnapshot, error)

	// ListSessions returns stored snapshot metadata, newest first.
	ListSessions(ctx context.Context) ([]SessionMeta, error)

	// DeleteSession removes a stored snapshot.
	DeleteSession(ctx context.Context, id string) error

	// SaveSMTPCredentials replaces the stored transport credentials.
	SaveSMTPCredentials(ctx context.Context, creds *SMTPCredentials) error

	// LoadSMTPCredentials retrieves the stored transport credentials.
	LoadSMTPCredentials(ctx context.Context) (*SMTPCredentials, error)

	// Close releases any resources held by the store.
	Close() error
}
