// Package sqlite provides a SQLite-backed implementation of the
// storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/patungan/splitbill/internal/models"
	"github.com/patungan/splitbill/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveSession persists a snapshot, replacing any prior save under the same
// ID so repeated saves behave like an upsert.
func (s *SQLiteStore) SaveSession(ctx context.Context, snap *models.SessionSnapshot) error {
	if snap.ID == "" {
		snap.ID = uuid.New().String()
	}
	snap.SavedAt = time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Replacing the session row cascades away all child rows.
	if _, err := tx.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", snap.ID); err != nil {
		return fmt.Errorf("failed to clear previous save: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions
		 (id, saved_at, restaurant_name, restaurant_phone, restaurant_address,
		  initiator_name, initiator_email, tax_total)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.SavedAt,
		snap.Restaurant.Name, snap.Restaurant.Phone, snap.Restaurant.Address,
		snap.Initiator.Name, snap.Initiator.Email, snap.TaxTotal,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	for i, item := range snap.Items {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO session_items (session_id, position, name, quantity, total_price) VALUES (?, ?, ?, ?, ?)",
			snap.ID, i, item.Name, item.Quantity, item.TotalPrice,
		)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}
	}

	for i, person := range snap.People {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO session_people (session_id, position, name, email) VALUES (?, ?, ?, ?)",
			snap.ID, i, person.Name, person.Email,
		)
		if err != nil {
			return fmt.Errorf("failed to insert person: %w", err)
		}
	}

	for i, share := range snap.Shares {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO session_shares (session_id, position, person, item, quantity) VALUES (?, ?, ?, ?, ?)",
			snap.ID, i, share.Person, share.Item, share.Quantity,
		)
		if err != nil {
			return fmt.Errorf("failed to insert share: %w", err)
		}
	}

	for i, acc := range snap.Initiator.Accounts {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO session_accounts (session_id, position, label, detail) VALUES (?, ?, ?, ?)",
			snap.ID, i, acc.Label, acc.Detail,
		)
		if err != nil {
			return fmt.Errorf("failed to insert account: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// LoadSession retrieves a snapshot by ID, including items, people, shares,
// and payment accounts in their saved order.
func (s *SQLiteStore) LoadSession(ctx context.Context, id string) (*models.SessionSnapshot, error) {
	snap := &models.SessionSnapshot{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, saved_at, restaurant_name, restaurant_phone, restaurant_address,
		        initiator_name, initiator_email, tax_total
		 FROM sessions WHERE id = ?`,
		id,
	).Scan(&snap.ID, &snap.SavedAt,
		&snap.Restaurant.Name, &snap.Restaurant.Phone, &snap.Restaurant.Address,
		&snap.Initiator.Name, &snap.Initiator.Email, &snap.TaxTotal)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT name, quantity, total_price FROM session_items WHERE session_id = ? ORDER BY position",
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(&item.Name, &item.Quantity, &item.TotalPrice); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		snap.Items = append(snap.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	peopleRows, err := s.db.QueryContext(ctx,
		"SELECT name, email FROM session_people WHERE session_id = ? ORDER BY position",
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get people: %w", err)
	}
	defer peopleRows.Close()
	for peopleRows.Next() {
		var person models.Person
		if err := peopleRows.Scan(&person.Name, &person.Email); err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		snap.People = append(snap.People, person)
	}
	if err := peopleRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate people: %w", err)
	}

	shareRows, err := s.db.QueryContext(ctx,
		"SELECT person, item, quantity FROM session_shares WHERE session_id = ? ORDER BY position",
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get shares: %w", err)
	}
	defer shareRows.Close()
	for shareRows.Next() {
		var share models.ShareRecord
		if err := shareRows.Scan(&share.Person, &share.Item, &share.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		snap.Shares = append(snap.Shares, share)
	}
	if err := shareRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shares: %w", err)
	}

	accRows, err := s.db.QueryContext(ctx,
		"SELECT label, detail FROM session_accounts WHERE session_id = ? ORDER BY position",
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get accounts: %w", err)
	}
	defer accRows.Close()
	for accRows.Next() {
		var acc models.PaymentAccount
		if err := accRows.Scan(&acc.Label, &acc.Detail); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		snap.Initiator.Accounts = append(snap.Initiator.Accounts, acc)
	}
	if err := accRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}

	return snap, nil
}

// ListSessions returns stored snapshot metadata, newest first.
func (s *SQLiteStore) ListSessions(ctx context.Context) ([]storage.SessionMeta, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, saved_at, restaurant_name FROM sessions ORDER BY saved_at DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var metas []storage.SessionMeta
	for rows.Next() {
		var meta storage.SessionMeta
		if err := rows.Scan(&meta.ID, &meta.SavedAt, &meta.RestaurantName); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		metas = append(metas, meta)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}
	return metas, nil
}

// DeleteSession removes a stored snapshot and all its child rows.
func (s *SQLiteStore) DeleteSession(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("session %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// SaveSMTPCredentials replaces the single stored credential record.
func (s *SQLiteStore) SaveSMTPCredentials(ctx context.Context, creds *storage.SMTPCredentials) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO smtp_credentials (id, host, port, username, password, from_addr)
		 VALUES (1, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   host = excluded.host, port = excluded.port,
		   username = excluded.username, password = excluded.password,
		   from_addr = excluded.from_addr`,
		creds.Host, creds.Port, creds.Username, creds.Password, creds.From,
	)
	if err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}
	return nil
}

// LoadSMTPCredentials retrieves the stored credential record.
func (s *SQLiteStore) LoadSMTPCredentials(ctx context.Context) (*storage.SMTPCredentials, error) {
	creds := &storage.SMTPCredentials{}
	err := s.db.QueryRowContext(ctx,
		"SELECT host, port, username, password, from_addr FROM smtp_credentials WHERE id = 1",
	).Scan(&creds.Host, &creds.Port, &creds.Username, &creds.Password, &creds.From)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("smtp credentials: %w", storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credentials: %w", err)
	}
	return creds, nil
}
