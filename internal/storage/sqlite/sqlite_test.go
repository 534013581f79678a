package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/patungan/splitbill/internal/models"
	"github.com/patungan/splitbill/internal/storage"
)

func TestSQLiteStore(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "splitbill-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	dbPath := filepath.Join(tempDir, "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	t.Run("SaveSession generates ID and timestamp", func(t *testing.T) {
		snap := &models.SessionSnapshot{
			Items:  []models.Item{{Name: "Pizza", Quantity: 2, TotalPrice: 20}},
			People: []models.Person{{Name: "Alice"}},
		}

		if err := store.SaveSession(ctx, snap); err != nil {
			t.Fatalf("SaveSession failed: %v", err)
		}
		if snap.ID == "" {
			t.Error("Expected session ID to be generated")
		}
		if snap.SavedAt == 0 {
			t.Error("Expected SavedAt to be set")
		}
	})

	t.Run("LoadSession round-trips the full snapshot", func(t *testing.T) {
		original := &models.SessionSnapshot{
			Restaurant: models.RestaurantInfo{Name: "Warung Sari", Phone: "021-555", Address: "Jl. Melati 5"},
			Initiator: models.Initiator{
				Name:  "Dian",
				Email: "dian@example.com",
				Accounts: []models.PaymentAccount{
					{Label: "BCA", Detail: "123-456"},
					{Label: "DANA", Detail: "0812-000"},
				},
			},
			Items: []models.Item{
				{Name: "Pizza", Quantity: 2, TotalPrice: 20},
				{Name: "Beer", Quantity: 1, TotalPrice: 10},
			},
			People: []models.Person{
				{Name: "Alice", Email: "alice@example.com"},
				{Name: "Bob"},
			},
			Shares: []models.ShareRecord{
				{Person: "Alice", Item: "Pizza", Quantity: 1},
				{Person: "Bob", Item: "Pizza", Quantity: 1},
				{Person: "Bob", Item: "Beer", Quantity: 1},
			},
			TaxTotal: 3,
		}

		if err := store.SaveSession(ctx, original); err != nil {
			t.Fatalf("SaveSession failed: %v", err)
		}

		loaded, err := store.LoadSession(ctx, original.ID)
		if err != nil {
			t.Fatalf("LoadSession failed: %v", err)
		}

		if !reflect.DeepEqual(loaded, original) {
			t.Errorf("round trip mismatch:\nsaved:  %+v\nloaded: %+v", original, loaded)
		}
	})

	t.Run("SaveSession replaces previous save", func(t *testing.T) {
		snap := &models.SessionSnapshot{
			Items: []models.Item{{Name: "Pizza", Quantity: 2, TotalPrice: 20}},
		}
		if err := store.SaveSession(ctx, snap); err != nil {
			t.Fatalf("SaveSession failed: %v", err)
		}

		snap.Items = []models.Item{{Name: "Sushi", Quantity: 1, TotalPrice: 15}}
		if err := store.SaveSession(ctx, snap); err != nil {
			t.Fatalf("second SaveSession failed: %v", err)
		}

		loaded, err := store.LoadSession(ctx, snap.ID)
		if err != nil {
			t.Fatalf("LoadSession failed: %v", err)
		}
		if len(loaded.Items) != 1 || loaded.Items[0].Name != "Sushi" {
			t.Errorf("items = %+v, want single Sushi item", loaded.Items)
		}
	})

	t.Run("LoadSession unknown ID", func(t *testing.T) {
		_, err := store.LoadSession(ctx, "missing")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("ListSessions returns metadata", func(t *testing.T) {
		metas, err := store.ListSessions(ctx)
		if err != nil {
			t.Fatalf("ListSessions failed: %v", err)
		}
		if len(metas) == 0 {
			t.Fatal("expected stored sessions in listing")
		}
		for _, meta := range metas {
			if meta.ID == "" || meta.SavedAt == 0 {
				t.Errorf("incomplete meta: %+v", meta)
			}
		}
	})

	t.Run("DeleteSession", func(t *testing.T) {
		snap := &models.SessionSnapshot{}
		if err := store.SaveSession(ctx, snap); err != nil {
			t.Fatalf("SaveSession failed: %v", err)
		}
		if err := store.DeleteSession(ctx, snap.ID); err != nil {
			t.Fatalf("DeleteSession failed: %v", err)
		}
		if _, err := store.LoadSession(ctx, snap.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("load after delete = %v, want ErrNotFound", err)
		}
		if err := store.DeleteSession(ctx, snap.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("double delete = %v, want ErrNotFound", err)
		}
	})

	t.Run("SMTP credentials round trip", func(t *testing.T) {
		if _, err := store.LoadSMTPCredentials(ctx); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("empty load = %v, want ErrNotFound", err)
		}

		creds := &storage.SMTPCredentials{
			Host:     "smtp.example.com",
			Port:     587,
			Username: "mailer",
			Password: "secret",
			From:     "bills@example.com",
		}
		if err := store.SaveSMTPCredentials(ctx, creds); err != nil {
			t.Fatalf("SaveSMTPCredentials failed: %v", err)
		}

		// Second save overwrites the single record.
		creds.Port = 465
		if err := store.SaveSMTPCredentials(ctx, creds); err != nil {
			t.Fatalf("second SaveSMTPCredentials failed: %v", err)
		}

		loaded, err := store.LoadSMTPCredentials(ctx)
		if err != nil {
			t.Fatalf("LoadSMTPCredentials failed: %v", err)
		}
		if !reflect.DeepEqual(loaded, creds) {
			t.Errorf("credentials = %+v, want %+v", loaded, creds)
		}
	})
}
