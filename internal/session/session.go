// Package session orchestrates one split-bill session: it applies commands
// to the ledger in order and hands out allocation summaries, recomputing
// them only when the ledger actually changed.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/patungan/splitbill/internal/calculator"
	"github.com/patungan/splitbill/internal/ledger"
	"github.com/patungan/splitbill/internal/models"
)

// Session owns one ledger and a memoized summary. Every operation runs
// synchronously to completion; the mutex only serializes callers, it adds
// no concurrent-editing semantics.
type Session struct {
	// ID identifies the session (UUID format).
	ID string

	// CreatedAt is when the session was opened.
	CreatedAt time.Time

	mu     sync.Mutex
	ledger *ledger.Ledger

	cached    models.Summary
	cachedRev uint64
	hasCached bool
}

// New opens an empty session with a fresh ID.
func New() *Session {
	return &Session{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		ledger:    ledger.New(),
	}
}

// Apply dispatches one command against the ledger. Errors are the ledger's
// own (ValidationError, NotFoundError) and leave the session unchanged.
func (s *Session) Apply(cmd Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch cmd.Kind {
	case KindUpsertItem:
		return s.ledger.UpsertItem(cmd.Item, cmd.Quantity, cmd.TotalPrice)
	case KindUpsertPerson:
		return s.ledger.UpsertPerson(cmd.Person, cmd.Email)
	case KindAssignAdditive:
		return s.ledger.AssignAdditive(cmd.Item, cmd.Person, cmd.Quantity)
	case KindAssignExact:
		return s.ledger.AssignExact(cmd.Item, cmd.Person, cmd.Quantity)
	case KindSetTax:
		return s.ledger.SetTaxTotal(cmd.Amount)
	case KindSetRestaurant:
		s.ledger.SetRestaurant(cmd.Restaurant)
		return nil
	case KindSetInitiator:
		s.ledger.SetInitiator(cmd.Person, cmd.Email)
		return nil
	case KindAddAccount:
		s.ledger.AddPaymentAccount(cmd.Label, cmd.Detail)
		return nil
	case KindReset:
		s.ledger.Reset()
		return nil
	default:
		return fmt.Errorf("unknown command kind %q", cmd.Kind)
	}
}

// Summary returns the allocation for the current ledger state. The result
// is cached against the ledger revision, so repeated calls without
// intervening mutations do no recomputation. Each call returns a deep copy
// so callers cannot corrupt the cache through the shared slices.
func (s *Session) Summary() models.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	rev := s.ledger.Revision()
	if !s.hasCached || s.cachedRev != rev {
		s.cached = calculator.Allocate(s.ledger.Snapshot())
		s.cachedRev = rev
		s.hasCached = true
	}
	return s.cached.Clone()
}

// Snapshot flattens the session for the storage collaborator.
func (s *Session) Snapshot() models.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.ledger.Snapshot()
	snap.ID = s.ID
	return snap
}

// Restore replaces the session contents with a stored snapshot.
// The session keeps its own ID; the snapshot's ID is only a storage key.
func (s *Session) Restore(snap models.SessionSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.Restore(snap)
}

// RemainingQty reports how much of an item is still unassigned.
// It can be negative because over-allocation is permitted.
func (s *Session) RemainingQty(item string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.RemainingQty(item)
}
