package models

// ShareRecord is one assignment row in flat form: person took Quantity
// of Item.
type ShareRecord struct {
	Person   string
	Item     string
	Quantity float64
}

// SessionSnapshot is the flat, storage-friendly form of a session.
// It carries everything needed to rebuild the ledger exactly, in the
// original insertion orders.
type SessionSnapshot struct {
	// ID is the session identifier (UUID format).
	ID string

	// SavedAt is the Unix timestamp when the snapshot was persisted.
	// The store populates it on save.
	SavedAt int64

	Restaurant RestaurantInfo
	Initiator  Initiator

	// Items in the order they were first added.
	Items []Item

	// People in the order they were first added.
	People []Person

	// Shares in per-person assignment order.
	Shares []ShareRecord

	// TaxTotal is the tax/service amount for the whole bill.
	TaxTotal float64
}
