package models

// Item represents a single line item on the bill.
// The name doubles as the update key: adding an item under an existing name
// replaces its quantity and total price instead of creating a duplicate.
type Item struct {
	// Name is the unique identifier for the item within a session.
	Name string

	// Quantity is how many units were ordered. Always > 0.
	Quantity float64

	// TotalPrice is the price for the whole quantity, not per unit.
	TotalPrice float64
}

// UnitPrice returns the per-unit price (TotalPrice / Quantity).
// A zero quantity yields 0 rather than a division fault.
func (i Item) UnitPrice() float64 {
	if i.Quantity == 0 {
		return 0
	}
	return i.TotalPrice / i.Quantity
}
