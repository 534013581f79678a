package models

// BreakdownLine is one itemized row in a person's breakdown.
type BreakdownLine struct {
	// Item is the item name.
	Item string

	// Quantity is how much of the item this person took.
	Quantity float64

	// UnitPrice is the item's total price divided by its total quantity.
	UnitPrice float64

	// Amount is Quantity x UnitPrice.
	Amount float64
}

// PersonBreakdown is one person's calculated share of the bill.
// This is the output of the allocation pass.
type PersonBreakdown struct {
	// Name is the participant's name.
	Name string

	// Email is carried along so exporters need no ledger lookup.
	Email string

	// Lines are the items assigned to this person, in assignment order.
	Lines []BreakdownLine

	// Subtotal is the sum of line amounts (pre-tax).
	Subtotal float64

	// TaxShare is this person's proportional slice of the tax input:
	// subtotal / totalSubtotal * taxTotal, or 0 when totalSubtotal is 0.
	TaxShare float64

	// Total is Subtotal + TaxShare.
	Total float64
}

// Summary is the fully resolved session output: everything the image
// rasterizer and email builders need, with no reach-back into the ledger.
type Summary struct {
	Restaurant RestaurantInfo
	Initiator  Initiator

	// People holds one breakdown per participant with at least one
	// positive assignment, in the order people were first added.
	People []PersonBreakdown

	// Subtotal is the sum of every person's subtotal.
	Subtotal float64

	// TaxTotal is the tax input the shares were derived from.
	TaxTotal float64

	// GrandTotal is Subtotal + TaxTotal.
	GrandTotal float64
}

// Clone returns a deep copy. Callers may mutate the copy freely without
// affecting the original's slices.
func (s Summary) Clone() Summary {
	out := s
	if s.Initiator.Accounts != nil {
		out.Initiator.Accounts = append([]PaymentAccount(nil), s.Initiator.Accounts...)
	}
	if s.People != nil {
		out.People = make([]PersonBreakdown, len(s.People))
		for i, p := range s.People {
			cp := p
			if p.Lines != nil {
				cp.Lines = append([]BreakdownLine(nil), p.Lines...)
			}
			out.People[i] = cp
		}
	}
	return out
}
