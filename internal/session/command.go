package session

import "github.com/patungan/splitbill/internal/models"

// Kind tags a command variant.
type Kind string

// Command kinds, one per mutating operation a session accepts.
const (
	KindUpsertItem     Kind = "upsert_item"
	KindUpsertPerson   Kind = "upsert_person"
	KindAssignAdditive Kind = "assign_additive"
	KindAssignExact    Kind = "assign_exact"
	KindSetTax         Kind = "set_tax"
	KindSetRestaurant  Kind = "set_restaurant"
	KindSetInitiator   Kind = "set_initiator"
	KindAddAccount     Kind = "add_account"
	KindReset          Kind = "reset"
)

// Command is a tagged request against a session's ledger. Only the fields
// relevant to its Kind are read; the constructors below set them.
type Command struct {
	Kind Kind

	Item       string
	Person     string
	Quantity   float64
	TotalPrice float64
	Email      string
	Amount     float64

	Restaurant models.RestaurantInfo
	Label      string
	Detail     string
}

// UpsertItem creates or replaces an item by name.
func UpsertItem(name string, quantity, totalPrice float64) Command {
	return Command{Kind: KindUpsertItem, Item: name, Quantity: quantity, TotalPrice: totalPrice}
}

// UpsertPerson creates a person or updates their email.
func UpsertPerson(name, email string) Command {
	return Command{Kind: KindUpsertPerson, Person: name, Email: email}
}

// AssignAdditive adds deltaQty to an assignment.
func AssignAdditive(item, person string, deltaQty float64) Command {
	return Command{Kind: KindAssignAdditive, Item: item, Person: person, Quantity: deltaQty}
}

// AssignExact sets an assignment to an exact quantity; zero removes it.
func AssignExact(item, person string, qty float64) Command {
	return Command{Kind: KindAssignExact, Item: item, Person: person, Quantity: qty}
}

// SetTax sets the bill-wide tax/service amount.
func SetTax(amount float64) Command {
	return Command{Kind: KindSetTax, Amount: amount}
}

// SetRestaurant replaces the restaurant display record.
func SetRestaurant(info models.RestaurantInfo) Command {
	return Command{Kind: KindSetRestaurant, Restaurant: info}
}

// SetInitiator sets the initiator's name and email.
func SetInitiator(name, email string) Command {
	return Command{Kind: KindSetInitiator, Person: name, Email: email}
}

// AddAccount appends a payment account to the initiator.
func AddAccount(label, detail string) Command {
	return Command{Kind: KindAddAccount, Label: label, Detail: detail}
}

// Reset discards all session state.
func Reset() Command {
	return Command{Kind: KindReset}
}
