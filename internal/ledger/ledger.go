// Package ledger holds the authoritative in-memory table of items, people,
// and assignments for one split-bill session.
//
// All mutations are synchronous and fail without side effects. The ledger
// tracks a revision counter so callers can skip recomputing allocations
// when nothing changed.
package ledger

import (
	"strings"

	"github.com/patungan/splitbill/internal/models"
)

// Ledger owns all session state: items, people, assignments, the tax input,
// and the restaurant/initiator display records. It is not safe for
// concurrent use; a session serializes access to it.
type Ledger struct {
	items     map[string]*models.Item
	itemOrder []string

	people      map[string]*models.Person
	personOrder []string

	// shares[person][item] = assigned quantity.
	shares     map[string]map[string]float64
	shareOrder map[string][]string // per person, items in first-assigned order

	taxTotal   float64
	restaurant models.RestaurantInfo
	initiator  models.Initiator

	revision uint64
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{
		items:      make(map[string]*models.Item),
		people:     make(map[string]*models.Person),
		shares:     make(map[string]map[string]float64),
		shareOrder: make(map[string][]string),
	}
}

// Revision returns a counter that increases on every successful mutation.
// Equal revisions imply identical ledger contents.
func (l *Ledger) Revision() uint64 { return l.revision }

// UpsertItem creates an item or, when the name already exists, replaces its
// quantity and total price. Existing assignments against the item survive an
// update untouched.
func (l *Ledger) UpsertItem(name string, quantity, totalPrice float64) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &ValidationError{Field: "item name", Reason: "must not be empty"}
	}
	if quantity <= 0 {
		return &ValidationError{Field: "quantity", Reason: "must be > 0"}
	}
	if totalPrice < 0 {
		return &ValidationError{Field: "total price", Reason: "must be >= 0"}
	}

	if item, ok := l.items[name]; ok {
		item.Quantity = quantity
		item.TotalPrice = totalPrice
	} else {
		l.items[name] = &models.Item{Name: name, Quantity: quantity, TotalPrice: totalPrice}
		l.itemOrder = append(l.itemOrder, name)
	}
	l.revision++
	return nil
}

// UpsertPerson creates a person or updates the email of an existing one.
func (l *Ledger) UpsertPerson(name, email string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &ValidationError{Field: "person name", Reason: "must not be empty"}
	}

	if person, ok := l.people[name]; ok {
		person.Email = strings.TrimSpace(email)
	} else {
		l.people[name] = &models.Person{Name: name, Email: strings.TrimSpace(email)}
		l.personOrder = append(l.personOrder, name)
	}
	l.revision++
	return nil
}

// AssignAdditive adds deltaQty to the assignment of item to person.
// Both must already exist. A negative delta is accepted for symmetry with
// the exact-set path, though reducing a share is normally done via
// AssignExact. Over-allocating beyond the item's quantity is permitted;
// RemainingQty simply goes negative.
func (l *Ledger) AssignAdditive(itemName, personName string, deltaQty float64) error {
	if err := l.checkRefs(itemName, personName); err != nil {
		return err
	}
	l.ensureShare(personName, itemName)
	l.shares[personName][itemName] += deltaQty
	l.revision++
	return nil
}

// AssignExact sets the assignment of item to person to exactly qty.
// Setting qty to 0 removes the assignment record entirely, so the pair no
// longer appears in listings or breakdowns.
func (l *Ledger) AssignExact(itemName, personName string, qty float64) error {
	if err := l.checkRefs(itemName, personName); err != nil {
		return err
	}
	if qty < 0 {
		return &ValidationError{Field: "quantity", Reason: "must be >= 0"}
	}
	if qty == 0 {
		l.removeShare(personName, itemName)
	} else {
		l.ensureShare(personName, itemName)
		l.shares[personName][itemName] = qty
	}
	l.revision++
	return nil
}

// SetTaxTotal sets the total tax/service amount to split across payers.
func (l *Ledger) SetTaxTotal(amount float64) error {
	if amount < 0 {
		return &ValidationError{Field: "tax total", Reason: "must be >= 0"}
	}
	l.taxTotal = amount
	l.revision++
	return nil
}

// TaxTotal returns the current tax input.
func (l *Ledger) TaxTotal() float64 { return l.taxTotal }

// SetRestaurant replaces the restaurant display record.
func (l *Ledger) SetRestaurant(info models.RestaurantInfo) {
	l.restaurant = info
	l.revision++
}

// Restaurant returns the restaurant display record.
func (l *Ledger) Restaurant() models.RestaurantInfo { return l.restaurant }

// SetInitiator replaces the initiator's name and email, keeping any
// payment accounts already added.
func (l *Ledger) SetInitiator(name, email string) {
	l.initiator.Name = strings.TrimSpace(name)
	l.initiator.Email = strings.TrimSpace(email)
	l.revision++
}

// AddPaymentAccount appends a payment account to the initiator.
// Blank label or detail is silently ignored, matching the permissive
// free-text nature of the record.
func (l *Ledger) AddPaymentAccount(label, detail string) {
	label, detail = strings.TrimSpace(label), strings.TrimSpace(detail)
	if label == "" || detail == "" {
		return
	}
	l.initiator.Accounts = append(l.initiator.Accounts, models.PaymentAccount{Label: label, Detail: detail})
	l.revision++
}

// Initiator returns the initiator record including payment accounts.
func (l *Ledger) Initiator() models.Initiator { return l.initiator }

// Items returns all items in first-added order.
func (l *Ledger) Items() []models.Item {
	out := make([]models.Item, 0, len(l.itemOrder))
	for _, name := range l.itemOrder {
		out = append(out, *l.items[name])
	}
	return out
}

// People returns all people in first-added order.
func (l *Ledger) People() []models.Person {
	out := make([]models.Person, 0, len(l.personOrder))
	for _, name := range l.personOrder {
		out = append(out, *l.people[name])
	}
	return out
}

// Shares returns every assignment row: people in first-added order, and
// each person's items in first-assigned order.
func (l *Ledger) Shares() []models.ShareRecord {
	var out []models.ShareRecord
	for _, person := range l.personOrder {
		for _, item := range l.shareOrder[person] {
			out = append(out, models.ShareRecord{
				Person:   person,
				Item:     item,
				Quantity: l.shares[person][item],
			})
		}
	}
	return out
}

// RemainingQty returns the item's quantity minus everything assigned so
// far. Display-only: the value can be negative because over-allocation is
// not rejected.
func (l *Ledger) RemainingQty(itemName string) (float64, error) {
	item, ok := l.items[itemName]
	if !ok {
		return 0, &NotFoundError{Kind: "item", Name: itemName}
	}
	used := 0.0
	for _, byItem := range l.shares {
		used += byItem[itemName]
	}
	return item.Quantity - used, nil
}

// Snapshot flattens the ledger into a storage- and allocation-friendly
// value. Mutating the snapshot does not affect the ledger.
func (l *Ledger) Snapshot() models.SessionSnapshot {
	return models.SessionSnapshot{
		Restaurant: l.restaurant,
		Initiator:  l.initiator,
		Items:      l.Items(),
		People:     l.People(),
		Shares:     l.Shares(),
		TaxTotal:   l.taxTotal,
	}
}

// Restore replaces the entire ledger contents with the snapshot's.
func (l *Ledger) Restore(snap models.SessionSnapshot) {
	l.items = make(map[string]*models.Item, len(snap.Items))
	l.itemOrder = l.itemOrder[:0]
	for _, item := range snap.Items {
		item := item
		l.items[item.Name] = &item
		l.itemOrder = append(l.itemOrder, item.Name)
	}

	l.people = make(map[string]*models.Person, len(snap.People))
	l.personOrder = l.personOrder[:0]
	for _, person := range snap.People {
		person := person
		l.people[person.Name] = &person
		l.personOrder = append(l.personOrder, person.Name)
	}

	l.shares = make(map[string]map[string]float64)
	l.shareOrder = make(map[string][]string)
	for _, share := range snap.Shares {
		l.ensureShare(share.Person, share.Item)
		l.shares[share.Person][share.Item] = share.Quantity
	}

	l.taxTotal = snap.TaxTotal
	l.restaurant = snap.Restaurant
	l.initiator = snap.Initiator
	l.revision++
}

// Reset discards all session state.
func (l *Ledger) Reset() {
	l.Restore(models.SessionSnapshot{})
}

func (l *Ledger) checkRefs(itemName, personName string) error {
	if _, ok := l.items[itemName]; !ok {
		return &NotFoundError{Kind: "item", Name: itemName}
	}
	if _, ok := l.people[personName]; !ok {
		return &NotFoundError{Kind: "person", Name: personName}
	}
	return nil
}

func (l *Ledger) ensureShare(person, item string) {
	if l.shares[person] == nil {
		l.shares[person] = make(map[string]float64)
	}
	if _, ok := l.shares[person][item]; !ok {
		l.shareOrder[person] = append(l.shareOrder[person], item)
	}
}

func (l *Ledger) removeShare(person, item string) {
	if _, ok := l.shares[person][item]; !ok {
		return
	}
	delete(l.shares[person], item)
	order := l.shareOrder[person]
	for i, name := range order {
		if name == item {
			l.shareOrder[person] = append(order[:i], order[i+1:]...)
			break
		}
	}
}
