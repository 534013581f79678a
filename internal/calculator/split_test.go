package calculator

import (
	"math"
	"reflect"
	"testing"

	"github.com/patungan/splitbill/internal/models"
)

func TestAllocate(t *testing.T) {
	tests := []struct {
		name         string
		snap         models.SessionSnapshot
		validateFunc func(t *testing.T, summary models.Summary)
	}{
		{
			name: "two people proportional tax",
			snap: models.SessionSnapshot{
				Items: []models.Item{
					{Name: "Pizza", Quantity: 2, TotalPrice: 20},
					{Name: "Beer", Quantity: 1, TotalPrice: 10},
				},
				People: []models.Person{{Name: "Alice"}, {Name: "Bob"}},
				Shares: []models.ShareRecord{
					{Person: "Alice", Item: "Pizza", Quantity: 1},
					{Person: "Bob", Item: "Pizza", Quantity: 1},
					{Person: "Bob", Item: "Beer", Quantity: 1},
				},
				TaxTotal: 3,
			},
			validateFunc: func(t *testing.T, summary models.Summary) {
				// Alice: subtotal = 10, tax = 10/30*3 = 1, total = 11
				// Bob: subtotal = 20, tax = 20/30*3 = 2, total = 22
				alice := findPerson(t, summary, "Alice")
				if math.Abs(alice.Subtotal-10.0) > 0.01 {
					t.Errorf("Alice subtotal = %v, want 10.0", alice.Subtotal)
				}
				if math.Abs(alice.TaxShare-1.0) > 0.01 {
					t.Errorf("Alice tax = %v, want 1.0", alice.TaxShare)
				}
				if math.Abs(alice.Total-11.0) > 0.01 {
					t.Errorf("Alice total = %v, want 11.0", alice.Total)
				}

				bob := findPerson(t, summary, "Bob")
				if math.Abs(bob.Subtotal-20.0) > 0.01 {
					t.Errorf("Bob subtotal = %v, want 20.0", bob.Subtotal)
				}
				if math.Abs(bob.TaxShare-2.0) > 0.01 {
					t.Errorf("Bob tax = %v, want 2.0", bob.TaxShare)
				}
				if math.Abs(bob.Total-22.0) > 0.01 {
					t.Errorf("Bob total = %v, want 22.0", bob.Total)
				}

				if math.Abs(summary.Subtotal-30.0) > 0.01 {
					t.Errorf("summary subtotal = %v, want 30.0", summary.Subtotal)
				}
				if math.Abs(summary.GrandTotal-33.0) > 0.01 {
					t.Errorf("grand total = %v, want 33.0", summary.GrandTotal)
				}
			},
		},
		{
			name: "fractional quantities",
			snap: models.SessionSnapshot{
				Items:  []models.Item{{Name: "Nasi Goreng", Quantity: 2, TotalPrice: 50}},
				People: []models.Person{{Name: "Alice"}},
				Shares: []models.ShareRecord{
					{Person: "Alice", Item: "Nasi Goreng", Quantity: 0.5},
				},
			},
			validateFunc: func(t *testing.T, summary models.Summary) {
				alice := findPerson(t, summary, "Alice")
				if math.Abs(alice.Subtotal-12.5) > 0.01 {
					t.Errorf("subtotal = %v, want 12.5", alice.Subtotal)
				}
				if len(alice.Lines) != 1 {
					t.Fatalf("expected 1 line, got %d", len(alice.Lines))
				}
				if math.Abs(alice.Lines[0].UnitPrice-25.0) > 0.01 {
					t.Errorf("unit price = %v, want 25.0", alice.Lines[0].UnitPrice)
				}
			},
		},
		{
			name: "zero total subtotal yields zero tax for everyone",
			snap: models.SessionSnapshot{
				Items:  []models.Item{{Name: "Water", Quantity: 2, TotalPrice: 0}},
				People: []models.Person{{Name: "Alice"}, {Name: "Bob"}},
				Shares: []models.ShareRecord{
					{Person: "Alice", Item: "Water", Quantity: 1},
					{Person: "Bob", Item: "Water", Quantity: 1},
				},
				TaxTotal: 5,
			},
			validateFunc: func(t *testing.T, summary models.Summary) {
				if len(summary.People) != 2 {
					t.Fatalf("expected 2 people, got %d", len(summary.People))
				}
				for _, p := range summary.People {
					if p.TaxShare != 0 {
						t.Errorf("%s tax share = %v, want 0", p.Name, p.TaxShare)
					}
				}
			},
		},
		{
			name: "people without assignments are omitted",
			snap: models.SessionSnapshot{
				Items:  []models.Item{{Name: "Pizza", Quantity: 1, TotalPrice: 10}},
				People: []models.Person{{Name: "Alice"}, {Name: "Ghost"}},
				Shares: []models.ShareRecord{
					{Person: "Alice", Item: "Pizza", Quantity: 1},
				},
				TaxTotal: 1,
			},
			validateFunc: func(t *testing.T, summary models.Summary) {
				if len(summary.People) != 1 {
					t.Fatalf("expected 1 person, got %d", len(summary.People))
				}
				if summary.People[0].Name != "Alice" {
					t.Errorf("person = %q, want Alice", summary.People[0].Name)
				}
			},
		},
		{
			name: "empty snapshot",
			snap: models.SessionSnapshot{TaxTotal: 3},
			validateFunc: func(t *testing.T, summary models.Summary) {
				if len(summary.People) != 0 {
					t.Errorf("expected no people, got %d", len(summary.People))
				}
				if summary.Subtotal != 0 {
					t.Errorf("subtotal = %v, want 0", summary.Subtotal)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := Allocate(tt.snap)
			tt.validateFunc(t, summary)
		})
	}
}

// Tax shares must add back up to the tax input whenever the subtotal is
// positive.
func TestAllocateTaxConservation(t *testing.T) {
	snap := models.SessionSnapshot{
		Items: []models.Item{
			{Name: "Satay", Quantity: 10, TotalPrice: 37.5},
			{Name: "Juice", Quantity: 3, TotalPrice: 11},
		},
		People: []models.Person{{Name: "A"}, {Name: "B"}, {Name: "C"}},
		Shares: []models.ShareRecord{
			{Person: "A", Item: "Satay", Quantity: 3},
			{Person: "B", Item: "Satay", Quantity: 5},
			{Person: "C", Item: "Satay", Quantity: 2},
			{Person: "A", Item: "Juice", Quantity: 1},
			{Person: "C", Item: "Juice", Quantity: 2},
		},
		TaxTotal: 7.25,
	}

	summary := Allocate(snap)

	taxSum := 0.0
	for _, p := range summary.People {
		taxSum += p.TaxShare
	}
	if math.Abs(taxSum-snap.TaxTotal) > 0.01 {
		t.Errorf("sum of tax shares = %v, want %v", taxSum, snap.TaxTotal)
	}
}

// Allocate is pure: two calls on the same snapshot produce identical output.
func TestAllocateDeterministic(t *testing.T) {
	snap := models.SessionSnapshot{
		Items:  []models.Item{{Name: "Pizza", Quantity: 2, TotalPrice: 20}},
		People: []models.Person{{Name: "Alice"}, {Name: "Bob"}},
		Shares: []models.ShareRecord{
			{Person: "Alice", Item: "Pizza", Quantity: 1},
			{Person: "Bob", Item: "Pizza", Quantity: 0.5},
		},
		TaxTotal: 2,
	}

	first := Allocate(snap)
	second := Allocate(snap)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Allocate not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func findPerson(t *testing.T, summary models.Summary, name string) models.PersonBreakdown {
	t.Helper()
	for _, p := range summary.People {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("person %q not in summary", name)
	return models.PersonBreakdown{}
}
