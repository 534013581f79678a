// Package calculator computes per-person splits from a session snapshot.
// It holds no state: Allocate is a pure function, so equal snapshots always
// produce equal summaries.
package calculator

import "github.com/patungan/splitbill/internal/models"

// Allocate computes every person's itemized breakdown, subtotal,
// proportional tax share, and total.
//
// unit price     = item.TotalPrice / item.Quantity
// line amount    = assigned qty x unit price
// tax share      = person subtotal / total subtotal x tax total
// person total   = subtotal + tax share
//
// People whose assignments are all zero are omitted. When the total subtotal
// is zero the tax share is zero for everyone; there is no division by zero.
func Allocate(snap models.SessionSnapshot) models.Summary {
	items := make(map[string]models.Item, len(snap.Items))
	for _, item := range snap.Items {
		items[item.Name] = item
	}

	// Group share rows per person, preserving assignment order.
	sharesByPerson := make(map[string][]models.ShareRecord, len(snap.People))
	for _, share := range snap.Shares {
		sharesByPerson[share.Person] = append(sharesByPerson[share.Person], share)
	}

	summary := models.Summary{
		Restaurant: snap.Restaurant,
		Initiator:  snap.Initiator,
		TaxTotal:   snap.TaxTotal,
	}

	// First pass: subtotals and itemized lines, people in first-added order.
	for _, person := range snap.People {
		shares := sharesByPerson[person.Name]
		if !anyNonZero(shares) {
			continue
		}

		breakdown := models.PersonBreakdown{Name: person.Name, Email: person.Email}
		for _, share := range shares {
			unit := items[share.Item].UnitPrice()
			amount := share.Quantity * unit
			breakdown.Subtotal += amount
			if share.Quantity > 0 {
				breakdown.Lines = append(breakdown.Lines, models.BreakdownLine{
					Item:      share.Item,
					Quantity:  share.Quantity,
					UnitPrice: unit,
					Amount:    amount,
				})
			}
		}

		summary.Subtotal += breakdown.Subtotal
		summary.People = append(summary.People, breakdown)
	}

	// Second pass: proportional tax and totals.
	for i := range summary.People {
		p := &summary.People[i]
		if summary.Subtotal > 0 {
			p.TaxShare = p.Subtotal / summary.Subtotal * snap.TaxTotal
		}
		p.Total = p.Subtotal + p.TaxShare
	}

	summary.GrandTotal = summary.Subtotal + snap.TaxTotal
	return summary
}

func anyNonZero(shares []models.ShareRecord) bool {
	for _, s := range shares {
		if s.Quantity != 0 {
			return true
		}
	}
	return false
}
