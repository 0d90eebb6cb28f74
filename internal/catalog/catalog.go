// Package catalog holds the fixed price list for ticket categories.
package catalog

import "github.com/iliyamo/ticket-purchase-service/internal/model"

// MaxSeatsPerPurchase caps the number of seated tickets in one purchase.
const MaxSeatsPerPurchase = 20

var entries = map[model.TicketCategory]model.CatalogEntry{
	model.Adult:  {Category: model.Adult, UnitPrice: 20, RequiresSeat: true},
	model.Child:  {Category: model.Child, UnitPrice: 10, RequiresSeat: true},
	model.Infant: {Category: model.Infant, UnitPrice: 0, RequiresSeat: false},
}

// EntryFor returns the price and seat requirement of a category.  Every
// valid category has an entry; callers validate the category first.
func EntryFor(c model.TicketCategory) model.CatalogEntry {
	return entries[c]
}

// Entries lists the whole catalog in display order.
func Entries() []model.CatalogEntry {
	cats := model.Categories()
	out := make([]model.CatalogEntry, 0, len(cats))
	for _, c := range cats {
		out = append(out, entries[c])
	}
	return out
}
