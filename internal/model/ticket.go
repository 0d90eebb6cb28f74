package model

import (
	"errors"
	"strings"
)

// TicketCategory is the kind of ticket being bought.  The set is closed:
// only the constants below are valid.
type TicketCategory string

const (
	Adult  TicketCategory = "ADULT"
	Child  TicketCategory = "CHILD"
	Infant TicketCategory = "INFANT"
)

// ErrUnknownCategory is returned when a category outside the fixed set is
// supplied.
var ErrUnknownCategory = errors.New("unknown ticket category")

// Categories returns every ticket category in display order.
func Categories() []TicketCategory {
	return []TicketCategory{Adult, Child, Infant}
}

// Valid reports whether c is one of the known categories.
func (c TicketCategory) Valid() bool {
	switch c {
	case Adult, Child, Infant:
		return true
	}
	return false
}

// NormalizeTicketCategory maps a case-insensitive name such as " adult "
// onto its canonical form.  The result is not validated; unknown names are
// reported when the request is turned into a reservation.
func NormalizeTicketCategory(s string) TicketCategory {
	return TicketCategory(strings.ToUpper(strings.TrimSpace(s)))
}

// TicketRequest asks for Count tickets of a single category.  Several
// requests may name the same category; they are summed when a
// reservation is built.
type TicketRequest struct {
	category TicketCategory
	count    int
}

// NewTicketRequest builds a request.  Validation happens when the request
// is turned into a reservation, so any values are accepted here.
func NewTicketRequest(category TicketCategory, count int) TicketRequest {
	return TicketRequest{category: category, count: count}
}

func (r TicketRequest) Category() TicketCategory { return r.category }
func (r TicketRequest) Count() int               { return r.count }

// CatalogEntry holds the fixed commercial terms of a category.
type CatalogEntry struct {
	Category     TicketCategory `json:"type"`
	UnitPrice    int64          `json:"price"`
	RequiresSeat bool           `json:"requires_seat"`
}
