// Package reservation turns a batch of ticket requests into a priced,
// validated Reservation.  It performs no I/O.
package reservation

import (
	"fmt"

	"github.com/iliyamo/ticket-purchase-service/internal/catalog"
	"github.com/iliyamo/ticket-purchase-service/internal/model"
)

// MaxTicketsPerRequest bounds a single request's count so that summing
// requests cannot overflow.
const MaxTicketsPerRequest = 1 << 20

// AggregateCounts maps a category to the summed count of all requests for
// it.  Categories that were never requested are absent.
type AggregateCounts map[model.TicketCategory]int64

// Reservation is the validated outcome of a purchase request.  It is only
// ever returned fully built; all fields are read-only.
type Reservation struct {
	accountID  int64
	counts     AggregateCounts
	totalPrice int64
	totalSeats int64
}

// New validates the account and requests and builds a Reservation.  Checks
// run in a fixed order and the first failure is returned.
func New(accountID int64, requests ...model.TicketRequest) (*Reservation, error) {
	if accountID < 1 {
		return nil, fmt.Errorf("%w: account id %d must be at least 1", ErrInvalidAccount, accountID)
	}
	if len(requests) == 0 {
		return nil, fmt.Errorf("%w: at least one ticket request is required", ErrEmptyRequest)
	}

	counts, err := aggregate(requests)
	if err != nil {
		return nil, err
	}
	if len(counts) == 0 {
		return nil, fmt.Errorf("%w: every ticket request has a zero count", ErrEmptyRequest)
	}

	if err := validate(counts); err != nil {
		return nil, err
	}

	return &Reservation{
		accountID:  accountID,
		counts:     counts,
		totalPrice: priceOf(counts),
		totalSeats: seatsOf(counts),
	}, nil
}

func aggregate(requests []model.TicketRequest) (AggregateCounts, error) {
	counts := AggregateCounts{}
	for i, r := range requests {
		if !r.Category().Valid() {
			return nil, fmt.Errorf("request %d: %w: %q", i, model.ErrUnknownCategory, r.Category())
		}
		if r.Count() < 0 || r.Count() > MaxTicketsPerRequest {
			return nil, fmt.Errorf("request %d: %w: %d", i, ErrInvalidTicketCount, r.Count())
		}
		if r.Count() == 0 {
			continue
		}
		counts[r.Category()] += int64(r.Count())
	}
	return counts, nil
}

func validate(counts AggregateCounts) error {
	seats := seatsOf(counts)
	if seats > catalog.MaxSeatsPerPurchase {
		return fmt.Errorf("%w: %d seats requested, at most %d allowed",
			ErrTicketLimitExceeded, seats, catalog.MaxSeatsPerPurchase)
	}

	adults := counts[model.Adult]
	if counts[model.Child]+counts[model.Infant] > 0 && adults < 1 {
		return fmt.Errorf("%w: children and infants must be accompanied by an adult", ErrAdultRequired)
	}
	if counts[model.Infant] > adults {
		return fmt.Errorf("%w: %d infants for %d adults", ErrTooManyInfants, counts[model.Infant], adults)
	}
	return nil
}

func priceOf(counts AggregateCounts) int64 {
	var total int64
	for c, n := range counts {
		total += n * catalog.EntryFor(c).UnitPrice
	}
	return total
}

func seatsOf(counts AggregateCounts) int64 {
	var total int64
	for c, n := range counts {
		if catalog.EntryFor(c).RequiresSeat {
			total += n
		}
	}
	return total
}

func (r *Reservation) AccountID() int64  { return r.accountID }
func (r *Reservation) TotalPrice() int64 { return r.totalPrice }
func (r *Reservation) TotalSeats() int64 { return r.totalSeats }

// Count returns the aggregated count for c, zero when it was not requested.
func (r *Reservation) Count(c model.TicketCategory) int64 { return r.counts[c] }

// Counts returns a copy of the per-category totals.
func (r *Reservation) Counts() AggregateCounts {
	out := make(AggregateCounts, len(r.counts))
	for c, n := range r.counts {
		out[c] = n
	}
	return out
}
