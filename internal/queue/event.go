// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names used when no override is configured.
const (
	DefaultSeatQueue     = "seat.reservation"
	DefaultPurchaseQueue = "purchase.completed"
)

// SeatReservationRequestedEvent asks the seat booking side to hold Seats
// seats for an account whose payment has already been taken.
type SeatReservationRequestedEvent struct {
	AccountID   int64  `json:"account_id"`
	Seats       int64  `json:"seats"`
	RequestedAt string `json:"requested_at"`
}

// PurchaseCompletedEvent is published once both payment and seat booking
// have succeeded.  Counts is keyed by ticket category name.
type PurchaseCompletedEvent struct {
	AccountID   int64            `json:"account_id"`
	Counts      map[string]int64 `json:"counts"`
	TotalPrice  int64            `json:"total_price"`
	TotalSeats  int64            `json:"total_seats"`
	CompletedAt string           `json:"completed_at"`
}
