package service

import "errors"

// Collaborator failures.  The underlying error stays reachable through
// errors.Is / errors.As.
var (
	ErrPaymentFailed         = errors.New("payment failed")
	ErrSeatReservationFailed = errors.New("seat reservation failed")
)
