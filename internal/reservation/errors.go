package reservation

import (
	"errors"

	"github.com/iliyamo/ticket-purchase-service/internal/model"
)

// Rejected-purchase errors.  Each one is returned wrapped with detail, so
// compare with errors.Is.
var (
	ErrInvalidAccount      = errors.New("invalid account")
	ErrEmptyRequest        = errors.New("empty request")
	ErrInvalidTicketCount  = errors.New("invalid ticket count")
	ErrTicketLimitExceeded = errors.New("ticket limit exceeded")
	ErrAdultRequired       = errors.New("adult required")
	ErrTooManyInfants      = errors.New("too many infants")
)

var rejections = []error{
	ErrInvalidAccount,
	ErrEmptyRequest,
	model.ErrUnknownCategory,
	ErrInvalidTicketCount,
	ErrTicketLimitExceeded,
	ErrAdultRequired,
	ErrTooManyInfants,
}

// IsRejection reports whether err means the purchase itself was refused,
// as opposed to a downstream failure.
func IsRejection(err error) bool {
	for _, r := range rejections {
		if errors.Is(err, r) {
			return true
		}
	}
	return false
}
