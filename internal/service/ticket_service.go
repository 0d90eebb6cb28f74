// Package service sequences a validated reservation against the payment
// and seat booking collaborators.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/ticket-purchase-service/internal/model"
	q "github.com/iliyamo/ticket-purchase-service/internal/queue"
	"github.com/iliyamo/ticket-purchase-service/internal/reservation"
)

// PaymentService charges an account.
type PaymentService interface {
	MakePayment(ctx context.Context, accountID, amount int64) error
}

// SeatReservationService books seats for an account.
type SeatReservationService interface {
	ReserveSeats(ctx context.Context, accountID, seats int64) error
}

// EventPublisher announces completed purchases.  It is optional.
type EventPublisher interface {
	PublishPurchaseCompleted(ctx context.Context, event q.PurchaseCompletedEvent) error
}

// TicketService is the purchase entry point.
type TicketService struct {
	payments PaymentService
	seats    SeatReservationService
	events   EventPublisher
	log      logrus.FieldLogger
	now      func() time.Time
}

// NewTicketService wires the collaborators.  events may be nil.
func NewTicketService(payments PaymentService, seats SeatReservationService, events EventPublisher, log logrus.FieldLogger) *TicketService {
	if payments == nil || seats == nil {
		panic("nil collaborator passed to NewTicketService")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &TicketService{
		payments: payments,
		seats:    seats,
		events:   events,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// PurchaseTickets validates the requests, charges the account and then
// reserves the seats.  Validation errors are returned as produced by the
// reservation package and neither collaborator is called.  A seat booking
// failure after a successful payment is returned wrapped; the payment is
// not reversed.  Rejections are logged at info, collaborator failures at
// error.
func (s *TicketService) PurchaseTickets(ctx context.Context, accountID int64, requests ...model.TicketRequest) (*reservation.Reservation, error) {
	logger := s.log.WithField("account_id", accountID)

	res, err := s.purchase(ctx, accountID, requests)
	switch {
	case err == nil:
		logger.WithFields(logrus.Fields{"price": res.TotalPrice(), "seats": res.TotalSeats()}).Info("purchase completed")
	case reservation.IsRejection(err):
		logger.WithError(err).Info("purchase rejected")
		return nil, err
	default:
		logger.WithError(err).Error("purchase failed")
		return nil, err
	}

	if s.events != nil {
		if err := s.events.PublishPurchaseCompleted(ctx, s.completedEvent(res)); err != nil {
			logger.WithError(err).Warn("publish purchase completed failed")
		}
	}
	return res, nil
}

func (s *TicketService) purchase(ctx context.Context, accountID int64, requests []model.TicketRequest) (*reservation.Reservation, error) {
	res, err := reservation.New(accountID, requests...)
	if err != nil {
		return nil, err
	}
	if err := s.payments.MakePayment(ctx, accountID, res.TotalPrice()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPaymentFailed, err)
	}
	if err := s.seats.ReserveSeats(ctx, accountID, res.TotalSeats()); err != nil {
		return nil, fmt.Errorf("%w: after payment of %d: %w", ErrSeatReservationFailed, res.TotalPrice(), err)
	}
	return res, nil
}

func (s *TicketService) completedEvent(res *reservation.Reservation) q.PurchaseCompletedEvent {
	counts := make(map[string]int64, len(res.Counts()))
	for c, n := range res.Counts() {
		counts[string(c)] = n
	}
	return q.PurchaseCompletedEvent{
		AccountID:   res.AccountID(),
		Counts:      counts,
		TotalPrice:  res.TotalPrice(),
		TotalSeats:  res.TotalSeats(),
		CompletedAt: s.now().Format(time.RFC3339),
	}
}
