package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	q "github.com/iliyamo/ticket-purchase-service/internal/queue"
)

// QueuePublisher sends purchase messages to RabbitMQ.  It implements
// SeatReservationService by publishing a seat reservation request, and
// EventPublisher for purchase completed events.  A connection is opened
// per message.
type QueuePublisher struct {
	url           string
	seatQueue     string
	purchaseQueue string
	log           logrus.FieldLogger
	now           func() time.Time
}

// NewQueuePublisher returns a publisher for the given broker URL.  Empty
// queue names fall back to the defaults in package queue.
func NewQueuePublisher(url, seatQueue, purchaseQueue string, log logrus.FieldLogger) *QueuePublisher {
	if seatQueue == "" {
		seatQueue = q.DefaultSeatQueue
	}
	if purchaseQueue == "" {
		purchaseQueue = q.DefaultPurchaseQueue
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &QueuePublisher{
		url:           url,
		seatQueue:     seatQueue,
		purchaseQueue: purchaseQueue,
		log:           log.WithField("component", "rabbitmq"),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// ReserveSeats publishes a SeatReservationRequestedEvent.  The call returns
// once the broker has accepted the message.
func (p *QueuePublisher) ReserveSeats(ctx context.Context, accountID, seats int64) error {
	return p.publish(ctx, p.seatQueue, q.SeatReservationRequestedEvent{
		AccountID:   accountID,
		Seats:       seats,
		RequestedAt: p.now().Format(time.RFC3339),
	})
}

// PublishPurchaseCompleted publishes event to the purchase queue.
func (p *QueuePublisher) PublishPurchaseCompleted(ctx context.Context, event q.PurchaseCompletedEvent) error {
	return p.publish(ctx, p.purchaseQueue, event)
}

func (p *QueuePublisher) publish(ctx context.Context, queue string, payload any) error {
	pub, err := newPublishing(payload, p.now())
	if err != nil {
		return err
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.WithError(err).Error("dial failed")
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.WithError(err).Error("channel open failed")
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		p.log.WithError(err).WithField("queue", queue).Error("queue declare failed")
		return fmt.Errorf("rabbitmq queue declare %s: %w", queue, err)
	}

	if err := ch.PublishWithContext(ctx, "", queue, false, false, pub); err != nil {
		p.log.WithError(err).WithField("queue", queue).Error("publish failed")
		return fmt.Errorf("rabbitmq publish %s: %w", queue, err)
	}
	return nil
}

func newPublishing(payload any, at time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal event: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    at,
		Body:         body,
	}, nil
}
