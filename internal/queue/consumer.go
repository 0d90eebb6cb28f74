package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// SeatConsumer drains the seat reservation queue and appends one line per
// booking to a log file.  It stands in for the real seat booking system.
type SeatConsumer struct {
	URL     string
	Queue   string
	LogPath string
	Log     logrus.FieldLogger
}

// NewSeatConsumer returns a consumer writing to logs/seats.log.
func NewSeatConsumer(url, queue string, log logrus.FieldLogger) *SeatConsumer {
	if queue == "" {
		queue = DefaultSeatQueue
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &SeatConsumer{
		URL:     url,
		Queue:   queue,
		LogPath: filepath.Join("logs", "seats.log"),
		Log:     log.WithField("component", "seat-consumer"),
	}
}

// Run connects to the broker and consumes until ctx is cancelled.  Broken
// connections are retried with exponential backoff capped at 30s.
func (s *SeatConsumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		conn, err := amqp.Dial(s.URL)
		if err != nil {
			s.Log.WithError(err).Warnf("failed to dial broker; retrying in %s", backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = s.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.Log.WithError(err).Warn("consume loop ended; reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (s *SeatConsumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		s.Log.WithError(err).Warn("set QoS failed")
	}
	if _, err := ch.QueueDeclare(s.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(s.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := s.Handle(d.Body); err != nil {
				s.Log.WithError(err).Error("handle message failed")
				_ = d.Nack(false, false) // do not requeue poison messages
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Handle decodes one seat reservation and records it.
func (s *SeatConsumer) Handle(body []byte) error {
	var ev SeatReservationRequestedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.AccountID < 1 || ev.Seats < 0 {
		return fmt.Errorf("invalid seat reservation: account=%d seats=%d", ev.AccountID, ev.Seats)
	}
	if err := os.MkdirAll(filepath.Dir(s.LogPath), 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(s.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] Seats reserved | account_id=%d | seats=%d\n", ev.RequestedAt, ev.AccountID, ev.Seats)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
