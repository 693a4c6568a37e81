package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"travel-booking/logging"
	"travel-booking/metrics"
)

const maxBackoff = 30 * time.Second

// Consumer appends every BookingConfirmed message to an audit log.
type Consumer struct {
	url   string
	audit *logrus.Logger
}

func NewConsumer(url string, out io.Writer) *Consumer {
	audit := logrus.New()
	audit.SetFormatter(&logrus.JSONFormatter{})
	audit.SetOutput(out)
	return &Consumer{url: url, audit: audit}
}

func OpenAuditFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

// Run consumes until ctx is cancelled, reconnecting with exponential backoff.
func (c *Consumer) Run(ctx context.Context) error {
	log := logging.FromContext(ctx).WithField("queue", BookingConfirmedQueue)
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			log.WithError(err).Warnf("audit consumer cannot reach broker, retrying in %s", backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < maxBackoff {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.WithError(err).Warn("audit consumer stopped, reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}
	if _, err := declare(ch); err != nil {
		return err
	}
	msgs, err := ch.Consume(BookingConfirmedQueue, "", false, false, false, false, nil)
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
			if err := c.Handle(d.Body); err != nil {
				logging.FromContext(ctx).WithError(err).Warn("dropping malformed audit message")
				metrics.AuditEvents.WithLabelValues("consume", "error").Inc()
				_ = d.Nack(false, false)
				continue
			}
			metrics.AuditEvents.WithLabelValues("consume", "ok").Inc()
			_ = d.Ack(false)
		}
	}
}

func (c *Consumer) Handle(body []byte) error {
	var ev BookingConfirmed
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.BookingID == "" || ev.Kind == "" {
		return errors.New("booking id and kind are required")
	}

	fields := logrus.Fields{
		"booking_id":  ev.BookingID,
		"kind":        ev.Kind,
		"resource_id": ev.ResourceID,
		"user_id":     ev.UserID,
		"quantity":    ev.Quantity,
		"total":       ev.Total,
	}
	if ev.Available != nil {
		fields["available"] = *ev.Available
	}
	if ev.CorrelationID != "" {
		fields["correlation_id"] = ev.CorrelationID
	}
	c.audit.WithTime(ev.ConfirmedAt).WithFields(fields).Info("booking confirmed")
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
