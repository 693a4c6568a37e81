package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"travel-booking/logging"
	"travel-booking/metrics"
	"travel-booking/reservation"
)

const (
	dialTimeout   = 3 * time.Second
	publishBuffer = 1024
	maxRedialWait = 30 * time.Second
)

// Publisher sends BookingConfirmed messages to the durable audit queue.
// Reserved only enqueues; a single background loop owns the broker
// connection, so a slow or unreachable broker never holds up a booking.
// Events that do not fit in the buffer are dropped and counted.
type Publisher struct {
	url    string
	dial   func(url string) (*amqp.Connection, error)
	events chan BookingConfirmed
	done   chan struct{}

	mu     sync.RWMutex
	closed bool

	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewPublisher(url string) *Publisher {
	return newPublisher(url, publishBuffer, func(url string) (*amqp.Connection, error) {
		return amqp.DialConfig(url, amqp.Config{Dial: amqp.DefaultDial(dialTimeout)})
	})
}

func newPublisher(url string, buffer int, dial func(string) (*amqp.Connection, error)) *Publisher {
	p := &Publisher{
		url:    url,
		dial:   dial,
		events: make(chan BookingConfirmed, buffer),
		done:   make(chan struct{}),
	}
	go p.loop()
	return p
}

func (p *Publisher) Reserved(ctx context.Context, c *reservation.Confirmation) error {
	return p.Enqueue(FromConfirmation(c, logging.CorrelationID(ctx)))
}

// Enqueue hands the event to the background loop without blocking.
func (p *Publisher) Enqueue(event BookingConfirmed) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		metrics.AuditEvents.WithLabelValues("publish", "dropped").Inc()
		return fmt.Errorf("publisher closed")
	}
	select {
	case p.events <- event:
		return nil
	default:
		metrics.AuditEvents.WithLabelValues("publish", "dropped").Inc()
		return fmt.Errorf("audit buffer full, booking %s not published", event.BookingID)
	}
}

func (p *Publisher) loop() {
	defer close(p.done)
	defer p.reset()

	log := logging.FromContext(context.Background()).WithField("queue", BookingConfirmedQueue)
	var downUntil time.Time
	wait := time.Second

	for event := range p.events {
		if time.Now().Before(downUntil) {
			metrics.AuditEvents.WithLabelValues("publish", "dropped").Inc()
			continue
		}
		if err := p.publish(event); err != nil {
			metrics.AuditEvents.WithLabelValues("publish", "error").Inc()
			log.WithError(err).WithField("booking_id", event.BookingID).Warn("audit publish failed")
			downUntil = time.Now().Add(wait)
			wait *= 2
			if wait > maxRedialWait {
				wait = maxRedialWait
			}
			continue
		}
		wait = time.Second
		metrics.AuditEvents.WithLabelValues("publish", "ok").Inc()
	}
}

func (p *Publisher) publish(event BookingConfirmed) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	ch, err := p.channel()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	err = ch.PublishWithContext(ctx,
		"",
		BookingConfirmedQueue,
		false,
		false,
		amqp.Publishing{
			ContentType:   "application/json",
			DeliveryMode:  amqp.Persistent,
			MessageId:     uuid.NewString(),
			CorrelationId: event.CorrelationID,
			Timestamp:     time.Now().UTC(),
			Body:          body,
		},
	)
	if err != nil {
		p.reset()
		return fmt.Errorf("publish %s: %w", BookingConfirmedQueue, err)
	}
	return nil
}

// channel is only called from the loop goroutine.
func (p *Publisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.reset()

	conn, err := p.dial(p.url)
	if err != nil {
		return nil, fmt.Errorf("dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if _, err := declare(ch); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	p.conn, p.ch = conn, ch
	return ch, nil
}

func (p *Publisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.conn, p.ch = nil, nil
}

// Close stops accepting events and waits for the loop to drain the buffer.
func (p *Publisher) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.events)
	p.mu.Unlock()
	<-p.done
}

func declare(ch *amqp.Channel) (amqp.Queue, error) {
	q, err := ch.QueueDeclare(BookingConfirmedQueue, true, false, false, false, nil)
	if err != nil {
		return q, fmt.Errorf("queue declare: %w", err)
	}
	return q, nil
}
