package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"travel-booking/catalog"
	"travel-booking/reservation"
)

func TestFromConfirmation(t *testing.T) {
	available := int64(7)
	at := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	conf := &reservation.Confirmation{
		Kind:       catalog.Event,
		BookingID:  primitive.NewObjectID(),
		UserID:     primitive.NewObjectID(),
		ResourceID: primitive.NewObjectID(),
		Quantity:   3,
		UnitPrice:  20,
		Total:      60,
		Available:  &available,
		BookedAt:   at,
	}

	ev := FromConfirmation(conf, "corr-1")
	assert.Equal(t, conf.BookingID.Hex(), ev.BookingID)
	assert.Equal(t, "event", ev.Kind)
	assert.Equal(t, conf.UserID.Hex(), ev.UserID)
	assert.Equal(t, float64(60), ev.Total)
	assert.Equal(t, &available, ev.Available)
	assert.Equal(t, at, ev.ConfirmedAt)
	assert.Equal(t, "corr-1", ev.CorrelationID)
}

func TestHandleWritesAuditLine(t *testing.T) {
	var out bytes.Buffer
	c := NewConsumer("amqp://unused", &out)

	body, err := json.Marshal(BookingConfirmed{
		BookingID:     "b1",
		Kind:          "flight",
		ResourceID:    "r1",
		UserID:        "u1",
		Quantity:      2,
		Total:         400,
		ConfirmedAt:   time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC),
		CorrelationID: "corr-9",
	})
	require.NoError(t, err)
	require.NoError(t, c.Handle(body))

	var line map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &line))
	assert.Equal(t, "booking confirmed", line["msg"])
	assert.Equal(t, "b1", line["booking_id"])
	assert.Equal(t, "flight", line["kind"])
	assert.Equal(t, float64(400), line["total"])
	assert.Equal(t, "corr-9", line["correlation_id"])
	assert.Equal(t, "2026-04-01T10:00:00Z", line["time"])
	assert.NotContains(t, line, "available")
}

func TestHandleRejectsMalformed(t *testing.T) {
	var out bytes.Buffer
	c := NewConsumer("amqp://unused", &out)

	assert.Error(t, c.Handle([]byte("not json")))
	assert.Error(t, c.Handle([]byte(`{"kind":"flight"}`)))
	assert.Zero(t, out.Len())
}

func TestOpenAuditFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "booking.log")
	f, err := OpenAuditFile(path)
	require.NoError(t, err)
	defer f.Close()

	c := NewConsumer("amqp://unused", f)
	require.NoError(t, c.Handle([]byte(`{"bookingId":"b2","kind":"hotel"}`)))
	info, err := f.Stat()
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func confirmation() *reservation.Confirmation {
	return &reservation.Confirmation{
		Kind:       catalog.Flight,
		BookingID:  primitive.NewObjectID(),
		UserID:     primitive.NewObjectID(),
		ResourceID: primitive.NewObjectID(),
		Quantity:   1,
	}
}

func TestReservedDoesNotWaitForBroker(t *testing.T) {
	unreachable := func(string) (*amqp.Connection, error) {
		time.Sleep(2 * time.Second)
		return nil, errors.New("dial tcp 10.255.255.1:5672: i/o timeout")
	}
	p := newPublisher("amqp://10.255.255.1:5672", 16, unreachable)

	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, p.Reserved(context.Background(), confirmation()))
		}()
	}
	wg.Wait()
	assert.Less(t, time.Since(start), 200*time.Millisecond)

	p.Close()
	assert.Error(t, p.Reserved(context.Background(), confirmation()), "closed publisher rejects events")
}

func TestEnqueueDropsWhenBufferFull(t *testing.T) {
	dialing := make(chan struct{})
	release := make(chan struct{})
	blocked := func(string) (*amqp.Connection, error) {
		close(dialing)
		<-release
		return nil, errors.New("connection refused")
	}
	p := newPublisher("amqp://unused", 1, blocked)

	require.NoError(t, p.Reserved(context.Background(), confirmation()))
	<-dialing
	require.NoError(t, p.Reserved(context.Background(), confirmation()), "fits in the buffer")
	assert.Error(t, p.Reserved(context.Background(), confirmation()), "buffer is full")

	close(release)
	p.Close()
}
