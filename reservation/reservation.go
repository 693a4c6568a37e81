package reservation

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"travel-booking/catalog"
	apperrors "travel-booking/errors"
	"travel-booking/logging"
	"travel-booking/metrics"
	"travel-booking/model"
)

const maxAttempts = 3

// Store persists bookings. Reserve must apply the availability gate of k and
// append the booking in a single conditional update, returning the updated
// document or nil when no document matched. Get returns nil for a missing id.
type Store interface {
	Reserve(ctx context.Context, k *catalog.Kind, id primitive.ObjectID, booking *model.Booking) (bson.M, error)
	Get(ctx context.Context, k *catalog.Kind, id primitive.ObjectID) (bson.M, error)
}

// Notifier is told about every committed booking.
type Notifier interface {
	Reserved(ctx context.Context, c *Confirmation) error
}

type Reserver struct {
	store     Store
	notifiers []Notifier
	now       func() time.Time
}

func NewReserver(store Store, notifiers ...Notifier) *Reserver {
	return &Reserver{
		store:     store,
		notifiers: notifiers,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (r *Reserver) Reserve(ctx context.Context, k *catalog.Kind, req *Request) (*Confirmation, error) {
	start := time.Now()
	conf, err := r.reserve(ctx, k, req)
	metrics.BookingDuration.WithLabelValues(k.Name).Observe(time.Since(start).Seconds())
	metrics.BookingsTotal.WithLabelValues(k.Name, outcome(err)).Inc()
	if err != nil {
		return nil, err
	}

	log := logging.FromContext(ctx).WithField("kind", k.Name).WithField("booking_id", conf.BookingID.Hex())
	log.Info("booking confirmed")
	for _, n := range r.notifiers {
		if nerr := n.Reserved(ctx, conf); nerr != nil {
			log.WithError(nerr).Warn("post-booking notification failed")
		}
	}
	return conf, nil
}

func (r *Reserver) reserve(ctx context.Context, k *catalog.Kind, req *Request) (*Confirmation, error) {
	if !k.Bookable() {
		return nil, apperrors.Invalid("%s cannot be booked", k.Name)
	}
	if err := req.validate(k); err != nil {
		return nil, err
	}

	booking := &model.Booking{
		Id:        primitive.NewObjectID(),
		UserId:    req.UserID,
		Quantity:  req.Quantity,
		Date:      req.Date,
		CreatedAt: r.now(),
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		doc, err := r.store.Reserve(ctx, k, req.ResourceID, booking)
		if err != nil {
			return nil, fmt.Errorf("reserve %s %s: %w", k.Name, req.ResourceID.Hex(), err)
		}
		if doc != nil {
			return newConfirmation(k, req, booking, doc), nil
		}

		current, err := r.store.Get(ctx, k, req.ResourceID)
		if err != nil {
			return nil, fmt.Errorf("load %s %s: %w", k.Name, req.ResourceID.Hex(), err)
		}
		if current == nil {
			return nil, apperrors.NotFound(k.NotFoundMessage)
		}
		if rejection := gateRejection(k, current, req.Quantity); rejection != nil {
			return nil, rejection
		}
		// the gate reopened between the update and the read
	}
	return nil, fmt.Errorf("reserve %s %s: no stable outcome after %d attempts", k.Name, req.ResourceID.Hex(), maxAttempts)
}

func gateRejection(k *catalog.Kind, doc bson.M, quantity int64) error {
	switch k.Gate {
	case catalog.Counter:
		available, _ := model.Int(doc[k.CounterField])
		if available < quantity {
			return apperrors.Insufficient(k.InsufficientMessage(available))
		}
	case catalog.Status:
		if status, _ := doc[k.StatusField].(string); status != k.OpenStatus {
			return apperrors.Unavailable(k.ClosedMessage)
		}
	}
	return nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case apperrors.Is(err, apperrors.ErrInvalidRequest):
		return "invalid"
	case apperrors.Is(err, apperrors.ErrNotFound):
		return "not_found"
	case apperrors.Is(err, apperrors.ErrInsufficient):
		return "insufficient"
	case apperrors.Is(err, apperrors.ErrUnavailable):
		return "unavailable"
	}
	return "error"
}
