// Package events carries the booking audit trail over RabbitMQ.
package events

import (
	"time"

	"travel-booking/reservation"
)

const BookingConfirmedQueue = "booking.confirmed"

type BookingConfirmed struct {
	BookingID     string    `json:"bookingId"`
	Kind          string    `json:"kind"`
	ResourceID    string    `json:"resourceId"`
	UserID        string    `json:"userId"`
	Quantity      int64     `json:"quantity"`
	UnitPrice     float64   `json:"unitPrice"`
	Total         float64   `json:"total"`
	Available     *int64    `json:"available,omitempty"`
	ConfirmedAt   time.Time `json:"confirmedAt"`
	CorrelationID string    `json:"correlationId,omitempty"`
}

func FromConfirmation(c *reservation.Confirmation, correlationID string) BookingConfirmed {
	return BookingConfirmed{
		BookingID:     c.BookingID.Hex(),
		Kind:          c.Kind.Name,
		ResourceID:    c.ResourceID.Hex(),
		UserID:        c.UserID.Hex(),
		Quantity:      c.Quantity,
		UnitPrice:     c.UnitPrice,
		Total:         c.Total,
		Available:     c.Available,
		ConfirmedAt:   c.BookedAt,
		CorrelationID: correlationID,
	}
}
