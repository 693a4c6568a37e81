package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"travel-booking/bookings"
	apperrors "travel-booking/errors"
	"travel-booking/inventory"
	"travel-booking/listing"
	"travel-booking/logging"
	"travel-booking/reservation"
)

type Handlers struct {
	Reserver  *reservation.Reserver
	Listings  *listing.Service
	Bookings  *bookings.View
	Inventory *inventory.Service
	// Ping reports whether the database answers; nil means always healthy.
	Ping func(ctx context.Context) error
}

func success(c *fiber.Ctx, message string, data any) error {
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": message,
		"data":    data})
}

// fail maps domain errors to their status and logs everything else.
func fail(c *fiber.Ctx, err error) error {
	var domainErr *apperrors.Error
	if !apperrors.As(err, &domainErr) {
		logging.FromContext(c.UserContext()).WithError(err).Error("request failed")
	}
	return apperrors.Respond(c, err)
}

func (h *Handlers) GetHealth(c *fiber.Ctx) error {
	if h.Ping != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := h.Ping(ctx); err != nil {
			return apperrors.RaiseError(c, fiber.StatusServiceUnavailable, "database unavailable", nil)
		}
	}
	return success(c, "ok", nil)
}
