package handlers

import (
	"github.com/gofiber/fiber/v2"

	"travel-booking/catalog"
	apperrors "travel-booking/errors"
	"travel-booking/middleware"
	"travel-booking/reservation"
)

func (h *Handlers) CreateBooking(k *catalog.Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := middleware.UserID(c)
		if !ok {
			return apperrors.RaisePermissionsError(c, "token carries no user id")
		}

		body := map[string]any{}
		if err := c.BodyParser(&body); err != nil {
			return apperrors.RaiseBadRequestError(c, "incorrect input for booking parameters")
		}

		req, err := reservation.ParseRequest(k, userID, body)
		if err != nil {
			return fail(c, err)
		}

		conf, err := h.Reserver.Reserve(c.UserContext(), k, req)
		if err != nil {
			return fail(c, err)
		}
		return success(c, k.SuccessMessage, conf.Payload())
	}
}

func (h *Handlers) GetMyBookings(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return apperrors.RaisePermissionsError(c, "token carries no user id")
	}

	entries, err := h.Bookings.ForUser(c.UserContext(), userID)
	if err != nil {
		return fail(c, err)
	}
	return success(c, "", entries)
}
