package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"travel-booking/catalog"
	apperrors "travel-booking/errors"
	"travel-booking/middleware"
)

func (h *Handlers) CreateInventory(k *catalog.Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		vendorID, ok := middleware.UserID(c)
		if !ok {
			return apperrors.RaisePermissionsError(c, "token carries no vendor id")
		}

		resource := k.NewResource()
		if err := c.BodyParser(resource); err != nil {
			return apperrors.RaiseBadRequestError(c, fmt.Sprintf("unacceptable %s parameters", k.Name))
		}

		created, err := h.Inventory.Create(c.UserContext(), vendorID, k, resource)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"status":  "success",
			"message": fmt.Sprintf("%s created", k.Name),
			"data":    created})
	}
}

func (h *Handlers) GetInventory(k *catalog.Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		vendorID, ok := middleware.UserID(c)
		if !ok {
			return apperrors.RaisePermissionsError(c, "token carries no vendor id")
		}

		docs, err := h.Inventory.List(c.UserContext(), vendorID, k)
		if err != nil {
			return fail(c, err)
		}
		return success(c, "", docs)
	}
}
