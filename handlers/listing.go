package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"travel-booking/catalog"
	"travel-booking/listing"
)

var listingParams = []string{"status", "sortBy", "sortOrder", "date"}

func (h *Handlers) GetListings(k *catalog.Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		params := listing.Params{}
		for _, key := range append(append([]string{}, k.TextFilters...), listingParams...) {
			if v := c.Query(key); v != "" {
				params[key] = v
			}
		}
		if k.DayFilter != "" {
			if v := c.Query(k.DayFilter); v != "" {
				params[k.DayFilter] = v
			}
		}

		body, err := h.Listings.List(c.UserContext(), k, params)
		if err != nil {
			return fail(c, err)
		}
		return success(c, "", json.RawMessage(body))
	}
}
