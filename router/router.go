package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"travel-booking/catalog"
	"travel-booking/handlers"
	"travel-booking/logging"
	"travel-booking/middleware"
	"travel-booking/model"
)

func SetupRoutes(app *fiber.App, h *handlers.Handlers, signingKey string) {
	app.Use(requestid.New(), logging.Middleware())

	app.Get("/healthz", h.GetHealth)
	metricsHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	app.Get("/metrics", func(c *fiber.Ctx) error {
		metricsHandler(c.Context())
		return nil
	})

	api := app.Group("/api/v1", logger.New())

	//Users
	users := api.Group("/users")
	for _, k := range catalog.All {
		users.Get("/"+k.Path, h.GetListings(k))
	}

	authorize := middleware.Authorize(signingKey)
	identity := middleware.RequireIdentity()
	users.Get("/bookings", authorize, identity, h.GetMyBookings)
	for _, k := range catalog.Bookable() {
		users.Post("/"+k.Path+"/book", authorize, identity, h.CreateBooking(k))
	}

	//Vendors
	vendors := api.Group("/vendors",
		authorize,
		identity,
		middleware.RequireRole(model.RoleVendor, model.RolePremiumVendor))
	for _, k := range catalog.All {
		vendors.Post("/"+k.Path, h.CreateInventory(k))
		vendors.Get("/"+k.Path, h.GetInventory(k))
	}
}
