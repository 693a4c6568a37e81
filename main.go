package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"travel-booking/bookings"
	"travel-booking/catalog"
	"travel-booking/config"
	"travel-booking/database"
	"travel-booking/events"
	"travel-booking/handlers"
	"travel-booking/inventory"
	"travel-booking/listing"
	"travel-booking/logging"
	"travel-booking/reservation"
	"travel-booking/router"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("cannot load configuration")
	}
	logging.Init(cfg.LogLevel)
	log := logging.FromContext(ctx)

	db, err := database.Connect(ctx, cfg.MongoURI, cfg.DatabaseName)
	if err != nil {
		log.WithError(err).Fatal("cannot open database")
	}
	defer func() { _ = db.Client().Disconnect(context.Background()) }()

	store := database.NewStore(db)
	if err := store.EnsureIndexes(ctx, catalog.All); err != nil {
		log.WithError(err).Fatal("cannot create indexes")
	}

	rdb := config.NewRedisClient(cfg)
	if rdb == nil {
		log.Warn("redis unavailable, listings are served uncached")
	} else {
		defer rdb.Close()
	}
	listings := listing.NewService(store, rdb, cfg.CacheTTL)

	notifiers := []reservation.Notifier{listings}
	if cfg.RabbitURL != "" {
		publisher := events.NewPublisher(cfg.RabbitURL)
		defer publisher.Close()
		notifiers = append(notifiers, publisher)

		if cfg.AuditConsumer {
			auditFile, err := events.OpenAuditFile(cfg.AuditLogPath)
			if err != nil {
				log.WithError(err).Fatal("cannot open audit log")
			}
			defer auditFile.Close()
			go func() {
				if err := events.NewConsumer(cfg.RabbitURL, auditFile).Run(ctx); err != nil && ctx.Err() == nil {
					log.WithError(err).Error("audit consumer stopped")
				}
			}()
		}
	} else {
		log.Warn("RABBITMQ_URL not set, booking audit trail disabled")
	}

	h := &handlers.Handlers{
		Reserver:  reservation.NewReserver(store, notifiers...),
		Listings:  listings,
		Bookings:  bookings.NewView(store, catalog.Bookable()),
		Inventory: inventory.NewService(store, listings),
		Ping: func(ctx context.Context) error {
			return db.Client().Ping(ctx, nil)
		},
	}

	app := fiber.New()
	router.SetupRoutes(app, h, cfg.SigningKey)

	go func() {
		<-ctx.Done()
		_ = app.Shutdown()
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.WithError(err).Error("server stopped")
	}
}
