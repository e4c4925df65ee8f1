package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/event-booking-waitlist/internal/booking"         // Admission and waitlist engine
	"github.com/iliyamo/event-booking-waitlist/internal/config"          // Internal config loader
	"github.com/iliyamo/event-booking-waitlist/internal/database"        // MySQL connection setup
	"github.com/iliyamo/event-booking-waitlist/internal/handler"         // HTTP handlers
	"github.com/iliyamo/event-booking-waitlist/internal/queue"           // RabbitMQ transition consumer
	"github.com/iliyamo/event-booking-waitlist/internal/repository"      // Data access layer
	"github.com/iliyamo/event-booking-waitlist/internal/router"                     // Route registration
	queue_publisher "github.com/iliyamo/event-booking-waitlist/internal/service"    // RabbitMQ transition publisher
)

func main() {
	// Load a local .env when present; in production the environment is
	// provided by the deployment, so a missing file is not an error.
	if err := godotenv.Load(); err != nil {
		log.Printf(".env not loaded: %v", err)
	}

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	rdb := config.NewRedisClient() // Redis backs rate limiting and the response cache

	// Repositories over the shared connection pool.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	events := repository.NewEventRepo(db)
	bookings := repository.NewBookingRepo(db)
	notifications := repository.NewNotificationRepo(db)
	logs := repository.NewBookingLogRepo(db)

	// The dispatcher writes the audit log entry and notification for each
	// transition after commit, and fans a copy out to RabbitMQ.
	dispatcher := booking.NewDispatcher(
		repository.NewSideEffects(notifications, logs),
		queue_publisher.PublishBookingTransition,
		cfg.DispatchBuffer,
	)
	dispatcher.Start()
	defer dispatcher.Close()

	engine := booking.NewController(repository.NewLedger(events, bookings), dispatcher)

	// Consume transition events off the broker in the background; the
	// consumer reconnects on its own, so a failure here is not fatal.
	go func() {
		if err := queue.StartTransitionConsumer(); err != nil {
			log.Printf("transition consumer stopped: %v", err)
		}
	}()

	e := echo.New() // Create Echo instance
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterBooking(e,
		handler.NewBookingHandler(engine, bookings, notifications),
		handler.NewEventHandler(events, bookings, logs),
		cfg.JWTSecret, rdb)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
