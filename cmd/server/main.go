package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/Chaitanyateke/MovieBooking/internal/config"
	"github.com/Chaitanyateke/MovieBooking/internal/database"
	"github.com/Chaitanyateke/MovieBooking/internal/handler"
	"github.com/Chaitanyateke/MovieBooking/internal/middleware"
	"github.com/Chaitanyateke/MovieBooking/internal/queue"
	"github.com/Chaitanyateke/MovieBooking/internal/repository"
	"github.com/Chaitanyateke/MovieBooking/internal/router"
	queuepublisher "github.com/Chaitanyateke/MovieBooking/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, rate limiting and catalog cache disabled")
	}

	movieRepo := repository.NewMovieRepo(db)
	cinemaRepo := repository.NewCinemaRepo(db)
	screenRepo := repository.NewScreenRepo(db)
	seatRepo := repository.NewSeatRepo(db)
	showtimeRepo := repository.NewShowtimeRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	userRepo := repository.NewUserRepo(db)
	notifRepo := repository.NewNotificationRepo(db)

	eventHandler := handler.NewEventHandler(
		movieRepo, showtimeRepo, screenRepo, seatRepo, bookingRepo, notifRepo,
		handler.PublishWith(queuepublisher.PublishBookingEvent),
	)
	adminHandler := handler.NewAdminHandler(
		movieRepo, cinemaRepo, screenRepo, seatRepo, showtimeRepo, userRepo, bookingRepo, notifRepo,
		cfg.ShowtimeFutureOnly,
	)

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	catalogCache := middleware.NewCatalogCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterEvents(e, eventHandler, cfg.JWTSecret, catalogCache)
	router.RegisterAdmin(e, adminHandler, cfg.JWTSecret)

	// The consumer drains booking.events into the mock notification sink.
	// It reconnects forever; a dead broker only delays notifications.
	go func() {
		if err := queue.StartBookingEventConsumer(); err != nil {
			log.Printf("booking-events consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
