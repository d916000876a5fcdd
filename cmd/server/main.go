package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-booking-api/internal/config"
	"github.com/iliyamo/room-booking-api/internal/database"
	"github.com/iliyamo/room-booking-api/internal/handler"
	"github.com/iliyamo/room-booking-api/internal/queue"
	"github.com/iliyamo/room-booking-api/internal/repository"
	"github.com/iliyamo/room-booking-api/internal/router"
	"github.com/iliyamo/room-booking-api/internal/service"
)

func main() {
	// Load .env if present; real deployments set env vars directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories over the shared pool.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	rooms := repository.NewRoomRepo(db)
	bookings := repository.NewBookingRepo(db)

	svc := service.NewBookingService(rooms, bookings)

	// Redis is optional; nil disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Print("redis unavailable; response cache and rate limiting disabled")
	}

	// Background consumer appends booking events to logs/booking.log.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.Register(e, router.Deps{
		Cfg:      cfg,
		Auth:     handler.NewAuthHandler(cfg, users, tokens),
		Rooms:    handler.NewRoomHandler(svc, rooms),
		Bookings: handler.NewBookingHandler(svc),
		Redis:    rdb,
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
