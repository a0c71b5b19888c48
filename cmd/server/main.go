package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/astroview/planetarium-reservation/internal/config"
	"github.com/astroview/planetarium-reservation/internal/database"
	"github.com/astroview/planetarium-reservation/internal/handler"
	"github.com/astroview/planetarium-reservation/internal/middleware"
	"github.com/astroview/planetarium-reservation/internal/queue"
	"github.com/astroview/planetarium-reservation/internal/repository"
	"github.com/astroview/planetarium-reservation/internal/router"
)

func main() {
	// Load .env if present; real deployments set variables directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.MigrationsDir); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	// Redis powers the response cache and the rate limiter.  A nil client
	// disables both without affecting the rest of the service.
	rdb := config.NewRedisClient()
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	rateMW := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	themeRepo := repository.NewThemeRepo(db)
	showRepo := repository.NewShowRepo(db)
	domeRepo := repository.NewDomeRepo(db)
	sessionRepo := repository.NewSessionRepo(db)
	reservationRepo := repository.NewReservationRepo(db)

	authH := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	catalogH := handler.NewCatalogHandler(themeRepo, showRepo, domeRepo, sessionRepo)
	reservationH := handler.NewReservationHandler(reservationRepo, sessionRepo)

	// Consume reservation.created events in the background; the consumer
	// reconnects on broker failures and never takes the server down.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterCatalog(e, catalogH, cfg.JWTSecret, cacheMW, rateMW)
	router.RegisterReservations(e, reservationH, cfg.JWTSecret, rateMW)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
