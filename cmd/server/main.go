package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/hafizalkariem/rental-ps-server/internal/cache"
	"github.com/hafizalkariem/rental-ps-server/internal/clock"
	"github.com/hafizalkariem/rental-ps-server/internal/config"
	"github.com/hafizalkariem/rental-ps-server/internal/database"
	"github.com/hafizalkariem/rental-ps-server/internal/handler"
	"github.com/hafizalkariem/rental-ps-server/internal/queue"
	"github.com/hafizalkariem/rental-ps-server/internal/repository"
	"github.com/hafizalkariem/rental-ps-server/internal/router"
	"github.com/hafizalkariem/rental-ps-server/internal/sweep"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()
	rateCfg := config.LoadRateLimitConfig()
	cacheCfg := config.LoadCacheConfig()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, caching and rate limiting disabled")
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatalf("timezone %q: %v", cfg.Timezone, err)
	}
	clk := clock.NewSystem(cfg.Timezone)

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	consoles := repository.NewConsoleRepo(db)
	stations := repository.NewStationRepo(db)
	resources := repository.NewResourceRepo(db)
	bookings := repository.NewBookingRepo(db)
	events := repository.NewEventRepo(db)

	availCache := cache.New(rdb, cacheCfg.AvailabilityTTL, cacheCfg.Prefix)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewRequestValidator()
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.Register(e, router.Deps{
		Cfg:          cfg,
		RateLimitCfg: rateCfg,
		CacheCfg:     cacheCfg,
		Redis:        rdb,
		Health:       handler.NewHealthHandler(db),
		Auth:         handler.NewAuthHandler(cfg, users, tokens),
		Booking:      handler.NewBookingHandler(cfg, bookings, resources, availCache, clk, loc),
		Availability: handler.NewAvailabilityHandler(cfg, bookings, resources, availCache, loc),
		Catalog:      handler.NewCatalogHandler(consoles, stations, resources),
		Event:        handler.NewEventHandler(events, loc),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sweeper := sweep.New(bookings, events, clk, loc)
	sweeper.Cache = availCache
	go sweeper.Run(ctx, cfg.SweepInterval)

	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("queue consumer stopped: %v", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = e.Shutdown(shutdownCtx)
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Printf("server stopped: %v", err)
	}
}
