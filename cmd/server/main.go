package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stockwatch/internal/bus"
	"stockwatch/internal/config"
	"stockwatch/internal/forecast"
	"stockwatch/internal/handler"
	"stockwatch/internal/infra"
	"stockwatch/internal/monitor"
	"stockwatch/internal/notify"
	"stockwatch/internal/repository"
	"stockwatch/internal/router"
	"stockwatch/internal/service"
	"stockwatch/internal/ws"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Background tasks (sweep loop, bus fan-out) hang off this context;
	// cancelling it interrupts the sweep sleep so shutdown is clean.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Explicit owned instances — no ambient globals. Everything that needs
	// the bus or the registry gets a handle from here.
	events := bus.New()
	registry := ws.NewRegistry(service.NewTokenService(cfg.JWTSecret), userRepo)

	engine := forecast.NewEngine()
	forecastSvc := service.NewForecastService(productRepo, orderRepo, engine, rdb, cfg.ForecastCacheTTL)
	stockSvc := service.NewStockService(productRepo, events)
	orderSvc := service.NewOrderService(orderRepo, stockSvc, events)
	metricsSvc := service.NewMetricsService(productRepo, orderRepo)

	mailer := infra.NewMailer(cfg)
	sender := notify.NewBatchSender(mailer, cfg.EmailBatchSize, cfg.EmailBatchDelay)
	dispatcher := notify.NewDispatcher(registry, userRepo, sender)

	events.Subscribe(bus.KindCriticalStock, dispatcher.HandleCriticalStock)
	events.Subscribe(bus.KindUserLogin, dispatcher.HandleUserLogin)
	events.Subscribe(bus.KindUserLogout, dispatcher.HandleUserLogout)

	mon := monitor.New(productRepo, forecastSvc, registry, cfg.SweepInterval,
		cfg.ForecastHorizonDays, cfg.ForecastLeadTimeDays)
	mon.Start(ctx)

	r := router.New(cfg,
		handler.NewProductHandler(stockSvc, forecastSvc, cfg.ForecastHorizonDays, cfg.ForecastLeadTimeDays),
		handler.NewOrderHandler(orderSvc),
		handler.NewMetricsHandler(metricsSvc),
		handler.NewWSHandler(registry),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("stockwatch backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
