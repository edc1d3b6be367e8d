package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rightartist/marketplace/internal/api"
	"github.com/rightartist/marketplace/internal/infrastructure/calendar"
	"github.com/rightartist/marketplace/internal/infrastructure/config"
	mongodb "github.com/rightartist/marketplace/internal/infrastructure/db/mongo"
	redisdb "github.com/rightartist/marketplace/internal/infrastructure/db/redis"
	"github.com/rightartist/marketplace/internal/infrastructure/payment"
	"github.com/rightartist/marketplace/internal/infrastructure/push"
	"github.com/rightartist/marketplace/pkg/logger"
)

func main() {
	log := logger.Init(logger.Options{
		Level:  os.Getenv("LOG_LEVEL"),
		Pretty: os.Getenv("ENV") == "development",
	})

	cfg := config.Load(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongo disconnect failed")
		}
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}()

	gateway := push.NewGateway(redisdb.NewPresence(rdb), log)
	defer gateway.Close()

	calendarSvc := calendar.NewService(log, calendarProviders(cfg)...)
	charger := payment.NewGateway(cfg.Payment.URL, cfg.Payment.APIKey, log)

	e, dispatcher := api.NewRouter(db, rdb, gateway, calendarSvc, charger, cfg, log)
	dispatcher.Start(ctx)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}

// calendarProviders builds the external calendar bridges enabled by config.
// The provider names match the keys users set in calendar_integrations.
func calendarProviders(cfg *config.Config) []calendar.Provider {
	var providers []calendar.Provider
	if cfg.Calendar.GoogleURL != "" {
		providers = append(providers, calendar.NewWebhookProvider("googleCalendar", cfg.Calendar.GoogleURL))
	}
	if cfg.Calendar.OutlookURL != "" {
		providers = append(providers, calendar.NewWebhookProvider("outlookCalendar", cfg.Calendar.OutlookURL))
	}
	return providers
}
