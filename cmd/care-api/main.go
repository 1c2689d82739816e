// README: Entry point; loads config, wires postcode resolution and matching, starts the HTTP server.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/config"
	httptransport "github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/http"
	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/infra"
	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/maps"
	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/modules/booking"
	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/modules/matching"
	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/modules/postcode"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := infra.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		logger.Fatal("db init", zap.Error(err))
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(ctx, cfg.Redis.Addr, logger)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	postcodeStore := postcode.NewStore(dbPool)
	tiers := []postcode.Resolver{postcodeStore}
	if cfg.Postcode.GoogleMapsKey != "" {
		geocoder, err := maps.NewGeocoder(cfg.Postcode.GoogleMapsKey, cfg.Postcode.Region)
		if err != nil {
			logger.Fatal("geocoder init", zap.Error(err))
		}
		tiers = append(tiers, geocoder)
	} else {
		logger.Warn("CARE_GOOGLE_MAPS_KEY not set; postcodes resolve from the local table only")
	}
	chain := postcode.NewChain(logger, tiers...).WithWriteBack(postcodeStore.Save)
	resolver := postcode.NewCache(chain, redisClient, postcode.CacheConfig{
		Size:          cfg.Postcode.CacheSize,
		TTL:           cfg.Postcode.CacheTTL,
		LookupTimeout: cfg.Postcode.LookupTimeout,
	}, logger)

	matcher := matching.NewMatcher(resolver, cfg.Matching, logger)

	router := httptransport.NewRouter(httptransport.RouterDeps{
		Matcher:  matcher,
		Resolver: resolver,
		Drivers:  matching.NewDriverStore(dbPool),
		Bookings: booking.NewStore(dbPool),
		Logger:   logger,
	})

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown", zap.Error(err))
		}
	}()

	logger.Info("http listening", zap.String("addr", cfg.HTTP.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("http serve", zap.Error(err))
	}
}
