package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/NextOxyOfficial/LyriczFashion/api/routes"
	"github.com/NextOxyOfficial/LyriczFashion/internal/commissions"
	"github.com/NextOxyOfficial/LyriczFashion/internal/orders"
	"github.com/NextOxyOfficial/LyriczFashion/internal/products"
	"github.com/NextOxyOfficial/LyriczFashion/internal/profiles"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/config"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/db"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/logger"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/metrics"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/migrate"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	checkoutMetrics := metrics.NewCheckoutMetrics(promRegistry)

	commissionsService, err := commissions.NewService(
		commissions.NewRepository(dbClient.DB()),
		profiles.NewRepository(dbClient.DB()),
		cfg.Checkout,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create commissions service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(
		orders.NewRepository(dbClient.DB()),
		products.NewRepository(dbClient.DB()),
		commissionsService,
		dbClient,
		cfg.Checkout,
		logg,
		checkoutMetrics,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, ordersService, commissionsService, promRegistry),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
