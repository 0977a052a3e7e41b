package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/stowage-backend/api/routes"
	"github.com/angelmondragon/stowage-backend/internal/customers"
	"github.com/angelmondragon/stowage-backend/internal/inventory"
	"github.com/angelmondragon/stowage-backend/internal/rooms"
	"github.com/angelmondragon/stowage-backend/internal/warehouses"
	"github.com/angelmondragon/stowage-backend/pkg/config"
	"github.com/angelmondragon/stowage-backend/pkg/db"
	"github.com/angelmondragon/stowage-backend/pkg/logger"
	"github.com/angelmondragon/stowage-backend/pkg/metrics"
	"github.com/angelmondragon/stowage-backend/pkg/migrate"
	"github.com/angelmondragon/stowage-backend/pkg/redis"
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

	customerRepo := customers.NewRepository(dbClient.DB())
	warehouseRepo := warehouses.NewRepository(dbClient.DB())
	roomRepo := rooms.NewRepository(dbClient.DB())
	inventoryRepo := inventory.NewRepository(dbClient.DB())

	customerService, err := customers.NewService(customerRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create customer service", err)
		os.Exit(1)
	}

	warehouseService, err := warehouses.NewService(warehouseRepo, customerRepo, roomRepo, dbClient, redisClient, cfg.Cache, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create warehouse service", err)
		os.Exit(1)
	}

	roomService, err := rooms.NewService(roomRepo, warehouseRepo, dbClient, redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create room service", err)
		os.Exit(1)
	}

	inventoryService, err := inventory.NewService(inventoryRepo, roomRepo, warehouseRepo, dbClient, redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	httpMetrics := metrics.NewHTTPMetrics(registry)

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
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:     cfg,
			Logger:     logg,
			DB:         dbClient,
			Redis:      redisClient,
			Metrics:    httpMetrics,
			Registry:   registry,
			Customers:  customerService,
			Warehouses: warehouseService,
			Rooms:      roomService,
			Inventory:  inventoryService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
