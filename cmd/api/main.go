package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/milkdist/warehouse-backend/api/routes"
	"github.com/milkdist/warehouse-backend/internal/auth"
	"github.com/milkdist/warehouse-backend/internal/backorders"
	"github.com/milkdist/warehouse-backend/internal/goods"
	"github.com/milkdist/warehouse-backend/internal/inventory"
	"github.com/milkdist/warehouse-backend/internal/retailers"
	"github.com/milkdist/warehouse-backend/internal/users"
	"github.com/milkdist/warehouse-backend/pkg/config"
	"github.com/milkdist/warehouse-backend/pkg/db"
	"github.com/milkdist/warehouse-backend/pkg/logger"
	"github.com/milkdist/warehouse-backend/pkg/metrics"
	"github.com/milkdist/warehouse-backend/pkg/migrate"
	"github.com/milkdist/warehouse-backend/pkg/outbox"
	"github.com/milkdist/warehouse-backend/pkg/redis"
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

	gormDB := dbClient.DB()
	outboxService := outbox.NewService(outbox.NewRepository(gormDB), logg)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:  users.NewRepository(gormDB),
		JWTConfig: cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	retailerService, err := retailers.NewService(retailers.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create retailer service", err)
		os.Exit(1)
	}

	goodsRepo := goods.NewRepository(gormDB)
	goodsService, err := goods.NewService(goodsRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create goods service", err)
		os.Exit(1)
	}

	inventoryRepo := inventory.NewRepository(gormDB)
	inventoryService, err := inventory.NewService(inventoryRepo, dbClient, goodsRepo, outboxService)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	calculator, err := inventory.NewCalculator(inventoryRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create availability calculator", err)
		os.Exit(1)
	}

	backOrderService, err := backorders.NewService(backorders.ServiceParams{
		Repo:          backorders.NewRepository(gormDB),
		DBClient:      dbClient,
		Availability:  calculator,
		Events:        outboxService,
		StatusScanCap: cfg.BackOrders.StatusScanCap,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create back order service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

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
		Handler: routes.NewRouter(routes.Dependencies{
			Config:           cfg,
			Logger:           logg,
			DB:               dbClient,
			Redis:            redisClient,
			HTTPMetrics:      httpMetrics,
			AuthService:      authService,
			BackOrderService: backOrderService,
			RetailerService:  retailerService,
			GoodsService:     goodsService,
			InventoryService: inventoryService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
