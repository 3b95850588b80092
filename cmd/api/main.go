package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/inventag/inventag-backend/api/routes"
	alertsvc "github.com/inventag/inventag-backend/internal/alerts"
	"github.com/inventag/inventag-backend/internal/auth"
	"github.com/inventag/inventag-backend/internal/cart"
	checkoutsvc "github.com/inventag/inventag-backend/internal/checkout"
	"github.com/inventag/inventag-backend/internal/inventory"
	"github.com/inventag/inventag-backend/internal/scanner"
	"github.com/inventag/inventag-backend/internal/scans"
	"github.com/inventag/inventag-backend/internal/settings"
	"github.com/inventag/inventag-backend/internal/users"
	"github.com/inventag/inventag-backend/pkg/auth/session"
	"github.com/inventag/inventag-backend/pkg/config"
	"github.com/inventag/inventag-backend/pkg/db"
	"github.com/inventag/inventag-backend/pkg/logger"
	"github.com/inventag/inventag-backend/pkg/metrics"
	"github.com/inventag/inventag-backend/pkg/migrate"
	"github.com/inventag/inventag-backend/pkg/reader"
	"github.com/inventag/inventag-backend/pkg/redis"
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	settingsService, err := settings.NewService(settings.ServiceParams{
		Store:        redisClient,
		Keyer:        redisClient,
		ReaderConfig: cfg.Reader,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create settings service", err)
		os.Exit(1)
	}

	readerClient, err := reader.NewClient(settingsService, cfg.Reader)
	if err != nil {
		logg.Error(context.Background(), "failed to create reader client", err)
		os.Exit(1)
	}

	inventoryService, err := inventory.NewService(inventory.ServiceParams{
		Repo:         inventory.NewRepository(dbClient.DB()),
		AlertsConfig: cfg.Alerts,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cart.ServiceParams{
		Repo:      cart.NewRepository(dbClient.DB()),
		Inventory: inventoryService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	alertsService, err := alertsvc.NewService(alertsvc.ServiceParams{
		Repo: alertsvc.NewRepository(dbClient.DB()),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create alerts service", err)
		os.Exit(1)
	}

	scansService, err := scans.NewService(scans.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create scans service", err)
		os.Exit(1)
	}

	scanMetrics := metrics.NewScanMetrics(prometheus.DefaultRegisterer)

	scannerSession, err := scanner.NewSession(scanner.SessionParams{
		Reader:  readerClient,
		Device:  readerClient,
		Logger:  logg,
		Metrics: scanMetrics,
		Config:  cfg.Reader,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create scanner session", err)
		os.Exit(1)
	}

	coordinator, err := checkoutsvc.NewCoordinator(checkoutsvc.CoordinatorParams{
		Carts:  cartService,
		Stock:  inventoryService,
		Alerts: alertsService,
		Scans:  scansService,
		Policy: alertsvc.NewPolicy(cfg.Alerts.LowStockThreshold, nil),
		Device: readerClient,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout coordinator", err)
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
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:      cfg,
			Logger:      logg,
			DB:          dbClient,
			Redis:       redisClient,
			Sessions:    sessionManager,
			AuthService: authService,
			Inventory:   inventoryService,
			Cart:        cartService,
			Alerts:      alertsService,
			Scans:       scansService,
			Settings:    settingsService,
			Scanner:     scannerSession,
			Checkout:    coordinator,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
