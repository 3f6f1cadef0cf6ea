package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/jesuschirre/client-ecom/internal/app"
	"github.com/jesuschirre/client-ecom/internal/clock"
	"github.com/jesuschirre/client-ecom/internal/config"
	"github.com/jesuschirre/client-ecom/internal/inventory"
	"github.com/jesuschirre/client-ecom/internal/storage/postgres"
	transporthttp "github.com/jesuschirre/client-ecom/internal/transport/http"
	"github.com/jesuschirre/client-ecom/migrations"
)

const shutdownTimeout = 10 * time.Second

func main() {
	bootLogger, _ := zap.NewProduction()
	cfg, err := config.Load(bootLogger)
	if err != nil {
		bootLogger.Fatal("load config", zap.Error(err))
	}

	logger := newLogger(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("connect to db", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		logger.Fatal("db ping", zap.Error(err))
	}
	if _, err := migrations.Apply(startupCtx, pool, logger); err != nil {
		logger.Fatal("apply migrations", zap.Error(err))
	}

	clk := clock.NewSystemIn(cfg.Location)
	planRepo := postgres.NewPlanRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	contractRepo := postgres.NewContractRepository(pool)

	reconciler := inventory.NewReconciler(stockRepo,
		inventory.WithDefaultCapacity(cfg.StockDefaultCapacity),
		inventory.WithWindowDays(cfg.AvailabilityWindowDays),
		inventory.WithConcurrency(cfg.AvailabilityConcurrency),
		inventory.WithLookupTimeout(cfg.AvailabilityTimeout),
		inventory.WithLogger(logger.Named("inventory")),
	)

	quoteSvc := app.NewQuoteService(planRepo, reconciler, clk)
	stockSvc := app.NewStockService(planRepo, stockRepo, reconciler)
	contractSvc := app.NewContractService(contractRepo, planRepo, stockRepo, clk,
		app.WithDefaultCapacity(cfg.StockDefaultCapacity),
		app.WithOverbooking(cfg.AllowOverbooking),
		app.WithLogger(logger.Named("contracts")),
	)

	handler := transporthttp.NewRouter(transporthttp.Services{
		Quotes:    quoteSvc,
		Stock:     stockSvc,
		Contracts: contractSvc,
		DB:        pool,
	}, transporthttp.RouterConfig{
		CORSOrigins:        cfg.CORSOrigins,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Logger:             logger.Named("http"),
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("api listening", zap.String("port", cfg.Port), zap.String("timezone", cfg.Location.String()))

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
		}
	case <-stopCtx.Done():
		logger.Info("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger(level string) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if level == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
