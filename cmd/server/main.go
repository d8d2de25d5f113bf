// Package main is the entry point for the invoice generator API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/config"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/core/clock"
	corenumerator "github.com/kk-cool167/Invoice-generator-v2-sub001/internal/core/numerator"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/domain/currency"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/domain/documents/delivery_note"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/domain/documents/purchase_order"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/domain/reference"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/infrastructure/cache"
	v1 "github.com/kk-cool167/Invoice-generator-v2-sub001/internal/infrastructure/http/v1"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/infrastructure/http/v1/handlers"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/infrastructure/http/v1/middleware"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/infrastructure/numerator"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/infrastructure/storage/migrations"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/infrastructure/storage/postgres"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/infrastructure/storage/postgres/catalog_repo"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/infrastructure/storage/postgres/document_repo"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/pkg/logger"
)

type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	ctx := context.Background()
	log.Infow("starting invoice generator server", "env", cfg.Env)

	// --- Migrations ---
	if cfg.MigrateOnStart {
		if err := migrate(cfg.Database.URL); err != nil {
			log.Fatalw("failed to apply migrations", "error", err)
		}
	}

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.Database.URL)
	if cfg.Database.MaxConns > 0 {
		poolCfg.MaxConns = cfg.Database.MaxConns
	}
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)
	clk := clock.Real{}

	// --- Exchange rates ---
	rateCache := currency.NewRateCache(catalog_repo.NewExchangeRateRepo(pool.Pool), clk, cfg.Currency.RateTTL)
	rateListener := cache.NewRateListener(pool.Pool, rateCache)
	if err := rateListener.Start(ctx); err != nil {
		log.Warnw("exchange rate listener not started", "error", err)
	} else {
		defer rateListener.Stop()
	}
	resolver := currency.NewResolver(currency.DefaultCompanyCurrencies())

	// --- Numbering ---
	numCfg := corenumerator.DefaultConfig()
	if cfg.Numbering.OrderAttempts > 0 {
		numCfg.OrderAttempts = cfg.Numbering.OrderAttempts
	}
	if cfg.Numbering.DeliveryPrefix != "" {
		numCfg.DeliveryPrefix = cfg.Numbering.DeliveryPrefix
	}
	numeratorService := numerator.NewWithTxManager(txManager, numCfg, clk)

	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to create audit service", "error", err)
	}

	// --- Services ---
	orderService := purchase_order.NewService(purchase_order.Deps{
		Repo:            document_repo.NewPurchaseOrderRepo(txManager),
		Parties:         catalog_repo.NewPartyRepo(txManager),
		References:      reference.NewValidator(catalog_repo.NewReferenceRepo(txManager), clk),
		Rates:           rateCache,
		Currencies:      resolver,
		Numerator:       numeratorService,
		TxManager:       txManager,
		Auditor:         auditService,
		DefaultLanguage: cfg.Currency.DefaultLanguage,
	})

	noteService := delivery_note.NewService(delivery_note.Deps{
		Repo:      document_repo.NewDeliveryNoteRepo(txManager),
		Linker:    delivery_note.NewLinker(catalog_repo.NewOrderItemRepo(txManager), cfg.Delivery.StrictLinking),
		Numerator: numeratorService,
		TxManager: txManager,
		Auditor:   auditService,
		Clock:     clk,
	})

	// --- Idempotency ---
	checks := map[string]handlers.Pinger{"database": pool}
	var idempotency middleware.IdempotencyStore
	if cfg.Redis.Addr != "" {
		rdb, err := cache.NewRedisClient(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatalw("failed to connect to redis", "error", err)
		}
		defer rdb.Close()
		idempotency = cache.NewRedisIdempotencyStore(rdb, cfg.Idempotent.TTL, clk)
		checks["redis"] = redisPinger{client: rdb}
		log.Infow("idempotency enabled", "redis", cfg.Redis.Addr)
	}

	// --- Router ---
	router, err := v1.NewRouter(v1.RouterConfig{
		Logger:         log,
		PurchaseOrders: orderService,
		DeliveryNotes:  noteService,
		Rates:          rateCache,
		Currencies:     resolver,
		History:        auditService,
		Idempotency:    idempotency,
		RateLimit:      cfg.RateLimit,
		HealthChecks:   checks,
		Debug:          cfg.IsDevelopment(),
	})
	if err != nil {
		log.Fatalw("failed to build router", "error", err)
	}

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	pool.LogStats(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func migrate(databaseURL string) error {
	m, err := migrations.New(databaseURL)
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up()
}
