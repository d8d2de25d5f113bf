// Package v1 provides HTTP API version 1.
package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/domain/documents/delivery_note"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/domain/documents/purchase_order"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/infrastructure/http/v1/handlers"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/infrastructure/http/v1/middleware"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	PurchaseOrders handlers.PurchaseOrderService
	DeliveryNotes  handlers.DeliveryNoteService
	Rates          handlers.RateCache
	Currencies     handlers.CurrencyResolver

	// History is optional; nil hides the /:id/history routes.
	History handlers.AuditHistory

	// Idempotency is optional; nil disables replay protection.
	Idempotency middleware.IdempotencyStore

	// RateLimit uses the limiter syntax, e.g. "300-M". Empty disables it.
	RateLimit string

	// HealthChecks are pinged by the readiness probe.
	HealthChecks map[string]handlers.Pinger

	// Debug keeps gin in debug mode.
	Debug bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.HealthChecks)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	api := router.Group("/api/v1")
	if cfg.RateLimit != "" {
		limit, err := middleware.RateLimit(cfg.RateLimit)
		if err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
		api.Use(limit)
	}

	base := handlers.NewBaseHandler()
	idempotent := middleware.Idempotency(cfg.Idempotency)
	var history *handlers.HistoryHandler
	if cfg.History != nil {
		history = handlers.NewHistoryHandler(base, cfg.History)
	}

	if cfg.PurchaseOrders != nil {
		h := handlers.NewPurchaseOrderHandler(base, cfg.PurchaseOrders)
		orders := api.Group("/purchase-orders")
		orders.POST("", idempotent, h.Create)
		orders.GET("/:id", h.Get)
		if history != nil {
			orders.GET("/:id/history", history.For(purchase_order.EntityType))
		}
	}

	if cfg.DeliveryNotes != nil {
		h := handlers.NewDeliveryNoteHandler(base, cfg.DeliveryNotes)
		notes := api.Group("/delivery-notes")
		notes.POST("", idempotent, h.Create)
		notes.GET("/:id", h.Get)
		if history != nil {
			notes.GET("/:id/history", history.For(delivery_note.EntityType))
		}
	}

	if cfg.Rates != nil && cfg.Currencies != nil {
		h := handlers.NewCurrencyHandler(base, cfg.Rates, cfg.Currencies)
		api.GET("/exchange-rates", h.Rates)
		api.POST("/exchange-rates/refresh", h.Refresh)
		api.GET("/currency/convert", h.Convert)
		api.GET("/currency/resolve", h.Resolve)
	}

	return router, nil
}
