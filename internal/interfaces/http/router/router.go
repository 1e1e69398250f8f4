// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/markethub/backend/internal/infrastructure/auth"
	"github.com/markethub/backend/internal/infrastructure/config"
	"github.com/markethub/backend/internal/infrastructure/logger"
	"github.com/markethub/backend/internal/interfaces/http/handler"
	"github.com/markethub/backend/internal/interfaces/http/middleware"
)

// Handlers bundles everything the router mounts
type Handlers struct {
	Webhook *handler.WebhookHandler
	Orders  *handler.OrderHandler
	Outbox  *handler.OutboxHandler
	System  *handler.SystemHandler
	Health  *handler.HealthHandler
}

// Config holds router-level settings
type Config struct {
	HTTP           config.HTTPConfig
	TracingEnabled bool
	ServiceName    string
	JWTService     *auth.JWTService
	Logger         *zap.Logger
}

// Setup registers all routes and middleware on the engine.
// The webhook route is public: the gateway authenticates with the body
// signature, not a bearer token. Admin routes require an admin JWT.
func Setup(engine *gin.Engine, cfg Config, h Handlers) {
	middleware.SetupValidator()

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(cfg.Logger))
	engine.Use(logger.GinMiddleware(cfg.Logger))
	engine.Use(middleware.CORSWithConfig(corsConfig(cfg.HTTP)))
	engine.Use(middleware.Secure())
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.ServiceName,
		Enabled:     cfg.TracingEnabled,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	engine.GET("/health", h.Health.Live)
	engine.GET("/ready", h.Health.Ready)

	api := engine.Group("/api/v1")

	webhooks := api.Group("/webhooks")
	{
		webhooks.POST("/payment", h.Webhook.HandlePaymentCallback)
	}

	orders := api.Group("/orders")
	{
		orders.GET("/:id", h.Orders.GetOrder)
		orders.GET("/:id/payments", h.Orders.GetOrderPayments)
	}

	system := api.Group("/system")
	{
		system.GET("/info", h.System.GetSystemInfo)
		system.GET("/ping", h.System.Ping)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.JWTAuth(cfg.JWTService), middleware.RequireAdmin())
	{
		outbox := admin.Group("/outbox")
		outbox.GET("/stats", h.Outbox.GetStats)
		outbox.GET("/dead", h.Outbox.GetDeadLetterEntries)
		outbox.GET("/:id", h.Outbox.GetEntry)
		outbox.POST("/:id/retry", h.Outbox.RetryDeadEntry)
		outbox.POST("/dead/retry-all", h.Outbox.RetryAllDeadEntries)
	}
}

func corsConfig(httpCfg config.HTTPConfig) middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	if len(httpCfg.CORSAllowOrigins) > 0 {
		cors.AllowOrigins = httpCfg.CORSAllowOrigins
	}
	cors.MaxAge = 12 * time.Hour
	return cors
}
