package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/markethub/backend/internal/application/effects"
	eventapp "github.com/markethub/backend/internal/application/event"
	orderingapp "github.com/markethub/backend/internal/application/ordering"
	settlementapp "github.com/markethub/backend/internal/application/settlement"
	"github.com/markethub/backend/internal/domain/earnings"
	"github.com/markethub/backend/internal/infrastructure/auth"
	"github.com/markethub/backend/internal/infrastructure/cache"
	"github.com/markethub/backend/internal/infrastructure/config"
	"github.com/markethub/backend/internal/infrastructure/event"
	"github.com/markethub/backend/internal/infrastructure/gateway"
	"github.com/markethub/backend/internal/infrastructure/logger"
	"github.com/markethub/backend/internal/infrastructure/notification"
	"github.com/markethub/backend/internal/infrastructure/persistence"
	"github.com/markethub/backend/internal/infrastructure/telemetry"
	"github.com/markethub/backend/internal/interfaces/http/handler"
	"github.com/markethub/backend/internal/interfaces/http/router"
)

const appVersion = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting MarketHub settlement engine",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), cfg.Telemetry, appVersion)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()
	if tracerProvider.Enabled() {
		log.Info("Tracing enabled",
			zap.String("endpoint", cfg.Telemetry.CollectorEndpoint),
			zap.Float64("sampling_ratio", cfg.Telemetry.SamplingRatio),
		)
	}

	// Initialize database connection
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogLevel)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := telemetry.EnableDBTracing(db.DB, cfg.Telemetry); err != nil {
		log.Warn("Failed to enable database tracing", zap.Error(err))
	}

	// Initialize repositories
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	sellerRepo := persistence.NewGormSellerRepository(db.DB)
	sellerEarningsRepo := persistence.NewGormSellerEarningsRepository(db.DB)
	partnerRepo := persistence.NewGormPartnerRepository(db.DB)
	pointsLedger := persistence.NewGormPointsLedger(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Initialize event serializer and register all event types
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)

	// The settlement store stages order events through the outbox publisher
	// inside the settlement transaction
	outboxPublisher := event.NewOutboxPublisher(eventSerializer)
	settlementStore := persistence.NewGormSettlementStore(db.DB, outboxPublisher)

	// Payment gateway client
	paymentGateway, err := gateway.NewPaystackGateway(cfg.Gateway)
	if err != nil {
		log.Fatal("Failed to initialize payment gateway", zap.Error(err))
	}

	// Email sender for settlement notifications
	var emailSender notification.EmailSender
	if cfg.SMTP.Enabled {
		smtpSender, err := notification.NewSMTPSender(cfg.SMTP)
		if err != nil {
			log.Fatal("Failed to initialize SMTP sender", zap.Error(err))
		}
		emailSender = smtpSender
		log.Info("SMTP sender initialized", zap.String("host", cfg.SMTP.Host))
	} else {
		emailSender = notification.NoopSender{}
		log.Warn("SMTP disabled, settlement emails will be discarded")
	}

	// Idempotency store for side-effect handlers: Redis with in-memory fallback
	storeFactory := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log))
	idempotencyStore, err := storeFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}

	// Initialize event bus and settlement side-effect handlers.
	// Each handler runs in its own failure domain behind an idempotency
	// guard keyed by handler name and event ID.
	eventBus := event.NewInMemoryEventBus(log)

	notificationHandler := effects.NewNotificationHandler(emailSender, log)
	loyaltyHandler := effects.NewLoyaltyHandler(pointsLedger, cfg.Effects.BuyerPointsPerTenUnits, log)
	earningsHandler := effects.NewEarningsHandler(effects.EarningsHandlerConfig{
		EarningsRepo:             sellerEarningsRepo,
		Sellers:                  sellerRepo,
		Ledger:                   pointsLedger,
		SellerPointsPerTenUnits:  cfg.Effects.SellerPointsPerTenUnits,
		VerifiedSellerMultiplier: cfg.Effects.VerifiedSellerMultiplier,
		Logger:                   log,
	})
	commissionResolver := earnings.NewStaticCommissionResolver(decimal.NewFromFloat(cfg.Effects.CommissionRate))
	commissionHandler := effects.NewCommissionHandler(partnerRepo, commissionResolver, log)

	eventBus.Subscribe(event.NewIdempotentHandler("notification", notificationHandler, idempotencyStore, log))
	eventBus.Subscribe(event.NewIdempotentHandler("loyalty", loyaltyHandler, idempotencyStore, log))
	eventBus.Subscribe(event.NewIdempotentHandler("earnings", earningsHandler, idempotencyStore, log))
	eventBus.Subscribe(event.NewIdempotentHandler("commission", commissionHandler, idempotencyStore, log))

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Outbox processor drives committed settlement events onto the bus
	processorConfig := event.DefaultOutboxProcessorConfig()
	if cfg.Event.BatchSize > 0 {
		processorConfig.BatchSize = cfg.Event.BatchSize
	}
	if cfg.Event.PollInterval > 0 {
		processorConfig.PollInterval = cfg.Event.PollInterval
	}
	processorConfig.CleanupEnabled = cfg.Event.CleanupEnabled
	if cfg.Event.CleanupRetention > 0 {
		processorConfig.CleanupRetention = cfg.Event.CleanupRetention
	}

	if cfg.Event.ProcessorEnabled {
		outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, processorConfig, log)
		if err := outboxProcessor.Start(context.Background()); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		defer func() {
			if err := outboxProcessor.Stop(context.Background()); err != nil {
				log.Error("Error stopping outbox processor", zap.Error(err))
			}
		}()
		log.Info("Outbox processor started",
			zap.Int("batch_size", processorConfig.BatchSize),
			zap.Duration("poll_interval", processorConfig.PollInterval),
		)
	} else {
		log.Warn("Outbox processor disabled, settlement side effects will not run")
	}

	// Application services
	webhookService := settlementapp.NewWebhookService(settlementapp.WebhookServiceConfig{
		Gateway:  paymentGateway,
		Orders:   orderRepo,
		Payments: paymentRepo,
		Store:    settlementStore,
		Sellers:  sellerRepo,
		Logger:   log,
	})
	orderQueryService := orderingapp.NewOrderQueryService(orderRepo, paymentRepo, log)
	outboxService := eventapp.NewOutboxService(outboxRepo, log)

	jwtService := auth.NewJWTService(cfg.JWT)

	// HTTP layer
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	router.Setup(engine, router.Config{
		HTTP:           cfg.HTTP,
		TracingEnabled: cfg.Telemetry.Enabled,
		ServiceName:    cfg.App.Name,
		JWTService:     jwtService,
		Logger:         log,
	}, router.Handlers{
		Webhook: handler.NewWebhookHandler(webhookService, log),
		Orders:  handler.NewOrderHandler(orderQueryService),
		Outbox:  handler.NewOutboxHandler(outboxService),
		System:  handler.NewSystemHandler(),
		Health:  handler.NewHealthHandler(db.DB),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
