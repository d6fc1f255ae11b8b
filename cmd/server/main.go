package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	orderapp "github.com/pharmalink/backend/internal/application/order"
	pharmacyapp "github.com/pharmalink/backend/internal/application/pharmacy"
	"github.com/pharmalink/backend/internal/domain/order"
	"github.com/pharmalink/backend/internal/domain/pharmacy"
	"github.com/pharmalink/backend/internal/infrastructure/catalog"
	"github.com/pharmalink/backend/internal/infrastructure/config"
	"github.com/pharmalink/backend/internal/infrastructure/dispatch"
	"github.com/pharmalink/backend/internal/infrastructure/logger"
	"github.com/pharmalink/backend/internal/infrastructure/store"
	"github.com/pharmalink/backend/internal/infrastructure/telemetry"
	"github.com/pharmalink/backend/internal/interfaces/http/dto"
	"github.com/pharmalink/backend/internal/interfaces/http/handler"
	"github.com/pharmalink/backend/internal/interfaces/http/middleware"
	"github.com/pharmalink/backend/internal/interfaces/http/router"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: logger.DefaultTimeFormat,
	}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	log.Info("Starting pharmacy order service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	// Telemetry
	providers, err := telemetry.Setup(ctx, telemetry.FromAppConfig(cfg.Telemetry, version), log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	// Once the OTel logger provider is global, rebuild the logger so every
	// entry is also exported.
	if providers.LogsEnabled() {
		bridged, err := logger.New(logCfg, logger.WithOTelBridge(cfg.Telemetry.ServiceName))
		if err != nil {
			log.Fatal("Failed to initialize bridged logger", zap.Error(err))
		}
		log = bridged
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	// Keyed entity store
	backend, err := store.NewFactory(cfg,
		store.WithLogger(log),
		store.WithMemoryFallback(cfg.Store.AllowMemoryFallback),
		store.WithDBTracing(cfg.Telemetry.DBTraceEnabled),
	).Open(ctx)
	if err != nil {
		log.Fatal("Failed to open entity store", zap.Error(err))
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.Error("Error closing entity store", zap.Error(err))
		}
	}()

	pharmacies := store.New(backend, pharmacy.Namespace, func() *pharmacy.Pharmacy { return &pharmacy.Pharmacy{} })
	orders := store.New(backend, order.Namespace, func() *order.Order { return &order.Order{} })

	// Vendor adapters
	registryOpts := []dispatch.RegistryOption{dispatch.WithRegistryLogger(log)}
	if providers.MetricsEnabled() {
		dispatchMetrics, err := telemetry.NewDispatchMetrics(providers.Meter("dispatch"))
		if err != nil {
			log.Fatal("Failed to create dispatch metrics", zap.Error(err))
		}
		registryOpts = append(registryOpts, dispatch.WithRegistryMetrics(dispatchMetrics))
	}
	registry := dispatch.NewRegistry(cfg.Integration, registryOpts...)

	// Application services
	pharmacyService := pharmacyapp.NewService(pharmacies, log)
	orderService := orderapp.NewService(orders, pharmacies, registry, log)

	if cfg.Catalog.SeedOnStart {
		seeder := pharmacyapp.NewSeeder(catalog.NewClient(cfg.Catalog.PharmacyAPI, cfg.Catalog.Timeout), pharmacies, log)
		seedCtx, cancel := context.WithTimeout(ctx, cfg.Catalog.Timeout)
		n, err := seeder.Seed(seedCtx)
		cancel()
		if err != nil {
			log.Fatal("Failed to seed pharmacies", zap.Error(err))
		}
		log.Info("Pharmacies seeded", zap.Int("count", n))
	}

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     providers.TracingEnabled(),
		SkipPaths:   []string{"/health"},
	}))
	engine.Use(middleware.SpanEnricher())
	engine.Use(logger.GinMiddleware(log, "/health"))
	engine.Use(middleware.HTTPMetrics(providers.Meter("http"), log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeNotFound, "Route not found", middleware.GetRequestID(c)))
	})

	systemHandler := handler.NewSystemHandler(cfg.App.Name, version, backend, registry)
	engine.GET("/health", systemHandler.Health)

	router.NewRouter(engine).
		Register(handler.PharmacyRoutes(handler.NewPharmacyHandler(pharmacyService))).
		Register(handler.OrderRoutes(handler.NewOrderHandler(orderService))).
		Register(handler.SystemRoutes(systemHandler)).
		Setup()

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down telemetry", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
