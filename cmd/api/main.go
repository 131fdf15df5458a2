package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"

	_ "github.com/ghuser/shopfloor/docs/swagger"
	"github.com/ghuser/shopfloor/pkg/app"
	"github.com/ghuser/shopfloor/pkg/auth"
	"github.com/ghuser/shopfloor/pkg/cache"
	"github.com/ghuser/shopfloor/pkg/config"
	"github.com/ghuser/shopfloor/pkg/database"
	"github.com/ghuser/shopfloor/pkg/errhttp"
	"github.com/ghuser/shopfloor/pkg/events"
	"github.com/ghuser/shopfloor/pkg/httpx"
	"github.com/ghuser/shopfloor/pkg/logger"
	"github.com/ghuser/shopfloor/pkg/realtime"
	"github.com/ghuser/shopfloor/pkg/storage"
	"github.com/ghuser/shopfloor/pkg/telemetry"
	"github.com/ghuser/shopfloor/pkg/workflows"
	catalogApi "github.com/ghuser/shopfloor/services/catalog/application/api"
	productionApi "github.com/ghuser/shopfloor/services/production/application/api"
	productionServices "github.com/ghuser/shopfloor/services/production/application/services"
	"github.com/ghuser/shopfloor/services/production/infrastructure/barcodemap"
)

// @title					Shopfloor API
// @version				1.0
// @description			Manufacturing execution core: BOM costing and production tracking.
// @termsOfService			http://swagger.io/terms/
// @contact.name			API Support
// @contact.email			support@shopfloor.dev
// @license.name			MIT
// @license.url			https://opensource.org/licenses/MIT
// @host					localhost:8080
// @BasePath				/api
// @schemes				http https
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	// Telemetry: OTel tracing + metrics
	ctx := context.Background()
	tel, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer tel.Shutdown(ctx) //nolint:errcheck

	// Crash reporting: Sentry (optional; log and continue on failure)
	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic // intentional: startup failure, deferred flushes are best-effort
	}
	log.Info("database pool connected")

	eventBus, err := events.Open(events.OptionsFromConfig(cfg, true), log)
	if err != nil {
		log.Error("failed to open event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	if err := eventBus.RunOutbox(ctx); err != nil {
		log.Error("failed to start event outbox", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1) //nolint:gocritic // intentional: startup failure
	}
	if err := redisClient.RegisterPoolMetrics(otel.Meter(cfg.ServiceName)); err != nil {
		log.Warn("redis pool metrics unavailable", "error", err)
	}
	log.Info("redis connected")

	var temporalClient *workflows.TemporalClient
	if cfg.TemporalEnabled {
		temporalClient, err = workflows.NewTemporalClient(ctx, workflows.OptionsFromConfig(cfg), log)
		if err != nil {
			log.Error("failed to initialize temporal client", "error", err)
			os.Exit(1) //nolint:gocritic // intentional: startup failure
		}
	}

	var archive *storage.Archive
	if cfg.ArchiveEnabled {
		archive, err = storage.New(ctx, storage.OptionsFromConfig(cfg), log)
		if err != nil {
			log.Error("failed to initialize archive", "error", err)
			os.Exit(1) //nolint:gocritic
		}
	}

	sessionStore := auth.NewOperatorStore(redisClient.Client(), auth.StoreOptions{
		AuthKey:       []byte(cfg.SessionAuthKey),
		EncryptionKey: []byte(cfg.SessionEncryptionKey),
		Shift:         cfg.SessionShift,
		Secure:        cfg.IsProduction(),
	})
	log.Info("session store initialized", "backend", "redis")

	appConfig := &app.Application{
		Config:         cfg,
		Db:             pool,
		Logger:         log,
		EventBus:       eventBus,
		Redis:          redisClient,
		TemporalClient: temporalClient,
		SessionStore:   sessionStore,
		Archive:        archive,
	}
	defer appConfig.Close()

	barcodes, err := barcodemap.Load(cfg.BarcodeMapPath)
	if err != nil {
		log.Warn("barcode map unavailable, static mapping disabled", "path", cfg.BarcodeMapPath, "error", err)
		barcodes = barcodemap.New(nil)
	}
	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	go func() {
		if err := barcodes.Watch(watchCtx, log, nil); err != nil {
			log.Error("barcode map watcher stopped", "error", err)
		}
	}()
	log.Info("barcode map loaded", "entries", barcodes.Len())

	production := productionServices.New(appConfig, barcodes)

	r := httpx.NewRouter(
		httpx.ServerConfig{
			ServiceName:        cfg.ServiceName,
			IsDevelopment:      cfg.Environment == config.EnvDevelopment,
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
			RateLimit:          cfg.RateLimit,
			StreamPrefixes:     []string{"/api/realtime"},
		},
		logger.Middleware(log),
		logger.Recovery(log),
		telemetry.SentryMiddleware(),
		otelhttp.NewMiddleware(cfg.ServiceName),
	)

	r.Get("/health", httpx.HealthHandler(appConfig.HealthChecks()))
	r.Get("/metrics", tel.MetricsHandler().ServeHTTP)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	r.Route("/api", func(r chi.Router) {
		r.Use(errhttp.Policy(cfg.IsProduction()))
		registerRoutes(r, appConfig, production)
	})

	srv := httpx.NewServer(cfg.HTTPAddr, r)

	go func() {
		log.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", "error", err)
		os.Exit(1)
	}
	production.Emitter.Wait()
	log.Info("server stopped")
}

// registerRoutes mounts all service routes under /api.
// Add each new service's route function here.
func registerRoutes(r chi.Router, a *app.Application, production *productionServices.Services) {
	sessions := auth.NewSessionHandler(a.SessionStore, a.Logger)
	r.Post("/operator/session", sessions.SignIn)
	r.Delete("/operator/session", sessions.SignOut)

	r.With(auth.RequireOperator(a.SessionStore, a.Logger)).
		Get("/realtime", realtime.StreamHandler(a.Redis.Client(), a.Config.RealtimeChannel, a.Logger))

	catalogApi.CatalogRoutes(r, a)
	productionApi.ProductionRoutes(r, a, production)
}
