package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"

	"github.com/ghuser/shopfloor/pkg/app"
	"github.com/ghuser/shopfloor/pkg/cache"
	"github.com/ghuser/shopfloor/pkg/config"
	"github.com/ghuser/shopfloor/pkg/database"
	"github.com/ghuser/shopfloor/pkg/events"
	"github.com/ghuser/shopfloor/pkg/httpx"
	"github.com/ghuser/shopfloor/pkg/logger"
	"github.com/ghuser/shopfloor/pkg/realtime"
	"github.com/ghuser/shopfloor/pkg/storage"
	"github.com/ghuser/shopfloor/pkg/telemetry"
	"github.com/ghuser/shopfloor/pkg/workflows"
	catalogServices "github.com/ghuser/shopfloor/services/catalog/application/services"
	catalogWorkflows "github.com/ghuser/shopfloor/services/catalog/application/workflows"
	catalogEvents "github.com/ghuser/shopfloor/services/catalog/domain/events"
	"github.com/ghuser/shopfloor/services/production/application/subscribers"
	productionEvents "github.com/ghuser/shopfloor/services/production/domain/events"
	productionPostgres "github.com/ghuser/shopfloor/services/production/infrastructure/persistence/postgres"
)

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

	ctx := context.Background()

	tel, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer tel.Shutdown(ctx) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	log.Info("database pool connected")

	eventBus, err := events.Open(events.OptionsFromConfig(cfg, false), log)
	if err != nil {
		log.Error("failed to open event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	if err := redisClient.RegisterPoolMetrics(otel.Meter(cfg.ServiceName + "-worker")); err != nil {
		log.Warn("redis pool metrics unavailable", "error", err)
	}
	log.Info("redis connected")

	var archive *storage.Archive
	if cfg.ArchiveEnabled {
		archive, err = storage.New(ctx, storage.OptionsFromConfig(cfg), log)
		if err == nil {
			err = archive.EnsureBucket(ctx)
		}
		if err != nil {
			log.Error("failed to initialize archive", "error", err)
			os.Exit(1) //nolint:gocritic
		}
	}

	var temporalClient *workflows.TemporalClient
	if cfg.TemporalEnabled {
		temporalClient, err = workflows.NewTemporalClient(ctx, workflows.OptionsFromConfig(cfg), log)
		if err != nil {
			log.Error("failed to initialize temporal client", "error", err)
			os.Exit(1) //nolint:gocritic
		}
	}

	appConfig := &app.Application{
		Config:         cfg,
		Db:             pool,
		Logger:         log,
		EventBus:       eventBus,
		Redis:          redisClient,
		TemporalClient: temporalClient,
		Archive:        archive,
	}
	defer appConfig.Close()

	if err := registerSubscribers(ctx, appConfig); err != nil {
		log.Error("failed to register subscribers", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	if temporalClient != nil {
		w := temporalClient.NewWorker()
		catalogWorkflows.Register(w, catalogServices.New(appConfig).Cost)
		if err := w.Start(); err != nil {
			log.Error("failed to start temporal worker", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer w.Stop()
		log.Info("temporal worker started", "task_queue", temporalClient.TaskQueue)
	}

	mux := chi.NewRouter()
	mux.Get("/health", httpx.HealthHandler(appConfig.HealthChecks()))
	mux.Get("/metrics", tel.MetricsHandler().ServeHTTP)
	healthSrv := httpx.NewServer(cfg.WorkerAddr, mux)
	go func() {
		log.Info("worker health server listening", "addr", healthSrv.Addr)
		if err := healthSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("worker health server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = healthSrv.Shutdown(shutdownCtx)

	// appConfig.Close waits for in-flight handlers
	log.Info("worker stopped")
}

// registerSubscribers feeds production and catalog events to the realtime
// channel and the archive.
func registerSubscribers(ctx context.Context, a *app.Application) error {
	relay := &subscribers.Relay{
		Realtime: realtime.NewPublisher(a.Redis.Client(), a.Config.RealtimeChannel),
		States:   productionPostgres.NewProductionRepository(a.Db),
		Log:      a.Logger,
	}
	if a.Archive != nil {
		relay.Archive = a.Archive
	}

	handlers := map[string]events.Handler{
		productionEvents.TopicStateChanged:   relay.HandleStateChanged,
		productionEvents.TopicNotification:   relay.HandleNotification,
		catalogEvents.TopicUnitCostRefreshed: relay.Forward(catalogEvents.TopicUnitCostRefreshed),
	}

	topics, err := a.EventBus.SubscribeAll(ctx, handlers)
	if err != nil {
		return err
	}

	a.Logger.Info("event subscribers registered", "topics", topics)
	return nil
}
