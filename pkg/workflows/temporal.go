// Package workflows connects to Temporal for the scheduled catalog jobs.
package workflows

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	"go.temporal.io/sdk/interceptor"
	temporallog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"

	"github.com/ghuser/shopfloor/pkg/config"
	"github.com/ghuser/shopfloor/pkg/logger"
)

// Options selects the Temporal frontend and the queue the cost jobs run on.
type Options struct {
	HostPort  string
	Namespace string
	TaskQueue string
}

// OptionsFromConfig maps the TEMPORAL_* settings.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		HostPort:  cfg.TemporalHostPort,
		Namespace: cfg.TemporalNamespace,
		TaskQueue: cfg.TemporalTaskQueue,
	}
}

func (o Options) validate() error {
	switch {
	case o.HostPort == "":
		return errors.New("temporal: host port required")
	case o.TaskQueue == "":
		return errors.New("temporal: task queue required")
	}
	return nil
}

// TemporalClient is a connected SDK client bound to one task queue.
type TemporalClient struct {
	Client    client.Client
	Namespace string
	TaskQueue string
	log       logger.Logger
}

// NewTemporalClient dials the frontend with tracing interceptors installed.
// Call Close on shutdown.
func NewTemporalClient(ctx context.Context, opts Options, log logger.Logger) (*TemporalClient, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	tracing, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{
		Tracer: otel.Tracer("shopfloor/temporal"),
	})
	if err != nil {
		return nil, fmt.Errorf("temporal tracing interceptor: %w", err)
	}

	c, err := client.DialContext(ctx, client.Options{
		HostPort:     opts.HostPort,
		Namespace:    opts.Namespace,
		Logger:       &sdkLogger{log: log.With("component", "temporal")},
		Interceptors: []interceptor.ClientInterceptor{tracing},
	})
	if err != nil {
		return nil, fmt.Errorf("dial temporal %s: %w", opts.HostPort, err)
	}
	log.Info("temporal connected", "host_port", opts.HostPort, "namespace", opts.Namespace, "task_queue", opts.TaskQueue)

	return &TemporalClient{Client: c, Namespace: opts.Namespace, TaskQueue: opts.TaskQueue, log: log}, nil
}

// NewWorker returns a worker polling the client's task queue. The caller
// registers workflows and activities before starting it.
func (tc *TemporalClient) NewWorker() worker.Worker {
	return worker.New(tc.Client, tc.TaskQueue, worker.Options{})
}

// Ping checks the frontend. Satisfies httpx.HealthChecker.
func (tc *TemporalClient) Ping(ctx context.Context) error {
	if _, err := tc.Client.CheckHealth(ctx, &client.CheckHealthRequest{}); err != nil {
		return fmt.Errorf("temporal health: %w", err)
	}
	return nil
}

func (tc *TemporalClient) Close() {
	tc.Client.Close()
	tc.log.Info("temporal client closed")
}

// sdkLogger routes SDK logs through the service logger.
type sdkLogger struct {
	log logger.Logger
}

var _ temporallog.Logger = (*sdkLogger)(nil)

func (l *sdkLogger) Debug(msg string, keyvals ...any) { l.log.Debug(msg, keyvals...) }
func (l *sdkLogger) Info(msg string, keyvals ...any)  { l.log.Info(msg, keyvals...) }
func (l *sdkLogger) Warn(msg string, keyvals ...any)  { l.log.Warn(msg, keyvals...) }
func (l *sdkLogger) Error(msg string, keyvals ...any) { l.log.Error(msg, keyvals...) }
