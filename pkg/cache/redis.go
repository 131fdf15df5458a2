// Package cache holds the Redis-backed production caches: the live state
// index and the cross-instance scan debouncer.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/metric"

	"github.com/ghuser/shopfloor/pkg/config"
)

const (
	connectAttempts = 3
	connectBackoff  = 500 * time.Millisecond
)

// RedisClient is the shared Redis connection pool.
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient connects to cfg.RedisURL. The first ping is retried a few
// times since Redis may still be starting next to the service.
func NewRedisClient(cfg *config.Config) (*RedisClient, error) {
	opts, err := clientOptions(cfg)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)

	backoff := connectBackoff
	for attempt := 1; ; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err = rdb.Ping(ctx).Err()
		cancel()
		if err == nil {
			return &RedisClient{client: rdb}, nil
		}
		if attempt == connectAttempts {
			break
		}
		time.Sleep(backoff)
		backoff *= 2
	}
	_ = rdb.Close()
	return nil, fmt.Errorf("ping redis after %d attempts: %w", connectAttempts, err)
}

func clientOptions(cfg *config.Config) (*redis.Options, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.ClientName = cfg.ServiceName
	opts.PoolSize = 10
	opts.MinIdleConns = 2
	opts.MaxRetries = 3
	opts.DialTimeout = 5 * time.Second
	// scans block on the debounce check; keep reads short
	opts.ReadTimeout = time.Second
	opts.WriteTimeout = time.Second
	opts.PoolTimeout = 2 * time.Second
	return opts, nil
}

// RegisterPoolMetrics exports connection pool gauges on meter.
func (r *RedisClient) RegisterPoolMetrics(meter metric.Meter) error {
	total, err := meter.Int64ObservableGauge("redis.pool.connections", metric.WithDescription("open connections"))
	if err != nil {
		return fmt.Errorf("redis pool gauge: %w", err)
	}
	idle, err := meter.Int64ObservableGauge("redis.pool.idle", metric.WithDescription("idle connections"))
	if err != nil {
		return fmt.Errorf("redis idle gauge: %w", err)
	}
	timeouts, err := meter.Int64ObservableCounter("redis.pool.timeouts", metric.WithDescription("waits for a free connection that timed out"))
	if err != nil {
		return fmt.Errorf("redis timeout counter: %w", err)
	}
	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		s := r.client.PoolStats()
		o.ObserveInt64(total, int64(s.TotalConns))
		o.ObserveInt64(idle, int64(s.IdleConns))
		o.ObserveInt64(timeouts, int64(s.Timeouts))
		return nil
	}, total, idle, timeouts)
	if err != nil {
		return fmt.Errorf("register redis pool metrics: %w", err)
	}
	return nil
}

// Ping satisfies httpx.HealthChecker.
func (r *RedisClient) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Close releases the pool.
func (r *RedisClient) Close() error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Close(); err != nil {
		return fmt.Errorf("redis close: %w", err)
	}
	return nil
}

// Client returns the underlying client for sessions and realtime pub/sub.
func (r *RedisClient) Client() *redis.Client {
	return r.client
}
