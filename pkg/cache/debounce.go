package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const scanDebounceKeyPrefix = "production:scan"

// ScanDebouncer remembers recent scans in Redis so a repeated scan inside the
// window is recognised by every API instance.
// Key format: "production:scan:{key}"
type ScanDebouncer struct {
	client *RedisClient
}

// NewScanDebouncer creates a ScanDebouncer backed by the given RedisClient.
func NewScanDebouncer(r *RedisClient) *ScanDebouncer {
	return &ScanDebouncer{client: r}
}

// Claim marks key for window and reports whether this call set it. SET NX PX
// is atomic, so exactly one instance wins a repeated scan and the first
// scan's deadline is kept.
func (d *ScanDebouncer) Claim(ctx context.Context, key string, window time.Duration) (bool, error) {
	err := d.client.Client().SetArgs(ctx, scanKey(key), 1, redis.SetArgs{Mode: "NX", TTL: window}).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		return false, nil
	default:
		return false, fmt.Errorf("debounce claim: %w", err)
	}
}

// Release drops a claim whose write did not happen.
func (d *ScanDebouncer) Release(ctx context.Context, key string) error {
	if err := d.client.Client().Del(ctx, scanKey(key)).Err(); err != nil {
		return fmt.Errorf("debounce release: %w", err)
	}
	return nil
}

func scanKey(key string) string {
	return scanDebounceKeyPrefix + ":" + key
}

// LocalDebouncer is the single-process debouncer used without Redis.
type LocalDebouncer struct {
	mu    sync.Mutex
	seen  map[string]time.Time
	now   func() time.Time
	sweep int
}

// NewLocalDebouncer returns an empty LocalDebouncer. now may be nil.
func NewLocalDebouncer(now func() time.Time) *LocalDebouncer {
	if now == nil {
		now = time.Now
	}
	return &LocalDebouncer{seen: make(map[string]time.Time), now: now}
}

func (d *LocalDebouncer) Claim(_ context.Context, key string, window time.Duration) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	if until, ok := d.seen[key]; ok && now.Before(until) {
		return false, nil
	}
	d.seen[key] = now.Add(window)
	d.sweep++
	if d.sweep >= 1024 {
		d.sweep = 0
		for k, until := range d.seen {
			if !now.Before(until) {
				delete(d.seen, k)
			}
		}
	}
	return true, nil
}

func (d *LocalDebouncer) Release(_ context.Context, key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.seen, key)
	return nil
}
