package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// LiveIndexTTL bounds how long an index entry survives without a refresh.
	LiveIndexTTL = 24 * time.Hour

	liveIndexKeyPrefix = "production:live"
)

// LiveEntry points a live (order, product) key at its production state.
// Stored as a Redis hash.
type LiveEntry struct {
	StateID     uuid.UUID `json:"state_id"`
	OrderID     string    `json:"order_id"`
	ProductCode string    `json:"product_code"`
	OperatorID  string    `json:"operator_id"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LiveIndex is a read-through index of live production states.
// Key format: "production:live:{orderID}-{productCode}"
type LiveIndex struct {
	client *RedisClient
}

// NewLiveIndex creates a LiveIndex backed by the given RedisClient.
func NewLiveIndex(r *RedisClient) *LiveIndex {
	return &LiveIndex{client: r}
}

// Get returns redis.Nil when the key does not exist or has expired.
func (c *LiveIndex) Get(ctx context.Context, orderID, productCode string) (*LiveEntry, error) {
	vals, err := c.client.Client().HGetAll(ctx, LiveIndexKey(orderID, productCode)).Result()
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if len(vals) == 0 {
		return nil, redis.Nil
	}

	id, err := uuid.Parse(vals["state_id"])
	if err != nil {
		return nil, fmt.Errorf("cache parse state_id: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, vals["updated_at"])
	if err != nil {
		return nil, fmt.Errorf("cache parse updated_at: %w", err)
	}

	return &LiveEntry{
		StateID:     id,
		OrderID:     vals["order_id"],
		ProductCode: vals["product_code"],
		OperatorID:  vals["operator_id"],
		UpdatedAt:   updatedAt,
	}, nil
}

// Set writes the entry as a Redis hash with LiveIndexTTL in one pipeline.
func (c *LiveIndex) Set(ctx context.Context, e *LiveEntry) error {
	key := LiveIndexKey(e.OrderID, e.ProductCode)
	pipe := c.client.Client().Pipeline()
	pipe.HSet(ctx, key,
		"state_id", e.StateID.String(),
		"order_id", e.OrderID,
		"product_code", e.ProductCode,
		"operator_id", e.OperatorID,
		"updated_at", e.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	pipe.Expire(ctx, key, LiveIndexTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes the entry for the key.
func (c *LiveIndex) Delete(ctx context.Context, orderID, productCode string) error {
	if err := c.client.Client().Del(ctx, LiveIndexKey(orderID, productCode)).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// LiveIndexKey builds "production:live:{orderID}-{productCode}".
func LiveIndexKey(orderID, productCode string) string {
	return fmt.Sprintf("%s:%s-%s", liveIndexKeyPrefix, orderID, productCode)
}
