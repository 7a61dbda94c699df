package redisclient

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func stockKey(ingredientID string) string {
	return fmt.Sprintf("stock:%s", ingredientID)
}

// InitStock seeds the live stock mirror for an ingredient
func (c *Client) InitStock(ctx context.Context, ingredientID string, stock float64) error {
	return c.rdb.Set(ctx, stockKey(ingredientID), stock, 0).Err()
}

// AdjustStock applies a relative change to the stock mirror and returns the
// new level. INCRBYFLOAT is atomic, so concurrent adjustments never lose
// updates; no lower bound is enforced.
func (c *Client) AdjustStock(ctx context.Context, ingredientID string, delta float64) (float64, error) {
	val, err := c.rdb.IncrByFloat(ctx, stockKey(ingredientID), delta).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to adjust stock mirror: %w", err)
	}
	return val, nil
}

// GetStock reads the mirrored stock level for an ingredient
func (c *Client) GetStock(ctx context.Context, ingredientID string) (float64, error) {
	val, err := c.rdb.Get(ctx, stockKey(ingredientID)).Result()
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(val, 64)
}

// AcquireOrderLock takes the per-order mutation lock. Returns false if another
// writer holds it.
func (c *Client) AcquireOrderLock(ctx context.Context, orderID int64, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, fmt.Sprintf("lock:order:%d", orderID), "1", ttl).Result()
}

// ReleaseOrderLock releases the per-order mutation lock
func (c *Client) ReleaseOrderLock(ctx context.Context, orderID int64) error {
	return c.rdb.Del(ctx, fmt.Sprintf("lock:order:%d", orderID)).Err()
}

// SetIdempotencyKey stores an order-creation idempotency key with TTL
func (c *Client) SetIdempotencyKey(ctx context.Context, key string, orderID int64, ttl time.Duration) error {
	return c.rdb.Set(ctx, fmt.Sprintf("idempotency:%s", key), orderID, ttl).Err()
}

// GetIdempotencyKey returns the order id recorded for an idempotency key, or
// 0 when the key is unknown.
func (c *Client) GetIdempotencyKey(ctx context.Context, key string) (int64, error) {
	val, err := c.rdb.Get(ctx, fmt.Sprintf("idempotency:%s", key)).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(val, 10, 64)
}
