package redisclient

import (
	"context"
	_ "embed"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

//go:embed scripts/record_demand.lua
var recordDemandScript string

//go:embed scripts/adjust_stock.lua
var adjustStockScript string

type Client struct {
	rdb          *redis.Client
	demandScript *redis.Script
	stockScript  *redis.Script
}

// NewClient creates a new Redis client with Lua scripts loaded
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

	return &Client{
		rdb:          rdb,
		demandScript: redis.NewScript(recordDemandScript),
		stockScript:  redis.NewScript(adjustStockScript),
	}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// SetMarketSignals writes stock and demand levels for a product
func (c *Client) SetMarketSignals(ctx context.Context, productID int64, stock, demand float64) error {
	key := fmt.Sprintf("signals:%d", productID)

	pipe := c.rdb.Pipeline()
	pipe.HSet(ctx, key, "stock", stock)
	pipe.HSet(ctx, key, "demand", demand)
	pipe.HSet(ctx, key, "updated_at", time.Now().Unix())

	_, err := pipe.Exec(ctx)
	return err
}

// GetMarketSignals retrieves stock and demand levels for a product
func (c *Client) GetMarketSignals(ctx context.Context, productID int64) (stock, demand float64, err error) {
	key := fmt.Sprintf("signals:%d", productID)

	result, err := c.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}

	if len(result) == 0 {
		return 0, 0, fmt.Errorf("market signals not found for product %d", productID)
	}

	stock, _ = strconv.ParseFloat(result["stock"], 64)
	demand, _ = strconv.ParseFloat(result["demand"], 64)

	return stock, demand, nil
}

// RecordDemand atomically increments the demand level using Lua script
// Returns the new demand level
func (c *Client) RecordDemand(ctx context.Context, productID int64, increment float64) (float64, error) {
	key := fmt.Sprintf("signals:%d", productID)

	result, err := c.demandScript.Run(ctx, c.rdb, []string{key}, increment, time.Now().Unix()).Result()
	if err != nil {
		return 0, fmt.Errorf("record demand script failed: %w", err)
	}

	demand, err := strconv.ParseFloat(fmt.Sprint(result), 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected script result type")
	}

	return demand, nil
}

// AdjustStock atomically adjusts the stock level, clamped at zero
// Returns the new stock level
func (c *Client) AdjustStock(ctx context.Context, productID int64, delta float64) (float64, error) {
	key := fmt.Sprintf("signals:%d", productID)

	result, err := c.stockScript.Run(ctx, c.rdb, []string{key}, delta, time.Now().Unix()).Result()
	if err != nil {
		return 0, fmt.Errorf("adjust stock script failed: %w", err)
	}

	switch v := result.(type) {
	case int64:
		return float64(v), nil
	case string:
		stock, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("unexpected script result type")
		}
		return stock, nil
	default:
		return 0, fmt.Errorf("unexpected script result type")
	}
}

// CacheQuote stores a computed quote with TTL
func (c *Client) CacheQuote(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, fmt.Sprintf("quote:%s", key), payload, ttl).Err()
}

// GetCachedQuote retrieves a cached quote, returns nil if absent
func (c *Client) GetCachedQuote(ctx context.Context, key string) ([]byte, error) {
	payload, err := c.rdb.Get(ctx, fmt.Sprintf("quote:%s", key)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// SetIdempotencyKey stores an idempotency key with TTL
func (c *Client) SetIdempotencyKey(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.rdb.Set(ctx, fmt.Sprintf("idempotency:%s", key), value, ttl).Err()
}

// CheckIdempotencyKey checks if an idempotency key exists
func (c *Client) CheckIdempotencyKey(ctx context.Context, key string) (bool, error) {
	result, err := c.rdb.Exists(ctx, fmt.Sprintf("idempotency:%s", key)).Result()
	if err != nil {
		return false, err
	}
	return result > 0, nil
}

// AcquireLock acquires a distributed lock
func (c *Client) AcquireLock(ctx context.Context, lockKey string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, fmt.Sprintf("lock:%s", lockKey), "1", ttl).Result()
}

// ReleaseLock releases a distributed lock
func (c *Client) ReleaseLock(ctx context.Context, lockKey string) error {
	return c.rdb.Del(ctx, fmt.Sprintf("lock:%s", lockKey)).Err()
}
