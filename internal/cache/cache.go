// Package cache is a read-through JSON cache on Redis. A Cache without a client is
// disabled: every read misses and every write is dropped.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"finance-tracker-backend/internal/log"
)

// TTLs per cached resource.
const (
	CategoriesTTL   = time.Hour
	TransactionsTTL = 60 * time.Second
	BudgetsTTL      = 60 * time.Second
	AnalyticsTTL    = 5 * time.Minute
)

type Cache struct {
	client *redis.Client
	logger *log.Logger
}

// New wraps client. client may be nil.
func New(client *redis.Client, logger *log.Logger) *Cache {
	return &Cache{client: client, logger: logger.WithComponent(log.ComponentCache)}
}

// Connect builds a client for redisURL and checks it answers.
// Both "redis://host:port/db" and a bare "host:port" are accepted.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	if !strings.Contains(redisURL, "://") {
		redisURL = "redis://" + redisURL
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// Enabled reports whether the cache is backed by Redis.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// GetJSON decodes the value at key into dst. It reports false on a miss or on any error.
func (c *Cache) GetJSON(ctx context.Context, key string, dst any) bool {
	if !c.Enabled() {
		return false
	}
	cached, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WarnContext(ctx, "Cache read failed", "key", key, log.FieldError, err)
		}
		return false
	}
	if err := json.Unmarshal(cached, dst); err != nil {
		c.logger.WarnContext(ctx, "Discarding undecodable cache entry", "key", key, log.FieldError, err)
		return false
	}
	return true
}

// SetJSON stores v at key for ttl.
func (c *Cache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) {
	if !c.Enabled() {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.WarnContext(ctx, "Cache encode failed", "key", key, log.FieldError, err)
		return
	}
	if err := c.client.SetEx(ctx, key, data, ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "Cache write failed", "key", key, log.FieldError, err)
	}
}

// Invalidate deletes keys.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if !c.Enabled() || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.WarnContext(ctx, "Cache invalidation failed", "keys", keys, log.FieldError, err)
	}
}

// Close releases the client.
func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

func CategoriesKey() string {
	return "categories"
}

func TransactionsKey(userID string) string {
	return "transactions:" + userID
}

func BudgetsKey(userID string) string {
	return "budgets:" + userID
}

func AnalyticsKey(userID string) string {
	return "analytics:" + userID
}

// UserKeys lists every key cached for userID.
func UserKeys(userID string) []string {
	return []string{TransactionsKey(userID), BudgetsKey(userID), AnalyticsKey(userID)}
}
