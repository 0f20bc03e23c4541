package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/sweetmerry/booking-api/internal/config"
)

// Cache keys for the hot read endpoints. Writes invalidate the keys they
// affect.
const (
	KeyBookingStats      = "stats:bookings"
	KeyUserStats         = "stats:users"
	KeyServiceCategories = "services:categories"
)

const DefaultTTL = 60 * time.Second

type Cache struct {
	client *redis.Client
	log    *zap.Logger
}

func New(cfg config.RedisConfig, log *zap.Logger) *Cache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Warn("unable to reach redis, caching degraded", zap.Error(err))
	}

	return &Cache{client: client, log: log}
}

func (c *Cache) Close() {
	if c != nil && c.client != nil {
		_ = c.client.Close()
	}
}

// GetJSON loads a cached value into out. Returns false on miss or any redis
// failure; the caller falls through to the database.
func (c *Cache) GetJSON(ctx context.Context, key string, out any) bool {
	raw, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.Debug("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	return json.Unmarshal([]byte(raw), out) == nil
}

func (c *Cache) SetJSON(ctx context.Context, key string, val any, ttl time.Duration) {
	raw, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		c.log.Debug("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Debug("cache invalidate failed", zap.Error(err))
	}
}
