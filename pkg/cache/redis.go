// Package cache is a thin Redis wrapper. When Redis is unreachable the
// client stays nil and every operation degrades to a no-op miss, so the app
// keeps serving straight from the store.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/miraedance/atelier/config"
	"github.com/miraedance/atelier/pkg/metrics"
)

var RDB *redis.Client
var Ctx = context.Background()

// Connect initialises the Redis client and verifies it with a ping.
func Connect() error {
	RDB = redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		DB:       0,
	})

	if err := RDB.Ping(Ctx).Err(); err != nil {
		RDB = nil // unavailable; Get/Set/Del no-op from here on
		return fmt.Errorf("cache: redis ping: %w", err)
	}
	return nil
}

// Get retrieves a cached value by key and unmarshals it into dest.
// Returns true on a hit, false on miss or any error.
func Get(key string, dest any) bool {
	if RDB == nil {
		return false
	}

	val, err := RDB.Get(Ctx, key).Result()
	if err != nil {
		metrics.CacheMisses.WithLabelValues("redis").Inc()
		return false
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		metrics.CacheMisses.WithLabelValues("redis").Inc()
		return false
	}

	metrics.CacheHits.WithLabelValues("redis").Inc()
	return true
}

// Set stores value under key for the given TTL.
func Set(key string, value any, ttl time.Duration) error {
	if RDB == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return RDB.Set(Ctx, key, data, ttl).Err()
}

// Del removes keys.
func Del(keys ...string) error {
	if RDB == nil {
		return nil
	}
	return RDB.Del(Ctx, keys...).Err()
}

// Incr increments the counter at key, setting ttl on first increment.
// Returns the new value; 0 with a nil error when Redis is unavailable, so
// counters backed by it fail open.
func Incr(key string, ttl time.Duration) (int64, error) {
	if RDB == nil {
		return 0, nil
	}

	n, err := RDB.Incr(Ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		RDB.Expire(Ctx, key, ttl)
	}
	return n, nil
}
