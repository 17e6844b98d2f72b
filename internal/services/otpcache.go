package services

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// OTPTTL is the lifetime of every one-time code in the system.
const OTPTTL = 5 * time.Minute

// OTPCache is the transient store for email OTPs and related short-lived
// markers, keyed by a caller-chosen string. Entries expire after the
// cache's TTL; expiry is enforced by the backend, not by timers in the
// workflow code.
type OTPCache interface {
	Put(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (string, bool, error)
	Delete(ctx context.Context, key string) error
}

// MemoryOTPCache keeps entries in a map and checks expiry on read.
type MemoryOTPCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryOTPEntry
}

type memoryOTPEntry struct {
	value     string
	expiresAt time.Time
}

// NewMemoryOTPCache creates an in-memory OTP cache with the given TTL.
func NewMemoryOTPCache(ttl time.Duration) *MemoryOTPCache {
	return &MemoryOTPCache{
		ttl:     ttl,
		entries: make(map[string]memoryOTPEntry),
	}
}

func (c *MemoryOTPCache) Put(ctx context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryOTPEntry{
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	}
	return nil
}

func (c *MemoryOTPCache) Get(ctx context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return "", false, nil
	}
	if time.Now().After(entry.expiresAt) {
		delete(c.entries, key)
		return "", false, nil
	}
	return entry.value, true, nil
}

func (c *MemoryOTPCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// RedisOTPCache stores entries in Redis with a native TTL, surviving
// process restarts.
type RedisOTPCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisOTPCache connects to Redis using REDIS_ADDR/REDIS_PASSWORD.
func NewRedisOTPCache(ttl time.Duration) *RedisOTPCache {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	return &RedisOTPCache{client: client, ttl: ttl}
}

func (c *RedisOTPCache) Put(ctx context.Context, key, value string) error {
	return c.client.Set(ctx, "otp:"+key, value, c.ttl).Err()
}

func (c *RedisOTPCache) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := c.client.Get(ctx, "otp:"+key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (c *RedisOTPCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, "otp:"+key).Err()
}
