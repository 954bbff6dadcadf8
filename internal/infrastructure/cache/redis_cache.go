package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cuotakiwi/quote-service/internal/domain/port"
)

const keyPrefix = "quote:preapproval:"

// redisClient is the subset of *redis.Client the cache uses.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// RedisPreApprovalCache stores pre-approval results in Redis with a fixed
// TTL. It implements port.PreApprovalCache. Keys are hashed so applicant
// document numbers never appear in Redis.
type RedisPreApprovalCache struct {
	client redisClient
	ttl    time.Duration
}

// NewRedisClient opens a client for addr.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// NewRedisPreApprovalCache creates a cache over client.
func NewRedisPreApprovalCache(client redisClient, ttl time.Duration) *RedisPreApprovalCache {
	return &RedisPreApprovalCache{client: client, ttl: ttl}
}

// Get returns the cached result for key. A miss is (zero, false, nil).
func (c *RedisPreApprovalCache) Get(ctx context.Context, key string) (port.PreApprovalResult, bool, error) {
	val, err := c.client.Get(ctx, redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return port.PreApprovalResult{}, false, nil
	}
	if err != nil {
		return port.PreApprovalResult{}, false, fmt.Errorf("redis get: %w", err)
	}

	var result port.PreApprovalResult
	if err := json.Unmarshal(val, &result); err != nil {
		return port.PreApprovalResult{}, false, fmt.Errorf("decode cached pre-approval: %w", err)
	}
	return result, true, nil
}

// Set stores result under key for the configured TTL.
func (c *RedisPreApprovalCache) Set(ctx context.Context, key string, result port.PreApprovalResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode pre-approval: %w", err)
	}
	if err := c.client.Set(ctx, redisKey(key), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func redisKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return keyPrefix + hex.EncodeToString(sum[:])
}
