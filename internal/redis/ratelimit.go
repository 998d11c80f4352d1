package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Rate limiting key patterns:
// - ratelimit:{client}:commands - 60s TTL, per-minute write commands
// - ratelimit:{client}:rebuilds - 600s TTL, projection rebuild requests

// RateLimitConfig contains configuration for rate limiting
type RateLimitConfig struct {
	CommandLimit  int           // Max write commands per window
	CommandWindow time.Duration // Command rate limit window
	RebuildLimit  int           // Max projection rebuilds per window
	RebuildWindow time.Duration // Rebuild rate limit window
}

// DefaultRateLimitConfig returns sensible defaults
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		CommandLimit:  120, // 120 writes per minute per client
		CommandWindow: 60 * time.Second,
		RebuildLimit:  3, // rebuilds rescan whole tables, keep them rare
		RebuildWindow: 600 * time.Second,
	}
}

// RateLimiter handles rate limiting using Redis
type RateLimiter struct {
	client *goredis.Client
	config RateLimitConfig
}

// RateLimitResult contains the result of a rate limit check
type RateLimitResult struct {
	Allowed   bool          // Whether the action is allowed
	Remaining int           // Remaining actions in the window
	ResetIn   time.Duration // Time until the window resets
	Limit     int           // The limit for this action
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(client *goredis.Client, config RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		client: client,
		config: config,
	}
}

// AllowCommand checks if a client may issue another write command
func (r *RateLimiter) AllowCommand(ctx context.Context, clientKey string) (*RateLimitResult, error) {
	key := fmt.Sprintf("ratelimit:%s:commands", clientKey)
	return r.checkLimit(ctx, key, r.config.CommandLimit, r.config.CommandWindow)
}

// AllowRebuild checks if a client may trigger another projection rebuild
func (r *RateLimiter) AllowRebuild(ctx context.Context, clientKey string) (*RateLimitResult, error) {
	key := fmt.Sprintf("ratelimit:%s:rebuilds", clientKey)
	return r.checkLimit(ctx, key, r.config.RebuildLimit, r.config.RebuildWindow)
}

// checkLimit performs the actual rate limit check using a sliding window counter
func (r *RateLimiter) checkLimit(ctx context.Context, key string, limit int, window time.Duration) (*RateLimitResult, error) {
	// Use Lua script for atomic increment and check
	script := goredis.NewScript(`
		local key = KEYS[1]
		local limit = tonumber(ARGV[1])
		local window = tonumber(ARGV[2])

		local current = redis.call('GET', key)
		if current == false then
			current = 0
		else
			current = tonumber(current)
		end

		local ttl = redis.call('TTL', key)
		if ttl < 0 then
			ttl = window
		end

		if current < limit then
			redis.call('INCR', key)
			if ttl == window then
				redis.call('EXPIRE', key, window)
			end
			return {1, limit - current - 1, ttl}
		else
			return {0, 0, ttl}
		end
	`)

	result, err := script.Run(ctx, r.client, []string{key}, limit, int(window.Seconds())).Result()
	if err != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}

	resultSlice, ok := result.([]interface{})
	if !ok || len(resultSlice) < 3 {
		return nil, fmt.Errorf("unexpected rate limit result format")
	}

	allowed := resultSlice[0].(int64) == 1
	remaining := int(resultSlice[1].(int64))
	resetIn := time.Duration(resultSlice[2].(int64)) * time.Second

	return &RateLimitResult{
		Allowed:   allowed,
		Remaining: remaining,
		ResetIn:   resetIn,
		Limit:     limit,
	}, nil
}

// Reset clears the counters for a client (admin operation)
func (r *RateLimiter) Reset(ctx context.Context, clientKey string) error {
	keys := []string{
		fmt.Sprintf("ratelimit:%s:commands", clientKey),
		fmt.Sprintf("ratelimit:%s:rebuilds", clientKey),
	}
	return r.client.Del(ctx, keys...).Err()
}
