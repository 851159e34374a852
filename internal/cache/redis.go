package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"birs-backend/internal/config"
)

// Dashboard cache keys. Entry writes invalidate everything under these
// prefixes.
const (
	LeagueKeyFmt      = "league:%d:%d" // month, year
	AdminDashboardKey = "dashboard:admin"
	AgentDashKeyFmt   = "dashboard:agent:%d"
)

var client *redis.Client

// Init initializes the Redis connection. An empty addr or an unreachable
// server leaves the cache disabled; every helper then becomes a no-op.
func Init(cfg *config.Config) error {
	if cfg.Redis.Addr == "" {
		return nil
	}

	client = redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetClient returns the Redis client, nil when the cache is disabled
func GetClient() *redis.Client {
	return client
}

// GetCached returns cached data for a key
func GetCached(ctx context.Context, key string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetCached stores data with a TTL
func SetCached(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if client == nil {
		return
	}
	client.Set(ctx, key, data, ttl)
}

// InvalidatePattern removes all keys matching a glob pattern
func InvalidatePattern(ctx context.Context, pattern string) {
	if client == nil {
		return
	}
	keys, err := client.Keys(ctx, pattern).Result()
	if err == nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidateKeys removes specific cache keys
func InvalidateKeys(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}

// InvalidateDashboards clears every dashboard and league cache. Called after
// any write that changes collection totals.
func InvalidateDashboards(ctx context.Context) {
	if client == nil {
		return
	}
	InvalidateKeys(ctx, AdminDashboardKey)
	InvalidatePattern(ctx, "league:*")
	InvalidatePattern(ctx, "dashboard:agent:*")
}
