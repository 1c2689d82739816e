// README: Redis client initialization for the shared postcode cache.
package infra

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedis returns a client for addr, or nil when addr is empty. An
// unreachable server is logged, not fatal: the postcode cache treats Redis
// as best effort.
func NewRedis(ctx context.Context, addr string, logger *zap.Logger) *redis.Client {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unreachable; postcode cache runs in-process only", zap.String("addr", addr), zap.Error(err))
	}
	return client
}
