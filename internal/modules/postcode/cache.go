// README: Two-tier postcode cache (in-process LRU, shared Redis) in front of any Resolver.
package postcode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/types"
)

const (
	redisKeyPrefix       = "postcode:geo:"
	defaultLookupTimeout = 10 * time.Second
)

type CacheConfig struct {
	Size int
	TTL  time.Duration
	// LookupTimeout bounds one shared upstream lookup. Zero means 10s.
	LookupTimeout time.Duration
}

// Cache memoises successful lookups. Failures are never cached, so a
// geocoder outage does not outlive itself. The Redis tier is optional and
// best effort: its errors are logged and the lookup carries on.
type Cache struct {
	next   Resolver
	local  *expirable.LRU[string, types.Point]
	redis  *redis.Client
	ttl    time.Duration
	lookup time.Duration
	group  singleflight.Group
	logger *zap.Logger
}

func NewCache(next Resolver, rdb *redis.Client, cfg CacheConfig, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	lookup := cfg.LookupTimeout
	if lookup <= 0 {
		lookup = defaultLookupTimeout
	}
	return &Cache{
		next:   next,
		local:  expirable.NewLRU[string, types.Point](cfg.Size, nil, cfg.TTL),
		redis:  rdb,
		ttl:    cfg.TTL,
		lookup: lookup,
		logger: logger,
	}
}

func (c *Cache) Resolve(ctx context.Context, raw string) (types.Point, error) {
	pc, err := Canonical(raw)
	if err != nil {
		return types.Point{}, err
	}
	if p, ok := c.local.Get(pc); ok {
		return p, nil
	}

	// Concurrent misses for one postcode share a single upstream lookup. The
	// lookup runs detached from any one caller, so a caller that gives up
	// does not fail the others; each caller still stops waiting at its own
	// deadline.
	ch := c.group.DoChan(pc, func() (any, error) {
		if p, ok := c.local.Get(pc); ok {
			return p, nil
		}
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.lookup)
		defer cancel()
		if p, ok := c.getShared(lctx, pc); ok {
			c.local.Add(pc, p)
			return p, nil
		}
		p, err := c.next.Resolve(lctx, pc)
		if err != nil {
			return types.Point{}, err
		}
		c.local.Add(pc, p)
		c.setShared(lctx, pc, p)
		return p, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return types.Point{}, res.Err
		}
		return res.Val.(types.Point), nil
	case <-ctx.Done():
		return types.Point{}, fmt.Errorf("%w: %w", ErrUnavailable, ctx.Err())
	}
}

// Purge drops every in-process entry. Redis entries expire on their own.
func (c *Cache) Purge() {
	c.local.Purge()
}

func (c *Cache) getShared(ctx context.Context, pc string) (types.Point, bool) {
	if c.redis == nil {
		return types.Point{}, false
	}
	raw, err := c.redis.Get(ctx, redisKeyPrefix+pc).Bytes()
	if errors.Is(err, redis.Nil) {
		return types.Point{}, false
	}
	if err != nil {
		c.logger.Warn("postcode cache read failed", zap.String("postcode", pc), zap.Error(err))
		return types.Point{}, false
	}
	var p types.Point
	if err := json.Unmarshal(raw, &p); err != nil || p.Validate() != nil {
		c.logger.Warn("postcode cache entry corrupt", zap.String("postcode", pc))
		return types.Point{}, false
	}
	return p, true
}

func (c *Cache) setShared(ctx context.Context, pc string, p types.Point) {
	if c.redis == nil {
		return
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, redisKeyPrefix+pc, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("postcode cache write failed", zap.String("postcode", pc), zap.Error(err))
	}
}
