// README: Ordered resolver chain (local table first, remote geocoder last) with optional write-back.
package postcode

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/types"
)

// WriteBackFunc persists a coordinate that a later tier found, so earlier
// tiers can answer next time.
type WriteBackFunc func(ctx context.Context, postcode string, p types.Point) error

type Chain struct {
	tiers     []Resolver
	writeBack WriteBackFunc
	logger    *zap.Logger
}

func NewChain(logger *zap.Logger, tiers ...Resolver) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain{tiers: tiers, logger: logger}
}

// WithWriteBack registers fn to run whenever a tier other than the first
// answers. Write-back failures are logged and never fail the lookup.
func (c *Chain) WithWriteBack(fn WriteBackFunc) *Chain {
	c.writeBack = fn
	return c
}

// Resolve asks each tier in turn. It falls through on ErrNotFound and
// ErrUnavailable, and stops on the first answer. When every tier misses,
// the result is ErrUnavailable if any tier was down, else ErrNotFound.
func (c *Chain) Resolve(ctx context.Context, raw string) (types.Point, error) {
	pc, err := Canonical(raw)
	if err != nil {
		return types.Point{}, err
	}

	var unavailable error
	for i, tier := range c.tiers {
		p, err := tier.Resolve(ctx, pc)
		if err == nil {
			if i > 0 && c.writeBack != nil {
				if werr := c.writeBack(ctx, pc, p); werr != nil {
					c.logger.Warn("postcode write-back failed", zap.String("postcode", pc), zap.Error(werr))
				}
			}
			return p, nil
		}

		switch {
		case errors.Is(err, ErrInvalidPostcode):
			return types.Point{}, err
		case errors.Is(err, ErrNotFound):
			c.logger.Debug("postcode tier miss", zap.String("postcode", pc), zap.Int("tier", i))
		default:
			c.logger.Warn("postcode tier unavailable", zap.String("postcode", pc), zap.Int("tier", i), zap.Error(err))
			unavailable = err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return types.Point{}, fmt.Errorf("%w: %w", ErrUnavailable, ctxErr)
		}
	}

	if unavailable != nil {
		if errors.Is(unavailable, ErrUnavailable) {
			return types.Point{}, unavailable
		}
		return types.Point{}, fmt.Errorf("%w: %w", ErrUnavailable, unavailable)
	}
	return types.Point{}, fmt.Errorf("%w: %s", ErrNotFound, pc)
}
