package postcode

import (
	"context"
	"fmt"

	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/types"
)

// Static is an in-memory lookup table keyed by normalized postcode. It backs
// the bench tool and tests.
type Static map[string]types.Point

func (s Static) Resolve(ctx context.Context, raw string) (types.Point, error) {
	pc, err := Canonical(raw)
	if err != nil {
		return types.Point{}, err
	}
	if err := ctx.Err(); err != nil {
		return types.Point{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	p, ok := s[pc]
	if !ok {
		return types.Point{}, fmt.Errorf("%w: %s", ErrNotFound, pc)
	}
	return p, nil
}
