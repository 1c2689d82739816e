// README: Geographic matcher; resolves the pickup, prefilters the pool, and ranks drivers within their own radius.
package matching

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/config"
	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/modules/location"
	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/modules/postcode"
	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/types"
)

// Matcher holds no mutable state; one instance serves concurrent calls.
type Matcher struct {
	resolver postcode.Resolver
	cfg      config.MatchingConfig
	logger   *zap.Logger
}

func NewMatcher(resolver postcode.Resolver, cfg config.MatchingConfig, logger *zap.Logger) *Matcher {
	def := config.DefaultMatchingConfig()
	if cfg.ResolveTimeout <= 0 {
		cfg.ResolveTimeout = def.ResolveTimeout
	}
	if cfg.ParallelThreshold <= 0 {
		cfg.ParallelThreshold = def.ParallelThreshold
	}
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{resolver: resolver, cfg: cfg, logger: logger}
}

// FindEligibleDrivers resolves the booking's pickup postcode and returns the
// drivers whose own service radius covers it, closest first.
//
// An empty pool yields an empty result without touching the resolver, but
// only once the pickup postcode is known to be well formed. Resolution
// failures come back as *GeocodingError and are never folded into an empty
// result.
func (m *Matcher) FindEligibleDrivers(ctx context.Context, b Booking, drivers []Driver) (results []EligibilityResult, err error) {
	start := time.Now()
	defer func() { observeMatch(start, len(results), err) }()

	if err := postcode.Validate(b.PickupPostcode); err != nil {
		return nil, &GeocodingError{Postcode: b.PickupPostcode, Err: err}
	}
	if len(drivers) == 0 {
		return []EligibilityResult{}, nil
	}

	pickup, err := m.resolve(ctx, b.PickupPostcode)
	if err != nil {
		m.logger.Warn("pickup resolution failed",
			zap.String("booking_id", string(b.ID)),
			zap.String("postcode", b.PickupPostcode),
			zap.Error(err),
		)
		return nil, err
	}

	results, err = m.rank(ctx, pickup, drivers)
	if err != nil {
		return nil, err
	}
	m.logger.Debug("matched booking",
		zap.String("booking_id", string(b.ID)),
		zap.Int("pool", len(drivers)),
		zap.Int("eligible", len(results)),
	)
	return results, nil
}

// FindEligibleDriversNear is FindEligibleDrivers for a caller that already
// holds the pickup coordinate.
func (m *Matcher) FindEligibleDriversNear(ctx context.Context, pickup types.Point, drivers []Driver) (results []EligibilityResult, err error) {
	start := time.Now()
	defer func() { observeMatch(start, len(results), err) }()

	if err := pickup.Validate(); err != nil {
		return nil, fmt.Errorf("pickup: %w", err)
	}
	return m.rank(ctx, pickup, drivers)
}

// CanCoverJourney reports whether the driver can reach the booking's pickup
// within their service radius. The dropoff leg is not distance-checked:
// drivers judge long return legs themselves when they bid.
func (m *Matcher) CanCoverJourney(ctx context.Context, d Driver, b Booking) (bool, error) {
	if err := d.validate(); err != nil {
		return false, err
	}
	if err := postcode.Validate(b.PickupPostcode); err != nil {
		return false, &GeocodingError{Postcode: b.PickupPostcode, Err: err}
	}
	pickup, err := m.resolve(ctx, b.PickupPostcode)
	if err != nil {
		return false, err
	}
	return location.HaversineMiles(d.Base, pickup) <= d.ServiceRadiusMiles, nil
}

// EstimateJourney returns the straight-line pickup to dropoff distance and a
// flat-speed travel time. Both postcodes are resolved concurrently.
func (m *Matcher) EstimateJourney(ctx context.Context, b Booking) (Journey, error) {
	if b.DropoffPostcode == "" {
		return Journey{}, ErrNoDropoff
	}
	for _, pc := range []string{b.PickupPostcode, b.DropoffPostcode} {
		if err := postcode.Validate(pc); err != nil {
			return Journey{}, &GeocodingError{Postcode: pc, Err: err}
		}
	}

	var j Journey
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		j.Pickup, err = m.resolve(gctx, b.PickupPostcode)
		return err
	})
	g.Go(func() (err error) {
		j.Dropoff, err = m.resolve(gctx, b.DropoffPostcode)
		return err
	})
	if err := g.Wait(); err != nil {
		return Journey{}, err
	}

	j.DistanceMiles = location.HaversineMiles(j.Pickup, j.Dropoff)
	j.TravelMinutes = location.EstimateTravelMinutes(j.DistanceMiles)
	return j, nil
}

// CalculateProximityScore decays linearly from 1 at the pickup to 0.2 at
// maxRadius, and is 0 beyond it. A non-positive maxRadius scores 1 only at
// distance 0.
func CalculateProximityScore(distance, maxRadius float64) float64 {
	if math.IsNaN(distance) || math.IsNaN(maxRadius) {
		return 0
	}
	if maxRadius <= 0 {
		if distance <= 0 {
			return 1
		}
		return 0
	}
	if distance > maxRadius {
		return 0
	}
	score := 1 - (distance/maxRadius)*(1-edgeScore)
	return math.Max(0, math.Min(1, score))
}

func (m *Matcher) rank(ctx context.Context, pickup types.Point, drivers []Driver) ([]EligibilityResult, error) {
	if len(drivers) == 0 {
		return []EligibilityResult{}, nil
	}

	maxRadius := 0.0
	for _, d := range drivers {
		if err := d.validate(); err != nil {
			return nil, err
		}
		maxRadius = math.Max(maxRadius, d.ServiceRadiusMiles)
	}

	candidates := location.FilterByBoundingBox(pickup, drivers, maxRadius, func(d Driver) types.Point { return d.Base })
	prefilterPool.Observe(float64(len(drivers)))
	prefilterCandidates.Observe(float64(len(candidates)))

	distances, err := m.measure(ctx, pickup, candidates)
	if err != nil {
		return nil, err
	}

	results := make([]EligibilityResult, 0, len(candidates))
	for i, d := range candidates {
		dist := distances[i]
		if dist > d.ServiceRadiusMiles {
			continue
		}
		results = append(results, EligibilityResult{
			Driver:                d,
			DistanceToPickupMiles: dist,
			ProximityScore:        CalculateProximityScore(dist, d.ServiceRadiusMiles),
			TravelMinutes:         location.EstimateTravelMinutes(dist),
		})
	}
	location.SortByDistance(results, func(r EligibilityResult) float64 { return r.DistanceToPickupMiles })
	return results, nil
}

// measure returns the haversine distance from pickup to each candidate's
// base, index-aligned with candidates. Large pools are split into one
// contiguous chunk per worker.
func (m *Matcher) measure(ctx context.Context, pickup types.Point, candidates []Driver) ([]float64, error) {
	distances := make([]float64, len(candidates))
	if len(candidates) < m.cfg.ParallelThreshold || m.cfg.Workers < 2 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for i, d := range candidates {
			distances[i] = location.HaversineMiles(pickup, d.Base)
		}
		return distances, nil
	}

	chunk := (len(candidates) + m.cfg.Workers - 1) / m.cfg.Workers
	g, gctx := errgroup.WithContext(ctx)
	for lo := 0; lo < len(candidates); lo += chunk {
		lo, hi := lo, min(lo+chunk, len(candidates))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if (i-lo)%ctxCheckEvery == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				distances[i] = location.HaversineMiles(pickup, candidates[i].Base)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return distances, nil
}

type resolved struct {
	point types.Point
	err   error
}

// resolve runs the resolver under the configured timeout. The deadline holds
// even against a resolver that ignores its context; such a resolver keeps
// its goroutine until it returns, and the buffered channel lets it exit
// without a reader. postcode.Cache bounds every upstream lookup with its own
// timeout, so in the wired service those goroutines are short-lived.
func (m *Matcher) resolve(ctx context.Context, pc string) (types.Point, error) {
	rctx, cancel := context.WithTimeout(ctx, m.cfg.ResolveTimeout)
	defer cancel()

	done := make(chan resolved, 1)
	go func() {
		p, err := m.resolver.Resolve(rctx, pc)
		done <- resolved{point: p, err: err}
	}()

	var r resolved
	select {
	case r = <-done:
	case <-rctx.Done():
		r.err = rctx.Err()
	}

	if r.err != nil {
		if errors.Is(r.err, context.DeadlineExceeded) || errors.Is(rctx.Err(), context.DeadlineExceeded) {
			return types.Point{}, &GeocodingError{Postcode: pc, Err: fmt.Errorf("%w after %s: %w", ErrResolveTimeout, m.cfg.ResolveTimeout, r.err)}
		}
		return types.Point{}, &GeocodingError{Postcode: pc, Err: r.err}
	}
	if err := r.point.Validate(); err != nil {
		return types.Point{}, &GeocodingError{Postcode: pc, Err: fmt.Errorf("%w: %w", postcode.ErrUnavailable, err)}
	}
	return r.point, nil
}
