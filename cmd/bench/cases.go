// README: Benchmark cases: synthetic pool throughput, parallel/sequential agreement, shared cache round-trip, and open-booking replay.
package main

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/config"
	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/modules/booking"
	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/modules/location"
	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/modules/matching"
	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/modules/postcode"
	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/types"
)

// pickups are the synthetic booking postcodes, spread over the north west.
var pickups = postcode.Static{
	"M1 1AE":  {Lat: 53.4808, Lng: -2.2426},
	"SK1 1AA": {Lat: 53.4084, Lng: -2.1487},
	"WA1 1AA": {Lat: 53.3900, Lng: -2.5970},
	"BL1 1AA": {Lat: 53.5769, Lng: -2.4282},
	"OL1 1AA": {Lat: 53.5409, Lng: -2.1114},
}

type Runner struct {
	cfg    Config
	db     *pgxpool.Pool
	redis  *redis.Client
	pool   []matching.Driver
	logger *zap.Logger
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:    cfg,
		pool:   syntheticPool(cfg.PoolSize, cfg.Seed),
		logger: zap.NewNop(),
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
		} else {
			fmt.Printf("db: %v\n", err)
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))

	for _, tc := range tests {
		res := tc.Run(ctx, r)
		res.Name = tc.Name
		results = append(results, res)
		fmt.Printf("%-5s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.db != nil {
		r.db.Close()
	}
	if r.redis != nil {
		_ = r.redis.Close()
	}

	return results
}

func (r *Runner) cases() []TestCase {
	return []TestCase{
		{Name: "Synthetic: sequential matching", Run: func(ctx context.Context, r *Runner) Result {
			return r.throughput(ctx, r.matcher(math.MaxInt, 1))
		}},
		{Name: "Synthetic: parallel matching", Run: func(ctx context.Context, r *Runner) Result {
			return r.throughput(ctx, r.matcher(1, r.cfg.Workers))
		}},
		{Name: "Synthetic: parallel agrees with sequential", Run: agreement},
		{Name: "Synthetic: prefilter selectivity", Run: selectivity},
		{Name: "Synthetic: concurrent callers", Run: concurrentLoad},
		{Name: "Cache: shared tier round-trip", Run: sharedCache},
		{Name: "Replay: open bookings", Run: replay},
	}
}

func (r *Runner) matcher(threshold, workers int) *matching.Matcher {
	cfg := config.DefaultMatchingConfig()
	cfg.ParallelThreshold = threshold
	cfg.Workers = workers
	return matching.NewMatcher(pickups, cfg, r.logger)
}

// syntheticPool scatters drivers over a box around Greater Manchester with
// radii between 2 and 25 miles.
func syntheticPool(n int, seed uint64) []matching.Driver {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	pool := make([]matching.Driver, n)
	for i := range pool {
		pool[i] = matching.Driver{
			ID:                 types.ID(fmt.Sprintf("drv_%06d", i)),
			Base:               types.Point{Lat: 52.9 + rng.Float64()*1.4, Lng: -3.2 + rng.Float64()*2.2},
			ServiceRadiusMiles: 2 + rng.Float64()*23,
		}
	}
	return pool
}

var pickupKeys = func() []string {
	keys := make([]string, 0, len(pickups))
	for k := range pickups {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}()

func pickupAt(i int) string {
	return pickupKeys[i%len(pickupKeys)]
}

func (r *Runner) throughput(ctx context.Context, m *matching.Matcher) Result {
	if r.cfg.Matches <= 0 || len(r.pool) == 0 {
		return Result{Status: "SKIP", Note: "matches or pool is zero"}
	}
	latencies := make([]time.Duration, 0, r.cfg.Matches)
	eligible := 0
	for i := 0; i < r.cfg.Matches; i++ {
		start := time.Now()
		res, err := m.FindEligibleDrivers(ctx, matching.Booking{PickupPostcode: pickupAt(i)}, r.pool)
		if err != nil {
			return Result{Status: "FAIL", Note: err.Error()}
		}
		latencies = append(latencies, time.Since(start))
		eligible += len(res)
	}
	slices.Sort(latencies)
	p95 := latencies[len(latencies)*95/100]
	return Result{
		Status:  "PASS",
		Latency: latencies[len(latencies)/2],
		Note:    fmt.Sprintf("pool=%d matches=%d avg_eligible=%.1f p95=%s", len(r.pool), r.cfg.Matches, float64(eligible)/float64(r.cfg.Matches), p95),
	}
}

func agreement(ctx context.Context, r *Runner) Result {
	seq := r.matcher(math.MaxInt, 1)
	par := r.matcher(1, r.cfg.Workers)
	for pc := range pickups {
		b := matching.Booking{PickupPostcode: pc}
		a, err := seq.FindEligibleDrivers(ctx, b, r.pool)
		if err != nil {
			return Result{Status: "FAIL", Note: err.Error()}
		}
		p, err := par.FindEligibleDrivers(ctx, b, r.pool)
		if err != nil {
			return Result{Status: "FAIL", Note: err.Error()}
		}
		if len(a) != len(p) {
			return Result{Status: "FAIL", Note: fmt.Sprintf("%s: sequential=%d parallel=%d", pc, len(a), len(p))}
		}
		for i := range a {
			if a[i].Driver.ID != p[i].Driver.ID {
				return Result{Status: "FAIL", Note: fmt.Sprintf("%s: order differs at %d", pc, i)}
			}
		}
	}
	return Result{Status: "PASS", Note: fmt.Sprintf("pickups=%d", len(pickups))}
}

func selectivity(_ context.Context, r *Runner) Result {
	maxRadius := 0.0
	for _, d := range r.pool {
		maxRadius = math.Max(maxRadius, d.ServiceRadiusMiles)
	}
	var kept int
	start := time.Now()
	for _, p := range pickups {
		kept += len(location.FilterByBoundingBox(p, r.pool, maxRadius, func(d matching.Driver) types.Point { return d.Base }))
	}
	elapsed := time.Since(start) / time.Duration(len(pickups))
	ratio := float64(kept) / float64(len(r.pool)*len(pickups))
	return Result{Status: "PASS", Latency: elapsed, Note: fmt.Sprintf("max_radius=%.1fmi kept=%.1f%%", maxRadius, ratio*100)}
}

func concurrentLoad(ctx context.Context, r *Runner) Result {
	m := r.matcher(config.DefaultMatchingConfig().ParallelThreshold, r.cfg.Workers)
	end := time.Now().Add(r.cfg.Duration)
	var count, errCount atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < r.cfg.Concurrency; w++ {
		g.Go(func() error {
			for i := w; time.Now().Before(end) && gctx.Err() == nil; i++ {
				if _, err := m.FindEligibleDrivers(gctx, matching.Booking{PickupPostcode: pickupAt(i)}, r.pool); err != nil {
					errCount.Add(1)
					continue
				}
				count.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	if count.Load() == 0 {
		return Result{Status: "FAIL", Note: "no matches completed"}
	}
	rps := float64(count.Load()) / r.cfg.Duration.Seconds()
	return Result{Status: "PASS", Note: fmt.Sprintf("callers=%d rps=%.1f errors=%d", r.cfg.Concurrency, rps, errCount.Load())}
}

func sharedCache(ctx context.Context, r *Runner) Result {
	if r.redis == nil {
		return Result{Status: "SKIP", Note: "redis not configured"}
	}
	var lookups atomic.Int64
	counted := postcode.ResolverFunc(func(ctx context.Context, pc string) (types.Point, error) {
		lookups.Add(1)
		return pickups.Resolve(ctx, pc)
	})
	cacheCfg := postcode.CacheConfig{Size: 16, TTL: time.Minute}

	// Two caches share one Redis, as two API replicas would.
	first := postcode.NewCache(counted, r.redis, cacheCfg, r.logger)
	second := postcode.NewCache(counted, r.redis, cacheCfg, r.logger)

	pc := pickupAt(0)
	if err := r.redis.Del(ctx, "postcode:geo:"+pc).Err(); err != nil {
		return Result{Status: "FAIL", Note: err.Error()}
	}
	if _, err := first.Resolve(ctx, pc); err != nil {
		return Result{Status: "FAIL", Note: err.Error()}
	}
	start := time.Now()
	if _, err := second.Resolve(ctx, pc); err != nil {
		return Result{Status: "FAIL", Note: err.Error()}
	}
	latency := time.Since(start)
	if n := lookups.Load(); n != 1 {
		return Result{Status: "FAIL", Latency: latency, Note: fmt.Sprintf("upstream lookups=%d, want 1", n)}
	}
	return Result{Status: "PASS", Latency: latency}
}

func replay(ctx context.Context, r *Runner) Result {
	if r.db == nil {
		return Result{Status: "SKIP", Note: "db not configured"}
	}
	bookings, err := booking.NewStore(r.db).ListOpen(ctx, r.cfg.Replay)
	if err != nil {
		return Result{Status: "FAIL", Note: err.Error()}
	}
	if len(bookings) == 0 {
		return Result{Status: "SKIP", Note: "no open bookings"}
	}

	drivers := matching.NewDriverStore(r.db)
	m := matching.NewMatcher(postcode.NewStore(r.db), config.DefaultMatchingConfig(), r.logger)

	var matched, unresolved, total int
	var elapsed time.Duration
	for _, b := range bookings {
		pool, err := drivers.ListActive(ctx, b.BusinessID)
		if err != nil {
			return Result{Status: "FAIL", Note: err.Error()}
		}
		start := time.Now()
		res, err := m.FindEligibleDrivers(ctx, b.MatchInput(), pool)
		elapsed += time.Since(start)
		if err != nil {
			unresolved++
			continue
		}
		if len(res) > 0 {
			matched++
		}
		total += len(res)
	}
	return Result{
		Status:  "PASS",
		Latency: elapsed / time.Duration(len(bookings)),
		Note:    fmt.Sprintf("bookings=%d matched=%d unresolved=%d eligible=%d", len(bookings), matched, unresolved, total),
	}
}
