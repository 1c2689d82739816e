// README: Matching benchmark runner; drives synthetic and replayed bookings through the matcher and prints results.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"
)

func main() {
	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	bench := NewRunner(cfg)
	results := bench.RunAll(ctx)

	fmt.Println("\n== Summary ==")
	pass, fail, skipped := 0, 0, 0
	for _, r := range results {
		switch r.Status {
		case "PASS":
			pass++
		case "FAIL":
			fail++
		case "SKIP":
			skipped++
		}
	}
	fmt.Printf("PASS=%d FAIL=%d SKIP=%d\n", pass, fail, skipped)

	if fail > 0 || (cfg.Strict && skipped > 0) {
		os.Exit(1)
	}
}

type Config struct {
	DSN         string
	RedisAddr   string
	Strict      bool
	Timeout     time.Duration
	PoolSize    int
	Matches     int
	Workers     int
	Concurrency int
	Duration    time.Duration
	Replay      int
	Seed        uint64
}

func loadConfig() Config {
	var cfg Config
	flag.StringVar(&cfg.DSN, "dsn", envOrDefault("CARE_BENCH_DSN", ""), "Postgres DSN for booking replay (empty skips)")
	flag.StringVar(&cfg.RedisAddr, "redis", envOrDefault("CARE_BENCH_REDIS", ""), "Redis address for the shared cache check (empty skips)")
	flag.BoolVar(&cfg.Strict, "strict", envOrDefaultBool("CARE_BENCH_STRICT", false), "Fail on skipped cases")
	flag.DurationVar(&cfg.Timeout, "timeout", envOrDefaultDuration("CARE_BENCH_TIMEOUT", 2*time.Minute), "Total timeout")
	flag.IntVar(&cfg.PoolSize, "pool", envOrDefaultInt("CARE_BENCH_POOL", 10000), "Synthetic driver pool size")
	flag.IntVar(&cfg.Matches, "matches", envOrDefaultInt("CARE_BENCH_MATCHES", 500), "Matches per throughput case")
	flag.IntVar(&cfg.Workers, "workers", envOrDefaultInt("CARE_BENCH_WORKERS", 8), "Distance workers for the parallel case")
	flag.IntVar(&cfg.Concurrency, "concurrency", envOrDefaultInt("CARE_BENCH_CONCURRENCY", 20), "Concurrent callers")
	flag.DurationVar(&cfg.Duration, "duration", envOrDefaultDuration("CARE_BENCH_DURATION", 10*time.Second), "Duration of the concurrent case")
	flag.IntVar(&cfg.Replay, "replay", envOrDefaultInt("CARE_BENCH_REPLAY", 100), "Open bookings to replay from the database")
	flag.Uint64Var(&cfg.Seed, "seed", 42, "Synthetic pool seed")
	flag.Parse()
	cfg.DSN = strings.TrimSpace(cfg.DSN)
	return cfg
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		v = strings.ToLower(v)
		return v == "1" || v == "true" || v == "yes"
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var n int
		_, _ = fmt.Sscanf(v, "%d", &n)
		if n > 0 {
			return n
		}
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
