package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("HTTP.Addr = %q", cfg.HTTP.Addr)
	}
	if cfg.Matching != DefaultMatchingConfig() {
		t.Errorf("Matching = %+v, want defaults", cfg.Matching)
	}
	if cfg.Postcode.Region != "uk" || cfg.Postcode.CacheTTL != 24*time.Hour || cfg.Postcode.LookupTimeout != 10*time.Second {
		t.Errorf("Postcode = %+v", cfg.Postcode)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CARE_HTTP_ADDR", ":9090")
	t.Setenv("CARE_MATCH_RESOLVE_TIMEOUT", "750ms")
	t.Setenv("CARE_MATCH_WORKERS", "2")
	t.Setenv("CARE_MATCH_PARALLEL_THRESHOLD", "50")
	t.Setenv("CARE_POSTCODE_CACHE_SIZE", "0")
	t.Setenv("CARE_GOOGLE_MAPS_KEY", "abc")
	t.Setenv("CARE_LOG_FORMAT", "console")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.HTTP.Addr != ":9090" {
		t.Errorf("HTTP.Addr = %q", cfg.HTTP.Addr)
	}
	want := MatchingConfig{ResolveTimeout: 750 * time.Millisecond, ParallelThreshold: 50, Workers: 2}
	if cfg.Matching != want {
		t.Errorf("Matching = %+v, want %+v", cfg.Matching, want)
	}
	if cfg.Postcode.GoogleMapsKey != "abc" || cfg.Postcode.CacheSize != 0 {
		t.Errorf("Postcode = %+v", cfg.Postcode)
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"CARE_MATCH_RESOLVE_TIMEOUT", "0s"},
		{"CARE_MATCH_RESOLVE_TIMEOUT", "-1s"},
		{"CARE_MATCH_WORKERS", "0"},
		{"CARE_MATCH_PARALLEL_THRESHOLD", "-5"},
		{"CARE_POSTCODE_CACHE_SIZE", "-1"},
		{"CARE_POSTCODE_LOOKUP_TIMEOUT", "0s"},
		{"CARE_LOG_FORMAT", "xml"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}
