package matching

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/modules/postcode"
)

var (
	matchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_requests_total",
			Help: "Eligible-driver lookups by outcome",
		},
		[]string{"outcome"},
	)

	matchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_duration_seconds",
			Help:    "Time spent answering one eligible-driver lookup, resolution included",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		},
	)

	prefilterPool = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_prefilter_pool",
			Help:    "Driver pool size entering the bounding-box prefilter",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		},
	)

	prefilterCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_prefilter_candidates",
			Help:    "Drivers surviving the bounding-box prefilter",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		},
	)
)

func observeMatch(start time.Time, results int, err error) {
	matchDuration.Observe(time.Since(start).Seconds())
	matchRequests.WithLabelValues(outcome(results, err)).Inc()
}

func outcome(results int, err error) string {
	switch {
	case err == nil && results == 0:
		return "empty"
	case err == nil:
		return "matched"
	case errors.Is(err, ErrResolveTimeout):
		return "timeout"
	case errors.Is(err, postcode.ErrInvalidPostcode):
		return "invalid_postcode"
	case errors.Is(err, postcode.ErrNotFound):
		return "not_found"
	case errors.Is(err, postcode.ErrUnavailable):
		return "unavailable"
	case errors.Is(err, ErrInvalidDriver):
		return "invalid_driver"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		return "error"
	}
}
