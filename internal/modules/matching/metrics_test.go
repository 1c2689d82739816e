package matching

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/modules/postcode"
)

func TestOutcome(t *testing.T) {
	tests := []struct {
		results int
		err     error
		want    string
	}{
		{results: 0, err: nil, want: "empty"},
		{results: 3, err: nil, want: "matched"},
		{err: &GeocodingError{Postcode: "X", Err: fmt.Errorf("%w: slow", ErrResolveTimeout)}, want: "timeout"},
		{err: &GeocodingError{Postcode: "X", Err: postcode.ErrInvalidPostcode}, want: "invalid_postcode"},
		{err: &GeocodingError{Postcode: "X", Err: postcode.ErrNotFound}, want: "not_found"},
		{err: &GeocodingError{Postcode: "X", Err: postcode.ErrUnavailable}, want: "unavailable"},
		{err: fmt.Errorf("%w: driver x", ErrInvalidDriver), want: "invalid_driver"},
		{err: context.Canceled, want: "cancelled"},
		{err: errors.New("boom"), want: "error"},
	}
	for _, tt := range tests {
		if got := outcome(tt.results, tt.err); got != tt.want {
			t.Errorf("outcome(%d, %v) = %q, want %q", tt.results, tt.err, got, tt.want)
		}
	}
}

func TestFindEligibleDrivers_CountsOutcome(t *testing.T) {
	m := newTestMatcher(t, newSpyResolver())
	before := testutil.ToFloat64(matchRequests.WithLabelValues("not_found"))

	_, _ = m.FindEligibleDrivers(context.Background(), Booking{PickupPostcode: "ZZ9 9ZZ"}, []Driver{stockportDriver(10)})

	if got := testutil.ToFloat64(matchRequests.WithLabelValues("not_found")); got != before+1 {
		t.Fatalf("not_found counter = %v, want %v", got, before+1)
	}
}
