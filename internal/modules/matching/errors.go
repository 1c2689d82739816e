package matching

import (
	"errors"
	"fmt"
)

var (
	// ErrResolveTimeout means the pickup postcode could not be resolved in
	// time. It is never reported as an empty match.
	ErrResolveTimeout = errors.New("postcode resolution timed out")
	ErrInvalidDriver  = errors.New("invalid driver record")
	ErrNoDropoff      = errors.New("booking has no dropoff postcode")
)

// GeocodingError reports a postcode that could not be turned into a
// coordinate. Err is one of postcode.ErrInvalidPostcode, ErrNotFound,
// ErrUnavailable or ErrResolveTimeout, possibly wrapped.
type GeocodingError struct {
	Postcode string
	Err      error
}

func (e *GeocodingError) Error() string {
	return fmt.Sprintf("geocode %q: %v", e.Postcode, e.Err)
}

func (e *GeocodingError) Unwrap() error {
	return e.Err
}
