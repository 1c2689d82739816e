// README: Matching inputs (drivers, bookings) and outputs (eligibility results, journey estimates).
package matching

import (
	"fmt"
	"math"

	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/types"
)

// Driver is the matching-relevant projection of a driver profile.
type Driver struct {
	ID                 types.ID
	Base               types.Point
	ServiceRadiusMiles float64
}

func (d Driver) validate() error {
	if err := d.Base.Validate(); err != nil {
		return fmt.Errorf("%w: driver %s: %w", ErrInvalidDriver, d.ID, err)
	}
	r := d.ServiceRadiusMiles
	if math.IsNaN(r) || math.IsInf(r, 0) || r <= 0 {
		return fmt.Errorf("%w: driver %s: service radius %v", ErrInvalidDriver, d.ID, r)
	}
	return nil
}

// Booking carries the postcodes a match is run against. DropoffPostcode is
// optional and only read by EstimateJourney.
type Booking struct {
	ID              types.ID
	PickupPostcode  string
	DropoffPostcode string
}

// EligibilityResult is present for a driver iff DistanceToPickupMiles is
// within the driver's own service radius.
type EligibilityResult struct {
	Driver                Driver
	DistanceToPickupMiles float64
	ProximityScore        float64
	TravelMinutes         int
}

type Journey struct {
	Pickup        types.Point
	Dropoff       types.Point
	DistanceMiles float64
	TravelMinutes int
}

const (
	// edgeScore is what a driver exactly at the limit of their radius scores.
	edgeScore = 0.2
	// ctxCheckEvery is how many distances a worker computes between context
	// checks.
	ctxCheckEvery = 1024
)
