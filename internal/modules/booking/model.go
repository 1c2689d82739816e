// README: Booking aggregate (pickup/dropoff postcodes) and status definitions.
package booking

import (
	"errors"
	"time"

	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/modules/matching"
	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/types"
)

type Status string

const (
	StatusOpen      Status = "open"
	StatusBidding   Status = "bidding"
	StatusAccepted  Status = "accepted"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Open reports whether the booking still takes driver bids.
func (s Status) Open() bool {
	return s == StatusOpen || s == StatusBidding
}

var ErrNotFound = errors.New("booking not found")

type Booking struct {
	ID              types.ID
	BusinessID      types.ID
	PickupPostcode  string
	DropoffPostcode string
	Status          Status
	PickupAt        time.Time
	CreatedAt       time.Time
}

// MatchInput projects the booking onto what the matcher reads.
func (b *Booking) MatchInput() matching.Booking {
	return matching.Booking{
		ID:              b.ID,
		PickupPostcode:  b.PickupPostcode,
		DropoffPostcode: b.DropoffPostcode,
	}
}
