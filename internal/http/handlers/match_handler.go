// README: Matching handlers: eligible drivers for a pickup or a stored booking, and journey estimates.
package handlers

import (
	"context"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/modules/booking"
	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/modules/location"
	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/modules/matching"
	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/modules/postcode"
	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/types"
)

type DriverLister interface {
	ListActive(ctx context.Context, businessID types.ID) ([]matching.Driver, error)
}

type BookingGetter interface {
	Get(ctx context.Context, id types.ID) (*booking.Booking, error)
}

type MatchHandler struct {
	matcher  *matching.Matcher
	drivers  DriverLister
	bookings BookingGetter
	logger   *zap.Logger
}

func NewMatchHandler(matcher *matching.Matcher, drivers DriverLister, bookings BookingGetter, logger *zap.Logger) *MatchHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatchHandler{matcher: matcher, drivers: drivers, bookings: bookings, logger: logger}
}

type eligibleDriversReq struct {
	PickupPostcode  string `json:"pickup_postcode"`
	DropoffPostcode string `json:"dropoff_postcode"`
	BusinessID      string `json:"business_id"`
}

type driverResult struct {
	DriverID           string  `json:"driver_id"`
	ServiceRadiusMiles float64 `json:"service_radius_miles"`
	DistanceMiles      float64 `json:"distance_miles"`
	DistanceText       string  `json:"distance_text"`
	TravelMinutes      int     `json:"travel_minutes"`
	TravelText         string  `json:"travel_text"`
	ProximityScore     float64 `json:"proximity_score"`
	Closest            bool    `json:"closest,omitempty"`
}

type eligibleDriversResp struct {
	BookingID      string         `json:"booking_id,omitempty"`
	PickupPostcode string         `json:"pickup_postcode"`
	Count          int            `json:"count"`
	Drivers        []driverResult `json:"drivers"`
}

// EligibleDrivers matches an ad-hoc pickup against the active driver pool.
func (h *MatchHandler) EligibleDrivers(c *gin.Context) {
	var req eligibleDriversReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.PickupPostcode == "" {
		writeError(c, http.StatusBadRequest, "missing fields")
		return
	}
	h.match(c, matching.Booking{
		PickupPostcode:  req.PickupPostcode,
		DropoffPostcode: req.DropoffPostcode,
	}, types.ID(req.BusinessID))
}

// BookingEligibleDrivers matches a stored booking. The pool is scoped by the
// business_id query parameter, falling back to the booking's own business.
func (h *MatchHandler) BookingEligibleDrivers(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid booking id")
		return
	}
	b, err := h.bookings.Get(c.Request.Context(), types.ID(id))
	if err != nil {
		writeMatchError(c, err)
		return
	}
	businessID := types.ID(c.Query("business_id"))
	if businessID == "" {
		businessID = b.BusinessID
	}
	h.match(c, b.MatchInput(), businessID)
}

func (h *MatchHandler) match(c *gin.Context, b matching.Booking, businessID types.ID) {
	ctx := c.Request.Context()
	drivers, err := h.drivers.ListActive(ctx, businessID)
	if err != nil {
		h.logger.Error("list drivers", zap.String("business_id", string(businessID)), zap.Error(err))
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}

	results, err := h.matcher.FindEligibleDrivers(ctx, b, drivers)
	if err != nil {
		writeMatchError(c, err)
		return
	}

	resp := eligibleDriversResp{
		BookingID:      string(b.ID),
		PickupPostcode: postcode.Normalize(b.PickupPostcode),
		Count:          len(results),
		Drivers:        make([]driverResult, 0, len(results)),
	}
	for i, r := range results {
		resp.Drivers = append(resp.Drivers, driverResult{
			DriverID:           string(r.Driver.ID),
			ServiceRadiusMiles: r.Driver.ServiceRadiusMiles,
			DistanceMiles:      round2(r.DistanceToPickupMiles),
			DistanceText:       location.FormatDistance(r.DistanceToPickupMiles),
			TravelMinutes:      r.TravelMinutes,
			TravelText:         location.FormatTravelTime(r.TravelMinutes),
			ProximityScore:     round2(r.ProximityScore),
			Closest:            i == 0,
		})
	}
	writeJSON(c, http.StatusOK, resp)
}

type journeyReq struct {
	PickupPostcode  string `json:"pickup_postcode"`
	DropoffPostcode string `json:"dropoff_postcode"`
}

// Journey estimates the straight-line pickup to dropoff leg.
func (h *MatchHandler) Journey(c *gin.Context) {
	var req journeyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.PickupPostcode == "" {
		writeError(c, http.StatusBadRequest, "missing fields")
		return
	}
	j, err := h.matcher.EstimateJourney(c.Request.Context(), matching.Booking{
		PickupPostcode:  req.PickupPostcode,
		DropoffPostcode: req.DropoffPostcode,
	})
	if err != nil {
		writeMatchError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{
		"pickup":         j.Pickup,
		"dropoff":        j.Dropoff,
		"distance_miles": round2(j.DistanceMiles),
		"distance_text":  location.FormatDistance(j.DistanceMiles),
		"travel_minutes": j.TravelMinutes,
		"travel_text":    location.FormatTravelTime(j.TravelMinutes),
	})
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
