// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/modules/booking"
	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/modules/matching"
	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/modules/postcode"
)

type errorResponse struct {
	Error string `json:"error"`
}

// isValidID accepts the alphanumeric, underscore and dash IDs the booking
// system issues, up to 64 characters.
func isValidID(v string) bool {
	if v == "" || len(v) > 64 {
		return false
	}
	for _, c := range v {
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' || c == '-' {
			continue
		}
		return false
	}
	return true
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeMatchError keeps the failure kinds apart: a bad postcode, a missing
// one, a geocoder outage and a timeout each get their own status, and none
// of them look like an empty match.
func writeMatchError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, matching.ErrResolveTimeout):
		writeError(c, http.StatusGatewayTimeout, "postcode lookup timed out")
	case errors.Is(err, postcode.ErrInvalidPostcode):
		writeError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, postcode.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, postcode.ErrUnavailable):
		writeError(c, http.StatusBadGateway, "postcode lookup unavailable")
	case errors.Is(err, matching.ErrNoDropoff):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, booking.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, matching.ErrInvalidDriver):
		writeError(c, http.StatusInternalServerError, "invalid driver record in pool")
	case errors.Is(err, context.Canceled):
		writeError(c, http.StatusServiceUnavailable, "request cancelled")
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
