// README: Postcode lookup handler.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/modules/postcode"
)

type PostcodeHandler struct {
	resolver postcode.Resolver
}

func NewPostcodeHandler(resolver postcode.Resolver) *PostcodeHandler {
	return &PostcodeHandler{resolver: resolver}
}

func (h *PostcodeHandler) Get(c *gin.Context) {
	raw := c.Param("postcode")
	pc, err := postcode.Canonical(raw)
	if err != nil {
		writeMatchError(c, err)
		return
	}
	p, err := h.resolver.Resolve(c.Request.Context(), pc)
	if err != nil {
		writeMatchError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"postcode": pc, "lat": p.Lat, "lng": p.Lng})
}
