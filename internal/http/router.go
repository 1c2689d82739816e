// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/http/handlers"
	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/http/middleware"
	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/modules/matching"
	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/modules/postcode"
)

type RouterDeps struct {
	Matcher  *matching.Matcher
	Resolver postcode.Resolver
	Drivers  handlers.DriverLister
	Bookings handlers.BookingGetter
	Logger   *zap.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(middleware.Logging(logger), middleware.Recovery(logger))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	postcodeHandler := handlers.NewPostcodeHandler(deps.Resolver)
	api.GET("/postcodes/:postcode", postcodeHandler.Get)

	matchHandler := handlers.NewMatchHandler(deps.Matcher, deps.Drivers, deps.Bookings, logger)
	api.POST("/matching/eligible-drivers", matchHandler.EligibleDrivers)
	api.POST("/matching/journey", matchHandler.Journey)
	api.GET("/bookings/:id/eligible-drivers", matchHandler.BookingEligibleDrivers)

	return r
}
