// Package location holds pure geographic helpers: distance, travel time, prefiltering and display formatting.
package location

import (
	"math"
	"sort"

	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/types"
)

const (
	earthRadiusMiles = 3959.0
	// averageSpeedMph is the flat speed used for every travel-time estimate.
	averageSpeedMph = 30.0
)

// HaversineMiles returns the great-circle distance in miles between two
// points. Both points must already be valid coordinates.
func HaversineMiles(a, b types.Point) float64 {
	dLat := degreesToRadians(b.Lat - a.Lat)
	dLng := degreesToRadians(b.Lng - a.Lng)

	rLat1 := degreesToRadians(a.Lat)
	rLat2 := degreesToRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	// Rounding can push h a hair outside [0,1] for antipodal points.
	h = math.Min(1, math.Max(0, h))
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMiles * c
}

// EstimateTravelMinutes converts a straight-line distance into minutes at a
// constant 30 mph. There is no road network or traffic model behind it.
func EstimateTravelMinutes(distanceMiles float64) int {
	if math.IsNaN(distanceMiles) || math.IsInf(distanceMiles, 0) || distanceMiles <= 0 {
		return 0
	}
	return int(math.Round(distanceMiles / averageSpeedMph * 60))
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

func radiansToDegrees(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

// SortByDistance orders items closest first. Equal distances keep their
// input order.
func SortByDistance[T any](items []T, dist func(T) float64) {
	sort.SliceStable(items, func(i, j int) bool {
		return dist(items[i]) < dist(items[j])
	})
}
