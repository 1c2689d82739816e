package location

import (
	"math"

	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/types"
)

// boxSlackDegrees widens every edge slightly so float rounding in the
// haversine step can never reject a point the box let through, or the
// reverse.
const boxSlackDegrees = 1e-9

// BoundingBox is an axis-aligned lat/lng window. When MinLng > MaxLng the
// box wraps across the antimeridian.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// NewBoundingBox returns the smallest lat/lng window that contains every
// point within radiusMiles (great-circle) of center.
//
// A degree of latitude is a constant ~69 miles, so the latitude edges are
// simply the angular radius away. Longitude degrees shrink with
// cos(latitude), so the longitude half-width is asin(sin δ / cos φ), which
// widens towards the poles and spans the whole globe once the circle
// reaches one.
func NewBoundingBox(center types.Point, radiusMiles float64) BoundingBox {
	if math.IsNaN(radiusMiles) || radiusMiles < 0 {
		radiusMiles = 0
	}
	delta := radiusMiles / earthRadiusMiles // angular radius, radians
	deltaDeg := radiansToDegrees(delta) + boxSlackDegrees

	box := BoundingBox{
		MinLat: center.Lat - deltaDeg,
		MaxLat: center.Lat + deltaDeg,
		MinLng: -180,
		MaxLng: 180,
	}
	if box.MaxLat >= 90 || box.MinLat <= -90 || delta >= math.Pi/2 {
		box.MinLat = math.Max(box.MinLat, -90)
		box.MaxLat = math.Min(box.MaxLat, 90)
		return box
	}

	ratio := math.Sin(delta) / math.Cos(degreesToRadians(center.Lat))
	if ratio >= 1 {
		return box
	}
	dLng := radiansToDegrees(math.Asin(ratio)) + boxSlackDegrees
	if dLng >= 180 {
		return box
	}

	box.MinLng = center.Lng - dLng
	box.MaxLng = center.Lng + dLng
	if box.MinLng < -180 {
		box.MinLng += 360
	}
	if box.MaxLng > 180 {
		box.MaxLng -= 360
	}
	return box
}

// Contains reports whether p falls inside the box.
func (b BoundingBox) Contains(p types.Point) bool {
	if p.Lat < b.MinLat || p.Lat > b.MaxLat {
		return false
	}
	if b.MinLng <= b.MaxLng {
		return p.Lng >= b.MinLng && p.Lng <= b.MaxLng
	}
	return p.Lng >= b.MinLng || p.Lng <= b.MaxLng
}

// FilterByBoundingBox keeps the items whose position lies inside the box of
// maxRadiusMiles around center. It is a cheap over-approximation run before
// the exact haversine check: it never drops an item that is within
// maxRadiusMiles of center. The input slice is not modified.
func FilterByBoundingBox[T any](center types.Point, items []T, maxRadiusMiles float64, pos func(T) types.Point) []T {
	if len(items) == 0 {
		return []T{}
	}
	box := NewBoundingBox(center, maxRadiusMiles)
	out := make([]T, 0, len(items))
	for _, it := range items {
		if box.Contains(pos(it)) {
			out = append(out, it)
		}
	}
	return out
}
