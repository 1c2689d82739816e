package maps

import (
	"context"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"

	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/modules/postcode"
	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/types"
)

// Geocoder resolves postcodes through the Google Maps Geocoding API.
type Geocoder struct {
	client  *maps.Client
	region  string
	country string
}

// NewGeocoder creates a Geocoder with the given API key. region is a ccTLD
// bias such as "uk"; opts are passed through to the maps client (tests use
// maps.WithBaseURL).
func NewGeocoder(apiKey, region string, opts ...maps.ClientOption) (*Geocoder, error) {
	opts = append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)
	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &Geocoder{client: client, region: region, country: countryForRegion(region)}, nil
}

// Resolve looks a postcode up by component filter rather than free text so
// a street or town that happens to look like a postcode never matches.
// Partial matches are reported as not found.
func (g *Geocoder) Resolve(ctx context.Context, raw string) (types.Point, error) {
	pc, err := postcode.Canonical(raw)
	if err != nil {
		return types.Point{}, err
	}

	r := &maps.GeocodingRequest{
		Components: map[maps.Component]string{
			maps.ComponentPostalCode: pc,
			maps.ComponentCountry:    g.country,
		},
		Region: g.region,
	}
	results, err := g.client.Geocode(ctx, r)
	if err != nil {
		return types.Point{}, fmt.Errorf("%w: maps api error: %w", postcode.ErrUnavailable, err)
	}

	for _, res := range results {
		if res.PartialMatch {
			continue
		}
		p := types.Point{Lat: res.Geometry.Location.Lat, Lng: res.Geometry.Location.Lng}
		if err := p.Validate(); err != nil {
			return types.Point{}, fmt.Errorf("%w: maps api returned %w", postcode.ErrUnavailable, err)
		}
		return p, nil
	}
	return types.Point{}, fmt.Errorf("%w: %s", postcode.ErrNotFound, pc)
}

// countryForRegion maps the region bias onto the ISO country filter. The
// ccTLD for the United Kingdom is "uk" but its ISO code is "GB".
func countryForRegion(region string) string {
	switch strings.ToLower(region) {
	case "", "uk", "gb":
		return "GB"
	default:
		return strings.ToUpper(region)
	}
}
