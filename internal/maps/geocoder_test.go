package maps

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"googlemaps.github.io/maps"

	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/modules/postcode"
	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/types"
)

func newTestGeocoder(t *testing.T, handler http.HandlerFunc) *Geocoder {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	g, err := NewGeocoder("test-key", "uk", maps.WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("NewGeocoder: %v", err)
	}
	return g
}

func TestGeocoder_Resolve(t *testing.T) {
	var gotComponents, gotRegion string
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		gotComponents = r.URL.Query().Get("components")
		gotRegion = r.URL.Query().Get("region")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"results": [{
				"formatted_address": "Stockport SK1 1AA, UK",
				"geometry": {"location": {"lat": 53.4084, "lng": -2.1487}},
				"types": ["postal_code"]
			}]
		}`))
	})

	p, err := g.Resolve(context.Background(), "sk11aa")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if p != (types.Point{Lat: 53.4084, Lng: -2.1487}) {
		t.Fatalf("unexpected point %v", p)
	}
	if !strings.Contains(gotComponents, "postal_code:SK1 1AA") || !strings.Contains(gotComponents, "country:GB") {
		t.Errorf("unexpected components filter %q", gotComponents)
	}
	if gotRegion != "uk" {
		t.Errorf("unexpected region %q", gotRegion)
	}
}

func TestGeocoder_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
		want error
	}{
		{
			name: "zero results",
			body: `{"status": "ZERO_RESULTS", "results": []}`,
			code: http.StatusOK,
			want: postcode.ErrNotFound,
		},
		{
			name: "partial match only",
			body: `{"status": "OK", "results": [{"partial_match": true, "geometry": {"location": {"lat": 53.4, "lng": -2.1}}}]}`,
			code: http.StatusOK,
			want: postcode.ErrNotFound,
		},
		{
			name: "quota exceeded",
			body: `{"status": "OVER_QUERY_LIMIT", "error_message": "quota", "results": []}`,
			code: http.StatusOK,
			want: postcode.ErrUnavailable,
		},
		{
			name: "request denied",
			body: `{"status": "REQUEST_DENIED", "error_message": "bad key", "results": []}`,
			code: http.StatusOK,
			want: postcode.ErrUnavailable,
		},
		{
			name: "server error",
			body: `oops`,
			code: http.StatusInternalServerError,
			want: postcode.ErrUnavailable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGeocoder(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.code)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := g.Resolve(context.Background(), "SK1 1AA")
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestGeocoder_InvalidPostcodeNeverCallsAPI(t *testing.T) {
	called := false
	g := newTestGeocoder(t, func(w http.ResponseWriter, _ *http.Request) {
		called = true
	})
	if _, err := g.Resolve(context.Background(), "INVALID"); !errors.Is(err, postcode.ErrInvalidPostcode) {
		t.Fatalf("expected ErrInvalidPostcode, got %v", err)
	}
	if called {
		t.Fatal("API called for an invalid postcode")
	}
}

func TestGeocoder_Timeout(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := g.Resolve(ctx, "SK1 1AA")
	if !errors.Is(err, postcode.ErrUnavailable) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected unavailable deadline error, got %v", err)
	}
}

func TestCountryForRegion(t *testing.T) {
	tests := map[string]string{"": "GB", "uk": "GB", "GB": "GB", "ie": "IE"}
	for in, want := range tests {
		if got := countryForRegion(in); got != want {
			t.Errorf("countryForRegion(%q) = %q, want %q", in, got, want)
		}
	}
}
