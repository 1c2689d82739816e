package location

import (
	"math"
	"math/rand"
	"testing"

	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/types"
)

var (
	stockport  = types.Point{Lat: 53.4084, Lng: -2.1487}
	manchester = types.Point{Lat: 53.4808, Lng: -2.2426}
	birmingham = types.Point{Lat: 52.4862, Lng: -1.8904}
)

func TestHaversineMiles_KnownDistances(t *testing.T) {
	tests := []struct {
		name      string
		a, b      types.Point
		wantMiles float64
		tolerance float64
	}{
		{
			name:      "same point",
			a:         stockport,
			b:         stockport,
			wantMiles: 0,
			tolerance: 1e-12,
		},
		{
			name:      "Stockport to Manchester City Centre (~6.3mi)",
			a:         stockport,
			b:         manchester,
			wantMiles: 6.32,
			tolerance: 0.05,
		},
		{
			name:      "Stockport to Birmingham (~65mi)",
			a:         stockport,
			b:         birmingham,
			wantMiles: 65,
			tolerance: 5,
		},
		{
			name:      "New York to Los Angeles (~2451mi)",
			a:         types.Point{Lat: 40.7128, Lng: -74.0060},
			b:         types.Point{Lat: 34.0522, Lng: -118.2437},
			wantMiles: 2451,
			tolerance: 30,
		},
		{
			name:      "across the antimeridian",
			a:         types.Point{Lat: 0, Lng: 179.5},
			b:         types.Point{Lat: 0, Lng: -179.5},
			wantMiles: 69.1,
			tolerance: 0.1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineMiles(tt.a, tt.b)
			if math.Abs(got-tt.wantMiles) > tt.tolerance {
				t.Errorf("HaversineMiles() = %f, want %f (±%f)", got, tt.wantMiles, tt.tolerance)
			}
		})
	}
}

func TestHaversineMiles_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 2000; i++ {
		a, b, c := randomPoint(rng), randomPoint(rng), randomPoint(rng)

		ab := HaversineMiles(a, b)
		ba := HaversineMiles(b, a)
		if math.Abs(ab-ba) > 1e-9 {
			t.Fatalf("not symmetric for %v %v: %f vs %f", a, b, ab, ba)
		}
		if ab < 0 {
			t.Fatalf("negative distance %f for %v %v", ab, a, b)
		}
		if d := HaversineMiles(a, a); d != 0 {
			t.Fatalf("distance from %v to itself = %f", a, d)
		}
		ac := HaversineMiles(a, c)
		bc := HaversineMiles(b, c)
		if ac > ab+bc+1e-6 {
			t.Fatalf("triangle inequality violated: d(a,c)=%f > d(a,b)+d(b,c)=%f", ac, ab+bc)
		}
	}
}

func TestEstimateTravelMinutes(t *testing.T) {
	tests := []struct {
		miles float64
		want  int
	}{
		{miles: 15, want: 30},
		{miles: 0, want: 0},
		{miles: -3, want: 0},
		{miles: math.NaN(), want: 0},
		{miles: math.Inf(1), want: 0},
		{miles: 6.32, want: 13},
		{miles: 45, want: 90},
		{miles: 0.2, want: 0},
		{miles: 0.5, want: 1},
	}

	for _, tt := range tests {
		if got := EstimateTravelMinutes(tt.miles); got != tt.want {
			t.Errorf("EstimateTravelMinutes(%v) = %d, want %d", tt.miles, got, tt.want)
		}
	}
}

func TestSortByDistance_Stable(t *testing.T) {
	type item struct {
		id   string
		dist float64
	}
	items := []item{{"c", 5}, {"a", 1}, {"b", 3}, {"a2", 1}}

	SortByDistance(items, func(i item) float64 { return i.dist })

	want := []string{"a", "a2", "b", "c"}
	for i, it := range items {
		if it.id != want[i] {
			t.Fatalf("unexpected sort order: %v", items)
		}
	}
}

func TestSortByDistance_Empty(t *testing.T) {
	var items []float64
	SortByDistance(items, func(f float64) float64 { return f })
}

func randomPoint(rng *rand.Rand) types.Point {
	return types.Point{
		Lat: rng.Float64()*180 - 90,
		Lng: rng.Float64()*360 - 180,
	}
}
