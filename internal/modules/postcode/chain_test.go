package postcode

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/types"
)

var stockport = types.Point{Lat: 53.4084, Lng: -2.1487}

// countingResolver wraps a fixed answer and records how often it was asked.
type countingResolver struct {
	point types.Point
	err   error
	calls int
}

func (r *countingResolver) Resolve(_ context.Context, _ string) (types.Point, error) {
	r.calls++
	return r.point, r.err
}

func TestChain_FirstTierAnswers(t *testing.T) {
	first := &countingResolver{point: stockport}
	second := &countingResolver{err: errors.New("must not be called")}
	var wrote bool
	c := NewChain(zaptest.NewLogger(t), first, second).WithWriteBack(func(context.Context, string, types.Point) error {
		wrote = true
		return nil
	})

	p, err := c.Resolve(context.Background(), "SK1 1AA")
	if err != nil || p != stockport {
		t.Fatalf("got %v, %v", p, err)
	}
	if second.calls != 0 {
		t.Fatalf("second tier called %d times", second.calls)
	}
	if wrote {
		t.Fatal("write-back must not run for a first-tier answer")
	}
}

func TestChain_FallsThroughAndWritesBack(t *testing.T) {
	first := &countingResolver{err: ErrNotFound}
	second := &countingResolver{point: stockport}
	var savedPC string
	var savedPoint types.Point
	c := NewChain(zaptest.NewLogger(t), first, second).WithWriteBack(func(_ context.Context, pc string, p types.Point) error {
		savedPC, savedPoint = pc, p
		return nil
	})

	p, err := c.Resolve(context.Background(), "sk11aa")
	if err != nil || p != stockport {
		t.Fatalf("got %v, %v", p, err)
	}
	if savedPC != "SK1 1AA" || savedPoint != stockport {
		t.Fatalf("write-back got %q %v", savedPC, savedPoint)
	}
}

func TestChain_WriteBackFailureIsIgnored(t *testing.T) {
	c := NewChain(zaptest.NewLogger(t), &countingResolver{err: ErrNotFound}, &countingResolver{point: stockport}).
		WithWriteBack(func(context.Context, string, types.Point) error { return errors.New("disk full") })

	if _, err := c.Resolve(context.Background(), "SK1 1AA"); err != nil {
		t.Fatalf("write-back failure leaked into lookup: %v", err)
	}
}

func TestChain_Misses(t *testing.T) {
	tests := []struct {
		name  string
		tiers []Resolver
		want  error
	}{
		{
			name:  "all not found",
			tiers: []Resolver{&countingResolver{err: ErrNotFound}, &countingResolver{err: ErrNotFound}},
			want:  ErrNotFound,
		},
		{
			name:  "one tier down",
			tiers: []Resolver{&countingResolver{err: ErrNotFound}, &countingResolver{err: ErrUnavailable}},
			want:  ErrUnavailable,
		},
		{
			name:  "unclassified failure counts as unavailable",
			tiers: []Resolver{&countingResolver{err: errors.New("boom")}},
			want:  ErrUnavailable,
		},
		{
			name:  "no tiers",
			tiers: nil,
			want:  ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChain(zaptest.NewLogger(t), tt.tiers...)
			_, err := c.Resolve(context.Background(), "SK1 1AA")
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestChain_InvalidPostcodeSkipsTiers(t *testing.T) {
	tier := &countingResolver{point: stockport}
	c := NewChain(nil, tier)

	if _, err := c.Resolve(context.Background(), "not a postcode"); !errors.Is(err, ErrInvalidPostcode) {
		t.Fatalf("expected ErrInvalidPostcode, got %v", err)
	}
	if tier.calls != 0 {
		t.Fatalf("tier called for an invalid postcode")
	}
}

func TestChain_StopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	first := ResolverFunc(func(context.Context, string) (types.Point, error) {
		cancel()
		return types.Point{}, ErrUnavailable
	})
	second := &countingResolver{point: stockport}

	_, err := NewChain(nil, first, second).Resolve(ctx, "SK1 1AA")
	if !errors.Is(err, context.Canceled) || !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected cancelled unavailable error, got %v", err)
	}
	if second.calls != 0 {
		t.Fatal("second tier called after context was cancelled")
	}
}
