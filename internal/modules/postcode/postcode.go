// README: UK postcode normalisation, validation, and the resolver contract shared by every lookup tier.
package postcode

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/types"
)

var (
	ErrInvalidPostcode = errors.New("invalid postcode")
	ErrNotFound        = errors.New("postcode not found")
	ErrUnavailable     = errors.New("postcode lookup unavailable")
)

// Resolver turns a postcode into a coordinate. Implementations return
// ErrInvalidPostcode, ErrNotFound or ErrUnavailable (possibly wrapped) so
// callers can tell a bad request from a missing record from an outage.
type Resolver interface {
	Resolve(ctx context.Context, postcode string) (types.Point, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, postcode string) (types.Point, error)

func (f ResolverFunc) Resolve(ctx context.Context, postcode string) (types.Point, error) {
	return f(ctx, postcode)
}

var ukPattern = regexp.MustCompile(`^[A-Z]{1,2}\d[A-Z\d]?\s?\d[A-Z]{2}$`)

// Normalize upper-cases raw, drops all whitespace and re-inserts a single
// space before the three-character inward code: "sk11aa" -> "SK1 1AA".
// Input too short to carry an inward code is returned compacted.
func Normalize(raw string) string {
	compact := strings.ToUpper(strings.Join(strings.Fields(raw), ""))
	if len(compact) < 5 {
		return compact
	}
	return compact[:len(compact)-3] + " " + compact[len(compact)-3:]
}

// Validate reports ErrInvalidPostcode unless raw is a UK postcode in any
// casing or spacing.
func Validate(raw string) error {
	if !IsValid(raw) {
		return fmt.Errorf("%w: %q", ErrInvalidPostcode, raw)
	}
	return nil
}

func IsValid(raw string) bool {
	return ukPattern.MatchString(Normalize(raw))
}

// Canonical validates raw and returns its normalized form.
func Canonical(raw string) (string, error) {
	if err := Validate(raw); err != nil {
		return "", err
	}
	return Normalize(raw), nil
}
