// README: Postcode lookup table backed by PostgreSQL (e.g. a loaded ONS postcode directory).
package postcode

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/types"
)

// DB is the slice of *pgxpool.Pool the store needs.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Store struct {
	db DB
}

func NewStore(db DB) *Store {
	return &Store{db: db}
}

func (s *Store) Resolve(ctx context.Context, raw string) (types.Point, error) {
	pc, err := Canonical(raw)
	if err != nil {
		return types.Point{}, err
	}

	var p types.Point
	err = s.db.QueryRow(ctx, `
		SELECT latitude, longitude
		FROM postcodes
		WHERE postcode = $1`, pc,
	).Scan(&p.Lat, &p.Lng)
	if errors.Is(err, pgx.ErrNoRows) {
		return types.Point{}, fmt.Errorf("%w: %s", ErrNotFound, pc)
	}
	if err != nil {
		return types.Point{}, fmt.Errorf("%w: postcode store: %w", ErrUnavailable, err)
	}
	if err := p.Validate(); err != nil {
		return types.Point{}, fmt.Errorf("%w: postcode store row %s: %w", ErrUnavailable, pc, err)
	}
	return p, nil
}

// Save upserts a coordinate. It is the write-back target for answers from
// the remote geocoder.
func (s *Store) Save(ctx context.Context, raw string, p types.Point) error {
	pc, err := Canonical(raw)
	if err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO postcodes (postcode, latitude, longitude, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (postcode) DO UPDATE
		SET latitude = EXCLUDED.latitude,
		    longitude = EXCLUDED.longitude,
		    updated_at = NOW()`,
		pc, p.Lat, p.Lng,
	)
	return err
}
