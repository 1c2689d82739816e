// README: Booking store backed by PostgreSQL (read side used by matching).
package booking

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/types"
)

// DB is the slice of *pgxpool.Pool the store needs.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type Store struct {
	db DB
}

func NewStore(db DB) *Store {
	return &Store{db: db}
}

const bookingColumns = `id, business_id, pickup_postcode, dropoff_postcode, status, pickup_at, created_at`

func (s *Store) Get(ctx context.Context, id types.ID) (*Booking, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE id = $1`, string(id),
	)
	b, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListOpen returns bookings still awaiting bids, soonest pickup first.
func (s *Store) ListOpen(ctx context.Context, limit int) ([]*Booking, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE status IN ('open', 'bidding')
		ORDER BY pickup_at ASC
		LIMIT $1`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// scanBooking reads one row in bookingColumns order. pgx.Rows satisfies
// pgx.Row, so Get and ListOpen share it.
func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	var id, businessID, status string
	var dropoff *string
	if err := row.Scan(&id, &businessID, &b.PickupPostcode, &dropoff, &status, &b.PickupAt, &b.CreatedAt); err != nil {
		return nil, err
	}
	b.ID = types.ID(id)
	b.BusinessID = types.ID(businessID)
	b.Status = Status(status)
	if dropoff != nil {
		b.DropoffPostcode = *dropoff
	}
	return &b, nil
}
