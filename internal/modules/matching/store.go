// README: Driver supply backed by PostgreSQL; read-only projection of active driver profiles.
package matching

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/AnthonyPaton1/taxi-booking-app-sub001/internal/types"
)

// Querier is the slice of *pgxpool.Pool the driver store needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type DriverStore struct {
	db Querier
}

func NewDriverStore(db Querier) *DriverStore {
	return &DriverStore{db: db}
}

// ListActive returns the active drivers of one business, or of every
// business when businessID is empty. Rows are returned as stored; the
// matcher rejects out-of-range records.
func (s *DriverStore) ListActive(ctx context.Context, businessID types.ID) ([]Driver, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, base_latitude, base_longitude, service_radius_miles
		FROM drivers
		WHERE active AND ($1 = '' OR business_id = $1)
		ORDER BY id`, string(businessID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	drivers := []Driver{}
	for rows.Next() {
		var d Driver
		var id string
		if err := rows.Scan(&id, &d.Base.Lat, &d.Base.Lng, &d.ServiceRadiusMiles); err != nil {
			return nil, err
		}
		d.ID = types.ID(id)
		drivers = append(drivers, d)
	}
	return drivers, rows.Err()
}
