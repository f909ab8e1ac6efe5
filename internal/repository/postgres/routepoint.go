package postgres

import (
	"context"
	"database/sql"

	"petwalk/internal/domain"
)

// RoutePointRepository is a PostgreSQL implementation of repository.RoutePointRepository.
type RoutePointRepository struct {
	q Querier
}

// NewRoutePointRepository creates a new PostgreSQL route point repository.
func NewRoutePointRepository(db *sql.DB) *RoutePointRepository {
	return &RoutePointRepository{q: db}
}

// Append persists a new route point.
func (r *RoutePointRepository) Append(ctx context.Context, point *domain.RoutePoint) error {
	query := `
		INSERT INTO route_points (id, booking_id, lat, lng, captured_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.q.ExecContext(ctx, query,
		point.ID,
		point.BookingID,
		point.Lat,
		point.Lng,
		point.CapturedAt,
	)

	return err
}

// ListByBooking retrieves a booking's route points ordered by capture time.
func (r *RoutePointRepository) ListByBooking(ctx context.Context, bookingID string) ([]*domain.RoutePoint, error) {
	query := `
		SELECT id, booking_id, lat, lng, captured_at
		FROM route_points WHERE booking_id = $1 ORDER BY captured_at ASC
	`

	rows, err := r.q.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []*domain.RoutePoint
	for rows.Next() {
		var point domain.RoutePoint
		if err := rows.Scan(
			&point.ID,
			&point.BookingID,
			&point.Lat,
			&point.Lng,
			&point.CapturedAt,
		); err != nil {
			return nil, err
		}
		points = append(points, &point)
	}
	return points, rows.Err()
}
