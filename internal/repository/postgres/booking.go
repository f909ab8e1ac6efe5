package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"petwalk/internal/domain"
	"petwalk/internal/repository"
)

// BookingRepository is a PostgreSQL implementation of repository.BookingRepository.
type BookingRepository struct {
	q Querier
}

// NewBookingRepository creates a new PostgreSQL booking repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{q: db}
}

// NewBookingRepositoryWithTx creates a booking repository using a transaction.
func NewBookingRepositoryWithTx(tx *sql.Tx) *BookingRepository {
	return &BookingRepository{q: tx}
}

const bookingColumns = `id, client_id, walker_id, pet_id, status, scheduled_at, duration_minutes,
	price_clp, penalty_clp, start_code, distance_km, walked_minutes,
	cancelled_by, cancel_reason, notes, created_at, cancelled_at, completed_at`

// Create persists a new booking.
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	_, err := r.q.ExecContext(ctx, query,
		booking.ID,
		booking.ClientID,
		nullString(booking.WalkerID),
		booking.PetID,
		booking.Status,
		booking.ScheduledAt,
		booking.DurationMinutes,
		booking.PriceCLP,
		booking.PenaltyCLP,
		booking.StartCode,
		booking.DistanceKm,
		booking.WalkedMinutes,
		nullString(string(booking.CancelledBy)),
		nullString(booking.CancelReason),
		nullString(booking.Notes),
		booking.CreatedAt,
		nullTime(booking.CancelledAt),
		nullTime(booking.CompletedAt),
	)

	return err
}

// GetByID retrieves a booking by ID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return booking, nil
}

// ListByClient retrieves a client's bookings, newest first.
func (r *BookingRepository) ListByClient(ctx context.Context, clientID string) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE client_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, clientID)
}

// ListByWalker retrieves a walker's bookings, newest first.
func (r *BookingRepository) ListByWalker(ctx context.Context, walkerID string) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE walker_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, walkerID)
}

// ListAssignedStartingBefore retrieves ASSIGNED bookings scheduled to
// start before the cutoff.
func (r *BookingRepository) ListAssignedStartingBefore(ctx context.Context, cutoff time.Time) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
		WHERE status = $1 AND scheduled_at <= $2 ORDER BY scheduled_at ASC`
	return r.list(ctx, query, domain.BookingStatusAssigned, cutoff)
}

// Assign sets the walker and moves REQUESTED -> ASSIGNED. The status
// and walker_id predicates make the transition a compare-and-swap; a
// false return means another actor got there first.
func (r *BookingRepository) Assign(ctx context.Context, id, walkerID string) (bool, error) {
	query := `
		UPDATE bookings SET status = $1, walker_id = $2
		WHERE id = $3 AND status = $4 AND walker_id IS NULL
	`
	return r.exec(ctx, query, domain.BookingStatusAssigned, walkerID, id, domain.BookingStatusRequested)
}

// MarkInProgress moves ASSIGNED -> IN_PROGRESS for the given walker.
func (r *BookingRepository) MarkInProgress(ctx context.Context, id, walkerID string) (bool, error) {
	query := `
		UPDATE bookings SET status = $1
		WHERE id = $2 AND status = $3 AND walker_id = $4
	`
	return r.exec(ctx, query, domain.BookingStatusInProgress, id, domain.BookingStatusAssigned, walkerID)
}

// Complete moves IN_PROGRESS -> COMPLETED and records the walk totals.
func (r *BookingRepository) Complete(ctx context.Context, id string, upd repository.CompletionUpdate) (bool, error) {
	query := `
		UPDATE bookings
		SET status = $1, distance_km = $2, walked_minutes = $3, price_clp = $4,
		    penalty_clp = $5, notes = $6, completed_at = $7
		WHERE id = $8 AND status = $9
	`
	return r.exec(ctx, query,
		domain.BookingStatusCompleted,
		upd.DistanceKm,
		upd.WalkedMinutes,
		upd.PriceCLP,
		upd.PenaltyCLP,
		nullString(upd.Notes),
		upd.CompletedAt,
		id,
		domain.BookingStatusInProgress,
	)
}

// Cancel moves REQUESTED/ASSIGNED -> CANCELLED. The walker-load guard
// lives inside the statement so eligibility is decided against current
// row state: a walker who went mid-walk elsewhere since the caller last
// looked makes the update match nothing.
func (r *BookingRepository) Cancel(ctx context.Context, id string, by domain.CancelParty, reason string, at time.Time) (bool, error) {
	query := `
		UPDATE bookings SET status = $1, cancelled_by = $2, cancel_reason = $3, cancelled_at = $4
		WHERE id = $5 AND status IN ($6, $7)
		  AND NOT EXISTS (
			SELECT 1 FROM bookings other
			WHERE other.walker_id = bookings.walker_id AND other.status = $8
		  )
	`
	return r.exec(ctx, query,
		domain.BookingStatusCancelled,
		string(by),
		nullString(reason),
		at,
		id,
		domain.BookingStatusRequested,
		domain.BookingStatusAssigned,
		domain.BookingStatusInProgress,
	)
}

// CountInProgressByWalker returns the walker's active load.
func (r *BookingRepository) CountInProgressByWalker(ctx context.Context, walkerID string) (int, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE walker_id = $1 AND status = $2`

	var count int
	err := r.q.QueryRowContext(ctx, query, walkerID, domain.BookingStatusInProgress).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *BookingRepository) exec(ctx context.Context, query string, args ...any) (bool, error) {
	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *BookingRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Booking, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var walkerID, cancelledBy, cancelReason, notes sql.NullString
	var cancelledAt, completedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.ClientID,
		&walkerID,
		&booking.PetID,
		&booking.Status,
		&booking.ScheduledAt,
		&booking.DurationMinutes,
		&booking.PriceCLP,
		&booking.PenaltyCLP,
		&booking.StartCode,
		&booking.DistanceKm,
		&booking.WalkedMinutes,
		&cancelledBy,
		&cancelReason,
		&notes,
		&booking.CreatedAt,
		&cancelledAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	if walkerID.Valid {
		booking.WalkerID = walkerID.String
	}
	if cancelledBy.Valid {
		booking.CancelledBy = domain.CancelParty(cancelledBy.String)
	}
	if cancelReason.Valid {
		booking.CancelReason = cancelReason.String
	}
	if notes.Valid {
		booking.Notes = notes.String
	}
	if cancelledAt.Valid {
		booking.CancelledAt = cancelledAt.Time
	}
	if completedAt.Valid {
		booking.CompletedAt = completedAt.Time
	}

	return &booking, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
