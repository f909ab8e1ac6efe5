package postgres

import (
	"context"
	"database/sql"
	"errors"

	"petwalk/internal/domain"
	"petwalk/internal/repository"
)

// WalkerRepository is a PostgreSQL implementation of repository.WalkerRepository.
type WalkerRepository struct {
	q Querier
}

// NewWalkerRepository creates a new PostgreSQL walker repository.
func NewWalkerRepository(db *sql.DB) *WalkerRepository {
	return &WalkerRepository{q: db}
}

// NewWalkerRepositoryWithTx creates a walker repository using a transaction.
func NewWalkerRepositoryWithTx(tx *sql.Tx) *WalkerRepository {
	return &WalkerRepository{q: tx}
}

// Create persists a new walker profile.
func (r *WalkerRepository) Create(ctx context.Context, walker *domain.Walker) error {
	query := `
		INSERT INTO walkers (id, name, phone, rut, status, rating, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.ExecContext(ctx, query,
		walker.ID,
		walker.Name,
		walker.Phone,
		walker.RUT,
		walker.Status,
		walker.Rating,
		walker.CreatedAt,
	)

	return err
}

// GetByID retrieves a walker by ID.
func (r *WalkerRepository) GetByID(ctx context.Context, id string) (*domain.Walker, error) {
	query := `SELECT id, name, phone, rut, status, rating, created_at FROM walkers WHERE id = $1`
	return r.get(ctx, query, id)
}

// GetByRUT retrieves a walker by canonical RUT.
func (r *WalkerRepository) GetByRUT(ctx context.Context, rut string) (*domain.Walker, error) {
	query := `SELECT id, name, phone, rut, status, rating, created_at FROM walkers WHERE rut = $1`
	return r.get(ctx, query, rut)
}

func (r *WalkerRepository) get(ctx context.Context, query string, arg any) (*domain.Walker, error) {
	var walker domain.Walker
	err := r.q.QueryRowContext(ctx, query, arg).Scan(
		&walker.ID,
		&walker.Name,
		&walker.Phone,
		&walker.RUT,
		&walker.Status,
		&walker.Rating,
		&walker.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &walker, nil
}

// ListApproved retrieves all walkers with APPROVED status.
func (r *WalkerRepository) ListApproved(ctx context.Context) ([]*domain.Walker, error) {
	query := `
		SELECT id, name, phone, rut, status, rating, created_at
		FROM walkers WHERE status = $1 ORDER BY rating DESC
	`

	rows, err := r.q.QueryContext(ctx, query, domain.WalkerStatusApproved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var walkers []*domain.Walker
	for rows.Next() {
		var walker domain.Walker
		if err := rows.Scan(
			&walker.ID,
			&walker.Name,
			&walker.Phone,
			&walker.RUT,
			&walker.Status,
			&walker.Rating,
			&walker.CreatedAt,
		); err != nil {
			return nil, err
		}
		walkers = append(walkers, &walker)
	}
	return walkers, rows.Err()
}

// UpdateStatus changes a walker's approval status.
func (r *WalkerRepository) UpdateStatus(ctx context.Context, id string, status domain.WalkerStatus) error {
	query := `UPDATE walkers SET status = $1 WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
