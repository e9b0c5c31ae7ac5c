package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bamiogunfemi/amy-sub000/internal/domain"
)

// UserStatusRepository manages the per-user moderation record. Rows are
// created lazily; GetByUserID returns (nil, nil) when no row exists, which
// callers must treat as a fully active account.
type UserStatusRepository interface {
	Upsert(ctx context.Context, status *domain.UserStatus) error
	GetByUserID(ctx context.Context, userID string) (*domain.UserStatus, error)
}

type userStatusRepository struct {
	pool *pgxpool.Pool
}

// NewUserStatusRepository returns a Postgres-backed implementation.
func NewUserStatusRepository(pool *pgxpool.Pool) UserStatusRepository {
	return &userStatusRepository{pool: pool}
}

func (r *userStatusRepository) Upsert(ctx context.Context, status *domain.UserStatus) error {
	const query = `
        INSERT INTO user_statuses (user_id, is_blocked, is_deleted, restricted_until, notes)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (user_id) DO UPDATE SET
            is_blocked=EXCLUDED.is_blocked,
            is_deleted=EXCLUDED.is_deleted,
            restricted_until=EXCLUDED.restricted_until,
            notes=EXCLUDED.notes,
            updated_at=NOW()
        RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		status.UserID,
		status.IsBlocked,
		status.IsDeleted,
		status.RestrictedUntil,
		status.Notes,
	).Scan(&status.CreatedAt, &status.UpdatedAt)
}

func (r *userStatusRepository) GetByUserID(ctx context.Context, userID string) (*domain.UserStatus, error) {
	const query = `
        SELECT user_id, is_blocked, is_deleted, restricted_until, notes, created_at, updated_at
        FROM user_statuses WHERE user_id=$1`

	var status domain.UserStatus
	if err := r.pool.QueryRow(ctx, query, userID).Scan(
		&status.UserID,
		&status.IsBlocked,
		&status.IsDeleted,
		&status.RestrictedUntil,
		&status.Notes,
		&status.CreatedAt,
		&status.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &status, nil
}
