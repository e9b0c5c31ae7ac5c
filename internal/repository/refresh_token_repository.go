package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bamiogunfemi/amy-sub000/internal/domain"
)

// RefreshTokenRepository manages refresh-token persistence. Consume is the
// single-use primitive: under concurrent presentation of the same token,
// exactly one caller wins the row.
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *domain.RefreshToken) error
	// Consume atomically deletes the row for an unexpired token and returns
	// it. Missing, expired, and already-consumed tokens all yield
	// pgx.ErrNoRows.
	Consume(ctx context.Context, token string) (*domain.RefreshToken, error)
	DeleteByUserID(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type refreshTokenRepository struct {
	pool *pgxpool.Pool
}

// NewRefreshTokenRepository returns a Postgres-backed implementation.
func NewRefreshTokenRepository(pool *pgxpool.Pool) RefreshTokenRepository {
	return &refreshTokenRepository{pool: pool}
}

func (r *refreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	const query = `
        INSERT INTO refresh_tokens (user_id, token, expires_at)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		token.UserID,
		token.Token,
		token.ExpiresAt,
	).Scan(&token.ID, &token.CreatedAt)
}

func (r *refreshTokenRepository) Consume(ctx context.Context, tokenStr string) (*domain.RefreshToken, error) {
	const query = `
        DELETE FROM refresh_tokens
        WHERE token=$1 AND expires_at > $2
        RETURNING id, user_id, token, expires_at, created_at`

	var token domain.RefreshToken
	if err := r.pool.QueryRow(ctx, query, tokenStr, time.Now()).Scan(
		&token.ID,
		&token.UserID,
		&token.Token,
		&token.ExpiresAt,
		&token.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *refreshTokenRepository) DeleteByUserID(ctx context.Context, userID string) error {
	const query = `DELETE FROM refresh_tokens WHERE user_id=$1`
	_, err := r.pool.Exec(ctx, query, userID)
	return err
}

func (r *refreshTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	const query = `DELETE FROM refresh_tokens WHERE expires_at <= $1`
	cmd, err := r.pool.Exec(ctx, query, time.Now())
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
