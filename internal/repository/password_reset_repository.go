package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bamiogunfemi/amy-sub000/internal/domain"
)

// PasswordResetRepository manages password reset token persistence. Expired
// rows are treated as absent at lookup time; Consume is terminal.
type PasswordResetRepository interface {
	Create(ctx context.Context, token *domain.PasswordResetToken) error
	// GetByToken returns an unexpired token row or pgx.ErrNoRows.
	GetByToken(ctx context.Context, token string) (*domain.PasswordResetToken, error)
	// Consume atomically deletes and returns an unexpired token row, so the
	// same token can never be redeemed twice.
	Consume(ctx context.Context, token string) (*domain.PasswordResetToken, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

type passwordResetRepository struct {
	pool *pgxpool.Pool
}

// NewPasswordResetRepository constructs repository.
func NewPasswordResetRepository(pool *pgxpool.Pool) PasswordResetRepository {
	return &passwordResetRepository{pool: pool}
}

func (r *passwordResetRepository) Create(ctx context.Context, token *domain.PasswordResetToken) error {
	const query = `
        INSERT INTO password_reset_tokens (user_id, token, expires_at)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		token.UserID,
		token.Token,
		token.ExpiresAt,
	).Scan(&token.ID, &token.CreatedAt)
}

func (r *passwordResetRepository) GetByToken(ctx context.Context, tokenStr string) (*domain.PasswordResetToken, error) {
	const query = `
        SELECT id, user_id, token, expires_at, created_at
        FROM password_reset_tokens WHERE token=$1 AND expires_at > $2`

	var token domain.PasswordResetToken
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

func (r *passwordResetRepository) Consume(ctx context.Context, tokenStr string) (*domain.PasswordResetToken, error) {
	const query = `
        DELETE FROM password_reset_tokens
        WHERE token=$1 AND expires_at > $2
        RETURNING id, user_id, token, expires_at, created_at`

	var token domain.PasswordResetToken
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

func (r *passwordResetRepository) DeleteExpired(ctx context.Context) (int64, error) {
	const query = `DELETE FROM password_reset_tokens WHERE expires_at <= $1`
	cmd, err := r.pool.Exec(ctx, query, time.Now())
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
