package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bamiogunfemi/amy-sub000/internal/domain"
)

// UserRepository defines persistence access for user identity records.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	// CreateWithCompany inserts the tenant and its first user in one
	// transaction; a failure on either row leaves nothing behind.
	CreateWithCompany(ctx context.Context, user *domain.User, company *domain.Company) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (email, name, password_hash, role, company_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.Role,
		user.CompanyID,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) CreateWithCompany(ctx context.Context, user *domain.User, company *domain.Company) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const companyQuery = `
        INSERT INTO companies (name, slug, subscription_status, trial_ends_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

		if err := tx.QueryRow(ctx, companyQuery,
			company.Name,
			company.Slug,
			company.SubscriptionStatus,
			company.TrialEndsAt,
		).Scan(&company.ID, &company.CreatedAt, &company.UpdatedAt); err != nil {
			return err
		}

		user.CompanyID = &company.ID

		const userQuery = `
        INSERT INTO users (email, name, password_hash, role, company_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

		return tx.QueryRow(ctx, userQuery,
			user.Email,
			user.Name,
			user.PasswordHash,
			user.Role,
			user.CompanyID,
		).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	})
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET email=$1, name=$2, password_hash=$3, role=$4, company_id=$5, deleted_at=$6, updated_at=NOW()
        WHERE id=$7`

	cmd, err := r.pool.Exec(ctx, query,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.Role,
		user.CompanyID,
		user.DeletedAt,
		user.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `
        SELECT id, email, name, password_hash, role, company_id, deleted_at, created_at, updated_at
        FROM users WHERE id=$1`

	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
        SELECT id, email, name, password_hash, role, company_id, deleted_at, created_at, updated_at
        FROM users WHERE email=$1`

	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *userRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.Role,
		&user.CompanyID,
		&user.DeletedAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
