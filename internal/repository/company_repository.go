package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bamiogunfemi/amy-sub000/internal/domain"
)

// CompanyRepository defines persistence access for tenants.
type CompanyRepository interface {
	Create(ctx context.Context, company *domain.Company) error
	GetByID(ctx context.Context, id string) (*domain.Company, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Company, error)
}

type companyRepository struct {
	pool *pgxpool.Pool
}

// NewCompanyRepository returns a Postgres-backed implementation.
func NewCompanyRepository(pool *pgxpool.Pool) CompanyRepository {
	return &companyRepository{pool: pool}
}

func (r *companyRepository) Create(ctx context.Context, company *domain.Company) error {
	const query = `
        INSERT INTO companies (name, slug, subscription_status, trial_ends_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		company.Name,
		company.Slug,
		company.SubscriptionStatus,
		company.TrialEndsAt,
	).Scan(&company.ID, &company.CreatedAt, &company.UpdatedAt)
}

func (r *companyRepository) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	const query = `
        SELECT id, name, slug, subscription_status, trial_ends_at, created_at, updated_at
        FROM companies WHERE id=$1`

	return r.scanCompany(r.pool.QueryRow(ctx, query, id))
}

func (r *companyRepository) GetBySlug(ctx context.Context, slug string) (*domain.Company, error) {
	const query = `
        SELECT id, name, slug, subscription_status, trial_ends_at, created_at, updated_at
        FROM companies WHERE slug=$1`

	return r.scanCompany(r.pool.QueryRow(ctx, query, slug))
}

func (r *companyRepository) scanCompany(row pgx.Row) (*domain.Company, error) {
	var company domain.Company
	if err := row.Scan(
		&company.ID,
		&company.Name,
		&company.Slug,
		&company.SubscriptionStatus,
		&company.TrialEndsAt,
		&company.CreatedAt,
		&company.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &company, nil
}
