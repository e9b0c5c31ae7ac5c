package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bamiogunfemi/amy-sub000/internal/domain"
)

// In-memory repository fakes. They honor the same contracts as the pgx
// implementations, including pgx.ErrNoRows for missing rows and atomic
// consume semantics for token repositories.

type fakeUserRepo struct {
	mu        sync.Mutex
	seq       int
	users     map[string]domain.User
	companies *fakeCompanyRepo
}

func newFakeUserRepo(companies *fakeCompanyRepo) *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]domain.User), companies: companies}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
		}
	}
	r.seq++
	user.ID = fmt.Sprintf("user-%d", r.seq)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) CreateWithCompany(ctx context.Context, user *domain.User, company *domain.Company) error {
	// mirrors the transactional contract: a violation on either row means
	// neither row is stored
	if _, err := r.GetByEmail(ctx, user.Email); err == nil {
		return &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	}
	if err := r.companies.Create(ctx, company); err != nil {
		return err
	}
	user.CompanyID = &company.ID
	return r.Create(ctx, user)
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	user.UpdatedAt = time.Now()
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

type fakeStatusRepo struct {
	mu       sync.Mutex
	statuses map[string]domain.UserStatus
}

func newFakeStatusRepo() *fakeStatusRepo {
	return &fakeStatusRepo{statuses: make(map[string]domain.UserStatus)}
}

func (r *fakeStatusRepo) Upsert(_ context.Context, status *domain.UserStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	status.UpdatedAt = time.Now()
	if existing, ok := r.statuses[status.UserID]; ok {
		status.CreatedAt = existing.CreatedAt
	} else {
		status.CreatedAt = status.UpdatedAt
	}
	r.statuses[status.UserID] = *status
	return nil
}

func (r *fakeStatusRepo) GetByUserID(_ context.Context, userID string) (*domain.UserStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	status, ok := r.statuses[userID]
	if !ok {
		return nil, nil
	}
	return &status, nil
}

type fakeCompanyRepo struct {
	mu        sync.Mutex
	seq       int
	companies map[string]domain.Company
}

func newFakeCompanyRepo() *fakeCompanyRepo {
	return &fakeCompanyRepo{companies: make(map[string]domain.Company)}
}

func (r *fakeCompanyRepo) Create(_ context.Context, company *domain.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.companies {
		if existing.Slug == company.Slug {
			return &pgconn.PgError{Code: "23505", ConstraintName: "companies_slug_key"}
		}
	}
	r.seq++
	company.ID = fmt.Sprintf("company-%d", r.seq)
	company.CreatedAt = time.Now()
	company.UpdatedAt = company.CreatedAt
	r.companies[company.ID] = *company
	return nil
}

func (r *fakeCompanyRepo) GetByID(_ context.Context, id string) (*domain.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	company, ok := r.companies[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &company, nil
}

func (r *fakeCompanyRepo) GetBySlug(_ context.Context, slug string) (*domain.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, company := range r.companies {
		if company.Slug == slug {
			c := company
			return &c, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCompanyRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.companies)
}

type fakeRefreshRepo struct {
	mu     sync.Mutex
	seq    int
	tokens map[string]domain.RefreshToken
}

func newFakeRefreshRepo() *fakeRefreshRepo {
	return &fakeRefreshRepo{tokens: make(map[string]domain.RefreshToken)}
}

func (r *fakeRefreshRepo) Create(_ context.Context, token *domain.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	token.ID = fmt.Sprintf("refresh-%d", r.seq)
	token.CreatedAt = time.Now()
	r.tokens[token.Token] = *token
	return nil
}

func (r *fakeRefreshRepo) Consume(_ context.Context, tokenStr string) (*domain.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.tokens[tokenStr]
	if !ok || token.Expired(time.Now()) {
		return nil, pgx.ErrNoRows
	}
	delete(r.tokens, tokenStr)
	return &token, nil
}

func (r *fakeRefreshRepo) DeleteByUserID(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for value, token := range r.tokens {
		if token.UserID == userID {
			delete(r.tokens, value)
		}
	}
	return nil
}

func (r *fakeRefreshRepo) DeleteExpired(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	now := time.Now()
	for value, token := range r.tokens {
		if token.Expired(now) {
			delete(r.tokens, value)
			removed++
		}
	}
	return removed, nil
}

func (r *fakeRefreshRepo) countForUser(userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, token := range r.tokens {
		if token.UserID == userID {
			count++
		}
	}
	return count
}

// expire rewrites a stored token's expiry, for exercising the 30-day window.
func (r *fakeRefreshRepo) expire(tokenStr string, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token, ok := r.tokens[tokenStr]; ok {
		token.ExpiresAt = at
		r.tokens[tokenStr] = token
	}
}

type fakeResetRepo struct {
	mu     sync.Mutex
	seq    int
	tokens map[string]domain.PasswordResetToken
}

func newFakeResetRepo() *fakeResetRepo {
	return &fakeResetRepo{tokens: make(map[string]domain.PasswordResetToken)}
}

func (r *fakeResetRepo) Create(_ context.Context, token *domain.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	token.ID = fmt.Sprintf("reset-%d", r.seq)
	token.CreatedAt = time.Now()
	r.tokens[token.Token] = *token
	return nil
}

func (r *fakeResetRepo) GetByToken(_ context.Context, tokenStr string) (*domain.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.tokens[tokenStr]
	if !ok || token.Expired(time.Now()) {
		return nil, pgx.ErrNoRows
	}
	return &token, nil
}

func (r *fakeResetRepo) Consume(_ context.Context, tokenStr string) (*domain.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.tokens[tokenStr]
	if !ok || token.Expired(time.Now()) {
		return nil, pgx.ErrNoRows
	}
	delete(r.tokens, tokenStr)
	return &token, nil
}

func (r *fakeResetRepo) DeleteExpired(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	now := time.Now()
	for value, token := range r.tokens {
		if token.Expired(now) {
			delete(r.tokens, value)
			removed++
		}
	}
	return removed, nil
}

func (r *fakeResetRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tokens)
}

func (r *fakeResetRepo) expire(tokenStr string, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token, ok := r.tokens[tokenStr]; ok {
		token.ExpiresAt = at
		r.tokens[tokenStr] = token
	}
}

type capturingMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

type sentMail struct {
	Address string
	Token   string
}

func (m *capturingMailer) SendPasswordResetEmail(_ context.Context, address, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{Address: address, Token: token})
	return nil
}

func (m *capturingMailer) all() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail{}, m.sent...)
}
