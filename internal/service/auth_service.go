package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/bamiogunfemi/amy-sub000/internal/auth"
	"github.com/bamiogunfemi/amy-sub000/internal/domain"
	"github.com/bamiogunfemi/amy-sub000/internal/events"
	"github.com/bamiogunfemi/amy-sub000/internal/identity"
	"github.com/bamiogunfemi/amy-sub000/internal/repository"
	apperrors "github.com/bamiogunfemi/amy-sub000/pkg/util"
)

const minPasswordLength = 8

// AuthService is the credential verifier. Every authenticated path obtains
// its canonical AuthUser view from here.
type AuthService struct {
	users      repository.UserRepository
	statuses   repository.UserStatusRepository
	companies  repository.CompanyRepository
	hasher     auth.Hasher
	dispatcher events.Dispatcher

	trialDays int
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo       repository.UserRepository
	UserStatusRepo repository.UserStatusRepository
	CompanyRepo    repository.CompanyRepository
	Hasher         auth.Hasher
	Dispatcher     events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		statuses:   deps.UserStatusRepo,
		companies:  deps.CompanyRepo,
		hasher:     deps.Hasher,
		dispatcher: deps.Dispatcher,
		trialDays:  14,
	}
}

// SignupParams carries the signup payload. Company fields are optional;
// omitting both puts the account in solo mode.
type SignupParams struct {
	Email       string
	Password    string
	Name        string
	CompanyName string
	CompanySlug string
}

// Login authenticates local credentials. Unknown email and wrong password
// are indistinguishable to the caller; blocked and deleted accounts are
// rejected before the password is even checked.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.AuthUser, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInvalidCredentials()
		}
		return nil, err
	}

	view, err := s.project(ctx, user)
	if err != nil {
		return nil, err
	}
	if err := rejectInactive(view); err != nil {
		return nil, err
	}

	if user.PasswordHash == nil {
		// identity-linked account with no local password
		return nil, apperrors.NewInvalidCredentials()
	}
	if err := s.hasher.Compare(*user.PasswordHash, password); err != nil {
		return nil, apperrors.NewInvalidCredentials()
	}

	return view, nil
}

// Signup registers a new account, optionally creating its tenant. Tenant and
// user rows are written in one transaction, so a lost signup race leaves no
// orphaned company behind.
func (s *AuthService) Signup(ctx context.Context, params SignupParams) (*domain.AuthUser, error) {
	if len(params.Password) < minPasswordLength {
		return nil, apperrors.NewValidationError("password too short", map[string]any{"min_length": minPasswordLength})
	}
	companyMode := params.CompanyName != "" || params.CompanySlug != ""
	if companyMode && (params.CompanyName == "" || params.CompanySlug == "") {
		return nil, apperrors.NewValidationError("company name and slug must be provided together", nil)
	}

	// Fast-path duplicate checks. Concurrent signups can still slip past
	// these, so unique violations on the insert are mapped below as well.
	if _, err := s.users.GetByEmail(ctx, params.Email); err == nil {
		return nil, apperrors.NewUserExists()
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if companyMode {
		if _, err := s.companies.GetBySlug(ctx, params.CompanySlug); err == nil {
			return nil, apperrors.NewConflict("company slug already taken", nil)
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
	}

	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        params.Email,
		Name:         params.Name,
		PasswordHash: &hash,
		Role:         domain.RoleRecruiter,
	}

	var company *domain.Company
	var createErr error
	if companyMode {
		trialEnd := time.Now().Add(time.Duration(s.trialDays) * 24 * time.Hour)
		company = &domain.Company{
			Name:               params.CompanyName,
			Slug:               params.CompanySlug,
			SubscriptionStatus: domain.SubscriptionTrial,
			TrialEndsAt:        &trialEnd,
		}
		createErr = s.users.CreateWithCompany(ctx, user, company)
	} else {
		createErr = s.users.Create(ctx, user)
	}
	if createErr != nil {
		switch {
		case apperrors.IsUniqueViolation(createErr, "users_email_key"):
			return nil, apperrors.NewUserExists()
		case apperrors.IsUniqueViolation(createErr, "companies_slug_key"):
			return nil, apperrors.NewConflict("company slug already taken", nil)
		}
		return nil, createErr
	}

	s.publish(ctx, events.EventUserRegistered, user.ID, events.UserRegisteredPayload{
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		CompanyID: user.CompanyID,
	})

	return domain.ProjectAuthUser(user, nil, company), nil
}

// LoginWithIdentity exchanges a verified external profile for an account,
// creating one on first login. Identity-only accounts carry no password hash.
func (s *AuthService) LoginWithIdentity(ctx context.Context, source identity.Source, assertion string) (*domain.AuthUser, error) {
	profile, err := source.Verify(ctx, assertion)
	if err != nil {
		return nil, apperrors.NewInvalidCredentials()
	}

	user, err := s.users.GetByEmail(ctx, profile.Email)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		user = &domain.User{
			Email: profile.Email,
			Name:  profile.Name,
			Role:  domain.RoleRecruiter,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}
		s.publish(ctx, events.EventUserRegistered, user.ID, events.UserRegisteredPayload{
			Email: user.Email,
			Name:  user.Name,
			Role:  user.Role,
		})
	}

	view, err := s.project(ctx, user)
	if err != nil {
		return nil, err
	}
	if err := rejectInactive(view); err != nil {
		return nil, err
	}
	return view, nil
}

// LoadAuthUser re-reads the canonical view from the store. Request guards
// call this on every guarded request instead of trusting token claims.
func (s *AuthService) LoadAuthUser(ctx context.Context, userID string) (*domain.AuthUser, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUserNotFound()
		}
		return nil, err
	}
	return s.project(ctx, user)
}

func (s *AuthService) project(ctx context.Context, user *domain.User) (*domain.AuthUser, error) {
	status, err := s.statuses.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	var company *domain.Company
	if user.CompanyID != nil {
		company, err = s.companies.GetByID(ctx, *user.CompanyID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
	}

	return domain.ProjectAuthUser(user, status, company), nil
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, userID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

func rejectInactive(user *domain.AuthUser) error {
	switch user.Status {
	case domain.AccountStatusDeleted:
		return apperrors.NewAccountDeleted()
	case domain.AccountStatusBlocked:
		return apperrors.NewAccountBlocked()
	default:
		return nil
	}
}
