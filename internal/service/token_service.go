package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/bamiogunfemi/amy-sub000/internal/auth"
	"github.com/bamiogunfemi/amy-sub000/internal/domain"
	"github.com/bamiogunfemi/amy-sub000/internal/repository"
	apperrors "github.com/bamiogunfemi/amy-sub000/pkg/util"
)

// TokenPair is the result of login, signup and refresh.
type TokenPair struct {
	AccessToken     string    `json:"access_token"`
	AccessExpiresAt time.Time `json:"access_expires_at"`
	RefreshToken    string    `json:"refresh_token"`
}

// TokenService mints access tokens and rotates refresh tokens.
type TokenService struct {
	refreshTokens repository.RefreshTokenRepository
	tokens        *auth.TokenManager
	verifier      *AuthService
	refreshTTL    time.Duration
}

// NewTokenService builds the service.
func NewTokenService(refreshRepo repository.RefreshTokenRepository, tokens *auth.TokenManager, verifier *AuthService, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		refreshTokens: refreshRepo,
		tokens:        tokens,
		verifier:      verifier,
		refreshTTL:    refreshTTL,
	}
}

// IssuePair mints an access token and persists a fresh refresh token.
func (s *TokenService) IssuePair(ctx context.Context, user *domain.AuthUser) (*TokenPair, error) {
	accessToken, expiresAt, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshValue, err := auth.NewRefreshToken()
	if err != nil {
		return nil, err
	}
	refreshToken := &domain.RefreshToken{
		UserID:    user.ID,
		Token:     refreshValue,
		ExpiresAt: time.Now().Add(s.refreshTTL),
	}
	if err := s.refreshTokens.Create(ctx, refreshToken); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:     accessToken,
		AccessExpiresAt: expiresAt,
		RefreshToken:    refreshValue,
	}, nil
}

// Refresh exchanges a refresh token for a new pair. The presented token is
// consumed atomically at the store, so when two requests race on the same
// token at most one wins; the loser sees InvalidOrExpiredToken. The owner's
// status is re-read before minting: a valid row alone is not enough.
func (s *TokenService) Refresh(ctx context.Context, presented string) (*domain.AuthUser, *TokenPair, error) {
	row, err := s.refreshTokens.Consume(ctx, presented)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewInvalidOrExpiredToken()
		}
		return nil, nil, err
	}

	user, err := s.verifier.LoadAuthUser(ctx, row.UserID)
	if err != nil {
		return nil, nil, apperrors.NewInvalidOrExpiredToken()
	}
	if err := rejectInactive(user); err != nil {
		return nil, nil, err
	}

	pair, err := s.IssuePair(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Logout revokes every refresh token belonging to the token's owner: an
// intentional sign-out-everywhere. The access token is decoded leniently so
// an expired token still logs its owner out; an undecodable one is a no-op
// rather than an error.
func (s *TokenService) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.tokens.DecodeLenient(accessToken)
	if err != nil {
		return nil
	}
	return s.refreshTokens.DeleteByUserID(ctx, claims.UserID)
}
