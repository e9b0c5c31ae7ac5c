package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/bamiogunfemi/amy-sub000/pkg/util"
)

func TestIssuePairClaimsMatchUser(t *testing.T) {
	env := newTestEnv(t)
	user, err := env.authSvc.Signup(context.Background(), SignupParams{
		Email: "a@x.com", Password: "longenough1", Name: "A",
		CompanyName: "Acme", CompanySlug: "acme",
	})
	require.NoError(t, err)

	pair, err := env.tokenSvc.IssuePair(context.Background(), user)
	require.NoError(t, err)

	claims, err := env.tokenMgr.ParseToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, user.Role, claims.Role)
	require.NotNil(t, claims.CompanyID)
	assert.Equal(t, *user.CompanyID, *claims.CompanyID)
}

func TestRefreshRotatesTokenPair(t *testing.T) {
	env := newTestEnv(t)
	user := env.signup(t, "a@x.com", "longenough1", "A")
	pair, err := env.tokenSvc.IssuePair(context.Background(), user)
	require.NoError(t, err)

	refreshed, newPair, err := env.tokenSvc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, refreshed.ID)
	assert.NotEqual(t, pair.RefreshToken, newPair.RefreshToken)
	assert.NotEmpty(t, newPair.AccessToken)
}

func TestRefreshIsSingleUse(t *testing.T) {
	env := newTestEnv(t)
	user := env.signup(t, "a@x.com", "longenough1", "A")
	pair, err := env.tokenSvc.IssuePair(context.Background(), user)
	require.NoError(t, err)

	_, _, err = env.tokenSvc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)

	_, _, err = env.tokenSvc.Refresh(context.Background(), pair.RefreshToken)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidOrExpiredToken))
}

func TestRefreshExpiredToken(t *testing.T) {
	env := newTestEnv(t)
	user := env.signup(t, "a@x.com", "longenough1", "A")
	pair, err := env.tokenSvc.IssuePair(context.Background(), user)
	require.NoError(t, err)

	env.refresh.expire(pair.RefreshToken, time.Now().Add(-time.Minute))

	_, _, err = env.tokenSvc.Refresh(context.Background(), pair.RefreshToken)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidOrExpiredToken))
}

func TestRefreshRejectedForBlockedUser(t *testing.T) {
	env := newTestEnv(t)
	user := env.signup(t, "a@x.com", "longenough1", "A")
	pair, err := env.tokenSvc.IssuePair(context.Background(), user)
	require.NoError(t, err)

	env.block(t, user.ID)

	_, _, err = env.tokenSvc.Refresh(context.Background(), pair.RefreshToken)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeAccountBlocked))
}

func TestLogoutRevokesAllRefreshTokens(t *testing.T) {
	env := newTestEnv(t)
	user := env.signup(t, "a@x.com", "longenough1", "A")

	first, err := env.tokenSvc.IssuePair(context.Background(), user)
	require.NoError(t, err)
	second, err := env.tokenSvc.IssuePair(context.Background(), user)
	require.NoError(t, err)
	require.Equal(t, 2, env.refresh.countForUser(user.ID))

	require.NoError(t, env.tokenSvc.Logout(context.Background(), first.AccessToken))
	assert.Equal(t, 0, env.refresh.countForUser(user.ID))

	_, _, err = env.tokenSvc.Refresh(context.Background(), second.RefreshToken)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidOrExpiredToken))
}

func TestLogoutToleratesGarbageToken(t *testing.T) {
	env := newTestEnv(t)
	assert.NoError(t, env.tokenSvc.Logout(context.Background(), "not-a-jwt"))
}

func TestConcurrentRefreshSingleWinner(t *testing.T) {
	env := newTestEnv(t)
	user := env.signup(t, "a@x.com", "longenough1", "A")
	pair, err := env.tokenSvc.IssuePair(context.Background(), user)
	require.NoError(t, err)

	const racers = 8
	results := make(chan error, racers)
	for i := 0; i < racers; i++ {
		go func() {
			_, _, err := env.tokenSvc.Refresh(context.Background(), pair.RefreshToken)
			results <- err
		}()
	}

	succeeded := 0
	for i := 0; i < racers; i++ {
		if err := <-results; err == nil {
			succeeded++
		} else {
			assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidOrExpiredToken))
		}
	}
	assert.Equal(t, 1, succeeded)
}
