package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamiogunfemi/amy-sub000/internal/domain"
)

func testUser() *domain.AuthUser {
	companyID := "company-1"
	return &domain.AuthUser{
		ID:        "user-1",
		Email:     "a@x.com",
		Role:      domain.RoleRecruiter,
		CompanyID: &companyID,
		Status:    domain.AccountStatusActive,
	}
}

func TestGenerateAndParseRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 15*time.Minute)

	token, expiresAt, err := tm.GenerateAccessToken(testUser())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, domain.RoleRecruiter, claims.Role)
	require.NotNil(t, claims.CompanyID)
	assert.Equal(t, "company-1", *claims.CompanyID)
}

func TestParseRejectsExpired(t *testing.T) {
	tm := NewTokenManager("secret", time.Minute)
	claims := &Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = tm.ParseToken(token)
	assert.Error(t, err)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", time.Minute)
	verifier := NewTokenManager("secret-b", time.Minute)

	token, _, err := issuer.GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.Error(t, err)
}

func TestParseRejectsWrongAlgorithm(t *testing.T) {
	tm := NewTokenManager("secret", time.Minute)
	claims := &Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = tm.ParseToken(token)
	assert.Error(t, err)
}

func TestDecodeLenientAcceptsExpiredButNotForged(t *testing.T) {
	tm := NewTokenManager("secret", time.Minute)
	claims := &Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	decoded, err := tm.DecodeLenient(expired)
	require.NoError(t, err)
	assert.Equal(t, "user-1", decoded.UserID)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, err = tm.DecodeLenient(forged)
	assert.Error(t, err)
}

func TestNewRefreshTokenShape(t *testing.T) {
	first, err := NewRefreshToken()
	require.NoError(t, err)
	second, err := NewRefreshToken()
	require.NoError(t, err)

	// 40 random bytes, hex-encoded
	assert.Len(t, first, 80)
	assert.NotEqual(t, first, second)
}
