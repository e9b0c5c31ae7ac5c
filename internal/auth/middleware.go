package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/bamiogunfemi/amy-sub000/internal/domain"
	apperrors "github.com/bamiogunfemi/amy-sub000/pkg/util"
)

const principalKey = "auth_principal"

// PrincipalLoader performs the fresh store read backing every guarded
// request. Implemented by the credential verifier so that status derivation
// stays in one place.
type PrincipalLoader interface {
	LoadAuthUser(ctx context.Context, userID string) (*domain.AuthUser, error)
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens *TokenManager
	loader PrincipalLoader
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, loader PrincipalLoader) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, loader: loader}
}

// Handle enforces authentication for protected routes. The principal is
// re-read from the store on every request rather than trusted from claims,
// so an admin block or delete takes effect before the access token expires.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewInvalidOrExpiredToken()
	}

	user, err := m.loader.LoadAuthUser(c.UserContext(), claims.UserID)
	if err != nil {
		// a generic 401 regardless of cause; existence details stay internal
		return apperrors.NewInvalidOrExpiredToken()
	}
	if user.Status != domain.AccountStatusActive {
		return apperrors.NewInvalidOrExpiredToken()
	}

	c.Locals(principalKey, user)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated user.
func PrincipalFromContext(c *fiber.Ctx) (*domain.AuthUser, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	user, ok := val.(*domain.AuthUser)
	return user, ok
}
