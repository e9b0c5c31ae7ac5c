package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/bamiogunfemi/amy-sub000/internal/api/dto"
	"github.com/bamiogunfemi/amy-sub000/internal/auth"
	"github.com/bamiogunfemi/amy-sub000/internal/identity"
	"github.com/bamiogunfemi/amy-sub000/internal/observability"
	"github.com/bamiogunfemi/amy-sub000/internal/service"
	apperrors "github.com/bamiogunfemi/amy-sub000/pkg/util"
)

// AuthHandler exposes login, signup, rotation and profile endpoints.
type AuthHandler struct {
	verifier *service.AuthService
	tokens   *service.TokenService
	google   identity.Source
	metrics  *observability.Metrics
}

// NewAuthHandler constructs handler. google may be nil when external login
// is not configured.
func NewAuthHandler(verifier *service.AuthService, tokens *service.TokenService, google identity.Source, metrics *observability.Metrics) *AuthHandler {
	return &AuthHandler{verifier: verifier, tokens: tokens, google: google, metrics: metrics}
}

// Signup handles POST /auth/signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return fiber.NewError(http.StatusBadRequest, "name, email, password required")
	}

	user, err := h.verifier.Signup(c.UserContext(), service.SignupParams{
		Email:       req.Email,
		Password:    req.Password,
		Name:        req.Name,
		CompanyName: req.CompanyName,
		CompanySlug: req.CompanySlug,
	})
	if err != nil {
		return err
	}

	pair, err := h.tokens.IssuePair(c.UserContext(), user)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": dto.AuthResponse{
		User:            user,
		AccessToken:     pair.AccessToken,
		AccessExpiresAt: pair.AccessExpiresAt,
		RefreshToken:    pair.RefreshToken,
	}})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	user, err := h.verifier.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		h.metrics.RecordAuthEvent("login_denied")
		return sanitizeLoginError(err)
	}

	pair, err := h.tokens.IssuePair(c.UserContext(), user)
	if err != nil {
		return err
	}

	h.metrics.RecordAuthEvent("login_ok")
	return c.JSON(fiber.Map{"data": dto.AuthResponse{
		User:            user,
		AccessToken:     pair.AccessToken,
		AccessExpiresAt: pair.AccessExpiresAt,
		RefreshToken:    pair.RefreshToken,
	}})
}

// LoginWithGoogle handles POST /auth/login/google.
func (h *AuthHandler) LoginWithGoogle(c *fiber.Ctx) error {
	if h.google == nil {
		return fiber.NewError(http.StatusNotImplemented, "google login not configured")
	}

	var req dto.GoogleLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.IDToken == "" {
		return fiber.NewError(http.StatusBadRequest, "id_token required")
	}

	user, err := h.verifier.LoginWithIdentity(c.UserContext(), h.google, req.IDToken)
	if err != nil {
		h.metrics.RecordAuthEvent("login_denied")
		return sanitizeLoginError(err)
	}

	pair, err := h.tokens.IssuePair(c.UserContext(), user)
	if err != nil {
		return err
	}

	h.metrics.RecordAuthEvent("login_ok")
	return c.JSON(fiber.Map{"data": dto.AuthResponse{
		User:            user,
		AccessToken:     pair.AccessToken,
		AccessExpiresAt: pair.AccessExpiresAt,
		RefreshToken:    pair.RefreshToken,
	}})
}

// Refresh handles POST /auth/refresh. All failures collapse to a generic
// 401: a reused, expired or foreign token looks the same from outside.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.RefreshToken == "" {
		return fiber.NewError(http.StatusBadRequest, "refresh_token required")
	}

	user, pair, err := h.tokens.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		h.metrics.RecordAuthEvent("refresh_denied")
		return apperrors.NewInvalidOrExpiredToken()
	}

	h.metrics.RecordAuthEvent("refresh_ok")
	return c.JSON(fiber.Map{"data": dto.AuthResponse{
		User:            user,
		AccessToken:     pair.AccessToken,
		AccessExpiresAt: pair.AccessExpiresAt,
		RefreshToken:    pair.RefreshToken,
	}})
}

// Logout handles POST /auth/logout. A bad access token does not fail the
// call; there is simply nothing to revoke.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token := bearerToken(c)
	if err := h.tokens.Logout(c.UserContext(), token); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"logged_out": true}})
}

// Me handles GET /auth/me and returns the fresh principal loaded by the
// authentication guard.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(fiber.Map{"data": principal})
}

// sanitizeLoginError keeps blocked/deleted distinguishable by status code
// but reuses the invalid-credentials phrasing so the login endpoint never
// confirms an account exists.
func sanitizeLoginError(err error) error {
	domainErr := apperrors.ToDomainError(err)
	switch domainErr.Code {
	case apperrors.CodeAccountBlocked, apperrors.CodeAccountDeleted:
		return apperrors.NewDomainError(apperrors.CodeInvalidCredentials, "invalid email or password", http.StatusForbidden, nil)
	default:
		return err
	}
}
