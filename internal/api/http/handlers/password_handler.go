package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/bamiogunfemi/amy-sub000/internal/api/dto"
	"github.com/bamiogunfemi/amy-sub000/internal/auth"
	"github.com/bamiogunfemi/amy-sub000/internal/service"
	apperrors "github.com/bamiogunfemi/amy-sub000/pkg/util"
)

// PasswordHandler exposes the reset flow and the authenticated change.
type PasswordHandler struct {
	passwords *service.PasswordService
}

// NewPasswordHandler constructs handler.
func NewPasswordHandler(passwords *service.PasswordService) *PasswordHandler {
	return &PasswordHandler{passwords: passwords}
}

// RequestReset handles POST /auth/password/reset/request. The response is
// 200 whether or not the email exists.
func (h *PasswordHandler) RequestReset(c *fiber.Ctx) error {
	var req dto.ResetRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" {
		return fiber.NewError(http.StatusBadRequest, "email required")
	}

	if err := h.passwords.RequestReset(c.UserContext(), req.Email); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"requested": true}})
}

// VerifyResetToken handles POST /auth/password/reset/verify.
func (h *PasswordHandler) VerifyResetToken(c *fiber.Ctx) error {
	var req dto.ResetVerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Token == "" {
		return fiber.NewError(http.StatusBadRequest, "token required")
	}

	if err := h.passwords.VerifyResetToken(c.UserContext(), req.Token); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"valid": true}})
}

// SetNewPassword handles POST /auth/password/reset/confirm.
func (h *PasswordHandler) SetNewPassword(c *fiber.Ctx) error {
	var req dto.ResetConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Token == "" || req.NewPassword == "" {
		return fiber.NewError(http.StatusBadRequest, "token and new_password required")
	}

	if err := h.passwords.SetNewPassword(c.UserContext(), req.Token, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"changed": true}})
}

// ChangePassword handles POST /auth/password/change (authenticated).
func (h *PasswordHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return fiber.NewError(http.StatusBadRequest, "current_password and new_password required")
	}

	if err := h.passwords.ChangePassword(c.UserContext(), principal.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"changed": true}})
}
