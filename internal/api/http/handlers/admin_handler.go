package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bamiogunfemi/amy-sub000/internal/api/dto"
	"github.com/bamiogunfemi/amy-sub000/internal/auth"
	"github.com/bamiogunfemi/amy-sub000/internal/service"
	apperrors "github.com/bamiogunfemi/amy-sub000/pkg/util"
)

// AdminHandler exposes account moderation endpoints, gated by the ADMIN role.
type AdminHandler struct {
	accounts *service.AccountService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(accounts *service.AccountService) *AdminHandler {
	return &AdminHandler{accounts: accounts}
}

// Block handles POST /admin/users/:id/block.
func (h *AdminHandler) Block(c *fiber.Ctx) error {
	actor, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.ModerationRequest
	_ = c.BodyParser(&req)

	if err := h.accounts.Block(c.UserContext(), actor.ID, c.Params("id"), req.Notes); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"blocked": true}})
}

// Unblock handles POST /admin/users/:id/unblock.
func (h *AdminHandler) Unblock(c *fiber.Ctx) error {
	actor, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	if err := h.accounts.Unblock(c.UserContext(), actor.ID, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"blocked": false}})
}

// Restrict handles POST /admin/users/:id/restrict.
func (h *AdminHandler) Restrict(c *fiber.Ctx) error {
	actor, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.RestrictRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	until, err := time.Parse(time.RFC3339, req.Until)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "until must be RFC3339")
	}

	if err := h.accounts.Restrict(c.UserContext(), actor.ID, c.Params("id"), until, req.Notes); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"restricted_until": until}})
}

// Delete handles DELETE /admin/users/:id (soft delete).
func (h *AdminHandler) Delete(c *fiber.Ctx) error {
	actor, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	if err := h.accounts.SoftDelete(c.UserContext(), actor.ID, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}
