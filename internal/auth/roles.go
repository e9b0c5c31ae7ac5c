package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bamiogunfemi/amy-sub000/internal/domain"
	"github.com/bamiogunfemi/amy-sub000/internal/repository"
	apperrors "github.com/bamiogunfemi/amy-sub000/pkg/util"
)

// RequireRole composes after AuthMiddleware and rejects principals whose
// role does not match.
func RequireRole(required domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if principal.Role != required {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireActiveSubscription rejects blocked/deleted accounts with 403 and
// lapsed trials with 402. Solo users have no subscription to gate on.
func RequireActiveSubscription(companies repository.CompanyRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if principal.Status != domain.AccountStatusActive {
			return apperrors.NewForbidden("account is not active")
		}
		if principal.CompanyID == nil {
			return c.Next()
		}

		company, err := companies.GetByID(c.UserContext(), *principal.CompanyID)
		if err != nil {
			return apperrors.MapError(err)
		}
		if company.TrialExpired(time.Now()) {
			return apperrors.NewPaymentRequired("trial period has ended")
		}
		return c.Next()
	}
}
