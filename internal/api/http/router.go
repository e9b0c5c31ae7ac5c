package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bamiogunfemi/amy-sub000/internal/api/http/handlers"
	"github.com/bamiogunfemi/amy-sub000/internal/auth"
	"github.com/bamiogunfemi/amy-sub000/internal/domain"
	"github.com/bamiogunfemi/amy-sub000/internal/ratelimit"
	"github.com/bamiogunfemi/amy-sub000/internal/repository"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Passwords      *handlers.PasswordHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
	Limiter        *ratelimit.Limiter
	Companies      repository.CompanyRepository
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/signup", cfg.Limiter.Middleware("signup"), cfg.Auth.Signup)
	authGroup.Post("/login", cfg.Limiter.Middleware("login"), cfg.Auth.Login)
	authGroup.Post("/login/google", cfg.Auth.LoginWithGoogle)
	authGroup.Post("/refresh", cfg.Auth.Refresh)
	authGroup.Post("/logout", cfg.Auth.Logout)

	authGroup.Post("/password/reset/request", cfg.Limiter.Middleware("reset"), cfg.Passwords.RequestReset)
	authGroup.Post("/password/reset/verify", cfg.Passwords.VerifyResetToken)
	authGroup.Post("/password/reset/confirm", cfg.Passwords.SetNewPassword)

	protected := authGroup.Group("", cfg.AuthMiddleware.Handle)
	protected.Post("/password/change", cfg.Passwords.ChangePassword)
	protected.Get("/me", cfg.Auth.Me)

	// everything under /dashboard additionally requires a live subscription
	dashboard := app.Group("/dashboard", cfg.AuthMiddleware.Handle, auth.RequireActiveSubscription(cfg.Companies))
	dashboard.Get("/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"data": fiber.Map{"status": "ok"}})
	})

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	admin.Post("/users/:id/block", cfg.Admin.Block)
	admin.Post("/users/:id/unblock", cfg.Admin.Unblock)
	admin.Post("/users/:id/restrict", cfg.Admin.Restrict)
	admin.Delete("/users/:id", cfg.Admin.Delete)
}
