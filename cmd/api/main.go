package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/bamiogunfemi/amy-sub000/internal/api/http"
	"github.com/bamiogunfemi/amy-sub000/internal/api/http/handlers"
	"github.com/bamiogunfemi/amy-sub000/internal/auth"
	"github.com/bamiogunfemi/amy-sub000/internal/config"
	"github.com/bamiogunfemi/amy-sub000/internal/events"
	"github.com/bamiogunfemi/amy-sub000/internal/identity"
	googleidentity "github.com/bamiogunfemi/amy-sub000/internal/identity/google"
	"github.com/bamiogunfemi/amy-sub000/internal/mail"
	"github.com/bamiogunfemi/amy-sub000/internal/observability"
	"github.com/bamiogunfemi/amy-sub000/internal/persistence"
	"github.com/bamiogunfemi/amy-sub000/internal/ratelimit"
	"github.com/bamiogunfemi/amy-sub000/internal/repository"
	"github.com/bamiogunfemi/amy-sub000/internal/service"
	"github.com/bamiogunfemi/amy-sub000/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	statusRepo := repository.NewUserStatusRepository(pool)
	companyRepo := repository.NewCompanyRepository(pool)
	refreshRepo := repository.NewRefreshTokenRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	tokenMgr := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())

	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:       userRepo,
		UserStatusRepo: statusRepo,
		CompanyRepo:    companyRepo,
		Hasher:         hasher,
		Dispatcher:     dispatcher,
	})
	tokenService := service.NewTokenService(refreshRepo, tokenMgr, authService, cfg.Auth.RefreshTokenTTL())
	passwordService := service.NewPasswordService(userRepo, resetRepo, hasher, dispatcher, cfg.Auth.PasswordResetTTL())
	accountService := service.NewAccountService(userRepo, statusRepo, dispatcher)

	mailer := mail.NewMailer(cfg.Mail, logger)
	notificationService := service.NewNotificationService(dispatcher, mailer, logger)
	worker.StartNotificationWorker(notificationService)

	sweeper := worker.NewTokenSweeper(refreshRepo, resetRepo, cfg.Auth.SweepInterval(), logger)
	go sweeper.Run(ctx)

	var googleSource identity.Source
	if cfg.Auth.GoogleClientID != "" {
		googleSource = googleidentity.NewVerifier(cfg.Auth.GoogleClientID)
	}

	authMiddleware := auth.NewAuthMiddleware(tokenMgr, authService)
	limiter := ratelimit.NewLimiter(redis.Client, cfg.RateLimit, logger)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService, tokenService, googleSource, metrics),
		Passwords:      handlers.NewPasswordHandler(passwordService),
		Admin:          handlers.NewAdminHandler(accountService),
		AuthMiddleware: authMiddleware,
		Limiter:        limiter,
		Companies:      companyRepo,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
