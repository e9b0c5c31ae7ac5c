package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/bamiogunfemi/amy-sub000/internal/repository"
)

// TokenSweeper periodically removes expired refresh and reset rows. Lookups
// already treat expired rows as absent, so this is hygiene, not correctness.
type TokenSweeper struct {
	refreshTokens repository.RefreshTokenRepository
	resetTokens   repository.PasswordResetRepository
	interval      time.Duration
	logger        *zap.Logger
}

// NewTokenSweeper builds the sweeper.
func NewTokenSweeper(refreshRepo repository.RefreshTokenRepository, resetRepo repository.PasswordResetRepository, interval time.Duration, logger *zap.Logger) *TokenSweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &TokenSweeper{
		refreshTokens: refreshRepo,
		resetTokens:   resetRepo,
		interval:      interval,
		logger:        logger,
	}
}

// Run sweeps on a ticker until the context is cancelled.
func (s *TokenSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *TokenSweeper) sweep(ctx context.Context) {
	refreshRemoved, err := s.refreshTokens.DeleteExpired(ctx)
	if err != nil {
		s.logger.Warn("refresh token sweep failed", zap.Error(err))
	}

	resetRemoved, err := s.resetTokens.DeleteExpired(ctx)
	if err != nil {
		s.logger.Warn("reset token sweep failed", zap.Error(err))
	}

	if refreshRemoved > 0 || resetRemoved > 0 {
		s.logger.Info("expired tokens swept",
			zap.Int64("refresh_tokens", refreshRemoved),
			zap.Int64("reset_tokens", resetRemoved))
	}
}
