package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/bamiogunfemi/amy-sub000/internal/auth"
	"github.com/bamiogunfemi/amy-sub000/internal/domain"
	"github.com/bamiogunfemi/amy-sub000/internal/events"
	"github.com/bamiogunfemi/amy-sub000/internal/repository"
	apperrors "github.com/bamiogunfemi/amy-sub000/pkg/util"
)

// PasswordService covers the reset-token flow and the authenticated
// password change.
type PasswordService struct {
	users      repository.UserRepository
	resets     repository.PasswordResetRepository
	hasher     auth.Hasher
	dispatcher events.Dispatcher
	resetTTL   time.Duration
}

// NewPasswordService builds the service.
func NewPasswordService(users repository.UserRepository, resets repository.PasswordResetRepository, hasher auth.Hasher, dispatcher events.Dispatcher, resetTTL time.Duration) *PasswordService {
	return &PasswordService{
		users:      users,
		resets:     resets,
		hasher:     hasher,
		dispatcher: dispatcher,
		resetTTL:   resetTTL,
	}
}

// RequestReset issues a reset token and hands it to the mail pipeline via
// the event dispatcher. An unknown email is a silent success so callers
// cannot probe which addresses exist.
func (s *PasswordService) RequestReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	}

	token := &domain.PasswordResetToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(s.resetTTL),
	}
	if err := s.resets.Create(ctx, token); err != nil {
		return err
	}

	s.publish(ctx, events.EventPasswordResetRequested, user.ID, events.PasswordResetRequestedPayload{
		Email: user.Email,
		Token: token.Token,
	})
	return nil
}

// VerifyResetToken checks a token without consuming it. The UI calls this
// before showing the new-password form.
func (s *PasswordService) VerifyResetToken(ctx context.Context, tokenStr string) error {
	if _, err := s.resets.GetByToken(ctx, tokenStr); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewInvalidOrExpiredToken()
		}
		return err
	}
	return nil
}

// SetNewPassword consumes the reset token and stores the new hash. The
// consume is terminal: presenting the same token again fails.
func (s *PasswordService) SetNewPassword(ctx context.Context, tokenStr, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return apperrors.NewValidationError("password too short", map[string]any{"min_length": minPasswordLength})
	}

	token, err := s.resets.Consume(ctx, tokenStr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewInvalidOrExpiredToken()
		}
		return err
	}

	user, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = &hash
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.publish(ctx, events.EventPasswordChanged, user.ID, nil)
	return nil
}

// ChangePassword is the authenticated path: the current password is
// re-verified before the change is allowed.
func (s *PasswordService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return apperrors.NewValidationError("password too short", map[string]any{"min_length": minPasswordLength})
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.PasswordHash == nil {
		return apperrors.NewInvalidCredentials()
	}
	if err := s.hasher.Compare(*user.PasswordHash, currentPassword); err != nil {
		return apperrors.NewInvalidCredentials()
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = &hash
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.publish(ctx, events.EventPasswordChanged, user.ID, nil)
	return nil
}

func (s *PasswordService) publish(ctx context.Context, eventType events.EventType, userID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
