package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/bamiogunfemi/amy-sub000/internal/domain"
	"github.com/bamiogunfemi/amy-sub000/internal/events"
	"github.com/bamiogunfemi/amy-sub000/internal/repository"
	apperrors "github.com/bamiogunfemi/amy-sub000/pkg/util"
)

// AccountService applies admin moderation to accounts. The status row is
// upserted lazily; an absent row means fully active. Takes effect on the
// target's very next request through the guard's fresh read.
type AccountService struct {
	users      repository.UserRepository
	statuses   repository.UserStatusRepository
	dispatcher events.Dispatcher
}

// NewAccountService builds the service.
func NewAccountService(users repository.UserRepository, statuses repository.UserStatusRepository, dispatcher events.Dispatcher) *AccountService {
	return &AccountService{users: users, statuses: statuses, dispatcher: dispatcher}
}

// Block marks the account blocked.
func (s *AccountService) Block(ctx context.Context, actorID, userID, notes string) error {
	status, err := s.loadStatus(ctx, userID)
	if err != nil {
		return err
	}
	status.IsBlocked = true
	if notes != "" {
		status.Notes = notes
	}
	if err := s.statuses.Upsert(ctx, status); err != nil {
		return err
	}
	s.publish(ctx, events.EventAccountBlocked, userID, events.AccountModeratedPayload{ActorID: actorID, Notes: notes})
	return nil
}

// Unblock lifts a block and clears any restriction window.
func (s *AccountService) Unblock(ctx context.Context, actorID, userID string) error {
	status, err := s.loadStatus(ctx, userID)
	if err != nil {
		return err
	}
	status.IsBlocked = false
	status.RestrictedUntil = nil
	return s.statuses.Upsert(ctx, status)
}

// Restrict blocks the account until the given time.
func (s *AccountService) Restrict(ctx context.Context, actorID, userID string, until time.Time, notes string) error {
	status, err := s.loadStatus(ctx, userID)
	if err != nil {
		return err
	}
	status.RestrictedUntil = &until
	if notes != "" {
		status.Notes = notes
	}
	return s.statuses.Upsert(ctx, status)
}

// SoftDelete marks the account deleted on both the user row and the status
// row. The user row is never physically removed.
func (s *AccountService) SoftDelete(ctx context.Context, actorID, userID string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUserNotFound()
		}
		return err
	}

	now := time.Now()
	user.DeletedAt = &now
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	status, err := s.loadStatus(ctx, userID)
	if err != nil {
		return err
	}
	status.IsDeleted = true
	if err := s.statuses.Upsert(ctx, status); err != nil {
		return err
	}

	s.publish(ctx, events.EventAccountDeleted, userID, events.AccountModeratedPayload{ActorID: actorID})
	return nil
}

func (s *AccountService) loadStatus(ctx context.Context, userID string) (*domain.UserStatus, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUserNotFound()
		}
		return nil, err
	}

	status, err := s.statuses.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if status == nil {
		status = &domain.UserStatus{UserID: userID}
	}
	return status, nil
}

func (s *AccountService) publish(ctx context.Context, eventType events.EventType, userID string, payload interface{}) {
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
