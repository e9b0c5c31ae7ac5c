package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/bamiogunfemi/amy-sub000/internal/events"
	"github.com/bamiogunfemi/amy-sub000/internal/mail"
)

// NotificationService bridges domain events to outbound mail and audit logs.
type NotificationService struct {
	dispatcher events.Dispatcher
	mailer     mail.Mailer
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, mailer mail.Mailer, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		mailer:     mailer,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventPasswordResetRequested, n.handlePasswordResetRequested)
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleUserRegistered)
	n.dispatcher.Subscribe(events.EventAccountBlocked, n.handleAccountModerated)
	n.dispatcher.Subscribe(events.EventAccountDeleted, n.handleAccountModerated)
}

func (n *NotificationService) handlePasswordResetRequested(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PasswordResetRequestedPayload)
	if !ok {
		n.logger.Warn("unexpected payload for password reset event", zap.String("event_id", event.ID))
		return nil
	}
	if err := n.mailer.SendPasswordResetEmail(ctx, payload.Email, payload.Token); err != nil {
		n.logger.Error("failed to send password reset email", zap.Error(err), zap.String("user_id", event.UserID))
		return err
	}
	return nil
}

func (n *NotificationService) handleUserRegistered(_ context.Context, event events.Event) error {
	n.logger.Info("UserRegistered", zap.String("user_id", event.UserID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleAccountModerated(_ context.Context, event events.Event) error {
	n.logger.Info("AccountModerated",
		zap.String("event_type", string(event.Type)),
		zap.String("user_id", event.UserID),
		zap.Any("payload", event.Payload))
	return nil
}
