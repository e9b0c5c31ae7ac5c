package events

import (
	"time"

	"github.com/bamiogunfemi/amy-sub000/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered         EventType = "user_registered"
	EventPasswordResetRequested EventType = "password_reset_requested"
	EventPasswordChanged        EventType = "password_changed"
	EventAccountBlocked         EventType = "account_blocked"
	EventAccountDeleted         EventType = "account_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	Role      domain.Role `json:"role"`
	CompanyID *string     `json:"company_id,omitempty"`
}

// PasswordResetRequestedPayload payload.
type PasswordResetRequestedPayload struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// AccountModeratedPayload payload for block/delete events.
type AccountModeratedPayload struct {
	ActorID string `json:"actor_id"`
	Notes   string `json:"notes,omitempty"`
}
