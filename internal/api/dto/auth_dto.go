package dto

import (
	"time"

	"github.com/bamiogunfemi/amy-sub000/internal/domain"
)

// SignupRequest payload for new accounts. Company fields are optional.
type SignupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	CompanyName string `json:"company_name"`
	CompanySlug string `json:"company_slug"`
}

// LoginRequest payload for local credential login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GoogleLoginRequest payload for external identity login.
type GoogleLoginRequest struct {
	IDToken string `json:"id_token"`
}

// RefreshRequest payload for token rotation.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse is the standard shape for login, signup and refresh.
type AuthResponse struct {
	User            *domain.AuthUser `json:"user"`
	AccessToken     string           `json:"access_token"`
	AccessExpiresAt time.Time        `json:"access_expires_at"`
	RefreshToken    string           `json:"refresh_token"`
}
