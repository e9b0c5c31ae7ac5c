package dto

// ResetRequestRequest payload for requesting a reset token.
type ResetRequestRequest struct {
	Email string `json:"email"`
}

// ResetVerifyRequest payload for checking a reset token.
type ResetVerifyRequest struct {
	Token string `json:"token"`
}

// ResetConfirmRequest payload for consuming a reset token.
type ResetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// ChangePasswordRequest payload for the authenticated change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// RestrictRequest payload for a timed block.
type RestrictRequest struct {
	Until string `json:"until"`
	Notes string `json:"notes"`
}

// ModerationRequest payload for block actions.
type ModerationRequest struct {
	Notes string `json:"notes"`
}
