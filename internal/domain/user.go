package domain

import "time"

// Role enumerates account roles.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleRecruiter Role = "RECRUITER"
)

// Valid reports whether the role is a known value.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleRecruiter
}

// AccountStatus is the derived lifecycle state of an account.
type AccountStatus string

const (
	AccountStatusActive  AccountStatus = "ACTIVE"
	AccountStatusBlocked AccountStatus = "BLOCKED"
	AccountStatusDeleted AccountStatus = "DELETED"
)

// User is the identity record. PasswordHash is nil for accounts created
// through an external identity provider only. Users are never hard-deleted;
// DeletedAt marks a soft delete.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash *string
	Role         Role
	CompanyID    *string
	DeletedAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserStatus holds moderation state, 1:1 with User. The row is created
// lazily; absence means the account is fully active.
type UserStatus struct {
	UserID          string
	IsBlocked       bool
	IsDeleted       bool
	RestrictedUntil *time.Time
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AuthUser is the canonical projection of User+UserStatus+Company consumed by
// every authenticated path. No other code derives status independently.
type AuthUser struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	Name      string          `json:"name"`
	Role      Role            `json:"role"`
	CompanyID *string         `json:"company_id,omitempty"`
	Company   *CompanySummary `json:"company,omitempty"`
	Status    AccountStatus   `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// DeriveStatus computes the canonical account status from the user row and
// its optional status row. A restriction window still in the future counts
// as blocked.
func DeriveStatus(user *User, status *UserStatus) AccountStatus {
	if user.DeletedAt != nil {
		return AccountStatusDeleted
	}
	if status == nil {
		return AccountStatusActive
	}
	switch {
	case status.IsDeleted:
		return AccountStatusDeleted
	case status.IsBlocked:
		return AccountStatusBlocked
	case status.RestrictedUntil != nil && status.RestrictedUntil.After(time.Now()):
		return AccountStatusBlocked
	default:
		return AccountStatusActive
	}
}

// ProjectAuthUser builds the AuthUser view. company may be nil for solo users.
func ProjectAuthUser(user *User, status *UserStatus, company *Company) *AuthUser {
	view := &AuthUser{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		CompanyID: user.CompanyID,
		Status:    DeriveStatus(user, status),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
	if company != nil {
		view.Company = company.Summary()
	}
	return view
}
