package auth

import (
	"time"

	"github.com/uptrace/bun"
)

// UserRole is the user's role
type UserRole = string

const (
	// RoleUser is the default role assigned at registration
	RoleUser UserRole = "user"
	// RoleAdmin grants access to the administrative routes
	RoleAdmin UserRole = "admin"
)

// IsValidRole checks if the role is one of the predefined valid roles
func IsValidRole(role UserRole) bool {
	switch role {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// User is the account record owned by the Users repository.
// The password hash and both opaque tokens never serialize outward.
type User struct {
	bun.BaseModel      `bun:"table:users,alias:usr"`
	ID                 int64     `bun:"id,pk,autoincrement" json:"id"`
	Username           string    `bun:"username,notnull" json:"username"`
	Email              string    `bun:"email,notnull,unique" json:"email"`
	Phone              string    `bun:"phone,nullzero" json:"phone,omitempty"`
	PasswordHash       string    `bun:"password_hash,notnull" json:"-"`
	IsVerified         bool      `bun:"is_verified" json:"is_verified"`
	VerificationToken  string    `bun:"verification_token,nullzero" json:"-"`
	ResetPasswordToken string    `bun:"reset_password_token,nullzero" json:"-"`
	Role               UserRole  `bun:"user_role,notnull" json:"role"`
	CreatedAt          time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt          time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// EnsureDefaults fills role defaults before the record is persisted.
func (u *User) EnsureDefaults() {
	if u == nil {
		return
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
}
