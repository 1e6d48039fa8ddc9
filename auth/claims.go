package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims is the identity attached to a request after bearer-token
// validation.
type AuthClaims interface {
	Subject() string
	UserID() int64
	Role() UserRole
	HasRole(role UserRole) bool
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete implementation of AuthClaims. The token payload
// is exactly the account id and role, plus the registered claims managed by
// the token service.
type JWTClaims struct {
	jwt.RegisteredClaims
	UID      int64    `json:"id"`
	UserRole UserRole `json:"role"`
}

var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the account id carried by the token
func (c *JWTClaims) UserID() int64 {
	return c.UID
}

// Role returns the account role carried by the token
func (c *JWTClaims) Role() UserRole {
	return c.UserRole
}

// HasRole checks if the identity holds the given role
func (c *JWTClaims) HasRole(role UserRole) bool {
	return c.UserRole == role
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
