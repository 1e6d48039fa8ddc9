package auth

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// TokenService signs and validates stateless bearer tokens.
type TokenService interface {
	Generate(userID int64, role UserRole) (string, error)
	SignClaims(claims *JWTClaims) (string, error)
	Validate(token string) (AuthClaims, error)
}

// TokenValidator is the verification-only slice of TokenService, consumed by
// the request middleware.
type TokenValidator interface {
	Validate(token string) (AuthClaims, error)
}

// Mailer delivers account notifications. Implementations return an error, but
// callers treat every send as best-effort: failures are logged, never
// propagated, and never change a flow's result.
type Mailer interface {
	SendVerification(ctx context.Context, email, link string) error
	SendPasswordReset(ctx context.Context, email, link string) error
}

// LinkBuilder renders the links embedded in account emails.
type LinkBuilder struct {
	// BaseURL is the externally reachable origin, e.g. http://localhost:3000
	BaseURL string
}

// Verification returns the API link that consumes a verification token.
func (b LinkBuilder) Verification(userID int64, token string) string {
	return fmt.Sprintf("%s/api/v1/users/verify-email/%d/%s", b.BaseURL, userID, token)
}

// PasswordReset returns the client-side link that opens the reset form.
func (b LinkBuilder) PasswordReset(userID int64, token string) string {
	return fmt.Sprintf("%s/reset-password/%d/%s", b.BaseURL, userID, token)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
