package auth

import "github.com/goliatone/go-errors"

const (
	TextCodeDuplicateEmail     = "auth_duplicate_email"
	TextCodeInvalidCredentials = "auth_invalid_credentials"
	TextCodeUserNotFound       = "auth_user_not_found"
	TextCodeNoTokenOutstanding = "auth_no_token_outstanding"
	TextCodeInvalidVerifyToken = "auth_invalid_verification_token"
	TextCodeInvalidResetLink   = "auth_invalid_reset_link"
	TextCodeResetPending       = "auth_reset_already_pending"
	TextCodeTokenExpired       = "auth_token_expired"
	TextCodeTokenMalformed     = "auth_token_malformed"
	TextCodeMissingBearer      = "auth_missing_bearer"
	TextCodeRoleForbidden      = "auth_role_forbidden"
	TextCodeAdminProtected     = "auth_admin_protected"
	TextCodeEmptyPassword      = "auth_empty_password"
)

// ErrDuplicateEmail is returned when registering an email that already has an account.
var ErrDuplicateEmail = errors.New("user already exists", errors.CategoryConflict).
	WithTextCode(TextCodeDuplicateEmail).
	WithCode(errors.CodeBadRequest)

// ErrInvalidCredentials covers both unknown email and wrong password so a
// caller cannot enumerate accounts.
var ErrInvalidCredentials = errors.New("email or password is incorrect", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeBadRequest)

// ErrUserNotFound is returned when an account lookup by id or email finds nothing.
var ErrUserNotFound = errors.New("user not found", errors.CategoryNotFound).
	WithTextCode(TextCodeUserNotFound).
	WithCode(errors.CodeNotFound)

// ErrNoTokenOutstanding is returned when no verification is pending, including
// the second consume of an already used token.
var ErrNoTokenOutstanding = errors.New("no verification outstanding", errors.CategoryBadInput).
	WithTextCode(TextCodeNoTokenOutstanding).
	WithCode(errors.CodeBadRequest)

// ErrInvalidVerificationToken is returned on a verification token mismatch.
var ErrInvalidVerificationToken = errors.New("invalid verification token", errors.CategoryBadInput).
	WithTextCode(TextCodeInvalidVerifyToken).
	WithCode(errors.CodeBadRequest)

// ErrInvalidResetLink is returned when a reset link does not match the
// outstanding token, or none is outstanding.
var ErrInvalidResetLink = errors.New("invalid or expired reset link", errors.CategoryBadInput).
	WithTextCode(TextCodeInvalidResetLink).
	WithCode(errors.CodeBadRequest)

// ErrResetAlreadyPending is returned when a reset is requested while another
// reset token is still outstanding; the pending token is never overwritten.
var ErrResetAlreadyPending = errors.New("a password reset is already pending", errors.CategoryConflict).
	WithTextCode(TextCodeResetPending).
	WithCode(errors.CodeBadRequest)

// ErrTokenExpired is returned by the token service for expired bearer tokens.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned by the token service for forged or malformed tokens.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrMissingBearer is returned when a protected route gets no usable
// Authorization header.
var ErrMissingBearer = errors.New("access denied, no token provided", errors.CategoryAuth).
	WithTextCode(TextCodeMissingBearer).
	WithCode(errors.CodeUnauthorized)

// ErrForbidden is returned when the identity's role is not in the route's
// allowed set.
var ErrForbidden = errors.New("insufficient role for this resource", errors.CategoryAuthz).
	WithTextCode(TextCodeRoleForbidden).
	WithCode(errors.CodeForbidden)

// ErrAdminProtected guards admin accounts against the delete operation.
var ErrAdminProtected = errors.New("admin accounts cannot be deleted", errors.CategoryConflict).
	WithTextCode(TextCodeAdminProtected).
	WithCode(errors.CodeConflict)

// ErrEmptyPassword is returned when hashing an empty or whitespace-only password.
var ErrEmptyPassword = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(errors.CodeBadRequest)

// ErrMismatchedHashAndPassword is the normalized bcrypt mismatch error.
var ErrMismatchedHashAndPassword = errors.New("hashed password does not match", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)
