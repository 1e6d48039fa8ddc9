package auth

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

const (
	// MsgResetLinkSent confirms a reset token was issued and mailed.
	MsgResetLinkSent = "reset password link has been sent to your email"
	// MsgValidResetLink confirms a reset link without consuming it.
	MsgValidResetLink = "valid link"
	// MsgPasswordReset confirms the reset token was consumed.
	MsgPasswordReset = "password reset successfully, please log in"
)

type InitializePasswordResetMessage struct {
	Email string `json:"email"`
}

func (e InitializePasswordResetMessage) Type() string { return "user.password_reset_initialize" }

type CheckResetLinkMessage struct {
	UserID int64  `json:"user_id"`
	Token  string `json:"token"`
}

func (e CheckResetLinkMessage) Type() string { return "user.password_reset_check" }

type FinalizePasswordResetMessage struct {
	UserID      int64  `json:"user_id"`
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func (e FinalizePasswordResetMessage) Type() string { return "user.password_reset_finalize" }

type PasswordResetResult struct {
	Message string `json:"message"`
}

// PasswordResetHandler owns the three reset operations: initialize issues a
// single-use token (never overwriting a pending one), check validates a link
// without mutating anything, finalize consumes the token and swaps the hash.
type PasswordResetHandler struct {
	repo   Users
	mailer Mailer
	links  LinkBuilder
	logger Logger
}

func NewPasswordResetHandler(repo Users, mailer Mailer, links LinkBuilder, logger Logger) *PasswordResetHandler {
	if logger == nil {
		logger = defLogger{}
	}
	return &PasswordResetHandler{repo: repo, mailer: mailer, links: links, logger: logger}
}

func (h *PasswordResetHandler) Initialize(ctx context.Context, event InitializePasswordResetMessage) (*PasswordResetResult, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset initialization",
		)
	default:
		return h.initialize(ctx, event)
	}
}

func (h *PasswordResetHandler) initialize(ctx context.Context, event InitializePasswordResetMessage) (*PasswordResetResult, error) {
	ctx, cancel := context.WithTimeout(ctx, flowTimeout)
	defer cancel()

	user, err := h.repo.GetByEmail(ctx, event.Email)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up email")
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if user.ResetPasswordToken != "" {
		return nil, ErrResetAlreadyPending
	}

	token, err := GenerateSecureToken()
	if err != nil {
		return nil, err
	}

	n, err := h.repo.StoreResetToken(ctx, user.ID, token)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to store reset token")
	}
	// The conditional store refuses to overwrite a token raced in by a
	// concurrent request.
	if n == 0 {
		return nil, ErrResetAlreadyPending
	}

	link := h.links.PasswordReset(user.ID, token)
	if err := h.mailer.SendPasswordReset(ctx, user.Email, link); err != nil {
		h.logger.Error("password reset email failed", "email", user.Email, "error", err)
	}

	return &PasswordResetResult{Message: MsgResetLinkSent}, nil
}

// Check validates a reset link. It is pure: no state changes, so a client
// can confirm a link before rendering the reset form.
func (h *PasswordResetHandler) Check(ctx context.Context, event CheckResetLinkMessage) (*PasswordResetResult, error) {
	ctx, cancel := context.WithTimeout(ctx, flowTimeout)
	defer cancel()

	if _, err := h.outstandingResetUser(ctx, event.UserID, event.Token); err != nil {
		return nil, err
	}

	return &PasswordResetResult{Message: MsgValidResetLink}, nil
}

func (h *PasswordResetHandler) Finalize(ctx context.Context, event FinalizePasswordResetMessage) (*PasswordResetResult, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset finalization",
		)
	default:
		return h.finalize(ctx, event)
	}
}

func (h *PasswordResetHandler) finalize(ctx context.Context, event FinalizePasswordResetMessage) (*PasswordResetResult, error) {
	ctx, cancel := context.WithTimeout(ctx, flowTimeout)
	defer cancel()

	user, err := h.outstandingResetUser(ctx, event.UserID, event.Token)
	if err != nil {
		return nil, err
	}

	hash, err := HashPassword(event.NewPassword)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	n, err := h.repo.ConsumeResetToken(ctx, user.ID, event.Token, hash)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to consume reset token")
	}
	if n == 0 {
		return nil, ErrInvalidResetLink
	}

	return &PasswordResetResult{Message: MsgPasswordReset}, nil
}

func (h *PasswordResetHandler) outstandingResetUser(ctx context.Context, userID int64, token string) (*User, error) {
	user, err := h.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up user")
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if user.ResetPasswordToken == "" || user.ResetPasswordToken != token {
		return nil, ErrInvalidResetLink
	}

	return user, nil
}
