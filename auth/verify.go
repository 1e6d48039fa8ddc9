package auth

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

// MsgEmailVerified is returned once per issued verification token.
const MsgEmailVerified = "email verified successfully"

type VerifyEmailMessage struct {
	UserID int64  `json:"user_id"`
	Token  string `json:"token"`
}

func (e VerifyEmailMessage) Type() string { return "user.verify_email" }

type VerifyEmailResult struct {
	Message string `json:"message"`
}

type VerifyEmailHandler struct {
	repo   Users
	logger Logger
}

func NewVerifyEmailHandler(repo Users, logger Logger) *VerifyEmailHandler {
	if logger == nil {
		logger = defLogger{}
	}
	return &VerifyEmailHandler{repo: repo, logger: logger}
}

func (h *VerifyEmailHandler) Execute(ctx context.Context, event VerifyEmailMessage) (*VerifyEmailResult, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during email verification",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *VerifyEmailHandler) execute(ctx context.Context, event VerifyEmailMessage) (*VerifyEmailResult, error) {
	ctx, cancel := context.WithTimeout(ctx, flowTimeout)
	defer cancel()

	user, err := h.repo.GetByID(ctx, event.UserID)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up user")
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if user.VerificationToken == "" {
		return nil, ErrNoTokenOutstanding
	}
	if user.VerificationToken != event.Token {
		return nil, ErrInvalidVerificationToken
	}

	n, err := h.repo.ConsumeVerificationToken(ctx, event.UserID, event.Token)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to consume verification token")
	}
	// Zero rows means a concurrent request consumed the token between our
	// read and the conditional update; the single-use contract holds.
	if n == 0 {
		return nil, ErrNoTokenOutstanding
	}

	return &VerifyEmailResult{Message: MsgEmailVerified}, nil
}
