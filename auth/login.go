package auth

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

const (
	// MsgVerificationPending is the non-error login result for unverified
	// accounts; no bearer token accompanies it.
	MsgVerificationPending = "verification pending"
	// MsgLoginSuccess accompanies a freshly issued bearer token.
	MsgLoginSuccess = "user logged in successfully"
)

type LoginMessage struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (e LoginMessage) Type() string { return "user.login" }

type LoginResult struct {
	Message string `json:"message"`
	Token   string `json:"data,omitempty"`
}

type LoginHandler struct {
	repo   Users
	tokens TokenService
	mailer Mailer
	links  LinkBuilder
	logger Logger
}

func NewLoginHandler(repo Users, tokens TokenService, mailer Mailer, links LinkBuilder, logger Logger) *LoginHandler {
	if logger == nil {
		logger = defLogger{}
	}
	return &LoginHandler{repo: repo, tokens: tokens, mailer: mailer, links: links, logger: logger}
}

func (h *LoginHandler) Execute(ctx context.Context, event LoginMessage) (*LoginResult, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during login",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *LoginHandler) execute(ctx context.Context, event LoginMessage) (*LoginResult, error) {
	ctx, cancel := context.WithTimeout(ctx, flowTimeout)
	defer cancel()

	user, err := h.repo.GetByEmail(ctx, event.Email)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up email")
	}
	// Unknown email and wrong password report the same failure so callers
	// cannot enumerate accounts.
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := ComparePasswordAndHash(event.Password, user.PasswordHash); err != nil {
		if goerrors.Is(err, ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to verify password")
	}

	if !user.IsVerified {
		token, err := h.outstandingVerificationToken(ctx, user)
		if err != nil {
			return nil, err
		}

		link := h.links.Verification(user.ID, token)
		if err := h.mailer.SendVerification(ctx, user.Email, link); err != nil {
			h.logger.Error("login verification email failed", "email", user.Email, "error", err)
		}

		return &LoginResult{Message: MsgVerificationPending}, nil
	}

	token, err := h.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Message: MsgLoginSuccess, Token: token}, nil
}

// outstandingVerificationToken returns the current verification token,
// lazily issuing one the first time an unverified account logs in. Repeated
// attempts reuse the outstanding token, they never rotate it.
func (h *LoginHandler) outstandingVerificationToken(ctx context.Context, user *User) (string, error) {
	if user.VerificationToken != "" {
		return user.VerificationToken, nil
	}

	token, err := GenerateSecureToken()
	if err != nil {
		return "", err
	}

	n, err := h.repo.StoreVerificationToken(ctx, user.ID, token)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to store verification token")
	}
	if n > 0 {
		return token, nil
	}

	// A concurrent attempt stored one first; reuse theirs.
	current, err := h.repo.GetByID(ctx, user.ID)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to reload user")
	}
	if current == nil || current.VerificationToken == "" {
		return "", goerrors.New("verification token unavailable", goerrors.CategoryInternal)
	}
	return current.VerificationToken, nil
}
