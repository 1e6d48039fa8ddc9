package auth

import (
	"context"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

const flowTimeout = time.Second * 10

// MsgVerificationSent is returned by registration; the result deliberately
// carries no bearer token, verification comes first.
const MsgVerificationSent = "verification link has been sent to your email"

type RegisterUserMessage struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func (e RegisterUserMessage) Type() string { return "user.register" }

type RegisterUserResult struct {
	Message string `json:"message"`
	User    *User  `json:"-"`
}

type RegisterUserHandler struct {
	repo   Users
	mailer Mailer
	links  LinkBuilder
	logger Logger
}

func NewRegisterUserHandler(repo Users, mailer Mailer, links LinkBuilder, logger Logger) *RegisterUserHandler {
	if logger == nil {
		logger = defLogger{}
	}
	return &RegisterUserHandler{repo: repo, mailer: mailer, links: links, logger: logger}
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) (*RegisterUserResult, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) (*RegisterUserResult, error) {
	ctx, cancel := context.WithTimeout(ctx, flowTimeout)
	defer cancel()

	existing, err := h.repo.GetByEmail(ctx, event.Email)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up email")
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	hash, err := HashPassword(event.Password)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	token, err := GenerateSecureToken()
	if err != nil {
		return nil, err
	}

	user := &User{
		Username:          getUsername(event.Username, event.Email),
		Email:             strings.TrimSpace(event.Email),
		Phone:             event.Phone,
		PasswordHash:      hash,
		Role:              RoleUser,
		VerificationToken: token,
	}

	// The unique index backstops a raced duplicate registration.
	if user, err = h.repo.Create(ctx, user); err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryConflict, "could not create user")
	}

	link := h.links.Verification(user.ID, token)
	if err := h.mailer.SendVerification(ctx, user.Email, link); err != nil {
		h.logger.Error("register verification email failed", "email", user.Email, "error", err)
	}

	return &RegisterUserResult{Message: MsgVerificationSent, User: user}, nil
}

func getUsername(username, email string) string {
	if username != "" {
		return username
	}

	if strings.Contains(email, "@") {
		username = strings.Split(email, "@")[0]
	}

	return username
}
