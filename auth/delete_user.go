package auth

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

const MsgUserDeleted = "user deleted successfully"

type DeleteUserMessage struct {
	UserID int64 `json:"user_id"`
}

func (e DeleteUserMessage) Type() string { return "user.delete" }

type DeleteUserResult struct {
	Message string `json:"message"`
}

// DeleteUserHandler removes a regular account. Admin accounts are protected:
// no admin may be deleted through this flow, their own account included.
type DeleteUserHandler struct {
	repo   Users
	logger Logger
}

func NewDeleteUserHandler(repo Users, logger Logger) *DeleteUserHandler {
	if logger == nil {
		logger = defLogger{}
	}
	return &DeleteUserHandler{repo: repo, logger: logger}
}

func (h *DeleteUserHandler) Execute(ctx context.Context, event DeleteUserMessage) (*DeleteUserResult, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user deletion",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *DeleteUserHandler) execute(ctx context.Context, event DeleteUserMessage) (*DeleteUserResult, error) {
	ctx, cancel := context.WithTimeout(ctx, flowTimeout)
	defer cancel()

	user, err := h.repo.GetByID(ctx, event.UserID)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up user")
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if user.Role == RoleAdmin {
		return nil, ErrAdminProtected
	}

	if err := h.repo.Delete(ctx, user); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete user")
	}

	h.logger.Info("user deleted", "user_id", user.ID, "email", user.Email)

	return &DeleteUserResult{Message: MsgUserDeleted}, nil
}
