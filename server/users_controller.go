package server

import (
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/nyaruka/phonenumbers"

	"github.com/mataure/storefront/auth"
	"github.com/mataure/storefront/middleware/authware"
)

var errInvalidIDParam = goerrors.New("invalid id parameter", goerrors.CategoryBadInput).
	WithCode(goerrors.CodeBadRequest)

var errInvalidQueryParam = goerrors.New("invalid query parameter", goerrors.CategoryBadInput).
	WithCode(goerrors.CodeBadRequest)

type usersController struct {
	repo     auth.Users
	register *auth.RegisterUserHandler
	login    *auth.LoginHandler
	verify   *auth.VerifyEmailHandler
	reset    *auth.PasswordResetHandler
	delete   *auth.DeleteUserHandler
	logger   auth.Logger
}

func newUsersController(deps Deps) *usersController {
	return &usersController{
		repo:     deps.Users,
		register: auth.NewRegisterUserHandler(deps.Users, deps.Mailer, deps.Links, deps.Logger),
		login:    auth.NewLoginHandler(deps.Users, deps.Tokens, deps.Mailer, deps.Links, deps.Logger),
		verify:   auth.NewVerifyEmailHandler(deps.Users, deps.Logger),
		reset:    auth.NewPasswordResetHandler(deps.Users, deps.Mailer, deps.Links, deps.Logger),
		delete:   auth.NewDeleteUserHandler(deps.Users, deps.Logger),
		logger:   deps.Logger,
	}
}

// RegisterPayload is the registration request body.
type RegisterPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func (r RegisterPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Length(0, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Phone, validation.By(validPhoneNumber)),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 100)),
	)
}

// LoginPayload is the login request body.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// ForgotPasswordPayload starts a password reset.
type ForgotPasswordPayload struct {
	Email string `json:"email"`
}

func (r ForgotPasswordPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

// ResetPasswordPayload completes a password reset.
type ResetPasswordPayload struct {
	UserID      int64  `json:"userId"`
	NewPassword string `json:"newPassword"`
	Token       string `json:"resetPasswordToken"`
}

func (r ResetPasswordPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserID, validation.Required),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(6, 100)),
		validation.Field(&r.Token, validation.Required),
	)
}

func (uc *usersController) Register(c *fiber.Ctx) error {
	payload := new(RegisterPayload)
	if err := parseAndValidate(c, payload); err != nil {
		return err
	}

	result, err := uc.register.Execute(c.UserContext(), auth.RegisterUserMessage{
		Username: payload.Username,
		Email:    payload.Email,
		Phone:    payload.Phone,
		Password: payload.Password,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

func (uc *usersController) Login(c *fiber.Ctx) error {
	payload := new(LoginPayload)
	if err := parseAndValidate(c, payload); err != nil {
		return err
	}

	result, err := uc.login.Execute(c.UserContext(), auth.LoginMessage{
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(result)
}

func (uc *usersController) VerifyEmail(c *fiber.Ctx) error {
	userID, err := idParam(c, "userId")
	if err != nil {
		return err
	}

	result, err := uc.verify.Execute(c.UserContext(), auth.VerifyEmailMessage{
		UserID: userID,
		Token:  c.Params("token"),
	})
	if err != nil {
		return err
	}

	return c.JSON(result)
}

func (uc *usersController) ForgotPassword(c *fiber.Ctx) error {
	payload := new(ForgotPasswordPayload)
	if err := parseAndValidate(c, payload); err != nil {
		return err
	}

	result, err := uc.reset.Initialize(c.UserContext(), auth.InitializePasswordResetMessage{
		Email: payload.Email,
	})
	if err != nil {
		return err
	}

	return c.JSON(result)
}

func (uc *usersController) CheckResetLink(c *fiber.Ctx) error {
	userID, err := idParam(c, "userId")
	if err != nil {
		return err
	}

	result, err := uc.reset.Check(c.UserContext(), auth.CheckResetLinkMessage{
		UserID: userID,
		Token:  c.Params("token"),
	})
	if err != nil {
		return err
	}

	return c.JSON(result)
}

func (uc *usersController) CompleteReset(c *fiber.Ctx) error {
	payload := new(ResetPasswordPayload)
	if err := parseAndValidate(c, payload); err != nil {
		return err
	}

	result, err := uc.reset.Finalize(c.UserContext(), auth.FinalizePasswordResetMessage{
		UserID:      payload.UserID,
		Token:       payload.Token,
		NewPassword: payload.NewPassword,
	})
	if err != nil {
		return err
	}

	return c.JSON(result)
}

func (uc *usersController) Profile(c *fiber.Ctx) error {
	claims, ok := authware.ClaimsFromCtx(c, authware.DefaultContextKey)
	if !ok {
		return auth.ErrMissingBearer
	}

	user, err := uc.repo.GetByID(c.UserContext(), claims.UserID())
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load profile")
	}
	if user == nil {
		return auth.ErrUserNotFound
	}

	return c.JSON(fiber.Map{"message": "user profile", "data": user})
}

func (uc *usersController) List(c *fiber.Ctx) error {
	users, err := uc.repo.List(c.UserContext())
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to list users")
	}
	return c.JSON(users)
}

func (uc *usersController) Delete(c *fiber.Ctx) error {
	userID, err := idParam(c, "id")
	if err != nil {
		return err
	}

	result, err := uc.delete.Execute(c.UserContext(), auth.DeleteUserMessage{UserID: userID})
	if err != nil {
		return err
	}

	return c.JSON(result)
}

type validator interface {
	Validate() error
}

// parseAndValidate binds the JSON body and runs the payload's own rules.
// Failures surface as 400s before any flow runs.
func parseAndValidate(c *fiber.Ctx, payload validator) error {
	if err := c.BodyParser(payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse request body").
			WithCode(goerrors.CodeBadRequest)
	}

	if err := payload.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid payload").
			WithCode(goerrors.CodeBadRequest)
	}

	return nil
}

func idParam(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id < 1 {
		return 0, errInvalidIDParam
	}
	return id, nil
}

func validPhoneNumber(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}

	num, err := phonenumbers.Parse(s, "US")
	if err != nil {
		return err
	}
	if !phonenumbers.IsValidNumber(num) {
		return goerrors.New("invalid phone number", goerrors.CategoryValidation)
	}
	return nil
}
