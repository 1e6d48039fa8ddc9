// Package authware guards fiber routes with stateless bearer tokens. New
// validates the Authorization header and attaches the resulting claims to the
// request; RequireRoles layers role checks on top.
package authware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mataure/storefront/auth"
)

const (
	// DefaultContextKey is where validated claims land in c.Locals.
	DefaultContextKey = "user"
	// DefaultAuthScheme prefixes the raw token in the Authorization header.
	DefaultAuthScheme = "Bearer"
)

type Config struct {
	// TokenValidator is required.
	TokenValidator auth.TokenValidator
	// Filter skips the middleware for matching requests.
	Filter func(*fiber.Ctx) bool
	// ContextKey defaults to DefaultContextKey.
	ContextKey string
	// AuthScheme defaults to DefaultAuthScheme.
	AuthScheme string
	Logger     auth.Logger
}

func configDefault(config ...Config) Config {
	var cfg Config
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.TokenValidator == nil {
		panic("AUTH: middleware configuration: TokenValidator is required.")
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = DefaultContextKey
	}
	if cfg.AuthScheme == "" {
		cfg.AuthScheme = DefaultAuthScheme
	}

	return cfg
}

// New returns the token validation middleware. Requests without a valid
// bearer token never reach the handler; the error handler shapes the
// response.
func New(config ...Config) fiber.Handler {
	cfg := configDefault(config...)

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		raw, err := tokenFromHeader(c.Get(fiber.HeaderAuthorization), cfg.AuthScheme)
		if err != nil {
			return err
		}

		claims, err := cfg.TokenValidator.Validate(raw)
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Debug("bearer token rejected", "path", c.Path(), "error", err)
			}
			return err
		}

		c.Locals(cfg.ContextKey, claims)
		c.SetUserContext(auth.WithClaims(c.UserContext(), claims))

		return c.Next()
	}
}

// RequireRoles returns a middleware that admits only identities holding one
// of the given roles. An empty role list admits nobody: the guard fails
// closed rather than open.
func RequireRoles(contextKey string, roles ...auth.UserRole) fiber.Handler {
	if contextKey == "" {
		contextKey = DefaultContextKey
	}

	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromCtx(c, contextKey)
		if !ok {
			return auth.ErrMissingBearer
		}

		for _, role := range roles {
			if claims.HasRole(role) {
				return c.Next()
			}
		}

		return auth.ErrForbidden
	}
}

// ClaimsFromCtx recovers the claims stored by New.
func ClaimsFromCtx(c *fiber.Ctx, contextKey string) (auth.AuthClaims, bool) {
	claims, ok := c.Locals(contextKey).(auth.AuthClaims)
	return claims, ok
}

// tokenFromHeader strips the auth scheme off the Authorization header value.
func tokenFromHeader(header, authScheme string) (string, error) {
	authScheme = strings.TrimSpace(authScheme)
	l := len(authScheme)
	if l == 0 {
		return "", auth.ErrMissingBearer
	}
	if len(header) > l+1 && strings.EqualFold(header[:l], authScheme) {
		token := strings.TrimSpace(header[l:])
		if token != "" {
			return token, nil
		}
	}
	return "", auth.ErrMissingBearer
}
