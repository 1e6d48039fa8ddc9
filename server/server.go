// Package server wires the HTTP surface: the fiber app, the error handler
// that shapes rich errors into JSON responses, and the route table.
package server

import (
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"

	"github.com/mataure/storefront/auth"
	"github.com/mataure/storefront/catalog"
)

// Deps carries everything the HTTP layer needs. All fields are required
// unless noted.
type Deps struct {
	Users    auth.Users
	Products catalog.Products
	Reviews  catalog.Reviews
	Tokens   auth.TokenService
	Mailer   auth.Mailer
	Links    auth.LinkBuilder
	Logger   auth.Logger
	// Debug dumps error payloads to the log.
	Debug bool
}

type Server struct {
	app    *fiber.App
	logger auth.Logger
}

func New(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = noopLogger{}
	}

	s := &Server{logger: deps.Logger}

	s.app = fiber.New(fiber.Config{
		AppName:      "storefront",
		ErrorHandler: s.errorHandler(deps.Debug),
	})

	registerRoutes(s.app, deps)

	return s
}

// App exposes the underlying fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// errorHandler maps rich errors onto their HTTP status and a stable JSON
// shape: {"message": ..., "code": ...}.
func (s *Server) errorHandler(debug bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			status := richErr.Code
			if status < fiber.StatusBadRequest {
				status = fiber.StatusInternalServerError
			}

			if debug {
				s.logger.Debug("request failed", "payload", print.MaybePrettyJSON(richErr))
			}
			if status >= fiber.StatusInternalServerError {
				s.logger.Error("request failed",
					"path", c.Path(),
					"status", status,
					"error", richErr,
				)
			}

			body := fiber.Map{"message": richErr.Message}
			if richErr.TextCode != "" {
				body["code"] = richErr.TextCode
			}
			return c.Status(status).JSON(body)
		}

		var fiberErr *fiber.Error
		if goerrors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{"message": fiberErr.Message})
		}

		s.logger.Error("unhandled error", "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "internal server error",
		})
	}
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
