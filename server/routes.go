package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mataure/storefront/auth"
	"github.com/mataure/storefront/middleware/authware"
)

func registerRoutes(app *fiber.App, deps Deps) {
	users := newUsersController(deps)
	products := newProductsController(deps)
	reviews := newReviewsController(deps)

	protected := authware.New(authware.Config{
		TokenValidator: deps.Tokens,
		Logger:         deps.Logger,
	})
	adminOnly := authware.RequireRoles(authware.DefaultContextKey, auth.RoleAdmin)

	api := app.Group("/api/v1")

	u := api.Group("/users")
	u.Post("/register", users.Register)
	u.Post("/login", users.Login)
	u.Get("/verify-email/:userId/:token", users.VerifyEmail)
	u.Post("/forgot-password", users.ForgotPassword)
	u.Get("/reset-password/:userId/:token", users.CheckResetLink)
	u.Post("/reset-password", users.CompleteReset)
	u.Get("/profile", protected, users.Profile)
	u.Get("/", protected, adminOnly, users.List)
	u.Delete("/:id", protected, adminOnly, users.Delete)

	p := api.Group("/products")
	p.Get("/", products.List)
	p.Get("/:id", products.GetByID)
	p.Post("/", protected, products.Create)
	p.Put("/:id", protected, adminOnly, products.Update)
	p.Delete("/:id", protected, adminOnly, products.Delete)

	r := api.Group("/reviews")
	r.Get("/", reviews.List)
	r.Post("/", protected, reviews.Create)
	r.Delete("/:id", protected, adminOnly, reviews.Delete)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}
