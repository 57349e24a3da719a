package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/restaurant-service/internal/api/http/handlers"
	"github.com/spec-kit/restaurant-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Restaurants    *handlers.RestaurantsHandler
	Menu           *handlers.MenuHandler
	Orders         *handlers.OrdersHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/refresh", cfg.Auth.Refresh)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)
	authGroup.Post("/register", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Auth.Register)

	api := app.Group("/api")

	// Public storefront routes, tenant-scoped by path slug.
	restaurants := api.Group("/restaurants")
	restaurants.Get("/:slug", cfg.Restaurants.Get)
	restaurants.Get("/:slug/categories", cfg.Menu.ListCategories)
	restaurants.Get("/:slug/products", cfg.Menu.ListProducts)
	restaurants.Get("/:slug/products/:id", cfg.Menu.GetProduct)
	restaurants.Post("/:slug/orders", cfg.Orders.Create)

	// Admin routes, tenant-scoped by the authenticated token.
	admin := api.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	admin.Patch("/users/:username", cfg.Auth.UpdateUser)

	admin.Post("/restaurants", cfg.Restaurants.Create)
	admin.Put("/restaurant", cfg.Restaurants.Update)

	admin.Post("/categories", cfg.Menu.CreateCategory)
	admin.Put("/categories/:id", cfg.Menu.UpdateCategory)
	admin.Delete("/categories/:id", cfg.Menu.DeleteCategory)

	admin.Get("/products", cfg.Menu.AdminListProducts)
	admin.Post("/products", cfg.Menu.CreateProduct)
	admin.Put("/products/:id", cfg.Menu.UpdateProduct)
	admin.Delete("/products/:id", cfg.Menu.DeleteProduct)

	admin.Get("/orders", cfg.Orders.List)
	admin.Get("/orders/:id", cfg.Orders.Get)
	admin.Patch("/orders/:id/status", cfg.Orders.UpdateStatus)
}
