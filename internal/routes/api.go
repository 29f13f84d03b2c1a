package routes

import (
	"github.com/airyshop/storefront/internal/handler"
	"github.com/airyshop/storefront/internal/middleware"
	"github.com/airyshop/storefront/internal/router"
)

// RegisterAPIRoutes registers all storefront API routes.
//
// Catalog routes are public. Cart, checkout, order and personal
// activity routes require an authenticated user. The admin activity
// feed additionally requires the admin role.
func RegisterAPIRoutes(r *router.Router, deps APIDeps) {
	// Operational endpoints
	r.Get("/health", handler.Health)
	if deps.MetricsHandler != nil {
		r.Handle("GET", "/metrics", deps.MetricsHandler)
	}

	// Public catalog
	r.Get("/api/products", deps.ProductHandler.List)
	r.Get("/api/products/{id}", deps.ProductHandler.Get)

	// Authenticated storefront routes
	authed := r.Group(middleware.WithUser(deps.Identities), middleware.RequireUser)

	authed.Get("/api/cart", deps.CartHandler.Summary)
	authed.Delete("/api/cart", deps.CartHandler.Clear)
	authed.Post("/api/cart/items", deps.CartHandler.AddItem)
	authed.Put("/api/cart/items/{id}", deps.CartHandler.UpdateItem)
	authed.Delete("/api/cart/items/{id}", deps.CartHandler.RemoveItem)

	authed.Post("/api/checkout", deps.CheckoutHandler.Start)
	authed.Get("/api/checkout/{id}", deps.CheckoutHandler.Get)
	authed.Post("/api/checkout/{id}/shipping", deps.CheckoutHandler.SubmitShipping)
	authed.Post("/api/checkout/{id}/pay", deps.CheckoutHandler.Pay)

	authed.Get("/api/orders", deps.OrderHandler.List)
	authed.Get("/api/orders/{id}", deps.OrderHandler.Get)

	authed.Get("/api/activity", deps.ActivityHandler.Mine)

	// Admin routes
	admin := r.Group(middleware.WithUser(deps.Identities), middleware.RequireUser, middleware.RequireAdmin)
	admin.Get("/api/admin/activity", deps.ActivityHandler.Recent)
}
