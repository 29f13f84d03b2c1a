// Package routes wires handlers and middleware onto the router.
package routes

import (
	"net/http"

	"github.com/airyshop/storefront/internal/domain"
	"github.com/airyshop/storefront/internal/handler"
)

// APIDeps contains dependencies for the JSON API routes.
type APIDeps struct {
	// Catalog
	ProductHandler *handler.ProductHandler

	// Cart
	CartHandler *handler.CartHandler

	// Checkout
	CheckoutHandler *handler.CheckoutHandler

	// Orders
	OrderHandler *handler.OrderHandler

	// Activity feed
	ActivityHandler *handler.ActivityHandler

	// Identities resolves session tokens into users.
	Identities domain.IdentityProvider

	// MetricsHandler serves the Prometheus scrape endpoint.
	MetricsHandler http.Handler
}
