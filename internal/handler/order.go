package handler

import (
	"net/http"
	"strconv"

	"github.com/airyshop/storefront/internal/domain"
)

// OrderHandler serves the authenticated order routes.
type OrderHandler struct {
	orders domain.OrderService
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(orders domain.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Get handles GET /api/orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, "order.get")
	if !ok {
		return
	}

	order, err := h.orders.GetOrder(r.Context(), id, r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, order)
}

// List handles GET /api/orders?limit=N
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, "order.list")
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, r, domain.Invalid("order.list", "limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	orders, err := h.orders.ListOrders(r.Context(), id, limit)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"orders": orders,
		"count":  len(orders),
	})
}
