package handler

import (
	"net/http"

	"github.com/airyshop/storefront/internal/domain"
)

// CartHandler serves the authenticated cart routes.
type CartHandler struct {
	cart domain.CartService
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(cart domain.CartService) *CartHandler {
	return &CartHandler{cart: cart}
}

// Summary handles GET /api/cart
func (h *CartHandler) Summary(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, "cart.summary")
	if !ok {
		return
	}

	summary, err := h.cart.GetCartSummary(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, summary)
}

// AddItem handles POST /api/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, "cart.add")
	if !ok {
		return
	}

	var req struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	summary, err := h.cart.AddItem(r.Context(), id, req.ProductID, req.Quantity)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, summary)
}

// UpdateItem handles PUT /api/cart/items/{id}
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, "cart.update")
	if !ok {
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	summary, err := h.cart.UpdateItemQuantity(r.Context(), id, r.PathValue("id"), req.Quantity)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, summary)
}

// RemoveItem handles DELETE /api/cart/items/{id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, "cart.remove")
	if !ok {
		return
	}

	summary, err := h.cart.RemoveItem(r.Context(), id, r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, summary)
}

// Clear handles DELETE /api/cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, "cart.clear")
	if !ok {
		return
	}

	if err := h.cart.ClearCart(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]string{"status": "cleared"})
}
