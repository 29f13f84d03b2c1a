package handler

import (
	"net/http"

	"github.com/airyshop/storefront/internal/domain"
)

// CheckoutHandler serves the checkout session routes.
type CheckoutHandler struct {
	checkout domain.CheckoutService
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(checkout domain.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

// Start handles POST /api/checkout
func (h *CheckoutHandler) Start(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, "checkout.start")
	if !ok {
		return
	}

	session, err := h.checkout.StartCheckout(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusCreated, session)
}

// Get handles GET /api/checkout/{id}
func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, "checkout.get")
	if !ok {
		return
	}

	session, err := h.checkout.GetSession(r.Context(), id, r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, session)
}

// SubmitShipping handles POST /api/checkout/{id}/shipping
func (h *CheckoutHandler) SubmitShipping(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, "checkout.shipping")
	if !ok {
		return
	}

	var details domain.ShippingDetails
	if err := decodeJSON(r, &details); err != nil {
		respondError(w, r, err)
		return
	}

	session, err := h.checkout.SubmitShipping(r.Context(), id, r.PathValue("id"), details)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, session)
}

// Pay handles POST /api/checkout/{id}/pay
func (h *CheckoutHandler) Pay(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, "checkout.pay")
	if !ok {
		return
	}

	var req struct {
		Method          string `json:"method"`
		SimulateFailure bool   `json:"simulate_failure"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	order, err := h.checkout.Pay(r.Context(), id, r.PathValue("id"), domain.PaymentMethod(req.Method), req.SimulateFailure)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, order)
}
