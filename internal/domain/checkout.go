package domain

import (
	"context"
	"time"
)

// Checkout domain errors.
var (
	ErrCartEmpty          = &Error{Code: EINVALID, Message: "Cart is empty"}
	ErrSessionNotFound    = &Error{Code: ENOTFOUND, Message: "Checkout session not found"}
	ErrInvalidTransition  = &Error{Code: ECONFLICT, Message: "Checkout session is not in the required state"}
	ErrUnknownPayMethod   = &Error{Code: EINVALID, Message: "Unknown payment method"}
	ErrSettlementConflict = &Error{Code: ECONFLICT, Message: "Another settlement is already in progress for this cart"}
)

// CheckoutState is the current phase of a checkout session.
type CheckoutState string

const (
	// CheckoutStateShipping is the initial state: the buyer is entering
	// shipping details.
	CheckoutStateShipping CheckoutState = "shipping"

	// CheckoutStatePayment means shipping details were accepted and the
	// buyer is selecting a payment method.
	CheckoutStatePayment CheckoutState = "payment"

	// CheckoutStateSettling means payment has been initiated; the attempt
	// runs to a terminal state and cannot be abandoned mid-flight.
	CheckoutStateSettling CheckoutState = "settling"

	// CheckoutStateSettled is terminal: payment succeeded and the order is
	// confirmed.
	CheckoutStateSettled CheckoutState = "settled"

	// CheckoutStateFailed means the payment attempt failed. The cart is
	// left intact; a retry starts a new checkout session.
	CheckoutStateFailed CheckoutState = "failed"
)

// ShippingDetails is the buyer-entered delivery information. Every field is
// required before the session may advance to payment.
type ShippingDetails struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required"`
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	Pincode string `json:"pincode" validate:"required"`
}

// PaymentMethod identifies how the buyer pays. The set is closed.
type PaymentMethod string

const (
	PaymentMethodPaytm     PaymentMethod = "paytm"
	PaymentMethodPhonePe   PaymentMethod = "phonepe"
	PaymentMethodGooglePay PaymentMethod = "googlepay"
	PaymentMethodCard      PaymentMethod = "card"
)

// ValidPaymentMethod reports whether m is one of the supported methods.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentMethodPaytm, PaymentMethodPhonePe, PaymentMethodGooglePay, PaymentMethodCard:
		return true
	}
	return false
}

// CheckoutSession is one in-progress checkout attempt, persisted so a
// server can resume it across requests. It accumulates shipping and payment
// data as the buyer moves through the flow; the cart itself stays in the
// cart store until settlement.
type CheckoutSession struct {
	ID        string          `json:"id"`
	UserEmail string          `json:"user_email"`
	State     CheckoutState   `json:"state"`
	Shipping  ShippingDetails `json:"shipping"`
	Method    PaymentMethod   `json:"method"`
	OrderID   string          `json:"order_id"` // set once settlement produced an order
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CheckoutService orchestrates the two-phase checkout flow:
// shipping capture, then payment selection and settlement.
type CheckoutService interface {
	// StartCheckout opens a new checkout session for the identity.
	// Refused with ErrCartEmpty when the cart has no items.
	StartCheckout(ctx context.Context, identity string) (*CheckoutSession, error)

	// GetSession returns a session owned by the identity.
	GetSession(ctx context.Context, identity, sessionID string) (*CheckoutSession, error)

	// SubmitShipping validates and records shipping details, advancing the
	// session from shipping to payment. On validation failure the session
	// stays in shipping and a ValidationError describes the bad fields.
	SubmitShipping(ctx context.Context, identity, sessionID string, details ShippingDetails) (*CheckoutSession, error)

	// Pay runs the payment and settlement for the session: the cart is
	// re-read and re-priced, the payment processor is invoked, and the
	// outcome is settled into an order. The returned order reports the
	// payment outcome; a declined payment is not an error.
	Pay(ctx context.Context, identity, sessionID string, method PaymentMethod, simulateFailure bool) (*Order, error)
}
