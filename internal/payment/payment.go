// Package payment defines the payment processing contract for checkout.
// The storefront ships with a simulated processor; a real gateway
// integration would implement the same interface.
package payment

import (
	"context"
	"time"

	"github.com/airyshop/storefront/internal/domain"
)

// ChargeParams describes one charge attempt.
type ChargeParams struct {
	// Identity is the buyer the charge belongs to.
	Identity string

	// Method is the selected payment method.
	Method domain.PaymentMethod

	// Amount is the full order total in currency units.
	Amount float64

	// SimulateFailure forces a declined outcome. Exposed so the
	// storefront can demonstrate the failure path end to end.
	SimulateFailure bool
}

// ChargeResult is the processor's verdict on a charge attempt.
type ChargeResult struct {
	// TransactionID identifies the attempt at the processor. Set on
	// both approved and declined outcomes.
	TransactionID string

	// Approved reports whether the charge went through.
	Approved bool

	// Reason is a human-readable explanation for a declined charge.
	Reason string

	ProcessedAt time.Time
}

// Processor charges a buyer for an order total. A declined charge is a
// normal result, not an error; errors are reserved for the processor
// itself being unreachable or the context ending.
type Processor interface {
	Charge(ctx context.Context, params ChargeParams) (*ChargeResult, error)
}
