// Package jobs defines the queued email job types and their payloads.
// Settlement enqueues jobs; the worker decodes and dispatches them.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/airyshop/storefront/internal/domain"
	"github.com/airyshop/storefront/internal/store"
)

// Job type constants for email jobs
const (
	JobTypeOrderConfirmation = "email:order_confirmation"
	JobTypeOperatorOrderCopy = "email:operator_order_copy"
)

// OrderConfirmationPayload carries everything the receipt email needs, so
// the worker never re-reads the order.
type OrderConfirmationPayload struct {
	Recipient     string                 `json:"recipient"`
	CustomerName  string                 `json:"customer_name"`
	OrderID       string                 `json:"order_id"`
	OrderNumber   string                 `json:"order_number"`
	TransactionID string                 `json:"transaction_id"`
	OrderDate     time.Time              `json:"order_date"`
	Items         []domain.OrderItem     `json:"items"`
	Breakdown     domain.PriceBreakdown  `json:"breakdown"`
	Shipping      domain.ShippingDetails `json:"shipping"`
	PaymentMethod string                 `json:"payment_method"`
}

// Enqueue serializes the payload and adds a pending job to the queue.
func Enqueue(ctx context.Context, queue store.EmailJobStore, jobType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", jobType, err)
	}
	return queue.EnqueueEmailJob(ctx, &store.EmailJob{
		JobType: jobType,
		Payload: data,
	})
}
