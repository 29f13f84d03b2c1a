package domain

import (
	"context"
	"time"
)

// Order-related domain errors.
var (
	ErrOrderNotFound = &Error{Code: ENOTFOUND, Message: "Order not found"}
)

// PaymentStatus records the definite payment outcome on an order.
type PaymentStatus string

const (
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// OrderStatus is the fulfillment status of an order.
// Confirmed if and only if the payment succeeded.
type OrderStatus string

const (
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPending   OrderStatus = "pending"
)

// OrderItem is an immutable snapshot of a cart line item frozen at
// settlement time. Later catalog or cart changes never alter it.
type OrderItem struct {
	ProductID    string  `json:"product_id"`
	ProductTitle string  `json:"product_title"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price"`
	Total        float64 `json:"total"` // Price * Quantity, frozen at settlement
}

// Order is the persisted result of a checkout attempt that reached
// settlement. Created exactly once per attempt, never mutated afterward.
type Order struct {
	ID            string          `json:"id"`
	OrderNumber   string          `json:"order_number"`
	TransactionID string          `json:"transaction_id"`
	UserEmail     string          `json:"user_email"`
	UserName      string          `json:"user_name"`
	Items         []OrderItem     `json:"items"`
	Breakdown     PriceBreakdown  `json:"breakdown"`
	Shipping      ShippingDetails `json:"shipping_address"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	OrderStatus   OrderStatus     `json:"order_status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// OrderService provides read access to placed orders.
type OrderService interface {
	// GetOrder returns an order owned by the identity, or ErrOrderNotFound.
	GetOrder(ctx context.Context, identity, orderID string) (*Order, error)

	// ListOrders returns the identity's most recent orders, newest first,
	// capped at limit.
	ListOrders(ctx context.Context, identity string, limit int) ([]Order, error)
}
