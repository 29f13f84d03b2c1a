package email

import "time"

// EmailTemplate defines the interface for email templates
type EmailTemplate interface {
	Subject() string
	TemplateName() string
}

// OrderLine is one receipt line item.
type OrderLine struct {
	Title    string
	Quantity int
	Price    float64
	Total    float64
}

// Address is the delivery address shown on receipts.
type Address struct {
	Name    string
	Street  string
	City    string
	State   string
	Pincode string
	Phone   string
}

// OrderConfirmationEmail represents an order receipt.
type OrderConfirmationEmail struct {
	Recipient     string
	CustomerName  string
	OrderNumber   string
	TransactionID string
	OrderDate     time.Time
	Items         []OrderLine
	Subtotal      float64
	Discount      float64
	Tax           float64
	Shipping      float64
	Total         float64
	ShippingAddr  Address
	PaymentMethod string

	// OperatorCopy flips the subject line for the store operator's copy
	// of the receipt. The body template is shared.
	OperatorCopy bool
}

func (e OrderConfirmationEmail) Subject() string {
	if e.OperatorCopy {
		return "New Order Received - " + e.OrderNumber
	}
	return "Order Confirmation - " + e.OrderNumber
}

func (e OrderConfirmationEmail) TemplateName() string {
	return "order_confirmation.html"
}
