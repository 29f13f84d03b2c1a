package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/airyshop/storefront/internal/domain"
	"github.com/airyshop/storefront/internal/jobs"
	"github.com/airyshop/storefront/internal/payment"
	"github.com/airyshop/storefront/internal/store"
	"github.com/airyshop/storefront/internal/telemetry"
)

// settler turns a resolved payment attempt into a persisted order and
// runs the follow-up side effects. Persisting the order is the only
// fatal step; everything after it is best-effort and logged on failure,
// never surfaced to the buyer.
type settler struct {
	store         store.EntityStore
	metrics       *telemetry.BusinessMetrics
	operatorEmail string
	logger        *slog.Logger
}

func newSettler(entityStore store.EntityStore, metrics *telemetry.BusinessMetrics, operatorEmail string, logger *slog.Logger) *settler {
	return &settler{
		store:         entityStore,
		metrics:       metrics,
		operatorEmail: operatorEmail,
		logger:        logger,
	}
}

func (s *settler) settle(ctx context.Context, session *domain.CheckoutSession, summary *domain.CartSummary, result *payment.ChargeResult) (*domain.Order, error) {
	order := buildOrder(session, summary, result)

	// The order record is the durable outcome of the attempt. If it
	// cannot be written the settlement as a whole fails.
	if err := s.store.CreateOrder(ctx, order); err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "order.settle", "Failed to persist order")
	}

	s.metrics.PaymentAttempts.WithLabelValues(string(order.PaymentMethod)).Inc()

	if order.PaymentStatus == domain.PaymentStatusSuccess {
		s.metrics.PaymentSucceeded.WithLabelValues(string(order.PaymentMethod)).Inc()
		s.settleSuccess(ctx, order, summary)
	} else {
		s.metrics.PaymentFailed.WithLabelValues(string(order.PaymentMethod)).Inc()
		s.settleFailure(ctx, order)
	}

	return order, nil
}

// settleSuccess runs the success-only side effects in order: audit
// events, receipt emails, then the cart clear. The cart survives every
// failed attempt; only a successful settlement empties it.
func (s *settler) settleSuccess(ctx context.Context, order *domain.Order, summary *domain.CartSummary) {
	s.recordEvent(ctx, order, domain.ActivityPaymentSuccess, eventMetadata(order))
	s.recordEvent(ctx, order, domain.ActivityOrderCreated, map[string]string{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"total":        fmt.Sprintf("%.2f", order.Breakdown.Total),
	})

	s.enqueueReceipts(ctx, order)

	if err := s.store.ClearCart(ctx, order.UserEmail); err != nil {
		s.logger.Error("failed to clear cart after settlement",
			slog.String("identity", order.UserEmail),
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	} else {
		s.metrics.CartCleared.Inc()
	}

	s.metrics.OrdersCreated.Inc()
	s.metrics.OrderValue.Observe(order.Breakdown.Total)
	s.metrics.OrderItemCount.Observe(float64(len(order.Items)))

	s.logger.Info("order settled",
		slog.String("order_id", order.ID),
		slog.String("order_number", order.OrderNumber),
		slog.String("identity", order.UserEmail),
		slog.Float64("total", order.Breakdown.Total),
	)
}

// settleFailure records the payment_failed event and nothing else. A
// declined settlement sends no notifications and leaves the cart alone.
func (s *settler) settleFailure(ctx context.Context, order *domain.Order) {
	s.recordEvent(ctx, order, domain.ActivityPaymentFailed, eventMetadata(order))

	s.logger.Info("payment failed",
		slog.String("order_id", order.ID),
		slog.String("order_number", order.OrderNumber),
		slog.String("identity", order.UserEmail),
	)
}

func (s *settler) enqueueReceipts(ctx context.Context, order *domain.Order) {
	receipt := jobs.OrderConfirmationPayload{
		Recipient:     order.UserEmail,
		CustomerName:  order.UserName,
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		TransactionID: order.TransactionID,
		OrderDate:     order.CreatedAt,
		Items:         order.Items,
		Breakdown:     order.Breakdown,
		Shipping:      order.Shipping,
		PaymentMethod: string(order.PaymentMethod),
	}
	s.enqueueJob(ctx, jobs.JobTypeOrderConfirmation, receipt)

	if s.operatorEmail != "" {
		operatorCopy := receipt
		operatorCopy.Recipient = s.operatorEmail
		s.enqueueJob(ctx, jobs.JobTypeOperatorOrderCopy, operatorCopy)
	}
}

func (s *settler) enqueueJob(ctx context.Context, jobType string, payload any) {
	if err := jobs.Enqueue(ctx, s.store, jobType, payload); err != nil {
		s.logger.Error("failed to enqueue email job",
			slog.String("job_type", jobType),
			slog.String("error", err.Error()),
		)
		return
	}
	s.metrics.JobsEnqueued.WithLabelValues(jobType).Inc()
}

// eventMetadata is the payment event payload: the order, the amount,
// the method, and the gateway transaction.
func eventMetadata(order *domain.Order) map[string]string {
	return map[string]string{
		"order_id":       order.ID,
		"order_number":   order.OrderNumber,
		"amount":         fmt.Sprintf("%.2f", order.Breakdown.Total),
		"payment_method": string(order.PaymentMethod),
		"transaction_id": order.TransactionID,
	}
}

func (s *settler) recordEvent(ctx context.Context, order *domain.Order, kind domain.ActivityKind, metadata map[string]string) {
	RecordActivity(ctx, s.store, s.logger, &domain.ActivityEvent{
		UserEmail: order.UserEmail,
		UserName:  order.UserName,
		Kind:      kind,
		Metadata:  metadata,
	})
}

func buildOrder(session *domain.CheckoutSession, summary *domain.CartSummary, result *payment.ChargeResult) *domain.Order {
	items := make([]domain.OrderItem, 0, len(summary.Items))
	for _, item := range summary.Items {
		items = append(items, domain.OrderItem{
			ProductID:    item.ProductID,
			ProductTitle: item.ProductTitle,
			Quantity:     item.Quantity,
			Price:        item.Price,
			Total:        item.LineTotal(),
		})
	}

	order := &domain.Order{
		OrderNumber:   newOrderNumber(),
		TransactionID: result.TransactionID,
		UserEmail:     session.UserEmail,
		UserName:      session.Shipping.Name,
		Items:         items,
		Breakdown:     summary.Breakdown,
		Shipping:      session.Shipping,
		PaymentMethod: session.Method,
	}
	if result.Approved {
		order.PaymentStatus = domain.PaymentStatusSuccess
		order.OrderStatus = domain.OrderStatusConfirmed
	} else {
		order.PaymentStatus = domain.PaymentStatusFailed
		order.OrderStatus = domain.OrderStatusPending
	}
	return order
}

// newOrderNumber builds ids like ORD1756600000000a1b2c3: a millisecond
// timestamp plus random hex. Settlement only serializes per identity,
// so two buyers can settle in the same millisecond; the suffix keeps
// the order_number unique constraint safe.
func newOrderNumber() string {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("ORD%d", time.Now().UnixMilli())
	}
	return fmt.Sprintf("ORD%d%s", time.Now().UnixMilli(), hex.EncodeToString(buf))
}
