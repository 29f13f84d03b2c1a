package domain

import (
	"context"
	"time"
)

// ActivityKind tags an audit event.
type ActivityKind string

const (
	ActivitySignup         ActivityKind = "signup"
	ActivityPaymentSuccess ActivityKind = "payment_success"
	ActivityPaymentFailed  ActivityKind = "payment_failed"
	ActivityOrderCreated   ActivityKind = "order_created"
)

// ActivityEvent is an append-only audit record. Events are never updated
// or deleted; recording them is best-effort and must not block the flow
// that emits them.
type ActivityEvent struct {
	ID        string            `json:"id"`
	UserEmail string            `json:"user_email"`
	UserName  string            `json:"user_name"`
	Kind      ActivityKind      `json:"activity_type"`
	Metadata  map[string]string `json:"metadata"`
	CreatedAt time.Time         `json:"created_at"`
}

// ActivityService provides read access to the audit trail.
type ActivityService interface {
	// RecentActivity returns the newest events across all identities,
	// newest first, capped at limit.
	RecentActivity(ctx context.Context, limit int) ([]ActivityEvent, error)

	// RecentActivityFor returns the newest events for one identity.
	RecentActivityFor(ctx context.Context, identity string, limit int) ([]ActivityEvent, error)
}
