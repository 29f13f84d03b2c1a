// Package domain provides the core commerce types for the AiryShop storefront:
// cart line items, price breakdowns, checkout sessions, orders, and activity
// events, plus the context helpers that carry the authenticated identity
// through a request.
package domain

import (
	"context"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	// userContextKey stores the authenticated user in context.
	userContextKey contextKey = iota
)

// NewContextWithUser returns a new context with the user attached.
func NewContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext retrieves the authenticated user from context.
// Returns nil if no user is present.
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(userContextKey).(*User)
	return user
}

// IdentityFromContext retrieves the buyer identity (email) from context.
// Returns an Unauthenticated error when no user is present; callers
// translate that into whatever redirect policy they want.
func IdentityFromContext(ctx context.Context, op string) (string, error) {
	user := UserFromContext(ctx)
	if user == nil || user.Email == "" {
		return "", Unauthorized(op, "Sign in to continue")
	}
	return user.Email, nil
}
