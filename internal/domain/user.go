package domain

import (
	"context"
	"time"
)

// Role classifies what a user may do in the storefront.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// User is the authenticated buyer identity. The email address is the
// identity key used to scope carts, orders, and activity.
type User struct {
	Email     string
	FullName  string
	Phone     string
	Role      Role
	CreatedAt time.Time
}

// IdentityProvider resolves the caller's identity for a request.
// Implementations typically look up a session token; callers without a
// valid session get an Unauthenticated error.
type IdentityProvider interface {
	// CurrentUser returns the authenticated user for the given session
	// token, or an EUNAUTHORIZED error if the token is missing or unknown.
	CurrentUser(ctx context.Context, token string) (*User, error)
}
