package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/airyshop/storefront/internal/domain"
	"github.com/airyshop/storefront/internal/store"
)

type identityProvider struct {
	store  store.UserStore
	logger *slog.Logger
}

// NewIdentityProvider resolves session tokens against the user store.
func NewIdentityProvider(userStore store.UserStore, logger *slog.Logger) domain.IdentityProvider {
	return &identityProvider{store: userStore, logger: logger}
}

func (s *identityProvider) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.Errorf(domain.EUNAUTHORIZED, "auth.current", "Authentication required")
	}
	user, err := s.store.GetUserByToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domain.Errorf(domain.EUNAUTHORIZED, "auth.current", "Session is invalid or expired")
		}
		return nil, domain.WrapError(err, domain.EINTERNAL, "auth.current", "Failed to resolve session")
	}
	return user, nil
}
