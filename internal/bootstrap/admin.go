// Package bootstrap handles one-time initialization tasks for the application.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/airyshop/storefront/internal/domain"
	"github.com/airyshop/storefront/internal/store"
)

// AdminConfig contains configuration for the initial admin user.
type AdminConfig struct {
	Email    string
	Token    string
	FullName string
}

// adminTokenTTL bounds the lifetime of the bootstrap token. Operators
// rotate it by restarting with a new ADMIN_TOKEN value.
const adminTokenTTL = 90 * 24 * time.Hour

// Validate checks that the admin configuration is valid.
func (c *AdminConfig) Validate() error {
	if c.Email == "" {
		return errors.New("admin email is required")
	}
	if c.Token == "" {
		return errors.New("admin token is required")
	}
	if len(c.Token) < 16 {
		return errors.New("admin token must be at least 16 characters")
	}
	return nil
}

// EnsureAdmin creates the initial admin user and its access token if
// they don't exist. The function is idempotent and safe to call on
// every startup.
//
// If cfg is nil or has an empty Email/Token, it logs a warning and
// skips, which allows running without an admin in development.
func EnsureAdmin(ctx context.Context, users store.UserStore, cfg *AdminConfig, logger *slog.Logger) error {
	if cfg == nil || cfg.Email == "" || cfg.Token == "" {
		logger.Warn("bootstrap: skipping admin creation, ADMIN_EMAIL or ADMIN_TOKEN not set",
			"hint", "Set these environment variables to create an admin user on startup",
		)
		return nil
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid admin configuration: %w", err)
	}

	fullName := cfg.FullName
	if fullName == "" {
		fullName = "Store Admin"
	}

	if err := users.UpsertUser(ctx, &domain.User{
		Email:    cfg.Email,
		FullName: fullName,
		Role:     domain.RoleAdmin,
	}); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	if err := users.IssueToken(ctx, cfg.Email, cfg.Token, time.Now().Add(adminTokenTTL)); err != nil {
		return fmt.Errorf("failed to issue admin token: %w", err)
	}

	logger.Info("bootstrap: admin user ready", "email", cfg.Email)
	return nil
}
