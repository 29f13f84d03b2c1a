package service

import (
	"context"
	"log/slog"

	"github.com/airyshop/storefront/internal/domain"
	"github.com/airyshop/storefront/internal/store"
)

const defaultActivityLimit = 20

type activityService struct {
	store  store.ActivityStore
	logger *slog.Logger
}

// NewActivityService creates the audit trail read service.
func NewActivityService(activityStore store.ActivityStore, logger *slog.Logger) domain.ActivityService {
	return &activityService{store: activityStore, logger: logger}
}

func (s *activityService) RecentActivity(ctx context.Context, limit int) ([]domain.ActivityEvent, error) {
	if limit < 1 || limit > 100 {
		limit = defaultActivityLimit
	}
	events, err := s.store.ListRecentActivity(ctx, limit)
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "activity.recent", "Failed to load activity")
	}
	return events, nil
}

func (s *activityService) RecentActivityFor(ctx context.Context, identity string, limit int) ([]domain.ActivityEvent, error) {
	if limit < 1 || limit > 100 {
		limit = defaultActivityLimit
	}
	events, err := s.store.ListActivityFor(ctx, identity, limit)
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "activity.recent", "Failed to load activity")
	}
	return events, nil
}

// RecordActivity appends an audit event, logging instead of failing when
// the store rejects it. Activity is best-effort by contract.
func RecordActivity(ctx context.Context, activityStore store.ActivityStore, logger *slog.Logger, event *domain.ActivityEvent) {
	if err := activityStore.AppendActivity(ctx, event); err != nil {
		logger.Error("failed to record activity event",
			slog.String("kind", string(event.Kind)),
			slog.String("identity", event.UserEmail),
			slog.String("error", err.Error()),
		)
	}
}
