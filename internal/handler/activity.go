package handler

import (
	"net/http"
	"strconv"

	"github.com/airyshop/storefront/internal/domain"
)

// ActivityHandler serves the activity feed routes.
type ActivityHandler struct {
	activity domain.ActivityService
}

// NewActivityHandler creates a new activity handler.
func NewActivityHandler(activity domain.ActivityService) *ActivityHandler {
	return &ActivityHandler{activity: activity}
}

func activityLimit(r *http.Request, op string) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, domain.Invalid(op, "limit must be a non-negative integer")
	}
	return n, nil
}

// Recent handles GET /api/admin/activity?limit=N
func (h *ActivityHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit, err := activityLimit(r, "activity.recent")
	if err != nil {
		respondError(w, r, err)
		return
	}

	events, err := h.activity.RecentActivity(r.Context(), limit)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"events": events,
		"count":  len(events),
	})
}

// Mine handles GET /api/activity?limit=N
func (h *ActivityHandler) Mine(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, "activity.mine")
	if !ok {
		return
	}

	limit, err := activityLimit(r, "activity.mine")
	if err != nil {
		respondError(w, r, err)
		return
	}

	events, err := h.activity.RecentActivityFor(r.Context(), id, limit)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"events": events,
		"count":  len(events),
	})
}
