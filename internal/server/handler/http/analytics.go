package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/moodkeeper/MoodKeeper/internal/analytics"
	"github.com/moodkeeper/MoodKeeper/internal/middleware"
)

// AnalyticsService defines the aggregation operation required by the
// AnalyticsHandler.
type AnalyticsService interface {
	// Summary aggregates the last days of the user's entries.
	Summary(ctx context.Context, userKey string, days int) (analytics.Summary, error)
}

// AnalyticsHandler handles HTTP requests for mood analytics.
type AnalyticsHandler struct {
	AnalyticsService AnalyticsService
}

// Summary handles GET /api/analytics?days=N.
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userKey := middleware.GetUserKeyFromContext(r.Context())

	days := 0
	if v := r.URL.Query().Get("days"); v != "" {
		days, _ = strconv.Atoi(v)
	}

	summary, err := h.AnalyticsService.Summary(r.Context(), userKey, days)
	if err != nil {
		http.Error(w, "failed to calculate analytics", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(summary)
}
