package service

import (
	"context"
	"time"

	"github.com/moodkeeper/MoodKeeper/internal/analytics"
)

// Analytics window bounds.
const (
	defaultAnalyticsDays = 7
	maxAnalyticsDays     = 30
	analyticsFetchLimit  = 1000
)

// AnalyticsService computes read-time aggregates over a user's entries.
type AnalyticsService struct {
	repo EntryRepository
	// now is injectable for deterministic tests.
	now func() time.Time
}

// NewAnalyticsService constructs an AnalyticsService with the provided
// repository.
func NewAnalyticsService(repo EntryRepository) *AnalyticsService {
	return &AnalyticsService{repo: repo, now: time.Now}
}

// Summary aggregates the last days of the user's entries. days is clamped
// to [1, 30] with a default of 7.
func (s *AnalyticsService) Summary(ctx context.Context, userKey string, days int) (analytics.Summary, error) {
	if days <= 0 {
		days = defaultAnalyticsDays
	}
	if days > maxAnalyticsDays {
		days = maxAnalyticsDays
	}

	now := s.now().UTC()
	from := now.AddDate(0, 0, -days).Truncate(24 * time.Hour)
	to := now

	entries, err := s.repo.GetEntriesByUser(ctx, userKey, &from, &to, analyticsFetchLimit, 0)
	if err != nil {
		return analytics.Summary{}, err
	}
	return analytics.Summarize(entries, days, now), nil
}
