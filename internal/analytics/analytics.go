// Package analytics derives read-only summaries from a merged entry list.
// Everything here is a stateless reducer: deterministic given identical
// input, with zero/empty/"stable" defaults for empty input.
package analytics

import (
	"math"
	"strings"
	"time"

	"github.com/moodkeeper/MoodKeeper/internal/models"
)

// Trend classifies the direction of the windowed mood averages.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

// trendThreshold is the first-half vs second-half delta beyond which the
// window counts as improving or declining.
const trendThreshold = 0.3

// DailyAverage is one calendar day of the summary window.
type DailyAverage struct {
	// Date is the day in YYYY-MM-DD form.
	Date string `json:"date"`
	// Average is the day's mean mood, nil when the day has no entries.
	Average *float64 `json:"average"`
	// Count is the number of entries that day.
	Count int `json:"count"`
	// Label is a short display label, e.g. "Mon, Jun 3".
	Label string `json:"label"`
}

// Summary aggregates a window of entries.
type Summary struct {
	AverageMood      float64        `json:"averageMood"`
	TotalEntries     int            `json:"totalEntries"`
	MoodDistribution map[int]int    `json:"moodDistribution"`
	DailyAverages    []DailyAverage `json:"dailyAverages"`
	WeeklyTrend      Trend          `json:"weeklyTrend"`
}

// round2 rounds to two decimal places, matching the display precision.
func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// Summarize reduces the entries into average mood, mood distribution,
// per-day averages over the last days ending at now, and a trend label.
func Summarize(entries []models.MoodEntry, days int, now time.Time) Summary {
	dist := make(map[int]int, models.MoodMax)
	for i := models.MoodMin; i <= models.MoodMax; i++ {
		dist[i] = 0
	}

	s := Summary{
		MoodDistribution: dist,
		DailyAverages:    dailyAverages(entries, days, now),
		WeeklyTrend:      TrendStable,
	}
	if len(entries) == 0 {
		s.DailyAverages = dailyAverages(nil, days, now)
		return s
	}

	sum := 0
	for _, e := range entries {
		sum += e.Mood
		if e.Mood >= models.MoodMin && e.Mood <= models.MoodMax {
			dist[e.Mood]++
		}
	}
	s.TotalEntries = len(entries)
	s.AverageMood = round2(float64(sum) / float64(len(entries)))
	s.WeeklyTrend = trend(s.DailyAverages)
	return s
}

// dailyAverages buckets entries into the last days calendar days, oldest
// first. Days without entries keep a nil average.
func dailyAverages(entries []models.MoodEntry, days int, now time.Time) []DailyAverage {
	if days <= 0 {
		days = 7
	}

	out := make([]DailyAverage, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		dateStr := day.Format("2006-01-02")

		sum, count := 0, 0
		for _, e := range entries {
			if e.EffectiveTime().Format("2006-01-02") == dateStr {
				sum += e.Mood
				count++
			}
		}

		da := DailyAverage{
			Date:  dateStr,
			Count: count,
			Label: day.Format("Mon, Jan 2"),
		}
		if count > 0 {
			avg := round2(float64(sum) / float64(count))
			da.Average = &avg
		}
		out = append(out, da)
	}
	return out
}

// trend compares the first-half average of the non-empty days against the
// second-half average.
func trend(daily []DailyAverage) Trend {
	var valid []float64
	for _, d := range daily {
		if d.Average != nil {
			valid = append(valid, *d.Average)
		}
	}
	if len(valid) < 2 {
		return TrendStable
	}

	mid := len(valid) / 2
	firstHalf := valid[:(len(valid)+1)/2]
	secondHalf := valid[mid:]

	avg := func(xs []float64) float64 {
		sum := 0.0
		for _, x := range xs {
			sum += x
		}
		return sum / float64(len(xs))
	}

	switch diff := avg(secondHalf) - avg(firstHalf); {
	case diff > trendThreshold:
		return TrendImproving
	case diff < -trendThreshold:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// GroupByDay buckets entries by their display date for the calendar view.
func GroupByDay(entries []models.MoodEntry) map[string][]models.MoodEntry {
	byDay := make(map[string][]models.MoodEntry)
	for _, e := range entries {
		byDay[e.Date] = append(byDay[e.Date], e)
	}
	return byDay
}

// FilterByMood keeps entries with the exact mood value.
func FilterByMood(entries []models.MoodEntry, mood int) []models.MoodEntry {
	var out []models.MoodEntry
	for _, e := range entries {
		if e.Mood == mood {
			out = append(out, e)
		}
	}
	return out
}

// FilterByTag keeps entries carrying the tag (case-insensitive).
func FilterByTag(entries []models.MoodEntry, tag string) []models.MoodEntry {
	var out []models.MoodEntry
	for _, e := range entries {
		for _, t := range e.Tags {
			if strings.EqualFold(t, tag) {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// Search keeps entries whose note or any tag contains the query,
// case-insensitive.
func Search(entries []models.MoodEntry, query string) []models.MoodEntry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return entries
	}

	var out []models.MoodEntry
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Note), q) {
			out = append(out, e)
			continue
		}
		for _, t := range e.Tags {
			if strings.Contains(strings.ToLower(t), q) {
				out = append(out, e)
				break
			}
		}
	}
	return out
}
