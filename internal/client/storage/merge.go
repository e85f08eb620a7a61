package storage

import (
	"sort"
	"strings"

	"github.com/moodkeeper/MoodKeeper/internal/models"
)

// duplicateWindow is the interval within which two entries with identical
// content are assumed to be the same save recorded twice (a local-first
// write plus its remote echo).
const duplicateWindow = 30 * 1000 // milliseconds

// AreDuplicates reports whether two entries represent the same user action
// recorded twice. Entries are duplicates when their IDs match, when their
// effective timestamps are identical to the millisecond, or when they are
// less than 30 seconds apart with equal mood, intensity, trimmed note and
// tag set.
func AreDuplicates(a, b *models.MoodEntry) bool {
	if a.ID == b.ID {
		return true
	}

	deltaMs := a.EffectiveTime().UnixMilli() - b.EffectiveTime().UnixMilli()
	if deltaMs < 0 {
		deltaMs = -deltaMs
	}

	// Two records created at the exact same millisecond under different
	// pipelines are the same save, not a coincidence.
	if deltaMs == 0 {
		return true
	}

	if deltaMs < duplicateWindow {
		return a.Mood == b.Mood &&
			a.Intensity == b.Intensity &&
			strings.TrimSpace(a.Note) == strings.TrimSpace(b.Note) &&
			sameTags(a.Tags, b.Tags)
	}

	return false
}

// sameTags compares tag sets ignoring order.
func sameTags(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

// Merge combines two candidate entry lists (typically remote and local)
// into one canonical, deduplicated, newest-first list.
//
// When a duplicate pair is found, the record carrying at least one photo
// outranks one without; if both carry photos the most recently considered
// record wins; otherwise the earlier-seen record is retained.
func Merge(listA, listB []models.MoodEntry) []models.MoodEntry {
	combined := make([]models.MoodEntry, 0, len(listA)+len(listB))
	combined = append(combined, listA...)
	combined = append(combined, listB...)

	unique := make([]models.MoodEntry, 0, len(combined))
	for _, entry := range combined {
		idx := -1
		for i := range unique {
			if AreDuplicates(&unique[i], &entry) {
				idx = i
				break
			}
		}
		if idx == -1 {
			unique = append(unique, entry)
			continue
		}

		existing := &unique[idx]
		switch {
		case entry.HasPhotos() && !existing.HasPhotos():
			unique[idx] = entry
		case entry.HasPhotos() && existing.HasPhotos():
			// Both rich: the later-seen record wins. A heuristic, not a
			// guarantee of picking the most complete data.
			unique[idx] = entry
		}
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].EffectiveTime().After(unique[j].EffectiveTime())
	})
	return unique
}
