package storage

import (
	"testing"
	"time"

	"github.com/moodkeeper/MoodKeeper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entryAt(id string, t time.Time, mood int) models.MoodEntry {
	return models.MoodEntry{
		ID:        id,
		Mood:      mood,
		CreatedAt: t.UTC().Format(time.RFC3339),
	}
}

func TestAreDuplicates_SameID(t *testing.T) {
	a := models.MoodEntry{ID: "x", Mood: 1}
	b := models.MoodEntry{ID: "x", Mood: 5}
	assert.True(t, AreDuplicates(&a, &b))
}

func TestAreDuplicates_ExactTimestamp(t *testing.T) {
	now := time.Now()
	a := entryAt("a", now, 2)
	b := entryAt("b", now, 5)
	b.Note = "completely different"
	// Identical instants collapse regardless of content.
	assert.True(t, AreDuplicates(&a, &b))
}

func TestAreDuplicates_NearTimestamp(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	a := entryAt("a", base, 4)
	a.Intensity = 6
	a.Note = "good day"
	a.Tags = []string{"work"}

	b := entryAt("b", base.Add(10*time.Second), 4)
	b.Intensity = 6
	b.Note = " good day "
	b.Tags = []string{"work"}

	assert.True(t, AreDuplicates(&a, &b), "10s apart, same content")

	c := b
	c.CreatedAt = base.Add(40 * time.Second).Format(time.RFC3339)
	assert.False(t, AreDuplicates(&a, &c), "40s apart must not collapse")

	d := entryAt("d", base.Add(10*time.Second), 4)
	d.Intensity = 7
	d.Note = "good day"
	d.Tags = []string{"work"}
	assert.False(t, AreDuplicates(&a, &d), "different intensity")
}

func TestAreDuplicates_TagOrderIgnored(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	a := entryAt("a", base, 3)
	a.Tags = []string{"work", "sleep"}
	b := entryAt("b", base.Add(5*time.Second), 3)
	b.Tags = []string{"sleep", "work"}
	assert.True(t, AreDuplicates(&a, &b))
}

func TestMerge_CollapsesRemoteEcho(t *testing.T) {
	// Local store holds the provisional entry; the remote returns the echo
	// with a server-assigned ID but the same instant.
	local := []models.MoodEntry{{ID: "1", CreatedAt: "2024-06-01T12:00:00Z", Mood: 3}}
	remote := []models.MoodEntry{{ID: "2", CreatedAt: "2024-06-01T12:00:00Z", Mood: 3}}

	merged := Merge(remote, local)
	require.Len(t, merged, 1)
}

func TestMerge_RichnessPreference(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	withPhoto := entryAt("local", base, 4)
	withPhoto.Photos = []models.Photo{{ID: "p1", URL: "https://example.com/p1.jpg"}}

	bare := entryAt("remote", base.Add(5*time.Second), 4)

	// Photo-bearing record survives regardless of scan order.
	for _, merged := range [][]models.MoodEntry{
		Merge([]models.MoodEntry{bare}, []models.MoodEntry{withPhoto}),
		Merge([]models.MoodEntry{withPhoto}, []models.MoodEntry{bare}),
	} {
		require.Len(t, merged, 1)
		assert.Equal(t, "local", merged[0].ID)
		assert.True(t, merged[0].HasPhotos())
	}
}

func TestMerge_BothRichLaterWins(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	first := entryAt("first", base, 4)
	first.Photos = []models.Photo{{ID: "p1", URL: "https://example.com/p1.jpg"}}
	second := entryAt("second", base, 4)
	second.Photos = []models.Photo{{ID: "p2", URL: "https://example.com/p2.jpg"}}

	merged := Merge([]models.MoodEntry{first}, []models.MoodEntry{second})
	require.Len(t, merged, 1)
	assert.Equal(t, "second", merged[0].ID)
}

func TestMerge_SortsNewestFirst(t *testing.T) {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	a := entryAt("old", base, 2)
	b := entryAt("new", base.Add(48*time.Hour), 4)
	c := entryAt("mid", base.Add(24*time.Hour), 3)

	merged := Merge([]models.MoodEntry{a, b}, []models.MoodEntry{c})
	require.Len(t, merged, 3)
	assert.Equal(t, []string{"new", "mid", "old"}, []string{merged[0].ID, merged[1].ID, merged[2].ID})
}

func TestMerge_MalformedTimestampSortsLast(t *testing.T) {
	good := entryAt("good", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), 3)
	bad := models.MoodEntry{ID: "bad", Mood: 3, CreatedAt: "garbage"}

	merged := Merge([]models.MoodEntry{bad}, []models.MoodEntry{good})
	require.Len(t, merged, 2)
	assert.Equal(t, "good", merged[0].ID)
}

func TestMerge_Idempotent(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	listA := []models.MoodEntry{entryAt("a1", base, 3), entryAt("a2", base.Add(2*time.Minute), 5)}
	listB := []models.MoodEntry{entryAt("b1", base, 3)}

	once := Merge(listA, listB)
	twice := Merge(once, nil)
	assert.Equal(t, once, twice)
}

func TestMerge_CommutativeUpToOrder(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	listA := []models.MoodEntry{entryAt("a1", base, 3), entryAt("a2", base.Add(5*time.Minute), 5)}
	listB := []models.MoodEntry{entryAt("b1", base.Add(10*time.Minute), 1)}

	ids := func(entries []models.MoodEntry) map[string]bool {
		set := make(map[string]bool, len(entries))
		for _, e := range entries {
			set[e.ID] = true
		}
		return set
	}
	assert.Equal(t, ids(Merge(listA, listB)), ids(Merge(listB, listA)))
}
