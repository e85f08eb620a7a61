// Package prompts bundles the immutable writing-prompt catalog. Entries
// reference prompts by ID; the catalog itself is never persisted.
package prompts

import "time"

// Category groups prompts by theme.
type Category string

const (
	Reflection    Category = "reflection"
	Gratitude     Category = "gratitude"
	Goals         Category = "goals"
	Emotions      Category = "emotions"
	Growth        Category = "growth"
	Relationships Category = "relationships"
	Creativity    Category = "creativity"
	Wellness      Category = "wellness"
)

// Prompt is one writing prompt from the bundled catalog.
type Prompt struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle"`
	Emoji       string   `json:"emoji"`
	Placeholder string   `json:"placeholder"`
	Category    Category `json:"category"`
}

var catalog = []Prompt{
	{ID: "reflection-1", Title: "What happened today?", Subtitle: "Capture the key moments from your day", Emoji: "📝", Placeholder: "Today I...", Category: Reflection},
	{ID: "reflection-2", Title: "What surprised you today?", Subtitle: "Something unexpected or different", Emoji: "😮", Placeholder: "I was surprised by...", Category: Reflection},
	{ID: "reflection-3", Title: "What did you learn today?", Subtitle: "A new insight, skill, or perspective", Emoji: "🧠", Placeholder: "I learned that...", Category: Reflection},
	{ID: "reflection-4", Title: "How did you grow today?", Subtitle: "A moment of personal development", Emoji: "🌱", Placeholder: "I grew by...", Category: Reflection},
	{ID: "gratitude-1", Title: "What are you grateful for today?", Subtitle: "Three things that brought you joy", Emoji: "🙏", Placeholder: "I'm grateful for...", Category: Gratitude},
	{ID: "gratitude-2", Title: "Who made your day better?", Subtitle: "Someone who showed kindness or support", Emoji: "💝", Placeholder: "Today, someone made my day better by...", Category: Gratitude},
	{ID: "gratitude-3", Title: "What small pleasure did you enjoy?", Subtitle: "A simple moment that brought happiness", Emoji: "✨", Placeholder: "I enjoyed...", Category: Gratitude},
	{ID: "goals-1", Title: "One small win from today", Subtitle: "Progress counts, no matter the size", Emoji: "🏆", Placeholder: "Today I managed to...", Category: Goals},
	{ID: "goals-2", Title: "What will you tackle tomorrow?", Subtitle: "One concrete intention for the next day", Emoji: "🎯", Placeholder: "Tomorrow I will...", Category: Goals},
	{ID: "emotions-1", Title: "Name the feeling", Subtitle: "Put a word to what you're experiencing", Emoji: "💭", Placeholder: "Right now I feel...", Category: Emotions},
	{ID: "emotions-2", Title: "Where do you feel it?", Subtitle: "Notice the feeling in your body", Emoji: "🫀", Placeholder: "I notice tension in...", Category: Emotions},
	{ID: "growth-1", Title: "A challenge you faced", Subtitle: "What it taught you about yourself", Emoji: "⛰️", Placeholder: "The hard part was...", Category: Growth},
	{ID: "relationships-1", Title: "A meaningful conversation", Subtitle: "An exchange that stayed with you", Emoji: "💬", Placeholder: "We talked about...", Category: Relationships},
	{ID: "creativity-1", Title: "Something you made or imagined", Subtitle: "Big or small, yours entirely", Emoji: "🎨", Placeholder: "I created...", Category: Creativity},
	{ID: "wellness-1", Title: "How did you care for yourself?", Subtitle: "Rest, movement, food, or boundaries", Emoji: "🧘", Placeholder: "I took care of myself by...", Category: Wellness},
}

// All returns the full catalog.
func All() []Prompt {
	out := make([]Prompt, len(catalog))
	copy(out, catalog)
	return out
}

// ByID looks a prompt up by its identifier.
func ByID(id string) (Prompt, bool) {
	for _, p := range catalog {
		if p.ID == id {
			return p, true
		}
	}
	return Prompt{}, false
}

// ByCategory returns the prompts in the given category.
func ByCategory(c Category) []Prompt {
	var out []Prompt
	for _, p := range catalog {
		if p.Category == c {
			out = append(out, p)
		}
	}
	return out
}

// DailyPick returns a deterministic prompt for the given day, rotating
// through the catalog.
func DailyPick(day time.Time) Prompt {
	epochDay := day.UTC().Unix() / 86400
	return catalog[int(epochDay)%len(catalog)]
}
