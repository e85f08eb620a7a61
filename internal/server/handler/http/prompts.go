package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/moodkeeper/MoodKeeper/internal/prompts"
)

// PromptHandler serves the bundled writing-prompt catalog.
type PromptHandler struct{}

// List handles GET /api/prompts. An optional category parameter narrows
// the catalog; daily=true returns the deterministic pick for today.
func (h *PromptHandler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.URL.Query().Get("daily") == "true" {
		_ = json.NewEncoder(w).Encode(map[string]any{"prompt": prompts.DailyPick(time.Now())})
		return
	}

	list := prompts.All()
	if c := r.URL.Query().Get("category"); c != "" {
		list = prompts.ByCategory(prompts.Category(c))
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"prompts": list})
}
