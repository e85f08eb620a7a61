package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/moodkeeper/MoodKeeper/internal/service"
)

// AIService defines the companion-chat operation required by the AIHandler.
type AIService interface {
	// Chat relays the conversation to the provider, degrading to a
	// canned fallback reply on failure.
	Chat(ctx context.Context, userMessage string, moodCtx *service.MoodContext, history []service.ChatMessage) (reply, provider string)
}

// SentimentService defines the text-scoring operation required by the
// AIHandler.
type SentimentService interface {
	// Analyze scores free text into a 1-5 mood suggestion.
	Analyze(ctx context.Context, text string) (service.SentimentAnalysis, error)
}

// AIHandler handles the AI companion and sentiment endpoints.
type AIHandler struct {
	AIService        AIService
	SentimentService SentimentService
}

// Chat handles POST /api/ai/chat.
func (h *AIHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserMessage         string                `json:"userMessage"`
		MoodContext         *service.MoodContext  `json:"moodContext"`
		ConversationHistory []service.ChatMessage `json:"conversationHistory"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserMessage == "" {
		http.Error(w, "userMessage is required", http.StatusBadRequest)
		return
	}

	reply, provider := h.AIService.Chat(r.Context(), req.UserMessage, req.MoodContext, req.ConversationHistory)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"response": reply,
		"provider": provider,
	})
}

// Sentiment handles POST /api/sentiment.
func (h *AIHandler) Sentiment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	analysis, err := h.SentimentService.Analyze(r.Context(), req.Text)
	if err != nil {
		if errors.Is(err, service.ErrEmptyText) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"error":   "Text is required for sentiment analysis",
			})
			return
		}
		http.Error(w, "failed to analyze sentiment", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":  true,
		"analysis": analysis,
	})
}
