package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

// MoodSnapshot is the slice of mood state shared with the AI companion.
type MoodSnapshot struct {
	Mood      int      `json:"mood"`
	Intensity int      `json:"intensity,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Date      string   `json:"date,omitempty"`
}

// MoodContext carries the user's current mood and recent pattern into the
// companion conversation.
type MoodContext struct {
	CurrentMood   *MoodSnapshot  `json:"currentMood,omitempty"`
	RecentPattern []MoodSnapshot `json:"recentPattern,omitempty"`
}

// ChatMessage is one turn of the companion conversation.
type ChatMessage struct {
	// Sender is "user" or "ai".
	Sender  string `json:"sender"`
	Content string `json:"content"`
}

// AIService proxies companion conversations to a chat-completion provider.
// It is a thin request/response relay: prompt construction and fallback
// replies live here, the provider owns everything else.
type AIService struct {
	client  *resty.Client
	model   string
	enabled bool
}

// NewAIService builds the proxy. An empty baseURL disables the provider;
// Chat then always answers with a canned supportive fallback.
func NewAIService(baseURL, apiKey, model string) *AIService {
	s := &AIService{model: model}
	if baseURL == "" {
		return s
	}
	s.enabled = true
	s.client = resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json")
	return s
}

// chat-completions wire types, OpenAI-compatible.
type chatCompletionRequest struct {
	Model       string            `json:"model"`
	Messages    []providerMessage `json:"messages"`
	MaxTokens   int               `json:"max_tokens"`
	Temperature float64           `json:"temperature"`
}

type providerMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message providerMessage `json:"message"`
	} `json:"choices"`
}

// Chat relays the conversation to the provider and returns the reply and
// the provider label. Transport failures degrade to a fallback reply;
// the caller never sees an error from this path.
func (s *AIService) Chat(ctx context.Context, userMessage string, moodCtx *MoodContext, history []ChatMessage) (reply, provider string) {
	if !s.enabled {
		return fallbackReply(userMessage), "fallback"
	}

	messages := []providerMessage{{Role: "system", Content: systemPrompt(moodCtx)}}
	messages = append(messages, formatHistory(history)...)
	messages = append(messages, providerMessage{Role: "user", Content: userMessage})

	var result chatCompletionResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(chatCompletionRequest{
			Model:       s.model,
			Messages:    messages,
			MaxTokens:   200,
			Temperature: 0.7,
		}).
		SetResult(&result).
		Post("/v1/chat/completions")
	if err != nil || resp.IsError() || len(result.Choices) == 0 {
		return fallbackReply(userMessage), "fallback"
	}

	return strings.TrimSpace(result.Choices[0].Message.Content), s.model
}

// formatHistory maps conversation turns to provider roles, skipping the
// initial canned greeting.
func formatHistory(history []ChatMessage) []providerMessage {
	if len(history) > 0 && history[0].Sender != "user" {
		history = history[1:]
	}
	out := make([]providerMessage, 0, len(history))
	for _, m := range history {
		role := "assistant"
		if m.Sender == "user" {
			role = "user"
		}
		out = append(out, providerMessage{Role: role, Content: m.Content})
	}
	return out
}

// systemPrompt builds the wellness-companion instructions, enriched with
// the user's mood context when available.
func systemPrompt(moodCtx *MoodContext) string {
	var b strings.Builder
	b.WriteString(`You are a compassionate AI wellness companion. You're like having a wise, empathetic friend who's trained in mental health support.

Your core approach:
- Be genuinely caring and conversational
- Always validate feelings first ("That sounds really difficult")
- Give practical, actionable advice
- Keep responses natural and engaging (2-4 sentences)
- Ask one thoughtful question to continue the conversation

Crisis response (if suicide/self-harm mentioned):
- Show immediate concern and provide resources: call 988 (Suicide & Crisis Lifeline) or text "HELLO" to 741741
- Stay supportive: "You matter and there are people who want to help"

Remember: You're a supportive companion, not a replacement for professional therapy.`)

	if moodCtx == nil || moodCtx.CurrentMood == nil {
		return b.String()
	}

	mood := moodCtx.CurrentMood
	label := "neutral"
	switch {
	case mood.Mood <= 2:
		label = "struggling"
	case mood.Mood >= 4:
		label = "feeling good"
	}

	fmt.Fprintf(&b, "\n\nUser's current mood context:\n- Current mood: %d/5 (%s)", mood.Mood, label)
	if mood.Intensity > 0 {
		fmt.Fprintf(&b, "\n- Intensity: %d/10", mood.Intensity)
	}
	if len(mood.Tags) > 0 {
		fmt.Fprintf(&b, "\n- Recent tags: %s", strings.Join(mood.Tags, ", "))
	}
	if mood.Date != "" {
		fmt.Fprintf(&b, "\n- Date: %s", mood.Date)
	}

	if len(moodCtx.RecentPattern) > 1 {
		recent := moodCtx.RecentPattern
		if len(recent) > 3 {
			recent = recent[:3]
		}
		parts := make([]string, len(recent))
		for i, p := range recent {
			parts[i] = fmt.Sprintf("%d/5", p.Mood)
		}
		fmt.Fprintf(&b, "\n- Recent mood pattern: %s", strings.Join(parts, " then "))
	}

	if mood.Mood <= 2 {
		b.WriteString("\n\nNote: User is struggling. Be extra supportive and gentle. Consider offering coping strategies.")
	} else if mood.Intensity >= 8 {
		b.WriteString("\n\nNote: User is experiencing intense emotions. Validate their feelings and offer grounding techniques.")
	}

	return b.String()
}

// fallbackReply picks a canned supportive response when no provider is
// configured or the call fails.
func fallbackReply(userMessage string) string {
	if strings.TrimSpace(userMessage) == "" {
		return "I'm here whenever you want to talk. What's on your mind today?"
	}
	return "I'm having trouble responding right now, but I want you to know that your feelings are valid. " +
		"Sometimes it helps to write down your thoughts or talk to someone you trust. " +
		"What's the most important thing you'd like support with today?"
}
