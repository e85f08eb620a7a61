package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrEmptyText rejects sentiment requests without text.
var ErrEmptyText = errors.New("text is required for sentiment analysis")

// maxSentimentText caps provider payload size.
const maxSentimentText = 5000

// SentimentScores are the per-class confidences from the classifier.
type SentimentScores struct {
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
	Mixed    float64 `json:"mixed"`
}

// Emotion is one detected emotion with its confidence.
type Emotion struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// SentimentAnalysis is the scoring result returned to the client.
type SentimentAnalysis struct {
	Sentiment       string          `json:"sentiment"`
	SentimentScores SentimentScores `json:"sentimentScores"`
	SuggestedMood   int             `json:"suggestedMood"`
	Confidence      int             `json:"confidence"`
	Emotions        []Emotion       `json:"emotions"`
	Timestamp       string          `json:"timestamp"`
	AnalyzedBy      string          `json:"analyzedBy"`
}

// SentimentService scores free text into a 1-5 mood suggestion. It calls
// a classification provider when configured and falls back to keyword
// matching otherwise.
type SentimentService struct {
	client  *resty.Client
	enabled bool
}

// NewSentimentService builds the service. An empty baseURL selects the
// keyword fallback.
func NewSentimentService(baseURL, apiKey string) *SentimentService {
	s := &SentimentService{}
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

// providerSentimentResponse is the classifier's wire shape.
type providerSentimentResponse struct {
	Sentiment string          `json:"sentiment"`
	Scores    SentimentScores `json:"scores"`
	Emotions  []Emotion       `json:"emotions"`
}

// Analyze scores the text. Provider failures degrade to the keyword path
// rather than surfacing an error.
func (s *SentimentService) Analyze(ctx context.Context, text string) (SentimentAnalysis, error) {
	if strings.TrimSpace(text) == "" {
		return SentimentAnalysis{}, ErrEmptyText
	}
	if len(text) > maxSentimentText {
		text = text[:maxSentimentText]
	}

	if s.enabled {
		var result providerSentimentResponse
		resp, err := s.client.R().
			SetContext(ctx).
			SetBody(map[string]string{"text": text, "language": "en"}).
			SetResult(&result).
			Post("/v1/sentiment")
		if err == nil && !resp.IsError() && result.Sentiment != "" {
			return buildAnalysis(result, "provider"), nil
		}
	}

	return buildAnalysis(keywordClassify(text), "keyword-based"), nil
}

func buildAnalysis(r providerSentimentResponse, source string) SentimentAnalysis {
	mood, confidence := sentimentToMood(r.Sentiment, r.Scores)
	return SentimentAnalysis{
		Sentiment:       r.Sentiment,
		SentimentScores: r.Scores,
		SuggestedMood:   mood,
		Confidence:      confidence,
		Emotions:        r.Emotions,
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
		AnalyzedBy:      source,
	}
}

// sentimentToMood maps a sentiment class onto the 1-5 mood scale.
func sentimentToMood(sentiment string, scores SentimentScores) (mood, confidence int) {
	pct := func(f float64) int { return int(math.Round(f * 100)) }

	switch sentiment {
	case "POSITIVE":
		if scores.Positive > 0.8 {
			return 5, pct(scores.Positive)
		}
		return 4, pct(scores.Positive)
	case "NEGATIVE":
		if scores.Negative > 0.8 {
			return 1, pct(scores.Negative)
		}
		return 2, pct(scores.Negative)
	case "NEUTRAL":
		return 3, pct(scores.Neutral)
	case "MIXED":
		switch {
		case scores.Positive > scores.Negative:
			return 4, pct(scores.Positive)
		case scores.Negative > scores.Positive:
			return 2, pct(scores.Negative)
		default:
			return 3, 60
		}
	default:
		return 3, 50
	}
}

// emotionKeywords drives the fallback classifier.
var emotionKeywords = map[string][]string{
	"JOY":      {"happy", "excited", "great", "amazing", "wonderful", "fantastic", "joy", "delighted"},
	"SADNESS":  {"sad", "depressed", "down", "terrible", "awful", "horrible", "upset", "disappointed"},
	"ANGER":    {"angry", "mad", "furious", "annoyed", "frustrated", "irritated", "rage"},
	"FEAR":     {"scared", "afraid", "worried", "anxious", "nervous", "panic", "terrified"},
	"SURPRISE": {"surprised", "shocked", "amazed", "stunned", "unexpected", "wow"},
	"LOVE":     {"love", "adore", "cherish", "grateful", "thankful", "appreciate"},
}

// positiveEmotions are the labels counted toward a POSITIVE class.
var positiveEmotions = map[string]bool{"JOY": true, "LOVE": true, "SURPRISE": true}

// keywordClassify is the offline fallback: simple keyword matching with
// a capped score per emotion and a sentiment derived from the balance of
// positive and negative hits.
func keywordClassify(text string) providerSentimentResponse {
	lower := strings.ToLower(text)

	var emotions []Emotion
	posScore, negScore := 0.0, 0.0
	for label, keywords := range emotionKeywords {
		matches := 0
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				matches++
			}
		}
		if matches == 0 {
			continue
		}
		score := math.Min(float64(matches)*0.3, 0.9)
		emotions = append(emotions, Emotion{Label: label, Score: score})
		if positiveEmotions[label] {
			posScore = math.Max(posScore, score)
		} else {
			negScore = math.Max(negScore, score)
		}
	}

	sort.Slice(emotions, func(i, j int) bool { return emotions[i].Score > emotions[j].Score })
	if len(emotions) > 3 {
		emotions = emotions[:3]
	}

	resp := providerSentimentResponse{Emotions: emotions}
	switch {
	case posScore > 0 && negScore > 0:
		resp.Sentiment = "MIXED"
		resp.Scores = SentimentScores{Positive: posScore, Negative: negScore, Mixed: math.Min(posScore+negScore, 1)}
	case posScore > 0:
		resp.Sentiment = "POSITIVE"
		resp.Scores = SentimentScores{Positive: posScore}
	case negScore > 0:
		resp.Sentiment = "NEGATIVE"
		resp.Scores = SentimentScores{Negative: negScore}
	default:
		resp.Sentiment = "NEUTRAL"
		resp.Scores = SentimentScores{Neutral: 0.7}
	}
	return resp
}
