package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/geosearch/internal/domain"
	"github.com/kailas-cloud/geosearch/internal/metrics"
)

const systemPrompt = `You extract place names from search queries for a directory of farms, ranches and eateries.
Return a JSON object {"places": [...]} listing every city, county, state, region or country mentioned,
exactly as written in the query and in order of appearance. Return {"places": []} when there are none.`

// Recognizer is a place-name recognizer using an OpenAI-compatible chat API.
type Recognizer struct {
	client   *openai.Client
	model    string
	user     string
	provider string
	logger   *zap.Logger
}

// Config holds the chat provider settings.
type Config struct {
	APIKey   string
	BaseURL  string
	Model    string
	User     string
	Provider string
	Logger   *zap.Logger
}

// NewRecognizer creates an OpenAI-compatible place recognizer.
func NewRecognizer(cfg *Config) *Recognizer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Recognizer{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    cfg.Model,
		user:     cfg.User,
		provider: cfg.Provider,
		logger:   logger,
	}
}

type placesResponse struct {
	Places []string `json:"places"`
}

// Recognize asks the model for place names in text.
func (r *Recognizer) Recognize(ctx context.Context, text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return []string{}, nil
	}

	req := openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		User: r.user,
	}

	start := time.Now()
	resp, err := r.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.RecognizerRequestsTotal.WithLabelValues(r.provider, "error").Inc()
		return nil, parseAPIError(err)
	}
	if len(resp.Choices) == 0 {
		metrics.RecognizerRequestsTotal.WithLabelValues(r.provider, "error").Inc()
		return nil, fmt.Errorf("empty chat response: %w", domain.ErrRecognizerUnavailable)
	}

	var parsed placesResponse
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &parsed); err != nil {
		metrics.RecognizerRequestsTotal.WithLabelValues(r.provider, "error").Inc()
		r.logger.Warn("unparseable recognizer reply",
			zap.String("content", resp.Choices[0].Message.Content), zap.Error(err))
		return nil, fmt.Errorf("decode places: %w", domain.ErrRecognizerUnavailable)
	}

	metrics.RecognizerRequestsTotal.WithLabelValues(r.provider, "success").Inc()
	metrics.RecognizerRequestDuration.WithLabelValues(r.provider).Observe(duration.Seconds())

	out := make([]string, 0, len(parsed.Places))
	for _, p := range parsed.Places {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out, nil
}

// HealthCheck verifies API availability via ListModels.
func (r *Recognizer) HealthCheck(ctx context.Context) error {
	if _, err := r.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseAPIError wraps every provider failure with domain.ErrRecognizerUnavailable.
func parseAPIError(err error) error {
	wrap := domain.ErrRecognizerUnavailable

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if detail := extractDetail(reqErr.Body); detail != "" {
			return fmt.Errorf("chat API error %d: %s: %w", reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("chat API error %d: %s: %w", reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("chat API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("chat request: %w: %w", err, wrap)
	}
	return fmt.Errorf("chat request failed: %w", wrap)
}

// extractDetail reads the "detail" field some providers put in error bodies.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
