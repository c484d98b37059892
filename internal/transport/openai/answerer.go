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

	"github.com/kailas-cloud/expertdesk/internal/domain"
	"github.com/kailas-cloud/expertdesk/internal/metrics"
)

// Answerer generates answers with an OpenAI-compatible chat completion API.
type Answerer struct {
	client   *openai.Client
	settings domain.AnswerConfig
	user     string
	provider string
	logger   *zap.Logger
}

// Config holds the answer provider settings.
type Config struct {
	APIKey   string
	BaseURL  string
	Settings domain.AnswerConfig
	User     string
	Provider string
	Logger   *zap.Logger
}

// NewAnswerer creates a chat completion answerer. Zero settings fall back to
// domain.DefaultAnswerConfig field by field.
func NewAnswerer(cfg *Config) *Answerer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	settings := cfg.Settings
	def := domain.DefaultAnswerConfig()
	if settings.Model == "" {
		settings.Model = def.Model
	}
	if settings.MaxTokens <= 0 {
		settings.MaxTokens = def.MaxTokens
	}
	if settings.Temperature == 0 {
		settings.Temperature = def.Temperature
	}

	return &Answerer{
		client:   openai.NewClientWithConfig(clientCfg),
		settings: settings,
		user:     cfg.User,
		provider: cfg.Provider,
		logger:   cfg.Logger,
	}
}

// Model returns the chat model in use.
func (a *Answerer) Model() string { return a.settings.Model }

// Answer implements domain.Answerer.
func (a *Answerer) Answer(ctx context.Context, req domain.AnswerRequest) (domain.AnswerResult, error) {
	model := a.settings.Model
	chatReq := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt(req.Affiliation, req.ThematicArea)},
			{Role: openai.ChatMessageRoleUser, Content: req.Question},
		},
		MaxTokens:   a.settings.MaxTokens,
		Temperature: a.settings.Temperature,
		User:        a.user,
	}

	start := time.Now()
	resp, err := a.client.CreateChatCompletion(ctx, chatReq)
	duration := time.Since(start)

	if err != nil {
		metrics.AnswerRequestsTotal.WithLabelValues(a.provider, model, "error").Inc()
		metrics.AnswerErrorsTotal.WithLabelValues(a.provider, model, errorType(err)).Inc()
		return domain.AnswerResult{}, parseAPIError(err)
	}
	if len(resp.Choices) == 0 {
		metrics.AnswerRequestsTotal.WithLabelValues(a.provider, model, "error").Inc()
		metrics.AnswerErrorsTotal.WithLabelValues(a.provider, model, "empty_response").Inc()
		return domain.AnswerResult{}, fmt.Errorf("empty chat completion response: %w", domain.ErrAnswerProviderError)
	}

	metrics.AnswerRequestsTotal.WithLabelValues(a.provider, model, "success").Inc()
	metrics.AnswerRequestDuration.WithLabelValues(a.provider, model).Observe(duration.Seconds())

	usage := resp.Usage
	if usage.TotalTokens > 0 {
		metrics.AnswerTokensTotal.WithLabelValues(a.provider, model, "prompt").Add(float64(usage.PromptTokens))
		metrics.AnswerTokensTotal.WithLabelValues(a.provider, model, "completion").Add(float64(usage.CompletionTokens))
		metrics.AnswerTokensTotal.WithLabelValues(a.provider, model, "total").Add(float64(usage.TotalTokens))
	}

	return domain.AnswerResult{
		Text:             strings.TrimSpace(resp.Choices[0].Message.Content),
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
		TotalTokens:      usage.TotalTokens,
	}, nil
}

// HealthCheck verifies API availability via ListModels.
func (a *Answerer) HealthCheck(ctx context.Context) error {
	if _, err := a.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

func errorType(err error) string {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return "canceled"
	}
	return "api_error"
}

// parseAPIError wraps every provider failure with domain.ErrAnswerProviderError,
// keeping the most readable detail the response offers. Context errors stay
// visible to errors.Is so callers can tell a timeout apart.
func parseAPIError(err error) error {
	wrap := domain.ErrAnswerProviderError

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail == "" {
			detail = string(reqErr.Body)
		}
		return fmt.Errorf("chat API error %d: %s: %w", reqErr.HTTPStatusCode, detail, wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("chat API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("chat request failed: %w: %w", wrap, err)
}

// extractDetail reads a "detail" field from a JSON error body, as some
// OpenAI-compatible gateways return instead of the standard error object.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
