package domain

import "context"

// Answerer is the shared answer generation contract between layers.
type Answerer interface {
	Answer(ctx context.Context, req AnswerRequest) (AnswerResult, error)
}

// HealthChecker verifies answer provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// AnswerRequest carries the prompt inputs for one generated answer.
type AnswerRequest struct {
	Question     string
	ThematicArea string
	Affiliation  string
}

// AnswerResult carries the answer text and token usage through the decorator chain.
type AnswerResult struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Cached           bool
	Fallback         bool
}
