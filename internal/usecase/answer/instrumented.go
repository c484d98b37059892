package answer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/expertdesk/internal/domain"
	"github.com/kailas-cloud/expertdesk/internal/metrics"
)

// InstrumentedAnswerer wraps an Answerer with budget enforcement and logging.
// Transport metrics (requests, duration, tokens) are recorded in transport/openai;
// this layer owns the budget and its gauge.
type InstrumentedAnswerer struct {
	inner    domain.Answerer
	provider string
	model    string
	budget   BudgetChecker
	logger   *zap.Logger
}

// NewInstrumentedAnswerer wraps inner. budget may be nil.
func NewInstrumentedAnswerer(
	inner domain.Answerer, provider, model string,
	budget BudgetChecker, logger *zap.Logger,
) *InstrumentedAnswerer {
	return &InstrumentedAnswerer{
		inner:    inner,
		provider: provider,
		model:    model,
		budget:   budget,
		logger:   logger,
	}
}

// Answer checks the budget, delegates, and records token usage.
func (a *InstrumentedAnswerer) Answer(ctx context.Context, req domain.AnswerRequest) (domain.AnswerResult, error) {
	if a.budget != nil {
		if err := a.budget.Check(ctx); err != nil {
			a.logger.Warn("Answer budget exceeded",
				zap.String("provider", a.provider),
				zap.String("model", a.model),
				zap.Error(err),
			)
			return domain.AnswerResult{}, fmt.Errorf("budget check: %w", err)
		}
	}

	start := time.Now()
	res, err := a.inner.Answer(ctx, req)
	duration := time.Since(start)
	if err != nil {
		a.logger.Error("Answer request failed",
			zap.String("provider", a.provider),
			zap.String("model", a.model),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domain.AnswerResult{}, fmt.Errorf("answer: %w", err)
	}

	if a.budget != nil && res.TotalTokens > 0 {
		a.budget.Record(int64(res.TotalTokens))
		remaining := metrics.AnswerBudgetTokensRemaining
		remaining.WithLabelValues(a.provider, "daily").Set(float64(a.budget.RemainingDaily()))
		remaining.WithLabelValues(a.provider, "monthly").Set(float64(a.budget.RemainingMonthly()))
	}

	a.logger.Debug("Answer request completed",
		zap.String("provider", a.provider),
		zap.String("model", a.model),
		zap.Duration("duration", duration),
		zap.Int("prompt_tokens", res.PromptTokens),
		zap.Int("completion_tokens", res.CompletionTokens),
		zap.Int("answer_chars", len(res.Text)),
	)
	return res, nil
}
