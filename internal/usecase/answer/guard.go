package answer

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/expertdesk/internal/domain"
	"github.com/kailas-cloud/expertdesk/internal/metrics"
)

// DefaultTimeout bounds a single answer generation call.
const DefaultTimeout = 20 * time.Second

// Guard bounds an Answerer with a timeout and replaces every failure with
// domain.FallbackAnswer. Its Answer never fails.
type Guard struct {
	inner   domain.Answerer
	timeout time.Duration
	logger  *zap.Logger
}

// NewGuard creates a guard. A non-positive timeout selects DefaultTimeout.
func NewGuard(inner domain.Answerer, timeout time.Duration, logger *zap.Logger) *Guard {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Guard{inner: inner, timeout: timeout, logger: logger}
}

// Answer returns the generated answer or the fallback text.
func (g *Guard) Answer(ctx context.Context, req domain.AnswerRequest) domain.AnswerResult {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	res, err := g.inner.Answer(ctx, req)
	if err == nil {
		return res
	}

	reason := fallbackReason(err)
	metrics.AnswerFallbackTotal.WithLabelValues(reason).Inc()
	g.logger.Warn("Answer generation failed, using fallback",
		zap.String("reason", reason),
		zap.Duration("timeout", g.timeout),
		zap.Error(err),
	)
	return domain.AnswerResult{Text: domain.FallbackAnswer, Fallback: true}
}

func fallbackReason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, domain.ErrAnswerQuotaExceeded):
		return "quota"
	default:
		return "error"
	}
}
