package assistant

import (
	"context"

	"github.com/kailas-cloud/expertdesk/internal/domain"
	"github.com/kailas-cloud/expertdesk/internal/domain/expert"
	"github.com/kailas-cloud/expertdesk/internal/domain/query"
	"github.com/kailas-cloud/expertdesk/internal/domain/recommendation"
)

// Roster holds the active expert roster.
type Roster interface {
	Experts(ctx context.Context) []expert.Expert
	Reload(ctx context.Context) (int, error)
}

// AnswerGenerator produces an answer that is always usable (fallback included).
type AnswerGenerator interface {
	Answer(ctx context.Context, req domain.AnswerRequest) domain.AnswerResult
}

// Ranker picks the best experts for a query.
type Ranker interface {
	Rank(q query.Query, experts []expert.Expert) []recommendation.Recommendation
}
