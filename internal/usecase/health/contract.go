package health

import (
	"context"

	"github.com/kailas-cloud/expertdesk/internal/domain/expert"
)

// CachePinger checks answer cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// AnswerChecker checks answer provider availability.
type AnswerChecker interface {
	HealthCheck(ctx context.Context) error
}

// Roster exposes the active expert roster.
type Roster interface {
	Experts(ctx context.Context) []expert.Expert
}
