package assistant

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/expertdesk/internal/domain"
	"github.com/kailas-cloud/expertdesk/internal/domain/expert"
	"github.com/kailas-cloud/expertdesk/internal/domain/query"
	"github.com/kailas-cloud/expertdesk/internal/domain/recommendation"
	"github.com/kailas-cloud/expertdesk/internal/logger"
	"github.com/kailas-cloud/expertdesk/internal/metrics"
	"github.com/kailas-cloud/expertdesk/internal/usecase/ranking"
)

// Request is one assistant question with the asker's onboarding context.
type Request struct {
	Question     string
	ThematicArea string
	Affiliation  string
	// Experts overrides the active roster when non-nil. An empty non-nil
	// slice means "rank nobody".
	Experts []expert.Expert
}

// Debug exposes how the recommendations were chosen.
type Debug struct {
	MatchedTags      []string
	SimilarityScores []int
}

// Response is the assembled assistant answer.
type Response struct {
	Answer          string
	AnswerFallback  bool
	AnswerCached    bool
	Confidence      int
	Recommendations []recommendation.Recommendation
	FollowUp        string
	Debug           Debug
}

// Service answers questions and recommends experts.
type Service struct {
	roster  Roster
	answers AnswerGenerator
	ranker  Ranker
}

// New creates the assistant service.
func New(roster Roster, answers AnswerGenerator, ranker Ranker) *Service {
	return &Service{roster: roster, answers: answers, ranker: ranker}
}

// Ask validates the request, generates the answer and ranks the roster.
// It fails only on validation (domain.ErrQuestionRequired, *domain.OnboardingError).
func (s *Service) Ask(ctx context.Context, req Request) (Response, error) {
	q := query.New(req.Question, req.ThematicArea, req.Affiliation)
	if err := q.Validate(); err != nil {
		metrics.AssistantRequestsTotal.WithLabelValues(outcome(err)).Inc()
		return Response{}, fmt.Errorf("validate query: %w", err)
	}

	experts := req.Experts
	if experts == nil {
		experts = s.roster.Experts(ctx)
	}

	ans := s.answers.Answer(ctx, domain.AnswerRequest{
		Question:     q.Question(),
		ThematicArea: q.ThematicArea(),
		Affiliation:  q.UserAffiliation(),
	})
	recs := s.ranker.Rank(q, experts)

	resp := Response{
		Answer:          ans.Text,
		AnswerFallback:  ans.Fallback,
		AnswerCached:    ans.Cached,
		Confidence:      ranking.OverallConfidence(recs),
		Recommendations: recs,
		FollowUp:        followUp(q),
		Debug:           debugFor(recs),
	}

	metrics.AssistantRequestsTotal.WithLabelValues("ok").Inc()
	metrics.RecommendationsReturned.Observe(float64(len(recs)))
	logger.FromContext(ctx).Info("Assistant question answered",
		zap.String("thematic_area", q.ThematicArea()),
		zap.Int("experts_considered", len(experts)),
		zap.Int("recommendations", len(recs)),
		zap.Int("confidence", resp.Confidence),
		zap.Bool("answer_fallback", ans.Fallback),
		zap.Bool("answer_cached", ans.Cached),
	)
	return resp, nil
}

// Experts returns the active roster.
func (s *Service) Experts(ctx context.Context) []expert.Expert {
	return s.roster.Experts(ctx)
}

// ReloadRoster re-reads the roster source and returns the new expert count.
func (s *Service) ReloadRoster(ctx context.Context) (int, error) {
	n, err := s.roster.Reload(ctx)
	if err != nil {
		return 0, fmt.Errorf("reload roster: %w", err)
	}
	return n, nil
}

// followUp is reserved for a suggested next question; none is generated yet.
func followUp(query.Query) string { return "" }

func debugFor(recs []recommendation.Recommendation) Debug {
	d := Debug{
		MatchedTags:      make([]string, 0, len(recs)),
		SimilarityScores: make([]int, 0, len(recs)),
	}
	for i := range recs {
		d.MatchedTags = append(d.MatchedTags, recs[i].MatchedTag())
		d.SimilarityScores = append(d.SimilarityScores, recs[i].MatchScore())
	}
	return d
}

func outcome(err error) string {
	if errors.Is(err, domain.ErrOnboardingRequired) {
		return "onboarding"
	}
	return "invalid"
}
