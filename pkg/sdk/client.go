package expertdesk

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/expertdesk/internal/domain/expert"
	"github.com/kailas-cloud/expertdesk/internal/domain/query"
	"github.com/kailas-cloud/expertdesk/internal/domain/recommendation"
	"github.com/kailas-cloud/expertdesk/internal/domain/taxonomy"
	"github.com/kailas-cloud/expertdesk/internal/repository/roster"
	"github.com/kailas-cloud/expertdesk/internal/usecase/ranking"
)

// Internal interfaces, replaceable in tests.
type rankUseCase interface {
	Rank(q query.Query, experts []expert.Expert) []recommendation.Recommendation
}

type rosterSource interface {
	Experts(ctx context.Context) []expert.Expert
	Reload(ctx context.Context) (int, error)
}

// staticRoster serves an in-memory roster that cannot be reloaded.
type staticRoster []expert.Expert

func (s staticRoster) Experts(context.Context) []expert.Expert { return s }

func (staticRoster) Reload(context.Context) (int, error) { return 0, ErrNoRosterFile }

// Client is the expertdesk SDK entry point. It is safe for concurrent use.
type Client struct {
	ranker rankUseCase
	roster rosterSource
	obs    *observer
}

// New creates a Client. With WithRosterFile the roster is loaded before New
// returns; ctx bounds that load.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	tax, err := buildTaxonomy(cfg)
	if err != nil {
		return nil, err
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	var src rosterSource
	if cfg.rosterPath != "" {
		repo := roster.New(cfg.rosterPath, zap.NewNop())
		if _, err := repo.Reload(ctx); err != nil {
			return nil, fmt.Errorf("expertdesk: %w", err)
		}
		src = repo
	} else {
		experts, err := toDomainExperts(cfg.experts)
		if err != nil {
			return nil, err
		}
		src = staticRoster(experts)
	}

	return &Client{
		ranker: ranking.NewRanker(ranking.NewScorer(tax)),
		roster: src,
		obs:    obs,
	}, nil
}

func buildTaxonomy(cfg *clientConfig) (*taxonomy.Taxonomy, error) {
	switch {
	case cfg.taxonomyPath != "":
		tax, err := taxonomy.LoadFile(cfg.taxonomyPath)
		if err != nil {
			return nil, fmt.Errorf("expertdesk: %w", err)
		}
		return tax, nil
	case len(cfg.primary) > 0 || len(cfg.secondary) > 0:
		tax, err := taxonomy.New(cfg.primary, cfg.secondary)
		if err != nil {
			return nil, fmt.Errorf("expertdesk: %w", err)
		}
		return tax, nil
	default:
		return taxonomy.Default(), nil
	}
}

// Recommend ranks the roster (or q.Experts) for q and returns at most three
// recommendations, best first. It fails with ErrQuestionRequired or
// ErrOnboardingRequired when the question or its context is missing.
func (c *Client) Recommend(ctx context.Context, q Query) ([]Recommendation, error) {
	start := time.Now()
	recs, err := c.recommend(ctx, q)
	c.obs.observe(opRecommend, start, err, "recommendations", len(recs))
	if err == nil {
		c.obs.recommendations(len(recs))
	}
	return recs, err
}

func (c *Client) recommend(ctx context.Context, q Query) ([]Recommendation, error) {
	dq := query.New(q.Question, q.ThematicArea, q.Affiliation)
	if err := dq.Validate(); err != nil {
		return nil, err
	}

	experts := c.roster.Experts(ctx)
	if q.Experts != nil {
		var err error
		if experts, err = toDomainExperts(q.Experts); err != nil {
			return nil, err
		}
	}

	ranked := c.ranker.Rank(dq, experts)
	out := make([]Recommendation, len(ranked))
	for i := range ranked {
		out[i] = fromDomainRecommendation(&ranked[i])
	}
	return out, nil
}

// Confidence returns the overall confidence (0-100) for a set of recommendations
// as returned by Recommend: 30 for an empty set.
func (c *Client) Confidence(recs []Recommendation) int {
	if len(recs) == 0 {
		return ranking.FallbackConfidence
	}
	total := 0
	for i := range recs {
		total += recs[i].MatchScore
	}
	mean := float64(total) / float64(len(recs))
	return ranking.Confidence(mean/100, ranking.AssumedCompleteness)
}

// Experts returns a copy of the active roster.
func (c *Client) Experts(ctx context.Context) []Expert {
	experts := c.roster.Experts(ctx)
	out := make([]Expert, len(experts))
	for i := range experts {
		out[i] = fromDomainExpert(&experts[i])
	}
	return out
}

// Reload re-reads the roster file and returns the new expert count. A failed
// reload keeps the previous roster. Clients built with WithExperts return ErrNoRosterFile.
func (c *Client) Reload(ctx context.Context) (int, error) {
	start := time.Now()
	n, err := c.roster.Reload(ctx)
	c.obs.observe(opReload, start, err, "experts", n)
	if err != nil {
		return 0, fmt.Errorf("expertdesk: %w", err)
	}
	return n, nil
}
