package ranking

import (
	"math"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kailas-cloud/expertdesk/internal/domain/expert"
	"github.com/kailas-cloud/expertdesk/internal/domain/query"
	"github.com/kailas-cloud/expertdesk/internal/domain/recommendation"
)

const (
	// MinMatchScore is the exclusive lower bound a match score must beat to be recommended.
	MinMatchScore = 25
	// MaxRecommendations caps the number of experts returned.
	MaxRecommendations = 3
	// AffiliationBonus is added to the similarity when affiliations match.
	AffiliationBonus = 0.1

	summaryTags = 3
)

// Ranker scores every expert against a query and keeps the best matches.
type Ranker struct {
	scorer *Scorer
}

// NewRanker creates a Ranker using scorer.
func NewRanker(scorer *Scorer) *Ranker {
	return &Ranker{scorer: scorer}
}

// Rank returns at most MaxRecommendations experts with a match score above
// MinMatchScore, best first. Equal scores keep roster order.
func (r *Ranker) Rank(q query.Query, experts []expert.Expert) []recommendation.Recommendation {
	type scored struct {
		e     *expert.Expert
		score int
	}

	kept := make([]scored, 0, len(experts))
	for i := range experts {
		s := r.MatchScore(q, &experts[i])
		if s > MinMatchScore {
			kept = append(kept, scored{e: &experts[i], score: s})
		}
	}

	slices.SortStableFunc(kept, func(a, b scored) int {
		return b.score - a.score
	})

	if len(kept) > MaxRecommendations {
		kept = kept[:MaxRecommendations]
	}

	title := cases.Title(language.Und)
	out := make([]recommendation.Recommendation, len(kept))
	for i, k := range kept {
		out[i] = toRecommendation(k.e, k.score, title)
	}
	return out
}

// MatchScore returns the integer relevance of one expert to q, in [0, 100].
func (r *Ranker) MatchScore(q query.Query, e *expert.Expert) int {
	semantic := r.scorer.Score(q.Question(), q.ThematicArea(), e.Tags(), e.Bio())

	bonus := 0.0
	if ua := q.UserAffiliation(); ua != "" && strings.EqualFold(ua, e.Affiliation()) {
		bonus = AffiliationBonus
	}

	return min(100, int(math.Floor((semantic+bonus)*100)))
}

// Reason derives the recommendation phrase from the expert's primary tag.
func Reason(e *expert.Expert) string {
	if e.TagCount() > 1 {
		return "Expertise in " + e.PrimaryTag() + " and related areas"
	}
	return "Expertise in " + e.PrimaryTag()
}

func toRecommendation(e *expert.Expert, score int, title cases.Caser) recommendation.Recommendation {
	tags := e.Tags()
	if len(tags) > summaryTags {
		tags = tags[:summaryTags]
	}
	return recommendation.New(recommendation.Fields{
		ExpertID:         e.ID(),
		Name:             e.Name(),
		Affiliation:      title.String(e.Affiliation()),
		MatchScore:       score,
		Reason:           Reason(e),
		MatchedTag:       e.PrimaryTag(),
		ContactEmail:     e.ContactEmail(),
		ExpertiseSummary: strings.Join(tags, ", "),
		ContactInfo:      "Contact: " + e.Name() + " at " + e.ContactEmail(),
	})
}
