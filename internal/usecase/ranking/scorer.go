package ranking

import (
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/expertdesk/internal/domain/taxonomy"
)

const (
	// primaryBase is the score floor once the primary gate passes.
	primaryBase = 0.8
	// secondaryBonusWeight scales the secondary overlap added on top of primaryBase.
	secondaryBonusWeight = 0.2
	// thematicBoost multiplies the score when the thematic area appears in the expert text.
	thematicBoost = 1.1
	// minWordLen is the length a word must exceed to count as significant.
	minWordLen = 3
	// wordPunct is stripped from both ends of every word.
	wordPunct = ".,!?;:"
)

// Scorer computes taxonomy-driven similarity between a question and an expert profile.
// It is stateless after construction and safe for concurrent use.
type Scorer struct {
	tax    *taxonomy.Taxonomy
	tracer Tracer
}

// NewScorer creates a Scorer over tax. A nil tax selects taxonomy.Default().
func NewScorer(tax *taxonomy.Taxonomy) *Scorer {
	if tax == nil {
		tax = taxonomy.Default()
	}
	return &Scorer{tax: tax, tracer: NopTracer()}
}

// WithTracer sets the diagnostic hook. Tracing never changes returned scores.
func (s *Scorer) WithTracer(t Tracer) *Scorer {
	if t == nil {
		t = NopTracer()
	}
	s.tracer = t
	return s
}

// Score returns the relevance of an expert (tags + bio) to a question in a
// thematic area, in [0, 1].
func (s *Scorer) Score(question, thematicArea string, tags []string, bio string) float64 {
	queryText := strings.ToLower(question + " " + thematicArea)
	expertText := strings.ToLower(strings.Join(tags, ",") + " " + bio)

	tr := s.score(queryText, expertText, strings.ToLower(thematicArea))
	s.tracer.TraceScore(&tr)
	return tr.Score
}

func (s *Scorer) score(queryText, expertText, thematicArea string) Trace {
	var tr Trace

	// Stage 1: a primary term in the question must be shared by the expert.
	tr.QueryPrimary = matchTerms(s.tax.Primary(), queryText)
	tr.ExpertPrimary = matchTerms(s.tax.Primary(), expertText)
	primaryMatched := len(tr.QueryPrimary) > 0
	if primaryMatched && intersectCount(tr.QueryPrimary, tr.ExpertPrimary) == 0 {
		tr.Stage = StagePrimaryGate
		return tr
	}

	// Stage 2: a shared significant word settles it.
	if sharesSignificantWord(queryText, expertText) {
		tr.Stage = StageExactWord
		tr.Score = 1.0
		return tr
	}

	// Stage 3: secondary overlap.
	tr.QuerySecondary = matchTerms(s.tax.Secondary(), queryText)
	tr.ExpertSecondary = matchTerms(s.tax.Secondary(), expertText)
	bothSecondary := len(tr.QuerySecondary) > 0 && len(tr.ExpertSecondary) > 0

	var score float64
	switch {
	case primaryMatched:
		tr.Stage = StagePrimaryMatch
		score = primaryBase
		if bothSecondary {
			score += jaccard(tr.QuerySecondary, tr.ExpertSecondary) * secondaryBonusWeight
		}
	case !bothSecondary:
		tr.Stage = StageSecondaryEmpty
		return tr
	default:
		tr.Stage = StageSecondaryOverlap
		score = jaccard(tr.QuerySecondary, tr.ExpertSecondary)
	}

	// Stage 4: thematic area named in the expert profile.
	if strings.TrimSpace(thematicArea) != "" && strings.Contains(expertText, thematicArea) {
		tr.ThematicBoost = true
		score *= thematicBoost
	}

	tr.Score = min(score, 1.0)
	return tr
}

// matchTerms returns every term contained in text, in taxonomy order.
func matchTerms(terms iter.Seq[string], text string) []string {
	var out []string
	for term := range terms {
		if strings.Contains(text, term) {
			out = append(out, term)
		}
	}
	return out
}

func intersectCount(a, b []string) int {
	set := make(map[string]struct{}, len(b))
	for _, t := range b {
		set[t] = struct{}{}
	}
	n := 0
	for _, t := range a {
		if _, ok := set[t]; ok {
			n++
		}
	}
	return n
}

// jaccard is |a ∩ b| / |a ∪ b| over term sets without duplicates.
func jaccard(a, b []string) float64 {
	inter := intersectCount(a, b)
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func sharesSignificantWord(queryText, expertText string) bool {
	expertWords := significantWords(expertText)
	if len(expertWords) == 0 {
		return false
	}
	for _, w := range strings.Fields(queryText) {
		w = strings.Trim(w, wordPunct)
		if utf8.RuneCountInString(w) <= minWordLen {
			continue
		}
		if _, ok := expertWords[w]; ok {
			return true
		}
	}
	return false
}

func significantWords(text string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, w := range strings.Fields(text) {
		w = strings.Trim(w, wordPunct)
		if utf8.RuneCountInString(w) > minWordLen {
			words[w] = struct{}{}
		}
	}
	return words
}
