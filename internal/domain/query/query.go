package query

import (
	"strings"

	"github.com/kailas-cloud/expertdesk/internal/domain"
)

// Query is the per-request question context (immutable value object).
type Query struct {
	question        string
	thematicArea    string
	userAffiliation string
}

// New creates a Query without validation. The ranking core accepts empty fields and
// degrades to zero scores; request validation happens in Validate.
func New(question, thematicArea, userAffiliation string) Query {
	return Query{
		question:        question,
		thematicArea:    thematicArea,
		userAffiliation: userAffiliation,
	}
}

// Validate reports the request-level errors the caller must reject before ranking:
// a blank question, or missing onboarding context (affiliation or thematic area).
func (q *Query) Validate() error {
	if strings.TrimSpace(q.question) == "" {
		return domain.ErrQuestionRequired
	}
	if strings.TrimSpace(q.userAffiliation) == "" || strings.TrimSpace(q.thematicArea) == "" {
		return domain.NewOnboardingError()
	}
	return nil
}

// Question returns the free-text question.
func (q *Query) Question() string { return q.question }

// ThematicArea returns the thematic area of interest.
func (q *Query) ThematicArea() string { return q.thematicArea }

// UserAffiliation returns the asking user's affiliation, possibly empty.
func (q *Query) UserAffiliation() string { return q.userAffiliation }
