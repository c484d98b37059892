package recommendation

// Recommendation is one ranked expert for one query (read-only, never persisted).
type Recommendation struct {
	expertID         string
	name             string
	affiliation      string
	matchScore       int
	reason           string
	matchedTag       string
	contactEmail     string
	expertiseSummary string
	contactInfo      string
}

// Fields carries the values of a recommendation.
type Fields struct {
	ExpertID         string
	Name             string
	Affiliation      string
	MatchScore       int
	Reason           string
	MatchedTag       string
	ContactEmail     string
	ExpertiseSummary string
	ContactInfo      string
}

// New creates a Recommendation. MatchScore is clamped to [0, 100].
func New(f Fields) Recommendation {
	score := f.MatchScore
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return Recommendation{
		expertID:         f.ExpertID,
		name:             f.Name,
		affiliation:      f.Affiliation,
		matchScore:       score,
		reason:           f.Reason,
		matchedTag:       f.MatchedTag,
		contactEmail:     f.ContactEmail,
		expertiseSummary: f.ExpertiseSummary,
		contactInfo:      f.ContactInfo,
	}
}

// ExpertID returns the recommended expert's ID.
func (r *Recommendation) ExpertID() string { return r.expertID }

// Name returns the expert's name.
func (r *Recommendation) Name() string { return r.name }

// Affiliation returns the display affiliation.
func (r *Recommendation) Affiliation() string { return r.affiliation }

// MatchScore returns the integer relevance score in [0, 100].
func (r *Recommendation) MatchScore() int { return r.matchScore }

// Reason returns the short explanation phrase.
func (r *Recommendation) Reason() string { return r.reason }

// MatchedTag returns the expertise tag the reason was derived from.
func (r *Recommendation) MatchedTag() string { return r.matchedTag }

// ContactEmail returns the expert's contact address.
func (r *Recommendation) ContactEmail() string { return r.contactEmail }

// ExpertiseSummary returns up to three expertise tags, comma separated.
func (r *Recommendation) ExpertiseSummary() string { return r.expertiseSummary }

// ContactInfo returns the human-readable contact line.
func (r *Recommendation) ContactInfo() string { return r.contactInfo }
