package expertdesk

import (
	"fmt"

	"github.com/kailas-cloud/expertdesk/internal/domain"
	"github.com/kailas-cloud/expertdesk/internal/domain/expert"
	"github.com/kailas-cloud/expertdesk/internal/domain/recommendation"
)

// Expert is a roster entry. Tags are ordered; the first is the primary expertise.
// Blank Affiliation, Bio, Location and Seniority get the roster defaults.
type Expert struct {
	ID           string
	Name         string
	Affiliation  string
	Tags         []string
	Bio          string
	ContactEmail string
	Location     string
	Seniority    string
}

// Query is one question to rank experts for.
type Query struct {
	Question     string
	ThematicArea string
	Affiliation  string
	// Experts overrides the client roster when non-nil (an empty slice ranks nobody).
	Experts []Expert
}

// Recommendation is one ranked expert.
type Recommendation struct {
	ExpertID         string
	Name             string
	Affiliation      string
	MatchScore       int
	Reason           string
	ContactEmail     string
	ExpertiseSummary string
	ContactInfo      string
}

func toDomainExperts(in []Expert) ([]expert.Expert, error) {
	out := make([]expert.Expert, 0, len(in))
	for i := range in {
		e, err := expert.New(expert.Attrs{
			ID:           in[i].ID,
			Name:         in[i].Name,
			Affiliation:  in[i].Affiliation,
			Tags:         in[i].Tags,
			Bio:          in[i].Bio,
			ContactEmail: in[i].ContactEmail,
			Location:     in[i].Location,
			Seniority:    in[i].Seniority,
		})
		if err != nil {
			return nil, fmt.Errorf("expertdesk: experts[%d]: %w: %w", i, domain.ErrInvalidExpert, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func fromDomainExpert(e *expert.Expert) Expert {
	return Expert{
		ID:           e.ID(),
		Name:         e.Name(),
		Affiliation:  e.Affiliation(),
		Tags:         e.Tags(),
		Bio:          e.Bio(),
		ContactEmail: e.ContactEmail(),
		Location:     e.Location(),
		Seniority:    e.Seniority(),
	}
}

func fromDomainRecommendation(r *recommendation.Recommendation) Recommendation {
	return Recommendation{
		ExpertID:         r.ExpertID(),
		Name:             r.Name(),
		Affiliation:      r.Affiliation(),
		MatchScore:       r.MatchScore(),
		Reason:           r.Reason(),
		ContactEmail:     r.ContactEmail(),
		ExpertiseSummary: r.ExpertiseSummary(),
		ContactInfo:      r.ContactInfo(),
	}
}
