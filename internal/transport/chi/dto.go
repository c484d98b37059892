package chi

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/expertdesk/internal/domain"
	"github.com/kailas-cloud/expertdesk/internal/domain/expert"
	"github.com/kailas-cloud/expertdesk/internal/domain/recommendation"
	domusage "github.com/kailas-cloud/expertdesk/internal/domain/usage"
	assistantuc "github.com/kailas-cloud/expertdesk/internal/usecase/assistant"
)

// tagList is an ordered tag sequence. On the wire it is a comma-joined string,
// as in the roster source; a JSON array is accepted on input too.
type tagList []string

func (t tagList) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(strings.Join(t, ","))
	if err != nil {
		return nil, fmt.Errorf("marshal tags: %w", err)
	}
	return b, nil
}

func (t *tagList) UnmarshalJSON(data []byte) error {
	var joined string
	if err := json.Unmarshal(data, &joined); err == nil {
		*t = strings.Split(joined, ",")
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("expertise_tags must be a string or an array of strings: %w", err)
	}
	*t = list
	return nil
}

type expertDTO struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Affiliation   string  `json:"affiliation"`
	ExpertiseTags tagList `json:"expertise_tags"`
	Bio           string  `json:"bio"`
	ContactEmail  string  `json:"contact_email"`
	Location      string  `json:"location"`
	Seniority     string  `json:"seniority"`
}

type onboardingDTO struct {
	Affiliation  string          `json:"affiliation"`
	ThematicArea string          `json:"thematic_area"`
	Contact      json.RawMessage `json:"contact,omitempty"`
}

type assistantRequest struct {
	Onboarding onboardingDTO `json:"onboarding"`
	Question   string        `json:"question"`
	Experts    []expertDTO   `json:"experts"`
}

type recommendationDTO struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Affiliation      string `json:"affiliation"`
	MatchScore       int    `json:"match_score"`
	Reason           string `json:"reason"`
	ContactEmail     string `json:"contact_email"`
	ExpertiseSummary string `json:"expertise_summary"`
	ContactInfo      string `json:"contact_info"`
}

type debugDTO struct {
	MatchedTags      []string `json:"matched_tags"`
	SimilarityScores []int    `json:"similarity_scores"`
}

type assistantResponse struct {
	Answer             string              `json:"answer"`
	Confidence         int                 `json:"confidence"`
	RecommendedExperts []recommendationDTO `json:"recommended_experts"`
	FollowUp           string              `json:"follow_up"`
	Debug              debugDTO            `json:"debug"`
}

type reloadResponse struct {
	Count int `json:"count"`
}

// usageResponse reports token_limit and tokens_remaining as null for an unlimited window.
type usageResponse struct {
	Period          string `json:"period"`
	PeriodStart     string `json:"period_start"`
	PeriodEnd       string `json:"period_end"`
	TokensUsed      int64  `json:"tokens_used"`
	TokenLimit      *int64 `json:"token_limit"`
	TokensRemaining *int64 `json:"tokens_remaining"`
	Exhausted       bool   `json:"exhausted"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

type errorResponse struct {
	Error         string   `json:"error"`
	MissingFields []string `json:"missing_fields,omitempty"`
}

// toRequest converts the body into a service request. A present "experts" key
// (even an empty array) overrides the active roster; missing IDs get the
// roster-style positional ID.
func (r *assistantRequest) toRequest() (assistantuc.Request, error) {
	req := assistantuc.Request{
		Question:     r.Question,
		ThematicArea: r.Onboarding.ThematicArea,
		Affiliation:  r.Onboarding.Affiliation,
	}
	if r.Experts == nil {
		return req, nil
	}

	req.Experts = make([]expert.Expert, 0, len(r.Experts))
	for i, d := range r.Experts {
		id := d.ID
		if strings.TrimSpace(id) == "" {
			id = fmt.Sprintf("e%02d", i)
		}
		e, err := expert.New(expert.Attrs{
			ID:           id,
			Name:         d.Name,
			Affiliation:  d.Affiliation,
			Tags:         d.ExpertiseTags,
			Bio:          d.Bio,
			ContactEmail: d.ContactEmail,
			Location:     d.Location,
			Seniority:    d.Seniority,
		})
		if err != nil {
			return assistantuc.Request{}, fmt.Errorf("experts[%d]: %w: %w", i, domain.ErrInvalidExpert, err)
		}
		req.Experts = append(req.Experts, e)
	}
	return req, nil
}

func expertToDTO(e *expert.Expert) expertDTO {
	return expertDTO{
		ID:            e.ID(),
		Name:          e.Name(),
		Affiliation:   e.Affiliation(),
		ExpertiseTags: e.Tags(),
		Bio:           e.Bio(),
		ContactEmail:  e.ContactEmail(),
		Location:      e.Location(),
		Seniority:     e.Seniority(),
	}
}

func recommendationToDTO(r *recommendation.Recommendation) recommendationDTO {
	return recommendationDTO{
		ID:               r.ExpertID(),
		Name:             r.Name(),
		Affiliation:      r.Affiliation(),
		MatchScore:       r.MatchScore(),
		Reason:           r.Reason(),
		ContactEmail:     r.ContactEmail(),
		ExpertiseSummary: r.ExpertiseSummary(),
		ContactInfo:      r.ContactInfo(),
	}
}

func responseToDTO(resp *assistantuc.Response) assistantResponse {
	recs := make([]recommendationDTO, len(resp.Recommendations))
	for i := range resp.Recommendations {
		recs[i] = recommendationToDTO(&resp.Recommendations[i])
	}
	return assistantResponse{
		Answer:             resp.Answer,
		Confidence:         resp.Confidence,
		RecommendedExperts: recs,
		FollowUp:           resp.FollowUp,
		Debug: debugDTO{
			MatchedTags:      resp.Debug.MatchedTags,
			SimilarityScores: resp.Debug.SimilarityScores,
		},
	}
}

func usageToDTO(r *domusage.Report) usageResponse {
	out := usageResponse{
		Period:      string(r.Period()),
		PeriodStart: r.PeriodStart().Format(time.RFC3339),
		PeriodEnd:   r.PeriodEnd().Format(time.RFC3339),
		TokensUsed:  r.Used(),
		Exhausted:   r.Exhausted(),
	}
	if !r.Unlimited() {
		limit, remaining := r.Limit(), r.Remaining()
		out.TokenLimit, out.TokensRemaining = &limit, &remaining
	}
	return out
}
