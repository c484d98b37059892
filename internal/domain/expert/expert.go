package expert

import (
	"fmt"
	"strings"
)

// Defaults applied when the roster source leaves a field blank.
const (
	DefaultAffiliation = "academia"
	DefaultLocation    = "Unknown"
	DefaultSeniority   = "mid-level"
)

// Expert is a roster entry (immutable value object).
type Expert struct {
	id           string
	name         string
	affiliation  string
	tags         []string
	bio          string
	contactEmail string
	location     string
	seniority    string
}

// Attrs carries the raw attributes of an expert before validation.
type Attrs struct {
	ID           string
	Name         string
	Affiliation  string
	Tags         []string
	Bio          string
	ContactEmail string
	Location     string
	Seniority    string
}

// New validates and creates an Expert.
// ID is required. Tags are trimmed and blank tags dropped; order is kept because the
// first tag is the primary expertise. Empty bio, affiliation, location and seniority
// fall back to the roster defaults.
func New(a Attrs) (Expert, error) {
	id := strings.TrimSpace(a.ID)
	if id == "" {
		return Expert{}, fmt.Errorf("expert ID is required")
	}

	tags := make([]string, 0, len(a.Tags))
	for _, t := range a.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}

	bio := strings.TrimSpace(a.Bio)
	if bio == "" && len(tags) > 0 {
		bio = DefaultBio(tags)
	}

	return Expert{
		id:           id,
		name:         strings.TrimSpace(a.Name),
		affiliation:  orDefault(a.Affiliation, DefaultAffiliation),
		tags:         tags,
		bio:          bio,
		contactEmail: strings.TrimSpace(a.ContactEmail),
		location:     orDefault(a.Location, DefaultLocation),
		seniority:    orDefault(a.Seniority, DefaultSeniority),
	}, nil
}

// DefaultBio derives the bio used when the source has none.
func DefaultBio(tags []string) string {
	return "Expert in " + strings.Join(tags, ", ")
}

// ID returns the stable short code.
func (e *Expert) ID() string { return e.id }

// Name returns the display name.
func (e *Expert) Name() string { return e.name }

// Affiliation returns the free-text affiliation category.
func (e *Expert) Affiliation() string { return e.affiliation }

// Tags returns a copy of the ordered expertise tags.
func (e *Expert) Tags() []string {
	out := make([]string, len(e.tags))
	copy(out, e.tags)
	return out
}

// PrimaryTag returns the first expertise tag, or "" when there are none.
func (e *Expert) PrimaryTag() string {
	if len(e.tags) == 0 {
		return ""
	}
	return e.tags[0]
}

// TagCount returns the number of expertise tags.
func (e *Expert) TagCount() int { return len(e.tags) }

// TagLine renders the tags comma-joined, the way the roster source stores them.
func (e *Expert) TagLine() string { return strings.Join(e.tags, ",") }

// Bio returns the biography text.
func (e *Expert) Bio() string { return e.bio }

// ContactEmail returns the contact address.
func (e *Expert) ContactEmail() string { return e.contactEmail }

// Location returns the location.
func (e *Expert) Location() string { return e.location }

// Seniority returns the seniority level.
func (e *Expert) Seniority() string { return e.seniority }

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
