package roster

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kailas-cloud/expertdesk/internal/domain"
	"github.com/kailas-cloud/expertdesk/internal/domain/expert"
)

// Column names shared by the CSV header and the Parquet schema.
const (
	colName        = "Name"
	colEmail       = "Email"
	colExpertiseA  = "Expertise A"
	colExpertiseB  = "Expertise B"
	colExpertiseC  = "Expertise C"
	colAffiliation = "Affiliation"
	colLocation    = "Location"
	colSeniority   = "Seniority"
	colBio         = "Bio"
)

// row is one roster record as read from any tabular source.
type row struct {
	Name        string `parquet:"Name,optional"`
	Email       string `parquet:"Email,optional"`
	ExpertiseA  string `parquet:"Expertise A,optional"`
	ExpertiseB  string `parquet:"Expertise B,optional"`
	ExpertiseC  string `parquet:"Expertise C,optional"`
	Affiliation string `parquet:"Affiliation,optional"`
	Location    string `parquet:"Location,optional"`
	Seniority   string `parquet:"Seniority,optional"`
	Bio         string `parquet:"Bio,optional"`
}

// LoadFile reads experts from a CSV or Parquet file, chosen by extension.
func LoadFile(path string) ([]expert.Expert, error) {
	var (
		rows []row
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		rows, err = readCSV(path)
	case ".parquet":
		rows, err = readParquet(path)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedRosterFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRosterSource, err)
	}
	return toExperts(rows)
}

// toExperts converts rows in order; the row index becomes the expert ID (e00, e01, ...).
func toExperts(rows []row) ([]expert.Expert, error) {
	out := make([]expert.Expert, 0, len(rows))
	for i, r := range rows {
		e, err := expert.New(expert.Attrs{
			ID:           fmt.Sprintf("e%02d", i),
			Name:         r.Name,
			Affiliation:  r.Affiliation,
			Tags:         []string{r.ExpertiseA, r.ExpertiseB, r.ExpertiseC},
			Bio:          r.Bio,
			ContactEmail: r.Email,
			Location:     r.Location,
			Seniority:    r.Seniority,
		})
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out = append(out, e)
	}
	return out, nil
}
