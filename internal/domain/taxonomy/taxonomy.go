// Package taxonomy holds the static domain vocabulary used to match questions to experts.
package taxonomy

import (
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Taxonomy is a read-only pair of ordered term sets. Multi-word phrases come
// before single words in both sequences.
type Taxonomy struct {
	primary   []string
	secondary []string
	isPrimary map[string]struct{}
}

// File is the on-disk YAML shape of a taxonomy override.
type File struct {
	Primary   []string `yaml:"primary"`
	Secondary []string `yaml:"secondary"`
}

var defaultTaxonomy = mustNew(primaryTerms, secondaryTerms)

// Default returns the built-in climate taxonomy.
func Default() *Taxonomy { return defaultTaxonomy }

// New validates and creates a Taxonomy. Terms must be lowercase and non-blank;
// duplicates are dropped, keeping the first occurrence.
func New(primary, secondary []string) (*Taxonomy, error) {
	if len(primary) == 0 {
		return nil, fmt.Errorf("primary terms are required")
	}
	p, err := normalize(primary)
	if err != nil {
		return nil, fmt.Errorf("primary terms: %w", err)
	}
	s, err := normalize(secondary)
	if err != nil {
		return nil, fmt.Errorf("secondary terms: %w", err)
	}

	idx := make(map[string]struct{}, len(p))
	for _, t := range p {
		idx[t] = struct{}{}
	}
	return &Taxonomy{primary: p, secondary: s, isPrimary: idx}, nil
}

// LoadFile reads a taxonomy override from a YAML file.
func LoadFile(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read taxonomy %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse taxonomy: %w", err)
	}
	return New(f.Primary, f.Secondary)
}

// Primary yields the primary terms in matching order.
func (t *Taxonomy) Primary() iter.Seq[string] { return slices.Values(t.primary) }

// Secondary yields the secondary terms in matching order.
func (t *Taxonomy) Secondary() iter.Seq[string] { return slices.Values(t.secondary) }

// IsPrimary reports whether term is a primary term.
func (t *Taxonomy) IsPrimary(term string) bool {
	_, ok := t.isPrimary[term]
	return ok
}

// Len returns the number of primary and secondary terms.
func (t *Taxonomy) Len() (primary, secondary int) {
	return len(t.primary), len(t.secondary)
}

func normalize(terms []string) ([]string, error) {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		if strings.TrimSpace(term) == "" {
			return nil, fmt.Errorf("blank term")
		}
		if term != strings.ToLower(term) {
			return nil, fmt.Errorf("term %q must be lowercase", term)
		}
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		out = append(out, term)
	}
	// Phrases first; relative order otherwise preserved.
	slices.SortStableFunc(out, func(a, b string) int {
		return wordCount(b) - wordCount(a)
	})
	return out, nil
}

func wordCount(term string) int {
	return len(strings.Fields(term))
}

func mustNew(primary, secondary []string) *Taxonomy {
	t, err := New(primary, secondary)
	if err != nil {
		panic(err)
	}
	return t
}
