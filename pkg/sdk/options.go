package expertdesk

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	rosterPath string
	experts    []Expert

	taxonomyPath string
	primary      []string
	secondary    []string

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithRosterFile loads the roster from a .csv or .parquet file.
// It takes precedence over WithExperts.
func WithRosterFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.rosterPath = path
	})
}

// WithExperts uses an in-memory roster.
func WithExperts(experts []Expert) Option {
	return optionFunc(func(c *clientConfig) {
		c.experts = experts
	})
}

// WithTaxonomyFile replaces the built-in term taxonomy with a YAML file
// ({primary: [...], secondary: [...]}).
func WithTaxonomyFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.taxonomyPath = path
	})
}

// WithTaxonomy replaces the built-in term taxonomy. Terms must be lowercase.
func WithTaxonomy(primary, secondary []string) Option {
	return optionFunc(func(c *clientConfig) {
		c.primary = primary
		c.secondary = secondary
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
