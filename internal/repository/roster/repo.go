package roster

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/expertdesk/internal/domain/expert"
)

// Loader reads a full roster from its source.
type Loader func(path string) ([]expert.Expert, error)

// snapshot is an immutable roster generation.
type snapshot struct {
	experts  []expert.Expert
	loadedAt time.Time
}

// Repo holds the active roster. Readers never lock; Reload installs a new
// snapshot atomically and never mutates the current one.
type Repo struct {
	path   string
	load   Loader
	active atomic.Pointer[snapshot]
	size   prometheus.Gauge
	logger *zap.Logger

	reloadMu sync.Mutex
}

// New creates a roster repository for the file at path. The roster starts empty
// until Reload succeeds.
func New(path string, logger *zap.Logger) *Repo {
	r := &Repo{path: path, load: LoadFile, logger: logger}
	r.active.Store(&snapshot{})
	return r
}

// WithLoader replaces the file loader.
func (r *Repo) WithLoader(l Loader) *Repo {
	r.load = l
	return r
}

// WithSizeGauge reports the active roster size on g after every successful load.
func (r *Repo) WithSizeGauge(g prometheus.Gauge) *Repo {
	r.size = g
	return r
}

// Path returns the roster source path.
func (r *Repo) Path() string { return r.path }

// Experts returns the active roster. The slice is shared and must not be modified.
func (r *Repo) Experts(_ context.Context) []expert.Expert {
	return slices.Clip(r.active.Load().experts)
}

// LoadedAt returns when the active roster was installed (zero if never).
func (r *Repo) LoadedAt() time.Time { return r.active.Load().loadedAt }

// Reload reads the source and swaps in the new roster. On failure the previous
// roster stays active.
func (r *Repo) Reload(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("reload roster: %w", err)
	}

	r.reloadMu.Lock()
	defer r.reloadMu.Unlock()

	start := time.Now()
	experts, err := r.load(r.path)
	if err != nil {
		r.logger.Error("Failed to load expert roster",
			zap.String("path", r.path),
			zap.Error(err),
		)
		return 0, fmt.Errorf("reload roster: %w", err)
	}

	r.active.Store(&snapshot{experts: experts, loadedAt: time.Now()})
	if r.size != nil {
		r.size.Set(float64(len(experts)))
	}

	r.logger.Info("Expert roster loaded",
		zap.String("path", r.path),
		zap.Int("experts", len(experts)),
		zap.Duration("duration", time.Since(start)),
	)
	return len(experts), nil
}
