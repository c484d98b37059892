package answercache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/expertdesk/internal/db"
	"github.com/kailas-cloud/expertdesk/internal/domain"
)

var cacheKeyPrefix = domain.KeyPrefix + "answer:"

// DefaultTTL is how long a generated answer is reused.
const DefaultTTL = 24 * time.Hour

type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedAnswerer reuses generated answers for identical prompt inputs.
// Cache failures are logged and never fail the request.
type CachedAnswerer struct {
	inner      domain.Answerer
	store      store
	model      string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator. model is part of the key so a model switch
// never serves stale answers. cacheTotal has the label "result" ("hit"/"miss") and may be nil.
func New(
	inner domain.Answerer,
	s store,
	model string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedAnswerer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CachedAnswerer{
		inner:      inner,
		store:      s,
		model:      model,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Answer returns a cached answer or asks the inner answerer.
// A hit reports zero tokens and Cached=true.
func (c *CachedAnswerer) Answer(ctx context.Context, req domain.AnswerRequest) (domain.AnswerResult, error) {
	key := c.cacheKey(req)

	if text, ok := c.lookup(ctx, key); ok {
		c.inc("hit")
		return domain.AnswerResult{Text: text, Cached: true}, nil
	}
	c.inc("miss")

	res, err := c.inner.Answer(ctx, req)
	if err != nil {
		return domain.AnswerResult{}, fmt.Errorf("generate answer: %w", err)
	}
	if res.Text != "" {
		if err := c.store.SetWithTTL(ctx, key, []byte(res.Text), c.ttl); err != nil {
			c.logger.Warn("Failed to cache answer", zap.String("key", key), zap.Error(err))
		}
	}
	return res, nil
}

func (c *CachedAnswerer) lookup(ctx context.Context, key string) (string, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to read cached answer", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	if len(data) == 0 {
		return "", false
	}
	return string(data), true
}

func (c *CachedAnswerer) inc(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// cacheKey hashes the normalized prompt inputs. Fields are NUL-separated so
// ("ab","c") and ("a","bc") never collide.
func (c *CachedAnswerer) cacheKey(req domain.AnswerRequest) string {
	h := sha256.New()
	for _, part := range []string{c.model, req.Affiliation, req.ThematicArea, req.Question} {
		h.Write([]byte(strings.ToLower(strings.TrimSpace(part))))
		h.Write([]byte{0})
	}
	return cacheKeyPrefix + hex.EncodeToString(h.Sum(nil))
}
