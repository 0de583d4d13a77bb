// Package cache keeps scored results in Redis, keyed by the fingerprint of
// the reference data, the interpretation rules and the normalised answers
// that produced them.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/answers"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/instrument"
	"github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/internal/scoring"
)

// DefaultPrefix namespaces cache keys.
const DefaultPrefix = "spmto:result:"

// ErrMiss is returned by Get when no entry exists for the key.
var ErrMiss = errors.New("cache miss")

// Fingerprint hashes the full instrument definition, the interpretation
// rule digest and the normalised answers in ascending item order. Correcting
// a norm, pattern or band table changes the fingerprint even when the
// instrument version does not.
func Fingerprint(inst *instrument.Instrument, rules string, set *answers.AnswerSet) (string, error) {
	def, err := json.Marshal(inst)
	if err != nil {
		return "", fmt.Errorf("failed to encode instrument %s: %w", inst.Code, err)
	}

	h := sha256.New()
	h.Write(def)
	h.Write([]byte{0})
	h.Write([]byte(rules))
	h.Write([]byte{0})
	for _, n := range set.Items() {
		tok, _ := set.Get(n)
		h.Write([]byte(strconv.Itoa(n)))
		h.Write([]byte{'='})
		h.Write([]byte(tok))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ResultCache stores JSON-encoded scored results with a TTL.
type ResultCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewResultCache creates a cache over client. An empty prefix uses
// DefaultPrefix; a zero ttl keeps entries until evicted.
func NewResultCache(client *redis.Client, prefix string, ttl time.Duration, logger *zap.Logger) *ResultCache {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResultCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: logger,
	}
}

// Key returns the Redis key for a fingerprint.
func (c *ResultCache) Key(fingerprint string) string {
	return c.prefix + fingerprint
}

// Get reads a cached result. A missing entry returns ErrMiss.
func (c *ResultCache) Get(ctx context.Context, fingerprint string) (*scoring.ScoredResult, error) {
	val, err := c.client.Get(ctx, c.Key(fingerprint)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("failed to get cache: %w", err)
	}

	var res scoring.ScoredResult
	if err := json.Unmarshal(val, &res); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached result: %w", err)
	}
	return &res, nil
}

// Set writes a result under fingerprint.
func (c *ResultCache) Set(ctx context.Context, fingerprint string, res *scoring.ScoredResult) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	if err := c.client.Set(ctx, c.Key(fingerprint), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	c.logger.Debug("Cached scored result",
		zap.String("instrument", res.Instrument),
		zap.String("key", c.Key(fingerprint)),
		zap.Duration("ttl", c.ttl),
	)
	return nil
}

// Invalidate removes the entry for a fingerprint.
func (c *ResultCache) Invalidate(ctx context.Context, fingerprint string) error {
	if err := c.client.Del(ctx, c.Key(fingerprint)).Err(); err != nil {
		return fmt.Errorf("failed to delete cache: %w", err)
	}
	return nil
}

// Scorer serves results from the cache and falls back to the wrapped scorer.
// Cache failures are logged and never fail scoring; scoring errors are never
// cached.
type Scorer struct {
	next   scoring.Scorer
	cache  *ResultCache
	rules  string
	logger *zap.Logger
}

// NewScorer wraps next with cache. rules is the digest of the interpretation
// rules next scores with; it keeps results of different rule sets apart.
func NewScorer(next scoring.Scorer, cache *ResultCache, rules string, logger *zap.Logger) *Scorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scorer{next: next, cache: cache, rules: rules, logger: logger}
}

// Score implements scoring.Scorer.
func (s *Scorer) Score(inst *instrument.Instrument, set *answers.AnswerSet) (*scoring.ScoredResult, error) {
	return s.ScoreContext(context.Background(), inst, set)
}

// ScoreContext is Score with a context for the cache round trips.
func (s *Scorer) ScoreContext(ctx context.Context, inst *instrument.Instrument, set *answers.AnswerSet) (*scoring.ScoredResult, error) {
	fp, err := Fingerprint(inst, s.rules, set)
	if err != nil {
		s.logger.Warn("cannot fingerprint answer set, scoring directly",
			zap.String("instrument", inst.Code), zap.Error(err))
		return s.next.Score(inst, set)
	}

	res, err := s.cache.Get(ctx, fp)
	switch {
	case err == nil:
		// Identical answers may belong to another answer set.
		res.AnswerSet = set.ID.String()
		return res, nil
	case !errors.Is(err, ErrMiss):
		s.logger.Warn("result cache unavailable, scoring directly",
			zap.String("instrument", inst.Code), zap.Error(err))
	}

	res, err = s.next.Score(inst, set)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, fp, res); err != nil {
		s.logger.Warn("failed to cache scored result",
			zap.String("instrument", inst.Code), zap.Error(err))
	}
	return res, nil
}
