package predictor

import (
	"fmt"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/courtside-totals/internal/metrics"
	"github.com/yourusername/courtside-totals/internal/models"
)

// CacheKey identifies one matchup prediction for caching. ModelVersion
// keeps entries produced by one artifact version from answering queries
// after a new version is activated.
type CacheKey struct {
	HomeTeam     string
	AwayTeam     string
	Season       int
	ModelVersion string
}

// String returns the string representation of the cache key
func (k CacheKey) String() string {
	return fmt.Sprintf("%s:%s:%d:%s", k.HomeTeam, k.AwayTeam, k.Season, k.ModelVersion)
}

// CachedEnsemble wraps an Ensemble with a TTL prediction cache. Team
// ratings only change on re-ingestion, so repeated queries for the same
// matchup within the TTL are served from memory.
type CachedEnsemble struct {
	ensemble *Ensemble
	cache    *cache.Cache
	version  string
	mu       sync.RWMutex
	hits     uint64
	misses   uint64
}

// NewCachedEnsemble creates a caching wrapper with the given TTL.
// modelVersion is the active artifact version feeding the ensemble
// ("none" or similar when predicting without fitted artifacts).
func NewCachedEnsemble(ensemble *Ensemble, modelVersion string, ttl time.Duration) (*CachedEnsemble, error) {
	if ensemble == nil {
		return nil, fmt.Errorf("ensemble is required")
	}
	return &CachedEnsemble{
		ensemble: ensemble,
		cache:    cache.New(ttl, ttl*2),
		version:  modelVersion,
	}, nil
}

// Combine returns a cached prediction when available, otherwise delegates
func (c *CachedEnsemble) Combine(homeTeam, awayTeam string, season int) (*models.Prediction, error) {
	key := CacheKey{HomeTeam: homeTeam, AwayTeam: awayTeam, Season: season, ModelVersion: c.version}

	c.mu.RLock()
	cached, found := c.cache.Get(key.String())
	c.mu.RUnlock()
	if found {
		if pred, ok := cached.(*models.Prediction); ok {
			c.mu.Lock()
			c.hits++
			c.mu.Unlock()
			metrics.CacheHitsTotal.Inc()
			return pred, nil
		}
	}

	pred, err := c.ensemble.Combine(homeTeam, awayTeam, season)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.misses++
	c.cache.Set(key.String(), pred, cache.DefaultExpiration)
	c.mu.Unlock()
	metrics.CacheMissesTotal.Inc()
	return pred, nil
}

// Flush drops all cached predictions, e.g. after ratings re-ingestion
// or artifact reload
func (c *CachedEnsemble) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Flush()
}

// Stats returns cache hit and miss counts
func (c *CachedEnsemble) Stats() (hits, misses uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
