package predictor

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/yourusername/courtside-totals/internal/metrics"
)

func TestCachedEnsembleHitsAndMisses(t *testing.T) {
	extractor, formula, calibrated, learned := fittedPredictors(t)
	ensemble, _ := NewEnsemble(extractor.Source(), formula, calibrated, learned, DefaultWeights(), false, quietLogger())

	cached, err := NewCachedEnsemble(ensemble, "v-test", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, err := cached.Combine("Duke", "Kansas", 2025)
	if err != nil {
		t.Fatalf("combine failed: %v", err)
	}
	second, err := cached.Combine("Duke", "Kansas", 2025)
	if err != nil {
		t.Fatalf("combine failed: %v", err)
	}
	if first != second {
		t.Fatalf("expected the cached prediction instance on the second call")
	}

	hits, misses := cached.Stats()
	if hits != 1 || misses != 1 {
		t.Fatalf("expected 1 hit and 1 miss, got %d/%d", hits, misses)
	}

	// Reversed matchup is a distinct key.
	if _, err := cached.Combine("Kansas", "Duke", 2025); err != nil {
		t.Fatalf("combine failed: %v", err)
	}
	_, misses = cached.Stats()
	if misses != 2 {
		t.Fatalf("expected 2 misses after reversed matchup, got %d", misses)
	}
}

func TestCachedEnsemblePublishesCacheCounters(t *testing.T) {
	extractor, formula, calibrated, learned := fittedPredictors(t)
	ensemble, _ := NewEnsemble(extractor.Source(), formula, calibrated, learned, DefaultWeights(), false, quietLogger())
	cached, _ := NewCachedEnsemble(ensemble, "v-test", time.Minute)

	// Counters are process-global, so assert on deltas.
	hitsBefore := testutil.ToFloat64(metrics.CacheHitsTotal)
	missesBefore := testutil.ToFloat64(metrics.CacheMissesTotal)

	if _, err := cached.Combine("Duke", "Kansas", 2025); err != nil {
		t.Fatalf("combine failed: %v", err)
	}
	if _, err := cached.Combine("Duke", "Kansas", 2025); err != nil {
		t.Fatalf("combine failed: %v", err)
	}

	if got := testutil.ToFloat64(metrics.CacheHitsTotal) - hitsBefore; got != 1 {
		t.Errorf("expected cache hit counter to increase by 1, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.CacheMissesTotal) - missesBefore; got != 1 {
		t.Errorf("expected cache miss counter to increase by 1, got %v", got)
	}
}

func TestCachedEnsembleFlush(t *testing.T) {
	extractor, formula, calibrated, learned := fittedPredictors(t)
	ensemble, _ := NewEnsemble(extractor.Source(), formula, calibrated, learned, DefaultWeights(), false, quietLogger())
	cached, _ := NewCachedEnsemble(ensemble, "v-test", time.Minute)

	if _, err := cached.Combine("Duke", "Kansas", 2025); err != nil {
		t.Fatalf("combine failed: %v", err)
	}
	cached.Flush()
	if _, err := cached.Combine("Duke", "Kansas", 2025); err != nil {
		t.Fatalf("combine failed: %v", err)
	}

	hits, misses := cached.Stats()
	if hits != 0 || misses != 2 {
		t.Fatalf("expected 0 hits and 2 misses after flush, got %d/%d", hits, misses)
	}
}

func TestCachedEnsembleDoesNotCacheErrors(t *testing.T) {
	extractor, formula, calibrated, learned := fittedPredictors(t)
	ensemble, _ := NewEnsemble(extractor.Source(), formula, calibrated, learned, DefaultWeights(), false, quietLogger())
	cached, _ := NewCachedEnsemble(ensemble, "v-test", time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := cached.Combine("Nowhere State", "Kansas", 2025); err == nil {
			t.Fatalf("expected lookup error")
		}
	}
	hits, _ := cached.Stats()
	if hits != 0 {
		t.Fatalf("errors must not be cached, got %d hits", hits)
	}
}
