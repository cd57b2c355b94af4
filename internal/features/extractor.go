package features

import (
	"fmt"

	"github.com/yourusername/courtside-totals/internal/models"
)

// Baseline produces the closed-form total used as feature index 0.
// The formula predictor satisfies this.
type Baseline interface {
	Predict(home, away *models.TeamSeasonStats) (homePoints, awayPoints, total float64, err error)
}

// Extractor derives feature vectors for a matchup from the stats table.
// Output order always follows Names; missing stats are an error, never
// silently defaulted.
type Extractor struct {
	stats    StatsSource
	baseline Baseline
}

// NewExtractor creates an extractor over a stats source and formula baseline
func NewExtractor(stats StatsSource, baseline Baseline) (*Extractor, error) {
	if stats == nil {
		return nil, fmt.Errorf("stats source is required")
	}
	if baseline == nil {
		return nil, fmt.Errorf("baseline predictor is required")
	}
	return &Extractor{stats: stats, baseline: baseline}, nil
}

// Extract resolves both teams and derives the feature vector for the matchup
func (e *Extractor) Extract(homeTeam, awayTeam string, season int) ([]float64, error) {
	home, err := e.stats.Lookup(homeTeam, season)
	if err != nil {
		return nil, err
	}
	away, err := e.stats.Lookup(awayTeam, season)
	if err != nil {
		return nil, err
	}
	return e.ExtractStats(home, away)
}

// ExtractStats derives the feature vector from already-resolved records.
// All differentials are home minus away, so the tail of the vector is
// antisymmetric under a team swap; the baseline carries the home-court
// adjustment and is not.
func (e *Extractor) ExtractStats(home, away *models.TeamSeasonStats) ([]float64, error) {
	_, _, baselineTotal, err := e.baseline.Predict(home, away)
	if err != nil {
		return nil, err
	}

	vector := make([]float64, Count())
	vector[0] = baselineTotal
	vector[1] = home.Tempo - away.Tempo
	vector[2] = home.AdjOE - away.AdjOE
	vector[3] = home.AdjDE - away.AdjDE
	vector[4] = home.EFGPct - away.EFGPct
	vector[5] = home.TOVRate - away.TOVRate
	vector[6] = home.ORebPct - away.ORebPct
	vector[7] = home.DRebPct - away.DRebPct
	return vector, nil
}

// Source exposes the underlying stats source for callers that need
// direct record lookup alongside feature extraction
func (e *Extractor) Source() StatsSource {
	return e.stats
}
