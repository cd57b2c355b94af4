// Package predictor implements the three per-model total-points predictors
// and the weighted ensemble that combines them.
package predictor

import (
	"fmt"

	"github.com/yourusername/courtside-totals/internal/models"
)

// FormulaConfig holds the league context constants for the closed-form
// predictor. Passing them at construction keeps the formula deterministic
// across league contexts and seasons.
type FormulaConfig struct {
	LeagueAvgDefense float64
	HomeCourtFactor  float64
}

// DefaultFormulaConfig returns the standard league context:
// a 100.0 defensive baseline and a +1.4% home-court efficiency shift.
func DefaultFormulaConfig() FormulaConfig {
	return FormulaConfig{
		LeagueAvgDefense: 100.0,
		HomeCourtFactor:  1.014,
	}
}

// Validate checks the config parameters
func (c FormulaConfig) Validate() error {
	if c.LeagueAvgDefense <= 0 {
		return fmt.Errorf("league average defense must be positive")
	}
	if c.HomeCourtFactor <= 0 || c.HomeCourtFactor >= 2 {
		return fmt.Errorf("home court factor must be in (0, 2)")
	}
	return nil
}

// Formula is the closed-form possession/efficiency estimator. It carries
// no learned state; output is deterministic and idempotent.
type Formula struct {
	cfg FormulaConfig
}

// NewFormula creates a formula predictor with the given league context
func NewFormula(cfg FormulaConfig) (*Formula, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid formula config: %w", err)
	}
	return &Formula{cfg: cfg}, nil
}

// Predict computes per-team points and the combined total:
// average the two tempos, adjust each offense against the opponent's
// defense relative to the league baseline, shift for home court, and
// convert efficiency per 100 possessions into points.
func (f *Formula) Predict(home, away *models.TeamSeasonStats) (float64, float64, float64, error) {
	if home == nil {
		return 0, 0, 0, fmt.Errorf("%w: home team", models.ErrMissingStats)
	}
	if away == nil {
		return 0, 0, 0, fmt.Errorf("%w: away team", models.ErrMissingStats)
	}

	tempo := (home.Tempo + away.Tempo) / 2

	homeAdjOE := home.AdjOE * (away.AdjDE / f.cfg.LeagueAvgDefense)
	awayAdjOE := away.AdjOE * (home.AdjDE / f.cfg.LeagueAvgDefense)

	homeAdjOE *= f.cfg.HomeCourtFactor
	awayAdjOE *= 2 - f.cfg.HomeCourtFactor

	homePoints := tempo * homeAdjOE / 100
	awayPoints := tempo * awayAdjOE / 100
	return homePoints, awayPoints, homePoints + awayPoints, nil
}
