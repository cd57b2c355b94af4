package predictor

import (
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/courtside-totals/internal/features"
	"github.com/yourusername/courtside-totals/internal/models"
)

// weightTolerance is the floating tolerance for the weights-sum-to-1 invariant
const weightTolerance = 1e-6

// Weights holds the non-negative ensemble weights. They are configuration,
// not learned; changing them requires no retraining of sub-models.
type Weights struct {
	Formula    float64 `mapstructure:"formula" json:"formula"`
	Calibrated float64 `mapstructure:"calibrated" json:"calibrated"`
	Learned    float64 `mapstructure:"learned" json:"learned"`
}

// DefaultWeights returns the default 0.3 / 0.4 / 0.3 split
func DefaultWeights() Weights {
	return Weights{Formula: 0.3, Calibrated: 0.4, Learned: 0.3}
}

// Sum returns the weight total
func (w Weights) Sum() float64 {
	return w.Formula + w.Calibrated + w.Learned
}

// Validate checks non-negativity and that at least one weight is positive
func (w Weights) Validate() error {
	if w.Formula < 0 || w.Calibrated < 0 || w.Learned < 0 {
		return fmt.Errorf("ensemble weights must be non-negative")
	}
	if w.Sum() <= 0 {
		return fmt.Errorf("at least one ensemble weight must be positive")
	}
	return nil
}

// Map returns the weights keyed by model name
func (w Weights) Map() map[string]float64 {
	return map[string]float64{
		models.ModelFormula:    w.Formula,
		models.ModelCalibrated: w.Calibrated,
		models.ModelLearned:    w.Learned,
	}
}

// Ensemble combines the three predictors into one weighted prediction.
// By default any sub-predictor failure fails the whole call; with
// renormalizeOnPartial set, weights are renormalized over the models
// that produced an output.
type Ensemble struct {
	stats                features.StatsSource
	formula              *Formula
	calibrated           *Calibrated
	learned              *Learned
	weights              Weights
	renormalizeOnPartial bool
	logger               *logrus.Logger
}

// NewEnsemble wires the three predictors behind the configured weights
func NewEnsemble(stats features.StatsSource, formula *Formula, calibrated *Calibrated, learned *Learned, weights Weights, renormalizeOnPartial bool, logger *logrus.Logger) (*Ensemble, error) {
	if stats == nil || formula == nil || calibrated == nil || learned == nil {
		return nil, fmt.Errorf("all three predictors and a stats source are required")
	}
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Ensemble{
		stats:                stats,
		formula:              formula,
		calibrated:           calibrated,
		learned:              learned,
		weights:              weights,
		renormalizeOnPartial: renormalizeOnPartial,
		logger:               logger,
	}, nil
}

// Weights returns the configured weights
func (e *Ensemble) Weights() Weights {
	return e.weights
}

// Combine runs all three predictors for the matchup and returns the
// weighted aggregate with the per-model breakdown
func (e *Ensemble) Combine(homeTeam, awayTeam string, season int) (*models.Prediction, error) {
	home, err := e.stats.Lookup(homeTeam, season)
	if err != nil {
		return nil, err
	}
	away, err := e.stats.Lookup(awayTeam, season)
	if err != nil {
		return nil, err
	}

	homePts, awayPts, formulaTotal, err := e.formula.Predict(home, away)
	if err != nil {
		return nil, err
	}

	var warnings []string
	outputs := map[string]float64{models.ModelFormula: formulaTotal}
	available := Weights{Formula: e.weights.Formula}

	calibratedTotal, err := e.calibrated.Predict(homeTeam, awayTeam, season)
	switch {
	case err == nil:
		outputs[models.ModelCalibrated] = calibratedTotal
		available.Calibrated = e.weights.Calibrated
	case e.renormalizeOnPartial:
		e.logger.WithError(err).Warn("Calibrated predictor unavailable, renormalizing ensemble")
		warnings = append(warnings, models.WarnPartialEnsemble)
	default:
		return nil, err
	}

	learnedTotal, err := e.learned.Predict(homeTeam, awayTeam, season)
	switch {
	case err == nil:
		outputs[models.ModelLearned] = learnedTotal
		available.Learned = e.weights.Learned
	case e.renormalizeOnPartial:
		e.logger.WithError(err).Warn("Learned predictor unavailable, renormalizing ensemble")
		warnings = append(warnings, models.WarnPartialEnsemble)
	default:
		return nil, err
	}

	used := available
	if math.Abs(used.Sum()-1) > weightTolerance {
		sum := used.Sum()
		if sum <= 0 {
			return nil, fmt.Errorf("no ensemble weight assigned to any available model")
		}
		used = Weights{
			Formula:    used.Formula / sum,
			Calibrated: used.Calibrated / sum,
			Learned:    used.Learned / sum,
		}
		warnings = append(warnings, models.WarnWeightsNormalized)
	}

	total := used.Formula*outputs[models.ModelFormula] +
		used.Calibrated*outputs[models.ModelCalibrated] +
		used.Learned*outputs[models.ModelLearned]

	// Split the ensemble total along the formula's home/away proportions
	split := homePts + awayPts
	homeShare := 0.5
	if split > 0 {
		homeShare = homePts / split
	}

	return &models.Prediction{
		Total:          total,
		HomePoints:     total * homeShare,
		AwayPoints:     total * (1 - homeShare),
		ModelBreakdown: outputs,
		WeightsUsed:    used.Map(),
		Warnings:       warnings,
		PredictedAt:    time.Now().UTC(),
	}, nil
}
