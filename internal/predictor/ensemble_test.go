package predictor

import (
	"errors"
	"math"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/courtside-totals/internal/features"
	"github.com/yourusername/courtside-totals/internal/models"
)

// fittedPredictors returns an extractor plus trained calibrated and
// learned predictors backed by the same stats table.
func fittedPredictors(t *testing.T) (*features.Extractor, *Formula, *Calibrated, *Learned) {
	t.Helper()
	extractor := testExtractor(t)
	formula, _ := NewFormula(DefaultFormulaConfig())

	X, y := syntheticDataset(100, 23)
	calibrated, _ := NewCalibrated(DefaultCalibratedConfig(), extractor)
	if err := calibrated.Fit(X, y); err != nil {
		t.Fatalf("calibrated fit failed: %v", err)
	}

	cfg := DefaultLearnedConfig()
	cfg.NumTrees = 25
	learned, _ := NewLearned(cfg, extractor)
	if err := learned.Fit(X, y); err != nil {
		t.Fatalf("learned fit failed: %v", err)
	}
	return extractor, formula, calibrated, learned
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestEnsembleWeightedCombination(t *testing.T) {
	extractor, formula, calibrated, learned := fittedPredictors(t)

	ensemble, err := NewEnsemble(extractor.Source(), formula, calibrated, learned, DefaultWeights(), false, quietLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pred, err := ensemble.Combine("Duke", "Kansas", 2025)
	if err != nil {
		t.Fatalf("combine failed: %v", err)
	}

	want := 0.3*pred.ModelBreakdown[models.ModelFormula] +
		0.4*pred.ModelBreakdown[models.ModelCalibrated] +
		0.3*pred.ModelBreakdown[models.ModelLearned]
	if math.Abs(pred.Total-want) > 1e-9 {
		t.Fatalf("expected weighted total %.6f, got %.6f", want, pred.Total)
	}
	if len(pred.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", pred.Warnings)
	}
	if math.Abs(pred.HomePoints+pred.AwayPoints-pred.Total) > 1e-9 {
		t.Fatalf("home/away split does not sum to total")
	}
}

func TestEnsembleNormalizesOffWeights(t *testing.T) {
	extractor, formula, calibrated, learned := fittedPredictors(t)

	weights := Weights{Formula: 0.2, Calibrated: 0.2, Learned: 0.2}
	ensemble, err := NewEnsemble(extractor.Source(), formula, calibrated, learned, weights, false, quietLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pred, err := ensemble.Combine("Duke", "Kansas", 2025)
	if err != nil {
		t.Fatalf("combine failed: %v", err)
	}
	if !pred.HasWarning(models.WarnWeightsNormalized) {
		t.Fatalf("expected normalization warning, got %v", pred.Warnings)
	}

	third := 1.0 / 3.0
	for _, name := range []string{models.ModelFormula, models.ModelCalibrated, models.ModelLearned} {
		if math.Abs(pred.WeightsUsed[name]-third) > 1e-9 {
			t.Fatalf("expected %s weight %.4f, got %.4f", name, third, pred.WeightsUsed[name])
		}
	}
}

func TestEnsemblePartialModeFallsBackToFormula(t *testing.T) {
	extractor := testExtractor(t)
	formula, _ := NewFormula(DefaultFormulaConfig())
	calibrated, _ := NewCalibrated(DefaultCalibratedConfig(), extractor)
	learned, _ := NewLearned(DefaultLearnedConfig(), extractor)

	ensemble, err := NewEnsemble(extractor.Source(), formula, calibrated, learned, DefaultWeights(), true, quietLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pred, err := ensemble.Combine("Duke", "Kansas", 2025)
	if err != nil {
		t.Fatalf("combine failed: %v", err)
	}
	if !pred.HasWarning(models.WarnPartialEnsemble) {
		t.Fatalf("expected partial-ensemble warning, got %v", pred.Warnings)
	}
	if !pred.HasWarning(models.WarnWeightsNormalized) {
		t.Fatalf("expected normalization warning, got %v", pred.Warnings)
	}

	// Only the formula survived, so its renormalized weight is 1 and the
	// total is exactly the formula total.
	if math.Abs(pred.Total-pred.ModelBreakdown[models.ModelFormula]) > 1e-9 {
		t.Fatalf("expected formula-only total %.4f, got %.4f", pred.ModelBreakdown[models.ModelFormula], pred.Total)
	}
	if pred.WeightsUsed[models.ModelFormula] != 1.0 {
		t.Fatalf("expected formula weight 1.0, got %.4f", pred.WeightsUsed[models.ModelFormula])
	}
}

func TestEnsembleStrictModePropagatesNotFitted(t *testing.T) {
	extractor := testExtractor(t)
	formula, _ := NewFormula(DefaultFormulaConfig())
	calibrated, _ := NewCalibrated(DefaultCalibratedConfig(), extractor)
	learned, _ := NewLearned(DefaultLearnedConfig(), extractor)

	ensemble, _ := NewEnsemble(extractor.Source(), formula, calibrated, learned, DefaultWeights(), false, quietLogger())
	if _, err := ensemble.Combine("Duke", "Kansas", 2025); !errors.Is(err, models.ErrNotFitted) {
		t.Fatalf("expected ErrNotFitted, got %v", err)
	}
}

func TestEnsembleMissingTeam(t *testing.T) {
	extractor, formula, calibrated, learned := fittedPredictors(t)
	ensemble, _ := NewEnsemble(extractor.Source(), formula, calibrated, learned, DefaultWeights(), false, quietLogger())

	if _, err := ensemble.Combine("Nowhere State", "Kansas", 2025); !errors.Is(err, models.ErrMissingStats) {
		t.Fatalf("expected ErrMissingStats, got %v", err)
	}
	if _, err := ensemble.Combine("Duke", "Kansas", 1999); !errors.Is(err, models.ErrMissingStats) {
		t.Fatalf("expected ErrMissingStats for unknown season, got %v", err)
	}
}

func TestEnsembleRejectsInvalidWeights(t *testing.T) {
	extractor, formula, calibrated, learned := fittedPredictors(t)

	cases := []Weights{
		{Formula: -0.1, Calibrated: 0.6, Learned: 0.5},
		{Formula: 0, Calibrated: 0, Learned: 0},
	}
	for _, w := range cases {
		if _, err := NewEnsemble(extractor.Source(), formula, calibrated, learned, w, false, quietLogger()); err == nil {
			t.Fatalf("expected weight validation error for %+v", w)
		}
	}
}
