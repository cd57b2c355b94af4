package trainer

import (
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/courtside-totals/internal/features"
	"github.com/yourusername/courtside-totals/internal/models"
	"github.com/yourusername/courtside-totals/internal/predictor"
)

// Config holds training and evaluation parameters
type Config struct {
	KFolds          int
	MinGamesPerFold int
	Seed            int64
}

// DefaultConfig returns 5-fold evaluation with a 10-game fold floor
func DefaultConfig() Config {
	return Config{KFolds: 5, MinGamesPerFold: 10, Seed: 42}
}

// EvaluationReport summarizes cross-validated error per model and scheme
type EvaluationReport struct {
	MAEKFold         map[string]float64 `json:"mae_kfold"`
	MAEChronological map[string]float64 `json:"mae_chronological"`
	GamesUsed        int                `json:"games_used"`
	GamesSkipped     int                `json:"games_skipped"`
	Weights          predictor.Weights  `json:"weights"`
	TrainedAt        time.Time          `json:"trained_at"`
}

// Result carries the predictors fitted on the full dataset plus the report
type Result struct {
	Calibrated *predictor.Calibrated
	Learned    *predictor.Learned
	Report     EvaluationReport
}

// Trainer orchestrates dataset construction, cross-validation and the
// final full-data fit of both learned predictors
type Trainer struct {
	cfg           Config
	extractor     *features.Extractor
	calibratedCfg predictor.CalibratedConfig
	learnedCfg    predictor.LearnedConfig
	weights       predictor.Weights
	logger        *logrus.Logger
}

// New creates a trainer
func New(cfg Config, extractor *features.Extractor, calibratedCfg predictor.CalibratedConfig, learnedCfg predictor.LearnedConfig, weights predictor.Weights, logger *logrus.Logger) (*Trainer, error) {
	if extractor == nil {
		return nil, fmt.Errorf("feature extractor is required")
	}
	if cfg.KFolds < 2 {
		return nil, fmt.Errorf("fold count must be at least 2")
	}
	if cfg.MinGamesPerFold < 1 {
		return nil, fmt.Errorf("minimum games per fold must be at least 1")
	}
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Trainer{
		cfg:           cfg,
		extractor:     extractor,
		calibratedCfg: calibratedCfg,
		learnedCfg:    learnedCfg,
		weights:       weights,
		logger:        logger,
	}, nil
}

// Train builds the dataset, cross-validates under both schemes, fits both
// predictors on the full data and returns them with the evaluation report
func (t *Trainer) Train(games []*models.HistoricalGame) (*Result, error) {
	ds, skipped, err := BuildDataset(games, t.extractor)
	if err != nil {
		return nil, err
	}

	minimum := t.cfg.KFolds * t.cfg.MinGamesPerFold
	if ds.Len() < minimum {
		return nil, fmt.Errorf("%w: %d usable games, need at least %d (%d folds x %d games)",
			models.ErrInsufficientData, ds.Len(), minimum, t.cfg.KFolds, t.cfg.MinGamesPerFold)
	}

	t.logger.WithFields(logrus.Fields{
		"games_used":    ds.Len(),
		"games_skipped": skipped,
		"folds":         t.cfg.KFolds,
	}).Info("Training dataset assembled")

	kfoldSplits, err := KFold(ds.Len(), t.cfg.KFolds, t.cfg.Seed)
	if err != nil {
		return nil, err
	}
	chronoSplits, err := Chronological(ds.Len(), t.cfg.KFolds)
	if err != nil {
		return nil, err
	}

	maeKFold, err := t.crossValidate(ds, kfoldSplits)
	if err != nil {
		return nil, fmt.Errorf("k-fold evaluation failed: %w", err)
	}
	maeChrono, err := t.crossValidate(ds, chronoSplits)
	if err != nil {
		return nil, fmt.Errorf("chronological evaluation failed: %w", err)
	}

	calibrated, learned, err := t.fitFull(ds)
	if err != nil {
		return nil, err
	}

	report := EvaluationReport{
		MAEKFold:         maeKFold,
		MAEChronological: maeChrono,
		GamesUsed:        ds.Len(),
		GamesSkipped:     skipped,
		Weights:          t.weights,
		TrainedAt:        time.Now().UTC(),
	}

	t.logger.WithFields(logrus.Fields{
		"ensemble_mae_kfold":  maeKFold[models.ModelEnsemble],
		"ensemble_mae_chrono": maeChrono[models.ModelEnsemble],
	}).Info("Training complete")

	return &Result{Calibrated: calibrated, Learned: learned, Report: report}, nil
}

// crossValidate fits fresh predictors per fold and accumulates absolute
// errors per model plus the weighted ensemble
func (t *Trainer) crossValidate(ds *Dataset, splits []Split) (map[string]float64, error) {
	errSums := map[string]float64{
		models.ModelFormula:    0,
		models.ModelCalibrated: 0,
		models.ModelLearned:    0,
		models.ModelEnsemble:   0,
	}
	count := 0

	wSum := t.weights.Sum()

	for _, split := range splits {
		trainX, trainY := ds.Subset(split.Train)

		calibrated, err := predictor.NewCalibrated(t.calibratedCfg, t.extractor)
		if err != nil {
			return nil, err
		}
		if err := calibrated.Fit(trainX, trainY); err != nil {
			return nil, err
		}

		learned, err := predictor.NewLearned(t.learnedCfg, t.extractor)
		if err != nil {
			return nil, err
		}
		if err := learned.Fit(trainX, trainY); err != nil {
			return nil, err
		}

		for _, i := range split.Validate {
			actual := ds.Y[i]
			formulaPred := ds.X[i][0]

			calibratedPred, err := calibrated.PredictVector(ds.X[i])
			if err != nil {
				return nil, err
			}
			learnedPred, err := learned.PredictVector(ds.X[i])
			if err != nil {
				return nil, err
			}
			ensemblePred := (t.weights.Formula*formulaPred +
				t.weights.Calibrated*calibratedPred +
				t.weights.Learned*learnedPred) / wSum

			errSums[models.ModelFormula] += math.Abs(formulaPred - actual)
			errSums[models.ModelCalibrated] += math.Abs(calibratedPred - actual)
			errSums[models.ModelLearned] += math.Abs(learnedPred - actual)
			errSums[models.ModelEnsemble] += math.Abs(ensemblePred - actual)
			count++
		}
	}

	if count == 0 {
		return nil, fmt.Errorf("no validation rows across %d folds", len(splits))
	}

	mae := make(map[string]float64, len(errSums))
	for model, sum := range errSums {
		mae[model] = sum / float64(count)
	}
	return mae, nil
}

func (t *Trainer) fitFull(ds *Dataset) (*predictor.Calibrated, *predictor.Learned, error) {
	calibrated, err := predictor.NewCalibrated(t.calibratedCfg, t.extractor)
	if err != nil {
		return nil, nil, err
	}
	if err := calibrated.Fit(ds.X, ds.Y); err != nil {
		return nil, nil, fmt.Errorf("calibrated fit failed: %w", err)
	}

	learned, err := predictor.NewLearned(t.learnedCfg, t.extractor)
	if err != nil {
		return nil, nil, err
	}
	if err := learned.Fit(ds.X, ds.Y); err != nil {
		return nil, nil, fmt.Errorf("learned fit failed: %w", err)
	}
	return calibrated, learned, nil
}
