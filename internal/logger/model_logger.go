// Package logger provides model-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// ModelLogger provides dedicated logging for prediction and training operations.
type ModelLogger struct {
	*logrus.Entry
}

// NewModelLogger creates a new model logger.
func NewModelLogger(baseLogger *logrus.Logger) *ModelLogger {
	return &ModelLogger{
		Entry: baseLogger.WithField("component", "model"),
	}
}

// LogPrediction logs one ensemble prediction.
func (ml *ModelLogger) LogPrediction(homeTeam, awayTeam string, season int, total float64, warnings int) {
	ml.WithFields(logrus.Fields{
		"home_team": homeTeam,
		"away_team": awayTeam,
		"season":    season,
		"total":     total,
		"warnings":  warnings,
	}).Info("Prediction completed")
}

// LogTrainingRun logs a completed training run with its headline metrics.
func (ml *ModelLogger) LogTrainingRun(gamesUsed, gamesSkipped int, ensembleMAEKFold, ensembleMAEChrono float64, durationMs float64) {
	ml.WithFields(logrus.Fields{
		"games_used":          gamesUsed,
		"games_skipped":       gamesSkipped,
		"ensemble_mae_kfold":  ensembleMAEKFold,
		"ensemble_mae_chrono": ensembleMAEChrono,
		"duration_ms":         durationMs,
	}).Info("Training run completed")
}

// LogArtifactSaved logs persistence of a fitted model bundle.
func (ml *ModelLogger) LogArtifactSaved(model, version, schemaVersion, path string) {
	ml.WithFields(logrus.Fields{
		"model":          model,
		"version":        version,
		"schema_version": schemaVersion,
		"path":           path,
	}).Info("Model artifact saved")
}
