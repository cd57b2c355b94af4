package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	if err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerLevels(t *testing.T) {
	log := NewLogger("debug")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log = NewLogger("error")
	assert.Equal(t, logrus.ErrorLevel, log.GetLevel())
}

func TestNewLoggerInvalidLevelDefaultsToInfo(t *testing.T) {
	log := NewLogger("extremely-verbose")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestModelLoggerPrediction(t *testing.T) {
	log, buf := setupTestLogger()
	modelLogger := NewModelLogger(log)

	modelLogger.LogPrediction("Duke", "Kansas", 2025, 144.8, 1)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "Duke", logEntry["home_team"])
	assert.Equal(t, "Kansas", logEntry["away_team"])
	assert.Equal(t, float64(2025), logEntry["season"])
	assert.Equal(t, 144.8, logEntry["total"])
	assert.Equal(t, "model", logEntry["component"])
}

func TestModelLoggerTrainingRun(t *testing.T) {
	log, buf := setupTestLogger()
	modelLogger := NewModelLogger(log)

	modelLogger.LogTrainingRun(1200, 14, 9.2, 9.9, 1534.0)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, float64(1200), logEntry["games_used"])
	assert.Equal(t, float64(14), logEntry["games_skipped"])
	assert.Equal(t, 9.2, logEntry["ensemble_mae_kfold"])
}

func TestModelLoggerArtifactSaved(t *testing.T) {
	log, buf := setupTestLogger()
	modelLogger := NewModelLogger(log)

	modelLogger.LogArtifactSaved("calibrated", "20250301T120000", "v1", "artifacts/calibrated.json")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "calibrated", logEntry["model"])
	assert.Equal(t, "v1", logEntry["schema_version"])
}
