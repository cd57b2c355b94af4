// Package metrics provides the centralized Prometheus registry for the
// prediction engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PredictionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "courtside",
		Name:      "predictions_total",
		Help:      "Total number of ensemble predictions served",
	})
	PredictionErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "courtside",
		Name:      "prediction_errors_total",
		Help:      "Total number of failed prediction calls by reason",
	}, []string{"reason"})
	TrainingRunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "courtside",
		Name:      "training_runs_total",
		Help:      "Total number of completed training runs",
	})
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "courtside",
		Name:      "prediction_cache_hits_total",
		Help:      "Total number of prediction cache hits",
	})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "courtside",
		Name:      "prediction_cache_misses_total",
		Help:      "Total number of prediction cache misses",
	})
)

// Gauge metrics
var (
	ModelMAE = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "courtside",
		Name:      "model_mae",
		Help:      "Cross-validated mean absolute error per model and split scheme",
	}, []string{"model", "scheme"})
	TrainingGamesUsed = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "courtside",
		Name:      "training_games_used",
		Help:      "Games used in the latest training run",
	})
	TrainingGamesSkipped = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "courtside",
		Name:      "training_games_skipped",
		Help:      "Games skipped for missing stats in the latest training run",
	})
)

// Histogram metrics
var (
	TrainingDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "courtside",
		Name:      "training_duration_seconds",
		Help:      "Training run duration in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
	})
	PredictionLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "courtside",
		Name:      "prediction_latency_seconds",
		Help:      "Ensemble prediction latency in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
	})
)

// InitRegistry initializes the global registry and registers all metrics
func InitRegistry() {
	once.Do(func() {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			PredictionsTotal,
			PredictionErrorsTotal,
			TrainingRunsTotal,
			CacheHitsTotal,
			CacheMissesTotal,
			ModelMAE,
			TrainingGamesUsed,
			TrainingGamesSkipped,
			TrainingDuration,
			PredictionLatency,
		)
	})
}

// GetRegistry returns the global registry
func GetRegistry() *prometheus.Registry {
	InitRegistry()
	return registry
}

// Handler returns an HTTP handler serving the registry
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordPrediction increments the prediction counter and observes latency
func RecordPrediction(latencySeconds float64) {
	PredictionsTotal.Inc()
	PredictionLatency.Observe(latencySeconds)
}

// RecordPredictionError counts a failed prediction call
func RecordPredictionError(reason string) {
	PredictionErrorsTotal.WithLabelValues(reason).Inc()
}

// RecordTrainingRun records a completed training run
func RecordTrainingRun(durationSeconds float64, gamesUsed, gamesSkipped int) {
	TrainingRunsTotal.Inc()
	TrainingDuration.Observe(durationSeconds)
	TrainingGamesUsed.Set(float64(gamesUsed))
	TrainingGamesSkipped.Set(float64(gamesSkipped))
}

// UpdateModelMAE publishes a cross-validated MAE value
func UpdateModelMAE(model, scheme string, mae float64) {
	ModelMAE.WithLabelValues(model, scheme).Set(mae)
}
