package models

import "time"

// Model names used in prediction breakdowns and persisted artifacts
const (
	ModelFormula    = "formula"
	ModelCalibrated = "calibrated"
	ModelLearned    = "learned"
	ModelEnsemble   = "ensemble"
)

// Prediction is the output of one ensemble inference call. Produced fresh
// per call; persistence is a collaborator's concern, not the core's.
type Prediction struct {
	Total          float64            `json:"total"`
	HomePoints     float64            `json:"home_points"`
	AwayPoints     float64            `json:"away_points"`
	ModelBreakdown map[string]float64 `json:"model_breakdown"`
	WeightsUsed    map[string]float64 `json:"weights_used"`
	Warnings       []string           `json:"warnings,omitempty"`
	PredictedAt    time.Time          `json:"predicted_at"`
}

// Margin returns the predicted home minus away point differential
func (p *Prediction) Margin() float64 {
	return p.HomePoints - p.AwayPoints
}

// HasWarning reports whether the given warning was attached
func (p *Prediction) HasWarning(warning string) bool {
	for _, w := range p.Warnings {
		if w == warning {
			return true
		}
	}
	return false
}
