package models

import "testing"

func TestPredictionMargin(t *testing.T) {
	pred := &Prediction{Total: 145.0, HomePoints: 75.5, AwayPoints: 69.5}

	if got := pred.Margin(); got != 6.0 {
		t.Errorf("expected margin 6.0, got %v", got)
	}
}

func TestPredictionHasWarning(t *testing.T) {
	pred := &Prediction{Warnings: []string{WarnWeightsNormalized}}

	if !pred.HasWarning(WarnWeightsNormalized) {
		t.Error("expected attached warning to be reported")
	}
	if pred.HasWarning(WarnPartialEnsemble) {
		t.Error("unexpected warning reported")
	}
}
