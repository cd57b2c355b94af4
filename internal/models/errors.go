package models

import "errors"

// Custom errors
var (
	// ErrMissingStats indicates a team has no season stats in the input table
	ErrMissingStats = errors.New("team season stats not found")

	// ErrNotFitted indicates predict was called before fit
	ErrNotFitted = errors.New("predictor has not been fitted")

	// ErrInsufficientData indicates the training set is too small for cross-validation
	ErrInsufficientData = errors.New("insufficient historical games for training")

	// ErrSchemaMismatch indicates a persisted model was trained against a different feature schema
	ErrSchemaMismatch = errors.New("model artifact feature schema mismatch")

	// ErrNotFound indicates a record is absent from storage
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateKey indicates a unique constraint violation
	ErrDuplicateKey = errors.New("duplicate key violation")
)

// WarnWeightsNormalized is attached to a Prediction when ensemble weights
// did not sum to 1 within tolerance and were renormalized before combining.
const WarnWeightsNormalized = "ensemble weights normalized to sum to 1"

// WarnPartialEnsemble is attached to a Prediction when one or more
// sub-predictors were unavailable and weights were renormalized over the rest.
const WarnPartialEnsemble = "ensemble combined over a subset of models"
