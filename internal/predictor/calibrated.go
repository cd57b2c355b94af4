package predictor

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/yourusername/courtside-totals/internal/features"
	"github.com/yourusername/courtside-totals/internal/models"
)

// CalibratedConfig holds calibrated-predictor hyperparameters
type CalibratedConfig struct {
	RidgeLambda float64
	FitResidual bool
}

// DefaultCalibratedConfig returns a lightly regularized residual-correction setup
func DefaultCalibratedConfig() CalibratedConfig {
	return CalibratedConfig{RidgeLambda: 1.0, FitResidual: true}
}

// calibratedState is the fitted parameter set persisted in the artifact
type calibratedState struct {
	Weights      []float64 `json:"weights"`
	Intercept    float64   `json:"intercept"`
	FeatureMeans []float64 `json:"feature_means"`
	FeatureStds  []float64 `json:"feature_stds"`
	FitResidual  bool      `json:"fit_residual"`
}

// Calibrated wraps the formula baseline with a learned linear correction.
// In residual mode the prediction is baseline plus correction, so a
// zero-weight correction reduces exactly to the formula total.
type Calibrated struct {
	cfg       CalibratedConfig
	extractor *features.Extractor
	state     *calibratedState
}

// NewCalibrated creates an unfitted calibrated predictor
func NewCalibrated(cfg CalibratedConfig, extractor *features.Extractor) (*Calibrated, error) {
	if extractor == nil {
		return nil, fmt.Errorf("feature extractor is required")
	}
	if cfg.RidgeLambda < 0 {
		return nil, fmt.Errorf("ridge lambda must be non-negative")
	}
	return &Calibrated{cfg: cfg, extractor: extractor}, nil
}

// Fit trains the correction model on feature vectors and actual totals.
// Standardization statistics are fitted jointly and persisted with the
// regression parameters.
func (c *Calibrated) Fit(X [][]float64, y []float64) error {
	n := len(X)
	if n == 0 || n != len(y) {
		return fmt.Errorf("training set is empty or misaligned (%d features, %d labels)", n, len(y))
	}
	p := features.Count()
	for i, row := range X {
		if len(row) != p {
			return fmt.Errorf("feature vector %d has width %d, schema expects %d", i, len(row), p)
		}
	}

	// Residual mode regresses actual minus baseline; feature index 0 is
	// the formula total.
	targets := make([]float64, n)
	for i := range y {
		targets[i] = y[i]
		if c.cfg.FitResidual {
			targets[i] -= X[i][0]
		}
	}

	means, stds := standardizeStats(X)
	z := mat.NewDense(n, p, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			z.Set(i, j, (X[i][j]-means[j])/stds[j])
		}
	}

	intercept := mean(targets)
	centered := mat.NewVecDense(n, nil)
	for i := range targets {
		centered.SetVec(i, targets[i]-intercept)
	}

	// Ridge normal equations: (Z'Z + lambda I) w = Z' t
	var gram mat.Dense
	gram.Mul(z.T(), z)
	for j := 0; j < p; j++ {
		gram.Set(j, j, gram.At(j, j)+c.cfg.RidgeLambda)
	}

	var rhs mat.VecDense
	rhs.MulVec(z.T(), centered)

	var w mat.VecDense
	if err := w.SolveVec(&gram, &rhs); err != nil {
		return fmt.Errorf("ridge solve failed: %w", err)
	}

	weights := make([]float64, p)
	for j := 0; j < p; j++ {
		weights[j] = w.AtVec(j)
	}

	c.state = &calibratedState{
		Weights:      weights,
		Intercept:    intercept,
		FeatureMeans: means,
		FeatureStds:  stds,
		FitResidual:  c.cfg.FitResidual,
	}
	return nil
}

// Predict derives features for the matchup and applies the fitted correction
func (c *Calibrated) Predict(homeTeam, awayTeam string, season int) (float64, error) {
	vector, err := c.extractor.Extract(homeTeam, awayTeam, season)
	if err != nil {
		return 0, err
	}
	return c.PredictVector(vector)
}

// PredictVector applies the fitted model to an already-derived feature vector
func (c *Calibrated) PredictVector(vector []float64) (float64, error) {
	if c.state == nil {
		return 0, fmt.Errorf("%w: calibrated predictor", models.ErrNotFitted)
	}
	if len(vector) != len(c.state.Weights) {
		return 0, fmt.Errorf("%w: vector width %d, fitted width %d",
			models.ErrSchemaMismatch, len(vector), len(c.state.Weights))
	}

	correction := c.state.Intercept
	for j, w := range c.state.Weights {
		correction += w * (vector[j] - c.state.FeatureMeans[j]) / c.state.FeatureStds[j]
	}

	if c.state.FitResidual {
		return vector[0] + correction, nil
	}
	return correction, nil
}

// IsFitted reports whether the predictor has learned state
func (c *Calibrated) IsFitted() bool {
	return c.state != nil
}

// StateJSON serializes the fitted state as an opaque versioned bundle
func (c *Calibrated) StateJSON() ([]byte, error) {
	if c.state == nil {
		return nil, fmt.Errorf("%w: calibrated predictor", models.ErrNotFitted)
	}
	return marshalBundle(models.ModelCalibrated, c.state)
}

// RestoreState loads fitted state from a bundle, rejecting schema drift
func (c *Calibrated) RestoreState(data []byte) error {
	state := &calibratedState{}
	if err := unmarshalBundle(data, models.ModelCalibrated, state); err != nil {
		return err
	}
	c.state = state
	return nil
}

// SaveState writes the fitted state bundle to disk
func (c *Calibrated) SaveState(path string) error {
	data, err := c.StateJSON()
	if err != nil {
		return err
	}
	return saveBundleFile(path, data)
}

// LoadState reads a fitted state bundle from disk
func (c *Calibrated) LoadState(path string) error {
	data, err := loadBundleFile(path)
	if err != nil {
		return err
	}
	return c.RestoreState(data)
}

func standardizeStats(X [][]float64) ([]float64, []float64) {
	n := len(X)
	p := len(X[0])
	means := make([]float64, p)
	stds := make([]float64, p)
	for j := 0; j < p; j++ {
		sum := 0.0
		for i := 0; i < n; i++ {
			sum += X[i][j]
		}
		means[j] = sum / float64(n)

		variance := 0.0
		for i := 0; i < n; i++ {
			diff := X[i][j] - means[j]
			variance += diff * diff
		}
		stds[j] = math.Sqrt(variance / float64(n))
		if stds[j] == 0 {
			// constant feature, avoid dividing by zero
			stds[j] = 1
		}
	}
	return means, stds
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
