package predictor

import (
	"fmt"
	"math/rand"

	"github.com/yourusername/courtside-totals/internal/features"
	"github.com/yourusername/courtside-totals/internal/models"
)

// Supported tree-ensemble algorithms
const (
	AlgorithmRandomForest  = "random_forest"
	AlgorithmGradientBoost = "gradient_boost"
)

// LearnedConfig holds tree-ensemble hyperparameters
type LearnedConfig struct {
	Algorithm      string
	NumTrees       int
	MaxDepth       int
	MinLeaf        int
	LearningRate   float64
	SubsampleRatio float64
	Seed           int64
}

// DefaultLearnedConfig returns a small random forest suitable for
// season-sized training sets
func DefaultLearnedConfig() LearnedConfig {
	return LearnedConfig{
		Algorithm:      AlgorithmRandomForest,
		NumTrees:       100,
		MaxDepth:       5,
		MinLeaf:        3,
		LearningRate:   0.1,
		SubsampleRatio: 0.8,
		Seed:           42,
	}
}

// Validate checks hyperparameter bounds
func (c LearnedConfig) Validate() error {
	if c.Algorithm != AlgorithmRandomForest && c.Algorithm != AlgorithmGradientBoost {
		return fmt.Errorf("unknown algorithm %q", c.Algorithm)
	}
	if c.NumTrees <= 0 {
		return fmt.Errorf("num trees must be positive")
	}
	if c.MaxDepth <= 0 {
		return fmt.Errorf("max depth must be positive")
	}
	if c.MinLeaf <= 0 {
		return fmt.Errorf("min leaf must be positive")
	}
	if c.Algorithm == AlgorithmGradientBoost && (c.LearningRate <= 0 || c.LearningRate > 1) {
		return fmt.Errorf("learning rate must be in (0, 1]")
	}
	if c.SubsampleRatio <= 0 || c.SubsampleRatio > 1 {
		return fmt.Errorf("subsample ratio must be in (0, 1]")
	}
	return nil
}

// learnedState is the fitted ensemble persisted in the artifact
type learnedState struct {
	Algorithm      string      `json:"algorithm"`
	BasePrediction float64     `json:"base_prediction"`
	LearningRate   float64     `json:"learning_rate"`
	Trees          []*treeNode `json:"trees"`
	Importances    []float64   `json:"importances"`
}

// Learned is the tree-ensemble regressor trained directly on feature
// vectors without reference to the formula baseline. A fixed seed makes
// fit and predict deterministic.
type Learned struct {
	cfg       LearnedConfig
	extractor *features.Extractor
	state     *learnedState
}

// NewLearned creates an unfitted tree-ensemble predictor
func NewLearned(cfg LearnedConfig, extractor *features.Extractor) (*Learned, error) {
	if extractor == nil {
		return nil, fmt.Errorf("feature extractor is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid learned config: %w", err)
	}
	return &Learned{cfg: cfg, extractor: extractor}, nil
}

// Fit trains the configured tree ensemble on feature vectors and totals
func (l *Learned) Fit(X [][]float64, y []float64) error {
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

	rng := rand.New(rand.NewSource(l.cfg.Seed))
	importances := make([]float64, p)

	var state *learnedState
	switch l.cfg.Algorithm {
	case AlgorithmRandomForest:
		state = l.fitForest(X, y, rng, importances)
	case AlgorithmGradientBoost:
		state = l.fitBoosted(X, y, rng, importances)
	default:
		return fmt.Errorf("unknown algorithm %q", l.cfg.Algorithm)
	}

	normalizeImportances(importances)
	state.Importances = importances
	l.state = state
	return nil
}

func (l *Learned) fitForest(X [][]float64, y []float64, rng *rand.Rand, importances []float64) *learnedState {
	n := len(X)
	p := len(X[0])
	params := treeParams{
		maxDepth:    l.cfg.MaxDepth,
		minLeaf:     l.cfg.MinLeaf,
		maxFeatures: maxInt(1, p/3),
	}

	trees := make([]*treeNode, 0, l.cfg.NumTrees)
	for t := 0; t < l.cfg.NumTrees; t++ {
		// bootstrap sample
		idx := make([]int, n)
		for i := range idx {
			idx[i] = rng.Intn(n)
		}
		trees = append(trees, buildTree(X, y, idx, 0, params, rng, importances))
	}

	return &learnedState{
		Algorithm: AlgorithmRandomForest,
		Trees:     trees,
	}
}

func (l *Learned) fitBoosted(X [][]float64, y []float64, rng *rand.Rand, importances []float64) *learnedState {
	n := len(X)
	params := treeParams{
		maxDepth: l.cfg.MaxDepth,
		minLeaf:  l.cfg.MinLeaf,
	}

	base := mean(y)
	preds := make([]float64, n)
	for i := range preds {
		preds[i] = base
	}

	residuals := make([]float64, n)
	trees := make([]*treeNode, 0, l.cfg.NumTrees)
	sampleSize := maxInt(params.minLeaf*2, int(l.cfg.SubsampleRatio*float64(n)))
	if sampleSize > n {
		sampleSize = n
	}

	for t := 0; t < l.cfg.NumTrees; t++ {
		for i := range residuals {
			residuals[i] = y[i] - preds[i]
		}
		idx := rng.Perm(n)[:sampleSize]
		tree := buildTree(X, residuals, idx, 0, params, rng, importances)
		trees = append(trees, tree)
		for i := range preds {
			preds[i] += l.cfg.LearningRate * tree.predict(X[i])
		}
	}

	return &learnedState{
		Algorithm:      AlgorithmGradientBoost,
		BasePrediction: base,
		LearningRate:   l.cfg.LearningRate,
		Trees:          trees,
	}
}

// Predict derives features for the matchup and runs the fitted ensemble
func (l *Learned) Predict(homeTeam, awayTeam string, season int) (float64, error) {
	vector, err := l.extractor.Extract(homeTeam, awayTeam, season)
	if err != nil {
		return 0, err
	}
	return l.PredictVector(vector)
}

// PredictVector runs the fitted ensemble on an already-derived vector
func (l *Learned) PredictVector(vector []float64) (float64, error) {
	if l.state == nil {
		return 0, fmt.Errorf("%w: learned predictor", models.ErrNotFitted)
	}
	if len(vector) != len(l.state.Importances) {
		return 0, fmt.Errorf("%w: vector width %d, fitted width %d",
			models.ErrSchemaMismatch, len(vector), len(l.state.Importances))
	}

	switch l.state.Algorithm {
	case AlgorithmGradientBoost:
		total := l.state.BasePrediction
		for _, tree := range l.state.Trees {
			total += l.state.LearningRate * tree.predict(vector)
		}
		return total, nil
	default:
		sum := 0.0
		for _, tree := range l.state.Trees {
			sum += tree.predict(vector)
		}
		return sum / float64(len(l.state.Trees)), nil
	}
}

// FeatureImportances returns the normalized per-feature split gains,
// keyed by schema order. Diagnostic only; not used for prediction.
func (l *Learned) FeatureImportances() (map[string]float64, error) {
	if l.state == nil {
		return nil, fmt.Errorf("%w: learned predictor", models.ErrNotFitted)
	}
	out := make(map[string]float64, len(l.state.Importances))
	for j, v := range l.state.Importances {
		out[features.Names[j]] = v
	}
	return out, nil
}

// IsFitted reports whether the predictor has learned state
func (l *Learned) IsFitted() bool {
	return l.state != nil
}

// StateJSON serializes the fitted state as an opaque versioned bundle
func (l *Learned) StateJSON() ([]byte, error) {
	if l.state == nil {
		return nil, fmt.Errorf("%w: learned predictor", models.ErrNotFitted)
	}
	return marshalBundle(models.ModelLearned, l.state)
}

// RestoreState loads fitted state from a bundle, rejecting schema drift
func (l *Learned) RestoreState(data []byte) error {
	state := &learnedState{}
	if err := unmarshalBundle(data, models.ModelLearned, state); err != nil {
		return err
	}
	l.state = state
	return nil
}

// SaveState writes the fitted state bundle to disk
func (l *Learned) SaveState(path string) error {
	data, err := l.StateJSON()
	if err != nil {
		return err
	}
	return saveBundleFile(path, data)
}

// LoadState reads a fitted state bundle from disk
func (l *Learned) LoadState(path string) error {
	data, err := loadBundleFile(path)
	if err != nil {
		return err
	}
	return l.RestoreState(data)
}

func normalizeImportances(importances []float64) {
	total := 0.0
	for _, v := range importances {
		total += v
	}
	if total == 0 {
		return
	}
	for j := range importances {
		importances[j] /= total
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
