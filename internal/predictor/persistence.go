package predictor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/yourusername/courtside-totals/internal/features"
	"github.com/yourusername/courtside-totals/internal/models"
)

// stateBundle is the opaque serialized form of a fitted predictor. It
// embeds the feature schema the model was trained against so a stale
// bundle is rejected at load time instead of producing garbage.
type stateBundle struct {
	Model         string          `json:"model"`
	SchemaVersion string          `json:"schema_version"`
	FeatureNames  []string        `json:"feature_names"`
	TrainedAt     time.Time       `json:"trained_at"`
	Payload       json.RawMessage `json:"payload"`
}

func marshalBundle(model string, payload interface{}) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s state: %w", model, err)
	}
	bundle := stateBundle{
		Model:         model,
		SchemaVersion: features.SchemaVersion,
		FeatureNames:  features.NamesCopy(),
		TrainedAt:     time.Now().UTC(),
		Payload:       raw,
	}
	data, err := json.Marshal(bundle)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s bundle: %w", model, err)
	}
	return data, nil
}

func unmarshalBundle(data []byte, model string, payload interface{}) error {
	var bundle stateBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return fmt.Errorf("failed to parse %s bundle: %w", model, err)
	}
	if bundle.Model != model {
		return fmt.Errorf("bundle holds %q state, expected %q", bundle.Model, model)
	}
	if err := checkSchema(bundle); err != nil {
		return err
	}
	if err := json.Unmarshal(bundle.Payload, payload); err != nil {
		return fmt.Errorf("failed to parse %s state: %w", model, err)
	}
	return nil
}

func checkSchema(bundle stateBundle) error {
	if bundle.SchemaVersion != features.SchemaVersion {
		return fmt.Errorf("%w: bundle schema %s, current %s",
			models.ErrSchemaMismatch, bundle.SchemaVersion, features.SchemaVersion)
	}
	if len(bundle.FeatureNames) != features.Count() {
		return fmt.Errorf("%w: bundle has %d features, extractor produces %d",
			models.ErrSchemaMismatch, len(bundle.FeatureNames), features.Count())
	}
	for i, name := range bundle.FeatureNames {
		if name != features.Names[i] {
			return fmt.Errorf("%w: feature %d is %q, expected %q",
				models.ErrSchemaMismatch, i, name, features.Names[i])
		}
	}
	return nil
}

func saveBundleFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	return nil
}

func loadBundleFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}
	return data, nil
}
