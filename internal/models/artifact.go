package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ModelArtifact represents a persisted fitted-model bundle
type ModelArtifact struct {
	ID            uuid.UUID       `db:"id" json:"id" validate:"required,uuid4"`
	Name          string          `db:"name" json:"name" validate:"required"`
	Version       string          `db:"version" json:"version" validate:"required"`
	SchemaVersion string          `db:"schema_version" json:"schema_version" validate:"required"`
	Payload       json.RawMessage `db:"payload" json:"payload"`
	Metrics       json.RawMessage `db:"metrics" json:"metrics"`
	TrainedAt     time.Time       `db:"trained_at" json:"trained_at" validate:"required"`
	Active        bool            `db:"active" json:"active"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// IsActive checks if the artifact is the live version for its model name
func (a *ModelArtifact) IsActive() bool {
	return a.Active
}

// GetMetric retrieves a metric value from the Metrics JSON
func (a *ModelArtifact) GetMetric(name string) (interface{}, error) {
	if a.Metrics == nil {
		return nil, nil
	}

	var metrics map[string]interface{}
	if err := json.Unmarshal(a.Metrics, &metrics); err != nil {
		return nil, err
	}

	return metrics[name], nil
}
