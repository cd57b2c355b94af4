package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yourusername/courtside-totals/internal/database"
	"github.com/yourusername/courtside-totals/internal/models"
)

// PostgresModelRepository implements ModelRepository for PostgreSQL
type PostgresModelRepository struct {
	db *database.DB
}

// NewPostgresModelRepository creates a new model repository
func NewPostgresModelRepository(db *database.DB) ModelRepository {
	return &PostgresModelRepository{db: db}
}

const artifactColumns = "id, name, version, schema_version, payload, metrics, trained_at, active, created_at, updated_at"

// Create inserts a new model artifact
func (r *PostgresModelRepository) Create(ctx context.Context, artifact *models.ModelArtifact) error {
	query := `
		INSERT INTO model_artifacts (id, name, version, schema_version, payload, metrics, trained_at, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		artifact.ID, artifact.Name, artifact.Version, artifact.SchemaVersion,
		artifact.Payload, artifact.Metrics, artifact.TrainedAt, artifact.Active,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("model artifact %s/%s: %w", artifact.Name, artifact.Version, models.ErrDuplicateKey)
		}
		return fmt.Errorf("failed to create model artifact: %w", err)
	}

	return nil
}

// GetByID retrieves an artifact by ID
func (r *PostgresModelRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ModelArtifact, error) {
	query := `SELECT ` + artifactColumns + ` FROM model_artifacts WHERE id = $1`
	return r.queryOne(ctx, query, id)
}

// GetActive retrieves the active artifact for a model name
func (r *PostgresModelRepository) GetActive(ctx context.Context, name string) (*models.ModelArtifact, error) {
	query := `SELECT ` + artifactColumns + ` FROM model_artifacts WHERE name = $1 AND active = true`
	return r.queryOne(ctx, query, name)
}

// GetByVersion retrieves a specific artifact version
func (r *PostgresModelRepository) GetByVersion(ctx context.Context, name, version string) (*models.ModelArtifact, error) {
	query := `SELECT ` + artifactColumns + ` FROM model_artifacts WHERE name = $1 AND version = $2`
	return r.queryOne(ctx, query, name, version)
}

// List retrieves all artifacts ordered by name and recency
func (r *PostgresModelRepository) List(ctx context.Context, name string) ([]*models.ModelArtifact, error) {
	query := `SELECT ` + artifactColumns + ` FROM model_artifacts WHERE name = $1 ORDER BY trained_at DESC`

	rows, err := r.db.GetPool().Query(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query model artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []*models.ModelArtifact
	for rows.Next() {
		artifact := &models.ModelArtifact{}
		err := rows.Scan(
			&artifact.ID, &artifact.Name, &artifact.Version, &artifact.SchemaVersion,
			&artifact.Payload, &artifact.Metrics, &artifact.TrainedAt, &artifact.Active,
			&artifact.CreatedAt, &artifact.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan model artifact: %w", err)
		}
		artifacts = append(artifacts, artifact)
	}

	return artifacts, rows.Err()
}

// SetActive sets an artifact as active and deactivates other versions
func (r *PostgresModelRepository) SetActive(ctx context.Context, id uuid.UUID) error {
	artifact, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	tx, err := r.db.GetPool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, "UPDATE model_artifacts SET active = false WHERE name = $1 AND id != $2", artifact.Name, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate other versions: %w", err)
	}

	_, err = tx.Exec(ctx, "UPDATE model_artifacts SET active = true, updated_at = NOW() WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to activate artifact: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *PostgresModelRepository) queryOne(ctx context.Context, query string, args ...interface{}) (*models.ModelArtifact, error) {
	artifact := &models.ModelArtifact{}
	err := r.db.GetPool().QueryRow(ctx, query, args...).Scan(
		&artifact.ID, &artifact.Name, &artifact.Version, &artifact.SchemaVersion,
		&artifact.Payload, &artifact.Metrics, &artifact.TrainedAt, &artifact.Active,
		&artifact.CreatedAt, &artifact.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get model artifact: %w", err)
	}

	return artifact, nil
}
