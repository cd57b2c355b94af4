package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/courtside-totals/internal/database"
	"github.com/yourusername/courtside-totals/internal/models"
)

// PostgresEvaluationRepository implements EvaluationRepository for PostgreSQL
type PostgresEvaluationRepository struct {
	db *database.DB
}

// NewPostgresEvaluationRepository creates a new evaluation repository
func NewPostgresEvaluationRepository(db *database.DB) EvaluationRepository {
	return &PostgresEvaluationRepository{db: db}
}

// Insert stores an evaluation report
func (r *PostgresEvaluationRepository) Insert(ctx context.Context, report json.RawMessage) error {
	_, err := r.db.GetPool().Exec(ctx, "INSERT INTO evaluations (report) VALUES ($1)", report)
	if err != nil {
		return fmt.Errorf("failed to insert evaluation report: %w", err)
	}
	return nil
}

// GetLatest retrieves the most recent evaluation report
func (r *PostgresEvaluationRepository) GetLatest(ctx context.Context) (json.RawMessage, time.Time, error) {
	var report json.RawMessage
	var createdAt time.Time
	err := r.db.GetPool().QueryRow(ctx,
		"SELECT report, created_at FROM evaluations ORDER BY created_at DESC LIMIT 1",
	).Scan(&report, &createdAt)
	if err == pgx.ErrNoRows {
		return nil, time.Time{}, models.ErrNotFound
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to get latest evaluation: %w", err)
	}
	return report, createdAt, nil
}
