// Package repository provides data access for team stats, games, model
// artifacts and evaluation reports.
package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/courtside-totals/internal/models"
)

// TeamStatsRepository defines data access for the per-team season ratings table
type TeamStatsRepository interface {
	Upsert(ctx context.Context, stats *models.TeamSeasonStats) error
	UpsertBatch(ctx context.Context, stats []*models.TeamSeasonStats) error
	Get(ctx context.Context, team string, season int) (*models.TeamSeasonStats, error)
	GetBySeason(ctx context.Context, season int) ([]*models.TeamSeasonStats, error)
}

// GameRepository defines data access for completed games
type GameRepository interface {
	Insert(ctx context.Context, game *models.HistoricalGame) error
	InsertBatch(ctx context.Context, games []*models.HistoricalGame) error
	GetBySeason(ctx context.Context, season int) ([]*models.HistoricalGame, error)
	GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.HistoricalGame, error)
}

// ModelRepository defines data access for persisted model artifacts
type ModelRepository interface {
	Create(ctx context.Context, artifact *models.ModelArtifact) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ModelArtifact, error)
	GetActive(ctx context.Context, name string) (*models.ModelArtifact, error)
	GetByVersion(ctx context.Context, name, version string) (*models.ModelArtifact, error)
	SetActive(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, name string) ([]*models.ModelArtifact, error)
}

// EvaluationRepository defines data access for evaluation reports
type EvaluationRepository interface {
	Insert(ctx context.Context, report json.RawMessage) error
	GetLatest(ctx context.Context) (json.RawMessage, time.Time, error)
}
