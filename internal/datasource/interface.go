package datasource

import (
	"context"

	"github.com/yourusername/courtside-totals/internal/models"
)

// DataSource supplies the two tables the prediction core consumes:
// per-team season stats and completed games with actual totals.
type DataSource interface {
	Name() string
	FetchTeamStats(ctx context.Context, season int) ([]*models.TeamSeasonStats, error)
	FetchGames(ctx context.Context, season int) ([]*models.HistoricalGame, error)
	Close() error
}
