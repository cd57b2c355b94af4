package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/courtside-totals/internal/database"
	"github.com/yourusername/courtside-totals/internal/models"
)

// PostgresTeamStatsRepository implements TeamStatsRepository for PostgreSQL
type PostgresTeamStatsRepository struct {
	db *database.DB
}

// NewPostgresTeamStatsRepository creates a new team stats repository
func NewPostgresTeamStatsRepository(db *database.DB) TeamStatsRepository {
	return &PostgresTeamStatsRepository{db: db}
}

const teamStatsColumns = "team, season, tempo, adj_oe, adj_de, efg_pct, tov_rate, oreb_pct, dreb_pct"

// Upsert inserts or replaces a team's season stats record
func (r *PostgresTeamStatsRepository) Upsert(ctx context.Context, stats *models.TeamSeasonStats) error {
	if err := stats.Validate(); err != nil {
		return fmt.Errorf("rejecting invalid stats record: %w", err)
	}

	query := `
		INSERT INTO team_season_stats (` + teamStatsColumns + `, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		ON CONFLICT (team, season) DO UPDATE SET
			tempo = EXCLUDED.tempo, adj_oe = EXCLUDED.adj_oe, adj_de = EXCLUDED.adj_de,
			efg_pct = EXCLUDED.efg_pct, tov_rate = EXCLUDED.tov_rate,
			oreb_pct = EXCLUDED.oreb_pct, dreb_pct = EXCLUDED.dreb_pct,
			updated_at = NOW()
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		stats.Team, stats.Season, stats.Tempo, stats.AdjOE, stats.AdjDE,
		stats.EFGPct, stats.TOVRate, stats.ORebPct, stats.DRebPct,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert team stats: %w", err)
	}

	return nil
}

// UpsertBatch inserts or replaces multiple records
func (r *PostgresTeamStatsRepository) UpsertBatch(ctx context.Context, stats []*models.TeamSeasonStats) error {
	tx, err := r.db.GetPool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, s := range stats {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("rejecting invalid stats record: %w", err)
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO team_season_stats (`+teamStatsColumns+`, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
			ON CONFLICT (team, season) DO UPDATE SET
				tempo = EXCLUDED.tempo, adj_oe = EXCLUDED.adj_oe, adj_de = EXCLUDED.adj_de,
				efg_pct = EXCLUDED.efg_pct, tov_rate = EXCLUDED.tov_rate,
				oreb_pct = EXCLUDED.oreb_pct, dreb_pct = EXCLUDED.dreb_pct,
				updated_at = NOW()`,
			s.Team, s.Season, s.Tempo, s.AdjOE, s.AdjDE,
			s.EFGPct, s.TOVRate, s.ORebPct, s.DRebPct,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert stats for %s: %w", s.Team, err)
		}
	}

	return tx.Commit(ctx)
}

// Get retrieves a single (team, season) record
func (r *PostgresTeamStatsRepository) Get(ctx context.Context, team string, season int) (*models.TeamSeasonStats, error) {
	query := `SELECT ` + teamStatsColumns + ` FROM team_season_stats WHERE team = $1 AND season = $2`

	stats := &models.TeamSeasonStats{}
	err := r.db.GetPool().QueryRow(ctx, query, team, season).Scan(
		&stats.Team, &stats.Season, &stats.Tempo, &stats.AdjOE, &stats.AdjDE,
		&stats.EFGPct, &stats.TOVRate, &stats.ORebPct, &stats.DRebPct,
	)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("%w: %s (%d)", models.ErrMissingStats, team, season)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team stats: %w", err)
	}

	return stats, nil
}

// GetBySeason retrieves all team records for a season
func (r *PostgresTeamStatsRepository) GetBySeason(ctx context.Context, season int) ([]*models.TeamSeasonStats, error) {
	query := `SELECT ` + teamStatsColumns + ` FROM team_season_stats WHERE season = $1 ORDER BY team ASC`

	rows, err := r.db.GetPool().Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("failed to query season stats: %w", err)
	}
	defer rows.Close()

	var result []*models.TeamSeasonStats
	for rows.Next() {
		stats := &models.TeamSeasonStats{}
		err := rows.Scan(
			&stats.Team, &stats.Season, &stats.Tempo, &stats.AdjOE, &stats.AdjDE,
			&stats.EFGPct, &stats.TOVRate, &stats.ORebPct, &stats.DRebPct,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team stats: %w", err)
		}
		result = append(result, stats)
	}

	return result, rows.Err()
}
