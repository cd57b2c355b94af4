package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/yourusername/courtside-totals/internal/database"
	"github.com/yourusername/courtside-totals/internal/models"
)

// PostgresGameRepository implements GameRepository for PostgreSQL
type PostgresGameRepository struct {
	db *database.DB
}

// NewPostgresGameRepository creates a new game repository
func NewPostgresGameRepository(db *database.DB) GameRepository {
	return &PostgresGameRepository{db: db}
}

// Insert records a completed game
func (r *PostgresGameRepository) Insert(ctx context.Context, game *models.HistoricalGame) error {
	query := `
		INSERT INTO games (played_at, home_team, away_team, season, actual_total)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (played_at, home_team, away_team) DO NOTHING
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		game.Date, game.HomeTeam, game.AwayTeam, game.Season, game.ActualTotal,
	)
	if err != nil {
		return fmt.Errorf("failed to insert game: %w", err)
	}

	return nil
}

// InsertBatch records multiple completed games in one transaction
func (r *PostgresGameRepository) InsertBatch(ctx context.Context, games []*models.HistoricalGame) error {
	tx, err := r.db.GetPool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, game := range games {
		_, err := tx.Exec(ctx, `
			INSERT INTO games (played_at, home_team, away_team, season, actual_total)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (played_at, home_team, away_team) DO NOTHING`,
			game.Date, game.HomeTeam, game.AwayTeam, game.Season, game.ActualTotal,
		)
		if err != nil {
			return fmt.Errorf("failed to insert game %s vs %s: %w", game.HomeTeam, game.AwayTeam, err)
		}
	}

	return tx.Commit(ctx)
}

// GetBySeason retrieves all games for a season ordered by date
func (r *PostgresGameRepository) GetBySeason(ctx context.Context, season int) ([]*models.HistoricalGame, error) {
	query := `
		SELECT played_at, home_team, away_team, season, actual_total
		FROM games WHERE season = $1 ORDER BY played_at ASC
	`
	return r.queryGames(ctx, query, season)
}

// GetByDateRange retrieves games played within [start, end] ordered by date
func (r *PostgresGameRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.HistoricalGame, error) {
	query := `
		SELECT played_at, home_team, away_team, season, actual_total
		FROM games WHERE played_at >= $1 AND played_at <= $2 ORDER BY played_at ASC
	`
	return r.queryGames(ctx, query, start, end)
}

func (r *PostgresGameRepository) queryGames(ctx context.Context, query string, args ...interface{}) ([]*models.HistoricalGame, error) {
	rows, err := r.db.GetPool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	var games []*models.HistoricalGame
	for rows.Next() {
		game := &models.HistoricalGame{}
		err := rows.Scan(&game.Date, &game.HomeTeam, &game.AwayTeam, &game.Season, &game.ActualTotal)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, game)
	}

	return games, rows.Err()
}
