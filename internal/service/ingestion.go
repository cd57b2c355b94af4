// Package service provides the table-ingestion workflow wiring the
// external ratings source to storage.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/courtside-totals/internal/datasource"
	"github.com/yourusername/courtside-totals/internal/repository"
)

// IngestionCounts summarizes one ingestion run
type IngestionCounts struct {
	StatsFetched   int
	StatsRejected  int
	GamesFetched   int
	GamesRejected  int
	Duration       time.Duration
}

// IngestionService refreshes the team stats and games tables from a source
type IngestionService struct {
	source    datasource.DataSource
	statsRepo repository.TeamStatsRepository
	gameRepo  repository.GameRepository
	logger    *logrus.Logger
}

// NewIngestionService creates a new ingestion service
func NewIngestionService(source datasource.DataSource, statsRepo repository.TeamStatsRepository, gameRepo repository.GameRepository, logger *logrus.Logger) (*IngestionService, error) {
	if source == nil {
		return nil, fmt.Errorf("data source is required")
	}
	if statsRepo == nil || gameRepo == nil {
		return nil, fmt.Errorf("repositories are required")
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &IngestionService{
		source:    source,
		statsRepo: statsRepo,
		gameRepo:  gameRepo,
		logger:    logger,
	}, nil
}

// IngestSeason fetches and stores the ratings table and completed games
// for one season. Invalid records are rejected and counted, not defaulted.
func (s *IngestionService) IngestSeason(ctx context.Context, season int) (*IngestionCounts, error) {
	start := time.Now()
	counts := &IngestionCounts{}

	stats, err := s.source.FetchTeamStats(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("stats fetch failed for season %d: %w", season, err)
	}
	for _, record := range stats {
		if err := record.Validate(); err != nil {
			counts.StatsRejected++
			s.logger.WithError(err).WithField("team", record.Team).Warn("Rejected stats record")
			continue
		}
		if err := s.statsRepo.Upsert(ctx, record); err != nil {
			return nil, err
		}
		counts.StatsFetched++
	}

	games, err := s.source.FetchGames(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("games fetch failed for season %d: %w", season, err)
	}
	for _, game := range games {
		if game.ActualTotal <= 0 || game.HomeTeam == "" || game.AwayTeam == "" {
			counts.GamesRejected++
			continue
		}
		if err := s.gameRepo.Insert(ctx, game); err != nil {
			return nil, err
		}
		counts.GamesFetched++
	}

	counts.Duration = time.Since(start)
	s.logger.WithFields(logrus.Fields{
		"season":         season,
		"stats_fetched":  counts.StatsFetched,
		"stats_rejected": counts.StatsRejected,
		"games_fetched":  counts.GamesFetched,
		"games_rejected": counts.GamesRejected,
		"duration_ms":    counts.Duration.Milliseconds(),
	}).Info("Season ingestion complete")

	return counts, nil
}
