package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/yourusername/courtside-totals/internal/config"
	"github.com/yourusername/courtside-totals/internal/models"
)

// RatingsAPI fetches the clean per-team ratings table and completed
// games from the external ratings service as JSON
type RatingsAPI struct {
	baseURL string
	apiKey  string
	client  *RateLimitedHTTPClient
}

// NewRatingsAPI creates a ratings API source from configuration
func NewRatingsAPI(cfg *config.RatingsConfig, logger *log.Logger) *RatingsAPI {
	httpCfg := DefaultHTTPClientConfig()
	httpCfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	httpCfg.MaxRetries = cfg.MaxRetries
	httpCfg.RateLimit = cfg.RateLimit

	return &RatingsAPI{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  NewRateLimitedHTTPClient(httpCfg, logger),
	}
}

// Name returns the source identifier
func (r *RatingsAPI) Name() string {
	return "ratings_api"
}

// ratingsRow mirrors the ratings endpoint's JSON schema
type ratingsRow struct {
	Team    string  `json:"team"`
	Season  int     `json:"season"`
	Tempo   float64 `json:"tempo"`
	AdjOE   float64 `json:"adj_oe"`
	AdjDE   float64 `json:"adj_de"`
	EFGPct  float64 `json:"efg_pct"`
	TOVRate float64 `json:"tov_rate"`
	ORebPct float64 `json:"oreb_pct"`
	DRebPct float64 `json:"dreb_pct"`
}

// gameRow mirrors the results endpoint's JSON schema
type gameRow struct {
	Date        time.Time `json:"date"`
	HomeTeam    string    `json:"home_team"`
	AwayTeam    string    `json:"away_team"`
	Season      int       `json:"season"`
	ActualTotal float64   `json:"actual_total"`
}

// FetchTeamStats retrieves all team ratings for a season
func (r *RatingsAPI) FetchTeamStats(ctx context.Context, season int) ([]*models.TeamSeasonStats, error) {
	url := fmt.Sprintf("%s/v1/ratings?season=%d", r.baseURL, season)

	var rows []ratingsRow
	if err := r.getJSON(ctx, url, &rows); err != nil {
		return nil, fmt.Errorf("failed to fetch team stats: %w", err)
	}

	stats := make([]*models.TeamSeasonStats, 0, len(rows))
	for _, row := range rows {
		stats = append(stats, &models.TeamSeasonStats{
			Team:    row.Team,
			Season:  row.Season,
			Tempo:   row.Tempo,
			AdjOE:   row.AdjOE,
			AdjDE:   row.AdjDE,
			EFGPct:  row.EFGPct,
			TOVRate: row.TOVRate,
			ORebPct: row.ORebPct,
			DRebPct: row.DRebPct,
		})
	}
	return stats, nil
}

// FetchGames retrieves completed games with actual totals for a season
func (r *RatingsAPI) FetchGames(ctx context.Context, season int) ([]*models.HistoricalGame, error) {
	url := fmt.Sprintf("%s/v1/results?season=%d", r.baseURL, season)

	var rows []gameRow
	if err := r.getJSON(ctx, url, &rows); err != nil {
		return nil, fmt.Errorf("failed to fetch games: %w", err)
	}

	games := make([]*models.HistoricalGame, 0, len(rows))
	for _, row := range rows {
		games = append(games, &models.HistoricalGame{
			Date:        row.Date,
			HomeTeam:    row.HomeTeam,
			AwayTeam:    row.AwayTeam,
			Season:      row.Season,
			ActualTotal: row.ActualTotal,
		})
	}
	return games, nil
}

func (r *RatingsAPI) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.client.Do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Close releases the underlying HTTP client
func (r *RatingsAPI) Close() error {
	return r.client.Close()
}
