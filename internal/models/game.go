package models

import (
	"fmt"
	"time"
)

// Matchup is an ordered pairing of a home and away team for a season.
// The order matters: the home-court adjustment is applied to the first team.
type Matchup struct {
	HomeTeam string `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam string `db:"away_team" json:"away_team" validate:"required"`
	Season   int    `db:"season" json:"season" validate:"required,gt=1900"`
}

// Validate checks the matchup fields
func (m *Matchup) Validate() error {
	if m.HomeTeam == "" || m.AwayTeam == "" {
		return fmt.Errorf("both home and away teams are required")
	}
	if m.HomeTeam == m.AwayTeam {
		return fmt.Errorf("home and away teams must differ")
	}
	if m.Season <= 1900 {
		return fmt.Errorf("invalid season %d", m.Season)
	}
	return nil
}

// HistoricalGame is a completed game with its realized combined score.
// The date orders time-series evaluation splits. Immutable once recorded.
type HistoricalGame struct {
	Date        time.Time `db:"played_at" json:"date" validate:"required"`
	HomeTeam    string    `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam    string    `db:"away_team" json:"away_team" validate:"required"`
	Season      int       `db:"season" json:"season" validate:"required"`
	ActualTotal float64   `db:"actual_total" json:"actual_total" validate:"required,gt=0"`
}

// Matchup returns the game's matchup view
func (g *HistoricalGame) Matchup() Matchup {
	return Matchup{HomeTeam: g.HomeTeam, AwayTeam: g.AwayTeam, Season: g.Season}
}
