package models

import "fmt"

// TeamSeasonStats holds a team's season-level ratings as supplied by the
// external ratings table. Records are immutable once loaded and keyed
// uniquely by (Team, Season); refreshing requires re-ingesting the source.
type TeamSeasonStats struct {
	Team     string  `db:"team" json:"team" validate:"required"`
	Season   int     `db:"season" json:"season" validate:"required,gt=1900"`
	Tempo    float64 `db:"tempo" json:"tempo" validate:"required,gt=0"`
	AdjOE    float64 `db:"adj_oe" json:"adj_oe" validate:"required,gt=0"`
	AdjDE    float64 `db:"adj_de" json:"adj_de" validate:"required,gt=0"`
	EFGPct   float64 `db:"efg_pct" json:"efg_pct" validate:"gte=0,lte=1"`
	TOVRate  float64 `db:"tov_rate" json:"tov_rate" validate:"gte=0,lte=1"`
	ORebPct  float64 `db:"oreb_pct" json:"oreb_pct" validate:"gte=0,lte=1"`
	DRebPct  float64 `db:"dreb_pct" json:"dreb_pct" validate:"gte=0,lte=1"`
}

// Validate checks that all required fields carry usable values. A record
// missing any required field is rejected at ingestion rather than defaulted.
func (s *TeamSeasonStats) Validate() error {
	if s.Team == "" {
		return fmt.Errorf("team name is required")
	}
	if s.Season <= 1900 {
		return fmt.Errorf("invalid season %d for %s", s.Season, s.Team)
	}
	if s.Tempo <= 0 {
		return fmt.Errorf("tempo must be positive for %s (%d)", s.Team, s.Season)
	}
	if s.AdjOE <= 0 || s.AdjDE <= 0 {
		return fmt.Errorf("efficiency ratings must be positive for %s (%d)", s.Team, s.Season)
	}
	for name, rate := range map[string]float64{
		"efg_pct":  s.EFGPct,
		"tov_rate": s.TOVRate,
		"oreb_pct": s.ORebPct,
		"dreb_pct": s.DRebPct,
	} {
		if rate < 0 || rate > 1 {
			return fmt.Errorf("%s out of range [0,1] for %s (%d)", name, s.Team, s.Season)
		}
	}
	return nil
}

// Key returns the unique (team, season) identity of the record
func (s *TeamSeasonStats) Key() string {
	return fmt.Sprintf("%s:%d", s.Team, s.Season)
}
