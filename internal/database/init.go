package database

import (
	"context"
	"fmt"

	"github.com/yourusername/courtside-totals/internal/config"
)

// schema holds the DDL for the core tables. Idempotent so startup can
// run it unconditionally.
const schema = `
CREATE TABLE IF NOT EXISTS team_season_stats (
	team TEXT NOT NULL,
	season INT NOT NULL,
	tempo DOUBLE PRECISION NOT NULL,
	adj_oe DOUBLE PRECISION NOT NULL,
	adj_de DOUBLE PRECISION NOT NULL,
	efg_pct DOUBLE PRECISION NOT NULL,
	tov_rate DOUBLE PRECISION NOT NULL,
	oreb_pct DOUBLE PRECISION NOT NULL,
	dreb_pct DOUBLE PRECISION NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (team, season)
);

CREATE TABLE IF NOT EXISTS games (
	id BIGSERIAL PRIMARY KEY,
	played_at TIMESTAMPTZ NOT NULL,
	home_team TEXT NOT NULL,
	away_team TEXT NOT NULL,
	season INT NOT NULL,
	actual_total DOUBLE PRECISION NOT NULL,
	UNIQUE (played_at, home_team, away_team)
);

CREATE TABLE IF NOT EXISTS model_artifacts (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	version TEXT NOT NULL,
	schema_version TEXT NOT NULL,
	payload JSONB NOT NULL,
	metrics JSONB,
	trained_at TIMESTAMPTZ NOT NULL,
	active BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (name, version)
);

CREATE TABLE IF NOT EXISTS evaluations (
	id BIGSERIAL PRIMARY KEY,
	report JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// Initialize creates a database connection pool and ensures the schema exists
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if _, err := db.pool.Exec(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}
