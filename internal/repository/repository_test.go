package repository

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/courtside-totals/internal/config"
	"github.com/yourusername/courtside-totals/internal/database"
	"github.com/yourusername/courtside-totals/internal/models"
)

// setupTestRepos connects to the database named by COURTSIDE_TEST_DB_*
// environment variables, skipping when none are configured.
func setupTestRepos(t *testing.T) *Repositories {
	t.Helper()
	host := os.Getenv("COURTSIDE_TEST_DB_HOST")
	if host == "" {
		t.Skip("Integration test - requires database setup (set COURTSIDE_TEST_DB_HOST)")
	}
	port := 5432
	if p := os.Getenv("COURTSIDE_TEST_DB_PORT"); p != "" {
		parsed, err := strconv.Atoi(p)
		if err != nil {
			t.Fatalf("invalid COURTSIDE_TEST_DB_PORT: %v", err)
		}
		port = parsed
	}

	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Host:           host,
			Port:           port,
			Name:           os.Getenv("COURTSIDE_TEST_DB_NAME"),
			User:           os.Getenv("COURTSIDE_TEST_DB_USER"),
			Password:       os.Getenv("COURTSIDE_TEST_DB_PASSWORD"),
			SSLMode:        "disable",
			MaxConnections: 2,
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to initialize test database: %v", err)
	}
	t.Cleanup(db.Close)

	repos, err := NewRepositories(db)
	if err != nil {
		t.Fatalf("failed to create repositories: %v", err)
	}
	return repos
}

func TestTeamStatsRepositoryUpsertAndGet(t *testing.T) {
	repos := setupTestRepos(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stats := &models.TeamSeasonStats{
		Team:    "Repo Test University",
		Season:  2025,
		Tempo:   69,
		AdjOE:   109,
		AdjDE:   96,
		EFGPct:  0.52,
		TOVRate: 0.17,
		ORebPct: 0.3,
		DRebPct: 0.71,
	}
	if err := repos.TeamStats.Upsert(ctx, stats); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	got, err := repos.TeamStats.Get(ctx, stats.Team, stats.Season)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Tempo != stats.Tempo {
		t.Errorf("expected tempo %.1f, got %.1f", stats.Tempo, got.Tempo)
	}

	// Upsert replaces the prior record for the key.
	stats.Tempo = 71
	if err := repos.TeamStats.Upsert(ctx, stats); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	got, err = repos.TeamStats.Get(ctx, stats.Team, stats.Season)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Tempo != 71 {
		t.Errorf("expected updated tempo 71, got %.1f", got.Tempo)
	}
}

func TestTeamStatsRepositoryMissing(t *testing.T) {
	repos := setupTestRepos(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := repos.TeamStats.Get(ctx, "No Such University", 1950)
	if !errors.Is(err, models.ErrMissingStats) {
		t.Fatalf("expected ErrMissingStats, got %v", err)
	}
}

func TestModelRepositoryLifecycle(t *testing.T) {
	repos := setupTestRepos(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	artifact := &models.ModelArtifact{
		ID:            uuid.New(),
		Name:          "calibrated",
		Version:       time.Now().UTC().Format("20060102T150405.000"),
		SchemaVersion: "v1",
		Payload:       json.RawMessage(`{"weights":[0,0,0,0,0,0,0,0],"intercept":0}`),
		Metrics:       json.RawMessage(`{"mae":9.1}`),
		TrainedAt:     time.Now().UTC(),
	}
	if err := repos.Model.Create(ctx, artifact); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, err := repos.Model.GetByID(ctx, artifact.ID)
	if err != nil {
		t.Fatalf("get by id failed: %v", err)
	}
	if got.Version != artifact.Version {
		t.Errorf("expected version %s, got %s", artifact.Version, got.Version)
	}

	if err := repos.Model.SetActive(ctx, artifact.ID); err != nil {
		t.Fatalf("set active failed: %v", err)
	}
	active, err := repos.Model.GetActive(ctx, artifact.Name)
	if err != nil {
		t.Fatalf("get active failed: %v", err)
	}
	if active.ID != artifact.ID {
		t.Errorf("expected active artifact %v, got %v", artifact.ID, active.ID)
	}

	versions, err := repos.Model.List(ctx, artifact.Name)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(versions) == 0 {
		t.Errorf("expected at least one stored version")
	}

	// Re-inserting the same name/version must surface the sentinel.
	duplicate := *artifact
	duplicate.ID = uuid.New()
	if err := repos.Model.Create(ctx, &duplicate); !errors.Is(err, models.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey for a duplicate version, got %v", err)
	}
}

func TestEvaluationRepositoryInsertAndLatest(t *testing.T) {
	repos := setupTestRepos(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	report := json.RawMessage(`{"games_used":120,"mae_kfold":{"ensemble":9.1}}`)
	if err := repos.Evaluation.Insert(ctx, report); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	latest, createdAt, err := repos.Evaluation.GetLatest(ctx)
	if err != nil {
		t.Fatalf("get latest failed: %v", err)
	}
	if len(latest) == 0 {
		t.Errorf("expected a stored report")
	}
	if createdAt.IsZero() {
		t.Errorf("expected a created-at timestamp")
	}
}
