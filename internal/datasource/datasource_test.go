package datasource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yourusername/courtside-totals/internal/config"
)

func testRatingsConfig(baseURL string) *config.RatingsConfig {
	return &config.RatingsConfig{
		BaseURL:        baseURL,
		APIKey:         "test-key",
		TimeoutSeconds: 5,
		MaxRetries:     0,
		RateLimit:      100,
	}
}

func TestFetchTeamStats(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/ratings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("season") != "2025" {
			t.Errorf("unexpected season %s", r.URL.Query().Get("season"))
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer token")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"team":"Duke","season":2025,"tempo":70,"adj_oe":110,"adj_de":95,"efg_pct":0.54,"tov_rate":0.16,"oreb_pct":0.33,"dreb_pct":0.74},
			{"team":"Kansas","season":2025,"tempo":68,"adj_oe":105,"adj_de":100,"efg_pct":0.51,"tov_rate":0.18,"oreb_pct":0.29,"dreb_pct":0.70}
		]`))
	}))
	defer server.Close()

	source := NewRatingsAPI(testRatingsConfig(server.URL), nil)
	defer source.Close()

	stats, err := source.FetchTeamStats(context.Background(), 2025)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 records, got %d", len(stats))
	}
	if stats[0].Team != "Duke" || stats[0].Tempo != 70 {
		t.Fatalf("unexpected first record %+v", stats[0])
	}
	if err := stats[0].Validate(); err != nil {
		t.Fatalf("fetched record should validate: %v", err)
	}
}

func TestFetchGames(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/results" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"date":"2025-01-10T19:00:00Z","home_team":"Duke","away_team":"Kansas","season":2025,"actual_total":147}
		]`))
	}))
	defer server.Close()

	source := NewRatingsAPI(testRatingsConfig(server.URL), nil)
	defer source.Close()

	games, err := source.FetchGames(context.Background(), 2025)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("expected 1 game, got %d", len(games))
	}
	if games[0].ActualTotal != 147 {
		t.Fatalf("unexpected total %.1f", games[0].ActualTotal)
	}
	if games[0].Date != time.Date(2025, 1, 10, 19, 0, 0, 0, time.UTC) {
		t.Fatalf("unexpected date %v", games[0].Date)
	}
}

func TestFetchRejectsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	source := NewRatingsAPI(testRatingsConfig(server.URL), nil)
	defer source.Close()

	if _, err := source.FetchTeamStats(context.Background(), 2025); err == nil {
		t.Fatalf("expected error on 401 response")
	}
}

func TestCircuitBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.RateLimit = 1000
	cfg.CircuitBreakerMax = 2
	client := NewRateLimitedHTTPClient(cfg, nil)
	defer client.Close()

	// Unroutable target: every request errors.
	for i := 0; i < 2; i++ {
		if _, err := client.Get(context.Background(), "http://127.0.0.1:0/nope"); err == nil {
			t.Fatalf("expected connection error")
		}
	}

	_, err := client.Get(context.Background(), "http://127.0.0.1:0/nope")
	if err == nil {
		t.Fatalf("expected circuit breaker error")
	}
}

func TestSourceName(t *testing.T) {
	source := NewRatingsAPI(testRatingsConfig("http://localhost"), nil)
	defer source.Close()
	if source.Name() != "ratings_api" {
		t.Fatalf("unexpected source name %s", source.Name())
	}
}
