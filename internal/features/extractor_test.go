package features

import (
	"errors"
	"math"
	"testing"

	"github.com/yourusername/courtside-totals/internal/models"
)

// flatBaseline returns a constant total so extractor tests stay
// independent of the formula predictor.
type flatBaseline struct{ total float64 }

func (b flatBaseline) Predict(home, away *models.TeamSeasonStats) (float64, float64, float64, error) {
	if home == nil || away == nil {
		return 0, 0, 0, models.ErrMissingStats
	}
	return b.total / 2, b.total / 2, b.total, nil
}

func sampleStats(team string, season int, tempo, oe, de float64) *models.TeamSeasonStats {
	return &models.TeamSeasonStats{
		Team:    team,
		Season:  season,
		Tempo:   tempo,
		AdjOE:   oe,
		AdjDE:   de,
		EFGPct:  0.52,
		TOVRate: 0.17,
		ORebPct: 0.31,
		DRebPct: 0.72,
	}
}

func sampleTable(t *testing.T) *Table {
	t.Helper()
	table := NewTable()
	for _, s := range []*models.TeamSeasonStats{
		sampleStats("Duke", 2025, 70, 110, 95),
		sampleStats("Kansas", 2025, 68, 105, 100),
	} {
		if err := table.Add(s); err != nil {
			t.Fatalf("failed to add stats: %v", err)
		}
	}
	return table
}

func TestTableLookup(t *testing.T) {
	table := sampleTable(t)

	stats, err := table.Lookup("Duke", 2025)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Tempo != 70 {
		t.Fatalf("expected tempo 70, got %.1f", stats.Tempo)
	}

	if _, err := table.Lookup("Duke", 2024); !errors.Is(err, models.ErrMissingStats) {
		t.Fatalf("expected ErrMissingStats for unknown season, got %v", err)
	}
	if _, err := table.Lookup("Nowhere State", 2025); !errors.Is(err, models.ErrMissingStats) {
		t.Fatalf("expected ErrMissingStats for unknown team, got %v", err)
	}
}

func TestTableRejectsInvalidStats(t *testing.T) {
	table := NewTable()
	bad := sampleStats("Duke", 2025, -5, 110, 95)
	if err := table.Add(bad); err == nil {
		t.Fatalf("expected validation error for negative tempo")
	}
}

func TestExtractOrderMatchesSchema(t *testing.T) {
	extractor, err := NewExtractor(sampleTable(t), flatBaseline{total: 150})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	vector, err := extractor.Extract("Duke", "Kansas", 2025)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if len(vector) != Count() {
		t.Fatalf("expected %d features, got %d", Count(), len(vector))
	}

	want := []float64{150, 2, 5, -5, 0, 0, 0, 0}
	for i := range want {
		if math.Abs(vector[i]-want[i]) > 1e-9 {
			t.Fatalf("feature %s: expected %.4f, got %.4f", Names[i], want[i], vector[i])
		}
	}
}

func TestExtractDifferentialsAntisymmetric(t *testing.T) {
	extractor, _ := NewExtractor(sampleTable(t), flatBaseline{total: 150})

	forward, err := extractor.Extract("Duke", "Kansas", 2025)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	reverse, err := extractor.Extract("Kansas", "Duke", 2025)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	// Every differential flips sign under a home/away swap.
	for i := 1; i < Count(); i++ {
		if math.Abs(forward[i]+reverse[i]) > 1e-9 {
			t.Fatalf("feature %s is not antisymmetric: %.4f vs %.4f", Names[i], forward[i], reverse[i])
		}
	}
}

func TestExtractMissingTeamFails(t *testing.T) {
	extractor, _ := NewExtractor(sampleTable(t), flatBaseline{total: 150})

	if _, err := extractor.Extract("Nowhere State", "Kansas", 2025); !errors.Is(err, models.ErrMissingStats) {
		t.Fatalf("expected ErrMissingStats, got %v", err)
	}
	if _, err := extractor.Extract("Duke", "Nowhere State", 2025); !errors.Is(err, models.ErrMissingStats) {
		t.Fatalf("expected ErrMissingStats, got %v", err)
	}
}

func TestSchemaNamesAreStable(t *testing.T) {
	if Count() != 8 {
		t.Fatalf("expected 8 features, got %d", Count())
	}
	if Names[0] != "formula_total" {
		t.Fatalf("expected formula_total first, got %s", Names[0])
	}

	clone := NamesCopy()
	clone[0] = "mutated"
	if Names[0] == "mutated" {
		t.Fatalf("NamesCopy must not alias the schema")
	}
}
