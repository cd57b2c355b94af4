package predictor

import (
	"errors"
	"math"
	"testing"

	"github.com/yourusername/courtside-totals/internal/models"
)

func testStats(team string, tempo, oe, de float64) *models.TeamSeasonStats {
	return &models.TeamSeasonStats{
		Team:    team,
		Season:  2025,
		Tempo:   tempo,
		AdjOE:   oe,
		AdjDE:   de,
		EFGPct:  0.5,
		TOVRate: 0.18,
		ORebPct: 0.3,
		DRebPct: 0.7,
	}
}

func TestFormulaPredict(t *testing.T) {
	formula, err := NewFormula(DefaultFormulaConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	home := testStats("Duke", 70, 110, 95)
	away := testStats("Kansas", 68, 105, 100)

	homePts, awayPts, total, err := formula.Predict(home, away)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(total-144.83) > 0.1 {
		t.Fatalf("expected total near 144.83, got %.4f", total)
	}
	if homePts <= awayPts {
		t.Fatalf("expected the stronger home team to outscore: home=%.2f away=%.2f", homePts, awayPts)
	}
	if math.Abs(homePts+awayPts-total) > 1e-9 {
		t.Fatalf("points do not sum to total")
	}
}

func TestFormulaDeterministic(t *testing.T) {
	formula, _ := NewFormula(DefaultFormulaConfig())
	home := testStats("Duke", 70, 110, 95)
	away := testStats("Kansas", 68, 105, 100)

	_, _, first, _ := formula.Predict(home, away)
	_, _, second, _ := formula.Predict(home, away)
	if first != second {
		t.Fatalf("expected repeated predictions to be identical")
	}
}

func TestFormulaHomeCourtAsymmetry(t *testing.T) {
	formula, _ := NewFormula(DefaultFormulaConfig())
	a := testStats("Duke", 70, 110, 95)
	b := testStats("Kansas", 68, 105, 100)

	aHome, bAway, _, _ := formula.Predict(a, b)
	bHome, aAway, _, _ := formula.Predict(b, a)

	// Swapping venues shifts each team's points through the home factor.
	if aHome <= aAway {
		t.Fatalf("expected team to score more at home: home=%.2f away=%.2f", aHome, aAway)
	}
	if bHome <= bAway {
		t.Fatalf("expected team to score more at home: home=%.2f away=%.2f", bHome, bAway)
	}
}

func TestFormulaNeutralFactor(t *testing.T) {
	formula, err := NewFormula(FormulaConfig{LeagueAvgDefense: 100, HomeCourtFactor: 1.0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stats := testStats("Duke", 70, 110, 95)
	other := testStats("Kansas", 68, 105, 100)

	_, _, t1, _ := formula.Predict(stats, other)
	_, _, t2, _ := formula.Predict(other, stats)
	if math.Abs(t1-t2) > 1e-9 {
		t.Fatalf("expected neutral-court totals to be symmetric: %.4f vs %.4f", t1, t2)
	}
}

func TestFormulaMissingStats(t *testing.T) {
	formula, _ := NewFormula(DefaultFormulaConfig())

	if _, _, _, err := formula.Predict(nil, testStats("Kansas", 68, 105, 100)); !errors.Is(err, models.ErrMissingStats) {
		t.Fatalf("expected ErrMissingStats, got %v", err)
	}
	if _, _, _, err := formula.Predict(testStats("Duke", 70, 110, 95), nil); !errors.Is(err, models.ErrMissingStats) {
		t.Fatalf("expected ErrMissingStats, got %v", err)
	}
}

func TestFormulaConfigValidation(t *testing.T) {
	cases := []struct {
		name string
		cfg  FormulaConfig
	}{
		{"zero defense", FormulaConfig{LeagueAvgDefense: 0, HomeCourtFactor: 1.014}},
		{"negative defense", FormulaConfig{LeagueAvgDefense: -100, HomeCourtFactor: 1.014}},
		{"zero home factor", FormulaConfig{LeagueAvgDefense: 100, HomeCourtFactor: 0}},
		{"home factor too large", FormulaConfig{LeagueAvgDefense: 100, HomeCourtFactor: 2.5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewFormula(tc.cfg); err == nil {
				t.Fatalf("expected config error")
			}
		})
	}
}
