// Package trainer fits and evaluates the learned predictors on historical
// games, reporting error metrics under both shuffled and chronological
// cross-validation.
package trainer

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/yourusername/courtside-totals/internal/features"
	"github.com/yourusername/courtside-totals/internal/models"
)

// Dataset holds aligned feature vectors, labels and game dates,
// sorted ascending by date
type Dataset struct {
	X     [][]float64
	Y     []float64
	Dates []time.Time
}

// Len returns the number of examples
func (d *Dataset) Len() int {
	return len(d.Y)
}

// BuildDataset converts historical games into (features, label) pairs.
// Games whose teams lack season stats are skipped and counted, never
// filled with fabricated values; any other extraction failure aborts.
func BuildDataset(games []*models.HistoricalGame, extractor *features.Extractor) (*Dataset, int, error) {
	if extractor == nil {
		return nil, 0, fmt.Errorf("feature extractor is required")
	}

	ordered := make([]*models.HistoricalGame, len(games))
	copy(ordered, games)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	ds := &Dataset{}
	skipped := 0
	for _, game := range ordered {
		matchup := game.Matchup()
		vector, err := extractor.Extract(matchup.HomeTeam, matchup.AwayTeam, matchup.Season)
		if err != nil {
			if errors.Is(err, models.ErrMissingStats) {
				skipped++
				continue
			}
			return nil, skipped, fmt.Errorf("feature extraction failed for %s vs %s: %w",
				matchup.HomeTeam, matchup.AwayTeam, err)
		}
		ds.X = append(ds.X, vector)
		ds.Y = append(ds.Y, game.ActualTotal)
		ds.Dates = append(ds.Dates, game.Date)
	}
	return ds, skipped, nil
}

// Subset returns the rows named by idx as aligned slices
func (d *Dataset) Subset(idx []int) ([][]float64, []float64) {
	X := make([][]float64, 0, len(idx))
	y := make([]float64, 0, len(idx))
	for _, i := range idx {
		X = append(X, d.X[i])
		y = append(y, d.Y[i])
	}
	return X, y
}
