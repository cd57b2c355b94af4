package features

import (
	"fmt"

	"github.com/yourusername/courtside-totals/internal/models"
)

// StatsSource resolves a (team, season) key to its season stats record.
// Implementations must return models.ErrMissingStats for absent keys,
// never a fabricated default.
type StatsSource interface {
	Lookup(team string, season int) (*models.TeamSeasonStats, error)
}

// Table is an in-memory StatsSource backed by the ingested ratings table
type Table struct {
	entries map[string]*models.TeamSeasonStats
}

// NewTable creates an empty stats table
func NewTable() *Table {
	return &Table{entries: make(map[string]*models.TeamSeasonStats)}
}

// NewTableFrom builds a table from a slice of records, validating each
func NewTableFrom(stats []*models.TeamSeasonStats) (*Table, error) {
	t := NewTable()
	for _, s := range stats {
		if err := t.Add(s); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Add validates and inserts a record, replacing any prior entry for the key
func (t *Table) Add(stats *models.TeamSeasonStats) error {
	if stats == nil {
		return fmt.Errorf("stats record is required")
	}
	if err := stats.Validate(); err != nil {
		return fmt.Errorf("invalid stats record: %w", err)
	}
	t.entries[stats.Key()] = stats
	return nil
}

// Lookup resolves a (team, season) key
func (t *Table) Lookup(team string, season int) (*models.TeamSeasonStats, error) {
	key := fmt.Sprintf("%s:%d", team, season)
	stats, ok := t.entries[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s (%d)", models.ErrMissingStats, team, season)
	}
	return stats, nil
}

// Len returns the number of loaded records
func (t *Table) Len() int {
	return len(t.entries)
}
