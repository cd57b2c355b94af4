package repository

import (
	"fmt"

	"github.com/yourusername/courtside-totals/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	TeamStats  TeamStatsRepository
	Game       GameRepository
	Model      ModelRepository
	Evaluation EvaluationRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		TeamStats:  NewPostgresTeamStatsRepository(db),
		Game:       NewPostgresGameRepository(db),
		Model:      NewPostgresModelRepository(db),
		Evaluation: NewPostgresEvaluationRepository(db),
	}, nil
}
