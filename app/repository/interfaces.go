package repository

import (
	"github.com/Shamsear/ssleague/app/models"
	"gorm.io/gorm"
)

// TeamStatsRepository defines the interface for team season-stats operations
type TeamStatsRepository interface {
	Upsert(row *models.TeamStats) error
	GetBySeason(seasonID string) ([]models.TeamStats, error)
	GetByTeamAndSeason(teamID, seasonID string) (*models.TeamStats, error)
	CountBySeason(seasonID string) (int64, error)
}

// PlayerStatsRepository defines the interface for player season-stats operations
type PlayerStatsRepository interface {
	Upsert(row *models.RealPlayerStats) error
	GetBySeason(seasonID string) ([]models.RealPlayerStats, error)
	GetByPlayerAndSeason(playerID, seasonID string) (*models.RealPlayerStats, error)
	CountBySeason(seasonID string) (int64, error)
}

// Repositories holds all repository instances
type Repositories struct {
	TeamStats   TeamStatsRepository
	PlayerStats PlayerStatsRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		TeamStats:   NewTeamStatsRepository(db),
		PlayerStats: NewPlayerStatsRepository(db),
	}
}
