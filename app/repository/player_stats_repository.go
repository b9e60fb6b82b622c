package repository

import (
	"github.com/Shamsear/ssleague/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// playerStatsRepository implements the PlayerStatsRepository interface
type playerStatsRepository struct {
	db *gorm.DB
}

// NewPlayerStatsRepository creates a new player stats repository instance
func NewPlayerStatsRepository(db *gorm.DB) PlayerStatsRepository {
	return &playerStatsRepository{db: db}
}

// Upsert writes one season row for a player, overwriting all counters
// on conflict with the (player_id, season_id) key.
func (r *playerStatsRepository) Upsert(row *models.RealPlayerStats) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "player_id"},
			{Name: "season_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"player_name",
			"team_id",
			"team_name",
			"category",
			"matches_played",
			"wins",
			"draws",
			"losses",
			"goals_scored",
			"goals_conceded",
			"goals_per_game",
			"conceded_per_game",
			"net_goals",
			"clean_sheets",
			"potm",
			"points",
			"total_points",
			"win_rate",
			"trophies",
			"updated_at",
		}),
	}).Create(row).Error
}

// GetBySeason retrieves all player rows recorded for a season
func (r *playerStatsRepository) GetBySeason(seasonID string) ([]models.RealPlayerStats, error) {
	var rows []models.RealPlayerStats
	err := r.db.Where("season_id = ?", seasonID).Find(&rows).Error
	return rows, err
}

// GetByPlayerAndSeason retrieves a single player's row for a season
func (r *playerStatsRepository) GetByPlayerAndSeason(playerID, seasonID string) (*models.RealPlayerStats, error) {
	var row models.RealPlayerStats
	err := r.db.Where("player_id = ? AND season_id = ?", playerID, seasonID).First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// CountBySeason counts the player rows recorded for a season
func (r *playerStatsRepository) CountBySeason(seasonID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.RealPlayerStats{}).Where("season_id = ?", seasonID).Count(&count).Error
	return count, err
}
