package repository

import (
	"github.com/Shamsear/ssleague/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// teamStatsRepository implements the TeamStatsRepository interface
type teamStatsRepository struct {
	db *gorm.DB
}

// NewTeamStatsRepository creates a new team stats repository instance
func NewTeamStatsRepository(db *gorm.DB) TeamStatsRepository {
	return &teamStatsRepository{db: db}
}

// Upsert writes one season row for a team. On conflict with the
// (team_id, season_id) key every mutable column is overwritten, so a
// re-imported season replaces the previous counters in place.
func (r *teamStatsRepository) Upsert(row *models.TeamStats) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "team_id"},
			{Name: "season_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"team_name",
			"tournament_id",
			"points",
			"matches_played",
			"wins",
			"draws",
			"losses",
			"goals_for",
			"goals_against",
			"goal_difference",
			"position",
			"trophies",
			"updated_at",
		}),
	}).Create(row).Error
}

// GetBySeason retrieves all team rows recorded for a season
func (r *teamStatsRepository) GetBySeason(seasonID string) ([]models.TeamStats, error) {
	var rows []models.TeamStats
	err := r.db.Where("season_id = ?", seasonID).Find(&rows).Error
	return rows, err
}

// GetByTeamAndSeason retrieves a single team's row for a season
func (r *teamStatsRepository) GetByTeamAndSeason(teamID, seasonID string) (*models.TeamStats, error) {
	var row models.TeamStats
	err := r.db.Where("team_id = ? AND season_id = ?", teamID, seasonID).First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// CountBySeason counts the team rows recorded for a season
func (r *teamStatsRepository) CountBySeason(seasonID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.TeamStats{}).Where("season_id = ?", seasonID).Count(&count).Error
	return count, err
}
