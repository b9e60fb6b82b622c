package models

import (
	"time"
)

// TeamStats holds one team's performance line for one season.
// Exactly one row exists per (team_id, season_id); imports upsert on
// that key so re-running a season import never duplicates rows.
type TeamStats struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	TeamID         string `gorm:"type:varchar(20);uniqueIndex:idx_team_season;not null" json:"team_id"`
	SeasonID       string `gorm:"type:varchar(20);uniqueIndex:idx_team_season;not null" json:"season_id"`
	TeamName       string `gorm:"type:varchar(150);not null" json:"team_name"`
	TournamentID   string `gorm:"type:varchar(50);index" json:"tournament_id"`
	Points         int    `gorm:"default:0" json:"points"`
	MatchesPlayed  int    `gorm:"default:0" json:"matches_played"`
	Wins           int    `gorm:"default:0" json:"wins"`
	Draws          int    `gorm:"default:0" json:"draws"`
	Losses         int    `gorm:"default:0" json:"losses"`
	GoalsFor       int    `gorm:"default:0" json:"goals_for"`
	GoalsAgainst   int    `gorm:"default:0" json:"goals_against"`
	GoalDifference int    `gorm:"default:0" json:"goal_difference"`
	Position       int    `gorm:"default:0" json:"position"`
	Trophies       JSON   `gorm:"type:json" json:"trophies"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name used by GORM
func (TeamStats) TableName() string {
	return "teamstats"
}
