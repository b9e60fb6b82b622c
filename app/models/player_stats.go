package models

import (
	"time"
)

// RealPlayerStats holds one player's per-season counters and the
// figures derived from them. One row per (player_id, season_id),
// maintained by upsert so imports stay idempotent.
type RealPlayerStats struct {
	ID              uint    `gorm:"primaryKey" json:"id"`
	PlayerID        string  `gorm:"type:varchar(20);uniqueIndex:idx_player_season;not null" json:"player_id"`
	SeasonID        string  `gorm:"type:varchar(20);uniqueIndex:idx_player_season;not null" json:"season_id"`
	PlayerName      string  `gorm:"type:varchar(150);not null" json:"player_name"`
	TeamID          string  `gorm:"type:varchar(20);index" json:"team_id"`
	TeamName        string  `gorm:"type:varchar(150)" json:"team_name"`
	Category        string  `gorm:"type:varchar(50)" json:"category"`
	MatchesPlayed   int     `gorm:"default:0" json:"matches_played"`
	Wins            int     `gorm:"default:0" json:"wins"`
	Draws           int     `gorm:"default:0" json:"draws"`
	Losses          int     `gorm:"default:0" json:"losses"`
	GoalsScored     int     `gorm:"default:0" json:"goals_scored"`
	GoalsConceded   int     `gorm:"default:0" json:"goals_conceded"`
	GoalsPerGame    float64 `gorm:"default:0" json:"goals_per_game"`
	ConcededPerGame float64 `gorm:"default:0" json:"conceded_per_game"`
	NetGoals        int     `gorm:"default:0" json:"net_goals"`
	CleanSheets     int     `gorm:"default:0" json:"clean_sheets"`
	Potm            int     `gorm:"default:0" json:"potm"`
	Points          int     `gorm:"default:0" json:"points"`
	TotalPoints     int     `gorm:"default:0" json:"total_points"`
	WinRate         float64 `gorm:"default:0" json:"win_rate"`
	Trophies        JSON    `gorm:"type:json" json:"trophies"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name used by GORM
func (RealPlayerStats) TableName() string {
	return "realplayerstats"
}
