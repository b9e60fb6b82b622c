package docstore

import (
	"time"
)

// Collection names
const (
	CollectionSeasons  = "seasons"
	CollectionTeams    = "teams"
	CollectionPlayers  = "realplayers"
	CollectionUsers    = "users"
	CollectionProgress = "import_progress"
)

// ImportMetadata records where a season's data came from
type ImportMetadata struct {
	SourceFile string    `json:"source_file"`
	FileSize   int64     `json:"file_size"`
	FileType   string    `json:"file_type"`
	ImportDate time.Time `json:"import_date"`
}

// SeasonDoc is the document for one season. The document ID is the
// season code derived from the season number, so the same number can
// never produce two season records.
type SeasonDoc struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	ShortName    string         `json:"short_name"`
	SeasonNumber int            `json:"season_number"`
	Status       string         `json:"status"`
	IsHistorical bool           `json:"is_historical"`
	Metadata     ImportMetadata `json:"import_metadata"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// TeamSeasonSummary is the per-season entry in a team's performance history
type TeamSeasonSummary struct {
	SeasonName    string `json:"season_name"`
	PlayersCount  int    `json:"players_count"`
	TotalGoals    int    `json:"total_goals"`
	TotalPoints   int    `json:"total_points"`
	MatchesPlayed int    `json:"matches_played"`
}

// TeamDoc is the identity document for a team. The ID is allocated once
// and stays stable across seasons; renames append to PreviousNames.
type TeamDoc struct {
	ID              string                       `json:"id"`
	TeamName        string                       `json:"team_name"`
	OwnerName       string                       `json:"owner_name"`
	UserID          string                       `json:"user_id,omitempty"`
	UserEmail       string                       `json:"user_email,omitempty"`
	HasUserAccount  bool                         `json:"has_user_account"`
	UserAccountErr  string                       `json:"user_creation_error,omitempty"`
	Seasons         []string                     `json:"seasons"`
	CurrentSeasonID string                       `json:"current_season_id"`
	TotalSeasons    int                          `json:"total_seasons_participated"`
	PreviousNames   []string                     `json:"previous_names,omitempty"`
	History         map[string]TeamSeasonSummary `json:"performance_history,omitempty"`
	IsActive        bool                         `json:"is_active"`
	IsHistorical    bool                         `json:"is_historical"`
	CreatedAt       time.Time                    `json:"created_at"`
	UpdatedAt       time.Time                    `json:"updated_at"`
}

// PlayerDoc is the identity document for a player. Contact and
// registration fields are permanent: imports carry them forward and
// never blank out data a registered player already has.
type PlayerDoc struct {
	PlayerID     string     `json:"player_id"`
	Name         string     `json:"name"`
	DisplayName  string     `json:"display_name,omitempty"`
	Email        string     `json:"email,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	Role         string     `json:"role"`
	PSNID        string     `json:"psn_id,omitempty"`
	XboxID       string     `json:"xbox_id,omitempty"`
	SteamID      string     `json:"steam_id,omitempty"`
	IsRegistered bool       `json:"is_registered"`
	IsActive     bool       `json:"is_active"`
	IsAvailable  bool       `json:"is_available"`
	Notes        string     `json:"notes,omitempty"`
	JoinedAt     *time.Time `json:"joined_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// UserDoc is a login-capable identity record created for a team
type UserDoc struct {
	UID          string    `json:"uid"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Username     string    `json:"username"`
	Role         string    `json:"role"`
	TeamID       string    `json:"team_id,omitempty"`
	TeamName     string    `json:"team_name,omitempty"`
	IsActive     bool      `json:"is_active"`
	IsApproved   bool      `json:"is_approved"`
	IsHistorical bool      `json:"is_historical"`
	Source       string    `json:"source"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
