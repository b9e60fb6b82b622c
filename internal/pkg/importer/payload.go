package importer

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// SeasonInfo identifies the season being imported and the file it came from
type SeasonInfo struct {
	SeasonNumber int    `json:"seasonNumber" validate:"required,gt=0"`
	Name         string `json:"name"`
	ShortName    string `json:"shortName"`
	FileName     string `json:"fileName" validate:"required"`
	FileSize     int64  `json:"fileSize" validate:"gte=0"`
	FileType     string `json:"fileType"`
}

// TeamRow is one team's league-table line from the parsed spreadsheet.
// LinkedTeamID lets an operator pin a renamed team to its existing
// entity instead of relying on the name match.
type TeamRow struct {
	Name           string   `json:"team_name" validate:"required"`
	OwnerName      string   `json:"owner_name" validate:"required"`
	LinkedTeamID   string   `json:"linked_team_id,omitempty"`
	Rank           int      `json:"rank"`
	Points         int      `json:"p"`
	MatchesPlayed  int      `json:"mp"`
	Wins           int      `json:"w"`
	Draws          int      `json:"d"`
	Losses         int      `json:"l"`
	GoalsFor       int      `json:"f"`
	GoalsAgainst   int      `json:"a"`
	GoalDifference int      `json:"gd"`
	Percentage     float64  `json:"percentage"`
	Cups           []string `json:"cups,omitempty"`
}

// PlayerRow is one player's season line. Trophy slots arrive as
// explicit arrays; the upstream parser has already mapped whatever
// spreadsheet columns existed onto them.
type PlayerRow struct {
	Name               string   `json:"name" validate:"required"`
	Team               string   `json:"team" validate:"required"`
	Category           string   `json:"category"`
	GoalsScored        int      `json:"goals_scored"`
	GoalsConceded      int      `json:"goals_conceded"`
	CleanSheets        int      `json:"cleansheets"`
	Potm               int      `json:"potm"`
	Points             int      `json:"points"`
	Wins               int      `json:"win"`
	Draws              int      `json:"draw"`
	Losses             int      `json:"loss"`
	TotalMatches       int      `json:"total_matches"`
	TotalPoints        int      `json:"total_points"`
	CategoryTrophies   []string `json:"category_trophies,omitempty"`
	IndividualTrophies []string `json:"individual_trophies,omitempty"`
}

// ImportPayload is the bulk payload for one season's import job
type ImportPayload struct {
	SeasonInfo SeasonInfo  `json:"seasonInfo" validate:"required"`
	Teams      []TeamRow   `json:"teams" validate:"dive"`
	Players    []PlayerRow `json:"players" validate:"dive"`
}

// Validate checks the payload before a job is accepted
func (p *ImportPayload) Validate() error {
	v := validator.New()
	return v.Struct(p)
}

// TotalItems is the number of entities the job will process
func (p *ImportPayload) TotalItems() int {
	return len(p.Teams) + len(p.Players)
}

// cleanTrophies drops empty slots and the literal "null" some
// spreadsheet exports leave behind.
func cleanTrophies(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		t = strings.TrimSpace(t)
		if t == "" || strings.EqualFold(t, "null") {
			continue
		}
		out = append(out, t)
	}
	return out
}
