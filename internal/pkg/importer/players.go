package importer

import (
	"encoding/json"
	"math"
	"time"

	"github.com/Shamsear/ssleague/app/models"
	"github.com/Shamsear/ssleague/internal/pkg/docstore"
)

// PlayerOutcome is the write set produced for one incoming player row
type PlayerOutcome struct {
	Doc   *docstore.PlayerDoc
	Stats *models.RealPlayerStats
	// Cached is true when the row hit the in-job cache, meaning the
	// document was already queued by an earlier row of this payload.
	Cached bool
	IsNew  bool
}

// playerTrophies is the shape stored in the trophies JSON column
type playerTrophies struct {
	Category   []string `json:"category"`
	Individual []string `json:"individual"`
}

// PlayerReconciler decides create-vs-update for incoming players
type PlayerReconciler struct {
	seasonID string
}

// NewPlayerReconciler creates a reconciler for one job's player phase
func NewPlayerReconciler(seasonID string) *PlayerReconciler {
	return &PlayerReconciler{seasonID: seasonID}
}

// Reconcile resolves one player row. Resolution order: the in-job
// cache (duplicate names within one payload map to one entity), then
// the loaded entities, then new. Permanent contact and registration
// fields on an existing document are carried forward untouched.
func (r *PlayerReconciler) Reconcile(jc *JobContext, row PlayerRow) (*PlayerOutcome, error) {
	canonical := CanonicalName(row.Name)
	key := docstore.NormalizeKey(canonical)
	now := time.Now()

	outcome := &PlayerOutcome{}

	doc, ok := jc.playerCache[key]
	if ok {
		outcome.Cached = true
	} else {
		doc = jc.Loaded.PlayersByName[key]
	}

	if doc == nil {
		id, err := jc.PlayerAlloc.Allocate()
		if err != nil {
			return nil, err
		}
		joined := now
		doc = &docstore.PlayerDoc{
			PlayerID:    id,
			Name:        canonical,
			DisplayName: canonical,
			Role:        "player",
			IsActive:    true,
			IsAvailable: true,
			JoinedAt:    &joined,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		outcome.IsNew = true
	} else {
		doc.Name = canonical
		if doc.DisplayName == "" {
			doc.DisplayName = canonical
		}
		doc.IsActive = true
		doc.UpdatedAt = now
	}
	jc.playerCache[key] = doc

	stats, err := r.statsRow(doc.PlayerID, canonical, jc, row)
	if err != nil {
		return nil, err
	}
	outcome.Doc = doc
	outcome.Stats = stats
	return outcome, nil
}

// statsRow builds the per-season row with its derived figures. Every
// per-match ratio guards against zero matches played.
func (r *PlayerReconciler) statsRow(playerID, playerName string, jc *JobContext, row PlayerRow) (*models.RealPlayerStats, error) {
	trophies, err := json.Marshal(playerTrophies{
		Category:   cleanTrophies(row.CategoryTrophies),
		Individual: cleanTrophies(row.IndividualTrophies),
	})
	if err != nil {
		return nil, err
	}

	var gpg, cpg, winRate float64
	if row.TotalMatches > 0 {
		gpg = round2(float64(row.GoalsScored) / float64(row.TotalMatches))
		cpg = round2(float64(row.GoalsConceded) / float64(row.TotalMatches))
		winRate = round2(float64(row.Wins) / float64(row.TotalMatches) * 100)
	}

	totalPoints := row.TotalPoints
	if totalPoints == 0 {
		totalPoints = row.Points
	}

	return &models.RealPlayerStats{
		PlayerID:        playerID,
		SeasonID:        r.seasonID,
		PlayerName:      playerName,
		TeamID:          jc.TeamIDFor(row.Team),
		TeamName:        CanonicalName(row.Team),
		Category:        row.Category,
		MatchesPlayed:   row.TotalMatches,
		Wins:            row.Wins,
		Draws:           row.Draws,
		Losses:          row.Losses,
		GoalsScored:     row.GoalsScored,
		GoalsConceded:   row.GoalsConceded,
		GoalsPerGame:    gpg,
		ConcededPerGame: cpg,
		NetGoals:        row.GoalsScored - row.GoalsConceded,
		CleanSheets:     row.CleanSheets,
		Potm:            row.Potm,
		Points:          row.Points,
		TotalPoints:     totalPoints,
		WinRate:         winRate,
		Trophies:        models.JSON(trophies),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
