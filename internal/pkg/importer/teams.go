package importer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/Shamsear/ssleague/app/models"
	"github.com/Shamsear/ssleague/internal/pkg/docstore"
	"github.com/Shamsear/ssleague/internal/pkg/identity"
)

// TeamOutcome is the write set produced for one incoming team row
type TeamOutcome struct {
	Doc   *docstore.TeamDoc
	Stats *models.TeamStats
	// StaleNameIndex carries the team's previous display name when
	// this import renamed it, so the writer can drop the old index
	// entry.
	StaleNameIndex string
	IsNew          bool
}

// TeamReconciler decides create-vs-update for incoming teams
type TeamReconciler struct {
	identity   identity.Provider
	seasonID   string
	seasonName string
}

// NewTeamReconciler creates a reconciler for one job's team phase
func NewTeamReconciler(provider identity.Provider, seasonID, seasonName string) *TeamReconciler {
	return &TeamReconciler{identity: provider, seasonID: seasonID, seasonName: seasonName}
}

// Reconcile resolves one team row against the loaded entities.
// Resolution order: explicit link by team ID, then case-insensitive
// name match, then new. Team identity never forks — a matched team is
// always updated in place.
func (r *TeamReconciler) Reconcile(ctx context.Context, jc *JobContext, row TeamRow) (*TeamOutcome, error) {
	canonical := CanonicalName(row.Name)
	key := docstore.NormalizeKey(canonical)
	now := time.Now()

	var doc *docstore.TeamDoc
	if row.LinkedTeamID != "" {
		doc = jc.Loaded.TeamsByID[row.LinkedTeamID]
	}
	if doc == nil {
		doc = jc.Loaded.TeamsByName[key]
	}

	outcome := &TeamOutcome{}

	if doc != nil {
		if doc.TeamName != canonical {
			if !containsString(doc.PreviousNames, doc.TeamName) {
				doc.PreviousNames = append(doc.PreviousNames, doc.TeamName)
			}
			outcome.StaleNameIndex = doc.TeamName
			doc.TeamName = canonical
		}
		if !containsString(doc.Seasons, r.seasonID) {
			doc.Seasons = append(doc.Seasons, r.seasonID)
		}
		doc.CurrentSeasonID = r.seasonID
		doc.TotalSeasons = len(doc.Seasons)
		doc.OwnerName = row.OwnerName
		doc.UpdatedAt = now
	} else {
		id, err := jc.TeamAlloc.Allocate()
		if err != nil {
			return nil, err
		}
		doc = &docstore.TeamDoc{
			ID:              id,
			TeamName:        canonical,
			OwnerName:       row.OwnerName,
			Seasons:         []string{r.seasonID},
			CurrentSeasonID: r.seasonID,
			TotalSeasons:    1,
			IsActive:        true,
			IsHistorical:    true,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		r.attachIdentity(ctx, doc, row)
		outcome.IsNew = true
	}

	if doc.History == nil {
		doc.History = make(map[string]docstore.TeamSeasonSummary)
	}
	if _, ok := doc.History[r.seasonID]; !ok {
		doc.History[r.seasonID] = docstore.TeamSeasonSummary{SeasonName: r.seasonName}
	}

	stats, err := r.statsRow(doc.ID, canonical, row)
	if err != nil {
		return nil, err
	}
	outcome.Doc = doc
	outcome.Stats = stats

	// Make the reconciled team visible to later rows of this payload
	// and to the player phase.
	jc.Loaded.TeamsByName[key] = doc
	jc.Loaded.TeamsByID[doc.ID] = doc
	jc.RegisterTeam(doc)

	return outcome, nil
}

// attachIdentity creates the login-capable identity for a new team.
// The lookup runs first so a retried import reuses the identity from
// the previous attempt. Identity failures never abort the team: the
// document is persisted without a login and carries the error for
// later remediation.
func (r *TeamReconciler) attachIdentity(ctx context.Context, doc *docstore.TeamDoc, row TeamRow) {
	email, password, username := identity.TeamCredentials(doc.TeamName, row.OwnerName)

	login, err := r.identity.FindByEmail(ctx, email)
	if err == nil && login == nil {
		login, err = r.identity.CreateLogin(ctx, identity.CreateParams{
			Email:    email,
			Password: password,
			Username: username,
			TeamID:   doc.ID,
			TeamName: doc.TeamName,
		})
	}
	if err != nil {
		log.Errorf("[Import] identity creation failed for team %s: %v", doc.TeamName, err)
		doc.HasUserAccount = false
		doc.UserAccountErr = err.Error()
		return
	}
	doc.UserID = login.UID
	doc.UserEmail = login.Email
	doc.HasUserAccount = true
}

func (r *TeamReconciler) statsRow(teamID, teamName string, row TeamRow) (*models.TeamStats, error) {
	trophies, err := json.Marshal(cleanTrophies(row.Cups))
	if err != nil {
		return nil, err
	}
	return &models.TeamStats{
		TeamID:         teamID,
		SeasonID:       r.seasonID,
		TeamName:       teamName,
		TournamentID:   r.seasonID,
		Points:         row.Points,
		MatchesPlayed:  row.MatchesPlayed,
		Wins:           row.Wins,
		Draws:          row.Draws,
		Losses:         row.Losses,
		GoalsFor:       row.GoalsFor,
		GoalsAgainst:   row.GoalsAgainst,
		GoalDifference: row.GoalDifference,
		Position:       row.Rank,
		Trophies:       models.JSON(trophies),
	}, nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
