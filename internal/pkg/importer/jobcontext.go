package importer

import (
	"github.com/Shamsear/ssleague/internal/pkg/docstore"
)

// teamAggregate accumulates per-team totals while players are processed
type teamAggregate struct {
	PlayerCount int
	TotalGoals  int
	TotalPoints int
	MaxMatches  int
}

// JobContext owns all mutable state scoped to one import job: the two
// ID allocators, the in-job player-name cache and the per-team
// aggregation. Every job gets its own instance so concurrent jobs can
// never share counters or caches.
type JobContext struct {
	ImportID   string
	SeasonID   string
	SeasonName string

	TeamAlloc   *IDAllocator
	PlayerAlloc *IDAllocator

	Loaded *LoadedEntities

	// playerCache resolves duplicate player names within one payload
	// to a single entity, keyed by lower-cased canonical name.
	playerCache map[string]*docstore.PlayerDoc

	// teamIDByName maps reconciled team names to their IDs for the
	// player phase, keyed by lower-cased canonical name.
	teamIDByName map[string]string

	// teamDocs keeps the reconciled team documents for the final
	// player-count update, keyed by team ID.
	teamDocs map[string]*docstore.TeamDoc

	teamAgg map[string]*teamAggregate
}

// NewJobContext creates the state for one import job
func NewJobContext(importID string) *JobContext {
	return &JobContext{
		ImportID:     importID,
		TeamAlloc:    NewTeamIDAllocator(),
		PlayerAlloc:  NewPlayerIDAllocator(),
		playerCache:  make(map[string]*docstore.PlayerDoc),
		teamIDByName: make(map[string]string),
		teamDocs:     make(map[string]*docstore.TeamDoc),
		teamAgg:      make(map[string]*teamAggregate),
	}
}

// RegisterTeam records a reconciled team for the player phase and the
// closing player-count update.
func (jc *JobContext) RegisterTeam(doc *docstore.TeamDoc) {
	key := docstore.NormalizeKey(doc.TeamName)
	jc.teamIDByName[key] = doc.ID
	jc.teamDocs[doc.ID] = doc
	if _, ok := jc.teamAgg[key]; !ok {
		jc.teamAgg[key] = &teamAggregate{}
	}
}

// TeamIDFor resolves a player's team reference, empty when the payload
// names a team that was not part of the teams sheet.
func (jc *JobContext) TeamIDFor(teamName string) string {
	return jc.teamIDByName[MatchKey(teamName)]
}

// AggregatePlayer folds one player row into their team's totals
func (jc *JobContext) AggregatePlayer(row PlayerRow) {
	agg, ok := jc.teamAgg[MatchKey(row.Team)]
	if !ok {
		return
	}
	agg.PlayerCount++
	agg.TotalGoals += row.GoalsScored
	agg.TotalPoints += row.TotalPoints
	if row.TotalMatches > agg.MaxMatches {
		agg.MaxMatches = row.TotalMatches
	}
}

// Reset releases all job-scoped state. It runs at job end on both the
// success and the failure path.
func (jc *JobContext) Reset() {
	jc.TeamAlloc.Reset()
	jc.PlayerAlloc.Reset()
	jc.playerCache = make(map[string]*docstore.PlayerDoc)
	jc.teamIDByName = make(map[string]string)
	jc.teamDocs = make(map[string]*docstore.TeamDoc)
	jc.teamAgg = make(map[string]*teamAggregate)
	jc.Loaded = nil
}
