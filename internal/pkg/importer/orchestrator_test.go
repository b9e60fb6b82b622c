package importer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shamsear/ssleague/app/repository"
)

func testPayload() *ImportPayload {
	return &ImportPayload{
		SeasonInfo: SeasonInfo{
			SeasonNumber: 12,
			Name:         "Season 12",
			FileName:     "season12.xlsx",
			FileSize:     2048,
			FileType:     "xlsx",
		},
		Teams: []TeamRow{
			{Name: "Red Dragons FC", OwnerName: "John Smith", Rank: 1, Points: 30, MatchesPlayed: 10, Wins: 9, Draws: 3, GoalsFor: 28, GoalsAgainst: 8},
			{Name: "Blue Eagles", OwnerName: "Jane Doe", Rank: 2, Points: 21, MatchesPlayed: 10, Wins: 6},
		},
		Players: []PlayerRow{
			{Name: "John Doe", Team: "Red Dragons FC", GoalsScored: 12, TotalMatches: 10, Wins: 9, Points: 30},
			{Name: "Jane Roe", Team: "Blue Eagles", GoalsScored: 7, TotalMatches: 10, Wins: 6, Points: 21},
		},
	}
}

type orchestratorFixture struct {
	orch     *Orchestrator
	store    *fakeStore
	progress *memProgressStore
	tracker  *Tracker
	teams    *fakeTeamStatsRepo
	players  *fakePlayerStatsRepo
	identity *fakeIdentity
}

func newOrchestratorFixture() *orchestratorFixture {
	store := newFakeStore()
	progress := newMemProgressStore()
	tracker := NewTracker(progress)
	teams := newFakeTeamStatsRepo()
	players := newFakePlayerStatsRepo()
	provider := newFakeIdentity()
	repos := &repository.Repositories{TeamStats: teams, PlayerStats: players}
	return &orchestratorFixture{
		orch:     NewOrchestrator(store, repos, provider, tracker),
		store:    store,
		progress: progress,
		tracker:  tracker,
		teams:    teams,
		players:  players,
		identity: provider,
	}
}

func (f *orchestratorFixture) runToCompletion(t *testing.T, payload *ImportPayload) *Job {
	t.Helper()
	ctx := context.Background()

	importID, err := f.orch.Start(ctx, payload)
	require.NoError(t, err)
	require.NotEmpty(t, importID)

	var job *Job
	require.Eventually(t, func() bool {
		job, err = f.tracker.Get(ctx, importID)
		if err != nil || job == nil {
			return false
		}
		return job.Status == StatusCompleted || job.Status == StatusFailed
	}, 5*time.Second, 10*time.Millisecond, "import job never finished")
	return job
}

func TestOrchestratorHappyPath(t *testing.T) {
	f := newOrchestratorFixture()
	job := f.runToCompletion(t, testPayload())

	require.Equal(t, StatusCompleted, job.Status)
	assert.Equal(t, 100, job.Progress)
	assert.Equal(t, "SSPSLS12", job.SeasonID)
	assert.Equal(t, 4, job.TotalItems)
	require.NotNil(t, job.EndTime)

	// Season document
	season := f.store.seasons["SSPSLS12"]
	require.NotNil(t, season)
	assert.True(t, season.IsHistorical)
	assert.Equal(t, "season12.xlsx", season.Metadata.SourceFile)

	// Both stores carry both entity kinds
	assert.Len(t, f.store.teams, 2)
	assert.Len(t, f.store.players, 2)
	assert.Len(t, f.teams.rows, 2)
	assert.Len(t, f.players.rows, 2)

	// Per-team player aggregation landed in the performance history
	for _, team := range f.store.teams {
		entry, ok := team.History["SSPSLS12"]
		require.True(t, ok, "missing history for %s", team.TeamName)
		assert.Equal(t, 1, entry.PlayersCount)
		assert.Equal(t, 10, entry.MatchesPlayed)
	}

	// New teams got login identities
	assert.Equal(t, 2, f.identity.created)
}

func TestOrchestratorLoadFailureFailsJob(t *testing.T) {
	f := newOrchestratorFixture()
	f.store.failFind = true

	job := f.runToCompletion(t, testPayload())

	require.Equal(t, StatusFailed, job.Status)
	assert.NotEmpty(t, job.Error)
	require.NotNil(t, job.EndTime)

	// No entity writes happened: the load failed before any allocation
	assert.Empty(t, f.store.teams)
	assert.Empty(t, f.store.players)
	assert.Zero(t, f.teams.upserts)
	assert.Zero(t, f.players.upserts)
}

func TestOrchestratorReRunIsIdempotent(t *testing.T) {
	f := newOrchestratorFixture()

	first := f.runToCompletion(t, testPayload())
	require.Equal(t, StatusCompleted, first.Status)

	second := f.runToCompletion(t, testPayload())
	require.Equal(t, StatusCompleted, second.Status)

	// Same entities, same IDs, no duplicates in either store
	assert.Len(t, f.store.teams, 2)
	assert.Len(t, f.store.players, 2)
	assert.Len(t, f.teams.rows, 2)
	assert.Len(t, f.players.rows, 2)

	for _, team := range f.store.teams {
		count := 0
		for _, s := range team.Seasons {
			if s == "SSPSLS12" {
				count++
			}
		}
		assert.Equal(t, 1, count, "season listed more than once for %s", team.TeamName)
	}

	// The second run reused the stored identities
	assert.Equal(t, 2, f.identity.created)
}

func TestOrchestratorReRunMatchesWhitespaceVariantNames(t *testing.T) {
	f := newOrchestratorFixture()

	first := f.runToCompletion(t, testPayload())
	require.Equal(t, StatusCompleted, first.Status)

	// Same season again, but every name re-spelled with stray internal
	// whitespace. Canonically these are the same entities and must land
	// on the stored documents instead of forking new ones.
	variant := testPayload()
	variant.Teams[0].Name = "Red  Dragons FC"
	variant.Teams[1].Name = " blue   eagles "
	variant.Players[0].Name = "John  Doe"
	variant.Players[1].Name = "jane   roe"

	second := f.runToCompletion(t, variant)
	require.Equal(t, StatusCompleted, second.Status)

	assert.Len(t, f.store.teams, 2)
	assert.Len(t, f.store.players, 2)
	assert.Len(t, f.teams.rows, 2)
	assert.Len(t, f.players.rows, 2)
	assert.Equal(t, 2, f.identity.created)
}

func TestOrchestratorProgressIsPollable(t *testing.T) {
	f := newOrchestratorFixture()
	ctx := context.Background()

	importID, err := f.orch.Start(ctx, testPayload())
	require.NoError(t, err)

	// The snapshot exists before the background job finishes anything.
	job, err := f.tracker.Get(ctx, importID)
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, importID, job.ImportID)

	require.Eventually(t, func() bool {
		job, _ = f.tracker.Get(ctx, importID)
		return job != nil && job.Status == StatusCompleted
	}, 5*time.Second, 10*time.Millisecond)
}

func TestStatsRowsReadableByEntityAndSeason(t *testing.T) {
	f := newOrchestratorFixture()
	job := f.runToCompletion(t, testPayload())
	require.Equal(t, StatusCompleted, job.Status)

	var teamID, playerID string
	for id, team := range f.store.teams {
		if team.TeamName == "Red Dragons FC" {
			teamID = id
		}
	}
	for id, player := range f.store.players {
		if player.Name == "John Doe" {
			playerID = id
		}
	}
	require.NotEmpty(t, teamID)
	require.NotEmpty(t, playerID)

	repos := &repository.Repositories{TeamStats: f.teams, PlayerStats: f.players}

	row, err := repos.TeamStats.GetByTeamAndSeason(teamID, "SSPSLS12")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, 1, row.Position)

	prow, err := repos.PlayerStats.GetByPlayerAndSeason(playerID, "SSPSLS12")
	require.NoError(t, err)
	require.NotNil(t, prow)
	assert.Equal(t, 12, prow.GoalsScored)

	missing, err := repos.TeamStats.GetByTeamAndSeason(teamID, "SSPSLS99")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPickStrategy(t *testing.T) {
	f := newOrchestratorFixture()

	reimport := Detection{IsReimport: true}
	fresh := Detection{}

	assert.Equal(t, "reimport", f.orch.pickStrategy(reimport, true).Name())
	assert.Equal(t, "selective", f.orch.pickStrategy(reimport, false).Name())
	assert.Equal(t, "selective", f.orch.pickStrategy(fresh, true).Name())
}

func TestSeasonCode(t *testing.T) {
	assert.Equal(t, "SSPSLS12", SeasonCode(12))
	assert.Equal(t, "SSPSLS7", SeasonCode(7))
}
