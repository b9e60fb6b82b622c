package importer

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shamsear/ssleague/app/models"
	"github.com/Shamsear/ssleague/internal/pkg/docstore"
)

func teamOutcome(i int) *TeamOutcome {
	id := fmt.Sprintf("SSPSLT%04d", i)
	return &TeamOutcome{
		Doc:   &docstore.TeamDoc{ID: id, TeamName: fmt.Sprintf("Team %d", i)},
		Stats: &models.TeamStats{TeamID: id, SeasonID: testSeasonID},
	}
}

func playerOutcome(i int) *PlayerOutcome {
	id := fmt.Sprintf("sspslpsl%04d", i)
	return &PlayerOutcome{
		Doc:   &docstore.PlayerDoc{PlayerID: id, Name: fmt.Sprintf("Player %d", i)},
		Stats: &models.RealPlayerStats{PlayerID: id, SeasonID: testSeasonID},
	}
}

func TestWriterFlushesAtTeamThreshold(t *testing.T) {
	store := newFakeStore()
	repos, teamRepo, _ := newFakeRepos()
	w := NewWriter(store, repos)
	ctx := context.Background()

	for i := 1; i < TeamPhaseFlushThreshold; i++ {
		require.NoError(t, w.WriteTeam(ctx, teamOutcome(i)))
	}
	assert.Zero(t, store.commits)

	require.NoError(t, w.WriteTeam(ctx, teamOutcome(TeamPhaseFlushThreshold)))
	assert.Equal(t, 1, store.commits)
	assert.Len(t, store.teams, TeamPhaseFlushThreshold)

	// Relational upserts are not batched
	assert.Equal(t, TeamPhaseFlushThreshold, teamRepo.upserts)
}

func TestWriterFlushesAtPlayerThreshold(t *testing.T) {
	store := newFakeStore()
	repos, _, playerRepo := newFakeRepos()
	w := NewWriter(store, repos)
	w.SetFlushThreshold(PlayerPhaseFlushThreshold)
	ctx := context.Background()

	for i := 1; i < PlayerPhaseFlushThreshold; i++ {
		require.NoError(t, w.WritePlayer(ctx, playerOutcome(i)))
	}
	assert.Zero(t, store.commits)

	require.NoError(t, w.WritePlayer(ctx, playerOutcome(PlayerPhaseFlushThreshold)))
	assert.Equal(t, 1, store.commits)
	assert.Equal(t, PlayerPhaseFlushThreshold, playerRepo.upserts)
}

func TestWriterFinalFlushDrainsRemainder(t *testing.T) {
	store := newFakeStore()
	repos, _, _ := newFakeRepos()
	w := NewWriter(store, repos)
	ctx := context.Background()

	require.NoError(t, w.WriteTeam(ctx, teamOutcome(1)))
	require.NoError(t, w.WriteTeam(ctx, teamOutcome(2)))
	require.NoError(t, w.Flush(ctx))

	assert.Equal(t, 1, store.commits)
	assert.Len(t, store.teams, 2)

	// Flushing an empty batch is a no-op
	require.NoError(t, w.Flush(ctx))
	assert.Equal(t, 1, store.commits)
}

func TestWriterSkipsCachedPlayerDocs(t *testing.T) {
	store := newFakeStore()
	repos, _, playerRepo := newFakeRepos()
	w := NewWriter(store, repos)
	ctx := context.Background()

	out := playerOutcome(1)
	require.NoError(t, w.WritePlayer(ctx, out))

	dup := playerOutcome(1)
	dup.Cached = true
	dup.Stats.SeasonID = testSeasonID
	require.NoError(t, w.WritePlayer(ctx, dup))
	require.NoError(t, w.Flush(ctx))

	// One document, but every stats row was upserted
	assert.Len(t, store.players, 1)
	assert.Equal(t, 2, playerRepo.upserts)
}

func TestWriterDropsStaleNameIndex(t *testing.T) {
	store := newFakeStore()
	repos, _, _ := newFakeRepos()
	w := NewWriter(store, repos)
	ctx := context.Background()

	out := teamOutcome(1)
	out.StaleNameIndex = "Old Name FC"
	require.NoError(t, w.WriteTeam(ctx, out))
	require.NoError(t, w.Flush(ctx))

	batch := w.batch.(*fakeBatch)
	assert.Contains(t, batch.deletedIndexes, "teams/old name fc")
}

func TestWriterPropagatesUpsertError(t *testing.T) {
	store := newFakeStore()
	repos, teamRepo, _ := newFakeRepos()
	teamRepo.upsertErr = errFakeStore
	w := NewWriter(store, repos)

	err := w.WriteTeam(context.Background(), teamOutcome(1))
	assert.Error(t, err)
}
