package importer

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Shamsear/ssleague/internal/pkg/docstore"
)

func storeWithPlayers(names ...string) *fakeStore {
	s := newFakeStore()
	for i, name := range names {
		id := fmt.Sprintf("sspslpsl%04d", i+1)
		s.players[id] = &docstore.PlayerDoc{
			PlayerID:  id,
			Name:      CanonicalName(name),
			Role:      "player",
			CreatedAt: time.Now(),
		}
	}
	return s
}

func TestDetectReimportAllMatch(t *testing.T) {
	names := []string{"One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine", "Ten"}
	store := storeWithPlayers(names...)

	d := DetectReimport(context.Background(), store, names)
	assert.True(t, d.IsReimport)
	assert.Equal(t, 10, d.SampleSize)
	assert.Equal(t, 10, d.Matches)
	assert.InDelta(t, 1.0, d.MatchRate, 0.001)
}

func TestDetectReimportNoMatch(t *testing.T) {
	store := newFakeStore()

	d := DetectReimport(context.Background(), store, []string{"One", "Two", "Three"})
	assert.False(t, d.IsReimport)
	assert.Equal(t, 3, d.SampleSize)
	assert.Zero(t, d.Matches)
}

func TestDetectReimportThresholdBoundary(t *testing.T) {
	names := []string{"One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine", "Ten"}

	// 8 of 10 sits exactly on the threshold and counts as a re-import.
	store := storeWithPlayers(names[:8]...)
	d := DetectReimport(context.Background(), store, names)
	assert.True(t, d.IsReimport)
	assert.InDelta(t, 0.8, d.MatchRate, 0.001)

	// 7 of 10 stays below it.
	store = storeWithPlayers(names[:7]...)
	d = DetectReimport(context.Background(), store, names)
	assert.False(t, d.IsReimport)
}

func TestDetectReimportSamplesFirstTen(t *testing.T) {
	var names []string
	for i := 0; i < 30; i++ {
		names = append(names, fmt.Sprintf("Player %d", i))
	}
	// Only players outside the sample window exist in the store.
	store := storeWithPlayers(names[10:]...)

	d := DetectReimport(context.Background(), store, names)
	assert.Equal(t, 10, d.SampleSize)
	assert.Zero(t, d.Matches)
	assert.False(t, d.IsReimport)
}

func TestDetectReimportEmptyPayload(t *testing.T) {
	d := DetectReimport(context.Background(), newFakeStore(), nil)
	assert.False(t, d.IsReimport)
	assert.Zero(t, d.SampleSize)
}

func TestDetectReimportFailsOpenOnStoreError(t *testing.T) {
	store := storeWithPlayers("One", "Two", "Three")
	store.failFind = true

	d := DetectReimport(context.Background(), store, []string{"One", "Two", "Three"})
	assert.False(t, d.IsReimport)
	assert.Zero(t, d.Matches)
}
