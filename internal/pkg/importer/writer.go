package importer

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2/log"

	"github.com/Shamsear/ssleague/app/repository"
	"github.com/Shamsear/ssleague/internal/pkg/docstore"
)

// Flush thresholds per phase. Player documents are smaller than team
// documents, so the player phase batches more before a round trip.
const (
	TeamPhaseFlushThreshold   = 200
	PlayerPhaseFlushThreshold = 400
)

// Writer is the dual-store write path of an import job. Document
// writes are queued into a batch and flushed at the phase threshold;
// relational upserts go through immediately, each one idempotent on
// its (entity, season) unique key.
type Writer struct {
	store       Store
	teamStats   repository.TeamStatsRepository
	playerStats repository.PlayerStatsRepository

	batch     Batch
	threshold int
	flushed   int
}

// NewWriter creates the write path for one import job
func NewWriter(store Store, repos *repository.Repositories) *Writer {
	return &Writer{
		store:       store,
		teamStats:   repos.TeamStats,
		playerStats: repos.PlayerStats,
		batch:       store.NewBatch(),
		threshold:   TeamPhaseFlushThreshold,
	}
}

// SetFlushThreshold switches the batch size between phases
func (w *Writer) SetFlushThreshold(n int) {
	w.threshold = n
}

// PutSeason queues the season document
func (w *Writer) PutSeason(ctx context.Context, doc *docstore.SeasonDoc) error {
	w.batch.PutSeason(doc)
	return w.maybeFlush(ctx)
}

// WriteTeam queues the team document, drops a stale name-index entry
// after a rename, and upserts the relational stats row.
func (w *Writer) WriteTeam(ctx context.Context, out *TeamOutcome) error {
	w.batch.PutTeam(out.Doc)
	if out.StaleNameIndex != "" {
		w.batch.DeleteNameIndex(docstore.CollectionTeams, out.StaleNameIndex)
	}
	if err := w.teamStats.Upsert(out.Stats); err != nil {
		return fmt.Errorf("importer: team stats upsert %s/%s: %w", out.Stats.TeamID, out.Stats.SeasonID, err)
	}
	return w.maybeFlush(ctx)
}

// WritePlayer queues the player document unless an earlier row of this
// payload already did, and upserts the relational stats row.
func (w *Writer) WritePlayer(ctx context.Context, out *PlayerOutcome) error {
	if !out.Cached {
		w.batch.PutPlayer(out.Doc)
	}
	if err := w.playerStats.Upsert(out.Stats); err != nil {
		return fmt.Errorf("importer: player stats upsert %s/%s: %w", out.Stats.PlayerID, out.Stats.SeasonID, err)
	}
	return w.maybeFlush(ctx)
}

// PutTeamDoc queues a bare team document update, used by the closing
// player-count pass.
func (w *Writer) PutTeamDoc(ctx context.Context, doc *docstore.TeamDoc) error {
	w.batch.PutTeam(doc)
	return w.maybeFlush(ctx)
}

// Flush commits the pending batch regardless of size
func (w *Writer) Flush(ctx context.Context) error {
	n := w.batch.Len()
	if n == 0 {
		return nil
	}
	if err := w.batch.Commit(ctx); err != nil {
		return fmt.Errorf("importer: batch commit: %w", err)
	}
	w.flushed += n
	log.Debugf("[Import] committed batch of %d documents (%d total)", n, w.flushed)
	return nil
}

func (w *Writer) maybeFlush(ctx context.Context) error {
	if w.batch.Len() < w.threshold {
		return nil
	}
	return w.Flush(ctx)
}

// CountsForSeason reads back the relational row counts after the job
// finishes, for the completion log line.
func (w *Writer) CountsForSeason(seasonID string) (teams int64, players int64) {
	teams, err := w.teamStats.CountBySeason(seasonID)
	if err != nil {
		log.Warnf("[Import] team stats count failed for %s: %v", seasonID, err)
	}
	players, err = w.playerStats.CountBySeason(seasonID)
	if err != nil {
		log.Warnf("[Import] player stats count failed for %s: %v", seasonID, err)
	}
	return teams, players
}
