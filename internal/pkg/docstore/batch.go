package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// WriteBatch accumulates document writes and commits them in one
// pipelined round trip. A batch may hold at most MaxBatchDocs
// documents; callers flush and start a new batch below that limit.
type WriteBatch struct {
	rdb  *redis.Client
	docs int
	ops  []func(ctx context.Context, pipe redis.Pipeliner)
	err  error
}

// NewBatch creates an empty write batch
func (c *Client) NewBatch() *WriteBatch {
	return &WriteBatch{rdb: c.rdb}
}

func (b *WriteBatch) putDoc(collection, id string, doc interface{}, ttl time.Duration) {
	if b.err != nil {
		return
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		b.err = fmt.Errorf("docstore: encode %s/%s: %w", collection, id, err)
		return
	}
	b.docs++
	b.ops = append(b.ops, func(ctx context.Context, pipe redis.Pipeliner) {
		pipe.Set(ctx, docKey(collection, id), raw, ttl)
		pipe.SAdd(ctx, idSetKey(collection), id)
	})
}

func (b *WriteBatch) putNameIndex(collection, name, id string) {
	if b.err != nil || NormalizeKey(name) == "" {
		return
	}
	key := nameIndexKey(collection, name)
	b.ops = append(b.ops, func(ctx context.Context, pipe redis.Pipeliner) {
		pipe.Set(ctx, key, id, 0)
	})
}

// PutSeason queues a season document write
func (b *WriteBatch) PutSeason(doc *SeasonDoc) {
	b.putDoc(CollectionSeasons, doc.ID, doc, 0)
}

// PutTeam queues a team document write plus its name-index entry
func (b *WriteBatch) PutTeam(doc *TeamDoc) {
	b.putDoc(CollectionTeams, doc.ID, doc, 0)
	b.putNameIndex(CollectionTeams, doc.TeamName, doc.ID)
}

// PutPlayer queues a player document write plus its name-index entry
func (b *WriteBatch) PutPlayer(doc *PlayerDoc) {
	b.putDoc(CollectionPlayers, doc.PlayerID, doc, 0)
	b.putNameIndex(CollectionPlayers, doc.Name, doc.PlayerID)
}

// PutUser queues an identity record write plus its email-index entry
func (b *WriteBatch) PutUser(doc *UserDoc) {
	b.putDoc(CollectionUsers, doc.UID, doc, 0)
	if doc.Email != "" {
		key := fmt.Sprintf(EmailIndexFormat, NormalizeKey(doc.Email))
		uid := doc.UID
		b.ops = append(b.ops, func(ctx context.Context, pipe redis.Pipeliner) {
			pipe.Set(ctx, key, uid, 0)
		})
	}
}

// DeleteNameIndex removes a stale name-index entry, used when a team
// is renamed so the old name no longer resolves.
func (b *WriteBatch) DeleteNameIndex(collection, name string) {
	if b.err != nil || NormalizeKey(name) == "" {
		return
	}
	key := nameIndexKey(collection, name)
	b.ops = append(b.ops, func(ctx context.Context, pipe redis.Pipeliner) {
		pipe.Del(ctx, key)
	})
}

// Len reports the number of documents queued in this batch
func (b *WriteBatch) Len() int {
	return b.docs
}

// Commit writes all queued operations in one transactional pipeline.
// An empty batch commits as a no-op.
func (b *WriteBatch) Commit(ctx context.Context) error {
	if b.err != nil {
		return b.err
	}
	if len(b.ops) == 0 {
		return nil
	}
	if b.docs > MaxBatchDocs {
		return fmt.Errorf("docstore: batch of %d documents exceeds limit of %d", b.docs, MaxBatchDocs)
	}
	pipe := b.rdb.TxPipeline()
	for _, op := range b.ops {
		op(ctx, pipe)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("docstore: batch commit: %w", err)
	}
	b.ops = nil
	b.docs = 0
	return nil
}
