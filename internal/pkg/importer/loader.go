package importer

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Shamsear/ssleague/app/models"
	"github.com/Shamsear/ssleague/app/repository"
	"github.com/Shamsear/ssleague/internal/pkg/docstore"
)

// Batch is the write-batch surface the pipeline uses
type Batch interface {
	PutSeason(doc *docstore.SeasonDoc)
	PutTeam(doc *docstore.TeamDoc)
	PutPlayer(doc *docstore.PlayerDoc)
	DeleteNameIndex(collection, name string)
	Len() int
	Commit(ctx context.Context) error
}

// Store is the document-store surface the pipeline uses
type Store interface {
	PlayerFinder
	GetSeason(ctx context.Context, id string) (*docstore.SeasonDoc, error)
	FindTeamsByName(ctx context.Context, names []string) (map[string]*docstore.TeamDoc, error)
	GetTeamsByID(ctx context.Context, ids []string) (map[string]*docstore.TeamDoc, error)
	ListTeamIDs(ctx context.Context) ([]string, error)
	ListPlayerIDs(ctx context.Context) ([]string, error)
	AllTeams(ctx context.Context) ([]*docstore.TeamDoc, error)
	AllPlayers(ctx context.Context) ([]*docstore.PlayerDoc, error)
	NewBatch() Batch
}

// docStore adapts *docstore.Client to the Store interface
type docStore struct {
	*docstore.Client
}

func (d docStore) NewBatch() Batch {
	return d.Client.NewBatch()
}

// NewStore wraps a docstore client for use by the pipeline
func NewStore(c *docstore.Client) Store {
	return docStore{Client: c}
}

// LoadedEntities is everything the reconcilers match against. Name
// maps are keyed by lower-cased canonical name, stats maps by the
// (entity ID, season code) composite key.
type LoadedEntities struct {
	TeamsByName   map[string]*docstore.TeamDoc
	TeamsByID     map[string]*docstore.TeamDoc
	PlayersByName map[string]*docstore.PlayerDoc
	TeamIDs       []string
	PlayerIDs     []string
	TeamStats     map[string]models.TeamStats
	PlayerStats   map[string]models.RealPlayerStats
}

// StatsKey builds the composite key for a season-stats row
func StatsKey(entityID, seasonID string) string {
	return entityID + "|" + seasonID
}

// LoadRequest names everything a strategy may fetch
type LoadRequest struct {
	SeasonID      string
	TeamNames     []string
	PlayerNames   []string
	LinkedTeamIDs []string
}

// LoadStrategy fetches the entities a job needs to reconcile against.
// Contract: never return partial results — a failed sub-query fails
// the whole load, because a silently missing "already exists" entry
// would make the reconciler create a duplicate.
type LoadStrategy interface {
	Load(ctx context.Context, req LoadRequest) (*LoadedEntities, error)
	Name() string
}

// selectiveLoader is the new-import path: targeted multi-value queries
// for exactly the incoming names, plus ID-only projections of both
// collections for allocator seeding.
type selectiveLoader struct {
	store       Store
	teamStats   repository.TeamStatsRepository
	playerStats repository.PlayerStatsRepository
}

// NewSelectiveLoader creates the targeted-query strategy
func NewSelectiveLoader(store Store, teamStats repository.TeamStatsRepository, playerStats repository.PlayerStatsRepository) LoadStrategy {
	return &selectiveLoader{store: store, teamStats: teamStats, playerStats: playerStats}
}

func (l *selectiveLoader) Name() string { return "selective" }

func (l *selectiveLoader) Load(ctx context.Context, req LoadRequest) (*LoadedEntities, error) {
	loaded := &LoadedEntities{
		TeamsByID: make(map[string]*docstore.TeamDoc),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		teams, err := l.store.FindTeamsByName(gctx, req.TeamNames)
		if err != nil {
			return err
		}
		loaded.TeamsByName = teams
		return nil
	})
	g.Go(func() error {
		players, err := l.store.FindPlayersByName(gctx, req.PlayerNames)
		if err != nil {
			return err
		}
		loaded.PlayersByName = players
		return nil
	})
	if len(req.LinkedTeamIDs) > 0 {
		g.Go(func() error {
			byID, err := l.store.GetTeamsByID(gctx, req.LinkedTeamIDs)
			if err != nil {
				return err
			}
			loaded.TeamsByID = byID
			return nil
		})
	}
	g.Go(func() error {
		ids, err := l.store.ListTeamIDs(gctx)
		if err != nil {
			return err
		}
		loaded.TeamIDs = ids
		return nil
	})
	g.Go(func() error {
		ids, err := l.store.ListPlayerIDs(gctx)
		if err != nil {
			return err
		}
		loaded.PlayerIDs = ids
		return nil
	})
	g.Go(func() error {
		return loadSeasonStats(l.teamStats, l.playerStats, req.SeasonID, loaded)
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("importer: selective load: %w", err)
	}
	return loaded, nil
}

// reimportLoader is the re-import path: the detector already told us
// nearly every incoming name exists, so the targeted queries are
// redundant. One bulk scan of each collection yields the documents,
// the name maps and the allocator-seed IDs together.
type reimportLoader struct {
	store       Store
	teamStats   repository.TeamStatsRepository
	playerStats repository.PlayerStatsRepository
}

// NewReimportLoader creates the bulk-scan strategy
func NewReimportLoader(store Store, teamStats repository.TeamStatsRepository, playerStats repository.PlayerStatsRepository) LoadStrategy {
	return &reimportLoader{store: store, teamStats: teamStats, playerStats: playerStats}
}

func (l *reimportLoader) Name() string { return "reimport" }

func (l *reimportLoader) Load(ctx context.Context, req LoadRequest) (*LoadedEntities, error) {
	loaded := &LoadedEntities{}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		teams, err := l.store.AllTeams(gctx)
		if err != nil {
			return err
		}
		byName := make(map[string]*docstore.TeamDoc, len(teams))
		byID := make(map[string]*docstore.TeamDoc, len(teams))
		ids := make([]string, 0, len(teams))
		for _, t := range teams {
			byName[docstore.NormalizeKey(t.TeamName)] = t
			byID[t.ID] = t
			ids = append(ids, t.ID)
		}
		loaded.TeamsByName = byName
		loaded.TeamsByID = byID
		loaded.TeamIDs = ids
		return nil
	})
	g.Go(func() error {
		players, err := l.store.AllPlayers(gctx)
		if err != nil {
			return err
		}
		byName := make(map[string]*docstore.PlayerDoc, len(players))
		ids := make([]string, 0, len(players))
		for _, p := range players {
			byName[docstore.NormalizeKey(p.Name)] = p
			ids = append(ids, p.PlayerID)
		}
		loaded.PlayersByName = byName
		loaded.PlayerIDs = ids
		return nil
	})
	g.Go(func() error {
		return loadSeasonStats(l.teamStats, l.playerStats, req.SeasonID, loaded)
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("importer: re-import load: %w", err)
	}
	return loaded, nil
}

// loadSeasonStats fetches the season's existing stats rows from the
// relational store. The load contract is that a strategy returns
// everything the job may touch; the writer itself never consults these
// rows, its upserts replace whatever is there.
func loadSeasonStats(teamStats repository.TeamStatsRepository, playerStats repository.PlayerStatsRepository, seasonID string, loaded *LoadedEntities) error {
	teamRows, err := teamStats.GetBySeason(seasonID)
	if err != nil {
		return err
	}
	playerRows, err := playerStats.GetBySeason(seasonID)
	if err != nil {
		return err
	}

	loaded.TeamStats = make(map[string]models.TeamStats, len(teamRows))
	for _, row := range teamRows {
		loaded.TeamStats[StatsKey(row.TeamID, row.SeasonID)] = row
	}
	loaded.PlayerStats = make(map[string]models.RealPlayerStats, len(playerRows))
	for _, row := range playerRows {
		loaded.PlayerStats[StatsKey(row.PlayerID, row.SeasonID)] = row
	}
	return nil
}
