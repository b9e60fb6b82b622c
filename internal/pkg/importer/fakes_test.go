package importer

import (
	"context"
	"errors"
	"sync"

	"github.com/Shamsear/ssleague/app/models"
	"github.com/Shamsear/ssleague/app/repository"
	"github.com/Shamsear/ssleague/internal/pkg/docstore"
	"github.com/Shamsear/ssleague/internal/pkg/identity"
)

// fakeStore is an in-memory document store. Name maps are keyed by
// docstore.NormalizeKey, mirroring the real client's contract.
type fakeStore struct {
	mu      sync.Mutex
	seasons map[string]*docstore.SeasonDoc
	teams   map[string]*docstore.TeamDoc   // by ID
	players map[string]*docstore.PlayerDoc // by ID

	failFind bool
	failAll  bool

	commits int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		seasons: make(map[string]*docstore.SeasonDoc),
		teams:   make(map[string]*docstore.TeamDoc),
		players: make(map[string]*docstore.PlayerDoc),
	}
}

var errFakeStore = errors.New("store unavailable")

func (s *fakeStore) GetSeason(_ context.Context, id string) (*docstore.SeasonDoc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seasons[id], nil
}

func (s *fakeStore) FindTeamsByName(_ context.Context, names []string) (map[string]*docstore.TeamDoc, error) {
	if s.failFind {
		return nil, errFakeStore
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]*docstore.TeamDoc)
	for _, name := range names {
		for _, t := range s.teams {
			if docstore.NormalizeKey(t.TeamName) == docstore.NormalizeKey(name) {
				out[docstore.NormalizeKey(t.TeamName)] = t
			}
		}
	}
	return out, nil
}

func (s *fakeStore) FindPlayersByName(_ context.Context, names []string) (map[string]*docstore.PlayerDoc, error) {
	if s.failFind {
		return nil, errFakeStore
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]*docstore.PlayerDoc)
	for _, name := range names {
		for _, p := range s.players {
			if docstore.NormalizeKey(p.Name) == docstore.NormalizeKey(name) {
				out[docstore.NormalizeKey(p.Name)] = p
			}
		}
	}
	return out, nil
}

func (s *fakeStore) GetTeamsByID(_ context.Context, ids []string) (map[string]*docstore.TeamDoc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]*docstore.TeamDoc)
	for _, id := range ids {
		if t, ok := s.teams[id]; ok {
			out[id] = t
		}
	}
	return out, nil
}

func (s *fakeStore) ListTeamIDs(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.teams))
	for id := range s.teams {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *fakeStore) ListPlayerIDs(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.players))
	for id := range s.players {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *fakeStore) AllTeams(_ context.Context) ([]*docstore.TeamDoc, error) {
	if s.failAll {
		return nil, errFakeStore
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*docstore.TeamDoc, 0, len(s.teams))
	for _, t := range s.teams {
		out = append(out, t)
	}
	return out, nil
}

func (s *fakeStore) AllPlayers(_ context.Context) ([]*docstore.PlayerDoc, error) {
	if s.failAll {
		return nil, errFakeStore
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*docstore.PlayerDoc, 0, len(s.players))
	for _, p := range s.players {
		out = append(out, p)
	}
	return out, nil
}

func (s *fakeStore) NewBatch() Batch {
	return &fakeBatch{store: s}
}

// fakeBatch queues documents and applies them to the parent store on
// commit, like the pipelined Redis batch does.
type fakeBatch struct {
	store *fakeStore

	seasons []*docstore.SeasonDoc
	teams   []*docstore.TeamDoc
	players []*docstore.PlayerDoc

	deletedIndexes []string

	commitErr error
}

func (b *fakeBatch) PutSeason(doc *docstore.SeasonDoc) { b.seasons = append(b.seasons, doc) }
func (b *fakeBatch) PutTeam(doc *docstore.TeamDoc)     { b.teams = append(b.teams, doc) }
func (b *fakeBatch) PutPlayer(doc *docstore.PlayerDoc) { b.players = append(b.players, doc) }

func (b *fakeBatch) DeleteNameIndex(collection, name string) {
	b.deletedIndexes = append(b.deletedIndexes, collection+"/"+docstore.NormalizeKey(name))
}

func (b *fakeBatch) Len() int {
	return len(b.seasons) + len(b.teams) + len(b.players)
}

func (b *fakeBatch) Commit(_ context.Context) error {
	if b.commitErr != nil {
		return b.commitErr
	}
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	for _, doc := range b.seasons {
		b.store.seasons[doc.ID] = doc
	}
	for _, doc := range b.teams {
		b.store.teams[doc.ID] = doc
	}
	for _, doc := range b.players {
		b.store.players[doc.PlayerID] = doc
	}
	b.store.commits++
	b.seasons = nil
	b.teams = nil
	b.players = nil
	return nil
}

// fakeTeamStatsRepo is an in-memory TeamStatsRepository
type fakeTeamStatsRepo struct {
	mu        sync.Mutex
	rows      map[string]models.TeamStats // by StatsKey
	upserts   int
	upsertErr error
}

func newFakeTeamStatsRepo() *fakeTeamStatsRepo {
	return &fakeTeamStatsRepo{rows: make(map[string]models.TeamStats)}
}

func (r *fakeTeamStatsRepo) Upsert(row *models.TeamStats) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upserts++
	r.rows[StatsKey(row.TeamID, row.SeasonID)] = *row
	return nil
}

func (r *fakeTeamStatsRepo) GetBySeason(seasonID string) ([]models.TeamStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.TeamStats
	for _, row := range r.rows {
		if row.SeasonID == seasonID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeTeamStatsRepo) GetByTeamAndSeason(teamID, seasonID string) (*models.TeamStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row, ok := r.rows[StatsKey(teamID, seasonID)]; ok {
		return &row, nil
	}
	return nil, nil
}

func (r *fakeTeamStatsRepo) CountBySeason(seasonID string) (int64, error) {
	rows, _ := r.GetBySeason(seasonID)
	return int64(len(rows)), nil
}

// fakePlayerStatsRepo is an in-memory PlayerStatsRepository
type fakePlayerStatsRepo struct {
	mu        sync.Mutex
	rows      map[string]models.RealPlayerStats
	upserts   int
	upsertErr error
}

func newFakePlayerStatsRepo() *fakePlayerStatsRepo {
	return &fakePlayerStatsRepo{rows: make(map[string]models.RealPlayerStats)}
}

func (r *fakePlayerStatsRepo) Upsert(row *models.RealPlayerStats) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upserts++
	r.rows[StatsKey(row.PlayerID, row.SeasonID)] = *row
	return nil
}

func (r *fakePlayerStatsRepo) GetBySeason(seasonID string) ([]models.RealPlayerStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.RealPlayerStats
	for _, row := range r.rows {
		if row.SeasonID == seasonID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakePlayerStatsRepo) GetByPlayerAndSeason(playerID, seasonID string) (*models.RealPlayerStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row, ok := r.rows[StatsKey(playerID, seasonID)]; ok {
		return &row, nil
	}
	return nil, nil
}

func (r *fakePlayerStatsRepo) CountBySeason(seasonID string) (int64, error) {
	rows, _ := r.GetBySeason(seasonID)
	return int64(len(rows)), nil
}

func newFakeRepos() (*repository.Repositories, *fakeTeamStatsRepo, *fakePlayerStatsRepo) {
	teams := newFakeTeamStatsRepo()
	players := newFakePlayerStatsRepo()
	return &repository.Repositories{TeamStats: teams, PlayerStats: players}, teams, players
}

// fakeIdentity is an in-memory identity provider
type fakeIdentity struct {
	mu        sync.Mutex
	logins    map[string]*identity.Login // by email
	created   int
	createErr error
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{logins: make(map[string]*identity.Login)}
}

func (f *fakeIdentity) FindByEmail(_ context.Context, email string) (*identity.Login, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logins[email], nil
}

func (f *fakeIdentity) CreateLogin(_ context.Context, params identity.CreateParams) (*identity.Login, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created++
	login := &identity.Login{UID: "uid-" + params.TeamID, Email: params.Email}
	f.logins[params.Email] = login
	return login, nil
}

// memProgressStore keeps job snapshots in memory
type memProgressStore struct {
	mu   sync.Mutex
	jobs map[string]Job
}

func newMemProgressStore() *memProgressStore {
	return &memProgressStore{jobs: make(map[string]Job)}
}

func (s *memProgressStore) GetJob(_ context.Context, importID string) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[importID]
	if !ok {
		return nil, nil
	}
	return &job, nil
}

func (s *memProgressStore) PutJob(_ context.Context, job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ImportID] = *job
	return nil
}
