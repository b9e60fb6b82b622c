package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Shamsear/ssleague/internal/pkg/cache"
)

// Cache key format and lifetime for import progress snapshots
const (
	ProgressKeyFormat = "doc:import_progress:%s" // doc:import_progress:<importId>
	ProgressTTL       = 24 * time.Hour
)

// Status values an import job moves through
type Status string

const (
	StatusInitializing     Status = "initializing"
	StatusImportingSeason  Status = "importing_season"
	StatusImportingTeams   Status = "importing_teams"
	StatusImportingPlayers Status = "importing_players"
	StatusCompleted        Status = "completed"
	StatusFailed           Status = "failed"
)

// Job is the progress snapshot a polling client reads. It is written
// only by the orchestrator; readers may see any intermediate state.
type Job struct {
	ImportID       string     `json:"importId"`
	Status         Status     `json:"status"`
	Progress       int        `json:"progress"`
	CurrentTask    string     `json:"currentTask"`
	TotalItems     int        `json:"totalItems"`
	ProcessedItems int        `json:"processedItems"`
	StartTime      time.Time  `json:"startTime"`
	EndTime        *time.Time `json:"endTime,omitempty"`
	Error          string     `json:"error,omitempty"`
	SeasonID       string     `json:"seasonId,omitempty"`
}

// ProgressStore persists job snapshots for the polling endpoint
type ProgressStore interface {
	GetJob(ctx context.Context, importID string) (*Job, error)
	PutJob(ctx context.Context, job *Job) error
}

type redisProgressStore struct {
	rdb *redis.Client
}

// NewProgressStore creates a progress store on the shared Redis connection
func NewProgressStore() ProgressStore {
	return &redisProgressStore{rdb: cache.GetClient()}
}

// GetJob returns the stored snapshot, nil when the import is unknown
func (s *redisProgressStore) GetJob(ctx context.Context, importID string) (*Job, error) {
	raw, err := s.rdb.Get(ctx, fmt.Sprintf(ProgressKeyFormat, importID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("progress: get %s: %w", importID, err)
	}
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		return nil, fmt.Errorf("progress: decode %s: %w", importID, err)
	}
	return &job, nil
}

// PutJob stores the snapshot with the standard TTL
func (s *redisProgressStore) PutJob(ctx context.Context, job *Job) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("progress: encode %s: %w", job.ImportID, err)
	}
	if err := s.rdb.Set(ctx, fmt.Sprintf(ProgressKeyFormat, job.ImportID), raw, ProgressTTL).Err(); err != nil {
		return fmt.Errorf("progress: put %s: %w", job.ImportID, err)
	}
	return nil
}

// Tracker updates progress snapshots with read-merge-write semantics.
// Conflicting writes are last-writer-wins, which is acceptable because
// only the owning orchestrator mutates a job.
type Tracker struct {
	store ProgressStore
}

// NewTracker creates a tracker on the given store
func NewTracker(store ProgressStore) *Tracker {
	return &Tracker{store: store}
}

// Create durably stores the initial snapshot. The start endpoint only
// returns the import ID after this succeeds.
func (t *Tracker) Create(ctx context.Context, importID string, totalItems int) (*Job, error) {
	job := &Job{
		ImportID:    importID,
		Status:      StatusInitializing,
		Progress:    0,
		CurrentTask: "Initializing import process...",
		TotalItems:  totalItems,
		StartTime:   time.Now(),
	}
	if err := t.store.PutJob(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// Get returns the current snapshot, nil when unknown
func (t *Tracker) Get(ctx context.Context, importID string) (*Job, error) {
	return t.store.GetJob(ctx, importID)
}

func (t *Tracker) merge(ctx context.Context, importID string, mutate func(*Job)) error {
	job, err := t.store.GetJob(ctx, importID)
	if err != nil {
		return err
	}
	if job == nil {
		return fmt.Errorf("progress: unknown import %s", importID)
	}
	mutate(job)
	return t.store.PutJob(ctx, job)
}

// Begin marks a phase transition
func (t *Tracker) Begin(ctx context.Context, importID string, status Status, task string, progress int) error {
	return t.merge(ctx, importID, func(j *Job) {
		j.Status = status
		j.CurrentTask = task
		j.Progress = progress
		j.ProcessedItems = 0
	})
}

// Step records per-item progress within a phase
func (t *Tracker) Step(ctx context.Context, importID string, progress, processed int, task string) error {
	return t.merge(ctx, importID, func(j *Job) {
		j.Progress = progress
		j.ProcessedItems = processed
		j.CurrentTask = task
	})
}

// SetSeason records the resolved season code
func (t *Tracker) SetSeason(ctx context.Context, importID, seasonID string, progress int) error {
	return t.merge(ctx, importID, func(j *Job) {
		j.SeasonID = seasonID
		j.Progress = progress
	})
}

// Complete marks the job finished
func (t *Tracker) Complete(ctx context.Context, importID, task string, processed int) error {
	return t.merge(ctx, importID, func(j *Job) {
		now := time.Now()
		j.Status = StatusCompleted
		j.Progress = 100
		j.CurrentTask = task
		j.ProcessedItems = processed
		j.EndTime = &now
	})
}

// Fail marks the job failed with a human-readable message
func (t *Tracker) Fail(ctx context.Context, importID, message string) error {
	return t.merge(ctx, importID, func(j *Job) {
		now := time.Now()
		j.Status = StatusFailed
		j.Error = message
		j.EndTime = &now
	})
}
