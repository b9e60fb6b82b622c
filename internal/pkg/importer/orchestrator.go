package importer

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/Shamsear/ssleague/app/repository"
	"github.com/Shamsear/ssleague/internal/pkg/docstore"
	"github.com/Shamsear/ssleague/internal/pkg/identity"
	"github.com/Shamsear/ssleague/internal/pkg/metrics/counter"
)

// SeasonIDPrefix starts every season code
const SeasonIDPrefix = "SSPSLS"

// SeasonCode derives the season document ID from the season number.
// The code is deterministic, so importing the same number twice always
// lands on the same season record.
func SeasonCode(seasonNumber int) string {
	return SeasonIDPrefix + strconv.Itoa(seasonNumber)
}

// Orchestrator runs import jobs. Start accepts a payload, durably
// records the initial progress snapshot and hands the job to a
// background goroutine; clients follow along via the progress tracker.
type Orchestrator struct {
	store    Store
	repos    *repository.Repositories
	identity identity.Provider
	tracker  *Tracker
}

// NewOrchestrator wires the import pipeline
func NewOrchestrator(store Store, repos *repository.Repositories, provider identity.Provider, tracker *Tracker) *Orchestrator {
	return &Orchestrator{store: store, repos: repos, identity: provider, tracker: tracker}
}

// Start launches an import job and returns its ID. The ID is only
// returned after the initial snapshot is stored, so a poll that races
// the job start never sees "unknown import".
func (o *Orchestrator) Start(ctx context.Context, payload *ImportPayload) (string, error) {
	importID := uuid.NewString()
	if _, err := o.tracker.Create(ctx, importID, payload.TotalItems()); err != nil {
		return "", fmt.Errorf("importer: create progress record: %w", err)
	}

	log.Infof("[Import] job %s started: season %d, %d teams, %d players",
		importID, payload.SeasonInfo.SeasonNumber, len(payload.Teams), len(payload.Players))
	if err := counter.AddImportStarted(); err != nil {
		log.Debugf("[Import] job counter update failed: %v", err)
	}

	go o.run(importID, payload)
	return importID, nil
}

// run is the background job body. The job context is torn down on both
// the success and the failure path so no allocator or cache state can
// leak into a later job.
func (o *Orchestrator) run(importID string, payload *ImportPayload) {
	ctx := context.Background()
	jc := NewJobContext(importID)
	defer jc.Reset()

	if err := o.process(ctx, jc, payload); err != nil {
		log.Errorf("[Import] job %s failed: %v", importID, err)
		if ferr := o.tracker.Fail(ctx, importID, err.Error()); ferr != nil {
			log.Errorf("[Import] job %s: recording failure also failed: %v", importID, ferr)
		}
		if cerr := counter.AddImportFailed(); cerr != nil {
			log.Debugf("[Import] job counter update failed: %v", cerr)
		}
		return
	}
	if err := counter.AddImportCompleted(); err != nil {
		log.Debugf("[Import] job counter update failed: %v", err)
	}
}

func (o *Orchestrator) process(ctx context.Context, jc *JobContext, payload *ImportPayload) error {
	jc.SeasonID = SeasonCode(payload.SeasonInfo.SeasonNumber)
	jc.SeasonName = payload.SeasonInfo.Name
	if jc.SeasonName == "" {
		jc.SeasonName = fmt.Sprintf("Season %d", payload.SeasonInfo.SeasonNumber)
	}

	// Season record
	o.step(ctx, jc.ImportID, StatusImportingSeason, "Creating season record...", 5)
	existingSeason, err := o.upsertSeason(ctx, jc, payload.SeasonInfo)
	if err != nil {
		return err
	}
	if err := o.tracker.SetSeason(ctx, jc.ImportID, jc.SeasonID, 10); err != nil {
		log.Warnf("[Import] job %s: progress update failed: %v", jc.ImportID, err)
	}

	// Re-import detection. Names are canonicalized up front: the stored
	// name index and every match key are built from the canonical form,
	// so a raw spelling with stray whitespace would slip past both the
	// detector sample and the targeted load.
	o.progress(ctx, jc.ImportID, 12, 0, "Checking for existing data...")
	playerNames := make([]string, 0, len(payload.Players))
	for _, p := range payload.Players {
		playerNames = append(playerNames, CanonicalName(p.Name))
	}
	detection := DetectReimport(ctx, o.store, playerNames)
	log.Infof("[Import] job %s: detection matched %d/%d (re-import=%v)",
		jc.ImportID, detection.Matches, detection.SampleSize, detection.IsReimport)
	o.progress(ctx, jc.ImportID, 15, 0, "Loading existing entities...")

	// Batch load with the strategy the detection picked. The bulk path
	// needs both signals: a high match rate and an existing season
	// record, otherwise the targeted queries stay cheaper.
	strategy := o.pickStrategy(detection, existingSeason != nil)
	loaded, err := strategy.Load(ctx, LoadRequest{
		SeasonID:      jc.SeasonID,
		TeamNames:     teamNames(payload.Teams),
		PlayerNames:   playerNames,
		LinkedTeamIDs: linkedTeamIDs(payload.Teams),
	})
	if err != nil {
		return err
	}
	jc.Loaded = loaded
	jc.TeamAlloc.Seed(loaded.TeamIDs)
	jc.PlayerAlloc.Seed(loaded.PlayerIDs)
	log.Infof("[Import] job %s: loaded %d teams, %d players via %s strategy",
		jc.ImportID, len(loaded.TeamsByName), len(loaded.PlayersByName), strategy.Name())
	o.progress(ctx, jc.ImportID, 20, 0, "Importing teams...")

	writer := NewWriter(o.store, o.repos)

	// Team phase: 20 -> 60
	o.step(ctx, jc.ImportID, StatusImportingTeams, "Importing teams...", 20)
	teams := NewTeamReconciler(o.identity, jc.SeasonID, jc.SeasonName)
	for i, row := range payload.Teams {
		out, err := teams.Reconcile(ctx, jc, row)
		if err != nil {
			return fmt.Errorf("team %q: %w", row.Name, err)
		}
		if err := writer.WriteTeam(ctx, out); err != nil {
			return fmt.Errorf("team %q: %w", row.Name, err)
		}
		pct := 20 + (i+1)*40/len(payload.Teams)
		o.progress(ctx, jc.ImportID, pct, i+1, fmt.Sprintf("Importing team %d/%d: %s", i+1, len(payload.Teams), out.Doc.TeamName))
	}
	if err := writer.Flush(ctx); err != nil {
		return err
	}

	// Player phase: 60 -> 95
	writer.SetFlushThreshold(PlayerPhaseFlushThreshold)
	o.step(ctx, jc.ImportID, StatusImportingPlayers, "Importing players...", 60)
	players := NewPlayerReconciler(jc.SeasonID)
	for i, row := range payload.Players {
		out, err := players.Reconcile(jc, row)
		if err != nil {
			return fmt.Errorf("player %q: %w", row.Name, err)
		}
		if err := writer.WritePlayer(ctx, out); err != nil {
			return fmt.Errorf("player %q: %w", row.Name, err)
		}
		jc.AggregatePlayer(row)
		pct := 60 + (i+1)*35/len(payload.Players)
		o.progress(ctx, jc.ImportID, pct, len(payload.Teams)+i+1, fmt.Sprintf("Importing player %d/%d: %s", i+1, len(payload.Players), out.Doc.Name))
	}
	if err := writer.Flush(ctx); err != nil {
		return err
	}

	// Closing pass: fold the aggregated player figures into each team's
	// performance history entry for this season.
	o.progress(ctx, jc.ImportID, 96, payload.TotalItems(), "Updating team summaries...")
	for _, doc := range jc.teamDocs {
		agg, ok := jc.teamAgg[docstore.NormalizeKey(doc.TeamName)]
		if !ok {
			continue
		}
		entry := doc.History[jc.SeasonID]
		entry.PlayersCount = agg.PlayerCount
		entry.TotalGoals = agg.TotalGoals
		entry.TotalPoints = agg.TotalPoints
		entry.MatchesPlayed = agg.MaxMatches
		doc.History[jc.SeasonID] = entry
		if err := writer.PutTeamDoc(ctx, doc); err != nil {
			return err
		}
	}
	if err := writer.Flush(ctx); err != nil {
		return err
	}

	teamCount, playerCount := writer.CountsForSeason(jc.SeasonID)
	task := fmt.Sprintf("Import completed: %d teams, %d players", teamCount, playerCount)
	if err := o.tracker.Complete(ctx, jc.ImportID, task, payload.TotalItems()); err != nil {
		return fmt.Errorf("importer: record completion: %w", err)
	}
	log.Infof("[Import] job %s completed: season %s, %d team rows, %d player rows",
		jc.ImportID, jc.SeasonID, teamCount, playerCount)
	return nil
}

// upsertSeason creates or refreshes the season document. It returns
// the previously stored document, nil on first import of this season.
func (o *Orchestrator) upsertSeason(ctx context.Context, jc *JobContext, info SeasonInfo) (*docstore.SeasonDoc, error) {
	existing, err := o.store.GetSeason(ctx, jc.SeasonID)
	if err != nil {
		return nil, fmt.Errorf("importer: load season %s: %w", jc.SeasonID, err)
	}

	now := time.Now()
	doc := existing
	if doc == nil {
		doc = &docstore.SeasonDoc{
			ID:           jc.SeasonID,
			SeasonNumber: info.SeasonNumber,
			Status:       "completed",
			IsHistorical: true,
			CreatedAt:    now,
		}
	}
	doc.Name = jc.SeasonName
	doc.ShortName = info.ShortName
	if doc.ShortName == "" {
		doc.ShortName = "S" + strconv.Itoa(info.SeasonNumber)
	}
	doc.Metadata = docstore.ImportMetadata{
		SourceFile: info.FileName,
		FileSize:   info.FileSize,
		FileType:   info.FileType,
		ImportDate: now,
	}
	doc.UpdatedAt = now

	batch := o.store.NewBatch()
	batch.PutSeason(doc)
	if err := batch.Commit(ctx); err != nil {
		return nil, fmt.Errorf("importer: write season %s: %w", jc.SeasonID, err)
	}
	return existing, nil
}

func (o *Orchestrator) pickStrategy(d Detection, seasonExists bool) LoadStrategy {
	if d.IsReimport && seasonExists {
		return NewReimportLoader(o.store, o.repos.TeamStats, o.repos.PlayerStats)
	}
	return NewSelectiveLoader(o.store, o.repos.TeamStats, o.repos.PlayerStats)
}

// step and progress tolerate tracker failures: losing a progress
// update must not abort a job that is otherwise writing fine.
func (o *Orchestrator) step(ctx context.Context, importID string, status Status, task string, pct int) {
	if err := o.tracker.Begin(ctx, importID, status, task, pct); err != nil {
		log.Warnf("[Import] job %s: progress update failed: %v", importID, err)
	}
}

func (o *Orchestrator) progress(ctx context.Context, importID string, pct, processed int, task string) {
	if err := o.tracker.Step(ctx, importID, pct, processed, task); err != nil {
		log.Warnf("[Import] job %s: progress update failed: %v", importID, err)
	}
}

// teamNames returns the canonical spelling of every incoming team name.
// The name index only knows canonical names, so querying a raw variant
// would miss its entry.
func teamNames(rows []TeamRow) []string {
	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, CanonicalName(r.Name))
	}
	return names
}

func linkedTeamIDs(rows []TeamRow) []string {
	ids := make([]string, 0)
	for _, r := range rows {
		if r.LinkedTeamID != "" {
			ids = append(ids, r.LinkedTeamID)
		}
	}
	return ids
}
