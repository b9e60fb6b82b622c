package importer

import (
	"context"

	"github.com/gofiber/fiber/v2/log"

	"github.com/Shamsear/ssleague/internal/pkg/docstore"
)

// Detector tuning: how many incoming names to sample and the match
// rate above which the job is treated as a re-import.
const (
	detectorSampleSize = 10
	reimportThreshold  = 0.8
)

// PlayerFinder is the document-store surface the detector needs
type PlayerFinder interface {
	FindPlayersByName(ctx context.Context, names []string) (map[string]*docstore.PlayerDoc, error)
}

// Detection is the detector's classification of an import job
type Detection struct {
	IsReimport bool
	MatchRate  float64
	SampleSize int
	Matches    int
}

// DetectReimport samples the first incoming player names against the
// document store. A high match rate means the season's entities almost
// certainly exist already and the bulk loading strategy is cheaper.
// This is a heuristic: a wrong answer only changes how much the batch
// loader fetches, never what the reconciler decides, so a store error
// fails open to the new-import classification instead of aborting.
func DetectReimport(ctx context.Context, finder PlayerFinder, playerNames []string) Detection {
	if len(playerNames) == 0 {
		return Detection{}
	}

	sample := playerNames
	if len(sample) > detectorSampleSize {
		sample = sample[:detectorSampleSize]
	}

	found, err := finder.FindPlayersByName(ctx, sample)
	if err != nil {
		log.Warnf("[Import] re-import detection query failed, assuming new import: %v", err)
		return Detection{SampleSize: len(sample)}
	}

	matches := 0
	for _, name := range sample {
		if _, ok := found[MatchKey(name)]; ok {
			matches++
		}
	}

	rate := float64(matches) / float64(len(sample))
	return Detection{
		IsReimport: rate >= reimportThreshold,
		MatchRate:  rate,
		SampleSize: len(sample),
		Matches:    matches,
	}
}
