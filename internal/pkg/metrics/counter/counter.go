package counter

import (
	"context"
	"strconv"

	"github.com/Shamsear/ssleague/internal/pkg/cache"
)

const importJobsKey = "import:counters:jobs"

// Hash fields under importJobsKey
const (
	FieldStarted   = "started"
	FieldCompleted = "completed"
	FieldFailed    = "failed"
)

// AddImportStarted increments the started-jobs counter in Redis
func AddImportStarted() error {
	return cache.GetClient().HIncrBy(context.Background(), importJobsKey, FieldStarted, 1).Err()
}

// AddImportCompleted increments the completed-jobs counter in Redis
func AddImportCompleted() error {
	return cache.GetClient().HIncrBy(context.Background(), importJobsKey, FieldCompleted, 1).Err()
}

// AddImportFailed increments the failed-jobs counter in Redis
func AddImportFailed() error {
	return cache.GetClient().HIncrBy(context.Background(), importJobsKey, FieldFailed, 1).Err()
}

// ImportJobCounts returns the lifetime job counters. Missing fields
// read as zero.
func ImportJobCounts() (started, completed, failed int64, err error) {
	vals, err := cache.GetClient().HGetAll(context.Background(), importJobsKey).Result()
	if err != nil {
		return 0, 0, 0, err
	}
	parse := func(field string) int64 {
		n, _ := strconv.ParseInt(vals[field], 10, 64)
		return n
	}
	return parse(FieldStarted), parse(FieldCompleted), parse(FieldFailed), nil
}
