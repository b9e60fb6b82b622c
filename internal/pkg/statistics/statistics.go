package statistics

import (
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/Shamsear/ssleague/app/repository"
	"github.com/Shamsear/ssleague/internal/pkg/cache"
)

const (
	CacheKeySeasonTeams   = "statistics:season:%s:teams"   // Format with season code
	CacheKeySeasonPlayers = "statistics:season:%s:players" // Format with season code
	CacheExpiration       = 30 * time.Minute
)

// SeasonStatistics holds the row counts shown for one season
type SeasonStatistics struct {
	SeasonID string `json:"seasonId"`
	Teams    int64  `json:"teams"`
	Players  int64  `json:"players"`
}

var (
	lastCacheUpdate     = map[string]time.Time{}
	cacheUpdateMutex    sync.Mutex
	cacheUpdateInterval = 5 * time.Minute
)

// GetSeasonStatistics returns the cached counts for a season, falling
// back to the relational store when the cache is cold or stale.
func GetSeasonStatistics(seasonID string) (*SeasonStatistics, error) {
	stats := &SeasonStatistics{SeasonID: seasonID}

	if !shouldRefresh(seasonID) {
		teams, terr := cache.GetInt(fmt.Sprintf(CacheKeySeasonTeams, seasonID))
		players, perr := cache.GetInt(fmt.Sprintf(CacheKeySeasonPlayers, seasonID))
		if terr == nil && perr == nil {
			stats.Teams = int64(teams)
			stats.Players = int64(players)
			return stats, nil
		}
	}

	repos := repository.GetGlobalRepositories()
	teams, err := repos.TeamStats.CountBySeason(seasonID)
	if err != nil {
		return nil, err
	}
	players, err := repos.PlayerStats.CountBySeason(seasonID)
	if err != nil {
		return nil, err
	}
	stats.Teams = teams
	stats.Players = players

	if err := cache.Set(fmt.Sprintf(CacheKeySeasonTeams, seasonID), strconv.FormatInt(teams, 10), CacheExpiration); err != nil {
		log.Printf("statistics: cache update failed for %s: %v", seasonID, err)
	}
	if err := cache.Set(fmt.Sprintf(CacheKeySeasonPlayers, seasonID), strconv.FormatInt(players, 10), CacheExpiration); err != nil {
		log.Printf("statistics: cache update failed for %s: %v", seasonID, err)
	}
	markRefreshed(seasonID)

	return stats, nil
}

func shouldRefresh(seasonID string) bool {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()
	return time.Since(lastCacheUpdate[seasonID]) > cacheUpdateInterval
}

func markRefreshed(seasonID string) {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()
	lastCacheUpdate[seasonID] = time.Now()
}
