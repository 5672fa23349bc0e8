package leaderboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func topGamesOptions(n int) *Options {
	o := defaultOptions()
	o.enabled[OptTopGames] = true
	o.NumGames = n
	o.enabled[OptNumPlayersTop] = true
	return o
}

func TestNeedsDB_NilCache(t *testing.T) {
	t.Parallel()

	assert.True(t, topGamesOptions(5).NeedsDB(nil))
}

func TestNeedsDB_TopGamesNarrowing(t *testing.T) {
	t.Parallel()

	cached := topGamesOptions(10)

	assert.False(t, topGamesOptions(5).NeedsDB(cached))
	assert.False(t, topGamesOptions(10).NeedsDB(cached))
	assert.True(t, topGamesOptions(15).NeedsDB(cached))
}

func TestNeedsDB_CacheSafeOptionsNeverForceDB(t *testing.T) {
	t.Parallel()

	cached := topGamesOptions(10)

	fresh := topGamesOptions(10)
	fresh.enabled[OptMinPlays] = true
	fresh.MinPlays = 4
	fresh.enabled[OptPlayerLeaguesAny] = true
	fresh.PlayerLeagues = []string{"L1"}
	fresh.Names = NamesComplete
	fresh.Cols = 1

	assert.False(t, fresh.NeedsDB(cached))
}

func TestNeedsDB_AsAtAlwaysForcesDB(t *testing.T) {
	t.Parallel()

	at := time.Date(2023, 3, 1, 12, 0, 0, 0, time.UTC)

	cached := topGamesOptions(10)
	fresh := topGamesOptions(5)
	fresh.enabled[OptAsAt] = true
	fresh.AsAt = at

	// Enabling it.
	assert.True(t, fresh.NeedsDB(cached))

	// Disabling it.
	assert.True(t, cached.NeedsDB(fresh))

	// Changing its value.
	cachedAt := topGamesOptions(10)
	cachedAt.enabled[OptAsAt] = true
	cachedAt.AsAt = at.AddDate(0, 0, -1)
	assert.True(t, fresh.NeedsDB(cachedAt))

	// Identical perspective does not.
	sameAt := topGamesOptions(10)
	sameAt.enabled[OptAsAt] = true
	sameAt.AsAt = at
	assert.False(t, fresh.NeedsDB(sameAt))
}

func TestNeedsDB_ListSubsetRules(t *testing.T) {
	t.Parallel()

	cached := topGamesOptions(10)
	cached.enabled[OptGameLeaguesAny] = true
	cached.GameLeagues = []string{"L1", "L2"}

	subset := topGamesOptions(10)
	subset.enabled[OptGameLeaguesAny] = true
	subset.GameLeagues = []string{"L2"}
	assert.False(t, subset.NeedsDB(cached))

	superset := topGamesOptions(10)
	superset.enabled[OptGameLeaguesAny] = true
	superset.GameLeagues = []string{"L2", "L3"}
	assert.True(t, superset.NeedsDB(cached))

	// Same values under the other any/all mode are not comparable.
	otherMode := topGamesOptions(10)
	otherMode.enabled[OptGameLeaguesAll] = true
	otherMode.GameLeagues = []string{"L2"}
	assert.True(t, otherMode.NeedsDB(cached))

	// Dropping the filter widens the game selection.
	assert.True(t, topGamesOptions(10).NeedsDB(cached))
}

func TestNeedsDB_ChangedSinceDirection(t *testing.T) {
	t.Parallel()

	bound := time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)

	cached := topGamesOptions(10)
	cached.enabled[OptChangedSince] = true
	cached.ChangedSince = bound

	later := topGamesOptions(10)
	later.enabled[OptChangedSince] = true
	later.ChangedSince = bound.AddDate(0, 1, 0)
	assert.False(t, later.NeedsDB(cached))

	earlier := topGamesOptions(10)
	earlier.enabled[OptChangedSince] = true
	earlier.ChangedSince = bound.AddDate(0, -1, 0)
	assert.True(t, earlier.NeedsDB(cached))
}

func TestNeedsDB_EvolutionRules(t *testing.T) {
	t.Parallel()

	cached := topGamesOptions(10)
	cached.enabled[OptCompareWith] = true
	cached.CompareWith = 3

	fewer := topGamesOptions(10)
	fewer.enabled[OptCompareWith] = true
	fewer.CompareWith = 2
	assert.False(t, fewer.NeedsDB(cached))

	more := topGamesOptions(10)
	more.enabled[OptCompareWith] = true
	more.CompareWith = 4
	assert.True(t, more.NeedsDB(cached))
}

func TestNeedsDB_CompareBackToModes(t *testing.T) {
	t.Parallel()

	bound := time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)

	cachedDays := topGamesOptions(10)
	cachedDays.enabled[OptCompareBackTo] = true
	cachedDays.CompareBackToDays = 14

	fewerDays := topGamesOptions(10)
	fewerDays.enabled[OptCompareBackTo] = true
	fewerDays.CompareBackToDays = 7
	assert.False(t, fewerDays.NeedsDB(cachedDays))

	moreDays := topGamesOptions(10)
	moreDays.enabled[OptCompareBackTo] = true
	moreDays.CompareBackToDays = 30
	assert.True(t, moreDays.NeedsDB(cachedDays))

	// A timestamp cannot be compared against a day count.
	asTime := topGamesOptions(10)
	asTime.enabled[OptCompareBackTo] = true
	asTime.CompareBackTo = bound
	assert.True(t, asTime.NeedsDB(cachedDays))

	cachedTime := topGamesOptions(10)
	cachedTime.enabled[OptCompareBackTo] = true
	cachedTime.CompareBackTo = bound

	laterTime := topGamesOptions(10)
	laterTime.enabled[OptCompareBackTo] = true
	laterTime.CompareBackTo = bound.AddDate(0, 1, 0)
	assert.False(t, laterTime.NeedsDB(cachedTime))

	earlierTime := topGamesOptions(10)
	earlierTime.enabled[OptCompareBackTo] = true
	earlierTime.CompareBackTo = bound.AddDate(0, -1, 0)
	assert.True(t, earlierTime.NeedsDB(cachedTime))
}

func TestOptionClassification(t *testing.T) {
	t.Parallel()

	assert.True(t, IsCacheSafe(OptMinPlays))
	assert.True(t, IsCacheSafe(OptCols))
	assert.True(t, IsCacheExploiting(OptTopGames))
	assert.True(t, IsCacheExploiting(OptCompareWith))
	assert.True(t, IsCacheInvalidating(OptAsAt))
	assert.False(t, IsCacheSafe(OptAsAt))
	assert.False(t, IsCacheExploiting(OptAsAt))
}
