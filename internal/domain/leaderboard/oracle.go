package leaderboard

// NeedsDB decides whether this request must hit the database or can
// be served by re-filtering the raw boards computed under cached.
// Player filters and presentation options never force a hit. Game and
// evolution options force one unless the request narrows what the
// cache already holds. Any perspective change forces one outright.
func (o *Options) NeedsDB(cached *Options) bool {
	if cached == nil {
		return true
	}
	return o.asAtChanged(cached) || o.gamesNeedDB(cached) || o.evolutionNeedsDB(cached)
}

func (o *Options) asAtChanged(cached *Options) bool {
	if o.enabled[OptAsAt] != cached.enabled[OptAsAt] {
		return true
	}
	return o.enabled[OptAsAt] && !o.AsAt.Equal(cached.AsAt)
}

func (o *Options) gamesNeedDB(cached *Options) bool {
	if !o.listNarrower(cached, OptGamesEx, o.Games, cached.Games) {
		return true
	}
	if !o.listNarrower(cached, OptGamesIn, o.Games, cached.Games) {
		return true
	}
	if !o.listNarrower(cached, OptGameLeaguesAny, o.GameLeagues, cached.GameLeagues) {
		return true
	}
	if !o.listNarrower(cached, OptGameLeaguesAll, o.GameLeagues, cached.GameLeagues) {
		return true
	}
	if !o.listNarrower(cached, OptGamePlayersAny, o.GamePlayers, cached.GamePlayers) {
		return true
	}
	if !o.listNarrower(cached, OptGamePlayersAll, o.GamePlayers, cached.GamePlayers) {
		return true
	}
	if !o.countNarrower(cached, OptTopGames, o.NumGames, cached.NumGames) {
		return true
	}
	if !o.countNarrower(cached, OptLatestGames, o.NumGames, cached.NumGames) {
		return true
	}
	if !o.countNarrower(cached, OptNumDays, o.NumDays, cached.NumDays) {
		return true
	}

	// A later changed-since bound selects fewer games than cached.
	if o.enabled[OptChangedSince] != cached.enabled[OptChangedSince] {
		return true
	}
	if o.enabled[OptChangedSince] && o.ChangedSince.Before(cached.ChangedSince) {
		return true
	}

	return false
}

func (o *Options) evolutionNeedsDB(cached *Options) bool {
	if !o.countNarrower(cached, OptCompareWith, o.CompareWith, cached.CompareWith) {
		return true
	}
	return !o.compareBackNarrower(cached)
}

// listNarrower reports whether opt's id list asks for no more than
// the cache holds. A differing enabled state is never narrower.
func (o *Options) listNarrower(cached *Options, opt Option, now, then []string) bool {
	if o.enabled[opt] != cached.enabled[opt] {
		return false
	}
	if !o.enabled[opt] {
		return true
	}
	return containsAll(then, now)
}

func (o *Options) countNarrower(cached *Options, opt Option, now, then int) bool {
	if o.enabled[opt] != cached.enabled[opt] {
		return false
	}
	if !o.enabled[opt] {
		return true
	}
	return now <= then
}

func (o *Options) compareBackNarrower(cached *Options) bool {
	if o.enabled[OptCompareBackTo] != cached.enabled[OptCompareBackTo] {
		return false
	}
	if !o.enabled[OptCompareBackTo] {
		return true
	}

	nowDays, thenDays := o.CompareBackToDays > 0, cached.CompareBackToDays > 0
	if nowDays != thenDays {
		return false
	}
	if nowDays {
		return o.CompareBackToDays <= cached.CompareBackToDays
	}
	// A later bound requests less history than the cache holds.
	return !o.CompareBackTo.Before(cached.CompareBackTo)
}
