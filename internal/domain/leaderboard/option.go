package leaderboard

// Option identifies one request option. The set is closed: parsing
// only recognizes these names and classification below is fixed at
// compile time.
type Option string

const (
	// Game filters.
	OptGamesEx        Option = "games_ex"
	OptGamesIn        Option = "games_in"
	OptTopGames       Option = "top_games"
	OptLatestGames    Option = "latest_games"
	OptGameLeaguesAny Option = "game_leagues_any"
	OptGameLeaguesAll Option = "game_leagues_all"
	OptGamePlayersAny Option = "game_players_any"
	OptGamePlayersAll Option = "game_players_all"
	OptChangedSince   Option = "changed_since"
	OptNumDays        Option = "num_days"

	// Player filters.
	OptPlayersEx        Option = "players_ex"
	OptPlayersIn        Option = "players_in"
	OptNumPlayersTop    Option = "num_players_top"
	OptNumPlayersAbove  Option = "num_players_above"
	OptNumPlayersBelow  Option = "num_players_below"
	OptMinPlays         Option = "min_plays"
	OptPlayedSince      Option = "played_since"
	OptPlayerLeaguesAny Option = "player_leagues_any"
	OptPlayerLeaguesAll Option = "player_leagues_all"

	// Perspective.
	OptAsAt Option = "as_at"

	// Evolution.
	OptCompareWith   Option = "compare_with"
	OptCompareBackTo Option = "compare_back_to"

	// Formatting.
	OptHighlightPlayers  Option = "highlight_players"
	OptHighlightChanges  Option = "highlight_changes"
	OptHighlightSelected Option = "highlight_selected"
	OptNames             Option = "names"
	OptLinks             Option = "links"

	// Info.
	OptDetails      Option = "details"
	OptAnalysisPre  Option = "analysis_pre"
	OptAnalysisPost Option = "analysis_post"

	// Layout.
	OptCols Option = "cols"
)

type optionSet map[Option]struct{}

func newOptionSet(opts ...Option) optionSet {
	s := make(optionSet, len(opts))
	for _, o := range opts {
		s[o] = struct{}{}
	}
	return s
}

func (s optionSet) has(o Option) bool {
	_, ok := s[o]
	return ok
}

func (s optionSet) union(others ...optionSet) optionSet {
	out := make(optionSet, len(s))
	for o := range s {
		out[o] = struct{}{}
	}
	for _, other := range others {
		for o := range other {
			out[o] = struct{}{}
		}
	}
	return out
}

var (
	gameFilters = newOptionSet(
		OptGamesEx, OptGamesIn, OptTopGames, OptLatestGames,
		OptGameLeaguesAny, OptGameLeaguesAll,
		OptGamePlayersAny, OptGamePlayersAll,
		OptChangedSince, OptNumDays,
	)

	playerFilters = newOptionSet(
		OptPlayersEx, OptPlayersIn,
		OptNumPlayersTop, OptNumPlayersAbove, OptNumPlayersBelow,
		OptMinPlays, OptPlayedSince,
		OptPlayerLeaguesAny, OptPlayerLeaguesAll,
	)

	perspectiveOptions = newOptionSet(OptAsAt)

	evolutionOptions = newOptionSet(OptCompareWith, OptCompareBackTo)

	formattingOptions = newOptionSet(
		OptHighlightPlayers, OptHighlightChanges, OptHighlightSelected,
		OptNames, OptLinks,
	)

	infoOptions = newOptionSet(OptDetails, OptAnalysisPre, OptAnalysisPost)

	layoutOptions = newOptionSet(OptCols)

	// needsEnabling options are off until a request names them.
	// Formatting, info and layout options are always active.
	needsEnabling = gameFilters.union(playerFilters, perspectiveOptions, evolutionOptions)

	// Cache classification. Safe options only change filtering or
	// rendering of raw boards; exploiting options may narrow or widen
	// the data selection; invalidating options change the point in
	// time every query is evaluated at.
	cacheSafeOptions         = playerFilters.union(formattingOptions, infoOptions, layoutOptions)
	cacheExploitingOptions   = gameFilters.union(evolutionOptions)
	cacheInvalidatingOptions = perspectiveOptions
)

// exclusiveSibling maps each option of a mutually exclusive pair to
// its partner. Enabling one of a pair disables the other.
var exclusiveSibling = map[Option]Option{
	OptGamesEx:          OptGamesIn,
	OptGamesIn:          OptGamesEx,
	OptGameLeaguesAny:   OptGameLeaguesAll,
	OptGameLeaguesAll:   OptGameLeaguesAny,
	OptGamePlayersAny:   OptGamePlayersAll,
	OptGamePlayersAll:   OptGamePlayersAny,
	OptPlayersEx:        OptPlayersIn,
	OptPlayersIn:        OptPlayersEx,
	OptPlayerLeaguesAny: OptPlayerLeaguesAll,
	OptPlayerLeaguesAll: OptPlayerLeaguesAny,
	OptCompareWith:      OptCompareBackTo,
	OptCompareBackTo:    OptCompareWith,
}

// IsCacheSafe reports whether changing o never requires new data.
func IsCacheSafe(o Option) bool { return cacheSafeOptions.has(o) }

// IsCacheExploiting reports whether changing o may be servable from
// cached raw boards depending on the direction of change.
func IsCacheExploiting(o Option) bool { return cacheExploitingOptions.has(o) }

// IsCacheInvalidating reports whether any change to o discards cache.
func IsCacheInvalidating(o Option) bool { return cacheInvalidatingOptions.has(o) }
