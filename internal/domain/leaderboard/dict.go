package leaderboard

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/bytebufferpool"
)

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayoutZoned)
}

// AsDict returns a flat JSON-safe view of every option value, used to
// populate client controls and echo state back.
func (o *Options) AsDict() map[string]any {
	enabled := o.EnabledOptions()
	names := make([]string, len(enabled))
	for i, opt := range enabled {
		names[i] = string(opt)
	}

	compareBackTo := any("")
	if o.CompareBackToDays > 0 {
		compareBackTo = o.CompareBackToDays
	} else if !o.CompareBackTo.IsZero() {
		compareBackTo = formatTime(o.CompareBackTo)
	}

	return map[string]any{
		"enabled":            names,
		"games":              append([]string(nil), o.Games...),
		"num_games":          o.NumGames,
		"game_leagues":       append([]string(nil), o.GameLeagues...),
		"game_players":       append([]string(nil), o.GamePlayers...),
		"changed_since":      formatTime(o.ChangedSince),
		"num_days":           o.NumDays,
		"players":            append([]string(nil), o.Players...),
		"num_players_top":    o.NumPlayersTop,
		"num_players_above":  o.NumPlayersAbove,
		"num_players_below":  o.NumPlayersBelow,
		"min_plays":          o.MinPlays,
		"played_since":       formatTime(o.PlayedSince),
		"player_leagues":     append([]string(nil), o.PlayerLeagues...),
		"as_at":              formatTime(o.AsAt),
		"compare_with":       o.CompareWith,
		"compare_back_to":    compareBackTo,
		"highlight_players":  o.HighlightPlayers,
		"highlight_changes":  o.HighlightChanges,
		"highlight_selected": o.HighlightSelected,
		"names":              string(o.Names),
		"links":              string(o.Links),
		"details":            o.Details,
		"analysis_pre":       o.AnalysisPre,
		"analysis_post":      o.AnalysisPost,
		"cols":               o.Cols,
	}
}

// AsParams reconstructs the flat request parameters that rebuild an
// equivalent Options through NewOptions.
func (o *Options) AsParams() map[string]string {
	params := make(map[string]string)

	for _, opt := range o.EnabledOptions() {
		switch opt {
		case OptGamesEx, OptGamesIn:
			params[string(opt)] = strings.Join(o.Games, ",")
		case OptTopGames, OptLatestGames:
			params[string(opt)] = strconv.Itoa(o.NumGames)
		case OptGameLeaguesAny, OptGameLeaguesAll:
			params[string(opt)] = strings.Join(o.GameLeagues, ",")
		case OptGamePlayersAny, OptGamePlayersAll:
			params[string(opt)] = strings.Join(o.GamePlayers, ",")
		case OptChangedSince:
			params[string(opt)] = formatTime(o.ChangedSince)
		case OptNumDays:
			params[string(opt)] = strconv.Itoa(o.NumDays)
		case OptPlayersEx, OptPlayersIn:
			params[string(opt)] = strings.Join(o.Players, ",")
		case OptNumPlayersTop:
			params[string(opt)] = strconv.Itoa(o.NumPlayersTop)
		case OptNumPlayersAbove:
			params[string(opt)] = strconv.Itoa(o.NumPlayersAbove)
		case OptNumPlayersBelow:
			params[string(opt)] = strconv.Itoa(o.NumPlayersBelow)
		case OptMinPlays:
			params[string(opt)] = strconv.Itoa(o.MinPlays)
		case OptPlayedSince:
			params[string(opt)] = formatTime(o.PlayedSince)
		case OptPlayerLeaguesAny, OptPlayerLeaguesAll:
			params[string(opt)] = strings.Join(o.PlayerLeagues, ",")
		case OptAsAt:
			params[string(opt)] = formatTime(o.AsAt)
		case OptCompareWith:
			params[string(opt)] = strconv.Itoa(o.CompareWith)
		case OptCompareBackTo:
			if o.CompareBackToDays > 0 {
				params[string(opt)] = strconv.Itoa(o.CompareBackToDays)
			} else {
				params[string(opt)] = formatTime(o.CompareBackTo)
			}
		}
	}

	params[string(OptHighlightPlayers)] = strconv.FormatBool(o.HighlightPlayers)
	params[string(OptHighlightChanges)] = strconv.FormatBool(o.HighlightChanges)
	params[string(OptHighlightSelected)] = strconv.FormatBool(o.HighlightSelected)
	params[string(OptNames)] = string(o.Names)
	params[string(OptLinks)] = string(o.Links)
	params[string(OptDetails)] = strconv.FormatBool(o.Details)
	params[string(OptAnalysisPre)] = strconv.FormatBool(o.AnalysisPre)
	params[string(OptAnalysisPost)] = strconv.FormatBool(o.AnalysisPost)
	params[string(OptCols)] = strconv.Itoa(o.Cols)

	return params
}

// CacheKey returns a canonical string for this configuration, stable
// across construction order, for cache lookups and request collapse.
func (o *Options) CacheKey() string {
	params := o.AsParams()
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	for i, k := range keys {
		if i > 0 {
			_ = buf.WriteByte('&')
		}
		_, _ = buf.WriteString(k)
		_ = buf.WriteByte('=')
		_, _ = buf.WriteString(params[k])
	}
	return buf.String()
}
