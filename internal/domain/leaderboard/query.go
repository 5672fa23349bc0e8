package leaderboard

import (
	"time"

	"github.com/wechner/CoGs/internal/domain/game"
	"github.com/wechner/CoGs/internal/domain/session"
)

// GameQuery translates the game filters into a selection plan. The
// caller supplies the num_days window bounds since computing them
// needs a session lookup; both are ignored unless num_days is on.
func (o *Options) GameQuery(windowStart, windowEnd time.Time) game.Query {
	q := game.Query{Ordering: game.ByPopularity}

	if o.enabled[OptGamesEx] {
		q.IDs = o.Games
	}
	if o.enabled[OptGameLeaguesAny] {
		q.LeaguesAny = o.GameLeagues
	}
	if o.enabled[OptGameLeaguesAll] {
		q.LeaguesAll = o.GameLeagues
	}
	if o.enabled[OptChangedSince] {
		q.AdmitChangedSince = o.ChangedSince
	}
	if o.enabled[OptGamePlayersAny] {
		q.AdmitPlayersAny = o.GamePlayers
	}
	if o.enabled[OptGamePlayersAll] {
		q.AdmitPlayersAll = o.GamePlayers
	}
	if o.enabled[OptNumDays] {
		q.WindowStart = windowStart
		q.WindowEnd = windowEnd
	}
	if o.enabled[OptLatestGames] {
		q.Ordering = game.ByRecency
	}
	if o.enabled[OptTopGames] || o.enabled[OptLatestGames] {
		q.Limit = o.NumGames
	}
	if o.enabled[OptGamesIn] {
		q.IncludeIDs = o.Games
	}

	return q
}

// SnapshotQuery translates the evolution options into the session
// selection for one game. latestLeaguePlay anchors the day-count form
// of compare_back_to and may be zero when no session qualifies.
func (o *Options) SnapshotQuery(gameID string, latestLeaguePlay time.Time) session.Query {
	q := session.Query{GameID: gameID}

	if o.enabled[OptGameLeaguesAny] {
		q.LeaguesAny = o.GameLeagues
	}
	if o.enabled[OptGameLeaguesAll] {
		q.LeaguesAll = o.GameLeagues
	}
	if o.enabled[OptAsAt] {
		q.AsAt = o.AsAt
	}

	switch {
	case o.enabled[OptCompareWith]:
		q.Limit = o.CompareWith + 1
	case o.enabled[OptCompareBackTo]:
		if o.CompareBackToDays > 0 {
			if !latestLeaguePlay.IsZero() {
				q.From = latestLeaguePlay.AddDate(0, 0, -o.CompareBackToDays)
			}
		} else {
			q.After = o.CompareBackTo
		}
	default:
		q.Limit = 1
	}

	return q
}
