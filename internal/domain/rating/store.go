package rating

import (
	"context"
	"time"
)

// Store reconstructs leaderboards from rating state recorded after
// each session.
type Store interface {
	// Leaderboard returns the full board for a game as at the given
	// time (zero means now), ranked by rating descending. A non-empty
	// leagueIDs restricts the sessions the board is built from.
	Leaderboard(ctx context.Context, gameID string, leagueIDs []string, asAt time.Time) ([]Row, error)

	// PlayCounts returns total and session play counts for a game up
	// to asAt under the league restriction.
	PlayCounts(ctx context.Context, gameID string, leagueIDs []string, asAt time.Time) (Counts, error)
}
