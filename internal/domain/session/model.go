package session

import (
	"fmt"
	"time"
)

// Session is one recorded play of a game.
type Session struct {
	ID        string
	GameID    string
	LeagueID  string
	Time      time.Time
	PlayerIDs []string
}

func (s Session) Validate() error {
	if s.GameID == "" {
		return fmt.Errorf("session game id is required")
	}
	if s.Time.IsZero() {
		return fmt.Errorf("session time is required")
	}
	if len(s.PlayerIDs) == 0 {
		return fmt.Errorf("session players are required")
	}

	return nil
}

// Query selects the sessions whose post-session state becomes a
// leaderboard snapshot. Results are newest first.
type Query struct {
	GameID     string
	LeaguesAny []string
	LeaguesAll []string

	// AsAt caps session time inclusively when non-zero.
	AsAt time.Time

	// After keeps sessions strictly newer than this bound; From keeps
	// sessions at or after it. At most one is set.
	After time.Time
	From  time.Time

	Limit int
}

// LatestQuery finds the most recent session time under a league
// restriction, optionally scoped to one game.
type LatestQuery struct {
	GameID     string
	LeaguesAny []string
	LeaguesAll []string
	AsAt       time.Time
}
