package leaderboard

import (
	"time"

	"github.com/wechner/CoGs/internal/domain/rating"
)

// SnapshotBoard is one game's leaderboard as it stood immediately
// after a recorded session.
type SnapshotBoard struct {
	Time         time.Time
	PlayCount    int
	SessionCount int
	Detail       string
	Rows         []rating.Row
}

// GameBoard is the ordered snapshot series for one selected game.
type GameBoard struct {
	GameID     string
	ExternalID int64
	Name       string
	Snapshots  []SnapshotBoard
}

// CacheEntry pairs raw unfiltered boards with the configuration that
// produced them. Player filters are reapplied on the way out, so a
// narrower request can reuse the entry without touching storage.
type CacheEntry struct {
	Options *Options
	Boards  []GameBoard
}
