package rating

import "time"

// Row is one leaderboard line for a player on a game, reflecting all
// rated sessions up to a point in time.
type Row struct {
	Rank      int
	PlayerID  string
	BGGName   string
	Nickname  string
	FullName  string
	Eta       float64
	Plays     int
	Victories int
	LastPlay  time.Time
	LeagueIDs []string
}

// Counts aggregates play activity for a game under a league
// restriction.
type Counts struct {
	Total    int
	Sessions int
}
