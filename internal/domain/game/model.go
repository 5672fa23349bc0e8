package game

import "time"

// Game is a board game tracked by the club.
type Game struct {
	ID         string
	ExternalID int64
	Name       string
}

// Annotated carries a game plus play statistics scoped to a league
// restriction. LastPlay is the zero time when the restricted session
// population is empty.
type Annotated struct {
	Game
	LastPlay     time.Time
	SessionCount int
	PlayCount    int
}

// Ordering selects how candidate games are ranked before truncation.
type Ordering int

const (
	ByPopularity Ordering = iota
	ByRecency
)

// Query captures a game selection plan. Lists are ignored when empty,
// time fields when zero, Limit when non-positive.
type Query struct {
	// IDs restricts candidates to an explicit set before any other rule.
	IDs []string

	// LeaguesAny and LeaguesAll scope the session population used for
	// annotations and for the played-at-all requirement.
	LeaguesAny []string
	LeaguesAll []string

	// Admission criteria, OR-ed together when more than one is set.
	AdmitChangedSince time.Time
	AdmitPlayersAny   []string
	AdmitPlayersAll   []string

	// WindowStart admits only games with activity in
	// [WindowStart, WindowEnd); a zero WindowEnd means no upper bound.
	WindowStart time.Time
	WindowEnd   time.Time

	Ordering Ordering
	Limit    int

	// IncludeIDs are unioned in after truncation, bypassing every
	// admission rule except existence.
	IncludeIDs []string
}

// Restricted reports whether the query scopes sessions to leagues.
func (q Query) Restricted() bool {
	return len(q.LeaguesAny) > 0 || len(q.LeaguesAll) > 0
}
