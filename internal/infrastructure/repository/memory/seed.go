package memory

import (
	"time"

	"github.com/wechner/CoGs/internal/domain/game"
	"github.com/wechner/CoGs/internal/domain/league"
	"github.com/wechner/CoGs/internal/domain/player"
	"github.com/wechner/CoGs/internal/domain/session"
)

const (
	LeagueIDHobart = "league-hobart"
	LeagueIDSydney = "league-sydney"
)

func SeedLeagues() []league.League {
	return []league.League{
		{ID: LeagueIDHobart, Name: "Hobart"},
		{ID: LeagueIDSydney, Name: "Sydney"},
	}
}

func SeedPlayers() []player.Player {
	return []player.Player{
		{ID: "player-bernd", Name: "Bernd Wechner", Nickname: "Bernd", BGGName: "berndw", LeagueIDs: []string{LeagueIDHobart}},
		{ID: "player-alice", Name: "Alice Turner", Nickname: "Alice", BGGName: "aliceplays", LeagueIDs: []string{LeagueIDHobart}},
		{ID: "player-chris", Name: "Chris Nguyen", Nickname: "Chris", BGGName: "chrisn", LeagueIDs: []string{LeagueIDHobart, LeagueIDSydney}},
		{ID: "player-dana", Name: "Dana Kowalski", Nickname: "Dana", BGGName: "danak", LeagueIDs: []string{LeagueIDSydney}},
		{ID: "player-eli", Name: "Eli Brooks", Nickname: "Eli", BGGName: "elibgg", LeagueIDs: []string{LeagueIDSydney}},
		{ID: "player-fran", Name: "Fran Harper", Nickname: "Fran", BGGName: "franh", LeagueIDs: []string{LeagueIDHobart}},
	}
}

func SeedGames() []game.Game {
	return []game.Game{
		{ID: "game-carcassonne", ExternalID: 822, Name: "Carcassonne"},
		{ID: "game-7wonders", ExternalID: 68448, Name: "7 Wonders"},
		{ID: "game-dominion", ExternalID: 36218, Name: "Dominion"},
		{ID: "game-azul", ExternalID: 230802, Name: "Azul"},
		{ID: "game-wingspan", ExternalID: 266192, Name: "Wingspan"},
	}
}

// SeedSessions spreads plays over a few months so popularity, recency
// and window based selections all have something to bite on. Player
// ids are listed in finishing order, winner first.
func SeedSessions() []session.Session {
	at := func(day, hour int) time.Time {
		return time.Date(2023, 3, day, hour, 0, 0, 0, time.UTC)
	}

	return []session.Session{
		{ID: "seed-s01", GameID: "game-carcassonne", LeagueID: LeagueIDHobart, Time: at(1, 19), PlayerIDs: []string{"player-bernd", "player-alice", "player-fran"}},
		{ID: "seed-s02", GameID: "game-carcassonne", LeagueID: LeagueIDHobart, Time: at(3, 19), PlayerIDs: []string{"player-alice", "player-bernd", "player-chris"}},
		{ID: "seed-s03", GameID: "game-7wonders", LeagueID: LeagueIDHobart, Time: at(5, 20), PlayerIDs: []string{"player-chris", "player-alice", "player-bernd", "player-fran"}},
		{ID: "seed-s04", GameID: "game-dominion", LeagueID: LeagueIDSydney, Time: at(8, 18), PlayerIDs: []string{"player-dana", "player-eli", "player-chris"}},
		{ID: "seed-s05", GameID: "game-carcassonne", LeagueID: LeagueIDHobart, Time: at(10, 19), PlayerIDs: []string{"player-bernd", "player-fran", "player-alice"}},
		{ID: "seed-s06", GameID: "game-azul", LeagueID: LeagueIDSydney, Time: at(12, 20), PlayerIDs: []string{"player-eli", "player-dana"}},
		{ID: "seed-s07", GameID: "game-7wonders", LeagueID: LeagueIDHobart, Time: at(15, 20), PlayerIDs: []string{"player-alice", "player-chris", "player-fran"}},
		{ID: "seed-s08", GameID: "game-dominion", LeagueID: LeagueIDSydney, Time: at(18, 18), PlayerIDs: []string{"player-chris", "player-dana", "player-eli"}},
		{ID: "seed-s09", GameID: "game-carcassonne", LeagueID: LeagueIDSydney, Time: at(20, 19), PlayerIDs: []string{"player-dana", "player-chris"}},
		{ID: "seed-s10", GameID: "game-wingspan", LeagueID: LeagueIDHobart, Time: at(22, 19), PlayerIDs: []string{"player-fran", "player-bernd"}},
		{ID: "seed-s11", GameID: "game-carcassonne", LeagueID: LeagueIDHobart, Time: at(25, 19), PlayerIDs: []string{"player-chris", "player-bernd", "player-alice", "player-fran"}},
		{ID: "seed-s12", GameID: "game-azul", LeagueID: LeagueIDSydney, Time: at(27, 20), PlayerIDs: []string{"player-dana", "player-eli", "player-chris"}},
	}
}
