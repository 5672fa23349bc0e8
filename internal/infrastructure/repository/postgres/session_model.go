package postgres

import "time"

type sessionTableModel struct {
	ID       int64     `db:"id"`
	PublicID string    `db:"public_id"`
	GameID   string    `db:"game_id"`
	LeagueID string    `db:"league_id"`
	PlayedAt time.Time `db:"played_at"`
}

type sessionInsertModel struct {
	PublicID string    `db:"public_id"`
	GameID   string    `db:"game_id"`
	LeagueID string    `db:"league_id"`
	PlayedAt time.Time `db:"played_at"`
}

type performanceInsertModel struct {
	SessionID         int64   `db:"session_id"`
	PlayerID          string  `db:"player_id"`
	Position          int     `db:"position"`
	EtaAfter          float64 `db:"eta_after"`
	PlayCountAfter    int     `db:"play_count_after"`
	VictoryCountAfter int     `db:"victory_count_after"`
}

type performanceRow struct {
	SessionID int64  `db:"session_id"`
	PlayerID  string `db:"player_id"`
}

type playerTallyRow struct {
	Plays     int `db:"plays"`
	Victories int `db:"victories"`
}
