package postgres

import (
	"database/sql"
	"time"
)

type ratingRowModel struct {
	PlayerID          string         `db:"player_id"`
	EtaAfter          float64        `db:"eta_after"`
	PlayCountAfter    int            `db:"play_count_after"`
	VictoryCountAfter int            `db:"victory_count_after"`
	LastPlay          time.Time      `db:"last_play"`
	Name              string         `db:"name"`
	Nickname          string         `db:"nickname"`
	BGGName           sql.NullString `db:"bgg_name"`
}

type playCountsRow struct {
	Total    int `db:"total"`
	Sessions int `db:"sessions"`
}
