package postgres

import (
	"database/sql"
	"time"
)

type playerTableModel struct {
	ID        int64          `db:"id"`
	PublicID  string         `db:"public_id"`
	Name      string         `db:"name"`
	Nickname  string         `db:"nickname"`
	BGGName   sql.NullString `db:"bgg_name"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
	DeletedAt *time.Time     `db:"deleted_at"`
}

type playerLeagueRow struct {
	PlayerID string `db:"player_id"`
	LeagueID string `db:"league_id"`
}
