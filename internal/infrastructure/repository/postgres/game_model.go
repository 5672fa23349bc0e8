package postgres

import "time"

type gameTableModel struct {
	ID         int64      `db:"id"`
	PublicID   string     `db:"public_id"`
	ExternalID int64      `db:"external_id"`
	Name       string     `db:"name"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
	DeletedAt  *time.Time `db:"deleted_at"`
}

type gameStatsRow struct {
	PublicID     string    `db:"public_id"`
	ExternalID   int64     `db:"external_id"`
	Name         string    `db:"name"`
	LastPlay     time.Time `db:"last_play"`
	SessionCount int       `db:"session_count"`
	PlayCount    int       `db:"play_count"`
}
