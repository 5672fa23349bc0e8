package postgres

import (
	"context"
	"sort"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/wechner/CoGs/internal/domain/rating"
	qb "github.com/wechner/CoGs/internal/platform/querybuilder"
)

// RatingStore reconstructs leaderboards from the per-performance
// standings written at session save time. Each player's line is their
// most recent performance at or before the perspective time.
type RatingStore struct {
	db *sqlx.DB
}

func NewRatingStore(db *sqlx.DB) *RatingStore {
	return &RatingStore{db: db}
}

func (r *RatingStore) Leaderboard(ctx context.Context, gameID string, leagueIDs []string, asAt time.Time) ([]rating.Row, error) {
	b := qb.Select(
		"DISTINCT ON (p.player_id) p.player_id",
		"p.eta_after",
		"p.play_count_after",
		"p.victory_count_after",
		"s.played_at AS last_play",
		"pl.name",
		"pl.nickname",
		"pl.bgg_name",
	).
		From("performances p").
		Join("sessions s", "s.id = p.session_id").
		Join("players pl", "pl.public_id = p.player_id").
		Where(
			qb.Eq("s.game_id", gameID),
			qb.IsNull("pl.deleted_at"),
		).
		OrderBy("p.player_id", "s.played_at DESC", "p.session_id DESC")

	if len(leagueIDs) > 0 {
		b.Where(qb.In("s.league_id", toAnySlice(leagueIDs)))
	}
	if !asAt.IsZero() {
		b.Where(qb.Lte("s.played_at", asAt))
	}

	query, args, err := b.ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build leaderboard query")
	}

	var models []ratingRowModel
	if err := r.db.SelectContext(ctx, &models, query, args...); err != nil {
		return nil, errors.Wrapf(err, "select leaderboard for game %s", gameID)
	}

	playerIDs := make([]string, 0, len(models))
	for _, m := range models {
		playerIDs = append(playerIDs, m.PlayerID)
	}
	leagues, err := playerLeagues(ctx, r.db, playerIDs)
	if err != nil {
		return nil, errors.Wrap(err, "attach player leagues")
	}

	rows := make([]rating.Row, 0, len(models))
	for _, m := range models {
		rows = append(rows, rating.Row{
			PlayerID:  m.PlayerID,
			BGGName:   m.BGGName.String,
			Nickname:  m.Nickname,
			FullName:  m.Name,
			Eta:       m.EtaAfter,
			Plays:     m.PlayCountAfter,
			Victories: m.VictoryCountAfter,
			LastPlay:  m.LastPlay,
			LeagueIDs: leagues[m.PlayerID],
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Eta != b.Eta {
			return a.Eta > b.Eta
		}
		if a.Plays != b.Plays {
			return a.Plays > b.Plays
		}
		return a.PlayerID < b.PlayerID
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}

	return rows, nil
}

func (r *RatingStore) PlayCounts(ctx context.Context, gameID string, leagueIDs []string, asAt time.Time) (rating.Counts, error) {
	b := qb.Select(
		"COUNT(*) AS total",
		"COUNT(DISTINCT p.session_id) AS sessions",
	).
		From("performances p").
		Join("sessions s", "s.id = p.session_id").
		Where(qb.Eq("s.game_id", gameID))

	if len(leagueIDs) > 0 {
		b.Where(qb.In("s.league_id", toAnySlice(leagueIDs)))
	}
	if !asAt.IsZero() {
		b.Where(qb.Lte("s.played_at", asAt))
	}

	query, args, err := b.ToSQL()
	if err != nil {
		return rating.Counts{}, errors.Wrap(err, "build play counts query")
	}

	var row playCountsRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return rating.Counts{}, errors.Wrapf(err, "select play counts for game %s", gameID)
	}

	return rating.Counts{Total: row.Total, Sessions: row.Sessions}, nil
}
