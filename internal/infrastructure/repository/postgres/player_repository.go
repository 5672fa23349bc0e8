package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/wechner/CoGs/internal/domain/player"
	qb "github.com/wechner/CoGs/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	query, args, err := qb.Select("*").From("players").
		Where(qb.IsNull("deleted_at")).
		OrderBy("name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, player.Player{
			ID:       row.PublicID,
			Name:     row.Name,
			Nickname: row.Nickname,
			BGGName:  row.BGGName.String,
		})
		ids = append(ids, row.PublicID)
	}

	leagues, err := playerLeagues(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].LeagueIDs = leagues[out[i].ID]
	}

	return out, nil
}

func (r *PlayerRepository) Exists(ctx context.Context, playerID string) (bool, error) {
	query, args, err := qb.Select("1").From("players").
		Where(
			qb.Eq("public_id", playerID),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build player exists query: %w", err)
	}

	var one int
	if err := r.db.GetContext(ctx, &one, query, args...); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("check player exists: %w", err)
	}

	return true, nil
}

func (r *PlayerRepository) NamesByID(ctx context.Context, playerIDs []string) (map[string]string, error) {
	if len(playerIDs) == 0 {
		return map[string]string{}, nil
	}

	query, args, err := qb.Select("public_id", "name").From("players").
		Where(
			qb.In("public_id", toAnySlice(playerIDs)),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build player names query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select player names: %w", err)
	}

	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.PublicID] = row.Name
	}

	return out, nil
}

func playerLeagues(ctx context.Context, db *sqlx.DB, playerIDs []string) (map[string][]string, error) {
	if len(playerIDs) == 0 {
		return map[string][]string{}, nil
	}

	query, args, err := qb.Select("player_id", "league_id").From("player_leagues").
		Where(qb.In("player_id", toAnySlice(playerIDs))).
		OrderBy("player_id", "league_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build player leagues query: %w", err)
	}

	var rows []playerLeagueRow
	if err := db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select player leagues: %w", err)
	}

	out := make(map[string][]string, len(playerIDs))
	for _, row := range rows {
		out[row.PlayerID] = append(out[row.PlayerID], row.LeagueID)
	}

	return out, nil
}
