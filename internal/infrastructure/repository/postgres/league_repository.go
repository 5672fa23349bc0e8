package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/wechner/CoGs/internal/domain/league"
	qb "github.com/wechner/CoGs/internal/platform/querybuilder"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(qb.IsNull("deleted_at")).
		OrderBy("name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select leagues query: %w", err)
	}

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select leagues: %w", err)
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, league.League{
			ID:   row.PublicID,
			Name: row.Name,
		})
	}

	return out, nil
}

func (r *LeagueRepository) Exists(ctx context.Context, leagueID string) (bool, error) {
	query, args, err := qb.Select("1").From("leagues").
		Where(
			qb.Eq("public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build league exists query: %w", err)
	}

	var one int
	if err := r.db.GetContext(ctx, &one, query, args...); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("check league exists: %w", err)
	}

	return true, nil
}

func (r *LeagueRepository) NamesByID(ctx context.Context, leagueIDs []string) (map[string]string, error) {
	if len(leagueIDs) == 0 {
		return map[string]string{}, nil
	}

	query, args, err := qb.Select("public_id", "name").From("leagues").
		Where(
			qb.In("public_id", toAnySlice(leagueIDs)),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build league names query: %w", err)
	}

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select league names: %w", err)
	}

	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.PublicID] = row.Name
	}

	return out, nil
}
