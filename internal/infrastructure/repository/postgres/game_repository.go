package postgres

import (
	"context"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"
	"github.com/wechner/CoGs/internal/domain/game"
	qb "github.com/wechner/CoGs/internal/platform/querybuilder"
)

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) List(ctx context.Context) ([]game.Game, error) {
	query, args, err := qb.Select("*").From("games").
		Where(qb.IsNull("deleted_at")).
		OrderBy("name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select games query: %w", err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select games: %w", err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, game.Game{
			ID:         row.PublicID,
			ExternalID: row.ExternalID,
			Name:       row.Name,
		})
	}

	return out, nil
}

func (r *GameRepository) Exists(ctx context.Context, gameID string) (bool, error) {
	query, args, err := qb.Select("1").From("games").
		Where(
			qb.Eq("public_id", gameID),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build game exists query: %w", err)
	}

	var one int
	if err := r.db.GetContext(ctx, &one, query, args...); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("check game exists: %w", err)
	}

	return true, nil
}

// Select evaluates a game selection plan in one aggregate query, then
// unions the inclusive id list back in with a second one. The admission
// predicates live in HAVING so they see the league-restricted session
// population that also produces the annotations.
func (r *GameRepository) Select(ctx context.Context, q game.Query) ([]game.Annotated, error) {
	b := r.statsQuery(q.IDs, q.LeaguesAny, q.LeaguesAll)

	b.Having(admissionConditions(q)...)

	switch q.Ordering {
	case game.ByRecency:
		b.OrderBy("last_play DESC", "g.public_id")
	default:
		b.OrderBy("play_count DESC", "session_count DESC", "g.public_id")
	}
	if q.Limit > 0 {
		b.Limit(q.Limit)
	}

	query, args, err := b.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build game selection query: %w", err)
	}

	var rows []gameStatsRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select games for plan: %w", err)
	}

	admitted := make([]game.Annotated, 0, len(rows)+len(q.IncludeIDs))
	for _, row := range rows {
		admitted = append(admitted, row.annotated())
	}

	if len(q.IncludeIDs) > 0 {
		admitted, err = r.includeAfterLimit(ctx, admitted, q)
		if err != nil {
			return nil, err
		}
		orderAnnotated(admitted, q.Ordering)
	}

	return admitted, nil
}

// statsQuery builds the shared annotation aggregate over the
// league-restricted session population.
func (r *GameRepository) statsQuery(ids, leaguesAny, leaguesAll []string) *qb.SelectBuilder {
	b := qb.Select(
		"g.public_id",
		"g.external_id",
		"g.name",
		"MAX(s.played_at) AS last_play",
		"COUNT(DISTINCT s.id) AS session_count",
		"COUNT(p.player_id) AS play_count",
	).
		From("games g").
		Join("sessions s", "s.game_id = g.public_id").
		Join("performances p", "p.session_id = s.id").
		Where(qb.IsNull("g.deleted_at")).
		GroupBy("g.public_id", "g.external_id", "g.name")

	if len(ids) > 0 {
		b.Where(qb.In("g.public_id", toAnySlice(ids)))
	}
	if len(leaguesAny) > 0 {
		b.Where(qb.In("s.league_id", toAnySlice(leaguesAny)))
	}
	if len(leaguesAll) > 0 {
		// Sessions from any listed league count, but the game must have
		// been played in every one of them.
		b.Where(qb.In("s.league_id", toAnySlice(leaguesAll)))
		b.Having(qb.Expr("COUNT(DISTINCT s.league_id) = ?", len(leaguesAll)))
	}

	return b
}

// admissionConditions renders the OR-combined secondary predicates and
// the session window rule as HAVING conditions.
func admissionConditions(q game.Query) []qb.Condition {
	var out []qb.Condition

	var secondary []qb.Condition
	if !q.AdmitChangedSince.IsZero() {
		secondary = append(secondary, qb.Expr("MAX(s.played_at) >= ?", q.AdmitChangedSince))
	}
	if len(q.AdmitPlayersAny) > 0 {
		expr := fmt.Sprintf(
			"COUNT(*) FILTER (WHERE p.player_id IN (%s)) > 0",
			inPlaceholders(len(q.AdmitPlayersAny)),
		)
		secondary = append(secondary, qb.Expr(expr, toAnySlice(q.AdmitPlayersAny)...))
	}
	if len(q.AdmitPlayersAll) > 0 {
		expr := fmt.Sprintf(
			"COUNT(DISTINCT p.player_id) FILTER (WHERE p.player_id IN (%s)) = ?",
			inPlaceholders(len(q.AdmitPlayersAll)),
		)
		args := append(toAnySlice(q.AdmitPlayersAll), len(q.AdmitPlayersAll))
		secondary = append(secondary, qb.Expr(expr, args...))
	}
	if len(secondary) > 0 {
		out = append(out, qb.Or(secondary...))
	}

	if !q.WindowStart.IsZero() {
		if q.WindowEnd.IsZero() {
			out = append(out, qb.Expr(
				"COUNT(*) FILTER (WHERE s.played_at >= ?) > 0",
				q.WindowStart,
			))
		} else {
			out = append(out, qb.Expr(
				"COUNT(*) FILTER (WHERE s.played_at >= ? AND s.played_at <= ?) > 0",
				q.WindowStart, q.WindowEnd,
			))
		}
	}

	return out
}

// includeAfterLimit fetches the inclusive ids that survived neither the
// admission predicates nor the limit. They bypass every rule except
// existence and the non-empty session population.
func (r *GameRepository) includeAfterLimit(ctx context.Context, admitted []game.Annotated, q game.Query) ([]game.Annotated, error) {
	present := make(map[string]struct{}, len(admitted))
	for _, g := range admitted {
		present[g.ID] = struct{}{}
	}

	missing := make([]string, 0, len(q.IncludeIDs))
	for _, id := range q.IncludeIDs {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return admitted, nil
	}

	query, args, err := r.statsQuery(missing, q.LeaguesAny, q.LeaguesAll).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build inclusive games query: %w", err)
	}

	var rows []gameStatsRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select inclusive games: %w", err)
	}

	for _, row := range rows {
		admitted = append(admitted, row.annotated())
	}

	return admitted, nil
}

func (row gameStatsRow) annotated() game.Annotated {
	return game.Annotated{
		Game: game.Game{
			ID:         row.PublicID,
			ExternalID: row.ExternalID,
			Name:       row.Name,
		},
		LastPlay:     row.LastPlay,
		SessionCount: row.SessionCount,
		PlayCount:    row.PlayCount,
	}
}

func orderAnnotated(games []game.Annotated, ordering game.Ordering) {
	sort.SliceStable(games, func(i, j int) bool {
		a, b := games[i], games[j]
		if ordering == game.ByRecency {
			if !a.LastPlay.Equal(b.LastPlay) {
				return a.LastPlay.After(b.LastPlay)
			}
			return a.ID < b.ID
		}
		if a.PlayCount != b.PlayCount {
			return a.PlayCount > b.PlayCount
		}
		if a.SessionCount != b.SessionCount {
			return a.SessionCount > b.SessionCount
		}
		return a.ID < b.ID
	})
}
