package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/wechner/CoGs/internal/domain/session"
	"github.com/wechner/CoGs/internal/platform/id"
	qb "github.com/wechner/CoGs/internal/platform/querybuilder"
)

type SessionRepository struct {
	db  *sqlx.DB
	ids id.Generator
}

func NewSessionRepository(db *sqlx.DB, ids id.Generator) *SessionRepository {
	return &SessionRepository{db: db, ids: ids}
}

// Snapshots returns the sessions selected by q, newest first. Player
// lists come back in finishing order.
func (r *SessionRepository) Snapshots(ctx context.Context, q session.Query) ([]session.Session, error) {
	b := qb.Select("id", "public_id", "game_id", "league_id", "played_at").
		From("sessions").
		OrderBy("played_at DESC", "id DESC")

	if q.GameID != "" {
		b.Where(qb.Eq("game_id", q.GameID))
	}
	applyLeagueScope(b, q.LeaguesAny, q.LeaguesAll)
	if !q.AsAt.IsZero() {
		b.Where(qb.Lte("played_at", q.AsAt))
	}
	if !q.After.IsZero() {
		b.Where(qb.Gt("played_at", q.After))
	}
	if !q.From.IsZero() {
		b.Where(qb.Gte("played_at", q.From))
	}
	if q.Limit > 0 {
		b.Limit(q.Limit)
	}

	query, args, err := b.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build session snapshots query: %w", err)
	}

	var rows []sessionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select session snapshots: %w", err)
	}

	return r.attachPlayers(ctx, rows)
}

// Latest returns the most recent session time matching q, or the zero
// time when nothing matches.
func (r *SessionRepository) Latest(ctx context.Context, q session.LatestQuery) (time.Time, error) {
	b := qb.Select("MAX(played_at) AS latest").From("sessions")

	if q.GameID != "" {
		b.Where(qb.Eq("game_id", q.GameID))
	}
	applyLeagueScope(b, q.LeaguesAny, q.LeaguesAll)
	if !q.AsAt.IsZero() {
		b.Where(qb.Lte("played_at", q.AsAt))
	}

	query, args, err := b.ToSQL()
	if err != nil {
		return time.Time{}, fmt.Errorf("build latest session query: %w", err)
	}

	var latest sql.NullTime
	if err := r.db.GetContext(ctx, &latest, query, args...); err != nil {
		return time.Time{}, fmt.Errorf("select latest session time: %w", err)
	}
	if !latest.Valid {
		return time.Time{}, nil
	}

	return latest.Time, nil
}

// Save records a session and one performance row per player. Each
// performance stores the player's standing for the game as it is after
// this session, which later leaderboard reads take verbatim.
func (r *SessionRepository) Save(ctx context.Context, s session.Session) (session.Session, error) {
	if err := s.Validate(); err != nil {
		return session.Session{}, fmt.Errorf("validate session: %w", err)
	}

	if s.ID == "" {
		newID, err := r.ids.NewID("session")
		if err != nil {
			return session.Session{}, fmt.Errorf("generate session id: %w", err)
		}
		s.ID = newID
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return session.Session{}, fmt.Errorf("begin session save tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query, args, err := qb.InsertModel("sessions", sessionInsertModel{
		PublicID: s.ID,
		GameID:   s.GameID,
		LeagueID: s.LeagueID,
		PlayedAt: s.Time,
	}, "RETURNING id")
	if err != nil {
		return session.Session{}, fmt.Errorf("build session insert: %w", err)
	}

	var rowID int64
	if err := tx.GetContext(ctx, &rowID, query, args...); err != nil {
		return session.Session{}, fmt.Errorf("insert session: %w", err)
	}

	for i, playerID := range s.PlayerIDs {
		tally, err := r.tallyBefore(ctx, tx, s.GameID, playerID, s.Time)
		if err != nil {
			return session.Session{}, err
		}

		plays := tally.Plays + 1
		victories := tally.Victories
		if i == 0 {
			victories++
		}

		query, args, err := qb.InsertModel("performances", performanceInsertModel{
			SessionID:         rowID,
			PlayerID:          playerID,
			Position:          i + 1,
			EtaAfter:          float64(victories) + float64(plays)*0.1,
			PlayCountAfter:    plays,
			VictoryCountAfter: victories,
		}, "")
		if err != nil {
			return session.Session{}, fmt.Errorf("build performance insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return session.Session{}, fmt.Errorf("insert performance for %s: %w", playerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return session.Session{}, fmt.Errorf("commit session save tx: %w", err)
	}

	return s, nil
}

func (r *SessionRepository) tallyBefore(ctx context.Context, tx *sqlx.Tx, gameID, playerID string, at time.Time) (playerTallyRow, error) {
	query, args, err := qb.Select(
		"COUNT(*) AS plays",
		"COUNT(*) FILTER (WHERE p.position = 1) AS victories",
	).
		From("performances p").
		Join("sessions s", "s.id = p.session_id").
		Where(
			qb.Eq("p.player_id", playerID),
			qb.Eq("s.game_id", gameID),
			qb.Lte("s.played_at", at),
		).
		ToSQL()
	if err != nil {
		return playerTallyRow{}, fmt.Errorf("build player tally query: %w", err)
	}

	var tally playerTallyRow
	if err := tx.GetContext(ctx, &tally, query, args...); err != nil {
		return playerTallyRow{}, fmt.Errorf("select player tally for %s: %w", playerID, err)
	}

	return tally, nil
}

func (r *SessionRepository) attachPlayers(ctx context.Context, rows []sessionTableModel) ([]session.Session, error) {
	out := make([]session.Session, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}

	rowIDs := make([]any, 0, len(rows))
	for _, row := range rows {
		rowIDs = append(rowIDs, row.ID)
	}

	query, args, err := qb.Select("session_id", "player_id").
		From("performances").
		Where(qb.In("session_id", rowIDs)).
		OrderBy("session_id", "position").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build session players query: %w", err)
	}

	var players []performanceRow
	if err := r.db.SelectContext(ctx, &players, query, args...); err != nil {
		return nil, fmt.Errorf("select session players: %w", err)
	}

	byRow := make(map[int64][]string, len(rows))
	for _, p := range players {
		byRow[p.SessionID] = append(byRow[p.SessionID], p.PlayerID)
	}

	for _, row := range rows {
		out = append(out, session.Session{
			ID:        row.PublicID,
			GameID:    row.GameID,
			LeagueID:  row.LeagueID,
			Time:      row.PlayedAt,
			PlayerIDs: byRow[row.ID],
		})
	}

	return out, nil
}

// applyLeagueScope narrows sessions to the listed leagues. A session
// belongs to exactly one league, so both list forms reduce to
// membership here; the all form's coverage rule is enforced at the
// game level.
func applyLeagueScope(b *qb.SelectBuilder, leaguesAny, leaguesAll []string) {
	if len(leaguesAny) > 0 {
		b.Where(qb.In("league_id", toAnySlice(leaguesAny)))
	}
	if len(leaguesAll) > 0 {
		b.Where(qb.In("league_id", toAnySlice(leaguesAll)))
	}
}
