package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/wechner/CoGs/internal/domain/game"
	"github.com/wechner/CoGs/internal/domain/leaderboard"
	"github.com/wechner/CoGs/internal/domain/league"
	"github.com/wechner/CoGs/internal/domain/player"
	"github.com/wechner/CoGs/internal/domain/session"
	"github.com/wechner/CoGs/internal/infrastructure/repository/memory"
	"github.com/wechner/CoGs/internal/platform/cache"
)

func day(d int) time.Time {
	return time.Date(2023, 3, d, 19, 0, 0, 0, time.UTC)
}

// countingGameRepo records how often the selection pipeline reaches
// storage, which is the observable difference between a cache hit and
// a recomputation.
type countingGameRepo struct {
	game.Repository
	selects atomic.Int32
}

func (r *countingGameRepo) Select(ctx context.Context, q game.Query) ([]game.Annotated, error) {
	r.selects.Add(1)
	return r.Repository.Select(ctx, q)
}

func leaderboardFixture() (*LeaderboardService, *countingGameRepo) {
	players := memory.NewPlayerRepository([]player.Player{
		{ID: "P1", Name: "Player One", Nickname: "One", LeagueIDs: []string{"LA"}},
		{ID: "P2", Name: "Player Two", Nickname: "Two", LeagueIDs: []string{"LA"}},
		{ID: "P3", Name: "Player Three", Nickname: "Three", LeagueIDs: []string{"LB"}},
	})
	sessions := memory.NewSessionRepository([]session.Session{
		{ID: "s1", GameID: "G1", LeagueID: "LA", Time: day(1), PlayerIDs: []string{"P1", "P2"}},
		{ID: "s2", GameID: "G1", LeagueID: "LA", Time: day(5), PlayerIDs: []string{"P2", "P1"}},
		{ID: "s3", GameID: "G2", LeagueID: "LB", Time: day(9), PlayerIDs: []string{"P3", "P1"}},
	})
	leagues := memory.NewLeagueRepository([]league.League{
		{ID: "LA", Name: "Alpha"},
		{ID: "LB", Name: "Beta"},
	})
	games := &countingGameRepo{Repository: memory.NewGameRepository([]game.Game{
		{ID: "G1", ExternalID: 822, Name: "Carcassonne"},
		{ID: "G2", ExternalID: 230802, Name: "Azul"},
	}, sessions)}
	ratings := memory.NewRatingStore(sessions, players)

	svc := NewLeaderboardService(games, leagues, players, sessions, ratings, cache.NewStore(time.Minute), nil)
	return svc, games
}

func mustOptions(t *testing.T, svc *LeaderboardService, params map[string]string) *leaderboard.Options {
	t.Helper()
	opts, err := svc.ParseOptions(context.Background(), leaderboard.SessionDefaults{}, params)
	if err != nil {
		t.Fatalf("parse options: %v", err)
	}
	return opts
}

func TestPage_BuildsRankedBoards(t *testing.T) {
	t.Parallel()

	svc, _ := leaderboardFixture()
	ctx := context.Background()

	page, err := svc.Page(ctx, "t-page", mustOptions(t, svc, nil))
	if err != nil {
		t.Fatalf("page: %v", err)
	}

	if page.Title == "" {
		t.Fatalf("expected a title")
	}
	if len(page.Boards) != 2 {
		t.Fatalf("expected 2 boards, got %d", len(page.Boards))
	}
	// Default ordering is by popularity, so the twice played game leads.
	if page.Boards[0].GameID != "G1" {
		t.Fatalf("expected G1 first, got %s", page.Boards[0].GameID)
	}

	board := page.Boards[0]
	if len(board.Snapshots) == 0 {
		t.Fatalf("expected at least one snapshot for G1")
	}
	rows := board.Snapshots[0].Rows
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows on the G1 board, got %d", len(rows))
	}
	for i, row := range rows {
		if row.Rank != i+1 {
			t.Fatalf("expected contiguous ranks, got %+v", rows)
		}
	}
}

func TestPage_ReusesCacheForNarrowerRequest(t *testing.T) {
	t.Parallel()

	svc, games := leaderboardFixture()
	ctx := context.Background()

	if _, err := svc.Page(ctx, "t-reuse", mustOptions(t, svc, nil)); err != nil {
		t.Fatalf("page: %v", err)
	}
	if got := games.selects.Load(); got != 1 {
		t.Fatalf("expected 1 select after first page, got %d", got)
	}

	// Fewer games than the cache holds is servable by re-filtering.
	page, err := svc.Page(ctx, "t-reuse", mustOptions(t, svc, map[string]string{"top_games": "3"}))
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if got := games.selects.Load(); got != 1 {
		t.Fatalf("expected the narrower request to reuse cache, got %d selects", got)
	}
	if len(page.Boards) == 0 {
		t.Fatalf("expected boards from cache")
	}
}

func TestPage_RecomputesForWiderRequest(t *testing.T) {
	t.Parallel()

	svc, games := leaderboardFixture()
	ctx := context.Background()

	if _, err := svc.Page(ctx, "t-widen", mustOptions(t, svc, nil)); err != nil {
		t.Fatalf("page: %v", err)
	}
	if _, err := svc.Page(ctx, "t-widen", mustOptions(t, svc, map[string]string{"top_games": "10"})); err != nil {
		t.Fatalf("page: %v", err)
	}
	if got := games.selects.Load(); got != 2 {
		t.Fatalf("expected the wider request to recompute, got %d selects", got)
	}
}

func TestPage_RecomputesWhenPerspectiveChanges(t *testing.T) {
	t.Parallel()

	svc, games := leaderboardFixture()
	ctx := context.Background()

	if _, err := svc.Page(ctx, "t-asat", mustOptions(t, svc, nil)); err != nil {
		t.Fatalf("page: %v", err)
	}

	page, err := svc.Page(ctx, "t-asat", mustOptions(t, svc, map[string]string{"as_at": "2023-03-05T23:00:00Z"}))
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if got := games.selects.Load(); got != 2 {
		t.Fatalf("expected the perspective change to recompute, got %d selects", got)
	}

	// G2 was first played on day 9, so it has no snapshot as at day 5.
	if len(page.Boards) != 1 || page.Boards[0].GameID != "G1" {
		t.Fatalf("expected only G1 as at day 5, got %+v", page.Boards)
	}
}

func TestPage_PlayerFilterLeavesCacheIntact(t *testing.T) {
	t.Parallel()

	svc, games := leaderboardFixture()
	ctx := context.Background()

	if _, err := svc.Page(ctx, "t-pure", mustOptions(t, svc, nil)); err != nil {
		t.Fatalf("page: %v", err)
	}

	filtered, err := svc.Page(ctx, "t-pure", mustOptions(t, svc, map[string]string{
		"players_ex": "P1",
		"top_games":  "6",
	}))
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	for _, board := range filtered.Boards {
		for _, snap := range board.Snapshots {
			for _, row := range snap.Rows {
				if row.PlayerID != "P1" {
					t.Fatalf("exclusive filter leaked row %+v", row)
				}
			}
		}
	}

	// Dropping the filter restores the full rows from the same entry.
	full, err := svc.Page(ctx, "t-pure", mustOptions(t, svc, map[string]string{"top_games": "6"}))
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if len(full.Boards) != 2 || len(full.Boards[0].Snapshots[0].Rows) != 2 {
		t.Fatalf("cached rows were mutated by filtering: %+v", full.Boards)
	}
	if got := games.selects.Load(); got != 1 {
		t.Fatalf("expected every request to share one computation, got %d selects", got)
	}
}

func TestPage_NumDaysWindow(t *testing.T) {
	t.Parallel()

	svc, _ := leaderboardFixture()
	ctx := context.Background()

	// The latest session is on day 9, so a 2 day window opens at the
	// start of day 8 and G1 (last played day 5) falls outside it.
	page, err := svc.Page(ctx, "t-window", mustOptions(t, svc, map[string]string{"num_days": "2"}))
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if len(page.Boards) != 1 || page.Boards[0].GameID != "G2" {
		t.Fatalf("expected only G2 inside the window, got %+v", page.Boards)
	}
}

func TestWarmBoards_PrimesCache(t *testing.T) {
	t.Parallel()

	svc, games := leaderboardFixture()
	ctx := context.Background()

	warmed, err := svc.WarmBoards(ctx, "t-warm", 2)
	if err != nil {
		t.Fatalf("warm boards: %v", err)
	}
	if warmed != 2 {
		t.Fatalf("expected 2 warmed games, got %d", warmed)
	}

	page, err := svc.Page(ctx, "t-warm", mustOptions(t, svc, nil))
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if len(page.Boards) != 2 {
		t.Fatalf("expected 2 boards, got %d", len(page.Boards))
	}
	if got := games.selects.Load(); got != 1 {
		t.Fatalf("expected the warmed entry to serve the page, got %d selects", got)
	}
}

func TestParseOptions_RejectsMalformedBoolean(t *testing.T) {
	t.Parallel()

	svc, _ := leaderboardFixture()
	_, err := svc.ParseOptions(context.Background(), leaderboard.SessionDefaults{}, map[string]string{"details": "maybe"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestParseOptions_PreferredLeagueSeedsBaseline(t *testing.T) {
	t.Parallel()

	svc, _ := leaderboardFixture()
	opts, err := svc.ParseOptions(context.Background(), leaderboard.SessionDefaults{PreferredLeagueID: "LA"}, nil)
	if err != nil {
		t.Fatalf("parse options: %v", err)
	}
	if !opts.IsEnabled(leaderboard.OptGameLeaguesAny) {
		t.Fatalf("expected the preferred league to scope the baseline")
	}
	if len(opts.GameLeagues) != 1 || opts.GameLeagues[0] != "LA" {
		t.Fatalf("unexpected game leagues: %v", opts.GameLeagues)
	}
}
