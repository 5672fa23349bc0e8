package memory

import (
	"context"
	"testing"
	"time"

	"github.com/wechner/CoGs/internal/domain/game"
	"github.com/wechner/CoGs/internal/domain/session"
)

func day(d int) time.Time {
	return time.Date(2023, 4, d, 19, 0, 0, 0, time.UTC)
}

// G1 is popular in league LA (10 plays over 5 sessions), G2 is a
// quieter league LB game (3 plays over 2 sessions), G3 has never been
// played.
func selectorFixture() *GameRepository {
	sessions := []session.Session{
		{ID: "s1", GameID: "G1", LeagueID: "LA", Time: day(1), PlayerIDs: []string{"P1", "P2"}},
		{ID: "s2", GameID: "G1", LeagueID: "LA", Time: day(2), PlayerIDs: []string{"P1", "P3"}},
		{ID: "s3", GameID: "G1", LeagueID: "LA", Time: day(3), PlayerIDs: []string{"P2", "P3"}},
		{ID: "s4", GameID: "G1", LeagueID: "LA", Time: day(4), PlayerIDs: []string{"P1", "P2"}},
		{ID: "s5", GameID: "G1", LeagueID: "LA", Time: day(5), PlayerIDs: []string{"P2", "P3"}},
		{ID: "s6", GameID: "G2", LeagueID: "LB", Time: day(6), PlayerIDs: []string{"P4", "P5"}},
		{ID: "s7", GameID: "G2", LeagueID: "LB", Time: day(20), PlayerIDs: []string{"P4"}},
	}

	games := []game.Game{
		{ID: "G1", ExternalID: 1, Name: "Carcassonne"},
		{ID: "G2", ExternalID: 2, Name: "Azul"},
		{ID: "G3", ExternalID: 3, Name: "Shelfware"},
	}

	return NewGameRepository(games, NewSessionRepository(sessions))
}

func gameIDs(games []game.Annotated) []string {
	out := make([]string, len(games))
	for i, g := range games {
		out[i] = g.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSelect_PopularityOrderingExcludesUnplayed(t *testing.T) {
	t.Parallel()

	repo := selectorFixture()
	got, err := repo.Select(context.Background(), game.Query{})
	if err != nil {
		t.Fatalf("select: %v", err)
	}

	if want := []string{"G1", "G2"}; !equalIDs(gameIDs(got), want) {
		t.Fatalf("expected %v, got %v", want, gameIDs(got))
	}
	if got[0].PlayCount != 10 || got[0].SessionCount != 5 {
		t.Fatalf("unexpected G1 annotations: %+v", got[0])
	}
}

func TestSelect_TopOneReturnsMostPopular(t *testing.T) {
	t.Parallel()

	repo := selectorFixture()
	got, err := repo.Select(context.Background(), game.Query{Limit: 1})
	if err != nil {
		t.Fatalf("select: %v", err)
	}

	if want := []string{"G1"}; !equalIDs(gameIDs(got), want) {
		t.Fatalf("expected %v, got %v", want, gameIDs(got))
	}
}

func TestSelect_FiltersApplyBeforeTruncation(t *testing.T) {
	t.Parallel()

	// A league filter that excludes the most popular game must never
	// let it occupy the truncation slot.
	repo := selectorFixture()
	got, err := repo.Select(context.Background(), game.Query{LeaguesAny: []string{"LB"}, Limit: 1})
	if err != nil {
		t.Fatalf("select: %v", err)
	}

	if want := []string{"G2"}; !equalIDs(gameIDs(got), want) {
		t.Fatalf("expected %v, got %v", want, gameIDs(got))
	}
}

func TestSelect_RecencyOrdering(t *testing.T) {
	t.Parallel()

	repo := selectorFixture()
	got, err := repo.Select(context.Background(), game.Query{Ordering: game.ByRecency})
	if err != nil {
		t.Fatalf("select: %v", err)
	}

	if want := []string{"G2", "G1"}; !equalIDs(gameIDs(got), want) {
		t.Fatalf("expected %v, got %v", want, gameIDs(got))
	}
}

func TestSelect_IncludeIDsUnionedAfterTruncation(t *testing.T) {
	t.Parallel()

	repo := selectorFixture()
	got, err := repo.Select(context.Background(), game.Query{Limit: 1, IncludeIDs: []string{"G2", "G3"}})
	if err != nil {
		t.Fatalf("select: %v", err)
	}

	// G2 joins despite the limit; G3 has no sessions and stays out.
	if want := []string{"G1", "G2"}; !equalIDs(gameIDs(got), want) {
		t.Fatalf("expected %v, got %v", want, gameIDs(got))
	}
}

func TestSelect_ChangedSinceAdmission(t *testing.T) {
	t.Parallel()

	repo := selectorFixture()
	got, err := repo.Select(context.Background(), game.Query{AdmitChangedSince: day(10)})
	if err != nil {
		t.Fatalf("select: %v", err)
	}

	if want := []string{"G2"}; !equalIDs(gameIDs(got), want) {
		t.Fatalf("expected %v, got %v", want, gameIDs(got))
	}
}

func TestSelect_PlayerAdmissionIsORCombined(t *testing.T) {
	t.Parallel()

	// Changed-since admits G2 only, but P1 participation admits G1;
	// together both qualify.
	repo := selectorFixture()
	got, err := repo.Select(context.Background(), game.Query{
		AdmitChangedSince: day(10),
		AdmitPlayersAny:   []string{"P1"},
	})
	if err != nil {
		t.Fatalf("select: %v", err)
	}

	if want := []string{"G1", "G2"}; !equalIDs(gameIDs(got), want) {
		t.Fatalf("expected %v, got %v", want, gameIDs(got))
	}
}

func TestSelect_SessionWindow(t *testing.T) {
	t.Parallel()

	repo := selectorFixture()
	got, err := repo.Select(context.Background(), game.Query{WindowStart: day(15)})
	if err != nil {
		t.Fatalf("select: %v", err)
	}

	if want := []string{"G2"}; !equalIDs(gameIDs(got), want) {
		t.Fatalf("expected %v, got %v", want, gameIDs(got))
	}

	bounded, err := repo.Select(context.Background(), game.Query{WindowStart: day(15), WindowEnd: day(16)})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(bounded) != 0 {
		t.Fatalf("expected empty selection, got %v", gameIDs(bounded))
	}
}

func TestSelect_LeaguesAllRequiresEveryLeague(t *testing.T) {
	t.Parallel()

	sessions := []session.Session{
		{ID: "s1", GameID: "G1", LeagueID: "LA", Time: day(1), PlayerIDs: []string{"P1"}},
		{ID: "s2", GameID: "G1", LeagueID: "LB", Time: day(2), PlayerIDs: []string{"P2"}},
		{ID: "s3", GameID: "G2", LeagueID: "LA", Time: day(3), PlayerIDs: []string{"P1"}},
	}
	games := []game.Game{{ID: "G1", Name: "One"}, {ID: "G2", Name: "Two"}}
	repo := NewGameRepository(games, NewSessionRepository(sessions))

	got, err := repo.Select(context.Background(), game.Query{LeaguesAll: []string{"LA", "LB"}})
	if err != nil {
		t.Fatalf("select: %v", err)
	}

	if want := []string{"G1"}; !equalIDs(gameIDs(got), want) {
		t.Fatalf("expected %v, got %v", want, gameIDs(got))
	}
}
