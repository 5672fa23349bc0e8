package leaderboard

import (
	"fmt"
	"testing"
	"time"

	"github.com/wechner/CoGs/internal/domain/rating"
)

func rankedRows(n int) []rating.Row {
	rows := make([]rating.Row, n)
	for i := range rows {
		rows[i] = rating.Row{
			Rank:     i + 1,
			PlayerID: fmt.Sprintf("P%d", i+1),
			Plays:    5,
			LastPlay: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
		}
	}
	return rows
}

func ranks(rows []rating.Row) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r.Rank
	}
	return out
}

func equalRanks(a, b []int) bool {
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

func TestApply_NoPlayerFiltersReturnsInputUnchanged(t *testing.T) {
	t.Parallel()

	opts := defaultOptions()
	rows := rankedRows(10)

	got := opts.Apply(rows)
	if len(got) != len(rows) {
		t.Fatalf("expected full board, got %d of %d rows", len(got), len(rows))
	}
}

func TestApply_ExclusiveListOverridesEverything(t *testing.T) {
	t.Parallel()

	opts := defaultOptions()
	opts.enabled[OptPlayersEx] = true
	opts.Players = []string{"P2", "P7"}
	opts.enabled[OptNumPlayersTop] = true

	got := opts.Apply(rankedRows(10))
	if want := []int{2, 7}; !equalRanks(ranks(got), want) {
		t.Fatalf("expected ranks %v, got %v", want, ranks(got))
	}
}

func TestApply_TopNFill(t *testing.T) {
	t.Parallel()

	opts := defaultOptions()
	opts.enabled[OptNumPlayersTop] = true
	opts.NumPlayersTop = 3

	got := opts.Apply(rankedRows(10))
	if want := []int{1, 2, 3}; !equalRanks(ranks(got), want) {
		t.Fatalf("expected ranks %v, got %v", want, ranks(got))
	}
}

func TestApply_ProximityAbove(t *testing.T) {
	t.Parallel()

	// P5 is nominated; everyone else fails the min-plays criterion,
	// so only proximity can admit the rows around rank 5.
	opts := defaultOptions()
	opts.enabled[OptPlayersIn] = true
	opts.Players = []string{"P5"}
	opts.enabled[OptMinPlays] = true
	opts.MinPlays = 100
	opts.enabled[OptNumPlayersAbove] = true
	opts.NumPlayersAbove = 2

	got := opts.Apply(rankedRows(10))
	if want := []int{3, 4, 5}; !equalRanks(ranks(got), want) {
		t.Fatalf("expected ranks %v, got %v", want, ranks(got))
	}
}

func TestApply_ProximityBelow(t *testing.T) {
	t.Parallel()

	opts := defaultOptions()
	opts.enabled[OptPlayersIn] = true
	opts.Players = []string{"P5"}
	opts.enabled[OptMinPlays] = true
	opts.MinPlays = 100
	opts.enabled[OptNumPlayersBelow] = true
	opts.NumPlayersBelow = 2

	got := opts.Apply(rankedRows(10))
	if want := []int{5, 6, 7}; !equalRanks(ranks(got), want) {
		t.Fatalf("expected ranks %v, got %v", want, ranks(got))
	}
}

func TestApply_RowAdmittedOnceAcrossRules(t *testing.T) {
	t.Parallel()

	// Rank 5 sits between two nominated players and also passes the
	// criteria itself; it must appear exactly once.
	opts := defaultOptions()
	opts.enabled[OptPlayersIn] = true
	opts.Players = []string{"P4", "P6"}
	opts.enabled[OptNumPlayersAbove] = true
	opts.NumPlayersAbove = 1
	opts.enabled[OptNumPlayersBelow] = true
	opts.NumPlayersBelow = 1

	got := opts.Apply(rankedRows(10))
	seen := map[int]int{}
	for _, r := range got {
		seen[r.Rank]++
	}
	for rank, count := range seen {
		if count > 1 {
			t.Fatalf("rank %d admitted %d times", rank, count)
		}
	}
}

func TestApply_Idempotent(t *testing.T) {
	t.Parallel()

	opts := defaultOptions()
	opts.enabled[OptPlayersIn] = true
	opts.Players = []string{"P5"}
	opts.enabled[OptMinPlays] = true
	opts.MinPlays = 100
	opts.enabled[OptNumPlayersAbove] = true
	opts.NumPlayersAbove = 2

	once := opts.Apply(rankedRows(10))
	twice := opts.Apply(once)
	if !equalRanks(ranks(once), ranks(twice)) {
		t.Fatalf("filter not idempotent: %v then %v", ranks(once), ranks(twice))
	}
}

func TestApply_PreservesRankOrder(t *testing.T) {
	t.Parallel()

	opts := defaultOptions()
	opts.enabled[OptPlayersIn] = true
	opts.Players = []string{"P8", "P2"}
	opts.enabled[OptMinPlays] = true
	opts.MinPlays = 100

	got := opts.Apply(rankedRows(10))
	if want := []int{2, 8}; !equalRanks(ranks(got), want) {
		t.Fatalf("expected ranks %v, got %v", want, ranks(got))
	}
}
