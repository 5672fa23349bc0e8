package memory

import (
	"context"
	"testing"
	"time"

	"github.com/wechner/CoGs/internal/domain/session"
)

func snapshotFixture() *SessionRepository {
	return NewSessionRepository([]session.Session{
		{ID: "s1", GameID: "G1", LeagueID: "LA", Time: day(1), PlayerIDs: []string{"P1", "P2"}},
		{ID: "s2", GameID: "G1", LeagueID: "LA", Time: day(5), PlayerIDs: []string{"P2", "P1"}},
		{ID: "s3", GameID: "G1", LeagueID: "LB", Time: day(9), PlayerIDs: []string{"P3", "P1"}},
		{ID: "s4", GameID: "G1", LeagueID: "LA", Time: day(12), PlayerIDs: []string{"P1", "P3"}},
		{ID: "s5", GameID: "G2", LeagueID: "LA", Time: day(14), PlayerIDs: []string{"P2", "P3"}},
	})
}

func sessionIDs(sessions []session.Session) []string {
	out := make([]string, len(sessions))
	for i, s := range sessions {
		out[i] = s.ID
	}
	return out
}

func TestSnapshots_DefaultIsNewestFirst(t *testing.T) {
	t.Parallel()

	repo := snapshotFixture()
	got, err := repo.Snapshots(context.Background(), session.Query{GameID: "G1"})
	if err != nil {
		t.Fatalf("snapshots: %v", err)
	}

	if want := []string{"s4", "s3", "s2", "s1"}; !equalIDs(sessionIDs(got), want) {
		t.Fatalf("expected %v, got %v", want, sessionIDs(got))
	}
}

func TestSnapshots_LimitTakesNewest(t *testing.T) {
	t.Parallel()

	repo := snapshotFixture()
	got, err := repo.Snapshots(context.Background(), session.Query{GameID: "G1", Limit: 2})
	if err != nil {
		t.Fatalf("snapshots: %v", err)
	}

	if want := []string{"s4", "s3"}; !equalIDs(sessionIDs(got), want) {
		t.Fatalf("expected %v, got %v", want, sessionIDs(got))
	}
}

func TestSnapshots_LeagueAndPerspectiveBounds(t *testing.T) {
	t.Parallel()

	repo := snapshotFixture()
	got, err := repo.Snapshots(context.Background(), session.Query{
		GameID:     "G1",
		LeaguesAny: []string{"LA"},
		AsAt:       day(10),
	})
	if err != nil {
		t.Fatalf("snapshots: %v", err)
	}

	if want := []string{"s2", "s1"}; !equalIDs(sessionIDs(got), want) {
		t.Fatalf("expected %v, got %v", want, sessionIDs(got))
	}
}

func TestSnapshots_AfterIsExclusiveFromIsInclusive(t *testing.T) {
	t.Parallel()

	repo := snapshotFixture()

	after, err := repo.Snapshots(context.Background(), session.Query{GameID: "G1", After: day(5)})
	if err != nil {
		t.Fatalf("snapshots: %v", err)
	}
	if want := []string{"s4", "s3"}; !equalIDs(sessionIDs(after), want) {
		t.Fatalf("expected %v, got %v", want, sessionIDs(after))
	}

	from, err := repo.Snapshots(context.Background(), session.Query{GameID: "G1", From: day(5)})
	if err != nil {
		t.Fatalf("snapshots: %v", err)
	}
	if want := []string{"s4", "s3", "s2"}; !equalIDs(sessionIDs(from), want) {
		t.Fatalf("expected %v, got %v", want, sessionIDs(from))
	}
}

func TestLatest(t *testing.T) {
	t.Parallel()

	repo := snapshotFixture()

	latest, err := repo.Latest(context.Background(), session.LatestQuery{LeaguesAny: []string{"LA"}})
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if !latest.Equal(day(14)) {
		t.Fatalf("expected %v, got %v", day(14), latest)
	}

	bounded, err := repo.Latest(context.Background(), session.LatestQuery{GameID: "G1", AsAt: day(10)})
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if !bounded.Equal(day(9)) {
		t.Fatalf("expected %v, got %v", day(9), bounded)
	}

	none, err := repo.Latest(context.Background(), session.LatestQuery{GameID: "G9"})
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if !none.IsZero() {
		t.Fatalf("expected zero time, got %v", none)
	}
}

func TestSave_AssignsIDAndKeepsOrder(t *testing.T) {
	t.Parallel()

	repo := snapshotFixture()
	saved, err := repo.Save(context.Background(), session.Session{
		GameID:    "G1",
		LeagueID:  "LA",
		Time:      day(7),
		PlayerIDs: []string{"P2", "P3"},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("expected an assigned id")
	}

	got, err := repo.Snapshots(context.Background(), session.Query{GameID: "G1"})
	if err != nil {
		t.Fatalf("snapshots: %v", err)
	}
	if want := []string{"s4", "s3", saved.ID, "s2", "s1"}; !equalIDs(sessionIDs(got), want) {
		t.Fatalf("expected %v, got %v", want, sessionIDs(got))
	}
}

func TestSave_RejectsInvalidSession(t *testing.T) {
	t.Parallel()

	repo := snapshotFixture()
	if _, err := repo.Save(context.Background(), session.Session{GameID: "G1", Time: time.Time{}}); err == nil {
		t.Fatal("expected validation error")
	}
}
