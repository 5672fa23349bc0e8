package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/wechner/CoGs/internal/domain/game"
	"github.com/wechner/CoGs/internal/domain/league"
	"github.com/wechner/CoGs/internal/domain/player"
	"github.com/wechner/CoGs/internal/infrastructure/repository/memory"
)

func sessionFixture() *SessionService {
	sessions := memory.NewSessionRepository(nil)
	games := memory.NewGameRepository([]game.Game{
		{ID: "G1", ExternalID: 822, Name: "Carcassonne"},
	}, sessions)
	leagues := memory.NewLeagueRepository([]league.League{
		{ID: "LA", Name: "Alpha"},
	})
	players := memory.NewPlayerRepository([]player.Player{
		{ID: "P1", Name: "Player One", Nickname: "One"},
		{ID: "P2", Name: "Player Two", Nickname: "Two"},
		{ID: "P3", Name: "Player Three", Nickname: "Three"},
	})
	return NewSessionService(sessions, games, leagues, players)
}

func TestRecord_SavesSession(t *testing.T) {
	t.Parallel()

	svc := sessionFixture()
	saved, err := svc.Record(context.Background(), RecordSessionInput{
		GameID:   "G1",
		LeagueID: "LA",
		Time:     day(3),
		Teams:    [][]string{{"P1"}, {"P2", "P3"}},
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	if saved.ID == "" {
		t.Fatalf("expected an assigned session id")
	}
	want := []string{"P1", "P2", "P3"}
	if len(saved.PlayerIDs) != len(want) {
		t.Fatalf("unexpected players: %v", saved.PlayerIDs)
	}
	for i, id := range want {
		if saved.PlayerIDs[i] != id {
			t.Fatalf("players not in finishing order: %v", saved.PlayerIDs)
		}
	}
}

func TestRecord_UnknownGame(t *testing.T) {
	t.Parallel()

	svc := sessionFixture()
	_, err := svc.Record(context.Background(), RecordSessionInput{
		GameID: "G9",
		Time:   day(3),
		Teams:  [][]string{{"P1"}, {"P2"}},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecord_UnknownPlayer(t *testing.T) {
	t.Parallel()

	svc := sessionFixture()
	_, err := svc.Record(context.Background(), RecordSessionInput{
		GameID: "G1",
		Time:   day(3),
		Teams:  [][]string{{"P1"}, {"P9"}},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecord_PlayerOnTwoTeams(t *testing.T) {
	t.Parallel()

	svc := sessionFixture()
	_, err := svc.Record(context.Background(), RecordSessionInput{
		GameID: "G1",
		Time:   day(3),
		Teams:  [][]string{{"P1", "P2"}, {"P2", "P3"}},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRecord_DuplicateTeams(t *testing.T) {
	t.Parallel()

	svc := sessionFixture()
	_, err := svc.Record(context.Background(), RecordSessionInput{
		GameID: "G1",
		Time:   day(3),
		Teams:  [][]string{{"P1", "P2"}, {"P2", "P1"}},
	})
	if !errors.Is(err, ErrDataIntegrity) {
		t.Fatalf("expected ErrDataIntegrity, got %v", err)
	}
}

func TestRecord_RequiresTeams(t *testing.T) {
	t.Parallel()

	svc := sessionFixture()
	_, err := svc.Record(context.Background(), RecordSessionInput{
		GameID: "G1",
		Time:   day(3),
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
