package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/wechner/CoGs/internal/domain/game"
	"github.com/wechner/CoGs/internal/domain/league"
	"github.com/wechner/CoGs/internal/domain/player"
	"github.com/wechner/CoGs/internal/domain/session"
)

// RecordSessionInput describes one play to record. Teams are listed
// in finishing order, best placed first.
type RecordSessionInput struct {
	GameID   string
	LeagueID string
	Time     time.Time
	Teams    [][]string
}

type SessionService struct {
	sessionRepo session.Repository
	gameRepo    game.Repository
	leagueRepo  league.Repository
	playerRepo  player.Repository
}

func NewSessionService(
	sessionRepo session.Repository,
	gameRepo game.Repository,
	leagueRepo league.Repository,
	playerRepo player.Repository,
) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		gameRepo:    gameRepo,
		leagueRepo:  leagueRepo,
		playerRepo:  playerRepo,
	}
}

// Record validates and stores one session. Two teams fielding an
// identical player set is a fatal integrity violation, not a
// recoverable input error.
func (s *SessionService) Record(ctx context.Context, input RecordSessionInput) (session.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.Record")
	defer span.End()

	if input.GameID == "" {
		return session.Session{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}
	if input.Time.IsZero() {
		return session.Session{}, fmt.Errorf("%w: session time is required", ErrInvalidInput)
	}
	if len(input.Teams) == 0 {
		return session.Session{}, fmt.Errorf("%w: at least one team is required", ErrInvalidInput)
	}

	exists, err := s.gameRepo.Exists(ctx, input.GameID)
	if err != nil {
		return session.Session{}, fmt.Errorf("check game: %w", err)
	}
	if !exists {
		return session.Session{}, fmt.Errorf("%w: game=%s", ErrNotFound, input.GameID)
	}

	if input.LeagueID != "" {
		exists, err := s.leagueRepo.Exists(ctx, input.LeagueID)
		if err != nil {
			return session.Session{}, fmt.Errorf("check league: %w", err)
		}
		if !exists {
			return session.Session{}, fmt.Errorf("%w: league=%s", ErrNotFound, input.LeagueID)
		}
	}

	playerIDs, err := s.validateTeams(ctx, input.Teams)
	if err != nil {
		return session.Session{}, err
	}

	saved, err := s.sessionRepo.Save(ctx, session.Session{
		GameID:    input.GameID,
		LeagueID:  input.LeagueID,
		Time:      input.Time,
		PlayerIDs: playerIDs,
	})
	if err != nil {
		return session.Session{}, fmt.Errorf("save session: %w", err)
	}

	return saved, nil
}

func (s *SessionService) validateTeams(ctx context.Context, teams [][]string) ([]string, error) {
	seenTeams := make(map[string]struct{}, len(teams))
	seenPlayers := make(map[string]struct{})
	flat := make([]string, 0, len(teams))

	for i, team := range teams {
		if len(team) == 0 {
			return nil, fmt.Errorf("%w: team %d has no players", ErrInvalidInput, i+1)
		}

		// Check the team as a whole first, so an exact duplicate team
		// surfaces as the integrity violation it is rather than as a
		// duplicate-player input error.
		key := teamKey(team)
		if _, dup := seenTeams[key]; dup {
			return nil, fmt.Errorf("%w: two teams with identical players %s", ErrDataIntegrity, key)
		}
		seenTeams[key] = struct{}{}

		for _, id := range team {
			exists, err := s.playerRepo.Exists(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("check player: %w", err)
			}
			if !exists {
				return nil, fmt.Errorf("%w: player=%s", ErrNotFound, id)
			}
			if _, dup := seenPlayers[id]; dup {
				return nil, fmt.Errorf("%w: player %s appears twice", ErrInvalidInput, id)
			}
			seenPlayers[id] = struct{}{}
			flat = append(flat, id)
		}
	}

	return flat, nil
}

func teamKey(team []string) string {
	ids := append([]string(nil), team...)
	sort.Strings(ids)
	return strings.Join(ids, ",")
}
