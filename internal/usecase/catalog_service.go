package usecase

import (
	"context"
	"fmt"

	"github.com/wechner/CoGs/internal/domain/game"
	"github.com/wechner/CoGs/internal/domain/league"
	"github.com/wechner/CoGs/internal/domain/player"
)

// CatalogService lists the entities clients filter leaderboards by.
type CatalogService struct {
	leagueRepo league.Repository
	gameRepo   game.Repository
	playerRepo player.Repository
}

func NewCatalogService(leagueRepo league.Repository, gameRepo game.Repository, playerRepo player.Repository) *CatalogService {
	return &CatalogService{
		leagueRepo: leagueRepo,
		gameRepo:   gameRepo,
		playerRepo: playerRepo,
	}
}

func (s *CatalogService) Leagues(ctx context.Context) ([]league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.Leagues")
	defer span.End()

	items, err := s.leagueRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}
	return items, nil
}

func (s *CatalogService) Games(ctx context.Context) ([]game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.Games")
	defer span.End()

	items, err := s.gameRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return items, nil
}

func (s *CatalogService) Players(ctx context.Context) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.Players")
	defer span.End()

	items, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	return items, nil
}
