package app

import (
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/wechner/CoGs/internal/config"
	"github.com/wechner/CoGs/internal/domain/game"
	"github.com/wechner/CoGs/internal/domain/league"
	"github.com/wechner/CoGs/internal/domain/player"
	"github.com/wechner/CoGs/internal/domain/rating"
	"github.com/wechner/CoGs/internal/domain/session"
	"github.com/wechner/CoGs/internal/infrastructure/repository/memory"
	"github.com/wechner/CoGs/internal/infrastructure/repository/postgres"
	"github.com/wechner/CoGs/internal/interfaces/httpapi"
	"github.com/wechner/CoGs/internal/platform/cache"
	idgen "github.com/wechner/CoGs/internal/platform/id"
	"github.com/wechner/CoGs/internal/platform/logging"
	"github.com/wechner/CoGs/internal/usecase"
)

type repositories struct {
	leagues  league.Repository
	games    game.Repository
	players  player.Repository
	sessions session.Repository
	ratings  rating.Store
}

// NewHTTPServer wires the repositories, services and router into one
// server. The returned cleanup releases the database pool when one was
// opened.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repos, cleanup, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	boards := cache.NewDisabledStore()
	if cfg.CacheEnabled {
		boards = cache.NewStore(cfg.CacheTTL)
	}

	leaderboardSvc := usecase.NewLeaderboardService(
		repos.games,
		repos.leagues,
		repos.players,
		repos.sessions,
		repos.ratings,
		boards,
		logger,
	)
	sessionSvc := usecase.NewSessionService(repos.sessions, repos.games, repos.leagues, repos.players)
	catalogSvc := usecase.NewCatalogService(repos.leagues, repos.games, repos.players)

	handler := httpapi.NewHandler(leaderboardSvc, sessionSvc, catalogSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		cleanup()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, cleanup, nil
}

func buildRepositories(cfg config.Config, logger *logging.Logger) (repositories, func() error, error) {
	if cfg.UseMemoryStore() {
		logger.Info("using seeded in-memory repositories", "reason", "DB_URL empty")

		sessions := memory.NewSessionRepository(memory.SeedSessions())
		players := memory.NewPlayerRepository(memory.SeedPlayers())
		return repositories{
			leagues:  memory.NewLeagueRepository(memory.SeedLeagues()),
			games:    memory.NewGameRepository(memory.SeedGames(), sessions),
			players:  players,
			sessions: sessions,
			ratings:  memory.NewRatingStore(sessions, players),
		}, func() error { return nil }, nil
	}

	db, err := sqlx.Connect("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary))
	if err != nil {
		return repositories{}, nil, fmt.Errorf("connect database: %w", err)
	}
	logger.Info("connected to postgres", "database", dbNameFromURL(cfg.DBURL))

	return repositories{
		leagues:  postgres.NewLeagueRepository(db),
		games:    postgres.NewGameRepository(db),
		players:  postgres.NewPlayerRepository(db),
		sessions: postgres.NewSessionRepository(db, idgen.NewRandomGenerator()),
		ratings:  postgres.NewRatingStore(db),
	}, db.Close, nil
}
