package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc"

	"github.com/wechner/CoGs/internal/domain/game"
	"github.com/wechner/CoGs/internal/domain/leaderboard"
	"github.com/wechner/CoGs/internal/domain/league"
	"github.com/wechner/CoGs/internal/domain/player"
	"github.com/wechner/CoGs/internal/domain/rating"
	"github.com/wechner/CoGs/internal/domain/session"
	"github.com/wechner/CoGs/internal/platform/cache"
	"github.com/wechner/CoGs/internal/platform/logging"
	"github.com/wechner/CoGs/internal/platform/resilience"
)

// DefaultBoardKey is the shared cache slot used when a client has no
// board session of its own.
const DefaultBoardKey = "global"

// LeaderboardPage is the full response for one leaderboard request.
type LeaderboardPage struct {
	Title    string
	Subtitle string
	Options  *leaderboard.Options
	Boards   []leaderboard.GameBoard
}

type LeaderboardService struct {
	gameRepo    game.Repository
	leagueRepo  league.Repository
	playerRepo  player.Repository
	sessionRepo session.Repository
	ratings     rating.Store
	boards      *cache.Store
	flight      resilience.SingleFlight
	log         *logging.Logger
}

func NewLeaderboardService(
	gameRepo game.Repository,
	leagueRepo league.Repository,
	playerRepo player.Repository,
	sessionRepo session.Repository,
	ratings rating.Store,
	boards *cache.Store,
	log *logging.Logger,
) *LeaderboardService {
	if log == nil {
		log = logging.Default()
	}
	return &LeaderboardService{
		gameRepo:    gameRepo,
		leagueRepo:  leagueRepo,
		playerRepo:  playerRepo,
		sessionRepo: sessionRepo,
		ratings:     ratings,
		boards:      boards,
		log:         log,
	}
}

type entityCatalog struct {
	games   game.Repository
	leagues league.Repository
	players player.Repository
}

func (c entityCatalog) GameExists(ctx context.Context, id string) (bool, error) {
	return c.games.Exists(ctx, id)
}

func (c entityCatalog) LeagueExists(ctx context.Context, id string) (bool, error) {
	return c.leagues.Exists(ctx, id)
}

func (c entityCatalog) PlayerExists(ctx context.Context, id string) (bool, error) {
	return c.players.Exists(ctx, id)
}

// ParseOptions builds the request configuration, validating submitted
// ids against the catalog. Only malformed booleans surface as invalid
// input; every other malformed value degrades to its default.
func (s *LeaderboardService) ParseOptions(ctx context.Context, defaults leaderboard.SessionDefaults, params map[string]string) (*leaderboard.Options, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.ParseOptions")
	defer span.End()

	catalog := entityCatalog{games: s.gameRepo, leagues: s.leagueRepo, players: s.playerRepo}
	opts, err := leaderboard.NewOptions(ctx, defaults, params, catalog)
	if err != nil {
		if errors.Is(err, leaderboard.ErrInvalidBoolean) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil, fmt.Errorf("parse options: %w", err)
	}

	return opts, nil
}

// Page computes the leaderboards for one request, reusing the cached
// raw boards under boardKey whenever the oracle allows it.
func (s *LeaderboardService) Page(ctx context.Context, boardKey string, opts *leaderboard.Options) (LeaderboardPage, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Page")
	defer span.End()

	if opts == nil {
		return LeaderboardPage{}, fmt.Errorf("%w: options are required", ErrInvalidInput)
	}
	if boardKey == "" {
		boardKey = DefaultBoardKey
	}

	boards, err := s.rawBoards(ctx, boardKey, opts)
	if err != nil {
		return LeaderboardPage{}, err
	}

	leagueNames, err := s.leagueNames(ctx, opts)
	if err != nil {
		return LeaderboardPage{}, err
	}
	title, subtitle := opts.Titles(leagueNames)

	return LeaderboardPage{
		Title:    title,
		Subtitle: subtitle,
		Options:  opts,
		Boards:   filterBoards(opts, boards),
	}, nil
}

// rawBoards serves unfiltered boards from the per-client cache entry
// when possible and recomputes them otherwise, collapsing identical
// concurrent recomputations.
func (s *LeaderboardService) rawBoards(ctx context.Context, boardKey string, opts *leaderboard.Options) ([]leaderboard.GameBoard, error) {
	if cached, ok := s.cachedEntry(ctx, boardKey); ok && !opts.NeedsDB(cached.Options) {
		s.log.DebugContext(ctx, "serving leaderboards from cache", "board_key", boardKey)
		return cached.Boards, nil
	}

	value, err, shared := s.flight.Do(opts.CacheKey(), func() (any, error) {
		boards, err := s.computeBoards(ctx, opts)
		if err != nil {
			return nil, err
		}
		s.boards.Set(ctx, boardKey, &leaderboard.CacheEntry{Options: opts, Boards: boards})
		return boards, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.log.DebugContext(ctx, "joined in-flight leaderboard computation", "board_key", boardKey)
	}

	boards, ok := value.([]leaderboard.GameBoard)
	if !ok {
		return nil, fmt.Errorf("unexpected board computation result %T", value)
	}
	return boards, nil
}

func (s *LeaderboardService) cachedEntry(ctx context.Context, boardKey string) (*leaderboard.CacheEntry, bool) {
	value, ok := s.boards.Get(ctx, boardKey)
	if !ok {
		return nil, false
	}
	entry, ok := value.(*leaderboard.CacheEntry)
	return entry, ok
}

// computeBoards runs the full selection pipeline: resolve the game
// plan, then assemble each game's snapshot boards in parallel.
func (s *LeaderboardService) computeBoards(ctx context.Context, opts *leaderboard.Options) ([]leaderboard.GameBoard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.computeBoards")
	defer span.End()

	windowStart, windowEnd, err := s.sessionWindow(ctx, opts)
	if err != nil {
		return nil, err
	}

	leagueLatest, err := s.compareBackAnchor(ctx, opts)
	if err != nil {
		return nil, err
	}

	games, err := s.gameRepo.Select(ctx, opts.GameQuery(windowStart, windowEnd))
	if err != nil {
		return nil, fmt.Errorf("select games: %w", err)
	}

	type gameBoardResult struct {
		board leaderboard.GameBoard
		err   error
	}

	results := make([]gameBoardResult, len(games))
	var wg conc.WaitGroup
	for i, g := range games {
		i, g := i, g
		wg.Go(func() {
			board, err := s.gameBoard(ctx, opts, g, leagueLatest)
			results[i] = gameBoardResult{board: board, err: err}
		})
	}
	wg.Wait()

	boards := make([]leaderboard.GameBoard, 0, len(games))
	for _, r := range results {
		if r.err != nil {
			return nil, r.err
		}
		if len(r.board.Snapshots) == 0 {
			continue
		}
		boards = append(boards, r.board)
	}

	return boards, nil
}

// sessionWindow resolves the num_days admission window. The boundary
// is the day-aligned instant just after the latest qualifying
// session, minus the window length.
func (s *LeaderboardService) sessionWindow(ctx context.Context, opts *leaderboard.Options) (time.Time, time.Time, error) {
	if !opts.IsEnabled(leaderboard.OptNumDays) {
		return time.Time{}, time.Time{}, nil
	}

	latest, err := s.sessionRepo.Latest(ctx, s.leagueLatestQuery(opts))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("find latest session: %w", err)
	}
	if latest.IsZero() {
		return time.Time{}, time.Time{}, nil
	}

	dayAfter := time.Date(latest.Year(), latest.Month(), latest.Day(), 0, 0, 0, 0, latest.Location()).AddDate(0, 0, 1)
	windowStart := dayAfter.AddDate(0, 0, -opts.NumDays)

	var windowEnd time.Time
	if opts.IsEnabled(leaderboard.OptAsAt) {
		windowEnd = opts.AsAt
	}

	return windowStart, windowEnd, nil
}

// compareBackAnchor finds the league-wide latest session time that
// anchors the day-count form of compare_back_to.
func (s *LeaderboardService) compareBackAnchor(ctx context.Context, opts *leaderboard.Options) (time.Time, error) {
	if !opts.IsEnabled(leaderboard.OptCompareBackTo) || opts.CompareBackToDays == 0 {
		return time.Time{}, nil
	}

	latest, err := s.sessionRepo.Latest(ctx, s.leagueLatestQuery(opts))
	if err != nil {
		return time.Time{}, fmt.Errorf("find comparison anchor: %w", err)
	}
	return latest, nil
}

func (s *LeaderboardService) leagueLatestQuery(opts *leaderboard.Options) session.LatestQuery {
	q := session.LatestQuery{}
	if opts.IsEnabled(leaderboard.OptGameLeaguesAny) {
		q.LeaguesAny = opts.GameLeagues
	}
	if opts.IsEnabled(leaderboard.OptGameLeaguesAll) {
		q.LeaguesAll = opts.GameLeagues
	}
	if opts.IsEnabled(leaderboard.OptAsAt) {
		q.AsAt = opts.AsAt
	}
	return q
}

func (s *LeaderboardService) gameBoard(ctx context.Context, opts *leaderboard.Options, g game.Annotated, leagueLatest time.Time) (leaderboard.GameBoard, error) {
	board := leaderboard.GameBoard{GameID: g.ID, ExternalID: g.ExternalID, Name: g.Name}

	sessions, err := s.sessionRepo.Snapshots(ctx, opts.SnapshotQuery(g.ID, leagueLatest))
	if err != nil {
		return board, fmt.Errorf("select snapshots for game %s: %w", g.ID, err)
	}

	leagues := s.boardLeagues(opts)
	for _, sess := range sessions {
		rows, err := s.ratings.Leaderboard(ctx, g.ID, leagues, sess.Time)
		if err != nil {
			return board, fmt.Errorf("load leaderboard for game %s: %w", g.ID, err)
		}
		if len(rows) == 0 {
			continue
		}

		counts, err := s.ratings.PlayCounts(ctx, g.ID, leagues, sess.Time)
		if err != nil {
			return board, fmt.Errorf("count plays for game %s: %w", g.ID, err)
		}

		board.Snapshots = append(board.Snapshots, leaderboard.SnapshotBoard{
			Time:         sess.Time,
			PlayCount:    counts.Total,
			SessionCount: counts.Sessions,
			Detail:       snapshotDetail(sess),
			Rows:         rows,
		})
	}

	return board, nil
}

func (s *LeaderboardService) boardLeagues(opts *leaderboard.Options) []string {
	if opts.IsEnabled(leaderboard.OptGameLeaguesAny) || opts.IsEnabled(leaderboard.OptGameLeaguesAll) {
		return opts.GameLeagues
	}
	return nil
}

func (s *LeaderboardService) leagueNames(ctx context.Context, opts *leaderboard.Options) ([]string, error) {
	if len(opts.GameLeagues) == 0 {
		return nil, nil
	}
	if !opts.IsEnabled(leaderboard.OptGameLeaguesAny) && !opts.IsEnabled(leaderboard.OptGameLeaguesAll) {
		return nil, nil
	}

	byID, err := s.leagueRepo.NamesByID(ctx, opts.GameLeagues)
	if err != nil {
		return nil, fmt.Errorf("resolve league names: %w", err)
	}

	names := make([]string, 0, len(opts.GameLeagues))
	for _, id := range opts.GameLeagues {
		if name, ok := byID[id]; ok {
			names = append(names, name)
		}
	}
	return names, nil
}

// Describe renders the heading pair for an option set, resolving the
// league filter ids to display names.
func (s *LeaderboardService) Describe(ctx context.Context, opts *leaderboard.Options) (string, string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Describe")
	defer span.End()

	if opts == nil {
		return "", "", fmt.Errorf("%w: options are required", ErrInvalidInput)
	}
	names, err := s.leagueNames(ctx, opts)
	if err != nil {
		return "", "", err
	}
	title, subtitle := opts.Titles(names)
	return title, subtitle, nil
}

func snapshotDetail(sess session.Session) string {
	return fmt.Sprintf("session of %d players at %s", len(sess.PlayerIDs), sess.Time.Format("2006-01-02 15:04"))
}

// filterBoards applies the player post-filter to every snapshot,
// dropping games left with no visible rows. Cached boards are never
// mutated.
func filterBoards(opts *leaderboard.Options, boards []leaderboard.GameBoard) []leaderboard.GameBoard {
	out := make([]leaderboard.GameBoard, 0, len(boards))
	for _, board := range boards {
		filtered := leaderboard.GameBoard{
			GameID:     board.GameID,
			ExternalID: board.ExternalID,
			Name:       board.Name,
		}
		keep := false
		for _, snap := range board.Snapshots {
			rows := opts.Apply(snap.Rows)
			if len(rows) > 0 {
				keep = true
			}
			filtered.Snapshots = append(filtered.Snapshots, leaderboard.SnapshotBoard{
				Time:         snap.Time,
				PlayCount:    snap.PlayCount,
				SessionCount: snap.SessionCount,
				Detail:       snap.Detail,
				Rows:         rows,
			})
		}
		if keep {
			out = append(out, filtered)
		}
	}
	return out
}

// WarmBoards precomputes the baseline boards for boardKey on a worker
// pool and installs them as the shared cache entry. It returns the
// number of games warmed.
func (s *LeaderboardService) WarmBoards(ctx context.Context, boardKey string, workers int) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.WarmBoards")
	defer span.End()

	if boardKey == "" {
		boardKey = DefaultBoardKey
	}
	if workers <= 0 {
		workers = 4
	}

	opts, err := s.ParseOptions(ctx, leaderboard.SessionDefaults{}, nil)
	if err != nil {
		return 0, err
	}

	windowStart, windowEnd, err := s.sessionWindow(ctx, opts)
	if err != nil {
		return 0, err
	}
	games, err := s.gameRepo.Select(ctx, opts.GameQuery(windowStart, windowEnd))
	if err != nil {
		return 0, fmt.Errorf("select games: %w", err)
	}
	if len(games) == 0 {
		return 0, nil
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return 0, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	type warmResult struct {
		board leaderboard.GameBoard
		err   error
	}

	results := make([]warmResult, len(games))
	var failures atomic.Int32
	var wg sync.WaitGroup
	for i, g := range games {
		i, g := i, g
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			board, boardErr := s.gameBoard(ctx, opts, g, time.Time{})
			if boardErr != nil {
				failures.Add(1)
			}
			results[i] = warmResult{board: board, err: boardErr}
		}); err != nil {
			wg.Done()
			return 0, fmt.Errorf("submit warm task: %w", err)
		}
	}
	wg.Wait()

	// Warming is best effort: failed games are skipped, not fatal.
	boards := make([]leaderboard.GameBoard, 0, len(games))
	for _, r := range results {
		if r.err != nil {
			s.log.WarnContext(ctx, "warm board failed", "game_id", r.board.GameID, "error", r.err)
			continue
		}
		if len(r.board.Snapshots) == 0 {
			continue
		}
		boards = append(boards, r.board)
	}
	if int(failures.Load()) == len(games) && len(games) > 0 {
		return 0, fmt.Errorf("%w: every warm task failed", ErrDependencyUnavailable)
	}

	s.boards.Set(ctx, boardKey, &leaderboard.CacheEntry{Options: opts, Boards: boards})
	s.log.InfoContext(ctx, "warmed leaderboard cache",
		"board_key", boardKey, "games", len(boards), "failures", failures.Load())

	return len(boards), nil
}
