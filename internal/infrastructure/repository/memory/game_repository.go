package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/wechner/CoGs/internal/domain/game"
	"github.com/wechner/CoGs/internal/domain/session"
)

type GameRepository struct {
	mu       sync.RWMutex
	items    map[string]game.Game
	orders   []string
	sessions *SessionRepository
}

func NewGameRepository(games []game.Game, sessions *SessionRepository) *GameRepository {
	items := make(map[string]game.Game, len(games))
	orders := make([]string, 0, len(games))

	for _, g := range games {
		items[g.ID] = g
		orders = append(orders, g.ID)
	}

	return &GameRepository{
		items:    items,
		orders:   orders,
		sessions: sessions,
	}
}

func (r *GameRepository) List(_ context.Context) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.Game, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, r.items[id])
	}

	return out, nil
}

func (r *GameRepository) Exists(_ context.Context, gameID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.items[gameID]
	return ok, nil
}

// Select evaluates a game selection plan against the stored sessions.
// Filters shrink the candidate pool before the limit applies, and the
// inclusive id list is unioned back in afterwards.
func (r *GameRepository) Select(_ context.Context, q game.Query) ([]game.Annotated, error) {
	r.mu.RLock()
	candidates := make([]game.Game, 0, len(r.orders))
	for _, id := range r.orders {
		if len(q.IDs) > 0 && !containsID(q.IDs, id) {
			continue
		}
		candidates = append(candidates, r.items[id])
	}
	r.mu.RUnlock()

	sessions := r.sessions.all()

	admitted := make([]game.Annotated, 0, len(candidates))
	for _, g := range candidates {
		annotated, ok := r.annotate(g, sessions, q)
		if !ok {
			continue
		}
		if !r.admit(annotated, sessions, q) {
			continue
		}
		admitted = append(admitted, annotated)
	}

	orderGames(admitted, q.Ordering)

	if q.Limit > 0 && len(admitted) > q.Limit {
		admitted = admitted[:q.Limit]
	}

	if len(q.IncludeIDs) > 0 {
		admitted = r.includeAfterLimit(admitted, sessions, q)
		orderGames(admitted, q.Ordering)
	}

	return admitted, nil
}

// annotate builds the play statistics for one game under the plan's
// league restriction. Games with no qualifying sessions drop out of
// the population entirely.
func (r *GameRepository) annotate(g game.Game, sessions []session.Session, q game.Query) (game.Annotated, bool) {
	annotated := game.Annotated{Game: g}
	leaguesPlayed := make(map[string]struct{})

	for _, s := range sessions {
		if s.GameID != g.ID {
			continue
		}
		if !matchesLeagues(s, q.LeaguesAny, q.LeaguesAll) {
			continue
		}
		leaguesPlayed[s.LeagueID] = struct{}{}
		annotated.SessionCount++
		annotated.PlayCount += len(s.PlayerIDs)
		if s.Time.After(annotated.LastPlay) {
			annotated.LastPlay = s.Time
		}
	}

	if annotated.SessionCount == 0 {
		return game.Annotated{}, false
	}

	// The all form needs the game played in every listed league, not
	// merely in one of them.
	for _, id := range q.LeaguesAll {
		if _, ok := leaguesPlayed[id]; !ok {
			return game.Annotated{}, false
		}
	}

	return annotated, true
}

// admit applies the secondary OR-combined admission predicates and
// the session window rule.
func (r *GameRepository) admit(g game.Annotated, sessions []session.Session, q game.Query) bool {
	hasSecondary := !q.AdmitChangedSince.IsZero() || len(q.AdmitPlayersAny) > 0 || len(q.AdmitPlayersAll) > 0
	if hasSecondary {
		ok := false
		if !q.AdmitChangedSince.IsZero() && !g.LastPlay.Before(q.AdmitChangedSince) {
			ok = true
		}
		if !ok && len(q.AdmitPlayersAny) > 0 && r.playedByAny(g.ID, sessions, q, q.AdmitPlayersAny) {
			ok = true
		}
		if !ok && len(q.AdmitPlayersAll) > 0 && r.playedByAll(g.ID, sessions, q, q.AdmitPlayersAll) {
			ok = true
		}
		if !ok {
			return false
		}
	}

	if !q.WindowStart.IsZero() {
		if !r.hasSessionInWindow(g.ID, sessions, q) {
			return false
		}
	}

	return true
}

func (r *GameRepository) playedByAny(gameID string, sessions []session.Session, q game.Query, players []string) bool {
	for _, s := range sessions {
		if s.GameID != gameID || !matchesLeagues(s, q.LeaguesAny, q.LeaguesAll) {
			continue
		}
		for _, p := range players {
			if containsID(s.PlayerIDs, p) {
				return true
			}
		}
	}
	return false
}

func (r *GameRepository) playedByAll(gameID string, sessions []session.Session, q game.Query, players []string) bool {
	played := make(map[string]struct{})
	for _, s := range sessions {
		if s.GameID != gameID || !matchesLeagues(s, q.LeaguesAny, q.LeaguesAll) {
			continue
		}
		for _, p := range s.PlayerIDs {
			played[p] = struct{}{}
		}
	}
	for _, p := range players {
		if _, ok := played[p]; !ok {
			return false
		}
	}
	return true
}

func (r *GameRepository) hasSessionInWindow(gameID string, sessions []session.Session, q game.Query) bool {
	for _, s := range sessions {
		if s.GameID != gameID || !matchesLeagues(s, q.LeaguesAny, q.LeaguesAll) {
			continue
		}
		if s.Time.Before(q.WindowStart) {
			continue
		}
		if !q.WindowEnd.IsZero() && s.Time.After(q.WindowEnd) {
			continue
		}
		return true
	}
	return false
}

// includeAfterLimit unions the inclusive id list back in, bypassing
// every admission rule except existence and the session population.
func (r *GameRepository) includeAfterLimit(admitted []game.Annotated, sessions []session.Session, q game.Query) []game.Annotated {
	present := make(map[string]struct{}, len(admitted))
	for _, g := range admitted {
		present[g.ID] = struct{}{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range q.IncludeIDs {
		if _, ok := present[id]; ok {
			continue
		}
		g, ok := r.items[id]
		if !ok {
			continue
		}
		annotated, ok := r.annotate(g, sessions, game.Query{LeaguesAny: q.LeaguesAny, LeaguesAll: q.LeaguesAll})
		if !ok {
			continue
		}
		admitted = append(admitted, annotated)
		present[id] = struct{}{}
	}

	return admitted
}

func orderGames(games []game.Annotated, ordering game.Ordering) {
	sort.SliceStable(games, func(i, j int) bool {
		a, b := games[i], games[j]
		if ordering == game.ByRecency {
			if !a.LastPlay.Equal(b.LastPlay) {
				return a.LastPlay.After(b.LastPlay)
			}
			return a.ID < b.ID
		}
		if a.PlayCount != b.PlayCount {
			return a.PlayCount > b.PlayCount
		}
		if a.SessionCount != b.SessionCount {
			return a.SessionCount > b.SessionCount
		}
		return a.ID < b.ID
	})
}

func containsID(list []string, id string) bool {
	for _, item := range list {
		if item == id {
			return true
		}
	}
	return false
}
