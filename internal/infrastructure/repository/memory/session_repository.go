package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/wechner/CoGs/internal/domain/session"
)

type SessionRepository struct {
	mu     sync.RWMutex
	items  []session.Session
	nextID int
}

func NewSessionRepository(sessions []session.Session) *SessionRepository {
	items := append([]session.Session(nil), sessions...)
	sortSessions(items)

	return &SessionRepository{
		items:  items,
		nextID: len(items) + 1,
	}
}

func sortSessions(items []session.Session) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].Time.Equal(items[j].Time) {
			return items[i].Time.Before(items[j].Time)
		}
		return items[i].ID < items[j].ID
	})
}

// matchesLeagues applies the league restriction to one session. A
// session belongs to a single league, so both the any and all forms
// reduce to membership of the listed set.
func matchesLeagues(s session.Session, leaguesAny, leaguesAll []string) bool {
	restriction := leaguesAny
	if len(restriction) == 0 {
		restriction = leaguesAll
	}
	if len(restriction) == 0 {
		return true
	}
	for _, id := range restriction {
		if s.LeagueID == id {
			return true
		}
	}
	return false
}

func (r *SessionRepository) Snapshots(_ context.Context, q session.Query) ([]session.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Newest first.
	matched := make([]session.Session, 0)
	for i := len(r.items) - 1; i >= 0; i-- {
		s := r.items[i]
		if s.GameID != q.GameID {
			continue
		}
		if !matchesLeagues(s, q.LeaguesAny, q.LeaguesAll) {
			continue
		}
		if !q.AsAt.IsZero() && s.Time.After(q.AsAt) {
			continue
		}
		if !q.After.IsZero() && !s.Time.After(q.After) {
			continue
		}
		if !q.From.IsZero() && s.Time.Before(q.From) {
			continue
		}
		matched = append(matched, s)
		if q.Limit > 0 && len(matched) == q.Limit {
			break
		}
	}

	return matched, nil
}

func (r *SessionRepository) Latest(_ context.Context, q session.LatestQuery) (time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := len(r.items) - 1; i >= 0; i-- {
		s := r.items[i]
		if q.GameID != "" && s.GameID != q.GameID {
			continue
		}
		if !matchesLeagues(s, q.LeaguesAny, q.LeaguesAll) {
			continue
		}
		if !q.AsAt.IsZero() && s.Time.After(q.AsAt) {
			continue
		}
		return s.Time, nil
	}

	return time.Time{}, nil
}

func (r *SessionRepository) Save(_ context.Context, s session.Session) (session.Session, error) {
	if err := s.Validate(); err != nil {
		return session.Session{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if s.ID == "" {
		s.ID = fmt.Sprintf("S%d", r.nextID)
		r.nextID++
	}
	s.PlayerIDs = append([]string(nil), s.PlayerIDs...)

	r.items = append(r.items, s)
	sortSessions(r.items)

	return s, nil
}

// all returns a snapshot of every stored session, oldest first.
func (r *SessionRepository) all() []session.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]session.Session(nil), r.items...)
}
