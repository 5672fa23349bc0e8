package memory

import (
	"context"
	"sort"
	"time"

	"github.com/wechner/CoGs/internal/domain/rating"
)

// RatingStore reconstructs leaderboards from the stored sessions. The
// skill figure is a plain win-weighted score, standing in for the
// externally computed ratings a production deployment records.
type RatingStore struct {
	sessions *SessionRepository
	players  *PlayerRepository
}

func NewRatingStore(sessions *SessionRepository, players *PlayerRepository) *RatingStore {
	return &RatingStore{
		sessions: sessions,
		players:  players,
	}
}

type playerTally struct {
	plays     int
	victories int
	lastPlay  time.Time
}

func (s *RatingStore) tally(gameID string, leagueIDs []string, asAt time.Time) map[string]*playerTally {
	tallies := make(map[string]*playerTally)
	for _, sess := range s.sessions.all() {
		if sess.GameID != gameID {
			continue
		}
		if len(leagueIDs) > 0 && !containsID(leagueIDs, sess.LeagueID) {
			continue
		}
		if !asAt.IsZero() && sess.Time.After(asAt) {
			continue
		}

		for i, playerID := range sess.PlayerIDs {
			t := tallies[playerID]
			if t == nil {
				t = &playerTally{}
				tallies[playerID] = t
			}
			t.plays++
			// Players are stored in finishing order, winner first.
			if i == 0 {
				t.victories++
			}
			if sess.Time.After(t.lastPlay) {
				t.lastPlay = sess.Time
			}
		}
	}
	return tallies
}

func (s *RatingStore) Leaderboard(ctx context.Context, gameID string, leagueIDs []string, asAt time.Time) ([]rating.Row, error) {
	tallies := s.tally(gameID, leagueIDs, asAt)

	rows := make([]rating.Row, 0, len(tallies))
	for playerID, t := range tallies {
		row := rating.Row{
			PlayerID:  playerID,
			Eta:       float64(t.victories) + float64(t.plays)*0.1,
			Plays:     t.plays,
			Victories: t.victories,
			LastPlay:  t.lastPlay,
		}
		if p, ok, _ := s.players.Get(ctx, playerID); ok {
			row.BGGName = p.BGGName
			row.Nickname = p.Nickname
			row.FullName = p.Name
			row.LeagueIDs = append([]string(nil), p.LeagueIDs...)
		}
		rows = append(rows, row)
	}

	// Rank order must be total and stable across runs.
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Eta != rows[j].Eta {
			return rows[i].Eta > rows[j].Eta
		}
		if rows[i].Plays != rows[j].Plays {
			return rows[i].Plays > rows[j].Plays
		}
		return rows[i].PlayerID < rows[j].PlayerID
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}

	return rows, nil
}

func (s *RatingStore) PlayCounts(_ context.Context, gameID string, leagueIDs []string, asAt time.Time) (rating.Counts, error) {
	counts := rating.Counts{}
	for _, sess := range s.sessions.all() {
		if sess.GameID != gameID {
			continue
		}
		if len(leagueIDs) > 0 && !containsID(leagueIDs, sess.LeagueID) {
			continue
		}
		if !asAt.IsZero() && sess.Time.After(asAt) {
			continue
		}
		counts.Sessions++
		counts.Total += len(sess.PlayerIDs)
	}
	return counts, nil
}
