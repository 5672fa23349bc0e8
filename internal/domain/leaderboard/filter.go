package leaderboard

import "github.com/wechner/CoGs/internal/domain/rating"

// Apply post-filters a full ranked leaderboard, preserving rank
// order. Each row is admitted at most once however many rules it
// satisfies. With no player filters enabled the input is returned
// unchanged.
func (o *Options) Apply(rows []rating.Row) []rating.Row {
	if !o.PlayerFiltersActive() {
		return rows
	}

	out := make([]rating.Row, 0, len(rows))
	for i, row := range rows {
		// An exclusive list overrides every other rule.
		if o.enabled[OptPlayersEx] {
			if containsString(o.Players, row.PlayerID) {
				out = append(out, row)
			}
			continue
		}

		admitted := false
		if o.enabled[OptNumPlayersTop] && len(out) < o.NumPlayersTop {
			admitted = true
		}
		if !admitted && o.PlayerPasses(row.PlayerID, row.Plays, row.LastPlay, row.LeagueIDs) {
			admitted = true
		}
		if !admitted && o.enabled[OptNumPlayersAbove] {
			// A nominated player within reach below this row admits
			// it as context above that player.
			for j := i + 1; j <= i+o.NumPlayersAbove && j < len(rows); j++ {
				if o.PlayerNominated(rows[j].PlayerID) {
					admitted = true
					break
				}
			}
		}
		if !admitted && o.enabled[OptNumPlayersBelow] {
			for j := i - 1; j >= i-o.NumPlayersBelow && j >= 0; j-- {
				if o.PlayerNominated(rows[j].PlayerID) {
					admitted = true
					break
				}
			}
		}

		if admitted {
			out = append(out, row)
		}
	}

	return out
}
