package leaderboard

import (
	"fmt"
	"strings"
)

// Titles renders a heading and qualifier line for the active filter
// set. leagueNames are the display names of the game league filter,
// resolved by the caller.
func (o *Options) Titles(leagueNames []string) (title, subtitle string) {
	switch {
	case o.enabled[OptLatestGames]:
		title = fmt.Sprintf("Latest %d Game Leaderboards", o.NumGames)
	case o.enabled[OptTopGames]:
		title = fmt.Sprintf("Top %d Game Leaderboards", o.NumGames)
	default:
		title = "Game Leaderboards"
	}

	if len(leagueNames) > 0 {
		joiner := " or "
		if o.enabled[OptGameLeaguesAll] {
			joiner = " and "
		}
		plural := ""
		if len(leagueNames) > 1 {
			plural = "s"
		}
		title += fmt.Sprintf(" for the %s league%s", strings.Join(leagueNames, joiner), plural)
	}

	var parts []string
	if o.enabled[OptAsAt] {
		parts = append(parts, "as at "+o.AsAt.Format(timeLayoutPlain))
	}
	if o.enabled[OptNumDays] {
		parts = append(parts, fmt.Sprintf("reflecting the last %d days of play", o.NumDays))
	}
	if o.enabled[OptChangedSince] {
		parts = append(parts, "changed after "+o.ChangedSince.Format(timeLayoutPlain))
	}
	if o.enabled[OptCompareWith] {
		noun := "leaderboards"
		if o.CompareWith == 1 {
			noun = "leaderboard"
		}
		parts = append(parts, fmt.Sprintf("compared with %d prior %s", o.CompareWith, noun))
	}
	if o.enabled[OptCompareBackTo] {
		if o.CompareBackToDays > 0 {
			parts = append(parts, fmt.Sprintf("compared back over the last %d days of play", o.CompareBackToDays))
		} else {
			parts = append(parts, "compared back to "+o.CompareBackTo.Format(timeLayoutPlain))
		}
	}

	return title, strings.Join(parts, ", ")
}
