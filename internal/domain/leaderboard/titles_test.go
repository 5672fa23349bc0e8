package leaderboard

import (
	"strings"
	"testing"
	"time"
)

func TestTitles(t *testing.T) {
	t.Parallel()

	opts := defaultOptions()
	opts.enabled[OptTopGames] = true
	opts.NumGames = 6
	opts.enabled[OptGameLeaguesAny] = true
	opts.enabled[OptAsAt] = true
	opts.AsAt = time.Date(2023, 6, 1, 18, 0, 0, 0, time.UTC)
	opts.enabled[OptCompareWith] = true
	opts.CompareWith = 1

	title, subtitle := opts.Titles([]string{"Hobart", "Sydney"})

	if want := "Top 6 Game Leaderboards for the Hobart or Sydney leagues"; title != want {
		t.Fatalf("unexpected title:\nwant: %s\ngot:  %s", want, title)
	}
	if !strings.Contains(subtitle, "as at 2023-06-01 18:00:00") {
		t.Fatalf("subtitle missing perspective: %s", subtitle)
	}
	if !strings.Contains(subtitle, "compared with 1 prior leaderboard") {
		t.Fatalf("subtitle missing comparison: %s", subtitle)
	}
}

func TestTitles_Defaults(t *testing.T) {
	t.Parallel()

	title, subtitle := defaultOptions().Titles(nil)
	if title != "Game Leaderboards" {
		t.Fatalf("unexpected title: %s", title)
	}
	if subtitle != "" {
		t.Fatalf("expected empty subtitle, got %s", subtitle)
	}
}
