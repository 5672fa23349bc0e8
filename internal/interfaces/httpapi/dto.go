package httpapi

import (
	"context"
	"time"

	"github.com/wechner/CoGs/internal/domain/game"
	"github.com/wechner/CoGs/internal/domain/leaderboard"
	"github.com/wechner/CoGs/internal/domain/league"
	"github.com/wechner/CoGs/internal/domain/player"
	"github.com/wechner/CoGs/internal/domain/rating"
	"github.com/wechner/CoGs/internal/domain/session"
	"github.com/wechner/CoGs/internal/usecase"
)

type leaderboardPageDTO struct {
	Title    string         `json:"title"`
	Subtitle string         `json:"subtitle"`
	Options  map[string]any `json:"options"`
	Boards   []gameBoardDTO `json:"boards"`
}

type gameBoardDTO struct {
	GameID    string        `json:"gameId"`
	BGGID     int64         `json:"bggId"`
	Name      string        `json:"name"`
	Snapshots []snapshotDTO `json:"snapshots"`
}

type snapshotDTO struct {
	Time         string   `json:"time"`
	PlayCount    int      `json:"playCount"`
	SessionCount int      `json:"sessionCount"`
	Detail       string   `json:"detail"`
	Rows         []rowDTO `json:"rows"`
}

type rowDTO struct {
	Rank      int      `json:"rank"`
	PlayerID  string   `json:"playerId"`
	Name      string   `json:"name"`
	BGGName   string   `json:"bggName,omitempty"`
	Link      string   `json:"link,omitempty"`
	Eta       float64  `json:"eta"`
	Plays     int      `json:"plays"`
	Victories int      `json:"victories"`
	LastPlay  string   `json:"lastPlayAt"`
	Leagues   []string `json:"leagues,omitempty"`
}

type optionsDTO struct {
	Title    string         `json:"title"`
	Subtitle string         `json:"subtitle"`
	Options  map[string]any `json:"options"`
}

type leagueDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type gameDTO struct {
	ID    string `json:"id"`
	BGGID int64  `json:"bggId"`
	Name  string `json:"name"`
}

type playerDTO struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Nickname string   `json:"nickname"`
	BGGName  string   `json:"bggName,omitempty"`
	Leagues  []string `json:"leagues,omitempty"`
}

type sessionDTO struct {
	ID       string   `json:"id"`
	GameID   string   `json:"gameId"`
	LeagueID string   `json:"leagueId,omitempty"`
	PlayedAt string   `json:"playedAt"`
	Players  []string `json:"players"`
}

func pageToDTO(ctx context.Context, page usecase.LeaderboardPage) leaderboardPageDTO {
	ctx, span := startSpan(ctx, "httpapi.pageToDTO")
	defer span.End()

	boards := make([]gameBoardDTO, 0, len(page.Boards))
	for _, board := range page.Boards {
		boards = append(boards, gameBoardToDTO(ctx, page.Options, board))
	}

	return leaderboardPageDTO{
		Title:    page.Title,
		Subtitle: page.Subtitle,
		Options:  page.Options.AsDict(),
		Boards:   boards,
	}
}

func gameBoardToDTO(ctx context.Context, opts *leaderboard.Options, board leaderboard.GameBoard) gameBoardDTO {
	ctx, span := startSpan(ctx, "httpapi.gameBoardToDTO")
	defer span.End()

	snapshots := make([]snapshotDTO, 0, len(board.Snapshots))
	for _, snap := range board.Snapshots {
		rows := make([]rowDTO, 0, len(snap.Rows))
		for _, row := range snap.Rows {
			rows = append(rows, rowToDTO(opts, row))
		}
		snapshots = append(snapshots, snapshotDTO{
			Time:         snap.Time.UTC().Format(time.RFC3339),
			PlayCount:    snap.PlayCount,
			SessionCount: snap.SessionCount,
			Detail:       snap.Detail,
			Rows:         rows,
		})
	}

	return gameBoardDTO{
		GameID:    board.GameID,
		BGGID:     board.ExternalID,
		Name:      board.Name,
		Snapshots: snapshots,
	}
}

func rowToDTO(opts *leaderboard.Options, row rating.Row) rowDTO {
	return rowDTO{
		Rank:      row.Rank,
		PlayerID:  row.PlayerID,
		Name:      displayName(opts.Names, row),
		BGGName:   row.BGGName,
		Link:      playerLink(opts.Links, row),
		Eta:       row.Eta,
		Plays:     row.Plays,
		Victories: row.Victories,
		LastPlay:  row.LastPlay.UTC().Format(time.RFC3339),
		Leagues:   append([]string(nil), row.LeagueIDs...),
	}
}

func displayName(style leaderboard.NameStyle, row rating.Row) string {
	switch style {
	case leaderboard.NamesFull:
		if row.FullName != "" {
			return row.FullName
		}
		return row.Nickname
	case leaderboard.NamesComplete:
		if row.FullName != "" && row.Nickname != "" {
			return row.FullName + " (" + row.Nickname + ")"
		}
		if row.FullName != "" {
			return row.FullName
		}
		return row.Nickname
	default:
		if row.Nickname != "" {
			return row.Nickname
		}
		return row.FullName
	}
}

func playerLink(style leaderboard.LinkStyle, row rating.Row) string {
	switch style {
	case leaderboard.LinksCoGs:
		return "/players/" + row.PlayerID
	case leaderboard.LinksBGG:
		if row.BGGName == "" {
			return ""
		}
		return "https://boardgamegeek.com/user/" + row.BGGName
	default:
		return ""
	}
}

func leagueToDTO(v league.League) leagueDTO {
	return leagueDTO{ID: v.ID, Name: v.Name}
}

func gameToDTO(v game.Game) gameDTO {
	return gameDTO{ID: v.ID, BGGID: v.ExternalID, Name: v.Name}
}

func playerToDTO(v player.Player) playerDTO {
	return playerDTO{
		ID:       v.ID,
		Name:     v.Name,
		Nickname: v.Nickname,
		BGGName:  v.BGGName,
		Leagues:  append([]string(nil), v.LeagueIDs...),
	}
}

func sessionToDTO(v session.Session) sessionDTO {
	return sessionDTO{
		ID:       v.ID,
		GameID:   v.GameID,
		LeagueID: v.LeagueID,
		PlayedAt: v.Time.UTC().Format(time.RFC3339),
		Players:  append([]string(nil), v.PlayerIDs...),
	}
}
