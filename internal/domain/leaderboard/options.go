package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidBoolean is returned when a boolean-valued option carries a
// literal other than true or false. Every other malformed value
// degrades to its default instead.
var ErrInvalidBoolean = errors.New("invalid boolean literal")

// NameStyle selects how player names are rendered.
type NameStyle string

const (
	NamesNick     NameStyle = "nick"
	NamesFull     NameStyle = "full"
	NamesComplete NameStyle = "complete"
)

// LinkStyle selects where player and game names link to.
type LinkStyle string

const (
	LinksNone LinkStyle = "none"
	LinksCoGs LinkStyle = "CoGs"
	LinksBGG  LinkStyle = "BGG"
)

// SessionDefaults carries the per-client defaults an Options value is
// seeded from when the request names no filter at all.
type SessionDefaults struct {
	PreferredLeagueID string
}

// Catalog validates submitted entity ids. Unknown ids are dropped
// from list options, never rejected.
type Catalog interface {
	GameExists(ctx context.Context, gameID string) (bool, error)
	LeagueExists(ctx context.Context, leagueID string) (bool, error)
	PlayerExists(ctx context.Context, playerID string) (bool, error)
}

// Options is the full configuration of one leaderboard request. It is
// built once by NewOptions and read-only afterwards.
type Options struct {
	enabled map[Option]bool

	// Game filters. Games serves both the exclusive and inclusive
	// mode, GameLeagues both the any and all mode, likewise
	// GamePlayers; the enabled flags hold which mode is active.
	Games        []string
	NumGames     int
	GameLeagues  []string
	GamePlayers  []string
	ChangedSince time.Time
	NumDays      int

	// Player filters.
	Players         []string
	NumPlayersTop   int
	NumPlayersAbove int
	NumPlayersBelow int
	MinPlays        int
	PlayedSince     time.Time
	PlayerLeagues   []string

	// Perspective.
	AsAt time.Time

	// Evolution. CompareBackTo and CompareBackToDays are the two
	// encodings of compare_back_to; at most one is set.
	CompareWith       int
	CompareBackTo     time.Time
	CompareBackToDays int

	// Formatting, info and layout. Always active.
	HighlightPlayers  bool
	HighlightChanges  bool
	HighlightSelected bool
	Names             NameStyle
	Links             LinkStyle
	Details           bool
	AnalysisPre       bool
	AnalysisPost      bool
	Cols              int
}

func defaultOptions() *Options {
	return &Options{
		enabled:           make(map[Option]bool),
		NumGames:          6,
		NumDays:           1,
		NumPlayersTop:     10,
		NumPlayersAbove:   2,
		NumPlayersBelow:   2,
		MinPlays:          2,
		CompareWith:       1,
		HighlightPlayers:  true,
		HighlightChanges:  true,
		HighlightSelected: true,
		Names:             NamesNick,
		Links:             LinksCoGs,
		Cols:              3,
	}
}

// NewOptions builds an Options from session defaults and the flat
// request parameters. Only malformed boolean literals and catalog
// lookup failures are reported; every other malformed value falls
// back to its default.
func NewOptions(ctx context.Context, defaults SessionDefaults, params map[string]string, catalog Catalog) (*Options, error) {
	o := defaultOptions()

	if !hasRecognizedKey(params) {
		// The no-filter baseline: most popular games, top players,
		// scoped to the client's league when one is known.
		o.enabled[OptTopGames] = true
		o.enabled[OptNumPlayersTop] = true
		if defaults.PreferredLeagueID != "" {
			ok, err := catalog.LeagueExists(ctx, defaults.PreferredLeagueID)
			if err != nil {
				return nil, fmt.Errorf("validate preferred league: %w", err)
			}
			if ok {
				o.GameLeagues = []string{defaults.PreferredLeagueID}
				o.enabled[OptGameLeaguesAny] = true
			}
		}
		return o, nil
	}

	if err := o.parseGameFilters(ctx, params, catalog); err != nil {
		return nil, err
	}
	if err := o.parsePlayerFilters(ctx, params, catalog); err != nil {
		return nil, err
	}
	o.parsePerspective(params)
	o.parseEvolution(params)
	if err := o.parsePresentation(params); err != nil {
		return nil, err
	}

	return o, nil
}

func (o *Options) parseGameFilters(ctx context.Context, params map[string]string, catalog Catalog) error {
	for _, opt := range []Option{OptGamesEx, OptGamesIn} {
		raw, ok := params[string(opt)]
		if !ok {
			continue
		}
		games, err := knownIDs(ctx, splitCSV(raw), catalog.GameExists)
		if err != nil {
			return fmt.Errorf("validate %s: %w", opt, err)
		}
		if len(games) > 0 && o.enable(opt) {
			o.Games = games
		}
	}

	if n, ok := digits(params[string(OptTopGames)]); ok && n > 0 && o.enable(OptTopGames) {
		o.NumGames = n
	}
	if n, ok := digits(params[string(OptLatestGames)]); ok && n > 0 && o.enable(OptLatestGames) {
		o.NumGames = n
	}

	for _, opt := range []Option{OptGameLeaguesAny, OptGameLeaguesAll} {
		raw, ok := params[string(opt)]
		if !ok {
			continue
		}
		leagues, err := knownIDs(ctx, splitCSV(raw), catalog.LeagueExists)
		if err != nil {
			return fmt.Errorf("validate %s: %w", opt, err)
		}
		if len(leagues) > 0 && o.enable(opt) {
			o.GameLeagues = leagues
		}
	}

	for _, opt := range []Option{OptGamePlayersAny, OptGamePlayersAll} {
		raw, ok := params[string(opt)]
		if !ok {
			continue
		}
		players, err := knownIDs(ctx, splitCSV(raw), catalog.PlayerExists)
		if err != nil {
			return fmt.Errorf("validate %s: %w", opt, err)
		}
		if len(players) > 0 && o.enable(opt) {
			o.GamePlayers = players
		}
	}

	if t, ok := parseDateTime(params[string(OptChangedSince)]); ok && o.enable(OptChangedSince) {
		o.ChangedSince = t
	}
	if n, ok := digits(params[string(OptNumDays)]); ok && n > 0 && o.enable(OptNumDays) {
		o.NumDays = n
	}

	return nil
}

func (o *Options) parsePlayerFilters(ctx context.Context, params map[string]string, catalog Catalog) error {
	for _, opt := range []Option{OptPlayersEx, OptPlayersIn} {
		raw, ok := params[string(opt)]
		if !ok {
			continue
		}
		players, err := knownIDs(ctx, splitCSV(raw), catalog.PlayerExists)
		if err != nil {
			return fmt.Errorf("validate %s: %w", opt, err)
		}
		if len(players) == 0 {
			// An empty list falls back to the game-participation
			// players, so one submitted set can drive both filters.
			players = append([]string(nil), o.GamePlayers...)
		}
		if len(players) > 0 && o.enable(opt) {
			o.Players = players
		}
	}

	if n, ok := digits(params[string(OptNumPlayersTop)]); ok && n > 0 && o.enable(OptNumPlayersTop) {
		o.NumPlayersTop = n
	}
	if n, ok := digits(params[string(OptNumPlayersAbove)]); ok && n > 0 && o.enable(OptNumPlayersAbove) {
		o.NumPlayersAbove = n
	}
	if n, ok := digits(params[string(OptNumPlayersBelow)]); ok && n > 0 && o.enable(OptNumPlayersBelow) {
		o.NumPlayersBelow = n
	}
	if n, ok := digits(params[string(OptMinPlays)]); ok && n > 0 && o.enable(OptMinPlays) {
		o.MinPlays = n
	}
	if t, ok := parseDateTime(params[string(OptPlayedSince)]); ok && o.enable(OptPlayedSince) {
		o.PlayedSince = t
	}

	for _, opt := range []Option{OptPlayerLeaguesAny, OptPlayerLeaguesAll} {
		raw, ok := params[string(opt)]
		if !ok {
			continue
		}
		leagues, err := knownIDs(ctx, splitCSV(raw), catalog.LeagueExists)
		if err != nil {
			return fmt.Errorf("validate %s: %w", opt, err)
		}
		if len(leagues) > 0 && o.enable(opt) {
			o.PlayerLeagues = leagues
		}
	}

	return nil
}

func (o *Options) parsePerspective(params map[string]string) {
	if t, ok := parseDateTime(params[string(OptAsAt)]); ok && o.enable(OptAsAt) {
		o.AsAt = t
	}
}

func (o *Options) parseEvolution(params map[string]string) {
	if n, ok := digits(params[string(OptCompareWith)]); ok && n > 0 && o.enable(OptCompareWith) {
		o.CompareWith = n
	}

	raw, ok := params[string(OptCompareBackTo)]
	if !ok {
		return
	}
	if n, ok := digits(raw); ok && n > 0 {
		if o.enable(OptCompareBackTo) {
			o.CompareBackToDays = n
		}
		return
	}
	if t, ok := parseDateTime(raw); ok && o.enable(OptCompareBackTo) {
		o.CompareBackTo = t
	}
}

func (o *Options) parsePresentation(params map[string]string) error {
	bools := []struct {
		opt  Option
		dest *bool
	}{
		{OptHighlightPlayers, &o.HighlightPlayers},
		{OptHighlightChanges, &o.HighlightChanges},
		{OptHighlightSelected, &o.HighlightSelected},
		{OptDetails, &o.Details},
		{OptAnalysisPre, &o.AnalysisPre},
		{OptAnalysisPost, &o.AnalysisPost},
	}
	for _, b := range bools {
		raw, ok := params[string(b.opt)]
		if !ok {
			continue
		}
		v, err := parseBool(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", b.opt, err)
		}
		*b.dest = v
	}

	if raw, ok := params[string(OptNames)]; ok {
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case string(NamesNick):
			o.Names = NamesNick
		case string(NamesFull):
			o.Names = NamesFull
		case string(NamesComplete):
			o.Names = NamesComplete
		}
	}
	if raw, ok := params[string(OptLinks)]; ok {
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "none":
			o.Links = LinksNone
		case "cogs":
			o.Links = LinksCoGs
		case "bgg":
			o.Links = LinksBGG
		}
	}
	if n, ok := digits(params[string(OptCols)]); ok && n > 0 {
		o.Cols = n
	}

	return nil
}

// enable turns opt on unless its exclusive sibling already won.
// Whichever sibling is recognized first in parse order wins.
func (o *Options) enable(opt Option) bool {
	if sibling, ok := exclusiveSibling[opt]; ok && o.enabled[sibling] {
		return false
	}
	o.enabled[opt] = true
	return true
}

// IsEnabled reports whether opt is active. Formatting, info and
// layout options are always active; the rest need explicit enabling.
func (o *Options) IsEnabled(opt Option) bool {
	if !needsEnabling.has(opt) {
		return true
	}
	return o.enabled[opt]
}

// EnabledOptions returns the explicitly enabled options, sorted.
func (o *Options) EnabledOptions() []Option {
	out := make([]Option, 0, len(o.enabled))
	for opt, on := range o.enabled {
		if on {
			out = append(out, opt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// PlayerFiltersActive reports whether any player filter is enabled.
func (o *Options) PlayerFiltersActive() bool {
	for opt := range playerFilters {
		if o.enabled[opt] {
			return true
		}
	}
	return false
}

// NoEvolution reports whether only the latest snapshot is wanted.
func (o *Options) NoEvolution() bool {
	return !o.enabled[OptCompareWith] && !o.enabled[OptCompareBackTo]
}

// PlayerNominated reports whether an explicit player list is active
// and names playerID.
func (o *Options) PlayerNominated(playerID string) bool {
	if !o.enabled[OptPlayersIn] && !o.enabled[OptPlayersEx] {
		return false
	}
	return containsString(o.Players, playerID)
}

// PlayerPasses evaluates the player-inclusion criteria for one row.
// An explicitly included player always passes. League membership is a
// hard gate. The remaining criteria combine with OR when a top-N
// truncation is active (one qualifying reason admits) and with AND
// otherwise (full boards drop anyone failing any active criterion).
func (o *Options) PlayerPasses(playerID string, plays int, lastPlay time.Time, leagueIDs []string) bool {
	if o.enabled[OptPlayersIn] && containsString(o.Players, playerID) {
		return true
	}

	if o.enabled[OptPlayerLeaguesAny] && !intersects(leagueIDs, o.PlayerLeagues) {
		return false
	}
	if o.enabled[OptPlayerLeaguesAll] && !containsAll(leagueIDs, o.PlayerLeagues) {
		return false
	}

	var checks []bool
	if o.enabled[OptMinPlays] {
		checks = append(checks, plays >= o.MinPlays)
	}
	if o.enabled[OptPlayedSince] {
		checks = append(checks, !lastPlay.Before(o.PlayedSince))
	}

	if o.enabled[OptNumPlayersTop] {
		for _, ok := range checks {
			if ok {
				return true
			}
		}
		return false
	}
	for _, ok := range checks {
		if !ok {
			return false
		}
	}
	return true
}

func hasRecognizedKey(params map[string]string) bool {
	for key := range params {
		opt := Option(key)
		if needsEnabling.has(opt) || formattingOptions.has(opt) ||
			infoOptions.has(opt) || layoutOptions.has(opt) {
			return true
		}
	}
	return false
}

func knownIDs(ctx context.Context, ids []string, exists func(context.Context, string) (bool, error)) ([]string, error) {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		ok, err := exists(ctx, id)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, id)
		}
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// digits accepts only strings composed entirely of decimal digits.
func digits(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("%w: %q", ErrInvalidBoolean, raw)
}

const (
	timeLayoutZoned = "2006-01-02 15:04:05-0700"
	timeLayoutPlain = "2006-01-02 15:04:05"
)

// parseDateTime accepts the constrained encoding clients transmit,
// where ':' may arrive as '-', the date/time separator as '+' or a
// space, and a timezone '+' as a space. Malformed input is unset.
func parseDateTime(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	fixed := decodeDateTime(raw)
	for _, layout := range []string{timeLayoutZoned, timeLayoutPlain, time.RFC3339} {
		if t, err := time.Parse(layout, fixed); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func decodeDateTime(raw string) string {
	if len(raw) != 19 && len(raw) != 24 {
		return raw
	}
	b := []byte(raw)
	if len(b) == 24 && b[len(b)-5] == ' ' {
		b[len(b)-5] = '+'
	}
	if b[10] == '+' {
		b[10] = ' '
	}
	if b[13] == '-' {
		b[13] = ':'
	}
	if b[16] == '-' {
		b[16] = ':'
	}
	return string(b)
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// intersects reports whether the two sets share any member.
func intersects(have, want []string) bool {
	for _, w := range want {
		if containsString(have, w) {
			return true
		}
	}
	return false
}

// containsAll reports whether have includes every member of want.
func containsAll(have, want []string) bool {
	for _, w := range want {
		if !containsString(have, w) {
			return false
		}
	}
	return true
}
