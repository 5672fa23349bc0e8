package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/wechner/CoGs/internal/domain/leaderboard"
	"github.com/wechner/CoGs/internal/usecase"
)

// GetLeaderboards serves the leaderboard page for the request's option
// set. GET carries the options in the query string, POST additionally
// accepts them form-encoded; either way each key's first value wins.
func (h *Handler) GetLeaderboards(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboards")
	defer span.End()

	params, err := requestParams(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	opts, err := h.leaderboardService.ParseOptions(ctx, sessionDefaults(r), params)
	if err != nil {
		h.logger.WarnContext(ctx, "parse leaderboard options failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	page, err := h.leaderboardService.Page(ctx, boardKey(r), opts)
	if err != nil {
		h.logger.ErrorContext(ctx, "build leaderboard page failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pageToDTO(ctx, page))
}

// GetLeaderboardOptions echoes the fully resolved option set plus its
// headings, without computing any boards. Clients use it to populate
// their filter controls.
func (h *Handler) GetLeaderboardOptions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboardOptions")
	defer span.End()

	params, err := requestParams(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	opts, err := h.leaderboardService.ParseOptions(ctx, sessionDefaults(r), params)
	if err != nil {
		h.logger.WarnContext(ctx, "parse leaderboard options failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	title, subtitle, err := h.leaderboardService.Describe(ctx, opts)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, optionsDTO{
		Title:    title,
		Subtitle: subtitle,
		Options:  opts.AsDict(),
	})
}

func requestParams(r *http.Request) (map[string]string, error) {
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("%w: malformed request parameters: %v", usecase.ErrInvalidInput, err)
	}

	params := make(map[string]string, len(r.Form))
	for key, values := range r.Form {
		if len(values) == 0 {
			continue
		}
		params[key] = values[0]
	}
	return params, nil
}

func sessionDefaults(r *http.Request) leaderboard.SessionDefaults {
	return leaderboard.SessionDefaults{
		PreferredLeagueID: strings.TrimSpace(r.Header.Get(preferredLeagueHeader)),
	}
}

func boardKey(r *http.Request) string {
	key := strings.TrimSpace(r.Header.Get(boardSessionHeader))
	if key == "" {
		return usecase.DefaultBoardKey
	}
	return key
}
