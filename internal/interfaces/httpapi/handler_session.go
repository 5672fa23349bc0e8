package httpapi

import (
	"fmt"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/wechner/CoGs/internal/usecase"
)

type recordSessionRequest struct {
	GameID   string     `json:"game_id" validate:"required"`
	LeagueID string     `json:"league_id"`
	PlayedAt string     `json:"played_at" validate:"required"`
	Teams    [][]string `json:"teams" validate:"required,min=1,dive,required,min=1,dive,required"`
}

// RecordSession records one play. Teams are listed in finishing order,
// best placed first; solo play is a list of one-player teams.
func (h *Handler) RecordSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordSession")
	defer span.End()

	var req recordSessionRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	playedAt, err := time.Parse(time.RFC3339, req.PlayedAt)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: played_at must be RFC 3339: %v", usecase.ErrInvalidInput, err))
		return
	}

	saved, err := h.sessionService.Record(ctx, usecase.RecordSessionInput{
		GameID:   req.GameID,
		LeagueID: req.LeagueID,
		Time:     playedAt,
		Teams:    req.Teams,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "record session failed", "game_id", req.GameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, sessionToDTO(saved))
}
