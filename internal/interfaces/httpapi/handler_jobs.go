package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/wechner/CoGs/internal/usecase"
)

type warmBoardsRequest struct {
	BoardKey string `json:"board_key"`
	Workers  int    `json:"workers" validate:"min=0,max=64"`
}

type warmBoardsResponse struct {
	BoardKey string `json:"board_key"`
	Games    int    `json:"games"`
}

// RunWarmBoardsJob precomputes the baseline leaderboards so the first
// page view after a deploy is served from cache. An empty body warms
// the shared global slot with the default worker count.
func (h *Handler) RunWarmBoardsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunWarmBoardsJob")
	defer span.End()

	req, err := decodeWarmBoardsRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	boardKey := req.BoardKey
	if boardKey == "" {
		boardKey = usecase.DefaultBoardKey
	}

	games, err := h.leaderboardService.WarmBoards(ctx, boardKey, req.Workers)
	if err != nil {
		h.logger.WarnContext(ctx, "warm boards job failed", "board_key", boardKey, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, warmBoardsResponse{
		BoardKey: boardKey,
		Games:    games,
	})
}

func decodeWarmBoardsRequest(r *http.Request) (warmBoardsRequest, error) {
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req warmBoardsRequest
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return warmBoardsRequest{}, nil
		}
		return warmBoardsRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return req, nil
}
